package service

import (
	"context"
	"testing"

	"fittrack/fitness-app/internal/coach"
	"fittrack/fitness-app/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestGenerate(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, true)
	svc := NewPlanService(f.repos, f.coach, testClock())

	first, second := testPlan("first"), testPlan("second")
	f.coach.On("GenerateWeeklyPlan", mock.Anything, mock.AnythingOfType("*domain.Profile")).Return(first, nil).Once()
	f.coach.On("GenerateWeeklyPlan", mock.Anything, mock.AnythingOfType("*domain.Profile")).Return(second, nil).Once()

	out, err := svc.Generate(ctx, f.user.ID)
	require.NoError(t, err)
	assert.Nil(t, out.Previous)
	assert.Equal(t, "first", out.Plan.WeeklySummary)

	out, err = svc.Generate(ctx, f.user.ID)
	require.NoError(t, err)
	require.NotNil(t, out.Previous)
	assert.Equal(t, "first", out.Previous.WeeklySummary)

	stored, err := svc.Get(ctx, f.user.ID)
	require.NoError(t, err)
	assert.Equal(t, "second", stored.WeeklySummary)
	f.coach.AssertExpectations(t)
}

func TestGenerate_FailureKeepsPreviousPlan(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, true)
	require.NoError(t, f.repos.Plans.Save(ctx, f.user.ID, testPlan("kept")))
	svc := NewPlanService(f.repos, f.coach, testClock())

	f.coach.On("GenerateWeeklyPlan", mock.Anything, mock.Anything).Return(nil, coach.ErrCollaborator)
	_, err := svc.Generate(ctx, f.user.ID)
	assert.ErrorIs(t, err, coach.ErrCollaborator)

	stored, err := svc.Get(ctx, f.user.ID)
	require.NoError(t, err)
	assert.Equal(t, "kept", stored.WeeklySummary)
}

func TestGenerate_RequiresProfile(t *testing.T) {
	f := newFixture(t, false)
	svc := NewPlanService(f.repos, f.coach, testClock())
	_, err := svc.Generate(context.Background(), f.user.ID)
	assert.ErrorIs(t, err, ErrProfileRequired)
	f.coach.AssertNotCalled(t, "GenerateWeeklyPlan", mock.Anything, mock.Anything)
}

func TestDay(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, true)
	svc := NewPlanService(f.repos, f.coach, testClock())

	_, err := svc.Day(ctx, f.user.ID, "")
	assert.ErrorIs(t, err, ErrPlanNotFound)

	require.NoError(t, f.repos.Plans.Save(ctx, f.user.ID, testPlan("p")))
	_, err = f.repos.Logs.Save(ctx, f.user.ID, domain.LogUpdate{
		Date:    testToday,
		Details: map[string]bool{"exercise-ex-a": true, "meal-m-b": true, "exercise-0": true},
	})
	require.NoError(t, err)

	view, err := svc.Day(ctx, f.user.ID, "")
	require.NoError(t, err)
	assert.Equal(t, testToday, view.Date)
	assert.Equal(t, "Monday", view.DayName)
	assert.Equal(t, 0, view.Index)
	assert.True(t, view.Editable)
	assert.Equal(t, 50, view.Completion, "the stale positional key is ignored")
	require.Len(t, view.Items, 4)
	assert.Equal(t, ItemView{
		Key: "exercise-ex-a", Kind: "exercise", Name: "Squat", Done: true,
		Link: "https://www.youtube.com/results?search_query=Squat+exercise+form",
	}, view.Items[0])
	assert.Equal(t, "https://www.google.com/search?q=Oats+recipe", view.Items[2].Link)
	assert.False(t, view.Items[1].Done)

	// Sunday maps to the last plan day and is read-only.
	sunday, err := svc.Day(ctx, f.user.ID, "2024-06-02")
	require.NoError(t, err)
	assert.Equal(t, 6, sunday.Index)
	assert.False(t, sunday.Editable)
	assert.Equal(t, "exercise-0", sunday.Items[0].Key)

	_, err = svc.Day(ctx, f.user.ID, "06/03/2024")
	assert.ErrorIs(t, err, ErrInvalidInput)
}
