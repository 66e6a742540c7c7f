package service

import (
	"context"
	"testing"

	"fittrack/fitness-app/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAnalyticsSummary(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, true)
	require.NoError(t, f.repos.Plans.Save(ctx, f.user.ID, testPlan("p")))
	seedLogs(t, f, "2024-06-01", "2024-06-02")
	_, err := f.repos.Logs.Save(ctx, f.user.ID, domain.LogUpdate{
		Date: testToday, WaterIntake: intPtr(3000),
		Details: map[string]bool{"exercise-ex-a": true, "meal-m-a": true, "meal-m-b": true},
	})
	require.NoError(t, err)
	svc := NewAnalyticsService(f.repos, testClock())

	s, err := svc.Summary(ctx, f.user.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, s.Streak)
	assert.Equal(t, 3, s.TotalLogs)
	assert.Equal(t, 2000.0, s.AverageWater)
	assert.Equal(t, 75, s.TodayCompletion)
	assert.Equal(t, 1, s.CompletedWorkouts)
}

func TestAnalyticsChart(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, true)
	seedLogs(t, f, "2024-06-03", "2024-05-27", "2024-05-28")
	svc := NewAnalyticsService(f.repos, testClock())

	chart, err := svc.Chart(ctx, f.user.ID, domain.RangeWeekly)
	require.NoError(t, err)
	assert.Equal(t, "kg", chart.WeightLabel)
	require.Len(t, chart.Points, 2)
	assert.Equal(t, "2024-05-26", chart.Points[0].Key)
	assert.Equal(t, 2, chart.Points[0].Count)
	assert.Equal(t, "2024-06-02", chart.Points[1].Key)

	_, err = svc.Chart(ctx, f.user.ID, "hourly")
	assert.ErrorIs(t, err, ErrInvalidInput)
}
