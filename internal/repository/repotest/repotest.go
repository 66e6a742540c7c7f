// Package repotest holds the behaviour every repository driver must share.
// Drivers call Run from their own tests.
package repotest

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"fittrack/fitness-app/internal/domain"
	"fittrack/fitness-app/internal/repository"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Run exercises repos. IDs and emails are random so the suite can run
// against a database that already holds data.
func Run(t *testing.T, repos repository.Repositories) {
	t.Run("Users", func(t *testing.T) { testUsers(t, repos) })
	t.Run("Logs", func(t *testing.T) { testLogs(t, repos) })
	t.Run("ConcurrentLogUpdates", func(t *testing.T) { testConcurrentLogUpdates(t, repos) })
	t.Run("Plans", func(t *testing.T) { testPlans(t, repos) })
	t.Run("Chats", func(t *testing.T) { testChats(t, repos) })
	t.Run("SessionAndTheme", func(t *testing.T) { testSessionAndTheme(t, repos) })
}

func newUser() *domain.User {
	id := uuid.NewString()
	return &domain.User{
		ID:           id,
		Email:        id + "@example.com",
		PasswordHash: "hash",
		CreatedAt:    time.Now().UTC().Truncate(time.Millisecond),
	}
}

func testUsers(t *testing.T, repos repository.Repositories) {
	ctx := context.Background()
	u := newUser()
	require.NoError(t, repos.Users.Create(ctx, u))

	dup := newUser()
	dup.Email = u.Email
	assert.ErrorIs(t, repos.Users.Create(ctx, dup), repository.ErrDuplicateEmail)
	_, err := repos.Users.GetByID(ctx, dup.ID)
	assert.ErrorIs(t, err, repository.ErrNotFound, "a rejected duplicate is not stored")

	got, err := repos.Users.GetByEmail(ctx, u.Email)
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)
	assert.Equal(t, "hash", got.PasswordHash)
	assert.True(t, u.CreatedAt.Equal(got.CreatedAt))
	assert.Nil(t, got.Profile)

	profile := &domain.Profile{
		Name: "Ana", Age: 30, Gender: domain.GenderFemale, Height: 168, Weight: 61.5,
		Units: domain.UnitsMetric, Restrictions: []string{"Gluten-Free"},
	}
	require.NoError(t, repos.Users.UpdateProfile(ctx, u.ID, profile))
	got, err = repos.Users.GetByID(ctx, u.ID)
	require.NoError(t, err)
	require.NotNil(t, got.Profile)
	assert.Equal(t, 61.5, got.Profile.Weight)
	assert.Equal(t, []string{"Gluten-Free"}, got.Profile.Restrictions)

	assert.ErrorIs(t, repos.Users.UpdateProfile(ctx, uuid.NewString(), profile), repository.ErrNotFound)

	users, err := repos.Users.List(ctx)
	require.NoError(t, err)
	found := false
	for _, x := range users {
		found = found || x.ID == u.ID
	}
	assert.True(t, found)
}

func testLogs(t *testing.T, repos repository.Repositories) {
	ctx := context.Background()
	userID := uuid.NewString()
	weight, water, calories, done := 70.0, 500, 1800, true

	_, err := repos.Logs.Save(ctx, userID, domain.LogUpdate{
		Date: "2024-06-05", Weight: &weight, WaterIntake: &water,
		Details: map[string]bool{"exercise-a": true},
	})
	require.NoError(t, err)
	_, err = repos.Logs.Save(ctx, userID, domain.LogUpdate{Date: "2024-06-01", WorkoutCompleted: &done})
	require.NoError(t, err)

	saved, err := repos.Logs.Save(ctx, userID, domain.LogUpdate{Date: "2024-06-05", CaloriesConsumed: &calories})
	require.NoError(t, err)
	assert.Equal(t, 70.0, saved.Weight, "fields not provided keep their value")
	assert.Equal(t, 500, saved.WaterIntake)
	require.NotNil(t, saved.CaloriesConsumed)
	assert.Equal(t, 1800, *saved.CaloriesConsumed)
	assert.True(t, saved.Details["exercise-a"])

	_, err = repos.Logs.Save(ctx, userID, domain.LogUpdate{Date: "2024-06-05", Details: map[string]bool{"meal-b": true}})
	require.NoError(t, err)

	logs, err := repos.Logs.List(ctx, userID)
	require.NoError(t, err)
	require.Len(t, logs, 2, "one log per date")
	assert.Equal(t, "2024-06-05", logs[0].Date, "insertion order, not date order")
	assert.Equal(t, "2024-06-01", logs[1].Date)
	assert.Equal(t, map[string]bool{"meal-b": true}, logs[0].Details, "details are replaced wholesale")

	none, err := repos.Logs.List(ctx, uuid.NewString())
	require.NoError(t, err)
	assert.Empty(t, none)
}

// testConcurrentLogUpdates races increments and detail toggles on one date;
// none of them may be lost, including the ones that create the log.
func testConcurrentLogUpdates(t *testing.T, repos repository.Repositories) {
	ctx := context.Background()
	userID := uuid.NewString()
	const writers = 8

	var wg sync.WaitGroup
	errs := make(chan error, writers)
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			key := fmt.Sprintf("meal-%d", i)
			_, err := repos.Logs.Update(ctx, userID, "2024-06-03", func(entry *domain.ProgressLog, _ bool) error {
				entry.WaterIntake += 250
				details := domain.CopyDetails(entry.Details)
				if details == nil {
					details = map[string]bool{}
				}
				details[key] = true
				entry.Details = details
				return nil
			})
			errs <- err
		}(i)
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}

	logs, err := repos.Logs.List(ctx, userID)
	require.NoError(t, err)
	require.Len(t, logs, 1)
	assert.Equal(t, writers*250, logs[0].WaterIntake)
	assert.Len(t, logs[0].Details, writers)
}

func testPlans(t *testing.T, repos repository.Repositories) {
	ctx := context.Background()
	userID := uuid.NewString()

	plan, err := repos.Plans.Get(ctx, userID)
	require.NoError(t, err)
	assert.Nil(t, plan)

	p := &domain.WeeklyPlan{GeneratedAt: 1717400000000, WeeklySummary: "first", Days: make([]domain.DailyPlan, domain.DaysPerPlan)}
	p.Days[0].Workout.Exercises = []domain.Exercise{{ID: "a", Name: "Squat", Sets: "3", Reps: "10"}}
	require.NoError(t, repos.Plans.Save(ctx, userID, p))
	p.WeeklySummary = "second"
	require.NoError(t, repos.Plans.Save(ctx, userID, p))

	got, err := repos.Plans.Get(ctx, userID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "second", got.WeeklySummary)
	assert.Equal(t, int64(1717400000000), got.GeneratedAt)
	require.Len(t, got.Days, domain.DaysPerPlan)
	assert.Equal(t, "Squat", got.Days[0].Workout.Exercises[0].Name)
}

func testChats(t *testing.T, repos repository.Repositories) {
	ctx := context.Background()
	userID := uuid.NewString()

	h, err := repos.Chats.Get(ctx, userID)
	require.NoError(t, err)
	assert.Empty(t, h)

	history := []domain.ChatMessage{{Role: domain.RoleUser, Text: "hi"}, {Role: domain.RoleModel, Text: "hello"}}
	require.NoError(t, repos.Chats.Save(ctx, userID, history))
	h, err = repos.Chats.Get(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, history, h)
}

func testSessionAndTheme(t *testing.T, repos repository.Repositories) {
	ctx := context.Background()
	userID := uuid.NewString()

	require.NoError(t, repos.Sessions.Set(ctx, userID))
	id, err := repos.Sessions.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, userID, id)
	require.NoError(t, repos.Sessions.Clear(ctx))
	id, err = repos.Sessions.Get(ctx)
	require.NoError(t, err)
	assert.Empty(t, id)

	require.NoError(t, repos.Settings.SetTheme(ctx, domain.ThemeDark))
	theme, err := repos.Settings.GetTheme(ctx)
	require.NoError(t, err)
	assert.Equal(t, domain.ThemeDark, theme)
	require.NoError(t, repos.Settings.SetTheme(ctx, domain.ThemeLight))
}
