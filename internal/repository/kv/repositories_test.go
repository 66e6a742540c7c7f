package kv

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"fittrack/fitness-app/internal/domain"
	"fittrack/fitness-app/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intPtr(v int) *int { return &v }
func floatPtr(v float64) *float64 { return &v }
func boolPtr(v bool) *bool { return &v }
func newRepos() repository.Repositories { return NewRepositories(NewMemoryStore()) }

func testUser(id, email string) *domain.User {
	return &domain.User{ID: id, Email: email, PasswordHash: "hash", CreatedAt: time.UnixMilli(1717400000000).UTC()}
}

func TestUsers_EmptyStore(t *testing.T) {
	repos := newRepos()
	users, err := repos.Users.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, users)

	_, err = repos.Users.GetByEmail(context.Background(), "nobody@example.com")
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestUsers_DuplicateEmailDoesNotMutate(t *testing.T) {
	ctx := context.Background()
	repos := newRepos()
	require.NoError(t, repos.Users.Create(ctx, testUser("u1", "a@example.com")))

	err := repos.Users.Create(ctx, testUser("u2", "a@example.com"))
	assert.ErrorIs(t, err, repository.ErrDuplicateEmail)

	users, err := repos.Users.List(ctx)
	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.Equal(t, "u1", users[0].ID)
	assert.Equal(t, "hash", users[0].PasswordHash, "hash survives the JSON round trip")
}

func TestUsers_UpdateProfile(t *testing.T) {
	ctx := context.Background()
	repos := newRepos()
	require.NoError(t, repos.Users.Create(ctx, testUser("u1", "a@example.com")))

	profile := &domain.Profile{Name: "Ana", Weight: 61.5, Height: 168, Units: domain.UnitsMetric}
	require.NoError(t, repos.Users.UpdateProfile(ctx, "u1", profile))

	u, err := repos.Users.GetByID(ctx, "u1")
	require.NoError(t, err)
	require.NotNil(t, u.Profile)
	assert.Equal(t, 61.5, u.Profile.Weight)

	assert.ErrorIs(t, repos.Users.UpdateProfile(ctx, "missing", profile), repository.ErrNotFound)
}

func TestLogs_SameDateMerges(t *testing.T) {
	ctx := context.Background()
	repos := newRepos()

	_, err := repos.Logs.Save(ctx, "u1", domain.LogUpdate{
		Date: "2024-06-03", Weight: floatPtr(70), WaterIntake: intPtr(500),
		Details: map[string]bool{"exercise-0": true},
	})
	require.NoError(t, err)
	saved, err := repos.Logs.Save(ctx, "u1", domain.LogUpdate{Date: "2024-06-03", WaterIntake: intPtr(1250)})
	require.NoError(t, err)
	assert.Equal(t, 1250, saved.WaterIntake)

	logs, err := repos.Logs.List(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, logs, 1)
	assert.Equal(t, 1250, logs[0].WaterIntake)
	assert.Equal(t, 70.0, logs[0].Weight, "unprovided fields keep their value")
	assert.True(t, logs[0].Details["exercise-0"], "details untouched when not provided")
}

func TestLogs_DetailsReplacedWholesale(t *testing.T) {
	ctx := context.Background()
	repos := newRepos()
	_, err := repos.Logs.Save(ctx, "u1", domain.LogUpdate{Date: "2024-06-03", Details: map[string]bool{"exercise-0": true}})
	require.NoError(t, err)
	_, err = repos.Logs.Save(ctx, "u1", domain.LogUpdate{Date: "2024-06-03", Details: map[string]bool{"meal-1": true}})
	require.NoError(t, err)

	logs, err := repos.Logs.List(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, map[string]bool{"meal-1": true}, logs[0].Details)
}

func TestLogs_InsertionOrderAndPartitioning(t *testing.T) {
	ctx := context.Background()
	repos := newRepos()
	for _, d := range []string{"2024-06-05", "2024-06-01", "2024-06-03"} {
		_, err := repos.Logs.Save(ctx, "u1", domain.LogUpdate{Date: d, WorkoutCompleted: boolPtr(true)})
		require.NoError(t, err)
	}
	_, err := repos.Logs.Save(ctx, "u2", domain.LogUpdate{Date: "2024-06-01"})
	require.NoError(t, err)

	logs, err := repos.Logs.List(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, logs, 3)
	assert.Equal(t, "2024-06-05", logs[0].Date)
	assert.Equal(t, "2024-06-03", logs[2].Date)

	other, err := repos.Logs.List(ctx, "u2")
	require.NoError(t, err)
	assert.Len(t, other, 1)

	none, err := repos.Logs.List(ctx, "u3")
	require.NoError(t, err)
	assert.NotNil(t, none)
	assert.Empty(t, none)
}

func TestPlans_SaveAndGet(t *testing.T) {
	ctx := context.Background()
	repos := newRepos()

	plan, err := repos.Plans.Get(ctx, "u1")
	require.NoError(t, err)
	assert.Nil(t, plan)

	p := &domain.WeeklyPlan{GeneratedAt: 1, WeeklySummary: "first", Days: make([]domain.DailyPlan, 7)}
	require.NoError(t, repos.Plans.Save(ctx, "u1", p))
	p.WeeklySummary = "second"
	require.NoError(t, repos.Plans.Save(ctx, "u1", p))

	got, err := repos.Plans.Get(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, "second", got.WeeklySummary)
	assert.Len(t, got.Days, 7)
}

func TestChat_OverwriteAndDefault(t *testing.T) {
	ctx := context.Background()
	repos := newRepos()

	h, err := repos.Chats.Get(ctx, "u1")
	require.NoError(t, err)
	assert.Empty(t, h)

	history := []domain.ChatMessage{{Role: domain.RoleUser, Text: "hi"}, {Role: domain.RoleModel, Text: "hello"}}
	require.NoError(t, repos.Chats.Save(ctx, "u1", history))
	require.NoError(t, repos.Chats.Save(ctx, "u1", history[:1]))

	h, err = repos.Chats.Get(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, history[:1], h)
}

func TestSessionAndTheme(t *testing.T) {
	ctx := context.Background()
	repos := newRepos()

	id, err := repos.Sessions.Get(ctx)
	require.NoError(t, err)
	assert.Empty(t, id)
	require.NoError(t, repos.Sessions.Set(ctx, "u1"))
	id, err = repos.Sessions.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, "u1", id)
	require.NoError(t, repos.Sessions.Clear(ctx))
	id, err = repos.Sessions.Get(ctx)
	require.NoError(t, err)
	assert.Empty(t, id)

	theme, err := repos.Settings.GetTheme(ctx)
	require.NoError(t, err)
	assert.Equal(t, domain.ThemeLight, theme)
	require.NoError(t, repos.Settings.SetTheme(ctx, domain.ThemeDark))
	theme, err = repos.Settings.GetTheme(ctx)
	require.NoError(t, err)
	assert.Equal(t, domain.ThemeDark, theme)
	assert.Error(t, repos.Settings.SetTheme(ctx, "sepia"))
}

func TestCorruptedPayloadIsReported(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	repos := NewRepositories(store)
	require.NoError(t, store.Set(ctx, keyLogsPrefix+"u1", []byte("{not json")))
	require.NoError(t, store.Set(ctx, keyTheme, []byte("purple")))

	_, err := repos.Logs.List(ctx, "u1")
	assert.True(t, repository.IsCorruption(err))

	_, err = repos.Logs.Save(ctx, "u1", domain.LogUpdate{Date: "2024-06-03"})
	assert.True(t, repository.IsCorruption(err))

	raw, _, _ := store.Get(ctx, keyLogsPrefix+"u1")
	assert.Equal(t, "{not json", string(raw), "a failed update leaves the payload as it was")

	_, err = repos.Settings.GetTheme(ctx)
	assert.True(t, repository.IsCorruption(err))
}

func TestFileStore_PersistsAcrossOpens(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "state", "fittrack.json")

	store, err := OpenFileStore(path)
	require.NoError(t, err)
	repos := NewRepositories(store)
	require.NoError(t, repos.Users.Create(ctx, testUser("u1", "a@example.com")))
	require.NoError(t, repos.Sessions.Set(ctx, "u1"))

	reopened, err := OpenFileStore(path)
	require.NoError(t, err)
	repos = NewRepositories(reopened)
	id, err := repos.Sessions.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, "u1", id)
	u, err := repos.Users.GetByEmail(ctx, "a@example.com")
	require.NoError(t, err)
	assert.Equal(t, "u1", u.ID)
}

// brokenFileStore returns a snapshot-backed store whose snapshot can never
// be written: its directory would have to live under a regular file.
func brokenFileStore(t *testing.T) *MemoryStore {
	t.Helper()
	blocker := filepath.Join(t.TempDir(), "blocker")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0o600))
	return &MemoryStore{data: make(map[string][]byte), path: filepath.Join(blocker, "state", "fittrack.json")}
}

func TestMemoryStore_FailedSnapshotKeepsPreviousValue(t *testing.T) {
	ctx := context.Background()
	store := brokenFileStore(t)
	store.data["k"] = []byte("old")

	assert.Error(t, store.Set(ctx, "k", []byte("new")))
	assert.Error(t, store.Set(ctx, "fresh", []byte("v")))
	assert.Error(t, store.Update(ctx, "k", func([]byte, bool) ([]byte, error) { return []byte("new"), nil }))
	assert.Error(t, store.Delete(ctx, "k"))

	v, ok, err := store.Get(ctx, "k")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "old", string(v))
	_, ok, err = store.Get(ctx, "fresh")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestLogs_Update(t *testing.T) {
	ctx := context.Background()
	repos := newRepos()

	saved, err := repos.Logs.Update(ctx, "u1", "2024-06-03", func(entry *domain.ProgressLog, exists bool) error {
		assert.False(t, exists)
		assert.Equal(t, "2024-06-03", entry.Date)
		entry.WaterIntake = 250
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 250, saved.WaterIntake)

	saved, err = repos.Logs.Update(ctx, "u1", "2024-06-03", func(entry *domain.ProgressLog, exists bool) error {
		assert.True(t, exists)
		entry.WaterIntake += 250
		entry.Details = map[string]bool{"meal-a": true}
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 500, saved.WaterIntake)

	boom := errors.New("boom")
	_, err = repos.Logs.Update(ctx, "u1", "2024-06-03", func(entry *domain.ProgressLog, _ bool) error {
		entry.WaterIntake = 0
		return boom
	})
	assert.ErrorIs(t, err, boom)

	logs, err := repos.Logs.List(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, logs, 1)
	assert.Equal(t, 500, logs[0].WaterIntake, "a failed mutation writes nothing")
	assert.Equal(t, map[string]bool{"meal-a": true}, logs[0].Details)
}

func TestLogs_UnchangedUpdateSkipsWrite(t *testing.T) {
	ctx := context.Background()
	store := brokenFileStore(t)
	store.data[keyLogsPrefix+"u1"] = []byte(`[{"date":"2024-06-03","weight":70,"workoutCompleted":false,"waterIntake":0}]`)
	repos := NewRepositories(store)

	// Clamped at zero: nothing changes, so the broken snapshot is never touched.
	saved, err := repos.Logs.Update(ctx, "u1", "2024-06-03", func(entry *domain.ProgressLog, _ bool) error {
		if entry.WaterIntake-250 < 0 {
			entry.WaterIntake = 0
		}
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 70.0, saved.Weight)

	_, err = repos.Logs.Update(ctx, "u1", "2024-06-03", func(entry *domain.ProgressLog, _ bool) error {
		entry.WaterIntake = 250
		return nil
	})
	assert.Error(t, err, "a real change has to reach the snapshot")
}
