package app

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"fittrack/fitness-app/internal/coach"
	"fittrack/fitness-app/internal/config"
	"fittrack/fitness-app/internal/repository/kv"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func kvConfig(path string) config.Config {
	return config.Config{
		Storage:  config.StorageConfig{Driver: config.DriverKV, KVBackend: config.KVMemory, Path: path},
		JWT:      config.JWTConfig{Secret: "secret", Expiration: time.Hour},
		Coach:    config.CoachConfig{Provider: "gemini"},
		Calendar: config.CalendarConfig{Timezone: "UTC"},
	}
}

func TestNew_FileStoreSurvivesRestart(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "fittrack.json")

	a, err := New(ctx, kvConfig(path))
	require.NoError(t, err)
	user, err := a.Services.Auth.Register(ctx, "ana@example.com", "pw")
	require.NoError(t, err)
	require.NoError(t, a.Close())

	b, err := New(ctx, kvConfig(path))
	require.NoError(t, err)
	defer b.Close()
	got, err := b.Services.Auth.Login(ctx, "ana@example.com", "pw")
	require.NoError(t, err)
	assert.Equal(t, user.ID, got.ID)
}

func TestNew_CoachWithoutKeyFails(t *testing.T) {
	ctx := context.Background()
	a, err := New(ctx, kvConfig(""), WithStore(kv.NewMemoryStore()))
	require.NoError(t, err)
	defer a.Close()

	user, err := a.Services.Auth.Register(ctx, "ana@example.com", "pw")
	require.NoError(t, err)
	_, err = a.Services.Chat.Send(ctx, user.ID, "hi")
	assert.Error(t, err, "no profile yet")

	_, err = unavailableCoach{reason: assert.AnError}.GenerateWeeklyPlan(ctx, nil)
	assert.ErrorIs(t, err, coach.ErrCollaborator)
}

func TestNew_RejectsBadConfig(t *testing.T) {
	cfg := kvConfig("")
	cfg.Storage.Driver = "cassandra"
	_, err := New(context.Background(), cfg)
	assert.Error(t, err)

	cfg = kvConfig("")
	cfg.Calendar.Timezone = "Mars/Olympus"
	_, err = New(context.Background(), cfg)
	assert.Error(t, err)
}
