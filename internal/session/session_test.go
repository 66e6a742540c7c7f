package session

import (
	"context"
	"testing"
	"time"

	"fittrack/fitness-app/internal/domain"
	"fittrack/fitness-app/internal/repository"
	"fittrack/fitness-app/internal/repository/kv"
	"fittrack/fitness-app/internal/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func setup(t *testing.T) (repository.Repositories, service.AuthService, *AppContext) {
	t.Helper()
	repos := kv.NewRepositories(kv.NewMemoryStore())
	auth := service.NewAuthService(repos.Users, service.BcryptVerifier{Cost: bcrypt.MinCost}, "secret", time.Hour)
	app, err := Load(context.Background(), repos, auth)
	require.NoError(t, err)
	return repos, auth, app
}

func TestLoad_Defaults(t *testing.T) {
	_, _, app := setup(t)
	_, err := app.CurrentUser()
	assert.ErrorIs(t, err, service.ErrNotLoggedIn)
	assert.Equal(t, domain.ThemeLight, app.Theme())
}

func TestRegisterLoginLogout(t *testing.T) {
	ctx := context.Background()
	repos, auth, app := setup(t)

	user, err := app.Register(ctx, "ana@example.com", "pw")
	require.NoError(t, err)
	id, err := repos.Sessions.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, user.ID, id)

	// A second process picks up the persisted session.
	restored, err := Load(ctx, repos, auth)
	require.NoError(t, err)
	current, err := restored.CurrentUser()
	require.NoError(t, err)
	assert.Equal(t, "ana@example.com", current.Email)

	require.NoError(t, app.Logout(ctx))
	id, err = repos.Sessions.Get(ctx)
	require.NoError(t, err)
	assert.Empty(t, id)

	_, err = app.Login(ctx, "ana@example.com", "bad")
	assert.ErrorIs(t, err, service.ErrAuthenticationFailed)
	_, err = app.CurrentUser()
	assert.ErrorIs(t, err, service.ErrNotLoggedIn)

	_, err = app.Login(ctx, "ana@example.com", "pw")
	require.NoError(t, err)
	_, err = app.CurrentUser()
	assert.NoError(t, err)
}

func TestRegister_DuplicateEstablishesNoSession(t *testing.T) {
	ctx := context.Background()
	repos, auth, app := setup(t)
	_, err := auth.Register(ctx, "ana@example.com", "pw")
	require.NoError(t, err)

	_, err = app.Register(ctx, "ana@example.com", "other")
	assert.ErrorIs(t, err, service.ErrUserAlreadyExists)

	id, err := repos.Sessions.Get(ctx)
	require.NoError(t, err)
	assert.Empty(t, id)
	_, err = app.CurrentUser()
	assert.ErrorIs(t, err, service.ErrNotLoggedIn)
	users, err := repos.Users.List(ctx)
	require.NoError(t, err)
	assert.Len(t, users, 1)
}

func TestLoad_StaleSessionIsCleared(t *testing.T) {
	ctx := context.Background()
	repos, auth, _ := setup(t)
	require.NoError(t, repos.Sessions.Set(ctx, "ghost"))

	app, err := Load(ctx, repos, auth)
	require.NoError(t, err)
	_, err = app.CurrentUser()
	assert.ErrorIs(t, err, service.ErrNotLoggedIn)
	id, err := repos.Sessions.Get(ctx)
	require.NoError(t, err)
	assert.Empty(t, id)
}

func TestThemeAndRefresh(t *testing.T) {
	ctx := context.Background()
	repos, auth, app := setup(t)

	require.NoError(t, app.SetTheme(ctx, domain.ThemeDark))
	assert.Equal(t, domain.ThemeDark, app.Theme())
	assert.Error(t, app.SetTheme(ctx, "neon"))
	assert.Equal(t, domain.ThemeDark, app.Theme())

	reloaded, err := Load(ctx, repos, auth)
	require.NoError(t, err)
	assert.Equal(t, domain.ThemeDark, reloaded.Theme())

	user, err := app.Register(ctx, "ana@example.com", "pw")
	require.NoError(t, err)
	require.NoError(t, repos.Users.UpdateProfile(ctx, user.ID, &domain.Profile{Name: "Ana"}))
	refreshed, err := app.Refresh(ctx)
	require.NoError(t, err)
	assert.True(t, refreshed.HasProfile())
}
