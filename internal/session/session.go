// Package session holds the state of the single-user client: who is logged
// in and which theme is selected. It replaces ambient globals with one
// explicit object that is the only writer of the persisted session pointer.
package session

import (
	"context"
	"errors"
	"log"
	"sync"

	"fittrack/fitness-app/internal/domain"
	"fittrack/fitness-app/internal/repository"
	"fittrack/fitness-app/internal/service"
)

// AppContext is created once at startup with Load.
type AppContext struct {
	mu       sync.RWMutex
	auth     service.AuthService
	users    repository.UserRepository
	sessions repository.SessionRepository
	settings repository.SettingsRepository

	current *domain.User
	theme   domain.Theme
}

// Load restores the persisted session and theme. A session pointing at a
// user that no longer exists is cleared.
func Load(ctx context.Context, repos repository.Repositories, auth service.AuthService) (*AppContext, error) {
	a := &AppContext{
		auth:     auth,
		users:    repos.Users,
		sessions: repos.Sessions,
		settings: repos.Settings,
	}

	theme, err := repos.Settings.GetTheme(ctx)
	if err != nil {
		return nil, err
	}
	a.theme = theme

	userID, err := repos.Sessions.Get(ctx)
	if err != nil {
		return nil, err
	}
	if userID == "" {
		return a, nil
	}
	user, err := repos.Users.GetByID(ctx, userID)
	if errors.Is(err, repository.ErrNotFound) {
		log.Printf("WARN: Session refers to unknown user %s, clearing it", userID)
		return a, repos.Sessions.Clear(ctx)
	}
	if err != nil {
		return nil, err
	}
	a.current = user
	return a, nil
}

// Register creates an account and logs it in. A failed registration leaves
// the current session untouched.
func (a *AppContext) Register(ctx context.Context, email, password string) (*domain.User, error) {
	user, err := a.auth.Register(ctx, email, password)
	if err != nil {
		return nil, err
	}
	return user, a.establish(ctx, user)
}

func (a *AppContext) Login(ctx context.Context, email, password string) (*domain.User, error) {
	user, err := a.auth.Login(ctx, email, password)
	if err != nil {
		return nil, err
	}
	return user, a.establish(ctx, user)
}

func (a *AppContext) establish(ctx context.Context, user *domain.User) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if err := a.sessions.Set(ctx, user.ID); err != nil {
		return err
	}
	a.current = user
	return nil
}

func (a *AppContext) Logout(ctx context.Context) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if err := a.sessions.Clear(ctx); err != nil {
		return err
	}
	a.current = nil
	return nil
}

// CurrentUser returns the logged-in user, or service.ErrNotLoggedIn.
func (a *AppContext) CurrentUser() (*domain.User, error) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	if a.current == nil {
		return nil, service.ErrNotLoggedIn
	}
	return a.current, nil
}

// Refresh reloads the current user, picking up profile changes.
func (a *AppContext) Refresh(ctx context.Context) (*domain.User, error) {
	current, err := a.CurrentUser()
	if err != nil {
		return nil, err
	}
	user, err := a.users.GetByID(ctx, current.ID)
	if err != nil {
		return nil, err
	}
	a.mu.Lock()
	a.current = user
	a.mu.Unlock()
	return user, nil
}

func (a *AppContext) Theme() domain.Theme {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.theme
}

func (a *AppContext) SetTheme(ctx context.Context, theme domain.Theme) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if err := a.settings.SetTheme(ctx, theme); err != nil {
		return err
	}
	a.theme = theme
	return nil
}
