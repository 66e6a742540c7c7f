package repository

import (
	"context"
	"errors"
	"fmt"

	"fittrack/fitness-app/internal/domain" // Import our defined domain models
)

// Error constants for repository layer
var (
	ErrNotFound       = RepositoryError("not found")
	ErrDuplicateEmail = RepositoryError("user with this email already exists")
	ErrUpdateFailed   = RepositoryError("update failed")
	// ErrStoreCorruption marks a stored payload that can no longer be decoded.
	// It is always propagated; a corrupted key is never treated as absent.
	ErrStoreCorruption = RepositoryError("store corruption")
)

// RepositoryError helps distinguish repository errors
type RepositoryError string

func (e RepositoryError) Error() string {
	return string(e)
}

// Corrupted wraps a decode failure for key as ErrStoreCorruption.
func Corrupted(key string, err error) error {
	return fmt.Errorf("%w: key %q: %v", ErrStoreCorruption, key, err)
}

// IsCorruption reports whether err is (or wraps) ErrStoreCorruption.
func IsCorruption(err error) bool {
	return errors.Is(err, ErrStoreCorruption)
}

// UserRepository defines the interface for interacting with user data.
type UserRepository interface {
	// List returns every registered user; empty when none exist.
	List(ctx context.Context) ([]domain.User, error)
	// Create stores a new user. It returns ErrDuplicateEmail without
	// modifying anything when the email is taken.
	Create(ctx context.Context, user *domain.User) error
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByID(ctx context.Context, id string) (*domain.User, error)
	UpdateProfile(ctx context.Context, id string, profile *domain.Profile) error
}

// SessionRepository persists the single active-session pointer used by the
// command-line client. The HTTP API authenticates with tokens instead.
type SessionRepository interface {
	Set(ctx context.Context, userID string) error
	// Get returns "" when no session is active.
	Get(ctx context.Context) (string, error)
	Clear(ctx context.Context) error
}

// PlanRepository stores one weekly plan per user.
type PlanRepository interface {
	// Save replaces the user's plan.
	Save(ctx context.Context, userID string, plan *domain.WeeklyPlan) error
	// Get returns nil, nil when the user has no plan.
	Get(ctx context.Context, userID string) (*domain.WeeklyPlan, error)
}

// LogMutator edits the log of one date in place. exists is false when the
// log is about to be created; entry then only carries the date. A mutator
// may run more than once when a driver retries a conflicting write, so it
// must not have side effects.
type LogMutator func(entry *domain.ProgressLog, exists bool) error

// LogRepository stores progress logs, unique per (user, date).
type LogRepository interface {
	// Save merges update into the log for update.Date, creating it when
	// absent. Each call is a single read-modify-write transaction.
	Save(ctx context.Context, userID string, update domain.LogUpdate) (*domain.ProgressLog, error)
	// Update runs fn on the log for date and stores the result in the same
	// transaction, creating the log when absent. An error from fn aborts
	// without writing.
	Update(ctx context.Context, userID, date string, fn LogMutator) (*domain.ProgressLog, error)
	// List returns the user's logs in insertion order.
	List(ctx context.Context, userID string) ([]domain.ProgressLog, error)
}

// ChatRepository stores one coach transcript per user.
type ChatRepository interface {
	Save(ctx context.Context, userID string, history []domain.ChatMessage) error
	// Get returns an empty transcript when none is stored.
	Get(ctx context.Context, userID string) ([]domain.ChatMessage, error)
}

// SettingsRepository stores process-wide preferences.
type SettingsRepository interface {
	SetTheme(ctx context.Context, theme domain.Theme) error
	// GetTheme returns domain.ThemeLight when unset.
	GetTheme(ctx context.Context) (domain.Theme, error)
}

// Repositories groups one driver's implementations.
type Repositories struct {
	Users    UserRepository
	Sessions SessionRepository
	Plans    PlanRepository
	Logs     LogRepository
	Chats    ChatRepository
	Settings SettingsRepository
}
