package kv

import (
	"context"
	"encoding/json"
	"fmt"
	"reflect"
	"time"

	"fittrack/fitness-app/internal/domain"
	"fittrack/fitness-app/internal/repository"
)

// NewRepositories builds every repository over one Store.
func NewRepositories(store Store) repository.Repositories {
	return repository.Repositories{
		Users:    &userRepository{store: store},
		Sessions: &sessionRepository{store: store},
		Plans:    &planRepository{store: store},
		Logs:     &logRepository{store: store},
		Chats:    &chatRepository{store: store},
		Settings: &settingsRepository{store: store},
	}
}

// userRecord is the stored form of a user. domain.User hides the password
// hash from JSON, so the table keeps its own shape.
type userRecord struct {
	ID           string          `json:"id"`
	Email        string          `json:"email"`
	PasswordHash string          `json:"passwordHash"`
	CreatedAt    int64           `json:"createdAt"` // Unix milliseconds
	Profile      *domain.Profile `json:"profile,omitempty"`
}

func toRecord(u *domain.User) userRecord {
	return userRecord{
		ID:           u.ID,
		Email:        u.Email,
		PasswordHash: u.PasswordHash,
		CreatedAt:    u.CreatedAt.UnixMilli(),
		Profile:      u.Profile,
	}
}

func (r userRecord) toDomain() domain.User {
	return domain.User{
		ID:           r.ID,
		Email:        r.Email,
		PasswordHash: r.PasswordHash,
		CreatedAt:    time.UnixMilli(r.CreatedAt).UTC(),
		Profile:      r.Profile,
	}
}

// readJSON decodes key into v. ok is false when the key is absent.
func readJSON(ctx context.Context, store Store, key string, v any) (bool, error) {
	raw, ok, err := store.Get(ctx, key)
	if err != nil || !ok {
		return false, err
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return false, repository.Corrupted(key, err)
	}
	return true, nil
}

func writeJSON(ctx context.Context, store Store, key string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encoding %s: %w", key, err)
	}
	return store.Set(ctx, key, raw)
}

// --- Users ---

type userRepository struct {
	store Store
}

func (r *userRepository) records(ctx context.Context) ([]userRecord, error) {
	var recs []userRecord
	if _, err := readJSON(ctx, r.store, keyUsers, &recs); err != nil {
		return nil, err
	}
	return recs, nil
}

func (r *userRepository) List(ctx context.Context) ([]domain.User, error) {
	recs, err := r.records(ctx)
	if err != nil {
		return nil, err
	}
	users := make([]domain.User, 0, len(recs))
	for _, rec := range recs {
		users = append(users, rec.toDomain())
	}
	return users, nil
}

func (r *userRepository) Create(ctx context.Context, user *domain.User) error {
	if user.ID == "" || user.Email == "" || user.PasswordHash == "" {
		return fmt.Errorf("user id, email and password hash are required")
	}
	return r.store.Update(ctx, keyUsers, func(old []byte, ok bool) ([]byte, error) {
		var recs []userRecord
		if ok {
			if err := json.Unmarshal(old, &recs); err != nil {
				return nil, repository.Corrupted(keyUsers, err)
			}
		}
		for _, rec := range recs {
			if rec.Email == user.Email {
				return nil, repository.ErrDuplicateEmail
			}
		}
		recs = append(recs, toRecord(user))
		return json.Marshal(recs)
	})
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	recs, err := r.records(ctx)
	if err != nil {
		return nil, err
	}
	for _, rec := range recs {
		if rec.Email == email {
			u := rec.toDomain()
			return &u, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *userRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	recs, err := r.records(ctx)
	if err != nil {
		return nil, err
	}
	for _, rec := range recs {
		if rec.ID == id {
			u := rec.toDomain()
			return &u, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *userRepository) UpdateProfile(ctx context.Context, id string, profile *domain.Profile) error {
	return r.store.Update(ctx, keyUsers, func(old []byte, ok bool) ([]byte, error) {
		var recs []userRecord
		if ok {
			if err := json.Unmarshal(old, &recs); err != nil {
				return nil, repository.Corrupted(keyUsers, err)
			}
		}
		for i := range recs {
			if recs[i].ID == id {
				recs[i].Profile = profile
				return json.Marshal(recs)
			}
		}
		return nil, repository.ErrNotFound
	})
}

// --- Session ---

type sessionRepository struct {
	store Store
}

func (r *sessionRepository) Set(ctx context.Context, userID string) error {
	return r.store.Set(ctx, keySession, []byte(userID))
}

func (r *sessionRepository) Get(ctx context.Context) (string, error) {
	raw, ok, err := r.store.Get(ctx, keySession)
	if err != nil || !ok {
		return "", err
	}
	return string(raw), nil
}

func (r *sessionRepository) Clear(ctx context.Context) error {
	return r.store.Delete(ctx, keySession)
}

// --- Plans ---

type planRepository struct {
	store Store
}

func (r *planRepository) Save(ctx context.Context, userID string, plan *domain.WeeklyPlan) error {
	return writeJSON(ctx, r.store, keyPlanPrefix+userID, plan)
}

func (r *planRepository) Get(ctx context.Context, userID string) (*domain.WeeklyPlan, error) {
	var plan domain.WeeklyPlan
	ok, err := readJSON(ctx, r.store, keyPlanPrefix+userID, &plan)
	if err != nil || !ok {
		return nil, err
	}
	return &plan, nil
}

// --- Logs ---

type logRepository struct {
	store Store
}

func (r *logRepository) Save(ctx context.Context, userID string, update domain.LogUpdate) (*domain.ProgressLog, error) {
	return r.Update(ctx, userID, update.Date, func(entry *domain.ProgressLog, _ bool) error {
		update.ApplyTo(entry)
		return nil
	})
}

// Update rewrites the user's whole log list in one Store.Update. A mutation
// that leaves an existing log unchanged skips the write.
func (r *logRepository) Update(ctx context.Context, userID, date string, fn repository.LogMutator) (*domain.ProgressLog, error) {
	key := keyLogsPrefix + userID
	var saved domain.ProgressLog
	err := r.store.Update(ctx, key, func(old []byte, ok bool) ([]byte, error) {
		var logs []domain.ProgressLog
		if ok {
			if err := json.Unmarshal(old, &logs); err != nil {
				return nil, repository.Corrupted(key, err)
			}
		}
		idx := -1
		for i := range logs {
			if logs[i].Date == date {
				idx = i
				break
			}
		}

		next := domain.ProgressLog{Date: date}
		if idx >= 0 {
			next = logs[idx]
			next.Details = domain.CopyDetails(next.Details)
		}
		if err := fn(&next, idx >= 0); err != nil {
			return nil, err
		}
		next.Date = date
		saved = next

		if idx >= 0 {
			if reflect.DeepEqual(logs[idx], next) {
				return nil, ErrSkipWrite
			}
			logs[idx] = next
		} else {
			logs = append(logs, next)
		}
		return json.Marshal(logs)
	})
	if err != nil {
		return nil, err
	}
	return &saved, nil
}

func (r *logRepository) List(ctx context.Context, userID string) ([]domain.ProgressLog, error) {
	logs := []domain.ProgressLog{}
	if _, err := readJSON(ctx, r.store, keyLogsPrefix+userID, &logs); err != nil {
		return nil, err
	}
	return logs, nil
}

// --- Chat ---

type chatRepository struct {
	store Store
}

func (r *chatRepository) Save(ctx context.Context, userID string, history []domain.ChatMessage) error {
	if history == nil {
		history = []domain.ChatMessage{}
	}
	return writeJSON(ctx, r.store, keyChatPrefix+userID, history)
}

func (r *chatRepository) Get(ctx context.Context, userID string) ([]domain.ChatMessage, error) {
	history := []domain.ChatMessage{}
	if _, err := readJSON(ctx, r.store, keyChatPrefix+userID, &history); err != nil {
		return nil, err
	}
	return history, nil
}

// --- Settings ---

type settingsRepository struct {
	store Store
}

func (r *settingsRepository) SetTheme(ctx context.Context, theme domain.Theme) error {
	if !theme.Valid() {
		return fmt.Errorf("invalid theme %q", theme)
	}
	return r.store.Set(ctx, keyTheme, []byte(theme))
}

func (r *settingsRepository) GetTheme(ctx context.Context) (domain.Theme, error) {
	raw, ok, err := r.store.Get(ctx, keyTheme)
	if err != nil {
		return "", err
	}
	if !ok {
		return domain.ThemeLight, nil
	}
	theme := domain.Theme(raw)
	if !theme.Valid() {
		return "", repository.Corrupted(keyTheme, fmt.Errorf("unknown theme %q", raw))
	}
	return theme, nil
}
