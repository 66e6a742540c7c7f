package postgres

import (
	"context"
	"errors"
	"fmt"

	"fittrack/fitness-app/internal/domain"
	"fittrack/fitness-app/internal/repository"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type userRepository struct {
	db *gorm.DB
}

func (r *userRepository) List(ctx context.Context) ([]domain.User, error) {
	var models []userModel
	if err := r.db.WithContext(ctx).Order("created_at, id").Find(&models).Error; err != nil {
		return nil, err
	}
	users := make([]domain.User, 0, len(models))
	for _, m := range models {
		u, err := m.toDomain()
		if err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, nil
}

func (r *userRepository) Create(ctx context.Context, user *domain.User) error {
	if user.ID == "" || user.Email == "" || user.PasswordHash == "" {
		return errors.New("user id, email and password hash are required")
	}
	profile, err := encodeJSON(user.Profile)
	if err != nil {
		return err
	}
	m := userModel{ID: user.ID, Email: user.Email, PasswordHash: user.PasswordHash, CreatedAt: user.CreatedAt, Profile: profile}
	if err := r.db.WithContext(ctx).Create(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return repository.ErrDuplicateEmail
		}
		return err
	}
	return nil
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.first(ctx, "email = ?", email)
}

func (r *userRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	return r.first(ctx, "id = ?", id)
}

func (r *userRepository) first(ctx context.Context, query string, arg any) (*domain.User, error) {
	var m userModel
	if err := r.db.WithContext(ctx).Where(query, arg).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	u, err := m.toDomain()
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *userRepository) UpdateProfile(ctx context.Context, id string, profile *domain.Profile) error {
	raw, err := encodeJSON(profile)
	if err != nil {
		return err
	}
	res := r.db.WithContext(ctx).Model(&userModel{}).Where("id = ?", id).Update("profile", raw)
	if res.Error != nil {
		return fmt.Errorf("%w: %v", repository.ErrUpdateFailed, res.Error)
	}
	if res.RowsAffected == 0 {
		return repository.ErrNotFound
	}
	return nil
}

type planRepository struct {
	db *gorm.DB
}

func (r *planRepository) Save(ctx context.Context, userID string, plan *domain.WeeklyPlan) error {
	raw, err := encodeJSON(plan)
	if err != nil {
		return err
	}
	// Save upserts on the primary key.
	return r.db.WithContext(ctx).Save(&planModel{UserID: userID, Plan: raw}).Error
}

func (r *planRepository) Get(ctx context.Context, userID string) (*domain.WeeklyPlan, error) {
	var m planModel
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	var plan domain.WeeklyPlan
	if err := decodeJSON(m.Plan, "plans/"+userID, &plan); err != nil {
		return nil, err
	}
	return &plan, nil
}

type logRepository struct {
	db *gorm.DB
}

func (r *logRepository) Save(ctx context.Context, userID string, update domain.LogUpdate) (*domain.ProgressLog, error) {
	return r.Update(ctx, userID, update.Date, func(entry *domain.ProgressLog, _ bool) error {
		update.ApplyTo(entry)
		return nil
	})
}

// Update runs fn inside a transaction holding a row lock on the (user, date)
// log. A concurrent first insert for the same date loses on the unique index
// and is retried once against the row that won.
func (r *logRepository) Update(ctx context.Context, userID, date string, fn repository.LogMutator) (*domain.ProgressLog, error) {
	saved, err := r.update(ctx, userID, date, fn)
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		saved, err = r.update(ctx, userID, date, fn)
	}
	if err != nil {
		return nil, err
	}
	return saved, nil
}

func (r *logRepository) update(ctx context.Context, userID, date string, fn repository.LogMutator) (*domain.ProgressLog, error) {
	var saved domain.ProgressLog
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var m logModel
		exists := true
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("user_id = ? AND date = ?", userID, date).
			First(&m).Error
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			m = logModel{UserID: userID, Date: date}
			exists = false
		case err != nil:
			return err
		}

		current, err := m.toDomain()
		if err != nil {
			return err
		}
		if err := fn(&current, exists); err != nil {
			return err
		}
		current.Date = date

		details, err := encodeJSON(current.Details)
		if err != nil {
			return err
		}
		m.Weight = current.Weight
		m.CaloriesConsumed = current.CaloriesConsumed
		m.WorkoutCompleted = current.WorkoutCompleted
		m.WaterIntake = current.WaterIntake
		m.Details = details
		if err := tx.Save(&m).Error; err != nil {
			return err
		}
		saved = current
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &saved, nil
}

func (r *logRepository) List(ctx context.Context, userID string) ([]domain.ProgressLog, error) {
	var models []logModel
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).Order("id").Find(&models).Error; err != nil {
		return nil, err
	}
	logs := make([]domain.ProgressLog, 0, len(models))
	for _, m := range models {
		l, err := m.toDomain()
		if err != nil {
			return nil, err
		}
		logs = append(logs, l)
	}
	return logs, nil
}

type chatRepository struct {
	db *gorm.DB
}

func (r *chatRepository) Save(ctx context.Context, userID string, history []domain.ChatMessage) error {
	if history == nil {
		history = []domain.ChatMessage{}
	}
	raw, err := encodeJSON(history)
	if err != nil {
		return err
	}
	return r.db.WithContext(ctx).Save(&chatModel{UserID: userID, Messages: raw}).Error
}

func (r *chatRepository) Get(ctx context.Context, userID string) ([]domain.ChatMessage, error) {
	var m chatModel
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return []domain.ChatMessage{}, nil
		}
		return nil, err
	}
	history := []domain.ChatMessage{}
	if err := decodeJSON(m.Messages, "chats/"+userID, &history); err != nil {
		return nil, err
	}
	return history, nil
}

const (
	settingSession = "session"
	settingTheme   = "theme"
)

func getSetting(ctx context.Context, db *gorm.DB, name string) (string, bool, error) {
	var m settingModel
	if err := db.WithContext(ctx).Where("name = ?", name).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", false, nil
		}
		return "", false, err
	}
	return m.Value, true, nil
}

func putSetting(ctx context.Context, db *gorm.DB, name, value string) error {
	return db.WithContext(ctx).Save(&settingModel{Name: name, Value: value}).Error
}

type sessionRepository struct {
	db *gorm.DB
}

func (r *sessionRepository) Set(ctx context.Context, userID string) error {
	return putSetting(ctx, r.db, settingSession, userID)
}

func (r *sessionRepository) Get(ctx context.Context) (string, error) {
	v, _, err := getSetting(ctx, r.db, settingSession)
	return v, err
}

func (r *sessionRepository) Clear(ctx context.Context) error {
	return r.db.WithContext(ctx).Where("name = ?", settingSession).Delete(&settingModel{}).Error
}

type settingsRepository struct {
	db *gorm.DB
}

func (r *settingsRepository) SetTheme(ctx context.Context, theme domain.Theme) error {
	if !theme.Valid() {
		return fmt.Errorf("invalid theme %q", theme)
	}
	return putSetting(ctx, r.db, settingTheme, string(theme))
}

func (r *settingsRepository) GetTheme(ctx context.Context) (domain.Theme, error) {
	v, ok, err := getSetting(ctx, r.db, settingTheme)
	if err != nil {
		return "", err
	}
	if !ok {
		return domain.ThemeLight, nil
	}
	theme := domain.Theme(v)
	if !theme.Valid() {
		return "", repository.Corrupted("settings/"+settingTheme, fmt.Errorf("unknown theme %q", v))
	}
	return theme, nil
}
