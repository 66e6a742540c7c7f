package postgres

import (
	"encoding/json"
	"fmt"
	"time"

	"fittrack/fitness-app/internal/domain"
	"fittrack/fitness-app/internal/repository"

	"gorm.io/datatypes"
)

type userModel struct {
	ID           string         `gorm:"primaryKey;type:varchar(64)"`
	Email        string         `gorm:"uniqueIndex;not null"`
	PasswordHash string         `gorm:"not null"`
	CreatedAt    time.Time      `gorm:"index"`
	Profile      datatypes.JSON `gorm:"type:jsonb"`
}

func (userModel) TableName() string { return "users" }

type planModel struct {
	UserID    string         `gorm:"primaryKey;type:varchar(64)"`
	Plan      datatypes.JSON `gorm:"type:jsonb;not null"`
	UpdatedAt time.Time
}

func (planModel) TableName() string { return "plans" }

type logModel struct {
	ID               uint   `gorm:"primaryKey"`
	UserID           string `gorm:"type:varchar(64);not null;uniqueIndex:idx_logs_user_date"`
	Date             string `gorm:"type:char(10);not null;uniqueIndex:idx_logs_user_date"`
	Weight           float64
	CaloriesConsumed *int
	WorkoutCompleted bool
	WaterIntake      int
	Details          datatypes.JSON `gorm:"type:jsonb"`
	CreatedAt        time.Time
}

func (logModel) TableName() string { return "progress_logs" }

type chatModel struct {
	UserID    string         `gorm:"primaryKey;type:varchar(64)"`
	Messages  datatypes.JSON `gorm:"type:jsonb;not null"`
	UpdatedAt time.Time
}

func (chatModel) TableName() string { return "chats" }

type settingModel struct {
	Name  string `gorm:"primaryKey;type:varchar(32)"`
	Value string `gorm:"not null"`
}

func (settingModel) TableName() string { return "settings" }

// encodeJSON returns nil for nil input so optional columns stay NULL.
func encodeJSON(v any) (datatypes.JSON, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	if string(raw) == "null" {
		return nil, nil
	}
	return datatypes.JSON(raw), nil
}

// decodeJSON leaves v untouched for a NULL column.
func decodeJSON(raw datatypes.JSON, where string, v any) error {
	if len(raw) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return repository.Corrupted(where, err)
	}
	return nil
}

func (m userModel) toDomain() (domain.User, error) {
	u := domain.User{ID: m.ID, Email: m.Email, PasswordHash: m.PasswordHash, CreatedAt: m.CreatedAt.UTC()}
	if len(m.Profile) > 0 {
		var p domain.Profile
		if err := decodeJSON(m.Profile, fmt.Sprintf("users/%s/profile", m.ID), &p); err != nil {
			return domain.User{}, err
		}
		u.Profile = &p
	}
	return u, nil
}

func (m logModel) toDomain() (domain.ProgressLog, error) {
	l := domain.ProgressLog{
		Date:             m.Date,
		Weight:           m.Weight,
		CaloriesConsumed: m.CaloriesConsumed,
		WorkoutCompleted: m.WorkoutCompleted,
		WaterIntake:      m.WaterIntake,
	}
	if err := decodeJSON(m.Details, fmt.Sprintf("progress_logs/%s/%s", m.UserID, m.Date), &l.Details); err != nil {
		return domain.ProgressLog{}, err
	}
	return l, nil
}
