package mongo

import (
	"context"
	"errors"
	"fmt"

	"fittrack/fitness-app/internal/domain"
	"fittrack/fitness-app/internal/repository"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const settingsCollectionName = "settings"

const (
	settingSession = "session"
	settingTheme   = "theme"
)

// settingDocument is a single named process-wide value.
type settingDocument struct {
	Name  string `bson:"_id"`
	Value string `bson:"value"`
}

func putSetting(ctx context.Context, c *mongo.Collection, name, value string) error {
	_, err := c.ReplaceOne(ctx, bson.M{"_id": name}, settingDocument{Name: name, Value: value}, options.Replace().SetUpsert(true))
	return err
}

// getSetting returns ok=false when the setting has never been written.
func getSetting(ctx context.Context, c *mongo.Collection, name string) (string, bool, error) {
	var doc settingDocument
	err := c.FindOne(ctx, bson.M{"_id": name}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return doc.Value, true, nil
}

type mongoSessionRepository struct {
	collection *mongo.Collection
}

func (r *mongoSessionRepository) Set(ctx context.Context, userID string) error {
	return putSetting(ctx, r.collection, settingSession, userID)
}

func (r *mongoSessionRepository) Get(ctx context.Context) (string, error) {
	v, _, err := getSetting(ctx, r.collection, settingSession)
	return v, err
}

func (r *mongoSessionRepository) Clear(ctx context.Context) error {
	_, err := r.collection.DeleteOne(ctx, bson.M{"_id": settingSession})
	return err
}

type mongoSettingsRepository struct {
	collection *mongo.Collection
}

func (r *mongoSettingsRepository) SetTheme(ctx context.Context, theme domain.Theme) error {
	if !theme.Valid() {
		return fmt.Errorf("invalid theme %q", theme)
	}
	return putSetting(ctx, r.collection, settingTheme, string(theme))
}

func (r *mongoSettingsRepository) GetTheme(ctx context.Context) (domain.Theme, error) {
	v, ok, err := getSetting(ctx, r.collection, settingTheme)
	if err != nil {
		return "", err
	}
	if !ok {
		return domain.ThemeLight, nil
	}
	theme := domain.Theme(v)
	if !theme.Valid() {
		return "", repository.Corrupted(settingsCollectionName+"/"+settingTheme, fmt.Errorf("unknown theme %q", v))
	}
	return theme, nil
}
