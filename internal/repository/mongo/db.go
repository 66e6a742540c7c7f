package mongo

import (
	"context"
	"log"
	"time"

	"fittrack/fitness-app/internal/repository"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

const (
	connectTimeout    = 10 * time.Second
	disconnectTimeout = 5 * time.Second
)

// ConnectDB connects to uri and pings the primary. The client is
// disconnected again when the ping fails.
func ConnectDB(ctx context.Context, uri string) (*mongo.Client, error) {
	ctx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()

	opts := options.Client().
		ApplyURI(uri).
		SetAppName("fittrack").
		SetServerSelectionTimeout(connectTimeout)
	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, err
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = DisconnectDB(client)
		return nil, err
	}
	return client, nil
}

func DisconnectDB(client *mongo.Client) error {
	ctx, cancel := context.WithTimeout(context.Background(), disconnectTimeout)
	defer cancel()
	return client.Disconnect(ctx)
}

// NewRepositories builds every repository over db and creates the indexes
// they rely on. The unique indexes back duplicate detection, so failing to
// create them is an error.
func NewRepositories(ctx context.Context, db *mongo.Database) (repository.Repositories, error) {
	if err := EnsureUserIndexes(ctx, db.Collection(userCollectionName)); err != nil {
		return repository.Repositories{}, err
	}
	if err := EnsureLogIndexes(ctx, db.Collection(logCollectionName)); err != nil {
		return repository.Repositories{}, err
	}
	log.Printf("INFO: MongoDB indexes ensured on database %s", db.Name())

	settings := db.Collection(settingsCollectionName)
	return repository.Repositories{
		Users:    NewMongoUserRepository(db),
		Sessions: &mongoSessionRepository{collection: settings},
		Plans:    NewMongoPlanRepository(db),
		Logs:     NewMongoLogRepository(db),
		Chats:    NewMongoChatRepository(db),
		Settings: &mongoSettingsRepository{collection: settings},
	}, nil
}
