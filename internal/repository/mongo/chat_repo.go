package mongo

import (
	"context"
	"errors"
	"time"

	"fittrack/fitness-app/internal/domain"
	"fittrack/fitness-app/internal/repository"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const chatCollectionName = "chats"

type chatDocument struct {
	UserID    string               `bson:"_id"`
	Messages  []domain.ChatMessage `bson:"messages"`
	UpdatedAt time.Time            `bson:"updatedAt"`
}

type mongoChatRepository struct {
	collection *mongo.Collection
}

// NewMongoChatRepository creates a new chat transcript repository.
func NewMongoChatRepository(db *mongo.Database) repository.ChatRepository {
	return &mongoChatRepository{
		collection: db.Collection(chatCollectionName),
	}
}

func (r *mongoChatRepository) Save(ctx context.Context, userID string, history []domain.ChatMessage) error {
	if history == nil {
		history = []domain.ChatMessage{}
	}
	doc := chatDocument{UserID: userID, Messages: history, UpdatedAt: time.Now().UTC()}
	_, err := r.collection.ReplaceOne(ctx, bson.M{"_id": userID}, doc, options.Replace().SetUpsert(true))
	return err
}

func (r *mongoChatRepository) Get(ctx context.Context, userID string) ([]domain.ChatMessage, error) {
	res := r.collection.FindOne(ctx, bson.M{"_id": userID})
	if err := res.Err(); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return []domain.ChatMessage{}, nil
		}
		return nil, err
	}
	var doc chatDocument
	if err := res.Decode(&doc); err != nil {
		return nil, repository.Corrupted(chatCollectionName+"/"+userID, err)
	}
	if doc.Messages == nil {
		return []domain.ChatMessage{}, nil
	}
	return doc.Messages, nil
}
