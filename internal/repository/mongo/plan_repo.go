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

const planCollectionName = "plans"

// planDocument keys the weekly plan by its owner; there is one per user.
type planDocument struct {
	UserID    string            `bson:"_id"`
	Plan      domain.WeeklyPlan `bson:"plan"`
	UpdatedAt time.Time         `bson:"updatedAt"`
}

type mongoPlanRepository struct {
	collection *mongo.Collection
}

// NewMongoPlanRepository creates a new plan repository.
func NewMongoPlanRepository(db *mongo.Database) repository.PlanRepository {
	return &mongoPlanRepository{
		collection: db.Collection(planCollectionName),
	}
}

// Save replaces the user's plan, inserting it on first generation.
func (r *mongoPlanRepository) Save(ctx context.Context, userID string, plan *domain.WeeklyPlan) error {
	doc := planDocument{UserID: userID, Plan: *plan, UpdatedAt: time.Now().UTC()}
	_, err := r.collection.ReplaceOne(ctx, bson.M{"_id": userID}, doc, options.Replace().SetUpsert(true))
	return err
}

// Get returns nil, nil when the user has not generated a plan yet.
func (r *mongoPlanRepository) Get(ctx context.Context, userID string) (*domain.WeeklyPlan, error) {
	res := r.collection.FindOne(ctx, bson.M{"_id": userID})
	if err := res.Err(); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, err
	}
	var doc planDocument
	if err := res.Decode(&doc); err != nil {
		return nil, repository.Corrupted(planCollectionName+"/"+userID, err)
	}
	return &doc.Plan, nil
}
