package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"fittrack/fitness-app/internal/domain"
	"fittrack/fitness-app/internal/repository"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const logCollectionName = "progress_logs"

// maxUpdateAttempts bounds optimistic retries in Update.
const maxUpdateAttempts = 10

// logDocument is one progress log; (userId, date) is unique. Revision is
// bumped by every write and guards Update against concurrent writers.
type logDocument struct {
	ID                 primitive.ObjectID `bson:"_id,omitempty"`
	UserID             string             `bson:"userId"`
	CreatedAt          time.Time          `bson:"createdAt"`
	Revision           int64              `bson:"rev"`
	domain.ProgressLog `bson:",inline"`
}

// mongoLogRepository implements repository.LogRepository
type mongoLogRepository struct {
	collection *mongo.Collection
}

// NewMongoLogRepository creates a new progress log repository.
func NewMongoLogRepository(db *mongo.Database) repository.LogRepository {
	return &mongoLogRepository{
		collection: db.Collection(logCollectionName),
	}
}

// Save merges update into the (user, date) document with one atomic upsert.
// Provided fields go to $set; defaults for a brand new log go to
// $setOnInsert, so the two never touch the same path.
func (r *mongoLogRepository) Save(ctx context.Context, userID string, update domain.LogUpdate) (*domain.ProgressLog, error) {
	set := bson.M{}
	onInsert := bson.M{"createdAt": time.Now().UTC()}

	if update.Weight != nil {
		set["weight"] = *update.Weight
	} else {
		onInsert["weight"] = 0.0
	}
	if update.CaloriesConsumed != nil {
		set["caloriesConsumed"] = *update.CaloriesConsumed
	}
	if update.WorkoutCompleted != nil {
		set["workoutCompleted"] = *update.WorkoutCompleted
	} else {
		onInsert["workoutCompleted"] = false
	}
	if update.WaterIntake != nil {
		set["waterIntake"] = *update.WaterIntake
	} else {
		onInsert["waterIntake"] = 0
	}
	if update.Details != nil {
		set["details"] = domain.CopyDetails(update.Details)
	}

	filter := bson.M{"userId": userID, "date": update.Date}
	doc := bson.M{"$setOnInsert": onInsert, "$inc": bson.M{"rev": 1}}
	if len(set) > 0 {
		doc["$set"] = set
	}
	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)

	var saved logDocument
	err := r.collection.FindOneAndUpdate(ctx, filter, doc, opts).Decode(&saved)
	if mongo.IsDuplicateKeyError(err) {
		// Two upserts raced on a new date; the loser retries as an update.
		err = r.collection.FindOneAndUpdate(ctx, filter, doc, opts).Decode(&saved)
	}
	if err != nil {
		return nil, fmt.Errorf("saving log %s for user %s: %w", update.Date, userID, err)
	}
	return &saved.ProgressLog, nil
}

// Update reads the (user, date) document, applies fn and writes it back only
// if no other writer bumped its revision in between; otherwise it starts
// over. A brand new log is inserted and the unique index settles races.
func (r *mongoLogRepository) Update(ctx context.Context, userID, date string, fn repository.LogMutator) (*domain.ProgressLog, error) {
	filter := bson.M{"userId": userID, "date": date}
	for attempt := 0; attempt < maxUpdateAttempts; attempt++ {
		var doc logDocument
		exists := true
		err := r.collection.FindOne(ctx, filter).Decode(&doc)
		switch {
		case errors.Is(err, mongo.ErrNoDocuments):
			exists = false
			doc = logDocument{UserID: userID, CreatedAt: time.Now().UTC()}
			doc.Date = date
		case err != nil:
			return nil, fmt.Errorf("reading log %s for user %s: %w", date, userID, err)
		}

		next := doc.ProgressLog
		next.Details = domain.CopyDetails(next.Details)
		if err := fn(&next, exists); err != nil {
			return nil, err
		}
		next.Date = date

		if !exists {
			doc.ProgressLog = next
			doc.Revision = 1
			_, err := r.collection.InsertOne(ctx, doc)
			if mongo.IsDuplicateKeyError(err) {
				continue
			}
			if err != nil {
				return nil, fmt.Errorf("inserting log %s for user %s: %w", date, userID, err)
			}
			return &next, nil
		}

		set := bson.M{
			"weight":           next.Weight,
			"workoutCompleted": next.WorkoutCompleted,
			"waterIntake":      next.WaterIntake,
		}
		unset := bson.M{}
		if next.CaloriesConsumed != nil {
			set["caloriesConsumed"] = *next.CaloriesConsumed
		} else {
			unset["caloriesConsumed"] = ""
		}
		if next.Details != nil {
			set["details"] = next.Details
		} else {
			unset["details"] = ""
		}
		change := bson.M{"$set": set, "$inc": bson.M{"rev": 1}}
		if len(unset) > 0 {
			change["$unset"] = unset
		}

		res, err := r.collection.UpdateOne(ctx, bson.M{"_id": doc.ID, "rev": revisionMatch(doc.Revision)}, change)
		if err != nil {
			return nil, fmt.Errorf("updating log %s for user %s: %w", date, userID, err)
		}
		if res.MatchedCount == 0 {
			continue
		}
		return &next, nil
	}
	return nil, fmt.Errorf("updating log %s for user %s: too many concurrent writers", date, userID)
}

// revisionMatch matches rev, treating documents written before revisions
// existed as revision 0.
func revisionMatch(rev int64) any {
	if rev == 0 {
		return bson.M{"$in": bson.A{int64(0), nil}}
	}
	return rev
}

// List returns the user's logs in insertion order.
func (r *mongoLogRepository) List(ctx context.Context, userID string) ([]domain.ProgressLog, error) {
	findOptions := options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}, {Key: "_id", Value: 1}})
	cursor, err := r.collection.Find(ctx, bson.M{"userId": userID}, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	logs := []domain.ProgressLog{}
	for cursor.Next(ctx) {
		var doc logDocument
		if err := cursor.Decode(&doc); err != nil {
			return nil, repository.Corrupted(logCollectionName+"/"+userID, err)
		}
		logs = append(logs, doc.ProgressLog)
	}
	if err := cursor.Err(); err != nil {
		return nil, err
	}
	return logs, nil
}

// EnsureLogIndexes creates the unique (userId, date) index that backs the
// one-log-per-day rule.
func EnsureLogIndexes(ctx context.Context, collection *mongo.Collection) error {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "userId", Value: 1}, {Key: "date", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys: bson.D{{Key: "userId", Value: 1}, {Key: "createdAt", Value: 1}},
		},
	}
	if _, err := collection.Indexes().CreateMany(ctx, indexes); err != nil {
		return fmt.Errorf("creating indexes for %s: %w", collection.Name(), err)
	}
	return nil
}
