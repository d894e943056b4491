package mongo

import (
	"climblog/climbing-app/internal/domain"
	"climblog/climbing-app/internal/repository"
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const climbCollectionName = "climbs"

// mongoClimbRepository implements repository.ClimbRepository
type mongoClimbRepository struct {
	collection *mongo.Collection
}

// NewMongoClimbRepository creates a new Climb repository backed by MongoDB.
func NewMongoClimbRepository(db *mongo.Database) repository.ClimbRepository {
	return &mongoClimbRepository{
		collection: db.Collection(climbCollectionName),
	}
}

// Create inserts a climb. The ID is chosen by the caller.
func (r *mongoClimbRepository) Create(ctx context.Context, climb *domain.Climb) error {
	if climb.ID == "" || climb.SessionID == primitive.NilObjectID || climb.UserID == primitive.NilObjectID {
		return errors.New("climb requires id, sessionId and userId")
	}
	now := time.Now().UTC()
	climb.CreatedAt = now
	climb.UpdatedAt = now

	if _, err := r.collection.InsertOne(ctx, climb); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return repository.ErrConflict
		}
		return err
	}
	return nil
}

// GetByID retrieves a single climb.
func (r *mongoClimbRepository) GetByID(ctx context.Context, id string) (*domain.Climb, error) {
	var climb domain.Climb
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&climb)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &climb, nil
}

// ListBySession retrieves the climbs of a session in the order they were logged.
func (r *mongoClimbRepository) ListBySession(ctx context.Context, sessionID primitive.ObjectID) ([]domain.Climb, error) {
	return r.find(ctx, bson.M{"sessionId": sessionID})
}

// ListByUser retrieves every climb a user has logged.
func (r *mongoClimbRepository) ListByUser(ctx context.Context, userID primitive.ObjectID) ([]domain.Climb, error) {
	return r.find(ctx, bson.M{"userId": userID})
}

func (r *mongoClimbRepository) find(ctx context.Context, filter bson.M) ([]domain.Climb, error) {
	var climbs []domain.Climb
	findOptions := options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}})

	cursor, err := r.collection.Find(ctx, filter, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	if err = cursor.All(ctx, &climbs); err != nil {
		return nil, err
	}
	if err = cursor.Err(); err != nil {
		return nil, err
	}
	return climbs, nil
}

// Update rewrites the editable fields of a climb.
// SessionID and UserID are never changed here.
func (r *mongoClimbRepository) Update(ctx context.Context, climb *domain.Climb) error {
	if climb.ID == "" {
		return errors.New("climb ID is required for update")
	}
	climb.UpdatedAt = time.Now().UTC()
	update := bson.M{"$set": bson.M{
		"name":      climb.Name,
		"type":      climb.Type,
		"style":     climb.Style,
		"grade":     climb.Grade,
		"attempts":  climb.Attempts,
		"send":      climb.Send,
		"updatedAt": climb.UpdatedAt,
	}}
	return r.updateOne(ctx, climb.ID, update)
}

// SetImage records the S3 key of the climb's photo.
func (r *mongoClimbRepository) SetImage(ctx context.Context, id string, objectKey string) error {
	return r.updateOne(ctx, id, bson.M{"$set": bson.M{
		"climbImage": objectKey,
		"updatedAt":  time.Now().UTC(),
	}})
}

func (r *mongoClimbRepository) updateOne(ctx context.Context, id string, update bson.M) error {
	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// Delete removes a single climb.
func (r *mongoClimbRepository) Delete(ctx context.Context, id string) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// DeleteByUser removes every climb of a user.
func (r *mongoClimbRepository) DeleteByUser(ctx context.Context, userID primitive.ObjectID) error {
	_, err := r.collection.DeleteMany(ctx, bson.M{"userId": userID})
	return err
}

// EnsureClimbIndexes creates necessary indexes. Call during startup.
func EnsureClimbIndexes(ctx context.Context, collection *mongo.Collection) error {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "sessionId", Value: 1}, {Key: "createdAt", Value: 1}},
			Options: options.Index(),
		},
		{
			Keys:    bson.D{{Key: "userId", Value: 1}},
			Options: options.Index(),
		},
	}
	_, err := collection.Indexes().CreateMany(ctx, indexes)
	return err
}
