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

const sessionCollectionName = "sessions"

// mongoSessionRepository implements repository.SessionRepository
type mongoSessionRepository struct {
	collection *mongo.Collection
}

// NewMongoSessionRepository creates a new Session repository backed by MongoDB.
func NewMongoSessionRepository(db *mongo.Database) repository.SessionRepository {
	return &mongoSessionRepository{
		collection: db.Collection(sessionCollectionName),
	}
}

// Create inserts a new open session. The partial unique index on open
// sessions turns a second open session for the same user into ErrConflict.
func (r *mongoSessionRepository) Create(ctx context.Context, session *domain.Session) (primitive.ObjectID, error) {
	if session.UserID == primitive.NilObjectID {
		return primitive.NilObjectID, errors.New("session requires userId")
	}
	session.ID = primitive.NewObjectID()
	session.Completed = false
	session.CompletedAt = nil
	session.Revision = 0
	session.PendingWrites = 0
	session.LastWriteAt = nil
	now := time.Now().UTC()
	session.CreatedAt = now
	session.UpdatedAt = now

	result, err := r.collection.InsertOne(ctx, session)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return primitive.NilObjectID, repository.ErrConflict
		}
		return primitive.NilObjectID, err
	}
	insertedID, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, errors.New("failed to convert inserted session ID")
	}
	return insertedID, nil
}

// GetByID retrieves a single session by its ID.
func (r *mongoSessionRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Session, error) {
	return r.findOne(ctx, bson.M{"_id": id})
}

// GetOpenByUser retrieves the user's session that has not been completed yet.
func (r *mongoSessionRepository) GetOpenByUser(ctx context.Context, userID primitive.ObjectID) (*domain.Session, error) {
	return r.findOne(ctx, bson.M{"userId": userID, "completed": false})
}

func (r *mongoSessionRepository) findOne(ctx context.Context, filter bson.M) (*domain.Session, error) {
	var session domain.Session
	err := r.collection.FindOne(ctx, filter).Decode(&session)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &session, nil
}

// ListByUser retrieves all sessions of a user, newest first.
func (r *mongoSessionRepository) ListByUser(ctx context.Context, userID primitive.ObjectID) ([]domain.Session, error) {
	var sessions []domain.Session
	findOptions := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})

	cursor, err := r.collection.Find(ctx, bson.M{"userId": userID}, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	if err = cursor.All(ctx, &sessions); err != nil {
		return nil, err
	}
	if err = cursor.Err(); err != nil {
		return nil, err
	}
	return sessions, nil
}

// UpdateDetails sets the editable fields of a session that is still open.
func (r *mongoSessionRepository) UpdateDetails(ctx context.Context, id primitive.ObjectID, details repository.SessionDetails) error {
	set := bson.M{
		"sessionName": details.SessionName,
		"intensity":   details.Intensity,
		"notes":       details.Notes,
		"updatedAt":   time.Now().UTC(),
	}

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": id, "completed": false}, bson.M{"$set": set})
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return repository.ErrNotFound // Missing or already completed
	}
	return nil
}

// Complete finalizes an open session whose climbs have settled at expectedRevision.
// A pending write older than repository.StaleClimbWriteAfter is taken as abandoned.
func (r *mongoSessionRepository) Complete(ctx context.Context, id primitive.ObjectID, expectedRevision int64, details repository.SessionDetails, stats domain.SessionStats) error {
	now := time.Now().UTC()
	filter := bson.M{
		"_id":       id,
		"completed": false,
		"revision":  expectedRevision,
		"$or": bson.A{
			bson.M{"pendingWrites": bson.M{"$lte": 0}},
			bson.M{"lastWriteAt": bson.M{"$lt": now.Add(-repository.StaleClimbWriteAfter)}},
		},
	}
	update := bson.M{"$set": bson.M{
		"sessionName":  details.SessionName,
		"intensity":    details.Intensity,
		"notes":        details.Notes,
		"sessionStats": stats,
		"completed":    true,
		"completedAt":  now,
		"updatedAt":    now,
	}}

	result, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return err
	}
	if result.MatchedCount > 0 {
		return nil
	}
	// Tell a guard miss apart from a session that is gone or already completed.
	if _, err := r.findOne(ctx, bson.M{"_id": id, "completed": false}); err != nil {
		return err
	}
	return repository.ErrConflict
}

// BeginClimbWrite holds off completion until the matching EndClimbWrite.
func (r *mongoSessionRepository) BeginClimbWrite(ctx context.Context, id primitive.ObjectID) error {
	update := bson.M{
		"$inc": bson.M{"pendingWrites": 1},
		"$set": bson.M{"lastWriteAt": time.Now().UTC()},
	}
	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": id, "completed": false}, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// EndClimbWrite releases a pending write and stores freshly aggregated stats.
func (r *mongoSessionRepository) EndClimbWrite(ctx context.Context, id primitive.ObjectID, stats *domain.SessionStats) error {
	set := bson.M{"updatedAt": time.Now().UTC()}
	if stats != nil {
		set["sessionStats"] = *stats
	}
	update := bson.M{
		"$inc": bson.M{"pendingWrites": -1, "revision": 1},
		"$set": set,
	}
	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": id, "completed": false}, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// DeleteByUser removes every session of a user.
func (r *mongoSessionRepository) DeleteByUser(ctx context.Context, userID primitive.ObjectID) error {
	_, err := r.collection.DeleteMany(ctx, bson.M{"userId": userID})
	return err
}

// EnsureSessionIndexes creates necessary indexes. Call during startup.
func EnsureSessionIndexes(ctx context.Context, collection *mongo.Collection) error {
	indexes := []mongo.IndexModel{
		{
			// At most one open session per user
			Keys: bson.D{{Key: "userId", Value: 1}},
			Options: options.Index().
				SetUnique(true).
				SetName("one_open_session_per_user").
				SetPartialFilterExpression(bson.M{"completed": false}),
		},
		{
			// History listing
			Keys:    bson.D{{Key: "userId", Value: 1}, {Key: "createdAt", Value: -1}},
			Options: options.Index(),
		},
	}
	_, err := collection.Indexes().CreateMany(ctx, indexes)
	return err
}
