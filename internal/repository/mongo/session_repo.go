package mongo

import (
	"context"
	"errors"
	"mcjmccartney/practice-app/internal/domain"
	"mcjmccartney/practice-app/internal/repository"
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

// Create inserts a new session into the database.
func (r *mongoSessionRepository) Create(ctx context.Context, session *domain.Session) (primitive.ObjectID, error) {
	if session.ClientID == primitive.NilObjectID || session.Date == "" {
		return primitive.NilObjectID, errors.New("session client ID and date are required")
	}

	session.ID = primitive.NewObjectID()
	session.CreatedAt = time.Now().UTC()

	result, err := r.collection.InsertOne(ctx, session)
	if err != nil {
		return primitive.NilObjectID, err
	}

	insertedID, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, errors.New("failed to convert inserted ID")
	}

	return insertedID, nil
}

// GetByID retrieves a session by its ID.
func (r *mongoSessionRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Session, error) {
	var session domain.Session
	filter := bson.M{"_id": id}

	err := r.collection.FindOne(ctx, filter).Decode(&session)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &session, nil
}

// GetByClientID retrieves all sessions belonging to a client, cancelled ones
// included; summary computation does its own filtering.
func (r *mongoSessionRepository) GetByClientID(ctx context.Context, clientID primitive.ObjectID) ([]domain.Session, error) {
	return r.find(ctx, bson.M{"clientId": clientID})
}

// List retrieves all sessions, most recent date first.
func (r *mongoSessionRepository) List(ctx context.Context) ([]domain.Session, error) {
	return r.find(ctx, bson.M{})
}

// ListCompletedInRange retrieves Completed sessions dated within [from, to].
// Dates are stored as "YYYY-MM-DD" strings, which order lexicographically.
func (r *mongoSessionRepository) ListCompletedInRange(ctx context.Context, from, to string) ([]domain.Session, error) {
	filter := bson.M{
		"status": domain.StatusCompleted,
		"date":   bson.M{"$gte": from, "$lte": to},
	}
	return r.find(ctx, filter)
}

func (r *mongoSessionRepository) find(ctx context.Context, filter bson.M) ([]domain.Session, error) {
	var sessions []domain.Session

	findOptions := options.Find().SetSort(bson.D{
		{Key: "date", Value: -1},
		{Key: "timeOfDay", Value: -1},
	})

	cursor, err := r.collection.Find(ctx, filter, findOptions)
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

// Update overwrites a session's mutable fields. The denormalized client name
// snapshot is written as-is; whether it changes is the service's decision.
func (r *mongoSessionRepository) Update(ctx context.Context, session *domain.Session) error {
	if session.ID == primitive.NilObjectID {
		return errors.New("session ID is required for update")
	}

	filter := bson.M{"_id": session.ID}
	update := bson.M{
		"$set": bson.M{
			"clientId":    session.ClientID,
			"clientName":  session.ClientName,
			"dogName":     session.DogName,
			"date":        session.Date,
			"timeOfDay":   session.TimeOfDay,
			"sessionType": session.SessionType,
			"amount":      session.Amount,
			"status":      session.Status,
			"notes":       session.Notes,
		},
	}

	result, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return repository.ErrNotFound
	}

	return nil
}

// Delete removes a session.
func (r *mongoSessionRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return repository.ErrNotFound
	}

	return nil
}

// EnsureSessionIndexes creates necessary indexes for the sessions collection.
func EnsureSessionIndexes(ctx context.Context, collection *mongo.Collection) {
	indexes := []mongo.IndexModel{
		{
			// Summary recomputation scans by owning client
			Keys:    bson.D{{Key: "clientId", Value: 1}},
			Options: options.Index(),
		},
		{
			// Finance queries filter by status and date range
			Keys:    bson.D{{Key: "status", Value: 1}, {Key: "date", Value: 1}},
			Options: options.Index(),
		},
	}

	_, err := collection.Indexes().CreateMany(ctx, indexes)
	if err != nil {
		// log.Printf("WARN: Failed to create indexes for collection %s: %v", collection.Name(), err)
	}
}
