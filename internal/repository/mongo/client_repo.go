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

const clientCollectionName = "clients"

// mongoClientRepository implements repository.ClientRepository
type mongoClientRepository struct {
	collection *mongo.Collection
}

// NewMongoClientRepository creates a new Client repository backed by MongoDB.
func NewMongoClientRepository(db *mongo.Database) repository.ClientRepository {
	return &mongoClientRepository{
		collection: db.Collection(clientCollectionName),
	}
}

// Create inserts a new client into the database.
func (r *mongoClientRepository) Create(ctx context.Context, client *domain.Client) (primitive.ObjectID, error) {
	if client.OwnerFirstName == "" || client.Email == "" {
		return primitive.NilObjectID, errors.New("client owner first name and email are required")
	}

	client.ID = primitive.NewObjectID()
	client.CreatedAt = time.Now().UTC()
	// The summary fields are stored explicitly from the start so readers
	// never have to distinguish "missing" from "none".
	if client.LastSession == "" {
		client.LastSession = domain.NoLastSession
	}
	if client.NextSession == "" {
		client.NextSession = domain.NoNextSession
	}

	result, err := r.collection.InsertOne(ctx, client)
	if err != nil {
		return primitive.NilObjectID, err
	}

	insertedID, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, errors.New("failed to convert inserted ID")
	}

	return insertedID, nil
}

// GetByID retrieves a client by its ID.
func (r *mongoClientRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Client, error) {
	var client domain.Client
	filter := bson.M{"_id": id}

	err := r.collection.FindOne(ctx, filter).Decode(&client)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &client, nil
}

// GetByEmail retrieves a client by owner email address.
func (r *mongoClientRepository) GetByEmail(ctx context.Context, email string) (*domain.Client, error) {
	var client domain.Client
	filter := bson.M{"email": email}

	err := r.collection.FindOne(ctx, filter).Decode(&client)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &client, nil
}

// List retrieves all clients, newest first.
func (r *mongoClientRepository) List(ctx context.Context) ([]domain.Client, error) {
	var clients []domain.Client

	findOptions := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})

	cursor, err := r.collection.Find(ctx, bson.M{}, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	if err = cursor.All(ctx, &clients); err != nil {
		return nil, err
	}
	if err = cursor.Err(); err != nil {
		return nil, err
	}

	return clients, nil
}

// Update modifies a client's editable fields. The derived summary fields are
// intentionally not part of this update; UpdateSummary is their only writer.
func (r *mongoClientRepository) Update(ctx context.Context, client *domain.Client) error {
	if client.ID == primitive.NilObjectID {
		return errors.New("client ID is required for update")
	}

	filter := bson.M{"_id": client.ID}
	update := bson.M{
		"$set": bson.M{
			"ownerFirstName": client.OwnerFirstName,
			"ownerLastName":  client.OwnerLastName,
			"email":          client.Email,
			"phone":          client.Phone,
			"postcode":       client.Postcode,
			"dogName":        client.DogName,
			"dogSex":         client.DogSex,
			"dogBreed":       client.DogBreed,
			"isMember":       client.IsMember,
			// Note: lastSession/nextSession are NOT set here
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

// UpdateSummary writes the derived lastSession/nextSession fields.
func (r *mongoClientRepository) UpdateSummary(ctx context.Context, id primitive.ObjectID, summary domain.SessionSummary) error {
	filter := bson.M{"_id": id}
	update := bson.M{
		"$set": bson.M{
			"lastSession": summary.LastSession,
			"nextSession": summary.NextSession,
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

// SetBehaviourBriefKey records the storage key of the client's uploaded
// behavioural brief.
func (r *mongoClientRepository) SetBehaviourBriefKey(ctx context.Context, id primitive.ObjectID, objectKey string) error {
	filter := bson.M{"_id": id}
	update := bson.M{"$set": bson.M{"behaviourBriefKey": objectKey}}

	result, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return repository.ErrNotFound
	}

	return nil
}

// EnsureClientIndexes creates necessary indexes for the clients collection.
func EnsureClientIndexes(ctx context.Context, collection *mongo.Collection) {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index(),
		},
		{
			Keys:    bson.D{{Key: "createdAt", Value: -1}},
			Options: options.Index(),
		},
	}

	_, err := collection.Indexes().CreateMany(ctx, indexes)
	if err != nil {
		// log.Printf("WARN: Failed to create indexes for collection %s: %v", collection.Name(), err)
	}
}
