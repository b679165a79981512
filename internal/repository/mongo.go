package repository

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"portfolio-api/internal/model"
)

// withoutObjectID keeps Mongo's internal _id out of every read
var withoutObjectID = bson.M{"_id": 0}

// MongoRepository stores contact messages as documents in a MongoDB collection
type MongoRepository struct {
	client     *mongo.Client
	collection *mongo.Collection
}

// NewMongoRepository wraps a connected client. database and collection
// locate the contact documents.
func NewMongoRepository(client *mongo.Client, database, collection string) *MongoRepository {
	return &MongoRepository{
		client:     client,
		collection: client.Database(database).Collection(collection),
	}
}

var _ ContactRepository = (*MongoRepository)(nil)

// EnsureIndexes creates the unique index on the public id
func (r *MongoRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.collection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "id", Value: 1}},
		Options: options.Index().SetUnique(true).SetName("contact_id_unique"),
	})
	if err != nil {
		return fmt.Errorf("failed to create contact id index: %w", err)
	}
	return nil
}

func (r *MongoRepository) Create(ctx context.Context, contact *model.ContactMessage) error {
	if _, err := r.collection.InsertOne(ctx, contact); err != nil {
		return fmt.Errorf("failed to insert contact: %w", err)
	}
	return nil
}

func (r *MongoRepository) List(ctx context.Context) ([]model.ContactMessage, error) {
	opts := options.Find().
		SetProjection(withoutObjectID).
		SetSort(bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}})

	cursor, err := r.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list contacts: %w", err)
	}

	contacts := []model.ContactMessage{}
	if err := cursor.All(ctx, &contacts); err != nil {
		return nil, fmt.Errorf("failed to decode contacts: %w", err)
	}
	return contacts, nil
}

func (r *MongoRepository) GetByID(ctx context.Context, id string) (*model.ContactMessage, error) {
	var contact model.ContactMessage
	err := r.collection.FindOne(ctx, bson.M{"id": id}, options.FindOne().SetProjection(withoutObjectID)).Decode(&contact)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrContactNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch contact: %w", err)
	}

	return &contact, nil
}

func (r *MongoRepository) UpdateStatus(ctx context.Context, id, status string) error {
	result, err := r.collection.UpdateOne(ctx, bson.M{"id": id}, bson.M{"$set": bson.M{"status": status}})
	if err != nil {
		return fmt.Errorf("failed to update contact status: %w", err)
	}
	if result.MatchedCount == 0 {
		return ErrContactNotFound
	}
	return nil
}

func (r *MongoRepository) Count(ctx context.Context) (int64, error) {
	n, err := r.collection.CountDocuments(ctx, bson.M{})
	if err != nil {
		return 0, fmt.Errorf("failed to count contacts: %w", err)
	}
	return n, nil
}

func (r *MongoRepository) CountByStatus(ctx context.Context, status string) (int64, error) {
	n, err := r.collection.CountDocuments(ctx, bson.M{"status": status})
	if err != nil {
		return 0, fmt.Errorf("failed to count contacts by status: %w", err)
	}
	return n, nil
}

func (r *MongoRepository) Ping(ctx context.Context) error {
	return r.client.Ping(ctx, readpref.Primary())
}

func (r *MongoRepository) Close(ctx context.Context) error {
	return r.client.Disconnect(ctx)
}
