package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type kvDocument struct {
	Key      string     `bson:"_id"`
	Value    []byte     `bson:"value"`
	ExpireAt *time.Time `bson:"expireAt,omitempty"`
}

type MongoBackend struct {
	collection *mongo.Collection
	now        func() time.Time
}

// NewMongoBackend prepares the collection, including the TTL index that lets
// MongoDB reap expired session keys.
func NewMongoBackend(ctx context.Context, collection *mongo.Collection) (*MongoBackend, error) {
	_, err := collection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "expireAt", Value: 1}},
		Options: options.Index().SetExpireAfterSeconds(0),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create ttl index: %w", err)
	}

	return &MongoBackend{collection: collection, now: time.Now}, nil
}

func (m *MongoBackend) Get(ctx context.Context, key string) ([]byte, error) {
	var doc kvDocument
	err := m.collection.FindOne(ctx, bson.M{"_id": key}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find key %s: %w", key, err)
	}

	// The TTL monitor runs about once a minute, so expiry is also checked here.
	if doc.ExpireAt != nil && !m.now().Before(*doc.ExpireAt) {
		return nil, ErrNotFound
	}
	return doc.Value, nil
}

func (m *MongoBackend) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	doc := kvDocument{Key: key, Value: value}
	if ttl > 0 {
		expireAt := m.now().Add(ttl)
		doc.ExpireAt = &expireAt
	}

	opts := options.Replace().SetUpsert(true)
	if _, err := m.collection.ReplaceOne(ctx, bson.M{"_id": key}, doc, opts); err != nil {
		return fmt.Errorf("failed to upsert key %s: %w", key, err)
	}
	return nil
}

func (m *MongoBackend) Delete(ctx context.Context, key string) error {
	if _, err := m.collection.DeleteOne(ctx, bson.M{"_id": key}); err != nil {
		return fmt.Errorf("failed to delete key %s: %w", key, err)
	}
	return nil
}

func (m *MongoBackend) Touch(ctx context.Context, key string, ttl time.Duration) error {
	now := m.now()
	filter := bson.M{"_id": key, "expireAt": bson.M{"$gt": now}}
	update := bson.M{"$set": bson.M{"expireAt": now.Add(ttl)}}
	if _, err := m.collection.UpdateOne(ctx, filter, update); err != nil {
		return fmt.Errorf("failed to touch key %s: %w", key, err)
	}
	return nil
}
