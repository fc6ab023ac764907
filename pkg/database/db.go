// Package database manages the MongoDB connection shared by all
// repositories. A single configured connection string selects the backing
// database at startup; a failed connection aborts the boot sequence.
package database

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/threadline/threadline/config"
)

var (
	client *mongo.Client
	db     *mongo.Database
)

// Connect opens the MongoDB client, verifies the connection with a ping and
// creates the indexes the document model relies on. Returns an error instead
// of calling log.Fatal so the caller can shut down gracefully.
func Connect() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	clientOpts := options.Client().ApplyURI(config.MongoURI()).
		SetConnectTimeout(5 * time.Second).
		SetServerSelectionTimeout(5 * time.Second).
		SetMaxPoolSize(25)

	c, err := mongo.Connect(ctx, clientOpts)
	if err != nil {
		return fmt.Errorf("database: connect: %w", err)
	}

	if err := c.Ping(ctx, nil); err != nil {
		_ = c.Disconnect(context.Background())
		return fmt.Errorf("database: ping: %w", err)
	}

	client = c
	db = c.Database(config.MongoDatabase())

	if err := ensureIndexes(ctx); err != nil {
		return fmt.Errorf("database: indexes: %w", err)
	}

	return nil
}

// DB returns the application database handle.
func DB() *mongo.Database {
	return db
}

// Client returns the underlying MongoDB client.
func Client() *mongo.Client {
	return client
}

// Disconnect closes the client. Safe to call when Connect never succeeded.
func Disconnect(ctx context.Context) error {
	if client == nil {
		return nil
	}
	return client.Disconnect(ctx)
}

// ensureIndexes creates the indexes that back the model invariants:
// unique user emails, unique human-readable order ids, and the per-user
// order history sort.
func ensureIndexes(ctx context.Context) error {
	_, err := db.Collection("users").Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return err
	}

	_, err = db.Collection("orders").Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "orderId", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys: bson.D{{Key: "userId", Value: 1}, {Key: "orderDate", Value: -1}},
		},
	})
	return err
}
