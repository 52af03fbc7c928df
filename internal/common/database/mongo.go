// internal/common/database/mongo.go
package database

import (
	"context"
	"fmt"
	"time"

	"manara-backend/internal/common/config"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// MongoClient wraps the MongoDB client and the configured database handle.
type MongoClient struct {
	Client   *mongo.Client
	Database *mongo.Database
	cfg      config.ContentStoreConfig
}

// NewMongo connects to the content store database.
func NewMongo(ctx context.Context, cfg config.ContentStoreConfig) (*MongoClient, error) {
	opts := options.Client().
		ApplyURI(cfg.URI).
		SetConnectTimeout(config.GetDuration(cfg.Timeout)).
		SetServerSelectionTimeout(config.GetDuration(cfg.Timeout))

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("mongo connect failed: %w", err)
	}

	return &MongoClient{
		Client:   client,
		Database: client.Database(cfg.Database),
		cfg:      cfg,
	}, nil
}

// Ping tests the MongoDB connection
func (c *MongoClient) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := c.Client.Ping(ctx, readpref.Primary()); err != nil {
		return fmt.Errorf("mongo ping failed: %w", err)
	}
	return nil
}

// Close disconnects the client
func (c *MongoClient) Close(ctx context.Context) error {
	if c.Client != nil {
		return c.Client.Disconnect(ctx)
	}
	return nil
}

// Documents returns the collection holding all content documents.
func (c *MongoClient) Documents() *mongo.Collection {
	return c.Database.Collection(c.cfg.Collection)
}
