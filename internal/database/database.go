package database

import (
	"context"
	"fmt"
	"time"

	"github.com/otherscovers/otherscovers/internal/config"
	"github.com/otherscovers/otherscovers/pkg/logger"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// Connect establishes the MongoDB connection and verifies it with a ping.
// The returned client must be disconnected on shutdown.
func Connect(ctx context.Context, cfg *config.Config) (*mongo.Client, *mongo.Database, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to MongoDB: %v", err)
	}

	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		return nil, nil, fmt.Errorf("failed to ping MongoDB: %v", err)
	}

	logger.Log.Info("Connected to MongoDB")
	return client, client.Database(cfg.DBName), nil
}

// EnsureIndexes creates the indexes the queries depend on: the unique
// username constraint, the full-text index backing game search, and the
// membership index backing community lookups.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	_, err := db.Collection("users").Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "username", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return fmt.Errorf("failed to create username index: %v", err)
	}

	// Title matches rank above description matches.
	_, err = db.Collection("games").Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{
			{Key: "title", Value: "text"},
			{Key: "description", Value: "text"},
		},
		Options: options.Index().SetWeights(bson.D{
			{Key: "title", Value: 10},
			{Key: "description", Value: 2},
		}),
	})
	if err != nil {
		return fmt.Errorf("failed to create game text index: %v", err)
	}

	_, err = db.Collection("communities").Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "members", Value: 1}},
	})
	if err != nil {
		return fmt.Errorf("failed to create community members index: %v", err)
	}

	logger.Log.Info("Database indexes ensured")
	return nil
}
