package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/otherscovers/otherscovers/internal/models"
	"github.com/otherscovers/otherscovers/pkg/logger"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// GameRepository handles database operations on the game catalog.
type GameRepository struct {
	collection *mongo.Collection
}

// NewGameRepository creates a new instance of GameRepository.
func NewGameRepository(db *mongo.Database) *GameRepository {
	return &GameRepository{
		collection: db.Collection("games"),
	}
}

// CreateGame inserts a new catalog entry.
func (r *GameRepository) CreateGame(ctx context.Context, game *models.Game) (*models.Game, error) {
	game.CreatedAt = time.Now()

	result, err := r.collection.InsertOne(ctx, game)
	if err != nil {
		logger.Log.WithError(err).Error("Failed to insert game")
		return nil, fmt.Errorf("failed to insert game: %v", err)
	}

	insertedID, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		logger.Log.Error("Failed to cast inserted ID")
		return nil, fmt.Errorf("failed to cast inserted ID")
	}
	game.ID = insertedID

	logger.Log.WithField("gameID", game.ID.Hex()).Info("Game created successfully")
	return game, nil
}

// GetGameByID fetches a single game from the catalog.
func (r *GameRepository) GetGameByID(ctx context.Context, id primitive.ObjectID) (*models.Game, error) {
	var game models.Game
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&game)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("game %s: %w", id.Hex(), ErrNotFound)
		}
		return nil, fmt.Errorf("failed to find game by id: %v", err)
	}
	return &game, nil
}

// GetGamesByIDs resolves a list of game references. References that no
// longer match a catalog entry are simply absent from the result, which is
// how dangling references stay harmless.
func (r *GameRepository) GetGamesByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.Game, error) {
	if len(ids) == 0 {
		return []models.Game{}, nil
	}

	cursor, err := r.collection.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch games by IDs: %v", err)
	}
	defer cursor.Close(ctx)

	games := []models.Game{}
	for cursor.Next(ctx) {
		var game models.Game
		if err := cursor.Decode(&game); err != nil {
			return nil, fmt.Errorf("failed to decode game: %v", err)
		}
		games = append(games, game)
	}

	return games, cursor.Err()
}

// SearchGamesByTitle runs a case- and diacritic-insensitive full-text search
// against the games text index and returns matches ordered by descending
// relevance score.
func (r *GameRepository) SearchGamesByTitle(ctx context.Context, title string) ([]models.Game, error) {
	filter := bson.M{"$text": bson.M{
		"$search":             title,
		"$caseSensitive":      false,
		"$diacriticSensitive": false,
	}}
	opts := options.Find().
		SetProjection(bson.M{"score": bson.M{"$meta": "textScore"}}).
		SetSort(bson.M{"score": bson.M{"$meta": "textScore"}})

	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		logger.Log.WithFields(map[string]interface{}{
			"title": title,
			"error": err,
		}).Error("Failed to search games")
		return nil, fmt.Errorf("failed to search games: %v", err)
	}
	defer cursor.Close(ctx)

	games := []models.Game{}
	for cursor.Next(ctx) {
		var game models.Game
		if err := cursor.Decode(&game); err != nil {
			return nil, fmt.Errorf("failed to decode game: %v", err)
		}
		games = append(games, game)
	}

	return games, cursor.Err()
}
