package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Game is a curated catalog entry. Users reference games by ID instead of
// embedding them, so one record serves every lender.
type Game struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Title       string             `bson:"title" json:"title"`
	Description string             `bson:"description,omitempty" json:"description,omitempty"`
	BggID       string             `bson:"bgg_id,omitempty" json:"bggId,omitempty"`
	ImageURL    string             `bson:"image_url,omitempty" json:"imageUrl,omitempty"`
	// Score carries the text-search relevance when the game comes out of a
	// search query; it is never stored.
	Score     float64   `bson:"score,omitempty" json:"score,omitempty"`
	CreatedAt time.Time `bson:"created_at" json:"created_at"`
}
