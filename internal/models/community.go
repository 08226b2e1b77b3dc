package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Community is a named group of users. Membership governs whose lending
// offers a user can see; members is kept duplicate-free with $addToSet.
type Community struct {
	ID          primitive.ObjectID   `bson:"_id,omitempty" json:"id"`
	Name        string               `bson:"name" json:"name"`
	Description string               `bson:"description,omitempty" json:"description,omitempty"`
	Members     []primitive.ObjectID `bson:"members" json:"members"`
	CreatedAt   time.Time            `bson:"created_at" json:"created_at"`
}
