package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Book is always embedded inside a User document (lendingLibrary or
// borrowedBooks). It keeps its own _id so a single copy can be pulled, and
// the Google Books ID for de-duplication and display.
type Book struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	GoogleBooksID string             `bson:"google_books_id,omitempty" json:"googleBooksId,omitempty"`
	Title         string             `bson:"title" json:"title"`
	Author        string             `bson:"author" json:"author"`
	AddedAt       time.Time          `bson:"added_at" json:"added_at"`
}
