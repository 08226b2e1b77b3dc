package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User represents a member of the lending network.
//
// The book collections come in two flavors: lendingLibrary and borrowedBooks
// embed full Book documents (the user owns those copies and they disappear
// with the account), while requestedBooks, communities and
// lendingLibraryGames hold references that are resolved on read and may
// dangle without breaking anything.
type User struct {
	ID                  primitive.ObjectID   `bson:"_id,omitempty" json:"id"`
	Username            string               `bson:"username" json:"username"`
	HashedPassword      string               `bson:"hashed_password" json:"-"`
	LendingLibrary      []Book               `bson:"lendingLibrary" json:"lendingLibrary"`
	BorrowedBooks       []Book               `bson:"borrowedBooks" json:"borrowedBooks"`
	RequestedBooks      []primitive.ObjectID `bson:"requestedBooks,omitempty" json:"requestedBooks,omitempty"`
	Communities         []primitive.ObjectID `bson:"communities,omitempty" json:"communities,omitempty"`
	LendingLibraryGames []primitive.ObjectID `bson:"lendingLibraryGames,omitempty" json:"lendingLibraryGames,omitempty"`
	LastActive          time.Time            `bson:"last_active,omitempty" json:"last_active,omitempty"`
	CreatedAt           time.Time            `bson:"created_at" json:"created_at"`
	UpdatedAt           time.Time            `bson:"updated_at" json:"updated_at"`
}

// PublicUser is the subset of User safe to show other members.
type PublicUser struct {
	ID       primitive.ObjectID `json:"id"`
	Username string             `json:"username"`
}
