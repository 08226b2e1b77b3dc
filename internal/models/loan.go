package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Loan request lifecycle states.
const (
	LoanStatusPending  = "pending"
	LoanStatusAccepted = "accepted"
	LoanStatusRejected = "rejected"
	LoanStatusReturned = "returned"
)

// LoanRequest tracks a borrower asking a lender for one of their offered
// books. Accepting copies the book into the borrower's borrowedBooks;
// returning removes it again.
type LoanRequest struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	BookID     primitive.ObjectID `bson:"book_id" json:"book_id"`
	LenderID   primitive.ObjectID `bson:"lender_id" json:"lender_id"`
	BorrowerID primitive.ObjectID `bson:"borrower_id" json:"borrower_id"`
	Status     string             `bson:"status" json:"status"` // "pending", "accepted", "rejected", "returned"
	CreatedAt  time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt  time.Time          `bson:"updated_at" json:"updated_at"`
}
