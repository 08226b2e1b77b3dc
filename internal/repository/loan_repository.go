package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/otherscovers/otherscovers/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// LoanRepository handles database operations on loan requests.
type LoanRepository struct {
	collection *mongo.Collection
}

// NewLoanRepository creates a new instance of LoanRepository.
func NewLoanRepository(db *mongo.Database) *LoanRepository {
	return &LoanRepository{
		collection: db.Collection("loan_requests"),
	}
}

// CreateRequest inserts a new loan request.
func (r *LoanRepository) CreateRequest(ctx context.Context, request *models.LoanRequest) (*models.LoanRequest, error) {
	request.CreatedAt = time.Now()
	request.UpdatedAt = time.Now()

	result, err := r.collection.InsertOne(ctx, request)
	if err != nil {
		return nil, fmt.Errorf("failed to insert loan request: %v", err)
	}

	insertedID, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return nil, fmt.Errorf("failed to cast inserted ID")
	}
	request.ID = insertedID

	return request, nil
}

// GetRequestByID fetches a single loan request.
func (r *LoanRepository) GetRequestByID(ctx context.Context, id primitive.ObjectID) (*models.LoanRequest, error) {
	var request models.LoanRequest
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&request)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("loan request %s: %w", id.Hex(), ErrNotFound)
		}
		return nil, fmt.Errorf("failed to find loan request: %v", err)
	}
	return &request, nil
}

// GetPendingRequestsByLender lists requests awaiting the lender's response.
func (r *LoanRepository) GetPendingRequestsByLender(ctx context.Context, lenderID primitive.ObjectID) ([]models.LoanRequest, error) {
	cursor, err := r.collection.Find(ctx, bson.M{
		"lender_id": lenderID,
		"status":    models.LoanStatusPending,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch loan requests: %v", err)
	}
	defer cursor.Close(ctx)

	requests := []models.LoanRequest{}
	for cursor.Next(ctx) {
		var request models.LoanRequest
		if err := cursor.Decode(&request); err != nil {
			return nil, fmt.Errorf("failed to decode loan request: %v", err)
		}
		requests = append(requests, request)
	}

	return requests, cursor.Err()
}

// UpdateRequestStatus moves a loan request to a new lifecycle state.
func (r *LoanRepository) UpdateRequestStatus(ctx context.Context, id primitive.ObjectID, status string) error {
	res, err := r.collection.UpdateOne(ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M{"status": status, "updated_at": time.Now()}},
	)
	if err != nil {
		return fmt.Errorf("failed to update loan request status: %v", err)
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("loan request %s: %w", id.Hex(), ErrNotFound)
	}
	return nil
}
