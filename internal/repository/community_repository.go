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
)

// CommunityRepository handles database operations on communities.
type CommunityRepository struct {
	collection *mongo.Collection
}

// NewCommunityRepository creates a new instance of CommunityRepository.
func NewCommunityRepository(db *mongo.Database) *CommunityRepository {
	return &CommunityRepository{
		collection: db.Collection("communities"),
	}
}

// CreateCommunity inserts a new community.
func (r *CommunityRepository) CreateCommunity(ctx context.Context, community *models.Community) (*models.Community, error) {
	community.CreatedAt = time.Now()

	result, err := r.collection.InsertOne(ctx, community)
	if err != nil {
		logger.Log.WithError(err).Error("Failed to insert community")
		return nil, fmt.Errorf("failed to insert community: %v", err)
	}

	insertedID, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return nil, fmt.Errorf("failed to cast inserted ID")
	}
	community.ID = insertedID

	logger.Log.WithField("communityID", community.ID.Hex()).Info("Community created")
	return community, nil
}

// GetCommunityByID fetches a single community.
func (r *CommunityRepository) GetCommunityByID(ctx context.Context, id primitive.ObjectID) (*models.Community, error) {
	var community models.Community
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&community)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("community %s: %w", id.Hex(), ErrNotFound)
		}
		return nil, fmt.Errorf("failed to find community by id: %v", err)
	}
	return &community, nil
}

// GetAllCommunities lists every community.
func (r *CommunityRepository) GetAllCommunities(ctx context.Context) ([]models.Community, error) {
	cursor, err := r.collection.Find(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch communities: %v", err)
	}
	defer cursor.Close(ctx)

	communities := []models.Community{}
	for cursor.Next(ctx) {
		var community models.Community
		if err := cursor.Decode(&community); err != nil {
			return nil, fmt.Errorf("failed to decode community: %v", err)
		}
		communities = append(communities, community)
	}

	return communities, cursor.Err()
}

// GetCommunitiesByMember returns every community the user belongs to.
func (r *CommunityRepository) GetCommunitiesByMember(ctx context.Context, userID primitive.ObjectID) ([]models.Community, error) {
	cursor, err := r.collection.Find(ctx, bson.M{"members": userID})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch communities for member: %v", err)
	}
	defer cursor.Close(ctx)

	communities := []models.Community{}
	for cursor.Next(ctx) {
		var community models.Community
		if err := cursor.Decode(&community); err != nil {
			return nil, fmt.Errorf("failed to decode community: %v", err)
		}
		communities = append(communities, community)
	}

	return communities, cursor.Err()
}

// AddMember adds a user to the community's member set.
func (r *CommunityRepository) AddMember(ctx context.Context, communityID, userID primitive.ObjectID) error {
	res, err := r.collection.UpdateOne(ctx,
		bson.M{"_id": communityID},
		bson.M{"$addToSet": bson.M{"members": userID}},
	)
	if err != nil {
		return fmt.Errorf("failed to add member: %v", err)
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("community %s: %w", communityID.Hex(), ErrNotFound)
	}
	return nil
}

// RemoveMember pulls a user from the community's member set. Removing a
// non-member is a no-op.
func (r *CommunityRepository) RemoveMember(ctx context.Context, communityID, userID primitive.ObjectID) error {
	res, err := r.collection.UpdateOne(ctx,
		bson.M{"_id": communityID},
		bson.M{"$pull": bson.M{"members": userID}},
	)
	if err != nil {
		return fmt.Errorf("failed to remove member: %v", err)
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("community %s: %w", communityID.Hex(), ErrNotFound)
	}
	return nil
}
