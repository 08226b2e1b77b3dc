package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/otherscovers/otherscovers/internal/models"
	"github.com/otherscovers/otherscovers/internal/repository"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// CommunityService handles community lifecycle and membership. Membership is
// recorded on both sides: the community's member set and the user's
// communities list. No transaction spans the two writes; the community's
// member set is the authoritative side for visibility.
type CommunityService struct {
	communityRepo CommunityStore
	userRepo      UserStore
}

// NewCommunityService creates a new instance of CommunityService.
func NewCommunityService(communityRepo CommunityStore, userRepo UserStore) *CommunityService {
	return &CommunityService{
		communityRepo: communityRepo,
		userRepo:      userRepo,
	}
}

// CreateCommunity creates a community with the creator as its first member.
func (s *CommunityService) CreateCommunity(ctx context.Context, creatorID primitive.ObjectID, name, description string) (*models.Community, error) {
	if strings.TrimSpace(name) == "" {
		return nil, fmt.Errorf("%w: community name is required", ErrInvalidRequest)
	}

	community := &models.Community{
		Name:        name,
		Description: description,
		Members:     []primitive.ObjectID{creatorID},
	}

	created, err := s.communityRepo.CreateCommunity(ctx, community)
	if err != nil {
		return nil, fmt.Errorf("failed to create community: %v", err)
	}

	if err := s.userRepo.AddCommunity(ctx, creatorID, created.ID); err != nil {
		logrus.WithError(err).Warn("Failed to record community on creator")
	}

	return created, nil
}

// GetAllCommunities lists every community.
func (s *CommunityService) GetAllCommunities(ctx context.Context) ([]models.Community, error) {
	return s.communityRepo.GetAllCommunities(ctx)
}

// GetMyCommunities lists the communities the user belongs to.
func (s *CommunityService) GetMyCommunities(ctx context.Context, userID primitive.ObjectID) ([]models.Community, error) {
	return s.communityRepo.GetCommunitiesByMember(ctx, userID)
}

// JoinCommunity adds the user to the community's member set. Joining twice
// is harmless; the member set never holds duplicates.
func (s *CommunityService) JoinCommunity(ctx context.Context, userID, communityID primitive.ObjectID) (*models.Community, error) {
	if err := s.communityRepo.AddMember(ctx, communityID, userID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrCommunityNotFound
		}
		return nil, fmt.Errorf("failed to join community: %v", err)
	}

	if err := s.userRepo.AddCommunity(ctx, userID, communityID); err != nil {
		logrus.WithError(err).Warn("Failed to record community on user")
	}

	return s.communityRepo.GetCommunityByID(ctx, communityID)
}

// LeaveCommunity removes the user from the community's member set. Leaving a
// community the user is not in is a no-op.
func (s *CommunityService) LeaveCommunity(ctx context.Context, userID, communityID primitive.ObjectID) error {
	if err := s.communityRepo.RemoveMember(ctx, communityID, userID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrCommunityNotFound
		}
		return fmt.Errorf("failed to leave community: %v", err)
	}

	if err := s.userRepo.RemoveCommunity(ctx, userID, communityID); err != nil {
		logrus.WithError(err).Warn("Failed to remove community from user")
	}

	return nil
}
