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

// GameService implements the game lending operations: catalog search,
// lend/unlend, library listing and the cross-community aggregation.
type GameService struct {
	gameRepo      GameStore
	userRepo      UserStore
	communityRepo CommunityStore
}

// NewGameService creates a new instance of GameService.
func NewGameService(gameRepo GameStore, userRepo UserStore, communityRepo CommunityStore) *GameService {
	return &GameService{
		gameRepo:      gameRepo,
		userRepo:      userRepo,
		communityRepo: communityRepo,
	}
}

// AddGame adds a curated entry to the game catalog.
func (s *GameService) AddGame(ctx context.Context, game *models.Game) (*models.Game, error) {
	if strings.TrimSpace(game.Title) == "" {
		return nil, fmt.Errorf("%w: game title is required", ErrInvalidRequest)
	}
	return s.gameRepo.CreateGame(ctx, game)
}

// SearchGames runs a full-text title search and returns matches ordered by
// descending relevance. An empty query is rejected; an empty result set is
// reported as ErrNoGamesFound so the handler can keep the 404 contract
// existing clients depend on.
func (s *GameService) SearchGames(ctx context.Context, title string) ([]models.Game, error) {
	if strings.TrimSpace(title) == "" {
		return nil, fmt.Errorf("%w: no search term provided", ErrInvalidRequest)
	}

	games, err := s.gameRepo.SearchGamesByTitle(ctx, title)
	if err != nil {
		return nil, fmt.Errorf("failed to search games: %v", err)
	}

	if len(games) == 0 {
		return nil, ErrNoGamesFound
	}
	return games, nil
}

// LendGame adds a game reference to the user's lending library and returns
// the updated reference list. Lending the same game twice is a conflict, not
// a silent no-op; the store-level conditional update keeps the duplicate
// check atomic under concurrent calls.
func (s *GameService) LendGame(ctx context.Context, userID, gameID primitive.ObjectID) ([]primitive.ObjectID, error) {
	added, err := s.userRepo.AddLendingLibraryGame(ctx, userID, gameID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to lend game: %v", err)
	}
	if !added {
		logrus.WithFields(logrus.Fields{
			"userID": userID.Hex(),
			"gameID": gameID.Hex(),
		}).Warn("Game already in lending library")
		return nil, ErrAlreadyLent
	}

	user, err := s.userRepo.GetUserByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch updated lending library: %v", err)
	}
	return user.LendingLibraryGames, nil
}

// RemoveGame pulls a game reference from the user's lending library and
// returns the resolved remaining games. Removing an absent reference
// succeeds with the collection unchanged.
func (s *GameService) RemoveGame(ctx context.Context, userID, gameID primitive.ObjectID) ([]models.Game, error) {
	user, err := s.userRepo.RemoveLendingLibraryGame(ctx, userID, gameID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to remove game: %v", err)
	}

	return s.resolveGames(ctx, user.LendingLibraryGames)
}

// GetMyLibraryGames returns the user's lending library with every reference
// expanded to its catalog record.
func (s *GameService) GetMyLibraryGames(ctx context.Context, userID primitive.ObjectID) ([]models.Game, error) {
	user, err := s.userRepo.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to fetch user: %v", err)
	}

	return s.resolveGames(ctx, user.LendingLibraryGames)
}

// GetCommunityGames returns every game offered by other members of the
// user's communities: union the member sets, drop duplicates and the
// requester, then resolve and flatten each remaining member's lending
// library. Dangling game references disappear during resolution.
func (s *GameService) GetCommunityGames(ctx context.Context, userID primitive.ObjectID) ([]models.Game, error) {
	communities, err := s.communityRepo.GetCommunitiesByMember(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch communities: %v", err)
	}

	logrus.WithFields(logrus.Fields{
		"userID":      userID.Hex(),
		"communities": len(communities),
	}).Info("Aggregating games from communities")

	seen := make(map[primitive.ObjectID]struct{})
	memberIDs := []primitive.ObjectID{}
	for _, community := range communities {
		for _, memberID := range community.Members {
			if memberID == userID {
				continue
			}
			if _, ok := seen[memberID]; ok {
				continue
			}
			seen[memberID] = struct{}{}
			memberIDs = append(memberIDs, memberID)
		}
	}

	if len(memberIDs) == 0 {
		return []models.Game{}, nil
	}

	members, err := s.userRepo.GetUsersByIDs(ctx, memberIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch community members: %v", err)
	}

	games := []models.Game{}
	for _, member := range members {
		resolved, err := s.resolveGames(ctx, member.LendingLibraryGames)
		if err != nil {
			return nil, err
		}
		games = append(games, resolved...)
	}

	logrus.WithFields(logrus.Fields{
		"userID": userID.Hex(),
		"games":  len(games),
	}).Info("Community games aggregated")
	return games, nil
}

// resolveGames expands game references into catalog records. References that
// no longer resolve are dropped.
func (s *GameService) resolveGames(ctx context.Context, ids []primitive.ObjectID) ([]models.Game, error) {
	if len(ids) == 0 {
		return []models.Game{}, nil
	}
	games, err := s.gameRepo.GetGamesByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve games: %v", err)
	}
	return games, nil
}
