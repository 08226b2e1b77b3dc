package services

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/otherscovers/otherscovers/internal/models"
	"github.com/otherscovers/otherscovers/internal/repository"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// In-memory store fakes mirroring the semantics of the Mongo repositories,
// including the set-style array updates.

type fakeUserStore struct {
	users map[primitive.ObjectID]*models.User
}

func newFakeUserStore(users ...*models.User) *fakeUserStore {
	s := &fakeUserStore{users: make(map[primitive.ObjectID]*models.User)}
	for _, u := range users {
		if u.ID.IsZero() {
			u.ID = primitive.NewObjectID()
		}
		s.users[u.ID] = u
	}
	return s
}

func (s *fakeUserStore) CreateUser(_ context.Context, user *models.User) (*models.User, error) {
	for _, existing := range s.users {
		if existing.Username == user.Username {
			return nil, fmt.Errorf("username %q: %w", user.Username, repository.ErrDuplicate)
		}
	}
	user.ID = primitive.NewObjectID()
	user.CreatedAt = time.Now()
	s.users[user.ID] = user
	return user, nil
}

func (s *fakeUserStore) GetUserByID(_ context.Context, id primitive.ObjectID) (*models.User, error) {
	user, ok := s.users[id]
	if !ok {
		return nil, fmt.Errorf("user %s: %w", id.Hex(), repository.ErrNotFound)
	}
	return user, nil
}

func (s *fakeUserStore) GetUserByUsername(_ context.Context, username string) (*models.User, error) {
	for _, user := range s.users {
		if user.Username == username {
			return user, nil
		}
	}
	return nil, fmt.Errorf("username %q: %w", username, repository.ErrNotFound)
}

func (s *fakeUserStore) GetUsersByIDs(_ context.Context, ids []primitive.ObjectID) ([]models.User, error) {
	users := []models.User{}
	for _, id := range ids {
		if user, ok := s.users[id]; ok {
			users = append(users, *user)
		}
	}
	return users, nil
}

func (s *fakeUserStore) UpdateLastActive(_ context.Context, id primitive.ObjectID) error {
	if user, ok := s.users[id]; ok {
		user.LastActive = time.Now()
	}
	return nil
}

func (s *fakeUserStore) AddLendingLibraryGame(_ context.Context, userID, gameID primitive.ObjectID) (bool, error) {
	user, ok := s.users[userID]
	if !ok {
		return false, fmt.Errorf("user %s: %w", userID.Hex(), repository.ErrNotFound)
	}
	for _, id := range user.LendingLibraryGames {
		if id == gameID {
			return false, nil
		}
	}
	user.LendingLibraryGames = append(user.LendingLibraryGames, gameID)
	return true, nil
}

func (s *fakeUserStore) RemoveLendingLibraryGame(_ context.Context, userID, gameID primitive.ObjectID) (*models.User, error) {
	user, ok := s.users[userID]
	if !ok {
		return nil, fmt.Errorf("user %s: %w", userID.Hex(), repository.ErrNotFound)
	}
	kept := user.LendingLibraryGames[:0]
	for _, id := range user.LendingLibraryGames {
		if id != gameID {
			kept = append(kept, id)
		}
	}
	user.LendingLibraryGames = kept
	return user, nil
}

func (s *fakeUserStore) AddBookToLendingLibrary(_ context.Context, userID primitive.ObjectID, book models.Book) (*models.User, error) {
	user, ok := s.users[userID]
	if !ok {
		return nil, fmt.Errorf("user %s: %w", userID.Hex(), repository.ErrNotFound)
	}
	user.LendingLibrary = append(user.LendingLibrary, book)
	return user, nil
}

func (s *fakeUserStore) RemoveBookFromLendingLibrary(_ context.Context, userID, bookID primitive.ObjectID) (*models.User, error) {
	user, ok := s.users[userID]
	if !ok {
		return nil, fmt.Errorf("user %s: %w", userID.Hex(), repository.ErrNotFound)
	}
	kept := user.LendingLibrary[:0]
	for _, book := range user.LendingLibrary {
		if book.ID != bookID {
			kept = append(kept, book)
		}
	}
	user.LendingLibrary = kept
	return user, nil
}

func (s *fakeUserStore) AddBorrowedBook(_ context.Context, userID primitive.ObjectID, book models.Book) error {
	user, ok := s.users[userID]
	if !ok {
		return fmt.Errorf("user %s: %w", userID.Hex(), repository.ErrNotFound)
	}
	user.BorrowedBooks = append(user.BorrowedBooks, book)
	return nil
}

func (s *fakeUserStore) RemoveBorrowedBook(_ context.Context, userID, bookID primitive.ObjectID) error {
	user, ok := s.users[userID]
	if !ok {
		return fmt.Errorf("user %s: %w", userID.Hex(), repository.ErrNotFound)
	}
	kept := user.BorrowedBooks[:0]
	for _, book := range user.BorrowedBooks {
		if book.ID != bookID {
			kept = append(kept, book)
		}
	}
	user.BorrowedBooks = kept
	return nil
}

func (s *fakeUserStore) AddRequestedBook(_ context.Context, userID, bookID primitive.ObjectID) error {
	user, ok := s.users[userID]
	if !ok {
		return fmt.Errorf("user %s: %w", userID.Hex(), repository.ErrNotFound)
	}
	for _, id := range user.RequestedBooks {
		if id == bookID {
			return nil
		}
	}
	user.RequestedBooks = append(user.RequestedBooks, bookID)
	return nil
}

func (s *fakeUserStore) RemoveRequestedBook(_ context.Context, userID, bookID primitive.ObjectID) error {
	user, ok := s.users[userID]
	if !ok {
		return fmt.Errorf("user %s: %w", userID.Hex(), repository.ErrNotFound)
	}
	kept := user.RequestedBooks[:0]
	for _, id := range user.RequestedBooks {
		if id != bookID {
			kept = append(kept, id)
		}
	}
	user.RequestedBooks = kept
	return nil
}

func (s *fakeUserStore) AddCommunity(_ context.Context, userID, communityID primitive.ObjectID) error {
	user, ok := s.users[userID]
	if !ok {
		return fmt.Errorf("user %s: %w", userID.Hex(), repository.ErrNotFound)
	}
	for _, id := range user.Communities {
		if id == communityID {
			return nil
		}
	}
	user.Communities = append(user.Communities, communityID)
	return nil
}

func (s *fakeUserStore) RemoveCommunity(_ context.Context, userID, communityID primitive.ObjectID) error {
	user, ok := s.users[userID]
	if !ok {
		return fmt.Errorf("user %s: %w", userID.Hex(), repository.ErrNotFound)
	}
	kept := user.Communities[:0]
	for _, id := range user.Communities {
		if id != communityID {
			kept = append(kept, id)
		}
	}
	user.Communities = kept
	return nil
}

type fakeGameStore struct {
	games map[primitive.ObjectID]*models.Game
}

func newFakeGameStore(games ...*models.Game) *fakeGameStore {
	s := &fakeGameStore{games: make(map[primitive.ObjectID]*models.Game)}
	for _, g := range games {
		if g.ID.IsZero() {
			g.ID = primitive.NewObjectID()
		}
		s.games[g.ID] = g
	}
	return s
}

func (s *fakeGameStore) CreateGame(_ context.Context, game *models.Game) (*models.Game, error) {
	game.ID = primitive.NewObjectID()
	game.CreatedAt = time.Now()
	s.games[game.ID] = game
	return game, nil
}

func (s *fakeGameStore) GetGameByID(_ context.Context, id primitive.ObjectID) (*models.Game, error) {
	game, ok := s.games[id]
	if !ok {
		return nil, fmt.Errorf("game %s: %w", id.Hex(), repository.ErrNotFound)
	}
	return game, nil
}

func (s *fakeGameStore) GetGamesByIDs(_ context.Context, ids []primitive.ObjectID) ([]models.Game, error) {
	games := []models.Game{}
	for _, id := range ids {
		if game, ok := s.games[id]; ok {
			games = append(games, *game)
		}
	}
	return games, nil
}

// SearchGamesByTitle approximates the text index: case-insensitive substring
// match ordered by the fixture's preset relevance score.
func (s *fakeGameStore) SearchGamesByTitle(_ context.Context, title string) ([]models.Game, error) {
	needle := strings.ToLower(title)
	games := []models.Game{}
	for _, game := range s.games {
		if strings.Contains(strings.ToLower(game.Title), needle) {
			games = append(games, *game)
		}
	}
	sort.Slice(games, func(i, j int) bool { return games[i].Score > games[j].Score })
	return games, nil
}

type fakeCommunityStore struct {
	communities map[primitive.ObjectID]*models.Community
}

func newFakeCommunityStore(communities ...*models.Community) *fakeCommunityStore {
	s := &fakeCommunityStore{communities: make(map[primitive.ObjectID]*models.Community)}
	for _, c := range communities {
		if c.ID.IsZero() {
			c.ID = primitive.NewObjectID()
		}
		s.communities[c.ID] = c
	}
	return s
}

func (s *fakeCommunityStore) CreateCommunity(_ context.Context, community *models.Community) (*models.Community, error) {
	community.ID = primitive.NewObjectID()
	community.CreatedAt = time.Now()
	s.communities[community.ID] = community
	return community, nil
}

func (s *fakeCommunityStore) GetCommunityByID(_ context.Context, id primitive.ObjectID) (*models.Community, error) {
	community, ok := s.communities[id]
	if !ok {
		return nil, fmt.Errorf("community %s: %w", id.Hex(), repository.ErrNotFound)
	}
	return community, nil
}

func (s *fakeCommunityStore) GetAllCommunities(_ context.Context) ([]models.Community, error) {
	communities := []models.Community{}
	for _, c := range s.communities {
		communities = append(communities, *c)
	}
	return communities, nil
}

func (s *fakeCommunityStore) GetCommunitiesByMember(_ context.Context, userID primitive.ObjectID) ([]models.Community, error) {
	communities := []models.Community{}
	for _, c := range s.communities {
		for _, member := range c.Members {
			if member == userID {
				communities = append(communities, *c)
				break
			}
		}
	}
	return communities, nil
}

func (s *fakeCommunityStore) AddMember(_ context.Context, communityID, userID primitive.ObjectID) error {
	community, ok := s.communities[communityID]
	if !ok {
		return fmt.Errorf("community %s: %w", communityID.Hex(), repository.ErrNotFound)
	}
	for _, member := range community.Members {
		if member == userID {
			return nil
		}
	}
	community.Members = append(community.Members, userID)
	return nil
}

func (s *fakeCommunityStore) RemoveMember(_ context.Context, communityID, userID primitive.ObjectID) error {
	community, ok := s.communities[communityID]
	if !ok {
		return fmt.Errorf("community %s: %w", communityID.Hex(), repository.ErrNotFound)
	}
	kept := community.Members[:0]
	for _, member := range community.Members {
		if member != userID {
			kept = append(kept, member)
		}
	}
	community.Members = kept
	return nil
}

type fakeLoanStore struct {
	requests map[primitive.ObjectID]*models.LoanRequest
}

func newFakeLoanStore() *fakeLoanStore {
	return &fakeLoanStore{requests: make(map[primitive.ObjectID]*models.LoanRequest)}
}

func (s *fakeLoanStore) CreateRequest(_ context.Context, request *models.LoanRequest) (*models.LoanRequest, error) {
	request.ID = primitive.NewObjectID()
	request.CreatedAt = time.Now()
	request.UpdatedAt = time.Now()
	s.requests[request.ID] = request
	return request, nil
}

func (s *fakeLoanStore) GetRequestByID(_ context.Context, id primitive.ObjectID) (*models.LoanRequest, error) {
	request, ok := s.requests[id]
	if !ok {
		return nil, fmt.Errorf("loan request %s: %w", id.Hex(), repository.ErrNotFound)
	}
	return request, nil
}

func (s *fakeLoanStore) GetPendingRequestsByLender(_ context.Context, lenderID primitive.ObjectID) ([]models.LoanRequest, error) {
	requests := []models.LoanRequest{}
	for _, request := range s.requests {
		if request.LenderID == lenderID && request.Status == models.LoanStatusPending {
			requests = append(requests, *request)
		}
	}
	return requests, nil
}

func (s *fakeLoanStore) UpdateRequestStatus(_ context.Context, id primitive.ObjectID, status string) error {
	request, ok := s.requests[id]
	if !ok {
		return fmt.Errorf("loan request %s: %w", id.Hex(), repository.ErrNotFound)
	}
	request.Status = status
	request.UpdatedAt = time.Now()
	return nil
}
