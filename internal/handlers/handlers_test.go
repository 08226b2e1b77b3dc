package handlers

import (
	"context"
	"fmt"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/otherscovers/otherscovers/internal/models"
	"github.com/otherscovers/otherscovers/internal/repository"
	jwtutil "github.com/otherscovers/otherscovers/pkg/jwt"
	"github.com/otherscovers/otherscovers/pkg/middleware"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// memStore is a single in-memory backend implementing the services' store
// interfaces, so the handlers can be exercised over the real service layer
// without a database.
type memStore struct {
	users       map[primitive.ObjectID]*models.User
	games       map[primitive.ObjectID]*models.Game
	communities map[primitive.ObjectID]*models.Community
	requests    map[primitive.ObjectID]*models.LoanRequest
}

func newMemStore() *memStore {
	return &memStore{
		users:       make(map[primitive.ObjectID]*models.User),
		games:       make(map[primitive.ObjectID]*models.Game),
		communities: make(map[primitive.ObjectID]*models.Community),
		requests:    make(map[primitive.ObjectID]*models.LoanRequest),
	}
}

func (s *memStore) addUser(user *models.User) *models.User {
	if user.ID.IsZero() {
		user.ID = primitive.NewObjectID()
	}
	s.users[user.ID] = user
	return user
}

func (s *memStore) addGame(game *models.Game) *models.Game {
	if game.ID.IsZero() {
		game.ID = primitive.NewObjectID()
	}
	s.games[game.ID] = game
	return game
}

func (s *memStore) addCommunity(community *models.Community) *models.Community {
	if community.ID.IsZero() {
		community.ID = primitive.NewObjectID()
	}
	s.communities[community.ID] = community
	return community
}

func (s *memStore) user(id primitive.ObjectID) (*models.User, error) {
	user, ok := s.users[id]
	if !ok {
		return nil, fmt.Errorf("user %s: %w", id.Hex(), repository.ErrNotFound)
	}
	return user, nil
}

func (s *memStore) CreateUser(_ context.Context, user *models.User) (*models.User, error) {
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

func (s *memStore) GetUserByID(_ context.Context, id primitive.ObjectID) (*models.User, error) {
	return s.user(id)
}

func (s *memStore) GetUserByUsername(_ context.Context, username string) (*models.User, error) {
	for _, user := range s.users {
		if user.Username == username {
			return user, nil
		}
	}
	return nil, fmt.Errorf("username %q: %w", username, repository.ErrNotFound)
}

func (s *memStore) GetUsersByIDs(_ context.Context, ids []primitive.ObjectID) ([]models.User, error) {
	users := []models.User{}
	for _, id := range ids {
		if user, ok := s.users[id]; ok {
			users = append(users, *user)
		}
	}
	return users, nil
}

func (s *memStore) UpdateLastActive(_ context.Context, id primitive.ObjectID) error {
	if user, ok := s.users[id]; ok {
		user.LastActive = time.Now()
	}
	return nil
}

func (s *memStore) AddLendingLibraryGame(_ context.Context, userID, gameID primitive.ObjectID) (bool, error) {
	user, err := s.user(userID)
	if err != nil {
		return false, err
	}
	for _, id := range user.LendingLibraryGames {
		if id == gameID {
			return false, nil
		}
	}
	user.LendingLibraryGames = append(user.LendingLibraryGames, gameID)
	return true, nil
}

func (s *memStore) RemoveLendingLibraryGame(_ context.Context, userID, gameID primitive.ObjectID) (*models.User, error) {
	user, err := s.user(userID)
	if err != nil {
		return nil, err
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

func (s *memStore) AddBookToLendingLibrary(_ context.Context, userID primitive.ObjectID, book models.Book) (*models.User, error) {
	user, err := s.user(userID)
	if err != nil {
		return nil, err
	}
	user.LendingLibrary = append(user.LendingLibrary, book)
	return user, nil
}

func (s *memStore) RemoveBookFromLendingLibrary(_ context.Context, userID, bookID primitive.ObjectID) (*models.User, error) {
	user, err := s.user(userID)
	if err != nil {
		return nil, err
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

func (s *memStore) AddBorrowedBook(_ context.Context, userID primitive.ObjectID, book models.Book) error {
	user, err := s.user(userID)
	if err != nil {
		return err
	}
	user.BorrowedBooks = append(user.BorrowedBooks, book)
	return nil
}

func (s *memStore) RemoveBorrowedBook(_ context.Context, userID, bookID primitive.ObjectID) error {
	user, err := s.user(userID)
	if err != nil {
		return err
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

func (s *memStore) AddRequestedBook(_ context.Context, userID, bookID primitive.ObjectID) error {
	user, err := s.user(userID)
	if err != nil {
		return err
	}
	for _, id := range user.RequestedBooks {
		if id == bookID {
			return nil
		}
	}
	user.RequestedBooks = append(user.RequestedBooks, bookID)
	return nil
}

func (s *memStore) RemoveRequestedBook(_ context.Context, userID, bookID primitive.ObjectID) error {
	user, err := s.user(userID)
	if err != nil {
		return err
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

func (s *memStore) AddCommunity(_ context.Context, userID, communityID primitive.ObjectID) error {
	user, err := s.user(userID)
	if err != nil {
		return err
	}
	for _, id := range user.Communities {
		if id == communityID {
			return nil
		}
	}
	user.Communities = append(user.Communities, communityID)
	return nil
}

func (s *memStore) RemoveCommunity(_ context.Context, userID, communityID primitive.ObjectID) error {
	user, err := s.user(userID)
	if err != nil {
		return err
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

func (s *memStore) CreateGame(_ context.Context, game *models.Game) (*models.Game, error) {
	game.ID = primitive.NewObjectID()
	game.CreatedAt = time.Now()
	s.games[game.ID] = game
	return game, nil
}

func (s *memStore) GetGameByID(_ context.Context, id primitive.ObjectID) (*models.Game, error) {
	game, ok := s.games[id]
	if !ok {
		return nil, fmt.Errorf("game %s: %w", id.Hex(), repository.ErrNotFound)
	}
	return game, nil
}

func (s *memStore) GetGamesByIDs(_ context.Context, ids []primitive.ObjectID) ([]models.Game, error) {
	games := []models.Game{}
	for _, id := range ids {
		if game, ok := s.games[id]; ok {
			games = append(games, *game)
		}
	}
	return games, nil
}

func (s *memStore) SearchGamesByTitle(_ context.Context, title string) ([]models.Game, error) {
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

func (s *memStore) CreateCommunity(_ context.Context, community *models.Community) (*models.Community, error) {
	community.ID = primitive.NewObjectID()
	community.CreatedAt = time.Now()
	s.communities[community.ID] = community
	return community, nil
}

func (s *memStore) GetCommunityByID(_ context.Context, id primitive.ObjectID) (*models.Community, error) {
	community, ok := s.communities[id]
	if !ok {
		return nil, fmt.Errorf("community %s: %w", id.Hex(), repository.ErrNotFound)
	}
	return community, nil
}

func (s *memStore) GetAllCommunities(_ context.Context) ([]models.Community, error) {
	communities := []models.Community{}
	for _, c := range s.communities {
		communities = append(communities, *c)
	}
	return communities, nil
}

func (s *memStore) GetCommunitiesByMember(_ context.Context, userID primitive.ObjectID) ([]models.Community, error) {
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

func (s *memStore) AddMember(_ context.Context, communityID, userID primitive.ObjectID) error {
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

func (s *memStore) RemoveMember(_ context.Context, communityID, userID primitive.ObjectID) error {
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

func (s *memStore) CreateRequest(_ context.Context, request *models.LoanRequest) (*models.LoanRequest, error) {
	request.ID = primitive.NewObjectID()
	request.CreatedAt = time.Now()
	request.UpdatedAt = time.Now()
	s.requests[request.ID] = request
	return request, nil
}

func (s *memStore) GetRequestByID(_ context.Context, id primitive.ObjectID) (*models.LoanRequest, error) {
	request, ok := s.requests[id]
	if !ok {
		return nil, fmt.Errorf("loan request %s: %w", id.Hex(), repository.ErrNotFound)
	}
	return request, nil
}

func (s *memStore) GetPendingRequestsByLender(_ context.Context, lenderID primitive.ObjectID) ([]models.LoanRequest, error) {
	requests := []models.LoanRequest{}
	for _, request := range s.requests {
		if request.LenderID == lenderID && request.Status == models.LoanStatusPending {
			requests = append(requests, *request)
		}
	}
	return requests, nil
}

func (s *memStore) UpdateRequestStatus(_ context.Context, id primitive.ObjectID, status string) error {
	request, ok := s.requests[id]
	if !ok {
		return fmt.Errorf("loan request %s: %w", id.Hex(), repository.ErrNotFound)
	}
	request.Status = status
	request.UpdatedAt = time.Now()
	return nil
}

// asUser injects the user's claims the way AuthMiddleware would, so protected
// handlers can be tested without minting tokens.
func asUser(user *models.User) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims := &jwtutil.Claims{UserID: user.ID.Hex(), Username: user.Username}
			next.ServeHTTP(w, r.WithContext(middleware.ContextWithUser(r.Context(), claims)))
		})
	}
}
