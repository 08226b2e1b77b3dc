package services

import (
	"context"

	"github.com/otherscovers/otherscovers/internal/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// The services depend on these narrow store interfaces instead of the
// concrete Mongo repositories, so the business rules can be exercised
// against in-memory fakes. The repository package satisfies all of them.

// UserStore is the persistence surface for user documents and the array
// mutations on their lending collections.
type UserStore interface {
	CreateUser(ctx context.Context, user *models.User) (*models.User, error)
	GetUserByID(ctx context.Context, id primitive.ObjectID) (*models.User, error)
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)
	GetUsersByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.User, error)
	UpdateLastActive(ctx context.Context, id primitive.ObjectID) error
	AddLendingLibraryGame(ctx context.Context, userID, gameID primitive.ObjectID) (bool, error)
	RemoveLendingLibraryGame(ctx context.Context, userID, gameID primitive.ObjectID) (*models.User, error)
	AddBookToLendingLibrary(ctx context.Context, userID primitive.ObjectID, book models.Book) (*models.User, error)
	RemoveBookFromLendingLibrary(ctx context.Context, userID, bookID primitive.ObjectID) (*models.User, error)
	AddBorrowedBook(ctx context.Context, userID primitive.ObjectID, book models.Book) error
	RemoveBorrowedBook(ctx context.Context, userID, bookID primitive.ObjectID) error
	AddRequestedBook(ctx context.Context, userID, bookID primitive.ObjectID) error
	RemoveRequestedBook(ctx context.Context, userID, bookID primitive.ObjectID) error
	AddCommunity(ctx context.Context, userID, communityID primitive.ObjectID) error
	RemoveCommunity(ctx context.Context, userID, communityID primitive.ObjectID) error
}

// GameStore is the persistence surface for the game catalog.
type GameStore interface {
	CreateGame(ctx context.Context, game *models.Game) (*models.Game, error)
	GetGameByID(ctx context.Context, id primitive.ObjectID) (*models.Game, error)
	GetGamesByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.Game, error)
	SearchGamesByTitle(ctx context.Context, title string) ([]models.Game, error)
}

// CommunityStore is the persistence surface for communities.
type CommunityStore interface {
	CreateCommunity(ctx context.Context, community *models.Community) (*models.Community, error)
	GetCommunityByID(ctx context.Context, id primitive.ObjectID) (*models.Community, error)
	GetAllCommunities(ctx context.Context) ([]models.Community, error)
	GetCommunitiesByMember(ctx context.Context, userID primitive.ObjectID) ([]models.Community, error)
	AddMember(ctx context.Context, communityID, userID primitive.ObjectID) error
	RemoveMember(ctx context.Context, communityID, userID primitive.ObjectID) error
}

// LoanStore is the persistence surface for loan requests.
type LoanStore interface {
	CreateRequest(ctx context.Context, request *models.LoanRequest) (*models.LoanRequest, error)
	GetRequestByID(ctx context.Context, id primitive.ObjectID) (*models.LoanRequest, error)
	GetPendingRequestsByLender(ctx context.Context, lenderID primitive.ObjectID) ([]models.LoanRequest, error)
	UpdateRequestStatus(ctx context.Context, id primitive.ObjectID, status string) error
}
