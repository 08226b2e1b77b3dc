package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/otherscovers/otherscovers/internal/models"
	"github.com/otherscovers/otherscovers/internal/repository"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// BookService manages the books a user offers for lending. Book copies are
// embedded in the user document, so every operation here is an array
// mutation on that document.
type BookService struct {
	userRepo UserStore
}

// NewBookService creates a new instance of BookService.
func NewBookService(userRepo UserStore) *BookService {
	return &BookService{
		userRepo: userRepo,
	}
}

// OfferBook adds a book to the user's lending library and returns the
// updated library.
func (s *BookService) OfferBook(ctx context.Context, userID primitive.ObjectID, book models.Book) ([]models.Book, error) {
	if strings.TrimSpace(book.Title) == "" || strings.TrimSpace(book.Author) == "" {
		return nil, fmt.Errorf("%w: book title and author are required", ErrInvalidRequest)
	}

	book.ID = primitive.NewObjectID()
	book.AddedAt = time.Now()

	user, err := s.userRepo.AddBookToLendingLibrary(ctx, userID, book)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to offer book: %v", err)
	}

	logrus.WithFields(logrus.Fields{
		"userID": userID.Hex(),
		"title":  book.Title,
	}).Info("Book offered for lending")
	return user.LendingLibrary, nil
}

// GetMyLibrary returns the books the user is offering to lend. The copies
// are embedded, so no resolution step is needed.
func (s *BookService) GetMyLibrary(ctx context.Context, userID primitive.ObjectID) ([]models.Book, error) {
	user, err := s.userRepo.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to fetch user: %v", err)
	}

	if user.LendingLibrary == nil {
		return []models.Book{}, nil
	}
	return user.LendingLibrary, nil
}

// DeleteOffer removes a book copy from the user's lending library and
// returns the updated library. Deleting an absent offer succeeds with the
// library unchanged.
func (s *BookService) DeleteOffer(ctx context.Context, userID, bookID primitive.ObjectID) ([]models.Book, error) {
	user, err := s.userRepo.RemoveBookFromLendingLibrary(ctx, userID, bookID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to delete offer: %v", err)
	}

	if user.LendingLibrary == nil {
		return []models.Book{}, nil
	}
	return user.LendingLibrary, nil
}
