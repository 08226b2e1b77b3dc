package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/otherscovers/otherscovers/internal/models"
	"github.com/otherscovers/otherscovers/internal/repository"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// LoanService handles the borrow flow: a borrower requests an offered book,
// the lender responds, and an accepted loan places a copy of the book in the
// borrower's borrowedBooks until it is returned.
type LoanService struct {
	loanRepo LoanStore
	userRepo UserStore
}

// NewLoanService creates a new instance of LoanService.
func NewLoanService(loanRepo LoanStore, userRepo UserStore) *LoanService {
	return &LoanService{
		loanRepo: loanRepo,
		userRepo: userRepo,
	}
}

// RequestLoan creates a pending loan request for one of the lender's offered
// books and records the book on the borrower's requestedBooks.
func (s *LoanService) RequestLoan(ctx context.Context, borrowerID, lenderID, bookID primitive.ObjectID) (*models.LoanRequest, error) {
	if borrowerID == lenderID {
		return nil, fmt.Errorf("%w: cannot borrow your own book", ErrInvalidRequest)
	}

	lender, err := s.userRepo.GetUserByID(ctx, lenderID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to fetch lender: %v", err)
	}

	if findBook(lender.LendingLibrary, bookID) == nil {
		return nil, ErrBookNotFound
	}

	request := &models.LoanRequest{
		BookID:     bookID,
		LenderID:   lenderID,
		BorrowerID: borrowerID,
		Status:     models.LoanStatusPending,
	}

	created, err := s.loanRepo.CreateRequest(ctx, request)
	if err != nil {
		return nil, fmt.Errorf("failed to create loan request: %v", err)
	}

	if err := s.userRepo.AddRequestedBook(ctx, borrowerID, bookID); err != nil {
		logrus.WithError(err).Warn("Failed to record requested book on borrower")
	}

	logrus.WithFields(logrus.Fields{
		"borrowerID": borrowerID.Hex(),
		"lenderID":   lenderID.Hex(),
		"bookID":     bookID.Hex(),
	}).Info("Loan requested")
	return created, nil
}

// GetPendingRequests lists the loan requests awaiting the lender's response.
func (s *LoanService) GetPendingRequests(ctx context.Context, lenderID primitive.ObjectID) ([]models.LoanRequest, error) {
	return s.loanRepo.GetPendingRequestsByLender(ctx, lenderID)
}

// RespondToRequest lets the lender accept or reject a pending request.
// Accepting copies the book into the borrower's borrowedBooks.
func (s *LoanService) RespondToRequest(ctx context.Context, lenderID, requestID primitive.ObjectID, accept bool) error {
	request, err := s.loanRepo.GetRequestByID(ctx, requestID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrLoanNotFound
		}
		return fmt.Errorf("failed to fetch loan request: %v", err)
	}

	if request.LenderID != lenderID {
		return ErrNotAllowed
	}
	if request.Status != models.LoanStatusPending {
		return ErrAlreadyResponded
	}

	status := models.LoanStatusRejected
	if accept {
		status = models.LoanStatusAccepted
	}
	if err := s.loanRepo.UpdateRequestStatus(ctx, requestID, status); err != nil {
		return fmt.Errorf("failed to update loan request: %v", err)
	}

	if accept {
		lender, err := s.userRepo.GetUserByID(ctx, request.LenderID)
		if err != nil {
			return fmt.Errorf("failed to fetch lender: %v", err)
		}
		book := findBook(lender.LendingLibrary, request.BookID)
		if book == nil {
			// The offer was deleted while the request was pending.
			return ErrBookNotFound
		}
		if err := s.userRepo.AddBorrowedBook(ctx, request.BorrowerID, *book); err != nil {
			return fmt.Errorf("failed to hand over book: %v", err)
		}
	}

	// The request is settled either way; drop the pending reference.
	if err := s.userRepo.RemoveRequestedBook(ctx, request.BorrowerID, request.BookID); err != nil {
		logrus.WithError(err).Warn("Failed to clear requested book on borrower")
	}

	logrus.WithFields(logrus.Fields{
		"requestID": requestID.Hex(),
		"status":    status,
	}).Info("Loan request responded to")
	return nil
}

// ReturnBook ends an accepted loan: the borrowed copy is removed from the
// borrower and the request is marked returned.
func (s *LoanService) ReturnBook(ctx context.Context, borrowerID, requestID primitive.ObjectID) error {
	request, err := s.loanRepo.GetRequestByID(ctx, requestID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrLoanNotFound
		}
		return fmt.Errorf("failed to fetch loan request: %v", err)
	}

	if request.BorrowerID != borrowerID {
		return ErrNotAllowed
	}
	if request.Status != models.LoanStatusAccepted {
		return fmt.Errorf("%w: loan is not active", ErrInvalidRequest)
	}

	if err := s.loanRepo.UpdateRequestStatus(ctx, requestID, models.LoanStatusReturned); err != nil {
		return fmt.Errorf("failed to update loan request: %v", err)
	}

	if err := s.userRepo.RemoveBorrowedBook(ctx, borrowerID, request.BookID); err != nil {
		return fmt.Errorf("failed to remove borrowed book: %v", err)
	}

	logrus.WithField("requestID", requestID.Hex()).Info("Book returned")
	return nil
}

func findBook(books []models.Book, bookID primitive.ObjectID) *models.Book {
	for i := range books {
		if books[i].ID == bookID {
			return &books[i]
		}
	}
	return nil
}
