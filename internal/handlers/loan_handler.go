package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/otherscovers/otherscovers/internal/services"
	"github.com/otherscovers/otherscovers/pkg/logger"
	"github.com/otherscovers/otherscovers/pkg/middleware"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// LoanHandler manages the HTTP endpoints for the borrow flow.
type LoanHandler struct {
	Service *services.LoanService
}

// NewLoanHandler initializes a new LoanHandler.
func NewLoanHandler(service *services.LoanService) *LoanHandler {
	return &LoanHandler{Service: service}
}

// RequestLoanHandler lets the caller ask to borrow one of another user's
// offered books.
func (h *LoanHandler) RequestLoanHandler(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetUserFromContext(r.Context())
	if claims == nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var body struct {
		LenderID string `json:"lenderId"`
		BookID   string `json:"bookId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}
	defer r.Body.Close()

	lenderID, err := primitive.ObjectIDFromHex(body.LenderID)
	if err != nil {
		http.Error(w, "Invalid lender ID", http.StatusBadRequest)
		return
	}
	bookID, err := primitive.ObjectIDFromHex(body.BookID)
	if err != nil {
		http.Error(w, "Invalid book ID", http.StatusBadRequest)
		return
	}

	borrowerID, _ := primitive.ObjectIDFromHex(claims.UserID)

	request, err := h.Service.RequestLoan(r.Context(), borrowerID, lenderID, bookID)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrInvalidRequest):
			http.Error(w, err.Error(), http.StatusBadRequest)
		case errors.Is(err, services.ErrUserNotFound):
			http.Error(w, "Lender not found", http.StatusNotFound)
		case errors.Is(err, services.ErrBookNotFound):
			http.Error(w, "Book not found in lender's library", http.StatusNotFound)
		default:
			logger.Log.WithError(err).Error("Failed to create loan request")
			http.Error(w, "Failed to create loan request", http.StatusInternalServerError)
		}
		return
	}

	logger.Log.Infof("User %s requested book %s from %s", claims.UserID, body.BookID, body.LenderID)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(request)
}

// GetPendingRequestsHandler lists the loan requests awaiting the caller's
// response as a lender.
func (h *LoanHandler) GetPendingRequestsHandler(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetUserFromContext(r.Context())
	if claims == nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	lenderID, _ := primitive.ObjectIDFromHex(claims.UserID)

	requests, err := h.Service.GetPendingRequests(r.Context(), lenderID)
	if err != nil {
		logger.Log.WithError(err).Error("Failed to fetch loan requests")
		http.Error(w, "Failed to fetch loan requests", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(requests)
}

// RespondToRequestHandler lets the lender accept or reject a pending
// request.
func (h *LoanHandler) RespondToRequestHandler(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetUserFromContext(r.Context())
	if claims == nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	vars := mux.Vars(r)
	requestID, err := primitive.ObjectIDFromHex(vars["id"])
	if err != nil {
		http.Error(w, "Invalid request ID", http.StatusBadRequest)
		return
	}

	var body struct {
		Accept bool `json:"accept"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}
	defer r.Body.Close()

	lenderID, _ := primitive.ObjectIDFromHex(claims.UserID)

	if err := h.Service.RespondToRequest(r.Context(), lenderID, requestID, body.Accept); err != nil {
		switch {
		case errors.Is(err, services.ErrLoanNotFound):
			http.Error(w, "Loan request not found", http.StatusNotFound)
		case errors.Is(err, services.ErrNotAllowed):
			http.Error(w, "Forbidden", http.StatusForbidden)
		case errors.Is(err, services.ErrAlreadyResponded):
			http.Error(w, "Request already responded to", http.StatusBadRequest)
		case errors.Is(err, services.ErrBookNotFound):
			http.Error(w, "Book is no longer offered", http.StatusConflict)
		default:
			logger.Log.WithError(err).Error("Failed to respond to loan request")
			http.Error(w, "Failed to respond to loan request", http.StatusInternalServerError)
		}
		return
	}

	logger.Log.Infof("User %s responded to loan request %s (accepted: %v)", claims.UserID, vars["id"], body.Accept)
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]string{
		"message": "Loan request response recorded",
	})
}

// ReturnBookHandler ends an accepted loan for the borrower.
func (h *LoanHandler) ReturnBookHandler(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetUserFromContext(r.Context())
	if claims == nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	vars := mux.Vars(r)
	requestID, err := primitive.ObjectIDFromHex(vars["id"])
	if err != nil {
		http.Error(w, "Invalid request ID", http.StatusBadRequest)
		return
	}

	borrowerID, _ := primitive.ObjectIDFromHex(claims.UserID)

	if err := h.Service.ReturnBook(r.Context(), borrowerID, requestID); err != nil {
		switch {
		case errors.Is(err, services.ErrLoanNotFound):
			http.Error(w, "Loan request not found", http.StatusNotFound)
		case errors.Is(err, services.ErrNotAllowed):
			http.Error(w, "Forbidden", http.StatusForbidden)
		case errors.Is(err, services.ErrInvalidRequest):
			http.Error(w, err.Error(), http.StatusBadRequest)
		default:
			logger.Log.WithError(err).Error("Failed to return book")
			http.Error(w, "Failed to return book", http.StatusInternalServerError)
		}
		return
	}

	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]string{
		"message": "Book returned successfully",
	})
}
