package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/otherscovers/otherscovers/internal/models"
	"github.com/otherscovers/otherscovers/internal/services"
	"github.com/otherscovers/otherscovers/pkg/logger"
	"github.com/otherscovers/otherscovers/pkg/middleware"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// BookHandler manages the HTTP endpoints for book offers.
type BookHandler struct {
	Service *services.BookService
}

// NewBookHandler initializes a new BookHandler.
func NewBookHandler(service *services.BookService) *BookHandler {
	return &BookHandler{Service: service}
}

// LendBookHandler adds a book to the authenticated user's lending library.
func (h *BookHandler) LendBookHandler(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetUserFromContext(r.Context())
	if claims == nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var book models.Book
	if err := json.NewDecoder(r.Body).Decode(&book); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}
	defer r.Body.Close()

	userID, _ := primitive.ObjectIDFromHex(claims.UserID)

	library, err := h.Service.OfferBook(r.Context(), userID, book)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrInvalidRequest):
			http.Error(w, err.Error(), http.StatusBadRequest)
		case errors.Is(err, services.ErrUserNotFound):
			http.Error(w, "User not found", http.StatusNotFound)
		default:
			logger.Log.WithError(err).Error("Failed to offer book")
			http.Error(w, "Server error", http.StatusInternalServerError)
		}
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(library)
}

// MyLibraryHandler returns the books the authenticated user is offering.
func (h *BookHandler) MyLibraryHandler(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetUserFromContext(r.Context())
	if claims == nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	userID, _ := primitive.ObjectIDFromHex(claims.UserID)

	library, err := h.Service.GetMyLibrary(r.Context(), userID)
	if err != nil {
		if errors.Is(err, services.ErrUserNotFound) {
			http.Error(w, "User not found", http.StatusNotFound)
			return
		}
		logger.Log.WithError(err).Error("Failed to fetch lending library")
		http.Error(w, "Error fetching lending library", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(library)
}

// DeleteOfferHandler removes a book offer. Deleting an offer that is already
// gone still succeeds, so the web client can delete without racing itself.
func (h *BookHandler) DeleteOfferHandler(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetUserFromContext(r.Context())
	if claims == nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	vars := mux.Vars(r)
	bookID, err := primitive.ObjectIDFromHex(vars["id"])
	if err != nil {
		http.Error(w, "Invalid book ID", http.StatusBadRequest)
		return
	}

	userID, _ := primitive.ObjectIDFromHex(claims.UserID)

	library, err := h.Service.DeleteOffer(r.Context(), userID, bookID)
	if err != nil {
		if errors.Is(err, services.ErrUserNotFound) {
			http.Error(w, "User not found", http.StatusNotFound)
			return
		}
		logger.Log.WithError(err).Error("Failed to delete book offer")
		http.Error(w, "Error deleting book offer", http.StatusInternalServerError)
		return
	}

	logger.Log.Infof("User %s deleted book offer %s", claims.UserID, vars["id"])
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"message":        "Book offer deleted successfully.",
		"lendingLibrary": library,
	})
}
