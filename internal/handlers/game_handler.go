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

// GameHandler manages the HTTP endpoints for game lending.
type GameHandler struct {
	Service *services.GameService
}

// NewGameHandler initializes a new GameHandler.
func NewGameHandler(service *services.GameService) *GameHandler {
	return &GameHandler{Service: service}
}

// SearchGamesHandler performs a full-text title search over the game
// catalog. A missing title is a 400; an empty result set is a 404, which the
// existing web client distinguishes from a successful search.
func (h *GameHandler) SearchGamesHandler(w http.ResponseWriter, r *http.Request) {
	title := r.URL.Query().Get("title")

	games, err := h.Service.SearchGames(r.Context(), title)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrInvalidRequest):
			http.Error(w, "No search term provided", http.StatusBadRequest)
		case errors.Is(err, services.ErrNoGamesFound):
			http.Error(w, "No games found matching the search criteria", http.StatusNotFound)
		default:
			logger.Log.WithError(err).Error("Failed to search games")
			http.Error(w, "Error searching for games", http.StatusInternalServerError)
		}
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(games)
}

// AddGameHandler adds a curated entry to the game catalog.
func (h *GameHandler) AddGameHandler(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetUserFromContext(r.Context())
	if claims == nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var game models.Game
	if err := json.NewDecoder(r.Body).Decode(&game); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}
	defer r.Body.Close()

	created, err := h.Service.AddGame(r.Context(), &game)
	if err != nil {
		if errors.Is(err, services.ErrInvalidRequest) {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		logger.Log.WithError(err).Error("Failed to add game")
		http.Error(w, "Failed to add game", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(created)
}

// LendGameHandler adds a game to the authenticated user's lending library
// and returns the updated reference list. Lending the same game twice is
// rejected with a 400.
func (h *GameHandler) LendGameHandler(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetUserFromContext(r.Context())
	if claims == nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		logger.Log.Warn("Unauthorized attempt to lend a game")
		return
	}

	var body struct {
		GameID string `json:"gameId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}
	defer r.Body.Close()

	gameID, err := primitive.ObjectIDFromHex(body.GameID)
	if err != nil {
		http.Error(w, "Invalid game ID", http.StatusBadRequest)
		return
	}

	userID, _ := primitive.ObjectIDFromHex(claims.UserID)

	gameIDs, err := h.Service.LendGame(r.Context(), userID, gameID)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrUserNotFound):
			http.Error(w, "User not found", http.StatusNotFound)
		case errors.Is(err, services.ErrAlreadyLent):
			http.Error(w, "Game already added to lending library", http.StatusBadRequest)
		default:
			logger.Log.WithError(err).Error("Failed to lend game")
			http.Error(w, "Server error", http.StatusInternalServerError)
		}
		return
	}

	logger.Log.Infof("User %s added game %s to lending library", claims.UserID, body.GameID)
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(gameIDs)
}

// RemoveGameHandler removes a game from the authenticated user's lending
// library. Removing a game that is not listed still succeeds.
func (h *GameHandler) RemoveGameHandler(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetUserFromContext(r.Context())
	if claims == nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	vars := mux.Vars(r)
	gameID, err := primitive.ObjectIDFromHex(vars["gameId"])
	if err != nil {
		http.Error(w, "Invalid game ID", http.StatusBadRequest)
		return
	}

	userID, _ := primitive.ObjectIDFromHex(claims.UserID)

	games, err := h.Service.RemoveGame(r.Context(), userID, gameID)
	if err != nil {
		if errors.Is(err, services.ErrUserNotFound) {
			http.Error(w, "User not found", http.StatusNotFound)
			return
		}
		logger.Log.WithError(err).Error("Failed to remove game from lending library")
		http.Error(w, "Error removing game from lending library", http.StatusInternalServerError)
		return
	}

	logger.Log.Infof("User %s removed game %s from lending library", claims.UserID, vars["gameId"])
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"message":             "Game removed from lending library successfully.",
		"lendingLibraryGames": games,
	})
}

// MyLibraryGamesHandler returns the authenticated user's lending library
// with every game reference resolved.
func (h *GameHandler) MyLibraryGamesHandler(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetUserFromContext(r.Context())
	if claims == nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	userID, _ := primitive.ObjectIDFromHex(claims.UserID)

	games, err := h.Service.GetMyLibraryGames(r.Context(), userID)
	if err != nil {
		if errors.Is(err, services.ErrUserNotFound) {
			http.Error(w, "User not found", http.StatusNotFound)
			return
		}
		logger.Log.WithError(err).Error("Failed to fetch user's games library")
		http.Error(w, "Error fetching user's games library", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(games)
}

// CommunityGamesHandler returns every game offered by other members of the
// authenticated user's communities.
func (h *GameHandler) CommunityGamesHandler(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetUserFromContext(r.Context())
	if claims == nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	userID, _ := primitive.ObjectIDFromHex(claims.UserID)

	games, err := h.Service.GetCommunityGames(r.Context(), userID)
	if err != nil {
		logger.Log.WithError(err).Error("Failed to fetch games from community members")
		http.Error(w, "Failed to fetch games from community members", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(games)
}
