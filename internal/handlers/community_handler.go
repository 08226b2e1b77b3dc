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

// CommunityHandler manages the HTTP endpoints for communities.
type CommunityHandler struct {
	Service *services.CommunityService
}

// NewCommunityHandler initializes a new CommunityHandler.
func NewCommunityHandler(service *services.CommunityService) *CommunityHandler {
	return &CommunityHandler{Service: service}
}

// CreateCommunityHandler creates a community with the caller as its first
// member.
func (h *CommunityHandler) CreateCommunityHandler(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetUserFromContext(r.Context())
	if claims == nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var body struct {
		Name        string `json:"name"`
		Description string `json:"description"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}
	defer r.Body.Close()

	userID, _ := primitive.ObjectIDFromHex(claims.UserID)

	community, err := h.Service.CreateCommunity(r.Context(), userID, body.Name, body.Description)
	if err != nil {
		if errors.Is(err, services.ErrInvalidRequest) {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		logger.Log.WithError(err).Error("Failed to create community")
		http.Error(w, "Failed to create community", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(community)
}

// GetCommunitiesHandler lists every community.
func (h *CommunityHandler) GetCommunitiesHandler(w http.ResponseWriter, r *http.Request) {
	communities, err := h.Service.GetAllCommunities(r.Context())
	if err != nil {
		logger.Log.WithError(err).Error("Failed to fetch communities")
		http.Error(w, "Failed to fetch communities", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(communities)
}

// GetMyCommunitiesHandler lists the communities the caller belongs to.
func (h *CommunityHandler) GetMyCommunitiesHandler(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetUserFromContext(r.Context())
	if claims == nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	userID, _ := primitive.ObjectIDFromHex(claims.UserID)

	communities, err := h.Service.GetMyCommunities(r.Context(), userID)
	if err != nil {
		logger.Log.WithError(err).Error("Failed to fetch user's communities")
		http.Error(w, "Failed to fetch communities", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(communities)
}

// JoinCommunityHandler adds the caller to a community.
func (h *CommunityHandler) JoinCommunityHandler(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetUserFromContext(r.Context())
	if claims == nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	vars := mux.Vars(r)
	communityID, err := primitive.ObjectIDFromHex(vars["id"])
	if err != nil {
		http.Error(w, "Invalid community ID", http.StatusBadRequest)
		return
	}

	userID, _ := primitive.ObjectIDFromHex(claims.UserID)

	community, err := h.Service.JoinCommunity(r.Context(), userID, communityID)
	if err != nil {
		if errors.Is(err, services.ErrCommunityNotFound) {
			http.Error(w, "Community not found", http.StatusNotFound)
			return
		}
		logger.Log.WithError(err).Error("Failed to join community")
		http.Error(w, "Failed to join community", http.StatusInternalServerError)
		return
	}

	logger.Log.Infof("User %s joined community %s", claims.UserID, vars["id"])
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(community)
}

// LeaveCommunityHandler removes the caller from a community. Leaving a
// community the caller is not in still succeeds.
func (h *CommunityHandler) LeaveCommunityHandler(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetUserFromContext(r.Context())
	if claims == nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	vars := mux.Vars(r)
	communityID, err := primitive.ObjectIDFromHex(vars["id"])
	if err != nil {
		http.Error(w, "Invalid community ID", http.StatusBadRequest)
		return
	}

	userID, _ := primitive.ObjectIDFromHex(claims.UserID)

	if err := h.Service.LeaveCommunity(r.Context(), userID, communityID); err != nil {
		if errors.Is(err, services.ErrCommunityNotFound) {
			http.Error(w, "Community not found", http.StatusNotFound)
			return
		}
		logger.Log.WithError(err).Error("Failed to leave community")
		http.Error(w, "Failed to leave community", http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]string{
		"message": "Left community successfully",
	})
}
