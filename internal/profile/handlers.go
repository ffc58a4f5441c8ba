// internal/profile/handlers.go

package profile

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/Fatherly-P-Titus/AkwaConnect/internal/auth"
	"github.com/Fatherly-P-Titus/AkwaConnect/internal/common/utils"
)

// Handler handles profile-related HTTP requests
type Handler struct {
	service *Service
}

// NewHandler creates a new profile handler
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// GetProfile handles GET /api/v1/profile/{userId}
func (h *Handler) GetProfile(w http.ResponseWriter, r *http.Request) {
	viewerID, _ := auth.GetUserIDFromContext(r.Context())

	p, err := h.service.ViewProfile(r.Context(), viewerID, chi.URLParam(r, "userId"))
	if err != nil {
		h.handleError(w, err, "Failed to get profile")
		return
	}
	utils.SuccessResponse(w, p, http.StatusOK)
}

// UpdateProfile handles PUT /api/v1/profile
func (h *Handler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.GetUserIDFromContext(r.Context())

	var req UpdateProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ErrorResponse(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if err := utils.ValidateStruct(req); err != nil {
		utils.ErrorResponse(w, err.Error(), http.StatusBadRequest)
		return
	}

	p, err := h.service.UpdateProfile(r.Context(), userID, &req)
	if err != nil {
		h.handleError(w, err, "Failed to update profile")
		return
	}
	utils.SuccessResponse(w, p, http.StatusOK)
}

// DeleteProfile handles DELETE /api/v1/profile/{userId}; only the owner may delete
func (h *Handler) DeleteProfile(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.GetUserIDFromContext(r.Context())
	if chi.URLParam(r, "userId") != userID {
		h.handleError(w, ErrCannotModifyUser, "")
		return
	}

	if err := h.service.DeleteProfile(r.Context(), userID); err != nil {
		h.handleError(w, err, "Failed to delete profile")
		return
	}
	utils.MessageResponse(w, "Profile deleted", http.StatusOK)
}

// GetBlockedUsers handles GET /api/v1/users/{id}/block; callers only see their own list
func (h *Handler) GetBlockedUsers(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.GetUserIDFromContext(r.Context())
	if chi.URLParam(r, "id") != userID {
		h.handleError(w, ErrCannotModifyUser, "")
		return
	}

	blocked, err := h.service.GetBlockedUsers(r.Context(), userID)
	if err != nil {
		h.handleError(w, err, "Failed to get blocked users")
		return
	}
	utils.SuccessResponse(w, BlockedUsersResponse{BlockedUsers: blocked}, http.StatusOK)
}

// BlockUser handles POST /api/v1/users/{id}/block
func (h *Handler) BlockUser(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.GetUserIDFromContext(r.Context())

	if err := h.service.BlockUser(r.Context(), userID, chi.URLParam(r, "id")); err != nil {
		h.handleError(w, err, "Failed to block user")
		return
	}
	utils.MessageResponse(w, "User blocked", http.StatusOK)
}

// UnblockUser handles DELETE /api/v1/users/{id}/block
func (h *Handler) UnblockUser(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.GetUserIDFromContext(r.Context())

	if err := h.service.UnblockUser(r.Context(), userID, chi.URLParam(r, "id")); err != nil {
		h.handleError(w, err, "Failed to unblock user")
		return
	}
	utils.MessageResponse(w, "User unblocked", http.StatusOK)
}

func (h *Handler) handleError(w http.ResponseWriter, err error, fallback string) {
	switch {
	case errors.Is(err, ErrProfileNotFound):
		utils.ErrorResponse(w, "Profile not found", http.StatusNotFound)
	case errors.Is(err, ErrCannotBlockSelf), errors.Is(err, ErrInvalidAgeRange):
		utils.ErrorResponse(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, ErrCannotModifyUser):
		utils.ErrorResponse(w, err.Error(), http.StatusForbidden)
	default:
		zap.L().Error(fallback, zap.Error(err))
		utils.ErrorResponse(w, fallback, http.StatusInternalServerError)
	}
}
