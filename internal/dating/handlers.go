package dating

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/Fatherly-P-Titus/AkwaConnect/internal/auth"
	"github.com/Fatherly-P-Titus/AkwaConnect/internal/common/utils"
	"github.com/Fatherly-P-Titus/AkwaConnect/internal/profile"
)

type Handler struct {
	service *Service
	admin   *AdminService
}

func NewHandler(service *Service, admin *AdminService) *Handler {
	return &Handler{service: service, admin: admin}
}

// GetMatches handles GET /api/v1/matches/{userId}
func (h *Handler) GetMatches(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.GetUserIDFromContext(r.Context())
	if chi.URLParam(r, "userId") != userID {
		h.handleError(w, ErrForbidden, "")
		return
	}

	q, err := parseMatchQuery(r)
	if err != nil {
		h.handleError(w, err, "")
		return
	}
	if err := utils.ValidateStruct(q.Filters); err != nil {
		utils.ErrorResponse(w, err.Error(), http.StatusBadRequest)
		return
	}

	resp, err := h.service.GetMatches(r.Context(), userID, q)
	if err != nil {
		h.handleError(w, err, "Failed to find matches")
		return
	}
	utils.SuccessResponse(w, resp, http.StatusOK)
}

// GetCompatibility handles GET /api/v1/compatibility/{userId}/{otherId}; userId must be the caller
func (h *Handler) GetCompatibility(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.GetUserIDFromContext(r.Context())
	if chi.URLParam(r, "userId") != userID {
		h.handleError(w, ErrForbidden, "")
		return
	}

	result, err := h.service.Compatibility(r.Context(), userID, chi.URLParam(r, "otherId"))
	if err != nil {
		h.handleError(w, err, "Failed to calculate compatibility")
		return
	}
	utils.SuccessResponse(w, result, http.StatusOK)
}

// Swipe handles POST /api/v1/swipe
func (h *Handler) Swipe(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.GetUserIDFromContext(r.Context())

	var req SwipeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ErrorResponse(w, "Invalid request payload", http.StatusBadRequest)
		return
	}
	if err := utils.ValidateStruct(req); err != nil {
		utils.ErrorResponse(w, err.Error(), http.StatusBadRequest)
		return
	}

	resp, err := h.service.Swipe(r.Context(), userID, &req)
	if err != nil {
		h.handleError(w, err, "Failed to record swipe")
		return
	}
	utils.SuccessResponse(w, resp, http.StatusOK)
}

// ListMatches handles GET /api/v1/matches
func (h *Handler) ListMatches(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.GetUserIDFromContext(r.Context())

	matches, err := h.service.UserMatches(r.Context(), userID)
	if err != nil {
		h.handleError(w, err, "Failed to get matches")
		return
	}
	utils.SuccessResponse(w, matches, http.StatusOK)
}

// NotifyMatch handles POST /api/v1/notify-match
func (h *Handler) NotifyMatch(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.GetUserIDFromContext(r.Context())

	var req NotifyMatchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ErrorResponse(w, "Invalid request payload", http.StatusBadRequest)
		return
	}
	if err := utils.ValidateStruct(req); err != nil {
		utils.ErrorResponse(w, err.Error(), http.StatusBadRequest)
		return
	}

	if err := h.service.NotifyMatch(r.Context(), userID, &req); err != nil {
		h.handleError(w, err, "Failed to send match notification")
		return
	}
	utils.MessageResponse(w, "Notification sent", http.StatusOK)
}

// GetUserStats handles GET /api/v1/profile/{userId}/stats
func (h *Handler) GetUserStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.service.UserStats(r.Context(), chi.URLParam(r, "userId"))
	if err != nil {
		h.handleError(w, err, "Failed to get stats")
		return
	}
	utils.SuccessResponse(w, stats, http.StatusOK)
}

// GetActivity handles GET /api/v1/profile/{userId}/activity
func (h *Handler) GetActivity(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.GetUserIDFromContext(r.Context())
	if chi.URLParam(r, "userId") != userID {
		h.handleError(w, ErrForbidden, "")
		return
	}

	activity, err := h.service.Activity(r.Context(), userID)
	if err != nil {
		h.handleError(w, err, "Failed to get activity")
		return
	}
	utils.SuccessResponse(w, activity, http.StatusOK)
}

// GetAdminStats handles GET /api/v1/admin/stats
func (h *Handler) GetAdminStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.admin.GetStats(r.Context())
	if err != nil {
		h.handleError(w, err, "Failed to get stats")
		return
	}
	utils.SuccessResponse(w, stats, http.StatusOK)
}

// GetGrowth handles GET /api/v1/admin/analytics/growth?days=
func (h *Handler) GetGrowth(w http.ResponseWriter, r *http.Request) {
	days, err := intQuery(r, "days")
	if err != nil {
		h.handleError(w, err, "")
		return
	}

	points, err := h.admin.GetGrowth(r.Context(), days)
	if err != nil {
		h.handleError(w, err, "Failed to get growth")
		return
	}
	utils.SuccessResponse(w, points, http.StatusOK)
}

// GetRecentUsers handles GET /api/v1/admin/users/recent?limit=
func (h *Handler) GetRecentUsers(w http.ResponseWriter, r *http.Request) {
	limit, err := intQuery(r, "limit")
	if err != nil {
		h.handleError(w, err, "")
		return
	}

	users, err := h.admin.RecentUsers(r.Context(), limit)
	if err != nil {
		h.handleError(w, err, "Failed to get recent users")
		return
	}
	utils.SuccessResponse(w, users, http.StatusOK)
}

// ListUsers handles GET /api/v1/admin/users?page=&limit=
func (h *Handler) ListUsers(w http.ResponseWriter, r *http.Request) {
	page, err := intQuery(r, "page")
	if err != nil {
		h.handleError(w, err, "")
		return
	}
	limit, err := intQuery(r, "limit")
	if err != nil {
		h.handleError(w, err, "")
		return
	}

	result, err := h.admin.ListUsers(r.Context(), page, limit)
	if err != nil {
		h.handleError(w, err, "Failed to get users")
		return
	}
	utils.SuccessResponse(w, result, http.StatusOK)
}

// UpdateUser handles PUT /api/v1/admin/users/{userId}
func (h *Handler) UpdateUser(w http.ResponseWriter, r *http.Request) {
	var req profile.UpdateProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ErrorResponse(w, "Invalid request payload", http.StatusBadRequest)
		return
	}
	if err := utils.ValidateStruct(req); err != nil {
		utils.ErrorResponse(w, err.Error(), http.StatusBadRequest)
		return
	}

	user, err := h.admin.UpdateUser(r.Context(), chi.URLParam(r, "userId"), &req)
	if err != nil {
		h.handleError(w, err, "Failed to update user")
		return
	}
	utils.SuccessResponse(w, user, http.StatusOK)
}

// DeleteUser handles DELETE /api/v1/admin/users/{userId}
func (h *Handler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	adminID, _ := auth.GetUserIDFromContext(r.Context())

	if err := h.admin.DeleteUser(r.Context(), adminID, chi.URLParam(r, "userId")); err != nil {
		h.handleError(w, err, "Failed to delete user")
		return
	}
	utils.MessageResponse(w, "User deleted", http.StatusOK)
}

// intQuery reads an optional integer query parameter; absent means 0
func intQuery(r *http.Request, name string) (int, error) {
	v := r.URL.Query().Get(name)
	if v == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, errInvalidQuery(name)
	}
	return n, nil
}

func (h *Handler) handleError(w http.ResponseWriter, err error, fallback string) {
	switch {
	case errors.Is(err, profile.ErrProfileNotFound):
		utils.ErrorResponse(w, "User not found", http.StatusNotFound)
	case errors.Is(err, ErrInvalidQuery), errors.Is(err, ErrCannotSwipeSelf),
		errors.Is(err, ErrCannotDeleteSelf), errors.Is(err, profile.ErrInvalidAgeRange):
		utils.ErrorResponse(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, ErrUserBlocked), errors.Is(err, ErrForbidden):
		utils.ErrorResponse(w, err.Error(), http.StatusForbidden)
	case errors.Is(err, ErrTooManySwipes):
		utils.ErrorResponse(w, err.Error(), http.StatusTooManyRequests)
	default:
		zap.L().Error(fallback, zap.Error(err))
		utils.ErrorResponse(w, fallback, http.StatusInternalServerError)
	}
}
