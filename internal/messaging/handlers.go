// internal/messaging/handlers.go

package messaging

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Fatherly-P-Titus/AkwaConnect/internal/auth"
	"github.com/Fatherly-P-Titus/AkwaConnect/internal/common/utils"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// GetConversations handles GET /api/v1/conversations
func (h *Handler) GetConversations(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.GetUserIDFromContext(r.Context())

	conversations, err := h.service.Conversations(r.Context(), userID)
	if err != nil {
		h.handleError(w, err, "Failed to get conversations")
		return
	}
	utils.SuccessResponse(w, conversations, http.StatusOK)
}

// GetMessages handles GET /api/v1/conversations/{conversationId}/messages?limit=
func (h *Handler) GetMessages(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.GetUserIDFromContext(r.Context())

	conversationID, err := uuid.Parse(chi.URLParam(r, "conversationId"))
	if err != nil {
		utils.ErrorResponse(w, "Invalid conversation ID", http.StatusBadRequest)
		return
	}

	limit := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		if limit, err = strconv.Atoi(v); err != nil {
			utils.ErrorResponse(w, "Invalid limit", http.StatusBadRequest)
			return
		}
	}

	messages, err := h.service.Messages(r.Context(), userID, conversationID, limit)
	if err != nil {
		h.handleError(w, err, "Failed to get messages")
		return
	}
	utils.SuccessResponse(w, messages, http.StatusOK)
}

// MarkRead handles POST /api/v1/conversations/{conversationId}/read
func (h *Handler) MarkRead(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.GetUserIDFromContext(r.Context())

	conversationID, err := uuid.Parse(chi.URLParam(r, "conversationId"))
	if err != nil {
		utils.ErrorResponse(w, "Invalid conversation ID", http.StatusBadRequest)
		return
	}

	n, err := h.service.MarkRead(r.Context(), userID, conversationID)
	if err != nil {
		h.handleError(w, err, "Failed to mark messages read")
		return
	}
	utils.SuccessResponse(w, map[string]int64{"marked": n}, http.StatusOK)
}

// SendMessage handles POST /api/v1/messages
func (h *Handler) SendMessage(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.GetUserIDFromContext(r.Context())

	var req SendMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ErrorResponse(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if err := utils.ValidateStruct(req); err != nil {
		utils.ErrorResponse(w, err.Error(), http.StatusBadRequest)
		return
	}

	m, err := h.service.Send(r.Context(), userID, &req)
	if err != nil {
		h.handleError(w, err, "Failed to send message")
		return
	}
	utils.SuccessResponse(w, m, http.StatusCreated)
}

func (h *Handler) handleError(w http.ResponseWriter, err error, fallback string) {
	switch {
	case errors.Is(err, ErrConversationNotFound):
		utils.ErrorResponse(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, ErrNotParticipant), errors.Is(err, ErrUserBlocked):
		utils.ErrorResponse(w, err.Error(), http.StatusForbidden)
	case errors.Is(err, ErrEmptyMessage):
		utils.ErrorResponse(w, err.Error(), http.StatusBadRequest)
	default:
		zap.L().Error(fallback, zap.Error(err))
		utils.ErrorResponse(w, fallback, http.StatusInternalServerError)
	}
}
