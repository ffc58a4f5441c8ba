// internal/messaging/routes.go

package messaging

import (
	"github.com/go-chi/chi/v5"

	"github.com/Fatherly-P-Titus/AkwaConnect/internal/auth"
)

func RegisterRoutes(r chi.Router, handler *Handler, authMiddleware *auth.Middleware) {
	r.Group(func(r chi.Router) {
		r.Use(authMiddleware.Authenticate)

		r.Get("/api/v1/conversations", handler.GetConversations)
		r.Get("/api/v1/conversations/{conversationId}/messages", handler.GetMessages)
		r.Post("/api/v1/conversations/{conversationId}/read", handler.MarkRead)
		r.Post("/api/v1/messages", handler.SendMessage)
	})
}
