// internal/profile/routes.go

package profile

import (
	"github.com/go-chi/chi/v5"

	"github.com/Fatherly-P-Titus/AkwaConnect/internal/auth"
)

// RegisterRoutes registers all profile routes
func RegisterRoutes(r chi.Router, handler *Handler, authMiddleware *auth.Middleware) {
	r.Group(func(r chi.Router) {
		r.Use(authMiddleware.Authenticate)

		r.Get("/api/v1/profile/{userId}", handler.GetProfile)
		r.Put("/api/v1/profile", handler.UpdateProfile)
		r.Delete("/api/v1/profile/{userId}", handler.DeleteProfile)

		r.Get("/api/v1/users/{id}/block", handler.GetBlockedUsers)
		r.Post("/api/v1/users/{id}/block", handler.BlockUser)
		r.Delete("/api/v1/users/{id}/block", handler.UnblockUser)
	})
}
