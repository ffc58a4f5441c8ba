package dating

import (
	"github.com/go-chi/chi/v5"

	"github.com/Fatherly-P-Titus/AkwaConnect/internal/auth"
)

func RegisterRoutes(r chi.Router, handler *Handler, hub *Hub, authMiddleware *auth.Middleware) {
	r.Group(func(r chi.Router) {
		r.Use(authMiddleware.Authenticate)

		// Discovery
		r.Get("/api/v1/matches/{userId}", handler.GetMatches)
		r.Get("/api/v1/compatibility/{userId}/{otherId}", handler.GetCompatibility)

		// Swipes and matches
		r.Post("/api/v1/swipe", handler.Swipe)
		r.Get("/api/v1/matches", handler.ListMatches)
		r.Post("/api/v1/notify-match", handler.NotifyMatch)
		r.Get("/api/v1/profile/{userId}/stats", handler.GetUserStats)
		r.Get("/api/v1/profile/{userId}/activity", handler.GetActivity)

		// Realtime
		r.Get("/ws", hub.ServeWS)

		// Admin
		r.Group(func(r chi.Router) {
			r.Use(authMiddleware.RequireAdmin)
			r.Get("/api/v1/admin/stats", handler.GetAdminStats)
			r.Get("/api/v1/admin/analytics/growth", handler.GetGrowth)
			r.Get("/api/v1/admin/users/recent", handler.GetRecentUsers)
			r.Get("/api/v1/admin/users", handler.ListUsers)
			r.Put("/api/v1/admin/users/{userId}", handler.UpdateUser)
			r.Delete("/api/v1/admin/users/{userId}", handler.DeleteUser)
		})
	})
}
