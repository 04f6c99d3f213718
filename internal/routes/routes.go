package routes

import (
	"github.com/go-chi/chi/v5"
	"github.com/redis/go-redis/v9"

	"github.com/devjournal/devjournal-backend/internal/handlers"
	"github.com/devjournal/devjournal-backend/internal/middleware"
)

func SetupRoutes(r *chi.Mux, rdb *redis.Client) {
	// Auth routes
	r.Post("/api/auth/signup", handlers.Signup)
	r.Post("/api/auth/signin", handlers.Signin)
	r.Post("/api/auth/signout", handlers.Signout)
	r.Get("/api/auth/me", handlers.GetMe)

	// Journal entry routes
	r.Post("/api/entries", handlers.CreateEntry)
	r.Get("/api/entries", handlers.GetEntries)
	r.Put("/api/entries/{id}", handlers.UpdateEntry)
	r.Delete("/api/entries/{id}", handlers.DeleteEntry)

	// Dashboard stats
	r.Get("/api/stats", handlers.GetStats)

	// Resume upload
	r.Post("/api/resume/upload", handlers.UploadResume)

	// AI pipelines share a per-IP rate limit
	r.Group(func(ai chi.Router) {
		ai.Use(middleware.AIRateLimit(rdb))
		ai.Post("/api/summary/generate", handlers.GenerateSummary)
		ai.Post("/api/resume/parse", handlers.ParseResume)
	})

	// Summary history (MongoDB)
	r.Get("/api/summary/history", handlers.GetSummaryHistory)

	// WebSocket endpoint for realtime user events
	r.Get("/ws/events", handlers.EventsSocket)
}
