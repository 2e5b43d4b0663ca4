package router

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"portfolio-backend/internal/handlers"
	"portfolio-backend/internal/middleware"
)

func New(
	chatHandler *handlers.ChatHandler,
	adminHandler *handlers.AdminHandler,
	jwtAuth *middleware.JWTAuth,
	frontendURL string,
	chatRequestsPerMin int,
) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.RequestID)
	r.Use(middleware.CORS(frontendURL))

	// Chat rate limiter (billing protection)
	chatLimiter := middleware.NewRateLimiter(chatRequestsPerMin, time.Minute)

	// Health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok"}`))
	})

	r.Route("/api", func(r chi.Router) {

		// ──── Chat Relay (public) ────
		r.Group(func(r chi.Router) {
			r.Use(chatLimiter.Middleware)
			r.Post("/chat", chatHandler.Chat)
		})

		// ──── Admin (optional, JWT-guarded) ────
		if adminHandler != nil && jwtAuth != nil {
			r.Route("/v1/admin", func(r chi.Router) {
				r.Use(jwtAuth.Middleware)
				r.Get("/stats", adminHandler.Stats)
			})
		}
	})

	return r
}
