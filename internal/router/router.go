package router

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"internportal-backend/internal/handlers"
	"internportal-backend/internal/middleware"
	"internportal-backend/internal/websocket"
)

func New(
	jwtAuth *middleware.JWTAuth,
	authHandler *handlers.AuthHandler,
	portalHandler *handlers.PortalHandler,
	assignmentsHandler *handlers.AssignmentsHandler,
	notificationsHandler *handlers.NotificationsHandler,
	feedHandler *handlers.FeedHandler,
	wsHub *websocket.Hub,
	frontendURL string,
) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.RequestID)
	r.Use(middleware.CORS(frontendURL))

	// Auth rate limiter (10 req/min per IP)
	authLimiter := middleware.NewRateLimiter(10, time.Minute)

	// Health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok"}`))
	})

	r.Route("/api/v1", func(r chi.Router) {

		// ──── Auth Routes (public) ────
		r.Route("/auth", func(r chi.Router) {
			r.Use(authLimiter.Middleware)
			r.Post("/login", authHandler.Login)
			r.Get("/session", authHandler.Session)

			// Logout requires auth
			r.Group(func(r chi.Router) {
				r.Use(jwtAuth.Middleware)
				r.Post("/logout", authHandler.Logout)
			})
		})

		// ──── Portal Routes ────
		r.Route("/portal", func(r chi.Router) {
			r.Use(jwtAuth.Middleware)
			r.Get("/me", portalHandler.Me)
			r.Get("/stats", portalHandler.Stats)
			r.Post("/sync", portalHandler.Sync)
			r.Get("/connection", portalHandler.Connection)
			r.Post("/reconnect", portalHandler.Reconnect)
		})

		// ──── Assignment Routes ────
		r.Route("/assignments", func(r chi.Router) {
			r.Use(jwtAuth.Middleware)
			r.Get("/", assignmentsHandler.List)
			r.Get("/{id}", assignmentsHandler.Get)
			r.Get("/{id}/brief", assignmentsHandler.Brief)
			r.Post("/{id}/start", assignmentsHandler.Start)
			r.Post("/{id}/submit", assignmentsHandler.Submit)
			r.Post("/{id}/upload", assignmentsHandler.Upload)
		})

		// ──── Notification Routes ────
		r.Route("/notifications", func(r chi.Router) {
			r.Use(jwtAuth.Middleware)
			r.Get("/", notificationsHandler.List)
			r.Put("/{id}/read", notificationsHandler.MarkRead)
		})

		// ──── Live Feed Routes ────
		r.Route("/feed", func(r chi.Router) {
			r.Use(jwtAuth.Middleware)
			r.Get("/", feedHandler.List)
			r.Post("/refresh", feedHandler.Refresh)
		})

		// ──── WebSocket ────
		r.Get("/ws", wsHub.HandleWebSocket)
	})

	return r
}
