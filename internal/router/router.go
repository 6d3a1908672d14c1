package router

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"intervia-backend/internal/handlers"
	"intervia-backend/internal/middleware"
	"intervia-backend/internal/websocket"
)

func New(
	jwtAuth *middleware.JWTAuth,
	authHandler *handlers.AuthHandler,
	interviewHandler *handlers.InterviewHandler,
	resumeHandler *handlers.ResumeHandler,
	jobHandler *handlers.JobHandler,
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

		// Auth routes (public)
		r.Route("/auth", func(r chi.Router) {
			r.Use(authLimiter.Middleware)
			r.Post("/register", authHandler.Register)
			r.Post("/login", authHandler.Login)
			r.Post("/refresh", authHandler.Refresh)

			// Logout requires auth
			r.Group(func(r chi.Router) {
				r.Use(jwtAuth.Middleware)
				r.Post("/logout", authHandler.Logout)
			})
		})

		// Interview routes
		r.Route("/interviews", func(r chi.Router) {
			r.Use(jwtAuth.Middleware)
			r.Post("/start", interviewHandler.Start)
			r.Get("/", interviewHandler.History)
			r.Get("/{id}", interviewHandler.Get)
			r.Delete("/{id}", interviewHandler.Delete)

			// Live-session operations
			r.Post("/{id}/pause", interviewHandler.Pause)
			r.Post("/{id}/resume", interviewHandler.Resume)
			r.Post("/{id}/end", interviewHandler.End)
			r.Post("/{id}/answer", interviewHandler.SubmitAnswer)
			r.Post("/{id}/navigate", interviewHandler.Navigate)
			r.Get("/{id}/state", interviewHandler.State)
			r.Get("/{id}/transcript", interviewHandler.Transcript)
		})

		// Resume/candidate routes
		r.Route("/resumes", func(r chi.Router) {
			r.Use(jwtAuth.Middleware)
			r.Post("/upload", resumeHandler.Upload)
			r.Get("/", resumeHandler.List)
			r.Get("/{id}", resumeHandler.Get)
			r.Delete("/{id}", resumeHandler.Delete)
		})

		// Job routes
		r.Route("/jobs", func(r chi.Router) {
			r.Use(jwtAuth.Middleware)
			r.Get("/{id}", jobHandler.Get)
		})

		// WebSocket
		r.Get("/ws", wsHub.HandleWebSocket)
	})

	return r
}
