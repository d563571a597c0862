package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/traitforge/disc-engine/internal/auth"
	"github.com/traitforge/disc-engine/internal/config"
	"github.com/traitforge/disc-engine/internal/insight"
	"github.com/traitforge/disc-engine/internal/questions"
	"github.com/traitforge/disc-engine/internal/report"
	"github.com/traitforge/disc-engine/internal/session"
	"github.com/traitforge/disc-engine/internal/storage"
)

// Server represents the HTTP API server
type Server struct {
	config         config.ServerConfig
	router         *chi.Mux
	authService    *auth.Service
	repo           storage.Repository
	results        *storage.ResultStore
	catalog        *questions.Catalog
	hub            *session.Hub
	orchestrator   *insight.Orchestrator
	renderer       *report.Renderer
	authMiddleware *AuthMiddleware
}

// NewServer creates a new API server
func NewServer(
	cfg config.ServerConfig,
	authService *auth.Service,
	repo storage.Repository,
	catalog *questions.Catalog,
	hub *session.Hub,
	orchestrator *insight.Orchestrator,
	renderer *report.Renderer,
) *Server {
	s := &Server{
		config:         cfg,
		authService:    authService,
		repo:           repo,
		results:        storage.NewResultStore(repo),
		catalog:        catalog,
		hub:            hub,
		orchestrator:   orchestrator,
		renderer:       renderer,
		authMiddleware: NewAuthMiddleware(authService, repo),
	}
	s.setupRouter()
	return s
}

// Router returns the configured router
func (s *Server) Router() http.Handler {
	return s.router
}

// setupRouter configures all routes and middleware
func (s *Server) setupRouter() {
	r := chi.NewRouter()

	// Middleware stack
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.loggingMiddleware)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))

	// CORS configuration
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"X-Request-ID", "Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Health check (public)
	r.Get("/health", s.handleHealth)
	r.Get("/ready", s.handleReady)

	// Auth endpoints (public; the refresh protocol must stay reachable
	// with an expired access token)
	r.Route("/api/v1/auth", func(r chi.Router) {
		r.Post("/register", s.handleRegister)
		r.Post("/login", s.handleLogin)
		r.Post("/refresh", s.handleRefresh)
	})

	// Protected API
	r.Route("/api/v1", func(r chi.Router) {
		r.Use(s.authMiddleware.Authenticate)

		r.Post("/auth/logout", s.handleLogout)

		r.Get("/questions", s.handleListQuestions)

		r.Route("/session", func(r chi.Router) {
			r.Get("/", s.handleSessionState)
			r.Post("/start", s.handleSessionStart)
			r.Post("/answer", s.handleSessionAnswer)
			r.Post("/submit", s.handleSessionSubmit)
			r.Post("/hydrate", s.handleSessionHydrate)
			r.Get("/ticker", s.handleSessionTicker)
		})

		r.Route("/assessment", func(r chi.Router) {
			r.Post("/save", s.handleSaveResult)
			r.Get("/get_latest", s.handleGetLatest)
			r.Get("/list", s.handleListResults)

			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", s.handleGetResult)
				r.Post("/insights", s.handleGenerateInsights)
				r.Get("/report", s.handleDownloadReport)
			})
		})
	})

	s.router = r
}

// loggingMiddleware logs HTTP requests using slog
func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		defer func() {
			slog.Info("http request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"bytes", ww.BytesWritten(),
				"duration_ms", time.Since(start).Milliseconds(),
				"request_id", middleware.GetReqID(r.Context()),
				"remote_addr", r.RemoteAddr,
			)
		}()

		next.ServeHTTP(ww, r)
	})
}
