// Package api provides the HTTP API for TransitLog.
package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"github.com/transitlog/transitlog/internal/api/handler"
	"github.com/transitlog/transitlog/internal/api/middleware"
	"github.com/transitlog/transitlog/internal/auth"
	"github.com/transitlog/transitlog/internal/commute"
	"github.com/transitlog/transitlog/internal/transport"
	"github.com/transitlog/transitlog/internal/user"
)

// RouterConfig holds configuration for the router.
type RouterConfig struct {
	Version          string
	BuildTime        string
	Logger           zerolog.Logger
	ServiceName      string
	Metrics          *middleware.Metrics
	AuthService      *auth.Service
	UserService      *user.Service
	TransportService *transport.Service
	CommuteService   *commute.Service
	DB               handler.Pinger

	// AvatarDir is where uploaded avatars are written; AvatarPath is
	// the URL prefix they are served under.
	AvatarDir  string
	AvatarPath string
}

// NewRouter creates a new chi router with all API routes configured.
func NewRouter(cfg RouterConfig) *chi.Mux {
	r := chi.NewRouter()

	// Set default service name if not provided
	serviceName := cfg.ServiceName
	if serviceName == "" {
		serviceName = "transitlog-api"
	}

	avatarDir := cfg.AvatarDir
	if avatarDir == "" {
		avatarDir = "uploads/avatars"
	}
	avatarPath := cfg.AvatarPath
	if avatarPath == "" {
		avatarPath = "/uploads/avatars"
	}

	// Global middleware - order matters
	r.Use(middleware.RequestID)            // Generate/propagate request ID first
	r.Use(middleware.Tracing(serviceName)) // Distributed tracing
	if cfg.Metrics != nil {
		r.Use(cfg.Metrics.Middleware()) // HTTP metrics
	}
	r.Use(middleware.Logger(cfg.Logger))   // Structured logging
	r.Use(middleware.Recovery(cfg.Logger)) // Panic recovery
	r.Use(chimiddleware.RealIP)            // Real IP extraction
	r.Use(middleware.SecurityHeaders)      // Security headers (HSTS, CSP, etc.)
	r.Use(middleware.RequireTLS)           // TLS enforcement (enabled via REQUIRE_TLS=true)
	r.Use(middleware.ContentTypeJSON)      // JSON content type

	// Initialize handlers
	opsHandler := handler.NewOpsHandler(cfg.Version, cfg.BuildTime, cfg.DB)
	authHandler := handler.NewAuthHandler(cfg.AuthService)
	meHandler := handler.NewMeHandler(cfg.UserService, avatarDir, avatarPath)
	stopsHandler := handler.NewStopsHandler(cfg.TransportService)
	commuteHandler := handler.NewCommuteHandler(cfg.CommuteService)

	// Create auth middleware
	authMiddleware := middleware.Auth(cfg.AuthService)

	// Create rate limit middleware for different endpoint categories
	authRateLimit := middleware.RateLimitByIP(middleware.AuthRateLimit)         // 10 req/min
	standardRateLimit := middleware.RateLimitByIP(middleware.StandardRateLimit) // 100 req/min

	// Uploaded avatars are served as static files
	r.Method(http.MethodGet, avatarPath+"/*",
		http.StripPrefix(avatarPath+"/", http.FileServer(http.Dir(avatarDir))))

	// API v1 routes
	r.Route("/v1", func(r chi.Router) {
		// Auth endpoints (public) - strict rate limiting
		r.Route("/auth", func(r chi.Router) {
			r.Use(authRateLimit) // 10 requests per minute per IP
			r.Post("/register", authHandler.Register)
			r.Post("/login", authHandler.Login)
			// verify requires authentication
			r.With(authMiddleware).Get("/verify", authHandler.Verify)
		})

		// Ops endpoints (public)
		r.Route("/ops", func(r chi.Router) {
			r.Get("/health", opsHandler.HealthCheck)
			r.Get("/ready", opsHandler.ReadinessCheck)
		})

		// Transit stop endpoints (authenticated) - standard rate limiting
		r.Route("/transport/stops", func(r chi.Router) {
			r.Use(authMiddleware)
			r.Use(standardRateLimit)
			r.Get("/", stopsHandler.ListStops)
			r.Get("/{stopId}", stopsHandler.GetStop)
		})

		// Me endpoints (authenticated) - user-based rate limiting
		r.Route("/me", func(r chi.Router) {
			r.Use(authMiddleware)
			r.Use(middleware.RateLimitByUser(middleware.StandardRateLimit)) // 100 req/min per user
			r.Get("/", meHandler.GetMe)
			r.Put("/", meHandler.UpdateMe)
			r.Post("/avatar", meHandler.UploadAvatar)
		})

		// Commute endpoints (authenticated) - user-based rate limiting
		r.Route("/commute", func(r chi.Router) {
			r.Use(authMiddleware)
			r.Use(middleware.RateLimitByUser(middleware.StandardRateLimit)) // 100 req/min per user

			// Calculation is expensive - tighter limit (30 req/min per user)
			r.With(middleware.RateLimitByUser(middleware.ExpensiveRateLimit)).
				Post("/calculate", commuteHandler.Calculate)
			r.Get("/stats", commuteHandler.GetStats)
			r.Get("/detailed-stats", commuteHandler.GetDetailedStats)

			r.Route("/records", func(r chi.Router) {
				r.Get("/", commuteHandler.ListRecords)
				r.Delete("/", commuteHandler.DeleteAllRecords)
				r.Delete("/{recordId}", commuteHandler.DeleteRecord)
			})
		})
	})

	return r
}
