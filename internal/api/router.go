package api

import (
	"log/slog"
	"os"
	"strings"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/frknlke/eluvium-backend/internal/api/handlers"
	"github.com/frknlke/eluvium-backend/internal/api/middleware"
	"github.com/frknlke/eluvium-backend/internal/pipeline"
	"github.com/frknlke/eluvium-backend/internal/repository"
	"github.com/frknlke/eluvium-backend/internal/vectorstore"
	ws "github.com/frknlke/eluvium-backend/internal/websocket"
)

// RouterConfig holds dependencies for the router
type RouterConfig struct {
	DB           *gorm.DB
	VectorStore  vectorstore.Store
	Orchestrator *pipeline.Orchestrator
	Hub          *ws.Hub
	Logger       *slog.Logger
	// Security configuration
	APIKey         string   // API key for authentication (empty = disabled)
	AllowedOrigins []string // Allowed CORS origins
	RateLimit      int      // Requests per second (0 = use env default)
	RateBurst      int      // Burst size for rate limiter
	EnableAuth     bool     // Enable API key authentication
}

// NewRouter creates and configures the Echo router with all routes
func NewRouter(cfg *RouterConfig) *echo.Echo {
	e := echo.New()
	e.HideBanner = true

	// Security Middleware (applied in correct order)
	// 1. Recover from panics
	e.Use(middleware.Recover())

	// 2. Security headers (applied to all responses)
	e.Use(middleware.SecureHeaders())

	// 3. CORS - Set environment variable if origins provided in config
	if len(cfg.AllowedOrigins) > 0 {
		os.Setenv("ALLOWED_ORIGINS", strings.Join(cfg.AllowedOrigins, ","))
	}
	e.Use(middleware.SecureCORS())

	// 4. Rate limiting - use RateLimiterWithConfig if custom values provided
	if cfg.RateLimit > 0 {
		e.Use(middleware.RateLimiterWithConfig(float64(cfg.RateLimit), cfg.RateBurst, cfg.Logger))
	} else {
		e.Use(middleware.RateLimiter(cfg.Logger))
	}

	// 5. Request logging
	if cfg.Logger != nil {
		e.Use(middleware.RequestLogger(cfg.Logger))
	}

	// Initialize repositories
	mailboxRepo := repository.NewMailboxRepository(cfg.DB)
	emailRepo := repository.NewEmailRepository(cfg.DB)

	// Initialize handlers
	healthHandler := handlers.NewHealthHandler(cfg.DB, cfg.VectorStore)
	mailboxHandler := handlers.NewMailboxHandler(mailboxRepo, cfg.Orchestrator, cfg.Logger)
	emailHandler := handlers.NewEmailHandler(emailRepo, cfg.VectorStore, cfg.Logger)
	searchHandler := handlers.NewSearchHandler(cfg.VectorStore, cfg.Logger)

	// Health routes (no auth required)
	e.GET("/health", healthHandler.Health)
	e.GET("/ready", healthHandler.Ready)

	// WebSocket endpoint (no auth; origin checked during upgrade)
	if cfg.Hub != nil {
		wsHandler := handlers.NewWSHandler(cfg.Hub, cfg.Logger)
		e.GET("/ws", wsHandler.Serve)
	}

	// API routes
	api := e.Group("/api")

	// Set API_KEY env var if provided in config
	if cfg.EnableAuth && cfg.APIKey != "" {
		os.Setenv("API_KEY", cfg.APIKey)
	}
	api.Use(middleware.APIKeyAuth(cfg.Logger))

	// Mailbox routes
	mailboxes := api.Group("/mailboxes")
	mailboxes.POST("", mailboxHandler.Create)
	mailboxes.GET("", mailboxHandler.List)
	mailboxes.GET("/:id", mailboxHandler.Get)
	mailboxes.POST("/:id/process", mailboxHandler.Process)

	// Email routes (nested under mailboxes)
	mailboxes.GET("/:id/emails", emailHandler.ListByMailbox)

	// Email routes (standalone)
	emails := api.Group("/emails")
	emails.GET("/:id", emailHandler.Get)
	emails.DELETE("/:id", emailHandler.Delete)

	// Search routes over the vector mirror
	search := api.Group("/search")
	search.POST("/semantic", searchHandler.Semantic)
	search.POST("/advanced", searchHandler.Advanced)
	search.GET("/stats", searchHandler.Stats)
	search.GET("/dump", searchHandler.Dump)

	return e
}
