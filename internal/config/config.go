package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all configuration for the application
type Config struct {
	// Database
	DatabaseURL string

	// Server ports
	APIPort  int
	SMTPPort int

	// Extraction
	OpenAIToken   string
	OpenAIBaseURL string
	OpenAIModel   string

	// Vector store
	QdrantURL        string
	QdrantAPIKey     string
	QdrantCollection string

	// Mail providers
	GoogleClientID     string
	GoogleClientSecret string

	// Pipeline
	WorkerPoolSize int
	ExtractTimeout time.Duration
	PersistTimeout time.Duration

	// Logging
	LogLevel string

	// Security
	AllowedOrigins string
	AppEnv         string
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	cfg := &Config{}

	// Required: DATABASE_URL
	cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required but not set")
	}

	// API_PORT (default: 8080)
	apiPort := os.Getenv("API_PORT")
	if apiPort == "" {
		cfg.APIPort = 8080
	} else {
		port, err := strconv.Atoi(apiPort)
		if err != nil {
			return nil, fmt.Errorf("API_PORT must be a valid integer: %w", err)
		}
		cfg.APIPort = port
	}

	// SMTP_PORT (default: 2525)
	smtpPort := os.Getenv("SMTP_PORT")
	if smtpPort == "" {
		cfg.SMTPPort = 2525
	} else {
		port, err := strconv.Atoi(smtpPort)
		if err != nil {
			return nil, fmt.Errorf("SMTP_PORT must be a valid integer: %w", err)
		}
		cfg.SMTPPort = port
	}

	// Required: OPENAI_API_KEY
	cfg.OpenAIToken = os.Getenv("OPENAI_API_KEY")
	if cfg.OpenAIToken == "" {
		return nil, fmt.Errorf("OPENAI_API_KEY is required but not set")
	}
	cfg.OpenAIBaseURL = os.Getenv("OPENAI_BASE_URL")

	// OPENAI_MODEL (default: gpt-4.1)
	cfg.OpenAIModel = os.Getenv("OPENAI_MODEL")
	if cfg.OpenAIModel == "" {
		cfg.OpenAIModel = "gpt-4.1"
	}

	// QDRANT_URL is optional; empty selects the in-memory vector store
	cfg.QdrantURL = os.Getenv("QDRANT_URL")
	cfg.QdrantAPIKey = os.Getenv("QDRANT_API_KEY")
	cfg.QdrantCollection = os.Getenv("QDRANT_COLLECTION")
	if cfg.QdrantCollection == "" {
		cfg.QdrantCollection = "emails"
	}

	cfg.GoogleClientID = os.Getenv("GOOGLE_CLIENT_ID")
	cfg.GoogleClientSecret = os.Getenv("GOOGLE_CLIENT_SECRET")

	// WORKER_POOL_SIZE (default: 0, sized from CPU count)
	if size := os.Getenv("WORKER_POOL_SIZE"); size != "" {
		v, err := strconv.Atoi(size)
		if err != nil {
			return nil, fmt.Errorf("WORKER_POOL_SIZE must be a valid integer: %w", err)
		}
		cfg.WorkerPoolSize = v
	}

	// EXTRACT_TIMEOUT_SECONDS (default: 60)
	cfg.ExtractTimeout = 60 * time.Second
	if v := os.Getenv("EXTRACT_TIMEOUT_SECONDS"); v != "" {
		secs, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("EXTRACT_TIMEOUT_SECONDS must be a valid integer: %w", err)
		}
		cfg.ExtractTimeout = time.Duration(secs) * time.Second
	}

	// PERSIST_TIMEOUT_SECONDS (default: 30)
	cfg.PersistTimeout = 30 * time.Second
	if v := os.Getenv("PERSIST_TIMEOUT_SECONDS"); v != "" {
		secs, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("PERSIST_TIMEOUT_SECONDS must be a valid integer: %w", err)
		}
		cfg.PersistTimeout = time.Duration(secs) * time.Second
	}

	// LOG_LEVEL (default: info)
	cfg.LogLevel = os.Getenv("LOG_LEVEL")
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}

	cfg.AllowedOrigins = os.Getenv("ALLOWED_ORIGINS")
	cfg.AppEnv = os.Getenv("APP_ENV")
	if cfg.AppEnv == "" {
		cfg.AppEnv = "development"
	}

	return cfg, nil
}

// LoadWithValidation loads and validates configuration, failing fast on errors
func LoadWithValidation() (*Config, error) {
	cfg, err := Load()
	if err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	// Production-specific validation
	if cfg.AppEnv == "production" {
		if err := cfg.ValidateProduction(); err != nil {
			return nil, err
		}
	}

	return cfg, nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.DatabaseURL == "" {
		return fmt.Errorf("DatabaseURL cannot be empty")
	}
	if c.APIPort <= 0 || c.APIPort > 65535 {
		return fmt.Errorf("APIPort must be between 1 and 65535")
	}
	if c.SMTPPort <= 0 || c.SMTPPort > 65535 {
		return fmt.Errorf("SMTPPort must be between 1 and 65535")
	}
	if c.WorkerPoolSize < 0 {
		return fmt.Errorf("WorkerPoolSize cannot be negative")
	}
	if c.ExtractTimeout <= 0 || c.PersistTimeout <= 0 {
		return fmt.Errorf("stage timeouts must be positive")
	}
	return nil
}

// ValidateProduction performs additional validation for production environment
func (c *Config) ValidateProduction() error {
	if c.AllowedOrigins == "" {
		return fmt.Errorf("ALLOWED_ORIGINS is required in production")
	}

	// Check for wildcard in production
	if strings.Contains(c.AllowedOrigins, "*") {
		return fmt.Errorf("wildcard (*) origins are not allowed in production")
	}

	// Check for sslmode=disable in database URL
	if strings.Contains(c.DatabaseURL, "sslmode=disable") {
		return fmt.Errorf("sslmode=disable is not allowed in production")
	}

	if c.QdrantURL == "" {
		return fmt.Errorf("QDRANT_URL is required in production; the in-memory store is not durable")
	}

	return nil
}

// LogConfig logs configuration values (excluding secrets)
func (c *Config) LogConfig(logger *slog.Logger) {
	logger.Info("configuration loaded",
		slog.Int("api_port", c.APIPort),
		slog.Int("smtp_port", c.SMTPPort),
		slog.String("openai_model", c.OpenAIModel),
		slog.Bool("qdrant_enabled", c.QdrantURL != ""),
		slog.String("qdrant_collection", c.QdrantCollection),
		slog.Bool("google_oauth_set", c.GoogleClientID != ""),
		slog.Int("worker_pool_size", c.WorkerPoolSize),
		slog.Duration("extract_timeout", c.ExtractTimeout),
		slog.Duration("persist_timeout", c.PersistTimeout),
		slog.String("log_level", c.LogLevel),
		slog.String("app_env", c.AppEnv),
	)
}
