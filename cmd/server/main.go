package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/frknlke/eluvium-backend/internal/api"
	"github.com/frknlke/eluvium-backend/internal/config"
	"github.com/frknlke/eluvium-backend/internal/database"
	"github.com/frknlke/eluvium-backend/internal/extract/openai"
	"github.com/frknlke/eluvium-backend/internal/logger"
	"github.com/frknlke/eluvium-backend/internal/mailfetch"
	"github.com/frknlke/eluvium-backend/internal/pipeline"
	"github.com/frknlke/eluvium-backend/internal/repository"
	smtpserver "github.com/frknlke/eluvium-backend/internal/smtp"
	"github.com/frknlke/eluvium-backend/internal/vectorstore"
	"github.com/frknlke/eluvium-backend/internal/vectorstore/memory"
	"github.com/frknlke/eluvium-backend/internal/vectorstore/qdrant"
	ws "github.com/frknlke/eluvium-backend/internal/websocket"
)

func main() {
	// .env is optional; real deployments set the environment directly
	_ = godotenv.Load()

	cfg, err := config.LoadWithValidation()
	if err != nil {
		slog.Error("failed to load configuration", slog.Any("error", err))
		os.Exit(1)
	}

	log := logger.New(cfg.LogLevel)
	cfg.LogConfig(log)

	if err := run(cfg, log); err != nil {
		log.Error("server exited with error", slog.Any("error", err))
		os.Exit(1)
	}
}

func run(cfg *config.Config, log *slog.Logger) error {
	// Database
	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer database.Close(db)

	if err := database.Migrate(db); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	// Vector store mirror
	var vectors vectorstore.Store
	if cfg.QdrantURL != "" {
		qs := qdrant.NewStore(qdrant.Config{
			URL:        cfg.QdrantURL,
			APIKey:     cfg.QdrantAPIKey,
			Collection: cfg.QdrantCollection,
		})
		if err := qs.Init(context.Background(), vectorstore.EmbeddingDim); err != nil {
			return fmt.Errorf("failed to initialize qdrant collection: %w", err)
		}
		vectors = qs
		log.Info("using qdrant vector store", slog.String("collection", cfg.QdrantCollection))
	} else {
		vectors = memory.NewStore(cfg.QdrantCollection)
		log.Info("using in-memory vector store", slog.String("collection", cfg.QdrantCollection))
	}

	// Repositories
	mailboxRepo := repository.NewMailboxRepository(db)
	emailRepo := repository.NewEmailRepository(db)

	// Extraction
	extractor, err := openai.New(openai.Config{
		Token:   cfg.OpenAIToken,
		BaseURL: cfg.OpenAIBaseURL,
		Model:   cfg.OpenAIModel,
	}, log)
	if err != nil {
		return fmt.Errorf("failed to create extractor: %w", err)
	}

	// WebSocket hub
	hub := ws.NewHub(log)
	go hub.Run()
	notifier := ws.NewNotifier(hub)

	// Pipeline
	writer := pipeline.NewWriter(emailRepo, vectors, cfg.OpenAIModel, log)
	orchestrator, err := pipeline.NewOrchestrator(
		extractor,
		writer,
		emailRepo,
		mailfetch.Config{
			GoogleClientID:     cfg.GoogleClientID,
			GoogleClientSecret: cfg.GoogleClientSecret,
			Logger:             log,
		},
		cfg.WorkerPoolSize,
		log,
		pipeline.WithTimeouts(cfg.ExtractTimeout, cfg.PersistTimeout),
		pipeline.WithNotifier(notifier),
	)
	if err != nil {
		return fmt.Errorf("failed to create pipeline: %w", err)
	}
	defer orchestrator.Close()

	// HTTP server
	var origins []string
	if cfg.AllowedOrigins != "" {
		origins = strings.Split(cfg.AllowedOrigins, ",")
	}
	e := api.NewRouter(&api.RouterConfig{
		DB:             db,
		VectorStore:    vectors,
		Orchestrator:   orchestrator,
		Hub:            hub,
		Logger:         log,
		AllowedOrigins: origins,
	})

	go func() {
		addr := fmt.Sprintf(":%d", cfg.APIPort)
		log.Info("starting HTTP server", slog.String("addr", addr))
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			log.Error("HTTP server stopped", slog.Any("error", err))
		}
	}()

	// SMTP server for push-style ingestion
	backend := smtpserver.NewBackend(&smtpserver.BackendConfig{
		MailboxRepo:  mailboxRepo,
		Orchestrator: orchestrator,
		Logger:       log,
	})
	smtpCfg := smtpserver.LoadServerConfigFromEnv()
	smtpCfg.Addr = fmt.Sprintf(":%d", cfg.SMTPPort)
	smtpSrv := smtpserver.NewSecureServer(backend, smtpCfg)

	go func() {
		log.Info("starting SMTP server", slog.String("addr", smtpCfg.Addr))
		if err := smtpSrv.ListenAndServe(); err != nil {
			log.Error("SMTP server stopped", slog.Any("error", err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := smtpSrv.Shutdown(shutdownCtx); err != nil {
		log.Warn("SMTP shutdown error", slog.Any("error", err))
	}
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Warn("HTTP shutdown error", slog.Any("error", err))
	}

	log.Info("server stopped")
	return nil
}
