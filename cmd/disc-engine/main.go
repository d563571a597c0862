package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/traitforge/disc-engine/internal/api"
	"github.com/traitforge/disc-engine/internal/auth"
	"github.com/traitforge/disc-engine/internal/cleanup"
	"github.com/traitforge/disc-engine/internal/config"
	"github.com/traitforge/disc-engine/internal/insight"
	"github.com/traitforge/disc-engine/internal/questions"
	"github.com/traitforge/disc-engine/internal/report"
	"github.com/traitforge/disc-engine/internal/session"
	"github.com/traitforge/disc-engine/internal/storage"
)

func main() {
	// Setup structured logging
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	slog.Info("starting disc-engine",
		"host", cfg.Server.Host,
		"port", cfg.Server.Port,
	)

	// Create context for initialization
	initCtx, initCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer initCancel()

	// Run database migrations
	slog.Info("running database migrations")
	if err := storage.MigrateFromDSN(initCtx, cfg.Database.DSN); err != nil {
		slog.Error("failed to run migrations", "error", err)
		os.Exit(1)
	}

	// Initialize database repository
	repo, err := storage.NewPostgresRepository(initCtx, storage.PostgresConfig{
		DSN:          cfg.Database.DSN,
		MaxOpenConns: int32(cfg.Database.MaxOpenConns),
		MaxIdleConns: int32(cfg.Database.MaxIdleConns),
	})
	if err != nil {
		slog.Error("failed to create database repository", "error", err)
		os.Exit(1)
	}
	slog.Info("database connected successfully")

	// Initialize auth service (Redis-backed token store)
	authService, err := auth.NewService(
		cfg.Redis.Address,
		cfg.Redis.Password,
		cfg.Redis.DB,
		repo,
		cfg.Auth.AccessTTL,
		cfg.Auth.RefreshTTL,
	)
	if err != nil {
		slog.Error("failed to create auth service", "error", err)
		os.Exit(1)
	}

	// Load question catalog
	catalog := questions.LoadFromDir(cfg.Questions.Dir)
	slog.Info("question catalog ready", "questions", catalog.Len())

	// Initialize session hub over the result store
	hub := session.NewHub(catalog, storage.NewResultStore(repo))

	// Initialize insight orchestrator
	provider := insight.NewOpenAIProvider(insight.OpenAIConfig{
		BaseURL: cfg.Insight.BaseURL,
		APIKey:  cfg.Insight.APIKey,
		Model:   cfg.Insight.Model,
		Timeout: cfg.Insight.Timeout,
	})
	orchestrator := insight.NewOrchestrator(provider, cfg.Insight.Temperature)

	// Initialize report renderer
	renderer := report.NewRenderer(cfg.Report.Brand)

	// Initialize cleanup worker
	cleaner := cleanup.NewCleaner(hub, cfg.Cleanup.Interval, cfg.Cleanup.SessionMaxAge)

	// Create context with cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Start cleanup worker
	cleaner.Start(ctx)

	// Setup HTTP server
	server := api.NewServer(cfg.Server, authService, repo, catalog, hub, orchestrator, renderer)
	httpServer := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      server.Router(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		slog.Info("HTTP server starting", "addr", httpServer.Addr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("HTTP server error", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down gracefully...")

	// Cancel context to stop background workers
	cancel()

	// Shutdown HTTP server with timeout
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		slog.Error("HTTP server shutdown error", "error", err)
	}

	// Tear down sessions and close connections
	hub.Close()

	if err := authService.Close(); err != nil {
		slog.Error("auth service close error", "error", err)
	}

	if err := repo.Close(); err != nil {
		slog.Error("repository close error", "error", err)
	}

	slog.Info("disc-engine stopped")
}
