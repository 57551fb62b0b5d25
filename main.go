package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/okanbasoglu/outreach-dispatch-service/environments"
	"github.com/okanbasoglu/outreach-dispatch-service/handlers"
	"github.com/okanbasoglu/outreach-dispatch-service/internal/attemptlog"
	"github.com/okanbasoglu/outreach-dispatch-service/internal/engine"
	"github.com/okanbasoglu/outreach-dispatch-service/internal/ingest"
	"github.com/okanbasoglu/outreach-dispatch-service/internal/recorder"
	"github.com/okanbasoglu/outreach-dispatch-service/internal/repository"
	"github.com/okanbasoglu/outreach-dispatch-service/pkg/database"
	"github.com/okanbasoglu/outreach-dispatch-service/pkg/gateway"
	"github.com/okanbasoglu/outreach-dispatch-service/pkg/logger"
	"github.com/okanbasoglu/outreach-dispatch-service/pkg/store"
	"github.com/okanbasoglu/outreach-dispatch-service/pkg/validator"
	"github.com/okanbasoglu/outreach-dispatch-service/routes"

	_ "github.com/okanbasoglu/outreach-dispatch-service/docs" // swagger docs
)

// @title Outreach Dispatch Service API
// @version 1.0
// @description Bulk outreach dispatch engine for call, SMS, and WhatsApp campaigns

// @contact.name API Support
// @contact.email okan.basoglu@example.com

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:8080
// @BasePath /

// @schemes http https
func main() {
	logger.Init()

	// Load config
	cfg := environments.Load()

	// Hard-fail if required secrets are missing
	if cfg.Gateway.AuthKey == "" {
		logger.Fatalf("GATEWAY_AUTH_KEY is required but not set")
	}
	if cfg.Auth.DispatchAPIKey == "" {
		logger.Fatalf("DISPATCH_API_KEY is required but not set")
	}
	if cfg.Auth.AttemptsAPIKey == "" {
		logger.Fatalf("ATTEMPTS_API_KEY is required but not set")
	}

	logger.Infof("Starting Outreach Dispatch Service...")

	// Init DB
	db, err := database.NewMySQLDB(cfg.Database)
	if err != nil {
		logger.Fatalf("Failed to connect to database: %v", err)
	}

	// Run migrations
	if err := database.RunMigrations(db); err != nil {
		logger.Fatalf("Failed to run migrations: %v", err)
	}

	// Seed data
	if os.Getenv("SEED_DATA") == "true" {
		if err := database.SeedTestData(db); err != nil {
			logger.Warnf("Failed to seed test data: %v", err)
		}
	}

	// Init remote store. The service stays fully usable without it: runs
	// become local-only, sessions and mirrors are skipped.
	var (
		sessionStore    engine.SessionStore
		remoteMirror    attemptlog.RemoteStore
		recordingStore  recorder.RecordingStore
		recordingLister handlers.RecordingLister
		sessionAttempts handlers.SessionAttemptLister
	)

	storeClient, err := store.NewClient(cfg.Store)
	if err != nil {
		logger.Warnf("Remote store not available, remote persistence disabled: %v", err)
		storeClient = nil
	} else {
		sessionStore = storeClient
		remoteMirror = storeClient
		recordingStore = storeClient
		recordingLister = storeClient
		sessionAttempts = storeClient
	}

	// Initialize gateway client
	gatewayClient := gateway.NewClient(cfg.Gateway)
	logger.Infof("Gateway configured: %s", gatewayClient.GetURL())

	// Initialize repositories and the dual-sink attempt log
	attemptRepo := repository.NewAttemptRepository(db)
	attemptLog := attemptlog.New(attemptRepo, remoteMirror, cfg.Store.Timeout)

	// Create context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize dispatch engine
	eng := engine.New(gatewayClient, attemptLog, sessionStore, engine.Defaults{
		CallDelay:        cfg.Dispatch.CallDelay,
		SMSDelay:         cfg.Dispatch.SMSDelay,
		WhatsAppDelay:    cfg.Dispatch.WhatsAppDelay,
		BroadcastStagger: cfg.Dispatch.BroadcastStagger,
		StoreTimeout:     cfg.Store.Timeout,
	})

	// Initialize audio recorder
	blobStore, err := recorder.NewDiskStore(cfg.Recording.Dir)
	if err != nil {
		logger.Fatalf("Failed to prepare recordings directory: %v", err)
	}
	rec := recorder.New(gatewayClient, blobStore, recordingStore)

	// Contact batches uploaded via the API
	batches := ingest.NewBatchCache()

	// Initialize handlers
	healthHandler := handlers.NewHealthHandler(db, storeClient)
	dispatchHandler := handlers.NewDispatchHandler(eng, batches, ctx)
	attemptHandler := handlers.NewAttemptHandler(attemptLog, sessionAttempts)
	contactHandler := handlers.NewContactHandler(batches)
	recordingHandler := handlers.NewRecordingHandler(rec, recordingLister)

	e := echo.New()
	e.HideBanner = true
	e.Validator = validator.New()

	// Middleware
	e.Use(middleware.Logger())
	e.Use(middleware.RequestID())
	e.Use(middleware.Recover())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowHeaders: []string{
			echo.HeaderOrigin,
			echo.HeaderContentType,
			echo.HeaderAccept,
			echo.HeaderAuthorization,
			"x-auth-key",
		},
	}))

	// Setup routes
	routes.RegisterRoutes(e, healthHandler, dispatchHandler, attemptHandler, contactHandler, recordingHandler, cfg)

	// Start server in goroutine
	go func() {
		addr := ":" + cfg.Server.Port
		logger.Infof("Server starting on http://localhost%s", addr)
		logger.Infof("Swagger docs available at http://localhost%s/swagger/index.html", addr)
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			logger.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Infof("Shutting down gracefully...")

	// Cancel context to signal all goroutines to stop
	cancel()

	// Abort any active run first (with timeout)
	if eng.Active() {
		logger.Infof("Aborting active dispatch run...")
		if eng.Abort() {
			select {
			case <-eng.Done():
				logger.Infof("Dispatch run aborted")
			case <-time.After(5 * time.Second):
				logger.Warnf("Dispatch run abort timeout, forcing shutdown")
			}
		}
	}

	// Shutdown HTTP server (with timeout)
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	logger.Infof("Shutting down HTTP server...")
	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Errorf("Server forced to shutdown: %v", err)
	} else {
		logger.Infof("HTTP server stopped successfully")
	}

	// Close database connection
	logger.Infof("Closing database connection...")
	if err := db.Close(); err != nil {
		logger.Errorf("Error closing database: %v", err)
	}

	// Close store connection
	if storeClient != nil {
		logger.Infof("Closing store connection...")
		if err := storeClient.Close(); err != nil {
			logger.Errorf("Error closing store: %v", err)
		}
	}

	logger.Infof("Graceful shutdown completed")
}
