// Package main is the entry point for the quote sync service.
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

	"github.com/quotably/quotesync/internal/adapters/blob"
	"github.com/quotably/quotesync/internal/adapters/cache"
	"github.com/quotably/quotesync/internal/adapters/clients"
	"github.com/quotably/quotesync/internal/adapters/clients/acl"
	httpadapter "github.com/quotably/quotesync/internal/adapters/http"
	"github.com/quotably/quotesync/internal/adapters/http/handlers"
	"github.com/quotably/quotesync/internal/app"
	"github.com/quotably/quotesync/internal/platform/config"
	"github.com/quotably/quotesync/internal/platform/connectivity"
	"github.com/quotably/quotesync/internal/platform/logging"
	"github.com/quotably/quotesync/internal/platform/telemetry"
	"github.com/quotably/quotesync/internal/ports"
)

// Build-time variables, injected via ldflags.
var (
	// Version is the semantic version of the service.
	Version = "dev"

	// Commit is the git commit SHA.
	Commit = "unknown"

	// BuildTime is the timestamp when the binary was built.
	BuildTime = "unknown"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	ctx := context.Background()

	profile := os.Getenv("APP_ENVIRONMENT")
	if profile == "" {
		profile = "local"
	}

	// Load and validate configuration (fail fast)
	cfg, err := config.Load(profile)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	logger := logging.New(logging.Config{
		Level:   cfg.Log.Level,
		Format:  cfg.Log.Format,
		Service: cfg.App.Name,
		Version: cfg.App.Version,
		File: logging.FileConfig{
			Enabled:    cfg.Log.File.Enabled,
			Path:       cfg.Log.File.Path,
			MaxSizeMB:  cfg.Log.File.MaxSizeMB,
			MaxBackups: cfg.Log.File.MaxBackups,
			MaxAgeDays: cfg.Log.File.MaxAgeDays,
			Compress:   cfg.Log.File.Compress,
		},
	})
	slog.SetDefault(logger)

	logger.Info("starting service",
		slog.String("version", Version),
		slog.String("commit", Commit),
		slog.String("environment", cfg.App.Environment),
	)

	// Telemetry is a noop provider when disabled
	telProvider, err := telemetry.New(ctx, &telemetry.Config{
		Enabled:      cfg.Telemetry.Enabled,
		Endpoint:     cfg.Telemetry.Endpoint,
		ServiceName:  cfg.Telemetry.ServiceName,
		Version:      cfg.App.Version,
		Environment:  cfg.App.Environment,
		SamplingRate: cfg.Telemetry.SamplingRate,
	})
	if err != nil {
		return fmt.Errorf("initializing telemetry: %w", err)
	}

	defer func() {
		if shutdownErr := telProvider.Shutdown(ctx); shutdownErr != nil {
			logger.Error("telemetry shutdown error", slog.Any("error", shutdownErr))
		}
	}()

	healthRegistry := ports.NewHealthRegistry()

	// Identity provider client
	identityHTTP, err := clients.New(&clients.Config{
		BaseURL:     cfg.Services.Identity.BaseURL,
		ServiceName: cfg.Services.Identity.Name,
		Timeout:     cfg.Client.Timeout,
		Retry:       cfg.Client.Retry,
		Circuit:     cfg.Client.CircuitBreaker,
		Logger:      logger,
	})
	if err != nil {
		return fmt.Errorf("creating identity HTTP client: %w", err)
	}

	identityClient := acl.NewIdentityClient(acl.IdentityClientConfig{
		Client: identityHTTP,
		Logger: logger,
	})

	// Document store client. Requests carry the session token when a
	// session is open.
	storeHTTP, err := clients.New(&clients.Config{
		BaseURL:     cfg.Services.Store.BaseURL,
		ServiceName: cfg.Services.Store.Name,
		Timeout:     cfg.Client.Timeout,
		Retry:       cfg.Client.Retry,
		Circuit:     cfg.Client.CircuitBreaker,
		AuthFunc:    bearerAuth(identityClient),
		Logger:      logger,
	})
	if err != nil {
		return fmt.Errorf("creating store HTTP client: %w", err)
	}

	storeClient := acl.NewStoreClient(acl.StoreClientConfig{
		Client:  storeHTTP,
		Session: identityClient.Session,
		Logger:  logger,
	})

	if err := healthRegistry.Register(storeClient); err != nil {
		return fmt.Errorf("registering store health check: %w", err)
	}

	// Image host client
	imageHostHTTP, err := clients.New(&clients.Config{
		BaseURL:     cfg.Services.ImageHost.BaseURL,
		ServiceName: cfg.Services.ImageHost.Name,
		Timeout:     cfg.Client.Timeout,
		Retry:       cfg.Client.Retry,
		Circuit:     cfg.Client.CircuitBreaker,
		Logger:      logger,
	})
	if err != nil {
		return fmt.Errorf("creating image host HTTP client: %w", err)
	}

	imageHostClient := acl.NewImageHostClient(acl.ImageHostClientConfig{
		Client:       imageHostHTTP,
		UploadPreset: cfg.Images.UploadPreset,
		Logger:       logger,
	})

	// The connectivity signal comes from the store client's circuit
	// breaker: open means the network path to the source of truth is
	// down, closed means it recovered. No polling.
	monitor := connectivity.NewMonitor(true, logger)
	storeHTTP.OnCircuitStateChange(func(from, to clients.State) {
		switch to {
		case clients.StateOpen:
			monitor.Set(false)
		case clients.StateClosed:
			monitor.Set(true)
		case clients.StateHalfOpen:
			// Still probing; keep the current signal.
		}
	})

	// Local cache store
	cacheStore, err := cache.Open(cfg.Cache.Path, logger)
	if err != nil {
		return fmt.Errorf("opening cache store: %w", err)
	}

	defer func() {
		if closeErr := cacheStore.Close(); closeErr != nil {
			logger.Error("cache close error", slog.Any("error", closeErr))
		}
	}()

	// Author image blob storage
	blobStore, err := blob.New(ctx, blob.Config{
		Endpoint:        cfg.Blob.Endpoint,
		AccessKey:       cfg.Blob.AccessKey,
		SecretKey:       cfg.Blob.SecretKey,
		Bucket:          cfg.Blob.Bucket,
		UseSSL:          cfg.Blob.UseSSL,
		ListConcurrency: cfg.Images.ListConcurrency,
		Logger:          logger,
	})
	if err != nil {
		return fmt.Errorf("creating blob store: %w", err)
	}

	// Application layer
	coordinator := app.NewSyncCoordinator(app.SyncCoordinatorConfig{
		Remote:       storeClient,
		Cache:        cacheStore,
		Identity:     identityClient,
		Connectivity: monitor,
		Logger:       logger,
	})

	accounts := app.NewAccountService(app.AccountServiceConfig{
		Identity: identityClient,
		Remote:   storeClient,
		Cache:    cacheStore,
		Logger:   logger,
	})

	images := app.NewImageService(app.ImageServiceConfig{
		Blob:     blobStore,
		Uploader: imageHostClient,
		Logger:   logger,
	})

	// HTTP layer
	buildInfo := handlers.NewBuildInfo(Version, Commit, BuildTime)

	server := httpadapter.New(&cfg.Server, logger)

	httpadapter.SetupRouter(server.Engine(), httpadapter.RouterConfig{
		Logger:          logger,
		ServiceName:     cfg.App.Name,
		HealthHandler:   handlers.NewHealthHandler(healthRegistry, buildInfo),
		QuoteHandler:    handlers.NewQuoteHandler(coordinator),
		FavoriteHandler: handlers.NewFavoriteHandler(coordinator),
		AuthHandler:     handlers.NewAuthHandler(accounts),
		ImageHandler:    handlers.NewImageHandler(images),
		Timeout:         httpadapter.DefaultRequestTimeout,
	})

	serverErr := server.Start()

	return waitForShutdown(ctx, logger, server, serverErr, cfg.Server.ShutdownTimeout)
}

// bearerAuth injects the active session token into outgoing requests.
func bearerAuth(identity *acl.IdentityClient) func(*http.Request) {
	return func(req *http.Request) {
		if session, ok := identity.Session(); ok {
			req.Header.Set("Authorization", "Bearer "+session.IDToken)
		}
	}
}

// waitForShutdown blocks until a shutdown signal is received or a server
// error occurs, then performs graceful shutdown of the HTTP server.
func waitForShutdown(
	ctx context.Context,
	logger *slog.Logger,
	server *httpadapter.Server,
	serverErr <-chan error,
	shutdownTimeout time.Duration,
) error {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErr:
		return fmt.Errorf("server error: %w", err)

	case sig := <-quit:
		logger.Info("received shutdown signal", slog.String("signal", sig.String()))
	}

	shutdownCtx, cancel := context.WithTimeout(ctx, shutdownTimeout)
	defer cancel()

	logger.Info("initiating graceful shutdown",
		slog.Duration("timeout", shutdownTimeout),
	)

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	logger.Info("shutdown complete")

	return nil
}
