package bootstrap

import (
	"context"
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"

	redisadapter "github.com/gymflow/console/internal/adapters/redis"
	"github.com/gymflow/console/internal/forms"
	"github.com/gymflow/console/internal/gymapi"
	httpx "github.com/gymflow/console/internal/http"
	"github.com/gymflow/console/internal/session"
)

// Run wires the application together and blocks until ctx is cancelled.
// Startup order matters: the persisted session is restored before the
// HTTP server starts accepting requests, so the first page load already
// reflects the authenticated state.
func Run(ctx context.Context, logger *slog.Logger) error {
	cfg, err := LoadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	api, err := gymapi.NewClient(gymapi.Config{
		BaseURL: cfg.API.BaseURL,
		Timeout: cfg.API.Timeout,
		Logger:  logger,
	})
	if err != nil {
		return fmt.Errorf("build api client: %w", err)
	}

	redisClient, err := ConnectRedis(cfg.Redis, logger)
	if err != nil {
		return fmt.Errorf("connect redis: %w", err)
	}
	defer func() {
		if closeErr := redisClient.Close(); closeErr != nil {
			logger.Warn("close redis client", "error", closeErr)
		}
	}()

	store := redisadapter.NewTokenStoreWithPrefix(redisClient, cfg.Session.KeyPrefix)
	sessions := session.NewManager(api, store, logger)
	if initErr := sessions.Initialize(ctx); initErr != nil {
		// Start logged out rather than refuse to start.
		logger.Warn("session restore failed", "error", initErr)
	}

	services := httpx.RouterServices{
		API:                api,
		Sessions:           sessions,
		DuesSelections:     forms.NewRegistry(api.OutstandingDues, logger),
		TrainerSelections:  forms.NewRegistry(api.TrainerPayments, logger),
		CookieDomain:       cfg.HTTP.CookieDomain,
		CompressionEnabled: cfg.HTTP.CompressionEnabled,
		CompressionLevel:   cfg.HTTP.CompressionLevel,
		IsDev:              cfg.IsDev,
		Logger:             logger,
	}

	server := StartHTTPServer(&HTTPServerConfig{
		Config:   &cfg,
		Services: services,
		Logger:   logger,
	})

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		<-gctx.Done()
		return ShutdownHTTPServer(ShutdownConfig{
			Context: context.Background(),
			Server:  server,
			Timeout: cfg.HTTP.ShutdownTimeout,
			Logger:  logger,
		})
	})

	return g.Wait()
}
