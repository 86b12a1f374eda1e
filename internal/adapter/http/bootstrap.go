package http

import (
	"context"
	"net/http"
	"time"

	"go.uber.org/zap"

	"todoboard/internal/adapter/database"
	"todoboard/internal/adapter/http/middleware"
	"todoboard/internal/adapter/http/routes"
	"todoboard/internal/adapter/telemetry"
	"todoboard/pkg/config"
	"todoboard/pkg/logging"
)

// StartServer wires the container and serves until ctx is cancelled, then
// drains in-flight requests.
func StartServer(ctx context.Context, cfg *config.Config, db *database.DB, logger *logging.Logger, metrics *telemetry.AppMetrics) error {
	container := NewContainer(db, cfg, logger, metrics)

	router := routes.SetupRouter(cfg, routes.RouterConfig{
		AuthHandler:   container.AuthHandler,
		TodoHandler:   container.TodoHandler,
		AuthGateway:   container.AuthGateway,
		Logger:        logger,
		Metrics:       metrics,
		RateLimiter:   middleware.NewRateLimiter(cfg.RateLimitConfigs, logger, metrics),
		HTTPSEnforcer: middleware.NewHTTPSEnforcer(cfg.EnforceHTTPS, logger),
		ResponseCache: container.ResponseCache,
		ServiceName:   cfg.ServiceName,
	})

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	errCh := make(chan error, 1)

	go func() {
		logger.Info(ctx, "Server starting",
			zap.String("port", cfg.Port),
			zap.String("environment", cfg.Environment),
			zap.Bool("rate_limit_enabled", cfg.RateLimitEnabled),
			zap.Bool("https_enforced", cfg.EnforceHTTPS))

		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	return srv.Shutdown(shutdownCtx)
}
