package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/okian/tribunal/internal/adapters/cache"
	"github.com/okian/tribunal/internal/adapters/clients"
	"github.com/okian/tribunal/internal/adapters/http/api"
	"github.com/okian/tribunal/internal/adapters/repository"
	app "github.com/okian/tribunal/internal/app"
	"github.com/okian/tribunal/internal/config"
	"github.com/okian/tribunal/internal/domain/rating"
	"github.com/okian/tribunal/pkg/logger"
	"github.com/okian/tribunal/pkg/metrics"
)

// HTTP server timeout constants.
const (
	readTimeout            = 10 * time.Second
	writeTimeout           = 10 * time.Second
	idleTimeout            = 60 * time.Second
	readHeaderTimeout      = 5 * time.Second
	shutdownTimeout        = 30 * time.Second
	systemMetricsInterval  = 10 * time.Second
	serviceMetricsInterval = 5 * time.Second
)

func main() {
	// Initialize logging
	if err := logger.Init(); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		return
	}
	defer func() { _ = logger.Sync() }()

	loggerInstance := logger.Get()

	// Root context with cancel on SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Load configuration (defaults -> optional file -> env)
	cfg, err := config.Load()
	if err != nil {
		os.Stderr.WriteString("failed to load config: " + err.Error() + "\n")
		return
	}

	// Apply configured log level (fallback to info on invalid input)
	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		loggerInstance.Warn(ctx, "invalid log_level; falling back to info", logger.String("log_level", cfg.LogLevel), logger.Error(err))
		_ = logger.SetLevelString("info")
	}

	// Open the vote ledger
	ledger, err := repository.Open(cfg.DBPath)
	if err != nil {
		loggerInstance.Error(ctx, "failed to open vote ledger", logger.String("path", cfg.DBPath), logger.Error(err))
		return
	}

	// Snapshot store: SQLite-backed when a path is configured, else in-memory
	cacheOpts := []cache.Option{
		cache.WithTTL(time.Duration(cfg.CacheTTLSeconds) * time.Second),
	}
	if cfg.CachePath != "" {
		snapshots, err := cache.OpenStore(cfg.CachePath)
		if err != nil {
			loggerInstance.Error(ctx, "failed to open snapshot store", logger.String("path", cfg.CachePath), logger.Error(err))
			return
		}
		defer func() { _ = snapshots.Close() }()
		cacheOpts = append(cacheOpts, cache.WithStore(snapshots))
	}

	// Outbound clients for the reviewer registry and match catalog
	httpClient := &http.Client{Timeout: time.Duration(cfg.ClientTimeoutSeconds) * time.Second}
	registry := clients.NewRegistryClient(cfg.RegistryURL, clients.WithHTTPClient(httpClient))
	catalog := clients.NewCatalogClient(cfg.CatalogURL, clients.WithHTTPClient(httpClient))

	// Create and start the service with configuration options
	svc := app.New(
		app.WithLogger(loggerInstance),
		app.WithLedger(ledger),
		app.WithRegistry(registry),
		app.WithCatalog(catalog),
		app.WithViewCache(cache.New(cacheOpts...)),
		app.WithRatingPolicy(rating.NewPolicy(
			rating.WithOffset(cfg.AttributeOffset),
			rating.WithChartBounds(cfg.ChartMin, cfg.ChartMax),
			rating.WithSpread(cfg.Spread),
		)),
	)
	if err := svc.Start(ctx); err != nil {
		loggerInstance.Error(ctx, "failed to start service", logger.Error(err))
		return
	}
	defer svc.Stop()

	// Start system metrics updater
	go startSystemMetricsUpdater(ctx)

	// Start service metrics updater
	go startServiceMetricsUpdater(ctx, svc)

	// HTTP mux and routes.
	mux := http.NewServeMux()

	// Register business API routes with the service dependency.
	apiServer := api.NewServer(svc, svc)
	apiServer.Register(ctx, mux)

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           mux,
		ReadTimeout:       readTimeout,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       idleTimeout,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	// Start the HTTP server
	go func() {
		loggerInstance.Info(ctx, "starting HTTP server", logger.String("addr", cfg.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			os.Stderr.WriteString("HTTP server failed: " + err.Error() + "\n")
			return
		}
	}()

	// Wait for shutdown signal
	<-ctx.Done()
	loggerInstance.Info(ctx, "shutting down server...")

	// Graceful shutdown with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		loggerInstance.Error(ctx, "server shutdown failed", logger.Error(err))
	}

	loggerInstance.Info(ctx, "server stopped")
}

// startSystemMetricsUpdater starts a background goroutine that updates system metrics.
func startSystemMetricsUpdater(ctx context.Context) {
	ticker := time.NewTicker(systemMetricsInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			updateSystemMetrics()
		}
	}
}

// startServiceMetricsUpdater starts a background goroutine that refreshes
// the ledger and snapshot gauges.
func startServiceMetricsUpdater(ctx context.Context, svc *app.Service) {
	ticker := time.NewTicker(serviceMetricsInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			// GetStats updates the gauges as a side effect.
			_, _ = svc.GetStats(ctx)
		}
	}
}

// updateSystemMetrics updates system-level metrics.
func updateSystemMetrics() {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	metrics.UpdateSystemMemoryUsage(m.Alloc)
	metrics.UpdateSystemGoroutineCount(runtime.NumGoroutine())
}
