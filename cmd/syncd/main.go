// Command syncd runs the collection-point sync core headless: it keeps
// the local cache mirrored, drains the offline queue on reconnect, and
// serves Prometheus metrics.
package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/lmazzini/ecoponto/internal/config"
	"github.com/lmazzini/ecoponto/internal/connectivity"
	"github.com/lmazzini/ecoponto/internal/db"
	"github.com/lmazzini/ecoponto/internal/geo"
	"github.com/lmazzini/ecoponto/internal/logging"
	"github.com/lmazzini/ecoponto/internal/models"
	"github.com/lmazzini/ecoponto/internal/remote"
	syncsvc "github.com/lmazzini/ecoponto/internal/sync"
)

func main() {
	cfg := config.Load()
	logger := logging.Setup(os.Stderr, cfg.LogLevel, cfg.LogFormat)

	if cfg.RemoteURL == "" || cfg.RemoteKey == "" {
		logger.Error("REMOTE_URL and REMOTE_KEY are required")
		os.Exit(1)
	}

	database, err := db.Open(cfg.DataDir)
	if err != nil {
		logger.Error("failed to open local store", "error", err)
		os.Exit(1)
	}
	defer database.Close()

	migrator := db.NewMigrator(database.DB)
	if err := migrator.Initialize(); err != nil {
		logger.Error("failed to initialize migrations", "error", err)
		os.Exit(1)
	}
	if err := migrator.Up(); err != nil {
		logger.Error("failed to migrate local store", "error", err)
		os.Exit(1)
	}

	client := remote.NewClient(remote.Config{
		BaseURL: cfg.RemoteURL,
		APIKey:  cfg.RemoteKey,
		Timeout: cfg.RequestTimeout,
	})

	monitor := connectivity.NewMonitor(connectivity.WithProbe(
		connectivity.HTTPProbe(nil, cfg.RemoteURL, cfg.RequestTimeout),
	))

	service := syncsvc.NewService(
		client,
		db.NewCacheStore(database),
		db.NewQueueStore(database),
		monitor,
		logger,
		cfg.Resource,
	)
	service.BindMonitor()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go monitor.Run(ctx, cfg.ProbeInterval)

	sub := client.Subscribe(ctx, cfg.Resource, logger, service.HandleRemoteChange(ctx))
	defer sub.Close()

	// Warm the cache and report initial state.
	if points, err := service.LoadPoints(ctx); err != nil {
		logger.Warn("initial load failed", "error", err)
	} else {
		logger.Info("local cache ready", "points", len(points))
		reportNearest(logger, db.NewPrefStore(database), points)
	}
	if pruned, err := service.PruneCache(cfg.CacheHorizon); err == nil && pruned > 0 {
		logger.Info("pruned stale cache entries", "count", pruned)
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	server := &http.Server{Addr: cfg.MetricsAddr, Handler: mux}

	go func() {
		logger.Info("metrics listening", "addr", cfg.MetricsAddr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("metrics server failed", "error", err)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")
	server.Shutdown(context.Background())
}

// reportNearest logs the closest point matching the saved material
// filter, picking up where the user last left the map.
func reportNearest(logger *slog.Logger, prefs *db.PrefStore, points []models.CollectionPoint) {
	p, err := prefs.Get()
	if err != nil {
		logger.Warn("failed to read preferences", "error", err)
		return
	}
	if p.MaterialFilter != "" {
		points = geo.MatchPoints(points, p.MaterialFilter)
	}
	if p.LastLatitude == nil || p.LastLongitude == nil || len(points) == 0 {
		return
	}
	ranked := geo.RankByDistance(points, *p.LastLatitude, *p.LastLongitude)
	nearest := ranked[0]
	if !nearest.HasValidCoordinates() {
		return
	}
	logger.Info("nearest collection point",
		"name", nearest.Name,
		"distance_km", geo.Distance(*p.LastLatitude, *p.LastLongitude, *nearest.Latitude, *nearest.Longitude),
	)
}
