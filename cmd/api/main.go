package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/matthurstrsa-droid/fastelavn/api/routes"
	"github.com/matthurstrsa-droid/fastelavn/internal/bakeries"
	"github.com/matthurstrsa-droid/fastelavn/internal/rowstore"
	"github.com/matthurstrsa-droid/fastelavn/internal/submissions"
	"github.com/matthurstrsa-droid/fastelavn/pkg/config"
	"github.com/matthurstrsa-droid/fastelavn/pkg/db"
	"github.com/matthurstrsa-droid/fastelavn/pkg/geocode"
	"github.com/matthurstrsa-droid/fastelavn/pkg/imagehost"
	"github.com/matthurstrsa-droid/fastelavn/pkg/logger"
	"github.com/matthurstrsa-droid/fastelavn/pkg/metrics"
	"github.com/matthurstrsa-droid/fastelavn/pkg/migrate"
	"github.com/matthurstrsa-droid/fastelavn/pkg/redis"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/multierr"
)

const shutdownGrace = 15 * time.Second

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, cfg.FeatureFlags.UseSQLite, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	redisClient, err := redis.New(context.Background(), cfg.Redis, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}

	registry := prometheus.NewRegistry()
	storeMetrics := metrics.NewStoreMetrics(registry)

	adapter, err := rowstore.NewAdapter(dbClient.DB(), cfg.Store, storeMetrics)
	if err != nil {
		logg.Error(context.Background(), "failed to create row store adapter", err)
		os.Exit(1)
	}

	geocoder, err := geocode.NewClient(cfg.Geocode)
	if err != nil {
		logg.Error(context.Background(), "failed to create geocode client", err)
		os.Exit(1)
	}

	var images submissions.ImageHost
	if cfg.ImageHost.APIKey != "" {
		imageClient, err := imagehost.NewClient(cfg.ImageHost)
		if err != nil {
			logg.Error(context.Background(), "failed to create image host client", err)
			os.Exit(1)
		}
		images = imageClient
	} else {
		logg.Warn(context.Background(), "image host api key not set, photo uploads disabled")
	}

	bakeriesService, err := bakeries.NewService(bakeries.ServiceParams{
		Rows:    adapter,
		Metrics: storeMetrics,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create bakeries service", err)
		os.Exit(1)
	}

	submissionsService, err := submissions.NewService(submissions.ServiceParams{
		Store:    adapter,
		Geocoder: geocoder,
		Images:   images,
		Logger:   logg,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create submissions service", err)
		os.Exit(1)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr:    addr,
		Handler: routes.NewRouter(cfg, logg, dbClient, redisClient, registry, bakeriesService, submissionsService),
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.ListenAndServe()
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		if err != nil && err != http.ErrServerClosed {
			logg.Error(ctx, "api server stopped unexpectedly", err)
			os.Exit(1)
		}
	case sig := <-stop:
		logg.Info(logg.WithField(ctx, "signal", sig.String()), "shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
		defer cancel()

		closeErr := server.Shutdown(shutdownCtx)
		closeErr = multierr.Append(closeErr, redisClient.Close())
		closeErr = multierr.Append(closeErr, dbClient.Close())
		if closeErr != nil {
			logg.Error(ctx, "shutdown finished with errors", closeErr)
			os.Exit(1)
		}
		logg.Info(ctx, "shutdown complete")
	}
}
