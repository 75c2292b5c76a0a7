package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/novalux/backend/internal/changefeed"
	"github.com/novalux/backend/pkg/config"
	"github.com/novalux/backend/pkg/db"
	"github.com/novalux/backend/pkg/logger"
	"github.com/novalux/backend/pkg/metrics"
	"github.com/novalux/backend/pkg/pubsub"
)

const serviceName = "changefeed-worker"

func main() {
	logg := logger.New(logger.Options{ServiceName: serviceName})
	ctx := context.Background()

	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		logg.Warn(logg.WithField(ctx, "error", err.Error()), "could not load .env file")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(ctx, "failed to load configuration", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: serviceName,
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	if err := run(ctx, cfg, logg); err != nil && !errors.Is(err, context.Canceled) {
		logg.Error(ctx, "worker exited with error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, logg *logger.Logger) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	dbClient, err := db.New(ctx, cfg.DB, logg)
	if err != nil {
		return fmt.Errorf("connecting to database: %w", err)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(ctx, "closing database client", err)
		}
	}()

	pubsubClient, err := pubsub.NewClient(ctx, cfg.GCP, cfg.PubSub, logg)
	if err != nil {
		return fmt.Errorf("creating pubsub client: %w", err)
	}
	defer func() {
		if err := pubsubClient.Close(); err != nil {
			logg.Error(ctx, "closing pubsub client", err)
		}
	}()

	syncMetrics := metrics.NewSyncMetrics(prometheus.DefaultRegisterer)

	service, err := NewService(ServiceParams{
		Config:     cfg,
		Logger:     logg,
		DB:         dbClient,
		Repository: changefeed.NewRepository(dbClient.DB()),
		Publishers: map[string]publisher{
			changefeed.TableProducts: gcpPublisher{inner: pubsubClient.ProductsPublisher()},
			changefeed.TableOrders:   gcpPublisher{inner: pubsubClient.OrdersPublisher()},
		},
		Metrics: syncMetrics,
	})
	if err != nil {
		return fmt.Errorf("creating changefeed publisher: %w", err)
	}

	logg.Info(ctx, "changefeed worker started")
	return service.Run(ctx)
}
