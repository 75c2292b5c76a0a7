package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/novalux/backend/api/routes"
	authsvc "github.com/novalux/backend/internal/auth"
	"github.com/novalux/backend/internal/cart"
	"github.com/novalux/backend/internal/catalog"
	"github.com/novalux/backend/internal/changefeed"
	checkoutsvc "github.com/novalux/backend/internal/checkout"
	"github.com/novalux/backend/internal/media"
	"github.com/novalux/backend/internal/orders"
	syncsvc "github.com/novalux/backend/internal/sync"
	"github.com/novalux/backend/internal/users"
	"github.com/novalux/backend/pkg/auth/session"
	"github.com/novalux/backend/pkg/config"
	"github.com/novalux/backend/pkg/db"
	"github.com/novalux/backend/pkg/logger"
	"github.com/novalux/backend/pkg/metrics"
	"github.com/novalux/backend/pkg/migrate"
	"github.com/novalux/backend/pkg/pubsub"
	"github.com/novalux/backend/pkg/redis"
	"github.com/novalux/backend/pkg/storage/gcs"
	"github.com/prometheus/client_golang/prometheus"
)

const (
	serviceName     = "api"
	shutdownTimeout = 15 * time.Second
)

func main() {
	// Bootstrap logger until config tells us the real level.
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

	if err := run(ctx, cfg, logg); err != nil {
		logg.Error(ctx, "api exited with error", err)
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

	if err := migrate.MaybeRunDev(ctx, cfg, logg, dbClient); err != nil {
		return fmt.Errorf("running dev migrations: %w", err)
	}

	redisClient, err := redis.New(ctx, cfg.Redis, logg)
	if err != nil {
		return fmt.Errorf("connecting to redis: %w", err)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(ctx, "closing redis client", err)
		}
	}()

	gcsClient, err := gcs.NewClient(ctx, cfg.GCS, cfg.GCP, logg)
	if err != nil {
		return fmt.Errorf("creating gcs client: %w", err)
	}
	defer func() {
		if err := gcsClient.Close(); err != nil {
			logg.Error(ctx, "closing gcs client", err)
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

	sessionManager, err := session.NewManager(redisClient, cfg.JWT)
	if err != nil {
		return fmt.Errorf("creating session manager: %w", err)
	}

	registry := prometheus.NewRegistry()
	syncMetrics := metrics.NewSyncMetrics(registry)

	recorder := changefeed.NewRecorder()
	catalogRepo := catalog.NewRepository(dbClient.DB())
	ordersRepo := orders.NewRepository(dbClient.DB())
	userRepo := users.NewRepository(dbClient.DB())

	authService, err := authsvc.NewService(authsvc.ServiceParams{
		UserRepo:       userRepo,
		SessionManager: sessionManager,
		JWTConfig:      cfg.JWT,
	})
	if err != nil {
		return fmt.Errorf("creating auth service: %w", err)
	}

	catalogService, err := catalog.NewService(catalogRepo, dbClient, recorder)
	if err != nil {
		return fmt.Errorf("creating catalog service: %w", err)
	}

	ordersService, err := orders.NewService(ordersRepo, dbClient, recorder)
	if err != nil {
		return fmt.Errorf("creating orders service: %w", err)
	}

	checkoutService, err := checkoutsvc.NewService(ordersRepo, dbClient, recorder)
	if err != nil {
		return fmt.Errorf("creating checkout service: %w", err)
	}

	mediaService, err := media.NewService(gcsClient, cfg.Media)
	if err != nil {
		return fmt.Errorf("creating media service: %w", err)
	}

	cartRegistry := cart.NewRegistry()
	go pruneCartsLoop(ctx, cfg.Cart, cartRegistry, logg)

	productsWatcher, err := syncsvc.NewWatcher(changefeed.TableProducts, catalogService.ListProducts, logg, syncMetrics)
	if err != nil {
		return fmt.Errorf("creating products watcher: %w", err)
	}
	if err := productsWatcher.Start(ctx); err != nil {
		return fmt.Errorf("starting products watcher: %w", err)
	}
	defer productsWatcher.Close()
	if err := productsWatcher.LastError(); err != nil {
		logg.Error(ctx, "initial product snapshot failed, serving loading state", err)
	}

	ordersWatcher, err := syncsvc.NewWatcher(changefeed.TableOrders, ordersService.ListOrders, logg, syncMetrics)
	if err != nil {
		return fmt.Errorf("creating orders watcher: %w", err)
	}
	if err := ordersWatcher.Start(ctx); err != nil {
		return fmt.Errorf("starting orders watcher: %w", err)
	}
	defer ordersWatcher.Close()
	if err := ordersWatcher.LastError(); err != nil {
		logg.Error(ctx, "initial order snapshot failed, serving loading state", err)
	}

	productsListener, err := syncsvc.NewListener(changefeed.TableProducts, pubsubClient.ProductsSubscription(), productsWatcher.Signal, logg)
	if err != nil {
		return fmt.Errorf("creating products listener: %w", err)
	}
	ordersListener, err := syncsvc.NewListener(changefeed.TableOrders, pubsubClient.OrdersSubscription(), ordersWatcher.Signal, logg)
	if err != nil {
		return fmt.Errorf("creating orders listener: %w", err)
	}

	go runListener(ctx, logg, changefeed.TableProducts, productsListener)
	go runListener(ctx, logg, changefeed.TableOrders, ordersListener)

	handler := routes.NewRouter(routes.Deps{
		Config: cfg,
		Logger: logg,

		DB:     dbClient,
		Redis:  redisClient,
		GCS:    gcsClient,
		PubSub: pubsubClient,

		SessionChecker: sessionManager,

		AuthService:     authService,
		CatalogService:  catalogService,
		OrdersService:   ordersService,
		CheckoutService: checkoutService,
		MediaService:    mediaService,

		CartRegistry:    cartRegistry,
		ProductsWatcher: productsWatcher,
		OrdersWatcher:   ordersWatcher,

		Metrics: registry,
	})

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}

	server := &http.Server{
		Addr:         ":" + port,
		Handler:      handler,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logg.Info(logg.WithField(ctx, "addr", server.Addr), "http server listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("http server: %w", err)
	case <-ctx.Done():
	}

	logg.Info(ctx, "shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutting down http server: %w", err)
	}
	return nil
}

func pruneCartsLoop(ctx context.Context, cfg config.CartConfig, registry *cart.Registry, logg *logger.Logger) {
	ticker := time.NewTicker(cfg.PruneInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if pruned := registry.PruneIdle(cfg.IdleTTL); pruned > 0 {
				logg.Info(logg.WithField(ctx, "pruned", pruned), "pruned idle carts")
			}
		}
	}
}

func runListener(ctx context.Context, logg *logger.Logger, table string, listener *syncsvc.Listener) {
	if err := listener.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logg.Error(logg.WithTable(ctx, table), "change listener stopped", err)
	}
}
