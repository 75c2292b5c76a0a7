package routes

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/novalux/backend/api/controllers"
	"github.com/novalux/backend/api/middleware"
	authsvc "github.com/novalux/backend/internal/auth"
	"github.com/novalux/backend/internal/cart"
	"github.com/novalux/backend/internal/catalog"
	checkoutsvc "github.com/novalux/backend/internal/checkout"
	"github.com/novalux/backend/internal/media"
	"github.com/novalux/backend/internal/orders"
	syncsvc "github.com/novalux/backend/internal/sync"
	"github.com/novalux/backend/pkg/auth/session"
	"github.com/novalux/backend/pkg/config"
	"github.com/novalux/backend/pkg/db"
	"github.com/novalux/backend/pkg/logger"
	"github.com/novalux/backend/pkg/redis"
)

// Deps bundles everything the router wires into handlers.
type Deps struct {
	Config *config.Config
	Logger *logger.Logger

	DB     db.Pinger
	Redis  *redis.Client
	GCS    Pinger
	PubSub Pinger

	SessionChecker session.AccessSessionChecker

	AuthService     authsvc.Service
	CatalogService  catalog.Service
	OrdersService   orders.Service
	CheckoutService checkoutsvc.Service
	MediaService    media.Service

	CartRegistry    *cart.Registry
	ProductsWatcher *syncsvc.Watcher[catalog.ProductDTO]
	OrdersWatcher   *syncsvc.Watcher[orders.OrderDTO]

	Metrics prometheus.Gatherer
}

// Pinger is the health-check surface shared by infra clients.
type Pinger interface {
	Ping(ctx context.Context) error
}

func NewRouter(deps Deps) http.Handler {
	cfg := deps.Config
	logg := deps.Logger

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(cfg.App),
	)

	loginPolicy := middleware.NewAuthRateLimitPolicy(
		"login",
		cfg.AuthRateLimit.LoginWindow,
		cfg.AuthRateLimit.LoginIPLimit,
		cfg.AuthRateLimit.LoginEmailLimit,
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, readinessChecks(deps)))
	})

	if deps.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(deps.Metrics, promhttp.HandlerOpts{}))
	}

	// Storefront surface: anonymous, cart-token scoped.
	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/products", controllers.StorefrontProducts(deps.ProductsWatcher))

		r.Group(func(r chi.Router) {
			r.Use(middleware.CartSession(logg))

			r.Route("/cart", func(r chi.Router) {
				r.Get("/", controllers.CartFetch(deps.CartRegistry, logg))
				r.Post("/items", controllers.CartAddItem(deps.CartRegistry, deps.CatalogService, logg))
				r.Patch("/items/{productId}", controllers.CartUpdateQuantity(deps.CartRegistry, logg))
				r.Delete("/items/{productId}", controllers.CartRemoveItem(deps.CartRegistry, logg))
				r.Post("/clear", controllers.CartClear(deps.CartRegistry, logg))
				r.Post("/open", controllers.CartSetOpen(deps.CartRegistry, logg))
			})
			r.Post("/checkout", controllers.Checkout(deps.CheckoutService, deps.CartRegistry, logg))
		})
	})

	// Back office surface.
	r.Route("/api/admin/v1", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.With(middleware.AuthRateLimit(loginPolicy, deps.Redis, logg)).
				Post("/login", controllers.AdminAuthLogin(deps.AuthService, logg))
			r.Post("/refresh", controllers.AdminAuthRefresh(deps.AuthService, logg))

			r.Group(func(r chi.Router) {
				r.Use(middleware.Auth(cfg.JWT, deps.SessionChecker, logg))
				r.Post("/logout", controllers.AdminAuthLogout(deps.AuthService, logg))
			})
		})

		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(cfg.JWT, deps.SessionChecker, logg))
			r.Use(middleware.RequireRole("admin", logg))

			r.Route("/products", func(r chi.Router) {
				r.Get("/", controllers.AdminListProducts(deps.ProductsWatcher))
				r.Post("/", controllers.AdminCreateProduct(deps.CatalogService, logg))
				r.Patch("/{productId}", controllers.AdminUpdateProduct(deps.CatalogService, logg))
				r.Delete("/{productId}", controllers.AdminDeleteProduct(deps.CatalogService, deps.MediaService, logg))
			})

			r.Route("/orders", func(r chi.Router) {
				r.Get("/", controllers.AdminListOrders(deps.OrdersWatcher))
				r.Get("/{orderId}", controllers.AdminGetOrder(deps.OrdersService, logg))
				r.Patch("/{orderId}/status", controllers.AdminUpdateOrderStatus(deps.OrdersService, logg))
				r.Delete("/{orderId}", controllers.AdminDeleteOrder(deps.OrdersService, logg))
			})

			r.Post("/media/images", controllers.AdminUploadImages(deps.MediaService, logg))
		})
	})

	return r
}

func readinessChecks(deps Deps) map[string]controllers.Pinger {
	return map[string]controllers.Pinger{
		"db":     deps.DB,
		"redis":  deps.Redis,
		"gcs":    deps.GCS,
		"pubsub": deps.PubSub,
	}
}
