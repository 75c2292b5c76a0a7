package routes

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"

	authsvc "github.com/novalux/backend/internal/auth"
	"github.com/novalux/backend/internal/cart"
	"github.com/novalux/backend/internal/catalog"
	"github.com/novalux/backend/internal/changefeed"
	checkoutsvc "github.com/novalux/backend/internal/checkout"
	"github.com/novalux/backend/internal/media"
	"github.com/novalux/backend/internal/orders"
	syncsvc "github.com/novalux/backend/internal/sync"
	pkgAuth "github.com/novalux/backend/pkg/auth"
	"github.com/novalux/backend/pkg/auth/session"
	"github.com/novalux/backend/pkg/config"
	"github.com/novalux/backend/pkg/enums"
	"github.com/novalux/backend/pkg/logger"
	"github.com/novalux/backend/pkg/redis"
	"github.com/rs/zerolog"
)

type stubPinger struct{}

func (stubPinger) Ping(context.Context) error {
	return nil
}

type stubSessionChecker struct{}

func (stubSessionChecker) HasSession(context.Context, string) (bool, error) {
	return true, nil
}

type stubAuthService struct{}

func (stubAuthService) Login(context.Context, authsvc.LoginRequest) (*authsvc.LoginResponse, error) {
	return nil, fmt.Errorf("not implemented")
}

func (stubAuthService) Refresh(context.Context, authsvc.RefreshRequest) (*authsvc.RefreshResponse, error) {
	return nil, fmt.Errorf("not implemented")
}

func (stubAuthService) Logout(context.Context, string) error {
	return nil
}

type stubCatalogService struct{}

func (stubCatalogService) CreateProduct(context.Context, catalog.CreateProductInput) (*catalog.ProductDTO, error) {
	panic("unimplemented")
}

func (stubCatalogService) UpdateProduct(context.Context, uuid.UUID, catalog.UpdateProductInput) (*catalog.ProductDTO, error) {
	panic("unimplemented")
}

func (stubCatalogService) DeleteProduct(context.Context, uuid.UUID) error {
	panic("unimplemented")
}

func (stubCatalogService) GetProduct(context.Context, uuid.UUID) (*catalog.ProductDTO, error) {
	panic("unimplemented")
}

func (stubCatalogService) ListProducts(context.Context) ([]catalog.ProductDTO, error) {
	return []catalog.ProductDTO{}, nil
}

type stubOrdersService struct{}

func (stubOrdersService) ListOrders(context.Context) ([]orders.OrderDTO, error) {
	return []orders.OrderDTO{}, nil
}

func (stubOrdersService) GetOrder(context.Context, uuid.UUID) (*orders.OrderDTO, error) {
	panic("unimplemented")
}

func (stubOrdersService) UpdateOrderStatus(context.Context, uuid.UUID, enums.OrderStatus) (*orders.OrderDTO, error) {
	panic("unimplemented")
}

func (stubOrdersService) DeleteOrder(context.Context, uuid.UUID) error {
	panic("unimplemented")
}

type stubCheckoutService struct{}

func (stubCheckoutService) Submit(context.Context, checkoutsvc.SubmitInput) (*orders.OrderDTO, error) {
	panic("unimplemented")
}

type stubMediaService struct{}

func (stubMediaService) UploadImages(context.Context, []media.Upload) (*media.Result, error) {
	panic("unimplemented")
}

func (stubMediaService) DeleteImages(context.Context, []string) error {
	panic("unimplemented")
}

func testConfig() *config.Config {
	return &config.Config{
		App: config.AppConfig{
			Env:         "test",
			Port:        "0",
			CORSOrigins: []string{"http://localhost:5173"},
		},
		JWT: config.JWTConfig{
			Secret:            "test-secret",
			Issuer:            "novalux-test",
			ExpirationMinutes: 15,
		},
		AuthRateLimit: config.AuthRateLimitConfig{
			LoginWindow:     time.Minute,
			LoginEmailLimit: 5,
			LoginIPLimit:    20,
		},
	}
}

func testRouterLogger() *logger.Logger {
	return logger.New(logger.Options{ServiceName: "routes-test", Level: zerolog.ErrorLevel, Output: io.Discard})
}

func newTestRouter(t *testing.T, cfg *config.Config) http.Handler {
	t.Helper()
	logg := testRouterLogger()

	productsWatcher, err := syncsvc.NewWatcher(changefeed.TableProducts, stubCatalogService{}.ListProducts, logg, nil)
	if err != nil {
		t.Fatalf("products watcher: %v", err)
	}
	ordersWatcher, err := syncsvc.NewWatcher(changefeed.TableOrders, stubOrdersService{}.ListOrders, logg, nil)
	if err != nil {
		t.Fatalf("orders watcher: %v", err)
	}

	return NewRouter(Deps{
		Config: cfg,
		Logger: logg,

		DB:     stubPinger{},
		Redis:  (*redis.Client)(nil),
		GCS:    stubPinger{},
		PubSub: stubPinger{},

		SessionChecker: stubSessionChecker{},

		AuthService:     stubAuthService{},
		CatalogService:  stubCatalogService{},
		OrdersService:   stubOrdersService{},
		CheckoutService: stubCheckoutService{},
		MediaService:    stubMediaService{},

		CartRegistry:    cart.NewRegistry(),
		ProductsWatcher: productsWatcher,
		OrdersWatcher:   ordersWatcher,
	})
}

func buildToken(t *testing.T, cfg *config.Config) string {
	t.Helper()
	token, err := pkgAuth.MintAccessToken(cfg.JWT, time.Now(), pkgAuth.AccessTokenPayload{
		UserID: uuid.New(),
		Role:   enums.UserRoleAdmin,
		JTI:    session.NewAccessID(),
	})
	if err != nil {
		t.Fatalf("mint token: %v", err)
	}
	return token
}

func TestHealthLive(t *testing.T) {
	router := newTestRouter(t, testConfig())
	req := httptest.NewRequest(http.MethodGet, "/health/live", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
}

func TestStorefrontProductsIsPublic(t *testing.T) {
	router := newTestRouter(t, testConfig())
	req := httptest.NewRequest(http.MethodGet, "/api/v1/products", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
}

func TestCartRoutesMintToken(t *testing.T) {
	router := newTestRouter(t, testConfig())
	req := httptest.NewRequest(http.MethodGet, "/api/v1/cart/", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	if resp.Header().Get("X-Cart-Token") == "" {
		t.Fatal("expected cart token header")
	}
}

func TestAdminGroupRejectsMissingJWT(t *testing.T) {
	router := newTestRouter(t, testConfig())
	req := httptest.NewRequest(http.MethodGet, "/api/admin/v1/products/", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token got %d", resp.Code)
	}
}

func TestAdminGroupAcceptsAdminToken(t *testing.T) {
	cfg := testConfig()
	router := newTestRouter(t, cfg)

	req := httptest.NewRequest(http.MethodGet, "/api/admin/v1/products/", nil)
	req.Header.Set("Authorization", "Bearer "+buildToken(t, cfg))
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 for admin got %d", resp.Code)
	}
}
