package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/novalux/backend/api/middleware"
	"github.com/novalux/backend/internal/cart"
	"github.com/novalux/backend/internal/catalog"
	pkgerrors "github.com/novalux/backend/pkg/errors"
	"github.com/shopspring/decimal"
)

type stubCatalogService struct {
	product *catalog.ProductDTO
	err     error
}

func (s stubCatalogService) CreateProduct(context.Context, catalog.CreateProductInput) (*catalog.ProductDTO, error) {
	return nil, nil
}

func (s stubCatalogService) UpdateProduct(context.Context, uuid.UUID, catalog.UpdateProductInput) (*catalog.ProductDTO, error) {
	return nil, nil
}

func (s stubCatalogService) DeleteProduct(context.Context, uuid.UUID) error {
	return nil
}

func (s stubCatalogService) GetProduct(context.Context, uuid.UUID) (*catalog.ProductDTO, error) {
	return s.product, s.err
}

func (s stubCatalogService) ListProducts(context.Context) ([]catalog.ProductDTO, error) {
	return nil, nil
}

func withURLParam(req *http.Request, key, value string) *http.Request {
	rc := chi.NewRouteContext()
	rc.URLParams.Add(key, value)
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rc))
}

func cartRequest(method, target, body string) *http.Request {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	return req.WithContext(middleware.WithCartToken(req.Context(), "test-cart-token"))
}

func decodeCartEnvelope(t *testing.T, resp *httptest.ResponseRecorder) cart.CartDTO {
	t.Helper()
	var envelope struct {
		Data cart.CartDTO `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return envelope.Data
}

func TestCartFetchEmpty(t *testing.T) {
	registry := cart.NewRegistry()
	handler := CartFetch(registry, nil)

	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, cartRequest(http.MethodGet, "/api/v1/cart", ""))

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	data := decodeCartEnvelope(t, resp)
	if data.ItemCount != 0 {
		t.Fatalf("expected empty cart got %d items", data.ItemCount)
	}
}

func TestCartAddItemSnapshotsProduct(t *testing.T) {
	registry := cart.NewRegistry()
	productID := uuid.New()
	svc := stubCatalogService{product: &catalog.ProductDTO{
		ID:       productID,
		Name:     "Brass Floor Lamp",
		NewPrice: decimal.RequireFromString("129.90"),
	}}
	handler := CartAddItem(registry, svc, nil)

	body := `{"product_id":"` + productID.String() + `"}`
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, cartRequest(http.MethodPost, "/api/v1/cart/items", body))

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	data := decodeCartEnvelope(t, resp)
	if data.ItemCount != 1 {
		t.Fatalf("expected 1 item got %d", data.ItemCount)
	}
	if data.Items[0].Name != "Brass Floor Lamp" {
		t.Fatalf("unexpected snapshot name %q", data.Items[0].Name)
	}
	if !data.Total.Equal(decimal.RequireFromString("129.90")) {
		t.Fatalf("unexpected total %s", data.Total)
	}
}

func TestCartAddItemRejectsSoldProduct(t *testing.T) {
	registry := cart.NewRegistry()
	productID := uuid.New()
	svc := stubCatalogService{product: &catalog.ProductDTO{
		ID:       productID,
		Name:     "Sold Lamp",
		NewPrice: decimal.RequireFromString("10"),
		IsSold:   true,
	}}
	handler := CartAddItem(registry, svc, nil)

	body := `{"product_id":"` + productID.String() + `"}`
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, cartRequest(http.MethodPost, "/api/v1/cart/items", body))

	if resp.Code != http.StatusConflict {
		t.Fatalf("expected 409 got %d", resp.Code)
	}
	if registry.Get("test-cart-token").ItemCount() != 0 {
		t.Fatal("expected cart untouched")
	}
}

func TestCartAddItemUnknownProduct(t *testing.T) {
	registry := cart.NewRegistry()
	svc := stubCatalogService{err: pkgerrors.New(pkgerrors.CodeNotFound, "product not found")}
	handler := CartAddItem(registry, svc, nil)

	body := `{"product_id":"` + uuid.NewString() + `"}`
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, cartRequest(http.MethodPost, "/api/v1/cart/items", body))

	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404 got %d", resp.Code)
	}
}

func TestCartUpdateQuantityZeroRemovesLine(t *testing.T) {
	registry := cart.NewRegistry()
	productID := uuid.New()
	registry.Get("test-cart-token").AddItem(cart.ItemSnapshot{
		ProductID: productID,
		Name:      "Lamp",
		Price:     decimal.RequireFromString("5"),
	})

	handler := CartUpdateQuantity(registry, nil)
	req := cartRequest(http.MethodPatch, "/api/v1/cart/items/"+productID.String(), `{"quantity":0}`)
	req = withURLParam(req, "productId", productID.String())

	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	if data := decodeCartEnvelope(t, resp); data.ItemCount != 0 {
		t.Fatalf("expected line removed got %d items", data.ItemCount)
	}
}

func TestCartRemoveItemInvalidID(t *testing.T) {
	registry := cart.NewRegistry()
	handler := CartRemoveItem(registry, nil)

	req := cartRequest(http.MethodDelete, "/api/v1/cart/items/not-a-uuid", "")
	req = withURLParam(req, "productId", "not-a-uuid")

	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}

func TestCartClearKeepsOpenFlag(t *testing.T) {
	registry := cart.NewRegistry()
	c := registry.Get("test-cart-token")
	c.AddItem(cart.ItemSnapshot{ProductID: uuid.New(), Name: "Lamp", Price: decimal.RequireFromString("5")})
	c.SetIsOpen(true)

	handler := CartClear(registry, nil)
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, cartRequest(http.MethodPost, "/api/v1/cart/clear", ""))

	data := decodeCartEnvelope(t, resp)
	if data.ItemCount != 0 {
		t.Fatalf("expected empty cart got %d items", data.ItemCount)
	}
	if !data.IsOpen {
		t.Fatal("expected panel flag preserved")
	}
}
