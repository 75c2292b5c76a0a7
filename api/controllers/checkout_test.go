package controllers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/novalux/backend/internal/cart"
	checkoutsvc "github.com/novalux/backend/internal/checkout"
	"github.com/novalux/backend/internal/orders"
	pkgerrors "github.com/novalux/backend/pkg/errors"
	"github.com/shopspring/decimal"
)

type stubCheckoutService struct {
	order    *orders.OrderDTO
	err      error
	onSubmit func()

	gotInput checkoutsvc.SubmitInput
}

func (s *stubCheckoutService) Submit(_ context.Context, input checkoutsvc.SubmitInput) (*orders.OrderDTO, error) {
	s.gotInput = input
	if s.onSubmit != nil {
		s.onSubmit()
	}
	return s.order, s.err
}

func seededCart(t *testing.T, registry *cart.Registry) *cart.Cart {
	t.Helper()
	c := registry.Get("test-cart-token")
	c.AddItem(cart.ItemSnapshot{
		ProductID: uuid.New(),
		Name:      "Ceramic Vase",
		Price:     decimal.RequireFromString("45.00"),
	})
	c.SetIsOpen(true)
	return c
}

func TestCheckoutClearsCartOnSuccess(t *testing.T) {
	registry := cart.NewRegistry()
	c := seededCart(t, registry)

	svc := &stubCheckoutService{order: &orders.OrderDTO{ID: uuid.New()}}
	handler := Checkout(svc, registry, nil)

	body := `{"customer_name":"Ana Petrova","phone":"+359888123456","address":"12 Vitosha Blvd","delivery_type":"home"}`
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, cartRequest(http.MethodPost, "/api/v1/checkout", body))

	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201 got %d", resp.Code)
	}
	if len(svc.gotInput.Lines) != 1 {
		t.Fatalf("expected 1 line submitted got %d", len(svc.gotInput.Lines))
	}
	if c.ItemCount() != 0 {
		t.Fatal("expected cart cleared after checkout")
	}
	if c.IsOpen() {
		t.Fatal("expected panel closed after checkout")
	}
}

func TestCheckoutKeepsItemsAddedDuringSubmit(t *testing.T) {
	registry := cart.NewRegistry()
	c := seededCart(t, registry)

	lateItem := cart.ItemSnapshot{
		ProductID: uuid.New(),
		Name:      "Walnut Shelf",
		Price:     decimal.RequireFromString("89.00"),
	}
	svc := &stubCheckoutService{
		order:    &orders.OrderDTO{ID: uuid.New()},
		onSubmit: func() { c.AddItem(lateItem) },
	}
	handler := Checkout(svc, registry, nil)

	body := `{"customer_name":"Ana Petrova","phone":"+359888123456","address":"12 Vitosha Blvd","delivery_type":"home"}`
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, cartRequest(http.MethodPost, "/api/v1/checkout", body))

	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201 got %d", resp.Code)
	}
	if len(svc.gotInput.Lines) != 1 {
		t.Fatalf("expected only the frozen line submitted, got %d", len(svc.gotInput.Lines))
	}
	lines := c.Lines()
	if len(lines) != 1 || lines[0].ProductID != lateItem.ProductID {
		t.Fatalf("expected the item added during submit to survive, got %+v", lines)
	}
}

func TestCheckoutKeepsCartOnFailure(t *testing.T) {
	registry := cart.NewRegistry()
	c := seededCart(t, registry)

	svc := &stubCheckoutService{err: pkgerrors.New(pkgerrors.CodeDependency, "insert failed")}
	handler := Checkout(svc, registry, nil)

	body := `{"customer_name":"Ana Petrova","phone":"+359888123456","address":"12 Vitosha Blvd","delivery_type":"home"}`
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, cartRequest(http.MethodPost, "/api/v1/checkout", body))

	if resp.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503 got %d", resp.Code)
	}
	if c.ItemCount() != 1 {
		t.Fatal("expected cart untouched on failure")
	}
	if !c.IsOpen() {
		t.Fatal("expected panel still open on failure")
	}
}

func TestCheckoutRejectsBadDeliveryType(t *testing.T) {
	registry := cart.NewRegistry()
	seededCart(t, registry)

	svc := &stubCheckoutService{}
	handler := Checkout(svc, registry, nil)

	body := `{"customer_name":"Ana Petrova","phone":"+359888123456","address":"12 Vitosha Blvd","delivery_type":"drone"}`
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, cartRequest(http.MethodPost, "/api/v1/checkout", body))

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
	if len(svc.gotInput.Lines) != 0 {
		t.Fatal("expected no submit call")
	}
}
