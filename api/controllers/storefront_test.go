package controllers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/novalux/backend/internal/catalog"
	syncsvc "github.com/novalux/backend/internal/sync"
	"github.com/shopspring/decimal"
)

type stubSnapshotSource struct {
	snap syncsvc.Snapshot[catalog.ProductDTO]
}

func (s stubSnapshotSource) Snapshot() syncsvc.Snapshot[catalog.ProductDTO] {
	return s.snap
}

func TestStorefrontProductsServesSnapshot(t *testing.T) {
	refreshed := time.Now().UTC().Truncate(time.Second)
	handler := StorefrontProducts(stubSnapshotSource{snap: syncsvc.Snapshot[catalog.ProductDTO]{
		Rows: []catalog.ProductDTO{
			{ID: uuid.New(), Name: "Walnut Side Table", NewPrice: decimal.RequireFromString("89.00")},
			{ID: uuid.New(), Name: "Linen Throw", NewPrice: decimal.RequireFromString("35.50")},
		},
		LastRefresh: refreshed,
	}})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/products", nil)
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}

	var envelope struct {
		Data storefrontProductsResponse `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(envelope.Data.Products) != 2 {
		t.Fatalf("expected 2 products got %d", len(envelope.Data.Products))
	}
	if envelope.Data.Products[0].Name != "Walnut Side Table" {
		t.Fatalf("unexpected first product %q", envelope.Data.Products[0].Name)
	}
	if envelope.Data.LastRefresh == nil {
		t.Fatal("expected last_refresh in payload")
	}
}

func TestStorefrontProductsLoadingState(t *testing.T) {
	handler := StorefrontProducts(stubSnapshotSource{snap: syncsvc.Snapshot[catalog.ProductDTO]{
		Loading: true,
	}})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/products", nil)
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}

	var envelope struct {
		Data storefrontProductsResponse `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if !envelope.Data.Loading {
		t.Fatal("expected loading=true")
	}
	if envelope.Data.Products == nil {
		t.Fatal("expected empty slice, not null")
	}
	if envelope.Data.LastRefresh != nil {
		t.Fatal("expected no last_refresh before first fetch")
	}
}
