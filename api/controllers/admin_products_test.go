package controllers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/novalux/backend/internal/catalog"
	"github.com/shopspring/decimal"
)

type recordingCatalogService struct {
	stubCatalogService

	deletedID   uuid.UUID
	updateInput catalog.UpdateProductInput
	updated     *catalog.ProductDTO
}

func (s *recordingCatalogService) DeleteProduct(_ context.Context, id uuid.UUID) error {
	s.deletedID = id
	return nil
}

func (s *recordingCatalogService) UpdateProduct(_ context.Context, _ uuid.UUID, input catalog.UpdateProductInput) (*catalog.ProductDTO, error) {
	s.updateInput = input
	return s.updated, nil
}

type recordingImageCleaner struct {
	gotURLs []string
}

func (c *recordingImageCleaner) DeleteImages(_ context.Context, urls []string) error {
	c.gotURLs = urls
	return nil
}

func adminProductRequest(method, body, productID string) *http.Request {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, "/api/admin/v1/products/"+productID, nil)
	} else {
		req = httptest.NewRequest(method, "/api/admin/v1/products/"+productID, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	return withURLParam(req, "productId", productID)
}

func TestAdminDeleteProductCleansUpImages(t *testing.T) {
	productID := uuid.New()
	svc := &recordingCatalogService{
		stubCatalogService: stubCatalogService{
			product: &catalog.ProductDTO{
				ID: productID,
				ImageURLs: []string{
					"https://storage.googleapis.com/novalux-media/products/a.png",
					"https://storage.googleapis.com/novalux-media/products/b.png",
				},
			},
		},
	}
	cleaner := &recordingImageCleaner{}
	handler := AdminDeleteProduct(svc, cleaner, nil)

	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, adminProductRequest(http.MethodDelete, "", productID.String()))

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", resp.Code, resp.Body.String())
	}
	if svc.deletedID != productID {
		t.Fatalf("expected product %s deleted, got %s", productID, svc.deletedID)
	}
	if len(cleaner.gotURLs) != 2 || cleaner.gotURLs[0] != svc.product.ImageURLs[0] {
		t.Fatalf("expected the product's image urls passed to cleanup, got %v", cleaner.gotURLs)
	}
}

func TestAdminUpdateProductNullClearsFields(t *testing.T) {
	productID := uuid.New()
	svc := &recordingCatalogService{updated: &catalog.ProductDTO{ID: productID}}
	handler := AdminUpdateProduct(svc, nil)

	body := `{"description":null,"old_price":null,"name":"Oak Chair"}`
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, adminProductRequest(http.MethodPatch, body, productID.String()))

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", resp.Code, resp.Body.String())
	}

	input := svc.updateInput
	if !input.Description.Set || input.Description.Value != nil {
		t.Fatalf("explicit null description must clear, got %+v", input.Description)
	}
	if !input.OldPrice.Set || input.OldPrice.Value != nil {
		t.Fatalf("explicit null old_price must clear, got %+v", input.OldPrice)
	}
	if input.Category.Set {
		t.Fatal("absent category must stay unset")
	}
	if input.Name == nil || *input.Name != "Oak Chair" {
		t.Fatalf("expected name update, got %v", input.Name)
	}
}

func TestAdminUpdateProductKeepsAbsentFieldsUnset(t *testing.T) {
	productID := uuid.New()
	price := decimal.NewFromInt(50)
	svc := &recordingCatalogService{updated: &catalog.ProductDTO{ID: productID, NewPrice: price}}
	handler := AdminUpdateProduct(svc, nil)

	body := `{"new_price":"50"}`
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, adminProductRequest(http.MethodPatch, body, productID.String()))

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", resp.Code, resp.Body.String())
	}

	input := svc.updateInput
	if input.Description.Set || input.OldPrice.Set || input.Category.Set {
		t.Fatal("fields left out of the payload must stay unset")
	}
	if input.NewPrice == nil || !input.NewPrice.Equal(price) {
		t.Fatalf("expected new_price update, got %v", input.NewPrice)
	}
}
