package catalog

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/novalux/backend/pkg/db/models"
	"github.com/shopspring/decimal"
)

func TestRepositoryProductFlow(t *testing.T) {
	conn := openTestDB(t)
	tx := conn.Begin()
	if tx.Error != nil {
		t.Fatalf("begin tx: %v", tx.Error)
	}
	t.Cleanup(func() {
		_ = tx.Rollback()
	})

	repo := NewRepository(tx)
	ctx := context.Background()

	url := "https://cdn.example.com/products/one.png"
	product := &models.Product{
		Name:      "Walnut Desk",
		NewPrice:  decimal.NewFromInt(250),
		ImageURL:  &url,
		ImageURLs: pq.StringArray{url},
	}

	created, err := repo.Create(ctx, product)
	if err != nil {
		t.Fatalf("create product: %v", err)
	}
	if created.ID == uuid.Nil {
		t.Fatal("expected product id to be generated")
	}

	created.Name = "Walnut Standing Desk"
	if _, err := repo.Update(ctx, created); err != nil {
		t.Fatalf("update product: %v", err)
	}

	fetched, err := repo.FindByID(ctx, created.ID)
	if err != nil {
		t.Fatalf("find product: %v", err)
	}
	if fetched.Name != "Walnut Standing Desk" {
		t.Fatalf("expected updated name, got %s", fetched.Name)
	}

	list, err := repo.ListAll(ctx)
	if err != nil {
		t.Fatalf("list products: %v", err)
	}
	if len(list) == 0 {
		t.Fatal("expected at least one product")
	}

	deleted, err := repo.Delete(ctx, created.ID)
	if err != nil {
		t.Fatalf("delete product: %v", err)
	}
	if !deleted {
		t.Fatal("expected delete to remove a row")
	}

	deleted, err = repo.Delete(ctx, created.ID)
	if err != nil {
		t.Fatalf("second delete: %v", err)
	}
	if deleted {
		t.Fatal("expected second delete to be a no-op")
	}
}
