package orders

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/novalux/backend/pkg/db/models"
	"github.com/novalux/backend/pkg/db/types"
	"github.com/novalux/backend/pkg/enums"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupOrdersTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)

	ordersTable := `
CREATE TABLE IF NOT EXISTS orders (
  id TEXT PRIMARY KEY,
  customer_name TEXT NOT NULL,
  phone TEXT NOT NULL,
  address TEXT NOT NULL,
  delivery_type TEXT NOT NULL,
  items TEXT NOT NULL,
  total_price TEXT NOT NULL,
  status TEXT NOT NULL DEFAULT 'pending',
  created_at DATETIME,
  updated_at DATETIME
);`
	require.NoError(t, db.Exec(ordersTable).Error)

	return db
}

func newTestOrder(t *testing.T) *models.Order {
	t.Helper()
	return &models.Order{
		ID:           uuid.New(),
		CustomerName: "Dana Petrov",
		Phone:        "+359888123456",
		Address:      "12 Vitosha Blvd, Sofia",
		DeliveryType: enums.DeliveryTypeHome,
		Items: types.OrderItems{
			{
				ProductID: uuid.New(),
				Name:      "Oak Chair",
				Price:     decimal.NewFromInt(80),
				Quantity:  2,
			},
		},
		TotalPrice: decimal.NewFromInt(160),
		Status:     enums.OrderStatusPending,
	}
}

func TestRepositoryOrderFlow(t *testing.T) {
	db := setupOrdersTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	order := newTestOrder(t)
	created, err := repo.Create(ctx, order)
	require.NoError(t, err)
	require.Equal(t, order.ID, created.ID)

	fetched, err := repo.FindByID(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, "Dana Petrov", fetched.CustomerName)
	require.Len(t, fetched.Items, 1)
	assert.Equal(t, "Oak Chair", fetched.Items[0].Name)
	assert.True(t, fetched.TotalPrice.Equal(decimal.NewFromInt(160)))

	updated, err := repo.UpdateStatus(ctx, order.ID, enums.OrderStatusConfirmed.String())
	require.NoError(t, err)
	assert.True(t, updated)

	fetched, err = repo.FindByID(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, enums.OrderStatusConfirmed, fetched.Status)

	list, err := repo.ListAll(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 1)

	deleted, err := repo.Delete(ctx, order.ID)
	require.NoError(t, err)
	assert.True(t, deleted)

	deleted, err = repo.Delete(ctx, order.ID)
	require.NoError(t, err)
	assert.False(t, deleted)
}

func TestRepositoryUpdateStatusMissingOrder(t *testing.T) {
	db := setupOrdersTestDB(t)
	repo := NewRepository(db)

	updated, err := repo.UpdateStatus(context.Background(), uuid.New(), enums.OrderStatusCancelled.String())
	require.NoError(t, err)
	assert.False(t, updated)
}
