package orders

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/novalux/backend/internal/changefeed"
	"github.com/novalux/backend/pkg/enums"
	pkgerrors "github.com/novalux/backend/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type stubTxRunner struct {
	db *gorm.DB
}

func (s *stubTxRunner) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return fn(s.db)
}

type recordedChange struct {
	table    string
	op       enums.ChangeOp
	recordID *uuid.UUID
}

type stubRecorder struct {
	changes []recordedChange
}

func (s *stubRecorder) RecordTx(tx *gorm.DB, table string, op enums.ChangeOp, recordID *uuid.UUID) error {
	s.changes = append(s.changes, recordedChange{table: table, op: op, recordID: recordID})
	return nil
}

func newTestService(t *testing.T) (Service, *Repository, *stubRecorder, *gorm.DB) {
	t.Helper()
	db := setupOrdersTestDB(t)
	repo := NewRepository(db)
	recorder := &stubRecorder{}
	svc, err := NewService(repo, &stubTxRunner{db: db}, recorder)
	require.NoError(t, err)
	return svc, repo, recorder, db
}

func TestUpdateOrderStatusRecordsChange(t *testing.T) {
	svc, repo, recorder, _ := newTestService(t)
	ctx := context.Background()

	order := newTestOrder(t)
	_, err := repo.Create(ctx, order)
	require.NoError(t, err)

	dto, err := svc.UpdateOrderStatus(ctx, order.ID, enums.OrderStatusConfirmed)
	require.NoError(t, err)
	assert.Equal(t, enums.OrderStatusConfirmed, dto.Status)

	require.Len(t, recorder.changes, 1)
	assert.Equal(t, changefeed.TableOrders, recorder.changes[0].table)
	assert.Equal(t, enums.ChangeOpUpdate, recorder.changes[0].op)
	require.NotNil(t, recorder.changes[0].recordID)
	assert.Equal(t, order.ID, *recorder.changes[0].recordID)
}

func TestUpdateOrderStatusRejectsUnknownStatus(t *testing.T) {
	svc, _, recorder, _ := newTestService(t)

	_, err := svc.UpdateOrderStatus(context.Background(), uuid.New(), enums.OrderStatus("shipped"))
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeValidation, typed.Code())
	assert.Empty(t, recorder.changes)
}

func TestUpdateOrderStatusMissingOrder(t *testing.T) {
	svc, _, recorder, _ := newTestService(t)

	_, err := svc.UpdateOrderStatus(context.Background(), uuid.New(), enums.OrderStatusCancelled)
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeNotFound, typed.Code())
	assert.Empty(t, recorder.changes)
}

func TestDeleteOrderRecordsChange(t *testing.T) {
	svc, repo, recorder, _ := newTestService(t)
	ctx := context.Background()

	order := newTestOrder(t)
	_, err := repo.Create(ctx, order)
	require.NoError(t, err)

	require.NoError(t, svc.DeleteOrder(ctx, order.ID))
	require.Len(t, recorder.changes, 1)
	assert.Equal(t, enums.ChangeOpDelete, recorder.changes[0].op)

	err = svc.DeleteOrder(ctx, order.ID)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeNotFound, typed.Code())
}

func TestListOrdersMapsItems(t *testing.T) {
	svc, repo, _, _ := newTestService(t)
	ctx := context.Background()

	order := newTestOrder(t)
	_, err := repo.Create(ctx, order)
	require.NoError(t, err)

	list, err := svc.ListOrders(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	require.Len(t, list[0].Items, 1)
	assert.Equal(t, "Oak Chair", list[0].Items[0].Name)
	assert.Equal(t, 2, list[0].Items[0].Quantity)
}
