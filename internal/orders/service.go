package orders

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/novalux/backend/internal/changefeed"
	"github.com/novalux/backend/pkg/enums"
	pkgerrors "github.com/novalux/backend/pkg/errors"
	"gorm.io/gorm"
)

// Service exposes back-office order management.
type Service interface {
	ListOrders(ctx context.Context) ([]OrderDTO, error)
	GetOrder(ctx context.Context, orderID uuid.UUID) (*OrderDTO, error)
	UpdateOrderStatus(ctx context.Context, orderID uuid.UUID, status enums.OrderStatus) (*OrderDTO, error)
	DeleteOrder(ctx context.Context, orderID uuid.UUID) error
}

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type changeRecorder interface {
	RecordTx(tx *gorm.DB, table string, op enums.ChangeOp, recordID *uuid.UUID) error
}

type service struct {
	repo     *Repository
	dbClient txRunner
	recorder changeRecorder
}

// NewService constructs an orders service instance.
func NewService(repo *Repository, dbClient txRunner, recorder changeRecorder) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("orders repository required")
	}
	if dbClient == nil {
		return nil, fmt.Errorf("db client required")
	}
	if recorder == nil {
		return nil, fmt.Errorf("change recorder required")
	}
	return &service{repo: repo, dbClient: dbClient, recorder: recorder}, nil
}

// ListOrders returns every order, newest first.
func (s *service) ListOrders(ctx context.Context) ([]OrderDTO, error) {
	orders, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, pkgerrors.StoreFailure(err, "listing orders")
	}
	return NewOrderDTOs(orders), nil
}

// GetOrder loads a single order.
func (s *service) GetOrder(ctx context.Context, orderID uuid.UUID) (*OrderDTO, error) {
	order, err := s.repo.FindByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, pkgerrors.StoreFailure(err, "loading order")
	}
	return NewOrderDTO(order), nil
}

// UpdateOrderStatus changes only the status column and records a change event.
func (s *service) UpdateOrderStatus(ctx context.Context, orderID uuid.UUID, status enums.OrderStatus) (*OrderDTO, error) {
	if !status.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("invalid order status %q", status))
	}

	err := s.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)
		updated, err := txRepo.UpdateStatus(ctx, orderID, status.String())
		if err != nil {
			return err
		}
		if !updated {
			return gorm.ErrRecordNotFound
		}
		return s.recorder.RecordTx(tx, changefeed.TableOrders, enums.ChangeOpUpdate, &orderID)
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, pkgerrors.StoreFailure(err, "updating order status")
	}

	return s.GetOrder(ctx, orderID)
}

// DeleteOrder removes the order and records a change event.
func (s *service) DeleteOrder(ctx context.Context, orderID uuid.UUID) error {
	err := s.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)
		deleted, err := txRepo.Delete(ctx, orderID)
		if err != nil {
			return err
		}
		if !deleted {
			return gorm.ErrRecordNotFound
		}
		return s.recorder.RecordTx(tx, changefeed.TableOrders, enums.ChangeOpDelete, &orderID)
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return pkgerrors.StoreFailure(err, "deleting order")
	}
	return nil
}
