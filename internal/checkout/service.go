package checkout

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/novalux/backend/internal/cart"
	"github.com/novalux/backend/internal/changefeed"
	"github.com/novalux/backend/internal/orders"
	"github.com/novalux/backend/pkg/db/models"
	"github.com/novalux/backend/pkg/db/types"
	"github.com/novalux/backend/pkg/enums"
	pkgerrors "github.com/novalux/backend/pkg/errors"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Service turns a cart into a pending order.
type Service interface {
	Submit(ctx context.Context, input SubmitInput) (*orders.OrderDTO, error)
}

// SubmitInput carries the validated checkout form plus the cart lines frozen
// at submit time.
type SubmitInput struct {
	CustomerName string
	Phone        string
	Address      string
	DeliveryType enums.DeliveryType
	Lines        []cart.Line
}

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type changeRecorder interface {
	RecordTx(tx *gorm.DB, table string, op enums.ChangeOp, recordID *uuid.UUID) error
}

type service struct {
	repo     *orders.Repository
	dbClient txRunner
	recorder changeRecorder
}

// NewService constructs a checkout service instance.
func NewService(repo *orders.Repository, dbClient txRunner, recorder changeRecorder) (Service, error) {
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

// Submit validates the form, freezes the cart lines into an item snapshot,
// and inserts one pending order in a single transaction. Taking the submitted
// lines back out of the cart is the caller's job and happens only after this
// returns nil.
func (s *service) Submit(ctx context.Context, input SubmitInput) (*orders.OrderDTO, error) {
	order, err := buildOrder(input)
	if err != nil {
		return nil, err
	}

	err = s.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)
		created, err := txRepo.Create(ctx, order)
		if err != nil {
			return err
		}
		return s.recorder.RecordTx(tx, changefeed.TableOrders, enums.ChangeOpInsert, &created.ID)
	})
	if err != nil {
		return nil, pkgerrors.StoreFailure(err, "creating order")
	}

	return orders.NewOrderDTO(order), nil
}

func buildOrder(input SubmitInput) (*models.Order, error) {
	name := strings.TrimSpace(input.CustomerName)
	phone := strings.TrimSpace(input.Phone)
	address := strings.TrimSpace(input.Address)

	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "customer name is required")
	}
	if phone == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "phone is required")
	}
	if address == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "address is required")
	}
	if !input.DeliveryType.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("invalid delivery type %q", input.DeliveryType))
	}
	if len(input.Lines) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cart is empty")
	}

	items, total := freezeItems(input.Lines)
	return &models.Order{
		ID:           uuid.New(),
		CustomerName: name,
		Phone:        phone,
		Address:      address,
		DeliveryType: input.DeliveryType,
		Items:        items,
		TotalPrice:   total,
		Status:       enums.OrderStatusPending,
	}, nil
}

// freezeItems copies the cart lines into the denormalized order snapshot and
// computes the total with exact decimal arithmetic.
func freezeItems(lines []cart.Line) (types.OrderItems, decimal.Decimal) {
	items := make(types.OrderItems, 0, len(lines))
	total := decimal.Zero
	for _, line := range lines {
		items = append(items, types.OrderItem{
			ProductID: line.ProductID,
			Name:      line.Name,
			Price:     line.Price,
			Quantity:  line.Quantity,
		})
		total = total.Add(line.Price.Mul(decimal.NewFromInt(int64(line.Quantity))))
	}
	return items, total
}
