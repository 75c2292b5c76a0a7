package controllers

import (
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/novalux/backend/api/responses"
	"github.com/novalux/backend/api/validators"
	"github.com/novalux/backend/internal/orders"
	syncsvc "github.com/novalux/backend/internal/sync"
	"github.com/novalux/backend/pkg/enums"
	pkgerrors "github.com/novalux/backend/pkg/errors"
	"github.com/novalux/backend/pkg/logger"
)

type updateOrderStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

func orderIDParam(r *http.Request) (uuid.UUID, error) {
	id, err := uuid.Parse(chi.URLParam(r, "orderId"))
	if err != nil {
		return uuid.Nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid order id")
	}
	return id, nil
}

type orderSnapshotSource interface {
	Snapshot() syncsvc.Snapshot[orders.OrderDTO]
}

type adminOrdersResponse struct {
	Orders      []orders.OrderDTO `json:"orders"`
	Loading     bool              `json:"loading"`
	LastRefresh *time.Time        `json:"last_refresh,omitempty"`
}

// AdminListOrders serves the back office from the orders watcher snapshot.
// Status changes and deletions land via the changefeed refresh, never by
// patching the snapshot in place.
func AdminListOrders(source orderSnapshotSource) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		snap := source.Snapshot()

		list := snap.Rows
		if list == nil {
			list = []orders.OrderDTO{}
		}

		resp := adminOrdersResponse{
			Orders:  list,
			Loading: snap.Loading,
		}
		if !snap.LastRefresh.IsZero() {
			refreshed := snap.LastRefresh
			resp.LastRefresh = &refreshed
		}
		responses.WriteSuccess(w, resp)
	}
}

// AdminGetOrder loads one order.
func AdminGetOrder(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "orders service unavailable"))
			return
		}

		id, err := orderIDParam(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		order, err := svc.GetOrder(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, order)
	}
}

// AdminUpdateOrderStatus mutates only the status column.
func AdminUpdateOrderStatus(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "orders service unavailable"))
			return
		}

		id, err := orderIDParam(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload updateOrderStatusRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		status, err := enums.ParseOrderStatus(strings.TrimSpace(payload.Status))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "invalid status"))
			return
		}

		order, err := svc.UpdateOrderStatus(r.Context(), id, status)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, order)
	}
}

// AdminDeleteOrder removes an order.
func AdminDeleteOrder(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "orders service unavailable"))
			return
		}

		id, err := orderIDParam(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.DeleteOrder(r.Context(), id); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "deleted"})
	}
}
