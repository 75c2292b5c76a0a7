package controllers

import (
	"net/http"
	"strings"

	"github.com/novalux/backend/api/responses"
	"github.com/novalux/backend/api/validators"
	"github.com/novalux/backend/internal/cart"
	checkoutsvc "github.com/novalux/backend/internal/checkout"
	"github.com/novalux/backend/pkg/enums"
	pkgerrors "github.com/novalux/backend/pkg/errors"
	"github.com/novalux/backend/pkg/logger"
)

// Checkout turns the session's cart into a pending order. Only the lines
// frozen into the order come out of the cart, and only after the order lands;
// items added concurrently during submit survive, and on failure the cart
// stays exactly as it was.
func Checkout(svc checkoutsvc.Service, registry *cart.Registry, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "checkout service unavailable"))
			return
		}

		c, err := sessionCart(r, registry)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body checkoutsvc.SubmitRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		deliveryType, err := enums.ParseDeliveryType(strings.TrimSpace(body.DeliveryType))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "invalid delivery_type"))
			return
		}

		lines := c.Lines()
		order, err := svc.Submit(r.Context(), checkoutsvc.SubmitInput{
			CustomerName: body.CustomerName,
			Phone:        body.Phone,
			Address:      body.Address,
			DeliveryType: deliveryType,
			Lines:        lines,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		c.DropLines(lines)
		c.SetIsOpen(false)
		responses.WriteSuccessStatus(w, http.StatusCreated, order)
	}
}
