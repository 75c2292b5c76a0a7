package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/novalux/backend/api/middleware"
	"github.com/novalux/backend/api/responses"
	"github.com/novalux/backend/api/validators"
	"github.com/novalux/backend/internal/cart"
	"github.com/novalux/backend/internal/catalog"
	pkgerrors "github.com/novalux/backend/pkg/errors"
	"github.com/novalux/backend/pkg/logger"
)

type cartAddRequest struct {
	ProductID uuid.UUID `json:"product_id" validate:"required"`
}

type cartQuantityRequest struct {
	Quantity *int `json:"quantity" validate:"required"`
}

type cartOpenRequest struct {
	IsOpen *bool `json:"is_open" validate:"required"`
}

func sessionCart(r *http.Request, registry *cart.Registry) (*cart.Cart, error) {
	token := middleware.CartTokenFromContext(r.Context())
	if token == "" {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "cart session missing")
	}
	return registry.Get(token), nil
}

// CartFetch returns the session's cart contents and totals.
func CartFetch(registry *cart.Registry, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c, err := sessionCart(r, registry)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, cart.NewCartDTO(c))
	}
}

// CartAddItem snapshots the current product row into the cart. Sold products
// are rejected here; the cart itself does not know about availability.
func CartAddItem(registry *cart.Registry, catalogSvc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if catalogSvc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		c, err := sessionCart(r, registry)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body cartAddRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		product, err := catalogSvc.GetProduct(r.Context(), body.ProductID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if product.IsSold {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeConflict, "product is sold out"))
			return
		}

		c.AddItem(cart.ItemSnapshot{
			ProductID: product.ID,
			Name:      product.Name,
			Price:     product.NewPrice,
			ImageURL:  product.ImageURL,
		})
		responses.WriteSuccess(w, cart.NewCartDTO(c))
	}
}

// CartRemoveItem deletes one line. Removing an absent product is a no-op.
func CartRemoveItem(registry *cart.Registry, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c, err := sessionCart(r, registry)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		productID, err := uuid.Parse(chi.URLParam(r, "productId"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid product id"))
			return
		}

		c.RemoveItem(productID)
		responses.WriteSuccess(w, cart.NewCartDTO(c))
	}
}

// CartUpdateQuantity sets a line's quantity; zero or less removes the line.
func CartUpdateQuantity(registry *cart.Registry, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c, err := sessionCart(r, registry)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		productID, err := uuid.Parse(chi.URLParam(r, "productId"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid product id"))
			return
		}

		var body cartQuantityRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		c.UpdateQuantity(productID, *body.Quantity)
		responses.WriteSuccess(w, cart.NewCartDTO(c))
	}
}

// CartClear empties the session's cart.
func CartClear(registry *cart.Registry, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c, err := sessionCart(r, registry)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		c.Clear()
		responses.WriteSuccess(w, cart.NewCartDTO(c))
	}
}

// CartSetOpen toggles the cart panel flag.
func CartSetOpen(registry *cart.Registry, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c, err := sessionCart(r, registry)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body cartOpenRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		c.SetIsOpen(*body.IsOpen)
		responses.WriteSuccess(w, cart.NewCartDTO(c))
	}
}
