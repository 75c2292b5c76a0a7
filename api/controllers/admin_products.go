package controllers

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/novalux/backend/api/responses"
	"github.com/novalux/backend/api/validators"
	"github.com/novalux/backend/internal/catalog"
	pkgerrors "github.com/novalux/backend/pkg/errors"
	"github.com/novalux/backend/pkg/logger"
	"github.com/novalux/backend/pkg/types"
)

type createProductRequest struct {
	Name        string           `json:"name" validate:"required,max=300"`
	Description *string          `json:"description,omitempty"`
	OldPrice    *decimal.Decimal `json:"old_price,omitempty"`
	NewPrice    decimal.Decimal  `json:"new_price"`
	Category    *string          `json:"category,omitempty"`
	ImageURLs   []string         `json:"image_urls,omitempty" validate:"omitempty,dive,url"`
	IsSold      bool             `json:"is_sold"`
}

func (req createProductRequest) toInput() catalog.CreateProductInput {
	return catalog.CreateProductInput{
		Name:        req.Name,
		Description: req.Description,
		OldPrice:    req.OldPrice,
		NewPrice:    req.NewPrice,
		Category:    req.Category,
		ImageURLs:   req.ImageURLs,
		IsSold:      req.IsSold,
	}
}

// updateProductRequest carries a partial product update. The Optional fields
// map to nullable columns: leaving one out keeps the stored value, sending an
// explicit null clears it.
type updateProductRequest struct {
	Name        *string                         `json:"name,omitempty" validate:"omitempty,max=300"`
	Description types.Optional[string]          `json:"description,omitempty"`
	OldPrice    types.Optional[decimal.Decimal] `json:"old_price,omitempty"`
	NewPrice    *decimal.Decimal                `json:"new_price,omitempty"`
	Category    types.Optional[string]          `json:"category,omitempty"`
	ImageURLs   *[]string                       `json:"image_urls,omitempty" validate:"omitempty,dive,url"`
	IsSold      *bool                           `json:"is_sold,omitempty"`
}

func (req updateProductRequest) toInput() catalog.UpdateProductInput {
	return catalog.UpdateProductInput{
		Name:        req.Name,
		Description: req.Description,
		OldPrice:    req.OldPrice,
		NewPrice:    req.NewPrice,
		Category:    req.Category,
		ImageURLs:   req.ImageURLs,
		IsSold:      req.IsSold,
	}
}

func productIDParam(r *http.Request) (uuid.UUID, error) {
	id, err := uuid.Parse(chi.URLParam(r, "productId"))
	if err != nil {
		return uuid.Nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid product id")
	}
	return id, nil
}

// AdminListProducts serves the back-office catalog from the same watcher
// snapshot the storefront reads. Mutations show up through the changefeed.
func AdminListProducts(source productSnapshotSource) http.HandlerFunc {
	return StorefrontProducts(source)
}

// AdminCreateProduct handles product creation from the back office.
func AdminCreateProduct(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		var payload createProductRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		product, err := svc.CreateProduct(r.Context(), payload.toInput())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, product)
	}
}

// AdminUpdateProduct applies a partial product update.
func AdminUpdateProduct(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		id, err := productIDParam(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload updateProductRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		product, err := svc.UpdateProduct(r.Context(), id, payload.toInput())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, product)
	}
}

type imageCleaner interface {
	DeleteImages(ctx context.Context, urls []string) error
}

// AdminDeleteProduct removes a product and then its stored images. Image
// cleanup is best effort: a storage failure is logged, not surfaced, since
// the product row is already gone.
func AdminDeleteProduct(svc catalog.Service, images imageCleaner, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		id, err := productIDParam(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		product, err := svc.GetProduct(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.DeleteProduct(r.Context(), id); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if images != nil && len(product.ImageURLs) > 0 {
			if err := images.DeleteImages(r.Context(), product.ImageURLs); err != nil && logg != nil {
				logg.Error(r.Context(), "product.image_cleanup_failed", err)
			}
		}

		responses.WriteSuccess(w, map[string]string{"status": "deleted"})
	}
}
