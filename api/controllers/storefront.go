package controllers

import (
	"net/http"
	"time"

	"github.com/novalux/backend/api/responses"
	"github.com/novalux/backend/internal/catalog"
	syncsvc "github.com/novalux/backend/internal/sync"
)

type productSnapshotSource interface {
	Snapshot() syncsvc.Snapshot[catalog.ProductDTO]
}

type storefrontProductsResponse struct {
	Products    []catalog.ProductDTO `json:"products"`
	Loading     bool                 `json:"loading"`
	LastRefresh *time.Time           `json:"last_refresh,omitempty"`
}

// StorefrontProducts serves the catalog from the products watcher snapshot.
// Reads never hit the database; the snapshot is refreshed by change events.
func StorefrontProducts(source productSnapshotSource) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		snap := source.Snapshot()

		products := snap.Rows
		if products == nil {
			products = []catalog.ProductDTO{}
		}

		resp := storefrontProductsResponse{
			Products: products,
			Loading:  snap.Loading,
		}
		if !snap.LastRefresh.IsZero() {
			refreshed := snap.LastRefresh
			resp.LastRefresh = &refreshed
		}
		responses.WriteSuccess(w, resp)
	}
}
