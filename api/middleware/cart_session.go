package middleware

import (
	"net/http"
	"strings"

	"github.com/novalux/backend/api/responses"
	"github.com/novalux/backend/internal/cart"
	pkgerrors "github.com/novalux/backend/pkg/errors"
	"github.com/novalux/backend/pkg/logger"
)

const cartTokenHeader = "X-Cart-Token"

// CartSession resolves the cart session token for storefront requests. A
// request without a token gets a fresh one; the active token is always echoed
// back so the client can persist it.
func CartSession(logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := strings.TrimSpace(r.Header.Get(cartTokenHeader))
			if token == "" {
				minted, err := cart.NewToken()
				if err != nil {
					responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "mint cart token"))
					return
				}
				token = minted
			}

			w.Header().Set(cartTokenHeader, token)
			next.ServeHTTP(w, r.WithContext(WithCartToken(r.Context(), token)))
		})
	}
}
