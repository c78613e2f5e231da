package middleware

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/emiliocantu/stockroom-backend/api/responses"
	pkgerrors "github.com/emiliocantu/stockroom-backend/pkg/errors"
	"github.com/emiliocantu/stockroom-backend/pkg/logger"
)

const storeIDHeader = "X-Store-Id"

// StoreContext resolves the tenant from the store header and injects it into
// the request context. Requests without a usable store id are rejected.
func StoreContext(logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw := r.Header.Get(storeIDHeader)
			if raw == "" {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeForbidden, "store context missing"))
				return
			}
			if _, err := uuid.Parse(raw); err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid store id"))
				return
			}

			ctx := WithStoreID(r.Context(), raw)
			if logg != nil {
				ctx = logg.WithStoreID(ctx, raw)
			}
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
