package middleware

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/angelmondragon/leadquote-backend/api/responses"
	"github.com/angelmondragon/leadquote-backend/api/validators"
	"github.com/angelmondragon/leadquote-backend/pkg/logger"
)

const (
	leadIDParam    = "leadId"
	sellerIDHeader = "X-Seller-Id"
)

// LeadContext resolves the {leadId} route parameter and the optional seller header
// into the request context and its log fields.
func LeadContext(logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			leadID, err := validators.ParseID("lead id", chi.URLParam(r, leadIDParam))
			if err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}

			ctx := WithLeadID(r.Context(), leadID)
			sellerID := validators.OptionalID(r.Header.Get(sellerIDHeader))
			if sellerID != "" {
				ctx = WithSellerID(ctx, sellerID)
			}
			if logg != nil {
				ctx = logg.WithLeadID(ctx, leadID)
				ctx = logg.WithSellerID(ctx, sellerID)
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
