package middleware

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/angelmondragon/leadquote-backend/api/validators"
	"github.com/angelmondragon/leadquote-backend/pkg/logger"
)

const requestIDHeader = "X-Request-Id"

// RequestID keeps a well-formed caller id and mints a uuid otherwise. The id is echoed
// on the response.
func RequestID(logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			reqID := validators.OptionalID(r.Header.Get(requestIDHeader))
			if reqID == "" {
				reqID = uuid.NewString()
			}
			w.Header().Set(requestIDHeader, reqID)

			if logg == nil {
				next.ServeHTTP(w, r)
				return
			}
			next.ServeHTTP(w, r.WithContext(logg.WithRequestID(r.Context(), reqID)))
		})
	}
}
