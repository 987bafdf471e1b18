package middleware

import (
	"net/http"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/odeislands/recap-planner/pkg/requestid"
)

// RequestID takes the request ID from the x-request-id header, falls back
// to Chi's generated one, and as a last resort mints a fresh UUID, then
// injects it into the request context for the application layer.
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get("x-request-id")

		if requestID == "" {
			requestID = middleware.GetReqID(r.Context())
		}

		if requestID == "" {
			requestID = requestid.Generate()
		}

		ctx := requestid.ToContext(r.Context(), requestID)
		r = r.WithContext(ctx)

		next.ServeHTTP(w, r)
	})
}
