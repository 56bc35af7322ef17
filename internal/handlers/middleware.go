package handlers

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	"labor-platform/pkg/logging"
)

// RequestIDMiddleware attaches a request ID to the request context so
// log lines from one request can be correlated. An incoming
// X-Request-ID header is honored; otherwise a new ID is generated.
func RequestIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get("X-Request-ID")
		if requestID == "" {
			requestID = uuid.NewString()
		}

		ctx := context.WithValue(r.Context(), logging.RequestIDKey, requestID)
		w.Header().Set("X-Request-ID", requestID)

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
