package middleware

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	"github.com/concordlabs/concord/pkg/contextkeys"
)

// RequestID attaches a UUID to each request, reusing an inbound
// X-Request-ID when present, and echoes it on the response.
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get("X-Request-ID")
		if requestID == "" {
			requestID = uuid.NewString()
		}

		w.Header().Set("X-Request-ID", requestID)
		ctx := context.WithValue(r.Context(), contextkeys.RequestIDKey, requestID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// GetRequestID extracts the request ID from the request context
func GetRequestID(r *http.Request) string {
	if id, ok := r.Context().Value(contextkeys.RequestIDKey).(string); ok {
		return id
	}
	return ""
}
