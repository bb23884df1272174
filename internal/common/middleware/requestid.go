package middleware

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"

	"lead-dispatcher/internal/common/logger"
)

type contextKey string

const RequestIDKey = contextKey("request-id")

// RequestID propagates X-Request-ID or generates a new UUID, echoing it on
// the response and storing it in the request context.
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get("X-Request-ID")
		if requestID == "" {
			requestID = uuid.New().String()
		}

		w.Header().Set("X-Request-ID", requestID)

		ctx := context.WithValue(r.Context(), RequestIDKey, requestID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// GetRequestID extracts the request ID from the context.
// Returns empty string if not found.
func GetRequestID(ctx context.Context) string {
	if reqID, ok := ctx.Value(RequestIDKey).(string); ok {
		return reqID
	}
	return ""
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (s *statusRecorder) WriteHeader(code int) {
	s.status = code
	s.ResponseWriter.WriteHeader(code)
}

// AccessLog logs one line per request. It must run inside RequestID.
func AccessLog(log logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

			next.ServeHTTP(rec, r)

			log.Debug("request handled", map[string]interface{}{
				"requestId":  GetRequestID(r.Context()),
				"method":     r.Method,
				"path":       r.URL.Path,
				"status":     rec.status,
				"durationMs": time.Since(start).Milliseconds(),
			})
		})
	}
}
