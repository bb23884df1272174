package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"lead-dispatcher/internal/common/logger"
)

func TestRequestID_GeneratesWhenMissing(t *testing.T) {
	var seen string
	h := RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = GetRequestID(r.Context())
	}))

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/webhook", nil))

	_, err := uuid.Parse(seen)
	assert.NoError(t, err)
	assert.Equal(t, seen, rr.Header().Get("X-Request-ID"))
}

func TestRequestID_PropagatesHeader(t *testing.T) {
	var seen string
	h := RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = GetRequestID(r.Context())
	}))

	req := httptest.NewRequest(http.MethodPost, "/webhook", nil)
	req.Header.Set("X-Request-ID", "vapi-req-42")
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)

	assert.Equal(t, "vapi-req-42", seen)
	assert.Equal(t, "vapi-req-42", rr.Header().Get("X-Request-ID"))
}

func TestAccessLog_PassesStatusThrough(t *testing.T) {
	h := RequestID(AccessLog(logger.NewTestLogger(t))(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})))

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusTeapot, rr.Code)
}

func TestGetRequestID_Empty(t *testing.T) {
	assert.Empty(t, GetRequestID(httptest.NewRequest(http.MethodGet, "/", nil).Context()))
}
