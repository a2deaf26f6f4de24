package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/phrazzld/vitals/internal/api/shared"
	"github.com/phrazzld/vitals/internal/platform/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTraceMiddleware(t *testing.T) {
	log, buf := logger.GetTestLogger(t)

	var traceID, requestID string
	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(NewTraceMiddleware(log))
	r.Get("/goals/{id}", func(w http.ResponseWriter, r *http.Request) {
		traceID = shared.GetTraceID(r.Context())
		requestID = logger.RequestIDFromContext(r.Context())
		logger.FromContext(r.Context()).Info("inside handler")
		w.WriteHeader(http.StatusTeapot)
	})

	req := httptest.NewRequest(http.MethodGet, "/goals/42", nil)
	req.Header.Set(chimiddleware.RequestIDHeader, "req-123")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusTeapot, rec.Code)
	assert.Len(t, traceID, 32)
	assert.Equal(t, "req-123", requestID)
	assert.Equal(t, "req-123", rec.Header().Get(chimiddleware.RequestIDHeader))

	entries, err := buf.GetLogEntries()
	require.NoError(t, err)

	var handlerLine, requestLine map[string]interface{}
	for _, e := range entries {
		switch e["msg"] {
		case "inside handler":
			handlerLine = e
		case "http request":
			requestLine = e
		}
	}
	require.NotNil(t, handlerLine)
	assert.Equal(t, traceID, handlerLine["trace_id"])
	assert.Equal(t, "req-123", handlerLine["request_id"])

	require.NotNil(t, requestLine)
	assert.Equal(t, "/goals/{id}", requestLine["route"])
	assert.Equal(t, float64(http.StatusTeapot), requestLine["status"])
	assert.Equal(t, "WARN", requestLine["level"])
}
