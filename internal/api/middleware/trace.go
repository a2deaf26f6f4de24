// Package middleware contains HTTP middleware shared by every route.
package middleware

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/phrazzld/vitals/internal/api/shared"
	"github.com/phrazzld/vitals/internal/platform/logger"
	"github.com/phrazzld/vitals/internal/telemetry"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

// NewTraceMiddleware returns middleware that opens a span for each request,
// stores the trace ID, request ID and a request-scoped logger in the context,
// and records request count and duration. It should run after chi's
// RequestID middleware and before any handler that logs.
func NewTraceMiddleware(log *slog.Logger) func(http.Handler) http.Handler {
	if log == nil {
		log = slog.Default()
	}
	log = log.With(slog.String("component", "http"))

	tracer := telemetry.Tracer()
	meter := telemetry.Meter()
	requests, err := meter.Int64Counter("http.server.request_count")
	if err != nil {
		log.Warn("failed to register request counter", slog.String("error", err.Error()))
	}
	durations, err := meter.Float64Histogram("http.server.duration", metric.WithUnit("ms"))
	if err != nil {
		log.Warn("failed to register duration histogram", slog.String("error", err.Error()))
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			reqID := chimiddleware.GetReqID(r.Context())
			if reqID == "" {
				reqID = r.Header.Get(chimiddleware.RequestIDHeader)
			}

			ctx, span := tracer.Start(r.Context(), r.Method+" "+r.URL.Path,
				trace.WithSpanKind(trace.SpanKindServer),
				trace.WithAttributes(
					attribute.String("http.method", r.Method),
					attribute.String("http.url", r.URL.Path),
					attribute.String("http.request_id", reqID),
				),
			)
			defer span.End()

			ctx = shared.SetTraceID(ctx)
			traceID := shared.GetTraceID(ctx)
			ctx = logger.WithLogger(ctx, log.With(slog.String("trace_id", traceID)))
			if reqID != "" {
				ctx = logger.WithRequestID(ctx, reqID)
				w.Header().Set(chimiddleware.RequestIDHeader, reqID)
			}

			reqLog := logger.FromContext(ctx)
			reqLog.Debug("request started",
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
				slog.String("remote_addr", r.RemoteAddr))

			start := time.Now()
			ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r.WithContext(ctx))
			elapsed := time.Since(start)

			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}

			route := r.URL.Path
			if rc := chi.RouteContext(r.Context()); rc != nil && rc.RoutePattern() != "" {
				route = rc.RoutePattern()
			}
			span.SetName(r.Method + " " + route)
			span.SetAttributes(attribute.Int("http.status_code", status))

			attrs := metric.WithAttributes(
				attribute.String("http.method", r.Method),
				attribute.String("http.route", route),
				attribute.String("http.status_code", strconv.Itoa(status)),
			)
			if requests != nil {
				requests.Add(ctx, 1, attrs)
			}
			if durations != nil {
				durations.Record(ctx, float64(elapsed.Milliseconds()), attrs)
			}

			level := slog.LevelInfo
			if status >= http.StatusInternalServerError {
				level = slog.LevelError
			} else if status >= http.StatusBadRequest {
				level = slog.LevelWarn
			}
			reqLog.Log(ctx, level, "http request",
				slog.String("method", r.Method),
				slog.String("route", route),
				slog.Int("status", status),
				slog.Int64("duration_ms", elapsed.Milliseconds()))
		})
	}
}
