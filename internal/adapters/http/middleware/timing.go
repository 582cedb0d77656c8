package middleware

import (
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"eventreg/internal/adapters/http/perf"
	"eventreg/internal/logging"
)

// DefaultSlowRequestMs is the threshold used when none is configured.
const DefaultSlowRequestMs = 200

// Timing returns middleware that logs request duration and records it to
// collector when non-nil. Requests under /static/ are skipped. Normal requests
// log at DEBUG, requests at or above slowMs log at WARN.
func Timing(collector *perf.Collector, slowMs int) func(http.Handler) http.Handler {
	if slowMs <= 0 {
		slowMs = DefaultSlowRequestMs
	}
	threshold := float64(slowMs)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if strings.HasPrefix(r.URL.Path, "/static/") {
				next.ServeHTTP(w, r)
				return
			}

			start := time.Now()
			ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
			defer func() {
				durationMs := float64(time.Since(start).Microseconds()) / 1000.0
				status := ww.Status()
				if status == 0 {
					status = http.StatusOK
				}
				route := routeLabel(r)

				logger := logging.FromContext(r.Context())
				attrs := []any{"method", r.Method, "path", r.URL.Path, "status", status, "duration_ms", durationMs}
				if durationMs >= threshold {
					logger.Warn("slow_request", attrs...)
				} else {
					logger.Debug("request", attrs...)
				}

				if collector != nil {
					collector.Record(perf.Entry{
						Kind:       perf.KindRequest,
						Path:       r.Method + " " + route,
						StatusCode: status,
						DurationMs: durationMs,
						Timestamp:  start,
					})
				}
			}()

			next.ServeHTTP(ww, r)
		})
	}
}

// routeLabel prefers the matched chi pattern so paths with query strings or
// parameters aggregate under one entry.
func routeLabel(r *http.Request) string {
	if rctx := chi.RouteContext(r.Context()); rctx != nil {
		if p := rctx.RoutePattern(); p != "" {
			return p
		}
	}
	return r.URL.Path
}
