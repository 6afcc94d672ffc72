package api

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/okian/hoopsim/pkg/logger"
	"github.com/okian/hoopsim/pkg/metrics"
)

// MetricsMiddleware records request count, latency and error class for
// endpoint. A panicking handler is answered with 500 instead of dropping
// the connection.
func MetricsMiddleware(next http.HandlerFunc, endpoint string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		defer func() {
			if p := recover(); p != nil {
				logger.Get().Error(r.Context(), "handler panicked",
					logger.String("endpoint", endpoint),
					logger.Any("panic", p))
				if !rec.wrote {
					writeError(rec, http.StatusInternalServerError, "internal_error", fmt.Errorf("%s: internal error", endpoint))
				}
				rec.status = http.StatusInternalServerError
			}
			observe(r.Context(), endpoint, r.Method, rec.status, time.Since(start))
		}()

		next(rec, r)
	}
}

func observe(ctx context.Context, endpoint, method string, status int, took time.Duration) {
	code := strconv.Itoa(status)
	ms := float64(took.Microseconds()) / 1000
	metrics.RecordHTTPRequest(endpoint, method, code)
	metrics.RecordHTTPRequestDuration(endpoint, method, code, ms)
	if class := errorClass(status); class != "" {
		metrics.RecordErrorByComponent("http_"+endpoint, class)
	}
	logger.Get().Debug(ctx, "http request",
		logger.String("endpoint", endpoint),
		logger.String("method", method),
		logger.Int("status", status),
		logger.Duration("took", took))
}

// errorClass names the metric label for an error status, or "" for success.
func errorClass(status int) string {
	switch {
	case status < http.StatusBadRequest:
		return ""
	case status == http.StatusServiceUnavailable:
		return "unavailable"
	case status >= http.StatusInternalServerError:
		return "server_error"
	case status == http.StatusTooManyRequests:
		return "backpressure"
	case status == http.StatusNotFound:
		return "not_found"
	default:
		return "client_error"
	}
}

// statusRecorder remembers the status a handler wrote.
type statusRecorder struct {
	http.ResponseWriter
	status int
	wrote  bool
}

func (s *statusRecorder) WriteHeader(code int) {
	if s.wrote {
		return
	}
	s.status, s.wrote = code, true
	s.ResponseWriter.WriteHeader(code)
}

func (s *statusRecorder) Write(b []byte) (int, error) {
	s.wrote = true
	return s.ResponseWriter.Write(b)
}
