package middleware

import (
	"log/slog"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/indexhq/indexd/internal/metrics"
)

type statusRecorder struct {
	http.ResponseWriter
	statusCode int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.statusCode = code
	r.ResponseWriter.WriteHeader(code)
}

// AccessLog logs every request and feeds the metrics pipeline. Metric events
// are emitted without blocking: when the collector falls behind, samples are
// dropped instead of delaying the response.
func AccessLog(logger *slog.Logger, collector *metrics.Collector) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			emit(collector, metrics.Event{
				Type:      metrics.EventRequestReceived,
				Timestamp: time.Now(),
				Path:      r.URL.Path,
			})

			start := time.Now()
			wrapped := &statusRecorder{ResponseWriter: w, statusCode: http.StatusOK}
			next.ServeHTTP(wrapped, r)
			duration := time.Since(start)

			logger.Info("Request completed",
				slog.String("from", extractClientIP(r)),
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
				slog.Int("status", wrapped.statusCode),
				slog.Duration("duration", duration),
				slog.String("user_agent", r.UserAgent()))

			emit(collector, metrics.Event{
				Type:       metrics.EventResponseCompleted,
				Timestamp:  time.Now(),
				Path:       r.URL.Path,
				Duration:   duration,
				StatusCode: wrapped.statusCode,
			})
		})
	}
}

func emit(collector *metrics.Collector, event metrics.Event) {
	if collector == nil {
		return
	}

	select {
	case collector.EventChannel() <- event:
	default:
	}
}

func extractClientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		return strings.TrimSpace(strings.Split(xff, ",")[0])
	}

	host, _, _ := net.SplitHostPort(r.RemoteAddr)
	return host
}
