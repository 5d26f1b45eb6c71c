package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"parcelbee-client/internal/logx"
	"parcelbee-client/internal/metrics"
)

// Observability records request metrics and logs every console request.
func Observability(logger logx.Logger, m *metrics.Metrics) func(http.Handler) http.Handler {
	if logger == nil {
		logger = logx.Nop()
	}
	if m == nil {
		m = metrics.NewUnregistered()
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)
			// route pattern, not raw path, to keep label cardinality bounded
			path := pathPattern(r)
			tm := time.Since(start)
			status := strconv.Itoa(ww.Status())

			m.ConsoleRequests.WithLabelValues(r.Method, path, status).Inc()
			m.ConsoleDuration.WithLabelValues(r.Method, path, status).Observe(tm.Seconds())

			logger.Debug("http request",
				logx.String("method", r.Method),
				logx.String("path", path),
				logx.Int("status", ww.Status()),
				logx.Duration("duration", tm),
			)
		})
	}
}

func pathPattern(r *http.Request) string {
	rc := chi.RouteContext(r.Context())
	if rc != nil {
		if p := rc.RoutePattern(); p != "" {
			return p
		}
	}
	return r.URL.Path
}
