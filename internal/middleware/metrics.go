package middleware

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/mmynk/susu/internal/metrics"
)

// HTTPMetrics records request counts and latency. Paths are reduced to
// route labels so per-club URLs do not explode metric cardinality.
func HTTPMetrics(m *metrics.Metrics, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)

		path := routeLabel(r.URL.Path)
		m.HTTPRequests.WithLabelValues(r.Method, path, strconv.Itoa(rec.status)).Inc()
		m.HTTPDuration.WithLabelValues(r.Method, path).Observe(time.Since(start).Seconds())
	})
}

// routeLabel collapses parametrized paths to their route pattern.
func routeLabel(path string) string {
	if rest, ok := strings.CutPrefix(path, "/v1/clubs/"); ok && rest != "" {
		return "/v1/clubs/{id}"
	}
	return path
}
