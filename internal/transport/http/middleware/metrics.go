package middleware

import (
	"net/http"
	"time"

	"workflowpro/internal/platform/metrics"
)

// Metrics records one observation per request, labelled by route pattern so
// path parameters do not explode cardinality.
func Metrics(c *metrics.Collector) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if c == nil {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			recorder := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(recorder, r)
			c.RecordRequest(r.Method, routePattern(r), recorder.status, time.Since(start))
		})
	}
}
