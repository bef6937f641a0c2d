package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/mcoot/ofelia/internal/metrics"
)

// Metrics observes request latency labelled by method and final status
func Metrics(m *metrics.Metrics) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rec := record(w)
			next.ServeHTTP(rec, r)
			m.ObserveRequest(r.Method, strconv.Itoa(rec.code()), start)
		})
	}
}
