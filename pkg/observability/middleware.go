package observability

import (
	"net/http"
	"strconv"
	"strings"
	"time"
)

// RouteUnmatched labels requests that no ServeMux pattern claimed.
const RouteUnmatched = "unmatched"

// MetricsMiddleware records authgate_requests_total and
// authgate_request_duration_seconds for every request. The route label is
// the ServeMux pattern that served the request, without its method, so
// label cardinality stays bounded by the route table.
func MetricsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(sw, r)

		route := Route(r.Pattern)
		RequestsTotal.WithLabelValues(r.Method, route, StatusClass(sw.status)).Inc()
		RequestDuration.WithLabelValues(r.Method, route).Observe(time.Since(start).Seconds())
	})
}

// Route strips the method from a ServeMux pattern ("POST /users" -> "/users").
func Route(pattern string) string {
	if pattern == "" {
		return RouteUnmatched
	}
	if _, path, ok := strings.Cut(pattern, " "); ok {
		return strings.TrimSpace(path)
	}
	return pattern
}

// StatusClass maps 403 to "4xx".
func StatusClass(status int) string {
	return strconv.Itoa(status/100) + "xx"
}

type statusWriter struct {
	http.ResponseWriter
	status  int
	written bool
}

func (w *statusWriter) WriteHeader(status int) {
	if !w.written {
		w.status = status
		w.written = true
	}
	w.ResponseWriter.WriteHeader(status)
}

func (w *statusWriter) Write(b []byte) (int, error) {
	w.written = true
	return w.ResponseWriter.Write(b)
}

func (w *statusWriter) Unwrap() http.ResponseWriter {
	return w.ResponseWriter
}
