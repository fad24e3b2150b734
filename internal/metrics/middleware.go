package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// HTTP holds the request metrics of the serve endpoint
type HTTP struct {
	RequestDuration *prometheus.HistogramVec
	RequestsTotal   *prometheus.CounterVec
}

func NewHTTP(reg prometheus.Registerer) *HTTP {
	factory := promauto.With(reg)
	return &HTTP{
		RequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "dbprobe_http_request_duration_seconds",
				Help:    "Duration of HTTP requests in seconds",
				Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60},
			},
			[]string{"method", "path", "status"},
		),
		RequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "dbprobe_http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
	}
}

// Middleware records duration and count per route pattern
func (m *HTTP) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		// chi fills in the pattern while routing, so read it afterwards
		routePattern := "unknown"
		if routeCtx := chi.RouteContext(r.Context()); routeCtx != nil {
			if p := routeCtx.RoutePattern(); p != "" {
				routePattern = p
			}
		}

		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		statusCode := strconv.Itoa(status)

		m.RequestDuration.WithLabelValues(r.Method, routePattern, statusCode).Observe(time.Since(start).Seconds())
		m.RequestsTotal.WithLabelValues(r.Method, routePattern, statusCode).Inc()
	})
}
