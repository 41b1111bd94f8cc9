package metrics

import (
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
)

var defaultLatencyBuckets = []float64{5, 25, 100, 300, 1000, 5000}

const (
	// EnvLatencyBuckets holds comma separated bucket bounds in milliseconds, e.g. "100,200,300".
	EnvLatencyBuckets     = "PV_PLANNER_LATENCY_BUCKETS"
	RequestsCollectorName = "pv_planner_http_requests_total"
	LatencyCollectorName  = "pv_planner_http_request_duration_milliseconds"

	unmatchedRoute = "unmatched"
)

// Middleware exposes request counts and latency partitioned by status code, method and route pattern.
type Middleware struct {
	requests *prometheus.CounterVec
	latency  *prometheus.HistogramVec
}

func latencyBuckets() []float64 {
	conf, ok := os.LookupEnv(EnvLatencyBuckets)
	if !ok {
		return defaultLatencyBuckets
	}
	var buckets []float64
	for _, v := range strings.Split(conf, ",") {
		f64v, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			panic(err)
		}
		buckets = append(buckets, f64v)
	}
	return buckets
}

// NewMiddleware returns a new prometheus middleware for the provided service name.
func NewMiddleware(name string) *Middleware {
	var m Middleware
	m.requests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name:        RequestsCollectorName,
			Help:        "Number of HTTP requests partitioned by status code, method and route.",
			ConstLabels: prometheus.Labels{"service": name},
		}, []string{"code", "method", "route"})

	m.latency = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:        LatencyCollectorName,
		Help:        "Time spent on the request partitioned by status code, method and route.",
		ConstLabels: prometheus.Labels{"service": name},
		Buckets:     latencyBuckets(),
	}, []string{"code", "method", "route"})

	return &m
}

// Handler returns a handler for the middleware pattern.
func (m Middleware) Handler(next http.Handler) http.Handler {
	fn := func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		// the pattern keeps ids out of the label values
		route := unmatchedRoute
		if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
			route = rctx.RoutePattern()
		}
		code := strconv.Itoa(ww.Status())
		m.requests.WithLabelValues(code, r.Method, route).Inc()
		m.latency.WithLabelValues(code, r.Method, route).Observe(float64(time.Since(start).Milliseconds()))
	}
	return http.HandlerFunc(fn)
}

// Collectors returns collector for your own collector registry.
func (m Middleware) Collectors() []prometheus.Collector {
	return []prometheus.Collector{m.requests, m.latency}
}

// MustRegisterDefault registers collectors to DefaultRegisterer.
func (m Middleware) MustRegisterDefault() {
	if m.requests == nil || m.latency == nil {
		panic("collectors must be set")
	}
	prometheus.MustRegister(m.requests)
	prometheus.MustRegister(m.latency)
}
