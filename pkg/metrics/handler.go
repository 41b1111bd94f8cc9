package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type PrometheusMetricsHandler struct {
	registry prometheus.Gatherer
}

// NewPrometheusMetricsHandler serves the default registry.
func NewPrometheusMetricsHandler() *PrometheusMetricsHandler {
	return &PrometheusMetricsHandler{registry: prometheus.DefaultGatherer}
}

func (h *PrometheusMetricsHandler) Handler() http.Handler {
	return promhttp.HandlerFor(h.registry, promhttp.HandlerOpts{})
}
