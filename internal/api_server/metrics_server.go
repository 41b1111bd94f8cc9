package apiserver

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/solarwerk/pv-planner/pkg/metrics"
)

const uniqueConfigurationsWindow = 7 * 24 * time.Hour

// MetricServer exposes the prometheus registry on its own listener so scrapes
// never compete with API traffic.
type MetricServer struct {
	httpServer *http.Server
	listener   net.Listener
	log        *zap.SugaredLogger
}

// NewMetricServer serves /metrics. When stats is set the catalog gauges are registered too.
func NewMetricServer(bindAddress string, listener net.Listener, stats metrics.StatisticsProvider) *MetricServer {
	log := zap.S().Named("metrics_server")

	if stats != nil {
		if err := prometheus.Register(metrics.NewCatalogStatsCollector(stats)); err != nil {
			log.Warnw("failed to register catalog collector", "error", err)
		}
	}

	router := chi.NewRouter()
	router.Handle("/metrics", metrics.NewPrometheusMetricsHandler().Handler())

	return &MetricServer{
		listener:   listener,
		log:        log,
		httpServer: &http.Server{Addr: bindAddress, Handler: router},
	}
}

func (m *MetricServer) Run(ctx context.Context) error {
	go m.shutdownOnDone(ctx)
	go m.resetUniqueConfigurations(ctx, uniqueConfigurationsWindow)

	m.log.Infof("serving metrics: %s", m.httpServer.Addr)
	err := m.httpServer.Serve(m.listener)
	if errors.Is(err, net.ErrClosed) || errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

func (m *MetricServer) shutdownOnDone(ctx context.Context) {
	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), gracefulShutdownTimeout)
	defer cancel()

	m.httpServer.SetKeepAlivesEnabled(false)
	_ = m.httpServer.Shutdown(shutdownCtx)
	m.log.Info("metrics server terminated")
}

// resetUniqueConfigurations starts a new counting window every period.
func (m *MetricServer) resetUniqueConfigurations(ctx context.Context, period time.Duration) {
	ticker := time.NewTicker(period)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			metrics.UniqueConfigurationsPerWeek.Reset()
			m.log.Info("unique configurations window reset")
		case <-ctx.Done():
			return
		}
	}
}
