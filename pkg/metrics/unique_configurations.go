package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

type uniqueConfigurations struct {
	counter     prometheus.Gauge
	fingerprint map[string]struct{}
	mu          sync.RWMutex
}

const uniqueConfigurationsPerWeek = "unique_configurations_per_week"

var totalUniqueConfigurationsPerWeekMetric = prometheus.NewGauge(
	prometheus.GaugeOpts{
		Subsystem: pvPlanner,
		Name:      uniqueConfigurationsPerWeek,
		Help:      "metrics to record the number of distinct configurations derived per week",
	},
)

// UniqueConfigurationsPerWeek counts distinct derivation fingerprints. It is reset weekly by the metrics server.
var UniqueConfigurationsPerWeek = &uniqueConfigurations{
	counter:     totalUniqueConfigurationsPerWeekMetric,
	fingerprint: make(map[string]struct{}),
}

func (u *uniqueConfigurations) Reset() {
	u.mu.Lock()
	defer u.mu.Unlock()

	u.fingerprint = make(map[string]struct{})
	u.counter.Set(0)
}

func (u *uniqueConfigurations) Observe(fingerprint string) {
	u.mu.Lock()
	defer u.mu.Unlock()

	if _, exists := u.fingerprint[fingerprint]; exists {
		return
	}

	u.fingerprint[fingerprint] = struct{}{}
	u.counter.Inc()
}

func (u *uniqueConfigurations) Count() int {
	u.mu.RLock()
	defer u.mu.RUnlock()
	return len(u.fingerprint)
}
