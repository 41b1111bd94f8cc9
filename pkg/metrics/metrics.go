package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

const (
	pvPlanner = "pv_planner"

	// Derivation metrics
	derivationsTotal        = "derivations_total"
	derivationWarningsTotal = "derivation_warnings_total"
	derivationDuration      = "derivation_duration_seconds"
	derivationMemoTotal     = "derivation_memo_total"

	// Catalog metrics
	catalogRefreshTotal = "catalog_refresh_total"
	catalogVersion      = "catalog_version"

	// Booking metrics
	bookingsTotal = "bookings_total"

	// Labels
	sourceLabel = "source"
	resultLabel = "result"
	stateLabel  = "state"
)

var derivationsTotalLabels = []string{
	sourceLabel,
}

var memoLabels = []string{
	resultLabel,
}

var stateLabels = []string{
	stateLabel,
}

/**
* Metrics definition
**/
var derivationsTotalMetric = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Subsystem: pvPlanner,
		Name:      derivationsTotal,
		Help:      "number of bom derivations by source",
	},
	derivationsTotalLabels,
)

var derivationWarningsTotalMetric = prometheus.NewCounter(
	prometheus.CounterOpts{
		Subsystem: pvPlanner,
		Name:      derivationWarningsTotal,
		Help:      "number of validation warnings emitted by derivations",
	},
)

var derivationDurationMetric = prometheus.NewHistogram(
	prometheus.HistogramOpts{
		Subsystem: pvPlanner,
		Name:      derivationDuration,
		Help:      "time spent deriving a bom",
		Buckets:   []float64{.0005, .001, .005, .01, .05, .1, .5},
	},
)

var derivationMemoTotalMetric = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Subsystem: pvPlanner,
		Name:      derivationMemoTotal,
		Help:      "derivation memo lookups by result",
	},
	memoLabels,
)

var catalogRefreshTotalMetric = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Subsystem: pvPlanner,
		Name:      catalogRefreshTotal,
		Help:      "number of catalog snapshot refreshes by state",
	},
	stateLabels,
)

var catalogVersionMetric = prometheus.NewGauge(
	prometheus.GaugeOpts{
		Subsystem: pvPlanner,
		Name:      catalogVersion,
		Help:      "version of the catalog snapshot in use",
	},
)

var bookingsTotalMetric = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Subsystem: pvPlanner,
		Name:      bookingsTotal,
		Help:      "number of project bookings by state",
	},
	stateLabels,
)

func IncreaseDerivationsTotalMetric(source string) {
	labels := prometheus.Labels{
		sourceLabel: source,
	}
	derivationsTotalMetric.With(labels).Inc()
}

func AddDerivationWarnings(count int) {
	derivationWarningsTotalMetric.Add(float64(count))
}

func ObserveDerivationDuration(seconds float64) {
	derivationDurationMetric.Observe(seconds)
}

func IncreaseMemoMetric(hit bool) {
	result := "miss"
	if hit {
		result = "hit"
	}
	derivationMemoTotalMetric.With(prometheus.Labels{resultLabel: result}).Inc()
}

func IncreaseCatalogRefreshMetric(state string) {
	catalogRefreshTotalMetric.With(prometheus.Labels{stateLabel: state}).Inc()
}

func UpdateCatalogVersionMetric(version uint64) {
	catalogVersionMetric.Set(float64(version))
}

func IncreaseBookingsTotalMetric(state string) {
	bookingsTotalMetric.With(prometheus.Labels{stateLabel: state}).Inc()
}

func init() {
	registerMetrics()
}

func registerMetrics() {
	prometheus.MustRegister(derivationsTotalMetric)
	prometheus.MustRegister(derivationWarningsTotalMetric)
	prometheus.MustRegister(derivationDurationMetric)
	prometheus.MustRegister(derivationMemoTotalMetric)
	prometheus.MustRegister(catalogRefreshTotalMetric)
	prometheus.MustRegister(catalogVersionMetric)
	prometheus.MustRegister(bookingsTotalMetric)
	prometheus.MustRegister(totalUniqueConfigurationsPerWeekMetric)
}
