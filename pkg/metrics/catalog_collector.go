package metrics

import (
	"context"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/solarwerk/pv-planner/internal/store/model"
)

// StatisticsProvider is the part of the store the collector reads.
type StatisticsProvider interface {
	Statistics(ctx context.Context) (model.CatalogStats, error)
}

type catalogStatsCollector struct {
	provider            StatisticsProvider
	totalMaterials      *prometheus.Desc
	materialsByCategory *prometheus.Desc
	outOfStock          *prometheus.Desc
	totalProjects       *prometheus.Desc
	bookedProjects      *prometheus.Desc
}

// NewCatalogStatsCollector exposes catalog and project counts read from the store at scrape time.
func NewCatalogStatsCollector(p StatisticsProvider) prometheus.Collector {
	fqName := func(name string) string {
		return fmt.Sprintf("%s_catalog_%s", pvPlanner, name)
	}

	return &catalogStatsCollector{
		provider: p,
		totalMaterials: prometheus.NewDesc(
			fqName("materials_total"),
			"Total number of materials.",
			nil,
			prometheus.Labels{},
		),
		materialsByCategory: prometheus.NewDesc(
			fqName("materials_by_category_total"),
			"Total materials by category",
			[]string{"category"},
			prometheus.Labels{},
		),
		outOfStock: prometheus.NewDesc(
			fqName("materials_out_of_stock_total"),
			"Total materials with no stock left",
			nil,
			prometheus.Labels{},
		),
		totalProjects: prometheus.NewDesc(
			fqName("projects_total"),
			"Total number of projects",
			nil,
			prometheus.Labels{},
		),
		bookedProjects: prometheus.NewDesc(
			fqName("projects_booked_total"),
			"Total number of booked projects",
			nil,
			prometheus.Labels{},
		),
	}
}

func (c *catalogStatsCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.totalMaterials
	ch <- c.materialsByCategory
	ch <- c.outOfStock
	ch <- c.totalProjects
	ch <- c.bookedProjects
}

// Collect implements Collector.
func (c *catalogStatsCollector) Collect(ch chan<- prometheus.Metric) {
	stats, err := c.provider.Statistics(context.Background())
	if err != nil {
		zap.S().Named("catalog_collector").Errorf("failed to collect catalog statistics: %s", err)
		return
	}
	ch <- prometheus.MustNewConstMetric(c.totalMaterials, prometheus.GaugeValue, float64(stats.TotalMaterials))
	ch <- prometheus.MustNewConstMetric(c.outOfStock, prometheus.GaugeValue, float64(stats.OutOfStock))
	ch <- prometheus.MustNewConstMetric(c.totalProjects, prometheus.GaugeValue, float64(stats.TotalProjects))
	ch <- prometheus.MustNewConstMetric(c.bookedProjects, prometheus.GaugeValue, float64(stats.BookedProjects))
	for category, total := range stats.MaterialsByCategory {
		ch <- prometheus.MustNewConstMetric(c.materialsByCategory, prometheus.GaugeValue, float64(total), category)
	}
}
