package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/lthibault/jitterbug/v2"

	"github.com/solarwerk/pv-planner/internal/bom"
	"github.com/solarwerk/pv-planner/internal/service/mappers"
	"github.com/solarwerk/pv-planner/internal/store"
	"github.com/solarwerk/pv-planner/internal/store/model"
	"github.com/solarwerk/pv-planner/pkg/log"
	"github.com/solarwerk/pv-planner/pkg/metrics"
)

const maxRefreshAttempts = 3

// CatalogSnapshot is an immutable view of the catalog and the defaults.
// Version is 0 for a snapshot that was never cached.
type CatalogSnapshot struct {
	Version  uint64
	Catalog  *bom.Catalog
	Defaults bom.Defaults
	LoadedAt time.Time
}

// CatalogCache keeps the snapshot every derivation reads from.
// A derivation never sees a snapshot change underneath it.
type CatalogCache struct {
	store    store.Store
	logger   *log.StructuredLogger
	mu       sync.RWMutex
	snapshot *CatalogSnapshot
	version  uint64
	// generation counts invalidations
	generation uint64
}

func NewCatalogCache(s store.Store) *CatalogCache {
	return &CatalogCache{
		store:  s,
		logger: log.NewDebugLogger("catalog_cache"),
	}
}

// Snapshot returns the current snapshot, loading it when none is cached.
func (c *CatalogCache) Snapshot(ctx context.Context) (*CatalogSnapshot, error) {
	c.mu.RLock()
	snapshot := c.snapshot
	c.mu.RUnlock()
	if snapshot != nil {
		return snapshot, nil
	}
	return c.Refresh(ctx)
}

// Refresh reloads materials and defaults from the store and publishes a new version.
// A load overtaken by Invalidate is retried. If the last attempt is overtaken too, its
// snapshot is returned to the caller without being cached.
func (c *CatalogCache) Refresh(ctx context.Context) (*CatalogSnapshot, error) {
	tracer := c.logger.WithContext(ctx).Operation("refresh_catalog").Build()

	for attempt := 1; ; attempt++ {
		c.mu.RLock()
		generation := c.generation
		c.mu.RUnlock()

		catalog, defaults, err := c.load(ctx, tracer)
		if err != nil {
			metrics.IncreaseCatalogRefreshMetric("failed")
			tracer.Error(err).Log()
			return nil, err
		}

		c.mu.Lock()
		if c.generation != generation {
			c.mu.Unlock()
			if attempt < maxRefreshAttempts {
				tracer.Step("invalidated_while_loading").WithInt("attempt", attempt).Log()
				continue
			}
			tracer.Step("snapshot_not_cached").Log()
			return &CatalogSnapshot{Catalog: catalog, Defaults: defaults, LoadedAt: time.Now()}, nil
		}
		c.version++
		snapshot := &CatalogSnapshot{
			Version:  c.version,
			Catalog:  catalog,
			Defaults: defaults,
			LoadedAt: time.Now(),
		}
		c.snapshot = snapshot
		c.mu.Unlock()

		metrics.IncreaseCatalogRefreshMetric("success")
		metrics.UpdateCatalogVersionMetric(snapshot.Version)
		tracer.Success().WithInt("materials", snapshot.Catalog.Len()).WithInt("version", int(snapshot.Version)).Log()

		return snapshot, nil
	}
}

func (c *CatalogCache) load(ctx context.Context, tracer *log.OperationTracer) (*bom.Catalog, bom.Defaults, error) {
	materials, err := c.store.Material().List(ctx, nil)
	if err != nil {
		return nil, bom.Defaults{}, fmt.Errorf("failed to load materials: %w", err)
	}

	record := map[string]any{}
	parameter, err := c.store.Parameter().Get(ctx, model.DefaultsParameterID)
	switch {
	case err == nil:
		record = parameter.ValueMap()
	case errors.Is(err, store.ErrRecordNotFound):
		// a missing record means fallback defaults
		tracer.Step("defaults_missing").Log()
	default:
		return nil, bom.Defaults{}, fmt.Errorf("failed to load defaults: %w", err)
	}

	return bom.NewCatalog(mappers.MaterialListToBom(materials)), mappers.ProjectDefaults(record), nil
}

// Invalidate drops the cached snapshot. The next Snapshot call reloads it, and a
// load already running when Invalidate is called does not get published.
func (c *CatalogCache) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.generation++
	c.snapshot = nil
}

// Run refreshes the snapshot on a jittered interval until ctx is done.
func (c *CatalogCache) Run(ctx context.Context, interval time.Duration) {
	refreshTicker := jitterbug.New(interval, &jitterbug.Norm{Stdev: interval / 20, Mean: 0})
	defer refreshTicker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-refreshTicker.C:
			// errors are logged by Refresh; the previous snapshot stays in use
			_, _ = c.Refresh(ctx)
		}
	}
}
