package service

import (
	"context"
	"fmt"
	"time"

	"github.com/solarwerk/pv-planner/internal/bom"
	"github.com/solarwerk/pv-planner/internal/bom/rules"
	"github.com/solarwerk/pv-planner/pkg/log"
	"github.com/solarwerk/pv-planner/pkg/metrics"
)

// DerivationResult is a derivation together with the snapshot it was computed on.
type DerivationResult struct {
	rules.Derivation
	CatalogVersion uint64 `json:"catalogVersion"`
	Fingerprint    string `json:"fingerprint"`
}

type BOMService struct {
	catalog *CatalogCache
	memo    *DerivationMemo
	engine  *bom.Engine
	logger  *log.StructuredLogger
}

func NewBOMService(catalog *CatalogCache, memo *DerivationMemo) *BOMService {
	return &BOMService{
		catalog: catalog,
		memo:    memo,
		engine:  rules.NewEngine(),
		logger:  log.NewDebugLogger("bom_service"),
	}
}

// Derive computes the BOM of cfg on the current catalog snapshot.
// source names the caller in the derivation metrics.
func (b *BOMService) Derive(ctx context.Context, source string, cfg bom.Configuration, overrides bom.Recommendations) (*DerivationResult, error) {
	tracer := b.logger.WithContext(ctx).Operation("derive_bom").
		WithString("source", source).
		WithString("module_id", cfg.ModuleID).
		WithString("roof", cfg.Roof.String()).
		WithInt("inverters", len(cfg.Inverters)).
		Build()

	snapshot, err := b.catalog.Snapshot(ctx)
	if err != nil {
		tracer.Error(err).Log()
		return nil, fmt.Errorf("failed to get catalog snapshot: %w", err)
	}

	fingerprint, err := Fingerprint(cfg, overrides, snapshot.Version)
	if err != nil {
		tracer.Error(err).Log()
		return nil, NewErrInvalidRequest("configuration cannot be encoded: %v", err)
	}
	metrics.UniqueConfigurationsPerWeek.Observe(fingerprint)

	result := &DerivationResult{CatalogVersion: snapshot.Version, Fingerprint: fingerprint}

	// uncached snapshots carry version 0 and are never memoized
	cacheable := snapshot.Version != 0
	if cacheable {
		if d, found := b.memo.Get(fingerprint); found {
			metrics.IncreaseMemoMetric(true)
			result.Derivation = d
			tracer.Success().WithBool("memoized", true).WithInt("items", len(d.BOM)).Log()
			return result, nil
		}
	}
	metrics.IncreaseMemoMetric(false)

	start := time.Now()
	d := rules.DeriveWith(b.engine, cfg, snapshot.Catalog, snapshot.Defaults, overrides)
	metrics.ObserveDerivationDuration(time.Since(start).Seconds())
	metrics.IncreaseDerivationsTotalMetric(source)
	metrics.AddDerivationWarnings(len(d.Warnings))

	if cacheable {
		b.memo.Put(fingerprint, d)
	}
	result.Derivation = d

	tracer.Success().
		WithBool("memoized", false).
		WithInt("items", len(d.BOM)).
		WithInt("warnings", len(d.Warnings)).
		WithInt("total_modules", d.Totals.TotalModules).
		Log()

	return result, nil
}

// Invalidate drops the catalog snapshot and every memoized derivation.
func (b *BOMService) Invalidate() {
	b.catalog.Invalidate()
	b.memo.Reset()
}
