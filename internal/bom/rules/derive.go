package rules

import "github.com/solarwerk/pv-planner/internal/bom"

// Derivation is the complete output of one pipeline run.
type Derivation struct {
	bom.Result
	Totals          bom.LayoutTotals    `json:"totals"`
	Recommendations bom.Recommendations `json:"recommendations"`
	Chosen          bom.Recommendations `json:"chosen"`
}

// NewEngine returns an engine with every rule registered in derivation order.
func NewEngine(opts ...TileProfilesOption) *bom.Engine {
	e := bom.NewEngine()
	// direct
	e.Register(NewModules())
	e.Register(NewInverters())
	e.Register(NewSubsystems())
	// consistency
	e.Register(NewStringCheck())
	e.Register(NewPairedFields())
	// ratio
	e.Register(NewMountingHardware())
	e.Register(NewFastening())
	e.Register(NewEndClamps())
	e.Register(NewMidClamps())
	// geometry
	e.Register(NewTileProfiles(opts...))
	e.Register(NewEndCaps())
	// conditional
	e.Register(NewPVConnectors())
	e.Register(NewDCCable())
	e.Register(NewSmartDongle())
	e.Register(NewGroundingConsumable())
	e.Register(NewDecal())
	// flat rate
	e.Register(NewFlatRates())
	// recommended components
	e.Register(NewProtection())
	return e
}

var defaultEngine = NewEngine()

// Derive runs the whole pipeline: layout totals, recommendations, override merge,
// rules, consolidation and manual edits. It never fails; problems surface as warnings.
func Derive(cfg bom.Configuration, catalog *bom.Catalog, defaults bom.Defaults, overrides bom.Recommendations) Derivation {
	return DeriveWith(defaultEngine, cfg, catalog, defaults, overrides)
}

// DeriveWith is Derive on a caller-supplied engine.
func DeriveWith(engine *bom.Engine, cfg bom.Configuration, catalog *bom.Catalog, defaults bom.Defaults, overrides bom.Recommendations) Derivation {
	totals := bom.ComputeLayoutTotals(cfg.OrientationA, cfg.OrientationB)
	computed := bom.Recommend(cfg, catalog, defaults)
	chosen := bom.MergeOverrides(computed, overrides)

	result := engine.Run(bom.Input{
		Configuration: cfg,
		Totals:        totals,
		Catalog:       catalog,
		Defaults:      defaults,
		Chosen:        chosen,
	})
	if totals.TotalModules > 0 && len(cfg.ManualItems) > 0 {
		result.BOM = bom.ApplyManualEdits(result.BOM, cfg.ManualItems)
	}

	return Derivation{
		Result:          result,
		Totals:          totals,
		Recommendations: computed,
		Chosen:          chosen,
	}
}
