package rules

import "github.com/solarwerk/pv-planner/internal/bom"

var _ bom.Rule = (*FlatRates)(nil)

// FlatRates appends the consumables of the defaults' flat-rate table. Each entry
// is multiplied with its basis; entries without material or quantity are skipped.
type FlatRates struct{}

func NewFlatRates() *FlatRates { return &FlatRates{} }

func (r *FlatRates) Name() string { return "flat-rates" }

func (r *FlatRates) Apply(in *bom.Input, out *bom.Sink) {
	for _, fr := range in.Defaults.FlatRates {
		if fr.MaterialID == "" || !(fr.Quantity > 0) {
			continue
		}
		category := fr.Category
		if category == "" {
			category = CategoryConsumable
		}
		out.Add(fr.MaterialID, fr.Quantity*FlatRateMultiplier(in, fr), category)
	}
}

// FlatRateMultiplier returns the count the entry's quantity is scaled with.
func FlatRateMultiplier(in *bom.Input, fr bom.FlatRate) float64 {
	switch fr.Basis {
	case bom.PerInstallation, "":
		return 1
	case bom.PerInverter:
		return inverterUnits(in.Configuration)
	case bom.PerModule:
		return float64(in.Totals.TotalModules)
	case bom.PerString:
		return float64(in.Configuration.TotalStrings())
	case bom.PerRow:
		return float64(in.Totals.TotalRows)
	case bom.PerSubsystem:
		sel, ok := in.Configuration.Subsystem(fr.Subsystem)
		if !ok {
			return 0
		}
		return float64(sel.Quantity)
	default:
		return 0
	}
}
