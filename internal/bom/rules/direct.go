package rules

import "github.com/solarwerk/pv-planner/internal/bom"

var (
	_ bom.Rule = (*Modules)(nil)
	_ bom.Rule = (*Inverters)(nil)
	_ bom.Rule = (*Subsystems)(nil)
)

// Modules adds the selected PV module once per module in the layout.
type Modules struct{}

func NewModules() *Modules { return &Modules{} }

func (r *Modules) Name() string { return "modules" }

func (r *Modules) Apply(in *bom.Input, out *bom.Sink) {
	out.AddConfigured(in.Configuration.ModuleID, float64(in.Totals.TotalModules), CategoryModule)
}

// Inverters adds every configured inverter with its own quantity.
type Inverters struct{}

func NewInverters() *Inverters { return &Inverters{} }

func (r *Inverters) Name() string { return "inverters" }

func (r *Inverters) Apply(in *bom.Input, out *bom.Sink) {
	for _, inv := range in.Configuration.Inverters {
		out.AddConfigured(inv.TypeID, float64(inv.Quantity), CategoryInverter)
	}
}

// Subsystems adds every fully set optional subsystem selection.
// Half-set selections are ignored here and reported by PairedFields.
type Subsystems struct{}

func NewSubsystems() *Subsystems { return &Subsystems{} }

func (r *Subsystems) Name() string { return "subsystems" }

func (r *Subsystems) Apply(in *bom.Input, out *bom.Sink) {
	for _, kind := range bom.SubsystemKinds {
		sel, ok := in.Configuration.Subsystem(kind)
		if !ok {
			continue
		}
		out.AddConfigured(sel.MaterialID, float64(sel.Quantity), kind.String())
	}
}
