package rules

import (
	"fmt"

	"github.com/solarwerk/pv-planner/internal/bom"
)

var (
	_ bom.Rule = (*StringCheck)(nil)
	_ bom.Rule = (*PairedFields)(nil)
)

// StringCheck warns when the modules wired into strings do not add up to the
// modules in the layout. The BOM is still derived from the layout.
type StringCheck struct{}

func NewStringCheck() *StringCheck { return &StringCheck{} }

func (r *StringCheck) Name() string { return "string-check" }

func (r *StringCheck) Apply(in *bom.Input, out *bom.Sink) {
	wired := in.Configuration.StringModules()
	if wired == in.Totals.TotalModules {
		return
	}
	out.Warn(fmt.Sprintf("string module count mismatch: strings contain %d modules, layout contains %d", wired, in.Totals.TotalModules))
}

// PairedFields reports subsystem selections that have only a material or only a quantity.
type PairedFields struct{}

func NewPairedFields() *PairedFields { return &PairedFields{} }

func (r *PairedFields) Name() string { return "paired-fields" }

func (r *PairedFields) Apply(in *bom.Input, out *bom.Sink) {
	for _, w := range in.Configuration.Validate() {
		out.Warn(w)
	}
}
