package rules

import (
	"math"

	"github.com/solarwerk/pv-planner/internal/bom"
)

const (
	// FasteningsPerHook is the number of fastening screws per mounting hook.
	FasteningsPerHook = 2
	// EndClampsPerRow covers two clamps on each end of a row.
	EndClampsPerRow = 4
	// MidClampsPerGap covers one clamp pair between two adjacent modules.
	MidClampsPerGap = 2
)

var (
	_ bom.Rule = (*MountingHardware)(nil)
	_ bom.Rule = (*Fastening)(nil)
	_ bom.Rule = (*EndClamps)(nil)
	_ bom.Rule = (*MidClamps)(nil)
)

// MountingHardwareQuantity is ceil(modules × hooks per module).
func MountingHardwareQuantity(in *bom.Input) float64 {
	return ceil(float64(in.Totals.TotalModules) * in.Defaults.MountingHooksPerModule)
}

// MountingHardware adds the mounting system's hooks.
type MountingHardware struct{}

func NewMountingHardware() *MountingHardware { return &MountingHardware{} }

func (r *MountingHardware) Name() string { return "mounting-hardware" }

func (r *MountingHardware) Apply(in *bom.Input, out *bom.Sink) {
	out.Add(in.Configuration.Mounting.SystemID, MountingHardwareQuantity(in), CategoryMounting)
}

// Fastening adds two fasteners per mounting hook.
type Fastening struct{}

func NewFastening() *Fastening { return &Fastening{} }

func (r *Fastening) Name() string { return "fastening" }

func (r *Fastening) Apply(in *bom.Input, out *bom.Sink) {
	out.Add(in.Configuration.Mounting.FasteningID, MountingHardwareQuantity(in)*FasteningsPerHook, CategoryMounting)
}

// EndClamps adds four end clamps per row.
type EndClamps struct{}

func NewEndClamps() *EndClamps { return &EndClamps{} }

func (r *EndClamps) Name() string { return "end-clamps" }

func (r *EndClamps) Apply(in *bom.Input, out *bom.Sink) {
	out.Add(in.Configuration.Mounting.EndClampID, float64(in.Totals.TotalRows*EndClampsPerRow), CategoryMounting)
}

// MidClamps adds one clamp pair per gap between modules of the same row.
type MidClamps struct{}

func NewMidClamps() *MidClamps { return &MidClamps{} }

func (r *MidClamps) Name() string { return "mid-clamps" }

func (r *MidClamps) Apply(in *bom.Input, out *bom.Sink) {
	gaps := math.Max(0, float64(in.Totals.TotalModules-in.Totals.TotalRows))
	out.Add(in.Configuration.Mounting.MidClampID, gaps*MidClampsPerGap, CategoryMounting)
}
