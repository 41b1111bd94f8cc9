package rules

import (
	"math"

	"github.com/solarwerk/pv-planner/internal/bom"
)

const (
	// DefaultOverhangMM is the profile overhang added four times per row.
	DefaultOverhangMM = 50.0
	// ConnectorsPerJoint is the number of profile connectors per joint between two profiles.
	ConnectorsPerJoint = 2
	// EndCapsPerRow closes both profile ends on both rails of a row.
	EndCapsPerRow = 4
)

var (
	_ bom.Rule = (*TileProfiles)(nil)
	_ bom.Rule = (*EndCaps)(nil)
)

// RowGeometry holds the dimensions, in millimetres, that size the profiles of one row.
type RowGeometry struct {
	UnitDimension  float64
	ProfileLength  float64
	EndClampWidth  float64
	MidClampWidth  float64
	OverhangLength float64
}

// RowProfiles returns the profiles and profile connectors needed for a row of
// modules. A zero profile length or module count yields zero.
func RowProfiles(modules int, g RowGeometry) (profiles int, connectors int) {
	if modules <= 0 || !(g.ProfileLength > 0) {
		return 0, 0
	}
	n := float64(modules)
	lengthTotal := n*g.UnitDimension*2 +
		4*g.OverhangLength +
		4*g.EndClampWidth +
		math.Max(0, n-1)*2*g.MidClampWidth

	profiles = int(ceil(lengthTotal / g.ProfileLength))
	connectors = max(0, profiles-1) * ConnectorsPerJoint
	return profiles, connectors
}

// TileProfiles sizes the mounting profiles and their connectors row by row on tile roofs.
// Orientation A rows are measured by module width, orientation B rows by module length.
type TileProfiles struct {
	overhang float64
}

// TileProfilesOption is a functional option for configuring a TileProfiles rule.
type TileProfilesOption func(*TileProfiles)

// WithOverhang sets the overhang in millimetres. Negative values are ignored.
func WithOverhang(mm float64) TileProfilesOption {
	return func(r *TileProfiles) {
		if mm >= 0 {
			r.overhang = mm
		}
	}
}

// NewTileProfiles creates a TileProfiles rule with the default overhang.
func NewTileProfiles(opts ...TileProfilesOption) *TileProfiles {
	res := TileProfiles{
		overhang: DefaultOverhangMM,
	}

	for _, opt := range opts {
		opt(&res)
	}

	return &res
}

func (r *TileProfiles) Name() string { return "tile-profiles" }

func (r *TileProfiles) Apply(in *bom.Input, out *bom.Sink) {
	cfg := in.Configuration
	if cfg.Roof != bom.RoofTile {
		return
	}

	base := RowGeometry{
		ProfileLength:  specOf(in, cfg.Mounting.ProfileID, ProfileLengthKeys),
		EndClampWidth:  specOf(in, cfg.Mounting.EndClampID, ClampWidthKeys),
		MidClampWidth:  specOf(in, cfg.Mounting.MidClampID, ClampWidthKeys),
		OverhangLength: r.overhang,
	}
	byWidth := base
	byWidth.UnitDimension = specOf(in, cfg.ModuleID, ModuleWidthKeys)
	byLength := base
	byLength.UnitDimension = specOf(in, cfg.ModuleID, ModuleLengthKeys)

	profiles, connectors := sumProfiles(cfg.OrientationA, byWidth)
	p, c := sumProfiles(cfg.OrientationB, byLength)
	profiles += p
	connectors += c

	out.Add(cfg.Mounting.ProfileID, float64(profiles), CategoryMounting)
	out.Add(cfg.Mounting.ProfileConnectorID, float64(connectors), CategoryMounting)
}

func sumProfiles(rows []bom.LayoutRow, g RowGeometry) (profiles int, connectors int) {
	for _, row := range rows {
		p, c := RowProfiles(int(row.ModuleCount), g)
		profiles += p
		connectors += c
	}
	return profiles, connectors
}

// EndCaps adds the profile end caps of tile roofs.
type EndCaps struct{}

func NewEndCaps() *EndCaps { return &EndCaps{} }

func (r *EndCaps) Name() string { return "end-caps" }

func (r *EndCaps) Apply(in *bom.Input, out *bom.Sink) {
	if in.Configuration.Roof != bom.RoofTile {
		return
	}
	out.Add(in.Configuration.Mounting.EndCapID, float64(in.Totals.TotalRows*EndCapsPerRow), CategoryMounting)
}
