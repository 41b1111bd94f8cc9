package rules

import (
	"math"

	"github.com/solarwerk/pv-planner/internal/bom"
)

// Line item categories.
const (
	CategoryModule     = "module"
	CategoryInverter   = "inverter"
	CategoryMounting   = "mounting"
	CategoryDC         = "dc"
	CategoryProtection = "protection"
	CategoryConsumable = "consumable"
	CategoryLabel      = "label"
	CategoryAccessory  = "accessory"
)

// Spec keys tried, in priority order, for geometric attributes in millimetres.
var (
	ModuleWidthKeys   = []string{"width", "moduleWidth", "widthMm"}
	ModuleLengthKeys  = []string{"length", "moduleLength", "lengthMm", "height"}
	ProfileLengthKeys = []string{"length", "profileLength", "lengthMm"}
	ClampWidthKeys    = []string{"width", "clampWidth", "widthMm"}
	// DongleIncludedKeys declare whether an inverter ships with a built-in dongle.
	DongleIncludedKeys = []string{"smartDongleIncluded", "dongleIncluded", "integratedDongle"}
)

// ceil rounds up and clamps at 0.
func ceil(v float64) float64 {
	if !(v > 0) {
		return 0
	}
	return math.Ceil(v)
}

func inverterUnits(cfg bom.Configuration) float64 {
	var n float64
	for _, inv := range cfg.Inverters {
		if inv.TypeID == "" {
			continue
		}
		n += float64(inv.Quantity)
	}
	return n
}

func specOf(in *bom.Input, id string, keys []string) float64 {
	m, _ := in.Catalog.ByID(id)
	return bom.SpecNumber(m, keys...)
}
