package bom

// DeviceClass is a current-carrying device class that receives protection components.
type DeviceClass string

const (
	InverterClass DeviceClass = "inverter"
	WallboxClass  DeviceClass = "wallbox"
	BackupClass   DeviceClass = "backup"
)

// DeviceClasses lists the classes in derivation order.
var DeviceClasses = []DeviceClass{InverterClass, WallboxClass, BackupClass}

// RatedCurrentKeys are the spec keys tried, in order, for a device's rated current.
var RatedCurrentKeys = []string{"ratedCurrent", "maxAcOutputCurrent", "nominalCurrent"}

// Recommendation is the protection set for one device class. Empty ids mean "none".
type Recommendation struct {
	BreakerID string `json:"breakerId,omitempty"`
	CableID   string `json:"cableId,omitempty"`
	RCDID     string `json:"rcdId,omitempty"`
}

// IsZero reports whether no component is recommended.
func (r Recommendation) IsZero() bool {
	return r == Recommendation{}
}

// Recommendations is keyed by device class. Overrides use the same shape.
type Recommendations map[DeviceClass]Recommendation

// Device is the reference device of a class and its configured quantity.
type Device struct {
	MaterialID string
	Quantity   float64
}

// ReferenceDevice returns the device that dimensions the protection of class.
// For inverters only the first configured inverter is used.
func (c Configuration) ReferenceDevice(class DeviceClass) (Device, bool) {
	switch class {
	case InverterClass:
		for _, inv := range c.Inverters {
			if inv.TypeID == "" {
				continue
			}
			return Device{MaterialID: inv.TypeID, Quantity: float64(inv.Quantity)}, true
		}
		return Device{}, false
	case WallboxClass:
		if sel, ok := c.Subsystem(Wallbox); ok {
			return Device{MaterialID: sel.MaterialID, Quantity: float64(sel.Quantity)}, true
		}
	case BackupClass:
		if sel, ok := c.Subsystem(BackupPower); ok {
			return Device{MaterialID: sel.MaterialID, Quantity: float64(sel.Quantity)}, true
		}
	}
	return Device{}, false
}

// Recommend proposes breaker, cable and RCD per device class. Incomplete data
// yields empty recommendations, never an error.
func Recommend(cfg Configuration, catalog *Catalog, defaults Defaults) Recommendations {
	table := NewAmpacityTable(defaults.AmpacityMaxCurrent)
	res := make(Recommendations, len(DeviceClasses))
	for _, class := range DeviceClasses {
		res[class] = recommendFor(cfg, class, catalog, defaults, table)
	}
	return res
}

func recommendFor(cfg Configuration, class DeviceClass, catalog *Catalog, defaults Defaults, table AmpacityTable) Recommendation {
	device, ok := cfg.ReferenceDevice(class)
	if !ok {
		return Recommendation{}
	}

	var rec Recommendation
	m, _ := catalog.ByID(device.MaterialID)
	if current := SpecNumber(m, RatedCurrentKeys...); current > 0 {
		band := table.Lookup(current)
		rec.CableID = defaults.CableMaterials[band.Index]
		rec.BreakerID = defaults.BreakerMaterials[band.Index]
	}
	if class == WallboxClass {
		rec.RCDID = defaults.WallboxRCDMaterial
	}
	return rec
}

// MergeOverrides returns, per class and per field, the override when set and the computed value otherwise.
func MergeOverrides(computed, overrides Recommendations) Recommendations {
	res := make(Recommendations, len(DeviceClasses))
	for _, class := range DeviceClasses {
		c := computed[class]
		o := overrides[class]
		res[class] = Recommendation{
			BreakerID: firstNonEmpty(o.BreakerID, c.BreakerID),
			CableID:   firstNonEmpty(o.CableID, c.CableID),
			RCDID:     firstNonEmpty(o.RCDID, c.RCDID),
		}
	}
	return res
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
