package bom

// FlatRateBasis selects what a flat-rate quantity is multiplied with.
type FlatRateBasis string

const (
	PerInstallation FlatRateBasis = "installation"
	PerInverter     FlatRateBasis = "inverter"
	PerModule       FlatRateBasis = "module"
	PerString       FlatRateBasis = "string"
	PerRow          FlatRateBasis = "row"
	// PerSubsystem multiplies with the configured quantity of FlatRate.Subsystem.
	PerSubsystem FlatRateBasis = "subsystem"
)

// FlatRate is a consumable appended in a fixed or device-count-scaled quantity.
type FlatRate struct {
	Name       string        `json:"name"`
	Category   string        `json:"category"`
	MaterialID string        `json:"materialId"`
	Quantity   float64       `json:"quantity"`
	Basis      FlatRateBasis `json:"basis"`
	Subsystem  SubsystemKind `json:"subsystem,omitempty"`
}

// Defaults is the typed parameter set consumed by the recommendation engine and the rules.
type Defaults struct {
	// AmpacityMaxCurrent holds the maximum current per band, indexed like StandardCrossSections.
	AmpacityMaxCurrent [BandCount]float64 `json:"ampacityMaxCurrent"`
	// CableMaterials holds the standard cable material per band.
	CableMaterials [BandCount]string `json:"cableMaterials"`
	// BreakerMaterials holds the standard breaker material per band.
	BreakerMaterials   [BandCount]string `json:"breakerMaterials"`
	WallboxRCDMaterial string            `json:"wallboxRcdMaterial,omitempty"`
	// CableLength is the cable length in metres per device, by device class.
	CableLength map[DeviceClass]float64 `json:"cableLength,omitempty"`

	MountingHooksPerModule float64 `json:"mountingHooksPerModule"`

	ConnectorPairsPerString float64 `json:"connectorPairsPerString"`
	DCCableMaterial         string  `json:"dcCableMaterial,omitempty"`
	DCCableLengthPerString  float64 `json:"dcCableLengthPerString"`

	SmartDongleMaterial string `json:"smartDongleMaterial,omitempty"`

	GroundingConsumableMaterial string  `json:"groundingConsumableMaterial,omitempty"`
	GroundingConsumablePerRod   float64 `json:"groundingConsumablePerRod"`

	DecalMaterial        string  `json:"decalMaterial,omitempty"`
	DecalBatteryMaterial string  `json:"decalBatteryMaterial,omitempty"`
	DecalBackupMaterial  string  `json:"decalBackupMaterial,omitempty"`
	DecalQuantity        float64 `json:"decalQuantity"`

	FlatRates []FlatRate `json:"flatRates,omitempty"`
}

// CableLengthFor returns the per-device cable length of class.
func (d Defaults) CableLengthFor(class DeviceClass) float64 {
	return d.CableLength[class]
}
