package mappers

import (
	"github.com/solarwerk/pv-planner/internal/bom"
)

// Fallbacks applied when the defaults record leaves a value unset.
const (
	FallbackCableLength             = 10
	FallbackConnectorPairsPerString = 2
	FallbackDecalQuantity           = 1
)

// Band keys of the defaults record, indexed like bom.StandardCrossSections.
var (
	ampacityKeys = [bom.BandCount]string{
		"ampacityMaxCurrent_1_5",
		"ampacityMaxCurrent_2_5",
		"ampacityMaxCurrent_4",
		"ampacityMaxCurrent_6",
		"ampacityMaxCurrent_10",
		"ampacityMaxCurrent_16",
	}
	cableKeys = [bom.BandCount]string{
		"defaultCableMaterial_1_5",
		"defaultCableMaterial_2_5",
		"defaultCableMaterial_4",
		"defaultCableMaterial_6",
		"defaultCableMaterial_10",
		"defaultCableMaterial_16",
	}
	breakerKeys = [bom.BandCount]string{
		"defaultBreakerMaterial_16A",
		"defaultBreakerMaterial_20A",
		"defaultBreakerMaterial_25A",
		"defaultBreakerMaterial_32A",
		"defaultBreakerMaterial_50A",
		"defaultBreakerMaterial_63A",
	}
	cableLengthKeys = map[bom.DeviceClass]string{
		bom.InverterClass: "inverterCableLength",
		bom.WallboxClass:  "wallboxCableLength",
		bom.BackupClass:   "backupCableLength",
	}
)

// flatRateKey describes one {defaultXxxMaterial, xxx} pair of the record.
type flatRateKey struct {
	name        string
	materialKey string
	quantityKey string
	basis       bom.FlatRateBasis
	subsystem   bom.SubsystemKind
	category    string
}

// FlatRateKeys lists the flat-rate consumables in derivation order.
var FlatRateKeys = []flatRateKey{
	{name: "terminal sleeves", materialKey: "defaultTerminalSleeveMaterial", quantityKey: "terminalSleeves", basis: bom.PerInverter},
	{name: "cable lugs small", materialKey: "defaultCableLugSmallMaterial", quantityKey: "cableLugsSmall", basis: bom.PerInverter},
	{name: "cable lugs medium", materialKey: "defaultCableLugMediumMaterial", quantityKey: "cableLugsMedium", basis: bom.PerSubsystem, subsystem: bom.Battery},
	{name: "cable lugs large", materialKey: "defaultCableLugLargeMaterial", quantityKey: "cableLugsLarge", basis: bom.PerSubsystem, subsystem: bom.MeterCabinet},
	{name: "bonding conductor", materialKey: "defaultBondingConductorMaterial", quantityKey: "bondingConductor", basis: bom.PerInstallation},
	{name: "bonding terminal", materialKey: "defaultBondingTerminalMaterial", quantityKey: "bondingTerminals", basis: bom.PerInstallation},
	{name: "grounding clamps", materialKey: "defaultGroundingClampMaterial", quantityKey: "groundingClamps", basis: bom.PerRow},
	{name: "dowels", materialKey: "defaultDowelMaterial", quantityKey: "dowels", basis: bom.PerInverter},
	{name: "wall screws", materialKey: "defaultWallScrewMaterial", quantityKey: "wallScrews", basis: bom.PerInverter},
	{name: "conduit", materialKey: "defaultConduitMaterial", quantityKey: "conduit", basis: bom.PerInstallation},
	{name: "conduit clamps", materialKey: "defaultConduitClampMaterial", quantityKey: "conduitClamps", basis: bom.PerInstallation},
	{name: "cable ties", materialKey: "defaultCableTieMaterial", quantityKey: "cableTies", basis: bom.PerModule},
	{name: "uv cable ties", materialKey: "defaultUvCableTieMaterial", quantityKey: "uvCableTies", basis: bom.PerString},
	{name: "dc cable clips", materialKey: "defaultDcCableClipMaterial", quantityKey: "dcCableClips", basis: bom.PerRow},
	{name: "roof duct", materialKey: "defaultRoofDuctMaterial", quantityKey: "roofDucts", basis: bom.PerInstallation},
	{name: "sealant", materialKey: "defaultSealantMaterial", quantityKey: "sealant", basis: bom.PerInstallation},
	{name: "insulation tape", materialKey: "defaultInsulationTapeMaterial", quantityKey: "insulationTape", basis: bom.PerInstallation},
	{name: "dc labels", materialKey: "defaultDcLabelMaterial", quantityKey: "dcLabels", basis: bom.PerString, category: "label"},
	{name: "ac labels", materialKey: "defaultAcLabelMaterial", quantityKey: "acLabels", basis: bom.PerInverter, category: "label"},
	{name: "wallbox labels", materialKey: "defaultWallboxLabelMaterial", quantityKey: "wallboxLabels", basis: bom.PerSubsystem, subsystem: bom.Wallbox, category: "label"},
	{name: "surge protection terminals", materialKey: "defaultSurgeTerminalMaterial", quantityKey: "surgeTerminals", basis: bom.PerSubsystem, subsystem: bom.SurgeProtection},
}

// ProjectDefaults reshapes the flat defaults record into bom.Defaults.
// A nil record yields the fallback defaults.
func ProjectDefaults(record map[string]any) bom.Defaults {
	r := flatRecord(record)

	d := bom.Defaults{
		WallboxRCDMaterial:          r.str("defaultWallboxRcdMaterial"),
		CableLength:                 make(map[bom.DeviceClass]float64, len(cableLengthKeys)),
		MountingHooksPerModule:      r.num("mountingHooksPerModule"),
		ConnectorPairsPerString:     r.numOr("connectorPairsPerString", FallbackConnectorPairsPerString),
		DCCableMaterial:             r.str("defaultDcCableMaterial"),
		DCCableLengthPerString:      r.num("dcCableLengthPerString"),
		SmartDongleMaterial:         r.str("defaultSmartDongleMaterial"),
		GroundingConsumableMaterial: r.str("defaultGroundingConsumableMaterial"),
		GroundingConsumablePerRod:   r.num("groundingConsumablePerRod"),
		DecalMaterial:               r.str("defaultDecalMaterial"),
		DecalBatteryMaterial:        r.str("defaultDecalBatteryMaterial"),
		DecalBackupMaterial:         r.str("defaultDecalBackupMaterial"),
		DecalQuantity:               r.numOr("decalQuantity", FallbackDecalQuantity),
	}

	for i := 0; i < bom.BandCount; i++ {
		d.AmpacityMaxCurrent[i] = r.num(ampacityKeys[i])
		d.CableMaterials[i] = r.str(cableKeys[i])
		d.BreakerMaterials[i] = r.str(breakerKeys[i])
	}

	for class, key := range cableLengthKeys {
		d.CableLength[class] = r.numOr(key, FallbackCableLength)
	}

	for _, k := range FlatRateKeys {
		d.FlatRates = append(d.FlatRates, bom.FlatRate{
			Name:       k.name,
			Category:   k.category,
			MaterialID: r.str(k.materialKey),
			Quantity:   r.num(k.quantityKey),
			Basis:      k.basis,
			Subsystem:  k.subsystem,
		})
	}

	return d
}

type flatRecord map[string]any

func (r flatRecord) str(key string) string {
	v, ok := r[key]
	if !ok || v == nil {
		return ""
	}
	s, ok := v.(string)
	if !ok {
		return ""
	}
	return s
}

func (r flatRecord) num(key string) float64 {
	return r.numOr(key, 0)
}

// numOr returns fallback when key is missing or not a positive number.
func (r flatRecord) numOr(key string, fallback float64) float64 {
	v, ok := r[key]
	if !ok || v == nil {
		return fallback
	}
	n := bom.ParseNumber(v)
	if n <= 0 {
		return fallback
	}
	return n
}
