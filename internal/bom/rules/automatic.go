package rules

import "github.com/solarwerk/pv-planner/internal/bom"

// ConductorsPerString counts the plus and minus conductor of a DC string.
const ConductorsPerString = 2

var (
	_ bom.Rule = (*PVConnectors)(nil)
	_ bom.Rule = (*DCCable)(nil)
	_ bom.Rule = (*SmartDongle)(nil)
	_ bom.Rule = (*GroundingConsumable)(nil)
	_ bom.Rule = (*Decal)(nil)
)

// PVConnectors adds connector pairs per string.
type PVConnectors struct{}

func NewPVConnectors() *PVConnectors { return &PVConnectors{} }

func (r *PVConnectors) Name() string { return "pv-connectors" }

func (r *PVConnectors) Apply(in *bom.Input, out *bom.Sink) {
	stringCount := float64(in.Configuration.TotalStrings())
	out.Add(in.Configuration.Mounting.ConnectorPairID, stringCount*in.Defaults.ConnectorPairsPerString, CategoryDC)
}

// DCCable adds the solar cable of all strings, both conductors.
type DCCable struct{}

func NewDCCable() *DCCable { return &DCCable{} }

func (r *DCCable) Name() string { return "dc-cable" }

func (r *DCCable) Apply(in *bom.Input, out *bom.Sink) {
	stringCount := float64(in.Configuration.TotalStrings())
	out.Add(in.Defaults.DCCableMaterial, stringCount*in.Defaults.DCCableLengthPerString*ConductorsPerString, CategoryDC)
}

// SmartDongle adds a dongle for every inverter that declares it has none built in,
// unless an energy management system or an explicit dongle is selected.
type SmartDongle struct{}

func NewSmartDongle() *SmartDongle { return &SmartDongle{} }

func (r *SmartDongle) Name() string { return "smart-dongle" }

func (r *SmartDongle) Apply(in *bom.Input, out *bom.Sink) {
	cfg := in.Configuration
	if cfg.HasSubsystem(bom.EnergyManagement) || cfg.HasSubsystem(bom.SmartDongle) {
		return
	}
	var missing float64
	for _, inv := range cfg.Inverters {
		m, ok := in.Catalog.ByID(inv.TypeID)
		if !ok {
			continue
		}
		// only an explicit "not included" counts; undeclared inverters are skipped
		if included, declared := bom.SpecBool(m, DongleIncludedKeys...); declared && !included {
			missing += float64(inv.Quantity)
		}
	}
	out.Add(in.Defaults.SmartDongleMaterial, missing, CategoryAccessory)
}

// GroundingConsumable adds the consumables of the selected grounding rods.
type GroundingConsumable struct{}

func NewGroundingConsumable() *GroundingConsumable { return &GroundingConsumable{} }

func (r *GroundingConsumable) Name() string { return "grounding-consumable" }

func (r *GroundingConsumable) Apply(in *bom.Input, out *bom.Sink) {
	sel, ok := in.Configuration.Subsystem(bom.GroundingRod)
	if !ok {
		return
	}
	out.Add(in.Defaults.GroundingConsumableMaterial, float64(sel.Quantity)*in.Defaults.GroundingConsumablePerRod, CategoryConsumable)
}

// Decal adds exactly one installation decal: backup power before battery before plain.
// Decal adds the installation label. The fallback order is described in the bom package docs.
type Decal struct{}

func NewDecal() *Decal { return &Decal{} }

func (r *Decal) Name() string { return "decal" }

func (r *Decal) Apply(in *bom.Input, out *bom.Sink) {
	cfg := in.Configuration
	d := in.Defaults
	candidates := []struct {
		applies  bool
		material string
	}{
		{applies: cfg.HasSubsystem(bom.BackupPower), material: d.DecalBackupMaterial},
		{applies: cfg.HasSubsystem(bom.Battery), material: d.DecalBatteryMaterial},
		{applies: true, material: d.DecalMaterial},
	}

	qty := d.DecalQuantity
	if qty <= 0 {
		qty = 1
	}
	for _, c := range candidates {
		if !c.applies || c.material == "" {
			continue
		}
		if _, ok := in.Catalog.ByID(c.material); !ok {
			continue
		}
		out.Add(c.material, qty, CategoryLabel)
		return
	}
}
