package rules

import "github.com/solarwerk/pv-planner/internal/bom"

func testCatalog() *bom.Catalog {
	return bom.NewCatalog([]bom.Material{
		{ID: "mod-400", CategoryID: "module", Description: "PV module 400 W", Spec: map[string]any{"width": 1000, "length": "1700"}},
		{ID: "inv-nd", CategoryID: "inverter", Description: "Inverter 10 kW", Spec: map[string]any{"maxAcOutputCurrent": "14,5", "smartDongleIncluded": false}},
		{ID: "inv-d", CategoryID: "inverter", Description: "Inverter 5 kW", Spec: map[string]any{"ratedCurrent": 8, "smartDongleIncluded": "ja"}},
		{ID: "inv-x", CategoryID: "inverter", Description: "Inverter 3 kW"},
		{ID: "hook", CategoryID: "mounting", Description: "Roof hook"},
		{ID: "screw", CategoryID: "mounting", Description: "Wood screw"},
		{ID: "end-clamp", CategoryID: "mounting", Description: "End clamp", Spec: map[string]any{"width": 30}},
		{ID: "mid-clamp", CategoryID: "mounting", Description: "Mid clamp", Spec: map[string]any{"clampWidth": "25"}},
		{ID: "profile", CategoryID: "mounting", Description: "Profile 3.0 m", Spec: map[string]any{"length": 3000}},
		{ID: "profile-conn", CategoryID: "mounting", Description: "Profile connector"},
		{ID: "end-cap", CategoryID: "mounting", Description: "End cap"},
		{ID: "mc4", CategoryID: "dc", Description: "MC4 connector pair"},
		{ID: "dc-6", CategoryID: "dc", Description: "Solar cable 6 mm²"},
		{ID: "dongle", CategoryID: "accessory", Description: "Smart dongle"},
		{ID: "ems", CategoryID: "energy_management", Description: "Energy manager"},
		{ID: "rod", CategoryID: "grounding", Description: "Grounding rod"},
		{ID: "rod-clamp", CategoryID: "consumable", Description: "Grounding clamp"},
		{ID: "decal", CategoryID: "label", Description: "PV decal"},
		{ID: "decal-bat", CategoryID: "label", Description: "PV decal battery"},
		{ID: "decal-backup", CategoryID: "label", Description: "PV decal backup"},
		{ID: "bat-5", CategoryID: "battery", Description: "Battery 5 kWh"},
		{ID: "wb-11", CategoryID: "wallbox", Description: "Wallbox 11 kW", Spec: map[string]any{"nominalCurrent": 16}},
		{ID: "ups", CategoryID: "backup_power", Description: "Backup box", Spec: map[string]any{"ratedCurrent": 25}},
		{ID: "cab-1.5", CategoryID: "cable", Description: "NYM 5x1.5"},
		{ID: "cab-2.5", CategoryID: "cable", Description: "NYM 5x2.5"},
		{ID: "cab-4", CategoryID: "cable", Description: "NYM 5x4"},
		{ID: "cab-6", CategoryID: "cable", Description: "NYM 5x6"},
		{ID: "cab-10", CategoryID: "cable", Description: "NYM 5x10"},
		{ID: "cab-16", CategoryID: "cable", Description: "NYM 5x16"},
		{ID: "b16", CategoryID: "breaker", Description: "MCB B16"},
		{ID: "b20", CategoryID: "breaker", Description: "MCB B20"},
		{ID: "b25", CategoryID: "breaker", Description: "MCB B25"},
		{ID: "b32", CategoryID: "breaker", Description: "MCB B32"},
		{ID: "b50", CategoryID: "breaker", Description: "MCB B50"},
		{ID: "b63", CategoryID: "breaker", Description: "MCB B63"},
		{ID: "rcd", CategoryID: "rcd", Description: "RCD type A 40 A"},
		{ID: "sleeve", CategoryID: "consumable", Description: "Wire end sleeves"},
		{ID: "lug-16", CategoryID: "consumable", Description: "Cable lug 16 mm²"},
		{ID: "lug-25", CategoryID: "consumable", Description: "Cable lug 25 mm²"},
		{ID: "conduit", CategoryID: "consumable", Description: "Conduit M25"},
		{ID: "ties", CategoryID: "consumable", Description: "Cable ties"},
	})
}

func testDefaults() bom.Defaults {
	return bom.Defaults{
		AmpacityMaxCurrent: [bom.BandCount]float64{13, 18, 24, 31, 44, 59},
		CableMaterials:     [bom.BandCount]string{"cab-1.5", "cab-2.5", "cab-4", "cab-6", "cab-10", "cab-16"},
		BreakerMaterials:   [bom.BandCount]string{"b16", "b20", "b25", "b32", "b50", "b63"},
		WallboxRCDMaterial: "rcd",
		CableLength: map[bom.DeviceClass]float64{
			bom.InverterClass: 10,
			bom.WallboxClass:  15,
			bom.BackupClass:   5,
		},
		MountingHooksPerModule:      1.5,
		ConnectorPairsPerString:     2,
		DCCableMaterial:             "dc-6",
		DCCableLengthPerString:      12.5,
		SmartDongleMaterial:         "dongle",
		GroundingConsumableMaterial: "rod-clamp",
		GroundingConsumablePerRod:   2,
		DecalMaterial:               "decal",
		DecalBatteryMaterial:        "decal-bat",
		DecalBackupMaterial:         "decal-backup",
		DecalQuantity:               1,
		FlatRates: []bom.FlatRate{
			{Name: "sleeves", MaterialID: "sleeve", Quantity: 1, Basis: bom.PerInstallation},
			{Name: "lugs", MaterialID: "lug-16", Quantity: 4, Basis: bom.PerInverter},
			{Name: "battery lugs", MaterialID: "lug-25", Quantity: 2, Basis: bom.PerSubsystem, Subsystem: bom.Battery},
			{Name: "conduit", MaterialID: "conduit", Quantity: 0.5, Basis: bom.PerString, Category: "installation"},
			{Name: "ties", MaterialID: "ties", Quantity: 3, Basis: bom.PerRow},
			{Name: "unset", MaterialID: "", Quantity: 3, Basis: bom.PerRow},
		},
	}
}

func layout(counts ...int) []bom.LayoutRow {
	res := make([]bom.LayoutRow, 0, len(counts))
	for _, c := range counts {
		res = append(res, bom.LayoutRow{ModuleCount: bom.Count(c)})
	}
	return res
}

func pvStrings(counts ...int) []bom.PVString {
	res := make([]bom.PVString, 0, len(counts))
	for i, c := range counts {
		res = append(res, bom.PVString{Name: string(rune('A' + i)), ModuleCount: bom.Count(c)})
	}
	return res
}

// baseConfiguration is a 10 module flat-roof installation with one inverter and two strings.
func baseConfiguration() bom.Configuration {
	return bom.Configuration{
		ModuleID:     "mod-400",
		Roof:         bom.RoofFlat,
		OrientationA: layout(6, 4),
		Inverters: []bom.Inverter{
			{TypeID: "inv-d", Quantity: 1, Strings: pvStrings(5, 5)},
		},
		Mounting: bom.Mounting{
			SystemID:        "hook",
			FasteningID:     "screw",
			EndClampID:      "end-clamp",
			MidClampID:      "mid-clamp",
			ConnectorPairID: "mc4",
		},
	}
}

func runRule(r bom.Rule, cfg bom.Configuration, defaults bom.Defaults) ([]bom.LineItem, []string) {
	catalog := testCatalog()
	in := &bom.Input{
		Configuration: cfg,
		Totals:        bom.ComputeLayoutTotals(cfg.OrientationA, cfg.OrientationB),
		Catalog:       catalog,
		Defaults:      defaults,
		Chosen:        bom.MergeOverrides(bom.Recommend(cfg, catalog, defaults), nil),
	}
	sink := bom.NewSink(catalog)
	r.Apply(in, sink)
	return sink.Items(), sink.Warnings()
}

func find(items []bom.LineItem, id string) (bom.LineItem, bool) {
	for _, it := range items {
		if it.MaterialID == id {
			return it, true
		}
	}
	return bom.LineItem{}, false
}

func quantity(items []bom.LineItem, id string) float64 {
	it, _ := find(items, id)
	return it.Quantity
}
