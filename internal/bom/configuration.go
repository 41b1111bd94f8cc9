package bom

import (
	"encoding/json"
	"fmt"
	"math"
	"sort"
)

// Count is a non-negative integer count. It decodes from JSON numbers and from
// strings; negative or unparsable input becomes 0.
type Count int

// UnmarshalJSON implements json.Unmarshaler.
func (c *Count) UnmarshalJSON(data []byte) error {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		*c = 0
		return nil
	}
	*c = ToCount(raw)
	return nil
}

// ToCount coerces v to a Count.
func ToCount(v any) Count {
	n := math.Floor(ParseNumber(v))
	if n <= 0 {
		return 0
	}
	if n > math.MaxInt32 {
		return Count(math.MaxInt32)
	}
	return Count(n)
}

// Amount is a non-negative quantity that decodes leniently like Count but keeps fractions.
type Amount float64

// UnmarshalJSON implements json.Unmarshaler.
func (a *Amount) UnmarshalJSON(data []byte) error {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		*a = 0
		return nil
	}
	n := ParseNumber(raw)
	if n < 0 {
		n = 0
	}
	*a = Amount(n)
	return nil
}

// RoofType selects the mounting geometry.
type RoofType string

const (
	RoofTile        RoofType = "tile"
	RoofTrapezoidal RoofType = "trapezoidal"
	RoofFlat        RoofType = "flat"
)

// LayoutRow is one row of modules.
type LayoutRow struct {
	ModuleCount Count `json:"moduleCount"`
}

// PVString is a series-connected chain of modules feeding one inverter input.
type PVString struct {
	Name        string `json:"name"`
	ModuleCount Count  `json:"moduleCount"`
}

// Inverter is one configured inverter type.
type Inverter struct {
	TypeID   string     `json:"typeId"`
	Quantity Count      `json:"quantity"`
	Strings  []PVString `json:"strings,omitempty"`
}

// Mounting holds the mounting-system references. Profile, ProfileConnector and
// EndCap are only read for tile roofs.
type Mounting struct {
	SystemID           string `json:"systemId,omitempty"`
	FasteningID        string `json:"fasteningId,omitempty"`
	EndClampID         string `json:"endClampId,omitempty"`
	MidClampID         string `json:"midClampId,omitempty"`
	ConnectorPairID    string `json:"connectorPairId,omitempty"`
	ProfileID          string `json:"profileId,omitempty"`
	ProfileConnectorID string `json:"profileConnectorId,omitempty"`
	EndCapID           string `json:"endCapId,omitempty"`
}

// SubsystemKind enumerates the optional subsystems of an installation.
type SubsystemKind string

const (
	Optimizer            SubsystemKind = "optimizer"
	Battery              SubsystemKind = "battery"
	Wallbox              SubsystemKind = "wallbox"
	EnergyManagement     SubsystemKind = "energy_management"
	BackupPower          SubsystemKind = "backup_power"
	SurgeProtection      SubsystemKind = "surge_protection"
	GroundingRod         SubsystemKind = "grounding_rod"
	MeterCabinet         SubsystemKind = "meter_cabinet"
	GeneratorJunctionBox SubsystemKind = "generator_junction_box"
	AuxiliaryPowerSupply SubsystemKind = "auxiliary_power_supply"
	SmartDongle          SubsystemKind = "smart_dongle"
)

// SubsystemKinds lists every kind in derivation order.
var SubsystemKinds = []SubsystemKind{
	Optimizer,
	Battery,
	Wallbox,
	EnergyManagement,
	BackupPower,
	SurgeProtection,
	GroundingRod,
	MeterCabinet,
	GeneratorJunctionBox,
	AuxiliaryPowerSupply,
	SmartDongle,
}

// Selection pairs a material reference with its quantity.
type Selection struct {
	MaterialID string `json:"materialId,omitempty"`
	Quantity   Amount `json:"quantity,omitempty"`
}

// Set reports whether both halves of the pair are present.
func (s Selection) Set() bool {
	return s.MaterialID != "" && s.Quantity > 0
}

// Paired reports whether the pair is either fully set or fully empty.
func (s Selection) Paired() bool {
	return (s.MaterialID != "") == (s.Quantity > 0)
}

// Configuration describes a planned installation. Any subset of fields may be unset.
type Configuration struct {
	ModuleID     string                      `json:"moduleId,omitempty"`
	Roof         RoofType                    `json:"roof,omitempty"`
	OrientationA []LayoutRow                 `json:"orientationA,omitempty"`
	OrientationB []LayoutRow                 `json:"orientationB,omitempty"`
	Inverters    []Inverter                  `json:"inverters,omitempty"`
	Mounting     Mounting                    `json:"mounting"`
	Subsystems   map[SubsystemKind]Selection `json:"subsystems,omitempty"`
	ManualItems  []LineItem                  `json:"manualItems,omitempty"`
}

// Subsystem returns the selection for kind if it is fully set.
func (c Configuration) Subsystem(kind SubsystemKind) (Selection, bool) {
	sel, ok := c.Subsystems[kind]
	if !ok || !sel.Set() {
		return Selection{}, false
	}
	return sel, true
}

// HasSubsystem reports whether kind is fully set.
func (c Configuration) HasSubsystem(kind SubsystemKind) bool {
	_, ok := c.Subsystem(kind)
	return ok
}

// UnpairedSubsystems returns the kinds whose reference and quantity are not set together.
func (c Configuration) UnpairedSubsystems() []SubsystemKind {
	var res []SubsystemKind
	for kind, sel := range c.Subsystems {
		if !sel.Paired() {
			res = append(res, kind)
		}
	}
	sort.Slice(res, func(i, j int) bool { return res[i] < res[j] })
	return res
}

// TotalStrings counts the strings across all inverters.
func (c Configuration) TotalStrings() int {
	n := 0
	for _, inv := range c.Inverters {
		n += len(inv.Strings)
	}
	return n
}

// StringModules sums the module counts of all strings.
func (c Configuration) StringModules() int {
	n := 0
	for _, inv := range c.Inverters {
		for _, s := range inv.Strings {
			n += int(s.ModuleCount)
		}
	}
	return n
}

func (k SubsystemKind) String() string {
	return string(k)
}

func (r RoofType) String() string {
	if r == "" {
		return "unset"
	}
	return string(r)
}

// Validate returns one message per paired-field violation.
func (c Configuration) Validate() []string {
	var res []string
	for _, kind := range c.UnpairedSubsystems() {
		res = append(res, fmt.Sprintf("%s: material and quantity must be set together, selection ignored", kind))
	}
	return res
}
