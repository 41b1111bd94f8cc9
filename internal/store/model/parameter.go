package model

import "time"

// DefaultsParameterID is the fixed id of the BOM defaults record.
const DefaultsParameterID = "bom-defaults"

// Parameter is a flat named record of configuration values.
type Parameter struct {
	ID        string `gorm:"primaryKey;type:TEXT;"`
	Record    *JSONField[map[string]any]
	UpdatedAt time.Time
}

func (p Parameter) ValueMap() map[string]any {
	if p.Record == nil || p.Record.Data == nil {
		return map[string]any{}
	}
	return p.Record.Data
}
