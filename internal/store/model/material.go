package model

import (
	"encoding/json"
	"time"
)

type Material struct {
	ID          string `gorm:"primaryKey;type:TEXT;"`
	CategoryID  string `gorm:"index;not null"`
	Description string
	Unit        string
	Spec        *JSONField[map[string]any]
	Stock       float64 `gorm:"not null;default:0"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

type MaterialList []Material

func (m Material) String() string {
	val, _ := json.Marshal(m)
	return string(val)
}

// SpecMap returns the specification map, never nil.
func (m Material) SpecMap() map[string]any {
	if m.Spec == nil || m.Spec.Data == nil {
		return map[string]any{}
	}
	return m.Spec.Data
}
