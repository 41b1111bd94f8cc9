package model

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/schema"
)

// JSONField stores a value as a JSON document column.
type JSONField[T any] struct {
	Data T
}

func MakeJSONField[T any](data T) *JSONField[T] {
	return &JSONField[T]{Data: data}
}

// Scan implements sql.Scanner.
func (j *JSONField[T]) Scan(value any) error {
	var raw []byte
	switch v := value.(type) {
	case nil:
		var zero T
		j.Data = zero
		return nil
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return fmt.Errorf("cannot scan %T into a json field", value)
	}
	if len(raw) == 0 {
		return nil
	}
	return json.Unmarshal(raw, &j.Data)
}

// Value implements driver.Valuer.
func (j JSONField[T]) Value() (driver.Value, error) {
	raw, err := json.Marshal(j.Data)
	if err != nil {
		return nil, err
	}
	return string(raw), nil
}

func (JSONField[T]) GormDataType() string {
	return "json"
}

// GormDBDataType picks jsonb on PostgreSQL and a text column elsewhere.
func (JSONField[T]) GormDBDataType(db *gorm.DB, _ *schema.Field) string {
	if db.Dialector.Name() == "postgres" {
		return "JSONB"
	}
	return "TEXT"
}

func (j JSONField[T]) MarshalJSON() ([]byte, error) {
	return json.Marshal(j.Data)
}

func (j *JSONField[T]) UnmarshalJSON(data []byte) error {
	return json.Unmarshal(data, &j.Data)
}
