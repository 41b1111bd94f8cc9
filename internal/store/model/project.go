package model

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/solarwerk/pv-planner/internal/bom"
)

type Project struct {
	ID            uuid.UUID `gorm:"primaryKey;type:TEXT;"`
	Name          string    `gorm:"not null"`
	Customer      string
	Configuration *JSONField[bom.Configuration]
	Overrides     *JSONField[bom.Recommendations]
	BOM           *JSONField[[]bom.LineItem] `gorm:"column:bom"`
	Warnings      *JSONField[[]string]
	BookedAt      *time.Time
	Bookings      []Booking `gorm:"constraint:OnDelete:CASCADE;"`
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

type ProjectList []Project

func (p Project) String() string {
	val, _ := json.Marshal(p)
	return string(val)
}

func (p Project) IsBooked() bool {
	return p.BookedAt != nil
}

// LineItems returns the BOM snapshot, nil when none was taken yet.
func (p Project) LineItems() []bom.LineItem {
	if p.BOM == nil {
		return nil
	}
	return p.BOM.Data
}

// Booking records one stock movement caused by booking a project.
type Booking struct {
	ID         uuid.UUID `gorm:"primaryKey;type:TEXT;"`
	ProjectID  uuid.UUID `gorm:"index;type:TEXT;not null"`
	MaterialID string    `gorm:"not null"`
	Quantity   float64   `gorm:"not null"`
	// StockAfter is the material stock right after the booking.
	StockAfter float64
	CreatedAt  time.Time
}

type BookingList []Booking
