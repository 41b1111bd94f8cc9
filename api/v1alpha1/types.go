// Package v1alpha1 holds the request and response bodies of the /api/v1 endpoints.
package v1alpha1

import (
	"time"

	"github.com/google/uuid"

	"github.com/solarwerk/pv-planner/internal/bom"
)

type Error struct {
	Message   string  `json:"message"`
	RequestId *string `json:"requestId,omitempty"`
}

type Health struct {
	Status string `json:"status"`
}

type DeriveRequest struct {
	Configuration bom.Configuration   `json:"configuration"`
	Overrides     bom.Recommendations `json:"overrides,omitempty"`
}

type Derivation struct {
	Bom             []bom.LineItem      `json:"bom"`
	Warnings        []string            `json:"warnings"`
	Totals          bom.LayoutTotals    `json:"totals"`
	Recommendations bom.Recommendations `json:"recommendations"`
	Chosen          bom.Recommendations `json:"chosen"`
	CatalogVersion  uint64              `json:"catalogVersion"`
	Fingerprint     string              `json:"fingerprint"`
}

type Material struct {
	Id          string         `json:"id"`
	CategoryId  string         `json:"categoryId" validate:"required,max=64,identifier"`
	Description string         `json:"description" validate:"max=512"`
	Unit        string         `json:"unit,omitempty" validate:"max=16"`
	Spec        map[string]any `json:"spec,omitempty"`
	Stock       float64        `json:"stock"`
	UpdatedAt   *time.Time     `json:"updatedAt,omitempty"`
}

type MaterialList []Material

type Parameters map[string]any

type ProjectCreate struct {
	Name          string              `json:"name" validate:"required,max=100,project_name"`
	Customer      string              `json:"customer,omitempty" validate:"max=100"`
	Configuration bom.Configuration   `json:"configuration"`
	Overrides     bom.Recommendations `json:"overrides,omitempty"`
}

type ConfigurationUpdate struct {
	Configuration bom.Configuration   `json:"configuration"`
	Overrides     bom.Recommendations `json:"overrides,omitempty"`
}

type ManualItem struct {
	MaterialId  string  `json:"materialId" validate:"required,max=64,identifier"`
	Quantity    float64 `json:"quantity" validate:"gte=0"`
	Description string  `json:"description,omitempty" validate:"max=512"`
}

type ManualItemsUpdate struct {
	Items []ManualItem `json:"items" validate:"dive"`
}

type Booking struct {
	MaterialId string    `json:"materialId"`
	Quantity   float64   `json:"quantity"`
	StockAfter float64   `json:"stockAfter"`
	CreatedAt  time.Time `json:"createdAt"`
}

type Project struct {
	Id            uuid.UUID           `json:"id"`
	Name          string              `json:"name"`
	Customer      string              `json:"customer,omitempty"`
	Configuration bom.Configuration   `json:"configuration"`
	Overrides     bom.Recommendations `json:"overrides,omitempty"`
	Bom           []bom.LineItem      `json:"bom"`
	Warnings      []string            `json:"warnings"`
	BookedAt      *time.Time          `json:"bookedAt,omitempty"`
	Bookings      []Booking           `json:"bookings,omitempty"`
	CreatedAt     time.Time           `json:"createdAt"`
	UpdatedAt     time.Time           `json:"updatedAt"`
}

type ProjectList []Project

type ExportReference struct {
	Location string `json:"location"`
}
