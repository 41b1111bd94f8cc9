package events

import "github.com/google/uuid"

type ProjectAction string

const (
	ProjectCreated ProjectAction = "created"
	ProjectUpdated ProjectAction = "updated"
	ProjectBooked  ProjectAction = "booked"
	ProjectDeleted ProjectAction = "deleted"
)

type ProjectEvent struct {
	ProjectID uuid.UUID     `json:"project_id"`
	Action    ProjectAction `json:"action"`
	Customer  string        `json:"customer,omitempty"`
	Items     int           `json:"items"`
	Warnings  int           `json:"warnings"`
}

type CatalogAction string

const (
	MaterialUpserted CatalogAction = "material_upserted"
	MaterialDeleted  CatalogAction = "material_deleted"
	DefaultsReplaced CatalogAction = "defaults_replaced"
)

type CatalogEvent struct {
	Action     CatalogAction `json:"action"`
	MaterialID string        `json:"material_id,omitempty"`
}
