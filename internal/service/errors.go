package service

import (
	"fmt"

	"github.com/google/uuid"
)

type ErrResourceNotFound struct {
	error
}

func NewErrResourceNotFound(id string, resourceType string) *ErrResourceNotFound {
	return &ErrResourceNotFound{fmt.Errorf("%s %s not found", resourceType, id)}
}

func NewErrProjectNotFound(id uuid.UUID) *ErrResourceNotFound {
	return NewErrResourceNotFound(id.String(), "project")
}

func NewErrMaterialNotFound(id string) *ErrResourceNotFound {
	return NewErrResourceNotFound(id, "material")
}

type ErrInvalidRequest struct {
	error
}

func NewErrInvalidRequest(format string, args ...any) *ErrInvalidRequest {
	return &ErrInvalidRequest{fmt.Errorf("bad request: %s", fmt.Sprintf(format, args...))}
}

func NewErrProjectHasNoBOM(id uuid.UUID) *ErrInvalidRequest {
	return NewErrInvalidRequest("project %s has no bill of materials", id)
}

type ErrAlreadyBooked struct {
	error
}

func NewErrAlreadyBooked(id uuid.UUID) *ErrAlreadyBooked {
	return &ErrAlreadyBooked{fmt.Errorf("project %s is already booked", id)}
}
