package v1alpha1

import (
	"net/http"

	"github.com/go-chi/render"

	api "github.com/solarwerk/pv-planner/api/v1alpha1"
)

type HealthReply api.Health

func (h HealthReply) Render(w http.ResponseWriter, r *http.Request) error {
	return nil
}

type ErrorReply struct {
	api.Error
	status int
}

func (e ErrorReply) Render(w http.ResponseWriter, r *http.Request) error {
	render.Status(r, e.status)
	return nil
}

type DerivationReply api.Derivation

func (d DerivationReply) Render(w http.ResponseWriter, r *http.Request) error {
	return nil
}

type MaterialReply api.Material

func (m MaterialReply) Render(w http.ResponseWriter, r *http.Request) error {
	return nil
}

type MaterialListReply api.MaterialList

func (m MaterialListReply) Render(w http.ResponseWriter, r *http.Request) error {
	return nil
}

type ParametersReply api.Parameters

func (p ParametersReply) Render(w http.ResponseWriter, r *http.Request) error {
	return nil
}

type ProjectReply struct {
	api.Project
	status int
}

func (p ProjectReply) Render(w http.ResponseWriter, r *http.Request) error {
	if p.status != 0 {
		render.Status(r, p.status)
	}
	return nil
}

type ProjectListReply api.ProjectList

func (p ProjectListReply) Render(w http.ResponseWriter, r *http.Request) error {
	return nil
}

type ExportReferenceReply api.ExportReference

func (e ExportReferenceReply) Render(w http.ResponseWriter, r *http.Request) error {
	render.Status(r, http.StatusCreated)
	return nil
}
