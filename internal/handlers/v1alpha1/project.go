package v1alpha1

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/render"

	api "github.com/solarwerk/pv-planner/api/v1alpha1"
	"github.com/solarwerk/pv-planner/internal/events"
	"github.com/solarwerk/pv-planner/internal/export"
	"github.com/solarwerk/pv-planner/internal/handlers/v1alpha1/mappers"
	"github.com/solarwerk/pv-planner/internal/handlers/validator"
	"github.com/solarwerk/pv-planner/internal/service"
	"github.com/solarwerk/pv-planner/internal/store/model"
)

// (GET /api/v1/projects)
func (h *ServiceHandler) ListProjects(w http.ResponseWriter, r *http.Request) {
	filter := service.ProjectFilter{Customer: r.URL.Query().Get("customer")}
	if raw := r.URL.Query().Get("booked"); raw != "" {
		booked, err := strconv.ParseBool(raw)
		if err != nil {
			renderError(w, r, service.NewErrInvalidRequest("invalid booked value %q", raw))
			return
		}
		filter.Booked = &booked
	}

	projects, err := h.projectSrv.ListProjects(r.Context(), filter)
	if err != nil {
		renderError(w, r, err)
		return
	}
	_ = render.Render(w, r, ProjectListReply(mappers.ProjectListToApi(projects)))
}

// (POST /api/v1/projects)
func (h *ServiceHandler) CreateProject(w http.ResponseWriter, r *http.Request) {
	var form api.ProjectCreate
	if err := decodeBody(r, &form); err != nil {
		renderError(w, r, err)
		return
	}

	v := validator.NewValidator()
	v.Register(validator.NewProjectValidationRules()...)
	if err := v.Struct(form); err != nil {
		renderError(w, r, service.NewErrInvalidRequest("%v", err))
		return
	}

	project, err := h.projectSrv.CreateProject(r.Context(), mappers.ProjectFormApi(form))
	if err != nil {
		renderError(w, r, err)
		return
	}
	h.publishProject(r, project, events.ProjectCreated)
	_ = render.Render(w, r, ProjectReply{Project: mappers.ProjectToApi(*project), status: http.StatusCreated})
}

// (GET /api/v1/projects/{id})
func (h *ServiceHandler) GetProject(w http.ResponseWriter, r *http.Request) {
	id, err := projectID(r)
	if err != nil {
		renderError(w, r, err)
		return
	}

	project, err := h.projectSrv.GetProject(r.Context(), id)
	if err != nil {
		renderError(w, r, err)
		return
	}
	_ = render.Render(w, r, ProjectReply{Project: mappers.ProjectToApi(*project)})
}

// (DELETE /api/v1/projects/{id})
func (h *ServiceHandler) DeleteProject(w http.ResponseWriter, r *http.Request) {
	id, err := projectID(r)
	if err != nil {
		renderError(w, r, err)
		return
	}

	if err := h.projectSrv.DeleteProject(r.Context(), id); err != nil {
		renderError(w, r, err)
		return
	}
	h.publish(r, events.ProjectMessageKind, events.ProjectEvent{ProjectID: id, Action: events.ProjectDeleted})
	render.NoContent(w, r)
}

// (PUT /api/v1/projects/{id}/configuration)
func (h *ServiceHandler) UpdateProjectConfiguration(w http.ResponseWriter, r *http.Request) {
	id, err := projectID(r)
	if err != nil {
		renderError(w, r, err)
		return
	}

	var form api.ConfigurationUpdate
	if err := decodeBody(r, &form); err != nil {
		renderError(w, r, err)
		return
	}

	v := validator.NewValidator()
	v.Register(validator.NewDerivationValidationRules()...)
	if err := v.Struct(form); err != nil {
		renderError(w, r, service.NewErrInvalidRequest("%v", err))
		return
	}

	project, err := h.projectSrv.UpdateConfiguration(r.Context(), id, form.Configuration, form.Overrides)
	if err != nil {
		renderError(w, r, err)
		return
	}
	h.publishProject(r, project, events.ProjectUpdated)
	_ = render.Render(w, r, ProjectReply{Project: mappers.ProjectToApi(*project)})
}

// (PUT /api/v1/projects/{id}/bom)
func (h *ServiceHandler) UpdateProjectBOM(w http.ResponseWriter, r *http.Request) {
	id, err := projectID(r)
	if err != nil {
		renderError(w, r, err)
		return
	}

	var form api.ManualItemsUpdate
	if err := decodeBody(r, &form); err != nil {
		renderError(w, r, err)
		return
	}

	v := validator.NewValidator()
	v.Register(validator.NewProjectValidationRules()...)
	if err := v.Struct(form); err != nil {
		renderError(w, r, service.NewErrInvalidRequest("%v", err))
		return
	}

	project, err := h.projectSrv.UpdateManualItems(r.Context(), id, mappers.ManualItemsFormApi(form))
	if err != nil {
		renderError(w, r, err)
		return
	}
	h.publishProject(r, project, events.ProjectUpdated)
	_ = render.Render(w, r, ProjectReply{Project: mappers.ProjectToApi(*project)})
}

// (POST /api/v1/projects/{id}/book)
func (h *ServiceHandler) BookProject(w http.ResponseWriter, r *http.Request) {
	id, err := projectID(r)
	if err != nil {
		renderError(w, r, err)
		return
	}

	project, err := h.projectSrv.BookProject(r.Context(), id)
	if err != nil {
		renderError(w, r, err)
		return
	}
	h.publishProject(r, project, events.ProjectBooked)
	_ = render.Render(w, r, ProjectReply{Project: mappers.ProjectToApi(*project)})
}

// (GET /api/v1/projects/{id}/bom.csv|bom.xlsx)
func (h *ServiceHandler) exportProject(format export.Format) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		content, renderer, project, err := h.renderProject(r, format)
		if err != nil {
			renderError(w, r, err)
			return
		}

		w.Header().Set("Content-Type", renderer.ContentType())
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", export.FileName(project.Name, format)))
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(content)
	}
}

// (POST /api/v1/projects/{id}/export)
func (h *ServiceHandler) ArchiveProjectExport(w http.ResponseWriter, r *http.Request) {
	if h.uploader == nil {
		renderStatus(w, r, http.StatusServiceUnavailable, "export archive is not configured")
		return
	}

	format := export.FormatXLSX
	if raw := r.URL.Query().Get("format"); raw != "" {
		format = export.Format(raw)
	}

	content, renderer, project, err := h.renderProject(r, format)
	if err != nil {
		renderError(w, r, err)
		return
	}

	tracer := h.logger.WithContext(r.Context()).Operation("archive_export").
		WithUUID("project_id", project.ID).
		WithString("format", string(renderer.SupportedFormat())).
		Build()

	location, err := h.uploader.Upload(r.Context(), export.FileName(project.Name, renderer.SupportedFormat()), content, renderer.ContentType())
	if err != nil {
		tracer.Error(err).Log()
		renderError(w, r, err)
		return
	}

	tracer.Success().WithString("location", location).Log()
	_ = render.Render(w, r, ExportReferenceReply{Location: location})
}

func (h *ServiceHandler) renderProject(r *http.Request, format export.Format) ([]byte, export.Renderer, *model.Project, error) {
	renderer, err := export.NewRenderer(format)
	if err != nil {
		return nil, nil, nil, service.NewErrInvalidRequest("%v", err)
	}

	id, err := projectID(r)
	if err != nil {
		return nil, nil, nil, err
	}

	project, err := h.projectSrv.GetProject(r.Context(), id)
	if err != nil {
		return nil, nil, nil, err
	}
	if len(project.LineItems()) == 0 {
		return nil, nil, nil, service.NewErrProjectHasNoBOM(id)
	}

	doc := &export.Document{
		Title:     project.Name,
		Customer:  project.Customer,
		Generated: time.Now(),
		Items:     project.LineItems(),
	}
	if project.Warnings != nil {
		doc.Warnings = project.Warnings.Data
	}

	content, err := renderer.Render(doc)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to render %s export: %w", format, err)
	}
	return content, renderer, project, nil
}
