package v1alpha1

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/google/uuid"
	"go.uber.org/zap"

	api "github.com/solarwerk/pv-planner/api/v1alpha1"
	"github.com/solarwerk/pv-planner/internal/events"
	"github.com/solarwerk/pv-planner/internal/export"
	"github.com/solarwerk/pv-planner/internal/service"
	"github.com/solarwerk/pv-planner/internal/store/model"
	"github.com/solarwerk/pv-planner/pkg/log"
	"github.com/solarwerk/pv-planner/pkg/requestid"
)

type ServiceHandler struct {
	bomSrv       *service.BOMService
	materialSrv  *service.MaterialService
	parameterSrv *service.ParameterService
	projectSrv   *service.ProjectService
	uploader     export.Uploader
	evWriter     *events.EventProducer
	logger       *log.StructuredLogger
}

type HandlerOption func(h *ServiceHandler)

// WithExportUploader enables archiving rendered BOMs.
func WithExportUploader(u export.Uploader) HandlerOption {
	return func(h *ServiceHandler) {
		h.uploader = u
	}
}

// WithEventProducer publishes project and catalog changes.
func WithEventProducer(ep *events.EventProducer) HandlerOption {
	return func(h *ServiceHandler) {
		h.evWriter = ep
	}
}

func NewServiceHandler(
	bomSrv *service.BOMService,
	materialSrv *service.MaterialService,
	parameterSrv *service.ParameterService,
	projectSrv *service.ProjectService,
	opts ...HandlerOption,
) *ServiceHandler {
	h := &ServiceHandler{
		bomSrv:       bomSrv,
		materialSrv:  materialSrv,
		parameterSrv: parameterSrv,
		projectSrv:   projectSrv,
		logger:       log.NewDebugLogger("handler"),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Routes mounts the /api/v1 endpoints on router.
func (h *ServiceHandler) Routes(router chi.Router) {
	router.Get("/health", h.Health)

	router.Route("/api/v1", func(r chi.Router) {
		r.Post("/bom/derive", h.DeriveBOM)

		r.Get("/materials", h.ListMaterials)
		r.Get("/materials/{id}", h.GetMaterial)
		r.Put("/materials/{id}", h.PutMaterial)
		r.Delete("/materials/{id}", h.DeleteMaterial)

		r.Get("/parameters", h.GetParameters)
		r.Put("/parameters", h.PutParameters)

		r.Get("/projects", h.ListProjects)
		r.Post("/projects", h.CreateProject)
		r.Get("/projects/{id}", h.GetProject)
		r.Delete("/projects/{id}", h.DeleteProject)
		r.Put("/projects/{id}/configuration", h.UpdateProjectConfiguration)
		r.Put("/projects/{id}/bom", h.UpdateProjectBOM)
		r.Post("/projects/{id}/book", h.BookProject)
		r.Get("/projects/{id}/bom.csv", h.exportProject(export.FormatCSV))
		r.Get("/projects/{id}/bom.xlsx", h.exportProject(export.FormatXLSX))
		r.Post("/projects/{id}/export", h.ArchiveProjectExport)
	})
}

// (GET /health)
func (h *ServiceHandler) Health(w http.ResponseWriter, r *http.Request) {
	_ = render.Render(w, r, HealthReply{Status: "ok"})
}

func (h *ServiceHandler) publish(r *http.Request, kind string, event any) {
	if h.evWriter == nil {
		return
	}
	if err := h.evWriter.Publish(r.Context(), kind, event); err != nil {
		zap.S().Named("handler").Warnw("failed to publish event", "kind", kind, "error", err)
	}
}

func (h *ServiceHandler) publishProject(r *http.Request, p *model.Project, action events.ProjectAction) {
	ev := events.ProjectEvent{
		ProjectID: p.ID,
		Action:    action,
		Customer:  p.Customer,
		Items:     len(p.LineItems()),
	}
	if p.Warnings != nil {
		ev.Warnings = len(p.Warnings.Data)
	}
	h.publish(r, events.ProjectMessageKind, ev)
}

// renderError writes err with the status its type maps to.
func renderError(w http.ResponseWriter, r *http.Request, err error) {
	var (
		notFound      *service.ErrResourceNotFound
		invalid       *service.ErrInvalidRequest
		alreadyBooked *service.ErrAlreadyBooked
	)

	status := http.StatusInternalServerError
	switch {
	case errors.As(err, &notFound):
		status = http.StatusNotFound
	case errors.As(err, &invalid):
		status = http.StatusBadRequest
	case errors.As(err, &alreadyBooked):
		status = http.StatusConflict
	}
	renderStatus(w, r, status, err.Error())
}

func renderStatus(w http.ResponseWriter, r *http.Request, status int, message string) {
	_ = render.Render(w, r, ErrorReply{
		Error:  api.Error{Message: message, RequestId: requestid.FromContextPtr(r.Context())},
		status: status,
	})
}

func decodeBody(r *http.Request, v any) error {
	if r.Body == nil || r.ContentLength == 0 {
		return service.NewErrInvalidRequest("empty body")
	}
	if err := render.DecodeJSON(r.Body, v); err != nil {
		return service.NewErrInvalidRequest("failed to decode body: %v", err)
	}
	return nil
}

func projectID(r *http.Request) (uuid.UUID, error) {
	raw := chi.URLParam(r, "id")
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, service.NewErrInvalidRequest("invalid project id %q", raw)
	}
	return id, nil
}
