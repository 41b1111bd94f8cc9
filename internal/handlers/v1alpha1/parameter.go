package v1alpha1

import (
	"net/http"

	"github.com/go-chi/render"

	"github.com/solarwerk/pv-planner/internal/events"
)

// (GET /api/v1/parameters)
func (h *ServiceHandler) GetParameters(w http.ResponseWriter, r *http.Request) {
	record, err := h.parameterSrv.GetDefaults(r.Context())
	if err != nil {
		renderError(w, r, err)
		return
	}
	_ = render.Render(w, r, ParametersReply(record))
}

// (PUT /api/v1/parameters)
func (h *ServiceHandler) PutParameters(w http.ResponseWriter, r *http.Request) {
	record := map[string]any{}
	if err := decodeBody(r, &record); err != nil {
		renderError(w, r, err)
		return
	}

	saved, err := h.parameterSrv.PutDefaults(r.Context(), record)
	if err != nil {
		renderError(w, r, err)
		return
	}
	h.publish(r, events.CatalogMessageKind, events.CatalogEvent{Action: events.DefaultsReplaced})
	_ = render.Render(w, r, ParametersReply(saved))
}
