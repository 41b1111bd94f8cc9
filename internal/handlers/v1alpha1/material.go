package v1alpha1

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	api "github.com/solarwerk/pv-planner/api/v1alpha1"
	"github.com/solarwerk/pv-planner/internal/events"
	"github.com/solarwerk/pv-planner/internal/handlers/v1alpha1/mappers"
	"github.com/solarwerk/pv-planner/internal/handlers/validator"
	"github.com/solarwerk/pv-planner/internal/service"
)

// (GET /api/v1/materials)
func (h *ServiceHandler) ListMaterials(w http.ResponseWriter, r *http.Request) {
	filter := service.MaterialFilter{CategoryID: r.URL.Query().Get("category")}
	if raw := r.URL.Query().Get("outOfStock"); raw != "" {
		outOfStock, err := strconv.ParseBool(raw)
		if err != nil {
			renderError(w, r, service.NewErrInvalidRequest("invalid outOfStock value %q", raw))
			return
		}
		filter.OutOfStock = outOfStock
	}

	materials, err := h.materialSrv.ListMaterials(r.Context(), filter)
	if err != nil {
		renderError(w, r, err)
		return
	}
	_ = render.Render(w, r, MaterialListReply(mappers.MaterialListToApi(materials)))
}

// (GET /api/v1/materials/{id})
func (h *ServiceHandler) GetMaterial(w http.ResponseWriter, r *http.Request) {
	material, err := h.materialSrv.GetMaterial(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		renderError(w, r, err)
		return
	}
	_ = render.Render(w, r, MaterialReply(mappers.MaterialToApi(*material)))
}

// (PUT /api/v1/materials/{id})
func (h *ServiceHandler) PutMaterial(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var form api.Material
	if err := decodeBody(r, &form); err != nil {
		renderError(w, r, err)
		return
	}
	form.Id = id

	v := validator.NewValidator()
	v.Register(validator.NewMaterialValidationRules()...)
	if err := v.Struct(form); err != nil {
		renderError(w, r, service.NewErrInvalidRequest("%v", err))
		return
	}

	material, err := h.materialSrv.UpsertMaterial(r.Context(), mappers.MaterialFormApi(id, form))
	if err != nil {
		renderError(w, r, err)
		return
	}
	h.publish(r, events.CatalogMessageKind, events.CatalogEvent{Action: events.MaterialUpserted, MaterialID: id})
	_ = render.Render(w, r, MaterialReply(mappers.MaterialToApi(*material)))
}

// (DELETE /api/v1/materials/{id})
func (h *ServiceHandler) DeleteMaterial(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.materialSrv.DeleteMaterial(r.Context(), id); err != nil {
		renderError(w, r, err)
		return
	}
	h.publish(r, events.CatalogMessageKind, events.CatalogEvent{Action: events.MaterialDeleted, MaterialID: id})
	render.NoContent(w, r)
}
