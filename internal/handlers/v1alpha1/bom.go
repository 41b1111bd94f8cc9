package v1alpha1

import (
	"net/http"

	"github.com/go-chi/render"

	api "github.com/solarwerk/pv-planner/api/v1alpha1"
	"github.com/solarwerk/pv-planner/internal/handlers/v1alpha1/mappers"
	"github.com/solarwerk/pv-planner/internal/handlers/validator"
	"github.com/solarwerk/pv-planner/internal/service"
)

const apiDerivationSource = "api"

// (POST /api/v1/bom/derive)
func (h *ServiceHandler) DeriveBOM(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var form api.DeriveRequest
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

	tracer := h.logger.WithContext(ctx).Operation("derive_bom").
		WithString("module_id", form.Configuration.ModuleID).
		Build()

	result, err := h.bomSrv.Derive(ctx, apiDerivationSource, form.Configuration, form.Overrides)
	if err != nil {
		tracer.Error(err).Log()
		renderError(w, r, err)
		return
	}

	tracer.Success().WithInt("items", len(result.BOM)).Log()
	_ = render.Render(w, r, DerivationReply(mappers.DerivationToApi(result)))
}
