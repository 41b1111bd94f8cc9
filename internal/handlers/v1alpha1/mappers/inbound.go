package mappers

import (
	"github.com/solarwerk/pv-planner/api/v1alpha1"
	"github.com/solarwerk/pv-planner/internal/bom"
	"github.com/solarwerk/pv-planner/internal/service/mappers"
)

func ProjectFormApi(form v1alpha1.ProjectCreate) mappers.ProjectCreateForm {
	return mappers.ProjectCreateForm{
		Name:          form.Name,
		Customer:      form.Customer,
		Configuration: form.Configuration,
		Overrides:     form.Overrides,
	}
}

// MaterialFormApi maps a material body onto a catalog entry. The id always comes from the path.
func MaterialFormApi(id string, form v1alpha1.Material) bom.Material {
	return bom.Material{
		ID:          id,
		CategoryID:  form.CategoryId,
		Description: form.Description,
		Unit:        form.Unit,
		Spec:        form.Spec,
		Stock:       form.Stock,
	}
}

func ManualItemsFormApi(form v1alpha1.ManualItemsUpdate) []bom.LineItem {
	res := make([]bom.LineItem, 0, len(form.Items))
	for _, item := range form.Items {
		res = append(res, bom.LineItem{
			MaterialID:  item.MaterialId,
			Quantity:    item.Quantity,
			Description: item.Description,
		})
	}
	return res
}
