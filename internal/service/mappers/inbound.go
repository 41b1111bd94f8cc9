package mappers

import (
	"github.com/google/uuid"

	"github.com/solarwerk/pv-planner/internal/bom"
	"github.com/solarwerk/pv-planner/internal/store/model"
)

// ProjectCreateForm carries the values needed to create a project.
type ProjectCreateForm struct {
	Name          string
	Customer      string
	Configuration bom.Configuration
	Overrides     bom.Recommendations
}

func (f ProjectCreateForm) ToModel() model.Project {
	return model.Project{
		ID:            uuid.New(),
		Name:          f.Name,
		Customer:      f.Customer,
		Configuration: model.MakeJSONField(f.Configuration),
		Overrides:     model.MakeJSONField(f.Overrides),
	}
}

// MaterialToModel maps a catalog entry onto its store record.
func MaterialToModel(m bom.Material) model.Material {
	spec := m.Spec
	if spec == nil {
		spec = map[string]any{}
	}
	return model.Material{
		ID:          m.ID,
		CategoryID:  m.CategoryID,
		Description: m.Description,
		Unit:        m.Unit,
		Spec:        model.MakeJSONField(spec),
		Stock:       m.Stock,
	}
}

func MaterialsToModel(materials []bom.Material) model.MaterialList {
	res := make(model.MaterialList, 0, len(materials))
	for _, m := range materials {
		res = append(res, MaterialToModel(m))
	}
	return res
}
