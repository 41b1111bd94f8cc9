package mappers

import (
	"github.com/solarwerk/pv-planner/internal/bom"
	"github.com/solarwerk/pv-planner/internal/store/model"
)

func MaterialToBom(m model.Material) bom.Material {
	return bom.Material{
		ID:          m.ID,
		CategoryID:  m.CategoryID,
		Description: m.Description,
		Unit:        m.Unit,
		Spec:        m.SpecMap(),
		Stock:       m.Stock,
	}
}

func MaterialListToBom(materials model.MaterialList) []bom.Material {
	res := make([]bom.Material, 0, len(materials))
	for _, m := range materials {
		res = append(res, MaterialToBom(m))
	}
	return res
}

// ProjectConfiguration returns the stored configuration and overrides of p.
func ProjectConfiguration(p model.Project) (bom.Configuration, bom.Recommendations) {
	var (
		cfg       bom.Configuration
		overrides bom.Recommendations
	)
	if p.Configuration != nil {
		cfg = p.Configuration.Data
	}
	if p.Overrides != nil {
		overrides = p.Overrides.Data
	}
	return cfg, overrides
}
