package mappers

import (
	"github.com/solarwerk/pv-planner/api/v1alpha1"
	"github.com/solarwerk/pv-planner/internal/bom"
	"github.com/solarwerk/pv-planner/internal/service"
	"github.com/solarwerk/pv-planner/internal/store/model"
)

func DerivationToApi(d *service.DerivationResult) v1alpha1.Derivation {
	return v1alpha1.Derivation{
		Bom:             nonNilItems(d.BOM),
		Warnings:        nonNilStrings(d.Warnings),
		Totals:          d.Totals,
		Recommendations: d.Recommendations,
		Chosen:          d.Chosen,
		CatalogVersion:  d.CatalogVersion,
		Fingerprint:     d.Fingerprint,
	}
}

func MaterialToApi(m model.Material) v1alpha1.Material {
	updatedAt := m.UpdatedAt
	return v1alpha1.Material{
		Id:          m.ID,
		CategoryId:  m.CategoryID,
		Description: m.Description,
		Unit:        m.Unit,
		Spec:        m.SpecMap(),
		Stock:       m.Stock,
		UpdatedAt:   &updatedAt,
	}
}

func MaterialListToApi(materials model.MaterialList) v1alpha1.MaterialList {
	res := make(v1alpha1.MaterialList, 0, len(materials))
	for _, m := range materials {
		res = append(res, MaterialToApi(m))
	}
	return res
}

func ProjectToApi(p model.Project) v1alpha1.Project {
	res := v1alpha1.Project{
		Id:        p.ID,
		Name:      p.Name,
		Customer:  p.Customer,
		Bom:       nonNilItems(p.LineItems()),
		Warnings:  []string{},
		BookedAt:  p.BookedAt,
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
	if p.Configuration != nil {
		res.Configuration = p.Configuration.Data
	}
	if p.Overrides != nil {
		res.Overrides = p.Overrides.Data
	}
	if p.Warnings != nil {
		res.Warnings = nonNilStrings(p.Warnings.Data)
	}
	for _, b := range p.Bookings {
		res.Bookings = append(res.Bookings, v1alpha1.Booking{
			MaterialId: b.MaterialID,
			Quantity:   b.Quantity,
			StockAfter: b.StockAfter,
			CreatedAt:  b.CreatedAt,
		})
	}
	return res
}

func ProjectListToApi(projects model.ProjectList) v1alpha1.ProjectList {
	res := make(v1alpha1.ProjectList, 0, len(projects))
	for _, p := range projects {
		res = append(res, ProjectToApi(p))
	}
	return res
}

func nonNilItems(items []bom.LineItem) []bom.LineItem {
	if items == nil {
		return []bom.LineItem{}
	}
	return items
}

func nonNilStrings(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
