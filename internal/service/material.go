package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/solarwerk/pv-planner/internal/bom"
	"github.com/solarwerk/pv-planner/internal/service/mappers"
	"github.com/solarwerk/pv-planner/internal/store"
	"github.com/solarwerk/pv-planner/internal/store/model"
	"github.com/solarwerk/pv-planner/pkg/log"
)

type MaterialService struct {
	store  store.Store
	bom    *BOMService
	logger *log.StructuredLogger
}

func NewMaterialService(s store.Store, bomSrv *BOMService) *MaterialService {
	return &MaterialService{
		store:  s,
		bom:    bomSrv,
		logger: log.NewDebugLogger("material_service"),
	}
}

type MaterialFilter struct {
	CategoryID string
	OutOfStock bool
}

func (ms *MaterialService) ListMaterials(ctx context.Context, filter MaterialFilter) (model.MaterialList, error) {
	tracer := ms.logger.WithContext(ctx).Operation("list_materials").
		WithString("category_id", filter.CategoryID).
		WithBool("out_of_stock", filter.OutOfStock).
		Build()

	storeFilter := store.NewMaterialQueryFilter()
	if filter.CategoryID != "" {
		storeFilter = storeFilter.ByCategory(filter.CategoryID)
	}
	if filter.OutOfStock {
		storeFilter = storeFilter.OutOfStock()
	}

	materials, err := ms.store.Material().List(ctx, storeFilter)
	if err != nil {
		tracer.Error(err).Log()
		return nil, fmt.Errorf("failed to list materials: %w", err)
	}

	tracer.Success().WithInt("count", len(materials)).Log()
	return materials, nil
}

func (ms *MaterialService) GetMaterial(ctx context.Context, id string) (*model.Material, error) {
	material, err := ms.store.Material().Get(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrRecordNotFound) {
			return nil, NewErrMaterialNotFound(id)
		}
		return nil, fmt.Errorf("failed to get material: %w", err)
	}
	return material, nil
}

// UpsertMaterial creates or replaces a catalog entry and invalidates the catalog snapshot.
func (ms *MaterialService) UpsertMaterial(ctx context.Context, m bom.Material) (*model.Material, error) {
	tracer := ms.logger.WithContext(ctx).Operation("upsert_material").
		WithString("material_id", m.ID).
		WithString("category_id", m.CategoryID).
		Build()

	if m.ID == "" || m.CategoryID == "" {
		err := NewErrInvalidRequest("material id and category are required")
		tracer.Error(err).Log()
		return nil, err
	}

	material, err := ms.store.Material().Upsert(ctx, mappers.MaterialToModel(m))
	if err != nil {
		tracer.Error(err).Log()
		return nil, fmt.Errorf("failed to upsert material: %w", err)
	}
	ms.bom.Invalidate()

	tracer.Success().Log()
	return material, nil
}

func (ms *MaterialService) DeleteMaterial(ctx context.Context, id string) error {
	if err := ms.store.Material().Delete(ctx, id); err != nil {
		if errors.Is(err, store.ErrRecordNotFound) {
			return NewErrMaterialNotFound(id)
		}
		return fmt.Errorf("failed to delete material: %w", err)
	}
	ms.bom.Invalidate()
	return nil
}
