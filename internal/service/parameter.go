package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/solarwerk/pv-planner/internal/store"
	"github.com/solarwerk/pv-planner/internal/store/model"
	"github.com/solarwerk/pv-planner/pkg/log"
)

type ParameterService struct {
	store  store.Store
	bom    *BOMService
	logger *log.StructuredLogger
}

func NewParameterService(s store.Store, bomSrv *BOMService) *ParameterService {
	return &ParameterService{
		store:  s,
		bom:    bomSrv,
		logger: log.NewDebugLogger("parameter_service"),
	}
}

// GetDefaults returns the flat defaults record. A missing record reads as empty.
func (ps *ParameterService) GetDefaults(ctx context.Context) (map[string]any, error) {
	parameter, err := ps.store.Parameter().Get(ctx, model.DefaultsParameterID)
	if err != nil {
		if errors.Is(err, store.ErrRecordNotFound) {
			return map[string]any{}, nil
		}
		return nil, fmt.Errorf("failed to get defaults: %w", err)
	}
	return parameter.ValueMap(), nil
}

// PutDefaults replaces the defaults record and invalidates the catalog snapshot.
func (ps *ParameterService) PutDefaults(ctx context.Context, record map[string]any) (map[string]any, error) {
	tracer := ps.logger.WithContext(ctx).Operation("put_defaults").
		WithInt("keys", len(record)).
		Build()

	if record == nil {
		record = map[string]any{}
	}

	parameter, err := ps.store.Parameter().Put(ctx, model.Parameter{
		ID:     model.DefaultsParameterID,
		Record: model.MakeJSONField(record),
	})
	if err != nil {
		tracer.Error(err).Log()
		return nil, fmt.Errorf("failed to put defaults: %w", err)
	}
	ps.bom.Invalidate()

	tracer.Success().Log()
	return parameter.ValueMap(), nil
}
