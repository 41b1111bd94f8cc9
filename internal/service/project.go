package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/solarwerk/pv-planner/internal/bom"
	"github.com/solarwerk/pv-planner/internal/service/mappers"
	"github.com/solarwerk/pv-planner/internal/store"
	"github.com/solarwerk/pv-planner/internal/store/model"
	"github.com/solarwerk/pv-planner/pkg/log"
	"github.com/solarwerk/pv-planner/pkg/metrics"
)

const projectDerivationSource = "project"

type ProjectService struct {
	store  store.Store
	bom    *BOMService
	logger *log.StructuredLogger
}

func NewProjectService(s store.Store, bomSrv *BOMService) *ProjectService {
	return &ProjectService{
		store:  s,
		bom:    bomSrv,
		logger: log.NewDebugLogger("project_service"),
	}
}

type ProjectFilter struct {
	Customer string
	Booked   *bool
}

func (ps *ProjectService) ListProjects(ctx context.Context, filter ProjectFilter) (model.ProjectList, error) {
	storeFilter := store.NewProjectQueryFilter()
	if filter.Customer != "" {
		storeFilter = storeFilter.ByCustomer(filter.Customer)
	}
	if filter.Booked != nil {
		storeFilter = storeFilter.Booked(*filter.Booked)
	}

	projects, err := ps.store.Project().List(ctx, storeFilter)
	if err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}
	return projects, nil
}

func (ps *ProjectService) GetProject(ctx context.Context, id uuid.UUID) (*model.Project, error) {
	project, err := ps.store.Project().Get(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrRecordNotFound) {
			return nil, NewErrProjectNotFound(id)
		}
		return nil, fmt.Errorf("failed to get project: %w", err)
	}
	return project, nil
}

// CreateProject derives the BOM of the configuration and stores the project with it.
// Nothing is stored when the derivation fails.
func (ps *ProjectService) CreateProject(ctx context.Context, form mappers.ProjectCreateForm) (*model.Project, error) {
	tracer := ps.logger.WithContext(ctx).Operation("create_project").
		WithString("name", form.Name).
		WithString("customer", form.Customer).
		Build()

	if form.Name == "" {
		err := NewErrInvalidRequest("project name is required")
		tracer.Error(err).Log()
		return nil, err
	}

	result, err := ps.bom.Derive(ctx, projectDerivationSource, form.Configuration, form.Overrides)
	if err != nil {
		tracer.Error(err).Log()
		return nil, err
	}
	tracer.Step("bom_derived").WithInt("items", len(result.BOM)).Log()

	m := form.ToModel()
	m.BOM = model.MakeJSONField(result.BOM)
	m.Warnings = model.MakeJSONField(result.Warnings)

	project, err := ps.store.Project().Create(ctx, m)
	if err != nil {
		tracer.Error(err).Log()
		return nil, fmt.Errorf("failed to create project: %w", err)
	}

	tracer.Success().WithUUID("project_id", project.ID).WithInt("items", len(project.LineItems())).Log()
	return project, nil
}

// UpdateConfiguration replaces configuration and overrides of an unbooked project and re-snapshots its BOM.
// Configuration and snapshot are written in one transaction, and the store refuses both once the project is booked.
func (ps *ProjectService) UpdateConfiguration(ctx context.Context, id uuid.UUID, cfg bom.Configuration, overrides bom.Recommendations) (*model.Project, error) {
	tracer := ps.logger.WithContext(ctx).Operation("update_project_configuration").
		WithUUID("project_id", id).
		Build()

	project, err := ps.GetProject(ctx, id)
	if err != nil {
		tracer.Error(err).Log()
		return nil, err
	}
	if project.IsBooked() {
		err := NewErrAlreadyBooked(id)
		tracer.Error(err).Log()
		return nil, err
	}

	result, err := ps.bom.Derive(ctx, projectDerivationSource, cfg, overrides)
	if err != nil {
		tracer.Error(err).Log()
		return nil, err
	}

	err = store.WithTransaction(ctx, ps.store, func(ctx context.Context) error {
		if _, err := ps.store.Project().UpdateConfiguration(ctx, id, cfg, overrides); err != nil {
			return err
		}
		var err error
		project, err = ps.store.Project().UpdateBOM(ctx, id, result.BOM, result.Warnings)
		return err
	})
	if err != nil {
		tracer.Error(err).Log()
		switch {
		case errors.Is(err, store.ErrProjectBooked):
			return nil, NewErrAlreadyBooked(id)
		case errors.Is(err, store.ErrRecordNotFound):
			return nil, NewErrProjectNotFound(id)
		}
		return nil, fmt.Errorf("failed to update project configuration: %w", err)
	}

	tracer.Success().WithInt("items", len(project.LineItems())).Log()
	return project, nil
}

// UpdateManualItems replaces the operator edits of a project and re-snapshots its BOM.
func (ps *ProjectService) UpdateManualItems(ctx context.Context, id uuid.UUID, edits []bom.LineItem) (*model.Project, error) {
	tracer := ps.logger.WithContext(ctx).Operation("update_project_manual_items").
		WithUUID("project_id", id).
		WithInt("edits", len(edits)).
		Build()

	for _, edit := range edits {
		if edit.MaterialID == "" || edit.Quantity < 0 {
			err := NewErrInvalidRequest("manual items need a material and a non-negative quantity")
			tracer.Error(err).Log()
			return nil, err
		}
	}

	project, err := ps.GetProject(ctx, id)
	if err != nil {
		tracer.Error(err).Log()
		return nil, err
	}

	cfg, overrides := mappers.ProjectConfiguration(*project)
	cfg.ManualItems = edits

	project, err = ps.UpdateConfiguration(ctx, id, cfg, overrides)
	if err != nil {
		tracer.Error(err).Log()
		return nil, err
	}

	tracer.Success().Log()
	return project, nil
}

// BookProject decrements the stock of every material on the project's BOM snapshot.
// A project is booked at most once; a second attempt returns ErrAlreadyBooked.
func (ps *ProjectService) BookProject(ctx context.Context, id uuid.UUID) (*model.Project, error) {
	tracer := ps.logger.WithContext(ctx).Operation("book_project").
		WithUUID("project_id", id).
		Build()

	var bookings model.BookingList
	err := store.WithTransaction(ctx, ps.store, func(ctx context.Context) error {
		var err error
		bookings, err = ps.book(ctx, id)
		return err
	})
	if err != nil {
		metrics.IncreaseBookingsTotalMetric("failed")
		tracer.Error(err).Log()
		return nil, err
	}
	metrics.IncreaseBookingsTotalMetric("success")
	// stock is part of the snapshot
	ps.bom.Invalidate()

	project, err := ps.GetProject(ctx, id)
	if err != nil {
		tracer.Error(err).Log()
		return nil, err
	}

	tracer.Success().WithInt("bookings", len(bookings)).Log()
	return project, nil
}

func (ps *ProjectService) book(ctx context.Context, id uuid.UUID) (model.BookingList, error) {
	project, err := ps.GetProject(ctx, id)
	if err != nil {
		return nil, err
	}
	if project.IsBooked() {
		return nil, NewErrAlreadyBooked(id)
	}

	items := project.LineItems()
	if len(items) == 0 {
		return nil, NewErrProjectHasNoBOM(id)
	}

	booked, err := ps.store.Project().MarkBooked(ctx, id, time.Now())
	if err != nil {
		return nil, fmt.Errorf("failed to mark project booked: %w", err)
	}
	if !booked {
		return nil, NewErrAlreadyBooked(id)
	}

	bookings := make(model.BookingList, 0, len(items))
	for _, item := range items {
		material, err := ps.store.Material().AdjustStock(ctx, item.MaterialID, decimal.NewFromFloat(item.Quantity).Neg())
		if err != nil {
			if errors.Is(err, store.ErrRecordNotFound) {
				return nil, NewErrMaterialNotFound(item.MaterialID)
			}
			return nil, fmt.Errorf("failed to adjust stock of %s: %w", item.MaterialID, err)
		}
		bookings = append(bookings, model.Booking{
			ProjectID:  id,
			MaterialID: item.MaterialID,
			Quantity:   item.Quantity,
			StockAfter: material.Stock,
		})
	}

	if err := ps.store.Booking().Create(ctx, bookings); err != nil {
		return nil, fmt.Errorf("failed to record bookings: %w", err)
	}
	return bookings, nil
}

func (ps *ProjectService) DeleteProject(ctx context.Context, id uuid.UUID) error {
	if err := ps.store.Project().Delete(ctx, id); err != nil {
		if errors.Is(err, store.ErrRecordNotFound) {
			return NewErrProjectNotFound(id)
		}
		return fmt.Errorf("failed to delete project: %w", err)
	}
	return nil
}
