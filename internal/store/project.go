package store

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/solarwerk/pv-planner/internal/bom"
	"github.com/solarwerk/pv-planner/internal/store/model"
)

type Project interface {
	List(ctx context.Context, filter *ProjectQueryFilter) (model.ProjectList, error)
	Get(ctx context.Context, id uuid.UUID) (*model.Project, error)
	Create(ctx context.Context, project model.Project) (*model.Project, error)
	// UpdateConfiguration and UpdateBOM refuse to touch a booked project with ErrProjectBooked.
	UpdateConfiguration(ctx context.Context, id uuid.UUID, cfg bom.Configuration, overrides bom.Recommendations) (*model.Project, error)
	UpdateBOM(ctx context.Context, id uuid.UUID, items []bom.LineItem, warnings []string) (*model.Project, error)
	// MarkBooked sets the booking time unless the project is booked already.
	// It reports whether this call booked the project.
	MarkBooked(ctx context.Context, id uuid.UUID, at time.Time) (bool, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type ProjectStore struct {
	db *gorm.DB
}

// Make sure we conform to Project interface
var _ Project = (*ProjectStore)(nil)

func NewProjectStore(db *gorm.DB) Project {
	return &ProjectStore{db: db}
}

func (p *ProjectStore) List(ctx context.Context, filter *ProjectQueryFilter) (model.ProjectList, error) {
	var projects model.ProjectList
	tx := p.getDB(ctx).WithContext(ctx).Model(&projects)
	if filter != nil {
		tx = applyQueryFns(tx, filter.QueryFn)
	}
	if err := tx.Order("created_at").Find(&projects).Error; err != nil {
		return nil, err
	}
	return projects, nil
}

func (p *ProjectStore) Get(ctx context.Context, id uuid.UUID) (*model.Project, error) {
	var project model.Project
	err := p.getDB(ctx).WithContext(ctx).
		Preload("Bookings", func(tx *gorm.DB) *gorm.DB { return tx.Order("created_at") }).
		Where("id = ?", id).
		First(&project).Error
	if err != nil {
		return nil, translate(err)
	}
	return &project, nil
}

func (p *ProjectStore) Create(ctx context.Context, project model.Project) (*model.Project, error) {
	if project.ID == uuid.Nil {
		project.ID = uuid.New()
	}
	if err := p.getDB(ctx).WithContext(ctx).Create(&project).Error; err != nil {
		return nil, translate(err)
	}
	return &project, nil
}

func (p *ProjectStore) UpdateConfiguration(ctx context.Context, id uuid.UUID, cfg bom.Configuration, overrides bom.Recommendations) (*model.Project, error) {
	return p.updateUnbooked(ctx, id, map[string]any{
		"configuration": model.MakeJSONField(cfg),
		"overrides":     model.MakeJSONField(overrides),
	})
}

func (p *ProjectStore) UpdateBOM(ctx context.Context, id uuid.UUID, items []bom.LineItem, warnings []string) (*model.Project, error) {
	return p.updateUnbooked(ctx, id, map[string]any{
		"bom":      model.MakeJSONField(items),
		"warnings": model.MakeJSONField(warnings),
	})
}

// updateUnbooked writes values unless the project is booked. A booked project
// yields ErrProjectBooked, an unknown one ErrRecordNotFound.
func (p *ProjectStore) updateUnbooked(ctx context.Context, id uuid.UUID, values map[string]any) (*model.Project, error) {
	values["updated_at"] = time.Now()
	result := p.getDB(ctx).WithContext(ctx).Model(&model.Project{}).
		Where("id = ? AND booked_at IS NULL", id).
		Updates(values)
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		if _, err := p.Get(ctx, id); err != nil {
			return nil, err
		}
		return nil, ErrProjectBooked
	}
	return p.Get(ctx, id)
}

func (p *ProjectStore) MarkBooked(ctx context.Context, id uuid.UUID, at time.Time) (bool, error) {
	result := p.getDB(ctx).WithContext(ctx).Model(&model.Project{}).
		Where("id = ? AND booked_at IS NULL", id).
		Updates(map[string]any{"booked_at": at, "updated_at": at})
	if result.Error != nil {
		return false, result.Error
	}
	if result.RowsAffected == 1 {
		return true, nil
	}
	if _, err := p.Get(ctx, id); err != nil {
		return false, err
	}
	return false, nil
}

func (p *ProjectStore) Delete(ctx context.Context, id uuid.UUID) error {
	db := p.getDB(ctx).WithContext(ctx)
	if err := db.Where("project_id = ?", id).Delete(&model.Booking{}).Error; err != nil {
		return err
	}
	result := db.Where("id = ?", id).Delete(&model.Project{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrRecordNotFound
	}
	return nil
}

func (p *ProjectStore) getDB(ctx context.Context) *gorm.DB {
	tx := FromContext(ctx)
	if tx != nil {
		return tx
	}
	return p.db
}
