package store

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/solarwerk/pv-planner/internal/store/model"
)

type Parameter interface {
	Get(ctx context.Context, id string) (*model.Parameter, error)
	Put(ctx context.Context, parameter model.Parameter) (*model.Parameter, error)
}

type ParameterStore struct {
	db *gorm.DB
}

// Make sure we conform to Parameter interface
var _ Parameter = (*ParameterStore)(nil)

func NewParameterStore(db *gorm.DB) Parameter {
	return &ParameterStore{db: db}
}

func (p *ParameterStore) Get(ctx context.Context, id string) (*model.Parameter, error) {
	var parameter model.Parameter
	if err := p.getDB(ctx).WithContext(ctx).Where("id = ?", id).First(&parameter).Error; err != nil {
		return nil, translate(err)
	}
	return &parameter, nil
}

// Put replaces the whole record.
func (p *ParameterStore) Put(ctx context.Context, parameter model.Parameter) (*model.Parameter, error) {
	parameter.UpdatedAt = time.Now()
	result := p.getDB(ctx).WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{"record", "updated_at"}),
	}).Create(&parameter)
	if result.Error != nil {
		return nil, translate(result.Error)
	}
	return &parameter, nil
}

func (p *ParameterStore) getDB(ctx context.Context) *gorm.DB {
	tx := FromContext(ctx)
	if tx != nil {
		return tx
	}
	return p.db
}
