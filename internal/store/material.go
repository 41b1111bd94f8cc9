package store

import (
	"context"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/solarwerk/pv-planner/internal/store/model"
)

type Material interface {
	List(ctx context.Context, filter *MaterialQueryFilter) (model.MaterialList, error)
	Get(ctx context.Context, id string) (*model.Material, error)
	Upsert(ctx context.Context, material model.Material) (*model.Material, error)
	Delete(ctx context.Context, id string) error
	// AdjustStock adds delta to the stock of a material and returns the updated record.
	AdjustStock(ctx context.Context, id string, delta decimal.Decimal) (*model.Material, error)
}

type MaterialStore struct {
	db *gorm.DB
}

// Make sure we conform to Material interface
var _ Material = (*MaterialStore)(nil)

func NewMaterialStore(db *gorm.DB) Material {
	return &MaterialStore{db: db}
}

func (m *MaterialStore) List(ctx context.Context, filter *MaterialQueryFilter) (model.MaterialList, error) {
	var materials model.MaterialList
	tx := m.getDB(ctx).WithContext(ctx).Model(&materials)
	if filter != nil {
		tx = applyQueryFns(tx, filter.QueryFn)
	}
	if err := tx.Order("id").Find(&materials).Error; err != nil {
		return nil, err
	}
	return materials, nil
}

func (m *MaterialStore) Get(ctx context.Context, id string) (*model.Material, error) {
	var material model.Material
	if err := m.getDB(ctx).WithContext(ctx).Where("id = ?", id).First(&material).Error; err != nil {
		return nil, translate(err)
	}
	return &material, nil
}

func (m *MaterialStore) Upsert(ctx context.Context, material model.Material) (*model.Material, error) {
	result := m.getDB(ctx).WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{"category_id", "description", "unit", "spec", "stock", "updated_at"}),
	}).Create(&material)
	if result.Error != nil {
		return nil, translate(result.Error)
	}
	return m.Get(ctx, material.ID)
}

func (m *MaterialStore) Delete(ctx context.Context, id string) error {
	result := m.getDB(ctx).WithContext(ctx).Where("id = ?", id).Delete(&model.Material{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrRecordNotFound
	}
	return nil
}

func (m *MaterialStore) AdjustStock(ctx context.Context, id string, delta decimal.Decimal) (*model.Material, error) {
	material, err := m.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	stock := decimal.NewFromFloat(material.Stock).Add(delta)
	material.Stock = stock.InexactFloat64()

	result := m.getDB(ctx).WithContext(ctx).Model(&model.Material{}).
		Where("id = ?", id).
		Update("stock", material.Stock)
	if result.Error != nil {
		return nil, result.Error
	}
	return material, nil
}

func (m *MaterialStore) getDB(ctx context.Context) *gorm.DB {
	tx := FromContext(ctx)
	if tx != nil {
		return tx
	}
	return m.db
}
