package store

import (
	"context"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/solarwerk/pv-planner/internal/store/model"
)

type Store interface {
	NewTransactionContext(ctx context.Context) (context.Context, error)
	Material() Material
	Parameter() Parameter
	Project() Project
	Booking() Booking
	InitialMigration(ctx context.Context) error
	Seed(ctx context.Context, materials model.MaterialList, defaults map[string]any) error
	Statistics(ctx context.Context) (model.CatalogStats, error)
	Close() error
}

type DataStore struct {
	db        *gorm.DB
	log       logrus.FieldLogger
	material  Material
	parameter Parameter
	project   Project
	booking   Booking
}

func NewStore(db *gorm.DB) Store {
	return &DataStore{
		db:        db,
		log:       logrus.New().WithField("component", "store"),
		material:  NewMaterialStore(db),
		parameter: NewCacheParameterStore(NewParameterStore(db)),
		project:   NewProjectStore(db),
		booking:   NewBookingStore(db),
	}
}

func (s *DataStore) NewTransactionContext(ctx context.Context) (context.Context, error) {
	return newTransactionContext(ctx, s.db, s.log)
}

func (s *DataStore) Material() Material {
	return s.material
}

func (s *DataStore) Parameter() Parameter {
	return s.parameter
}

func (s *DataStore) Project() Project {
	return s.project
}

func (s *DataStore) Booking() Booking {
	return s.booking
}

// InitialMigration creates the schema from the models. Deployments run the sql migrations instead.
func (s *DataStore) InitialMigration(ctx context.Context) error {
	return s.db.WithContext(ctx).AutoMigrate(
		&model.Material{},
		&model.Parameter{},
		&model.Project{},
		&model.Booking{},
	)
}

// Seed inserts the materials that do not exist yet and the defaults record if it is missing.
// Existing rows are left untouched.
func (s *DataStore) Seed(ctx context.Context, materials model.MaterialList, defaults map[string]any) error {
	return WithTransaction(ctx, s, func(ctx context.Context) error {
		db := FromContext(ctx)

		if len(materials) > 0 {
			if err := db.Clauses(clause.OnConflict{DoNothing: true}).Create(&materials).Error; err != nil {
				return err
			}
		}

		if defaults != nil {
			parameter := model.Parameter{ID: model.DefaultsParameterID, Record: model.MakeJSONField(defaults)}
			if err := db.Clauses(clause.OnConflict{DoNothing: true}).Create(&parameter).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func (s *DataStore) Statistics(ctx context.Context) (model.CatalogStats, error) {
	stats := model.CatalogStats{MaterialsByCategory: make(map[string]int)}
	db := s.db.WithContext(ctx)

	var byCategory []struct {
		CategoryID string
		Total      int
	}
	if err := db.Model(&model.Material{}).Select("category_id, count(*) as total").Group("category_id").Scan(&byCategory).Error; err != nil {
		return stats, err
	}
	for _, c := range byCategory {
		stats.MaterialsByCategory[c.CategoryID] = c.Total
		stats.TotalMaterials += c.Total
	}

	var count int64
	if err := applyQueryFns(db.Model(&model.Material{}), NewMaterialQueryFilter().OutOfStock().QueryFn).Count(&count).Error; err != nil {
		return stats, err
	}
	stats.OutOfStock = int(count)

	if err := db.Model(&model.Project{}).Count(&count).Error; err != nil {
		return stats, err
	}
	stats.TotalProjects = int(count)

	if err := applyQueryFns(db.Model(&model.Project{}), NewProjectQueryFilter().Booked(true).QueryFn).Count(&count).Error; err != nil {
		return stats, err
	}
	stats.BookedProjects = int(count)

	return stats, nil
}

func (s *DataStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
