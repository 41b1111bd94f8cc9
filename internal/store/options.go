package store

import (
	"gorm.io/gorm"
)

type BaseQuerier struct {
	QueryFn []func(tx *gorm.DB) *gorm.DB
}

func applyQueryFns(tx *gorm.DB, fns []func(tx *gorm.DB) *gorm.DB) *gorm.DB {
	for _, fn := range fns {
		tx = fn(tx)
	}
	return tx
}

type MaterialQueryFilter BaseQuerier

func NewMaterialQueryFilter() *MaterialQueryFilter {
	return &MaterialQueryFilter{QueryFn: make([]func(tx *gorm.DB) *gorm.DB, 0)}
}

func (qf *MaterialQueryFilter) ByCategory(categoryID string) *MaterialQueryFilter {
	qf.QueryFn = append(qf.QueryFn, func(tx *gorm.DB) *gorm.DB {
		return tx.Where("category_id = ?", categoryID)
	})
	return qf
}

func (qf *MaterialQueryFilter) ByIDs(ids []string) *MaterialQueryFilter {
	qf.QueryFn = append(qf.QueryFn, func(tx *gorm.DB) *gorm.DB {
		return tx.Where("id IN ?", ids)
	})
	return qf
}

func (qf *MaterialQueryFilter) OutOfStock() *MaterialQueryFilter {
	qf.QueryFn = append(qf.QueryFn, func(tx *gorm.DB) *gorm.DB {
		return tx.Where("stock <= 0")
	})
	return qf
}

type ProjectQueryFilter BaseQuerier

func NewProjectQueryFilter() *ProjectQueryFilter {
	return &ProjectQueryFilter{QueryFn: make([]func(tx *gorm.DB) *gorm.DB, 0)}
}

func (qf *ProjectQueryFilter) ByCustomer(customer string) *ProjectQueryFilter {
	qf.QueryFn = append(qf.QueryFn, func(tx *gorm.DB) *gorm.DB {
		return tx.Where("customer = ?", customer)
	})
	return qf
}

func (qf *ProjectQueryFilter) Booked(booked bool) *ProjectQueryFilter {
	qf.QueryFn = append(qf.QueryFn, func(tx *gorm.DB) *gorm.DB {
		if booked {
			return tx.Where("booked_at IS NOT NULL")
		}
		return tx.Where("booked_at IS NULL")
	})
	return qf
}
