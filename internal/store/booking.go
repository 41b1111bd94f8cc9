package store

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/solarwerk/pv-planner/internal/store/model"
)

type Booking interface {
	Create(ctx context.Context, bookings model.BookingList) error
	ListByProject(ctx context.Context, projectID uuid.UUID) (model.BookingList, error)
}

type BookingStore struct {
	db *gorm.DB
}

// Make sure we conform to Booking interface
var _ Booking = (*BookingStore)(nil)

func NewBookingStore(db *gorm.DB) Booking {
	return &BookingStore{db: db}
}

func (b *BookingStore) Create(ctx context.Context, bookings model.BookingList) error {
	if len(bookings) == 0 {
		return nil
	}
	for i := range bookings {
		if bookings[i].ID == uuid.Nil {
			bookings[i].ID = uuid.New()
		}
	}
	return translate(b.getDB(ctx).WithContext(ctx).Create(&bookings).Error)
}

func (b *BookingStore) ListByProject(ctx context.Context, projectID uuid.UUID) (model.BookingList, error) {
	var bookings model.BookingList
	err := b.getDB(ctx).WithContext(ctx).
		Where("project_id = ?", projectID).
		Order("created_at").
		Find(&bookings).Error
	if err != nil {
		return nil, err
	}
	return bookings, nil
}

func (b *BookingStore) getDB(ctx context.Context) *gorm.DB {
	tx := FromContext(ctx)
	if tx != nil {
		return tx
	}
	return b.db
}
