package bookings

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Repository interface {
	Create(ctx context.Context, booking *Booking) error
	// GetByID returns a live booking; released bookings are not visible.
	GetByID(ctx context.Context, id uuid.UUID) (*Booking, error)
	// GetAnyByID also returns released (soft deleted) bookings.
	GetAnyByID(ctx context.Context, id uuid.UUID) (*Booking, error)
	// MarkPaid flips is_paid on a live unpaid booking. It reports whether a
	// row actually changed, which is how a duplicate or late confirmation is
	// detected.
	MarkPaid(ctx context.Context, id uuid.UUID) (bool, error)
	// DeleteIfUnpaid tombstones the booking only while it is still unpaid.
	// It reports whether the delete took effect; a concurrent MarkPaid and
	// this delete serialize on the row, so exactly one of them wins.
	DeleteIfUnpaid(ctx context.Context, id uuid.UUID) (bool, error)
	ListPendingOlderThan(ctx context.Context, cutoff time.Time) ([]Booking, error)
	ListByUser(ctx context.Context, userID string) ([]Booking, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, booking *Booking) error {
	return r.db.WithContext(ctx).Create(booking).Error
}

func (r *repository) GetByID(ctx context.Context, id uuid.UUID) (*Booking, error) {
	var booking Booking
	if err := r.db.WithContext(ctx).First(&booking, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &booking, nil
}

func (r *repository) GetAnyByID(ctx context.Context, id uuid.UUID) (*Booking, error) {
	var booking Booking
	if err := r.db.WithContext(ctx).Unscoped().First(&booking, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &booking, nil
}

func (r *repository) MarkPaid(ctx context.Context, id uuid.UUID) (bool, error) {
	result := r.db.WithContext(ctx).Model(&Booking{}).
		Where("id = ? AND is_paid = ?", id, false).
		Update("is_paid", true)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *repository) DeleteIfUnpaid(ctx context.Context, id uuid.UUID) (bool, error) {
	result := r.db.WithContext(ctx).
		Where("id = ? AND is_paid = ?", id, false).
		Delete(&Booking{})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *repository) ListPendingOlderThan(ctx context.Context, cutoff time.Time) ([]Booking, error) {
	var bookings []Booking
	err := r.db.WithContext(ctx).
		Where("is_paid = ? AND created_at <= ?", false, cutoff).
		Order("created_at ASC").
		Find(&bookings).Error
	return bookings, err
}

func (r *repository) ListByUser(ctx context.Context, userID string) ([]Booking, error) {
	var bookings []Booking
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&bookings).Error
	return bookings, err
}
