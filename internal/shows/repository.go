package shows

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Repository interface {
	CreateBatch(ctx context.Context, shows []Show) error
	GetByID(ctx context.Context, id uuid.UUID) (*Show, error)
	ListUpcoming(ctx context.Context) ([]Show, error)
	ListUpcomingByMovie(ctx context.Context, movieID string) ([]Show, error)
	ListStartingBetween(ctx context.Context, start, end time.Time) ([]Show, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) CreateBatch(ctx context.Context, shows []Show) error {
	return r.db.WithContext(ctx).Create(&shows).Error
}

func (r *repository) GetByID(ctx context.Context, id uuid.UUID) (*Show, error) {
	var show Show
	if err := r.db.WithContext(ctx).First(&show, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &show, nil
}

func (r *repository) ListUpcoming(ctx context.Context) ([]Show, error) {
	var shows []Show
	err := r.db.WithContext(ctx).
		Where("start_time > ?", time.Now().UTC()).
		Order("start_time ASC").
		Find(&shows).Error
	return shows, err
}

func (r *repository) ListUpcomingByMovie(ctx context.Context, movieID string) ([]Show, error) {
	var shows []Show
	err := r.db.WithContext(ctx).
		Where("movie_id = ? AND start_time > ?", movieID, time.Now().UTC()).
		Order("start_time ASC").
		Find(&shows).Error
	return shows, err
}

// ListStartingBetween returns shows with start_time in [start, end), used by
// the reminder sweep.
func (r *repository) ListStartingBetween(ctx context.Context, start, end time.Time) ([]Show, error) {
	var shows []Show
	err := r.db.WithContext(ctx).
		Where("start_time >= ? AND start_time < ?", start, end).
		Order("start_time ASC").
		Find(&shows).Error
	return shows, err
}
