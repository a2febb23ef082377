package shows

import (
	"time"

	"github.com/google/uuid"
)

// Show is one screening of a movie at a fixed start time. Seat holds and
// bookings reference it by id; pricing is per show.
type Show struct {
	ID        uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	MovieID   string    `json:"movie_id" gorm:"size:32;not null;index"`
	StartTime time.Time `json:"start_time" gorm:"not null;index"`
	Price     float64   `json:"price" gorm:"not null"`
	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

// TableName specifies the table name for GORM
func (Show) TableName() string {
	return "shows"
}
