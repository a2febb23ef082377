package seats

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// SeatHold is one held seat of one show. A row exists while a booking owns
// the seat and is removed when the booking is released. The unique index on
// (show_id, seat_label) makes double-holding impossible at the store level.
// UserID is denormalized from the owning booking so reminder fan-out can
// collect occupants without a join.
type SeatHold struct {
	ID        uint      `json:"-" gorm:"primaryKey;autoIncrement"`
	ShowID    uuid.UUID `json:"show_id" gorm:"type:uuid;not null;index"`
	SeatLabel string    `json:"seat_label" gorm:"size:8;not null"`
	HolderID  uuid.UUID `json:"holder_id" gorm:"type:uuid;not null;index"`
	UserID    string    `json:"user_id" gorm:"size:64;not null"`
	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
}

// TableName specifies the table name for GORM
func (SeatHold) TableName() string {
	return "show_seats"
}

// ConflictError reports the first seat that was already held when a
// reservation was attempted. No seats are held after a conflict.
type ConflictError struct {
	Seat string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("seat %s is already taken", e.Seat)
}
