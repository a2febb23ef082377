package bookings

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Booking is a set of seats held for one user on one show. IsPaid flips once,
// via a conditional update. A released booking is soft deleted: the tombstone
// is what lets a late payment attempt be told apart from a booking that never
// existed.
type Booking struct {
	ID        uuid.UUID      `json:"id" gorm:"type:uuid;primaryKey"`
	ShowID    uuid.UUID      `json:"show_id" gorm:"type:uuid;not null;index"`
	UserID    string         `json:"user_id" gorm:"size:64;not null;index"`
	Seats     SeatList       `json:"seats" gorm:"type:jsonb;not null"`
	Amount    float64        `json:"amount" gorm:"not null"`
	IsPaid    bool           `json:"is_paid" gorm:"not null;default:false"`
	CreatedAt time.Time      `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time      `json:"updated_at" gorm:"autoUpdateTime"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`
}

// TableName specifies the table name for GORM
func (Booking) TableName() string {
	return "bookings"
}

// SeatList stores the booked seat labels as a jsonb column
type SeatList []string

func (s SeatList) Value() (driver.Value, error) {
	return json.Marshal(s)
}

func (s *SeatList) Scan(value interface{}) error {
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, s)
	case string:
		return json.Unmarshal([]byte(v), s)
	case nil:
		return nil
	default:
		return fmt.Errorf("unsupported jsonb scan type %T", value)
	}
}
