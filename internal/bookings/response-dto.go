package bookings

import (
	"time"

	"github.com/google/uuid"
)

type BookingResponse struct {
	BookingID uuid.UUID `json:"booking_id"`
	ShowID    uuid.UUID `json:"show_id"`
	Seats     []string  `json:"seats"`
	Amount    float64   `json:"amount"`
	IsPaid    bool      `json:"is_paid"`
	// PayBy is when unpaid seats are given back
	PayBy     time.Time `json:"pay_by"`
	CreatedAt time.Time `json:"created_at"`
}

type OccupiedSeatsResponse struct {
	ShowID        uuid.UUID `json:"show_id"`
	OccupiedSeats []string  `json:"occupied_seats"`
}
