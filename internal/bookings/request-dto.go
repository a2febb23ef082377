package bookings

type CreateBookingRequest struct {
	ShowID string   `json:"show_id" binding:"required,uuid"`
	Seats  []string `json:"seats" binding:"required,min=1,dive,seatlabel"`
}
