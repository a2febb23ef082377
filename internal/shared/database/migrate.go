package database

import (
	"cineshow/internal/bookings"
	"cineshow/internal/movies"
	"cineshow/internal/seats"
	"cineshow/internal/shows"
	"cineshow/internal/users"

	"gorm.io/gorm"
)

func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&users.User{},
		&movies.Movie{},
		&shows.Show{},
		&seats.SeatHold{},
		&bookings.Booking{},
	); err != nil {
		return err
	}
	return migrateConstraints(db)
}

// migrateConstraints adds the constraints AutoMigrate cannot express.
// The unique index on (show_id, seat_label) is the store-level backstop
// for the seat-map invariant: a seat is held by at most one booking.
func migrateConstraints(db *gorm.DB) error {
	return db.Exec(`
		CREATE UNIQUE INDEX IF NOT EXISTS idx_show_seats_show_seat
		ON show_seats (show_id, seat_label);
	`).Error
}
