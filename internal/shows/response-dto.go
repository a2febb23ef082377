package shows

import (
	"time"

	"cineshow/internal/movies"

	"github.com/google/uuid"
)

type CreateShowsResponse struct {
	MovieID      string `json:"movie_id"`
	ShowsCreated int    `json:"shows_created"`
}

// ShowTimeEntry is one bookable screening slot within a date group
type ShowTimeEntry struct {
	ShowID uuid.UUID `json:"show_id"`
	Time   time.Time `json:"time"`
	Price  float64   `json:"price"`
}

// MovieShowsResponse groups a movie's upcoming screenings by calendar date
// (UTC, "2006-01-02" keys), matching what the booking page renders.
type MovieShowsResponse struct {
	Movie    *movies.Movie              `json:"movie"`
	DateTime map[string][]ShowTimeEntry `json:"date_time"`
}
