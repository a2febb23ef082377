package notifications

import (
	"context"
	"fmt"
	"strings"

	"cineshow/internal/bookings"
	"cineshow/internal/movies"
	"cineshow/internal/shows"
	"cineshow/internal/users"
)

const (
	dateFormat = "Monday, 02 January 2006"
	timeFormat = "15:04 MST"
)

// Service builds notification messages with fully resolved recipients and
// hands them to the broker. It satisfies the publisher interfaces the shows
// and bookings services declare.
type Service struct {
	producer     Producer
	userService  users.Service
	showService  shows.Service
	movieService movies.Service
}

func NewService(producer Producer, userService users.Service, showService shows.Service, movieService movies.Service) *Service {
	return &Service{
		producer:     producer,
		userService:  userService,
		showService:  showService,
		movieService: movieService,
	}
}

// BookingConfirmed publishes the confirmation email for one paid booking.
func (s *Service) BookingConfirmed(ctx context.Context, booking *bookings.Booking) error {
	user, err := s.userService.GetByID(ctx, booking.UserID)
	if err != nil {
		return fmt.Errorf("failed to resolve booking recipient: %w", err)
	}
	show, err := s.showService.GetShowByID(ctx, booking.ShowID)
	if err != nil {
		return fmt.Errorf("failed to resolve booked show: %w", err)
	}
	movie, err := s.movieService.GetByID(ctx, show.MovieID)
	if err != nil {
		return fmt.Errorf("failed to resolve booked movie: %w", err)
	}

	msg := NewMessage(
		MessageTypeBookingConfirmed,
		fmt.Sprintf("Payment Confirmation: %q booked!", movie.Title),
		[]Recipient{{UserID: user.ID, Name: user.Name, Email: user.Email}},
		map[string]interface{}{
			"MovieTitle": movie.Title,
			"ShowDate":   show.StartTime.UTC().Format(dateFormat),
			"ShowTime":   show.StartTime.UTC().Format(timeFormat),
			"Seats":      strings.Join(booking.Seats, ", "),
		},
	)
	return s.producer.Publish(ctx, msg)
}

// ShowAdded publishes the new-show announcement to every registered user.
func (s *Service) ShowAdded(ctx context.Context, movieID, movieTitle string) error {
	all, err := s.userService.ListAll(ctx)
	if err != nil {
		return fmt.Errorf("failed to resolve announcement recipients: %w", err)
	}
	if len(all) == 0 {
		return nil
	}

	recipients := make([]Recipient, 0, len(all))
	for _, u := range all {
		if u.Email == "" {
			continue
		}
		recipients = append(recipients, Recipient{UserID: u.ID, Name: u.Name, Email: u.Email})
	}

	msg := NewMessage(
		MessageTypeShowAdded,
		fmt.Sprintf("🎬 New Show Added: %s", movieTitle),
		recipients,
		map[string]interface{}{
			"MovieTitle": movieTitle,
			"MovieID":    movieID,
		},
	)
	return s.producer.Publish(ctx, msg)
}

// NewReminderMessage builds the show-reminder fan-out for the reminder sweep,
// which dispatches directly instead of going through the broker.
func NewReminderMessage(movieTitle string, show *shows.Show, recipients []Recipient) *Message {
	return NewMessage(
		MessageTypeShowReminder,
		fmt.Sprintf("Reminder: Your movie %q starts soon!", movieTitle),
		recipients,
		map[string]interface{}{
			"MovieTitle": movieTitle,
			"ShowDate":   show.StartTime.UTC().Format(dateFormat),
			"ShowTime":   show.StartTime.UTC().Format(timeFormat),
		},
	)
}
