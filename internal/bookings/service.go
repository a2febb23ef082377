package bookings

import (
	"context"
	"errors"
	"fmt"
	"time"

	"cineshow/internal/seats"
	"cineshow/internal/shows"
	"cineshow/pkg/logger"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	ErrBookingNotFound = errors.New("booking not found")
	// ErrAlreadyResolved marks a payment attempt on a booking that was
	// already paid or already released.
	ErrAlreadyResolved = errors.New("booking already resolved")
	ErrInvalidInput    = errors.New("invalid booking request")
)

// ShowService is the slice of the shows service bookings need.
type ShowService interface {
	GetShowByID(ctx context.Context, id uuid.UUID) (*shows.Show, error)
}

// ReleaseScheduler arranges for a booking to be revisited once its payment
// grace period has elapsed.
type ReleaseScheduler interface {
	ScheduleRelease(ctx context.Context, bookingID uuid.UUID, at time.Time) error
}

// Notifier sends the booking confirmation. Implemented by the notifications
// package; declared here to avoid a circular dependency.
type Notifier interface {
	BookingConfirmed(ctx context.Context, booking *Booking) error
}

type Service interface {
	SetScheduler(scheduler ReleaseScheduler)
	SetNotifier(notifier Notifier)
	// CreateBooking reserves the seats and records an unpaid booking. The
	// seats are given back automatically if payment does not arrive within
	// the grace period.
	CreateBooking(ctx context.Context, userID string, req CreateBookingRequest) (*BookingResponse, error)
	// ConfirmPayment marks a booking paid, exactly once.
	ConfirmPayment(ctx context.Context, bookingID uuid.UUID) (*Booking, error)
	// ReleaseIfUnpaid frees the seats of a booking whose grace period has
	// elapsed without payment. Safe to call repeatedly and on bookings that
	// were paid or already released.
	ReleaseIfUnpaid(ctx context.Context, bookingID uuid.UUID) error
	// ReconcilePending sweeps unpaid bookings past their grace period. Run
	// at startup to heal releases lost to a crash.
	ReconcilePending(ctx context.Context) (int, error)
	GetUserBookings(ctx context.Context, userID string) ([]Booking, error)
	OccupiedSeats(ctx context.Context, showID uuid.UUID) (*OccupiedSeatsResponse, error)
}

type service struct {
	repo        Repository
	showService ShowService
	seatMap     seats.SeatMap
	scheduler   ReleaseScheduler
	notifier    Notifier
	gracePeriod time.Duration
	logger      *logger.Logger
}

func NewService(repo Repository, showService ShowService, seatMap seats.SeatMap, gracePeriod time.Duration) Service {
	return &service{
		repo:        repo,
		showService: showService,
		seatMap:     seatMap,
		gracePeriod: gracePeriod,
		logger:      logger.GetDefault(),
	}
}

func (s *service) SetScheduler(scheduler ReleaseScheduler) {
	s.scheduler = scheduler
}

func (s *service) SetNotifier(notifier Notifier) {
	s.notifier = notifier
}

func (s *service) CreateBooking(ctx context.Context, userID string, req CreateBookingRequest) (*BookingResponse, error) {
	showID, err := uuid.Parse(req.ShowID)
	if err != nil {
		return nil, fmt.Errorf("%w: malformed show id", ErrInvalidInput)
	}
	seatLabels := dedupe(req.Seats)
	if len(seatLabels) == 0 {
		return nil, fmt.Errorf("%w: no seats requested", ErrInvalidInput)
	}

	show, err := s.showService.GetShowByID(ctx, showID)
	if err != nil {
		return nil, err
	}
	if !show.StartTime.After(time.Now().UTC()) {
		return nil, shows.ErrShowExpired
	}

	bookingID := uuid.New()
	if err := s.seatMap.TryReserve(ctx, showID, seatLabels, bookingID, userID); err != nil {
		return nil, err
	}

	booking := &Booking{
		ID:     bookingID,
		ShowID: showID,
		UserID: userID,
		Seats:  SeatList(seatLabels),
		Amount: show.Price * float64(len(seatLabels)),
		IsPaid: false,
	}
	if err := s.repo.Create(ctx, booking); err != nil {
		// Give the seats back so a failed insert cannot strand holds.
		if relErr := s.seatMap.Release(ctx, showID, bookingID); relErr != nil {
			s.logger.ErrorWithContext(ctx, "Failed to release seats after booking insert failure", relErr,
				map[string]interface{}{"booking_id": bookingID.String()})
		}
		return nil, fmt.Errorf("failed to create booking: %w", err)
	}

	createdAt := booking.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}
	payBy := createdAt.Add(s.gracePeriod)
	if s.scheduler != nil {
		// A lost schedule is healed by the startup sweep, so this does not
		// fail the booking.
		if err := s.scheduler.ScheduleRelease(ctx, bookingID, payBy); err != nil {
			s.logger.ErrorWithContext(ctx, "Failed to schedule booking release", err,
				map[string]interface{}{"booking_id": bookingID.String()})
		}
	}

	s.logger.LogBookingCreated(ctx, bookingID.String(), showID.String(), userID)

	return &BookingResponse{
		BookingID: booking.ID,
		ShowID:    booking.ShowID,
		Seats:     seatLabels,
		Amount:    booking.Amount,
		IsPaid:    false,
		PayBy:     payBy,
		CreatedAt: booking.CreatedAt,
	}, nil
}

func (s *service) ConfirmPayment(ctx context.Context, bookingID uuid.UUID) (*Booking, error) {
	changed, err := s.repo.MarkPaid(ctx, bookingID)
	if err != nil {
		return nil, fmt.Errorf("failed to confirm payment: %w", err)
	}
	if !changed {
		// Either already paid, or released after the grace period ran out.
		// The soft-delete tombstone keeps that case distinct from an id
		// that never existed.
		if _, err := s.repo.GetAnyByID(ctx, bookingID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrBookingNotFound
			}
			return nil, fmt.Errorf("failed to confirm payment: %w", err)
		}
		return nil, ErrAlreadyResolved
	}

	booking, err := s.repo.GetByID(ctx, bookingID)
	if err != nil {
		return nil, fmt.Errorf("failed to load confirmed booking: %w", err)
	}

	if s.notifier != nil {
		if err := s.notifier.BookingConfirmed(ctx, booking); err != nil {
			s.logger.WarnContext(ctx, "Failed to publish booking confirmation", "error", err,
				"booking_id", bookingID.String())
		}
	}
	return booking, nil
}

func (s *service) ReleaseIfUnpaid(ctx context.Context, bookingID uuid.UUID) error {
	booking, err := s.repo.GetByID(ctx, bookingID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// Already released. A retried fire still re-frees the seats in
			// case an earlier run died between the delete and the release.
			if tomb, terr := s.repo.GetAnyByID(ctx, bookingID); terr == nil && !tomb.IsPaid {
				return s.seatMap.Release(ctx, tomb.ShowID, bookingID)
			}
			return nil
		}
		return fmt.Errorf("failed to load booking for release: %w", err)
	}
	if booking.IsPaid {
		return nil
	}

	// A release that fires early keeps the seats and tries again at the real
	// deadline.
	deadline := booking.CreatedAt.Add(s.gracePeriod)
	if now := time.Now().UTC(); now.Before(deadline) {
		if s.scheduler != nil {
			if err := s.scheduler.ScheduleRelease(ctx, bookingID, deadline); err != nil {
				return fmt.Errorf("failed to reschedule early release: %w", err)
			}
		}
		return nil
	}

	// The conditional delete is the commit point. It serializes with MarkPaid
	// on the booking row: if payment lands between the read above and this
	// delete, nothing is deleted and the seats stay held.
	deleted, err := s.repo.DeleteIfUnpaid(ctx, bookingID)
	if err != nil {
		return fmt.Errorf("failed to delete released booking: %w", err)
	}
	if !deleted {
		return nil
	}

	if err := s.seatMap.Release(ctx, booking.ShowID, bookingID); err != nil {
		return err
	}
	s.logger.LogBookingReleased(ctx, bookingID.String(), booking.ShowID.String(), len(booking.Seats))
	return nil
}

func (s *service) ReconcilePending(ctx context.Context) (int, error) {
	cutoff := time.Now().UTC().Add(-s.gracePeriod)
	pending, err := s.repo.ListPendingOlderThan(ctx, cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to list pending bookings: %w", err)
	}

	released := 0
	for _, booking := range pending {
		if err := s.ReleaseIfUnpaid(ctx, booking.ID); err != nil {
			s.logger.ErrorWithContext(ctx, "Failed to release expired booking", err,
				map[string]interface{}{"booking_id": booking.ID.String()})
			continue
		}
		released++
	}
	return released, nil
}

func (s *service) GetUserBookings(ctx context.Context, userID string) ([]Booking, error) {
	bookings, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list bookings: %w", err)
	}
	return bookings, nil
}

func (s *service) OccupiedSeats(ctx context.Context, showID uuid.UUID) (*OccupiedSeatsResponse, error) {
	if _, err := s.showService.GetShowByID(ctx, showID); err != nil {
		return nil, err
	}
	occupied, err := s.seatMap.Occupied(ctx, showID)
	if err != nil {
		return nil, err
	}
	return &OccupiedSeatsResponse{ShowID: showID, OccupiedSeats: occupied}, nil
}

func dedupe(labels []string) []string {
	seen := make(map[string]bool, len(labels))
	out := make([]string, 0, len(labels))
	for _, label := range labels {
		if label == "" || seen[label] {
			continue
		}
		seen[label] = true
		out = append(out, label)
	}
	return out
}
