package jobs

import (
	"context"
	"sync"
	"testing"
	"time"

	"cineshow/internal/movies"
	"cineshow/internal/notifications"
	"cineshow/internal/seats"
	"cineshow/internal/shared/config"
	"cineshow/internal/shows"
	"cineshow/internal/users"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// The stubs embed the interface they fake so only the methods the reminder
// sweep touches need bodies; anything else would panic the test.

type stubShowService struct {
	shows.Service
	window           []shows.Show
	gotStart, gotEnd time.Time
}

func (s *stubShowService) ListStartingBetween(ctx context.Context, start, end time.Time) ([]shows.Show, error) {
	s.gotStart, s.gotEnd = start, end
	return s.window, nil
}

type stubMovieService struct {
	movies.Service
}

func (s *stubMovieService) GetByID(ctx context.Context, movieID string) (*movies.Movie, error) {
	return &movies.Movie{ID: movieID, Title: "Movie " + movieID}, nil
}

type stubUserService struct {
	users.Service
	directory map[string]users.User
}

func (s *stubUserService) GetByIDs(ctx context.Context, ids []string) ([]users.User, error) {
	var out []users.User
	for _, id := range ids {
		if u, ok := s.directory[id]; ok {
			out = append(out, u)
		}
	}
	return out, nil
}

type stubSeatMap struct {
	seats.SeatMap
	holders map[uuid.UUID][]string
}

func (s *stubSeatMap) Holders(ctx context.Context, showID uuid.UUID) ([]string, error) {
	return s.holders[showID], nil
}

type recordingSender struct {
	mu   sync.Mutex
	sent []string
}

func (r *recordingSender) Send(ctx context.Context, to, subject, htmlBody string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sent = append(r.sent, to)
	return nil
}

func testConfig() *config.Config {
	return &config.Config{
		Booking: config.BookingConfig{
			GracePeriod:       10 * time.Minute,
			ReminderLead:      8 * time.Hour,
			ReminderSlack:     10 * time.Minute,
			WorkerConcurrency: 2,
		},
		Redis: config.RedisConfig{Addr: "localhost:6379"},
	}
}

func TestShowRemindersFanOut(t *testing.T) {
	showID := uuid.New()
	showService := &stubShowService{window: []shows.Show{
		{ID: showID, MovieID: "m1", StartTime: time.Now().UTC().Add(8 * time.Hour), Price: 10},
	}}
	seatMap := &stubSeatMap{holders: map[uuid.UUID][]string{
		showID: {"user_1", "user_2"},
	}}
	userService := &stubUserService{directory: map[string]users.User{
		"user_1": {ID: "user_1", Name: "Alice", Email: "alice@example.com"},
		"user_2": {ID: "user_2", Name: "Bob", Email: "bob@example.com"},
	}}
	sender := &recordingSender{}

	w := NewWorker(testConfig(), nil, showService, &stubMovieService{}, userService,
		seatMap, notifications.NewDispatcher(sender))

	err := w.handleShowReminders(context.Background(), NewShowRemindersTask())
	require.NoError(t, err)

	assert.ElementsMatch(t, []string{"alice@example.com", "bob@example.com"}, sender.sent)
}

func TestShowRemindersWindowBounds(t *testing.T) {
	showService := &stubShowService{}
	w := NewWorker(testConfig(), nil, showService, &stubMovieService{}, &stubUserService{},
		&stubSeatMap{}, notifications.NewDispatcher(&recordingSender{}))

	before := time.Now().UTC()
	require.NoError(t, w.handleShowReminders(context.Background(), NewShowRemindersTask()))
	after := time.Now().UTC()

	// Window is [lead-slack, lead) ahead of now: a sweep that fires a bit
	// late still covers shows right at the lead boundary.
	assert.False(t, showService.gotStart.Before(before.Add(8*time.Hour-10*time.Minute)))
	assert.False(t, showService.gotStart.After(after.Add(8*time.Hour-10*time.Minute)))
	assert.Equal(t, 10*time.Minute, showService.gotEnd.Sub(showService.gotStart))
}

func TestShowRemindersSkipsEmptyShows(t *testing.T) {
	showID := uuid.New()
	showService := &stubShowService{window: []shows.Show{
		{ID: showID, MovieID: "m1", StartTime: time.Now().UTC().Add(8 * time.Hour)},
	}}
	sender := &recordingSender{}

	w := NewWorker(testConfig(), nil, showService, &stubMovieService{}, &stubUserService{},
		&stubSeatMap{}, notifications.NewDispatcher(sender))

	require.NoError(t, w.handleShowReminders(context.Background(), NewShowRemindersTask()))
	assert.Empty(t, sender.sent, "shows with no held seats send nothing")
}
