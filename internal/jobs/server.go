package jobs

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"cineshow/internal/bookings"
	"cineshow/internal/movies"
	"cineshow/internal/notifications"
	"cineshow/internal/seats"
	"cineshow/internal/shared/config"
	"cineshow/internal/shows"
	"cineshow/internal/users"
	"cineshow/pkg/logger"

	"github.com/hibiken/asynq"
)

// Reminder sweep cadence. Every run looks one lead-time ahead, so with an
// 8 hour lead an every-8-hours schedule covers each show exactly once.
const reminderCronSpec = "0 */8 * * *"

// Worker runs the background side of the system: deferred booking releases
// and the periodic show-reminder sweep.
type Worker struct {
	server    *asynq.Server
	scheduler *asynq.Scheduler

	bookingService bookings.Service
	showService    shows.Service
	movieService   movies.Service
	userService    users.Service
	seatMap        seats.SeatMap
	dispatcher     *notifications.Dispatcher
	cfg            *config.Config
	logger         *logger.Logger
}

func NewWorker(
	cfg *config.Config,
	bookingService bookings.Service,
	showService shows.Service,
	movieService movies.Service,
	userService users.Service,
	seatMap seats.SeatMap,
	dispatcher *notifications.Dispatcher,
) *Worker {
	redisOpt := asynq.RedisClientOpt{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	}

	server := asynq.NewServer(redisOpt, asynq.Config{
		Concurrency: cfg.Booking.WorkerConcurrency,
		Queues: map[string]int{
			"default": 10,
		},
	})

	scheduler := asynq.NewScheduler(redisOpt, &asynq.SchedulerOpts{
		Location: time.UTC,
	})

	return &Worker{
		server:         server,
		scheduler:      scheduler,
		bookingService: bookingService,
		showService:    showService,
		movieService:   movieService,
		userService:    userService,
		seatMap:        seatMap,
		dispatcher:     dispatcher,
		cfg:            cfg,
		logger:         logger.GetDefault(),
	}
}

// Start registers handlers and the reminder cron entry, then runs the task
// server in the background.
func (w *Worker) Start() error {
	mux := asynq.NewServeMux()
	mux.HandleFunc(TypeBookingRelease, w.handleBookingRelease)
	mux.HandleFunc(TypeShowReminders, w.handleShowReminders)

	if _, err := w.scheduler.Register(reminderCronSpec, NewShowRemindersTask()); err != nil {
		return fmt.Errorf("failed to register reminder schedule: %w", err)
	}
	if err := w.scheduler.Start(); err != nil {
		return fmt.Errorf("failed to start task scheduler: %w", err)
	}

	go func() {
		if err := w.server.Run(mux); err != nil {
			w.logger.Error("Task server stopped", "error", err)
		}
	}()

	w.logger.Info("Background worker started",
		"concurrency", w.cfg.Booking.WorkerConcurrency,
		"reminder_schedule", reminderCronSpec,
	)
	return nil
}

func (w *Worker) Shutdown() {
	w.scheduler.Shutdown()
	w.server.Shutdown()
}

func (w *Worker) handleBookingRelease(ctx context.Context, t *asynq.Task) error {
	var payload BookingReleasePayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return fmt.Errorf("failed to unmarshal release payload: %v: %w", err, asynq.SkipRetry)
	}
	return w.bookingService.ReleaseIfUnpaid(ctx, payload.BookingID)
}

// handleShowReminders emails everyone holding seats on shows starting about
// one lead-time from now. The window's lower edge is widened by the slack so
// a late-firing sweep cannot skip a show.
func (w *Worker) handleShowReminders(ctx context.Context, t *asynq.Task) error {
	now := time.Now().UTC()
	windowStart := now.Add(w.cfg.Booking.ReminderLead - w.cfg.Booking.ReminderSlack)
	windowEnd := now.Add(w.cfg.Booking.ReminderLead)

	upcoming, err := w.showService.ListStartingBetween(ctx, windowStart, windowEnd)
	if err != nil {
		return fmt.Errorf("failed to list shows for reminders: %w", err)
	}
	if len(upcoming) == 0 {
		w.logger.InfoContext(ctx, "No shows in reminder window")
		return nil
	}

	for _, show := range upcoming {
		if err := w.remindShow(ctx, show); err != nil {
			w.logger.ErrorWithContext(ctx, "Failed to send reminders for show", err,
				map[string]interface{}{"show_id": show.ID.String()})
		}
	}
	return nil
}

func (w *Worker) remindShow(ctx context.Context, show shows.Show) error {
	holders, err := w.seatMap.Holders(ctx, show.ID)
	if err != nil {
		return err
	}
	if len(holders) == 0 {
		return nil
	}

	holderUsers, err := w.userService.GetByIDs(ctx, holders)
	if err != nil {
		return err
	}
	recipients := make([]notifications.Recipient, 0, len(holderUsers))
	for _, u := range holderUsers {
		if u.Email == "" {
			continue
		}
		recipients = append(recipients, notifications.Recipient{UserID: u.ID, Name: u.Name, Email: u.Email})
	}
	if len(recipients) == 0 {
		return nil
	}

	movie, err := w.movieService.GetByID(ctx, show.MovieID)
	if err != nil {
		return err
	}

	msg := notifications.NewReminderMessage(movie.Title, &show, recipients)
	report := w.dispatcher.Dispatch(ctx, msg)
	w.logger.LogDispatchReport(ctx, string(notifications.MessageTypeShowReminder), report.Sent, report.Failed)
	return nil
}
