package jobs

import (
	"context"
	"errors"
	"fmt"
	"time"

	"cineshow/internal/shared/config"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
)

// ReleaseScheduler enqueues the deferred seat-release task for a booking.
// Tasks live in Redis, so a scheduled release survives a process restart.
type ReleaseScheduler struct {
	client *asynq.Client
}

func NewReleaseScheduler(cfg config.RedisConfig) *ReleaseScheduler {
	client := asynq.NewClient(asynq.RedisClientOpt{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	return &ReleaseScheduler{client: client}
}

func (s *ReleaseScheduler) ScheduleRelease(ctx context.Context, bookingID uuid.UUID, at time.Time) error {
	task, err := NewBookingReleaseTask(bookingID)
	if err != nil {
		return err
	}
	// The deadline is part of the task id, so retried schedule calls for
	// the same deadline are idempotent while a genuine reschedule (an early
	// fire pushing the release to the real deadline) still enqueues.
	taskID := fmt.Sprintf("release:%s:%d", bookingID, at.Unix())
	_, err = s.client.EnqueueContext(ctx, task,
		asynq.ProcessAt(at),
		asynq.TaskID(taskID),
		asynq.MaxRetry(5),
	)
	if err != nil && !errors.Is(err, asynq.ErrTaskIDConflict) {
		return fmt.Errorf("failed to enqueue release task: %w", err)
	}
	return nil
}

func (s *ReleaseScheduler) Close() error {
	return s.client.Close()
}
