package jobs

import (
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
)

const (
	// TypeBookingRelease is the one-shot task that frees the seats of an
	// unpaid booking once its grace period is over.
	TypeBookingRelease = "booking:release"
	// TypeShowReminders is the periodic sweep that emails upcoming-show
	// reminders.
	TypeShowReminders = "shows:reminders"
)

type BookingReleasePayload struct {
	BookingID uuid.UUID `json:"booking_id"`
}

func NewBookingReleaseTask(bookingID uuid.UUID) (*asynq.Task, error) {
	payload, err := json.Marshal(BookingReleasePayload{BookingID: bookingID})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal release payload: %w", err)
	}
	return asynq.NewTask(TypeBookingRelease, payload), nil
}

func NewShowRemindersTask() *asynq.Task {
	return asynq.NewTask(TypeShowReminders, nil)
}
