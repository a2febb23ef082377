package notifications

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSender struct {
	mu      sync.Mutex
	sent    []string
	failFor map[string]bool
}

func (f *fakeSender) Send(ctx context.Context, to, subject, htmlBody string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failFor[to] {
		return errors.New("mailbox unavailable")
	}
	f.sent = append(f.sent, to)
	return nil
}

func reminderMessage(recipients ...Recipient) *Message {
	return NewMessage(MessageTypeShowReminder, "Reminder", recipients, map[string]interface{}{
		"MovieTitle": "Inception",
		"ShowDate":   "Friday, 05 September 2026",
		"ShowTime":   "20:00 UTC",
	})
}

func TestDispatchAllDelivered(t *testing.T) {
	sender := &fakeSender{}
	d := NewDispatcher(sender)

	report := d.Dispatch(context.Background(), reminderMessage(
		Recipient{UserID: "u1", Name: "Alice", Email: "alice@example.com"},
		Recipient{UserID: "u2", Name: "Bob", Email: "bob@example.com"},
	))

	assert.Equal(t, Report{Sent: 2, Failed: 0}, report)
	assert.ElementsMatch(t, []string{"alice@example.com", "bob@example.com"}, sender.sent)
}

func TestDispatchCountsFailures(t *testing.T) {
	sender := &fakeSender{failFor: map[string]bool{"bob@example.com": true}}
	d := NewDispatcher(sender)

	report := d.Dispatch(context.Background(), reminderMessage(
		Recipient{UserID: "u1", Name: "Alice", Email: "alice@example.com"},
		Recipient{UserID: "u2", Name: "Bob", Email: "bob@example.com"},
		Recipient{UserID: "u3", Name: "Carol", Email: "carol@example.com"},
	))

	// One bad address never blocks the rest.
	assert.Equal(t, Report{Sent: 2, Failed: 1}, report)
	assert.ElementsMatch(t, []string{"alice@example.com", "carol@example.com"}, sender.sent)
}

func TestDispatchEmptyRecipients(t *testing.T) {
	d := NewDispatcher(&fakeSender{})

	report := d.Dispatch(context.Background(), reminderMessage())

	assert.Equal(t, Report{}, report)
}

func TestDispatchUnknownTypeFails(t *testing.T) {
	sender := &fakeSender{}
	d := NewDispatcher(sender)

	msg := NewMessage(MessageType("bogus"), "?", []Recipient{
		{UserID: "u1", Name: "Alice", Email: "alice@example.com"},
	}, nil)
	report := d.Dispatch(context.Background(), msg)

	assert.Equal(t, Report{Sent: 0, Failed: 1}, report)
	assert.Empty(t, sender.sent)
}

func TestTemplateRendersRecipientName(t *testing.T) {
	ts := newTemplateSet()

	body, err := ts.Render(MessageTypeBookingConfirmed,
		Recipient{Name: "Alice", Email: "alice@example.com"},
		map[string]interface{}{
			"MovieTitle": "Inception",
			"ShowDate":   "Friday, 05 September 2026",
			"ShowTime":   "20:00 UTC",
			"Seats":      "A1, A2",
		})

	require.NoError(t, err)
	assert.True(t, strings.Contains(body, "Alice"))
	assert.True(t, strings.Contains(body, "Inception"))
	assert.True(t, strings.Contains(body, "A1, A2"))
	assert.True(t, strings.Contains(body, accentColor))
}

func TestMessageRoundTrip(t *testing.T) {
	msg := reminderMessage(Recipient{UserID: "u1", Name: "Alice", Email: "alice@example.com"})

	data, err := msg.ToJSON()
	require.NoError(t, err)

	decoded, err := FromJSON(data)
	require.NoError(t, err)
	assert.Equal(t, msg.ID, decoded.ID)
	assert.Equal(t, msg.Type, decoded.Type)
	assert.Equal(t, msg.Recipients, decoded.Recipients)
}
