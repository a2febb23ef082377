package notifications

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

type MessageType string

const (
	MessageTypeBookingConfirmed MessageType = "booking.confirmed"
	MessageTypeShowAdded        MessageType = "show.added"
	MessageTypeShowReminder     MessageType = "show.reminder"
)

// Recipient is one resolved email target. Recipients are resolved by the
// publisher, so a consumer never has to look users up again.
type Recipient struct {
	UserID string `json:"user_id"`
	Name   string `json:"name"`
	Email  string `json:"email"`
}

// Message is one notification fan-out unit: a template type, its data, and
// every recipient it goes to.
type Message struct {
	ID         uuid.UUID              `json:"id"`
	Type       MessageType            `json:"type"`
	Subject    string                 `json:"subject"`
	Recipients []Recipient            `json:"recipients"`
	Data       map[string]interface{} `json:"data"`
	CreatedAt  time.Time              `json:"created_at"`
}

func NewMessage(msgType MessageType, subject string, recipients []Recipient, data map[string]interface{}) *Message {
	return &Message{
		ID:         uuid.New(),
		Type:       msgType,
		Subject:    subject,
		Recipients: recipients,
		Data:       data,
		CreatedAt:  time.Now().UTC(),
	}
}

func (m *Message) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

func FromJSON(data []byte) (*Message, error) {
	var msg Message
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}

// GetPartitionKey keys the broker partition by message id so one fan-out
// stays on one partition.
func (m *Message) GetPartitionKey() string {
	return m.ID.String()
}
