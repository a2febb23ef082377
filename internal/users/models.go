package users

import (
	"encoding/json"
	"time"
)

// User mirrors an identity-provider record. The primary key is the
// provider's id, so webhook deliveries address rows directly.
type User struct {
	ID        string    `json:"id" gorm:"primaryKey;size:64"`
	Name      string    `json:"name" gorm:"not null;size:255"`
	Email     string    `json:"email" gorm:"uniqueIndex;not null;size:255"`
	Avatar    string    `json:"avatar" gorm:"size:500"`
	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

// TableName specifies the table name for GORM
func (User) TableName() string {
	return "users"
}

// Identity event types delivered by the provider
const (
	EventUserCreated = "user.created"
	EventUserUpdated = "user.updated"
	EventUserDeleted = "user.deleted"
)

// IdentityEvent is the provider's webhook envelope
type IdentityEvent struct {
	Type string          `json:"type"`
	Data IdentityPayload `json:"data"`
}

// IdentityPayload carries the user attributes of an identity event
type IdentityPayload struct {
	ID             string         `json:"id"`
	FirstName      string         `json:"first_name"`
	LastName       string         `json:"last_name"`
	EmailAddresses []emailAddress `json:"email_addresses"`
	ImageURL       string         `json:"image_url"`
}

type emailAddress struct {
	EmailAddress string `json:"email_address"`
}

// PrimaryEmail returns the first email address in the payload
func (p IdentityPayload) PrimaryEmail() string {
	if len(p.EmailAddresses) == 0 {
		return ""
	}
	return p.EmailAddresses[0].EmailAddress
}

// ParseIdentityEvent decodes a webhook body
func ParseIdentityEvent(body []byte) (*IdentityEvent, error) {
	var event IdentityEvent
	if err := json.Unmarshal(body, &event); err != nil {
		return nil, err
	}
	return &event, nil
}
