package users

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"
)

var (
	ErrUserNotFound = errors.New("user not found")
	ErrUnknownEvent = errors.New("unknown identity event type")
)

// Service keeps the local user table in sync with the identity provider
// and answers recipient lookups for the notification side.
type Service interface {
	SyncUser(ctx context.Context, event *IdentityEvent) error
	GetByID(ctx context.Context, id string) (*User, error)
	GetByIDs(ctx context.Context, ids []string) ([]User, error)
	ListAll(ctx context.Context) ([]User, error)
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

// SyncUser applies one identity-provider event. Create and update are both
// upserts: the provider is authoritative and replays must converge.
func (s *service) SyncUser(ctx context.Context, event *IdentityEvent) error {
	switch event.Type {
	case EventUserCreated, EventUserUpdated:
		if event.Data.ID == "" {
			return fmt.Errorf("identity event missing user id")
		}
		user := &User{
			ID:     event.Data.ID,
			Name:   strings.TrimSpace(event.Data.FirstName + " " + event.Data.LastName),
			Email:  event.Data.PrimaryEmail(),
			Avatar: event.Data.ImageURL,
		}
		if err := s.repo.Upsert(ctx, user); err != nil {
			return fmt.Errorf("failed to sync user %s: %w", user.ID, err)
		}
		return nil

	case EventUserDeleted:
		if event.Data.ID == "" {
			return fmt.Errorf("identity event missing user id")
		}
		if err := s.repo.Delete(ctx, event.Data.ID); err != nil {
			return fmt.Errorf("failed to delete user %s: %w", event.Data.ID, err)
		}
		return nil

	default:
		return fmt.Errorf("%w: %q", ErrUnknownEvent, event.Type)
	}
}

func (s *service) GetByID(ctx context.Context, id string) (*User, error) {
	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return user, nil
}

func (s *service) GetByIDs(ctx context.Context, ids []string) ([]User, error) {
	return s.repo.GetByIDs(ctx, ids)
}

func (s *service) ListAll(ctx context.Context) ([]User, error) {
	return s.repo.GetAll(ctx)
}
