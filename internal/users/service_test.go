package users

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type fakeUserRepo struct {
	users map[string]*User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[string]*User)}
}

func (r *fakeUserRepo) Upsert(ctx context.Context, user *User) error {
	clone := *user
	r.users[user.ID] = &clone
	return nil
}

func (r *fakeUserRepo) GetByID(ctx context.Context, id string) (*User, error) {
	user, ok := r.users[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	clone := *user
	return &clone, nil
}

func (r *fakeUserRepo) GetByIDs(ctx context.Context, ids []string) ([]User, error) {
	var out []User
	for _, id := range ids {
		if user, ok := r.users[id]; ok {
			out = append(out, *user)
		}
	}
	return out, nil
}

func (r *fakeUserRepo) GetAll(ctx context.Context) ([]User, error) {
	var out []User
	for _, user := range r.users {
		out = append(out, *user)
	}
	return out, nil
}

func (r *fakeUserRepo) Delete(ctx context.Context, id string) error {
	delete(r.users, id)
	return nil
}

func createdEvent(id, first, last, email string) *IdentityEvent {
	return &IdentityEvent{
		Type: EventUserCreated,
		Data: IdentityPayload{
			ID:             id,
			FirstName:      first,
			LastName:       last,
			EmailAddresses: []emailAddress{{EmailAddress: email}},
			ImageURL:       "https://img.example.com/" + id,
		},
	}
}

func TestSyncUserCreated(t *testing.T) {
	repo := newFakeUserRepo()
	svc := NewService(repo)

	err := svc.SyncUser(context.Background(), createdEvent("user_1", "Ada", "Lovelace", "ada@example.com"))
	require.NoError(t, err)

	user, err := svc.GetByID(context.Background(), "user_1")
	require.NoError(t, err)
	assert.Equal(t, "Ada Lovelace", user.Name)
	assert.Equal(t, "ada@example.com", user.Email)
	assert.Equal(t, "https://img.example.com/user_1", user.Avatar)
}

func TestSyncUserUpdatedOverwrites(t *testing.T) {
	repo := newFakeUserRepo()
	svc := NewService(repo)

	require.NoError(t, svc.SyncUser(context.Background(), createdEvent("user_1", "Ada", "Lovelace", "ada@example.com")))

	update := createdEvent("user_1", "Ada", "King", "ada.king@example.com")
	update.Type = EventUserUpdated
	require.NoError(t, svc.SyncUser(context.Background(), update))

	user, err := svc.GetByID(context.Background(), "user_1")
	require.NoError(t, err)
	assert.Equal(t, "Ada King", user.Name)
	assert.Equal(t, "ada.king@example.com", user.Email)
}

func TestSyncUserDeleted(t *testing.T) {
	repo := newFakeUserRepo()
	svc := NewService(repo)

	require.NoError(t, svc.SyncUser(context.Background(), createdEvent("user_1", "Ada", "Lovelace", "ada@example.com")))
	require.NoError(t, svc.SyncUser(context.Background(), &IdentityEvent{
		Type: EventUserDeleted,
		Data: IdentityPayload{ID: "user_1"},
	}))

	_, err := svc.GetByID(context.Background(), "user_1")
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestSyncUserUnknownEvent(t *testing.T) {
	svc := NewService(newFakeUserRepo())

	err := svc.SyncUser(context.Background(), &IdentityEvent{
		Type: "session.created",
		Data: IdentityPayload{ID: "user_1"},
	})

	assert.ErrorIs(t, err, ErrUnknownEvent)
}

func TestSyncUserReplayConverges(t *testing.T) {
	repo := newFakeUserRepo()
	svc := NewService(repo)

	event := createdEvent("user_1", "Ada", "Lovelace", "ada@example.com")
	require.NoError(t, svc.SyncUser(context.Background(), event))
	require.NoError(t, svc.SyncUser(context.Background(), event))

	all, err := svc.ListAll(context.Background())
	require.NoError(t, err)
	assert.Len(t, all, 1)
}
