package seats

import (
	"context"
	"os"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// These tests exercise the real row-lock + unique-index path and need a
// database. Set TEST_DATABASE_DSN to run them, e.g.
// "host=localhost user=cineshow_user password=... dbname=cineshow_test".
func testSeatMap(t *testing.T) (SeatMap, uuid.UUID) {
	t.Helper()

	dsn := os.Getenv("TEST_DATABASE_DSN")
	if dsn == "" {
		t.Skip("TEST_DATABASE_DSN not set")
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&SeatHold{}))
	require.NoError(t, db.Exec(`
		CREATE UNIQUE INDEX IF NOT EXISTS idx_show_seats_show_seat
		ON show_seats (show_id, seat_label);
	`).Error)

	showID := uuid.New()
	t.Cleanup(func() {
		db.Where("show_id = ?", showID).Delete(&SeatHold{})
	})
	return NewSeatMap(db), showID
}

func TestTryReserveConflictNamesHeldSeat(t *testing.T) {
	m, showID := testSeatMap(t)
	ctx := context.Background()

	require.NoError(t, m.TryReserve(ctx, showID, []string{"A1", "A2"}, uuid.New(), "user_1"))

	err := m.TryReserve(ctx, showID, []string{"A2", "A3"}, uuid.New(), "user_2")
	var conflict *ConflictError
	require.ErrorAs(t, err, &conflict)
	assert.Equal(t, "A2", conflict.Seat)

	// The losing batch holds nothing, including the seat that was free.
	held, err := m.IsHeld(ctx, showID, "A3")
	require.NoError(t, err)
	assert.False(t, held)
}

func TestTryReserveConcurrentOverlap(t *testing.T) {
	m, showID := testSeatMap(t)
	ctx := context.Background()

	const attempts = 8
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		succeeded int
	)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			err := m.TryReserve(ctx, showID, []string{"B1", "B2"}, uuid.New(), "user")
			mu.Lock()
			defer mu.Unlock()
			if err == nil {
				succeeded++
				return
			}
			var conflict *ConflictError
			assert.ErrorAs(t, err, &conflict)
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 1, succeeded, "exactly one overlapping reservation wins")
	occupied, err := m.Occupied(ctx, showID)
	require.NoError(t, err)
	assert.Equal(t, []string{"B1", "B2"}, occupied)
}

func TestReleaseIdempotent(t *testing.T) {
	m, showID := testSeatMap(t)
	ctx := context.Background()
	holderID := uuid.New()

	require.NoError(t, m.TryReserve(ctx, showID, []string{"C1", "C2"}, holderID, "user_1"))
	require.NoError(t, m.Release(ctx, showID, holderID))
	require.NoError(t, m.Release(ctx, showID, holderID))

	occupied, err := m.Occupied(ctx, showID)
	require.NoError(t, err)
	assert.Empty(t, occupied)

	// Released seats can be taken again.
	require.NoError(t, m.TryReserve(ctx, showID, []string{"C1"}, uuid.New(), "user_2"))
}

func TestHoldersDistinctUsers(t *testing.T) {
	m, showID := testSeatMap(t)
	ctx := context.Background()

	require.NoError(t, m.TryReserve(ctx, showID, []string{"D1", "D2"}, uuid.New(), "user_1"))
	require.NoError(t, m.TryReserve(ctx, showID, []string{"D3"}, uuid.New(), "user_2"))
	require.NoError(t, m.TryReserve(ctx, showID, []string{"D4"}, uuid.New(), "user_1"))

	holders, err := m.Holders(ctx, showID)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"user_1", "user_2"}, holders)
}
