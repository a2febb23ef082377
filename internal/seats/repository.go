package seats

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// SeatMap tracks which seats of which shows are held and by whom.
type SeatMap interface {
	// TryReserve holds all the given seats for holderID, atomically. If any
	// seat is already held it returns a ConflictError naming that seat and
	// holds nothing.
	TryReserve(ctx context.Context, showID uuid.UUID, seatLabels []string, holderID uuid.UUID, userID string) error
	// Release frees every seat held by holderID for the show. Releasing
	// seats that are not held is a no-op.
	Release(ctx context.Context, showID uuid.UUID, holderID uuid.UUID) error
	// IsHeld reports whether a single seat is currently held.
	IsHeld(ctx context.Context, showID uuid.UUID, seatLabel string) (bool, error)
	// Occupied returns the labels of every held seat of the show.
	Occupied(ctx context.Context, showID uuid.UUID) ([]string, error)
	// Holders returns the distinct user ids holding any seat of the show.
	Holders(ctx context.Context, showID uuid.UUID) ([]string, error)
}

type seatMap struct {
	db *gorm.DB
}

func NewSeatMap(db *gorm.DB) SeatMap {
	return &seatMap{db: db}
}

func (m *seatMap) TryReserve(ctx context.Context, showID uuid.UUID, seatLabels []string, holderID uuid.UUID, userID string) error {
	err := m.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// Lock existing rows for the requested seats so two concurrent
		// reservations of the same seat serialize here instead of both
		// proceeding to the insert.
		var held []SeatHold
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("show_id = ? AND seat_label IN ?", showID, seatLabels).
			Find(&held).Error
		if err != nil {
			return fmt.Errorf("failed to check seat availability: %w", err)
		}
		if len(held) > 0 {
			return &ConflictError{Seat: held[0].SeatLabel}
		}

		rows := make([]SeatHold, 0, len(seatLabels))
		for _, label := range seatLabels {
			rows = append(rows, SeatHold{
				ShowID:    showID,
				SeatLabel: label,
				HolderID:  holderID,
				UserID:    userID,
			})
		}
		if err := tx.Create(&rows).Error; err != nil {
			return fmt.Errorf("failed to reserve seats: %w", err)
		}
		return nil
	})
	// The unique index catches the race where a competing insert committed
	// between the lock query and ours. The failed transaction is aborted, so
	// the blocking seat has to be re-read outside it.
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return &ConflictError{Seat: m.firstHeld(ctx, showID, seatLabels)}
	}
	return err
}

// firstHeld names the first requested seat that is currently held, for the
// conflict report on the unique-index path. Falls back to the first requested
// label if the competing hold was released in the meantime.
func (m *seatMap) firstHeld(ctx context.Context, showID uuid.UUID, seatLabels []string) string {
	var labels []string
	err := m.db.WithContext(ctx).Model(&SeatHold{}).
		Where("show_id = ? AND seat_label IN ?", showID, seatLabels).
		Order("seat_label").
		Limit(1).
		Pluck("seat_label", &labels).Error
	if err != nil || len(labels) == 0 {
		return seatLabels[0]
	}
	return labels[0]
}

func (m *seatMap) Release(ctx context.Context, showID uuid.UUID, holderID uuid.UUID) error {
	err := m.db.WithContext(ctx).
		Where("show_id = ? AND holder_id = ?", showID, holderID).
		Delete(&SeatHold{}).Error
	if err != nil {
		return fmt.Errorf("failed to release seats: %w", err)
	}
	return nil
}

func (m *seatMap) IsHeld(ctx context.Context, showID uuid.UUID, seatLabel string) (bool, error) {
	var count int64
	err := m.db.WithContext(ctx).Model(&SeatHold{}).
		Where("show_id = ? AND seat_label = ?", showID, seatLabel).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("failed to check seat: %w", err)
	}
	return count > 0, nil
}

func (m *seatMap) Occupied(ctx context.Context, showID uuid.UUID) ([]string, error) {
	var labels []string
	err := m.db.WithContext(ctx).Model(&SeatHold{}).
		Where("show_id = ?", showID).
		Order("seat_label").
		Pluck("seat_label", &labels).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list occupied seats: %w", err)
	}
	return labels, nil
}

func (m *seatMap) Holders(ctx context.Context, showID uuid.UUID) ([]string, error) {
	var holders []string
	err := m.db.WithContext(ctx).Model(&SeatHold{}).
		Distinct("user_id").
		Where("show_id = ?", showID).
		Pluck("user_id", &holders).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list seat holders: %w", err)
	}
	return holders, nil
}
