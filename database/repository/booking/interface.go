package bookingRepo

import (
	"context"
	"errors"

	"counselbook/models"
)

// ErrSlotTaken signals that the store's uniqueness constraint rejected a
// write: another active reservation already holds (provider, date, start).
// It is the expected outcome of losing a booking race, not a failure.
var ErrSlotTaken = errors.New("an active reservation already holds this slot")

// ErrNotFound signals that no reservation matched the lookup.
var ErrNotFound = errors.New("reservation not found")

// ReservationRepository persists reservations. Insert and Update are the only
// serialization points for slot ownership: both surface ErrSlotTaken when the
// compound unique index fires, and callers must treat that as the conflict
// signal rather than pre-checking for collisions.
type ReservationRepository interface {
	Insert(ctx context.Context, r *models.Reservation) error
	GetByID(ctx context.Context, id string) (*models.Reservation, error)
	Update(ctx context.Context, r *models.Reservation) error
	Delete(ctx context.Context, id string) error

	// ActiveStartsForDate lists start times held by pending/confirmed
	// reservations for a provider on one date.
	ActiveStartsForDate(ctx context.Context, providerID, date string) ([]string, error)

	List(ctx context.Context, q ListQuery) ([]models.Reservation, error)
	CountByStatus(ctx context.Context, providerID string) (map[string]int64, error)
}
