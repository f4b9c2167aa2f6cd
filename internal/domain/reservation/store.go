package reservation

import "context"

// Store is the external persistence contract the scheduling core reads from
// and writes to. The store exclusively owns the persisted records; the core
// operates on the transient copies these methods return.
type Store interface {
	// ListFixedOccupations returns the class-schedule intervals for a room/date.
	ListFixedOccupations(ctx context.Context, roomID, date string) ([]FixedOccupation, error)
	// ListActiveReservations returns the active reservations for a room/date.
	// Cancelled reservations are never returned.
	ListActiveReservations(ctx context.Context, roomID, date string) ([]*Reservation, error)
	// GetReservation returns a reservation by id or ErrNotFound.
	GetReservation(ctx context.Context, id string) (*Reservation, error)
	// SaveReservation upserts the reservation's current state.
	SaveReservation(ctx context.Context, r *Reservation) error
	// DistinctRoomIDs returns every room id appearing in occupations or reservations.
	DistinctRoomIDs(ctx context.Context) ([]string, error)
}
