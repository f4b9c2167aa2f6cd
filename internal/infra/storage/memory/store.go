// Package memory is an in-memory store implementation backing tests and the
// STORAGE_MODE=memory demo runs.
package memory

import (
	"context"
	"sort"
	"sync"

	"roomgrid/internal/domain/reservation"
	"roomgrid/internal/domain/shared/events"
)

// Store keeps reservations and fixed occupations in mutex-guarded maps.
type Store struct {
	mu           sync.RWMutex
	reservations map[string]*reservation.Reservation
	occupations  []reservation.FixedOccupation
}

// NewStore builds an empty store.
func NewStore() *Store {
	return &Store{reservations: make(map[string]*reservation.Reservation)}
}

// AddFixedOccupation seeds a class interval. The scheduling core never writes
// occupations; this exists for fixture loading and tests.
func (s *Store) AddFixedOccupation(occ reservation.FixedOccupation) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.occupations = append(s.occupations, occ)
}

// ImportFixedOccupation stores an occupation from the timetable feed,
// replacing an identical interval instead of duplicating it.
func (s *Store) ImportFixedOccupation(ctx context.Context, occ reservation.FixedOccupation) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.occupations {
		if existing == occ {
			return nil
		}
	}
	s.occupations = append(s.occupations, occ)
	return nil
}

// ListFixedOccupations returns the class intervals for a room/date.
func (s *Store) ListFixedOccupations(ctx context.Context, roomID, date string) ([]reservation.FixedOccupation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []reservation.FixedOccupation
	for _, occ := range s.occupations {
		if occ.RoomID == roomID && occ.Date == date {
			out = append(out, occ)
		}
	}
	return out, nil
}

// ListActiveReservations returns copies of the active reservations for a room/date.
func (s *Store) ListActiveReservations(ctx context.Context, roomID, date string) ([]*reservation.Reservation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*reservation.Reservation
	for _, res := range s.reservations {
		if res.RoomID == roomID && res.Date == date && res.Active() {
			out = append(out, copyReservation(res))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Start < out[j].Start })
	return out, nil
}

// GetReservation returns a copy of the reservation or reservation.ErrNotFound.
func (s *Store) GetReservation(ctx context.Context, id string) (*reservation.Reservation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	res, ok := s.reservations[id]
	if !ok {
		return nil, reservation.ErrNotFound
	}
	return copyReservation(res), nil
}

// SaveReservation upserts the reservation state.
func (s *Store) SaveReservation(ctx context.Context, r *reservation.Reservation) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reservations[r.ID] = copyReservation(r)
	return nil
}

// DistinctRoomIDs returns every room id seen in occupations or reservations.
func (s *Store) DistinctRoomIDs(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	set := make(map[string]struct{})
	for _, occ := range s.occupations {
		set[occ.RoomID] = struct{}{}
	}
	for _, res := range s.reservations {
		set[res.RoomID] = struct{}{}
	}
	ids := make([]string, 0, len(set))
	for id := range set {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids, nil
}

// copyReservation detaches stored state from caller-held aggregates so the
// store keeps exclusive ownership of persisted records.
func copyReservation(r *reservation.Reservation) *reservation.Reservation {
	dup := *r
	dup.EventRecorder = events.EventRecorder{}
	if r.CancelledAt != nil {
		at := *r.CancelledAt
		dup.CancelledAt = &at
	}
	return &dup
}
