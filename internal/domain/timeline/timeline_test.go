package timeline

import (
	"context"
	"testing"
	"time"

	"roomgrid/internal/domain/calendar"
	"roomgrid/internal/domain/capacity"
	"roomgrid/internal/domain/reservation"
)

type fakeStore struct {
	occupations  []reservation.FixedOccupation
	reservations []*reservation.Reservation
}

func (s *fakeStore) ListFixedOccupations(ctx context.Context, roomID, date string) ([]reservation.FixedOccupation, error) {
	var out []reservation.FixedOccupation
	for _, occ := range s.occupations {
		if occ.RoomID == roomID && occ.Date == date {
			out = append(out, occ)
		}
	}
	return out, nil
}

func (s *fakeStore) ListActiveReservations(ctx context.Context, roomID, date string) ([]*reservation.Reservation, error) {
	var out []*reservation.Reservation
	for _, res := range s.reservations {
		if res.RoomID == roomID && res.Date == date && res.Active() {
			out = append(out, res)
		}
	}
	return out, nil
}

func (s *fakeStore) GetReservation(ctx context.Context, id string) (*reservation.Reservation, error) {
	return nil, reservation.ErrNotFound
}

func (s *fakeStore) SaveReservation(ctx context.Context, r *reservation.Reservation) error {
	return nil
}

func (s *fakeStore) DistinctRoomIDs(ctx context.Context) ([]string, error) {
	return nil, nil
}

func activeReservation(id, room, date, start, end string, party int) *reservation.Reservation {
	return &reservation.Reservation{
		ID: id, RoomID: room, Date: date, Start: start, End: end,
		PartySize: party, Requester: "u-1", Status: reservation.StatusActive,
		CreatedAt: time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC),
	}
}

func newProjector(t *testing.T, store reservation.Store) *Projector {
	t.Helper()
	gate, err := calendar.NewGate([]string{"2025-05-01"})
	if err != nil {
		t.Fatalf("NewGate: %v", err)
	}
	return NewProjector(store, gate, capacity.NewModel(15, capacity.FlatPolicy{}))
}

func TestStatusAtBlockedDate(t *testing.T) {
	p := newProjector(t, &fakeStore{})
	status, err := p.StatusAt(context.Background(), "S.1.1", "2025-03-08", "10:00")
	if err != nil {
		t.Fatalf("StatusAt: %v", err)
	}
	want := Status{State: StateOccupied, Residual: 0, Cause: CauseBlocked}
	if status != want {
		t.Fatalf("status = %+v, want %+v", status, want)
	}
}

func TestStatusAtClass(t *testing.T) {
	store := &fakeStore{
		occupations: []reservation.FixedOccupation{
			{RoomID: "S.1.1", Date: "2025-03-03", Start: "09:00", End: "10:00"},
		},
	}
	p := newProjector(t, store)

	status, err := p.StatusAt(context.Background(), "S.1.1", "2025-03-03", "09:30")
	if err != nil {
		t.Fatalf("StatusAt: %v", err)
	}
	if status.State != StateOccupied || status.Cause != CauseClass || status.Residual != 0 {
		t.Fatalf("during class: status = %+v", status)
	}

	// End bound is exclusive: the room frees up exactly at 10:00.
	status, err = p.StatusAt(context.Background(), "S.1.1", "2025-03-03", "10:00")
	if err != nil {
		t.Fatalf("StatusAt: %v", err)
	}
	if status.State != StateFree || status.Residual != 15 {
		t.Fatalf("after class: status = %+v", status)
	}
}

func TestStatusAtCapacity(t *testing.T) {
	store := &fakeStore{
		reservations: []*reservation.Reservation{
			activeReservation("res-a", "S.1.1", "2025-03-03", "10:00", "11:00", 10),
			activeReservation("res-b", "S.1.1", "2025-03-03", "10:30", "11:30", 5),
		},
	}
	p := newProjector(t, store)

	status, err := p.StatusAt(context.Background(), "S.1.1", "2025-03-03", "10:15")
	if err != nil {
		t.Fatalf("StatusAt: %v", err)
	}
	if status.State != StateFree || status.Residual != 5 {
		t.Fatalf("one reservation: status = %+v, want free residual 5", status)
	}

	status, err = p.StatusAt(context.Background(), "S.1.1", "2025-03-03", "10:45")
	if err != nil {
		t.Fatalf("StatusAt: %v", err)
	}
	if status.State != StateOccupied || status.Cause != CauseFull || status.Residual != 0 {
		t.Fatalf("both reservations: status = %+v, want occupied/full", status)
	}
}

func TestNextChange(t *testing.T) {
	store := &fakeStore{
		occupations: []reservation.FixedOccupation{
			{RoomID: "S.1.1", Date: "2025-03-03", Start: "09:00", End: "10:00"},
		},
		reservations: []*reservation.Reservation{
			activeReservation("res-a", "S.1.1", "2025-03-03", "14:00", "15:00", 15),
		},
	}
	p := newProjector(t, store)
	ctx := context.Background()

	cases := []struct {
		name    string
		instant string
		want    string
		ok      bool
	}{
		{name: "before class", instant: "08:00", want: "09:00", ok: true},
		{name: "during class", instant: "09:30", want: "10:00", ok: true},
		{name: "between, next flip is full reservation", instant: "11:00", want: "14:00", ok: true},
		{name: "during full reservation", instant: "14:30", want: "15:00", ok: true},
		{name: "after everything", instant: "16:00", ok: false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, ok, err := p.NextChange(ctx, "S.1.1", "2025-03-03", tc.instant)
			if err != nil {
				t.Fatalf("NextChange: %v", err)
			}
			if ok != tc.ok || got != tc.want {
				t.Fatalf("NextChange(%s) = %q, %v; want %q, %v", tc.instant, got, ok, tc.want, tc.ok)
			}
		})
	}
}

func TestNextChangeForwardProgress(t *testing.T) {
	store := &fakeStore{
		occupations: []reservation.FixedOccupation{
			{RoomID: "S.1.1", Date: "2025-03-03", Start: "09:00", End: "10:00"},
		},
	}
	p := newProjector(t, store)

	// Applied exactly at a boundary, NextChange must not return that boundary again.
	got, ok, err := p.NextChange(context.Background(), "S.1.1", "2025-03-03", "09:00")
	if err != nil {
		t.Fatalf("NextChange: %v", err)
	}
	if !ok || got != "10:00" {
		t.Fatalf("NextChange(09:00) = %q, %v; want 10:00, true", got, ok)
	}
}

func TestNextChangeEmptyDay(t *testing.T) {
	p := newProjector(t, &fakeStore{})
	if _, ok, err := p.NextChange(context.Background(), "S.1.1", "2025-03-03", "08:00"); err != nil || ok {
		t.Fatalf("empty day: got ok=%v err=%v, want no change", ok, err)
	}
}

func TestNextChangeBlockedDay(t *testing.T) {
	store := &fakeStore{
		occupations: []reservation.FixedOccupation{
			{RoomID: "S.1.1", Date: "2025-03-08", Start: "09:00", End: "10:00"},
		},
	}
	p := newProjector(t, store)
	if _, ok, err := p.NextChange(context.Background(), "S.1.1", "2025-03-08", "08:00"); err != nil || ok {
		t.Fatalf("blocked day: got ok=%v err=%v, want no change", ok, err)
	}
}

func TestDayOverview(t *testing.T) {
	store := &fakeStore{
		occupations: []reservation.FixedOccupation{
			{RoomID: "S.1.1", Date: "2025-03-03", Start: "09:00", End: "10:00"},
		},
		reservations: []*reservation.Reservation{
			activeReservation("res-a", "S.1.1", "2025-03-03", "14:00", "15:00", 5),
			activeReservation("res-b", "S.1.1", "2025-03-03", "10:00", "11:00", 3),
		},
	}
	p := newProjector(t, store)

	busy, err := p.DayOverview(context.Background(), "S.1.1", "2025-03-03")
	if err != nil {
		t.Fatalf("DayOverview: %v", err)
	}
	if len(busy) != 3 {
		t.Fatalf("got %d busy intervals, want 3", len(busy))
	}
	if busy[0].Kind != BusyClass || busy[0].Start != "09:00" {
		t.Errorf("busy[0] = %+v, want the class first", busy[0])
	}
	if busy[1].ReservationID != "res-b" || busy[2].ReservationID != "res-a" {
		t.Errorf("reservations out of order: %+v", busy[1:])
	}
}
