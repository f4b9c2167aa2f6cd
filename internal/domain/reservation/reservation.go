// Package reservation holds the reservation aggregate, the read-only fixed
// occupation record and the store contract the scheduling core depends on.
package reservation

import (
	"errors"
	"time"

	"roomgrid/internal/domain/shared/events"
	"roomgrid/internal/domain/timeslot"
)

var (
	// ErrNotFound is returned when a reservation id is unknown to the store.
	ErrNotFound = errors.New("reservation: not found")
	// ErrInvalidState is returned when a mutation targets a cancelled reservation.
	ErrInvalidState = errors.New("reservation: operation not permitted on a cancelled reservation")
	// ErrInvalidInterval is returned when end does not lie strictly after start.
	ErrInvalidInterval = errors.New("reservation: end must be after start")
)

// Status is the reservation lifecycle state. There is no hard deletion.
type Status string

const (
	StatusActive    Status = "active"
	StatusCancelled Status = "cancelled"
)

// Reservation is a user-requested booking of a room interval. The interval is
// half-open: End is exclusive. Once cancelled the interval is frozen and the
// record is kept for history only.
type Reservation struct {
	ID          string
	RoomID      string
	Date        string // YYYY-MM-DD
	Start       string // HH:MM
	End         string // HH:MM, exclusive
	PartySize   int
	Requester   string
	Reason      string
	Status      Status
	CreatedAt   time.Time
	CancelledAt *time.Time

	events.EventRecorder
}

// FixedOccupation is a class-schedule interval. The scheduling core never
// creates, edits or deletes these; they arrive from the campus timetable feed.
type FixedOccupation struct {
	RoomID string
	Date   string
	Start  string
	End    string // exclusive
}

// NewParams carries the validated inputs for a new reservation.
type NewParams struct {
	ID        string
	RoomID    string
	Date      string
	Start     string
	End       string
	PartySize int
	Requester string
	Reason    string
	Now       time.Time
}

// New builds an active reservation and records its creation event. Interval
// validity is re-checked here so a reservation can never exist with end <= start.
func New(params NewParams) (*Reservation, error) {
	startMin, err := timeslot.ToMinutes(params.Start)
	if err != nil {
		return nil, err
	}
	endMin, err := timeslot.ToMinutes(params.End)
	if err != nil {
		return nil, err
	}
	if endMin <= startMin {
		return nil, ErrInvalidInterval
	}
	if params.PartySize < 1 {
		params.PartySize = 1
	}
	r := &Reservation{
		ID:        params.ID,
		RoomID:    params.RoomID,
		Date:      params.Date,
		Start:     params.Start,
		End:       params.End,
		PartySize: params.PartySize,
		Requester: params.Requester,
		Reason:    params.Reason,
		Status:    StatusActive,
		CreatedAt: params.Now.UTC(),
	}
	r.Record(Created{ReservationID: r.ID, RoomID: r.RoomID, Date: r.Date, Start: r.Start, End: r.End, PartySize: r.PartySize, Requester: r.Requester, At: r.CreatedAt})
	return r, nil
}

// Active reports whether the reservation still consumes capacity.
func (r *Reservation) Active() bool {
	return r.Status == StatusActive
}

// DurationMinutes returns the interval length, or false if the stored interval
// is malformed (legacy rows can carry broken times).
func (r *Reservation) DurationMinutes() (int, bool) {
	startMin, err := timeslot.ToMinutes(r.Start)
	if err != nil {
		return 0, false
	}
	endMin, err := timeslot.ToMinutes(r.End)
	if err != nil {
		return 0, false
	}
	if endMin <= startMin {
		return 0, false
	}
	return endMin - startMin, true
}

// Reschedule moves the reservation to a new interval and party size. The caller
// must have re-run admission first; this only guards the aggregate invariants.
func (r *Reservation) Reschedule(date, start, end string, partySize int, now time.Time) error {
	if !r.Active() {
		return ErrInvalidState
	}
	startMin, err := timeslot.ToMinutes(start)
	if err != nil {
		return err
	}
	endMin, err := timeslot.ToMinutes(end)
	if err != nil {
		return err
	}
	if endMin <= startMin {
		return ErrInvalidInterval
	}
	if partySize < 1 {
		return errors.New("reservation: party size must be positive")
	}
	r.Date = date
	r.Start = start
	r.End = end
	r.PartySize = partySize
	r.Record(Updated{ReservationID: r.ID, RoomID: r.RoomID, Date: r.Date, Start: r.Start, End: r.End, PartySize: r.PartySize, At: now.UTC()})
	return nil
}

// Truncate clips the reservation's end to the given instant, freeing the rest
// of the slot. It is an edit, not a delete; admission is not involved because
// shrinking an interval can only release capacity.
func (r *Reservation) Truncate(endAt string, now time.Time) error {
	if !r.Active() {
		return ErrInvalidState
	}
	startMin, err := timeslot.ToMinutes(r.Start)
	if err != nil {
		return err
	}
	endMin, err := timeslot.ToMinutes(endAt)
	if err != nil {
		return err
	}
	if endMin <= startMin {
		return ErrInvalidInterval
	}
	r.End = endAt
	r.Record(Updated{ReservationID: r.ID, RoomID: r.RoomID, Date: r.Date, Start: r.Start, End: r.End, PartySize: r.PartySize, At: now.UTC()})
	return nil
}

// Cancel moves the reservation to cancelled. Cancelling twice is a no-op so
// the operation stays idempotent for retrying clients.
func (r *Reservation) Cancel(now time.Time) {
	if r.Status == StatusCancelled {
		return
	}
	at := now.UTC()
	r.Status = StatusCancelled
	r.CancelledAt = &at
	r.Record(Cancelled{ReservationID: r.ID, RoomID: r.RoomID, Date: r.Date, At: at})
}
