// Package admission implements the decision procedure that admits or rejects
// a candidate reservation against fixed occupations and capacity headroom.
package admission

import (
	"context"
	"fmt"

	"roomgrid/internal/domain/calendar"
	"roomgrid/internal/domain/capacity"
	"roomgrid/internal/domain/reservation"
	"roomgrid/internal/domain/timeslot"
)

// Outcome classifies a decision. Every rejection is deterministic and terminal;
// nothing here is worth retrying.
type Outcome string

const (
	OutcomeAdmitted         Outcome = "admitted"
	OutcomeValidationError  Outcome = "validation_error"
	OutcomeCalendarBlocked  Outcome = "calendar_blocked"
	OutcomeFixedConflict    Outcome = "fixed_conflict"
	OutcomeCapacityExceeded Outcome = "capacity_exceeded"
)

// Request is a candidate reservation to evaluate. ExcludeID removes the
// reservation being modified from the capacity aggregation.
type Request struct {
	RoomID    string
	Date      string
	Start     string
	End       string
	PartySize int
	ExcludeID string
}

// Decision is the admission verdict plus the data a client needs to render an
// actionable rejection message.
type Decision struct {
	Outcome     Outcome
	Field       string               // set for validation errors
	Message     string               // set for validation errors
	BlockReason calendar.BlockReason // set for calendar blocks
	Available   int                  // residual units, set for capacity rejections
}

// Admitted reports whether the candidate may be booked.
func (d Decision) Admitted() bool { return d.Outcome == OutcomeAdmitted }

func rejectField(field, message string) Decision {
	return Decision{Outcome: OutcomeValidationError, Field: field, Message: message}
}

// Controller evaluates admission requests. It is a pure function of the store
// contents it reads: no caching, every decision is computed fresh, which keeps
// concurrent evaluations coherent with the latest committed writes.
type Controller struct {
	store reservation.Store
	gate  *calendar.Gate
	model capacity.Model
}

// NewController wires the admission dependencies.
func NewController(store reservation.Store, gate *calendar.Gate, model capacity.Model) *Controller {
	return &Controller{store: store, gate: gate, model: model}
}

// Evaluate runs the ordered admission checks; the first failing check wins.
// The error return is reserved for store failures, which are surfaced unchanged.
func (c *Controller) Evaluate(ctx context.Context, req Request) (Decision, error) {
	if req.RoomID == "" {
		return rejectField("room", "room is required"), nil
	}
	if req.Date == "" {
		return rejectField("date", "date is required"), nil
	}
	if _, err := calendar.ParseDate(req.Date); err != nil {
		return rejectField("date", "date must be YYYY-MM-DD"), nil
	}
	startMin, err := timeslot.ToMinutes(req.Start)
	if err != nil {
		return rejectField("start", "start must be HH:MM"), nil
	}
	endMin, err := timeslot.ToMinutes(req.End)
	if err != nil {
		return rejectField("end", "end must be HH:MM"), nil
	}
	if endMin <= startMin {
		return rejectField("end", "end must be after start"), nil
	}
	if req.PartySize < 1 {
		return rejectField("party_size", "party size must be a positive integer"), nil
	}

	reason, blocked, err := c.gate.Blocked(req.Date)
	if err != nil {
		return rejectField("date", "date must be YYYY-MM-DD"), nil
	}
	if blocked {
		return Decision{Outcome: OutcomeCalendarBlocked, BlockReason: reason}, nil
	}

	occupations, err := c.store.ListFixedOccupations(ctx, req.RoomID, req.Date)
	if err != nil {
		return Decision{}, fmt.Errorf("admission: list fixed occupations: %w", err)
	}
	for _, occ := range occupations {
		occStart, err := timeslot.ToMinutes(occ.Start)
		if err != nil {
			continue // malformed timetable row, cannot conflict
		}
		occEnd, err := timeslot.ToMinutes(occ.End)
		if err != nil {
			continue
		}
		if timeslot.Overlaps(startMin, endMin, occStart, occEnd) {
			return Decision{Outcome: OutcomeFixedConflict}, nil
		}
	}

	active, err := c.store.ListActiveReservations(ctx, req.RoomID, req.Date)
	if err != nil {
		return Decision{}, fmt.Errorf("admission: list active reservations: %w", err)
	}
	consumed := 0
	for _, res := range active {
		if req.ExcludeID != "" && res.ID == req.ExcludeID {
			continue
		}
		resStart, err := timeslot.ToMinutes(res.Start)
		if err != nil {
			continue
		}
		resEnd, err := timeslot.ToMinutes(res.End)
		if err != nil {
			continue
		}
		if timeslot.Overlaps(startMin, endMin, resStart, resEnd) {
			consumed += c.model.Policy.Consumption(res.PartySize)
		}
	}
	headroom := c.model.Headroom(consumed)
	if c.model.Policy.Consumption(req.PartySize) > headroom {
		return Decision{Outcome: OutcomeCapacityExceeded, Available: max(0, headroom)}, nil
	}

	return Decision{Outcome: OutcomeAdmitted, Available: headroom - c.model.Policy.Consumption(req.PartySize)}, nil
}
