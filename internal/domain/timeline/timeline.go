// Package timeline projects a room's occupancy status over a day and finds the
// next instant at which that status flips.
package timeline

import (
	"context"
	"fmt"
	"sort"

	"roomgrid/internal/domain/calendar"
	"roomgrid/internal/domain/capacity"
	"roomgrid/internal/domain/reservation"
	"roomgrid/internal/domain/timeslot"
)

// State is the binary room status reported to clients.
type State string

const (
	StateFree     State = "free"
	StateOccupied State = "occupied"
)

// Cause explains an occupied status.
type Cause string

const (
	CauseNone    Cause = "none"
	CauseBlocked Cause = "blocked"
	CauseClass   Cause = "class"
	CauseFull    Cause = "full"
)

// Status is the projection of a room at a single instant.
type Status struct {
	State    State
	Residual int
	Cause    Cause
}

// BusyKind distinguishes the two interval sources on a day overview.
type BusyKind string

const (
	BusyClass       BusyKind = "class"
	BusyReservation BusyKind = "reservation"
)

// Busy is one occupied interval on a room's day overview.
type Busy struct {
	Start         string
	End           string
	Kind          BusyKind
	ReservationID string // empty for classes
	PartySize     int    // zero for classes
}

// Projector computes room status projections from fresh store reads.
type Projector struct {
	store reservation.Store
	gate  *calendar.Gate
	model capacity.Model
}

// NewProjector wires the projection dependencies.
func NewProjector(store reservation.Store, gate *calendar.Gate, model capacity.Model) *Projector {
	return &Projector{store: store, gate: gate, model: model}
}

// interval is a parsed half-open occupancy interval.
type interval struct {
	start, end int
	fixed      bool
	partySize  int
}

// daySnapshot loads and parses everything scheduled on a room/date. Rows with
// malformed times are dropped; they cannot be placed on the timeline.
func (p *Projector) daySnapshot(ctx context.Context, roomID, date string) ([]interval, error) {
	occupations, err := p.store.ListFixedOccupations(ctx, roomID, date)
	if err != nil {
		return nil, fmt.Errorf("timeline: list fixed occupations: %w", err)
	}
	active, err := p.store.ListActiveReservations(ctx, roomID, date)
	if err != nil {
		return nil, fmt.Errorf("timeline: list active reservations: %w", err)
	}
	intervals := make([]interval, 0, len(occupations)+len(active))
	for _, occ := range occupations {
		start, err := timeslot.ToMinutes(occ.Start)
		if err != nil {
			continue
		}
		end, err := timeslot.ToMinutes(occ.End)
		if err != nil {
			continue
		}
		intervals = append(intervals, interval{start: start, end: end, fixed: true})
	}
	for _, res := range active {
		start, err := timeslot.ToMinutes(res.Start)
		if err != nil {
			continue
		}
		end, err := timeslot.ToMinutes(res.End)
		if err != nil {
			continue
		}
		intervals = append(intervals, interval{start: start, end: end, partySize: res.PartySize})
	}
	return intervals, nil
}

// statusAtMinute evaluates the pure status function over a parsed snapshot.
func (p *Projector) statusAtMinute(intervals []interval, minute int) Status {
	consumed := 0
	for _, iv := range intervals {
		if !timeslot.Contains(iv.start, iv.end, minute) {
			continue
		}
		if iv.fixed {
			return Status{State: StateOccupied, Residual: 0, Cause: CauseClass}
		}
		consumed += p.model.Policy.Consumption(iv.partySize)
	}
	residual := p.model.Residual(consumed)
	if residual > 0 {
		return Status{State: StateFree, Residual: residual, Cause: CauseNone}
	}
	return Status{State: StateOccupied, Residual: 0, Cause: CauseFull}
}

// StatusAt returns the room's status at the given HH:MM instant.
func (p *Projector) StatusAt(ctx context.Context, roomID, date, instant string) (Status, error) {
	minute, err := timeslot.ToMinutes(instant)
	if err != nil {
		return Status{}, err
	}
	_, blocked, err := p.gate.Blocked(date)
	if err != nil {
		return Status{}, err
	}
	if blocked {
		return Status{State: StateOccupied, Residual: 0, Cause: CauseBlocked}, nil
	}
	intervals, err := p.daySnapshot(ctx, roomID, date)
	if err != nil {
		return Status{}, err
	}
	return p.statusAtMinute(intervals, minute), nil
}

// NextChange returns the first future boundary at which the room's status
// differs from its status at instant, or ok=false when nothing on the rest of
// the day changes it. A boundary exactly at instant is never returned.
func (p *Projector) NextChange(ctx context.Context, roomID, date, instant string) (string, bool, error) {
	minute, err := timeslot.ToMinutes(instant)
	if err != nil {
		return "", false, err
	}
	_, blocked, err := p.gate.Blocked(date)
	if err != nil {
		return "", false, err
	}
	if blocked {
		return "", false, nil // a blocked day never flips
	}
	intervals, err := p.daySnapshot(ctx, roomID, date)
	if err != nil {
		return "", false, err
	}
	if len(intervals) == 0 {
		return "", false, nil
	}

	boundarySet := make(map[int]struct{}, 2*len(intervals))
	for _, iv := range intervals {
		boundarySet[iv.start] = struct{}{}
		boundarySet[iv.end] = struct{}{}
	}
	boundaries := make([]int, 0, len(boundarySet))
	for b := range boundarySet {
		if b > minute {
			boundaries = append(boundaries, b)
		}
	}
	sort.Ints(boundaries)

	current := p.statusAtMinute(intervals, minute)
	for _, b := range boundaries {
		if next := p.statusAtMinute(intervals, b); next.State != current.State {
			return timeslot.FromMinutes(b), true, nil
		}
	}
	return "", false, nil
}

// DayOverview lists the busy intervals of a room/date ordered by start time,
// classes first on ties. Blocked days return an empty overview.
func (p *Projector) DayOverview(ctx context.Context, roomID, date string) ([]Busy, error) {
	_, blocked, err := p.gate.Blocked(date)
	if err != nil {
		return nil, err
	}
	if blocked {
		return nil, nil
	}
	occupations, err := p.store.ListFixedOccupations(ctx, roomID, date)
	if err != nil {
		return nil, fmt.Errorf("timeline: list fixed occupations: %w", err)
	}
	active, err := p.store.ListActiveReservations(ctx, roomID, date)
	if err != nil {
		return nil, fmt.Errorf("timeline: list active reservations: %w", err)
	}
	busy := make([]Busy, 0, len(occupations)+len(active))
	for _, occ := range occupations {
		if !timeslot.Valid(occ.Start) || !timeslot.Valid(occ.End) {
			continue
		}
		busy = append(busy, Busy{Start: occ.Start, End: occ.End, Kind: BusyClass})
	}
	for _, res := range active {
		if !timeslot.Valid(res.Start) || !timeslot.Valid(res.End) {
			continue
		}
		busy = append(busy, Busy{Start: res.Start, End: res.End, Kind: BusyReservation, ReservationID: res.ID, PartySize: res.PartySize})
	}
	sort.SliceStable(busy, func(i, j int) bool {
		if busy[i].Start == busy[j].Start {
			return busy[i].Kind == BusyClass && busy[j].Kind != BusyClass
		}
		return busy[i].Start < busy[j].Start
	})
	return busy, nil
}
