// Package scheduling is the mutation pipeline and query facade over the
// admission controller and timeline projector.
package scheduling

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"roomgrid/internal/app/outbox"
	"roomgrid/internal/domain/admission"
	"roomgrid/internal/domain/reservation"
	"roomgrid/internal/domain/room"
	"roomgrid/internal/domain/timeline"
	"roomgrid/internal/domain/timeslot"
)

// fallbackDurationMinutes replaces the duration of a malformed stored interval
// when an update has to recompute the end time.
const fallbackDurationMinutes = 30

// AdmissionRejectedError carries the full decision so callers can render the
// exact rejection reason (and remaining capacity, where applicable).
type AdmissionRejectedError struct {
	Decision admission.Decision
}

func (e *AdmissionRejectedError) Error() string {
	switch e.Decision.Outcome {
	case admission.OutcomeValidationError:
		return fmt.Sprintf("scheduling: invalid %s: %s", e.Decision.Field, e.Decision.Message)
	case admission.OutcomeCalendarBlocked:
		return fmt.Sprintf("scheduling: date blocked (%s)", e.Decision.BlockReason)
	case admission.OutcomeFixedConflict:
		return "scheduling: interval conflicts with a class"
	case admission.OutcomeCapacityExceeded:
		return fmt.Sprintf("scheduling: capacity exceeded, %d units available", e.Decision.Available)
	default:
		return "scheduling: admission rejected"
	}
}

func rejected(d admission.Decision) error {
	return &AdmissionRejectedError{Decision: d}
}

// Service wires the pure decision logic to the store, the per-room/date
// serialization point and the event outbox.
type Service struct {
	store       reservation.Store
	controller  *admission.Controller
	projector   *timeline.Projector
	registry    *room.Registry
	outbox      outbox.Outbox
	encoder     outbox.EventEncoder
	locks       *roomDateLocks
	idGenerator func() string
	now         func() time.Time
	logger      *slog.Logger
}

// NewService wires dependencies for scheduling operations. idGenerator and now
// default to uuid-less empty ids and wall-clock time only when nil, so tests
// can pin both.
func NewService(store reservation.Store, controller *admission.Controller, projector *timeline.Projector, registry *room.Registry, ob outbox.Outbox, idGenerator func() string, now func() time.Time, logger *slog.Logger) *Service {
	if now == nil {
		now = time.Now
	}
	if idGenerator == nil {
		idGenerator = func() string { return "" }
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		store:       store,
		controller:  controller,
		projector:   projector,
		registry:    registry,
		outbox:      ob,
		encoder:     outbox.JSONEventEncoder{},
		locks:       newRoomDateLocks(),
		idGenerator: idGenerator,
		now:         now,
		logger:      logger,
	}
}

// EvaluateAdmission runs a dry admission check without persisting anything.
func (s *Service) EvaluateAdmission(ctx context.Context, req admission.Request) (admission.Decision, error) {
	return s.controller.Evaluate(ctx, req)
}

// CreateParams is the input for a new reservation.
type CreateParams struct {
	RoomID    string
	Date      string
	Start     string
	End       string
	PartySize int
	Requester string
	Reason    string
}

// CreateReservation admits and persists a new active reservation. Party size
// defaults to 1 when omitted.
func (s *Service) CreateReservation(ctx context.Context, params CreateParams) (*reservation.Reservation, error) {
	if strings.TrimSpace(params.Requester) == "" {
		return nil, rejected(admission.Decision{Outcome: admission.OutcomeValidationError, Field: "requester", Message: "requester is required"})
	}
	if params.PartySize == 0 {
		params.PartySize = 1
	}

	release := s.locks.acquire(params.RoomID, params.Date)
	defer release()

	decision, err := s.controller.Evaluate(ctx, admission.Request{
		RoomID:    params.RoomID,
		Date:      params.Date,
		Start:     params.Start,
		End:       params.End,
		PartySize: params.PartySize,
	})
	if err != nil {
		return nil, err
	}
	if !decision.Admitted() {
		return nil, rejected(decision)
	}

	res, err := reservation.New(reservation.NewParams{
		ID:        s.idGenerator(),
		RoomID:    params.RoomID,
		Date:      params.Date,
		Start:     params.Start,
		End:       params.End,
		PartySize: params.PartySize,
		Requester: params.Requester,
		Reason:    params.Reason,
		Now:       s.now(),
	})
	if err != nil {
		return nil, err
	}
	if err := s.persist(ctx, res); err != nil {
		return nil, err
	}
	s.logger.Info("reservation created", "reservation_id", res.ID, "room_id", res.RoomID, "date", res.Date)
	return res, nil
}

// UpdatePatch lists the mutable reservation fields; nil fields stay unchanged.
type UpdatePatch struct {
	Date      *string
	Start     *string
	PartySize *int
}

// UpdateReservation re-admits the reservation under its new interval and
// persists it only on success; a rejected update leaves the stored record
// untouched. The end time is recomputed from the original duration (or 30
// minutes when the stored interval is malformed).
func (s *Service) UpdateReservation(ctx context.Context, id string, patch UpdatePatch) (*reservation.Reservation, error) {
	existing, err := s.store.GetReservation(ctx, id)
	if err != nil {
		return nil, err
	}
	if !existing.Active() {
		return nil, reservation.ErrInvalidState
	}

	date := existing.Date
	if patch.Date != nil {
		date = *patch.Date
	}
	start := existing.Start
	if patch.Start != nil {
		start = *patch.Start
	}
	partySize := existing.PartySize
	if patch.PartySize != nil {
		partySize = *patch.PartySize
	}

	end := existing.End
	if date != existing.Date || start != existing.Start {
		duration, ok := existing.DurationMinutes()
		if !ok {
			duration = fallbackDurationMinutes
		}
		end, err = timeslot.AddMinutes(start, duration)
		if err != nil {
			return nil, rejected(admission.Decision{Outcome: admission.OutcomeValidationError, Field: "start", Message: "start must be HH:MM"})
		}
	}

	release := s.locks.acquire(existing.RoomID, date)
	defer release()

	decision, err := s.controller.Evaluate(ctx, admission.Request{
		RoomID:    existing.RoomID,
		Date:      date,
		Start:     start,
		End:       end,
		PartySize: partySize,
		ExcludeID: existing.ID,
	})
	if err != nil {
		return nil, err
	}
	if !decision.Admitted() {
		return nil, rejected(decision)
	}

	if err := existing.Reschedule(date, start, end, partySize, s.now()); err != nil {
		return nil, err
	}
	if err := s.persist(ctx, existing); err != nil {
		return nil, err
	}
	s.logger.Info("reservation updated", "reservation_id", existing.ID, "room_id", existing.RoomID, "date", existing.Date)
	return existing, nil
}

// CancelReservation cancels a reservation. Cancelling an already-cancelled
// reservation succeeds without touching the record; admission is never re-run
// because cancellation only releases capacity.
func (s *Service) CancelReservation(ctx context.Context, id string) (*reservation.Reservation, error) {
	existing, err := s.store.GetReservation(ctx, id)
	if err != nil {
		return nil, err
	}
	if !existing.Active() {
		return existing, nil
	}
	existing.Cancel(s.now())
	if err := s.persist(ctx, existing); err != nil {
		return nil, err
	}
	s.logger.Info("reservation cancelled", "reservation_id", existing.ID, "room_id", existing.RoomID)
	return existing, nil
}

// TruncateReservation clips an active reservation's end to the current minute,
// releasing the remainder of the slot. An edit, not a delete.
func (s *Service) TruncateReservation(ctx context.Context, id string) (*reservation.Reservation, error) {
	existing, err := s.store.GetReservation(ctx, id)
	if err != nil {
		return nil, err
	}
	if !existing.Active() {
		return nil, reservation.ErrInvalidState
	}

	release := s.locks.acquire(existing.RoomID, existing.Date)
	defer release()

	now := s.now()
	endAt := timeslot.FromMinutes(now.Hour()*60 + now.Minute())
	if err := existing.Truncate(endAt, now); err != nil {
		return nil, err
	}
	if err := s.persist(ctx, existing); err != nil {
		return nil, err
	}
	s.logger.Info("reservation truncated", "reservation_id", existing.ID, "end", endAt)
	return existing, nil
}

// RoomStatus is the projection returned to availability clients.
type RoomStatus struct {
	RoomID       string
	Status       timeline.Status
	NextChangeAt *string
}

// RoomStatusAt reports a room's status at an instant plus the next flip time.
func (s *Service) RoomStatusAt(ctx context.Context, roomID, date, instant string) (RoomStatus, error) {
	status, err := s.projector.StatusAt(ctx, roomID, date, instant)
	if err != nil {
		return RoomStatus{}, err
	}
	result := RoomStatus{RoomID: roomID, Status: status}
	next, ok, err := s.projector.NextChange(ctx, roomID, date, instant)
	if err != nil {
		return RoomStatus{}, err
	}
	if ok {
		result.NextChangeAt = &next
	}
	return result, nil
}

// FreeRoomsAt lists the rooms free at the given instant with their residual
// capacity and next flip time. The catalog is derived from the store on every
// call; there is no cached room list.
func (s *Service) FreeRoomsAt(ctx context.Context, date, instant string) ([]RoomStatus, error) {
	rooms, err := s.registry.Rooms(ctx)
	if err != nil {
		return nil, err
	}
	free := make([]RoomStatus, 0, len(rooms))
	for _, rm := range rooms {
		status, err := s.RoomStatusAt(ctx, rm.ID, date, instant)
		if err != nil {
			return nil, err
		}
		if status.Status.State != timeline.StateFree {
			continue
		}
		free = append(free, status)
	}
	return free, nil
}

// DayOverview lists the busy intervals of a room/date.
func (s *Service) DayOverview(ctx context.Context, roomID, date string) ([]timeline.Busy, error) {
	return s.projector.DayOverview(ctx, roomID, date)
}

// persist saves the aggregate and drains its recorded events into the outbox.
func (s *Service) persist(ctx context.Context, res *reservation.Reservation) error {
	if err := s.store.SaveReservation(ctx, res); err != nil {
		return err
	}
	pending := res.PendingEvents()
	res.ClearEvents()
	if err := outbox.RecordDomainEvents(ctx, s.outbox, s.encoder, res.ID, pending); err != nil {
		s.logger.Error("outbox record failed", "reservation_id", res.ID, "error", err)
		return err
	}
	return nil
}
