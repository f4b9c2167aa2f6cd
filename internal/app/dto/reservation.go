package dto

import (
	"time"

	"roomgrid/internal/domain/admission"
	"roomgrid/internal/domain/reservation"
)

type ReservationDTO struct {
	ID          string     `json:"id"`
	RoomID      string     `json:"room_id"`
	Date        string     `json:"date"`
	Start       string     `json:"start"`
	End         string     `json:"end"`
	PartySize   int        `json:"party_size"`
	Requester   string     `json:"requester"`
	Reason      string     `json:"reason,omitempty"`
	Status      string     `json:"status"`
	CreatedAt   time.Time  `json:"created_at"`
	CancelledAt *time.Time `json:"cancelled_at,omitempty"`
}

type DecisionDTO struct {
	Outcome     string `json:"outcome"`
	Field       string `json:"field,omitempty"`
	Message     string `json:"message,omitempty"`
	BlockReason string `json:"block_reason,omitempty"`
	Available   *int   `json:"available,omitempty"`
}

func MapReservation(res *reservation.Reservation) ReservationDTO {
	out := ReservationDTO{
		ID:        res.ID,
		RoomID:    res.RoomID,
		Date:      res.Date,
		Start:     res.Start,
		End:       res.End,
		PartySize: res.PartySize,
		Requester: res.Requester,
		Reason:    res.Reason,
		Status:    string(res.Status),
		CreatedAt: res.CreatedAt,
	}
	if res.CancelledAt != nil {
		at := *res.CancelledAt
		out.CancelledAt = &at
	}
	return out
}

func MapDecision(d admission.Decision) DecisionDTO {
	out := DecisionDTO{
		Outcome:     string(d.Outcome),
		Field:       d.Field,
		Message:     d.Message,
		BlockReason: string(d.BlockReason),
	}
	if d.Outcome == admission.OutcomeCapacityExceeded || d.Outcome == admission.OutcomeAdmitted {
		available := d.Available
		out.Available = &available
	}
	return out
}
