package reservation

import "time"

// Created is recorded when an admitted reservation is persisted.
type Created struct {
	ReservationID string    `json:"reservation_id"`
	RoomID        string    `json:"room_id"`
	Date          string    `json:"date"`
	Start         string    `json:"start"`
	End           string    `json:"end"`
	PartySize     int       `json:"party_size"`
	Requester     string    `json:"requester"`
	At            time.Time `json:"at"`
}

func (e Created) EventName() string     { return "reservation.created" }
func (e Created) OccurredAt() time.Time { return e.At }

// Updated is recorded when an active reservation's interval or party size changes.
type Updated struct {
	ReservationID string    `json:"reservation_id"`
	RoomID        string    `json:"room_id"`
	Date          string    `json:"date"`
	Start         string    `json:"start"`
	End           string    `json:"end"`
	PartySize     int       `json:"party_size"`
	At            time.Time `json:"at"`
}

func (e Updated) EventName() string     { return "reservation.updated" }
func (e Updated) OccurredAt() time.Time { return e.At }

// Cancelled is recorded when a reservation is cancelled.
type Cancelled struct {
	ReservationID string    `json:"reservation_id"`
	RoomID        string    `json:"room_id"`
	Date          string    `json:"date"`
	At            time.Time `json:"at"`
}

func (e Cancelled) EventName() string     { return "reservation.cancelled" }
func (e Cancelled) OccurredAt() time.Time { return e.At }
