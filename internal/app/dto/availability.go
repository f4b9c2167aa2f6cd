package dto

import (
	"roomgrid/internal/app/scheduling"
	"roomgrid/internal/domain/timeline"
)

type RoomStatusDTO struct {
	RoomID       string  `json:"room_id"`
	State        string  `json:"state"`
	Residual     int     `json:"residual"`
	Cause        string  `json:"cause,omitempty"`
	NextChangeAt *string `json:"next_change_at,omitempty"`
}

type FreeRoomsDTO struct {
	Date    string          `json:"date"`
	Instant string          `json:"instant"`
	Items   []RoomStatusDTO `json:"items"`
}

type BusyIntervalDTO struct {
	Start         string `json:"start"`
	End           string `json:"end"`
	Kind          string `json:"kind"`
	ReservationID string `json:"reservation_id,omitempty"`
	PartySize     int    `json:"party_size,omitempty"`
}

type DayOverviewDTO struct {
	RoomID string            `json:"room_id"`
	Date   string            `json:"date"`
	Items  []BusyIntervalDTO `json:"items"`
}

func MapRoomStatus(status scheduling.RoomStatus) RoomStatusDTO {
	out := RoomStatusDTO{
		RoomID:   status.RoomID,
		State:    string(status.Status.State),
		Residual: status.Status.Residual,
	}
	if status.Status.Cause != timeline.CauseNone {
		out.Cause = string(status.Status.Cause)
	}
	if status.NextChangeAt != nil {
		at := *status.NextChangeAt
		out.NextChangeAt = &at
	}
	return out
}

func MapFreeRooms(date, instant string, rooms []scheduling.RoomStatus) FreeRoomsDTO {
	items := make([]RoomStatusDTO, 0, len(rooms))
	for _, rm := range rooms {
		items = append(items, MapRoomStatus(rm))
	}
	return FreeRoomsDTO{Date: date, Instant: instant, Items: items}
}

func MapDayOverview(roomID, date string, busy []timeline.Busy) DayOverviewDTO {
	items := make([]BusyIntervalDTO, 0, len(busy))
	for _, b := range busy {
		items = append(items, BusyIntervalDTO{
			Start:         b.Start,
			End:           b.End,
			Kind:          string(b.Kind),
			ReservationID: b.ReservationID,
			PartySize:     b.PartySize,
		})
	}
	return DayOverviewDTO{RoomID: roomID, Date: date, Items: items}
}
