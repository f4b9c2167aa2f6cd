package room

import (
	"context"
	"testing"
)

func TestFloorOf(t *testing.T) {
	cases := []struct {
		id   string
		want int
	}{
		{id: "S.1.1", want: 1},
		{id: "S.2.14", want: 2},
		{id: "B.0.3", want: 0},
		{id: "S.10.1", want: 10},
		{id: "aula-magna", want: FloorUnknown},
		{id: "S.x.1", want: FloorUnknown},
		{id: "S.1", want: FloorUnknown},
		{id: "", want: FloorUnknown},
	}
	for _, tc := range cases {
		if got := FloorOf(tc.id); got != tc.want {
			t.Errorf("FloorOf(%q) = %d, want %d", tc.id, got, tc.want)
		}
	}
}

type staticDirectory struct{ ids []string }

func (d staticDirectory) DistinctRoomIDs(ctx context.Context) ([]string, error) {
	return d.ids, nil
}

func TestRegistryRooms(t *testing.T) {
	registry := NewRegistry(staticDirectory{ids: []string{"S.2.1", "S.1.1", "S.1.1", " ", "lab"}}, 15)

	rooms, err := registry.Rooms(context.Background())
	if err != nil {
		t.Fatalf("Rooms: %v", err)
	}
	if len(rooms) != 3 {
		t.Fatalf("got %d rooms, want 3 (deduplicated, blanks dropped)", len(rooms))
	}
	wantOrder := []string{"S.1.1", "S.2.1", "lab"}
	for i, want := range wantOrder {
		if rooms[i].ID != want {
			t.Errorf("rooms[%d].ID = %q, want %q", i, rooms[i].ID, want)
		}
		if rooms[i].BaseCapacity != 15 {
			t.Errorf("rooms[%d].BaseCapacity = %d, want 15", i, rooms[i].BaseCapacity)
		}
	}
	if rooms[2].Floor != FloorUnknown {
		t.Errorf("rooms[2].Floor = %d, want FloorUnknown", rooms[2].Floor)
	}
}
