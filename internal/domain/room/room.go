// Package room describes campus rooms and the registry that discovers them.
package room

import (
	"context"
	"sort"
	"strconv"
	"strings"
)

// FloorUnknown marks identifiers that do not follow the X.<floor>.Y pattern.
const FloorUnknown = -1

// Room is derived state; rooms are not first-class records anywhere, they are
// inferred from the room identifiers present in occupations and reservations.
type Room struct {
	ID           string
	Floor        int
	BaseCapacity int
}

// FloorOf extracts the floor from identifiers shaped like "S.1.1".
func FloorOf(id string) int {
	parts := strings.Split(id, ".")
	if len(parts) != 3 {
		return FloorUnknown
	}
	floor, err := strconv.Atoi(parts[1])
	if err != nil {
		return FloorUnknown
	}
	return floor
}

// DirectoryStore is the slice of the store the registry needs.
type DirectoryStore interface {
	DistinctRoomIDs(ctx context.Context) ([]string, error)
}

// Registry materializes the room catalog from the store at query time.
type Registry struct {
	store        DirectoryStore
	baseCapacity int
}

// NewRegistry wires a registry over the store. baseCapacity applies to every
// discovered room; per-room capacities are not a thing on this campus.
func NewRegistry(store DirectoryStore, baseCapacity int) *Registry {
	return &Registry{store: store, baseCapacity: baseCapacity}
}

// Rooms lists the known rooms sorted by identifier.
func (r *Registry) Rooms(ctx context.Context) ([]Room, error) {
	ids, err := r.store.DistinctRoomIDs(ctx)
	if err != nil {
		return nil, err
	}
	rooms := make([]Room, 0, len(ids))
	seen := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		id = strings.TrimSpace(id)
		if id == "" {
			continue
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		rooms = append(rooms, Room{ID: id, Floor: FloorOf(id), BaseCapacity: r.baseCapacity})
	}
	sort.Slice(rooms, func(i, j int) bool { return rooms[i].ID < rooms[j].ID })
	return rooms, nil
}
