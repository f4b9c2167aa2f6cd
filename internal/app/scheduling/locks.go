package scheduling

import "sync"

// roomDateLocks serializes the read-then-decide-then-write sequence per
// room+date. Two concurrent admissions for the same room/day would otherwise
// both observe headroom and both persist, over-committing the room. Decisions
// for different rooms or days never contend.
type roomDateLocks struct {
	mu      sync.Mutex
	entries map[string]*lockEntry
}

type lockEntry struct {
	mu   sync.Mutex
	refs int
}

func newRoomDateLocks() *roomDateLocks {
	return &roomDateLocks{entries: make(map[string]*lockEntry)}
}

// acquire blocks until the room/date key is held and returns the release func.
func (l *roomDateLocks) acquire(roomID, date string) func() {
	key := roomID + "|" + date

	l.mu.Lock()
	entry, ok := l.entries[key]
	if !ok {
		entry = &lockEntry{}
		l.entries[key] = entry
	}
	entry.refs++
	l.mu.Unlock()

	entry.mu.Lock()

	return func() {
		entry.mu.Unlock()
		l.mu.Lock()
		entry.refs--
		if entry.refs == 0 {
			delete(l.entries, key)
		}
		l.mu.Unlock()
	}
}
