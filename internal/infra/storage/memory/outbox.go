package memory

import (
	"context"
	"sync"
	"time"

	appoutbox "roomgrid/internal/app/outbox"
)

// Outbox queues event records in memory until a worker drains them.
type Outbox struct {
	mu      sync.Mutex
	pending []appoutbox.EventRecord
	claimed map[string]appoutbox.EventRecord
}

// NewOutbox builds an empty outbox.
func NewOutbox() *Outbox {
	return &Outbox{claimed: make(map[string]appoutbox.EventRecord)}
}

// Add appends a record to the pending queue.
func (o *Outbox) Add(ctx context.Context, record appoutbox.EventRecord) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.pending = append(o.pending, record)
	return nil
}

// Claim hands the oldest record to the worker, or nil when the queue is empty.
func (o *Outbox) Claim(ctx context.Context, workerID string) (*appoutbox.EventRecord, error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if len(o.pending) == 0 {
		return nil, nil
	}
	record := o.pending[0]
	o.pending = o.pending[1:]
	o.claimed[record.ID] = record
	return &record, nil
}

// MarkSent drops a successfully published record.
func (o *Outbox) MarkSent(ctx context.Context, id string) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	delete(o.claimed, id)
	return nil
}

// MarkFailed requeues a record for a later attempt.
func (o *Outbox) MarkFailed(ctx context.Context, id string, retryAt time.Time, reason string) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	record, ok := o.claimed[id]
	if !ok {
		return nil
	}
	delete(o.claimed, id)
	record.Attempts++
	o.pending = append(o.pending, record)
	return nil
}

// Pending reports the queue depth, for tests and readiness probes.
func (o *Outbox) Pending() int {
	o.mu.Lock()
	defer o.mu.Unlock()
	return len(o.pending)
}

var _ appoutbox.Outbox = (*Outbox)(nil)
