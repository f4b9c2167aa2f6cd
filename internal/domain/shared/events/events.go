// Package events provides the domain-event recording embedded by aggregates.
package events

import "time"

// DomainEvent is implemented by every event an aggregate can record.
type DomainEvent interface {
	EventName() string
	OccurredAt() time.Time
}

// EventRecorder accumulates events raised during an aggregate mutation until
// the application layer drains them into the outbox.
type EventRecorder struct {
	pending []DomainEvent
}

// Record appends an event to the pending list.
func (r *EventRecorder) Record(event DomainEvent) {
	r.pending = append(r.pending, event)
}

// PendingEvents returns the recorded events in order.
func (r *EventRecorder) PendingEvents() []DomainEvent {
	out := make([]DomainEvent, len(r.pending))
	copy(out, r.pending)
	return out
}

// ClearEvents drops all recorded events.
func (r *EventRecorder) ClearEvents() {
	r.pending = nil
}
