// Package outbox defines how recorded domain events leave the application.
package outbox

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"roomgrid/internal/domain/shared/events"
)

// EventRecord is the persisted form of a domain event awaiting publication.
type EventRecord struct {
	ID         string
	Name       string
	Aggregate  string
	Payload    json.RawMessage
	Headers    map[string]string
	OccurredAt time.Time
	Attempts   int
}

// Outbox accepts event records inside the current mutation.
type Outbox interface {
	Add(ctx context.Context, record EventRecord) error
}

// EventEncoder turns a domain event into a wire payload.
type EventEncoder interface {
	Encode(event events.DomainEvent) (json.RawMessage, error)
}

// JSONEventEncoder marshals the event struct as-is.
type JSONEventEncoder struct{}

func (JSONEventEncoder) Encode(event events.DomainEvent) (json.RawMessage, error) {
	return json.Marshal(event)
}

// RecordDomainEvents drains pending aggregate events into the outbox. The
// aggregate id keys partitioning downstream, so all events of one reservation
// stay ordered.
func RecordDomainEvents(ctx context.Context, ob Outbox, encoder EventEncoder, aggregateID string, pending []events.DomainEvent) error {
	if ob == nil || len(pending) == 0 {
		return nil
	}
	if encoder == nil {
		encoder = JSONEventEncoder{}
	}
	for _, event := range pending {
		payload, err := encoder.Encode(event)
		if err != nil {
			return err
		}
		record := EventRecord{
			ID:         uuid.NewString(),
			Name:       event.EventName(),
			Aggregate:  aggregateID,
			Payload:    payload,
			OccurredAt: event.OccurredAt(),
		}
		if err := ob.Add(ctx, record); err != nil {
			return err
		}
	}
	return nil
}
