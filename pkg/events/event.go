package events

import (
	"time"

	"github.com/google/uuid"
)

// DomainEvent is the interface all domain events implement.
type DomainEvent interface {
	EventID() uuid.UUID
	EventType() string
	AggregateID() string
	AggregateType() string
	OccurredAt() time.Time
	CorrelationID() string
}

// BaseEvent provides a default DomainEvent implementation. Fields are
// exported so embedding events serialise to JSON without custom marshalers.
type BaseEvent struct {
	ID            uuid.UUID `json:"event_id"`
	Type          string    `json:"event_type"`
	Aggregate     string    `json:"aggregate_id"`
	AggregateKind string    `json:"aggregate_type"`
	At            time.Time `json:"occurred_at"`
	Correlation   string    `json:"correlation_id,omitempty"`
}

// NewBaseEvent creates a BaseEvent with a generated ID and the given
// occurrence time.
func NewBaseEvent(eventType, aggregateID, aggregateType, correlationID string, occurredAt time.Time) BaseEvent {
	return BaseEvent{
		ID:            uuid.New(),
		Type:          eventType,
		Aggregate:     aggregateID,
		AggregateKind: aggregateType,
		At:            occurredAt,
		Correlation:   correlationID,
	}
}

func (e BaseEvent) EventID() uuid.UUID    { return e.ID }
func (e BaseEvent) EventType() string     { return e.Type }
func (e BaseEvent) AggregateID() string   { return e.Aggregate }
func (e BaseEvent) AggregateType() string { return e.AggregateKind }
func (e BaseEvent) OccurredAt() time.Time { return e.At }
func (e BaseEvent) CorrelationID() string { return e.Correlation }
