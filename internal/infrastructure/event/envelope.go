package event

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/fulfillsync/backend/internal/domain/shared"
)

// Envelope is the wire form of a domain event, shared by Kafka messages and
// outbound webhook bodies
type Envelope struct {
	ID            uuid.UUID       `json:"id"`
	EventType     string          `json:"eventType"`
	SellerID      uuid.UUID       `json:"sellerId"`
	AggregateID   uuid.UUID       `json:"aggregateId"`
	AggregateType string          `json:"aggregateType"`
	OccurredAt    time.Time       `json:"occurredAt"`
	RequestID     string          `json:"requestId,omitempty"`
	Data          json.RawMessage `json:"data"`
}

// correlated is implemented by events that remember the request that raised them
type correlated interface {
	CorrelationID() string
}

// NewEnvelope wraps a domain event. The full event is carried as data.
func NewEnvelope(event shared.DomainEvent) (*Envelope, error) {
	data, err := json.Marshal(event)
	if err != nil {
		return nil, fmt.Errorf("event: marshal %s: %w", event.EventType(), err)
	}
	env := &Envelope{
		ID:            event.EventID(),
		EventType:     event.EventType(),
		SellerID:      event.SellerID(),
		AggregateID:   event.AggregateID(),
		AggregateType: event.AggregateType(),
		OccurredAt:    event.OccurredAt().UTC(),
		Data:          data,
	}
	if c, ok := event.(correlated); ok {
		env.RequestID = c.CorrelationID()
	}
	return env, nil
}

// Marshal encodes the envelope as JSON
func (e *Envelope) Marshal() ([]byte, error) {
	return json.Marshal(e)
}

// Encode wraps and encodes an event in one step
func Encode(event shared.DomainEvent) ([]byte, error) {
	env, err := NewEnvelope(event)
	if err != nil {
		return nil, err
	}
	return env.Marshal()
}

// Decode parses an encoded envelope. Data is left raw for the consumer.
func Decode(payload []byte) (*Envelope, error) {
	var env Envelope
	if err := json.Unmarshal(payload, &env); err != nil {
		return nil, fmt.Errorf("event: decode envelope: %w", err)
	}
	if env.ID == uuid.Nil || env.EventType == "" {
		return nil, fmt.Errorf("event: envelope missing id or type")
	}
	return &env, nil
}
