package event

import (
	"context"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"
	"go.uber.org/zap"

	"github.com/fulfillsync/backend/internal/domain/shared"
	"github.com/fulfillsync/backend/internal/infrastructure/logger"
)

// Message header keys
const (
	HeaderEventType = "event-type"
	HeaderEventID   = "event-id"
	HeaderSellerID  = "seller-id"
	HeaderRequestID = "request-id"
)

// MessageWriter is the subset of *kafka.Writer the publisher needs
type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// NewKafkaWriter creates a synchronous writer. The hash balancer keeps all
// messages of one seller on one partition so their order is preserved.
func NewKafkaWriter(brokers []string, topic string) *kafka.Writer {
	return &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  topic,
		Balancer:               &kafka.Hash{},
		RequiredAcks:           kafka.RequireAll,
		Async:                  false,
		AllowAutoTopicCreation: true,
		BatchTimeout:           10 * time.Millisecond,
		MaxAttempts:            3,
		WriteTimeout:           10 * time.Second,
	}
}

// KafkaPublisher publishes domain events to a Kafka topic. It is subscribed to
// the event bus as a wildcard handler and can also be used directly.
type KafkaPublisher struct {
	writer     MessageWriter
	propagator propagation.TextMapPropagator
	logger     *zap.Logger
}

// NewKafkaPublisher creates a publisher around writer
func NewKafkaPublisher(writer MessageWriter, logger *zap.Logger) *KafkaPublisher {
	return &KafkaPublisher{
		writer:     writer,
		propagator: otel.GetTextMapPropagator(),
		logger:     logger,
	}
}

// Publish writes every event as one message keyed by seller id
func (p *KafkaPublisher) Publish(ctx context.Context, events ...shared.DomainEvent) error {
	if len(events) == 0 {
		return nil
	}
	msgs := make([]kafka.Message, 0, len(events))
	for _, e := range events {
		msg, err := p.message(ctx, e)
		if err != nil {
			return err
		}
		msgs = append(msgs, msg)
	}

	if err := p.writer.WriteMessages(ctx, msgs...); err != nil {
		logger.WithLogger(ctx, p.logger).Error("Failed to publish events to Kafka",
			zap.Int("count", len(msgs)),
			zap.String("first_event_type", events[0].EventType()),
			zap.Error(err),
		)
		return fmt.Errorf("event: kafka publish: %w", err)
	}
	for _, e := range events {
		logger.WithLogger(ctx, p.logger).Debug("Published event",
			zap.String("event_type", e.EventType()),
			zap.String("event_id", e.EventID().String()),
			zap.String("seller_id", e.SellerID().String()),
		)
	}
	return nil
}

// Handle implements shared.EventHandler
func (p *KafkaPublisher) Handle(ctx context.Context, e shared.DomainEvent) error {
	return p.Publish(ctx, e)
}

// EventTypes subscribes to every event
func (p *KafkaPublisher) EventTypes() []string {
	return nil
}

// Close flushes and closes the writer
func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}

func (p *KafkaPublisher) message(ctx context.Context, e shared.DomainEvent) (kafka.Message, error) {
	env, err := NewEnvelope(e)
	if err != nil {
		return kafka.Message{}, err
	}
	value, err := env.Marshal()
	if err != nil {
		return kafka.Message{}, fmt.Errorf("event: encode envelope: %w", err)
	}

	headers := []kafka.Header{
		{Key: HeaderEventType, Value: []byte(env.EventType)},
		{Key: HeaderEventID, Value: []byte(env.ID.String())},
		{Key: HeaderSellerID, Value: []byte(env.SellerID.String())},
	}
	requestID := env.RequestID
	if requestID == "" {
		requestID = logger.GetRequestID(ctx)
	}
	if requestID != "" {
		headers = append(headers, kafka.Header{Key: HeaderRequestID, Value: []byte(requestID)})
	}

	carrier := propagation.MapCarrier{}
	p.propagator.Inject(ctx, carrier)
	for _, k := range carrier.Keys() {
		headers = append(headers, kafka.Header{Key: k, Value: []byte(carrier.Get(k))})
	}

	return kafka.Message{
		Key:     []byte(env.SellerID.String()),
		Value:   value,
		Headers: headers,
		Time:    env.OccurredAt,
	}, nil
}

var (
	_ shared.EventPublisher = (*KafkaPublisher)(nil)
	_ shared.EventHandler   = (*KafkaPublisher)(nil)
)
