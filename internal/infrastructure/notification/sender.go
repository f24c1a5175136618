// Package notification implements fulfillment.NotificationSender. Delivery
// to users (email, SMS, in-app) belongs to an external service; these senders
// only hand the request over.
package notification

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/fulfillsync/backend/internal/domain/fulfillment"
	"github.com/fulfillsync/backend/internal/infrastructure/event"
	"github.com/fulfillsync/backend/internal/infrastructure/logger"
)

// ErrInvalidNotification is returned for requests without a type or recipient
var ErrInvalidNotification = errors.New("notification: type and user id are required")

func validate(n fulfillment.Notification) error {
	if n.Type == "" || n.UserID == uuid.Nil {
		return ErrInvalidNotification
	}
	return nil
}

// LogSender logs notification requests. Used when Kafka is disabled.
type LogSender struct {
	logger *zap.Logger
}

// NewLogSender creates a log-only sender
func NewLogSender(logger *zap.Logger) *LogSender {
	return &LogSender{logger: logger}
}

// Send implements fulfillment.NotificationSender
func (s *LogSender) Send(ctx context.Context, n fulfillment.Notification) error {
	if err := validate(n); err != nil {
		return err
	}
	logger.WithLogger(ctx, s.logger).Info("Notification requested",
		zap.String("user_id", n.UserID.String()),
		zap.String("type", n.Type),
		zap.String("title", n.Title),
		zap.Strings("channels", n.Channels),
	)
	return nil
}

// kafkaNotification is the message body on the notifications topic
type kafkaNotification struct {
	fulfillment.Notification
	RequestID   string    `json:"requestId,omitempty"`
	RequestedAt time.Time `json:"requestedAt"`
}

// KafkaSender publishes notification requests to the notifications topic,
// keyed by user id so one user's notifications stay ordered.
type KafkaSender struct {
	writer event.MessageWriter
	logger *zap.Logger
	now    func() time.Time
}

// NewKafkaSender creates a sender around writer
func NewKafkaSender(writer event.MessageWriter, logger *zap.Logger) *KafkaSender {
	return &KafkaSender{writer: writer, logger: logger, now: time.Now}
}

// Send implements fulfillment.NotificationSender
func (s *KafkaSender) Send(ctx context.Context, n fulfillment.Notification) error {
	if err := validate(n); err != nil {
		return err
	}
	requestID := logger.GetRequestID(ctx)
	value, err := json.Marshal(kafkaNotification{
		Notification: n,
		RequestID:    requestID,
		RequestedAt:  s.now().UTC(),
	})
	if err != nil {
		return fmt.Errorf("notification: encode: %w", err)
	}
	msg := kafka.Message{
		Key:   []byte(n.UserID.String()),
		Value: value,
		Headers: []kafka.Header{
			{Key: "notification-type", Value: []byte(n.Type)},
		},
	}
	if requestID != "" {
		msg.Headers = append(msg.Headers, kafka.Header{Key: event.HeaderRequestID, Value: []byte(requestID)})
	}
	if err := s.writer.WriteMessages(ctx, msg); err != nil {
		logger.WithLogger(ctx, s.logger).Error("Failed to publish notification",
			zap.String("user_id", n.UserID.String()),
			zap.String("type", n.Type),
			zap.Error(err),
		)
		return fmt.Errorf("notification: publish: %w", err)
	}
	return nil
}

// Close closes the underlying writer
func (s *KafkaSender) Close() error {
	return s.writer.Close()
}

var (
	_ fulfillment.NotificationSender = (*LogSender)(nil)
	_ fulfillment.NotificationSender = (*KafkaSender)(nil)
)
