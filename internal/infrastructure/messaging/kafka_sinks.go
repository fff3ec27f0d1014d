package messaging

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/Romeo-CEO/intellifin-loan-management-system-sub008/internal/domain/port"
	"github.com/Romeo-CEO/intellifin-loan-management-system-sub008/pkg/kafka"
)

// KafkaAuditSink implements port.AuditSink by writing audit entries to a
// Kafka topic keyed by entity ID.
type KafkaAuditSink struct {
	producer *kafka.Producer
	topic    string
	logger   *slog.Logger
}

// NewKafkaAuditSink creates a sink targeting the given topic.
func NewKafkaAuditSink(producer *kafka.Producer, topic string, logger *slog.Logger) *KafkaAuditSink {
	return &KafkaAuditSink{producer: producer, topic: topic, logger: logger}
}

type auditMessage struct {
	Timestamp     time.Time      `json:"timestamp"`
	Actor         string         `json:"actor"`
	Action        string         `json:"action"`
	EntityType    string         `json:"entity_type"`
	EntityID      string         `json:"entity_id"`
	CorrelationID string         `json:"correlation_id,omitempty"`
	Data          map[string]any `json:"data,omitempty"`
}

// LogEvent serialises and publishes one audit entry.
func (s *KafkaAuditSink) LogEvent(ctx context.Context, entry port.AuditEntry) error {
	payload, err := json.Marshal(auditMessage{
		Timestamp:     entry.Timestamp,
		Actor:         entry.Actor,
		Action:        entry.Action,
		EntityType:    entry.EntityType,
		EntityID:      entry.EntityID,
		CorrelationID: entry.CorrelationID,
		Data:          entry.Data,
	})
	if err != nil {
		return fmt.Errorf("marshal audit entry: %w", err)
	}

	s.logger.Debug("publishing audit entry", "action", entry.Action, "entity_id", entry.EntityID, "topic", s.topic)
	return s.producer.Publish(ctx, s.topic, kafka.Message{
		Key:   []byte(entry.EntityID),
		Value: payload,
	})
}

// KafkaNotificationSink implements port.NotificationSink by handing
// notifications to a Kafka topic consumed by the delivery service.
type KafkaNotificationSink struct {
	producer *kafka.Producer
	topic    string
	logger   *slog.Logger
}

// NewKafkaNotificationSink creates a sink targeting the given topic.
func NewKafkaNotificationSink(producer *kafka.Producer, topic string, logger *slog.Logger) *KafkaNotificationSink {
	return &KafkaNotificationSink{producer: producer, topic: topic, logger: logger}
}

type notificationMessage struct {
	Kind          string         `json:"kind"`
	LoanID        string         `json:"loan_id"`
	ClientID      string         `json:"client_id"`
	Payload       map[string]any `json:"payload,omitempty"`
	CorrelationID string         `json:"correlation_id,omitempty"`
}

// Notify serialises and publishes one notification.
func (s *KafkaNotificationSink) Notify(ctx context.Context, n port.Notification) error {
	payload, err := json.Marshal(notificationMessage{
		Kind:          n.Kind,
		LoanID:        n.LoanID,
		ClientID:      n.ClientID,
		Payload:       n.Payload,
		CorrelationID: n.CorrelationID,
	})
	if err != nil {
		return fmt.Errorf("marshal notification: %w", err)
	}

	s.logger.Debug("publishing notification", "kind", n.Kind, "loan_id", n.LoanID, "topic", s.topic)
	return s.producer.Publish(ctx, s.topic, kafka.Message{
		Key:   []byte(n.LoanID),
		Value: payload,
	})
}
