package messaging

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/Romeo-CEO/intellifin-loan-management-system-sub008/internal/domain/event"
	"github.com/Romeo-CEO/intellifin-loan-management-system-sub008/pkg/kafka"
)

// KafkaEventPublisher implements port.EventPublisher by writing domain
// events to Kafka, keyed by aggregate ID so per-aggregate ordering holds.
type KafkaEventPublisher struct {
	producer *kafka.Producer
	topic    string
	logger   *slog.Logger
}

// NewKafkaEventPublisher creates a publisher targeting the given topic.
func NewKafkaEventPublisher(producer *kafka.Producer, topic string, logger *slog.Logger) *KafkaEventPublisher {
	return &KafkaEventPublisher{producer: producer, topic: topic, logger: logger}
}

// Publish serialises and sends domain events.
func (p *KafkaEventPublisher) Publish(ctx context.Context, events ...event.DomainEvent) error {
	messages := make([]kafka.Message, 0, len(events))
	for _, evt := range events {
		payload, err := json.Marshal(evt)
		if err != nil {
			return fmt.Errorf("marshal event %s: %w", evt.EventType(), err)
		}

		p.logger.Debug("publishing domain event",
			"event_type", evt.EventType(),
			"aggregate_id", evt.AggregateID(),
			"topic", p.topic,
		)

		messages = append(messages, kafka.Message{
			Key:   []byte(evt.AggregateID()),
			Value: payload,
			Headers: map[string]string{
				"event_type": evt.EventType(),
			},
		})
	}

	if len(messages) == 0 {
		return nil
	}
	return p.producer.Publish(ctx, p.topic, messages...)
}
