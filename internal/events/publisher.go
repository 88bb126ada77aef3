package events

import (
	"context"
	"encoding/json"
	"time"

	"velora-be/internal/logger"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

type kafkaPublisher struct {
	writer *kafka.Writer
}

// NewKafkaPublisher writes order events to the given topic. Publishing
// is best effort: a broker outage must never fail an order.
func NewKafkaPublisher(brokers []string, topic string) Publisher {
	writer := &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireOne,
		Async:        false,
		BatchTimeout: 10 * time.Millisecond,
	}

	return &kafkaPublisher{writer: writer}
}

func (p *kafkaPublisher) Publish(ctx context.Context, event Event) error {
	log := logger.FromCtx(ctx).With(
		zap.String("event_id", event.ID),
		zap.String("event_type", event.Type),
		zap.String("order_id", event.OrderID),
	)

	value, err := json.Marshal(event)
	if err != nil {
		log.Error("failed to marshal event", zap.Error(err))
		return err
	}

	err = p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(event.OrderID),
		Value: value,
	})
	if err != nil {
		log.Error("failed to publish event", zap.Error(err))
		return err
	}

	log.Debug("event published")
	return nil
}

func (p *kafkaPublisher) Close() error {
	return p.writer.Close()
}

// NoopPublisher is used when Kafka is disabled.
type NoopPublisher struct{}

func (NoopPublisher) Publish(ctx context.Context, event Event) error { return nil }
func (NoopPublisher) Close() error                                   { return nil }
