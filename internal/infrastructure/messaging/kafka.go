package messaging

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"longa/config"
	"longa/internal/domain/entity"
	"longa/internal/metrics"
	"longa/internal/service"

	"github.com/segmentio/kafka-go"
	"github.com/sirupsen/logrus"
)

// messageWriter is the subset of *kafka.Writer the publisher needs.
type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaPublisher writes booking events to the notification topic, keyed by
// booking id so every event of one booking lands on the same partition.
type KafkaPublisher struct {
	writer messageWriter
	log    *logrus.Logger
}

// NewKafkaPublisher builds an async writer: WriteMessages only enqueues, and
// delivery failures surface through the completion callback.
func NewKafkaPublisher(cfg config.KafkaConfig, log *logrus.Logger) *KafkaPublisher {
	p := &KafkaPublisher{log: log}
	p.writer = &kafka.Writer{
		Addr:         kafka.TCP(cfg.Brokers...),
		Topic:        cfg.NotificationsTopic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireAll,
		MaxAttempts:  3,
		BatchTimeout: 10 * time.Millisecond,
		WriteTimeout: 10 * time.Second,
		ReadTimeout:  10 * time.Second,
		Async:        true,
		Completion:   p.delivered,
	}
	return p
}

func (p *KafkaPublisher) delivered(messages []kafka.Message, err error) {
	if err == nil {
		return
	}
	for _, msg := range messages {
		p.log.Warnf("Failed to deliver booking event: booking=%s: %+v", msg.Key, err)
		metrics.RecordSecondaryWriteFailure("event")
	}
}

// NewPublisher returns a Kafka publisher when brokers are configured and a
// no-op publisher otherwise.
func NewPublisher(cfg config.KafkaConfig, log *logrus.Logger) service.EventPublisher {
	if len(cfg.Brokers) == 0 {
		log.Info("No Kafka brokers configured, booking events will not be published")
		return service.NewNopPublisher()
	}
	return NewKafkaPublisher(cfg, log)
}

func (p *KafkaPublisher) PublishBookingEvent(ctx context.Context, event *entity.BookingEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	msg := kafka.Message{
		Key:   []byte(event.BookingID.String()),
		Value: payload,
		Time:  event.OccurredAt,
		Headers: []kafka.Header{
			{Key: "event_type", Value: []byte(event.EventType)},
		},
	}

	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("failed to write message to kafka: %w", err)
	}

	p.log.Debugf("Queued event: type=%s booking=%s", event.EventType, event.BookingID)
	return nil
}

func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}
