package events

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// MessageWriter is the part of *kafka.Writer the producer needs.
type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

type KafkaProducer struct {
	writer MessageWriter
	logger *zap.Logger
}

// NewKafkaProducer creates an async producer for topic. Delivery failures are
// only logged.
func NewKafkaProducer(brokers []string, topic string, logger *zap.Logger) *KafkaProducer {
	writer := &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.LeastBytes{},
		RequiredAcks: kafka.RequireAll,
		Async:        true,
		Completion: func(messages []kafka.Message, err error) {
			if err != nil {
				logger.Error("Failed to deliver events",
					zap.String("topic", topic),
					zap.Int("count", len(messages)),
					zap.Error(err))
			}
		},
	}
	return NewProducerWithWriter(writer, logger)
}

func NewProducerWithWriter(writer MessageWriter, logger *zap.Logger) *KafkaProducer {
	return &KafkaProducer{writer: writer, logger: logger}
}

func (p *KafkaProducer) PublishBestellungAngelegt(ctx context.Context, event BestellungAngelegtEvent) error {
	eventBytes, err := json.Marshal(event)
	if err != nil {
		p.logger.Error("Failed to marshal event", zap.Error(err))
		return err
	}

	msg := kafka.Message{
		Key:   []byte(fmt.Sprintf("BESTELLUNG#%d", event.BestellungID)),
		Value: eventBytes,
		Headers: []kafka.Header{
			{Key: "type", Value: []byte(event.Type)},
		},
	}

	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		p.logger.Error("Failed to publish event",
			zap.String("event_id", event.EventID),
			zap.Error(err))
		return err
	}

	p.logger.Info("Event published",
		zap.String("event_id", event.EventID),
		zap.String("type", event.Type),
		zap.Uint("bestellung_id", event.BestellungID))
	return nil
}

func (p *KafkaProducer) Close() error {
	if p.writer != nil {
		return p.writer.Close()
	}
	return nil
}
