package messaging

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"
)

// Envelope is the JSON body of every inventory change message.
type Envelope struct {
	Type       string    `json:"type"`
	Key        string    `json:"key"`
	OccurredAt time.Time `json:"occurred_at"`
	Payload    any       `json:"payload"`
}

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaProducer publishes committed inventory changes, keyed by entity so
// changes to one article or event stay ordered within a partition.
type KafkaProducer struct {
	writer  messageWriter
	timeout time.Duration
	now     func() time.Time
}

func NewKafkaProducer(brokers []string, topic string) *KafkaProducer {
	writer := &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.Hash{},
		BatchSize:    100,
		BatchTimeout: 10 * time.Millisecond,
		RequiredAcks: kafka.RequireOne,
		Compression:  kafka.Snappy,
	}
	return &KafkaProducer{writer: writer, timeout: 5 * time.Second, now: time.Now}
}

func (p *KafkaProducer) Publish(ctx context.Context, eventType, key string, payload any) error {
	msg, err := p.message(eventType, key, payload)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("write %s to kafka: %w", eventType, err)
	}
	return nil
}

func (p *KafkaProducer) message(eventType, key string, payload any) (kafka.Message, error) {
	at := p.now().UTC()
	body, err := json.Marshal(Envelope{Type: eventType, Key: key, OccurredAt: at, Payload: payload})
	if err != nil {
		return kafka.Message{}, fmt.Errorf("marshal %s: %w", eventType, err)
	}
	return kafka.Message{
		Key:   []byte(key),
		Value: body,
		Time:  at,
		Headers: []kafka.Header{
			{Key: "event-type", Value: []byte(eventType)},
		},
	}, nil
}

func (p *KafkaProducer) Close() error {
	return p.writer.Close()
}

// Noop drops every message. Used when no brokers are configured.
type Noop struct{}

func (Noop) Publish(context.Context, string, string, any) error { return nil }

func (Noop) Close() error { return nil }
