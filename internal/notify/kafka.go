package notify

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/segmentio/kafka-go"
)

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaForwarder republishes every change to a Kafka topic, keyed by event
// so one event's changes stay on one partition.
type KafkaForwarder struct {
	writer messageWriter
	logger *slog.Logger
	unsub  func()
}

// NewKafkaForwarder builds an async writer for brokers and topic
func NewKafkaForwarder(brokers []string, topic string, logger *slog.Logger) (*KafkaForwarder, error) {
	if strings.TrimSpace(topic) == "" {
		return nil, errors.New("kafka topic must not be empty")
	}
	if len(brokers) == 0 {
		return nil, errors.New("at least one kafka broker is required")
	}
	if logger == nil {
		logger = slog.Default()
	}
	log := logger.With(slog.String("component", "kafka_forwarder"))

	w := &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  topic,
		Balancer:               &kafka.Hash{},
		RequiredAcks:           kafka.RequireOne,
		AllowAutoTopicCreation: true,
		Async:                  true,
		Completion: func(msgs []kafka.Message, err error) {
			if err != nil {
				log.Error("change forward failed", slog.Int("messages", len(msgs)), slog.Any("err", err))
			}
		},
	}
	return newKafkaForwarder(w, log), nil
}

func newKafkaForwarder(w messageWriter, logger *slog.Logger) *KafkaForwarder {
	return &KafkaForwarder{writer: w, logger: logger}
}

// Attach subscribes the forwarder to every table on b
func (f *KafkaForwarder) Attach(b *Broker) {
	f.unsub = b.Subscribe(AllTables, f.forward)
}

func (f *KafkaForwarder) forward(c Change) {
	msg, err := changeMessage(c)
	if err != nil {
		f.logger.Error("change encode failed", slog.String("table", c.Table), slog.Any("err", err))
		return
	}
	// the writer is async, so this only enqueues
	if err := f.writer.WriteMessages(context.Background(), msg); err != nil {
		f.logger.Error("change enqueue failed", slog.String("table", c.Table), slog.Any("err", err))
	}
}

// Close detaches from the broker and flushes pending messages
func (f *KafkaForwarder) Close() error {
	if f.unsub != nil {
		f.unsub()
	}
	if err := f.writer.Close(); err != nil {
		return fmt.Errorf("failed to close kafka writer: %w", err)
	}
	return nil
}

func changeMessage(c Change) (kafka.Message, error) {
	value, err := json.Marshal(c)
	if err != nil {
		return kafka.Message{}, err
	}
	key := c.EventID
	if key == "" {
		key = c.Table
	}
	return kafka.Message{
		Key:   []byte(key),
		Value: value,
		Time:  c.At,
		Headers: []kafka.Header{
			{Key: "table", Value: []byte(c.Table)},
			{Key: "op", Value: []byte(c.Op)},
		},
	}, nil
}
