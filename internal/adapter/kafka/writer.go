package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/couchcryptid/road-accident-dashboard/internal/domain"
	"github.com/google/uuid"
	kafkago "github.com/segmentio/kafka-go"
)

const backendName = "kafka"

// messageWriter is the subset of *kafkago.Writer used here.
type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafkago.Message) error
	Close() error
}

// AlertMessage is the JSON payload published for every alert.
type AlertMessage struct {
	ID     string    `json:"id"`
	Body   string    `json:"body"`
	SentAt time.Time `json:"sent_at"`
}

// Writer implements domain.Notifier by publishing alerts to a Kafka topic
// for a downstream delivery service.
type Writer struct {
	writer messageWriter
	logger *slog.Logger
}

// NewWriter creates a Kafka producer for the alert topic.
func NewWriter(brokers []string, topic string, logger *slog.Logger) *Writer {
	w := &kafkago.Writer{
		Addr:         kafkago.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafkago.LeastBytes{},
		RequiredAcks: kafkago.RequireAll,
	}
	return &Writer{writer: w, logger: logger}
}

// Send publishes one alert and waits for all in-sync replicas to ack.
func (w *Writer) Send(ctx context.Context, body string) error {
	msg, err := serializeToMessage(AlertMessage{
		ID:     uuid.NewString(),
		Body:   body,
		SentAt: domain.Now().UTC(),
	})
	if err != nil {
		return &domain.TransportError{Backend: backendName, Err: err}
	}
	if err := w.writer.WriteMessages(ctx, msg); err != nil {
		return &domain.TransportError{Backend: backendName, Err: err}
	}
	w.logger.Debug("alert published", "id", string(msg.Key))
	return nil
}

func (w *Writer) Name() string { return backendName }

func (w *Writer) Close() error {
	return w.writer.Close()
}

// serializeToMessage marshals an alert into a Kafka message keyed by its ID.
func serializeToMessage(alert AlertMessage) (kafkago.Message, error) {
	data, err := json.Marshal(alert)
	if err != nil {
		return kafkago.Message{}, fmt.Errorf("serialize alert: %w", err)
	}
	return kafkago.Message{
		Key:   []byte(alert.ID),
		Value: data,
		Headers: []kafkago.Header{
			{Key: "content_type", Value: []byte("application/json")},
			{Key: "sent_at", Value: []byte(alert.SentAt.Format(time.RFC3339))},
		},
	}, nil
}
