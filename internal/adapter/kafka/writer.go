// Package kafka publishes classified incidents to the sink topic for
// downstream consumers (alerting, analytics).
package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	kafkago "github.com/segmentio/kafka-go"

	"github.com/couchcryptid/safejourney/internal/config"
	"github.com/couchcryptid/safejourney/internal/domain"
)

// Writer produces incident messages to a Kafka topic.
type Writer struct {
	writer *kafkago.Writer
	logger *slog.Logger
}

// NewWriter creates a Kafka producer for the configured sink topic.
func NewWriter(cfg *config.Config, logger *slog.Logger) *Writer {
	w := &kafkago.Writer{
		Addr:         kafkago.TCP(cfg.KafkaBrokers...),
		Topic:        cfg.KafkaSinkTopic,
		Balancer:     &kafkago.LeastBytes{},
		RequiredAcks: kafkago.RequireAll,
	}
	return &Writer{writer: w, logger: logger}
}

// PublishIncidents serializes and publishes incidents to the sink topic in a
// single WriteMessages call. Keys are incident IDs, so replays of the same
// story land in the same partition.
func (w *Writer) PublishIncidents(ctx context.Context, incidents []domain.Incident) error {
	if len(incidents) == 0 {
		return nil
	}
	msgs := make([]kafkago.Message, len(incidents))
	for i := range incidents {
		msg, err := serializeToMessage(incidents[i])
		if err != nil {
			return err
		}
		msgs[i] = msg
	}
	return w.writer.WriteMessages(ctx, msgs...)
}

func (w *Writer) Close() error {
	return w.writer.Close()
}

// serializeToMessage marshals an Incident into a Kafka message.
func serializeToMessage(inc domain.Incident) (kafkago.Message, error) {
	data, err := json.Marshal(inc)
	if err != nil {
		return kafkago.Message{}, fmt.Errorf("serialize incident: %w", err)
	}
	return kafkago.Message{
		Key:   []byte(inc.ID),
		Value: data,
		Headers: []kafkago.Header{
			{Key: "category", Value: []byte(inc.Category)},
			{Key: "region", Value: []byte(inc.Region)},
			{Key: "processed_at", Value: []byte(inc.ProcessedAt.Format(time.RFC3339))},
		},
	}, nil
}
