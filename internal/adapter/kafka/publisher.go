package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	kafkago "github.com/segmentio/kafka-go"

	"github.com/couchcryptid/incident-fusion-service/internal/config"
	"github.com/couchcryptid/incident-fusion-service/internal/domain"
)

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafkago.Message) error
	Close() error
}

// Publisher produces incident messages to a Kafka topic.
// It implements pipeline.Publisher.
type Publisher struct {
	writer messageWriter
	logger *slog.Logger
}

// NewPublisher creates a Kafka producer for the configured incident topic.
func NewPublisher(cfg *config.Config, logger *slog.Logger) *Publisher {
	w := &kafkago.Writer{
		Addr:         kafkago.TCP(cfg.KafkaBrokers...),
		Topic:        cfg.KafkaIncidentTopic,
		Balancer:     &kafkago.LeastBytes{},
		RequiredAcks: kafkago.RequireAll,
	}
	return &Publisher{writer: w, logger: logger}
}

// Publish serializes a cycle's incidents and writes them in a single
// WriteMessages call. An incident that cannot be serialized is logged and
// left out of the batch.
func (p *Publisher) Publish(ctx context.Context, cycleID string, incidents []domain.Incident) error {
	if len(incidents) == 0 {
		return nil
	}
	msgs := make([]kafkago.Message, 0, len(incidents))
	for i := range incidents {
		msg, err := serializeToMessage(cycleID, incidents[i])
		if err != nil {
			p.logger.Warn("skipping unserializable incident", "incident_id", incidents[i].ID, "error", err)
			continue
		}
		msgs = append(msgs, msg)
	}
	if len(msgs) == 0 {
		return nil
	}
	if err := p.writer.WriteMessages(ctx, msgs...); err != nil {
		return fmt.Errorf("write %d incident messages: %w", len(msgs), err)
	}
	return nil
}

func (p *Publisher) Close() error {
	return p.writer.Close()
}

// serializeToMessage marshals an Incident into a Kafka message keyed by its id.
func serializeToMessage(cycleID string, inc domain.Incident) (kafkago.Message, error) {
	data, err := json.Marshal(inc)
	if err != nil {
		return kafkago.Message{}, fmt.Errorf("serialize incident: %w", err)
	}
	return kafkago.Message{
		Key:   []byte(inc.ID),
		Value: data,
		Headers: []kafkago.Header{
			{Key: "cycle_id", Value: []byte(cycleID)},
			{Key: "source", Value: []byte(inc.Source)},
			{Key: "type", Value: []byte(inc.Type)},
			{Key: "severity", Value: []byte(inc.Severity)},
		},
	}, nil
}
