// Package events emits pipeline outcomes to Kafka so downstream
// services (dashboards, email rendering) can react without polling.
// The publisher is optional: a process without brokers configured runs
// the pipelines identically and just skips emission.
package events

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"loungebot/types"

	"github.com/IBM/sarama"
	"github.com/google/uuid"
)

// Event types carried on the topic.
const (
	TypeDigestCompleted = "digest.completed"
	TypeContentDeleted  = "content.deleted"
)

// Envelope wraps every emitted event.
type Envelope struct {
	ID         string          `json:"id"`
	Type       string          `json:"type"`
	OccurredAt time.Time       `json:"occurred_at"`
	Payload    json.RawMessage `json:"payload"`
}

// Publisher sends events to a single Kafka topic.
type Publisher struct {
	producer sarama.SyncProducer
	topic    string
	logger   *slog.Logger
}

// NewPublisher connects a sync producer to the given brokers.
func NewPublisher(brokers []string, topic string, logger *slog.Logger) (*Publisher, error) {
	saramaConfig := sarama.NewConfig()
	saramaConfig.Version = sarama.V3_6_0_0
	saramaConfig.Producer.Return.Successes = true
	saramaConfig.Producer.RequiredAcks = sarama.WaitForLocal

	producer, err := sarama.NewSyncProducer(brokers, saramaConfig)
	if err != nil {
		return nil, err
	}

	return &Publisher{producer: producer, topic: topic, logger: logger}, nil
}

// Close shuts down the underlying producer.
func (p *Publisher) Close() error {
	return p.producer.Close()
}

// DigestCompleted emits a finished digest. Emission failures are logged
// and swallowed: event delivery is best effort, never pipeline-fatal.
func (p *Publisher) DigestCompleted(ctx context.Context, digest types.DigestResult) {
	p.emit(TypeDigestCompleted, digest.Topic, digest)
}

// ContentDeleted emits a fresh tombstone.
func (p *Publisher) ContentDeleted(ctx context.Context, rec types.DeletedContentRecord) {
	p.emit(TypeContentDeleted, rec.PlatformContentID, rec)
}

func (p *Publisher) emit(eventType, key string, payload any) {
	body, err := json.Marshal(payload)
	if err != nil {
		p.logger.Error("failed to marshal event payload", "type", eventType, "error", err)
		return
	}

	envelope, err := json.Marshal(Envelope{
		ID:         uuid.NewString(),
		Type:       eventType,
		OccurredAt: time.Now(),
		Payload:    body,
	})
	if err != nil {
		p.logger.Error("failed to marshal event envelope", "type", eventType, "error", err)
		return
	}

	_, _, err = p.producer.SendMessage(&sarama.ProducerMessage{
		Topic: p.topic,
		Key:   sarama.StringEncoder(key),
		Value: sarama.ByteEncoder(envelope),
	})
	if err != nil {
		p.logger.Error("failed to publish event", "type", eventType, "error", err)
		return
	}
	p.logger.Info("event published", "type", eventType, "key", key)
}
