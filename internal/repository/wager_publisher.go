package repository

import (
	"context"

	"BetForge/internal/domain/models"
	"BetForge/internal/domain/repository"
	pkgkafka "BetForge/pkg/kafka"
)

// KafkaPublisher emits each recorded wager to a Kafka topic, keyed by
// strategy so per-strategy ordering survives partitioning.
type KafkaPublisher struct {
	producer *pkgkafka.Producer
	topic    string
}

// NewKafkaPublisher wraps a producer for the wager events topic.
func NewKafkaPublisher(producer *pkgkafka.Producer, topic string) repository.Publisher {
	return &KafkaPublisher{producer: producer, topic: topic}
}

func (p *KafkaPublisher) Publish(ctx context.Context, w *models.Wager) error {
	return p.producer.Publish(ctx, p.topic, []byte(w.Strategy), w.Flat())
}

func (p *KafkaPublisher) Close() error {
	return p.producer.Close()
}
