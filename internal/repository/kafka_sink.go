package repository

import (
	"context"

	"TradePulse/internal/domain/models"
	"TradePulse/internal/domain/repository"
	pkgkafka "TradePulse/pkg/kafka"
)

// KafkaSink publishes each completed cycle's signals to Kafka, one message
// per instrument keyed by symbol so per-symbol ordering holds across cycles.
type KafkaSink struct {
	producer *pkgkafka.Producer
	topic    string
}

// NewKafkaSink creates a Kafka-backed signal sink.
func NewKafkaSink(producer *pkgkafka.Producer, topic string) repository.SignalSink {
	return &KafkaSink{producer: producer, topic: topic}
}

func (s *KafkaSink) Publish(ctx context.Context, cycle *models.CycleResult) error {
	if len(cycle.Signals) == 0 {
		return nil
	}
	msgs := make([]pkgkafka.Message, len(cycle.Signals))
	for i, sig := range cycle.Signals {
		msgs[i] = pkgkafka.Message{
			Key:   []byte(sig.Symbol),
			Value: sig,
		}
	}
	return s.producer.PublishBatch(ctx, s.topic, msgs)
}

func (s *KafkaSink) Close() error {
	if s.producer != nil {
		return s.producer.Close()
	}
	return nil
}
