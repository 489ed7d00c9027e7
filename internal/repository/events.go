package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"

	"github.com/MatheusMartinho/gambit-sub001/internal/domain/models"
	domrepo "github.com/MatheusMartinho/gambit-sub001/internal/domain/repository"
)

// MessagePublisher is satisfied by *pkg/kafka.Producer.
type MessagePublisher interface {
	Publish(ctx context.Context, topic string, key []byte, value any, headers ...kafka.Header) error
	Close() error
}

// KafkaEvents publishes snapshot-refreshed events and cache invalidations.
type KafkaEvents struct {
	producer          MessagePublisher
	eventsTopic       string
	invalidationTopic string
	origin            string
	now               func() time.Time
}

// NewKafkaEvents builds the publisher. origin identifies this instance in
// invalidation messages.
func NewKafkaEvents(producer MessagePublisher, eventsTopic, invalidationTopic, origin string) *KafkaEvents {
	return &KafkaEvents{
		producer:          producer,
		eventsTopic:       eventsTopic,
		invalidationTopic: invalidationTopic,
		origin:            origin,
		now:               time.Now,
	}
}

func (k *KafkaEvents) PublishSnapshot(ctx context.Context, s *models.Snapshot) error {
	ev := models.NewSnapshotEvent(uuid.NewString(), s, k.now().UTC())
	if err := k.producer.Publish(ctx, k.eventsTopic, []byte(s.Ticker), ev,
		kafka.Header{Key: "event_type", Value: []byte(ev.Type)}); err != nil {
		return fmt.Errorf("publish snapshot event: %w", err)
	}
	return nil
}

func (k *KafkaEvents) PublishInvalidation(ctx context.Context, ticker string) error {
	ev := models.InvalidationEvent{
		EventID:   uuid.NewString(),
		Ticker:    ticker,
		Origin:    k.origin,
		EmittedAt: k.now().UTC(),
	}
	if err := k.producer.Publish(ctx, k.invalidationTopic, []byte(ticker), ev); err != nil {
		return fmt.Errorf("publish invalidation: %w", err)
	}
	return nil
}

func (k *KafkaEvents) Close() error { return k.producer.Close() }

var (
	_ domrepo.SnapshotPublisher     = (*KafkaEvents)(nil)
	_ domrepo.InvalidationPublisher = (*KafkaEvents)(nil)
)
