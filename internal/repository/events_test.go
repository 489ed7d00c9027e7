package repository

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/segmentio/kafka-go"

	"github.com/MatheusMartinho/gambit-sub001/internal/domain/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type published struct {
	topic   string
	key     string
	value   any
	headers []kafka.Header
}

type fakeProducer struct{ sent []published }

func (p *fakeProducer) Publish(_ context.Context, topic string, key []byte, value any, headers ...kafka.Header) error {
	p.sent = append(p.sent, published{topic, string(key), value, headers})
	return nil
}

func (p *fakeProducer) Close() error { return nil }

func TestPublishSnapshotEvent(t *testing.T) {
	p := &fakeProducer{}
	k := NewKafkaEvents(p, "events", "invalidate", "node-1")

	require.NoError(t, k.PublishSnapshot(context.Background(), archivedSnapshot()))

	require.Len(t, p.sent, 1)
	assert.Equal(t, "events", p.sent[0].topic)
	assert.Equal(t, "PETR4", p.sent[0].key)

	ev, ok := p.sent[0].value.(models.SnapshotEvent)
	require.True(t, ok)
	assert.NotEmpty(t, ev.EventID)
	assert.Equal(t, models.EventSnapshotRefreshed, ev.Type)
	assert.Equal(t, 72, *ev.HealthTotal)
	assert.Equal(t, models.VerdictBuy, ev.Verdict)

	b, err := json.Marshal(ev)
	require.NoError(t, err)
	assert.Contains(t, string(b), `"healthScore":72`)
}

func TestPublishInvalidation(t *testing.T) {
	p := &fakeProducer{}
	k := NewKafkaEvents(p, "events", "invalidate", "node-1")

	require.NoError(t, k.PublishInvalidation(context.Background(), ""))

	require.Len(t, p.sent, 1)
	assert.Equal(t, "invalidate", p.sent[0].topic)
	ev := p.sent[0].value.(models.InvalidationEvent)
	assert.Equal(t, "node-1", ev.Origin)
	assert.Empty(t, ev.Ticker)
}
