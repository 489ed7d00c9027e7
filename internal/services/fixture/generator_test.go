package fixture

import (
	"testing"
	"time"

	"github.com/MatheusMartinho/gambit-sub001/internal/domain/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var clock = func() time.Time { return time.Date(2024, 10, 16, 15, 0, 0, 0, time.UTC) }

func TestSnapshotIsDeterministicAndTagged(t *testing.T) {
	g := NewGenerator().WithClock(clock)

	a := g.Snapshot("PETR4")
	b := g.Snapshot("PETR4")
	c := g.Snapshot("VALE3")

	assert.Equal(t, a, b)
	assert.NotEqual(t, *a.Quote.Price, *c.Quote.Price)
	assert.Equal(t, models.DataQualityMock, a.DataQuality)
	assert.Equal(t, []models.ProviderID{models.ProviderFixture}, a.Sources)
	assert.Equal(t, models.ProviderFixture, a.Provenance["quote.price"])
	assert.Contains(t, a.Company.Name, "sintéticos")

	require.NotNil(t, a.Quote.Price)
	assert.Greater(t, *a.Quote.Price, 0.0)
	assert.Greater(t, *a.Fundamentals.BookValuePerShare, 0.0)
}

func TestHistoricalWalkEndsAtSnapshotPrice(t *testing.T) {
	g := NewGenerator().WithClock(clock)

	bars := g.Historical("ITUB4", models.Range1M, models.Interval1D)
	require.NotEmpty(t, bars)

	snap := g.Snapshot("ITUB4")
	assert.Equal(t, *snap.Quote.Price, bars[len(bars)-1].Close)
	for i := 1; i < len(bars); i++ {
		assert.True(t, bars[i].Date.After(bars[i-1].Date))
		assert.NotEqual(t, time.Saturday, bars[i].Date.Weekday())
		assert.NotEqual(t, time.Sunday, bars[i].Date.Weekday())
	}
	for _, b := range bars {
		assert.GreaterOrEqual(t, *b.High, *b.Low)
	}

	assert.Equal(t, bars, g.Historical("ITUB4", models.Range1M, models.Interval1D))
}

func TestHistoricalWeeklyIsCoarser(t *testing.T) {
	g := NewGenerator().WithClock(clock)

	daily := g.Historical("WEGE3", models.Range1Y, models.Interval1D)
	weekly := g.Historical("WEGE3", models.Range1Y, models.Interval1W)

	assert.Less(t, len(weekly), len(daily))
	assert.Len(t, weekly, 53)
}
