package repository

import (
	"context"

	"github.com/MatheusMartinho/gambit-sub001/internal/domain/models"
)

// ProviderClient fetches provider-shaped records for one ticker. Every
// returned error is a *models.ProviderError.
type ProviderClient interface {
	Name() models.ProviderID
	FetchQuote(ctx context.Context, ticker string) (*models.ProviderRecord, error)
	FetchFundamentals(ctx context.Context, ticker string) (*models.ProviderRecord, error)
	FetchHistorical(ctx context.Context, ticker string, rng models.Range, interval models.Interval) ([]models.HistoricalBar, error)
}

// SnapshotPublisher announces freshly stored snapshots.
type SnapshotPublisher interface {
	PublishSnapshot(ctx context.Context, s *models.Snapshot) error
	Close() error
}

// InvalidationPublisher broadcasts cache invalidations to other instances.
// An empty ticker means the whole cache.
type InvalidationPublisher interface {
	PublishInvalidation(ctx context.Context, ticker string) error
}

// SnapshotArchive is a write-only audit sink for fresh snapshots.
type SnapshotArchive interface {
	Init(ctx context.Context) error
	Append(ctx context.Context, s *models.Snapshot) error
	Health(ctx context.Context) error
	Close() error
}

type Metrics interface {
	RecordProviderFetch(provider, op, result string, seconds float64)
	RecordCacheOutcome(state string)
	RecordError(kind string)
	RecordLatency(op string, seconds float64)
	RecordHealthScore(ticker string, total int)
}

// NopMetrics discards every observation.
type NopMetrics struct{}

func (NopMetrics) RecordProviderFetch(string, string, string, float64) {}
func (NopMetrics) RecordCacheOutcome(string)                           {}
func (NopMetrics) RecordError(string)                                  {}
func (NopMetrics) RecordLatency(string, float64)                       {}
func (NopMetrics) RecordHealthScore(string, int)                       {}
