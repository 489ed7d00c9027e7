package service

import (
	"github.com/MatheusMartinho/gambit-sub001/internal/domain/models"
)

// HealthScorer scores the financial soundness of merged fields.
type HealthScorer interface {
	Score(fields *models.FieldSet) models.HealthScore
}

// Valuator estimates a fair price from a snapshot's own fundamentals.
type Valuator interface {
	Value(fields *models.FieldSet, sector string) models.ValuationVerdict
}

// PeerValuator estimates a fair price relative to a peer set.
type PeerValuator interface {
	ValueAgainstPeers(target *models.Snapshot, peers []*models.Snapshot) models.ValuationVerdict
}

// FixtureGenerator produces synthetic, clearly-labelled development data.
type FixtureGenerator interface {
	Snapshot(ticker string) models.Snapshot
	Historical(ticker string, rng models.Range, interval models.Interval) []models.HistoricalBar
}
