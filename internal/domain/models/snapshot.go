package models

import "time"

// DataQuality tags whether a snapshot is backed by live providers.
type DataQuality string

const (
	DataQualityReal DataQuality = "real"
	DataQualityMock DataQuality = "mock"
)

// Snapshot is the canonical merged record for one ticker. A cached Snapshot is
// never mutated; every refresh produces a new value.
type Snapshot struct {
	Ticker string `json:"ticker"`
	FieldSet
	Dividends []Dividend `json:"dividends"`

	Health    *HealthScore      `json:"health"`
	Valuation *ValuationVerdict `json:"valuation"`

	Sources     []ProviderID          `json:"sources"`
	DataQuality DataQuality           `json:"dataQuality"`
	Provenance  map[string]ProviderID `json:"provenance"`
	Derived     []string              `json:"derived"`
	FetchedAt   time.Time             `json:"fetchedAt"`

	FromCache bool `json:"fromCache"`
	Stale     bool `json:"stale"`
}

// HasSource reports whether id contributed to the snapshot.
func (s *Snapshot) HasSource(id ProviderID) bool {
	for _, src := range s.Sources {
		if src == id {
			return true
		}
	}
	return false
}

// Price returns the quote price or 0 when unknown.
func (s *Snapshot) Price() float64 {
	if s.Quote.Price == nil {
		return 0
	}
	return *s.Quote.Price
}
