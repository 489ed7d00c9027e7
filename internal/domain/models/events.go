package models

import "time"

const EventSnapshotRefreshed = "snapshot.refreshed"

// SnapshotEvent is published after a fresh snapshot is stored.
type SnapshotEvent struct {
	EventID       string       `json:"eventId"`
	Type          string       `json:"type"`
	Ticker        string       `json:"ticker"`
	Price         *float64     `json:"price"`
	HealthTotal   *int         `json:"healthScore"`
	Grade         Grade        `json:"grade,omitempty"`
	Verdict       Verdict      `json:"verdict,omitempty"`
	UpsidePercent *float64     `json:"upsidePercent"`
	DataQuality   DataQuality  `json:"dataQuality"`
	Sources       []ProviderID `json:"sources"`
	FetchedAt     time.Time    `json:"fetchedAt"`
	EmittedAt     time.Time    `json:"emittedAt"`
}

// NewSnapshotEvent summarises s for downstream consumers.
func NewSnapshotEvent(id string, s *Snapshot, now time.Time) SnapshotEvent {
	ev := SnapshotEvent{
		EventID:     id,
		Type:        EventSnapshotRefreshed,
		Ticker:      s.Ticker,
		Price:       s.Quote.Price,
		DataQuality: s.DataQuality,
		Sources:     s.Sources,
		FetchedAt:   s.FetchedAt,
		EmittedAt:   now,
	}
	if s.Health != nil {
		total := s.Health.Total
		ev.HealthTotal = &total
		ev.Grade = s.Health.Grade
	}
	if s.Valuation != nil {
		up := s.Valuation.UpsidePercent
		ev.UpsidePercent = &up
		ev.Verdict = s.Valuation.Verdict
	}
	return ev
}

// InvalidationEvent asks every instance to drop cached entries. An empty
// Ticker clears the whole cache.
type InvalidationEvent struct {
	EventID   string    `json:"eventId"`
	Ticker    string    `json:"ticker"`
	Origin    string    `json:"origin"`
	EmittedAt time.Time `json:"emittedAt"`
}
