// Package merge reconciles provider records into one canonical Snapshot by
// selecting, per field, the first non-null value in a declared provider
// order. It never averages.
package merge

import (
	"time"

	"github.com/MatheusMartinho/gambit-sub001/internal/domain/models"
)

type Engine struct {
	table Table
}

func New(table Table) *Engine {
	if table == nil {
		table = DefaultTable
	}
	return &Engine{table: table}
}

var defaultEngine = New(DefaultTable)

// Merge reconciles records with the default precedence table.
func Merge(ticker string, records []*models.ProviderRecord) models.Snapshot {
	return defaultEngine.Merge(ticker, records)
}

// Merge builds a Snapshot from records. Nil records are ignored. With one
// record per provider the result does not depend on the order of records.
func (e *Engine) Merge(ticker string, records []*models.ProviderRecord) models.Snapshot {
	byProvider := make(map[models.ProviderID]*models.ProviderRecord, len(records))
	var fetchedAt time.Time
	for _, r := range records {
		if r == nil {
			continue
		}
		if prev, ok := byProvider[r.Provider]; ok {
			merged := *prev
			merged.Combine(r)
			byProvider[r.Provider] = &merged
		} else {
			byProvider[r.Provider] = r
		}
		if r.FetchedAt.After(fetchedAt) {
			fetchedAt = r.FetchedAt
		}
	}

	s := models.Snapshot{
		Ticker:     ticker,
		Provenance: make(map[string]models.ProviderID),
		Derived:    []string{},
		FetchedAt:  fetchedAt,
	}
	contributed := make(map[models.ProviderID]bool)

	for _, f := range models.NumberFields {
		for _, id := range e.table[f.Name] {
			rec, ok := byProvider[id]
			if !ok {
				continue
			}
			if v := *f.Ref(&rec.FieldSet); v != nil {
				val := *v
				*f.Ref(&s.FieldSet) = &val
				s.Provenance[f.Name] = id
				contributed[id] = true
				break
			}
		}
	}
	for _, f := range models.TextFields {
		for _, id := range e.table[f.Name] {
			rec, ok := byProvider[id]
			if !ok {
				continue
			}
			if v := *f.Ref(&rec.FieldSet); v != "" {
				*f.Ref(&s.FieldSet) = v
				s.Provenance[f.Name] = id
				contributed[id] = true
				break
			}
		}
	}
	for _, id := range DividendPrecedence {
		if rec, ok := byProvider[id]; ok && len(rec.Dividends) > 0 {
			s.Dividends = append([]models.Dividend(nil), rec.Dividends...)
			s.Provenance["dividends"] = id
			contributed[id] = true
			break
		}
	}
	if s.Dividends == nil {
		s.Dividends = []models.Dividend{}
	}

	applyDerivations(&s, fetchedAt)

	s.Sources = []models.ProviderID{}
	for _, id := range sourceOrder {
		if contributed[id] {
			s.Sources = append(s.Sources, id)
		}
	}

	s.DataQuality = models.DataQualityMock
	if s.Provenance["quote.price"] == models.PrimaryProvider {
		s.DataQuality = models.DataQualityReal
	}
	return s
}
