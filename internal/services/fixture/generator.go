package fixture

import (
	"hash/fnv"
	"math"
	"math/rand"
	"time"

	"github.com/MatheusMartinho/gambit-sub001/internal/domain/models"
	domsvc "github.com/MatheusMartinho/gambit-sub001/internal/domain/service"
	"github.com/MatheusMartinho/gambit-sub001/pkg/util"
)

// Generator produces synthetic data for development mode. The same ticker
// always yields the same numbers; every output is tagged as mock.
type Generator struct {
	now func() time.Time
}

func NewGenerator() *Generator {
	return &Generator{now: time.Now}
}

// WithClock overrides the time source, for tests.
func (g *Generator) WithClock(now func() time.Time) *Generator {
	g.now = now
	return g
}

var _ domsvc.FixtureGenerator = (*Generator)(nil)

func seeded(ticker string, salt string) *rand.Rand {
	h := fnv.New64a()
	_, _ = h.Write([]byte(ticker))
	_, _ = h.Write([]byte(salt))
	return rand.New(rand.NewSource(int64(h.Sum64())))
}

func between(r *rand.Rand, lo, hi float64) float64 {
	return round(lo + r.Float64()*(hi-lo))
}

func round(v float64) float64 {
	return math.Round(v*100) / 100
}

func ptr(v float64) *float64 { return &v }

// basePrice is the deterministic anchor price shared by Snapshot and Historical.
func basePrice(ticker string) float64 {
	return between(seeded(ticker, "price"), 5, 120)
}

// Snapshot returns a plausible synthetic snapshot for ticker.
func (g *Generator) Snapshot(ticker string) models.Snapshot {
	r := seeded(ticker, "snapshot")
	price := basePrice(ticker)
	prev := round(price * (1 + (r.Float64()-0.5)*0.04))
	shares := between(r, 5e8, 1.2e10)
	eps := round(price / between(r, 4, 25))
	bvps := round(price / between(r, 0.6, 3))

	s := models.Snapshot{
		Ticker:      ticker,
		Dividends:   []models.Dividend{},
		Sources:     []models.ProviderID{models.ProviderFixture},
		DataQuality: models.DataQualityMock,
		Provenance:  map[string]models.ProviderID{},
		Derived:     []string{},
		FetchedAt:   g.now().UTC(),
	}

	s.Quote = models.QuoteData{
		Price:         ptr(price),
		PreviousClose: ptr(prev),
		Change:        ptr(round(price - prev)),
		ChangePercent: ptr(round((price - prev) / prev * 100)),
		Volume:        ptr(math.Round(between(r, 1e6, 5e7))),
		MarketCap:     ptr(math.Round(price * shares)),
		Currency:      "BRL",
	}
	s.Fundamentals = models.FundamentalsData{
		PriceEarnings:     ptr(round(price / eps)),
		PriceToBook:       ptr(round(price / bvps)),
		DividendYield:     ptr(between(r, 0, 12)),
		ROE:               ptr(between(r, -5, 35)),
		ROIC:              ptr(between(r, 0, 25)),
		NetMargin:         ptr(between(r, -5, 30)),
		DebtToEquity:      ptr(between(r, 0, 3)),
		CurrentRatio:      ptr(between(r, 0.5, 2.5)),
		EVToEBITDA:        ptr(between(r, 2, 15)),
		EPS:               ptr(eps),
		BookValuePerShare: ptr(bvps),
		RevenueCAGR5Y:     ptr(between(r, -5, 20)),
	}
	s.Company = models.CompanyData{Name: ticker + " (dados sintéticos)"}

	for _, f := range models.NumberFields {
		if *f.Ref(&s.FieldSet) != nil {
			s.Provenance[f.Name] = models.ProviderFixture
		}
	}
	return s
}

// Historical returns a seeded random walk ending at the snapshot price.
func (g *Generator) Historical(ticker string, rng models.Range, interval models.Interval) []models.HistoricalBar {
	r := seeded(ticker, string(rng)+string(interval))
	end := util.TruncateDay(g.now().UTC())
	start := end.AddDate(0, 0, -rng.Days())

	var dates []time.Time
	for d := start; !d.After(end); d = d.Add(interval.Step()) {
		if interval == models.Interval1D && (d.Weekday() == time.Saturday || d.Weekday() == time.Sunday) {
			continue
		}
		dates = append(dates, d)
	}
	if len(dates) == 0 {
		dates = []time.Time{end}
	}

	bars := make([]models.HistoricalBar, len(dates))
	closeP := basePrice(ticker)
	for i := len(dates) - 1; i >= 0; i-- {
		drift := 1 + (r.Float64()-0.5)*0.04
		open := round(closeP / drift)
		hi := round(math.Max(open, closeP) * (1 + r.Float64()*0.01))
		lo := round(math.Min(open, closeP) * (1 - r.Float64()*0.01))
		bars[i] = models.HistoricalBar{
			Date:     dates[i],
			Open:     ptr(open),
			High:     ptr(hi),
			Low:      ptr(lo),
			Close:    closeP,
			AdjClose: ptr(closeP),
			Volume:   ptr(math.Round(between(r, 1e6, 5e7))),
		}
		closeP = open
	}
	return bars
}
