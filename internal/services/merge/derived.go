package merge

import (
	"time"

	"github.com/MatheusMartinho/gambit-sub001/internal/domain/models"
)

// derivation computes a field from values already on the snapshot. It runs
// only when the target is nil and returns ok=false when inputs are missing.
type derivation struct {
	field   string
	target  func(*models.FieldSet) **float64
	compute func(s *models.Snapshot, asOf time.Time) (float64, bool)
}

// derivations run in order; later entries may use earlier results.
var derivations = []derivation{
	{"quote.marketCap", func(f *models.FieldSet) **float64 { return &f.Quote.MarketCap }, func(s *models.Snapshot, _ time.Time) (float64, bool) {
		return mul(s.Quote.Price, s.Financials.SharesOutstanding)
	}},
	{"fundamentals.enterpriseValue", func(f *models.FieldSet) **float64 { return &f.Fundamentals.EnterpriseValue }, func(s *models.Snapshot, _ time.Time) (float64, bool) {
		if s.Quote.MarketCap == nil || s.Financials.TotalDebt == nil || s.Financials.TotalCash == nil {
			return 0, false
		}
		return *s.Quote.MarketCap + *s.Financials.TotalDebt - *s.Financials.TotalCash, true
	}},
	{"fundamentals.bookValuePerShare", func(f *models.FieldSet) **float64 { return &f.Fundamentals.BookValuePerShare }, func(s *models.Snapshot, _ time.Time) (float64, bool) {
		return div(s.Financials.ShareholdersEquity, s.Financials.SharesOutstanding, 1)
	}},
	{"fundamentals.pb", func(f *models.FieldSet) **float64 { return &f.Fundamentals.PriceToBook }, func(s *models.Snapshot, _ time.Time) (float64, bool) {
		return div(s.Quote.Price, s.Fundamentals.BookValuePerShare, 1)
	}},
	{"fundamentals.pe", func(f *models.FieldSet) **float64 { return &f.Fundamentals.PriceEarnings }, func(s *models.Snapshot, _ time.Time) (float64, bool) {
		if s.Fundamentals.EPS == nil || *s.Fundamentals.EPS == 0 || s.Quote.Price == nil {
			return 0, false
		}
		return *s.Quote.Price / *s.Fundamentals.EPS, true
	}},
	{"fundamentals.roe", func(f *models.FieldSet) **float64 { return &f.Fundamentals.ROE }, func(s *models.Snapshot, _ time.Time) (float64, bool) {
		return div(s.Financials.NetIncome, s.Financials.ShareholdersEquity, 100)
	}},
	{"fundamentals.netMargin", func(f *models.FieldSet) **float64 { return &f.Fundamentals.NetMargin }, func(s *models.Snapshot, _ time.Time) (float64, bool) {
		return div(s.Financials.NetIncome, s.Financials.TotalRevenue, 100)
	}},
	{"fundamentals.ebitdaMargin", func(f *models.FieldSet) **float64 { return &f.Fundamentals.EBITDAMargin }, func(s *models.Snapshot, _ time.Time) (float64, bool) {
		return div(s.Financials.EBITDA, s.Financials.TotalRevenue, 100)
	}},
	{"fundamentals.debtToEquity", func(f *models.FieldSet) **float64 { return &f.Fundamentals.DebtToEquity }, func(s *models.Snapshot, _ time.Time) (float64, bool) {
		return div(s.Financials.TotalDebt, s.Financials.ShareholdersEquity, 1)
	}},
	{"fundamentals.evEbitda", func(f *models.FieldSet) **float64 { return &f.Fundamentals.EVToEBITDA }, func(s *models.Snapshot, _ time.Time) (float64, bool) {
		return div(s.Fundamentals.EnterpriseValue, s.Financials.EBITDA, 1)
	}},
	{"fundamentals.dividendYield", func(f *models.FieldSet) **float64 { return &f.Fundamentals.DividendYield }, trailingYield},
}

// trailingYield sums cash dividends with an ex-date in the twelve months
// before asOf and divides by the current price.
func trailingYield(s *models.Snapshot, asOf time.Time) (float64, bool) {
	if s.Quote.Price == nil || *s.Quote.Price <= 0 || len(s.Dividends) == 0 || asOf.IsZero() {
		return 0, false
	}
	from := asOf.AddDate(-1, 0, 0)
	sum := 0.0
	for _, d := range s.Dividends {
		if d.ExDate.After(from) && !d.ExDate.After(asOf) {
			sum += d.Rate
		}
	}
	if sum == 0 {
		return 0, false
	}
	return sum / *s.Quote.Price * 100, true
}

func applyDerivations(s *models.Snapshot, asOf time.Time) {
	for _, d := range derivations {
		dst := d.target(&s.FieldSet)
		if *dst != nil {
			continue
		}
		if v, ok := d.compute(s, asOf); ok {
			*dst = &v
			s.Derived = append(s.Derived, d.field)
		}
	}
}

// div returns num/den*scale when both are present and den is positive.
func div(num, den *float64, scale float64) (float64, bool) {
	if num == nil || den == nil || *den <= 0 {
		return 0, false
	}
	return *num / *den * scale, true
}

func mul(a, b *float64) (float64, bool) {
	if a == nil || b == nil {
		return 0, false
	}
	return *a * *b, true
}
