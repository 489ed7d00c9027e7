package models

import "time"

// ProviderID identifies a data source.
type ProviderID string

const (
	// ProviderYahoo is the primary quote provider (global quotes and fundamentals).
	ProviderYahoo ProviderID = "yahoo"
	// ProviderBrapi is the local exchange provider (B3 quotes, fundamentals, dividends).
	ProviderBrapi ProviderID = "brapi"
	// ProviderStatusInvest is the scraped fundamentals provider.
	ProviderStatusInvest ProviderID = "statusinvest"
	// ProviderFixture marks synthetic development data.
	ProviderFixture ProviderID = "fixture"
)

// PrimaryProvider is the only source of quote fields.
const PrimaryProvider = ProviderYahoo

// QuoteData holds market data. Every numeric field is nullable: nil means the
// provider did not supply it, never zero.
type QuoteData struct {
	Price            *float64 `json:"price"`
	Change           *float64 `json:"change"`
	ChangePercent    *float64 `json:"changePercent"`
	PreviousClose    *float64 `json:"previousClose"`
	Open             *float64 `json:"open"`
	DayHigh          *float64 `json:"dayHigh"`
	DayLow           *float64 `json:"dayLow"`
	Volume           *float64 `json:"volume"`
	FiftyTwoWeekHigh *float64 `json:"fiftyTwoWeekHigh"`
	FiftyTwoWeekLow  *float64 `json:"fiftyTwoWeekLow"`
	MarketCap        *float64 `json:"marketCap"`
	Currency         string   `json:"currency"`
}

// FundamentalsData holds ratios. Percent-like fields use the 0..100 scale.
type FundamentalsData struct {
	PriceEarnings     *float64 `json:"pe"`
	PriceToBook       *float64 `json:"pb"`
	DividendYield     *float64 `json:"dividendYield"`
	ROE               *float64 `json:"roe"`
	ROA               *float64 `json:"roa"`
	ROIC              *float64 `json:"roic"`
	GrossMargin       *float64 `json:"grossMargin"`
	EBITDAMargin      *float64 `json:"ebitdaMargin"`
	NetMargin         *float64 `json:"netMargin"`
	DebtToEquity      *float64 `json:"debtToEquity"`
	NetDebtToEquity   *float64 `json:"netDebtToEquity"`
	NetDebtToEBITDA   *float64 `json:"netDebtToEbitda"`
	CurrentRatio      *float64 `json:"currentRatio"`
	EVToEBITDA        *float64 `json:"evEbitda"`
	EPS               *float64 `json:"eps"`
	BookValuePerShare *float64 `json:"bookValuePerShare"`
	RevenueCAGR5Y     *float64 `json:"revenueCagr5y"`
	EarningsCAGR5Y    *float64 `json:"earningsCagr5y"`
	Beta              *float64 `json:"beta"`
	EnterpriseValue   *float64 `json:"enterpriseValue"`
}

// FinancialsData holds raw statement values used by derived fallbacks.
type FinancialsData struct {
	NetIncome          *float64 `json:"netIncome"`
	ShareholdersEquity *float64 `json:"shareholdersEquity"`
	TotalRevenue       *float64 `json:"totalRevenue"`
	EBITDA             *float64 `json:"ebitda"`
	TotalDebt          *float64 `json:"totalDebt"`
	TotalCash          *float64 `json:"totalCash"`
	SharesOutstanding  *float64 `json:"sharesOutstanding"`
}

type CompanyData struct {
	Name     string `json:"name"`
	Sector   string `json:"sector"`
	Industry string `json:"industry"`
}

// FieldSet is the canonical field layout shared by provider records and
// snapshots, so one accessor addresses the same field on both.
type FieldSet struct {
	Quote        QuoteData        `json:"quote"`
	Fundamentals FundamentalsData `json:"fundamentals"`
	Financials   FinancialsData   `json:"financials"`
	Company      CompanyData      `json:"company"`
}

// Dividend is one cash distribution per share.
type Dividend struct {
	Type        string     `json:"type"`
	Rate        float64    `json:"rate"`
	ExDate      time.Time  `json:"exDate"`
	PaymentDate *time.Time `json:"paymentDate"`
}

// ProviderRecord is a partial, provider-shaped view of one ticker.
type ProviderRecord struct {
	Provider  ProviderID `json:"provider"`
	Ticker    string     `json:"ticker"`
	FetchedAt time.Time  `json:"fetchedAt"`
	FieldSet
	Dividends []Dividend `json:"dividends"`
}

// Combine overlays other onto r where r has no value. Used to join the quote
// and fundamentals halves returned by the same provider.
func (r *ProviderRecord) Combine(other *ProviderRecord) {
	if other == nil {
		return
	}
	if r.FetchedAt.Before(other.FetchedAt) {
		r.FetchedAt = other.FetchedAt
	}
	combineFields(&r.FieldSet, &other.FieldSet)
	if len(r.Dividends) == 0 {
		r.Dividends = other.Dividends
	}
}
