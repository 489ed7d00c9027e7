package models

// PeerEntry is one resolved peer with the snapshot it was compared on.
type PeerEntry struct {
	Ticker   string
	Snapshot *Snapshot
}

// PeerSet is the ordered list of peers resolved for a ticker's sector.
type PeerSet struct {
	Sector string
	Peers  []PeerEntry
	// Failed maps peer ticker to the reason it was left out.
	Failed map[string]string
}

// PeerComparison is the subset of a peer snapshot used for comparison.
type PeerComparison struct {
	Ticker        string      `json:"ticker"`
	Name          string      `json:"name"`
	Price         *float64    `json:"price"`
	PriceEarnings *float64    `json:"pe"`
	PriceToBook   *float64    `json:"pb"`
	EVToEBITDA    *float64    `json:"evEbitda"`
	DividendYield *float64    `json:"dividendYield"`
	ROE           *float64    `json:"roe"`
	ROIC          *float64    `json:"roic"`
	NetMargin     *float64    `json:"netMargin"`
	MarketCap     *float64    `json:"marketCap"`
	HealthTotal   *int        `json:"healthScore"`
	DataQuality   DataQuality `json:"dataQuality"`
	FromCache     bool        `json:"fromCache"`
}

// PeerAverages are means over peers that reported each metric.
type PeerAverages struct {
	PriceEarnings *float64 `json:"pe"`
	PriceToBook   *float64 `json:"pb"`
	EVToEBITDA    *float64 `json:"evEbitda"`
	DividendYield *float64 `json:"dividendYield"`
	ROE           *float64 `json:"roe"`
}

// PeerReport is the response of the peers operation.
type PeerReport struct {
	Ticker    string            `json:"ticker"`
	Sector    string            `json:"sector"`
	Peers     []PeerComparison  `json:"peers"`
	Averages  PeerAverages      `json:"averages"`
	Valuation *ValuationVerdict `json:"valuation"`
	Failed    map[string]string `json:"failed,omitempty"`
	FromCache bool              `json:"fromCache"`
}

// ComparisonFromSnapshot projects a snapshot into a PeerComparison row.
func ComparisonFromSnapshot(s *Snapshot) PeerComparison {
	pc := PeerComparison{
		Ticker:        s.Ticker,
		Name:          s.Company.Name,
		Price:         s.Quote.Price,
		PriceEarnings: s.Fundamentals.PriceEarnings,
		PriceToBook:   s.Fundamentals.PriceToBook,
		EVToEBITDA:    s.Fundamentals.EVToEBITDA,
		DividendYield: s.Fundamentals.DividendYield,
		ROE:           s.Fundamentals.ROE,
		ROIC:          s.Fundamentals.ROIC,
		NetMargin:     s.Fundamentals.NetMargin,
		MarketCap:     s.Quote.MarketCap,
		DataQuality:   s.DataQuality,
		FromCache:     s.FromCache,
	}
	if s.Health != nil {
		total := s.Health.Total
		pc.HealthTotal = &total
	}
	return pc
}
