package models

import "time"

// Range is a historical lookback window.
type Range string

const (
	Range1D  Range = "1d"
	Range5D  Range = "5d"
	Range1M  Range = "1mo"
	Range3M  Range = "3mo"
	Range6M  Range = "6mo"
	Range1Y  Range = "1y"
	Range2Y  Range = "2y"
	Range5Y  Range = "5y"
	RangeMax Range = "max"
)

// Interval is the bar size of a historical series.
type Interval string

const (
	Interval1D  Interval = "1d"
	Interval1W  Interval = "1wk"
	Interval1Mo Interval = "1mo"
)

// Days returns the calendar span of r. RangeMax maps to twenty years.
func (r Range) Days() int {
	switch r {
	case Range1D:
		return 1
	case Range5D:
		return 5
	case Range1M:
		return 30
	case Range3M:
		return 91
	case Range6M:
		return 182
	case Range1Y:
		return 365
	case Range2Y:
		return 730
	case Range5Y:
		return 1826
	default:
		return 7305
	}
}

// Step returns the nominal duration of one bar.
func (i Interval) Step() time.Duration {
	switch i {
	case Interval1W:
		return 7 * 24 * time.Hour
	case Interval1Mo:
		return 30 * 24 * time.Hour
	default:
		return 24 * time.Hour
	}
}

type HistoricalBar struct {
	Date     time.Time `json:"date"`
	Open     *float64  `json:"open"`
	High     *float64  `json:"high"`
	Low      *float64  `json:"low"`
	Close    float64   `json:"close"`
	AdjClose *float64  `json:"adjClose"`
	Volume   *float64  `json:"volume"`
}

// HistoricalSeries is a price history for one ticker, ordered by date.
type HistoricalSeries struct {
	Ticker      string          `json:"ticker"`
	Range       Range           `json:"range"`
	Interval    Interval        `json:"interval"`
	Source      ProviderID      `json:"source"`
	DataQuality DataQuality     `json:"dataQuality"`
	Bars        []HistoricalBar `json:"bars"`
	FetchedAt   time.Time       `json:"fetchedAt"`
	FromCache   bool            `json:"fromCache"`
}
