package models

// Grade is the letter grade of a HealthScore.
type Grade string

const (
	GradeA      Grade = "A"
	GradeAMinus Grade = "A-"
	GradeBPlus  Grade = "B+"
	GradeB      Grade = "B"
	GradeBMinus Grade = "B-"
	GradeC      Grade = "C"
	GradeD      Grade = "D"
)

const (
	ClassInvestmentGrade  = "Investment Grade"
	ClassSpeculativeGrade = "Speculative Grade"
	ClassHighRisk         = "High Risk"
)

// Pillar is one component of the health score. Score never exceeds MaxScore.
type Pillar struct {
	Label     string   `json:"label"`
	Score     int      `json:"score"`
	MaxScore  int      `json:"maxScore"`
	Rationale []string `json:"rationale"`
}

// HealthScore is a 0..100 composite where Total is the sum of pillar scores.
type HealthScore struct {
	Total          int      `json:"total"`
	Grade          Grade    `json:"grade"`
	Classification string   `json:"classification"`
	Pillars        []Pillar `json:"pillars"`
}

type Verdict string

const (
	VerdictBuy     Verdict = "COMPRA"
	VerdictSell    Verdict = "VENDA"
	VerdictNeutral Verdict = "NEUTRO"
)

type Confidence string

const (
	ConfidenceHigh   Confidence = "Alta"
	ConfidenceMedium Confidence = "Média"
	ConfidenceLow    Confidence = "Baixa"
)

type ValuationMethod string

const (
	MethodBookValue    ValuationMethod = "book_value"
	MethodPeerRelative ValuationMethod = "peer_relative"
)

// ValuationDetails explains how a verdict was reached.
type ValuationDetails struct {
	// Label is "desconto", "premio" or "justo".
	Label             string   `json:"label"`
	Sector            string   `json:"sector,omitempty"`
	BookValuePerShare *float64 `json:"bookValuePerShare,omitempty"`
	SectorPriceToBook *float64 `json:"sectorPriceToBook,omitempty"`
	UpsideBase        *float64 `json:"upsideBase,omitempty"`
	PeerCount         int      `json:"peerCount,omitempty"`
	Degraded          bool     `json:"degraded,omitempty"`
	Rationale         []string `json:"rationale"`
}

// ValuationVerdict compares a fair price estimate with the current price.
// UpsidePercent is ((FairPrice-CurrentPrice)/CurrentPrice)*100 rounded to one
// decimal and floored at -50.
type ValuationVerdict struct {
	Verdict       Verdict          `json:"verdict"`
	FairPrice     float64          `json:"fairPrice"`
	CurrentPrice  float64          `json:"currentPrice"`
	UpsidePercent float64          `json:"upsidePercent"`
	Confidence    Confidence       `json:"confidence"`
	Method        ValuationMethod  `json:"method"`
	Details       ValuationDetails `json:"details"`
}
