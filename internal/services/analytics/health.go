package analytics

import (
	"fmt"

	"github.com/MatheusMartinho/gambit-sub001/internal/domain/models"
	domsvc "github.com/MatheusMartinho/gambit-sub001/internal/domain/service"
)

// PillarMax is the cap of every health pillar; four pillars sum to 100.
const PillarMax = 25

// band is one step of a threshold ladder: score applies when match(v).
type band struct {
	match func(v float64) bool
	score int
}

var roeBands = []band{
	{func(v float64) bool { return v > 20 }, 25},
	{func(v float64) bool { return v > 15 }, 20},
	{func(v float64) bool { return v > 10 }, 15},
	{func(v float64) bool { return v > 5 }, 10},
	{func(v float64) bool { return v > 0 }, 5},
}

// P/E is non-monotonic: non-positive and very high multiples both score 0.
var peBands = []band{
	{func(v float64) bool { return v <= 0 }, 0},
	{func(v float64) bool { return v <= 8 }, 25},
	{func(v float64) bool { return v <= 12 }, 20},
	{func(v float64) bool { return v <= 16 }, 15},
	{func(v float64) bool { return v <= 22 }, 10},
	{func(v float64) bool { return v <= 30 }, 5},
}

var debtBands = []band{
	{func(v float64) bool { return v < 0 }, 0},
	{func(v float64) bool { return v < 0.3 }, 25},
	{func(v float64) bool { return v < 0.6 }, 20},
	{func(v float64) bool { return v < 1.0 }, 15},
	{func(v float64) bool { return v < 1.5 }, 10},
	{func(v float64) bool { return v < 2.5 }, 5},
}

var currentRatioBands = []band{
	{func(v float64) bool { return v >= 2 }, 13},
	{func(v float64) bool { return v >= 1.5 }, 10},
	{func(v float64) bool { return v >= 1 }, 6},
	{func(v float64) bool { return v > 0 }, 2},
}

var marginBands = []band{
	{func(v float64) bool { return v >= 20 }, 12},
	{func(v float64) bool { return v >= 10 }, 9},
	{func(v float64) bool { return v >= 5 }, 6},
	{func(v float64) bool { return v > 0 }, 3},
}

func scoreBands(bands []band, v float64) int {
	for _, b := range bands {
		if b.match(v) {
			return b.score
		}
	}
	return 0
}

// HealthScore computes the four-pillar score. Missing inputs score 0 and say so
// in the pillar rationale.
func HealthScore(fields *models.FieldSet) models.HealthScore {
	f := fields.Fundamentals
	pillars := []models.Pillar{
		profitabilityPillar(f.ROE),
		valuationPillar(f.PriceEarnings),
		leveragePillar(f.DebtToEquity, f.NetDebtToEquity),
		liquidityPillar(f.CurrentRatio, f.NetMargin),
	}

	total := 0
	for _, p := range pillars {
		total += p.Score
	}
	grade, class := GradeFor(total)
	return models.HealthScore{
		Total:          total,
		Grade:          grade,
		Classification: class,
		Pillars:        pillars,
	}
}

func profitabilityPillar(roe *float64) models.Pillar {
	p := models.Pillar{Label: "Rentabilidade", MaxScore: PillarMax}
	if roe == nil {
		p.Rationale = []string{"ROE indisponível"}
		return p
	}
	p.Score = scoreBands(roeBands, *roe)
	switch {
	case *roe > 15:
		p.Rationale = []string{fmt.Sprintf("ROE de %.1f%% indica alta rentabilidade", *roe)}
	case *roe > 0:
		p.Rationale = []string{fmt.Sprintf("ROE de %.1f%% é moderado", *roe)}
	default:
		p.Rationale = []string{fmt.Sprintf("ROE de %.1f%% não remunera o patrimônio", *roe)}
	}
	return p
}

func valuationPillar(pe *float64) models.Pillar {
	p := models.Pillar{Label: "Valuation", MaxScore: PillarMax}
	if pe == nil {
		p.Rationale = []string{"P/L indisponível"}
		return p
	}
	p.Score = scoreBands(peBands, *pe)
	switch {
	case *pe <= 0:
		p.Rationale = []string{"P/L negativo: empresa com prejuízo"}
	case *pe > 30:
		p.Rationale = []string{fmt.Sprintf("P/L de %.1f está muito esticado", *pe)}
	case *pe <= 12:
		p.Rationale = []string{fmt.Sprintf("P/L de %.1f sugere preço descontado", *pe)}
	default:
		p.Rationale = []string{fmt.Sprintf("P/L de %.1f", *pe)}
	}
	return p
}

// leveragePillar scores gross debt/equity. Net debt/equity only stands in
// when the gross ratio is missing; net cash earns the full pillar.
func leveragePillar(de, netDE *float64) models.Pillar {
	p := models.Pillar{Label: "Endividamento", MaxScore: PillarMax}
	if de == nil && netDE != nil {
		if *netDE <= 0 {
			p.Score = PillarMax
			p.Rationale = []string{"Caixa líquido supera a dívida"}
			return p
		}
		p.Score = scoreBands(debtBands, *netDE)
		p.Rationale = []string{fmt.Sprintf("Dívida líquida/Patrimônio de %.2f", *netDE)}
		return p
	}
	if de == nil {
		p.Rationale = []string{"Dívida/Patrimônio indisponível"}
		return p
	}
	p.Score = scoreBands(debtBands, *de)
	switch {
	case *de < 0:
		p.Rationale = []string{"Patrimônio líquido negativo"}
	case *de < 0.6:
		p.Rationale = []string{fmt.Sprintf("Dívida/Patrimônio de %.2f é conservador", *de)}
	case *de >= 2.5:
		p.Rationale = []string{fmt.Sprintf("Dívida/Patrimônio de %.2f é elevado", *de)}
	default:
		p.Rationale = []string{fmt.Sprintf("Dívida/Patrimônio de %.2f", *de)}
	}
	return p
}

func liquidityPillar(currentRatio, netMargin *float64) models.Pillar {
	p := models.Pillar{Label: "Liquidez e Margens", MaxScore: PillarMax}
	if currentRatio == nil {
		p.Rationale = append(p.Rationale, "Liquidez corrente indisponível")
	} else {
		p.Score += scoreBands(currentRatioBands, *currentRatio)
		p.Rationale = append(p.Rationale, fmt.Sprintf("Liquidez corrente de %.2f", *currentRatio))
	}
	if netMargin == nil {
		p.Rationale = append(p.Rationale, "Margem líquida indisponível")
	} else {
		p.Score += scoreBands(marginBands, *netMargin)
		p.Rationale = append(p.Rationale, fmt.Sprintf("Margem líquida de %.1f%%", *netMargin))
	}
	return p
}

// GradeFor maps a total score to its letter grade and classification tier.
func GradeFor(total int) (models.Grade, string) {
	var g models.Grade
	switch {
	case total >= 85:
		g = models.GradeA
	case total >= 75:
		g = models.GradeAMinus
	case total >= 70:
		g = models.GradeBPlus
	case total >= 60:
		g = models.GradeB
	case total >= 50:
		g = models.GradeBMinus
	case total >= 40:
		g = models.GradeC
	default:
		g = models.GradeD
	}
	switch {
	case total >= 70:
		return g, models.ClassInvestmentGrade
	case total >= 50:
		return g, models.ClassSpeculativeGrade
	default:
		return g, models.ClassHighRisk
	}
}

// Scorer adapts HealthScore to the domain port.
type Scorer struct{}

func (Scorer) Score(fields *models.FieldSet) models.HealthScore { return HealthScore(fields) }

var _ domsvc.HealthScorer = Scorer{}
