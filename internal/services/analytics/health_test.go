package analytics

import (
	"testing"

	"github.com/MatheusMartinho/gambit-sub001/internal/domain/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func f(v float64) *float64 { return &v }

func TestHealthScoreStrongCompany(t *testing.T) {
	var fs models.FieldSet
	fs.Fundamentals.ROE = f(24)
	fs.Fundamentals.PriceEarnings = f(6)
	fs.Fundamentals.DebtToEquity = f(0.2)
	fs.Fundamentals.CurrentRatio = f(2.1)
	fs.Fundamentals.NetMargin = f(22)

	h := HealthScore(&fs)

	assert.Equal(t, 100, h.Total)
	assert.Equal(t, models.GradeA, h.Grade)
	assert.Equal(t, models.ClassInvestmentGrade, h.Classification)
}

func TestHealthScoreMissingInputsScoreZero(t *testing.T) {
	h := HealthScore(&models.FieldSet{})

	assert.Equal(t, 0, h.Total)
	assert.Equal(t, models.GradeD, h.Grade)
	assert.Equal(t, models.ClassHighRisk, h.Classification)
	require.Len(t, h.Pillars, 4)
	for _, p := range h.Pillars {
		assert.Zero(t, p.Score, p.Label)
		assert.NotEmpty(t, p.Rationale, p.Label)
	}
}

func TestHealthScorePillarBands(t *testing.T) {
	tests := []struct {
		name  string
		set   func(*models.FieldSet)
		label string
		want  int
	}{
		{"roe top", func(fs *models.FieldSet) { fs.Fundamentals.ROE = f(20.5) }, "Rentabilidade", 25},
		{"roe edge", func(fs *models.FieldSet) { fs.Fundamentals.ROE = f(15) }, "Rentabilidade", 15},
		{"roe negative", func(fs *models.FieldSet) { fs.Fundamentals.ROE = f(-3) }, "Rentabilidade", 0},
		{"pe negative", func(fs *models.FieldSet) { fs.Fundamentals.PriceEarnings = f(-4) }, "Valuation", 0},
		{"pe cheap", func(fs *models.FieldSet) { fs.Fundamentals.PriceEarnings = f(8.63) }, "Valuation", 20},
		{"pe expensive", func(fs *models.FieldSet) { fs.Fundamentals.PriceEarnings = f(45) }, "Valuation", 0},
		{"de low", func(fs *models.FieldSet) { fs.Fundamentals.DebtToEquity = f(0.5) }, "Endividamento", 20},
		{"de high", func(fs *models.FieldSet) { fs.Fundamentals.DebtToEquity = f(3) }, "Endividamento", 0},
		{"de negative equity", func(fs *models.FieldSet) { fs.Fundamentals.DebtToEquity = f(-1) }, "Endividamento", 0},
		{"net cash without gross", func(fs *models.FieldSet) { fs.Fundamentals.NetDebtToEquity = f(-0.15) }, "Endividamento", 25},
		{"net debt without gross", func(fs *models.FieldSet) { fs.Fundamentals.NetDebtToEquity = f(0.8) }, "Endividamento", 15},
		{"gross wins over net", func(fs *models.FieldSet) {
			fs.Fundamentals.DebtToEquity = f(3)
			fs.Fundamentals.NetDebtToEquity = f(-0.15)
		}, "Endividamento", 0},
		{"liquidity partial", func(fs *models.FieldSet) { fs.Fundamentals.CurrentRatio = f(1.6) }, "Liquidez e Margens", 10},
		{"liquidity both", func(fs *models.FieldSet) {
			fs.Fundamentals.CurrentRatio = f(1.2)
			fs.Fundamentals.NetMargin = f(12)
		}, "Liquidez e Margens", 15},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var fs models.FieldSet
			tt.set(&fs)
			h := HealthScore(&fs)

			var found bool
			for _, p := range h.Pillars {
				if p.Label == tt.label {
					found = true
					assert.Equal(t, tt.want, p.Score)
				}
			}
			assert.True(t, found)
		})
	}
}

func TestHealthScoreTotalIsSumOfBoundedPillars(t *testing.T) {
	values := []float64{-10, 0, 0.1, 0.5, 1, 1.5, 2, 5, 8, 12, 16, 22, 30, 50}
	for _, v := range values {
		var fs models.FieldSet
		fs.Fundamentals.ROE = f(v)
		fs.Fundamentals.PriceEarnings = f(v)
		fs.Fundamentals.DebtToEquity = f(v)
		fs.Fundamentals.CurrentRatio = f(v)
		fs.Fundamentals.NetMargin = f(v)

		h := HealthScore(&fs)
		sum := 0
		for _, p := range h.Pillars {
			assert.GreaterOrEqual(t, p.Score, 0)
			assert.LessOrEqual(t, p.Score, p.MaxScore)
			sum += p.Score
		}
		assert.Equal(t, sum, h.Total)
		assert.LessOrEqual(t, h.Total, 100)
	}
}

func TestGradeFor(t *testing.T) {
	tests := []struct {
		total int
		grade models.Grade
		class string
	}{
		{100, models.GradeA, models.ClassInvestmentGrade},
		{85, models.GradeA, models.ClassInvestmentGrade},
		{80, models.GradeAMinus, models.ClassInvestmentGrade},
		{70, models.GradeBPlus, models.ClassInvestmentGrade},
		{65, models.GradeB, models.ClassSpeculativeGrade},
		{50, models.GradeBMinus, models.ClassSpeculativeGrade},
		{45, models.GradeC, models.ClassHighRisk},
		{10, models.GradeD, models.ClassHighRisk},
	}
	for _, tt := range tests {
		g, c := GradeFor(tt.total)
		assert.Equal(t, tt.grade, g, tt.total)
		assert.Equal(t, tt.class, c, tt.total)
	}
}

func TestLeveragePillarNetCashRationale(t *testing.T) {
	var fs models.FieldSet
	fs.Fundamentals.NetDebtToEquity = f(-0.15)

	p := HealthScore(&fs).Pillars[2]

	assert.Equal(t, "Endividamento", p.Label)
	assert.Equal(t, PillarMax, p.Score)
	assert.Equal(t, []string{"Caixa líquido supera a dívida"}, p.Rationale)
}
