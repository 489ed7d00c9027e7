package analytics

import (
	"testing"

	"github.com/MatheusMartinho/gambit-sub001/internal/domain/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVerdictFromPrices(t *testing.T) {
	tests := []struct {
		name       string
		current    float64
		fair       float64
		method     models.ValuationMethod
		upside     float64
		verdict    models.Verdict
		label      string
		confidence models.Confidence
	}{
		{"buy at book threshold", 8.78, 10.10, models.MethodBookValue, 15.0, models.VerdictBuy, "desconto", models.ConfidenceMedium},
		{"sell", 50.00, 40.00, models.MethodBookValue, -20.0, models.VerdictSell, "premio", models.ConfidenceMedium},
		{"neutral", 20, 21, models.MethodBookValue, 5.0, models.VerdictNeutral, "justo", models.ConfidenceLow},
		{"peer buy under book cutoff", 20, 22.6, models.MethodPeerRelative, 13.0, models.VerdictBuy, "desconto", models.ConfidenceMedium},
		{"book neutral same move", 20, 22.6, models.MethodBookValue, 13.0, models.VerdictNeutral, "justo", models.ConfidenceMedium},
		{"high confidence", 10, 14, models.MethodBookValue, 40.0, models.VerdictBuy, "desconto", models.ConfidenceHigh},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := VerdictFromPrices(tt.current, tt.fair, tt.method)
			assert.Equal(t, tt.upside, v.UpsidePercent)
			assert.Equal(t, tt.verdict, v.Verdict)
			assert.Equal(t, tt.label, v.Details.Label)
			assert.Equal(t, tt.confidence, v.Confidence)
			assert.Equal(t, tt.method, v.Method)
		})
	}
}

func TestVerdictFromPricesFloorsUpside(t *testing.T) {
	v := VerdictFromPrices(100, 10, models.MethodBookValue)

	assert.Equal(t, UpsideFloor, v.UpsidePercent)
	assert.Equal(t, 50.0, v.FairPrice)
	assert.Equal(t, models.VerdictSell, v.Verdict)
	assert.Equal(t, models.ConfidenceHigh, v.Confidence)
}

func TestVerdictUpsideMatchesPrices(t *testing.T) {
	for _, p := range [][2]float64{{33.73, 41.2}, {12.5, 9.1}, {7.07, 7.3}, {101.1, 300}, {0.03, 0.001}, {0.07, 0.01}, {1.01, 0.2}} {
		v := VerdictFromPrices(p[0], p[1], models.MethodBookValue)
		want := (v.FairPrice - v.CurrentPrice) / v.CurrentPrice * 100
		assert.InDelta(t, want, v.UpsidePercent, 0.05)
		assert.GreaterOrEqual(t, v.UpsidePercent, UpsideFloor)
	}
}

func TestVerdictFromPricesFloorAtCentPrices(t *testing.T) {
	v := VerdictFromPrices(0.03, 0.001, models.MethodBookValue)

	assert.Equal(t, 0.02, v.FairPrice)
	assert.Equal(t, 0.03, v.CurrentPrice)
	assert.Equal(t, -33.3, v.UpsidePercent)
	assert.Equal(t, models.VerdictSell, v.Verdict)
}

func TestVerdictFromPricesSubCentPrice(t *testing.T) {
	for _, current := range []float64{0.004, 0.0001} {
		var v models.ValuationVerdict
		require.NotPanics(t, func() { v = VerdictFromPrices(current, 1, models.MethodBookValue) })
		assert.True(t, v.Details.Degraded)
		assert.Equal(t, models.VerdictNeutral, v.Verdict)
		assert.Equal(t, 0.0, v.UpsidePercent)
	}
}

func TestBookValueVerdict(t *testing.T) {
	var fs models.FieldSet
	fs.Quote.Price = f(30)
	fs.Fundamentals.BookValuePerShare = f(28)

	v := BookValueVerdict(&fs, models.SectorOilGas)

	assert.Equal(t, 36.4, v.FairPrice)
	assert.Equal(t, 21.3, v.UpsidePercent)
	assert.Equal(t, models.VerdictBuy, v.Verdict)
	assert.Equal(t, models.SectorOilGas, v.Details.Sector)
	require.NotNil(t, v.Details.SectorPriceToBook)
	assert.Equal(t, 1.3, *v.Details.SectorPriceToBook)
	assert.NotEmpty(t, v.Details.Rationale)
}

func TestBookValueVerdictDegraded(t *testing.T) {
	tests := []struct {
		name  string
		price *float64
		bvps  *float64
		fair  float64
	}{
		{"missing book value", f(25.5), nil, 25.5},
		{"negative book value", f(25.5), f(-3), 25.5},
		{"missing price", nil, f(10), 0},
		{"zero price", f(0), f(10), 0},
		{"sub-cent price", f(0.004), f(1), 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var fs models.FieldSet
			fs.Quote.Price = tt.price
			fs.Fundamentals.BookValuePerShare = tt.bvps

			v := BookValueVerdict(&fs, models.DefaultSector)

			assert.Equal(t, models.VerdictNeutral, v.Verdict)
			assert.Equal(t, models.ConfidenceLow, v.Confidence)
			assert.Equal(t, tt.fair, v.FairPrice)
			assert.Equal(t, v.CurrentPrice, v.FairPrice)
			assert.True(t, v.Details.Degraded)
		})
	}
}

func TestSectorPriceToBookFallsBackToDefault(t *testing.T) {
	assert.Equal(t, 2.5, SectorPriceToBook(models.SectorRetail))
	assert.Equal(t, 1.5, SectorPriceToBook("agronegocio"))
}
