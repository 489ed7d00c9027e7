package analytics

import (
	"fmt"
	"math"

	"github.com/shopspring/decimal"

	"github.com/MatheusMartinho/gambit-sub001/internal/domain/models"
	domsvc "github.com/MatheusMartinho/gambit-sub001/internal/domain/service"
)

// Verdict cutoffs in upside percent. The book-value and peer-relative call
// sites use different cutoffs.
const (
	BookVerdictThreshold = 15.0
	PeerVerdictThreshold = 10.0
)

// Confidence bands on |upside|.
const (
	HighConfidenceAbove = 25.0
	LowConfidenceBelow  = 10.0
)

// UpsideFloor is the lowest upside a verdict reports.
const UpsideFloor = -50.0

const (
	labelDiscount = "desconto"
	labelPremium  = "premio"
	labelFair     = "justo"
)

func thresholdFor(method models.ValuationMethod) float64 {
	if method == models.MethodPeerRelative {
		return PeerVerdictThreshold
	}
	return BookVerdictThreshold
}

func round(v float64, places int32) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	f, _ := decimal.NewFromFloat(v).Round(places).Float64()
	return f
}

// floorFair is the lowest fair price in cents whose upside against cur is
// not below UpsideFloor.
func floorFair(cur float64) float64 {
	f, _ := decimal.NewFromFloat(cur).
		Mul(decimal.NewFromFloat(1 + UpsideFloor/100)).
		RoundCeil(2).
		Float64()
	return f
}

// VerdictFromPrices turns a fair price estimate into a verdict. Prices are
// rounded to cents; the upside is computed from the rounded prices and shown
// with one decimal. Below the floor the fair price is lifted so that the
// reported upside still matches the prices. A price that rounds to zero
// cents yields a degraded verdict.
func VerdictFromPrices(current, fair float64, method models.ValuationMethod) models.ValuationVerdict {
	cur := round(current, 2)
	fv := round(fair, 2)
	if cur <= 0 {
		return degraded(&current, method, "Preço atual abaixo de um centavo")
	}

	raw := (fv - cur) / cur * 100
	if math.IsNaN(raw) || math.IsInf(raw, 0) {
		return degraded(&current, method, "Preço justo indisponível")
	}
	if raw < UpsideFloor {
		fv = floorFair(cur)
		raw = math.Max((fv-cur)/cur*100, UpsideFloor)
	}

	t := thresholdFor(method)
	v := models.ValuationVerdict{
		FairPrice:     fv,
		CurrentPrice:  cur,
		UpsidePercent: round(raw, 1),
		Method:        method,
	}
	switch {
	case raw > t:
		v.Verdict, v.Details.Label = models.VerdictBuy, labelDiscount
	case raw < -t:
		v.Verdict, v.Details.Label = models.VerdictSell, labelPremium
	default:
		v.Verdict, v.Details.Label = models.VerdictNeutral, labelFair
	}
	v.Confidence = confidenceFor(raw)
	return v
}

func confidenceFor(upside float64) models.Confidence {
	a := math.Abs(upside)
	switch {
	case a > HighConfidenceAbove:
		return models.ConfidenceHigh
	case a < LowConfidenceBelow:
		return models.ConfidenceLow
	default:
		return models.ConfidenceMedium
	}
}

// degraded is returned when the inputs cannot support an estimate.
func degraded(current *float64, method models.ValuationMethod, reason string) models.ValuationVerdict {
	price := 0.0
	if current != nil && *current > 0 {
		price = round(*current, 2)
	}
	return models.ValuationVerdict{
		Verdict:      models.VerdictNeutral,
		FairPrice:    price,
		CurrentPrice: price,
		Confidence:   models.ConfidenceLow,
		Method:       method,
		Details: models.ValuationDetails{
			Label:     labelFair,
			Degraded:  true,
			Rationale: []string{reason},
		},
	}
}

// BookValueVerdict prices the stock at its book value per share times the
// sector's fair P/B.
func BookValueVerdict(fields *models.FieldSet, sector string) models.ValuationVerdict {
	price := fields.Quote.Price
	bvps := fields.Fundamentals.BookValuePerShare
	if price == nil || *price <= 0 {
		return degraded(price, models.MethodBookValue, "Preço atual indisponível")
	}
	if bvps == nil || *bvps <= 0 {
		v := degraded(price, models.MethodBookValue, "Valor patrimonial por ação indisponível ou negativo")
		v.Details.Sector = sector
		return v
	}

	pb := SectorPriceToBook(sector)
	v := VerdictFromPrices(*price, *bvps*pb, models.MethodBookValue)
	v.Details.Sector = sector
	if v.Details.Degraded {
		return v
	}
	v.Details.BookValuePerShare = bvps
	v.Details.SectorPriceToBook = &pb
	v.Details.Rationale = []string{
		fmt.Sprintf("VPA de R$ %.2f x P/VP justo do setor de %.2f", *bvps, pb),
		fmt.Sprintf("Preço justo de R$ %.2f contra cotação de R$ %.2f (%s)", v.FairPrice, v.CurrentPrice, v.Details.Label),
	}
	return v
}

// BookValuator adapts BookValueVerdict to the domain port.
type BookValuator struct{}

func (BookValuator) Value(fields *models.FieldSet, sector string) models.ValuationVerdict {
	return BookValueVerdict(fields, sector)
}

var _ domsvc.Valuator = BookValuator{}
