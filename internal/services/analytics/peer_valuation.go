package analytics

import (
	"fmt"
	"math"

	"github.com/MatheusMartinho/gambit-sub001/internal/domain/models"
	domsvc "github.com/MatheusMartinho/gambit-sub001/internal/domain/service"
)

const (
	evEbitdaWeight     = 0.5
	evEbitdaTrigger    = 5.0
	yieldWeight        = 2.0
	yieldTrigger       = 1.0
	spreadWeight       = 0.5
	spreadTrigger      = 2.0
	spreadCap          = 10.0
	growthHurdle       = 10.0
	growthWeight       = 0.5
	growthContribution = 5.0
)

// average returns the mean of the non-nil, positive values picked from peers.
func average(peers []*models.Snapshot, pick func(*models.Snapshot) *float64) (float64, bool) {
	sum, n := 0.0, 0
	for _, p := range peers {
		if p == nil {
			continue
		}
		if v := pick(p); v != nil && *v > 0 {
			sum += *v
			n++
		}
	}
	if n == 0 {
		return 0, false
	}
	return sum / float64(n), true
}

// PeerRelativeVerdict blends EV/EBITDA discount, dividend-yield premium,
// ROIC spread over WACC and revenue growth into an upside estimate.
func PeerRelativeVerdict(target *models.Snapshot, peers []*models.Snapshot) models.ValuationVerdict {
	price := target.Quote.Price
	if price == nil || *price <= 0 {
		return degraded(price, models.MethodPeerRelative, "Preço atual indisponível")
	}
	if len(peers) == 0 {
		return degraded(price, models.MethodPeerRelative, "Nenhum par disponível para comparação")
	}

	f := target.Fundamentals
	base := 0.0
	var rationale []string

	if f.EVToEBITDA != nil && *f.EVToEBITDA > 0 {
		if avg, ok := average(peers, func(s *models.Snapshot) *float64 { return s.Fundamentals.EVToEBITDA }); ok {
			discount := (avg - *f.EVToEBITDA) / avg * 100
			if math.Abs(discount) >= evEbitdaTrigger {
				base += discount * evEbitdaWeight
				if discount > 0 {
					rationale = append(rationale, fmt.Sprintf("EV/EBITDA de %.1fx com desconto de %.0f%% sobre a média dos pares (%.1fx)", *f.EVToEBITDA, discount, avg))
				} else {
					rationale = append(rationale, fmt.Sprintf("EV/EBITDA de %.1fx com prêmio de %.0f%% sobre a média dos pares (%.1fx)", *f.EVToEBITDA, -discount, avg))
				}
			}
		}
	}

	if f.DividendYield != nil {
		if avg, ok := average(peers, func(s *models.Snapshot) *float64 { return s.Fundamentals.DividendYield }); ok {
			premium := *f.DividendYield - avg
			if premium > yieldTrigger {
				base += premium * yieldWeight
				rationale = append(rationale, fmt.Sprintf("Dividend yield de %.1f%% acima da média dos pares (%.1f%%)", *f.DividendYield, avg))
			}
		}
	}

	if f.ROIC != nil {
		spread := math.Max(-spreadCap, math.Min(spreadCap, *f.ROIC-DefaultWACC))
		if math.Abs(spread) >= spreadTrigger {
			base += spread * spreadWeight
			if spread > 0 {
				rationale = append(rationale, fmt.Sprintf("ROIC de %.1f%% supera o WACC de %.0f%%", *f.ROIC, DefaultWACC))
			} else {
				rationale = append(rationale, fmt.Sprintf("ROIC de %.1f%% abaixo do WACC de %.0f%%", *f.ROIC, DefaultWACC))
			}
		}
	}

	if g := f.RevenueCAGR5Y; g != nil {
		switch {
		case *g > growthHurdle:
			base += math.Min((*g-growthHurdle)*growthWeight, growthContribution)
			rationale = append(rationale, fmt.Sprintf("Crescimento de receita de %.1f%% ao ano", *g))
		case *g < 0:
			base += math.Max(*g*growthWeight, -growthContribution)
			rationale = append(rationale, fmt.Sprintf("Receita em queda de %.1f%% ao ano", -*g))
		}
	}

	v := VerdictFromPrices(*price, *price*(1+base/100), models.MethodPeerRelative)
	if v.Details.Degraded {
		return v
	}
	ub := round(base, 2)
	v.Details.UpsideBase = &ub
	v.Details.PeerCount = len(peers)
	if len(rationale) == 0 {
		rationale = []string{"Múltiplos em linha com os pares"}
	}
	v.Details.Rationale = rationale
	return v
}

// PeerValuator adapts PeerRelativeVerdict to the domain port.
type PeerValuator struct{}

func (PeerValuator) ValueAgainstPeers(target *models.Snapshot, peers []*models.Snapshot) models.ValuationVerdict {
	return PeerRelativeVerdict(target, peers)
}

var _ domsvc.PeerValuator = PeerValuator{}
