package statusinvest

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/MatheusMartinho/gambit-sub001/internal/domain/models"
	"github.com/MatheusMartinho/gambit-sub001/pkg/util"

	"github.com/PuerkitoBio/goquery"
)

// numberLabels maps slugged indicator titles to canonical fields. Values
// flagged percent are already on the 0..100 scale on the page.
var numberLabels = map[string]func(*models.FieldSet) **float64{
	"valor-atual":          func(f *models.FieldSet) **float64 { return &f.Quote.Price },
	"valor-de-mercado":     func(f *models.FieldSet) **float64 { return &f.Quote.MarketCap },
	"p-l":                  func(f *models.FieldSet) **float64 { return &f.Fundamentals.PriceEarnings },
	"p-vp":                 func(f *models.FieldSet) **float64 { return &f.Fundamentals.PriceToBook },
	"d-y":                  func(f *models.FieldSet) **float64 { return &f.Fundamentals.DividendYield },
	"dividend-yield":       func(f *models.FieldSet) **float64 { return &f.Fundamentals.DividendYield },
	"ev-ebitda":            func(f *models.FieldSet) **float64 { return &f.Fundamentals.EVToEBITDA },
	"vpa":                  func(f *models.FieldSet) **float64 { return &f.Fundamentals.BookValuePerShare },
	"lpa":                  func(f *models.FieldSet) **float64 { return &f.Fundamentals.EPS },
	"roe":                  func(f *models.FieldSet) **float64 { return &f.Fundamentals.ROE },
	"roa":                  func(f *models.FieldSet) **float64 { return &f.Fundamentals.ROA },
	"roic":                 func(f *models.FieldSet) **float64 { return &f.Fundamentals.ROIC },
	"m-bruta":              func(f *models.FieldSet) **float64 { return &f.Fundamentals.GrossMargin },
	"m-ebitda":             func(f *models.FieldSet) **float64 { return &f.Fundamentals.EBITDAMargin },
	"m-liquida":            func(f *models.FieldSet) **float64 { return &f.Fundamentals.NetMargin },
	"div-liquida-pl":       func(f *models.FieldSet) **float64 { return &f.Fundamentals.NetDebtToEquity },
	"div-liquida-ebitda":   func(f *models.FieldSet) **float64 { return &f.Fundamentals.NetDebtToEBITDA },
	"liq-corrente":         func(f *models.FieldSet) **float64 { return &f.Fundamentals.CurrentRatio },
	"cagr-receitas-5-anos": func(f *models.FieldSet) **float64 { return &f.Fundamentals.RevenueCAGR5Y },
	"cagr-lucros-5-anos":   func(f *models.FieldSet) **float64 { return &f.Fundamentals.EarningsCAGR5Y },
	"patrimonio-liquido":   func(f *models.FieldSet) **float64 { return &f.Financials.ShareholdersEquity },
	"valor-de-firma":       func(f *models.FieldSet) **float64 { return &f.Fundamentals.EnterpriseValue },
}

var textLabels = map[string]func(*models.FieldSet) *string{
	"setor-de-atuacao":    func(f *models.FieldSet) *string { return &f.Company.Sector },
	"segmento-de-atuacao": func(f *models.FieldSet) *string { return &f.Company.Industry },
}

// parseIndicators extracts every title/value pair of the ticker page into a
// FieldSet. The first occurrence of a label wins.
func parseIndicators(html []byte, ticker string) (*models.FieldSet, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}

	fs := &models.FieldSet{}
	found := 0
	doc.Find(".info, .item, .indicator-today-container .item").Each(func(_ int, s *goquery.Selection) {
		title := strings.TrimSpace(s.Find(".title").First().Text())
		value := strings.TrimSpace(s.Find(".value").First().Text())
		if title == "" || value == "" {
			return
		}
		label := util.Slug(title)
		if ref, ok := numberLabels[label]; ok {
			if dst := ref(fs); *dst == nil {
				if v := util.BRNumberPtr(value); v != nil {
					*dst = v
					found++
				}
			}
			return
		}
		if ref, ok := textLabels[label]; ok && *ref(fs) == "" {
			*ref(fs) = value
			found++
		}
	})

	fs.Company.Name = companyName(doc, ticker)
	if found == 0 {
		return nil, fmt.Errorf("no indicators found")
	}
	return fs, nil
}

// companyName reads "PETR4 - PETROBRAS" style headings.
func companyName(doc *goquery.Document, ticker string) string {
	h := strings.TrimSpace(doc.Find("h1").First().Text())
	if i := strings.Index(h, " - "); i >= 0 && strings.EqualFold(strings.TrimSpace(h[:i]), ticker) {
		return strings.TrimSpace(h[i+3:])
	}
	return h
}
