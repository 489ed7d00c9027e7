// Package statusinvest scrapes the StatusInvest ticker page for fundamentals
// and reads its price chart endpoint for history.
package statusinvest

import (
	"context"
	"strings"
	"time"

	"github.com/MatheusMartinho/gambit-sub001/internal/domain/models"
	"github.com/MatheusMartinho/gambit-sub001/internal/domain/repository"
	"github.com/MatheusMartinho/gambit-sub001/internal/service/provider"
	"github.com/MatheusMartinho/gambit-sub001/pkg/config"
	applogger "github.com/MatheusMartinho/gambit-sub001/pkg/logger"
	"github.com/MatheusMartinho/gambit-sub001/pkg/util"
)

var pageHeaders = map[string]string{
	"Accept":          "text/html,application/xhtml+xml",
	"Accept-Language": "pt-BR,pt;q=0.9",
}

type Client struct {
	base *provider.Base
	now  func() time.Time
}

var _ repository.ProviderClient = (*Client)(nil)

func NewClient(cfg config.ProviderConfig, log *applogger.Logger, metrics repository.Metrics) *Client {
	return &Client{
		base: provider.NewBase(models.ProviderStatusInvest, cfg, log, metrics),
		now:  time.Now,
	}
}

func (c *Client) Name() models.ProviderID { return models.ProviderStatusInvest }

// FetchQuote returns the page's current price and market value. The scraped
// price is delayed, so it never wins over the primary provider.
func (c *Client) FetchQuote(ctx context.Context, ticker string) (*models.ProviderRecord, error) {
	fs, err := c.page(ctx, "quote", ticker)
	if err != nil {
		return nil, err
	}
	rec := c.record(ticker)
	rec.Quote.Price = fs.Quote.Price
	rec.Quote.MarketCap = fs.Quote.MarketCap
	rec.Quote.Currency = "BRL"
	rec.Company.Name = fs.Company.Name
	return rec, nil
}

func (c *Client) FetchFundamentals(ctx context.Context, ticker string) (*models.ProviderRecord, error) {
	fs, err := c.page(ctx, "fundamentals", ticker)
	if err != nil {
		return nil, err
	}
	rec := c.record(ticker)
	rec.Fundamentals = fs.Fundamentals
	rec.Financials = fs.Financials
	rec.Company = fs.Company
	rec.Quote.MarketCap = fs.Quote.MarketCap
	return rec, nil
}

func (c *Client) FetchHistorical(ctx context.Context, ticker string, rng models.Range, interval models.Interval) ([]models.HistoricalBar, error) {
	var series []struct {
		Prices []struct {
			Price float64 `json:"price"`
			Date  string  `json:"date"`
		} `json:"prices"`
	}
	err := c.base.GetJSON(ctx, provider.Request{
		Op:     "historical",
		Ticker: ticker,
		Path:   "/acao/tickerprice",
		Query: map[string][]string{
			"ticker": {ticker},
			"type":   {chartType(rng)},
		},
	}, &series)
	if err != nil {
		return nil, err
	}
	if len(series) == 0 || len(series[0].Prices) == 0 {
		return nil, c.base.Fail("historical", models.ErrTickerNotFound, nil)
	}

	bars := make([]models.HistoricalBar, 0, len(series[0].Prices))
	for _, p := range series[0].Prices {
		d, ok := util.ParseBRDate(p.Date)
		if !ok || p.Price <= 0 {
			continue
		}
		bars = append(bars, models.HistoricalBar{Date: d, Close: p.Price})
	}
	return resample(bars, interval), nil
}

func (c *Client) page(ctx context.Context, op, ticker string) (*models.FieldSet, error) {
	body, err := c.base.GetRaw(ctx, provider.Request{
		Op:      op,
		Ticker:  ticker,
		Path:    "/acoes/" + strings.ToLower(ticker),
		Headers: pageHeaders,
	})
	if err != nil {
		return nil, err
	}
	fs, err := parseIndicators(body, ticker)
	if err != nil {
		// The site answers unknown tickers with a 200 search page.
		return nil, c.base.Fail(op, models.ErrTickerNotFound, err)
	}
	return fs, nil
}

func (c *Client) record(ticker string) *models.ProviderRecord {
	return &models.ProviderRecord{
		Provider:  models.ProviderStatusInvest,
		Ticker:    ticker,
		FetchedAt: c.now().UTC(),
	}
}

// chartType maps a range onto the site's chart period codes.
func chartType(rng models.Range) string {
	switch rng {
	case models.Range1D:
		return "0"
	case models.Range5D:
		return "1"
	case models.Range1M, models.Range3M:
		return "2"
	case models.Range6M, models.Range1Y:
		return "3"
	case models.Range2Y, models.Range5Y:
		return "4"
	default:
		return "5"
	}
}

// resample keeps the last bar of each week or month. Daily input passes
// through unchanged.
func resample(bars []models.HistoricalBar, interval models.Interval) []models.HistoricalBar {
	if interval == models.Interval1D || len(bars) == 0 {
		return bars
	}
	bucket := func(t time.Time) int {
		if interval == models.Interval1W {
			y, w := t.ISOWeek()
			return y*100 + w
		}
		return t.Year()*100 + int(t.Month())
	}
	out := make([]models.HistoricalBar, 0, len(bars))
	for i, b := range bars {
		if i+1 < len(bars) && bucket(bars[i+1].Date) == bucket(b.Date) {
			continue
		}
		out = append(out, b)
	}
	return out
}
