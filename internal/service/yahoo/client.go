// Package yahoo is the primary quote provider. It maps Yahoo Finance chart and
// quoteSummary payloads for B3 symbols into provider records.
package yahoo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/MatheusMartinho/gambit-sub001/internal/domain/models"
	"github.com/MatheusMartinho/gambit-sub001/internal/domain/repository"
	"github.com/MatheusMartinho/gambit-sub001/internal/service/provider"
	"github.com/MatheusMartinho/gambit-sub001/pkg/config"
	applogger "github.com/MatheusMartinho/gambit-sub001/pkg/logger"
	"github.com/MatheusMartinho/gambit-sub001/pkg/util"
)

const summaryModules = "price,summaryDetail,defaultKeyStatistics,financialData,assetProfile"

type Client struct {
	base *provider.Base
	now  func() time.Time
}

var _ repository.ProviderClient = (*Client)(nil)

func NewClient(cfg config.ProviderConfig, log *applogger.Logger, metrics repository.Metrics) *Client {
	return &Client{
		base: provider.NewBase(models.ProviderYahoo, cfg, log, metrics),
		now:  time.Now,
	}
}

func (c *Client) Name() models.ProviderID { return models.ProviderYahoo }

func (c *Client) FetchQuote(ctx context.Context, ticker string) (*models.ProviderRecord, error) {
	res, err := c.chart(ctx, "quote", ticker, models.Range1D, models.Interval1D)
	if err != nil {
		return nil, err
	}
	m := res.Meta
	if m.RegularMarketPrice == nil {
		return nil, c.base.Fail("quote", models.ErrProviderMalformed, errors.New("chart meta without regularMarketPrice"))
	}

	rec := c.record(ticker)
	q := &rec.Quote
	q.Price = m.RegularMarketPrice
	q.PreviousClose = m.ChartPreviousClose
	if m.PreviousClose != nil {
		q.PreviousClose = m.PreviousClose
	}
	q.DayHigh = m.RegularMarketDayHigh
	q.DayLow = m.RegularMarketDayLow
	q.Volume = m.RegularMarketVolume
	q.FiftyTwoWeekHigh = m.FiftyTwoWeekHigh
	q.FiftyTwoWeekLow = m.FiftyTwoWeekLow
	q.Currency = m.Currency
	if len(res.Indicators.Quote) > 0 {
		q.Open = lastValue(res.Indicators.Quote[0].Open)
	}
	if q.PreviousClose != nil && *q.PreviousClose != 0 {
		change := *q.Price - *q.PreviousClose
		pct := change / *q.PreviousClose * 100
		q.Change = &change
		q.ChangePercent = &pct
	}
	rec.Company.Name = firstNonEmpty(m.LongName, m.ShortName)
	return rec, nil
}

func (c *Client) FetchFundamentals(ctx context.Context, ticker string) (*models.ProviderRecord, error) {
	var resp quoteSummaryResponse
	err := c.base.GetJSON(ctx, provider.Request{
		Op:     "fundamentals",
		Ticker: ticker,
		Path:   "/v10/finance/quoteSummary/" + models.YahooSymbol(ticker),
		Query:  map[string][]string{"modules": {summaryModules}},
	}, &resp)
	if err != nil {
		return nil, err
	}
	if len(resp.QuoteSummary.Result) == 0 {
		return nil, c.base.Fail("fundamentals", models.ErrTickerNotFound, describe(resp.QuoteSummary.Error))
	}
	return c.mapSummary(ticker, resp.QuoteSummary.Result[0]), nil
}

func (c *Client) FetchHistorical(ctx context.Context, ticker string, rng models.Range, interval models.Interval) ([]models.HistoricalBar, error) {
	res, err := c.chart(ctx, "historical", ticker, rng, interval)
	if err != nil {
		return nil, err
	}
	if len(res.Indicators.Quote) == 0 {
		return nil, c.base.Fail("historical", models.ErrProviderMalformed, errors.New("chart without quote indicators"))
	}
	q := res.Indicators.Quote[0]
	var adj []*float64
	if len(res.Indicators.AdjClose) > 0 {
		adj = res.Indicators.AdjClose[0].AdjClose
	}

	bars := make([]models.HistoricalBar, 0, len(res.Timestamp))
	for i, ts := range res.Timestamp {
		closePx := at(q.Close, i)
		if closePx == nil {
			continue
		}
		bars = append(bars, models.HistoricalBar{
			Date:     time.Unix(ts, 0).UTC(),
			Open:     at(q.Open, i),
			High:     at(q.High, i),
			Low:      at(q.Low, i),
			Close:    *closePx,
			AdjClose: at(adj, i),
			Volume:   at(q.Volume, i),
		})
	}
	return bars, nil
}

func (c *Client) chart(ctx context.Context, op, ticker string, rng models.Range, interval models.Interval) (*chartResult, error) {
	var resp chartResponse
	err := c.base.GetJSON(ctx, provider.Request{
		Op:     op,
		Ticker: ticker,
		Path:   "/v8/finance/chart/" + models.YahooSymbol(ticker),
		Query: map[string][]string{
			"range":    {string(rng)},
			"interval": {string(interval)},
		},
	}, &resp)
	if err != nil {
		return nil, err
	}
	if len(resp.Chart.Result) == 0 {
		return nil, c.base.Fail(op, models.ErrTickerNotFound, describe(resp.Chart.Error))
	}
	return &resp.Chart.Result[0], nil
}

func (c *Client) mapSummary(ticker string, r summaryResult) *models.ProviderRecord {
	rec := c.record(ticker)
	f := &rec.Fundamentals
	fin := &rec.Financials

	if p := r.Price; p != nil {
		rec.Company.Name = firstNonEmpty(p.LongName, p.ShortName)
		rec.Quote.Currency = p.Currency
		rec.Quote.MarketCap = p.MarketCap.Raw
	}
	if sd := r.SummaryDetail; sd != nil {
		f.PriceEarnings = sd.TrailingPE.Raw
		f.DividendYield = util.FractionToPercent(sd.DividendYield.Raw)
		f.Beta = sd.Beta.Raw
		if rec.Quote.MarketCap == nil {
			rec.Quote.MarketCap = sd.MarketCap.Raw
		}
	}
	if ks := r.DefaultKeyStatistics; ks != nil {
		f.PriceToBook = ks.PriceToBook.Raw
		f.EPS = ks.TrailingEps.Raw
		f.BookValuePerShare = ks.BookValue.Raw
		f.EnterpriseValue = ks.EnterpriseValue.Raw
		f.EVToEBITDA = ks.EnterpriseToEbitda.Raw
		if f.Beta == nil {
			f.Beta = ks.Beta.Raw
		}
		fin.SharesOutstanding = ks.SharesOutstanding.Raw
		fin.NetIncome = ks.NetIncomeToCommon.Raw
	}
	if fd := r.FinancialData; fd != nil {
		f.ROE = util.FractionToPercent(fd.ReturnOnEquity.Raw)
		f.ROA = util.FractionToPercent(fd.ReturnOnAssets.Raw)
		f.GrossMargin = util.FractionToPercent(fd.GrossMargins.Raw)
		f.EBITDAMargin = util.FractionToPercent(fd.EbitdaMargins.Raw)
		f.NetMargin = util.FractionToPercent(fd.ProfitMargins.Raw)
		// Yahoo reports debt/equity as a percentage (45.3 means 0.453).
		if d := fd.DebtToEquity.Raw; d != nil {
			f.DebtToEquity = util.Float(*d / 100)
		}
		f.CurrentRatio = fd.CurrentRatio.Raw
		fin.TotalRevenue = fd.TotalRevenue.Raw
		fin.EBITDA = fd.Ebitda.Raw
		fin.TotalDebt = fd.TotalDebt.Raw
		fin.TotalCash = fd.TotalCash.Raw
	}
	if ap := r.AssetProfile; ap != nil {
		rec.Company.Sector = ap.Sector
		rec.Company.Industry = ap.Industry
	}
	return rec
}

func (c *Client) record(ticker string) *models.ProviderRecord {
	return &models.ProviderRecord{
		Provider:  models.ProviderYahoo,
		Ticker:    ticker,
		FetchedAt: c.now().UTC(),
	}
}

func describe(e *apiError) error {
	if e == nil {
		return errors.New("empty result")
	}
	return fmt.Errorf("%s: %s", e.Code, e.Description)
}

func at(values []*float64, i int) *float64 {
	if i < len(values) {
		return values[i]
	}
	return nil
}

func lastValue(values []*float64) *float64 {
	for i := len(values) - 1; i >= 0; i-- {
		if values[i] != nil {
			return values[i]
		}
	}
	return nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
