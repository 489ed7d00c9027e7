// Package brapi is the local exchange provider: B3 quotes, fundamentals and
// the cash dividends history.
package brapi

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/MatheusMartinho/gambit-sub001/internal/domain/models"
	"github.com/MatheusMartinho/gambit-sub001/internal/domain/repository"
	"github.com/MatheusMartinho/gambit-sub001/internal/service/provider"
	"github.com/MatheusMartinho/gambit-sub001/pkg/config"
	applogger "github.com/MatheusMartinho/gambit-sub001/pkg/logger"
	"github.com/MatheusMartinho/gambit-sub001/pkg/util"
)

const fundamentalModules = "summaryProfile,defaultKeyStatistics,financialData"

type Client struct {
	base  *provider.Base
	token string
	now   func() time.Time
}

var _ repository.ProviderClient = (*Client)(nil)

func NewClient(cfg config.ProviderConfig, log *applogger.Logger, metrics repository.Metrics) *Client {
	return &Client{
		base:  provider.NewBase(models.ProviderBrapi, cfg, log, metrics),
		token: cfg.Token,
		now:   time.Now,
	}
}

func (c *Client) Name() models.ProviderID { return models.ProviderBrapi }

func (c *Client) FetchQuote(ctx context.Context, ticker string) (*models.ProviderRecord, error) {
	res, err := c.quote(ctx, "quote", ticker, nil)
	if err != nil {
		return nil, err
	}
	rec := c.record(ticker, res)
	q := &rec.Quote
	q.Price = res.RegularMarketPrice
	q.Change = res.RegularMarketChange
	q.ChangePercent = res.RegularMarketChangePercent
	q.PreviousClose = res.RegularMarketPreviousClose
	q.Open = res.RegularMarketOpen
	q.DayHigh = res.RegularMarketDayHigh
	q.DayLow = res.RegularMarketDayLow
	q.Volume = res.RegularMarketVolume
	q.FiftyTwoWeekHigh = res.FiftyTwoWeekHigh
	q.FiftyTwoWeekLow = res.FiftyTwoWeekLow
	q.MarketCap = res.MarketCap
	q.Currency = res.Currency
	return rec, nil
}

func (c *Client) FetchFundamentals(ctx context.Context, ticker string) (*models.ProviderRecord, error) {
	res, err := c.quote(ctx, "fundamentals", ticker, map[string][]string{
		"fundamental": {"true"},
		"dividends":   {"true"},
		"modules":     {fundamentalModules},
	})
	if err != nil {
		return nil, err
	}

	rec := c.record(ticker, res)
	rec.Quote.MarketCap = res.MarketCap
	f := &rec.Fundamentals
	fin := &rec.Financials
	f.PriceEarnings = res.PriceEarnings
	f.EPS = res.EarningsPerShare

	if sp := res.SummaryProfile; sp != nil {
		rec.Company.Sector = sp.Sector
		rec.Company.Industry = sp.Industry
	}
	if ks := res.DefaultKeyStatistics; ks != nil {
		f.PriceToBook = ks.PriceToBook
		f.BookValuePerShare = ks.BookValue
		f.EnterpriseValue = ks.EnterpriseValue
		f.EVToEBITDA = ks.EnterpriseToEbitda
		f.DividendYield = util.FractionToPercent(ks.DividendYield)
		f.Beta = ks.Beta
		fin.SharesOutstanding = ks.SharesOutstanding
		fin.NetIncome = ks.NetIncomeToCommon
	}
	if fd := res.FinancialData; fd != nil {
		f.ROE = util.FractionToPercent(fd.ReturnOnEquity)
		f.ROA = util.FractionToPercent(fd.ReturnOnAssets)
		f.GrossMargin = util.FractionToPercent(fd.GrossMargins)
		f.EBITDAMargin = util.FractionToPercent(fd.EbitdaMargins)
		f.NetMargin = util.FractionToPercent(fd.ProfitMargins)
		if d := fd.DebtToEquity; d != nil {
			f.DebtToEquity = util.Float(*d / 100)
		}
		f.CurrentRatio = fd.CurrentRatio
		fin.TotalRevenue = fd.TotalRevenue
		fin.EBITDA = fd.Ebitda
		fin.TotalDebt = fd.TotalDebt
		fin.TotalCash = fd.TotalCash
	}
	if dd := res.DividendsData; dd != nil {
		rec.Dividends = mapDividends(dd.CashDividends)
	}
	return rec, nil
}

func (c *Client) FetchHistorical(ctx context.Context, ticker string, rng models.Range, interval models.Interval) ([]models.HistoricalBar, error) {
	res, err := c.quote(ctx, "historical", ticker, map[string][]string{
		"range":    {string(rng)},
		"interval": {string(interval)},
	})
	if err != nil {
		return nil, err
	}

	bars := make([]models.HistoricalBar, 0, len(res.HistoricalDataPrice))
	for _, p := range res.HistoricalDataPrice {
		if p.Close == nil {
			continue
		}
		bars = append(bars, models.HistoricalBar{
			Date:     time.Unix(p.Date, 0).UTC(),
			Open:     p.Open,
			High:     p.High,
			Low:      p.Low,
			Close:    *p.Close,
			AdjClose: p.AdjustedClose,
			Volume:   p.Volume,
		})
	}
	sort.Slice(bars, func(i, j int) bool { return bars[i].Date.Before(bars[j].Date) })
	return bars, nil
}

func (c *Client) quote(ctx context.Context, op, ticker string, query map[string][]string) (*quoteResult, error) {
	if query == nil {
		query = map[string][]string{}
	}
	if c.token != "" {
		query["token"] = []string{c.token}
	}
	var resp quoteResponse
	err := c.base.GetJSON(ctx, provider.Request{
		Op:     op,
		Ticker: ticker,
		Path:   "/api/quote/" + ticker,
		Query:  query,
	}, &resp)
	if err != nil {
		return nil, err
	}
	if len(resp.Results) == 0 {
		return nil, c.base.Fail(op, models.ErrTickerNotFound, errors.New(resp.Message))
	}
	return &resp.Results[0], nil
}

func (c *Client) record(ticker string, res *quoteResult) *models.ProviderRecord {
	rec := &models.ProviderRecord{
		Provider:  models.ProviderBrapi,
		Ticker:    ticker,
		FetchedAt: c.now().UTC(),
	}
	rec.Company.Name = res.LongName
	if rec.Company.Name == "" {
		rec.Company.Name = res.ShortName
	}
	return rec
}

// mapDividends keeps cash distributions with a parseable ex-date, newest
// first.
func mapDividends(raw []cashDividend) []models.Dividend {
	out := make([]models.Dividend, 0, len(raw))
	for _, d := range raw {
		ex, ok := util.ParseBRDate(d.LastDatePrior)
		if !ok || d.Rate <= 0 {
			continue
		}
		div := models.Dividend{Type: d.Label, Rate: d.Rate, ExDate: ex}
		if pay, ok := util.ParseBRDate(d.PaymentDate); ok {
			div.PaymentDate = &pay
		}
		out = append(out, div)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ExDate.After(out[j].ExDate) })
	return out
}
