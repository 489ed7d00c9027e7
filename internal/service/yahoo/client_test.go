package yahoo

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/MatheusMartinho/gambit-sub001/internal/domain/models"
	"github.com/MatheusMartinho/gambit-sub001/pkg/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const chartJSON = `{"chart":{"result":[{
  "meta":{"currency":"BRL","symbol":"PETR4.SA","longName":"Petróleo Brasileiro S.A. - Petrobras",
    "regularMarketPrice":33.73,"chartPreviousClose":33.10,"regularMarketDayHigh":34.0,
    "regularMarketDayLow":33.2,"regularMarketVolume":41000000,"fiftyTwoWeekHigh":42.1,"fiftyTwoWeekLow":30.5},
  "timestamp":[1704153600,1704240000,1704326400],
  "indicators":{"quote":[{"open":[33.0,null,33.5],"high":[34.0,null,34.1],"low":[32.8,null,33.1],
    "close":[33.4,null,33.73],"volume":[1000,null,1200]}],
    "adjclose":[{"adjclose":[33.1,null,33.73]}]}
}],"error":null}}`

const summaryJSON = `{"quoteSummary":{"result":[{
  "price":{"longName":"Petrobras","currency":"BRL","marketCap":{"raw":440000000000}},
  "summaryDetail":{"trailingPE":{"raw":4.1},"dividendYield":{"raw":0.153},"beta":{"raw":1.2}},
  "defaultKeyStatistics":{"priceToBook":{"raw":1.1},"trailingEps":{"raw":8.2},"bookValue":{"raw":30.6},
    "enterpriseValue":{"raw":700000000000},"enterpriseToEbitda":{"raw":3.0},"sharesOutstanding":{"raw":13000000000}},
  "financialData":{"returnOnEquity":{"raw":0.28},"profitMargins":{"raw":0.2},"debtToEquity":{"raw":75.5},
    "currentRatio":{"raw":1.1},"totalRevenue":{"raw":500000000000}},
  "assetProfile":{"sector":"Energy","industry":"Oil & Gas Integrated"}
}],"error":null}}`

func newTestClient(t *testing.T, h http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	c := NewClient(config.ProviderConfig{
		BaseURL: srv.URL,
		Timeout: time.Second,
		Retry:   config.RetryConfig{Attempts: 1},
	}, nil, nil)
	return c
}

func TestFetchQuote(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v8/finance/chart/PETR4.SA", r.URL.Path)
		_, _ = w.Write([]byte(chartJSON))
	})

	rec, err := c.FetchQuote(context.Background(), "PETR4")
	require.NoError(t, err)
	assert.Equal(t, models.ProviderYahoo, rec.Provider)
	assert.Equal(t, 33.73, *rec.Quote.Price)
	assert.Equal(t, 33.10, *rec.Quote.PreviousClose)
	assert.InDelta(t, 0.63, *rec.Quote.Change, 1e-9)
	assert.InDelta(t, 1.9033, *rec.Quote.ChangePercent, 1e-3)
	assert.Equal(t, 33.5, *rec.Quote.Open)
	assert.Equal(t, "BRL", rec.Quote.Currency)
	assert.Nil(t, rec.Fundamentals.PriceEarnings)
}

func TestFetchFundamentalsScalesRatios(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Contains(t, r.URL.Query().Get("modules"), "financialData")
		_, _ = w.Write([]byte(summaryJSON))
	})

	rec, err := c.FetchFundamentals(context.Background(), "PETR4")
	require.NoError(t, err)
	f := rec.Fundamentals
	assert.InDelta(t, 28.0, *f.ROE, 1e-9)
	assert.InDelta(t, 15.3, *f.DividendYield, 1e-9)
	assert.InDelta(t, 20.0, *f.NetMargin, 1e-9)
	assert.InDelta(t, 0.755, *f.DebtToEquity, 1e-9)
	assert.Equal(t, 4.1, *f.PriceEarnings)
	assert.Equal(t, 30.6, *f.BookValuePerShare)
	assert.Nil(t, f.ROA)
	assert.Equal(t, "Energy", rec.Company.Sector)
	assert.Equal(t, 440000000000.0, *rec.Quote.MarketCap)
}

func TestFetchHistoricalSkipsNullBars(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "1y", r.URL.Query().Get("range"))
		assert.Equal(t, "1wk", r.URL.Query().Get("interval"))
		_, _ = w.Write([]byte(chartJSON))
	})

	bars, err := c.FetchHistorical(context.Background(), "PETR4", models.Range1Y, models.Interval1W)
	require.NoError(t, err)
	require.Len(t, bars, 2)
	assert.Equal(t, 33.4, bars[0].Close)
	assert.Equal(t, 33.73, bars[1].Close)
	assert.Equal(t, 33.73, *bars[1].AdjClose)
	assert.True(t, bars[0].Date.Before(bars[1].Date))
}

func TestUnknownTicker(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"chart":{"result":null,"error":{"code":"Not Found","description":"No data found"}}}`))
	})
	_, err := c.FetchQuote(context.Background(), "XXXX3")
	assert.ErrorIs(t, err, models.ErrTickerNotFound)

	empty := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"quoteSummary":{"result":[],"error":null}}`))
	})
	_, err = empty.FetchFundamentals(context.Background(), "XXXX3")
	assert.ErrorIs(t, err, models.ErrTickerNotFound)
}
