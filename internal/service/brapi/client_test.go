package brapi

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

const fundamentalsJSON = `{"results":[{
  "symbol":"PETR4","longName":"Petróleo Brasileiro S.A. - Petrobras","currency":"BRL",
  "regularMarketPrice":33.73,"marketCap":440000000000,"priceEarnings":8.63,"earningsPerShare":3.9,
  "summaryProfile":{"sector":"Energy","industry":"Oil & Gas Integrated"},
  "defaultKeyStatistics":{"priceToBook":1.05,"bookValue":32.1,"sharesOutstanding":13044496930},
  "financialData":{"returnOnEquity":0.21,"profitMargins":0.18,"debtToEquity":62.0,"currentRatio":1.3},
  "dividendsData":{"cashDividends":[
    {"rate":1.05,"label":"DIVIDENDO","lastDatePrior":"2024-06-03T00:00:00.000Z","paymentDate":"2024-08-20T00:00:00.000Z"},
    {"rate":0.95,"label":"JCP","lastDatePrior":"2024-11-21T00:00:00.000Z","paymentDate":null},
    {"rate":0,"label":"DIVIDENDO","lastDatePrior":"2024-01-02T00:00:00.000Z"}
  ]}
}]}`

func newTestClient(t *testing.T, h http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return NewClient(config.ProviderConfig{
		BaseURL: srv.URL,
		Token:   "secret",
		Timeout: time.Second,
		Retry:   config.RetryConfig{Attempts: 1},
	}, nil, nil)
}

func TestFetchFundamentals(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/quote/PETR4", r.URL.Path)
		assert.Equal(t, "true", r.URL.Query().Get("fundamental"))
		assert.Equal(t, "true", r.URL.Query().Get("dividends"))
		assert.Equal(t, "secret", r.URL.Query().Get("token"))
		_, _ = w.Write([]byte(fundamentalsJSON))
	})

	rec, err := c.FetchFundamentals(context.Background(), "PETR4")
	require.NoError(t, err)
	f := rec.Fundamentals
	assert.Equal(t, 8.63, *f.PriceEarnings)
	assert.InDelta(t, 21.0, *f.ROE, 1e-9)
	assert.InDelta(t, 18.0, *f.NetMargin, 1e-9)
	assert.InDelta(t, 0.62, *f.DebtToEquity, 1e-9)
	assert.Equal(t, 32.1, *f.BookValuePerShare)
	assert.Nil(t, f.EVToEBITDA)
	assert.Nil(t, rec.Quote.Price, "quote fields belong to FetchQuote")
	assert.Equal(t, "Energy", rec.Company.Sector)

	require.Len(t, rec.Dividends, 2)
	assert.Equal(t, "JCP", rec.Dividends[0].Type)
	assert.Nil(t, rec.Dividends[0].PaymentDate)
	assert.Equal(t, 1.05, rec.Dividends[1].Rate)
	require.NotNil(t, rec.Dividends[1].PaymentDate)
}

func TestFetchQuote(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Empty(t, r.URL.Query().Get("fundamental"))
		_, _ = w.Write([]byte(fundamentalsJSON))
	})

	rec, err := c.FetchQuote(context.Background(), "PETR4")
	require.NoError(t, err)
	assert.Equal(t, models.ProviderBrapi, rec.Provider)
	assert.Equal(t, 33.73, *rec.Quote.Price)
	assert.Nil(t, rec.Fundamentals.PriceEarnings)
	assert.Equal(t, "Petróleo Brasileiro S.A. - Petrobras", rec.Company.Name)
}

func TestFetchHistoricalSorted(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "3mo", r.URL.Query().Get("range"))
		_, _ = w.Write([]byte(`{"results":[{"symbol":"VALE3","historicalDataPrice":[
			{"date":1704326400,"close":61.2,"volume":100},
			{"date":1704240000,"close":null},
			{"date":1704153600,"open":60,"close":60.5}]}]}`))
	})

	bars, err := c.FetchHistorical(context.Background(), "VALE3", models.Range3M, models.Interval1D)
	require.NoError(t, err)
	require.Len(t, bars, 2)
	assert.Equal(t, 60.5, bars[0].Close)
	assert.Equal(t, 61.2, bars[1].Close)
}

func TestNotFound(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"error":true,"message":"Não encontramos a ação XXXX3"}`))
	})
	_, err := c.FetchQuote(context.Background(), "XXXX3")
	assert.ErrorIs(t, err, models.ErrTickerNotFound)

	empty := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"results":[]}`))
	})
	_, err = empty.FetchFundamentals(context.Background(), "XXXX3")
	assert.ErrorIs(t, err, models.ErrTickerNotFound)
}
