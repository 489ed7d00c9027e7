package statusinvest

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

const tickerPage = `<html><body>
<h1 title="PETR4">PETR4 - PETROBRAS</h1>
<div class="info"><h3 class="title">Valor atual</h3><strong class="value">R$ 33,73</strong></div>
<div class="indicator-today-container">
  <div class="item"><h3 class="title">P/L</h3><strong class="value">8,63</strong></div>
  <div class="item"><h3 class="title">P/VP</h3><strong class="value">1,05</strong></div>
  <div class="item"><h3 class="title">D.Y</h3><strong class="value">12,40%</strong></div>
  <div class="item"><h3 class="title">EV/EBITDA</h3><strong class="value">3,21</strong></div>
  <div class="item"><h3 class="title">VPA</h3><strong class="value">32,10</strong></div>
  <div class="item"><h3 class="title">ROE</h3><strong class="value">21,50%</strong></div>
  <div class="item"><h3 class="title">ROIC</h3><strong class="value">17,80%</strong></div>
  <div class="item"><h3 class="title">M. Líquida</h3><strong class="value">18,30%</strong></div>
  <div class="item"><h3 class="title">Dív. líquida/PL</h3><strong class="value">0,62</strong></div>
  <div class="item"><h3 class="title">Liq. corrente</h3><strong class="value">-</strong></div>
  <div class="item"><h3 class="title">CAGR Receitas 5 anos</h3><strong class="value">14,20%</strong></div>
</div>
<div class="info"><h3 class="title">Valor de mercado</h3><strong class="value">R$ 440.123.456.789</strong></div>
<div class="info"><h3 class="title">Setor de Atuação</h3><strong class="value">Petróleo, Gás e Biocombustíveis</strong></div>
</body></html>`

func newTestClient(t *testing.T, h http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return NewClient(config.ProviderConfig{
		BaseURL: srv.URL,
		Timeout: time.Second,
		Retry:   config.RetryConfig{Attempts: 1},
	}, nil, nil)
}

func TestFetchFundamentalsParsesLocalizedNumbers(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/acoes/petr4", r.URL.Path)
		_, _ = w.Write([]byte(tickerPage))
	})

	rec, err := c.FetchFundamentals(context.Background(), "PETR4")
	require.NoError(t, err)
	f := rec.Fundamentals
	assert.Equal(t, models.ProviderStatusInvest, rec.Provider)
	assert.Equal(t, 8.63, *f.PriceEarnings)
	assert.Equal(t, 1.05, *f.PriceToBook)
	assert.Equal(t, 12.4, *f.DividendYield)
	assert.Equal(t, 21.5, *f.ROE)
	assert.Equal(t, 17.8, *f.ROIC)
	assert.Equal(t, 18.3, *f.NetMargin)
	assert.Equal(t, 0.62, *f.NetDebtToEquity)
	assert.Nil(t, f.DebtToEquity, "net debt never fills the gross ratio")
	assert.Equal(t, 14.2, *f.RevenueCAGR5Y)
	assert.Nil(t, f.CurrentRatio, "placeholder dash stays null")
	assert.Equal(t, 440123456789.0, *rec.Quote.MarketCap)
	assert.Nil(t, rec.Quote.Price, "price belongs to FetchQuote")
	assert.Equal(t, "PETROBRAS", rec.Company.Name)
	assert.Equal(t, "Petróleo, Gás e Biocombustíveis", rec.Company.Sector)
}

func TestFetchQuote(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(tickerPage))
	})
	rec, err := c.FetchQuote(context.Background(), "PETR4")
	require.NoError(t, err)
	assert.Equal(t, 33.73, *rec.Quote.Price)
	assert.Nil(t, rec.Fundamentals.PriceEarnings)
}

func TestUnknownTickerPage(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`<html><body><h1>Busca</h1><p>Nenhum resultado</p></body></html>`))
	})
	_, err := c.FetchFundamentals(context.Background(), "XXXX3")
	assert.ErrorIs(t, err, models.ErrTickerNotFound)
}

func TestFetchHistoricalResamples(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/acao/tickerprice", r.URL.Path)
		assert.Equal(t, "3", r.URL.Query().Get("type"))
		_, _ = w.Write([]byte(`[{"currencyType":1,"prices":[
			{"price":30.10,"date":"02/01/24 00:00"},
			{"price":30.50,"date":"31/01/24 00:00"},
			{"price":31.00,"date":"01/02/24 00:00"},
			{"price":0,"date":"02/02/24 00:00"},
			{"price":32.00,"date":"29/02/24 00:00"}]}]`))
	})

	bars, err := c.FetchHistorical(context.Background(), "PETR4", models.Range1Y, models.Interval1Mo)
	require.NoError(t, err)
	require.Len(t, bars, 2)
	assert.Equal(t, 30.5, bars[0].Close)
	assert.Equal(t, 32.0, bars[1].Close)

	daily, err := c.FetchHistorical(context.Background(), "PETR4", models.Range1Y, models.Interval1D)
	require.NoError(t, err)
	assert.Len(t, daily, 4)
}
