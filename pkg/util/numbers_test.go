package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseBRNumber(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want float64
		ok   bool
	}{
		{name: "thousands and decimals", in: "1.234,56", want: 1234.56, ok: true},
		{name: "plain decimal comma", in: "8,63", want: 8.63, ok: true},
		{name: "negative", in: "-0,50", want: -0.5, ok: true},
		{name: "percent", in: "12,5%", want: 12.5, ok: true},
		{name: "currency prefix", in: "R$ 33,73", want: 33.73, ok: true},
		{name: "nbsp currency", in: "R$ 1.000,00", want: 1000, ok: true},
		{name: "many thousand groups", in: "1.234.567", want: 1234567, ok: true},
		{name: "single thousand group", in: "2.500", want: 2500, ok: true},
		{name: "dot decimal from json-ish text", in: "0.75", want: 0.75, ok: true},
		{name: "billions suffix", in: "1,2 B", want: 1.2e9, ok: true},
		{name: "milhoes suffix", in: "350,4 Mi", want: 350.4e6, ok: true},
		{name: "dash placeholder", in: "-", ok: false},
		{name: "double dash placeholder", in: "--", ok: false},
		{name: "empty", in: "  ", ok: false},
		{name: "garbage", in: "abc", ok: false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := ParseBRNumber(tc.in)
			require.Equal(t, tc.ok, ok)
			if tc.ok {
				assert.InDelta(t, tc.want, got, 1e-6)
			}
		})
	}
}

func TestBRNumberPtr(t *testing.T) {
	assert.Nil(t, BRNumberPtr("-"))
	p := BRNumberPtr("5,0")
	require.NotNil(t, p)
	assert.Equal(t, 5.0, *p)
}

func TestFractionToPercent(t *testing.T) {
	assert.Nil(t, FractionToPercent(nil))
	assert.InDelta(t, 15.3, *FractionToPercent(Float(0.153)), 1e-9)
}

func TestSlug(t *testing.T) {
	assert.Equal(t, "energia-eletrica", Slug("Energia Elétrica"))
	assert.Equal(t, "financial-services", Slug("  Financial Services "))
	assert.Equal(t, "petroleo-gas-e-biocombustiveis", Slug("Petróleo, Gás e Biocombustíveis"))
}
