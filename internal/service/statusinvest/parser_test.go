package statusinvest

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseIndicatorsNetDebt(t *testing.T) {
	tests := []struct {
		name  string
		value string
		want  float64
	}{
		{"net cash", "-0,15", -0.15},
		{"net debt", "1,32", 1.32},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			page := `<html><body><h1>WEGE3 - WEG</h1>
<div class="item"><h3 class="title">Dív. líquida/PL</h3><strong class="value">` + tt.value + `</strong></div>
</body></html>`

			fs, err := parseIndicators([]byte(page), "WEGE3")
			require.NoError(t, err)
			require.NotNil(t, fs.Fundamentals.NetDebtToEquity)
			assert.Equal(t, tt.want, *fs.Fundamentals.NetDebtToEquity)
			assert.Nil(t, fs.Fundamentals.DebtToEquity)
			assert.Equal(t, "WEG", fs.Company.Name)
		})
	}
}

func TestParseIndicatorsEmptyPage(t *testing.T) {
	_, err := parseIndicators([]byte(`<html><body><p>nada</p></body></html>`), "WEGE3")
	assert.Error(t, err)
}
