package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeSector(t *testing.T) {
	cases := []struct {
		sector, industry, want string
	}{
		{"Energy", "Oil & Gas Integrated", SectorOilGas},
		{"Petróleo, Gás e Biocombustíveis", "", SectorOilGas},
		{"Financial Services", "Banks - Regional", SectorBanks},
		{"Utilities", "Utilities - Regulated Water", SectorSanitation},
		{"Energia Elétrica", "", SectorElectric},
		{"", "", DefaultSector},
		{"Aerospace", "Airlines", DefaultSector},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, NormalizeSector(tc.sector, tc.industry), "%s / %s", tc.sector, tc.industry)
	}
}
