package analytics

import "github.com/MatheusMartinho/gambit-sub001/internal/domain/models"

// sectorFairPB is the fair price-to-book multiple per canonical sector.
var sectorFairPB = map[string]float64{
	models.SectorBanks:      1.5,
	models.SectorOilGas:     1.3,
	models.SectorMining:     1.8,
	models.SectorElectric:   1.6,
	models.SectorSanitation: 1.4,
	models.SectorRetail:     2.5,
	models.SectorSteel:      1.0,
	models.SectorTelecom:    1.6,
	models.DefaultSector:    1.5,
}

// SectorPriceToBook returns the fair P/B for a canonical sector key, falling
// back to the default entry.
func SectorPriceToBook(sector string) float64 {
	if v, ok := sectorFairPB[sector]; ok {
		return v
	}
	return sectorFairPB[models.DefaultSector]
}

// DefaultWACC is the cost of capital (percent) used by the peer-relative
// method's ROIC spread.
const DefaultWACC = 12.0
