package peers

import "github.com/MatheusMartinho/gambit-sub001/internal/domain/models"

// sectorPeers lists the comparison universe per canonical sector, most
// liquid names first.
var sectorPeers = map[string][]string{
	models.SectorBanks:      {"ITUB4", "BBDC4", "BBAS3", "SANB11", "BPAC11"},
	models.SectorOilGas:     {"PETR4", "PRIO3", "RECV3", "CSAN3", "UGPA3"},
	models.SectorMining:     {"VALE3", "CMIN3", "BRAP4"},
	models.SectorElectric:   {"ELET3", "EGIE3", "TAEE11", "CPLE6", "EQTL3"},
	models.SectorSanitation: {"SBSP3", "SAPR11", "CSMG3"},
	models.SectorRetail:     {"MGLU3", "LREN3", "ASAI3", "CRFB3"},
	models.SectorSteel:      {"GGBR4", "CSNA3", "USIM5", "GOAU4"},
	models.SectorTelecom:    {"VIVT3", "TIMS3"},
	models.DefaultSector:    {"PETR4", "VALE3", "ITUB4", "ABEV3", "WEGE3"},
}

// Candidates returns up to max peer tickers for sector, excluding ticker
// itself. Unknown sectors use the default list.
func Candidates(sector, ticker string, max int) []string {
	list, ok := sectorPeers[sector]
	if !ok {
		list = sectorPeers[models.DefaultSector]
	}
	out := make([]string, 0, len(list))
	for _, t := range list {
		if t == ticker {
			continue
		}
		out = append(out, t)
		if max > 0 && len(out) == max {
			break
		}
	}
	return out
}
