package models

import "github.com/MatheusMartinho/gambit-sub001/pkg/util"

// DefaultSector is used when a ticker's sector cannot be resolved.
const DefaultSector = "default"

const (
	SectorBanks      = "bancos"
	SectorOilGas     = "petroleo"
	SectorMining     = "mineracao"
	SectorElectric   = "energia-eletrica"
	SectorSanitation = "saneamento"
	SectorRetail     = "varejo"
	SectorSteel      = "siderurgia"
	SectorTelecom    = "telecom"
)

// sectorAliases maps slugged provider sector/industry names, in English and
// Portuguese, onto canonical sector keys.
var sectorAliases = map[string]string{
	"bancos":                         SectorBanks,
	"banks-regional":                 SectorBanks,
	"banks-diversified":              SectorBanks,
	"financial-services":             SectorBanks,
	"intermediarios-financeiros":     SectorBanks,
	"financeiro":                     SectorBanks,
	"petroleo":                       SectorOilGas,
	"energy":                         SectorOilGas,
	"oil-gas-integrated":             SectorOilGas,
	"oil-gas-e-p":                    SectorOilGas,
	"petroleo-gas-e-biocombustiveis": SectorOilGas,
	"mineracao":                      SectorMining,
	"basic-materials":                SectorMining,
	"other-industrial-metals-mining": SectorMining,
	"minerais-metalicos":             SectorMining,
	"energia-eletrica":               SectorElectric,
	"utilities":                      SectorElectric,
	"utilities-regulated-electric":   SectorElectric,
	"saneamento":                     SectorSanitation,
	"agua-e-saneamento":              SectorSanitation,
	"utilities-regulated-water":      SectorSanitation,
	"varejo":                         SectorRetail,
	"comercio":                       SectorRetail,
	"consumer-cyclical":              SectorRetail,
	"specialty-retail":               SectorRetail,
	"siderurgia":                     SectorSteel,
	"siderurgia-e-metalurgia":        SectorSteel,
	"steel":                          SectorSteel,
	"telecom":                        SectorTelecom,
	"telecomunicacoes":               SectorTelecom,
	"communication-services":         SectorTelecom,
	"telecom-services":               SectorTelecom,
}

// NormalizeSector resolves industry first, then sector, to a canonical key.
// Unknown or empty inputs map to DefaultSector.
func NormalizeSector(sector, industry string) string {
	for _, s := range []string{industry, sector} {
		if canon, ok := sectorAliases[util.Slug(s)]; ok {
			return canon
		}
	}
	return DefaultSector
}
