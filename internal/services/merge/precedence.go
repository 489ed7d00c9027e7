package merge

import "github.com/MatheusMartinho/gambit-sub001/internal/domain/models"

// GroupPrecedence is the declared provider order per field group. Quote
// fields come only from the primary provider. Ratios prefer the local
// providers; beta and enterprise value prefer the global one.
var GroupPrecedence = map[models.FieldGroup][]models.ProviderID{
	models.GroupQuote:      {models.ProviderYahoo},
	models.GroupRatios:     {models.ProviderBrapi, models.ProviderStatusInvest, models.ProviderYahoo},
	models.GroupGlobalOnly: {models.ProviderYahoo, models.ProviderBrapi, models.ProviderStatusInvest},
	models.GroupFinancials: {models.ProviderBrapi, models.ProviderYahoo, models.ProviderStatusInvest},
	models.GroupCompany:    {models.ProviderYahoo, models.ProviderBrapi, models.ProviderStatusInvest},
}

// DividendPrecedence orders the sources of the dividends history.
var DividendPrecedence = []models.ProviderID{models.ProviderBrapi, models.ProviderYahoo, models.ProviderStatusInvest}

// sourceOrder is the stable order of Snapshot.Sources.
var sourceOrder = []models.ProviderID{models.ProviderYahoo, models.ProviderBrapi, models.ProviderStatusInvest, models.ProviderFixture}

// Table maps a canonical field name to its provider order.
type Table map[string][]models.ProviderID

// BuildTable expands group precedence into one entry per field. overrides
// replace the order of individual fields.
func BuildTable(groups map[models.FieldGroup][]models.ProviderID, overrides Table) Table {
	t := make(Table, len(models.NumberFields)+len(models.TextFields))
	for _, f := range models.NumberFields {
		t[f.Name] = groups[f.Group]
	}
	for _, f := range models.TextFields {
		t[f.Name] = groups[f.Group]
	}
	for name, order := range overrides {
		t[name] = order
	}
	return t
}

// DefaultTable is the precedence table used by Merge.
var DefaultTable = BuildTable(GroupPrecedence, nil)
