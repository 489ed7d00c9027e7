package models

// FieldGroup classifies canonical fields for precedence purposes.
type FieldGroup string

const (
	GroupQuote      FieldGroup = "quote"
	GroupRatios     FieldGroup = "ratios"
	GroupGlobalOnly FieldGroup = "global_only"
	GroupFinancials FieldGroup = "financials"
	GroupCompany    FieldGroup = "company"
)

// NumberField addresses one nullable numeric field of a FieldSet.
type NumberField struct {
	Name  string
	Group FieldGroup
	Ref   func(*FieldSet) **float64
}

// TextField addresses one string field of a FieldSet; "" means absent.
type TextField struct {
	Name  string
	Group FieldGroup
	Ref   func(*FieldSet) *string
}

// NumberFields enumerates every numeric field of the canonical shape.
var NumberFields = []NumberField{
	{"quote.price", GroupQuote, func(f *FieldSet) **float64 { return &f.Quote.Price }},
	{"quote.change", GroupQuote, func(f *FieldSet) **float64 { return &f.Quote.Change }},
	{"quote.changePercent", GroupQuote, func(f *FieldSet) **float64 { return &f.Quote.ChangePercent }},
	{"quote.previousClose", GroupQuote, func(f *FieldSet) **float64 { return &f.Quote.PreviousClose }},
	{"quote.open", GroupQuote, func(f *FieldSet) **float64 { return &f.Quote.Open }},
	{"quote.dayHigh", GroupQuote, func(f *FieldSet) **float64 { return &f.Quote.DayHigh }},
	{"quote.dayLow", GroupQuote, func(f *FieldSet) **float64 { return &f.Quote.DayLow }},
	{"quote.volume", GroupQuote, func(f *FieldSet) **float64 { return &f.Quote.Volume }},
	{"quote.fiftyTwoWeekHigh", GroupQuote, func(f *FieldSet) **float64 { return &f.Quote.FiftyTwoWeekHigh }},
	{"quote.fiftyTwoWeekLow", GroupQuote, func(f *FieldSet) **float64 { return &f.Quote.FiftyTwoWeekLow }},
	{"quote.marketCap", GroupGlobalOnly, func(f *FieldSet) **float64 { return &f.Quote.MarketCap }},

	{"fundamentals.pe", GroupRatios, func(f *FieldSet) **float64 { return &f.Fundamentals.PriceEarnings }},
	{"fundamentals.pb", GroupRatios, func(f *FieldSet) **float64 { return &f.Fundamentals.PriceToBook }},
	{"fundamentals.dividendYield", GroupRatios, func(f *FieldSet) **float64 { return &f.Fundamentals.DividendYield }},
	{"fundamentals.roe", GroupRatios, func(f *FieldSet) **float64 { return &f.Fundamentals.ROE }},
	{"fundamentals.roa", GroupRatios, func(f *FieldSet) **float64 { return &f.Fundamentals.ROA }},
	{"fundamentals.roic", GroupRatios, func(f *FieldSet) **float64 { return &f.Fundamentals.ROIC }},
	{"fundamentals.grossMargin", GroupRatios, func(f *FieldSet) **float64 { return &f.Fundamentals.GrossMargin }},
	{"fundamentals.ebitdaMargin", GroupRatios, func(f *FieldSet) **float64 { return &f.Fundamentals.EBITDAMargin }},
	{"fundamentals.netMargin", GroupRatios, func(f *FieldSet) **float64 { return &f.Fundamentals.NetMargin }},
	{"fundamentals.debtToEquity", GroupRatios, func(f *FieldSet) **float64 { return &f.Fundamentals.DebtToEquity }},
	{"fundamentals.netDebtToEquity", GroupRatios, func(f *FieldSet) **float64 { return &f.Fundamentals.NetDebtToEquity }},
	{"fundamentals.netDebtToEbitda", GroupRatios, func(f *FieldSet) **float64 { return &f.Fundamentals.NetDebtToEBITDA }},
	{"fundamentals.currentRatio", GroupRatios, func(f *FieldSet) **float64 { return &f.Fundamentals.CurrentRatio }},
	{"fundamentals.evEbitda", GroupRatios, func(f *FieldSet) **float64 { return &f.Fundamentals.EVToEBITDA }},
	{"fundamentals.eps", GroupRatios, func(f *FieldSet) **float64 { return &f.Fundamentals.EPS }},
	{"fundamentals.bookValuePerShare", GroupRatios, func(f *FieldSet) **float64 { return &f.Fundamentals.BookValuePerShare }},
	{"fundamentals.revenueCagr5y", GroupRatios, func(f *FieldSet) **float64 { return &f.Fundamentals.RevenueCAGR5Y }},
	{"fundamentals.earningsCagr5y", GroupRatios, func(f *FieldSet) **float64 { return &f.Fundamentals.EarningsCAGR5Y }},
	{"fundamentals.beta", GroupGlobalOnly, func(f *FieldSet) **float64 { return &f.Fundamentals.Beta }},
	{"fundamentals.enterpriseValue", GroupGlobalOnly, func(f *FieldSet) **float64 { return &f.Fundamentals.EnterpriseValue }},

	{"financials.netIncome", GroupFinancials, func(f *FieldSet) **float64 { return &f.Financials.NetIncome }},
	{"financials.shareholdersEquity", GroupFinancials, func(f *FieldSet) **float64 { return &f.Financials.ShareholdersEquity }},
	{"financials.totalRevenue", GroupFinancials, func(f *FieldSet) **float64 { return &f.Financials.TotalRevenue }},
	{"financials.ebitda", GroupFinancials, func(f *FieldSet) **float64 { return &f.Financials.EBITDA }},
	{"financials.totalDebt", GroupFinancials, func(f *FieldSet) **float64 { return &f.Financials.TotalDebt }},
	{"financials.totalCash", GroupFinancials, func(f *FieldSet) **float64 { return &f.Financials.TotalCash }},
	{"financials.sharesOutstanding", GroupFinancials, func(f *FieldSet) **float64 { return &f.Financials.SharesOutstanding }},
}

// TextFields enumerates every string field of the canonical shape.
var TextFields = []TextField{
	{"quote.currency", GroupQuote, func(f *FieldSet) *string { return &f.Quote.Currency }},
	{"company.name", GroupCompany, func(f *FieldSet) *string { return &f.Company.Name }},
	{"company.sector", GroupCompany, func(f *FieldSet) *string { return &f.Company.Sector }},
	{"company.industry", GroupCompany, func(f *FieldSet) *string { return &f.Company.Industry }},
}

func combineFields(dst, src *FieldSet) {
	for _, nf := range NumberFields {
		if d := nf.Ref(dst); *d == nil {
			*d = *nf.Ref(src)
		}
	}
	for _, tf := range TextFields {
		if d := tf.Ref(dst); *d == "" {
			*d = *tf.Ref(src)
		}
	}
}
