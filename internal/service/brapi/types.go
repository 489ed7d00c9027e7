package brapi

type quoteResponse struct {
	Results []quoteResult `json:"results"`
	Error   bool          `json:"error"`
	Message string        `json:"message"`
}

type quoteResult struct {
	Symbol                     string   `json:"symbol"`
	ShortName                  string   `json:"shortName"`
	LongName                   string   `json:"longName"`
	Currency                   string   `json:"currency"`
	RegularMarketPrice         *float64 `json:"regularMarketPrice"`
	RegularMarketChange        *float64 `json:"regularMarketChange"`
	RegularMarketChangePercent *float64 `json:"regularMarketChangePercent"`
	RegularMarketPreviousClose *float64 `json:"regularMarketPreviousClose"`
	RegularMarketOpen          *float64 `json:"regularMarketOpen"`
	RegularMarketDayHigh       *float64 `json:"regularMarketDayHigh"`
	RegularMarketDayLow        *float64 `json:"regularMarketDayLow"`
	RegularMarketVolume        *float64 `json:"regularMarketVolume"`
	FiftyTwoWeekHigh           *float64 `json:"fiftyTwoWeekHigh"`
	FiftyTwoWeekLow            *float64 `json:"fiftyTwoWeekLow"`
	MarketCap                  *float64 `json:"marketCap"`
	PriceEarnings              *float64 `json:"priceEarnings"`
	EarningsPerShare           *float64 `json:"earningsPerShare"`

	SummaryProfile *struct {
		Sector   string `json:"sector"`
		Industry string `json:"industry"`
	} `json:"summaryProfile"`

	DefaultKeyStatistics *struct {
		PriceToBook        *float64 `json:"priceToBook"`
		BookValue          *float64 `json:"bookValue"`
		EnterpriseValue    *float64 `json:"enterpriseValue"`
		EnterpriseToEbitda *float64 `json:"enterpriseToEbitda"`
		SharesOutstanding  *float64 `json:"sharesOutstanding"`
		NetIncomeToCommon  *float64 `json:"netIncomeToCommon"`
		DividendYield      *float64 `json:"dividendYield"`
		Beta               *float64 `json:"beta"`
	} `json:"defaultKeyStatistics"`

	FinancialData *struct {
		ReturnOnEquity *float64 `json:"returnOnEquity"`
		ReturnOnAssets *float64 `json:"returnOnAssets"`
		GrossMargins   *float64 `json:"grossMargins"`
		EbitdaMargins  *float64 `json:"ebitdaMargins"`
		ProfitMargins  *float64 `json:"profitMargins"`
		DebtToEquity   *float64 `json:"debtToEquity"`
		CurrentRatio   *float64 `json:"currentRatio"`
		TotalRevenue   *float64 `json:"totalRevenue"`
		Ebitda         *float64 `json:"ebitda"`
		TotalDebt      *float64 `json:"totalDebt"`
		TotalCash      *float64 `json:"totalCash"`
		RevenueGrowth  *float64 `json:"revenueGrowth"`
		EarningsGrowth *float64 `json:"earningsGrowth"`
	} `json:"financialData"`

	DividendsData *struct {
		CashDividends []cashDividend `json:"cashDividends"`
	} `json:"dividendsData"`

	HistoricalDataPrice []struct {
		Date          int64    `json:"date"`
		Open          *float64 `json:"open"`
		High          *float64 `json:"high"`
		Low           *float64 `json:"low"`
		Close         *float64 `json:"close"`
		Volume        *float64 `json:"volume"`
		AdjustedClose *float64 `json:"adjustedClose"`
	} `json:"historicalDataPrice"`
}

type cashDividend struct {
	Rate          float64 `json:"rate"`
	Label         string  `json:"label"`
	PaymentDate   string  `json:"paymentDate"`
	LastDatePrior string  `json:"lastDatePrior"`
}
