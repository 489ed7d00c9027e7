package yahoo

type chartResponse struct {
	Chart struct {
		Result []chartResult `json:"result"`
		Error  *apiError     `json:"error"`
	} `json:"chart"`
}

type apiError struct {
	Code        string `json:"code"`
	Description string `json:"description"`
}

type chartResult struct {
	Meta struct {
		Currency             string   `json:"currency"`
		Symbol               string   `json:"symbol"`
		LongName             string   `json:"longName"`
		ShortName            string   `json:"shortName"`
		RegularMarketPrice   *float64 `json:"regularMarketPrice"`
		ChartPreviousClose   *float64 `json:"chartPreviousClose"`
		PreviousClose        *float64 `json:"previousClose"`
		RegularMarketDayHigh *float64 `json:"regularMarketDayHigh"`
		RegularMarketDayLow  *float64 `json:"regularMarketDayLow"`
		RegularMarketVolume  *float64 `json:"regularMarketVolume"`
		FiftyTwoWeekHigh     *float64 `json:"fiftyTwoWeekHigh"`
		FiftyTwoWeekLow      *float64 `json:"fiftyTwoWeekLow"`
	} `json:"meta"`
	Timestamp  []int64 `json:"timestamp"`
	Indicators struct {
		Quote []struct {
			Open   []*float64 `json:"open"`
			High   []*float64 `json:"high"`
			Low    []*float64 `json:"low"`
			Close  []*float64 `json:"close"`
			Volume []*float64 `json:"volume"`
		} `json:"quote"`
		AdjClose []struct {
			AdjClose []*float64 `json:"adjclose"`
		} `json:"adjclose"`
	} `json:"indicators"`
}

// rawValue is Yahoo's {"raw": 1.23, "fmt": "1.23"} wrapper.
type rawValue struct {
	Raw *float64 `json:"raw"`
}

type quoteSummaryResponse struct {
	QuoteSummary struct {
		Result []summaryResult `json:"result"`
		Error  *apiError       `json:"error"`
	} `json:"quoteSummary"`
}

type summaryResult struct {
	Price *struct {
		LongName           string   `json:"longName"`
		ShortName          string   `json:"shortName"`
		Currency           string   `json:"currency"`
		RegularMarketOpen  rawValue `json:"regularMarketOpen"`
		RegularMarketPrice rawValue `json:"regularMarketPrice"`
		MarketCap          rawValue `json:"marketCap"`
	} `json:"price"`
	SummaryDetail *struct {
		TrailingPE       rawValue `json:"trailingPE"`
		DividendYield    rawValue `json:"dividendYield"`
		Beta             rawValue `json:"beta"`
		MarketCap        rawValue `json:"marketCap"`
		FiftyTwoWeekHigh rawValue `json:"fiftyTwoWeekHigh"`
		FiftyTwoWeekLow  rawValue `json:"fiftyTwoWeekLow"`
	} `json:"summaryDetail"`
	DefaultKeyStatistics *struct {
		PriceToBook        rawValue `json:"priceToBook"`
		TrailingEps        rawValue `json:"trailingEps"`
		BookValue          rawValue `json:"bookValue"`
		EnterpriseValue    rawValue `json:"enterpriseValue"`
		EnterpriseToEbitda rawValue `json:"enterpriseToEbitda"`
		SharesOutstanding  rawValue `json:"sharesOutstanding"`
		NetIncomeToCommon  rawValue `json:"netIncomeToCommon"`
		Beta               rawValue `json:"beta"`
	} `json:"defaultKeyStatistics"`
	FinancialData *struct {
		CurrentPrice   rawValue `json:"currentPrice"`
		ReturnOnEquity rawValue `json:"returnOnEquity"`
		ReturnOnAssets rawValue `json:"returnOnAssets"`
		GrossMargins   rawValue `json:"grossMargins"`
		EbitdaMargins  rawValue `json:"ebitdaMargins"`
		ProfitMargins  rawValue `json:"profitMargins"`
		DebtToEquity   rawValue `json:"debtToEquity"`
		CurrentRatio   rawValue `json:"currentRatio"`
		TotalRevenue   rawValue `json:"totalRevenue"`
		Ebitda         rawValue `json:"ebitda"`
		TotalDebt      rawValue `json:"totalDebt"`
		TotalCash      rawValue `json:"totalCash"`
	} `json:"financialData"`
	AssetProfile *struct {
		Sector   string `json:"sector"`
		Industry string `json:"industry"`
	} `json:"assetProfile"`
}
