package yahoo

import (
	"strconv"
	"time"
)

// Module names accepted by the quoteSummary endpoint.
const (
	ModulePrice                    = "price"
	ModuleSummaryProfile           = "summaryProfile"
	ModuleSummaryDetail            = "summaryDetail"
	ModuleDefaultKeyStatistics     = "defaultKeyStatistics"
	ModuleFinancialData            = "financialData"
	ModuleIncomeStatementHistory   = "incomeStatementHistory"
	ModuleBalanceSheetHistory      = "balanceSheetHistory"
	ModuleCashflowStatementHistory = "cashflowStatementHistory"
)

// FmtValue is a numeric value as returned by Yahoo Finance, carrying the
// raw number alongside its display formatting.
type FmtValue struct {
	Raw     *float64 `json:"raw,omitempty"`
	Fmt     string   `json:"fmt,omitempty"`
	LongFmt string   `json:"longFmt,omitempty"`
}

// Float returns the raw value and whether it was present.
func (v *FmtValue) Float() (float64, bool) {
	if v == nil || v.Raw == nil {
		return 0, false
	}
	return *v.Raw, true
}

// Display returns the formatted value, or "N/A" when absent.
func (v *FmtValue) Display() string {
	if v == nil {
		return "N/A"
	}
	if v.Fmt != "" {
		return v.Fmt
	}
	if v.Raw != nil {
		return strconv.FormatFloat(*v.Raw, 'f', -1, 64)
	}
	return "N/A"
}

// Price is the quoteSummary price module.
type Price struct {
	Symbol                     string    `json:"symbol"`
	ShortName                  string    `json:"shortName"`
	LongName                   string    `json:"longName"`
	Currency                   string    `json:"currency"`
	CurrencySymbol             string    `json:"currencySymbol"`
	ExchangeName               string    `json:"exchangeName"`
	MarketState                string    `json:"marketState"`
	RegularMarketPrice         *FmtValue `json:"regularMarketPrice"`
	RegularMarketChangePercent *FmtValue `json:"regularMarketChangePercent"`
	RegularMarketDayHigh       *FmtValue `json:"regularMarketDayHigh"`
	RegularMarketDayLow        *FmtValue `json:"regularMarketDayLow"`
	RegularMarketVolume        *FmtValue `json:"regularMarketVolume"`
	MarketCap                  *FmtValue `json:"marketCap"`
}

// SummaryProfile is the quoteSummary summaryProfile module.
type SummaryProfile struct {
	LongBusinessSummary string `json:"longBusinessSummary"`
	Sector              string `json:"sector"`
	Industry            string `json:"industry"`
	Website             string `json:"website"`
	Country             string `json:"country"`
	City                string `json:"city"`
	FullTimeEmployees   int64  `json:"fullTimeEmployees"`
}

// SummaryDetail is the quoteSummary summaryDetail module.
type SummaryDetail struct {
	MarketCap                    *FmtValue `json:"marketCap"`
	TrailingPE                   *FmtValue `json:"trailingPE"`
	ForwardPE                    *FmtValue `json:"forwardPE"`
	PriceToSalesTrailing12Months *FmtValue `json:"priceToSalesTrailing12Months"`
	DividendYield                *FmtValue `json:"dividendYield"`
	FiftyTwoWeekHigh             *FmtValue `json:"fiftyTwoWeekHigh"`
	FiftyTwoWeekLow              *FmtValue `json:"fiftyTwoWeekLow"`
	Volume                       *FmtValue `json:"volume"`
}

// DefaultKeyStatistics is the quoteSummary defaultKeyStatistics module.
type DefaultKeyStatistics struct {
	EnterpriseValue   *FmtValue `json:"enterpriseValue"`
	ForwardPE         *FmtValue `json:"forwardPE"`
	PegRatio          *FmtValue `json:"pegRatio"`
	PriceToBook       *FmtValue `json:"priceToBook"`
	ProfitMargins     *FmtValue `json:"profitMargins"`
	TrailingEps       *FmtValue `json:"trailingEps"`
	ForwardEps        *FmtValue `json:"forwardEps"`
	SharesOutstanding *FmtValue `json:"sharesOutstanding"`
	BookValue         *FmtValue `json:"bookValue"`
}

// FinancialData is the quoteSummary financialData module.
type FinancialData struct {
	CurrentPrice      *FmtValue `json:"currentPrice"`
	TotalRevenue      *FmtValue `json:"totalRevenue"`
	RevenueGrowth     *FmtValue `json:"revenueGrowth"`
	EarningsGrowth    *FmtValue `json:"earningsGrowth"`
	ProfitMargins     *FmtValue `json:"profitMargins"`
	GrossMargins      *FmtValue `json:"grossMargins"`
	OperatingMargins  *FmtValue `json:"operatingMargins"`
	FreeCashflow      *FmtValue `json:"freeCashflow"`
	TotalCash         *FmtValue `json:"totalCash"`
	TotalDebt         *FmtValue `json:"totalDebt"`
	TargetMeanPrice   *FmtValue `json:"targetMeanPrice"`
	RecommendationKey string    `json:"recommendationKey"`
}

// IncomeStatement is one reporting period of income statement data.
type IncomeStatement struct {
	EndDate                      *FmtValue `json:"endDate"`
	TotalRevenue                 *FmtValue `json:"totalRevenue"`
	CostOfRevenue                *FmtValue `json:"costOfRevenue"`
	GrossProfit                  *FmtValue `json:"grossProfit"`
	ResearchDevelopment          *FmtValue `json:"researchDevelopment"`
	SellingGeneralAdministrative *FmtValue `json:"sellingGeneralAdministrative"`
	OperatingIncome              *FmtValue `json:"operatingIncome"`
	EBIT                         *FmtValue `json:"ebit"`
	InterestExpense              *FmtValue `json:"interestExpense"`
	IncomeBeforeTax              *FmtValue `json:"incomeBeforeTax"`
	IncomeTaxExpense             *FmtValue `json:"incomeTaxExpense"`
	NetIncome                    *FmtValue `json:"netIncome"`
}

// IncomeStatementHistory is the quoteSummary incomeStatementHistory module.
type IncomeStatementHistory struct {
	Statements []IncomeStatement `json:"incomeStatementHistory"`
}

// BalanceSheetStatement is one reporting period of balance sheet data.
type BalanceSheetStatement struct {
	EndDate                 *FmtValue `json:"endDate"`
	Cash                    *FmtValue `json:"cash"`
	ShortTermInvestments    *FmtValue `json:"shortTermInvestments"`
	NetReceivables          *FmtValue `json:"netReceivables"`
	Inventory               *FmtValue `json:"inventory"`
	TotalCurrentAssets      *FmtValue `json:"totalCurrentAssets"`
	TotalAssets             *FmtValue `json:"totalAssets"`
	TotalCurrentLiabilities *FmtValue `json:"totalCurrentLiabilities"`
	ShortLongTermDebt       *FmtValue `json:"shortLongTermDebt"`
	LongTermDebt            *FmtValue `json:"longTermDebt"`
	TotalLiab               *FmtValue `json:"totalLiab"`
	TotalStockholderEquity  *FmtValue `json:"totalStockholderEquity"`
}

// BalanceSheetHistory is the quoteSummary balanceSheetHistory module.
type BalanceSheetHistory struct {
	Statements []BalanceSheetStatement `json:"balanceSheetStatements"`
}

// CashflowStatement is one reporting period of cash flow data.
type CashflowStatement struct {
	EndDate                               *FmtValue `json:"endDate"`
	NetIncome                             *FmtValue `json:"netIncome"`
	Depreciation                          *FmtValue `json:"depreciation"`
	TotalCashFromOperatingActivities      *FmtValue `json:"totalCashFromOperatingActivities"`
	CapitalExpenditures                   *FmtValue `json:"capitalExpenditures"`
	TotalCashflowsFromInvestingActivities *FmtValue `json:"totalCashflowsFromInvestingActivities"`
	DividendsPaid                         *FmtValue `json:"dividendsPaid"`
	RepurchaseOfStock                     *FmtValue `json:"repurchaseOfStock"`
	TotalCashFromFinancingActivities      *FmtValue `json:"totalCashFromFinancingActivities"`
	ChangeInCash                          *FmtValue `json:"changeInCash"`
}

// CashflowStatementHistory is the quoteSummary cashflowStatementHistory module.
type CashflowStatementHistory struct {
	Statements []CashflowStatement `json:"cashflowStatements"`
}

// QuoteSummaryResult bundles the requested quoteSummary modules for a symbol.
type QuoteSummaryResult struct {
	Price                    *Price                    `json:"price"`
	SummaryProfile           *SummaryProfile           `json:"summaryProfile"`
	SummaryDetail            *SummaryDetail            `json:"summaryDetail"`
	DefaultKeyStatistics     *DefaultKeyStatistics     `json:"defaultKeyStatistics"`
	FinancialData            *FinancialData            `json:"financialData"`
	IncomeStatementHistory   *IncomeStatementHistory   `json:"incomeStatementHistory"`
	BalanceSheetHistory      *BalanceSheetHistory      `json:"balanceSheetHistory"`
	CashflowStatementHistory *CashflowStatementHistory `json:"cashflowStatementHistory"`
}

// ChartMeta is the metadata block of a chart response.
type ChartMeta struct {
	Currency             string  `json:"currency"`
	Symbol               string  `json:"symbol"`
	ExchangeName         string  `json:"exchangeName"`
	FullExchangeName     string  `json:"fullExchangeName"`
	InstrumentType       string  `json:"instrumentType"`
	LongName             string  `json:"longName"`
	ShortName            string  `json:"shortName"`
	RegularMarketPrice   float64 `json:"regularMarketPrice"`
	ChartPreviousClose   float64 `json:"chartPreviousClose"`
	RegularMarketDayHigh float64 `json:"regularMarketDayHigh"`
	RegularMarketDayLow  float64 `json:"regularMarketDayLow"`
	RegularMarketVolume  int64   `json:"regularMarketVolume"`
}

// ChartQuote holds the OHLCV series of a chart response. Entries may be
// null for halted or partial candles.
type ChartQuote struct {
	Open   []*float64 `json:"open"`
	High   []*float64 `json:"high"`
	Low    []*float64 `json:"low"`
	Close  []*float64 `json:"close"`
	Volume []*int64   `json:"volume"`
}

// ChartResult is one symbol's data from the chart endpoint.
type ChartResult struct {
	Meta       ChartMeta `json:"meta"`
	Timestamp  []int64   `json:"timestamp"`
	Indicators struct {
		Quote []ChartQuote `json:"quote"`
	} `json:"indicators"`
}

// NewsArticle is a news item from the search endpoint.
type NewsArticle struct {
	UUID                string   `json:"uuid"`
	Title               string   `json:"title"`
	Publisher           string   `json:"publisher"`
	Link                string   `json:"link"`
	ProviderPublishTime int64    `json:"providerPublishTime"`
	Type                string   `json:"type"`
	Summary             string   `json:"summary,omitempty"`
	RelatedTickers      []string `json:"relatedTickers,omitempty"`
}

// PublishedAt returns the publish time of the article.
func (a *NewsArticle) PublishedAt() time.Time {
	if a.ProviderPublishTime == 0 {
		return time.Time{}
	}
	return time.Unix(a.ProviderPublishTime, 0).UTC()
}

// responseError is the error block carried inside Yahoo response envelopes.
type responseError struct {
	Code        string `json:"code"`
	Description string `json:"description"`
}

type chartResponse struct {
	Chart struct {
		Result []ChartResult  `json:"result"`
		Error  *responseError `json:"error"`
	} `json:"chart"`
}

type quoteSummaryResponse struct {
	QuoteSummary struct {
		Result []QuoteSummaryResult `json:"result"`
		Error  *responseError       `json:"error"`
	} `json:"quoteSummary"`
}

type searchResponse struct {
	Count int           `json:"count"`
	News  []NewsArticle `json:"news"`
}
