package research

import (
	"context"
	"fmt"
	"strings"

	"github.com/ternarybob/arbor"
	"google.golang.org/genai"

	"github.com/ternarybob/indago/internal/models"
	"github.com/ternarybob/indago/internal/yahoo"
)

// Tool names exposed to the financial agent. The planner advertises the
// same names in its query prompt so planned queries line up with what the
// agent can call.
const (
	toolStockPrice      = "get_stock_price"
	toolCompanyInfo     = "get_company_info"
	toolIncomeStatement = "get_income_statement"
	toolBalanceSheet    = "get_balance_sheet"
	toolCashFlow        = "get_cash_flow"
	toolKeyStats        = "get_key_stats"
	toolStockNews       = "get_stock_news"
	toolCompanyName     = "get_company_name"
)

// toolset executes financial data tools against Yahoo Finance and
// renders their output as text for the agent loop.
type toolset struct {
	yahoo     *yahoo.Client
	scraper   *ArticleScraper
	newsLimit int
	logger    arbor.ILogger
}

// declarations returns the function schemas offered to the model. Every
// tool takes a ticker symbol.
func (t *toolset) declarations() []*genai.FunctionDeclaration {
	tickerParam := func(desc string) *genai.Schema {
		return &genai.Schema{
			Type: genai.TypeObject,
			Properties: map[string]*genai.Schema{
				"ticker": {Type: genai.TypeString, Description: "Stock ticker symbol, e.g. NVDA"},
			},
			Required:    []string{"ticker"},
			Description: desc,
		}
	}

	return []*genai.FunctionDeclaration{
		{Name: toolStockPrice, Description: "Gets the latest stock price.", Parameters: tickerParam("Latest stock price lookup")},
		{Name: toolCompanyInfo, Description: "Gets the business summary.", Parameters: tickerParam("Business summary lookup")},
		{Name: toolIncomeStatement, Description: "Gets the latest income statement.", Parameters: tickerParam("Income statement lookup")},
		{Name: toolBalanceSheet, Description: "Gets the latest balance sheet.", Parameters: tickerParam("Balance sheet lookup")},
		{Name: toolCashFlow, Description: "Gets the latest cash flow statement.", Parameters: tickerParam("Cash flow statement lookup")},
		{Name: toolKeyStats, Description: "Gets key valuation and performance statistics.", Parameters: tickerParam("Key statistics lookup")},
		{Name: toolStockNews, Description: "Gets recent news from financial sources.", Parameters: tickerParam("Recent stock news lookup")},
		{Name: toolCompanyName, Description: "Gets the company's long name.", Parameters: tickerParam("Company name lookup")},
	}
}

// dispatch runs one tool call and returns its textual output. News items
// fetched by get_stock_news are returned alongside the text so the agent
// can pass article structure through when no synthesis happens.
func (t *toolset) dispatch(ctx context.Context, name string, args map[string]any) (string, []models.NewsItem) {
	ticker, _ := args["ticker"].(string)
	ticker = strings.ToUpper(strings.TrimSpace(ticker))
	if ticker == "" {
		return "No ticker symbol provided.", nil
	}

	switch name {
	case toolStockPrice:
		return t.stockPrice(ctx, ticker), nil
	case toolCompanyInfo:
		return t.companyInfo(ctx, ticker), nil
	case toolIncomeStatement:
		return t.incomeStatement(ctx, ticker), nil
	case toolBalanceSheet:
		return t.balanceSheet(ctx, ticker), nil
	case toolCashFlow:
		return t.cashFlow(ctx, ticker), nil
	case toolKeyStats:
		return t.keyStats(ctx, ticker), nil
	case toolStockNews:
		items := t.stockNews(ctx, ticker)
		return renderNews(items), items
	case toolCompanyName:
		return t.companyName(ctx, ticker), nil
	default:
		return fmt.Sprintf("Unknown tool: %s", name), nil
	}
}

func (t *toolset) stockPrice(ctx context.Context, ticker string) string {
	chart, err := t.yahoo.GetChart(ctx, ticker)
	if err != nil || chart.Meta.RegularMarketPrice == 0 {
		return fmt.Sprintf("Could not retrieve the current stock price for %s.", ticker)
	}
	return fmt.Sprintf("The current stock price of %s is %g.", ticker, chart.Meta.RegularMarketPrice)
}

func (t *toolset) companyInfo(ctx context.Context, ticker string) string {
	summary, err := t.yahoo.GetQuoteSummary(ctx, ticker, yahoo.ModuleSummaryProfile)
	if err != nil || summary.SummaryProfile == nil || summary.SummaryProfile.LongBusinessSummary == "" {
		return "No business summary available."
	}
	return summary.SummaryProfile.LongBusinessSummary
}

func (t *toolset) companyName(ctx context.Context, ticker string) string {
	summary, err := t.yahoo.GetQuoteSummary(ctx, ticker, yahoo.ModulePrice)
	if err != nil || summary.Price == nil || summary.Price.LongName == "" {
		t.logger.Warn().Str("ticker", ticker).Msg("Company name lookup failed, using ticker")
		return ticker
	}
	return summary.Price.LongName
}

func (t *toolset) incomeStatement(ctx context.Context, ticker string) string {
	summary, err := t.yahoo.GetQuoteSummary(ctx, ticker, yahoo.ModuleIncomeStatementHistory)
	if err != nil || summary.IncomeStatementHistory == nil || len(summary.IncomeStatementHistory.Statements) == 0 {
		return fmt.Sprintf("Could not retrieve the income statement for %s.", ticker)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Income Statement for %s:\n", ticker)
	for _, stmt := range summary.IncomeStatementHistory.Statements {
		fmt.Fprintf(&b, "Period ending %s:\n", stmt.EndDate.Display())
		writeRow(&b, "Total Revenue", stmt.TotalRevenue)
		writeRow(&b, "Cost of Revenue", stmt.CostOfRevenue)
		writeRow(&b, "Gross Profit", stmt.GrossProfit)
		writeRow(&b, "Research Development", stmt.ResearchDevelopment)
		writeRow(&b, "Selling General Administrative", stmt.SellingGeneralAdministrative)
		writeRow(&b, "Operating Income", stmt.OperatingIncome)
		writeRow(&b, "EBIT", stmt.EBIT)
		writeRow(&b, "Interest Expense", stmt.InterestExpense)
		writeRow(&b, "Income Before Tax", stmt.IncomeBeforeTax)
		writeRow(&b, "Income Tax Expense", stmt.IncomeTaxExpense)
		writeRow(&b, "Net Income", stmt.NetIncome)
	}
	return strings.TrimRight(b.String(), "\n")
}

func (t *toolset) balanceSheet(ctx context.Context, ticker string) string {
	summary, err := t.yahoo.GetQuoteSummary(ctx, ticker, yahoo.ModuleBalanceSheetHistory)
	if err != nil || summary.BalanceSheetHistory == nil || len(summary.BalanceSheetHistory.Statements) == 0 {
		return fmt.Sprintf("Could not retrieve the balance sheet for %s.", ticker)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Balance Sheet for %s:\n", ticker)
	for _, stmt := range summary.BalanceSheetHistory.Statements {
		fmt.Fprintf(&b, "Period ending %s:\n", stmt.EndDate.Display())
		writeRow(&b, "Cash", stmt.Cash)
		writeRow(&b, "Short Term Investments", stmt.ShortTermInvestments)
		writeRow(&b, "Net Receivables", stmt.NetReceivables)
		writeRow(&b, "Inventory", stmt.Inventory)
		writeRow(&b, "Total Current Assets", stmt.TotalCurrentAssets)
		writeRow(&b, "Total Assets", stmt.TotalAssets)
		writeRow(&b, "Total Current Liabilities", stmt.TotalCurrentLiabilities)
		writeRow(&b, "Short Long Term Debt", stmt.ShortLongTermDebt)
		writeRow(&b, "Long Term Debt", stmt.LongTermDebt)
		writeRow(&b, "Total Liabilities", stmt.TotalLiab)
		writeRow(&b, "Total Stockholder Equity", stmt.TotalStockholderEquity)
	}
	return strings.TrimRight(b.String(), "\n")
}

func (t *toolset) cashFlow(ctx context.Context, ticker string) string {
	summary, err := t.yahoo.GetQuoteSummary(ctx, ticker, yahoo.ModuleCashflowStatementHistory)
	if err != nil || summary.CashflowStatementHistory == nil || len(summary.CashflowStatementHistory.Statements) == 0 {
		return fmt.Sprintf("Could not retrieve the cash flow statement for %s.", ticker)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Cash Flow Statement for %s:\n", ticker)
	for _, stmt := range summary.CashflowStatementHistory.Statements {
		fmt.Fprintf(&b, "Period ending %s:\n", stmt.EndDate.Display())
		writeRow(&b, "Net Income", stmt.NetIncome)
		writeRow(&b, "Depreciation", stmt.Depreciation)
		writeRow(&b, "Total Cash From Operating Activities", stmt.TotalCashFromOperatingActivities)
		writeRow(&b, "Capital Expenditures", stmt.CapitalExpenditures)
		writeRow(&b, "Total Cashflows From Investing Activities", stmt.TotalCashflowsFromInvestingActivities)
		writeRow(&b, "Dividends Paid", stmt.DividendsPaid)
		writeRow(&b, "Repurchase Of Stock", stmt.RepurchaseOfStock)
		writeRow(&b, "Total Cash From Financing Activities", stmt.TotalCashFromFinancingActivities)
		writeRow(&b, "Change In Cash", stmt.ChangeInCash)
	}
	return strings.TrimRight(b.String(), "\n")
}

func (t *toolset) keyStats(ctx context.Context, ticker string) string {
	summary, err := t.yahoo.GetQuoteSummary(ctx, ticker,
		yahoo.ModuleSummaryDetail, yahoo.ModuleDefaultKeyStatistics, yahoo.ModuleFinancialData)
	if err != nil {
		return fmt.Sprintf("Could not retrieve key statistics for %s.", ticker)
	}

	detail := summary.SummaryDetail
	if detail == nil {
		detail = &yahoo.SummaryDetail{}
	}
	stats := summary.DefaultKeyStatistics
	if stats == nil {
		stats = &yahoo.DefaultKeyStatistics{}
	}
	fin := summary.FinancialData
	if fin == nil {
		fin = &yahoo.FinancialData{}
	}

	lines := []string{
		"Market Cap: " + detail.MarketCap.Display(),
		"Enterprise Value: " + stats.EnterpriseValue.Display(),
		"Trailing P/E: " + detail.TrailingPE.Display(),
		"Forward P/E: " + detail.ForwardPE.Display(),
		"PEG Ratio: " + stats.PegRatio.Display(),
		"Price to Sales: " + detail.PriceToSalesTrailing12Months.Display(),
		"Price to Book: " + stats.PriceToBook.Display(),
		"Profit Margins: " + fin.ProfitMargins.Display(),
		"Revenue Growth: " + fin.RevenueGrowth.Display(),
		"Earnings Growth: " + fin.EarningsGrowth.Display(),
	}
	return fmt.Sprintf("Key Statistics for %s:\n%s", ticker, strings.Join(lines, "\n"))
}

// stockNews fetches recent articles and scrapes their readable text.
// Articles that cannot be fetched or yield no text are dropped.
func (t *toolset) stockNews(ctx context.Context, ticker string) []models.NewsItem {
	limit := t.newsLimit
	if limit <= 0 {
		limit = yahoo.DefaultNewsCount
	}

	articles, err := t.yahoo.SearchNews(ctx, ticker, yahoo.WithNewsCount(limit))
	if err != nil {
		t.logger.Warn().Err(err).Str("ticker", ticker).Msg("News lookup failed")
		return nil
	}

	items := make([]models.NewsItem, 0, len(articles))
	for _, article := range articles {
		if len(items) >= limit {
			break
		}
		if article.Link == "" {
			continue
		}

		content, err := t.scraper.Extract(ctx, article.Link)
		if err != nil {
			t.logger.Debug().
				Err(err).
				Str("ticker", ticker).
				Str("url", article.Link).
				Msg("Skipping article that could not be scraped")
			continue
		}

		items = append(items, models.NewsItem{
			Title:     article.Title,
			URL:       article.Link,
			Publisher: article.Publisher,
			Content:   content,
		})
	}
	return items
}

// renderNews flattens news items into the text shape the model sees as
// tool output.
func renderNews(items []models.NewsItem) string {
	if len(items) == 0 {
		return "No recent news articles found."
	}
	lines := make([]string, 0, len(items))
	for _, item := range items {
		lines = append(lines, fmt.Sprintf("Title: %s\nPublisher: %s\nContent: %s", item.Title, item.Publisher, item.Content))
	}
	return strings.Join(lines, "\n\n")
}

func writeRow(b *strings.Builder, label string, v *yahoo.FmtValue) {
	if v == nil {
		return
	}
	fmt.Fprintf(b, "  %s: %s\n", label, v.Display())
}
