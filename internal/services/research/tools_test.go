package research

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ternarybob/indago/internal/common"
	"github.com/ternarybob/indago/internal/yahoo"
)

// newToolsetForTest wires a toolset against a fake Yahoo Finance server
// that also serves the article pages the news tool scrapes.
func newToolsetForTest(t *testing.T) (*toolset, *httptest.Server) {
	t.Helper()

	var serverURL string
	mux := http.NewServeMux()

	mux.HandleFunc("/v8/finance/chart/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if strings.HasSuffix(r.URL.Path, "/DOWN") {
			_, _ = w.Write([]byte(`{"chart": {"result": null, "error": {"code": "Not Found", "description": "No data found"}}}`))
			return
		}
		_, _ = w.Write([]byte(`{"chart": {"result": [{"meta": {"symbol": "NVDA", "regularMarketPrice": 140.5}}], "error": null}}`))
	})

	mux.HandleFunc("/v10/finance/quoteSummary/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if strings.HasSuffix(r.URL.Path, "/DOWN") {
			_, _ = w.Write([]byte(`{"quoteSummary": {"result": null, "error": {"code": "Not Found", "description": "Quote not found"}}}`))
			return
		}

		modules := make(map[string]string)
		for _, m := range strings.Split(r.URL.Query().Get("modules"), ",") {
			switch m {
			case yahoo.ModulePrice:
				modules["price"] = `{"symbol": "NVDA", "longName": "NVIDIA Corporation"}`
			case yahoo.ModuleSummaryProfile:
				modules["summaryProfile"] = `{"longBusinessSummary": "NVIDIA designs GPUs and accelerated computing platforms.", "sector": "Technology"}`
			case yahoo.ModuleSummaryDetail:
				modules["summaryDetail"] = `{
					"marketCap": {"raw": 3450000000000, "fmt": "3.45T"},
					"trailingPE": {"raw": 55.2, "fmt": "55.20"},
					"forwardPE": {"raw": 42.1, "fmt": "42.10"},
					"priceToSalesTrailing12Months": {"raw": 35.4, "fmt": "35.40"}
				}`
			case yahoo.ModuleDefaultKeyStatistics:
				modules["defaultKeyStatistics"] = `{
					"enterpriseValue": {"raw": 3400000000000, "fmt": "3.4T"},
					"priceToBook": {"raw": 58.3, "fmt": "58.30"}
				}`
			case yahoo.ModuleFinancialData:
				modules["financialData"] = `{
					"profitMargins": {"raw": 0.4885, "fmt": "48.85%"},
					"revenueGrowth": {"raw": 0.94, "fmt": "94.00%"},
					"earningsGrowth": {"raw": 1.68, "fmt": "168.00%"}
				}`
			case yahoo.ModuleIncomeStatementHistory:
				modules["incomeStatementHistory"] = `{"incomeStatementHistory": [{
					"endDate": {"raw": 1706400000, "fmt": "2024-01-28"},
					"totalRevenue": {"raw": 60922000000, "fmt": "60.92B"},
					"netIncome": {"raw": 29760000000, "fmt": "29.76B"}
				}]}`
			case yahoo.ModuleBalanceSheetHistory:
				modules["balanceSheetHistory"] = `{"balanceSheetStatements": [{
					"endDate": {"raw": 1706400000, "fmt": "2024-01-28"},
					"totalAssets": {"raw": 65728000000, "fmt": "65.73B"},
					"totalStockholderEquity": {"raw": 42978000000, "fmt": "42.98B"}
				}]}`
			case yahoo.ModuleCashflowStatementHistory:
				modules["cashflowStatementHistory"] = `{"cashflowStatements": [{
					"endDate": {"raw": 1706400000, "fmt": "2024-01-28"},
					"totalCashFromOperatingActivities": {"raw": 28090000000, "fmt": "28.09B"}
				}]}`
			}
		}

		pairs := make([]string, 0, len(modules))
		for key, payload := range modules {
			pairs = append(pairs, fmt.Sprintf("%q: %s", key, payload))
		}
		fmt.Fprintf(w, `{"quoteSummary": {"result": [{%s}], "error": null}}`, strings.Join(pairs, ","))
	})

	mux.HandleFunc("/v1/finance/search", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprintf(w, `{"count": 3, "news": [
			{"uuid": "1", "title": "Chip demand surges", "publisher": "Example Wire", "link": "%s/article/1"},
			{"uuid": "2", "title": "Broken link article", "publisher": "Example Wire", "link": "%s/article/missing"},
			{"uuid": "3", "title": "Export rules tighten", "publisher": "Example Wire", "link": "%s/article/3"}
		]}`, serverURL, serverURL, serverURL)
	})

	mux.HandleFunc("/article/1", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte(`<html><body><article><p>Data center orders doubled.</p></article></body></html>`))
	})

	mux.HandleFunc("/article/3", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte(`<html><body><article><p>Restrictions expanded.</p></article></body></html>`))
	})

	server := httptest.NewServer(mux)
	serverURL = server.URL
	t.Cleanup(server.Close)

	client := yahoo.NewClient(
		yahoo.WithBaseURL(server.URL),
		yahoo.WithRequestInterval(0),
	)

	return &toolset{
		yahoo:     client,
		scraper:   NewArticleScraper("test-agent", common.GetLogger()),
		newsLimit: 5,
		logger:    common.GetLogger(),
	}, server
}

func TestStockPrice(t *testing.T) {
	tools, _ := newToolsetForTest(t)

	out := tools.stockPrice(context.Background(), "NVDA")
	assert.Equal(t, "The current stock price of NVDA is 140.5.", out)
}

func TestStockPriceUnavailable(t *testing.T) {
	tools, _ := newToolsetForTest(t)

	out := tools.stockPrice(context.Background(), "DOWN")
	assert.Equal(t, "Could not retrieve the current stock price for DOWN.", out)
}

func TestCompanyInfo(t *testing.T) {
	tools, _ := newToolsetForTest(t)

	out := tools.companyInfo(context.Background(), "NVDA")
	assert.Equal(t, "NVIDIA designs GPUs and accelerated computing platforms.", out)
}

func TestCompanyInfoUnavailable(t *testing.T) {
	tools, _ := newToolsetForTest(t)

	out := tools.companyInfo(context.Background(), "DOWN")
	assert.Equal(t, "No business summary available.", out)
}

func TestCompanyName(t *testing.T) {
	tools, _ := newToolsetForTest(t)

	assert.Equal(t, "NVIDIA Corporation", tools.companyName(context.Background(), "NVDA"))
}

func TestCompanyNameFallsBackToTicker(t *testing.T) {
	tools, _ := newToolsetForTest(t)

	assert.Equal(t, "DOWN", tools.companyName(context.Background(), "DOWN"))
}

func TestKeyStats(t *testing.T) {
	tools, _ := newToolsetForTest(t)

	out := tools.keyStats(context.Background(), "NVDA")

	expected := strings.Join([]string{
		"Key Statistics for NVDA:",
		"Market Cap: 3.45T",
		"Enterprise Value: 3.4T",
		"Trailing P/E: 55.20",
		"Forward P/E: 42.10",
		"PEG Ratio: N/A",
		"Price to Sales: 35.40",
		"Price to Book: 58.30",
		"Profit Margins: 48.85%",
		"Revenue Growth: 94.00%",
		"Earnings Growth: 168.00%",
	}, "\n")
	assert.Equal(t, expected, out)
}

func TestIncomeStatement(t *testing.T) {
	tools, _ := newToolsetForTest(t)

	out := tools.incomeStatement(context.Background(), "NVDA")

	expected := strings.Join([]string{
		"Income Statement for NVDA:",
		"Period ending 2024-01-28:",
		"  Total Revenue: 60.92B",
		"  Net Income: 29.76B",
	}, "\n")
	assert.Equal(t, expected, out)
}

func TestBalanceSheet(t *testing.T) {
	tools, _ := newToolsetForTest(t)

	out := tools.balanceSheet(context.Background(), "NVDA")

	assert.Contains(t, out, "Balance Sheet for NVDA:")
	assert.Contains(t, out, "Period ending 2024-01-28:")
	assert.Contains(t, out, "  Total Assets: 65.73B")
	assert.Contains(t, out, "  Total Stockholder Equity: 42.98B")
}

func TestCashFlow(t *testing.T) {
	tools, _ := newToolsetForTest(t)

	out := tools.cashFlow(context.Background(), "NVDA")

	assert.Contains(t, out, "Cash Flow Statement for NVDA:")
	assert.Contains(t, out, "  Total Cash From Operating Activities: 28.09B")
}

func TestStatementUnavailable(t *testing.T) {
	tools, _ := newToolsetForTest(t)

	assert.Equal(t, "Could not retrieve the income statement for DOWN.", tools.incomeStatement(context.Background(), "DOWN"))
	assert.Equal(t, "Could not retrieve the balance sheet for DOWN.", tools.balanceSheet(context.Background(), "DOWN"))
	assert.Equal(t, "Could not retrieve the cash flow statement for DOWN.", tools.cashFlow(context.Background(), "DOWN"))
}

func TestStockNewsScrapesArticles(t *testing.T) {
	tools, _ := newToolsetForTest(t)

	items := tools.stockNews(context.Background(), "NVDA")

	// The unreachable article is dropped, the scrapable ones keep their
	// extracted body text.
	require.Len(t, items, 2)
	assert.Equal(t, "Chip demand surges", items[0].Title)
	assert.Equal(t, "Example Wire", items[0].Publisher)
	assert.Equal(t, "Data center orders doubled.", items[0].Content)
	assert.Equal(t, "Export rules tighten", items[1].Title)
	assert.Equal(t, "Restrictions expanded.", items[1].Content)
}

func TestDispatch(t *testing.T) {
	tools, _ := newToolsetForTest(t)

	out, news := tools.dispatch(context.Background(), toolStockPrice, map[string]any{"ticker": "nvda"})
	assert.Equal(t, "The current stock price of NVDA is 140.5.", out)
	assert.Nil(t, news)

	out, news = tools.dispatch(context.Background(), toolStockNews, map[string]any{"ticker": "NVDA"})
	assert.Contains(t, out, "Title: Chip demand surges")
	assert.Contains(t, out, "Publisher: Example Wire")
	require.Len(t, news, 2)

	out, _ = tools.dispatch(context.Background(), "get_weather", map[string]any{"ticker": "NVDA"})
	assert.Equal(t, "Unknown tool: get_weather", out)

	out, _ = tools.dispatch(context.Background(), toolStockPrice, map[string]any{})
	assert.Equal(t, "No ticker symbol provided.", out)
}

func TestRenderNewsEmpty(t *testing.T) {
	assert.Equal(t, "No recent news articles found.", renderNews(nil))
}
