package sources

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ternarybob/indago/internal/models"
)

func TestFormatNumbersWebThenFinancial(t *testing.T) {
	web := [][]models.WebResult{
		{
			{Title: "NVIDIA Q3 earnings beat", URL: "https://example.com/a", Content: "Revenue up 94%."},
			{Title: "Analyst targets raised", URL: "https://example.com/b", Content: "Targets now $160."},
		},
	}
	fin := []models.FinancialResult{
		{Kind: models.FinancialResultChat, Text: "NVDA trades at $140."},
	}
	queries := []models.FinancialQuery{
		{Query: "get stock price for NVDA", Ticker: "NVDA"},
	}

	context, registry := Format(web, fin, queries)

	assert.Equal(t, 3, registry.Len())
	assert.Contains(t, context, "Source [1]:\nRevenue up 94%.")
	assert.Contains(t, context, "Source [2]:\nTargets now $160.")
	assert.Contains(t, context, "Source [3]:\nNVDA trades at $140.")
	assert.False(t, strings.HasSuffix(context, "\n"), "context should be trimmed")

	ref, ok := registry.Lookup(3)
	require.True(t, ok)
	assert.Equal(t, "https://finance.yahoo.com/quote/NVDA", ref.URL)
	assert.Equal(t, "Financial data for NVDA (get stock price for NVDA)", ref.Title)
}

func TestFormatSkipsIncompleteWebResults(t *testing.T) {
	web := [][]models.WebResult{
		{
			{Title: "No content", URL: "https://example.com/empty"},
			{Title: "No URL", Content: "Orphaned text."},
			{Err: "tavily: status 502"},
			{Title: "Kept", URL: "https://example.com/kept", Content: "Usable."},
		},
	}

	context, registry := Format(web, nil, nil)

	assert.Equal(t, 1, registry.Len())
	assert.Equal(t, "Source [1]:\nUsable.", context)
}

func TestFormatDeduplicatesTitlesCaseInsensitive(t *testing.T) {
	web := [][]models.WebResult{
		{
			{Title: "NVIDIA Earnings", URL: "https://a.com", Content: "First copy."},
			{Title: "  nvidia earnings  ", URL: "https://b.com", Content: "Syndicated copy."},
		},
		{
			{Title: "NVIDIA EARNINGS", URL: "https://c.com", Content: "Third copy."},
			{Title: "", URL: "https://d.com", Content: "Untitled one."},
			{Title: "", URL: "https://e.com", Content: "Untitled two."},
		},
	}

	context, registry := Format(web, nil, nil)

	// One titled source survives; untitled entries are never deduplicated.
	assert.Equal(t, 3, registry.Len())
	assert.Contains(t, context, "Source [1]:\nFirst copy.")
	assert.Contains(t, context, "Source [2]:\nUntitled one.")
	assert.Contains(t, context, "Source [3]:\nUntitled two.")
	assert.NotContains(t, context, "Syndicated copy.")
	assert.NotContains(t, context, "Third copy.")

	ref, ok := registry.Lookup(1)
	require.True(t, ok)
	assert.Equal(t, "NVIDIA Earnings", ref.Title)
}

func TestFormatSkipsFailedAndEmptyFinancialResults(t *testing.T) {
	fin := []models.FinancialResult{
		{Kind: models.FinancialResultError, Err: "quote lookup failed"},
		{Kind: models.FinancialResultChat, Text: ""},
		{Kind: models.FinancialResultChat, Text: "Balance sheet summary."},
	}
	queries := []models.FinancialQuery{
		{Query: "get stock price for AAPL", Ticker: "AAPL"},
		{Query: "get company info for AAPL", Ticker: "AAPL"},
		{Query: "get the latest balance sheet for AAPL", Ticker: "AAPL"},
	}

	context, registry := Format(nil, fin, queries)

	assert.Equal(t, 1, registry.Len())
	assert.Equal(t, "Source [1]:\nBalance sheet summary.", context)

	ref, ok := registry.Lookup(1)
	require.True(t, ok)
	assert.Equal(t, "Financial data for AAPL (get the latest balance sheet for AAPL)", ref.Title)
}

func TestFormatFinancialUsesQueryTicker(t *testing.T) {
	fin := []models.FinancialResult{
		{Kind: models.FinancialResultChat, Text: "MSFT info."},
		{Kind: models.FinancialResultChat, Text: "AAPL info."},
	}
	queries := []models.FinancialQuery{
		{Query: "get company info for MSFT", Ticker: "MSFT"},
		{Query: "get company info for AAPL", Ticker: "AAPL"},
	}

	_, registry := Format(nil, fin, queries)

	ref1, _ := registry.Lookup(1)
	ref2, _ := registry.Lookup(2)
	assert.Equal(t, "https://finance.yahoo.com/quote/MSFT", ref1.URL)
	assert.Equal(t, "https://finance.yahoo.com/quote/AAPL", ref2.URL)
}

func TestFormatNewsResults(t *testing.T) {
	fin := []models.FinancialResult{
		{Kind: models.FinancialResultNews, News: []models.NewsItem{
			{Title: "Chip demand surges", Content: "Data center orders doubled."},
			{Title: "New export rules", Content: "Restrictions expanded."},
		}},
	}
	queries := []models.FinancialQuery{
		{Query: "get recent financial news for NVDA", Ticker: "NVDA"},
	}

	context, registry := Format(nil, fin, queries)

	assert.Equal(t, 1, registry.Len())
	assert.Contains(t, context, "Title: Chip demand surges\nContent: Data center orders doubled.")
	assert.Contains(t, context, "Title: New export rules\nContent: Restrictions expanded.")
}

func TestFormatExtraResultsWithoutQueriesIgnored(t *testing.T) {
	fin := []models.FinancialResult{
		{Kind: models.FinancialResultChat, Text: "Matched."},
		{Kind: models.FinancialResultChat, Text: "Unmatched."},
	}
	queries := []models.FinancialQuery{
		{Query: "get stock price for NVDA", Ticker: "NVDA"},
	}

	context, registry := Format(nil, fin, queries)

	assert.Equal(t, 1, registry.Len())
	assert.NotContains(t, context, "Unmatched.")
}

func TestFormatDeterministic(t *testing.T) {
	web := [][]models.WebResult{
		{
			{Title: "A", URL: "https://a.com", Content: "Alpha."},
			{Title: "B", URL: "https://b.com", Content: "Beta."},
		},
	}
	fin := []models.FinancialResult{
		{Kind: models.FinancialResultChat, Text: "Gamma."},
	}
	queries := []models.FinancialQuery{
		{Query: "get key stats for NVDA", Ticker: "NVDA"},
	}

	context1, registry1 := Format(web, fin, queries)
	context2, registry2 := Format(web, fin, queries)

	assert.Equal(t, context1, context2)
	assert.Equal(t, registry1.Snapshot(), registry2.Snapshot())
}

func TestFormatEmptyInputs(t *testing.T) {
	context, registry := Format(nil, nil, nil)

	assert.Empty(t, context)
	assert.Equal(t, 0, registry.Len())
}

func TestRegistryAddAndLookup(t *testing.T) {
	r := NewRegistry()

	idx1 := r.Add(models.SourceRef{URL: "https://a.com", Title: "A"})
	idx2 := r.Add(models.SourceRef{URL: "https://b.com", Title: "B"})

	assert.Equal(t, 1, idx1)
	assert.Equal(t, 2, idx2)

	ref, ok := r.Lookup(1)
	require.True(t, ok)
	assert.Equal(t, "A", ref.Title)

	_, ok = r.Lookup(99)
	assert.False(t, ok)
}

func TestRegistryIndexesSorted(t *testing.T) {
	r := NewRegistry()
	for i := 0; i < 5; i++ {
		r.Add(models.SourceRef{URL: fmt.Sprintf("https://example.com/%d", i)})
	}

	assert.Equal(t, []int{1, 2, 3, 4, 5}, r.Indexes())
}

func TestRegistrySnapshotIsCopy(t *testing.T) {
	r := NewRegistry()
	r.Add(models.SourceRef{URL: "https://a.com", Title: "A"})

	snapshot := r.Snapshot()
	snapshot[1] = models.SourceRef{URL: "mutated", Title: "mutated"}

	ref, _ := r.Lookup(1)
	assert.Equal(t, "https://a.com", ref.URL)
}

func TestRegistryFromSnapshotContinuesNumbering(t *testing.T) {
	r := NewRegistryFromSnapshot(map[int]models.SourceRef{
		1: {URL: "https://a.com"},
		4: {URL: "https://d.com"},
	})

	assert.Equal(t, 2, r.Len())
	assert.Equal(t, 5, r.Add(models.SourceRef{URL: "https://e.com"}))
}
