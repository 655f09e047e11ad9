package sources

import (
	"fmt"
	"strings"

	"github.com/ternarybob/indago/internal/models"
)

// Format builds the research context string from retrieval results and
// returns it with the registry mapping every citation index to its source.
//
// Web results are numbered first, in batch order, skipping entries without
// both a URL and content and entries whose title was already seen
// (case-insensitive). Financial results follow in query order, skipping
// failures and empty answers. Formatting the same inputs twice yields the
// same context and the same index assignment, which is what lets cached
// raw results be reformatted on a cache hit without invalidating the
// citation numbers already embedded in generated text.
func Format(webBatches [][]models.WebResult, finResults []models.FinancialResult, finQueries []models.FinancialQuery) (string, *Registry) {
	var b strings.Builder
	registry := NewRegistry()
	seenTitles := make(map[string]struct{})

	for _, batch := range webBatches {
		for _, res := range batch {
			if res.URL == "" || res.Content == "" {
				continue
			}
			title := strings.TrimSpace(res.Title)
			titleKey := strings.ToLower(title)
			if titleKey != "" {
				if _, seen := seenTitles[titleKey]; seen {
					continue
				}
				seenTitles[titleKey] = struct{}{}
			}

			idx := registry.Add(models.SourceRef{URL: res.URL, Title: title})
			fmt.Fprintf(&b, "Source [%d]:\n%s\n\n", idx, res.Content)
		}
	}

	for i, res := range finResults {
		if i >= len(finQueries) {
			break
		}
		if res.Failed() {
			continue
		}
		content := res.Content()
		if content == "" {
			continue
		}

		query := finQueries[i]
		idx := registry.Add(models.SourceRef{
			URL:   fmt.Sprintf("https://finance.yahoo.com/quote/%s", query.Ticker),
			Title: fmt.Sprintf("Financial data for %s (%s)", query.Ticker, query.Query),
		})
		fmt.Fprintf(&b, "Source [%d]:\n%s\n\n", idx, content)
	}

	return strings.TrimSpace(b.String()), registry
}
