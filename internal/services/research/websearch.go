package research

import (
	"context"

	"github.com/ternarybob/arbor"

	"github.com/ternarybob/indago/internal/interfaces"
	"github.com/ternarybob/indago/internal/models"
	"github.com/ternarybob/indago/internal/tavily"
)

// TavilySearch adapts the Tavily client to the WebSearchService
// interface, flattening API responses into plain result records.
type TavilySearch struct {
	client     *tavily.Client
	maxResults int
	depth      string
	logger     arbor.ILogger
}

var _ interfaces.WebSearchService = (*TavilySearch)(nil)

// NewTavilySearch wraps a Tavily client. maxResults caps hits per query
// and depth selects basic or advanced search; zero values use the
// client defaults.
func NewTavilySearch(client *tavily.Client, maxResults int, depth string, logger arbor.ILogger) *TavilySearch {
	return &TavilySearch{
		client:     client,
		maxResults: maxResults,
		depth:      depth,
		logger:     logger,
	}
}

// Search executes one web query and maps the hits to WebResult records.
func (s *TavilySearch) Search(ctx context.Context, query string) ([]models.WebResult, error) {
	opts := []tavily.QueryOption{}
	if s.maxResults > 0 {
		opts = append(opts, tavily.WithMaxResults(s.maxResults))
	}
	if s.depth != "" {
		opts = append(opts, tavily.WithSearchDepth(s.depth))
	}

	resp, err := s.client.Search(ctx, query, opts...)
	if err != nil {
		return nil, err
	}

	results := make([]models.WebResult, 0, len(resp.Results))
	for _, hit := range resp.Results {
		results = append(results, models.WebResult{
			Title:   hit.Title,
			URL:     hit.URL,
			Content: hit.Content,
		})
	}

	s.logger.Debug().
		Str("query", query).
		Int("results", len(results)).
		Msg("Web search complete")

	return results, nil
}
