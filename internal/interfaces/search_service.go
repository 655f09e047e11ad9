package interfaces

import (
	"context"

	"github.com/ternarybob/indago/internal/models"
)

// WebSearchService provides general web search for research queries.
// This interface abstracts the search provider, allowing different
// backends (Tavily, or a stub in tests) to be swapped without affecting
// the research service.
type WebSearchService interface {
	// Search executes a single query and returns ranked results.
	Search(ctx context.Context, query string) ([]models.WebResult, error)
}
