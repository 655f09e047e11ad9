package interfaces

import (
	"context"

	"github.com/ternarybob/indago/internal/models"
)

// FinancialAgent answers financial research queries for a ticker by
// driving market data tools through an LLM. Answers are tagged by shape
// (chat, news, text, error) so downstream conversion stays explicit.
type FinancialAgent interface {
	// Answer resolves one financial query, selecting and invoking the
	// appropriate data tools and synthesizing a response.
	Answer(ctx context.Context, query models.FinancialQuery) (models.FinancialResult, error)

	// CompanyName resolves a ticker to its long company name.
	// Falls back to the ticker itself when lookup fails.
	CompanyName(ctx context.Context, ticker string) (string, error)
}
