package models

import "time"

// CachedResearch is the persisted research bundle for one ticker. It
// captures everything produced before section generation so a cache hit
// can skip planning and retrieval entirely.
type CachedResearch struct {
	CompanyName string `json:"company_name"`

	// Structure is the planned outline in report order.
	Structure []string `json:"structure"`

	// Context is the formatted, citation-indexed research context.
	Context string `json:"context"`

	// WebResults holds per-query result groups, positionally aligned
	// with WebQueries.
	WebResults [][]WebResult `json:"web_results"`

	// FinancialResults is positionally aligned with FinancialQueries.
	FinancialResults []FinancialResult `json:"financial_results"`

	WebQueries       []string         `json:"web_queries"`
	FinancialQueries []FinancialQuery `json:"financial_queries"`

	// Sources is the registry snapshot keyed by citation index.
	Sources map[int]SourceRef `json:"sources,omitempty"`

	CachedAt time.Time `json:"cached_at,omitempty"`
}

// CacheStats summarizes the report cache contents.
type CacheStats struct {
	Entries int      `json:"entries"`
	Tickers []string `json:"tickers"`
}
