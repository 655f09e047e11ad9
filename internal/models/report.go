package models

import (
	"time"
)

// FinancialQuery is a single planned financial research query.
// The ticker travels with the query so the financial agent can resolve
// symbol-specific tool calls without re-deriving it from context.
type FinancialQuery struct {
	Query  string `json:"query"`
	Ticker string `json:"ticker"`
}

// Section is one generated report section. Content may contain citation
// markers like [3] and fenced chart specifications; both are opaque here
// and interpreted only by the assembler and the renderer respectively.
type Section struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

// GenerationPolicy selects how section content is produced.
type GenerationPolicy string

const (
	// PolicyContentAware generates sections strictly sequentially, feeding
	// each call the previously generated sections so the model can vary
	// chart types and maintain narrative continuity.
	PolicyContentAware GenerationPolicy = "content-aware"

	// PolicyIndependent generates sections in concurrent batches with no
	// cross-section state.
	PolicyIndependent GenerationPolicy = "independent"
)

// ParsePolicy maps a config/CLI string onto a GenerationPolicy,
// defaulting to content-aware for unrecognized values.
func ParsePolicy(s string) GenerationPolicy {
	if GenerationPolicy(s) == PolicyIndependent {
		return PolicyIndependent
	}
	return PolicyContentAware
}

// Report is the assembled output of one pipeline run.
type Report struct {
	Ticker      string `json:"ticker"`
	CompanyName string `json:"company_name"`

	// Outline is the planned section-title list in report order.
	Outline []string `json:"outline"`

	// Sections holds the generated bodies in outline order.
	Sections []Section `json:"sections"`

	Opening          string `json:"opening"`
	ExecutiveSummary string `json:"executive_summary"`

	// Markdown is the final assembled document text:
	// opening, executive summary, table of contents, body, references.
	Markdown string `json:"markdown"`

	// CitedSources maps citation index to the source it resolves against.
	// Indices cited in the body but absent here render as placeholders.
	CitedSources map[int]SourceRef `json:"cited_sources,omitempty"`

	Policy      GenerationPolicy `json:"policy"`
	FromCache   bool             `json:"from_cache"`
	GeneratedAt time.Time        `json:"generated_at"`
}

// SourceRef is one registered citation target.
type SourceRef struct {
	URL   string `json:"url"`
	Title string `json:"title"`
}
