package models

import (
	"fmt"
	"strings"
)

// WebResult is one hit from the web search provider. A failed query is
// represented as a WebResult with Err set and the other fields empty;
// carrying the failure in-band keeps retrieval output positionally
// aligned with the planned query list.
type WebResult struct {
	Title   string `json:"title"`
	URL     string `json:"url"`
	Content string `json:"content"`
	Err     string `json:"error,omitempty"`
}

// Failed reports whether this entry records a query failure rather
// than a usable search hit.
func (r WebResult) Failed() bool {
	return r.Err != ""
}

// FinancialResultKind tags the shape of a financial agent answer.
type FinancialResultKind string

const (
	// FinancialResultChat is a synthesized natural-language answer.
	FinancialResultChat FinancialResultKind = "chat"

	// FinancialResultNews is a list of news articles.
	FinancialResultNews FinancialResultKind = "news"

	// FinancialResultText is raw textual tool output passed through
	// without synthesis.
	FinancialResultText FinancialResultKind = "text"

	// FinancialResultError records a failed query.
	FinancialResultError FinancialResultKind = "error"
)

// NewsItem is a single article in a news-shaped financial result.
type NewsItem struct {
	Title     string `json:"title"`
	URL       string `json:"url,omitempty"`
	Publisher string `json:"publisher,omitempty"`
	Content   string `json:"content,omitempty"`
}

// FinancialResult is one financial agent answer. Exactly one of Text or
// News carries the payload depending on Kind; Err is set only for
// FinancialResultError entries.
type FinancialResult struct {
	Kind FinancialResultKind `json:"kind"`
	Text string              `json:"text,omitempty"`
	News []NewsItem          `json:"news,omitempty"`
	Err  string              `json:"error,omitempty"`
}

// Failed reports whether this entry records a query failure.
func (r FinancialResult) Failed() bool {
	return r.Kind == FinancialResultError
}

// Content renders the result as context text. News results are
// flattened into title/content line pairs, error results yield an
// empty string so downstream formatting skips them.
func (r FinancialResult) Content() string {
	switch r.Kind {
	case FinancialResultNews:
		lines := make([]string, 0, len(r.News))
		for _, item := range r.News {
			lines = append(lines, fmt.Sprintf("Title: %s\nContent: %s", item.Title, item.Content))
		}
		return strings.Join(lines, "\n")
	case FinancialResultError:
		return ""
	default:
		return r.Text
	}
}
