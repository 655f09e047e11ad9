// Package yahoo provides a client for the Yahoo Finance public API.
// This package centralizes all Yahoo Finance interactions for the application.
package yahoo

import (
	"fmt"
	"time"
)

// QueryOption represents an optional parameter for API queries.
type QueryOption func(*queryParams)

// queryParams holds optional query parameters.
type queryParams struct {
	Range     string // 1d, 5d, 1mo, 6mo, 1y, 5y, max
	Interval  string // 1m, 15m, 1d, 1wk, 1mo
	NewsCount int
}

// WithRange sets the time range for chart queries.
func WithRange(r string) QueryOption {
	return func(p *queryParams) {
		p.Range = r
	}
}

// WithInterval sets the candle interval for chart queries.
func WithInterval(interval string) QueryOption {
	return func(p *queryParams) {
		p.Interval = interval
	}
}

// WithNewsCount sets the maximum number of news articles.
func WithNewsCount(count int) QueryOption {
	return func(p *queryParams) {
		p.NewsCount = count
	}
}

// APIError represents an error from the Yahoo Finance API.
type APIError struct {
	StatusCode int
	Message    string
	Endpoint   string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("Yahoo Finance API error: %s (status: %d, endpoint: %s)", e.Message, e.StatusCode, e.Endpoint)
}

// RateLimitError represents a rate limit error.
type RateLimitError struct {
	RetryAfter time.Duration
}

func (e *RateLimitError) Error() string {
	return fmt.Sprintf("Yahoo Finance rate limit exceeded, retry after %v", e.RetryAfter)
}
