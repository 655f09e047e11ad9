// Package tavily provides a client for the Tavily web search API.
// This package centralizes all Tavily API interactions for the application.
package tavily

import (
	"fmt"
	"time"
)

// QueryOption represents an optional parameter for search queries.
type QueryOption func(*queryParams)

// queryParams holds optional query parameters.
type queryParams struct {
	SearchDepth   string // basic, advanced
	MaxResults    int
	Topic         string // general, news, finance
	IncludeAnswer bool
}

// WithSearchDepth sets the search depth (basic or advanced).
func WithSearchDepth(depth string) QueryOption {
	return func(p *queryParams) {
		p.SearchDepth = depth
	}
}

// WithMaxResults sets the maximum number of results.
func WithMaxResults(max int) QueryOption {
	return func(p *queryParams) {
		p.MaxResults = max
	}
}

// WithTopic sets the search topic category.
func WithTopic(topic string) QueryOption {
	return func(p *queryParams) {
		p.Topic = topic
	}
}

// WithIncludeAnswer requests a synthesized answer alongside the results.
func WithIncludeAnswer(include bool) QueryOption {
	return func(p *queryParams) {
		p.IncludeAnswer = include
	}
}

// APIError represents an error from the Tavily API.
type APIError struct {
	StatusCode int
	Message    string
	Endpoint   string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("Tavily API error: %s (status: %d, endpoint: %s)", e.Message, e.StatusCode, e.Endpoint)
}

// RateLimitError represents a rate limit error.
type RateLimitError struct {
	RetryAfter time.Duration
}

func (e *RateLimitError) Error() string {
	return fmt.Sprintf("Tavily rate limit exceeded, retry after %v", e.RetryAfter)
}
