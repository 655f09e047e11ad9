package yahoo

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/ternarybob/arbor"
	"golang.org/x/time/rate"
)

const (
	// DefaultBaseURL is the base URL for the Yahoo Finance API.
	DefaultBaseURL = "https://query1.finance.yahoo.com"

	// DefaultTimeout is the default HTTP timeout.
	DefaultTimeout = 30 * time.Second

	// DefaultUserAgent is sent with every request. Yahoo rejects the Go
	// default user agent.
	DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

	// DefaultNewsCount is the default maximum number of news articles.
	DefaultNewsCount = 5
)

// Client is a Yahoo Finance API client. The public endpoints require no
// API key.
type Client struct {
	baseURL    string
	userAgent  string
	httpClient *http.Client
	logger     arbor.ILogger
	limiter    *rate.Limiter
}

// ClientOption configures the Client.
type ClientOption func(*Client)

// WithBaseURL sets a custom base URL.
func WithBaseURL(baseURL string) ClientOption {
	return func(c *Client) {
		c.baseURL = baseURL
	}
}

// WithUserAgent sets a custom user agent.
func WithUserAgent(userAgent string) ClientOption {
	return func(c *Client) {
		c.userAgent = userAgent
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(httpClient *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// WithLogger sets a logger.
func WithLogger(logger arbor.ILogger) ClientOption {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithRequestInterval sets the minimum interval between requests.
func WithRequestInterval(interval time.Duration) ClientOption {
	return func(c *Client) {
		c.limiter = rate.NewLimiter(rate.Every(interval), 1)
	}
}

// NewClient creates a new Yahoo Finance API client.
func NewClient(opts ...ClientOption) *Client {
	c := &Client{
		baseURL:   DefaultBaseURL,
		userAgent: DefaultUserAgent,
		httpClient: &http.Client{
			Timeout: DefaultTimeout,
		},
		limiter: rate.NewLimiter(rate.Every(500*time.Millisecond), 1),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// get performs a GET request to the API.
func (c *Client) get(ctx context.Context, path string, params url.Values, result interface{}) error {
	// Wait for rate limiter
	if err := c.limiter.Wait(ctx); err != nil {
		return &RateLimitError{RetryAfter: time.Second}
	}

	reqURL := c.baseURL + path
	if len(params) > 0 {
		reqURL += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")

	if c.logger != nil {
		c.logger.Debug().
			Str("url", c.baseURL+path).
			Msg("Yahoo Finance API request")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests {
		retryAfter := time.Second
		if v := resp.Header.Get("Retry-After"); v != "" {
			if secs, err := strconv.Atoi(v); err == nil && secs > 0 {
				retryAfter = time.Duration(secs) * time.Second
			}
		}
		return &RateLimitError{RetryAfter: retryAfter}
	}
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return &APIError{
			StatusCode: resp.StatusCode,
			Message:    string(body),
			Endpoint:   path,
		}
	}

	if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}

	return nil
}

// GetChart retrieves price chart data for a symbol.
func (c *Client) GetChart(ctx context.Context, symbol string, opts ...QueryOption) (*ChartResult, error) {
	params := &queryParams{
		Range:    "1d",
		Interval: "1d",
	}
	for _, opt := range opts {
		opt(params)
	}

	queryParams := url.Values{}
	queryParams.Set("range", params.Range)
	queryParams.Set("interval", params.Interval)

	path := "/v8/finance/chart/" + url.PathEscape(symbol)

	var result chartResponse
	if err := c.get(ctx, path, queryParams, &result); err != nil {
		return nil, err
	}

	if result.Chart.Error != nil {
		return nil, &APIError{
			StatusCode: http.StatusOK,
			Message:    result.Chart.Error.Description,
			Endpoint:   path,
		}
	}
	if len(result.Chart.Result) == 0 {
		return nil, &APIError{
			StatusCode: http.StatusOK,
			Message:    fmt.Sprintf("no chart data for %s", symbol),
			Endpoint:   path,
		}
	}

	return &result.Chart.Result[0], nil
}

// GetQuoteSummary retrieves the requested quoteSummary modules for a symbol.
// When no modules are given, the price module is requested.
func (c *Client) GetQuoteSummary(ctx context.Context, symbol string, modules ...string) (*QuoteSummaryResult, error) {
	if len(modules) == 0 {
		modules = []string{ModulePrice}
	}

	queryParams := url.Values{}
	queryParams.Set("modules", strings.Join(modules, ","))

	path := "/v10/finance/quoteSummary/" + url.PathEscape(symbol)

	var result quoteSummaryResponse
	if err := c.get(ctx, path, queryParams, &result); err != nil {
		return nil, err
	}

	if result.QuoteSummary.Error != nil {
		return nil, &APIError{
			StatusCode: http.StatusOK,
			Message:    result.QuoteSummary.Error.Description,
			Endpoint:   path,
		}
	}
	if len(result.QuoteSummary.Result) == 0 {
		return nil, &APIError{
			StatusCode: http.StatusOK,
			Message:    fmt.Sprintf("no quote summary for %s", symbol),
			Endpoint:   path,
		}
	}

	return &result.QuoteSummary.Result[0], nil
}

// SearchNews retrieves recent news articles for a query, typically a ticker.
func (c *Client) SearchNews(ctx context.Context, query string, opts ...QueryOption) ([]NewsArticle, error) {
	params := &queryParams{
		NewsCount: DefaultNewsCount,
	}
	for _, opt := range opts {
		opt(params)
	}

	queryParams := url.Values{}
	queryParams.Set("q", query)
	queryParams.Set("newsCount", strconv.Itoa(params.NewsCount))
	queryParams.Set("quotesCount", "0")

	var result searchResponse
	if err := c.get(ctx, "/v1/finance/search", queryParams, &result); err != nil {
		return nil, err
	}

	return result.News, nil
}
