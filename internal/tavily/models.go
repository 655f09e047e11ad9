package tavily

// SearchRequest is the request body for the /search endpoint.
type SearchRequest struct {
	Query         string `json:"query"`
	SearchDepth   string `json:"search_depth,omitempty"`
	MaxResults    int    `json:"max_results,omitempty"`
	Topic         string `json:"topic,omitempty"`
	IncludeAnswer bool   `json:"include_answer,omitempty"`
}

// SearchResult is a single result returned by the /search endpoint.
type SearchResult struct {
	Title   string  `json:"title"`
	URL     string  `json:"url"`
	Content string  `json:"content"`
	Score   float64 `json:"score"`
}

// SearchResponse is the response body for the /search endpoint.
type SearchResponse struct {
	Query        string         `json:"query"`
	Answer       string         `json:"answer,omitempty"`
	Results      []SearchResult `json:"results"`
	ResponseTime float64        `json:"response_time"`
}
