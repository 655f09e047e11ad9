package research

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ternarybob/indago/internal/common"
	"github.com/ternarybob/indago/internal/tavily"
)

func TestTavilySearchMapsResults(t *testing.T) {
	var gotBody map[string]interface{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"query": "NVIDIA earnings",
			"results": [
				{"title": "Q3 beat", "url": "https://example.com/a", "content": "Revenue up.", "score": 0.98},
				{"title": "Targets", "url": "https://example.com/b", "content": "Raised to $160.", "score": 0.91}
			],
			"response_time": 0.4
		}`))
	}))
	defer server.Close()

	client := tavily.NewClient("key", tavily.WithBaseURL(server.URL))
	svc := NewTavilySearch(client, 7, "basic", common.GetLogger())

	results, err := svc.Search(context.Background(), "NVIDIA earnings")
	require.NoError(t, err)

	require.Len(t, results, 2)
	assert.Equal(t, "Q3 beat", results[0].Title)
	assert.Equal(t, "https://example.com/a", results[0].URL)
	assert.Equal(t, "Revenue up.", results[0].Content)
	assert.False(t, results[0].Failed())

	assert.Equal(t, float64(7), gotBody["max_results"])
	assert.Equal(t, "basic", gotBody["search_depth"])
}

func TestTavilySearchPropagatesErrors(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
	}))
	defer server.Close()

	client := tavily.NewClient("bad-key", tavily.WithBaseURL(server.URL))
	svc := NewTavilySearch(client, 0, "", common.GetLogger())

	_, err := svc.Search(context.Background(), "anything")
	require.Error(t, err)
}
