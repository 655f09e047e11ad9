package cache

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ternarybob/indago/internal/common"
	"github.com/ternarybob/indago/internal/interfaces"
	"github.com/ternarybob/indago/internal/models"
)

// memoryStore is an in-memory KeyValueStorage with failure injection.
type memoryStore struct {
	mu      sync.Mutex
	data    map[string]string
	lastTTL time.Duration
	getErr  error
	setErr  error
}

func newMemoryStore() *memoryStore {
	return &memoryStore{data: make(map[string]string)}
}

func (m *memoryStore) Get(_ context.Context, key string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.getErr != nil {
		return "", m.getErr
	}
	value, ok := m.data[key]
	if !ok {
		return "", interfaces.ErrKeyNotFound
	}
	return value, nil
}

func (m *memoryStore) Set(_ context.Context, key, value string, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.setErr != nil {
		return m.setErr
	}
	m.data[key] = value
	m.lastTTL = ttl
	return nil
}

func (m *memoryStore) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, key)
	return nil
}

func (m *memoryStore) Keys(_ context.Context, prefix string) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.getErr != nil {
		return nil, m.getErr
	}
	var keys []string
	for key := range m.data {
		if strings.HasPrefix(key, prefix) {
			keys = append(keys, key)
		}
	}
	sort.Strings(keys)
	return keys, nil
}

func (m *memoryStore) Ping(context.Context) error { return nil }
func (m *memoryStore) Close() error               { return nil }

func enabledConfig() common.CacheConfig {
	return common.CacheConfig{Enabled: true, TTL: "1h", Namespace: "indago"}
}

func sampleResearch() *models.CachedResearch {
	return &models.CachedResearch{
		CompanyName: "NVIDIA Corp.",
		Structure:   []string{"1. Overview", "2. Risks"},
		Context:     "Source [1]:\nsome research",
		WebResults: [][]models.WebResult{
			{{Title: "NVIDIA Earnings", URL: "https://example.com/a", Content: "content"}},
		},
		FinancialResults: []models.FinancialResult{
			{Kind: models.FinancialResultChat, Text: "The current stock price of NVDA is 450.5."},
		},
		WebQueries:       []string{"NVIDIA earnings 2026"},
		FinancialQueries: []models.FinancialQuery{{Query: "What is the stock price of NVDA?", Ticker: "NVDA"}},
		Sources: map[int]models.SourceRef{
			1: {URL: "https://example.com/a", Title: "NVIDIA Earnings"},
		},
	}
}

func TestCacheRoundTrip(t *testing.T) {
	store := newMemoryStore()
	svc := NewService(store, enabledConfig(), common.GetLogger())
	ctx := context.Background()

	svc.Set(ctx, "NVDA", sampleResearch())

	got, ok := svc.Get(ctx, "NVDA")
	require.True(t, ok)
	assert.Equal(t, "NVIDIA Corp.", got.CompanyName)
	assert.Equal(t, []string{"1. Overview", "2. Risks"}, got.Structure)
	assert.Equal(t, "Source [1]:\nsome research", got.Context)
	require.Len(t, got.WebResults, 1)
	assert.Equal(t, "NVIDIA Earnings", got.WebResults[0][0].Title)
	require.Len(t, got.FinancialResults, 1)
	assert.Equal(t, models.FinancialResultChat, got.FinancialResults[0].Kind)
	assert.Equal(t, "NVDA", got.FinancialQueries[0].Ticker)
	assert.Equal(t, "https://example.com/a", got.Sources[1].URL)
	assert.False(t, got.CachedAt.IsZero())
}

func TestCacheMiss(t *testing.T) {
	svc := NewService(newMemoryStore(), enabledConfig(), common.GetLogger())

	got, ok := svc.Get(context.Background(), "AAPL")
	assert.False(t, ok)
	assert.Nil(t, got)
}

func TestCacheKeyFormat(t *testing.T) {
	store := newMemoryStore()
	svc := NewService(store, enabledConfig(), common.GetLogger())

	svc.Set(context.Background(), "NVDA", sampleResearch())

	_, exists := store.data["indago:report:NVDA"]
	assert.True(t, exists, "keys follow namespace:report:ticker")
}

func TestCacheTTL(t *testing.T) {
	store := newMemoryStore()
	config := enabledConfig()
	config.TTL = "30m"
	svc := NewService(store, config, common.GetLogger())

	svc.Set(context.Background(), "NVDA", sampleResearch())
	assert.Equal(t, 30*time.Minute, store.lastTTL)
}

func TestCacheInvalidTTLUsesDefault(t *testing.T) {
	store := newMemoryStore()
	config := enabledConfig()
	config.TTL = "bogus"
	svc := NewService(store, config, common.GetLogger())

	svc.Set(context.Background(), "NVDA", sampleResearch())
	assert.Equal(t, time.Hour, store.lastTTL)
}

func TestCacheDisabled(t *testing.T) {
	store := newMemoryStore()
	config := enabledConfig()
	config.Enabled = false
	svc := NewService(store, config, common.GetLogger())
	ctx := context.Background()

	svc.Set(ctx, "NVDA", sampleResearch())
	_, ok := svc.Get(ctx, "NVDA")

	assert.False(t, ok)
	assert.Empty(t, store.data)
	assert.False(t, svc.Available())
	assert.Error(t, svc.ClearAll(ctx))
}

func TestCacheNilStorageDisables(t *testing.T) {
	svc := NewService(nil, enabledConfig(), common.GetLogger())

	assert.False(t, svc.Available())
	_, ok := svc.Get(context.Background(), "NVDA")
	assert.False(t, ok)
}

func TestCacheBackendFailureReadsAsMiss(t *testing.T) {
	store := newMemoryStore()
	store.getErr = errors.New("connection refused")
	svc := NewService(store, enabledConfig(), common.GetLogger())

	_, ok := svc.Get(context.Background(), "NVDA")
	assert.False(t, ok)
}

func TestCacheWriteFailureSwallowed(t *testing.T) {
	store := newMemoryStore()
	store.setErr = errors.New("connection refused")
	svc := NewService(store, enabledConfig(), common.GetLogger())

	svc.Set(context.Background(), "NVDA", sampleResearch())
	assert.Empty(t, store.data)
}

func TestCacheCorruptEntryDiscarded(t *testing.T) {
	store := newMemoryStore()
	store.data["indago:report:NVDA"] = "{not json"
	svc := NewService(store, enabledConfig(), common.GetLogger())

	_, ok := svc.Get(context.Background(), "NVDA")
	assert.False(t, ok)
	assert.Empty(t, store.data, "corrupt entry is deleted")
}

func TestClearTicker(t *testing.T) {
	store := newMemoryStore()
	svc := NewService(store, enabledConfig(), common.GetLogger())
	ctx := context.Background()

	svc.Set(ctx, "NVDA", sampleResearch())
	svc.Set(ctx, "AAPL", sampleResearch())

	require.NoError(t, svc.ClearTicker(ctx, "NVDA"))

	_, ok := svc.Get(ctx, "NVDA")
	assert.False(t, ok)
	_, ok = svc.Get(ctx, "AAPL")
	assert.True(t, ok)
}

func TestClearAllAndStats(t *testing.T) {
	store := newMemoryStore()
	svc := NewService(store, enabledConfig(), common.GetLogger())
	ctx := context.Background()

	svc.Set(ctx, "NVDA", sampleResearch())
	svc.Set(ctx, "AAPL", sampleResearch())

	stats, err := svc.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, stats.Entries)
	assert.Equal(t, []string{"AAPL", "NVDA"}, stats.Tickers)

	require.NoError(t, svc.ClearAll(ctx))

	stats, err = svc.Stats(ctx)
	require.NoError(t, err)
	assert.Zero(t, stats.Entries)
	assert.Empty(t, stats.Tickers)
}
