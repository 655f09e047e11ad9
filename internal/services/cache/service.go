// Package cache persists research bundles between report runs. A rerun
// for the same ticker inside the TTL window reuses the planned outline
// and raw retrieval results instead of repeating the LLM and provider
// calls. The cache is strictly best-effort: an unreachable backend
// downgrades every read to a miss and every write to a discard.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/ternarybob/arbor"

	"github.com/ternarybob/indago/internal/common"
	"github.com/ternarybob/indago/internal/interfaces"
	"github.com/ternarybob/indago/internal/models"
)

const (
	defaultTTL       = time.Hour
	defaultNamespace = "indago"
)

// Service implements the report cache over a key-value backend.
type Service struct {
	storage   interfaces.KeyValueStorage
	ttl       time.Duration
	namespace string
	enabled   bool
	logger    arbor.ILogger
}

var _ interfaces.ReportCache = (*Service)(nil)

// NewService creates the report cache. A nil storage disables caching;
// every operation then behaves as a miss.
func NewService(storage interfaces.KeyValueStorage, config common.CacheConfig, logger arbor.ILogger) *Service {
	ttl := defaultTTL
	if config.TTL != "" {
		parsed, err := time.ParseDuration(config.TTL)
		if err != nil || parsed <= 0 {
			logger.Warn().
				Str("ttl", config.TTL).
				Msg("Invalid cache TTL, using default")
		} else {
			ttl = parsed
		}
	}

	namespace := config.Namespace
	if namespace == "" {
		namespace = defaultNamespace
	}

	enabled := config.Enabled && storage != nil
	if config.Enabled && storage == nil {
		logger.Warn().Msg("Cache storage not available, caching disabled")
	}

	return &Service{
		storage:   storage,
		ttl:       ttl,
		namespace: namespace,
		enabled:   enabled,
		logger:    logger,
	}
}

// Get retrieves the cached research bundle for a ticker. Expired
// entries, backend failures, and undecodable payloads all read as
// misses.
func (s *Service) Get(ctx context.Context, ticker string) (*models.CachedResearch, bool) {
	if !s.enabled {
		return nil, false
	}

	value, err := s.storage.Get(ctx, s.key(ticker))
	if err != nil {
		if errors.Is(err, interfaces.ErrKeyNotFound) {
			s.logger.Info().Str("ticker", ticker).Msg("Cache miss")
		} else {
			s.logger.Warn().Err(err).Str("ticker", ticker).Msg("Cache read failed")
		}
		return nil, false
	}

	var research models.CachedResearch
	if err := json.Unmarshal([]byte(value), &research); err != nil {
		s.logger.Warn().Err(err).Str("ticker", ticker).Msg("Discarding undecodable cache entry")
		if delErr := s.storage.Delete(ctx, s.key(ticker)); delErr != nil {
			s.logger.Warn().Err(delErr).Str("ticker", ticker).Msg("Failed to delete cache entry")
		}
		return nil, false
	}

	s.logger.Info().Str("ticker", ticker).Msg("Cache hit")
	return &research, true
}

// Set stores the research bundle for a ticker with the configured TTL.
// Failures are logged and swallowed; a broken cache must never fail a
// report run.
func (s *Service) Set(ctx context.Context, ticker string, research *models.CachedResearch) {
	if !s.enabled || research == nil {
		return
	}

	research.CachedAt = time.Now().UTC()

	payload, err := json.Marshal(research)
	if err != nil {
		s.logger.Warn().Err(err).Str("ticker", ticker).Msg("Failed to encode research bundle")
		return
	}

	if err := s.storage.Set(ctx, s.key(ticker), string(payload), s.ttl); err != nil {
		s.logger.Warn().Err(err).Str("ticker", ticker).Msg("Cache write failed")
		return
	}

	s.logger.Info().
		Str("ticker", ticker).
		Dur("ttl", s.ttl).
		Msg("Cached research bundle")
}

// ClearTicker removes the cached bundle for one ticker.
func (s *Service) ClearTicker(ctx context.Context, ticker string) error {
	if !s.enabled {
		return fmt.Errorf("cache is not available")
	}

	if err := s.storage.Delete(ctx, s.key(ticker)); err != nil {
		return fmt.Errorf("failed to clear cache for %s: %w", ticker, err)
	}

	s.logger.Info().Str("ticker", ticker).Msg("Cleared cached research")
	return nil
}

// ClearAll removes every cached bundle in this namespace.
func (s *Service) ClearAll(ctx context.Context) error {
	if !s.enabled {
		return fmt.Errorf("cache is not available")
	}

	prefix := s.keyPrefix()
	keys, err := s.storage.Keys(ctx, prefix)
	if err != nil {
		return fmt.Errorf("failed to list cache entries: %w", err)
	}

	deleted := 0
	for _, key := range keys {
		if err := s.storage.Delete(ctx, key); err != nil {
			return fmt.Errorf("failed to delete cache entry %s: %w", key, err)
		}
		deleted++
	}

	s.logger.Info().Int("deleted", deleted).Msg("Cleared report cache")
	return nil
}

// Stats summarizes the cached tickers in this namespace.
func (s *Service) Stats(ctx context.Context) (models.CacheStats, error) {
	if !s.enabled {
		return models.CacheStats{}, fmt.Errorf("cache is not available")
	}

	prefix := s.keyPrefix()
	keys, err := s.storage.Keys(ctx, prefix)
	if err != nil {
		return models.CacheStats{}, fmt.Errorf("failed to list cache entries: %w", err)
	}

	tickers := make([]string, 0, len(keys))
	for _, key := range keys {
		tickers = append(tickers, strings.TrimPrefix(key, prefix))
	}
	sort.Strings(tickers)

	return models.CacheStats{
		Entries: len(tickers),
		Tickers: tickers,
	}, nil
}

// Available reports whether caching is active.
func (s *Service) Available() bool {
	return s.enabled
}

func (s *Service) key(ticker string) string {
	return s.keyPrefix() + ticker
}

func (s *Service) keyPrefix() string {
	return fmt.Sprintf("%s:report:", s.namespace)
}
