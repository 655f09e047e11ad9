// Package research fans out the planned queries to their providers: web
// searches run through Tavily in small paced batches, financial queries
// run concurrently through the tool-calling agent. Results come back
// positionally aligned with the query lists so the context formatter can
// pair each answer with the question that produced it.
package research

import (
	"context"
	"sync"
	"time"

	"github.com/ternarybob/arbor"

	"github.com/ternarybob/indago/internal/common"
	"github.com/ternarybob/indago/internal/interfaces"
	"github.com/ternarybob/indago/internal/models"
)

const (
	defaultWebBatchSize  = 3
	defaultWebBatchPause = 2 * time.Second
)

// Service coordinates the retrieval fan-out for a report run.
type Service struct {
	search interfaces.WebSearchService
	agent  interfaces.FinancialAgent
	config common.ResearchConfig
	logger arbor.ILogger
}

// NewService creates the research coordinator.
func NewService(search interfaces.WebSearchService, agent interfaces.FinancialAgent, config common.ResearchConfig, logger arbor.ILogger) *Service {
	return &Service{
		search: search,
		agent:  agent,
		config: config,
		logger: logger,
	}
}

// RunWebSearches executes web queries in batches, pausing between batches
// to stay inside the search API quota. The result slice is aligned with
// the query list; a failed query yields a single error-tagged entry in
// its slot rather than aborting the run.
func (s *Service) RunWebSearches(ctx context.Context, queries []string) ([][]models.WebResult, error) {
	results := make([][]models.WebResult, len(queries))
	if len(queries) == 0 {
		return results, nil
	}

	batchSize := s.config.WebBatchSize
	if batchSize <= 0 {
		batchSize = defaultWebBatchSize
	}
	pause := s.config.WebBatchPause
	if pause <= 0 {
		pause = defaultWebBatchPause
	}

	for start := 0; start < len(queries); start += batchSize {
		end := start + batchSize
		if end > len(queries) {
			end = len(queries)
		}

		var wg sync.WaitGroup
		for i := start; i < end; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()

				hits, err := s.search.Search(ctx, queries[i])
				if err != nil {
					s.logger.Warn().
						Err(err).
						Str("query", queries[i]).
						Msg("Web search failed")
					results[i] = []models.WebResult{{Err: err.Error()}}
					return
				}
				results[i] = normalizeWebResults(hits, s.logger)
			}(i)
		}
		wg.Wait()

		if err := ctx.Err(); err != nil {
			return results, err
		}

		if end < len(queries) {
			select {
			case <-ctx.Done():
				return results, ctx.Err()
			case <-time.After(pause):
			}
		}
	}

	s.logger.Info().
		Int("queries", len(queries)).
		Msg("Web research complete")

	return results, nil
}

// RunFinancialQueries executes all financial queries concurrently. The
// agent serializes its own model calls through its rate limiter, so the
// concurrency here only overlaps waiting, not quota use. Failures are
// captured in-band as error results.
func (s *Service) RunFinancialQueries(ctx context.Context, queries []models.FinancialQuery) ([]models.FinancialResult, error) {
	results := make([]models.FinancialResult, len(queries))
	if len(queries) == 0 {
		return results, nil
	}

	var wg sync.WaitGroup
	for i := range queries {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()

			result, err := s.agent.Answer(ctx, queries[i])
			if err != nil {
				s.logger.Warn().
					Err(err).
					Str("query", queries[i].Query).
					Msg("Financial query failed")
				results[i] = models.FinancialResult{Kind: models.FinancialResultError, Err: err.Error()}
				return
			}
			results[i] = result
		}(i)
	}
	wg.Wait()

	if err := ctx.Err(); err != nil {
		return results, err
	}

	s.logger.Info().
		Int("queries", len(queries)).
		Msg("Financial research complete")

	return results, nil
}
