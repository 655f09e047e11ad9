package pipeline

import (
	"context"
)

// TickerRun captures the outcome of one ticker in a batch run.
type TickerRun struct {
	Ticker string
	Result *RunResult
	Err    error
}

// RunAll generates reports for each ticker in order, one at a time.
// Concurrent runs would race on the cache and stack provider traffic
// already paced inside the stages. A failed ticker is recorded and the
// batch moves on; cancellation marks the remaining tickers with the
// context error instead of starting them.
func (s *Service) RunAll(ctx context.Context, tickers []string) []TickerRun {
	runs := make([]TickerRun, 0, len(tickers))
	for _, ticker := range tickers {
		if err := ctx.Err(); err != nil {
			runs = append(runs, TickerRun{Ticker: ticker, Err: err})
			continue
		}

		result, err := s.Run(ctx, ticker)
		if err != nil {
			s.logger.Error().Err(err).Str("ticker", ticker).Msg("Report run failed")
		}
		runs = append(runs, TickerRun{Ticker: ticker, Result: result, Err: err})
	}
	return runs
}

// FailedCount reports how many runs in a batch ended with an error.
func FailedCount(runs []TickerRun) int {
	failed := 0
	for _, run := range runs {
		if run.Err != nil {
			failed++
		}
	}
	return failed
}
