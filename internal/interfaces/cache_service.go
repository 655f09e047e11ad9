// Package interfaces provides service interfaces for dependency injection.
package interfaces

import (
	"context"

	"github.com/ternarybob/indago/internal/models"
)

// ReportCache stores research bundles keyed by ticker so repeated report
// runs can skip planning and retrieval. Implementations degrade to
// no-ops when the backing store is unavailable; a broken cache must
// never fail a report run.
type ReportCache interface {
	// Get retrieves the cached bundle for a ticker.
	// Returns the bundle and true on a hit, nil and false on a miss,
	// an expired entry, or an unavailable backend.
	Get(ctx context.Context, ticker string) (*models.CachedResearch, bool)

	// Set stores a bundle for a ticker with the configured TTL.
	// Failures are logged, not returned; caching is best-effort.
	Set(ctx context.Context, ticker string, research *models.CachedResearch)

	// ClearTicker removes the cached bundle for one ticker.
	ClearTicker(ctx context.Context, ticker string) error

	// ClearAll removes every cached bundle.
	ClearAll(ctx context.Context) error

	// Stats summarizes current cache contents.
	Stats(ctx context.Context) (models.CacheStats, error)

	// Available reports whether the backing store is reachable.
	Available() bool
}
