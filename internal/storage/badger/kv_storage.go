package badger

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/ternarybob/arbor"
	"github.com/timshannon/badgerhold/v4"

	"github.com/ternarybob/indago/internal/interfaces"
)

// kvEntry is the stored record for a key/value pair. ExpiresAt is the
// zero time for entries without expiry; expired entries are treated as
// missing on read and removed lazily.
type kvEntry struct {
	Key       string    `badgerhold:"key"`
	Value     string    `json:"value"`
	ExpiresAt time.Time `json:"expires_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (e kvEntry) expired(now time.Time) bool {
	return !e.ExpiresAt.IsZero() && now.After(e.ExpiresAt)
}

// KVStorage implements the KeyValueStorage interface for Badger
type KVStorage struct {
	db     *BadgerDB
	logger arbor.ILogger
}

var _ interfaces.KeyValueStorage = (*KVStorage)(nil)

// NewKVStorage creates a new KVStorage instance
func NewKVStorage(db *BadgerDB, logger arbor.ILogger) *KVStorage {
	return &KVStorage{
		db:     db,
		logger: logger,
	}
}

// normalizeKey trims surrounding whitespace for consistent lookup
func (s *KVStorage) normalizeKey(key string) string {
	return strings.TrimSpace(key)
}

// Get retrieves a value by key. Expired entries are removed and
// reported as missing.
func (s *KVStorage) Get(ctx context.Context, key string) (string, error) {
	normalizedKey := s.normalizeKey(key)
	var entry kvEntry
	err := s.db.Store().Get(normalizedKey, &entry)
	if err == badgerhold.ErrNotFound {
		return "", interfaces.ErrKeyNotFound
	}
	if err != nil {
		return "", fmt.Errorf("failed to get key: %w", err)
	}

	if entry.expired(time.Now()) {
		if err := s.db.Store().Delete(normalizedKey, &kvEntry{}); err != nil && err != badgerhold.ErrNotFound {
			s.logger.Warn().Str("key", normalizedKey).Err(err).Msg("Failed to remove expired entry")
		}
		return "", interfaces.ErrKeyNotFound
	}

	return entry.Value, nil
}

// Set inserts or updates a key/value pair. A zero TTL stores the value
// without expiry.
func (s *KVStorage) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	normalizedKey := s.normalizeKey(key)
	now := time.Now()

	entry := kvEntry{
		Key:       normalizedKey,
		Value:     value,
		UpdatedAt: now,
	}
	if ttl > 0 {
		entry.ExpiresAt = now.Add(ttl)
	}

	if err := s.db.Store().Upsert(normalizedKey, &entry); err != nil {
		return fmt.Errorf("failed to set key/value: %w", err)
	}

	return nil
}

// Delete removes a key/value pair. Deleting a missing key is not an error.
func (s *KVStorage) Delete(ctx context.Context, key string) error {
	normalizedKey := s.normalizeKey(key)
	err := s.db.Store().Delete(normalizedKey, &kvEntry{})
	if err != nil && err != badgerhold.ErrNotFound {
		return fmt.Errorf("failed to delete key: %w", err)
	}
	return nil
}

// Keys returns all live keys with the given prefix
func (s *KVStorage) Keys(ctx context.Context, prefix string) ([]string, error) {
	var entries []kvEntry
	if err := s.db.Store().Find(&entries, nil); err != nil {
		return nil, fmt.Errorf("failed to list keys: %w", err)
	}

	now := time.Now()
	keys := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.expired(now) {
			continue
		}
		if strings.HasPrefix(entry.Key, prefix) {
			keys = append(keys, entry.Key)
		}
	}

	return keys, nil
}

// Ping verifies the store is open and readable
func (s *KVStorage) Ping(ctx context.Context) error {
	var entry kvEntry
	err := s.db.Store().Get("__ping__", &entry)
	if err != nil && err != badgerhold.ErrNotFound {
		return fmt.Errorf("badger ping failed: %w", err)
	}
	return nil
}

// Close closes the underlying database
func (s *KVStorage) Close() error {
	return s.db.Close()
}
