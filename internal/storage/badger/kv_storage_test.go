package badger

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ternarybob/indago/internal/common"
	"github.com/ternarybob/indago/internal/interfaces"
)

func newTestKVStorage(t *testing.T) *KVStorage {
	t.Helper()

	db, err := NewBadgerDB(common.GetLogger(), &common.BadgerConfig{
		Path: filepath.Join(t.TempDir(), "badger"),
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	return NewKVStorage(db, common.GetLogger())
}

func TestKVStorageSetGet(t *testing.T) {
	ctx := context.Background()
	kv := newTestKVStorage(t)

	require.NoError(t, kv.Set(ctx, "tavily_api_key", "tvly-test", 0))

	value, err := kv.Get(ctx, "tavily_api_key")
	require.NoError(t, err)
	assert.Equal(t, "tvly-test", value)

	// Keys are trimmed before lookup
	value, err = kv.Get(ctx, "  tavily_api_key  ")
	require.NoError(t, err)
	assert.Equal(t, "tvly-test", value)
}

func TestKVStorageMissingKey(t *testing.T) {
	ctx := context.Background()
	kv := newTestKVStorage(t)

	_, err := kv.Get(ctx, "does-not-exist")
	assert.ErrorIs(t, err, interfaces.ErrKeyNotFound)
}

func TestKVStorageTTLExpiry(t *testing.T) {
	ctx := context.Background()
	kv := newTestKVStorage(t)

	require.NoError(t, kv.Set(ctx, "ephemeral", "value", 10*time.Millisecond))

	value, err := kv.Get(ctx, "ephemeral")
	require.NoError(t, err)
	assert.Equal(t, "value", value)

	time.Sleep(25 * time.Millisecond)

	_, err = kv.Get(ctx, "ephemeral")
	assert.ErrorIs(t, err, interfaces.ErrKeyNotFound)
}

func TestKVStorageDelete(t *testing.T) {
	ctx := context.Background()
	kv := newTestKVStorage(t)

	require.NoError(t, kv.Set(ctx, "doomed", "value", 0))
	require.NoError(t, kv.Delete(ctx, "doomed"))

	_, err := kv.Get(ctx, "doomed")
	assert.ErrorIs(t, err, interfaces.ErrKeyNotFound)

	// Deleting a missing key is not an error
	assert.NoError(t, kv.Delete(ctx, "doomed"))
}

func TestKVStorageKeysPrefix(t *testing.T) {
	ctx := context.Background()
	kv := newTestKVStorage(t)

	require.NoError(t, kv.Set(ctx, "indago:report:AAPL", "a", 0))
	require.NoError(t, kv.Set(ctx, "indago:report:MSFT", "b", 0))
	require.NoError(t, kv.Set(ctx, "other:key", "c", 0))

	keys, err := kv.Keys(ctx, "indago:report:")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"indago:report:AAPL", "indago:report:MSFT"}, keys)

	keys, err = kv.Keys(ctx, "nomatch:")
	require.NoError(t, err)
	assert.Empty(t, keys)
}

func TestKVStoragePing(t *testing.T) {
	ctx := context.Background()
	kv := newTestKVStorage(t)

	assert.NoError(t, kv.Ping(ctx))
}
