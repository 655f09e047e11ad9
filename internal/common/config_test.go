package common

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDefaultConfig(t *testing.T) {
	config := NewDefaultConfig()

	assert.Equal(t, "development", config.Environment)
	assert.Equal(t, "content-aware", config.Report.Policy)
	assert.Equal(t, "./reports", config.Report.OutputDir)
	assert.Equal(t, 3, config.Research.WebBatchSize)
	assert.Equal(t, 2*time.Second, config.Research.WebBatchPause)
	assert.Equal(t, 3, config.Sections.BatchSize)
	assert.Equal(t, 3*time.Second, config.Sections.BatchPause)
	assert.Equal(t, 2*time.Second, config.Sections.SequentialPause)
	assert.Equal(t, 3, config.Retry.MaxAttempts)
	assert.True(t, config.Cache.Enabled)
	assert.Equal(t, "1h", config.Cache.TTL)
	assert.Equal(t, "indago", config.Cache.Namespace)
	assert.Equal(t, "badger", config.Storage.Backend)
	assert.Equal(t, LLMProviderGemini, config.LLM.DefaultProvider)
	assert.Equal(t, "chrome", config.Render.Engine)
}

func TestLoadFromFiles(t *testing.T) {
	t.Run("no files returns defaults", func(t *testing.T) {
		config, err := LoadFromFiles()
		require.NoError(t, err)
		assert.Equal(t, "content-aware", config.Report.Policy)
	})

	t.Run("single file overrides defaults", func(t *testing.T) {
		dir := t.TempDir()
		path := filepath.Join(dir, "indago.toml")
		content := `
[report]
policy = "independent"
output_dir = "./out"

[cache]
ttl = "30m"
`
		require.NoError(t, os.WriteFile(path, []byte(content), 0644))

		config, err := LoadFromFiles(path)
		require.NoError(t, err)
		assert.Equal(t, "independent", config.Report.Policy)
		assert.Equal(t, "./out", config.Report.OutputDir)
		assert.Equal(t, "30m", config.Cache.TTL)
		// Untouched values keep defaults
		assert.Equal(t, 3, config.Research.WebBatchSize)
	})

	t.Run("later file wins", func(t *testing.T) {
		dir := t.TempDir()
		base := filepath.Join(dir, "base.toml")
		override := filepath.Join(dir, "override.toml")
		require.NoError(t, os.WriteFile(base, []byte("[report]\npolicy = \"independent\"\n"), 0644))
		require.NoError(t, os.WriteFile(override, []byte("[report]\npolicy = \"content-aware\"\n"), 0644))

		config, err := LoadFromFiles(base, override)
		require.NoError(t, err)
		assert.Equal(t, "content-aware", config.Report.Policy)
	})

	t.Run("missing file errors", func(t *testing.T) {
		_, err := LoadFromFiles("/nonexistent/indago.toml")
		assert.Error(t, err)
	})

	t.Run("invalid policy fails validation", func(t *testing.T) {
		dir := t.TempDir()
		path := filepath.Join(dir, "indago.toml")
		require.NoError(t, os.WriteFile(path, []byte("[report]\npolicy = \"bogus\"\n"), 0644))

		_, err := LoadFromFiles(path)
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "invalid configuration")
	})
}

func TestApplyEnvOverrides(t *testing.T) {
	t.Run("report policy from env", func(t *testing.T) {
		t.Setenv("INDAGO_REPORT_POLICY", "independent")

		config := NewDefaultConfig()
		applyEnvOverrides(config)
		assert.Equal(t, "independent", config.Report.Policy)
	})

	t.Run("prefixed key wins over provider-standard key", func(t *testing.T) {
		t.Setenv("TAVILY_API_KEY", "standard-key")
		t.Setenv("INDAGO_TAVILY_API_KEY", "prefixed-key")

		config := NewDefaultConfig()
		applyEnvOverrides(config)
		assert.Equal(t, "prefixed-key", config.Tavily.APIKey)
	})

	t.Run("cache ttl must parse", func(t *testing.T) {
		t.Setenv("INDAGO_CACHE_TTL", "not-a-duration")

		config := NewDefaultConfig()
		applyEnvOverrides(config)
		assert.Equal(t, "1h", config.Cache.TTL)
	})
}

func TestApplyFlagOverrides(t *testing.T) {
	config := NewDefaultConfig()

	ApplyFlagOverrides(config, "./flagged", "independent", true)

	assert.Equal(t, "./flagged", config.Report.OutputDir)
	assert.Equal(t, "independent", config.Report.Policy)
	assert.False(t, config.Cache.Enabled)

	// Empty values leave config untouched
	ApplyFlagOverrides(config, "", "", false)
	assert.Equal(t, "./flagged", config.Report.OutputDir)
	assert.Equal(t, "independent", config.Report.Policy)
}

func TestResolveAPIKey(t *testing.T) {
	ctx := context.Background()

	t.Run("environment takes priority over config", func(t *testing.T) {
		t.Setenv("TAVILY_API_KEY", "env-key")

		key, err := ResolveAPIKey(ctx, nil, "tavily_api_key", "config-key")
		require.NoError(t, err)
		assert.Equal(t, "env-key", key)
	})

	t.Run("falls back to config", func(t *testing.T) {
		key, err := ResolveAPIKey(ctx, nil, "gemini_api_key", "config-key")
		require.NoError(t, err)
		assert.Equal(t, "config-key", key)
	})

	t.Run("missing everywhere errors", func(t *testing.T) {
		_, err := ResolveAPIKey(ctx, nil, "claude_api_key", "")
		assert.Error(t, err)
	})
}

func TestCacheTTL(t *testing.T) {
	config := NewDefaultConfig()
	assert.Equal(t, time.Hour, config.CacheTTL())

	config.Cache.TTL = "90s"
	assert.Equal(t, 90*time.Second, config.CacheTTL())

	config.Cache.TTL = "garbage"
	assert.Equal(t, time.Hour, config.CacheTTL())
}

func TestValidateSchedule(t *testing.T) {
	tests := []struct {
		name     string
		schedule string
		wantErr  bool
	}{
		{"valid weekly", "0 7 * * 1", false},
		{"valid every ten minutes", "*/10 * * * *", false},
		{"every minute rejected", "* * * * *", true},
		{"under five minute interval rejected", "*/2 * * * *", true},
		{"malformed", "not a cron", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateSchedule(tt.schedule)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestIsProduction(t *testing.T) {
	config := NewDefaultConfig()
	assert.False(t, config.IsProduction())

	config.Environment = "production"
	assert.True(t, config.IsProduction())

	config.Environment = " PROD "
	assert.True(t, config.IsProduction())
}
