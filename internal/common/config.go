package common

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/pelletier/go-toml/v2"
	"github.com/robfig/cron/v3"

	"github.com/ternarybob/indago/internal/interfaces"
)

// Config represents the application configuration
type Config struct {
	Environment string         `toml:"environment"` // "development" or "production"
	Report      ReportConfig   `toml:"report"`
	Research    ResearchConfig `toml:"research"`
	Sections    SectionsConfig `toml:"sections"`
	Retry       RetryConfig    `toml:"retry"`
	Cache       CacheConfig    `toml:"cache"`
	Storage     StorageConfig  `toml:"storage"`
	Logging     LoggingConfig  `toml:"logging"`
	Tavily      TavilyConfig   `toml:"tavily"`
	Yahoo       YahooConfig    `toml:"yahoo"`
	Gemini      GeminiConfig   `toml:"gemini"`
	Claude      ClaudeConfig   `toml:"claude"`
	LLM         LLMConfig      `toml:"llm"`
	Render      RenderConfig   `toml:"render"`
	Email       EmailConfig    `toml:"email"`
	Schedule    ScheduleConfig `toml:"schedule"`
}

// ReportConfig controls report output and section generation policy
type ReportConfig struct {
	OutputDir string `toml:"output_dir"`                                        // Directory for generated report files
	Policy    string `toml:"policy" validate:"oneof=content-aware independent"` // Section generation policy
}

// ResearchConfig controls retrieval fan-out behavior
type ResearchConfig struct {
	WebBatchSize     int           `toml:"web_batch_size" validate:"gte=1"` // Concurrent web queries per batch
	WebBatchPause    time.Duration `toml:"web_batch_pause"`                 // Pause between web query batches
	MaxSearchResults int           `toml:"max_search_results"`              // Max results requested per web query
}

// SectionsConfig controls section generation pacing
type SectionsConfig struct {
	BatchSize       int           `toml:"batch_size" validate:"gte=1"` // Concurrent sections per batch (independent policy)
	BatchPause      time.Duration `toml:"batch_pause"`                 // Pause between section batches (independent policy)
	SequentialPause time.Duration `toml:"sequential_pause"`            // Pause after each section (content-aware policy)
}

// RetryConfig controls bounded retry with exponential backoff for LLM calls
type RetryConfig struct {
	MaxAttempts  int           `toml:"max_attempts" validate:"gte=1"`
	InitialDelay time.Duration `toml:"initial_delay"`
	MaxDelay     time.Duration `toml:"max_delay"`
}

// CacheConfig controls the research bundle cache
type CacheConfig struct {
	Enabled   bool   `toml:"enabled"`
	TTL       string `toml:"ttl"`       // Entry time-to-live as duration string (default: "1h")
	Namespace string `toml:"namespace"` // Key prefix namespace (default: "indago")
}

// StorageConfig selects and configures the key-value backend
type StorageConfig struct {
	Backend string       `toml:"backend" validate:"oneof=badger redis"` // "badger" (embedded) or "redis"
	Badger  BadgerConfig `toml:"badger"`
	Redis   RedisConfig  `toml:"redis"`
}

// BadgerConfig represents BadgerDB-specific configuration
type BadgerConfig struct {
	Path string `toml:"path"` // Database directory path
}

// RedisConfig represents Redis-specific configuration
type RedisConfig struct {
	Addr           string `toml:"addr"`
	Password       string `toml:"password"`
	DB             int    `toml:"db"`
	ConnectTimeout string `toml:"connect_timeout"` // Dial timeout as duration string
}

// LoggingConfig controls log output
type LoggingConfig struct {
	Level      string   `toml:"level"`       // "debug", "info", "warn", "error"
	Format     string   `toml:"format"`      // "json" or "text"
	Output     []string `toml:"output"`      // "stdout", "file"
	TimeFormat string   `toml:"time_format"` // Time format for logs (default: "15:04:05")
}

// TavilyConfig contains Tavily web search API configuration
type TavilyConfig struct {
	APIKey      string `toml:"api_key"`      // Tavily API key (TAVILY_API_KEY env var takes priority)
	BaseURL     string `toml:"base_url"`     // API base URL
	SearchDepth string `toml:"search_depth"` // "basic" or "advanced"
	Timeout     string `toml:"timeout"`      // HTTP timeout as duration string
	RateLimit   string `toml:"rate_limit"`   // Minimum interval between requests
}

// YahooConfig contains Yahoo Finance market data configuration
type YahooConfig struct {
	BaseURL   string `toml:"base_url"`   // Query API base URL
	UserAgent string `toml:"user_agent"` // User agent for API requests
	Timeout   string `toml:"timeout"`    // HTTP timeout as duration string
	RateLimit string `toml:"rate_limit"` // Minimum interval between requests
	NewsLimit int    `toml:"news_limit"` // Max news articles fetched per query
}

// GeminiConfig contains Google Gemini API configuration
type GeminiConfig struct {
	APIKey      string  `toml:"api_key"`     // Google Gemini API key
	Model       string  `toml:"model"`       // Model for planning and generation (default: "gemini-2.0-flash")
	MaxTokens   int     `toml:"max_tokens"`  // Maximum tokens in response (default: 8000)
	MaxTurns    int     `toml:"max_turns"`   // Maximum agent tool-loop turns (default: 10)
	Timeout     string  `toml:"timeout"`     // Operation timeout as duration string (default: "5m")
	RateLimit   string  `toml:"rate_limit"`  // Rate limit duration string (default: "4s" for 15 RPM)
	Temperature float32 `toml:"temperature"` // Completion temperature (default: 1.0)
}

// ClaudeConfig contains Anthropic Claude API configuration
type ClaudeConfig struct {
	APIKey      string  `toml:"api_key"`     // Anthropic API key for Claude operations
	Model       string  `toml:"model"`       // Model for AI operations (default: "claude-haiku-3-5-20241022")
	MaxTokens   int     `toml:"max_tokens"`  // Maximum tokens in response (default: 8192)
	Timeout     string  `toml:"timeout"`     // Operation timeout as duration string (default: "5m")
	RateLimit   string  `toml:"rate_limit"`  // Rate limit duration string (default: "1s")
	Temperature float32 `toml:"temperature"` // Completion temperature (default: 0.7)
}

// LLMProvider represents the AI provider type
type LLMProvider string

const (
	// LLMProviderGemini uses Google Gemini API
	LLMProviderGemini LLMProvider = "gemini"
	// LLMProviderClaude uses Anthropic Claude API
	LLMProviderClaude LLMProvider = "claude"
)

// LLMConfig contains unified configuration for all AI providers
type LLMConfig struct {
	DefaultProvider LLMProvider `toml:"default_provider"` // Default provider: "gemini" or "claude" (default: "gemini")
}

// RenderConfig controls PDF rendering
type RenderConfig struct {
	Engine        string `toml:"engine" validate:"oneof=chrome fpdf"` // "chrome" (full HTML/charts) or "fpdf" (pure Go fallback)
	Timeout       string `toml:"timeout"`                             // Render timeout as duration string (default: "45s")
	ChartWaitTime string `toml:"chart_wait_time"`                     // Wait for chart animation before capture (default: "2s")
	ChartJSSource string `toml:"chartjs_source"`                      // Chart.js script URL override (default: jsDelivr CDN)
	Validate      bool   `toml:"validate"`                            // Structurally validate generated PDFs
}

// EmailConfig controls report delivery by email
type EmailConfig struct {
	Enabled       bool     `toml:"enabled"`
	Host          string   `toml:"host"`           // SMTP server host
	Port          int      `toml:"port"`           // SMTP server port (default: 587)
	Username      string   `toml:"username"`       // SMTP username (INDAGO_EMAIL_USERNAME env var takes priority)
	Password      string   `toml:"password"`       // SMTP password (INDAGO_EMAIL_PASSWORD env var takes priority)
	From          string   `toml:"from"`           // Sender address
	FromName      string   `toml:"from_name"`      // Sender display name (default: "Indago")
	To            []string `toml:"to"`             // Recipient addresses
	SubjectPrefix string   `toml:"subject_prefix"` // Prefix for email subjects
	UseTLS        bool     `toml:"use_tls"`        // Connect over TLS, falling back to STARTTLS (default: true)
}

// ScheduleConfig controls periodic report regeneration
type ScheduleConfig struct {
	Enabled bool   `toml:"enabled"`
	Cron    string `toml:"cron"` // 5-field cron expression
}

// NewDefaultConfig creates a configuration with default values
// Technical parameters are hardcoded here for production stability.
// Only user-facing settings should be exposed in indago.toml.
func NewDefaultConfig() *Config {
	return &Config{
		Environment: "development",
		Report: ReportConfig{
			OutputDir: "./reports",
			Policy:    "content-aware",
		},
		Research: ResearchConfig{
			WebBatchSize:     3,               // Concurrent web queries per batch
			WebBatchPause:    2 * time.Second, // Pause between batches to respect upstream rate limits
			MaxSearchResults: 10,
		},
		Sections: SectionsConfig{
			BatchSize:       3,
			BatchPause:      3 * time.Second,
			SequentialPause: 2 * time.Second,
		},
		Retry: RetryConfig{
			MaxAttempts:  3,
			InitialDelay: 2 * time.Second,
			MaxDelay:     60 * time.Second,
		},
		Cache: CacheConfig{
			Enabled:   true,
			TTL:       "1h",
			Namespace: "indago",
		},
		Storage: StorageConfig{
			Backend: "badger",
			Badger: BadgerConfig{
				Path: "./data",
			},
			Redis: RedisConfig{
				Addr:           "localhost:6379",
				Password:       "",
				DB:             0,
				ConnectTimeout: "2s",
			},
		},
		Logging: LoggingConfig{
			Level:  "info",                     // Info level for production (debug|info|warn|error)
			Format: "text",                     // Human-readable text format (text|json)
			Output: []string{"stdout", "file"}, // Log to both console and file
		},
		Tavily: TavilyConfig{
			APIKey:      "", // User must provide API key (TAVILY_API_KEY or config)
			BaseURL:     "https://api.tavily.com",
			SearchDepth: "advanced",
			Timeout:     "30s",
			RateLimit:   "1s",
		},
		Yahoo: YahooConfig{
			BaseURL:   "https://query1.finance.yahoo.com",
			UserAgent: "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
			Timeout:   "30s",
			RateLimit: "500ms",
			NewsLimit: 5,
		},
		Gemini: GeminiConfig{
			APIKey:      "",                 // User must provide API key (no fallback)
			Model:       "gemini-2.0-flash", // Model for planning and generation
			MaxTokens:   8000,
			MaxTurns:    10, // Reasonable limit for agent tool loops
			Timeout:     "5m",
			RateLimit:   "4s", // Default to 4s (15 RPM) for free tier
			Temperature: 1.0,
		},
		Claude: ClaudeConfig{
			APIKey:      "",                          // User must provide API key (ANTHROPIC_API_KEY or config)
			Model:       "claude-haiku-3-5-20241022", // Model for AI operations
			MaxTokens:   8192,
			Timeout:     "5m",
			RateLimit:   "1s",
			Temperature: 0.7,
		},
		LLM: LLMConfig{
			DefaultProvider: LLMProviderGemini,
		},
		Render: RenderConfig{
			Engine:        "chrome",
			Timeout:       "45s",
			ChartWaitTime: "2s",
			ChartJSSource: "", // Empty uses the jsDelivr CDN
			Validate:      true,
		},
		Email: EmailConfig{
			Enabled:       false,
			Port:          587,
			FromName:      "Indago",
			SubjectPrefix: "[Indago]",
			UseTLS:        true,
		},
		Schedule: ScheduleConfig{
			Enabled: false,
			Cron:    "0 7 * * 1", // Weekly on Monday at 07:00
		},
	}
}

// LoadFromFile loads configuration with priority: default -> file -> env
// Priority system: CLI flags > Environment variables > Config file > Defaults
func LoadFromFile(path string) (*Config, error) {
	if path == "" {
		return LoadFromFiles()
	}
	return LoadFromFiles(path)
}

// LoadFromFiles loads configuration from multiple files with priority: default -> file1 -> file2 -> ... -> env
// Later files override earlier files. Priority system: CLI flags > Environment variables > Last config file > ... > First config file > Defaults
// Example: LoadFromFiles("base.toml", "override.toml") - override.toml settings take precedence over base.toml
func LoadFromFiles(paths ...string) (*Config, error) {
	// Start with defaults
	config := NewDefaultConfig()

	// Load and merge each config file in order (later files override earlier files)
	for i, path := range paths {
		if path == "" {
			continue
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}

		// Unmarshal into config (merges with existing values, later values override)
		err = toml.Unmarshal(data, config)
		if err != nil {
			return nil, fmt.Errorf("failed to parse config file %s (file %d of %d): %w", path, i+1, len(paths), err)
		}
	}

	// Apply environment variables (overrides all file configs)
	applyEnvOverrides(config)

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return config, nil
}

// Validate checks configuration values using go-playground/validator tags.
func (c *Config) Validate() error {
	validate := validator.New()
	return validate.Struct(c)
}

// applyEnvOverrides applies environment variable overrides to config
func applyEnvOverrides(config *Config) {
	// Environment configuration (highest priority: INDAGO_ENV, fallback: GO_ENV)
	if env := os.Getenv("INDAGO_ENV"); env != "" {
		config.Environment = env
	} else if env := os.Getenv("GO_ENV"); env != "" {
		config.Environment = env
	}

	// Report configuration
	if outputDir := os.Getenv("INDAGO_REPORT_OUTPUT_DIR"); outputDir != "" {
		config.Report.OutputDir = outputDir
	}
	if policy := os.Getenv("INDAGO_REPORT_POLICY"); policy != "" {
		config.Report.Policy = policy
	}

	// Cache configuration
	if enabled := os.Getenv("INDAGO_CACHE_ENABLED"); enabled != "" {
		if e, err := strconv.ParseBool(enabled); err == nil {
			config.Cache.Enabled = e
		}
	}
	if ttl := os.Getenv("INDAGO_CACHE_TTL"); ttl != "" {
		if _, err := time.ParseDuration(ttl); err == nil {
			config.Cache.TTL = ttl
		}
	}
	if namespace := os.Getenv("INDAGO_CACHE_NAMESPACE"); namespace != "" {
		config.Cache.Namespace = namespace
	}

	// Storage configuration
	if backend := os.Getenv("INDAGO_STORAGE_BACKEND"); backend != "" {
		config.Storage.Backend = backend
	}
	if badgerPath := os.Getenv("INDAGO_BADGER_PATH"); badgerPath != "" {
		config.Storage.Badger.Path = badgerPath
	}
	if redisAddr := os.Getenv("INDAGO_REDIS_ADDR"); redisAddr != "" {
		config.Storage.Redis.Addr = redisAddr
	}
	if redisPassword := os.Getenv("INDAGO_REDIS_PASSWORD"); redisPassword != "" {
		config.Storage.Redis.Password = redisPassword
	}
	if redisDB := os.Getenv("INDAGO_REDIS_DB"); redisDB != "" {
		if db, err := strconv.Atoi(redisDB); err == nil {
			config.Storage.Redis.DB = db
		}
	}

	// Logging configuration
	if level := os.Getenv("INDAGO_LOG_LEVEL"); level != "" {
		config.Logging.Level = level
	}
	if format := os.Getenv("INDAGO_LOG_FORMAT"); format != "" {
		config.Logging.Format = format
	}
	if output := os.Getenv("INDAGO_LOG_OUTPUT"); output != "" {
		// Split comma-separated output types
		outputs := []string{}
		for _, o := range strings.Split(output, ",") {
			trimmed := strings.TrimSpace(o)
			if trimmed != "" {
				outputs = append(outputs, trimmed)
			}
		}
		if len(outputs) > 0 {
			config.Logging.Output = outputs
		}
	}

	// Tavily configuration
	if apiKey := os.Getenv("TAVILY_API_KEY"); apiKey != "" {
		config.Tavily.APIKey = apiKey
	}
	if apiKey := os.Getenv("INDAGO_TAVILY_API_KEY"); apiKey != "" {
		config.Tavily.APIKey = apiKey // INDAGO_ prefix takes priority
	}
	if searchDepth := os.Getenv("INDAGO_TAVILY_SEARCH_DEPTH"); searchDepth != "" {
		config.Tavily.SearchDepth = searchDepth
	}

	// Yahoo configuration
	if baseURL := os.Getenv("INDAGO_YAHOO_BASE_URL"); baseURL != "" {
		config.Yahoo.BaseURL = baseURL
	}
	if userAgent := os.Getenv("INDAGO_YAHOO_USER_AGENT"); userAgent != "" {
		config.Yahoo.UserAgent = userAgent
	}
	if newsLimit := os.Getenv("INDAGO_YAHOO_NEWS_LIMIT"); newsLimit != "" {
		if nl, err := strconv.Atoi(newsLimit); err == nil {
			config.Yahoo.NewsLimit = nl
		}
	}

	// Gemini configuration
	if apiKey := os.Getenv("GEMINI_API_KEY"); apiKey != "" {
		config.Gemini.APIKey = apiKey
	}
	if apiKey := os.Getenv("INDAGO_GEMINI_API_KEY"); apiKey != "" {
		config.Gemini.APIKey = apiKey // INDAGO_ prefix takes priority
	}
	if model := os.Getenv("INDAGO_GEMINI_MODEL"); model != "" {
		config.Gemini.Model = model
	}
	if maxTurns := os.Getenv("INDAGO_GEMINI_MAX_TURNS"); maxTurns != "" {
		if mt, err := strconv.Atoi(maxTurns); err == nil {
			config.Gemini.MaxTurns = mt
		}
	}
	if timeout := os.Getenv("INDAGO_GEMINI_TIMEOUT"); timeout != "" {
		config.Gemini.Timeout = timeout
	}
	if rateLimit := os.Getenv("INDAGO_GEMINI_RATE_LIMIT"); rateLimit != "" {
		config.Gemini.RateLimit = rateLimit
	}
	if temperature := os.Getenv("INDAGO_GEMINI_TEMPERATURE"); temperature != "" {
		if t, err := strconv.ParseFloat(temperature, 32); err == nil {
			config.Gemini.Temperature = float32(t)
		}
	}

	// Claude configuration
	if apiKey := os.Getenv("ANTHROPIC_API_KEY"); apiKey != "" {
		config.Claude.APIKey = apiKey
	}
	if apiKey := os.Getenv("INDAGO_CLAUDE_API_KEY"); apiKey != "" {
		config.Claude.APIKey = apiKey // INDAGO_ prefix takes priority
	}
	if model := os.Getenv("INDAGO_CLAUDE_MODEL"); model != "" {
		config.Claude.Model = model
	}
	if maxTokens := os.Getenv("INDAGO_CLAUDE_MAX_TOKENS"); maxTokens != "" {
		if mt, err := strconv.Atoi(maxTokens); err == nil {
			config.Claude.MaxTokens = mt
		}
	}
	if timeout := os.Getenv("INDAGO_CLAUDE_TIMEOUT"); timeout != "" {
		config.Claude.Timeout = timeout
	}
	if rateLimit := os.Getenv("INDAGO_CLAUDE_RATE_LIMIT"); rateLimit != "" {
		config.Claude.RateLimit = rateLimit
	}
	if temperature := os.Getenv("INDAGO_CLAUDE_TEMPERATURE"); temperature != "" {
		if t, err := strconv.ParseFloat(temperature, 32); err == nil {
			config.Claude.Temperature = float32(t)
		}
	}

	// LLM provider configuration
	if provider := os.Getenv("INDAGO_LLM_DEFAULT_PROVIDER"); provider != "" {
		config.LLM.DefaultProvider = LLMProvider(provider)
	}

	// Render configuration
	if engine := os.Getenv("INDAGO_RENDER_ENGINE"); engine != "" {
		config.Render.Engine = engine
	}
	if chartJSSource := os.Getenv("CHARTJS_SRC"); chartJSSource != "" {
		config.Render.ChartJSSource = chartJSSource
	}

	// Email configuration
	if enabled := os.Getenv("INDAGO_EMAIL_ENABLED"); enabled != "" {
		if e, err := strconv.ParseBool(enabled); err == nil {
			config.Email.Enabled = e
		}
	}
	if host := os.Getenv("INDAGO_EMAIL_HOST"); host != "" {
		config.Email.Host = host
	}
	if port := os.Getenv("INDAGO_EMAIL_PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			config.Email.Port = p
		}
	}
	if username := os.Getenv("INDAGO_EMAIL_USERNAME"); username != "" {
		config.Email.Username = username
	}
	if password := os.Getenv("INDAGO_EMAIL_PASSWORD"); password != "" {
		config.Email.Password = password
	}
	if from := os.Getenv("INDAGO_EMAIL_FROM"); from != "" {
		config.Email.From = from
	}
	if to := os.Getenv("INDAGO_EMAIL_TO"); to != "" {
		recipients := []string{}
		for _, r := range strings.Split(to, ",") {
			trimmed := strings.TrimSpace(r)
			if trimmed != "" {
				recipients = append(recipients, trimmed)
			}
		}
		if len(recipients) > 0 {
			config.Email.To = recipients
		}
	}

	// Schedule configuration
	if schedule := os.Getenv("INDAGO_SCHEDULE_CRON"); schedule != "" {
		config.Schedule.Cron = schedule
	}
}

// ApplyFlagOverrides applies command-line flag overrides to config
func ApplyFlagOverrides(config *Config, outputDir, policy string, noCache bool) {
	// Command-line flags have highest priority
	if outputDir != "" {
		config.Report.OutputDir = outputDir
	}
	if policy != "" {
		config.Report.Policy = policy
	}
	if noCache {
		config.Cache.Enabled = false
	}
}

// ResolveAPIKey resolves an API key by name with environment variable priority
// Resolution order: environment variables, then KV store, then config fallback
// This ensures INDAGO_* environment variables always take precedence
func ResolveAPIKey(ctx context.Context, kvStorage interfaces.KeyValueStorage, name string, configFallback string) (string, error) {
	// Map of KV store key names to environment variable names.
	// Environment variables have highest priority; provider-standard names
	// are listed after the INDAGO_ prefixed ones.
	keyToEnvMapping := map[string][]string{
		"gemini_api_key": {"INDAGO_GEMINI_API_KEY", "GEMINI_API_KEY"},
		"claude_api_key": {"INDAGO_CLAUDE_API_KEY", "ANTHROPIC_API_KEY"},
		"tavily_api_key": {"INDAGO_TAVILY_API_KEY", "TAVILY_API_KEY"},
	}

	// Check environment variables (highest priority)
	if envVarNames, hasMappedEnv := keyToEnvMapping[name]; hasMappedEnv {
		for _, envVarName := range envVarNames {
			if envValue := os.Getenv(envVarName); envValue != "" {
				return envValue, nil
			}
		}
	}

	// Try to resolve from KV store (medium priority)
	if kvStorage != nil {
		apiKey, err := kvStorage.Get(ctx, name)
		if err == nil && apiKey != "" {
			return apiKey, nil
		}
	}

	// Fallback to config value (lowest priority)
	if configFallback != "" {
		return configFallback, nil
	}

	return "", fmt.Errorf("API key '%s' not found in environment, KV store, or config", name)
}

// CacheTTL returns the configured cache TTL, defaulting to one hour when
// the configured value does not parse.
func (c *Config) CacheTTL() time.Duration {
	if ttl, err := time.ParseDuration(c.Cache.TTL); err == nil && ttl > 0 {
		return ttl
	}
	return time.Hour
}

// ValidateSchedule validates a cron schedule expression and ensures minimum 5-minute interval
func ValidateSchedule(schedule string) error {
	// Parse the cron expression
	parser := cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)
	_, err := parser.Parse(schedule)
	if err != nil {
		return fmt.Errorf("invalid cron expression: %w", err)
	}

	// Check for minimum 5-minute interval
	// Validate minute field (first field in standard cron)
	parts := strings.Fields(schedule)
	if len(parts) < 5 {
		return fmt.Errorf("invalid cron format: expected 5 fields")
	}

	minuteField := parts[0]

	// Check for patterns that violate 5-minute minimum
	if minuteField == "*" {
		return fmt.Errorf("schedule must have minimum 5-minute interval (every minute is not allowed)")
	}

	// Check for */n patterns where n < 5
	if strings.HasPrefix(minuteField, "*/") {
		intervalStr := strings.TrimPrefix(minuteField, "*/")
		interval, err := strconv.Atoi(intervalStr)
		if err == nil && interval < 5 {
			return fmt.Errorf("schedule interval must be at least 5 minutes, got %d", interval)
		}
	}

	return nil
}

// IsProduction returns true if the environment is set to production
func (c *Config) IsProduction() bool {
	env := strings.ToLower(strings.TrimSpace(c.Environment))
	return env == "production" || env == "prod"
}
