// Package app wires configuration, storage, provider clients, and the
// report services shared by the CLI and MCP binaries.
package app

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/ternarybob/arbor"

	"github.com/ternarybob/indago/internal/common"
	"github.com/ternarybob/indago/internal/interfaces"
	"github.com/ternarybob/indago/internal/models"
	"github.com/ternarybob/indago/internal/services/assembler"
	"github.com/ternarybob/indago/internal/services/cache"
	"github.com/ternarybob/indago/internal/services/export"
	"github.com/ternarybob/indago/internal/services/framing"
	"github.com/ternarybob/indago/internal/services/llm"
	"github.com/ternarybob/indago/internal/services/mailer"
	"github.com/ternarybob/indago/internal/services/pdf"
	"github.com/ternarybob/indago/internal/services/pipeline"
	"github.com/ternarybob/indago/internal/services/planner"
	"github.com/ternarybob/indago/internal/services/render"
	"github.com/ternarybob/indago/internal/services/research"
	"github.com/ternarybob/indago/internal/services/sections"
	"github.com/ternarybob/indago/internal/storage/badger"
	"github.com/ternarybob/indago/internal/storage/redis"
	"github.com/ternarybob/indago/internal/tavily"
	"github.com/ternarybob/indago/internal/yahoo"
)

// App holds the wired application components.
type App struct {
	Config *common.Config
	Logger arbor.ILogger

	// KVStorage and Cache are nil when the configured backend could not
	// be opened; report runs then proceed without caching.
	KVStorage interfaces.KeyValueStorage
	Cache     *cache.Service

	Pipeline *pipeline.Service
	Mailer   *mailer.Service
}

// New initializes the application with all dependencies. progress
// receives pipeline stage events and may be nil.
func New(config *common.Config, logger arbor.ILogger, progress interfaces.ProgressNotifier) (*App, error) {
	app := &App{
		Config: config,
		Logger: logger,
	}

	app.initStorage()

	if err := app.initServices(progress); err != nil {
		return nil, fmt.Errorf("failed to initialize services: %w", err)
	}

	return app, nil
}

// NewCacheTools initializes only the storage-backed cache, for cache
// management commands that do not need provider clients or API keys.
func NewCacheTools(config *common.Config, logger arbor.ILogger) *App {
	app := &App{
		Config: config,
		Logger: logger,
	}
	app.initStorage()
	return app
}

// initStorage opens the configured key-value backend. A backend that
// cannot be opened disables caching rather than failing startup; the
// report pipeline must run without it.
func (a *App) initStorage() {
	switch a.Config.Storage.Backend {
	case "redis":
		store, err := redis.NewKVStorage(a.Logger, &a.Config.Storage.Redis)
		if err != nil {
			a.Logger.Warn().
				Err(err).
				Str("addr", a.Config.Storage.Redis.Addr).
				Msg("Redis unavailable, caching disabled")
			return
		}
		a.KVStorage = store
	default:
		db, err := badger.NewBadgerDB(a.Logger, &a.Config.Storage.Badger)
		if err != nil {
			a.Logger.Warn().
				Err(err).
				Str("path", a.Config.Storage.Badger.Path).
				Msg("Badger store unavailable, caching disabled")
			return
		}
		a.KVStorage = badger.NewKVStorage(db, a.Logger)
	}

	a.Cache = cache.NewService(a.KVStorage, a.Config.Cache, a.Logger)

	a.Logger.Debug().
		Str("backend", a.Config.Storage.Backend).
		Msg("Storage layer initialized")
}

// initServices builds the provider clients and assembles the pipeline.
func (a *App) initServices(progress interfaces.ProgressNotifier) error {
	ctx := context.Background()
	cfg := a.Config

	llmService, err := llm.NewService(cfg, a.KVStorage, a.Logger)
	if err != nil {
		return fmt.Errorf("failed to create LLM service: %w", err)
	}

	// The financial agent drives Yahoo tools through Gemini function
	// calling, so a Gemini key is required even when Claude handles
	// text generation.
	genaiClient, err := llm.NewGeminiClient(ctx, &cfg.Gemini, a.KVStorage)
	if err != nil {
		return fmt.Errorf("failed to create Gemini client for financial agent: %w", err)
	}

	tavilyClient, err := a.newTavilyClient(ctx)
	if err != nil {
		return err
	}
	yahooClient := a.newYahooClient()

	scraper := research.NewArticleScraper(cfg.Yahoo.UserAgent, a.Logger)
	agent, err := research.NewAgent(genaiClient, yahooClient, scraper, &cfg.Gemini, cfg.Yahoo.NewsLimit, a.Logger)
	if err != nil {
		return fmt.Errorf("failed to create financial agent: %w", err)
	}

	retry := common.NewRetryPolicy(cfg.Retry)
	search := research.NewTavilySearch(tavilyClient, cfg.Research.MaxSearchResults, cfg.Tavily.SearchDepth, a.Logger)

	renderer := a.newRenderer()
	a.Logger.Debug().
		Str("renderer", renderer.Name()).
		Str("policy", cfg.Report.Policy).
		Msg("Report services initialized")

	a.Mailer = mailer.NewService(cfg.Email, a.Logger)

	deps := pipeline.Dependencies{
		Planner:   planner.NewService(llmService, retry, a.Logger),
		Research:  research.NewService(search, agent, cfg.Research, a.Logger),
		Agent:     agent,
		Sections:  sections.NewGenerator(llmService, retry, cfg.Sections, progress, a.Logger),
		Framing:   framing.NewService(llmService, retry, a.Logger),
		Assembler: assembler.New(a.Logger),
		Exporter:  export.NewService(renderer, cfg.Report, cfg.Render, progress, a.Logger),
		Mailer:    a.Mailer,
	}
	if a.Cache != nil {
		deps.Cache = a.Cache
	}

	useCache := cfg.Cache.Enabled && a.Cache != nil
	policy := models.GenerationPolicy(cfg.Report.Policy)

	a.Pipeline = pipeline.NewService(deps, policy, useCache, progress, a.Logger)

	return nil
}

// newTavilyClient resolves the API key and builds the web search client.
func (a *App) newTavilyClient(ctx context.Context) (*tavily.Client, error) {
	cfg := a.Config.Tavily

	apiKey, err := common.ResolveAPIKey(ctx, a.KVStorage, "tavily_api_key", cfg.APIKey)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve Tavily API key: %w", err)
	}

	opts := []tavily.ClientOption{tavily.WithLogger(a.Logger)}
	if cfg.BaseURL != "" {
		opts = append(opts, tavily.WithBaseURL(cfg.BaseURL))
	}
	if d, err := time.ParseDuration(cfg.Timeout); err == nil && d > 0 {
		opts = append(opts, tavily.WithHTTPClient(&http.Client{Timeout: d}))
	}
	if d, err := time.ParseDuration(cfg.RateLimit); err == nil && d > 0 {
		opts = append(opts, tavily.WithRequestInterval(d))
	}

	return tavily.NewClient(apiKey, opts...), nil
}

// newYahooClient builds the market data client.
func (a *App) newYahooClient() *yahoo.Client {
	cfg := a.Config.Yahoo

	opts := []yahoo.ClientOption{yahoo.WithLogger(a.Logger)}
	if cfg.BaseURL != "" {
		opts = append(opts, yahoo.WithBaseURL(cfg.BaseURL))
	}
	if cfg.UserAgent != "" {
		opts = append(opts, yahoo.WithUserAgent(cfg.UserAgent))
	}
	if d, err := time.ParseDuration(cfg.Timeout); err == nil && d > 0 {
		opts = append(opts, yahoo.WithHTTPClient(&http.Client{Timeout: d}))
	}
	if d, err := time.ParseDuration(cfg.RateLimit); err == nil && d > 0 {
		opts = append(opts, yahoo.WithRequestInterval(d))
	}

	return yahoo.NewClient(opts...)
}

// newRenderer selects the PDF engine. Chrome covers full HTML and chart
// rendering; fpdf is the pure-Go fallback for environments without a
// browser.
func (a *App) newRenderer() interfaces.DocumentRenderer {
	switch a.Config.Render.Engine {
	case "fpdf":
		return pdf.NewRenderer(a.Logger)
	default:
		return render.NewChromeRenderer(a.Config.Render, a.Logger)
	}
}

// Close releases application resources.
func (a *App) Close() error {
	if a.KVStorage != nil {
		if err := a.KVStorage.Close(); err != nil {
			a.Logger.Warn().Err(err).Msg("Failed to close storage")
			return err
		}
	}
	return nil
}
