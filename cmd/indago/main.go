package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/ternarybob/arbor"

	"github.com/ternarybob/indago/internal/app"
	"github.com/ternarybob/indago/internal/common"
	"github.com/ternarybob/indago/internal/interfaces"
	"github.com/ternarybob/indago/internal/models"
	"github.com/ternarybob/indago/internal/services/pipeline"
	"github.com/ternarybob/indago/internal/services/scheduler"
)

// configPaths is a custom flag type that allows multiple -config flags
type configPaths []string

func (c *configPaths) String() string {
	return fmt.Sprintf("%v", *c)
}

func (c *configPaths) Set(value string) error {
	*c = append(*c, value)
	return nil
}

var (
	configFiles  configPaths // Multiple -config flags supported
	outputDir    = flag.String("output", "", "Report output directory (overrides config)")
	policy       = flag.String("policy", "", "Section generation policy: content-aware or independent (overrides config)")
	noCache      = flag.Bool("no-cache", false, "Bypass the research cache for this run")
	clearCache   = flag.Bool("clear-cache", false, "Clear cached research for the given tickers, or everything when none are given")
	cacheStats   = flag.Bool("cache-stats", false, "Print cache statistics and exit")
	scheduleExpr = flag.String("schedule", "", "Cron expression for scheduled regeneration of the given tickers")
	showVersion  = flag.Bool("version", false, "Print version information")
	showVersionV = flag.Bool("v", false, "Print version information (shorthand)")
)

func init() {
	// Register custom flag for multiple config files
	flag.Var(&configFiles, "config", "Configuration file path (can be specified multiple times, later files override earlier ones)")
	flag.Var(&configFiles, "c", "Configuration file path (shorthand)")

	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "Usage: %s [flags] TICKER [TICKER...]\n\n", os.Args[0])
		fmt.Fprintf(flag.CommandLine.Output(), "Generates an investment research report per ticker.\n\nFlags:\n")
		flag.PrintDefaults()
	}
}

func main() {
	flag.Parse()

	if *showVersion || *showVersionV {
		fmt.Printf("Indago version %s\n", common.GetFullVersion())
		os.Exit(0)
	}

	// Auto-discover config file if not specified
	if len(configFiles) == 0 {
		if _, err := os.Stat("indago.toml"); err == nil {
			configFiles = append(configFiles, "indago.toml")
		}
	}

	// Load configuration (defaults -> file1 -> file2 -> ... -> env),
	// then apply CLI overrides (highest priority)
	config, err := common.LoadFromFiles(configFiles...)
	if err != nil {
		tempLogger := arbor.NewLogger()
		tempLogger.Fatal().Strs("paths", configFiles).Err(err).Msg("Failed to load configuration")
		os.Exit(1)
	}
	common.ApplyFlagOverrides(config, *outputDir, *policy, *noCache)

	logger := common.InitLogger(config)
	common.PrintBanner(common.GetVersion())

	tickers := flag.Args()

	// Cache inspection and bulk clearing need storage only, not
	// provider clients
	if *cacheStats {
		os.Exit(runCacheStats(config, logger))
	}
	if *clearCache && len(tickers) == 0 {
		os.Exit(runClearAll(config, logger))
	}

	if len(tickers) == 0 {
		flag.Usage()
		fmt.Fprintln(flag.CommandLine.Output(), "\nat least one ticker is required")
		os.Exit(2)
	}

	application, err := app.New(config, logger, progressLogger(logger))
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to initialize application")
		os.Exit(1)
	}
	defer application.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// -clear-cache with tickers forces fresh research for this run
	if *clearCache {
		clearTickers(ctx, application, tickers)
	}

	cron := *scheduleExpr
	if cron == "" && config.Schedule.Enabled {
		cron = config.Schedule.Cron
	}
	if cron != "" {
		os.Exit(runScheduled(ctx, application, cron, tickers))
	}

	os.Exit(runOnce(ctx, application, tickers))
}

// runOnce generates one report per ticker and reports the outcome.
func runOnce(ctx context.Context, application *app.App, tickers []string) int {
	logger := application.Logger

	runs := application.Pipeline.RunAll(ctx, tickers)
	for _, run := range runs {
		if run.Err != nil {
			logger.Error().Err(run.Err).Str("ticker", run.Ticker).Msg("Report failed")
			continue
		}
		logger.Info().
			Str("ticker", run.Result.Report.Ticker).
			Str("markdown", run.Result.Export.MarkdownPath).
			Bool("pdf", run.Result.Export.PDFGenerated).
			Str("duration", run.Result.Duration.String()).
			Msg("Report complete")
	}

	if failed := pipeline.FailedCount(runs); failed > 0 {
		logger.Error().Int("failed", failed).Int("total", len(runs)).Msg("Some reports failed")
		return 1
	}
	return 0
}

// runScheduled keeps the process alive, regenerating the tickers on the
// cron schedule. The first cycle runs immediately.
func runScheduled(ctx context.Context, application *app.App, cron string, tickers []string) int {
	logger := application.Logger

	sched := scheduler.NewService(application.Pipeline, tickers, logger)
	if err := sched.Start(cron); err != nil {
		logger.Error().Err(err).Str("schedule", cron).Msg("Failed to start scheduler")
		return 1
	}

	if err := sched.TriggerNow(); err != nil {
		logger.Warn().Err(err).Msg("Initial refresh could not be triggered")
	}

	logger.Info().Msg("Scheduler running - Press Ctrl+C to stop")
	<-ctx.Done()

	logger.Info().Msg("Shutting down scheduler")
	if err := sched.Stop(); err != nil {
		logger.Error().Err(err).Msg("Scheduler shutdown failed")
		return 1
	}
	return 0
}

// runCacheStats prints cache statistics.
func runCacheStats(config *common.Config, logger arbor.ILogger) int {
	application := app.NewCacheTools(config, logger)
	defer application.Close()

	if application.Cache == nil {
		logger.Error().Msg("Cache storage is not available")
		return 1
	}

	stats, err := application.Cache.Stats(context.Background())
	if err != nil {
		logger.Error().Err(err).Msg("Failed to read cache statistics")
		return 1
	}

	fmt.Printf("Cached tickers: %d\n", stats.Entries)
	if len(stats.Tickers) > 0 {
		fmt.Printf("  %s\n", strings.Join(stats.Tickers, ", "))
	}
	return 0
}

// runClearAll removes every cached research bundle.
func runClearAll(config *common.Config, logger arbor.ILogger) int {
	application := app.NewCacheTools(config, logger)
	defer application.Close()

	if application.Cache == nil {
		logger.Error().Msg("Cache storage is not available")
		return 1
	}

	if err := application.Cache.ClearAll(context.Background()); err != nil {
		logger.Error().Err(err).Msg("Failed to clear cache")
		return 1
	}

	logger.Info().Msg("Cache cleared")
	return 0
}

// clearTickers drops cached research for the given tickers so the
// subsequent runs gather fresh data.
func clearTickers(ctx context.Context, application *app.App, tickers []string) {
	if application.Cache == nil {
		return
	}
	for _, ticker := range tickers {
		normalized := strings.ToUpper(strings.TrimSpace(ticker))
		if err := application.Cache.ClearTicker(ctx, normalized); err != nil {
			application.Logger.Warn().Err(err).Str("ticker", normalized).Msg("Failed to clear cached research")
		}
	}
}

// progressLogger adapts pipeline progress events to log lines.
func progressLogger(logger arbor.ILogger) interfaces.ProgressNotifier {
	return interfaces.ProgressFunc(func(event models.ProgressEvent) {
		entry := logger.Info()
		for key, value := range event.Data {
			switch v := value.(type) {
			case string:
				entry = entry.Str(key, v)
			case int:
				entry = entry.Int(key, v)
			case []string:
				entry = entry.Strs(key, v)
			default:
				entry = entry.Str(key, fmt.Sprintf("%v", v))
			}
		}
		entry.Msg(event.Message)
	})
}
