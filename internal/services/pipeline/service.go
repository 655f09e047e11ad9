// Package pipeline orchestrates a full report run: cache check, company
// identification, outline and query planning, parallel retrieval,
// context formatting, section generation, framing, assembly, and export.
// Each stage completes before the next begins; parallelism lives inside
// the stages, not between them.
package pipeline

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/ternarybob/arbor"

	"github.com/ternarybob/indago/internal/common"
	"github.com/ternarybob/indago/internal/interfaces"
	"github.com/ternarybob/indago/internal/models"
	"github.com/ternarybob/indago/internal/services/assembler"
	"github.com/ternarybob/indago/internal/services/export"
	"github.com/ternarybob/indago/internal/services/framing"
	"github.com/ternarybob/indago/internal/services/mailer"
	"github.com/ternarybob/indago/internal/services/planner"
	"github.com/ternarybob/indago/internal/services/research"
	"github.com/ternarybob/indago/internal/services/sections"
	"github.com/ternarybob/indago/internal/services/sources"
)

// Dependencies collects the services a pipeline run drives. Cache may be
// nil when caching is disabled; Mailer may be nil when delivery is not
// configured.
type Dependencies struct {
	Planner   *planner.Service
	Research  *research.Service
	Agent     interfaces.FinancialAgent
	Sections  *sections.Generator
	Framing   *framing.Service
	Assembler *assembler.Assembler
	Cache     interfaces.ReportCache
	Exporter  *export.Service
	Mailer    *mailer.Service
}

// Service runs the report pipeline for one ticker at a time. The cache
// store is the only state shared across runs.
type Service struct {
	deps     Dependencies
	policy   models.GenerationPolicy
	useCache bool
	progress interfaces.ProgressNotifier
	logger   arbor.ILogger
}

// NewService creates the pipeline orchestrator. useCache false bypasses
// the research cache for both reads and writes. progress may be nil.
func NewService(deps Dependencies, policy models.GenerationPolicy, useCache bool, progress interfaces.ProgressNotifier, logger arbor.ILogger) *Service {
	return &Service{
		deps:     deps,
		policy:   policy,
		useCache: useCache,
		progress: progress,
		logger:   logger,
	}
}

// RunResult pairs a generated report with its export outcome.
type RunResult struct {
	Report   *models.Report
	Export   export.Result
	RunID    string
	Duration time.Duration
}

// researchBundle is everything a run needs before section generation,
// whether it came from the cache or from live planning and retrieval.
type researchBundle struct {
	companyName string
	outline     []string
	context     string
	registry    *sources.Registry
}

// Run generates, assembles, and exports the report for one ticker.
// Planning and generation failures return a nil result. An export
// failure returns both the completed result and the error, the caller
// still has the in-memory report.
func (s *Service) Run(ctx context.Context, ticker string) (*RunResult, error) {
	started := time.Now()

	ticker = strings.ToUpper(strings.TrimSpace(ticker))
	if ticker == "" {
		return nil, fmt.Errorf("ticker must not be empty")
	}

	runID := common.NewRunID()
	logger := s.logger.WithCorrelationId(runID)

	s.notify(fmt.Sprintf("Starting analysis for %s", ticker), map[string]interface{}{"run_id": runID})

	bundle, fromCache := s.loadResearch(ctx, ticker, logger)
	if !fromCache {
		var err error
		bundle, err = s.gatherResearch(ctx, ticker, logger)
		if err != nil {
			return nil, err
		}
	}

	s.notify("Generating content for each report section...", nil)
	sectionList, err := s.deps.Sections.GenerateAll(ctx, s.policy, bundle.outline, bundle.companyName, bundle.context)
	if err != nil {
		s.notify("Failed to generate report sections. Aborting.", nil)
		return nil, fmt.Errorf("failed to generate report sections: %w", err)
	}
	body := s.deps.Assembler.Body(sectionList)
	s.notify("All report sections generated.", nil)

	s.notify("Generating opening section as title page...", nil)
	opening, err := s.deps.Framing.Opening(ctx, bundle.companyName, ticker, bundle.context)
	if err != nil {
		s.notify("Failed to generate opening section. Aborting.", nil)
		return nil, fmt.Errorf("failed to generate opening section: %w", err)
	}

	s.notify("Generating executive summary...", nil)
	executiveSummary, err := s.deps.Framing.ExecutiveSummary(ctx, bundle.companyName, ticker, body)
	if err != nil {
		s.notify("Failed to generate executive summary. Aborting.", nil)
		return nil, fmt.Errorf("failed to generate executive summary: %w", err)
	}

	s.notify("Generating table of contents...", nil)
	s.notify("Generating references section...", nil)
	markdown := s.deps.Assembler.Assemble(opening, executiveSummary, bundle.outline, body, bundle.registry)
	s.notify("Final report assembly complete.", nil)

	report := &models.Report{
		Ticker:           ticker,
		CompanyName:      bundle.companyName,
		Outline:          bundle.outline,
		Sections:         sectionList,
		Opening:          opening,
		ExecutiveSummary: executiveSummary,
		Markdown:         markdown,
		CitedSources:     citedSources(body, bundle.registry),
		Policy:           s.policy,
		FromCache:        fromCache,
		GeneratedAt:      time.Now(),
	}

	result := &RunResult{Report: report, RunID: runID}

	exportResult, exportErr := s.deps.Exporter.Export(ctx, markdown, ticker, bundle.companyName)
	result.Export = exportResult
	result.Duration = time.Since(started)

	if exportErr == nil {
		s.deliver(ctx, report, exportResult, logger)
	}

	logger.Info().
		Str("ticker", ticker).
		Str("company", bundle.companyName).
		Int("sections", len(sectionList)).
		Bool("from_cache", fromCache).
		Bool("pdf", exportResult.PDFGenerated).
		Str("duration", result.Duration.String()).
		Msg("Report run complete")

	if exportErr != nil {
		return result, fmt.Errorf("report generated but not persisted: %w", exportErr)
	}
	return result, nil
}

// deliver emails the finished report when delivery is configured. A
// failed send never fails the run; the artifacts are already on disk.
func (s *Service) deliver(ctx context.Context, report *models.Report, exp export.Result, logger arbor.ILogger) {
	if s.deps.Mailer == nil || !s.deps.Mailer.Enabled() {
		return
	}

	pdfPath := ""
	if exp.PDFGenerated {
		pdfPath = exp.PDFPath
	}

	if err := s.deps.Mailer.SendReport(ctx, report, pdfPath, exp.MarkdownPath); err != nil {
		logger.Warn().Err(err).Str("ticker", report.Ticker).Msg("Report email delivery failed")
		return
	}
	s.notify("Report emailed", nil)
}

// loadResearch serves a run from the cache. The formatted context is
// rebuilt from the cached raw results so citation indices always come
// from the current formatting pass; the registry snapshot stored with
// the entry is for external readers, not for runs.
func (s *Service) loadResearch(ctx context.Context, ticker string, logger arbor.ILogger) (*researchBundle, bool) {
	if !s.useCache || s.deps.Cache == nil {
		return nil, false
	}

	cached, ok := s.deps.Cache.Get(ctx, ticker)
	if !ok {
		return nil, false
	}
	if cached.CompanyName == "" || len(cached.Structure) == 0 {
		logger.Warn().Str("ticker", ticker).Msg("Cached research bundle is unusable, regenerating")
		return nil, false
	}

	s.notify("Found cached data. Skipping data gathering and using cached content.", nil)
	s.notify("Using cached company name", map[string]interface{}{"company": cached.CompanyName})
	s.notify("Using cached web and financial results", nil)

	context, registry := sources.Format(cached.WebResults, cached.FinancialResults, cached.FinancialQueries)

	logger.Info().
		Str("ticker", ticker).
		Str("company", cached.CompanyName).
		Int("sources", registry.Len()).
		Msg("Using cached research bundle")

	return &researchBundle{
		companyName: cached.CompanyName,
		outline:     cached.Structure,
		context:     context,
		registry:    registry,
	}, true
}

// gatherResearch runs the full planning and retrieval path and caches
// the resulting bundle.
func (s *Service) gatherResearch(ctx context.Context, ticker string, logger arbor.ILogger) (*researchBundle, error) {
	companyName, err := s.deps.Agent.CompanyName(ctx, ticker)
	if err != nil || strings.TrimSpace(companyName) == "" {
		companyName = ticker
	}
	s.notify("Identified company", map[string]interface{}{"company": companyName})

	s.notify("Generating report structure...", nil)
	outline, err := s.deps.Planner.PlanOutline(ctx, companyName)
	if err != nil {
		s.notify("Failed to generate report structure. Aborting.", nil)
		return nil, fmt.Errorf("failed to generate report structure: %w", err)
	}
	if len(outline) == 0 {
		s.notify("Failed to generate report structure. Aborting.", nil)
		return nil, fmt.Errorf("report structure came back empty for %s", companyName)
	}
	s.notify("Report structure generated", map[string]interface{}{"outline": outline})

	s.notify("Generating research queries for web and financial data...", nil)

	var (
		webQueries []string
		finQueries []models.FinancialQuery
		webErr     error
		finErr     error
		wg         sync.WaitGroup
	)
	wg.Add(2)
	go func() {
		defer wg.Done()
		webQueries, webErr = s.deps.Planner.PlanWebQueries(ctx, companyName, outline)
	}()
	go func() {
		defer wg.Done()
		finQueries, finErr = s.deps.Planner.PlanFinancialQueries(ctx, companyName, ticker, outline)
	}()
	wg.Wait()

	if webErr != nil {
		s.notify("Failed to generate research queries. Aborting.", nil)
		return nil, fmt.Errorf("failed to generate web queries: %w", webErr)
	}
	if finErr != nil {
		s.notify("Failed to generate research queries. Aborting.", nil)
		return nil, fmt.Errorf("failed to generate financial queries: %w", finErr)
	}

	if len(webQueries) > 0 {
		s.notify("Generated web search queries", map[string]interface{}{"queries": webQueries})
	}
	if len(finQueries) > 0 {
		s.notify("Generated financial data queries", map[string]interface{}{"queries": finQueries})
	}

	s.notify("Gathering data from web and financial sources...", nil)

	var (
		webResults [][]models.WebResult
		finResults []models.FinancialResult
	)
	wg.Add(2)
	go func() {
		defer wg.Done()
		webResults, webErr = s.deps.Research.RunWebSearches(ctx, webQueries)
	}()
	go func() {
		defer wg.Done()
		finResults, finErr = s.deps.Research.RunFinancialQueries(ctx, finQueries)
	}()
	wg.Wait()

	// Retrieval only errors on context cancellation; per-query failures
	// ride along inside the result slices.
	if webErr != nil {
		s.notify("Data gathering interrupted. Aborting.", nil)
		return nil, fmt.Errorf("web research aborted: %w", webErr)
	}
	if finErr != nil {
		s.notify("Data gathering interrupted. Aborting.", nil)
		return nil, fmt.Errorf("financial research aborted: %w", finErr)
	}
	s.notify("Data gathering complete.", nil)

	s.notify("Formatting and consolidating research data...", nil)
	context, registry := sources.Format(webResults, finResults, finQueries)

	if s.useCache && s.deps.Cache != nil {
		s.deps.Cache.Set(ctx, ticker, &models.CachedResearch{
			CompanyName:      companyName,
			Structure:        outline,
			Context:          context,
			WebResults:       webResults,
			FinancialResults: finResults,
			WebQueries:       webQueries,
			FinancialQueries: finQueries,
			Sources:          registry.Snapshot(),
		})
	}

	logger.Info().
		Str("ticker", ticker).
		Str("company", companyName).
		Int("web_queries", len(webQueries)).
		Int("financial_queries", len(finQueries)).
		Int("sources", registry.Len()).
		Msg("Research gathering complete")

	return &researchBundle{
		companyName: companyName,
		outline:     outline,
		context:     context,
		registry:    registry,
	}, nil
}

// RegenerateContext rebuilds the formatted context for a ticker from
// cached raw results and refreshes the stored bundle. Useful when the
// formatting logic changed but the research is still fresh. Returns
// false when nothing usable is cached.
func (s *Service) RegenerateContext(ctx context.Context, ticker string) (string, bool) {
	if s.deps.Cache == nil {
		return "", false
	}

	ticker = strings.ToUpper(strings.TrimSpace(ticker))
	cached, ok := s.deps.Cache.Get(ctx, ticker)
	if !ok {
		return "", false
	}
	if len(cached.WebResults) == 0 && len(cached.FinancialResults) == 0 {
		return "", false
	}

	context, registry := sources.Format(cached.WebResults, cached.FinancialResults, cached.FinancialQueries)
	cached.Context = context
	cached.Sources = registry.Snapshot()
	s.deps.Cache.Set(ctx, ticker, cached)

	return context, true
}

// citedSources resolves the body's citation markers against the registry
// for the report record. Unresolvable indices are left out here; the
// references section still renders placeholders for them.
func citedSources(body string, registry *sources.Registry) map[int]models.SourceRef {
	cited := assembler.ExtractCitedNumbers(body)
	if len(cited) == 0 {
		return nil
	}

	refs := make(map[int]models.SourceRef)
	for _, n := range cited {
		if ref, ok := registry.Lookup(n); ok {
			refs[n] = ref
		}
	}
	return refs
}

func (s *Service) notify(message string, data map[string]interface{}) {
	if s.progress != nil {
		s.progress.Notify(models.ProgressEvent{Message: message, Data: data})
	}
}
