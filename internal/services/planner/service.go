// Package planner derives the research plan for a report: the section
// outline, the web search queries, and the financial data queries. Each
// plan is produced by a single LLM call whose output is parsed from JSON
// (or Python literal syntax, which some models emit despite instructions).
package planner

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/ternarybob/arbor"

	"github.com/ternarybob/indago/internal/common"
	"github.com/ternarybob/indago/internal/interfaces"
	"github.com/ternarybob/indago/internal/models"
	"github.com/ternarybob/indago/internal/services/llm"
)

// numericPrefixRegex matches leading list numbers like "3." or "10" in
// section titles.
var numericPrefixRegex = regexp.MustCompile(`^\d+\.?\s*`)

// Service plans the outline and retrieval queries for a report run.
type Service struct {
	llm    interfaces.LLMService
	retry  common.RetryPolicy
	logger arbor.ILogger
}

// NewService creates a planner backed by the given LLM service.
func NewService(llmService interfaces.LLMService, retry common.RetryPolicy, logger arbor.ILogger) *Service {
	return &Service{
		llm:    llmService,
		retry:  retry,
		logger: logger,
	}
}

// PlanOutline generates the ordered list of section titles for the report.
// The model is asked for 8-10 numbered titles. Titles naming the executive
// summary or an investment thesis are filtered out because those blocks
// are generated separately and prepended during assembly.
//
// A plan that cannot be parsed is fatal: without an outline there is
// nothing to research or generate.
func (s *Service) PlanOutline(ctx context.Context, companyName string) ([]string, error) {
	prompt := fmt.Sprintf(reportStructurePrompt, companyName, currentDate(), companyName)

	raw, err := s.complete(ctx, "plan report structure", prompt)
	if err != nil {
		return nil, err
	}

	var titles []string
	if err := llm.ParseResponse(raw, &titles); err != nil {
		return nil, fmt.Errorf("failed to parse report structure: %w", err)
	}

	outline := make([]string, 0, len(titles))
	for _, title := range titles {
		title = strings.TrimSpace(title)
		if title == "" || isReservedTitle(title) {
			continue
		}
		outline = append(outline, title)
	}

	if len(outline) == 0 {
		return nil, fmt.Errorf("report structure for %s contained no usable sections", companyName)
	}

	s.logger.Info().
		Str("company", companyName).
		Int("sections", len(outline)).
		Msg("Report structure planned")

	return outline, nil
}

// PlanWebQueries generates keyword-focused web search queries covering the
// outline. Unparseable output degrades to an empty plan rather than
// failing the run; sections can still be generated from financial data.
func (s *Service) PlanWebQueries(ctx context.Context, companyName string, outline []string) ([]string, error) {
	structure := formatOutline(outline)
	prompt := fmt.Sprintf(webQueriesPrompt, companyName, structure, currentDate(), companyName, structure)

	raw, err := s.complete(ctx, "plan web queries", prompt)
	if err != nil {
		return nil, err
	}

	var parsed []string
	if err := llm.ParseResponse(raw, &parsed); err != nil {
		s.logger.Warn().
			Err(err).
			Str("company", companyName).
			Msg("Web query plan could not be parsed, continuing without web research")
		return []string{}, nil
	}

	queries := make([]string, 0, len(parsed))
	for _, q := range parsed {
		q = strings.TrimSpace(q)
		if q == "" {
			continue
		}
		queries = append(queries, q)
	}

	s.logger.Info().
		Str("company", companyName).
		Int("queries", len(queries)).
		Msg("Web queries planned")

	return queries, nil
}

// PlanFinancialQueries generates self-contained questions for the
// financial data agent. Entries missing a ticker inherit the report
// ticker. Unparseable output degrades to an empty plan.
func (s *Service) PlanFinancialQueries(ctx context.Context, companyName, ticker string, outline []string) ([]models.FinancialQuery, error) {
	structure := formatOutline(outline)
	prompt := fmt.Sprintf(financialQueriesPrompt, companyName, ticker, structure, currentDate(), companyName, ticker, structure)

	raw, err := s.complete(ctx, "plan financial queries", prompt)
	if err != nil {
		return nil, err
	}

	var parsed []models.FinancialQuery
	if err := llm.ParseResponse(raw, &parsed); err != nil {
		s.logger.Warn().
			Err(err).
			Str("company", companyName).
			Msg("Financial query plan could not be parsed, continuing without financial research")
		return []models.FinancialQuery{}, nil
	}

	queries := make([]models.FinancialQuery, 0, len(parsed))
	for _, q := range parsed {
		q.Query = strings.TrimSpace(q.Query)
		if q.Query == "" {
			continue
		}
		if q.Ticker == "" {
			q.Ticker = ticker
		}
		queries = append(queries, q)
	}

	s.logger.Info().
		Str("company", companyName).
		Str("ticker", ticker).
		Int("queries", len(queries)).
		Msg("Financial queries planned")

	return queries, nil
}

// complete runs a single-turn completion with retry. Only the LLM call is
// retried; parse failures are handled by the callers because retrying the
// same prompt rarely fixes malformed output.
func (s *Service) complete(ctx context.Context, operation, prompt string) (string, error) {
	var raw string
	err := s.retry.Do(ctx, operation, func(ctx context.Context) error {
		out, chatErr := s.llm.Chat(ctx, []interfaces.Message{{Role: "user", Content: prompt}}, interfaces.ChatOptions{})
		if chatErr != nil {
			return chatErr
		}
		raw = out
		return nil
	})
	if err != nil {
		return "", err
	}
	return raw, nil
}

// isReservedTitle reports whether a planned title names a block that is
// generated outside the section pipeline.
func isReservedTitle(title string) bool {
	t := numericPrefixRegex.ReplaceAllString(strings.ToLower(strings.TrimSpace(title)), "")
	return strings.Contains(t, "executive summary") || strings.Contains(t, "investment thesis")
}

// formatOutline renders the outline as a JSON array for prompt
// interpolation.
func formatOutline(outline []string) string {
	b, err := json.Marshal(outline)
	if err != nil {
		return strings.Join(outline, ", ")
	}
	return string(b)
}

func currentDate() string {
	return time.Now().Format("2006-01-02")
}
