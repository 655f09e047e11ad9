// Package framing generates the blocks that bracket the report body:
// the title-page opening and the executive summary. Both are single
// LLM completions wrapped in the HTML scaffolding the renderer relies
// on for pagination.
package framing

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/ternarybob/arbor"

	"github.com/ternarybob/indago/internal/common"
	"github.com/ternarybob/indago/internal/interfaces"
)

// Service produces the opening and executive summary blocks.
type Service struct {
	llm    interfaces.LLMService
	retry  common.RetryPolicy
	logger arbor.ILogger
}

// NewService creates a framing generator backed by the given LLM service.
func NewService(llmService interfaces.LLMService, retry common.RetryPolicy, logger arbor.ILogger) *Service {
	return &Service{
		llm:    llmService,
		retry:  retry,
		logger: logger,
	}
}

// Opening generates the title-page block: company header with investment
// stance, thesis, next steps, and quick stats, citing only the supplied
// research context. The reply's first line becomes the centered page
// title, followed by preparer and date metadata and a page break.
func (s *Service) Opening(ctx context.Context, companyName, ticker, researchContext string) (string, error) {
	date := currentDate()
	prompt := fmt.Sprintf(openingPrompt, companyName, ticker, date, companyName, ticker, companyName, ticker)
	full := fmt.Sprintf("%s\n\nAvailable Research Context (Cite using [1], [2], etc.):\n---\n%s\n---\n\nONLY output the content for the opening section, no other text or explanation. Generate the opening section now:", prompt, researchContext)

	raw, err := s.complete(ctx, "generate opening section", full)
	if err != nil {
		return "", fmt.Errorf("failed to generate opening section: %w", err)
	}

	s.logger.Info().
		Str("company", companyName).
		Str("ticker", ticker).
		Msg("Opening section generated")

	return formatOpening(strings.TrimSpace(raw), date), nil
}

// ExecutiveSummary synthesizes the assembled report body into an
// executive overview. It summarizes already-cited content, so the block
// itself carries no citations. The output is wrapped with a stable
// anchor and a trailing page break.
func (s *Service) ExecutiveSummary(ctx context.Context, companyName, ticker, reportBody string) (string, error) {
	prompt := fmt.Sprintf(executiveSummaryPrompt, companyName, ticker, currentDate())
	full := fmt.Sprintf("%s\n\nComplete Report Content for Analysis:\n---\n%s\n---\n\nONLY output the content for the executive summary, no other text or explanation. Generate the executive summary now:", prompt, reportBody)

	raw, err := s.complete(ctx, "generate executive summary", full)
	if err != nil {
		return "", fmt.Errorf("failed to generate executive summary: %w", err)
	}

	s.logger.Info().
		Str("company", companyName).
		Str("ticker", ticker).
		Msg("Executive summary generated")

	return fmt.Sprintf("<a id=\"executive-summary\"></a>\n\n## Executive Summary\n\n%s\n\n<div style=\"page-break-after: always;\"></div>\n\n---\n", strings.TrimSpace(raw)), nil
}

// complete runs a single-turn completion with retry.
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

// formatOpening lays out the title page. The first reply line is
// centered as the document title, the remaining lines keep their
// position under the preparer metadata, and a page break closes the
// block so the body starts on a fresh page.
func formatOpening(content, date string) string {
	lines := strings.Split(content, "\n")

	title := strings.ReplaceAll(lines[0], "## ", "")
	title = strings.ReplaceAll(title, "# ", "")

	rest := ""
	if len(lines) > 1 {
		rest = strings.Join(lines[1:], "\n")
	}

	var b strings.Builder
	b.WriteString("<div class=\"title-page-title\">\n")
	b.WriteString(title)
	b.WriteString("\n</div>")
	b.WriteString("\n\n<div class=\"title-page-info\">\n<strong>Prepared by Indago</strong><br>\n<strong>Date: ")
	b.WriteString(date)
	b.WriteString("</strong>\n</div>\n")
	b.WriteString(rest)
	b.WriteString("\n\n<div style='page-break-after: always;'></div>\n\n---\n")
	return b.String()
}

func currentDate() string {
	return time.Now().Format("2006-01-02")
}
