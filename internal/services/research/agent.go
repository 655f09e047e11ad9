package research

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/ternarybob/arbor"
	"golang.org/x/time/rate"
	"google.golang.org/genai"

	"github.com/ternarybob/indago/internal/common"
	"github.com/ternarybob/indago/internal/interfaces"
	"github.com/ternarybob/indago/internal/models"
	"github.com/ternarybob/indago/internal/services/llm"
	"github.com/ternarybob/indago/internal/yahoo"
)

const defaultMaxTurns = 10

// Agent answers financial queries by driving Yahoo Finance tools through
// Gemini function calling. The model picks tools, the agent executes them
// and feeds results back until the model produces a final answer or the
// turn budget runs out.
//
// The agent always runs on Gemini regardless of the configured default
// chat provider: the tool loop depends on its function calling API.
type Agent struct {
	client   *genai.Client
	tools    *toolset
	model    string
	maxTurns int
	logger   arbor.ILogger
	limiter  *rate.Limiter
	timeout  time.Duration
	retry    *llm.RetryConfig
}

var _ interfaces.FinancialAgent = (*Agent)(nil)

// NewAgent creates a financial agent sharing the given Gemini client.
func NewAgent(client *genai.Client, yahooClient *yahoo.Client, scraper *ArticleScraper, config *common.GeminiConfig, newsLimit int, logger arbor.ILogger) (*Agent, error) {
	if client == nil {
		return nil, fmt.Errorf("gemini client is required")
	}
	if yahooClient == nil {
		return nil, fmt.Errorf("yahoo client is required")
	}

	model := config.Model
	if model == "" {
		model = "gemini-2.0-flash"
	}

	maxTurns := config.MaxTurns
	if maxTurns <= 0 {
		maxTurns = defaultMaxTurns
	}

	timeout := 5 * time.Minute
	if config.Timeout != "" {
		parsed, err := time.ParseDuration(config.Timeout)
		if err != nil {
			return nil, fmt.Errorf("invalid gemini timeout %q: %w", config.Timeout, err)
		}
		timeout = parsed
	}

	interval := 4 * time.Second
	if config.RateLimit != "" {
		parsed, err := time.ParseDuration(config.RateLimit)
		if err != nil {
			return nil, fmt.Errorf("invalid gemini rate limit %q: %w", config.RateLimit, err)
		}
		interval = parsed
	}

	logger.Info().
		Str("model", model).
		Int("max_turns", maxTurns).
		Msg("Financial agent initialized")

	return &Agent{
		client: client,
		tools: &toolset{
			yahoo:     yahooClient,
			scraper:   scraper,
			newsLimit: newsLimit,
			logger:    logger,
		},
		model:    model,
		maxTurns: maxTurns,
		logger:   logger,
		limiter:  rate.NewLimiter(rate.Every(interval), 1),
		timeout:  timeout,
		retry:    llm.NewDefaultRetryConfig(),
	}, nil
}

// Answer resolves one financial query through the tool loop.
//
// The result kind reflects how the loop ended: "chat" for a synthesized
// final answer, "news" when a news fetch was the last word and the model
// gave no closing text, and "text" when the turn budget ran out with raw
// tool output in hand.
func (a *Agent) Answer(ctx context.Context, query models.FinancialQuery) (models.FinancialResult, error) {
	ctx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	config := &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(
			fmt.Sprintf(financialAgentSystemPrompt, time.Now().Format("2006-01-02")), genai.RoleUser),
		Tools: []*genai.Tool{{FunctionDeclarations: a.tools.declarations()}},
	}

	contents := []*genai.Content{genai.NewContentFromText(query.Query, genai.RoleUser)}

	var (
		lastNews       []models.NewsItem
		lastToolOutput string
	)

	for turn := 0; turn < a.maxTurns; turn++ {
		resp, err := a.generate(ctx, contents, config)
		if err != nil {
			return models.FinancialResult{}, fmt.Errorf("financial agent query %q failed: %w", query.Query, err)
		}

		calls := resp.FunctionCalls()
		if len(calls) == 0 {
			text := extractText(resp)
			if text != "" {
				return models.FinancialResult{Kind: models.FinancialResultChat, Text: text}, nil
			}
			if len(lastNews) > 0 {
				return models.FinancialResult{Kind: models.FinancialResultNews, News: lastNews}, nil
			}
			return models.FinancialResult{}, fmt.Errorf("financial agent returned an empty answer for %q", query.Query)
		}

		if len(resp.Candidates) > 0 && resp.Candidates[0].Content != nil {
			contents = append(contents, resp.Candidates[0].Content)
		}

		parts := make([]*genai.Part, 0, len(calls))
		for _, call := range calls {
			a.logger.Debug().
				Str("tool", call.Name).
				Str("query", query.Query).
				Int("turn", turn).
				Msg("Executing financial tool")

			output, news := a.tools.dispatch(ctx, call.Name, call.Args)
			lastToolOutput = output
			if len(news) > 0 {
				lastNews = news
			}
			parts = append(parts, genai.NewPartFromFunctionResponse(call.Name, map[string]any{"result": output}))
		}
		contents = append(contents, genai.NewContentFromParts(parts, genai.RoleUser))
	}

	if len(lastNews) > 0 {
		return models.FinancialResult{Kind: models.FinancialResultNews, News: lastNews}, nil
	}
	if lastToolOutput != "" {
		return models.FinancialResult{Kind: models.FinancialResultText, Text: lastToolOutput}, nil
	}
	return models.FinancialResult{}, fmt.Errorf("financial agent exhausted %d turns for %q", a.maxTurns, query.Query)
}

// CompanyName resolves the long company name for a ticker with a direct
// lookup, no LLM involved. Failures fall back to the ticker itself so a
// report can still run under a degraded data connection.
func (a *Agent) CompanyName(ctx context.Context, ticker string) (string, error) {
	return a.tools.companyName(ctx, ticker), nil
}

// generate makes one model call with rate limiting and the shared retry
// backoff for quota errors.
func (a *Agent) generate(ctx context.Context, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
	var lastErr error

	for attempt := 0; attempt <= a.retry.MaxRetries; attempt++ {
		if err := a.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("rate limiter wait failed: %w", err)
		}

		resp, err := a.client.Models.GenerateContent(ctx, a.model, contents, config)
		if err == nil {
			return resp, nil
		}
		lastErr = err

		if attempt == a.retry.MaxRetries {
			break
		}

		var backoff time.Duration
		if llm.IsRateLimitError(err) {
			backoff = a.retry.CalculateBackoff(attempt, llm.ExtractRetryDelay(err))
			a.logger.Warn().
				Int("attempt", attempt+1).
				Dur("backoff", backoff).
				Err(err).
				Msg("Rate limit hit in financial agent, waiting before retry")
		} else {
			backoff = time.Duration(attempt+1) * 2 * time.Second
			a.logger.Warn().
				Int("attempt", attempt+1).
				Dur("backoff", backoff).
				Err(err).
				Msg("Retrying financial agent call")
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(backoff):
		}
	}

	return nil, lastErr
}

func extractText(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return ""
	}
	var b strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if part.Text != "" {
			b.WriteString(part.Text)
		}
	}
	return strings.TrimSpace(b.String())
}
