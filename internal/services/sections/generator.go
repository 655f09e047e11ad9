// Package sections generates the body text for each outline title from
// the formatted research context. Two policies share one per-section
// contract: the independent policy runs sections in small concurrent
// batches with no cross-section state, the content-aware policy runs
// strictly sequentially and feeds each call the sections generated
// before it so the model can vary chart types and build on earlier
// findings.
package sections

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
)

const (
	defaultBatchSize       = 3
	defaultBatchPause      = 3 * time.Second
	defaultSequentialPause = 2 * time.Second
)

// Generator produces section bodies for a report outline.
type Generator struct {
	llm      interfaces.LLMService
	retry    common.RetryPolicy
	config   common.SectionsConfig
	progress interfaces.ProgressNotifier
	logger   arbor.ILogger
}

// NewGenerator creates a section generator backed by the given LLM
// service. progress may be nil.
func NewGenerator(llmService interfaces.LLMService, retry common.RetryPolicy, config common.SectionsConfig, progress interfaces.ProgressNotifier, logger arbor.ILogger) *Generator {
	if config.BatchSize <= 0 {
		config.BatchSize = defaultBatchSize
	}
	if config.BatchPause <= 0 {
		config.BatchPause = defaultBatchPause
	}
	if config.SequentialPause <= 0 {
		config.SequentialPause = defaultSequentialPause
	}
	return &Generator{
		llm:      llmService,
		retry:    retry,
		config:   config,
		progress: progress,
		logger:   logger,
	}
}

// GenerateAll produces a body for every outline title under the given
// policy. The returned slice preserves outline order regardless of
// generation concurrency. A section that still fails after retries is
// fatal: a report with holes in it is worse than no report.
func (g *Generator) GenerateAll(ctx context.Context, policy models.GenerationPolicy, outline []string, companyName, researchContext string) ([]models.Section, error) {
	if len(outline) == 0 {
		return []models.Section{}, nil
	}

	if policy == models.PolicyIndependent {
		return g.runIndependent(ctx, outline, companyName, researchContext)
	}
	return g.runContentAware(ctx, outline, companyName, researchContext)
}

// Generate produces the body for a single section. priorText carries the
// previously generated sections for the content-aware policy and is
// ignored by the independent prompts; pass empty when there is none.
func (g *Generator) Generate(ctx context.Context, policy models.GenerationPolicy, title, companyName, researchContext, priorText string) (string, error) {
	date := currentDate()

	var system, user string
	if policy == models.PolicyIndependent {
		system = fmt.Sprintf(independentSystemPrompt, date, date)
		user = fmt.Sprintf(independentUserPrompt, companyName, title, researchContext, title)
	} else {
		system = fmt.Sprintf(contentAwareSystemPrompt, date, date)
		user = fmt.Sprintf(contentAwareUserPrompt, companyName, title, priorText, researchContext, title)
	}

	var content string
	err := g.retry.Do(ctx, fmt.Sprintf("generate section %q", title), func(ctx context.Context) error {
		reply, chatErr := g.llm.Chat(ctx, []interfaces.Message{
			{Role: "user", Content: user},
		}, interfaces.ChatOptions{System: system})
		if chatErr != nil {
			return chatErr
		}
		content = reply
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("failed to generate section %q: %w", title, err)
	}

	return strings.TrimSpace(content), nil
}

// runIndependent generates sections in concurrent batches. No section
// sees another's output, so batches can overlap their LLM calls freely;
// the pause between batches bounds the request rate.
func (g *Generator) runIndependent(ctx context.Context, outline []string, companyName, researchContext string) ([]models.Section, error) {
	contents := make([]string, len(outline))
	errs := make([]error, len(outline))

	batchSize := g.config.BatchSize
	for start := 0; start < len(outline); start += batchSize {
		end := start + batchSize
		if end > len(outline) {
			end = len(outline)
		}

		var wg sync.WaitGroup
		for i := start; i < end; i++ {
			g.notify(fmt.Sprintf("Generating section %d/%d: %s", i+1, len(outline), outline[i]))
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				contents[i], errs[i] = g.Generate(ctx, models.PolicyIndependent, outline[i], companyName, researchContext, "")
			}(i)
		}
		wg.Wait()

		for i := start; i < end; i++ {
			if errs[i] != nil {
				return nil, errs[i]
			}
		}

		if err := ctx.Err(); err != nil {
			return nil, err
		}

		if end < len(outline) {
			if err := g.pause(ctx, g.config.BatchPause); err != nil {
				return nil, err
			}
		}
	}

	sections := make([]models.Section, len(outline))
	for i, title := range outline {
		sections[i] = models.Section{Title: title, Content: contents[i]}
	}

	g.logger.Info().
		Int("sections", len(sections)).
		Str("policy", string(models.PolicyIndependent)).
		Msg("Section generation complete")

	return sections, nil
}

// runContentAware generates sections one at a time, accumulating each
// finished section under its own heading and passing the running text to
// the next call.
func (g *Generator) runContentAware(ctx context.Context, outline []string, companyName, researchContext string) ([]models.Section, error) {
	sections := make([]models.Section, 0, len(outline))
	var prior []string

	for i, title := range outline {
		g.notify(fmt.Sprintf("Generating section %d/%d: %s", i+1, len(outline), title))

		content, err := g.Generate(ctx, models.PolicyContentAware, title, companyName, researchContext, strings.Join(prior, "\n\n"))
		if err != nil {
			return nil, err
		}

		sections = append(sections, models.Section{Title: title, Content: content})
		prior = append(prior, "## "+title+"\n\n"+content)

		if i < len(outline)-1 {
			if err := g.pause(ctx, g.config.SequentialPause); err != nil {
				return nil, err
			}
		}
	}

	g.logger.Info().
		Int("sections", len(sections)).
		Str("policy", string(models.PolicyContentAware)).
		Msg("Section generation complete")

	return sections, nil
}

func (g *Generator) notify(message string) {
	if g.progress != nil {
		g.progress.Notify(models.ProgressEvent{Message: message})
	}
}

func (g *Generator) pause(ctx context.Context, d time.Duration) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(d):
		return nil
	}
}

func currentDate() string {
	return time.Now().Format("2006-01-02")
}
