package sections

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ternarybob/indago/internal/common"
	"github.com/ternarybob/indago/internal/interfaces"
	"github.com/ternarybob/indago/internal/models"
)

// stubLLM shapes replies from the request so concurrent calls stay
// deterministic, and records enough to assert on prompts and overlap.
type stubLLM struct {
	mu          sync.Mutex
	calls       int
	inFlight    int
	maxInFlight int
	users       []string
	systems     []string
	delay       time.Duration
	reply       func(call int, user string) (string, error)
}

func (s *stubLLM) Chat(_ context.Context, messages []interfaces.Message, opts interfaces.ChatOptions) (string, error) {
	s.mu.Lock()
	call := s.calls
	s.calls++
	s.inFlight++
	if s.inFlight > s.maxInFlight {
		s.maxInFlight = s.inFlight
	}
	user := ""
	if len(messages) > 0 {
		user = messages[len(messages)-1].Content
	}
	s.users = append(s.users, user)
	s.systems = append(s.systems, opts.System)
	delay := s.delay
	fn := s.reply
	s.mu.Unlock()

	if delay > 0 {
		time.Sleep(delay)
	}

	s.mu.Lock()
	s.inFlight--
	s.mu.Unlock()

	return fn(call, user)
}

func (s *stubLLM) HealthCheck(context.Context) error { return nil }
func (s *stubLLM) Close() error                      { return nil }

var sectionTitleRe = regexp.MustCompile(`Report Section to write: "([^"]+)"`)

// replyByTitle answers every request with a body derived from the
// requested section title.
func replyByTitle(_ int, user string) (string, error) {
	m := sectionTitleRe.FindStringSubmatch(user)
	if m == nil {
		return "", errors.New("no section title in prompt")
	}
	return "Analysis of " + m[1] + "\n", nil
}

func fastConfig() common.SectionsConfig {
	return common.SectionsConfig{
		BatchSize:       2,
		BatchPause:      time.Millisecond,
		SequentialPause: time.Millisecond,
	}
}

func fastRetry() common.RetryPolicy {
	return common.RetryPolicy{MaxAttempts: 2, InitialDelay: time.Millisecond, MaxDelay: time.Millisecond}
}

func newTestGenerator(stub *stubLLM, progress interfaces.ProgressNotifier) *Generator {
	return NewGenerator(stub, fastRetry(), fastConfig(), progress, common.GetLogger())
}

func TestGenerateAllContentAware(t *testing.T) {
	stub := &stubLLM{reply: replyByTitle}
	gen := newTestGenerator(stub, nil)

	outline := []string{"1. Company Overview", "2. Valuation", "3. Risk Factors"}
	sections, err := gen.GenerateAll(context.Background(), models.PolicyContentAware, outline, "NVIDIA Corp.", "Source [1]:\nsome research")
	require.NoError(t, err)
	require.Len(t, sections, 3)

	for i, title := range outline {
		assert.Equal(t, title, sections[i].Title)
		assert.Equal(t, "Analysis of "+title, sections[i].Content)
	}

	// Sequential generation, one call per section.
	require.Equal(t, 3, stub.calls)
	assert.Equal(t, 1, stub.maxInFlight)
}

func TestContentAwarePassesPriorSections(t *testing.T) {
	stub := &stubLLM{reply: replyByTitle}
	gen := newTestGenerator(stub, nil)

	outline := []string{"1. Overview", "2. Risks"}
	_, err := gen.GenerateAll(context.Background(), models.PolicyContentAware, outline, "Apple Inc.", "ctx")
	require.NoError(t, err)
	require.Len(t, stub.users, 2)

	// The first call has an empty previous-sections block.
	assert.Contains(t, stub.users[0], "Previous Sections Content (for context and flow):\n---\n\n---")

	// The second call carries the first section under its own heading.
	assert.Contains(t, stub.users[1], "## 1. Overview\n\nAnalysis of 1. Overview")
}

func TestContentAwareUsesSequentialPrompts(t *testing.T) {
	stub := &stubLLM{reply: replyByTitle}
	gen := newTestGenerator(stub, nil)

	_, err := gen.GenerateAll(context.Background(), models.PolicyContentAware, []string{"1. Overview"}, "Apple Inc.", "ctx")
	require.NoError(t, err)
	require.Len(t, stub.systems, 1)

	assert.Contains(t, stub.systems[0], "Previous Sections Integration (CRITICAL)")
	assert.Contains(t, stub.systems[0], "680px wide by 510px tall")
	assert.Contains(t, stub.systems[0], time.Now().Format("2006-01-02"))
}

func TestGenerateAllIndependentBatches(t *testing.T) {
	stub := &stubLLM{reply: replyByTitle, delay: 20 * time.Millisecond}
	gen := newTestGenerator(stub, nil)

	outline := []string{"1. A", "2. B", "3. C", "4. D", "5. E"}
	sections, err := gen.GenerateAll(context.Background(), models.PolicyIndependent, outline, "NVIDIA Corp.", "ctx")
	require.NoError(t, err)
	require.Len(t, sections, 5)

	for i, title := range outline {
		assert.Equal(t, title, sections[i].Title)
		assert.Equal(t, "Analysis of "+title, sections[i].Content)
	}

	assert.Equal(t, 5, stub.calls)
	assert.LessOrEqual(t, stub.maxInFlight, 2, "batch size bounds concurrent calls")
	assert.Greater(t, stub.maxInFlight, 1, "sections within a batch overlap")
}

func TestIndependentUsesBatchPrompts(t *testing.T) {
	stub := &stubLLM{reply: replyByTitle}
	gen := newTestGenerator(stub, nil)

	_, err := gen.GenerateAll(context.Background(), models.PolicyIndependent, []string{"1. Overview"}, "Apple Inc.", "research body")
	require.NoError(t, err)
	require.Len(t, stub.systems, 1)
	require.Len(t, stub.users, 1)

	assert.Contains(t, stub.systems[0], "760px wide by 560px tall")
	assert.NotContains(t, stub.systems[0], "Previous Sections Integration")
	assert.Contains(t, stub.users[0], "Company: Apple Inc.")
	assert.Contains(t, stub.users[0], `Report Section to write: "1. Overview"`)
	assert.Contains(t, stub.users[0], "research body")
	assert.NotContains(t, stub.users[0], "Previous Sections Content")
}

func TestGenerateAllSectionFailureIsFatal(t *testing.T) {
	stub := &stubLLM{reply: func(call int, user string) (string, error) {
		if strings.Contains(user, `"2. Bad"`) {
			return "", errors.New("model overloaded")
		}
		return replyByTitle(call, user)
	}}
	gen := newTestGenerator(stub, nil)

	sections, err := gen.GenerateAll(context.Background(), models.PolicyIndependent, []string{"1. Good", "2. Bad"}, "Apple Inc.", "ctx")
	require.Error(t, err)
	assert.Nil(t, sections)
	assert.Contains(t, err.Error(), `failed to generate section "2. Bad"`)
}

func TestGenerateRetriesTransientError(t *testing.T) {
	stub := &stubLLM{reply: func(call int, user string) (string, error) {
		if call == 0 {
			return "", errors.New("rate limited")
		}
		return replyByTitle(call, user)
	}}
	gen := newTestGenerator(stub, nil)

	content, err := gen.Generate(context.Background(), models.PolicyContentAware, "3. Valuation", "Apple Inc.", "ctx", "")
	require.NoError(t, err)
	assert.Equal(t, "Analysis of 3. Valuation", content)
	assert.Equal(t, 2, stub.calls)
}

func TestGenerateAllEmptyOutline(t *testing.T) {
	stub := &stubLLM{reply: replyByTitle}
	gen := newTestGenerator(stub, nil)

	sections, err := gen.GenerateAll(context.Background(), models.PolicyContentAware, nil, "Apple Inc.", "ctx")
	require.NoError(t, err)
	assert.Empty(t, sections)
	assert.Zero(t, stub.calls)
}

func TestGenerateAllEmitsProgress(t *testing.T) {
	stub := &stubLLM{reply: replyByTitle}

	var mu sync.Mutex
	var messages []string
	progress := interfaces.ProgressFunc(func(event models.ProgressEvent) {
		mu.Lock()
		messages = append(messages, event.Message)
		mu.Unlock()
	})
	gen := newTestGenerator(stub, progress)

	outline := []string{"1. Overview", "2. Risks"}
	_, err := gen.GenerateAll(context.Background(), models.PolicyContentAware, outline, "Apple Inc.", "ctx")
	require.NoError(t, err)

	require.Len(t, messages, 2)
	assert.Equal(t, fmt.Sprintf("Generating section 1/2: %s", outline[0]), messages[0])
	assert.Equal(t, fmt.Sprintf("Generating section 2/2: %s", outline[1]), messages[1])
}

func TestGenerateAllCancelled(t *testing.T) {
	stub := &stubLLM{reply: replyByTitle}
	gen := newTestGenerator(stub, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := gen.GenerateAll(ctx, models.PolicyContentAware, []string{"1. Overview"}, "Apple Inc.", "ctx")
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}
