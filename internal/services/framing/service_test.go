package framing

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ternarybob/indago/internal/common"
	"github.com/ternarybob/indago/internal/interfaces"
)

// stubLLM replays canned responses and records the prompts it received.
type stubLLM struct {
	replies []string
	errs    []error
	prompts []string
	calls   int
}

func (s *stubLLM) Chat(_ context.Context, messages []interfaces.Message, _ interfaces.ChatOptions) (string, error) {
	if len(messages) > 0 {
		s.prompts = append(s.prompts, messages[len(messages)-1].Content)
	}
	i := s.calls
	s.calls++
	if i < len(s.errs) && s.errs[i] != nil {
		return "", s.errs[i]
	}
	if i < len(s.replies) {
		return s.replies[i], nil
	}
	return "", errors.New("no canned reply")
}

func (s *stubLLM) HealthCheck(context.Context) error { return nil }
func (s *stubLLM) Close() error                      { return nil }

func fastRetry() common.RetryPolicy {
	return common.RetryPolicy{MaxAttempts: 2, InitialDelay: time.Millisecond, MaxDelay: time.Millisecond}
}

func newTestService(stub *stubLLM) *Service {
	return NewService(stub, fastRetry(), common.GetLogger())
}

func TestOpening(t *testing.T) {
	reply := "## NVIDIA Corp. (NVDA) – LONG\n\n**Thesis**: Datacenter demand keeps growing [1].\n\n**Quick stats**: Market cap $3T [2]."
	stub := &stubLLM{replies: []string{reply}}
	svc := newTestService(stub)

	opening, err := svc.Opening(context.Background(), "NVIDIA Corp.", "NVDA", "Source [1]:\nresearch")
	require.NoError(t, err)

	date := time.Now().Format("2006-01-02")
	assert.True(t, strings.HasPrefix(opening, "<div class=\"title-page-title\">\nNVIDIA Corp. (NVDA) – LONG\n</div>"), "first reply line becomes the centered title")
	assert.Contains(t, opening, "<strong>Prepared by Indago</strong>")
	assert.Contains(t, opening, fmt.Sprintf("<strong>Date: %s</strong>", date))
	assert.Contains(t, opening, "**Thesis**: Datacenter demand keeps growing [1].")
	assert.True(t, strings.HasSuffix(opening, "<div style='page-break-after: always;'></div>\n\n---\n"))

	require.Len(t, stub.prompts, 1)
	assert.Contains(t, stub.prompts[0], "NVIDIA Corp.")
	assert.Contains(t, stub.prompts[0], "(NVDA)")
	assert.Contains(t, stub.prompts[0], "Available Research Context (Cite using [1], [2], etc.):")
	assert.Contains(t, stub.prompts[0], "Source [1]:\nresearch")
	assert.Contains(t, stub.prompts[0], "Generate the opening section now:")
}

func TestOpeningTitleOnlyReply(t *testing.T) {
	stub := &stubLLM{replies: []string{"# Apple Inc. (AAPL) – HOLD"}}
	svc := newTestService(stub)

	opening, err := svc.Opening(context.Background(), "Apple Inc.", "AAPL", "ctx")
	require.NoError(t, err)

	assert.Contains(t, opening, "<div class=\"title-page-title\">\nApple Inc. (AAPL) – HOLD\n</div>")
	assert.Contains(t, opening, "Prepared by Indago")
	assert.True(t, strings.HasSuffix(opening, "<div style='page-break-after: always;'></div>\n\n---\n"))
}

func TestOpeningRetriesTransientError(t *testing.T) {
	stub := &stubLLM{
		errs:    []error{errors.New("rate limited"), nil},
		replies: []string{"", "## Tesla, Inc. (TSLA) – SHORT"},
	}
	svc := newTestService(stub)

	opening, err := svc.Opening(context.Background(), "Tesla, Inc.", "TSLA", "ctx")
	require.NoError(t, err)
	assert.Contains(t, opening, "Tesla, Inc. (TSLA) – SHORT")
	assert.Equal(t, 2, stub.calls)
}

func TestOpeningExhaustsRetries(t *testing.T) {
	stub := &stubLLM{errs: []error{errors.New("overloaded"), errors.New("overloaded")}}
	svc := newTestService(stub)

	_, err := svc.Opening(context.Background(), "Apple Inc.", "AAPL", "ctx")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to generate opening section")
	assert.Equal(t, 2, stub.calls)
}

func TestExecutiveSummary(t *testing.T) {
	stub := &stubLLM{replies: []string{"**Investment Recommendation**: LONG with high confidence.\n"}}
	svc := newTestService(stub)

	summary, err := svc.ExecutiveSummary(context.Background(), "NVIDIA Corp.", "NVDA", "## 1. Overview\n\nbody")
	require.NoError(t, err)

	want := "<a id=\"executive-summary\"></a>\n\n## Executive Summary\n\n**Investment Recommendation**: LONG with high confidence.\n\n<div style=\"page-break-after: always;\"></div>\n\n---\n"
	assert.Equal(t, want, summary)

	require.Len(t, stub.prompts, 1)
	assert.Contains(t, stub.prompts[0], "Complete Report Content for Analysis:")
	assert.Contains(t, stub.prompts[0], "## 1. Overview\n\nbody")
	assert.Contains(t, stub.prompts[0], "Generate the executive summary now:")
}

func TestExecutiveSummaryExhaustsRetries(t *testing.T) {
	stub := &stubLLM{errs: []error{errors.New("overloaded"), errors.New("overloaded")}}
	svc := newTestService(stub)

	_, err := svc.ExecutiveSummary(context.Background(), "Apple Inc.", "AAPL", "body")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to generate executive summary")
}
