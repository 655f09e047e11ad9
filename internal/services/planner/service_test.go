package planner

import (
	"context"
	"errors"
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

func TestPlanOutline(t *testing.T) {
	stub := &stubLLM{replies: []string{"```json\n[\"1. Company Overview\", \"2. Financial Performance\", \"3. Risk Factors\"]\n```"}}
	svc := newTestService(stub)

	outline, err := svc.PlanOutline(context.Background(), "NVIDIA Corp.")
	require.NoError(t, err)

	assert.Equal(t, []string{"1. Company Overview", "2. Financial Performance", "3. Risk Factors"}, outline)
	require.Len(t, stub.prompts, 1)
	assert.Contains(t, stub.prompts[0], "NVIDIA Corp.")
}

func TestPlanOutlineFiltersReservedTitles(t *testing.T) {
	stub := &stubLLM{replies: []string{`["Executive Summary", "1. Company Overview", "2. Investment Thesis", "3. Valuation", "  "]`}}
	svc := newTestService(stub)

	outline, err := svc.PlanOutline(context.Background(), "Apple Inc.")
	require.NoError(t, err)

	assert.Equal(t, []string{"1. Company Overview", "3. Valuation"}, outline)
}

func TestPlanOutlineParseFailure(t *testing.T) {
	stub := &stubLLM{replies: []string{"I cannot produce a structure right now."}}
	svc := newTestService(stub)

	_, err := svc.PlanOutline(context.Background(), "Apple Inc.")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse report structure")
}

func TestPlanOutlineAllTitlesReserved(t *testing.T) {
	stub := &stubLLM{replies: []string{`["Executive Summary", "Investment Thesis"]`}}
	svc := newTestService(stub)

	_, err := svc.PlanOutline(context.Background(), "Apple Inc.")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no usable sections")
}

func TestPlanOutlineRetriesTransientError(t *testing.T) {
	stub := &stubLLM{
		errs:    []error{errors.New("rate limited")},
		replies: []string{"", `["1. Company Overview"]`},
	}
	svc := newTestService(stub)

	outline, err := svc.PlanOutline(context.Background(), "Tesla Inc.")
	require.NoError(t, err)
	assert.Equal(t, []string{"1. Company Overview"}, outline)
	assert.Equal(t, 2, stub.calls)
}

func TestPlanOutlineExhaustsRetries(t *testing.T) {
	stub := &stubLLM{errs: []error{errors.New("boom"), errors.New("boom")}}
	svc := newTestService(stub)

	_, err := svc.PlanOutline(context.Background(), "Tesla Inc.")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "after 2 attempts")
}

func TestPlanWebQueries(t *testing.T) {
	stub := &stubLLM{replies: []string{"```python\n['NVIDIA earnings call summary', 'NVDA analyst price targets', '']\n```"}}
	svc := newTestService(stub)

	outline := []string{"1. Company Overview", "2. Valuation"}
	queries, err := svc.PlanWebQueries(context.Background(), "NVIDIA Corp.", outline)
	require.NoError(t, err)

	assert.Equal(t, []string{"NVIDIA earnings call summary", "NVDA analyst price targets"}, queries)
	require.Len(t, stub.prompts, 1)
	assert.Contains(t, stub.prompts[0], `["1. Company Overview","2. Valuation"]`)
}

func TestPlanWebQueriesParseFailureDegrades(t *testing.T) {
	stub := &stubLLM{replies: []string{"no queries today"}}
	svc := newTestService(stub)

	queries, err := svc.PlanWebQueries(context.Background(), "NVIDIA Corp.", nil)
	require.NoError(t, err)
	assert.Empty(t, queries)
}

func TestPlanFinancialQueries(t *testing.T) {
	stub := &stubLLM{replies: []string{`[
		{"query": "get key stats for NVDA", "ticker": "NVDA"},
		{"query": "get recent financial news for NVDA"},
		{"query": "   "}
	]`}}
	svc := newTestService(stub)

	queries, err := svc.PlanFinancialQueries(context.Background(), "NVIDIA Corp.", "NVDA", []string{"1. Company Overview"})
	require.NoError(t, err)

	require.Len(t, queries, 2)
	assert.Equal(t, "get key stats for NVDA", queries[0].Query)
	assert.Equal(t, "NVDA", queries[0].Ticker)
	assert.Equal(t, "get recent financial news for NVDA", queries[1].Query)
	assert.Equal(t, "NVDA", queries[1].Ticker, "missing ticker should inherit the report ticker")
}

func TestPlanFinancialQueriesPythonLiteral(t *testing.T) {
	stub := &stubLLM{replies: []string{"[{'query': 'get the latest annual income statement for MSFT', 'ticker': 'MSFT'}]"}}
	svc := newTestService(stub)

	queries, err := svc.PlanFinancialQueries(context.Background(), "Microsoft", "MSFT", nil)
	require.NoError(t, err)
	require.Len(t, queries, 1)
	assert.Equal(t, "get the latest annual income statement for MSFT", queries[0].Query)
}

func TestPlanFinancialQueriesParseFailureDegrades(t *testing.T) {
	stub := &stubLLM{replies: []string{"```json\nnot even close\n```"}}
	svc := newTestService(stub)

	queries, err := svc.PlanFinancialQueries(context.Background(), "Microsoft", "MSFT", nil)
	require.NoError(t, err)
	assert.Empty(t, queries)
}

func TestIsReservedTitle(t *testing.T) {
	tests := []struct {
		title    string
		reserved bool
	}{
		{"Executive Summary", true},
		{"1. Executive Summary", true},
		{"10. Investment Thesis and Conclusion", true},
		{"1. Company Overview", false},
		{"Valuation Assessment", false},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.reserved, isReservedTitle(tt.title), tt.title)
	}
}

func TestPromptsIncludeCurrentDate(t *testing.T) {
	stub := &stubLLM{replies: []string{`["1. Company Overview"]`}}
	svc := newTestService(stub)

	_, err := svc.PlanOutline(context.Background(), "Apple Inc.")
	require.NoError(t, err)

	today := time.Now().Format("2006-01-02")
	require.Len(t, stub.prompts, 1)
	assert.True(t, strings.Contains(stub.prompts[0], today))
}
