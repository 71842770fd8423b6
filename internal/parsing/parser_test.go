package parsing

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/coverme/internal/llm"
	"github.com/jonathan/coverme/internal/llm/llmtest"
	"github.com/jonathan/coverme/internal/types"
)

const postingWithSections = `Senior Backend Engineer at Acme

Responsibilities:
- Design Go services on AWS
- Mentor engineers

Requirements:
- 5+ years with PostgreSQL`

func quietLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func newTestParser(client llm.Client) *Parser {
	return NewParser(client, WithLogger(quietLogger()))
}

func TestParse_InputMissing(t *testing.T) {
	fake := llmtest.New()
	p := newTestParser(fake)

	for _, raw := range []string{"", "   ", "\n\t"} {
		outcome, err := p.Parse(context.Background(), raw)
		assert.ErrorIs(t, err, ErrInputMissing)
		assert.Nil(t, outcome)
	}
	assert.Empty(t, fake.Calls(), "no model call may happen for blank input")
}

func TestParse_AISuccess(t *testing.T) {
	fake := llmtest.New().
		On(llm.TierLite, "en", nil).
		On(llm.TierStandard, "```json\n"+`{"title":"Senior Backend Engineer","company":"Acme","responsibilities":["Design Go services on AWS","Mentor engineers"],"requirements":["5+ years with PostgreSQL"]}`+"\n```", nil)
	p := newTestParser(fake)

	outcome, err := p.Parse(context.Background(), postingWithSections)
	require.NoError(t, err)

	r := outcome.Result
	assert.Equal(t, types.MethodAI, r.Method)
	assert.Equal(t, "Senior Backend Engineer", r.TitleOrEmpty())
	assert.Equal(t, "Acme", r.CompanyOrEmpty())
	assert.Equal(t, []string{"Design Go services on AWS", "Mentor engineers"}, r.Responsibilities)
	assert.Equal(t, []string{"5+ years with PostgreSQL"}, r.Requirements)
	assert.Equal(t, []string{"AWS", "PostgreSQL"}, r.Keywords)
	assert.Equal(t, "en", r.Language)
	// title 1 + company 1 + 2/3 + 1/3
	assert.InDelta(t, 3.0/4, r.Confidence, 1e-9)
	assert.True(t, outcome.AIAvailable)
	assert.NoError(t, outcome.AIError)

	calls := fake.Calls()
	require.Len(t, calls, 2)
	assert.Equal(t, llm.TierLite, calls[0].Tier, "language detection runs first")
	assert.Equal(t, llm.TierStandard, calls[1].Tier)
	for _, c := range calls {
		assert.Equal(t, llm.TemperatureDeterministic, c.Temperature)
	}
	assert.True(t, calls[1].JSON)
}

func TestParse_ExtractionCallFails(t *testing.T) {
	netErr := errors.New("dial tcp: connection refused")
	fake := llmtest.New().
		On(llm.TierLite, "es", nil).
		On(llm.TierStandard, "", netErr)
	p := newTestParser(fake)

	outcome, err := p.Parse(context.Background(), postingWithSections)
	require.NoError(t, err)

	r := outcome.Result
	assert.Equal(t, types.MethodHeuristic, r.Method)
	assert.False(t, outcome.AIAvailable)
	require.Error(t, outcome.AIError)
	assert.ErrorIs(t, outcome.AIError, netErr)
	assert.Nil(t, r.Title)
	assert.Nil(t, r.Company)
	assert.Equal(t, []string{"Design Go services on AWS", "Mentor engineers"}, r.Responsibilities)
	assert.Equal(t, []string{"5+ years with PostgreSQL"}, r.Requirements)
	assert.Equal(t, "es", r.Language)

	resp := outcome.Response()
	require.NotNil(t, resp.AIError)
	assert.Contains(t, *resp.AIError, "connection refused")
}

func TestParse_RateLimitedExtraction(t *testing.T) {
	fake := llmtest.New().
		On(llm.TierLite, "en", nil).
		On(llm.TierStandard, "", llm.NewRateLimitError(llm.ProviderGemini, errors.New("quota"), 0))
	p := newTestParser(fake)

	outcome, err := p.Parse(context.Background(), postingWithSections)
	require.NoError(t, err)
	assert.False(t, outcome.AIAvailable)
	assert.True(t, llm.IsRateLimited(outcome.AIError))
	assert.Equal(t, types.MethodHeuristic, outcome.Result.Method)
}

func TestParse_MergesHeuristicIntoEmptyAIList(t *testing.T) {
	raw := "Responsibilities\n- Build APIs\n- Review code\nRequirements\n- Something else"
	fake := llmtest.New().
		On(llm.TierLite, "en", nil).
		On(llm.TierStandard, `{"title":"Senior Engineer","company":null,"responsibilities":[],"requirements":["5+ years"]}`, nil)
	p := newTestParser(fake)

	outcome, err := p.Parse(context.Background(), raw)
	require.NoError(t, err)

	r := outcome.Result
	assert.Equal(t, types.MethodHeuristic, r.Method)
	assert.Equal(t, []string{"Build APIs", "Review code"}, r.Responsibilities)
	assert.Equal(t, []string{"5+ years"}, r.Requirements, "non-empty AI list is never overwritten")
	assert.Equal(t, "Senior Engineer", r.TitleOrEmpty())
	assert.Nil(t, r.Company, "company is never backfilled")
	assert.True(t, outcome.AIAvailable)
	assert.Nil(t, outcome.AIError)
}

func TestParse_MalformedJSON(t *testing.T) {
	fake := llmtest.New().
		On(llm.TierLite, "en", nil).
		On(llm.TierStandard, "Sorry, I can't help with that.", nil)
	p := newTestParser(fake)

	outcome, err := p.Parse(context.Background(), postingWithSections)
	require.NoError(t, err)

	r := outcome.Result
	assert.True(t, outcome.AIAvailable, "malformed JSON is not a call failure")
	assert.Nil(t, outcome.AIError)
	assert.Nil(t, r.Title)
	assert.Equal(t, types.MethodHeuristic, r.Method)
	assert.Equal(t, []string{"Design Go services on AWS", "Mentor engineers"}, r.Responsibilities)
}

func TestParse_MalformedJSONWithoutStructure(t *testing.T) {
	fake := llmtest.New().
		On(llm.TierLite, "en", nil).
		On(llm.TierStandard, `{"responsibilities": "not a list"}`, nil)
	p := newTestParser(fake)

	outcome, err := p.Parse(context.Background(), "Just a sentence about a job.")
	require.NoError(t, err)

	r := outcome.Result
	assert.NotNil(t, r.Responsibilities)
	assert.NotNil(t, r.Requirements)
	assert.Empty(t, r.Responsibilities)
	assert.Empty(t, r.Requirements)
	assert.Equal(t, 0.0, r.Confidence)
}

func TestParse_LanguageDetectionFallsBack(t *testing.T) {
	tests := []struct {
		name   string
		answer string
		err    error
		want   string
	}{
		{"call failure", "", errors.New("timeout"), DefaultLanguage},
		{"unrecognized answer", "123 maybe", nil, DefaultLanguage},
		{"uppercase code", "ES", nil, "es"},
		{"regional tag", "pt-BR", nil, "pt"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fake := llmtest.New().
				On(llm.TierLite, tt.answer, tt.err).
				On(llm.TierStandard, `{"title":"Engineer","company":"Acme","responsibilities":["a"],"requirements":["b"]}`, nil)
			p := newTestParser(fake)

			outcome, err := p.Parse(context.Background(), postingWithSections)
			require.NoError(t, err)
			assert.Equal(t, tt.want, outcome.Result.Language)
			assert.True(t, outcome.AIAvailable, "language failures never affect ai_available")
			assert.Equal(t, types.MethodAI, outcome.Result.Method)
		})
	}
}

func TestParse_WithoutClient(t *testing.T) {
	p := newTestParser(nil)

	outcome, err := p.Parse(context.Background(), postingWithSections)
	require.NoError(t, err)
	assert.False(t, outcome.AIAvailable)
	assert.ErrorIs(t, outcome.AIError, ErrAIUnavailable)
	assert.Equal(t, DefaultLanguage, outcome.Result.Language)
	assert.Equal(t, types.MethodHeuristic, outcome.Result.Method)
	assert.Len(t, outcome.Result.Responsibilities, 2)
}

func TestOutcomeResponse_WireShape(t *testing.T) {
	fake := llmtest.New().
		On(llm.TierLite, "en", nil).
		On(llm.TierStandard, `{}`, nil)
	p := newTestParser(fake)

	outcome, err := p.Parse(context.Background(), "No sections here at all.")
	require.NoError(t, err)

	data, err := json.Marshal(outcome.Response())
	require.NoError(t, err)

	var wire map[string]any
	require.NoError(t, json.Unmarshal(data, &wire))
	assert.Contains(t, wire, "ai_error")
	assert.Nil(t, wire["ai_error"])
	assert.Equal(t, true, wire["ai_available"])
	assert.Equal(t, 0.0, wire["confidence"])

	parsed := wire["parsed"].(map[string]any)
	assert.Nil(t, parsed["title"])
	assert.Nil(t, parsed["company"])
	assert.Equal(t, []any{}, parsed["responsibilities"])
	assert.Equal(t, []any{}, parsed["requirements"])
	assert.Equal(t, []any{}, parsed["keywords"])
	assert.Equal(t, "en", parsed["language"])
}

func TestParse_CallTimeoutApplied(t *testing.T) {
	fake := llmtest.New().
		On(llm.TierLite, "en", nil).
		On(llm.TierStandard, `{}`, nil)
	p := NewParser(fake, WithLogger(quietLogger()), WithCallTimeout(1))

	// a 1ns budget expires before the fake answers
	outcome, err := p.Parse(context.Background(), postingWithSections)
	require.NoError(t, err)
	assert.False(t, outcome.AIAvailable)
	assert.ErrorIs(t, outcome.AIError, context.DeadlineExceeded)
	assert.Equal(t, DefaultLanguage, outcome.Result.Language)
}
