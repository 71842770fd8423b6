// Package parsing turns pasted job descriptions into structured extraction
// results, combining a model-based extractor with a heuristic fallback.
package parsing

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/jonathan/coverme/internal/llm"
	"github.com/jonathan/coverme/internal/types"
)

// ErrAIUnavailable is reported as the extraction failure when the parser
// runs without a model client.
var ErrAIUnavailable = errors.New("AI extraction is not configured")

// Outcome is the result of one parse, including how the model behaved
type Outcome struct {
	Result types.ExtractionResult
	// AIAvailable is false when the extraction call failed
	AIAvailable bool
	// AIError is the extraction call failure, nil otherwise
	AIError error
}

// Response converts the outcome to its wire form
func (o *Outcome) Response() types.ParseJobResponse {
	resp := types.ParseJobResponse{
		Parsed:      o.Result,
		Confidence:  o.Result.Confidence,
		AIAvailable: o.AIAvailable,
	}
	if o.AIError != nil {
		resp.AIError = types.StringPtr(o.AIError.Error())
	}
	return resp
}

// Parser orchestrates language detection, model extraction, heuristic
// merging and scoring. It holds no per-request state.
type Parser struct {
	client      llm.Client
	logger      logrus.FieldLogger
	callTimeout time.Duration
}

// Option configures a Parser
type Option func(*Parser)

// WithLogger sets the logger used for degradation warnings
func WithLogger(logger logrus.FieldLogger) Option {
	return func(p *Parser) { p.logger = logger }
}

// WithCallTimeout bounds each model call. Zero leaves only the caller's deadline.
func WithCallTimeout(d time.Duration) Option {
	return func(p *Parser) { p.callTimeout = d }
}

// NewParser creates a parser. A nil client runs every parse on the
// heuristic path.
func NewParser(client llm.Client, opts ...Option) *Parser {
	p := &Parser{
		client: client,
		logger: logrus.StandardLogger(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Parse extracts a job description. Blank input fails with ErrInputMissing
// before any model call; every other failure degrades the result instead
// of failing it.
func (p *Parser) Parse(ctx context.Context, raw string) (*Outcome, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, ErrInputMissing
	}

	lang := p.language(ctx, raw)

	outcome := &Outcome{AIAvailable: true}
	result := &outcome.Result
	result.Method = types.MethodAI

	ext, err := p.extract(ctx, raw)
	if err != nil {
		p.logger.WithError(err).Warn("AI extraction failed, using heuristic parser")
		h := ExtractHeuristic(raw)
		result.Method = types.MethodHeuristic
		result.Responsibilities = h.Responsibilities
		result.Requirements = h.Requirements
		outcome.AIAvailable = false
		outcome.AIError = err
	} else {
		result.Title = ext.Title
		result.Company = ext.Company
		result.Responsibilities = nonNil(ext.Responsibilities)
		result.Requirements = nonNil(ext.Requirements)
		mergeHeuristic(result, raw)
	}

	result.Keywords = ExtractKeywords(result.Responsibilities, result.Requirements)
	result.Confidence = ScoreResult(result)
	result.Language = lang

	p.logger.WithFields(logrus.Fields{
		"method":           result.Method,
		"language":         result.Language,
		"confidence":       result.Confidence,
		"responsibilities": len(result.Responsibilities),
		"requirements":     len(result.Requirements),
	}).Debug("job description parsed")

	return outcome, nil
}

// mergeHeuristic fills empty model lists from the heuristic extractor. A
// non-empty model list is never replaced, and title and company are never
// backfilled. Any substitution marks the result heuristic.
func mergeHeuristic(result *types.ExtractionResult, raw string) {
	if len(result.Responsibilities) > 0 && len(result.Requirements) > 0 {
		return
	}

	h := ExtractHeuristic(raw)
	if len(result.Responsibilities) == 0 {
		result.Responsibilities = h.Responsibilities
		result.Method = types.MethodHeuristic
	}
	if len(result.Requirements) == 0 {
		result.Requirements = h.Requirements
		result.Method = types.MethodHeuristic
	}
}

func (p *Parser) language(ctx context.Context, raw string) string {
	if p.client == nil {
		return DefaultLanguage
	}
	callCtx, cancel := p.callContext(ctx)
	defer cancel()

	lang, err := p.detectLanguage(callCtx, raw)
	if err != nil {
		p.logger.WithError(err).Debug("language detection failed, defaulting")
		return DefaultLanguage
	}
	return lang
}

func (p *Parser) extract(ctx context.Context, raw string) (aiExtraction, error) {
	if p.client == nil {
		return aiExtraction{}, ErrAIUnavailable
	}
	callCtx, cancel := p.callContext(ctx)
	defer cancel()

	ext, malformed, err := p.extractWithAI(callCtx, raw)
	if err != nil {
		return aiExtraction{}, err
	}
	if malformed != nil {
		p.logger.WithError(malformed).Warn("AI extraction returned malformed JSON, treating as empty")
	}
	return ext, nil
}

func (p *Parser) callContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if p.callTimeout > 0 {
		return context.WithTimeout(ctx, p.callTimeout)
	}
	return context.WithCancel(ctx)
}

func nonNil(items []string) []string {
	if items == nil {
		return []string{}
	}
	return items
}
