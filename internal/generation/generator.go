// Package generation writes cover letters from a parsed job description
// and a candidate profile.
package generation

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/jonathan/coverme/internal/llm"
	"github.com/jonathan/coverme/internal/parsing"
	"github.com/jonathan/coverme/internal/prompts"
	"github.com/jonathan/coverme/internal/types"
)

// Defaults applied to an empty GenerationConfig field
const (
	DefaultTone     = "formal"
	DefaultLength   = "medium"
	DefaultTemplate = "standard"
)

// lengthGuidance expands known lengths into word targets for the prompt.
var lengthGuidance = map[string]string{
	"short":  "short (150-200 words)",
	"medium": "medium (250-350 words)",
	"long":   "long (400-500 words)",
}

// ErrGenerationFailed marks every generation failure
var ErrGenerationFailed = errors.New("cover letter generation failed")

// GenerationError carries the reason a letter could not be produced
type GenerationError struct {
	Details string
	Cause   error
}

func (e *GenerationError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%v: %s: %v", ErrGenerationFailed, e.Details, e.Cause)
	}
	return fmt.Sprintf("%v: %s", ErrGenerationFailed, e.Details)
}

// Is makes errors.Is(err, ErrGenerationFailed) hold for every GenerationError
func (e *GenerationError) Is(target error) bool {
	return target == ErrGenerationFailed
}

func (e *GenerationError) Unwrap() error {
	return e.Cause
}

// Generator produces letters with a single creative completion call
type Generator struct {
	client      llm.Client
	logger      logrus.FieldLogger
	callTimeout time.Duration
}

// Option configures a Generator
type Option func(*Generator)

// WithLogger sets the generator's logger
func WithLogger(logger logrus.FieldLogger) Option {
	return func(g *Generator) { g.logger = logger }
}

// WithCallTimeout bounds the completion call
func WithCallTimeout(d time.Duration) Option {
	return func(g *Generator) { g.callTimeout = d }
}

// NewGenerator creates a Generator
func NewGenerator(client llm.Client, opts ...Option) *Generator {
	g := &Generator{
		client: client,
		logger: logrus.StandardLogger(),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// ApplyDefaults fills empty config fields with their defaults
func ApplyDefaults(cfg types.GenerationConfig) types.GenerationConfig {
	if strings.TrimSpace(cfg.Tone) == "" {
		cfg.Tone = DefaultTone
	}
	if strings.TrimSpace(cfg.Length) == "" {
		cfg.Length = DefaultLength
	}
	if strings.TrimSpace(cfg.Template) == "" {
		cfg.Template = DefaultTemplate
	}
	return cfg
}

// Generate writes one cover letter. The profile is embedded in the prompt
// as-is. Any call failure or blank answer returns a *GenerationError; there
// is no partial result.
func (g *Generator) Generate(ctx context.Context, parsed types.ExtractionResult, cfg types.GenerationConfig, profile json.RawMessage) (*types.GenerateLetterResponse, error) {
	if g.client == nil {
		return nil, &GenerationError{Details: "no model client configured"}
	}
	cfg = ApplyDefaults(cfg)

	lang := parsed.Language
	if lang == "" {
		lang = parsing.DefaultLanguage
	}

	req := llm.Request{
		Tier:        llm.TierAdvanced,
		Temperature: llm.TemperatureCreative,
		Messages: []llm.Message{
			llm.System(prompts.Render(prompts.GenerationFile, "cover-letter-system", map[string]string{
				"Language": lang,
			})),
			llm.User(buildUserPrompt(parsed, cfg, profile)),
		},
	}

	callCtx, cancel := g.callContext(ctx)
	defer cancel()

	start := time.Now()
	text, err := g.client.Complete(callCtx, req)
	if err != nil {
		g.logger.WithError(err).Error("cover letter completion failed")
		return nil, &GenerationError{Details: "completion call failed", Cause: err}
	}

	letter := strings.TrimSpace(text)
	if letter == "" {
		g.logger.Error("cover letter completion returned empty content")
		return nil, &GenerationError{Details: "model returned empty content"}
	}

	model := g.client.GetModel(llm.TierAdvanced)
	g.logger.WithFields(logrus.Fields{
		"model":    model,
		"language": lang,
		"tone":     cfg.Tone,
		"length":   cfg.Length,
		"words":    len(strings.Fields(letter)),
		"duration": time.Since(start).String(),
	}).Info("cover letter generated")

	return &types.GenerateLetterResponse{
		Variants: []string{letter},
		Metadata: types.GenerationMetadata{
			Model:      model,
			Language:   lang,
			Confidence: parsed.Confidence,
		},
	}, nil
}

func buildUserPrompt(parsed types.ExtractionResult, cfg types.GenerationConfig, profile json.RawMessage) string {
	length := cfg.Length
	if guidance, ok := lengthGuidance[strings.ToLower(length)]; ok {
		length = guidance
	}

	keywords := "none"
	if len(parsed.Keywords) > 0 {
		keywords = strings.Join(parsed.Keywords, ", ")
	}

	return prompts.Render(prompts.GenerationFile, "cover-letter-user", map[string]string{
		"JobTitle":         orUnknown(parsed.TitleOrEmpty()),
		"Company":          orUnknown(parsed.CompanyOrEmpty()),
		"Responsibilities": bulletList(parsed.Responsibilities),
		"Requirements":     bulletList(parsed.Requirements),
		"Keywords":         keywords,
		"Tone":             cfg.Tone,
		"Length":           length,
		"Template":         cfg.Template,
		"Profile":          profileText(profile),
	})
}

// profileText renders the profile blob verbatim, indented for readability
// when it is valid JSON.
func profileText(profile json.RawMessage) string {
	if len(bytes.TrimSpace(profile)) == 0 {
		return "{}"
	}
	var buf bytes.Buffer
	if err := json.Indent(&buf, profile, "", "  "); err != nil {
		return string(profile)
	}
	return buf.String()
}

func bulletList(items []string) string {
	if len(items) == 0 {
		return "- (not specified)"
	}
	var sb strings.Builder
	for i, item := range items {
		if i > 0 {
			sb.WriteByte('\n')
		}
		sb.WriteString("- ")
		sb.WriteString(item)
	}
	return sb.String()
}

func orUnknown(s string) string {
	if s == "" {
		return "(not specified)"
	}
	return s
}

func (g *Generator) callContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if g.callTimeout > 0 {
		return context.WithTimeout(ctx, g.callTimeout)
	}
	return context.WithCancel(ctx)
}
