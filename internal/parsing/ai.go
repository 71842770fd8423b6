package parsing

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/jonathan/coverme/internal/llm"
	"github.com/jonathan/coverme/internal/prompts"
	"github.com/jonathan/coverme/internal/schemas"
)

// aiExtraction is the model's JSON payload. Every field is optional.
type aiExtraction struct {
	Title            *string  `json:"title"`
	Company          *string  `json:"company"`
	Responsibilities []string `json:"responsibilities"`
	Requirements     []string `json:"requirements"`
}

// extractWithAI runs the extraction call. The returned error is non-nil
// only when the call itself failed; an unusable payload is reported
// through malformed and decodes to an empty extraction.
func (p *Parser) extractWithAI(ctx context.Context, raw string) (ext aiExtraction, malformed error, err error) {
	userPrompt := prompts.Render(prompts.ParsingFile, "extract-job-user", map[string]string{
		"JobText": raw,
	})

	text, err := p.client.Complete(ctx, llm.Request{
		Tier:        llm.TierStandard,
		Temperature: llm.TemperatureDeterministic,
		JSON:        true,
		Messages: []llm.Message{
			llm.System(prompts.MustGet(prompts.ParsingFile, "extract-job-system")),
			llm.User(userPrompt),
		},
	})
	if err != nil {
		return aiExtraction{}, nil, &UpstreamError{Call: "job extraction", Cause: err}
	}

	ext, malformed = decodeExtraction(text)
	return ext, malformed, nil
}

// decodeExtraction parses and normalizes a model answer. On any failure it
// returns the empty extraction together with a *MalformedResponseError.
func decodeExtraction(text string) (aiExtraction, error) {
	payload := []byte(llm.CleanJSONBlock(text))

	if err := schemas.Validate(schemas.JobExtraction, payload); err != nil {
		return aiExtraction{}, &MalformedResponseError{Call: "job extraction", Reason: "payload rejected", Cause: err}
	}

	var ext aiExtraction
	if err := json.Unmarshal(payload, &ext); err != nil {
		return aiExtraction{}, &MalformedResponseError{Call: "job extraction", Reason: "invalid JSON", Cause: err}
	}

	ext.Title = trimOptional(ext.Title)
	ext.Company = trimOptional(ext.Company)
	ext.Responsibilities = dedupeTrimmed(ext.Responsibilities)
	ext.Requirements = dedupeTrimmed(ext.Requirements)
	return ext, nil
}

// trimOptional trims s and maps blank values to absent.
func trimOptional(s *string) *string {
	if s == nil {
		return nil
	}
	t := strings.TrimSpace(*s)
	if t == "" {
		return nil
	}
	return &t
}
