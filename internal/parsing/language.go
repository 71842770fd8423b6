package parsing

import (
	"context"
	"strings"

	"golang.org/x/text/language"

	"github.com/jonathan/coverme/internal/llm"
	"github.com/jonathan/coverme/internal/prompts"
)

// DefaultLanguage is used whenever detection fails
const DefaultLanguage = "en"

// languageSampleRunes bounds the text sent for detection
const languageSampleRunes = 1000

// detectLanguage asks the model for the ISO 639-1 code of the text.
// Any failure is returned to the caller, which substitutes DefaultLanguage.
func (p *Parser) detectLanguage(ctx context.Context, raw string) (string, error) {
	userPrompt := prompts.Render(prompts.ParsingFile, "detect-language-user", map[string]string{
		"Text": truncateRunes(raw, languageSampleRunes),
	})

	answer, err := p.client.Complete(ctx, llm.Request{
		Tier:        llm.TierLite,
		Temperature: llm.TemperatureDeterministic,
		Messages: []llm.Message{
			llm.System(prompts.MustGet(prompts.ParsingFile, "detect-language-system")),
			llm.User(userPrompt),
		},
	})
	if err != nil {
		return "", &UpstreamError{Call: "language detection", Cause: err}
	}

	return NormalizeLanguageCode(answer)
}

// NormalizeLanguageCode turns a model answer such as "ES", "en-US" or
// "\"pt\"." into a base language code.
func NormalizeLanguageCode(answer string) (string, error) {
	fields := strings.Fields(answer)
	if len(fields) == 0 {
		return "", &MalformedResponseError{Call: "language detection", Reason: "empty answer"}
	}
	code := strings.Trim(fields[0], "\"'`.,;:")

	tag, err := language.Parse(code)
	if err != nil {
		return "", &MalformedResponseError{Call: "language detection", Reason: "unrecognized code " + code, Cause: err}
	}
	// an explicit base subtag is the only Exact answer; "und" infers one
	base, confidence := tag.Base()
	if confidence != language.Exact {
		return "", &MalformedResponseError{Call: "language detection", Reason: "undetermined code " + code}
	}
	return base.String(), nil
}

func truncateRunes(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
