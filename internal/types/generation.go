package types

import "encoding/json"

// GenerationConfig controls the style of a generated letter. Empty fields
// take defaults; unrecognized values are passed to the model verbatim.
type GenerationConfig struct {
	Tone     string `json:"tone,omitempty"`
	Length   string `json:"length,omitempty"`
	Template string `json:"template,omitempty"`
}

// GenerateLetterRequest is the body of POST /cover-letters/generate
type GenerateLetterRequest struct {
	Parsed      ExtractionResult `json:"parsed"`
	Config      GenerationConfig `json:"config"`
	UserProfile json.RawMessage  `json:"user_profile"`
}

// GenerationMetadata describes how a letter was produced
type GenerationMetadata struct {
	Model      string  `json:"model"`
	Language   string  `json:"language"`
	Confidence float64 `json:"confidence"`
}

// GenerateLetterResponse is the body returned by POST /cover-letters/generate
type GenerateLetterResponse struct {
	Variants []string           `json:"variants"`
	Metadata GenerationMetadata `json:"metadata"`
}
