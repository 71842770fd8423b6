package parsing

import (
	"errors"
	"fmt"
)

// ErrInputMissing is returned when the raw job text is absent or blank.
// It is the only parse failure surfaced to callers.
var ErrInputMissing = errors.New("raw job text is required")

// UpstreamError is a failed model call. Parse absorbs it and falls back
// to the heuristic extractor.
type UpstreamError struct {
	Call  string
	Cause error
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("%s call failed: %v", e.Call, e.Cause)
}

func (e *UpstreamError) Unwrap() error {
	return e.Cause
}

// MalformedResponseError is a model answer that could not be used. The
// answer is treated as empty.
type MalformedResponseError struct {
	Call   string
	Reason string
	Cause  error
}

func (e *MalformedResponseError) Error() string {
	msg := fmt.Sprintf("malformed %s response: %s", e.Call, e.Reason)
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

func (e *MalformedResponseError) Unwrap() error {
	return e.Cause
}
