// Package types provides type definitions for structured data used throughout the CoverME service.
//
//nolint:revive // types is a standard Go package name pattern
package types

// ExtractionMethod records which path produced the final lists of an ExtractionResult
type ExtractionMethod string

// Extraction methods
const (
	MethodAI        ExtractionMethod = "ai"
	MethodHeuristic ExtractionMethod = "heuristic"
)

// ExtractionResult is the normalized view of a parsed job description.
// Responsibilities, Requirements and Keywords are never nil once the result
// leaves the parser, so they always serialize as arrays.
type ExtractionResult struct {
	Title            *string          `json:"title"`
	Company          *string          `json:"company"`
	Responsibilities []string         `json:"responsibilities"`
	Requirements     []string         `json:"requirements"`
	Keywords         []string         `json:"keywords"`
	Method           ExtractionMethod `json:"method"`
	Language         string           `json:"language"`
	Confidence       float64          `json:"confidence"`
}

// TitleOrEmpty returns the title, or "" when absent
func (r *ExtractionResult) TitleOrEmpty() string {
	if r.Title == nil {
		return ""
	}
	return *r.Title
}

// CompanyOrEmpty returns the company, or "" when absent
func (r *ExtractionResult) CompanyOrEmpty() string {
	if r.Company == nil {
		return ""
	}
	return *r.Company
}

// ParseJobRequest is the body of POST /cover-letters/parse
type ParseJobRequest struct {
	RawJobText string `json:"raw_job_text"`
}

// ParseJobResponse is the body returned by POST /cover-letters/parse
type ParseJobResponse struct {
	Parsed      ExtractionResult `json:"parsed"`
	Confidence  float64          `json:"confidence"`
	AIAvailable bool             `json:"ai_available"`
	AIError     *string          `json:"ai_error"`
}

// FetchJobRequest is the body of POST /job-descriptions/fetch
type FetchJobRequest struct {
	URL string `json:"url" validate:"required,url"`
}

// FetchJobResponse carries the plain text of a fetched job posting
type FetchJobResponse struct {
	URL        string `json:"url"`
	Platform   string `json:"platform,omitempty"`
	RawJobText string `json:"raw_job_text"`
}

// StringPtr returns a pointer to s
func StringPtr(s string) *string {
	return &s
}
