package parsing

import (
	"strings"
	"unicode/utf8"

	"github.com/jonathan/coverme/internal/types"
)

// detailedTitleLength is the length a title must exceed to count as detailed.
const detailedTitleLength = 10

// listSaturation is the item count at which a list scores fully.
const listSaturation = 3

// Confidence scores an extraction for completeness in [0, 1]. Only fields
// with content take part: an absent field counts neither for nor against
// the score.
func Confidence(title, company *string, responsibilities, requirements []string) float64 {
	var score, total float64

	if title != nil {
		if t := strings.TrimSpace(*title); t != "" {
			total++
			if utf8.RuneCountInString(t) > detailedTitleLength {
				score += 1.0
			} else {
				score += 0.5
			}
		}
	}

	if company != nil && strings.TrimSpace(*company) != "" {
		total++
		score += 1.0
	}

	for _, list := range [][]string{responsibilities, requirements} {
		if len(list) == 0 {
			continue
		}
		total++
		score += listScore(list)
	}

	if total == 0 {
		return 0
	}
	return min(score/total, 1.0)
}

// listScore is a list's partial score: linear up to listSaturation items.
func listScore(list []string) float64 {
	return min(float64(len(list))/listSaturation, 1.0)
}

// ScoreResult computes the confidence of an ExtractionResult's current fields
func ScoreResult(r *types.ExtractionResult) float64 {
	return Confidence(r.Title, r.Company, r.Responsibilities, r.Requirements)
}
