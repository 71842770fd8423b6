// Package ingestion prepares job posting text for parsing, from pasted
// text, HTML, files or a posting URL.
package ingestion

import (
	"fmt"
	"os"
	"regexp"
	"strings"

	"github.com/jonathan/coverme/internal/fetch"
)

var (
	innerSpaceRun  = regexp.MustCompile(`[ \t\f\v]+`)
	blankLineRun   = regexp.MustCompile(`\n{3,}`)
	htmlTagPattern = regexp.MustCompile(`(?i)<(html|body|div|p|ul|ol|li|br|h[1-6]|span|section|article|table)\b[^>]*>`)
)

// CleanText normalizes line endings and whitespace while keeping the line
// structure the heuristic extractor relies on. At most one blank line is
// kept between blocks.
func CleanText(content string) string {
	if content == "" {
		return ""
	}

	content = strings.ReplaceAll(content, "\r\n", "\n")
	content = strings.ReplaceAll(content, "\r", "\n")
	content = strings.ReplaceAll(content, "\u00a0", " ")

	lines := strings.Split(content, "\n")
	for i, line := range lines {
		lines[i] = cleanLine(line)
	}

	result := blankLineRun.ReplaceAllString(strings.Join(lines, "\n"), "\n\n")
	return strings.TrimSpace(result)
}

// cleanLine collapses inner whitespace. Leading indentation is kept for
// nested bullets only.
func cleanLine(line string) string {
	trimmed := strings.TrimSpace(line)
	if trimmed == "" {
		return ""
	}
	trimmed = innerSpaceRun.ReplaceAllString(trimmed, " ")

	if isBulletLine(trimmed) {
		indent := len(line) - len(strings.TrimLeft(line, " \t"))
		return strings.Repeat(" ", indent) + trimmed
	}
	return trimmed
}

func isBulletLine(line string) bool {
	for _, marker := range []string{"- ", "* ", "• ", "· "} {
		if strings.HasPrefix(line, marker) {
			return true
		}
	}
	return false
}

// LooksLikeHTML reports whether pasted content is markup rather than text
func LooksLikeHTML(content string) bool {
	return len(htmlTagPattern.FindAllStringIndex(content, 3)) >= 2
}

// HTMLToText converts an HTML fragment or page to clean text with list
// items as "- " bullets.
func HTMLToText(html string) (string, error) {
	text, err := fetch.ExtractMainText(html, nil)
	if err != nil {
		return "", err
	}
	return CleanText(text), nil
}

// PrepareJobText returns pasted job text ready for parsing. HTML input is
// converted to text first; if that fails the raw content is cleaned as is.
func PrepareJobText(content string) string {
	if LooksLikeHTML(content) {
		if text, err := HTMLToText(content); err == nil && text != "" {
			return text
		}
	}
	return CleanText(content)
}

// ReadJobFile reads a job posting from disk and prepares it for parsing.
func ReadJobFile(path string) (string, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", fmt.Errorf("file not found: %w", err)
		}
		return "", fmt.Errorf("failed to read file: %w", err)
	}
	return PrepareJobText(string(content)), nil
}
