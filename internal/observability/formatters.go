// Package observability renders human-readable summaries for verbose CLI
// output.
package observability

import (
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/jonathan/coverme/internal/types"
)

const (
	boxWidth       = 60
	maxItemsToShow = 5
)

// Printer writes boxed summaries to out
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

//nolint:errcheck // verbose output only
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, title)
	fmt.Fprintf(p.out, "├%s┤\n", border)
	for _, line := range strings.Split(content, "\n") {
		line = truncate(line, boxWidth-4)
		fmt.Fprintf(p.out, "│ %s%s │\n", line, strings.Repeat(" ", boxWidth-4-utf8.RuneCountInString(line)))
	}
	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// truncate shortens s to max runes, marking the cut with "..."
func truncate(s string, max int) string {
	if utf8.RuneCountInString(s) <= max {
		return s
	}
	r := []rune(s)
	return string(r[:max-3]) + "..."
}

func writeList(sb *strings.Builder, label string, items []string) {
	if len(items) == 0 {
		fmt.Fprintf(sb, "%s: (none)\n", label)
		return
	}
	fmt.Fprintf(sb, "%s:\n", label)
	for _, item := range items[:min(len(items), maxItemsToShow)] {
		fmt.Fprintf(sb, "  • %s\n", item)
	}
	if len(items) > maxItemsToShow {
		fmt.Fprintf(sb, "  ... and %d more\n", len(items)-maxItemsToShow)
	}
}

// PrintParseResult summarizes a parse: title, company, method, confidence,
// lists and whether the model was used.
func (p *Printer) PrintParseResult(resp *types.ParseJobResponse) {
	if resp == nil {
		return
	}
	r := resp.Parsed

	var sb strings.Builder
	fmt.Fprintf(&sb, "Role:       %s\n", orDash(r.TitleOrEmpty()))
	fmt.Fprintf(&sb, "Company:    %s\n", orDash(r.CompanyOrEmpty()))
	fmt.Fprintf(&sb, "Method:     %s (%s)\n", r.Method, r.Language)
	fmt.Fprintf(&sb, "Confidence: %.2f\n", resp.Confidence)
	if !resp.AIAvailable && resp.AIError != nil {
		fmt.Fprintf(&sb, "⚠ AI unavailable: %s\n", *resp.AIError)
	}
	sb.WriteString("\n")
	writeList(&sb, "Responsibilities", r.Responsibilities)
	writeList(&sb, "Requirements", r.Requirements)
	if len(r.Keywords) > 0 {
		fmt.Fprintf(&sb, "Keywords: %s\n", strings.Join(r.Keywords, ", "))
	}

	p.printBox("PARSED JOB DESCRIPTION", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintLetterMetadata summarizes a generated letter without its body
func (p *Printer) PrintLetterMetadata(resp *types.GenerateLetterResponse, cfg types.GenerationConfig) {
	if resp == nil || len(resp.Variants) == 0 {
		return
	}
	letter := resp.Variants[0]

	var sb strings.Builder
	fmt.Fprintf(&sb, "Model:      %s\n", resp.Metadata.Model)
	fmt.Fprintf(&sb, "Language:   %s\n", resp.Metadata.Language)
	fmt.Fprintf(&sb, "Confidence: %.2f\n", resp.Metadata.Confidence)
	fmt.Fprintf(&sb, "Style:      %s, %s, %s\n", cfg.Tone, cfg.Length, cfg.Template)
	fmt.Fprintf(&sb, "Words:      %d", len(strings.Fields(letter)))

	p.printBox("COVER LETTER", sb.String())
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
