package parsing

import (
	"regexp"
	"strings"
)

// section is the heuristic extractor's current position in a posting
type section int

const (
	sectionNone section = iota
	sectionResponsibilities
	sectionRequirements
)

// HeuristicResult holds the lists recovered without any model call.
// Both slices are non-nil.
type HeuristicResult struct {
	Responsibilities []string
	Requirements     []string
}

// sectionLabels is the ordered label table. Order matters: when a line
// matches both sections the first entry wins. Fragments are regular
// expressions matched case-insensitively; add languages here.
var sectionLabels = []struct {
	section section
	labels  []string
}{
	{
		section: sectionResponsibilities,
		labels: []string{
			`responsibilit(?:y|ies)`,
			`duties`,
			`what\s+you['’]?ll\s+do`,
			`what\s+you\s+will\s+do`,
			`your\s+role`,
			`responsabilidad(?:es)?`,
			`funciones`,
			`tareas`,
			`(?:lo\s+)?qu?[eé]\s+har[aá]s`,
		},
	},
	{
		section: sectionRequirements,
		labels: []string{
			`requirements?`,
			`qualifications?`,
			`skills\s+required`,
			`required\s+skills`,
			`what\s+you['’]?ll\s+need`,
			`what\s+we['’]?re\s+looking\s+for`,
			`requisitos`,
			`cualificaciones`,
			`calificaciones`,
			`habilidades\s+requeridas`,
			`(?:lo\s+)?qu?[eé]\s+buscamos`,
		},
	},
}

// headerQualifiers are adjectives that may sit next to a label
// ("Key Responsibilities", "Minimum Requirements").
const headerQualifiers = `key|main|core|job|primary|minimum|basic|preferred|required|additional|technical|general|principales`

// headerLeadWords may open a header line before the label, at most two of
// them ("Your Key Responsibilities", "Tus responsabilidades").
const headerLeadWords = `(?:` + headerQualifiers + `|your|our|the|tus|sus|tu|su|los|las|nuestros|nuestras)`

// headerTrailLead joins a label that closes a header line
// ("Duties and Responsibilities", "Education & Qualifications").
const headerTrailLead = `(?:(?:^|\s)(?:and|y|e|` + headerQualifiers + `)\s+|[&/,]\s*)`

// headerTailWords may follow a label ("Requirements and Qualifications",
// "Requisitos del puesto", "Responsabilidades principales").
const headerTailWords = `(?:and|y|e|del|de|for|of|para|en|in|at|required|preferred|needed|` +
	`principales|clave|generales|requeridos|requeridas|necesarios|obligatorios|deseables|adicionales)`

// maxHeaderWords bounds how long a loose header line may be.
const maxHeaderWords = 6

type sectionRule struct {
	section section
	// strict matches a bare label, used for bullet-shaped lines
	strict *regexp.Regexp
	// lead matches a label opening a short line, after optional lead words
	lead *regexp.Regexp
	// trail matches a label closing a short line after a connector
	trail  *regexp.Regexp
	inline *regexp.Regexp
}

var sectionRules = compileSectionRules()

func compileSectionRules() []sectionRule {
	rules := make([]sectionRule, 0, len(sectionLabels))
	for _, entry := range sectionLabels {
		alt := "(?:" + strings.Join(entry.labels, "|") + ")"
		rules = append(rules, sectionRule{
			section: entry.section,
			strict:  regexp.MustCompile(`(?i)^(?:` + headerLeadWords + `\s+)?` + alt + `$`),
			lead: regexp.MustCompile(`(?i)^(?:` + headerLeadWords + `\s+){0,2}` + alt +
				`(?:$|\s*[&/,(]|\s+` + headerTailWords + `(?:\s|$))`),
			trail: regexp.MustCompile(`(?i)` + headerTrailLead + alt + `$`),
			// one optional leading word, then label, separator and content
			inline: regexp.MustCompile(`(?i)^(?:\p{L}+\s+)?` + alt + `\s*[:\-–—]\s*(\S.*)$`),
		})
	}
	return rules
}

var (
	bulletPattern     = regexp.MustCompile(`^(?:[-–—*+]\s+|[•·▪◦●○■□‣⁃➢➤►▸✓✔]\s*|\d{1,3}(?:\.\s+|\)\s*)|[A-Za-z]\)\s*)(\S.*)$`)
	dashStuckPattern  = regexp.MustCompile(`^-+([^\s-].*)$`)
	markerOnlyPattern = regexp.MustCompile(`^[-–—*+•·▪◦●○■□‣⁃➢➤►▸✓✔\s]+$`)
	lineBreakReplacer = strings.NewReplacer("\r\n", "\n", "\r", "\n")
)

// ExtractHeuristic recovers responsibilities and requirements from free-form
// posting text using section headers, bullets and inline labels. It never
// fails; unrecognized text yields empty lists.
func ExtractHeuristic(raw string) HeuristicResult {
	var responsibilities, requirements []string
	current := sectionNone

	appendTo := func(s section, item string) {
		switch s {
		case sectionResponsibilities:
			responsibilities = append(responsibilities, item)
		case sectionRequirements:
			requirements = append(requirements, item)
		}
	}

	for _, rawLine := range strings.Split(lineBreakReplacer.Replace(raw), "\n") {
		line := strings.TrimSpace(rawLine)
		if line == "" {
			continue
		}
		stripped := strings.Trim(line, ": \t")
		if stripped == "" || markerOnlyPattern.MatchString(stripped) {
			continue
		}

		if s, ok := matchHeader(stripped); ok {
			current = s
			continue
		}

		if m := bulletPattern.FindStringSubmatch(stripped); m != nil {
			appendTo(current, strings.TrimSpace(m[1]))
			continue
		}

		if m := dashStuckPattern.FindStringSubmatch(stripped); m != nil {
			appendTo(current, strings.TrimSpace(m[1]))
			continue
		}

		if s, content, ok := matchInline(stripped); ok {
			appendTo(s, content)
			continue
		}

		if current != sectionNone {
			appendTo(current, line)
		}
	}

	return HeuristicResult{
		Responsibilities: dedupeTrimmed(responsibilities),
		Requirements:     dedupeTrimmed(requirements),
	}
}

// matchHeader reports whether the line is a section header. Markdown
// emphasis and heading markers around the label are ignored. A short line
// opening or closing with a label counts; bullet-shaped lines only count
// when they are nothing but a label.
func matchHeader(line string) (section, bool) {
	candidate := strings.TrimLeft(line, "#*_ \t")
	candidate = strings.TrimRight(candidate, "*_ \t")
	candidate = strings.Trim(candidate, ": \t")
	if candidate == "" {
		return sectionNone, false
	}

	if bulletPattern.MatchString(line) {
		for _, rule := range sectionRules {
			if rule.strict.MatchString(candidate) {
				return rule.section, true
			}
		}
		return sectionNone, false
	}

	if len(strings.Fields(candidate)) > maxHeaderWords || strings.TrimRight(candidate, ".!?;") != candidate {
		return sectionNone, false
	}
	for _, rule := range sectionRules {
		if rule.lead.MatchString(candidate) || rule.trail.MatchString(candidate) {
			return rule.section, true
		}
	}
	return sectionNone, false
}

func matchInline(line string) (section, string, bool) {
	for _, rule := range sectionRules {
		if m := rule.inline.FindStringSubmatch(line); m != nil {
			content := strings.TrimSpace(m[1])
			if content != "" {
				return rule.section, content, true
			}
		}
	}
	return sectionNone, "", false
}

// dedupeTrimmed trims entries, drops blanks and removes exact duplicates
// keeping first-seen order. The result is never nil.
func dedupeTrimmed(items []string) []string {
	out := make([]string, 0, len(items))
	seen := make(map[string]struct{}, len(items))
	for _, item := range items {
		item = strings.TrimSpace(item)
		if item == "" {
			continue
		}
		if _, dup := seen[item]; dup {
			continue
		}
		seen[item] = struct{}{}
		out = append(out, item)
	}
	return out
}
