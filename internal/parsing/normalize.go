package parsing

import (
	"strings"
	"unicode"
)

// skillAliases maps lowercase spellings to canonical skill names. Bare "go"
// is left out on purpose: it is an English verb far more often than a skill.
var skillAliases = map[string]string{
	"golang":           "Go",
	"go lang":          "Go",
	"javascript":       "JavaScript",
	"js":               "JavaScript",
	"typescript":       "TypeScript",
	"ts":               "TypeScript",
	"k8s":              "Kubernetes",
	"kubernetes":       "Kubernetes",
	"react":            "React",
	"react.js":         "React",
	"reactjs":          "React",
	"vue":              "Vue",
	"vue.js":           "Vue",
	"vuejs":            "Vue",
	"angular":          "Angular",
	"node.js":          "Node.js",
	"nodejs":           "Node.js",
	"node":             "Node.js",
	"python":           "Python",
	"java":             "Java",
	"c++":              "C++",
	"c#":               "C#",
	"rust":             "Rust",
	"ruby":             "Ruby",
	"php":              "PHP",
	"swift":            "Swift",
	"kotlin":           "Kotlin",
	"scala":            "Scala",
	"sql":              "SQL",
	"postgres":         "PostgreSQL",
	"postgresql":       "PostgreSQL",
	"mysql":            "MySQL",
	"mongodb":          "MongoDB",
	"redis":            "Redis",
	"kafka":            "Kafka",
	"rabbitmq":         "RabbitMQ",
	"docker":           "Docker",
	"terraform":        "Terraform",
	"aws":              "AWS",
	"gcp":              "GCP",
	"google cloud":     "GCP",
	"azure":            "Azure",
	"django":           "Django",
	"flask":            "Flask",
	"spring":           "Spring",
	"spring boot":      "Spring",
	"graphql":          "GraphQL",
	"grpc":             "gRPC",
	"linux":            "Linux",
	"git":              "Git",
	"ci/cd":            "CI/CD",
	"machine learning": "Machine Learning",
	"spark":            "Spark",
	"airflow":          "Airflow",
	"pandas":           "pandas",
	"tensorflow":       "TensorFlow",
	"pytorch":          "PyTorch",
	"tableau":          "Tableau",
	"excel":            "Excel",
	"salesforce":       "Salesforce",
	"figma":            "Figma",
	"scrum":            "Scrum",
	"agile":            "Agile",
}

// maxAliasWords is the longest alias in words.
const maxAliasWords = 2

// NormalizeSkillName returns the canonical form of a skill name. Unknown
// single lowercase or all-caps words are capitalized; anything else is
// returned trimmed.
func NormalizeSkillName(skillName string) string {
	normalized := strings.TrimSpace(skillName)
	if normalized == "" {
		return ""
	}

	lower := strings.ToLower(normalized)
	if canonical, ok := skillAliases[lower]; ok {
		return canonical
	}

	if strings.Contains(normalized, " ") {
		return normalized
	}
	upper := strings.ToUpper(normalized)
	switch {
	case normalized == upper && len(normalized) > 1, normalized == lower:
		return strings.ToUpper(normalized[:1]) + strings.ToLower(normalized[1:])
	default:
		return normalized
	}
}

// ExtractKeywords scans the given lists for known skills and returns their
// canonical names in first-seen order. The result is never nil.
func ExtractKeywords(lists ...[]string) []string {
	keywords := make([]string, 0)
	seen := make(map[string]struct{})

	for _, list := range lists {
		for _, item := range list {
			tokens := tokenize(item)
			for i := range tokens {
				// longest alias first so "spring boot" beats "spring"
				for n := min(maxAliasWords, len(tokens)-i); n >= 1; n-- {
					canonical, ok := skillAliases[strings.Join(tokens[i:i+n], " ")]
					if !ok {
						continue
					}
					if _, dup := seen[canonical]; !dup {
						seen[canonical] = struct{}{}
						keywords = append(keywords, canonical)
					}
					break
				}
			}
		}
	}
	return keywords
}

// tokenize lowercases text and splits it into words, keeping the
// punctuation that appears inside skill names (node.js, c++, c#, ci/cd).
func tokenize(text string) []string {
	fields := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return false
		}
		switch r {
		case '.', '+', '#', '/':
			return false
		}
		return true
	})

	tokens := make([]string, 0, len(fields))
	for _, f := range fields {
		// sentence punctuation and slash-joined lists
		f = strings.TrimRight(f, "./")
		f = strings.TrimLeft(f, "./")
		if f == "" {
			continue
		}
		if _, known := skillAliases[f]; !known && strings.Contains(f, "/") {
			for _, part := range strings.Split(f, "/") {
				if part = strings.Trim(part, "."); part != "" {
					tokens = append(tokens, part)
				}
			}
			continue
		}
		tokens = append(tokens, f)
	}
	return tokens
}
