package parsing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractHeuristic(t *testing.T) {
	tests := []struct {
		name             string
		input            string
		responsibilities []string
		requirements     []string
	}{
		{
			name:             "uppercase headers with dash bullets",
			input:            "RESPONSIBILITIES:\n- Do X\n\nREQUIREMENTS:\n- Req A",
			responsibilities: []string{"Do X"},
			requirements:     []string{"Req A"},
		},
		{
			name:             "spanish headers with glyph and numbered bullets",
			input:            "Responsabilidades:\n• Diseñar APIs\n• Revisar código\nRequisitos:\n1. Experiencia con Go\n2) Inglés avanzado",
			responsibilities: []string{"Diseñar APIs", "Revisar código"},
			requirements:     []string{"Experiencia con Go", "Inglés avanzado"},
		},
		{
			name:             "bullets before any header are ignored",
			input:            "Great company\n- Free snacks\nResponsibilities\n- Build things",
			responsibilities: []string{"Build things"},
			requirements:     []string{},
		},
		{
			name:             "dash without space",
			input:            "Requirements:\n-Go experience\n--SQL",
			responsibilities: []string{},
			requirements:     []string{"Go experience", "SQL"},
		},
		{
			name:             "inline labels do not change the section",
			input:            "Responsibilities: Lead the team\nRequisitos - Python avanzado\nNice office",
			responsibilities: []string{"Lead the team"},
			requirements:     []string{"Python avanzado"},
		},
		{
			name:             "paragraphs under headers are kept verbatim",
			input:            "What you'll do\nBuild reliable services.\nWork with product.\n\nQualifications\n5 years of Go",
			responsibilities: []string{"Build reliable services.", "Work with product."},
			requirements:     []string{"5 years of Go"},
		},
		{
			name:             "markdown headers",
			input:            "## Key Responsibilities\n* Ship code\n**Requirements:**\n+ Go",
			responsibilities: []string{"Ship code"},
			requirements:     []string{"Go"},
		},
		{
			name:             "sections can be revisited",
			input:            "Requirements\n- A\nDuties\n- B\nRequirements\n- C",
			responsibilities: []string{"B"},
			requirements:     []string{"A", "C"},
		},
		{
			name:             "letter markers",
			input:            "Duties\na) Plan\nb)Execute",
			responsibilities: []string{"Plan", "Execute"},
			requirements:     []string{},
		},
		{
			name:             "duplicates removed in first-seen order",
			input:            "Requirements\n- Go\n- SQL\n- Go \n*  Go",
			responsibilities: []string{},
			requirements:     []string{"Go", "SQL"},
		},
		{
			name:             "windows line endings",
			input:            "Responsibilities\r\n- Build\r\nRequirements\r- Test",
			responsibilities: []string{"Build"},
			requirements:     []string{"Test"},
		},
		{
			name:             "lone markers are skipped",
			input:            "Responsibilities\n-\n•\n- Real item",
			responsibilities: []string{"Real item"},
			requirements:     []string{},
		},
		{
			name:             "compound english requirements header",
			input:            "Responsibilities\n- Build APIs\nRequirements and Qualifications\n- 5 years Go",
			responsibilities: []string{"Build APIs"},
			requirements:     []string{"5 years Go"},
		},
		{
			name:             "spanish headers with trailing qualifier",
			input:            "Responsabilidades del puesto\n- Diseñar APIs\nRequisitos del puesto\n- Experiencia con Go",
			responsibilities: []string{"Diseñar APIs"},
			requirements:     []string{"Experiencia con Go"},
		},
		{
			name:             "label closing the header line",
			input:            "Duties and Responsibilities\n- Build\nMinimum Requirements\n- Go",
			responsibilities: []string{"Build"},
			requirements:     []string{"Go"},
		},
		{
			name:             "ampersand header with colon",
			input:            "Responsibilities\n- Ship\nRequirements & Skills:\n- SQL",
			responsibilities: []string{"Ship"},
			requirements:     []string{"SQL"},
		},
		{
			name:             "spanish possessive headers",
			input:            "Tus responsabilidades\n- Liderar\nLo que buscamos\n- Inglés",
			responsibilities: []string{"Liderar"},
			requirements:     []string{"Inglés"},
		},
		{
			name:             "content lines mentioning a label stay content",
			input:            "Responsibilities\nGather requirements from users\nRequirements gathering workshops\n- Meet requirements.",
			responsibilities: []string{"Gather requirements from users", "Requirements gathering workshops", "Meet requirements."},
			requirements:     []string{},
		},
		{
			name:             "no structure",
			input:            "We are hiring a great person to join us.",
			responsibilities: []string{},
			requirements:     []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ExtractHeuristic(tt.input)
			assert.Equal(t, tt.responsibilities, got.Responsibilities)
			assert.Equal(t, tt.requirements, got.Requirements)
		})
	}
}

func TestExtractHeuristic_EmptyInput(t *testing.T) {
	for _, input := range []string{"", "   ", "\n\n\t\n", ":::"} {
		got := ExtractHeuristic(input)
		require.NotNil(t, got.Responsibilities)
		require.NotNil(t, got.Requirements)
		assert.Empty(t, got.Responsibilities)
		assert.Empty(t, got.Requirements)
	}
}

func TestExtractHeuristic_Idempotent(t *testing.T) {
	input := "Funciones\n- Liderar el equipo\nLo que buscamos\n- Inglés\n- Go\nTareas: Documentar"
	first := ExtractHeuristic(input)
	second := ExtractHeuristic(input)
	assert.Equal(t, first, second)
	assert.Equal(t, []string{"Liderar el equipo", "Documentar"}, first.Responsibilities)
	assert.Equal(t, []string{"Inglés", "Go"}, first.Requirements)
}

func TestExtractHeuristic_OutputIsTrimmedAndNonBlank(t *testing.T) {
	input := "Responsibilities\n-   padded item   \n\t\tindented paragraph\t\nRequirements\n1.   spaced   "
	got := ExtractHeuristic(input)
	for _, list := range [][]string{got.Responsibilities, got.Requirements} {
		for _, item := range list {
			assert.NotEmpty(t, item)
			assert.Equal(t, item, trimmed(item))
		}
	}
	assert.Equal(t, []string{"padded item", "indented paragraph"}, got.Responsibilities)
	assert.Equal(t, []string{"spaced"}, got.Requirements)
}

func TestMatchHeader(t *testing.T) {
	tests := []struct {
		line string
		want section
		ok   bool
	}{
		{"Responsibilities", sectionResponsibilities, true},
		{"what you’ll do", sectionResponsibilities, true},
		{"Lo que harás", sectionResponsibilities, true},
		{"Minimum Qualifications", sectionRequirements, true},
		{"Skills Required", sectionRequirements, true},
		{"Habilidades requeridas", sectionRequirements, true},
		{"### Requisitos", sectionRequirements, true},
		{"Requirements and Qualifications", sectionRequirements, true},
		{"Requirements & Skills", sectionRequirements, true},
		{"Requisitos del puesto", sectionRequirements, true},
		{"Responsabilidades del cargo", sectionResponsibilities, true},
		{"Responsabilidades principales", sectionResponsibilities, true},
		{"Tus responsabilidades", sectionResponsibilities, true},
		{"Sus funciones", sectionResponsibilities, true},
		{"Duties and Responsibilities", sectionResponsibilities, true},
		{"Roles and Responsibilities", sectionResponsibilities, true},
		{"Education & Qualifications", sectionRequirements, true},
		{"Your Key Responsibilities", sectionResponsibilities, true},
		{"Requirements (Must Have)", sectionRequirements, true},
		{"Responsibilities include owning X", sectionNone, false},
		{"Requirements gathering workshops", sectionNone, false},
		{"Gather requirements from users", sectionNone, false},
		{"We review requirements and qualifications with every candidate", sectionNone, false},
		{"Meet the requirements.", sectionNone, false},
		{"- Requirements and Qualifications", sectionNone, false},
		{"* Requirements", sectionRequirements, true},
		{"About us", sectionNone, false},
	}
	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			got, ok := matchHeader(tt.line)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func trimmed(s string) string {
	return dedupeTrimmed([]string{s})[0]
}
