package validators

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentvet/agentvet/internal/domain"
)

const goodDoc = `---
name: code-reviewer
description: Reviews pull requests for style and correctness issues.
model: sonnet
---

# Code Reviewer

Review every changed file and report issues with file and line references.
`

func structural(t *testing.T, content string) *domain.ValidatorResult {
	t.Helper()
	v := NewStructuralValidator()
	return v.Validate(domain.Component{Content: content, Path: "agents/code-reviewer.md", Type: domain.TypeAgent})
}

func findingCodes(fs []domain.Finding) []string {
	var codes []string
	for _, f := range fs {
		codes = append(codes, f.Code)
	}
	return codes
}

func TestStructural_GoodDocument(t *testing.T) {
	r := structural(t, goodDoc)
	assert.True(t, r.Valid)
	assert.Empty(t, r.Errors)
}

func TestStructural_MissingFrontmatter(t *testing.T) {
	r := structural(t, "# Just a body\n\nNo header at all here, sadly.")
	assert.False(t, r.Valid)
	assert.Contains(t, findingCodes(r.Errors), CodeMissingFrontmatter)
}

func TestStructural_MalformedYAML_DistinctCode(t *testing.T) {
	r := structural(t, "---\nname: [unclosed\n---\n\n# Body\n")
	assert.False(t, r.Valid)
	codes := findingCodes(r.Errors)
	assert.Contains(t, codes, CodeMalformedHeader)
	assert.NotContains(t, codes, CodeMissingFrontmatter)
}

func TestStructural_MissingRequiredFields(t *testing.T) {
	r := structural(t, "---\nname: reviewer\n---\n\n# Body\n\nLong enough body text for the heuristics to pass fine.\n")
	assert.False(t, r.Valid)
	assert.Contains(t, findingCodes(r.Errors), CodeMissingField)
}

func TestStructural_SizeCeiling(t *testing.T) {
	big := goodDoc + strings.Repeat("x", maxComponentSize)
	r := structural(t, big)
	assert.Contains(t, findingCodes(r.Errors), CodeSizeExceeded)
}

func TestStructural_SizeWarningNearLimit(t *testing.T) {
	big := goodDoc + strings.Repeat("x", int(0.85*float64(maxComponentSize)))
	r := structural(t, big)
	assert.Contains(t, findingCodes(r.Warnings), CodeSizeNearLimit)
	assert.NotContains(t, findingCodes(r.Errors), CodeSizeExceeded)
}

func TestStructural_ShortDescription(t *testing.T) {
	r := structural(t, "---\nname: reviewer\ndescription: todo\n---\n\n# Body\n\nLong enough body text for the heuristics to pass fine.\n")
	assert.Contains(t, findingCodes(r.Warnings), CodeShortDescription)
}

func TestStructural_LongDescription(t *testing.T) {
	doc := "---\nname: reviewer\ndescription: " + strings.Repeat("very long ", 60) + "\n---\n\n# Body\n\nLong enough body text for the heuristics to pass fine.\n"
	r := structural(t, doc)
	assert.Contains(t, findingCodes(r.Warnings), CodeLongDescription)
}

func TestStructural_UnknownTool(t *testing.T) {
	doc := "---\nname: reviewer\ndescription: Reviews pull requests carefully.\nmodel: sonnet\nallowed-tools: Read, LaunchMissiles\n---\n\n# Body\n\nLong enough body text for the heuristics to pass fine.\n"
	r := structural(t, doc)
	assert.Contains(t, findingCodes(r.Warnings), CodeUnknownTool)
}

func TestStructural_MissingModelWarns(t *testing.T) {
	doc := "---\nname: reviewer\ndescription: Reviews pull requests carefully.\n---\n\n# Body\n\nLong enough body text for the heuristics to pass fine.\n"
	r := structural(t, doc)
	assert.Contains(t, findingCodes(r.Warnings), CodeMissingModel)
	assert.True(t, r.Valid)
}

func TestStructural_UnknownModelWarns(t *testing.T) {
	doc := "---\nname: reviewer\ndescription: Reviews pull requests carefully.\nmodel: gpt-9\n---\n\n# Body\n\nLong enough body text for the heuristics to pass fine.\n"
	r := structural(t, doc)
	assert.Contains(t, findingCodes(r.Warnings), CodeUnknownModel)
}

func TestStructural_ShortBody(t *testing.T) {
	doc := "---\nname: reviewer\ndescription: Reviews pull requests carefully.\nmodel: sonnet\n---\n\nstub\n"
	r := structural(t, doc)
	assert.Contains(t, findingCodes(r.Warnings), CodeShortBody)
}

func TestStructural_NoSections(t *testing.T) {
	doc := "---\nname: reviewer\ndescription: Reviews pull requests carefully.\nmodel: sonnet\n---\n\n" + strings.Repeat("plain text without any headers at all ", 5) + "\n"
	r := structural(t, doc)
	assert.Contains(t, findingCodes(r.Warnings), CodeNoSections)
}

func TestStructural_TooManySections(t *testing.T) {
	doc := "---\nname: reviewer\ndescription: Reviews pull requests carefully.\nmodel: sonnet\n---\n\n" + strings.Repeat("# Section\ntext\n", maxSectionHeaders+1)
	r := structural(t, doc)
	assert.Contains(t, findingCodes(r.Warnings), CodeTooManySections)
}

func TestStructural_ControlBytes(t *testing.T) {
	r := structural(t, goodDoc+"\x00")
	assert.Contains(t, findingCodes(r.Errors), CodeControlBytes)
}

func TestStructural_CamelCaseNameWarns(t *testing.T) {
	doc := "---\nname: codeReviewer\ndescription: Reviews pull requests carefully.\nmodel: sonnet\n---\n\n# Body\n\nLong enough body text for the heuristics to pass fine.\n"
	r := structural(t, doc)
	assert.Contains(t, findingCodes(r.Warnings), CodeNameNotKebabCase)
}

func TestStructural_KebabNameAccepted(t *testing.T) {
	r := structural(t, goodDoc)
	assert.NotContains(t, findingCodes(r.Warnings), CodeNameNotKebabCase)
}

func TestStructural_ScoreBounds(t *testing.T) {
	r := structural(t, goodDoc)
	assert.GreaterOrEqual(t, r.Score, 0)
	assert.LessOrEqual(t, r.Score, 100)
}

func TestParseFrontmatter_RoundTrip(t *testing.T) {
	fm, body, err := ParseFrontmatter(goodDoc)
	require.NoError(t, err)
	assert.Equal(t, "code-reviewer", fm["name"])
	assert.Contains(t, body, "# Code Reviewer")
}

func TestParseFrontmatter_NoHeader(t *testing.T) {
	_, _, err := ParseFrontmatter("# body only")
	assert.ErrorIs(t, err, ErrNoFrontmatter)
}

func TestParseFrontmatter_UnterminatedHeader(t *testing.T) {
	_, _, err := ParseFrontmatter("---\nname: x\nnever closed")
	assert.ErrorIs(t, err, ErrNoFrontmatter)
}
