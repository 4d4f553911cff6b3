package validators

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/fatih/camelcase"
	"github.com/xeipuuv/gojsonschema"
	"gopkg.in/yaml.v3"

	"github.com/agentvet/agentvet/internal/domain"
)

// Structural validator codes.
const (
	CodeMissingFrontmatter = "STR001"
	CodeMalformedHeader    = "STR002"
	CodeMissingField       = "STR003"
	CodeSizeExceeded       = "STR004"
	CodeControlBytes       = "STR005"

	CodeSizeNearLimit    = "STRW01"
	CodeShortDescription = "STRW02"
	CodeLongDescription  = "STRW03"
	CodeUnknownTool      = "STRW04"
	CodeMissingModel     = "STRW05"
	CodeUnknownModel     = "STRW06"
	CodeShortBody        = "STRW07"
	CodeNoSections       = "STRW08"
	CodeTooManySections  = "STRW09"
	CodeNameNotKebabCase = "STRW10"
)

const (
	maxComponentSize  = 100 * 1024
	sizeWarnRatio     = 0.8
	minDescriptionLen = 10
	maxDescriptionLen = 500
	minBodyLen        = 50
	maxSectionHeaders = 40
)

// frontmatterSchema is the shape every component header must satisfy.
// Violations map to CodeMissingField findings.
const frontmatterSchema = `{
	"type": "object",
	"required": ["name", "description"],
	"properties": {
		"name": {"type": "string", "minLength": 1},
		"description": {"type": "string", "minLength": 1}
	}
}`

var knownTools = map[string]bool{
	"Read": true, "Write": true, "Edit": true, "MultiEdit": true,
	"Bash": true, "Grep": true, "Glob": true, "LS": true,
	"WebFetch": true, "WebSearch": true, "Task": true,
	"NotebookRead": true, "NotebookEdit": true, "TodoWrite": true,
}

var knownModels = map[string]bool{
	"haiku": true, "sonnet": true, "opus": true, "inherit": true,
}

// StructuralValidator verifies that a component document is well-formed:
// parseable frontmatter, required fields, size bounds, encoding sanity,
// and body-structure heuristics.
type StructuralValidator struct {
	schema *gojsonschema.Schema
}

func NewStructuralValidator() *StructuralValidator {
	schema, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(frontmatterSchema))
	if err != nil {
		// The schema is a compile-time constant; failing to parse it is a
		// programming error, not an input defect.
		panic(fmt.Sprintf("frontmatter schema: %v", err))
	}
	return &StructuralValidator{schema: schema}
}

// Validate runs every structural check over the component and returns the
// collected findings with a per-validator score.
func (v *StructuralValidator) Validate(c domain.Component) *domain.ValidatorResult {
	result := domain.NewValidatorResult()
	defer result.Finalize()

	if hasControlBytes(c.Content) {
		result.AddError(CodeControlBytes, "document contains NUL or non-text control bytes (possible corruption or injection)")
	}

	size := len(c.Content)
	switch {
	case size > maxComponentSize:
		result.AddError(CodeSizeExceeded, fmt.Sprintf("document is %d bytes, exceeding the %d byte limit", size, maxComponentSize))
	case float64(size) >= sizeWarnRatio*float64(maxComponentSize):
		result.AddWarning(CodeSizeNearLimit, fmt.Sprintf("document is %d bytes, approaching the %d byte limit", size, maxComponentSize))
	}

	fm, body, err := ParseFrontmatter(c.Content)
	if err != nil {
		if err == ErrNoFrontmatter {
			result.AddError(CodeMissingFrontmatter, "document has no frontmatter header")
		} else {
			result.AddError(CodeMalformedHeader, fmt.Sprintf("frontmatter is not valid YAML: %v", err))
		}
		v.checkBody(c.Content, result)
		return result
	}

	v.checkRequiredFields(fm, result)
	v.checkName(fm, result)
	v.checkDescription(fm, result)
	v.checkTools(fm, result)
	v.checkModel(fm, result)
	v.checkBody(body, result)

	return result
}

func (v *StructuralValidator) checkRequiredFields(fm map[string]any, result *domain.ValidatorResult) {
	sr, err := v.schema.Validate(gojsonschema.NewGoLoader(fm))
	if err != nil {
		result.AddError(CodeMalformedHeader, fmt.Sprintf("frontmatter cannot be checked against schema: %v", err))
		return
	}
	for _, desc := range sr.Errors() {
		result.AddError(CodeMissingField, fmt.Sprintf("frontmatter field %s: %s", desc.Field(), desc.Description()))
	}
}

func (v *StructuralValidator) checkName(fm map[string]any, result *domain.ValidatorResult) {
	name, _ := fm["name"].(string)
	if name == "" {
		return
	}
	// Names already separated by dashes or underscores are fine; only
	// multi-word camelCase/PascalCase names draw the warning.
	if strings.ContainsAny(name, "-_ ") {
		return
	}
	if len(camelcase.Split(name)) > 1 {
		result.AddWarning(CodeNameNotKebabCase, fmt.Sprintf("component name %q should be kebab-case", name))
	}
}

func (v *StructuralValidator) checkDescription(fm map[string]any, result *domain.ValidatorResult) {
	desc, _ := fm["description"].(string)
	if desc == "" {
		return
	}
	if len(desc) < minDescriptionLen {
		result.AddWarning(CodeShortDescription, fmt.Sprintf("description is %d characters; looks like a placeholder", len(desc)))
	} else if len(desc) > maxDescriptionLen {
		result.AddWarning(CodeLongDescription, fmt.Sprintf("description is %d characters, over the %d character display budget", len(desc), maxDescriptionLen))
	}
}

func (v *StructuralValidator) checkTools(fm map[string]any, result *domain.ValidatorResult) {
	for _, tool := range declaredTools(fm) {
		if !knownTools[tool] {
			result.AddWarning(CodeUnknownTool, fmt.Sprintf("unknown tool %q in allowed-tools", tool))
		}
	}
}

func (v *StructuralValidator) checkModel(fm map[string]any, result *domain.ValidatorResult) {
	model, ok := fm["model"].(string)
	if !ok || model == "" {
		result.AddWarning(CodeMissingModel, "no model declared (recommended)")
		return
	}
	if !knownModels[strings.ToLower(model)] {
		result.AddWarning(CodeUnknownModel, fmt.Sprintf("unrecognized model %q", model))
	}
}

func (v *StructuralValidator) checkBody(body string, result *domain.ValidatorResult) {
	trimmed := strings.TrimSpace(body)
	if len(trimmed) < minBodyLen {
		result.AddWarning(CodeShortBody, fmt.Sprintf("body is %d characters; likely incomplete", len(trimmed)))
	}

	headers := 0
	for _, line := range strings.Split(body, "\n") {
		if strings.HasPrefix(strings.TrimSpace(line), "#") {
			headers++
		}
	}
	if headers == 0 && len(trimmed) >= minBodyLen {
		result.AddWarning(CodeNoSections, "body has no section headers")
	} else if headers > maxSectionHeaders {
		result.AddWarning(CodeTooManySections, fmt.Sprintf("body has %d section headers; over-fragmented", headers))
	}
}

// declaredTools reads the allowed-tools key, accepting both a YAML list and
// a comma-separated string (both occur in the wild).
func declaredTools(fm map[string]any) []string {
	var tools []string
	switch raw := fm["allowed-tools"].(type) {
	case []any:
		for _, t := range raw {
			if s, ok := t.(string); ok {
				tools = append(tools, strings.TrimSpace(s))
			}
		}
	case string:
		for _, s := range strings.Split(raw, ",") {
			if s = strings.TrimSpace(s); s != "" {
				tools = append(tools, s)
			}
		}
	}
	return tools
}

func hasControlBytes(content string) bool {
	for _, r := range content {
		if r == 0 || (unicode.IsControl(r) && r != '\n' && r != '\r' && r != '\t') {
			return true
		}
	}
	return false
}

// ErrNoFrontmatter reports a document that does not start with a "---"
// delimited header block.
var ErrNoFrontmatter = fmt.Errorf("no frontmatter block")

// ParseFrontmatter splits a document into its YAML header map and body.
// Returns ErrNoFrontmatter when no delimited block exists, or the YAML
// error when the block does not parse.
func ParseFrontmatter(content string) (map[string]any, string, error) {
	if !strings.HasPrefix(content, "---\n") && content != "---" && !strings.HasPrefix(content, "---\r\n") {
		return nil, content, ErrNoFrontmatter
	}

	rest := strings.TrimPrefix(strings.TrimPrefix(content, "---\r\n"), "---\n")
	var header, body string
	if idx := strings.Index(rest, "\n---"); idx >= 0 {
		header = rest[:idx]
		body = rest[idx+len("\n---"):]
		body = strings.TrimPrefix(strings.TrimPrefix(body, "\r"), "\n")
	} else {
		return nil, content, ErrNoFrontmatter
	}

	var fm map[string]any
	if err := yaml.Unmarshal([]byte(header), &fm); err != nil {
		return nil, body, err
	}
	if fm == nil {
		fm = map[string]any{}
	}
	return fm, body, nil
}
