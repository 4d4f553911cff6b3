package domain

import "time"

// ComponentType identifies the kind of component a document defines.
type ComponentType string

const (
	TypeAgent    ComponentType = "agent"
	TypeCommand  ComponentType = "command"
	TypeSetting  ComponentType = "setting"
	TypeHook     ComponentType = "hook"
	TypeMCP      ComponentType = "mcp"
	TypeTemplate ComponentType = "template"
)

// KnownTypes lists every component type the pipeline accepts.
func KnownTypes() []ComponentType {
	return []ComponentType{TypeAgent, TypeCommand, TypeSetting, TypeHook, TypeMCP, TypeTemplate}
}

// Component is the unit under validation: a markdown document with a YAML
// frontmatter header and a free-form body. Immutable for the duration of a
// validation run.
type Component struct {
	Content string        `json:"content"`
	Path    string        `json:"path"`
	Type    ComponentType `json:"type"`
	Version string        `json:"version,omitempty"`
}

// Finding is one reported issue with a stable machine-readable code.
type Finding struct {
	Code     string `json:"code"`
	Severity string `json:"severity"`
	Message  string `json:"message"`
	Line     int    `json:"line,omitempty"`
	Context  string `json:"context,omitempty"`
}

const (
	SeverityError   = "error"
	SeverityWarning = "warning"
	SeverityInfo    = "info"
)

// ValidatorResult collects the findings of a single validator over a single
// component. Valid is true iff zero error-severity findings were recorded.
type ValidatorResult struct {
	Valid    bool      `json:"valid"`
	Errors   []Finding `json:"errors"`
	Warnings []Finding `json:"warnings"`
	Info     []Finding `json:"info"`
	Score    int       `json:"score"`
}

// NewValidatorResult returns an empty, valid result.
func NewValidatorResult() *ValidatorResult {
	return &ValidatorResult{Valid: true}
}

// Add records a finding under its severity bucket. Error findings flip Valid.
func (r *ValidatorResult) Add(f Finding) {
	switch f.Severity {
	case SeverityError:
		r.Errors = append(r.Errors, f)
		r.Valid = false
	case SeverityWarning:
		r.Warnings = append(r.Warnings, f)
	default:
		r.Info = append(r.Info, f)
	}
}

func (r *ValidatorResult) AddError(code, message string) {
	r.Add(Finding{Code: code, Severity: SeverityError, Message: message})
}

func (r *ValidatorResult) AddWarning(code, message string) {
	r.Add(Finding{Code: code, Severity: SeverityWarning, Message: message})
}

func (r *ValidatorResult) AddInfo(code, message string) {
	r.Add(Finding{Code: code, Severity: SeverityInfo, Message: message})
}

func (r *ValidatorResult) ErrorCount() int   { return len(r.Errors) }
func (r *ValidatorResult) WarningCount() int { return len(r.Warnings) }

// Finalize computes the validator's score from its recorded findings.
func (r *ValidatorResult) Finalize() {
	r.Score = DeriveScore(r.ErrorCount(), r.WarningCount())
}

const (
	errorPenalty   = 25
	warningPenalty = 10
)

// DeriveScore converts error/warning counts into a 0-100 score using a fixed
// deduction per finding, floored at 0.
func DeriveScore(errors, warnings int) int {
	score := 100 - errors*errorPenalty - warnings*warningPenalty
	if score < 0 {
		return 0
	}
	return score
}

// IntegrityResult extends ValidatorResult with the computed content digest
// and the version the document declares.
type IntegrityResult struct {
	ValidatorResult
	Hash    string `json:"hash,omitempty"`
	Version string `json:"version,omitempty"`
}

// RegistryEntry is the persisted last-known-good state for one component
// path: content digest, declared version, and when it was recorded.
type RegistryEntry struct {
	Hash      string    `json:"hash"`
	Version   string    `json:"version,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}
