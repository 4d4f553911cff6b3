package validators

import (
	"fmt"
	"unicode/utf8"

	"github.com/agentvet/agentvet/internal/domain"
)

// Risk levels produced by the dedicated security-report view.
const (
	RiskCritical = "CRITICAL"
	RiskHigh     = "HIGH"
	RiskMedium   = "MEDIUM"
	RiskLow      = "LOW"
)

// SemanticOptions controls a single semantic check.
type SemanticOptions struct {
	// Strict counts every warning toward invalidity without removing it
	// from the warnings list.
	Strict bool
}

// SecurityReport is the operator-facing risk view of a component.
type SecurityReport struct {
	Safe      bool             `json:"safe"`
	RiskLevel string           `json:"risk_level"`
	Summary   string           `json:"summary"`
	Issues    []domain.Finding `json:"issues"`
}

// SemanticValidator scans the document against the adversarial-pattern rule
// catalogue. Per-rule severity can be reclassified via configuration, since
// several rules are deliberately strict heuristics that can fire on
// legitimate descriptive text.
type SemanticValidator struct {
	rules     []Rule
	overrides map[string]string
}

func NewSemanticValidator(severityOverrides map[string]string) *SemanticValidator {
	return &SemanticValidator{rules: SecurityRules(), overrides: severityOverrides}
}

// Validate evaluates every applicable rule against the full document text.
func (v *SemanticValidator) Validate(c domain.Component, opts SemanticOptions) *domain.ValidatorResult {
	result := domain.NewValidatorResult()

	for _, rule := range v.rules {
		if !rule.appliesTo(c.Type) {
			continue
		}
		loc := rule.Pattern.FindStringIndex(c.Content)
		if loc == nil {
			continue
		}
		result.Add(domain.Finding{
			Code:     rule.Code,
			Severity: v.severityFor(rule),
			Message:  rule.Message,
			Line:     lineAt(c.Content, loc[0]),
			Context:  GetContext(c.Content, loc[0], 40),
		})
	}

	if opts.Strict && result.WarningCount() > 0 {
		result.Valid = false
	}
	result.Finalize()
	return result
}

// GenerateSecurityReport runs the full rule set and classifies the overall
// risk. Error findings from SEM0xx/SEM1xx/SEM2xx/SEM3xx count as critical
// or high by rule family; warnings count as medium.
func (v *SemanticValidator) GenerateSecurityReport(c domain.Component) SecurityReport {
	result := v.Validate(c, SemanticOptions{})

	var critical, high int
	for _, f := range result.Errors {
		if isCriticalCode(f.Code) {
			critical++
		} else {
			high++
		}
	}
	medium := result.WarningCount()

	report := SecurityReport{
		Safe:      result.Valid,
		RiskLevel: CalculateRiskLevel(critical, high, medium),
	}
	report.Issues = append(report.Issues, result.Errors...)
	report.Issues = append(report.Issues, result.Warnings...)
	report.Summary = fmt.Sprintf("%d critical, %d high, %d medium finding(s)", critical, high, medium)
	return report
}

// CalculateRiskLevel maps severity counts to a coarse risk classification.
func CalculateRiskLevel(critical, high, medium int) string {
	switch {
	case critical > 0:
		return RiskCritical
	case high > 0:
		return RiskHigh
	case medium > 0:
		return RiskMedium
	default:
		return RiskLow
	}
}

// GetContext returns a bounded text window around index for operator review:
// radius bytes either side of index, inclusive, clamped to the content bounds
// and snapped outward to rune boundaries so the window is always valid UTF-8.
func GetContext(content string, index, radius int) string {
	if index < 0 || index >= len(content) {
		return ""
	}
	start := index - radius
	if start < 0 {
		start = 0
	}
	end := index + radius + 1
	if end > len(content) {
		end = len(content)
	}
	for start > 0 && !utf8.RuneStart(content[start]) {
		start--
	}
	for end < len(content) && !utf8.RuneStart(content[end]) {
		end++
	}
	return content[start:end]
}

func (v *SemanticValidator) severityFor(rule Rule) string {
	if sev, ok := v.overrides[rule.Code]; ok {
		return sev
	}
	return rule.Severity
}

// isCriticalCode: prompt-manipulation and injection families are critical;
// hardcoded secrets and type-specific danger rules are high.
func isCriticalCode(code string) bool {
	switch code {
	case CodeInstructionOverride, CodeRevealSystemPrompt, CodeRoleManipulation,
		CodeContextReset, CodeCodeExecution, CodeShellAccess,
		CodeCredentialHarvesting, CodeSecurityBypass, CodeBlindObedience,
		CodeSelfModification, CodeScriptTag, CodeIframeTag,
		CodeJavascriptLink, CodeEventHandler:
		return true
	}
	return false
}

func lineAt(content string, index int) int {
	line := 1
	for i := 0; i < index && i < len(content); i++ {
		if content[i] == '\n' {
			line++
		}
	}
	return line
}
