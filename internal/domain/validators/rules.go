package validators

import (
	"regexp"

	"github.com/agentvet/agentvet/internal/domain"
)

// Rule is one adversarial-pattern detection, bound to a stable code.
// The catalogue is data: adding or removing a detection is a table change,
// not a control-flow change.
type Rule struct {
	Code     string
	Severity string
	Pattern  *regexp.Regexp
	Message  string
	// Types restricts the rule to specific component types. Empty means all.
	Types []domain.ComponentType
}

// Semantic validator codes. SEM0xx are prompt-manipulation and unsafe-request
// rules, SEM1xx hardcoded secret material, SEM2xx script/markup injection,
// SEM3xx type-specific danger rules, SEMW0x lower-confidence signals.
const (
	CodeInstructionOverride  = "SEM001"
	CodeRevealSystemPrompt   = "SEM002"
	CodeRoleManipulation     = "SEM003"
	CodeContextReset         = "SEM004"
	CodeCodeExecution        = "SEM005"
	CodeShellAccess          = "SEM006"
	CodeCredentialHarvesting = "SEM007"
	CodeSecurityBypass       = "SEM008"
	CodeBlindObedience       = "SEM009"
	CodeSelfModification     = "SEM010"

	CodeHardcodedPassword = "SEM101"
	CodeHardcodedAPIKey   = "SEM102"
	CodeHardcodedToken    = "SEM103"

	CodeScriptTag      = "SEM201"
	CodeIframeTag      = "SEM202"
	CodeJavascriptLink = "SEM203"
	CodeEventHandler   = "SEM204"

	CodeDestructiveCommand = "SEM301"
	CodeForkBomb           = "SEM302"

	CodeRolePretending   = "SEMW01"
	CodeJailbreakSlang   = "SEMW02"
	CodeOverlyPermissive = "SEMW03"
)

// securityRules is the fixed catalogue evaluated uniformly by the semantic
// validator, in order. Matching is best-effort pattern detection, not a
// guarantee of safety.
var securityRules = []Rule{
	// Prompt manipulation.
	{
		Code: CodeInstructionOverride, Severity: domain.SeverityError,
		Pattern: regexp.MustCompile(`(?i)(ignore|disregard|forget)\s+(all\s+|any\s+)?(previous|prior|above|earlier)\s+(instructions?|prompts?|rules?|context)`),
		Message: "instruction-override phrasing (jailbreak attempt)",
	},
	{
		Code: CodeRevealSystemPrompt, Severity: domain.SeverityError,
		Pattern: regexp.MustCompile(`(?i)(reveal|show|print|display|output|repeat)\s+(your\s+|the\s+)?(system|developer|initial|original)\s+(prompt|instructions?|message)`),
		Message: "request to reveal system or developer instructions",
	},
	{
		Code: CodeRoleManipulation, Severity: domain.SeverityError,
		Pattern: regexp.MustCompile(`(?i)you\s+are\s+now\s+(a|an)\s+(unrestricted|unfiltered|uncensored|jailbroken)`),
		Message: "role manipulation into an unrestricted persona",
	},
	{
		Code: CodeContextReset, Severity: domain.SeverityError,
		Pattern: regexp.MustCompile(`(?i)(forget|erase|clear)\s+(everything|all\s+context|your\s+memory)\s*(and\s+start\s+(fresh|over|anew))?`),
		Message: "context-reset manipulation",
	},
	{
		Code: CodeCodeExecution, Severity: domain.SeverityError,
		Pattern: regexp.MustCompile(`(?i)(execute|run|eval)\s+(any|arbitrary|the\s+following|this)\s+(code|script|program|payload)`),
		Message: "arbitrary code-execution request",
	},
	{
		Code: CodeShellAccess, Severity: domain.SeverityError,
		Pattern: regexp.MustCompile(`(?i)(give|grant|provide|open)\s+(me\s+|us\s+)?(an?\s+)?(interactive\s+)?(shell|terminal|root)\s+(access|session)`),
		Message: "shell or terminal access request",
	},
	{
		Code: CodeCredentialHarvesting, Severity: domain.SeverityError,
		Pattern: regexp.MustCompile(`(?i)(send|share|reveal|print|exfiltrate|list)\s+(your\s+|the\s+|all\s+)?(api[\s_-]?keys?|passwords?|secrets?|credentials?|environment\s+variables?|\$?env\b)`),
		Message: "credential or secret harvesting request",
	},
	{
		Code: CodeSecurityBypass, Severity: domain.SeverityError,
		Pattern: regexp.MustCompile(`(?i)(bypass|disable|circumvent|ignore|skip)\s+(the\s+|all\s+|any\s+)?(security|safety|content)\s+(controls?|checks?|filters?|restrictions?|measures?)`),
		Message: "security-control bypass instruction",
	},
	{
		Code: CodeBlindObedience, Severity: domain.SeverityError,
		Pattern: regexp.MustCompile(`(?i)(always\s+(obey|comply|follow)|never\s+(refuse|question|decline))\s+(any|all|every|the\s+user)`),
		Message: "unconditional-obedience instruction",
	},
	{
		Code: CodeSelfModification, Severity: domain.SeverityError,
		Pattern: regexp.MustCompile(`(?i)(modify|rewrite|change|update)\s+(your\s+own|these)\s+(instructions?|rules?|prompt|configuration)`),
		Message: "self-modification request",
	},

	// Hardcoded secret material, matched by shape.
	{
		Code: CodeHardcodedPassword, Severity: domain.SeverityError,
		Pattern: regexp.MustCompile(`(?i)password\s*[:=]\s*["']?[^\s"']{8,}`),
		Message: "hardcoded password-like value",
	},
	{
		Code: CodeHardcodedAPIKey, Severity: domain.SeverityError,
		Pattern: regexp.MustCompile(`\b(sk-[A-Za-z0-9]{20,}|AKIA[0-9A-Z]{16}|AIza[0-9A-Za-z_-]{35})\b`),
		Message: "hardcoded API-key-like value",
	},
	{
		Code: CodeHardcodedToken, Severity: domain.SeverityError,
		Pattern: regexp.MustCompile(`\b(gh[pousr]_[A-Za-z0-9]{36,}|xox[baprs]-[A-Za-z0-9-]{10,}|eyJ[A-Za-z0-9_-]{20,}\.[A-Za-z0-9_-]{10,})`),
		Message: "hardcoded token-like value",
	},

	// Script and markup injection.
	{
		Code: CodeScriptTag, Severity: domain.SeverityError,
		Pattern: regexp.MustCompile(`(?i)<script[\s>]`),
		Message: "embedded script tag",
	},
	{
		Code: CodeIframeTag, Severity: domain.SeverityError,
		Pattern: regexp.MustCompile(`(?i)<iframe[\s>]`),
		Message: "embedded iframe tag",
	},
	{
		Code: CodeJavascriptLink, Severity: domain.SeverityError,
		Pattern: regexp.MustCompile(`(?i)\[[^\]]*\]\(\s*javascript:`),
		Message: "javascript: target inside a markdown link",
	},
	{
		Code: CodeEventHandler, Severity: domain.SeverityError,
		Pattern: regexp.MustCompile(`(?i)\son(click|error|load|mouseover|focus|submit)\s*=`),
		Message: "inline event-handler attribute",
	},

	// Danger rules for executable command documents.
	{
		Code: CodeDestructiveCommand, Severity: domain.SeverityError,
		Pattern: regexp.MustCompile(`(?i)(rm\s+-[rf]{2,}\s+(/|~|\$HOME)|mkfs\.|dd\s+if=.*\s+of=/dev/)`),
		Message: "destructive filesystem command",
		Types:   []domain.ComponentType{domain.TypeCommand},
	},
	{
		Code: CodeForkBomb, Severity: domain.SeverityError,
		Pattern: regexp.MustCompile(`:\(\)\s*\{\s*:\|:\s*&\s*\}\s*;\s*:`),
		Message: "fork-bomb shell idiom",
		Types:   []domain.ComponentType{domain.TypeCommand},
	},

	// Lower-confidence signals.
	{
		Code: CodeRolePretending, Severity: domain.SeverityWarning,
		Pattern: regexp.MustCompile(`(?i)pretend\s+(to\s+be|you\s+are)`),
		Message: "role-pretending language",
	},
	{
		Code: CodeJailbreakSlang, Severity: domain.SeverityWarning,
		Pattern: regexp.MustCompile(`(?i)\b(DAN\s+mode|jailbreak|dev(eloper)?\s+mode\s+enabled)\b`),
		Message: "known jailbreak slang",
	},
	{
		Code: CodeOverlyPermissive, Severity: domain.SeverityWarning,
		Pattern: regexp.MustCompile(`(?i)(can|will)\s+do\s+anything|no\s+(limits|restrictions)\s+(apply|whatsoever)`),
		Message: "overly permissive capability phrasing",
		Types:   []domain.ComponentType{domain.TypeAgent},
	},
}

// SecurityRules returns the catalogue in evaluation order.
func SecurityRules() []Rule {
	return securityRules
}

func (r Rule) appliesTo(t domain.ComponentType) bool {
	if len(r.Types) == 0 {
		return true
	}
	for _, rt := range r.Types {
		if rt == t {
			return true
		}
	}
	return false
}
