package validators

import (
	"fmt"
	"net"
	"net/url"
	"regexp"
	"strings"

	"github.com/agentvet/agentvet/internal/domain"
)

// Reference validator codes.
const (
	CodeFileScheme       = "REF001"
	CodeJavascriptScheme = "REF002"
	CodeVbscriptScheme   = "REF003"
	CodeDataScheme       = "REF004"
	CodePrivateAddress   = "REF005"

	CodeInsecureHTTP  = "REFW01"
	CodeLocalhostLink = "REFW02"
	CodeSuspiciousTLD = "REFW03"
	CodeMalformedURL  = "REFW04"
	CodeLargeDataURI  = "REFW05"
)

// maxInlineImageBytes is the allowance for inline data-URI images before
// they are flagged as payload smuggling / document bloat.
const maxInlineImageBytes = 4 * 1024

var (
	markdownLinkPattern = regexp.MustCompile(`!?\[[^\]]*\]\(([^)\s]+)[^)]*\)`)
	bareURLPattern      = regexp.MustCompile(`[a-zA-Z][a-zA-Z0-9+.-]*://[^\s<>()\[\]"']+`)

	suspiciousTLDs = map[string]bool{
		"tk": true, "ml": true, "ga": true, "cf": true, "gq": true,
	}

	// benignSchemes are non-network schemes with no host component; they are
	// neither a fetch target nor a script vector.
	benignSchemes = map[string]bool{
		"mailto": true, "tel": true,
	}
)

// ReferenceOptions controls a single reference check.
type ReferenceOptions struct {
	// StrictHTTPS escalates plain http links from warning to error.
	StrictHTTPS bool
}

// Reference is one extracted link target.
type Reference struct {
	Target  string
	IsImage bool
}

// LinkStats summarizes the reference population of a document,
// independent of pass/fail status.
type LinkStats struct {
	Total        int     `json:"total"`
	HTTPS        int     `json:"https"`
	HTTP         int     `json:"http"`
	HTTPSPercent float64 `json:"https_percent"`
}

// ReferenceValidator extracts every hyperlink and image reference from the
// document body and evaluates protocol and target safety. Link safety is
// syntactic only; no URL is ever fetched.
type ReferenceValidator struct{}

func NewReferenceValidator() *ReferenceValidator {
	return &ReferenceValidator{}
}

// Validate evaluates every extracted reference against the protocol and
// target policies.
func (v *ReferenceValidator) Validate(c domain.Component, opts ReferenceOptions) *domain.ValidatorResult {
	result := domain.NewValidatorResult()
	defer result.Finalize()

	for _, ref := range ExtractReferences(c.Content) {
		v.checkReference(ref, opts, result)
	}
	return result
}

// ExtractReferences scans content for markdown links/images and bare
// scheme:// tokens, de-duplicating identical literal targets.
func ExtractReferences(content string) []Reference {
	seen := make(map[string]bool)
	var refs []Reference

	add := func(target string, isImage bool) {
		if target == "" || seen[target] {
			return
		}
		seen[target] = true
		refs = append(refs, Reference{Target: target, IsImage: isImage})
	}

	for _, m := range markdownLinkPattern.FindAllStringSubmatch(content, -1) {
		add(m[1], strings.HasPrefix(m[0], "!"))
	}
	for _, m := range bareURLPattern.FindAllString(content, -1) {
		add(strings.TrimRight(m, ".,;:!?"), false)
	}
	return refs
}

func (v *ReferenceValidator) checkReference(ref Reference, opts ReferenceOptions, result *domain.ValidatorResult) {
	target := ref.Target
	lower := strings.ToLower(target)

	// Scheme policy applies even to targets the URL parser rejects.
	switch {
	case strings.HasPrefix(lower, "javascript:"):
		result.AddError(CodeJavascriptScheme, fmt.Sprintf("javascript: link executes script when rendered: %s", truncate(target, 80)))
		return
	case strings.HasPrefix(lower, "vbscript:"):
		result.AddError(CodeVbscriptScheme, fmt.Sprintf("vbscript: link executes script when rendered: %s", truncate(target, 80)))
		return
	case strings.HasPrefix(lower, "file:"):
		result.AddError(CodeFileScheme, fmt.Sprintf("file: link enables local file disclosure: %s", truncate(target, 80)))
		return
	case strings.HasPrefix(lower, "data:"):
		v.checkDataURI(ref, result)
		return
	}

	u, err := url.Parse(target)
	if err == nil && benignSchemes[strings.ToLower(u.Scheme)] {
		return
	}
	if err != nil || u.Scheme == "" || u.Host == "" {
		// Free text contains incidental scheme-like tokens; soft signal only.
		result.AddWarning(CodeMalformedURL, fmt.Sprintf("reference does not parse as a URL: %s", truncate(target, 80)))
		return
	}

	if u.Scheme == "http" {
		if opts.StrictHTTPS {
			result.AddError(CodeInsecureHTTP, fmt.Sprintf("insecure http link (strict mode): %s", truncate(target, 80)))
		} else {
			result.AddWarning(CodeInsecureHTTP, fmt.Sprintf("insecure http link: %s", truncate(target, 80)))
		}
	}

	v.checkHost(u.Hostname(), target, result)
}

func (v *ReferenceValidator) checkHost(host, target string, result *domain.ValidatorResult) {
	if host == "" {
		return
	}
	lower := strings.ToLower(host)

	if lower == "localhost" || strings.HasSuffix(lower, ".localhost") {
		result.AddWarning(CodeLocalhostLink, fmt.Sprintf("link targets localhost: %s", truncate(target, 80)))
		return
	}

	if ip := net.ParseIP(host); ip != nil {
		if ip.IsLoopback() || ip.IsPrivate() || ip.IsLinkLocalUnicast() || ip.IsUnspecified() {
			result.AddError(CodePrivateAddress, fmt.Sprintf("link targets a private or loopback address (exfiltration or local-service probing risk): %s", truncate(target, 80)))
		}
		return
	}

	if idx := strings.LastIndex(lower, "."); idx >= 0 && suspiciousTLDs[lower[idx+1:]] {
		result.AddWarning(CodeSuspiciousTLD, fmt.Sprintf("host TLD is associated with abuse: %s", truncate(target, 80)))
	}
}

func (v *ReferenceValidator) checkDataURI(ref Reference, result *domain.ValidatorResult) {
	lower := strings.ToLower(ref.Target)
	isImage := ref.IsImage || strings.HasPrefix(lower, "data:image/")
	if !isImage {
		result.AddError(CodeDataScheme, fmt.Sprintf("data: URI smuggles an arbitrary payload: %s", truncate(ref.Target, 60)))
		return
	}
	if len(ref.Target) > maxInlineImageBytes {
		result.AddWarning(CodeLargeDataURI, fmt.Sprintf("inline image is %d bytes (limit %d); bloats the document", len(ref.Target), maxInlineImageBytes))
	}
}

// Stats counts total/https/http references and the https percentage.
func (v *ReferenceValidator) Stats(c domain.Component) LinkStats {
	stats := LinkStats{}
	for _, ref := range ExtractReferences(c.Content) {
		stats.Total++
		switch {
		case strings.HasPrefix(strings.ToLower(ref.Target), "https://"):
			stats.HTTPS++
		case strings.HasPrefix(strings.ToLower(ref.Target), "http://"):
			stats.HTTP++
		}
	}
	if stats.Total > 0 {
		stats.HTTPSPercent = 100 * float64(stats.HTTPS) / float64(stats.Total)
	}
	return stats
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
