package validators

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/agentvet/agentvet/internal/domain"
)

func reference(t *testing.T, content string, opts ReferenceOptions) *domain.ValidatorResult {
	t.Helper()
	v := NewReferenceValidator()
	return v.Validate(domain.Component{Content: content, Path: "agents/dev.md", Type: domain.TypeAgent}, opts)
}

func TestReference_NoLinks(t *testing.T) {
	r := reference(t, "# Doc\n\nNo links here at all.", ReferenceOptions{})
	assert.True(t, r.Valid)
	assert.Empty(t, r.Errors)
	assert.Empty(t, r.Warnings)
}

func TestReference_HTTPSClean(t *testing.T) {
	r := reference(t, "[docs](https://example.com/docs)", ReferenceOptions{})
	assert.True(t, r.Valid)
	assert.Empty(t, r.Warnings)
}

func TestReference_FileScheme(t *testing.T) {
	r := reference(t, "[passwd](file:///etc/passwd)", ReferenceOptions{})
	assert.Contains(t, findingCodes(r.Errors), CodeFileScheme)
}

func TestReference_JavascriptScheme(t *testing.T) {
	r := reference(t, "[click](javascript:alert(1))", ReferenceOptions{})
	assert.Contains(t, findingCodes(r.Errors), CodeJavascriptScheme)
}

func TestReference_VbscriptScheme(t *testing.T) {
	r := reference(t, "[click](vbscript:msgbox(1))", ReferenceOptions{})
	assert.Contains(t, findingCodes(r.Errors), CodeVbscriptScheme)
}

func TestReference_DataURINonImage(t *testing.T) {
	r := reference(t, "[payload](data:text/html;base64,PHNjcmlwdD4=)", ReferenceOptions{})
	assert.Contains(t, findingCodes(r.Errors), CodeDataScheme)
}

func TestReference_DataURIImageAllowed(t *testing.T) {
	r := reference(t, "![logo](data:image/png;base64,iVBORw0KGgo=)", ReferenceOptions{})
	assert.True(t, r.Valid)
	assert.Empty(t, r.Warnings)
}

func TestReference_LargeInlineImageWarns(t *testing.T) {
	uri := "data:image/png;base64," + strings.Repeat("A", maxInlineImageBytes)
	r := reference(t, "![big]("+uri+")", ReferenceOptions{})
	assert.True(t, r.Valid)
	assert.Contains(t, findingCodes(r.Warnings), CodeLargeDataURI)
}

func TestReference_PrivateAddress(t *testing.T) {
	for _, target := range []string{
		"https://127.0.0.1/steal",
		"https://10.0.0.5/api",
		"https://192.168.1.1/admin",
		"https://169.254.169.254/latest/meta-data",
		"https://0.0.0.0/",
	} {
		r := reference(t, "[x]("+target+")", ReferenceOptions{})
		assert.Contains(t, findingCodes(r.Errors), CodePrivateAddress, target)
	}
}

func TestReference_PublicAddressAllowed(t *testing.T) {
	r := reference(t, "[x](https://8.8.8.8/)", ReferenceOptions{})
	assert.Empty(t, r.Errors)
}

func TestReference_InsecureHTTPWarns(t *testing.T) {
	r := reference(t, "[x](http://example.com/)", ReferenceOptions{})
	assert.True(t, r.Valid)
	assert.Contains(t, findingCodes(r.Warnings), CodeInsecureHTTP)
}

func TestReference_StrictHTTPSEscalates(t *testing.T) {
	r := reference(t, "[x](http://example.com/)", ReferenceOptions{StrictHTTPS: true})
	assert.False(t, r.Valid)
	assert.Contains(t, findingCodes(r.Errors), CodeInsecureHTTP)
}

func TestReference_LocalhostWarns(t *testing.T) {
	r := reference(t, "[x](https://localhost:8080/)", ReferenceOptions{})
	assert.Contains(t, findingCodes(r.Warnings), CodeLocalhostLink)
}

func TestReference_SuspiciousTLDWarns(t *testing.T) {
	r := reference(t, "[x](https://free-stuff.tk/download)", ReferenceOptions{})
	assert.Contains(t, findingCodes(r.Warnings), CodeSuspiciousTLD)
}

func TestReference_BareURLDetected(t *testing.T) {
	r := reference(t, "See http://plain.example.com for details.", ReferenceOptions{})
	assert.Contains(t, findingCodes(r.Warnings), CodeInsecureHTTP)
}

func TestReference_BenignSchemesAccepted(t *testing.T) {
	r := reference(t, "[write us](mailto:dev@example.com) or [call](tel:+15551234567)", ReferenceOptions{})
	assert.True(t, r.Valid)
	assert.Empty(t, r.Warnings)
}

func TestExtractReferences_Dedupes(t *testing.T) {
	refs := ExtractReferences("[a](https://example.com) and again [b](https://example.com)")
	assert.Len(t, refs, 1)
}

func TestExtractReferences_ImagesFlagged(t *testing.T) {
	refs := ExtractReferences("![logo](https://example.com/logo.png)")
	assert.Len(t, refs, 1)
	assert.True(t, refs[0].IsImage)
}

func TestReference_Stats(t *testing.T) {
	v := NewReferenceValidator()
	stats := v.Stats(domain.Component{Content: "[a](https://a.com) [b](https://b.com) [c](http://c.com) [d](./local.md)"})
	assert.Equal(t, 4, stats.Total)
	assert.Equal(t, 2, stats.HTTPS)
	assert.Equal(t, 1, stats.HTTP)
	assert.Equal(t, 50.0, stats.HTTPSPercent)
}

func TestReference_StatsEmpty(t *testing.T) {
	v := NewReferenceValidator()
	stats := v.Stats(domain.Component{Content: "no links"})
	assert.Equal(t, LinkStats{}, stats)
}
