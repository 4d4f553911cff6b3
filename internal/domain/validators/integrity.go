package validators

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"regexp"
	"time"

	"github.com/agentvet/agentvet/internal/domain"
)

// Integrity validator codes.
const (
	CodeMissingContent = "INT001"
	CodeHashMismatch   = "INT002"
	CodeRegistryError  = "INT003"

	CodeBadVersionShape = "INTW01"
	CodeMissingVersion  = "INTW02"
	CodeContentDrift    = "INTW03"

	CodeHashVerified   = "INTI01"
	CodeNewComponent   = "INTI02"
	CodeVersionChanged = "INTI03"
)

// versionShape accepts dot-separated numeric components with an optional
// leading "v" and an optional pre-release qualifier.
var versionShape = regexp.MustCompile(`^v?\d+(\.\d+)*(-[0-9A-Za-z.-]+)?$`)

// IntegrityOptions controls a single integrity check.
type IntegrityOptions struct {
	// ExpectedHash short-circuits the registry lookup: the content digest
	// is compared directly against it (tamper check).
	ExpectedHash string

	// UpdateRegistry persists the new hash/version/timestamp after all
	// comparisons have been evaluated against the old entry.
	UpdateRegistry bool
}

// IntegrityValidator computes a sha256 digest of the exact document content
// and compares it against an expected hash or the persisted registry entry.
type IntegrityValidator struct {
	registry domain.RegistryStore
	root     string
	now      func() time.Time
}

func NewIntegrityValidator(registry domain.RegistryStore, root string) *IntegrityValidator {
	return &IntegrityValidator{registry: registry, root: root, now: time.Now}
}

// ContentHash returns the hex-encoded sha256 digest of content.
// Deterministic: identical content always yields an identical digest.
func ContentHash(content string) string {
	sum := sha256.Sum256([]byte(content))
	return hex.EncodeToString(sum[:])
}

// Validate checks the component's content digest and version metadata.
// Expected content defects become findings; only an unreadable registry
// store surfaces as an error finding on an otherwise well-formed result.
func (v *IntegrityValidator) Validate(c domain.Component, opts IntegrityOptions) *domain.IntegrityResult {
	result := &domain.IntegrityResult{ValidatorResult: *domain.NewValidatorResult()}
	defer result.Finalize()

	if c.Content == "" {
		result.AddError(CodeMissingContent, "component has no content to hash")
		return result
	}

	result.Hash = ContentHash(c.Content)
	result.Version = c.Version
	v.checkVersion(c.Version, &result.ValidatorResult)

	if opts.ExpectedHash != "" {
		if result.Hash != opts.ExpectedHash {
			result.AddError(CodeHashMismatch, fmt.Sprintf("content hash %s does not match expected %s (tampered)", shortHash(result.Hash), shortHash(opts.ExpectedHash)))
		} else {
			result.AddInfo(CodeHashVerified, "content hash matches expected hash")
		}
		return result
	}

	if v.registry == nil {
		return result
	}

	key := domain.NormalizeRegistryPath(v.root, c.Path)
	prev, err := v.registry.Get(key)
	if err != nil {
		result.AddError(CodeRegistryError, fmt.Sprintf("registry unreadable: %v", err))
		return result
	}

	switch {
	case prev == nil:
		result.AddInfo(CodeNewComponent, "new component, no previous hash to compare")
	case prev.Hash != result.Hash:
		result.AddWarning(CodeContentDrift, fmt.Sprintf("content changed since last known state (%s -> %s)", shortHash(prev.Hash), shortHash(result.Hash)))
	}
	if prev != nil && c.Version != "" && prev.Version != "" && prev.Version != c.Version {
		result.AddInfo(CodeVersionChanged, fmt.Sprintf("version changed from %s to %s", prev.Version, c.Version))
	}

	if opts.UpdateRegistry {
		entry := domain.RegistryEntry{Hash: result.Hash, Version: c.Version, Timestamp: v.now()}
		if err := v.registry.Put(key, entry); err != nil {
			result.AddError(CodeRegistryError, fmt.Sprintf("registry write failed: %v", err))
		}
	}

	return result
}

// BatchValidate applies the same integrity logic independently per component
// and tallies pass/fail counts.
func (v *IntegrityValidator) BatchValidate(components []domain.Component, opts IntegrityOptions) (passed, failed int, results []*domain.IntegrityResult) {
	for _, c := range components {
		r := v.Validate(c, opts)
		results = append(results, r)
		if r.Valid {
			passed++
		} else {
			failed++
		}
	}
	return passed, failed, results
}

func (v *IntegrityValidator) checkVersion(version string, result *domain.ValidatorResult) {
	if version == "" {
		result.AddWarning(CodeMissingVersion, "no version declared (recommended)")
		return
	}
	if !versionShape.MatchString(version) {
		result.AddWarning(CodeBadVersionShape, fmt.Sprintf("version %q is not semantic-version-shaped", version))
	}
}

func shortHash(h string) string {
	if len(h) > 12 {
		return h[:12]
	}
	return h
}
