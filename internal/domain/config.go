package domain

import "fmt"

// Registry backend identifiers accepted in config and on the CLI.
const (
	RegistryBackendJSON   = "json"
	RegistryBackendSQLite = "sqlite"
)

// VetConfig holds project-level validation configuration loaded from
// .agentvet.yaml.
type VetConfig struct {
	// Strict counts semantic warnings toward invalidity.
	Strict bool `yaml:"strict" json:"strict,omitempty"`

	// StrictHTTPS escalates plain http links from warning to error.
	StrictHTTPS bool `yaml:"strict_https" json:"strict_https,omitempty"`

	// Validators restricts which validators run by default. Empty means all.
	Validators []string `yaml:"validators" json:"validators,omitempty"`

	// SeverityOverrides reclassifies individual rule codes, e.g.
	// {SEM020: warning}. Several semantic rules are deliberately strict
	// heuristics; this is the escape hatch for false positives on
	// legitimate descriptive text.
	SeverityOverrides map[string]string `yaml:"severity_overrides" json:"severity_overrides,omitempty"`

	// RegistryBackend selects the hash registry store: json or sqlite.
	RegistryBackend string `yaml:"registry_backend" json:"registry_backend,omitempty"`

	// ExcludePaths are path fragments skipped during discovery.
	ExcludePaths []string `yaml:"exclude_paths" json:"exclude_paths,omitempty"`
}

// DefaultConfig returns the configuration used when no .agentvet.yaml exists.
func DefaultConfig() VetConfig {
	return VetConfig{
		RegistryBackend: RegistryBackendJSON,
	}
}

// Validate catches typos in user-supplied raw config before it is merged.
func (c VetConfig) Validate() error {
	for _, v := range c.Validators {
		if !KnownValidator(v) {
			return fmt.Errorf("unknown validator %q (valid: structural, integrity, semantic, reference)", v)
		}
	}
	for code, sev := range c.SeverityOverrides {
		switch sev {
		case SeverityError, SeverityWarning, SeverityInfo:
		default:
			return fmt.Errorf("severity override for %s: unknown severity %q", code, sev)
		}
	}
	switch c.RegistryBackend {
	case "", RegistryBackendJSON, RegistryBackendSQLite:
	default:
		return fmt.Errorf("unknown registry backend %q (valid: json, sqlite)", c.RegistryBackend)
	}
	return nil
}
