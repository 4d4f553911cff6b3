package cli

import (
	"fmt"
	"path/filepath"
	"strings"

	configAdapter "github.com/agentvet/agentvet/internal/adapters/outbound/config"
	"github.com/agentvet/agentvet/internal/adapters/outbound/gitinfo"
	registryAdapter "github.com/agentvet/agentvet/internal/adapters/outbound/registry"
	"github.com/agentvet/agentvet/internal/application"
	"github.com/agentvet/agentvet/internal/domain"
)

// newServices builds the validation service and its registry store for the
// given project root. Callers must Close the returned store.
func newServices(projectPath, backendOverride string, validatorsFlag string, strict, strictHTTPS bool) (*application.ValidateService, domain.RegistryStore, application.Options, domain.VetConfig, error) {
	absPath, err := filepath.Abs(projectPath)
	if err != nil {
		return nil, nil, application.Options{}, domain.VetConfig{}, fmt.Errorf("resolving path: %w", err)
	}

	cfg, err := configAdapter.New().Load(absPath)
	if err != nil {
		return nil, nil, application.Options{}, domain.VetConfig{}, fmt.Errorf("loading config: %w", err)
	}

	backend := cfg.RegistryBackend
	if backendOverride != "" {
		backend = backendOverride
	}
	store, err := registryAdapter.Open(backend, absPath)
	if err != nil {
		return nil, nil, application.Options{}, domain.VetConfig{}, err
	}

	opts := application.Options{
		Strict:      strict || cfg.Strict,
		StrictHTTPS: strictHTTPS || cfg.StrictHTTPS,
	}
	if validatorsFlag != "" {
		opts.Validators = splitList(validatorsFlag)
	} else if len(cfg.Validators) > 0 {
		opts.Validators = cfg.Validators
	}
	for _, v := range opts.Validators {
		if !domain.KnownValidator(v) {
			_ = store.Close()
			return nil, nil, application.Options{}, domain.VetConfig{}, fmt.Errorf("unknown validator %q", v)
		}
	}

	svc := application.NewValidateService(store, cfg, absPath, gitinfo.New())
	return svc, store, opts, cfg, nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
