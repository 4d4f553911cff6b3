package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/agentvet/agentvet/internal/domain"
)

const fileName = ".agentvet.yaml"

// YAMLLoader implements domain.ConfigLoader by reading .agentvet.yaml.
type YAMLLoader struct{}

// New creates a YAMLLoader.
func New() *YAMLLoader { return &YAMLLoader{} }

// Load reads .agentvet.yaml from projectPath.
// Returns DefaultConfig if the file does not exist.
func (l *YAMLLoader) Load(projectPath string) (domain.VetConfig, error) {
	data, err := os.ReadFile(filepath.Join(projectPath, fileName))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return domain.DefaultConfig(), nil
		}
		return domain.VetConfig{}, err
	}

	var cfg domain.VetConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return domain.VetConfig{}, fmt.Errorf("parsing %s: %w", fileName, err)
	}

	// Validate before merging defaults — catches typos in user's raw input.
	if err := cfg.Validate(); err != nil {
		return domain.VetConfig{}, fmt.Errorf("invalid %s: %w", fileName, err)
	}

	if cfg.RegistryBackend == "" {
		cfg.RegistryBackend = domain.DefaultConfig().RegistryBackend
	}

	return cfg, nil
}
