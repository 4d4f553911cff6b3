package registry

import (
	"fmt"

	"github.com/agentvet/agentvet/internal/domain"
)

// Open returns the registry store selected by backend, rooted at projectPath.
func Open(backend, projectPath string) (domain.RegistryStore, error) {
	switch backend {
	case "", domain.RegistryBackendJSON:
		return NewJSONStore(projectPath), nil
	case domain.RegistryBackendSQLite:
		return NewSQLiteStore(projectPath)
	default:
		return nil, fmt.Errorf("unknown registry backend %q", backend)
	}
}
