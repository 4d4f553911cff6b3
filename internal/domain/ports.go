package domain

// RegistryStore is the persistence port for last-known component hashes.
// Implementations must serialize writes to the same key (single-writer
// discipline); Get returns (nil, nil) when no entry exists.
type RegistryStore interface {
	Get(path string) (*RegistryEntry, error)
	Put(path string, entry RegistryEntry) error
	Close() error
}

// ConfigLoader loads the project's validation configuration.
type ConfigLoader interface {
	Load(projectPath string) (VetConfig, error)
}

// GitInfo exposes version-control metadata for the validated tree.
type GitInfo interface {
	IsGitRepo(projectPath string) bool
	CommitHash(projectPath string) (string, error)
}
