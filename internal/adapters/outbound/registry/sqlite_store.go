package registry

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver

	"github.com/agentvet/agentvet/internal/domain"
)

const sqliteFile = ".agentvet/registry/hashes.db"

// SQLiteStore implements domain.RegistryStore on an embedded SQLite database
// for corpora too large for a single JSON file. The single-connection pool
// gives the single-writer-per-key discipline for free.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens (or creates) the registry database under projectPath.
func NewSQLiteStore(projectPath string) (*SQLiteStore, error) {
	return NewSQLiteStoreWithPath(filepath.Join(projectPath, sqliteFile))
}

// NewSQLiteStoreWithPath opens a registry database at an explicit path.
// Useful for testing.
func NewSQLiteStoreWithPath(dbPath string) (*SQLiteStore, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("creating registry directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening registry database: %w", err)
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	schema := `
	CREATE TABLE IF NOT EXISTS hashes (
		path TEXT PRIMARY KEY,
		hash TEXT NOT NULL,
		version TEXT,
		timestamp TIMESTAMP NOT NULL
	);`
	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("initializing registry schema: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

// Get returns the entry for path, or (nil, nil) when none exists.
func (s *SQLiteStore) Get(path string) (*domain.RegistryEntry, error) {
	row := s.db.QueryRow("SELECT hash, version, timestamp FROM hashes WHERE path = ?", path)

	var entry domain.RegistryEntry
	var version sql.NullString
	var ts string
	if err := row.Scan(&entry.Hash, &version, &ts); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("reading registry entry: %w", err)
	}
	entry.Version = version.String
	if parsed, err := time.Parse(time.RFC3339Nano, ts); err == nil {
		entry.Timestamp = parsed
	}
	return &entry, nil
}

// Put upserts the entry for path.
func (s *SQLiteStore) Put(path string, entry domain.RegistryEntry) error {
	_, err := s.db.Exec(`
		INSERT INTO hashes (path, hash, version, timestamp) VALUES (?, ?, ?, ?)
		ON CONFLICT(path) DO UPDATE SET hash = excluded.hash, version = excluded.version, timestamp = excluded.timestamp`,
		path, entry.Hash, entry.Version, entry.Timestamp.Format(time.RFC3339Nano))
	if err != nil {
		return fmt.Errorf("writing registry entry: %w", err)
	}
	return nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
