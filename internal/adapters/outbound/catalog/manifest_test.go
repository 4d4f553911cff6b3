package catalog

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentvet/agentvet/internal/domain"
)

const manifest = `{
  "agents": [
    {"path": "agents/reviewer.md", "version": "1.0.0"},
    {"path": "agents/writer.md", "version": "2.1.0"}
  ],
  "commands": [
    {"path": "commands/deploy.md", "version": "0.3.0"}
  ],
  "hooks": []
}`

func writeManifest(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "components.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestReadManifest_GroupsInFixedOrder(t *testing.T) {
	path := writeManifest(t, manifest)
	entries, err := ReadManifest(path)
	require.NoError(t, err)
	require.Len(t, entries, 3)

	root := filepath.Dir(path)
	assert.Equal(t, filepath.Join(root, "agents/reviewer.md"), entries[0].Path)
	assert.Equal(t, domain.TypeAgent, entries[0].Type)
	assert.Equal(t, "1.0.0", entries[0].Version)
	assert.Equal(t, domain.TypeAgent, entries[1].Type)
	assert.Equal(t, domain.TypeCommand, entries[2].Type)
}

func TestReadManifest_AbsolutePathKept(t *testing.T) {
	path := writeManifest(t, `{"agents": [{"path": "/abs/agents/a.md"}]}`)
	entries, err := ReadManifest(path)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "/abs/agents/a.md", entries[0].Path)
}

func TestReadManifest_EntriesWithoutPathSkipped(t *testing.T) {
	path := writeManifest(t, `{"agents": [{"version": "1.0.0"}, {"path": "agents/a.md"}]}`)
	entries, err := ReadManifest(path)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestReadManifest_InvalidJSON(t *testing.T) {
	path := writeManifest(t, "{not json")
	_, err := ReadManifest(path)
	assert.Error(t, err)
}

func TestReadManifest_Missing(t *testing.T) {
	_, err := ReadManifest(filepath.Join(t.TempDir(), "components.json"))
	assert.Error(t, err)
}

func TestLoadComponents_ReadsContent(t *testing.T) {
	dir := t.TempDir()
	docPath := filepath.Join(dir, "reviewer.md")
	require.NoError(t, os.WriteFile(docPath, []byte("doc body"), 0644))

	components := LoadComponents([]Entry{
		{Path: docPath, Type: domain.TypeAgent, Version: "1.0.0"},
		{Path: filepath.Join(dir, "missing.md"), Type: domain.TypeCommand},
	})
	require.Len(t, components, 2)
	assert.Equal(t, "doc body", components[0].Content)
	assert.Equal(t, "1.0.0", components[0].Version)
	// Unreadable entries stay in the batch with empty content.
	assert.Empty(t, components[1].Content)
	assert.Equal(t, domain.TypeCommand, components[1].Type)
}
