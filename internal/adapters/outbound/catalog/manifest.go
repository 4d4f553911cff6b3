package catalog

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/tidwall/gjson"

	"github.com/agentvet/agentvet/internal/domain"
)

// Entry is one component listed in a components.json catalog manifest.
type Entry struct {
	Path    string
	Type    domain.ComponentType
	Version string
}

// ReadManifest extracts component entries from a components.json manifest.
// The manifest groups entries by plural type key:
//
//	{"agents": [{"path": "...", "version": "1.0.0"}], "commands": [...]}
func ReadManifest(manifestPath string) ([]Entry, error) {
	data, err := os.ReadFile(manifestPath)
	if err != nil {
		return nil, fmt.Errorf("reading manifest: %w", err)
	}
	if !gjson.ValidBytes(data) {
		return nil, fmt.Errorf("manifest %s is not valid JSON", manifestPath)
	}

	// Fixed group order keeps batch output deterministic.
	groups := []struct {
		key string
		typ domain.ComponentType
	}{
		{"agents", domain.TypeAgent},
		{"commands", domain.TypeCommand},
		{"settings", domain.TypeSetting},
		{"hooks", domain.TypeHook},
		{"mcps", domain.TypeMCP},
		{"templates", domain.TypeTemplate},
	}

	root := filepath.Dir(manifestPath)
	var entries []Entry
	for _, g := range groups {
		key, typ := g.key, g.typ
		gjson.GetBytes(data, key).ForEach(func(_, item gjson.Result) bool {
			p := item.Get("path").String()
			if p == "" {
				return true
			}
			if !filepath.IsAbs(p) {
				p = filepath.Join(root, p)
			}
			entries = append(entries, Entry{
				Path:    p,
				Type:    typ,
				Version: item.Get("version").String(),
			})
			return true
		})
	}
	return entries, nil
}

// LoadComponents reads every manifest entry's document from disk. Unreadable
// entries become empty-content components so validation reports them
// individually instead of aborting the batch.
func LoadComponents(entries []Entry) []domain.Component {
	components := make([]domain.Component, 0, len(entries))
	for _, e := range entries {
		c := domain.Component{Path: e.Path, Type: e.Type, Version: e.Version}
		if data, err := os.ReadFile(e.Path); err == nil {
			c.Content = string(data)
		}
		components = append(components, c)
	}
	return components
}
