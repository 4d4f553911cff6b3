package loader

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/agentvet/agentvet/internal/domain"
	"github.com/agentvet/agentvet/internal/domain/validators"
)

// Loader turns files on disk into Components. Type is inferred from the
// directory layout the catalog uses (agents/, commands/, ...), falling back
// to the frontmatter type key.
type Loader struct {
	excludePaths []string
}

func New(excludePaths []string) *Loader {
	return &Loader{excludePaths: excludePaths}
}

var dirTypes = map[string]domain.ComponentType{
	"agents":    domain.TypeAgent,
	"commands":  domain.TypeCommand,
	"settings":  domain.TypeSetting,
	"hooks":     domain.TypeHook,
	"mcps":      domain.TypeMCP,
	"mcp":       domain.TypeMCP,
	"templates": domain.TypeTemplate,
}

// LoadFile reads one component document. Read failures are infrastructure
// errors; content defects are left for the validators to report.
func (l *Loader) LoadFile(path string) (domain.Component, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return domain.Component{}, fmt.Errorf("reading component: %w", err)
	}

	c := domain.Component{
		Content: string(data),
		Path:    path,
		Type:    inferType(path, string(data)),
	}
	if fm, _, err := validators.ParseFrontmatter(c.Content); err == nil {
		if v, ok := fm["version"].(string); ok {
			c.Version = v
		}
	}
	return c, nil
}

// Discover walks root for markdown component documents, honoring the
// configured exclusions. Results are sorted by the walk order (lexical).
func (l *Loader) Discover(root string) ([]domain.Component, error) {
	var components []domain.Component
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if l.excluded(path) || strings.HasPrefix(d.Name(), ".") && path != root {
				return filepath.SkipDir
			}
			return nil
		}
		if !strings.HasSuffix(d.Name(), ".md") || l.excluded(path) {
			return nil
		}
		c, err := l.LoadFile(path)
		if err != nil {
			// One unreadable file is isolated; it surfaces as a failed
			// component, not a whole-batch abort.
			components = append(components, domain.Component{Path: path, Type: inferType(path, "")})
			return nil
		}
		components = append(components, c)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("discovering components: %w", err)
	}
	return components, nil
}

func (l *Loader) excluded(path string) bool {
	slashed := filepath.ToSlash(path)
	for _, ex := range l.excludePaths {
		if ex != "" && strings.Contains(slashed, ex) {
			return true
		}
	}
	return false
}

func inferType(path, content string) domain.ComponentType {
	for _, seg := range strings.Split(filepath.ToSlash(path), "/") {
		if t, ok := dirTypes[strings.ToLower(seg)]; ok {
			return t
		}
	}
	if fm, _, err := validators.ParseFrontmatter(content); err == nil {
		if raw, ok := fm["type"].(string); ok {
			for _, t := range domain.KnownTypes() {
				if string(t) == strings.ToLower(raw) {
					return t
				}
			}
		}
	}
	return domain.TypeAgent
}
