package domain

import (
	"path/filepath"
	"strings"
)

// NormalizeRegistryPath rewrites a component path into the canonical registry
// key: root-relative, slash-separated, no leading "./". The same logical
// document must map to the same key regardless of invocation context.
func NormalizeRegistryPath(root, path string) string {
	p := path
	if root != "" && filepath.IsAbs(p) {
		if rel, err := filepath.Rel(root, p); err == nil && !strings.HasPrefix(rel, "..") {
			p = rel
		}
	}
	p = filepath.ToSlash(p)
	p = strings.TrimPrefix(p, "./")
	return p
}
