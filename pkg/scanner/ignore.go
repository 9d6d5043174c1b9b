package scanner

import (
	"path/filepath"
)

// IgnoreRules matches paths against user-supplied patterns. A pattern
// matches when it globs against the base name or equals it exactly.
type IgnoreRules struct {
	patterns []string
}

// NewIgnoreRules creates ignore rules from glob patterns.
func NewIgnoreRules(patterns []string) *IgnoreRules {
	return &IgnoreRules{patterns: patterns}
}

// ShouldIgnore reports whether the path matches any pattern.
func (r *IgnoreRules) ShouldIgnore(path string) bool {
	if r == nil {
		return false
	}
	name := filepath.Base(path)
	for _, pat := range r.patterns {
		if name == pat {
			return true
		}
		if ok, err := filepath.Match(pat, name); err == nil && ok {
			return true
		}
	}
	return false
}
