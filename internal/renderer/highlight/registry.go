package highlight

import (
	"path/filepath"
	"strings"
	"sync"
)

// Registry maps kinds and file extensions to rule sets.
type Registry struct {
	mu sync.RWMutex

	byKind      map[Kind]LanguageRuleSet
	byExtension map[string]LanguageRuleSet
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		byKind:      make(map[Kind]LanguageRuleSet),
		byExtension: make(map[string]LanguageRuleSet),
	}
}

// DefaultRegistry returns a registry with the built-in rule sets.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	r.Register(Python(), ".py", ".pyw")
	r.Register(MEL(), ".mel")
	r.Register(Log(), ".log", ".txt")
	return r
}

// Register adds a rule set for its kind and the given extensions.
func (r *Registry) Register(rs LanguageRuleSet, extensions ...string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.byKind[rs.Kind()] = rs
	for _, ext := range extensions {
		r.byExtension[normalizeExt(ext)] = rs
	}
}

// Get returns the rule set for kind.
func (r *Registry) Get(kind Kind) (LanguageRuleSet, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	rs, ok := r.byKind[kind]
	return rs, ok
}

// ForPath returns the rule set for a file path by its extension.
func (r *Registry) ForPath(path string) (LanguageRuleSet, bool) {
	ext := filepath.Ext(path)
	if ext == "" {
		return nil, false
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	rs, ok := r.byExtension[normalizeExt(ext)]
	return rs, ok
}

func normalizeExt(ext string) string {
	ext = strings.ToLower(ext)
	if !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	return ext
}
