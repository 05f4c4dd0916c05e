package layer

import (
	"slices"
	"sync"

	"github.com/dshills/scriptedit/internal/config/loader"
)

// Manager holds one layer per source and merges them.
type Manager struct {
	mu     sync.RWMutex
	layers []*Layer       // ascending priority
	merged map[string]any // cache, nil when stale
}

// NewManager creates an empty manager.
func NewManager() *Manager {
	return &Manager{}
}

// Set installs l, replacing the layer of the same source.
func (m *Manager) Set(l *Layer) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.layers = slices.DeleteFunc(m.layers, func(o *Layer) bool { return o.Source == l.Source })
	m.layers = append(m.layers, l)
	slices.SortStableFunc(m.layers, func(a, b *Layer) int {
		return a.Source.Priority() - b.Source.Priority()
	})
	m.merged = nil
}

// Remove drops the layer of source. It reports whether one was present.
func (m *Manager) Remove(source Source) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	n := len(m.layers)
	m.layers = slices.DeleteFunc(m.layers, func(o *Layer) bool { return o.Source == source })
	if len(m.layers) == n {
		return false
	}
	m.merged = nil
	return true
}

// Layer returns the layer of source, or nil.
func (m *Manager) Layer(source Source) *Layer {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, l := range m.layers {
		if l.Source == source {
			return l
		}
	}
	return nil
}

// Layers returns the layers in ascending priority.
func (m *Manager) Layers() []*Layer {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return slices.Clone(m.layers)
}

// Merge combines the layers, lowest priority first. The result is a copy
// the caller may modify.
func (m *Manager) Merge() map[string]any {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.merged == nil {
		merged := make(map[string]any)
		for _, l := range m.layers {
			merged = loader.DeepMerge(merged, l.Data)
		}
		m.merged = merged
	}
	return loader.Clone(m.merged)
}

// Get returns the effective value of path and the layer providing it.
func (m *Manager) Get(path string) (any, *Layer, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for i := len(m.layers) - 1; i >= 0; i-- {
		if v, ok := loader.GetByPath(m.layers[i].Data, path); ok {
			return v, m.layers[i], true
		}
	}
	return nil, nil, false
}

// WhichLayer returns the name of the layer that provides path, or "".
func (m *Manager) WhichLayer(path string) string {
	_, l, ok := m.Get(path)
	if !ok {
		return ""
	}
	return l.Name()
}
