package session

import (
	"strings"
	"sync"
)

// Component is a feature that can be installed on a session.
type Component uint16

const (
	CompHighlighter Component = 1 << iota
	CompCaretOverlay
	CompKeys
	CompInterceptor
	CompThemeWatch
	CompConfigWatch
)

var componentNames = []struct {
	c    Component
	name string
}{
	{CompHighlighter, "highlighter"},
	{CompCaretOverlay, "caret-overlay"},
	{CompKeys, "keys"},
	{CompInterceptor, "interceptor"},
	{CompThemeWatch, "theme-watch"},
	{CompConfigWatch, "config-watch"},
}

// String returns the component names joined by "|".
func (c Component) String() string {
	var parts []string
	for _, n := range componentNames {
		if c&n.c != 0 {
			parts = append(parts, n.name)
		}
	}
	if len(parts) == 0 {
		return "none"
	}
	return strings.Join(parts, "|")
}

// Registry records which components are installed.
type Registry struct {
	mu        sync.Mutex
	installed Component
}

// Install marks c installed. It reports false if any of c already was.
func (r *Registry) Install(c Component) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.installed&c != 0 {
		return false
	}
	r.installed |= c
	return true
}

// Uninstall clears c and reports whether any of it was installed.
func (r *Registry) Uninstall(c Component) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	was := r.installed&c != 0
	r.installed &^= c
	return was
}

// Has reports whether every component in c is installed.
func (r *Registry) Has(c Component) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.installed&c == c
}

// List returns the installed set.
func (r *Registry) List() Component {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.installed
}
