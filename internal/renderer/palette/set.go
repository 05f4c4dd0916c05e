package palette

import (
	"github.com/dshills/scriptedit/internal/renderer/core"
	"github.com/dshills/scriptedit/internal/renderer/highlight"
)

// Set resolves style IDs across the palettes a document's spans can use.
// A log document mixes log, Python and MEL styles; the base palette
// supplies the background and the fallback colour.
type Set struct {
	base     *Palette
	palettes map[highlight.Kind]*Palette
}

// NewSet creates a set around base. Later palettes of the same kind
// replace earlier ones.
func NewSet(base *Palette, others ...*Palette) *Set {
	s := &Set{base: base, palettes: map[highlight.Kind]*Palette{base.Kind(): base}}
	for _, p := range others {
		if p.Kind() != base.Kind() {
			s.palettes[p.Kind()] = p
		}
	}
	return s
}

// Base returns the palette of the document's own kind.
func (s *Set) Base() *Palette {
	return s.base
}

// Palettes returns the base palette followed by the others in kind order.
func (s *Set) Palettes() []*Palette {
	out := []*Palette{s.base}
	for _, k := range highlight.Kinds() {
		if p, ok := s.palettes[k]; ok && k != s.base.Kind() {
			out = append(out, p)
		}
	}
	return out
}

// Get returns the palette of kind.
func (s *Set) Get(kind highlight.Kind) (*Palette, bool) {
	p, ok := s.palettes[kind]
	return p, ok
}

// Style resolves a span style ID. Unknown IDs get the normal style. The
// background always comes from the base palette.
func (s *Set) Style(styleID string) core.Style {
	kind, attr, ok := highlight.SplitStyleID(styleID)
	p, found := s.palettes[kind]
	if !ok || !found {
		return s.Normal()
	}
	style := p.Format(attr)
	style.Background = s.Normal().Background
	return style
}

// Normal returns the style of unformatted text.
func (s *Set) Normal() core.Style {
	return s.base.Format(highlight.AttrNormal)
}

// OnChange registers fn on every palette in the set and returns a
// function that removes all registrations.
func (s *Set) OnChange(fn Listener) func() {
	var cancels []func()
	for _, p := range s.Palettes() {
		cancels = append(cancels, p.OnChange(fn))
	}
	return func() {
		for _, c := range cancels {
			c()
		}
	}
}
