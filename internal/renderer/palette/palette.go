// Package palette holds the colours the highlighter's style IDs resolve
// to.
//
// A Palette maps the attributes of one rule-set kind (keyword, string,
// comments...) to colours. Palettes are loaded by theme name from
// {kind}/{theme}.json or .yaml files, with embedded defaults, and can be
// edited at runtime with SetColor; listeners are told about every edit so
// the owning document can be re-highlighted.
package palette

import (
	"errors"
	"fmt"
	"slices"
	"sync"

	"github.com/dshills/scriptedit/internal/renderer/core"
	"github.com/dshills/scriptedit/internal/renderer/highlight"
)

var (
	// ErrThemeNotFound is returned when no store holds the requested theme.
	ErrThemeNotFound = errors.New("theme not found")

	// ErrUnknownAttribute is returned for an attribute the kind does not use.
	ErrUnknownAttribute = errors.New("unknown palette attribute")
)

// DefaultTheme is the theme every kind ships with.
const DefaultTheme = "default"

// specificFormats are the attributes drawn with more than a colour.
var specificFormats = map[highlight.Kind]map[string]core.Attribute{
	highlight.KindPython: {
		highlight.AttrDefName:   core.AttrBold,
		highlight.AttrClassName: core.AttrBold,
		highlight.AttrComments:  core.AttrItalic,
	},
	highlight.KindMEL: {
		highlight.AttrDefName:   core.AttrBold,
		highlight.AttrClassName: core.AttrBold,
		highlight.AttrComments:  core.AttrItalic,
	},
	highlight.KindLog: {
		highlight.AttrWarning: core.AttrItalic,
		highlight.AttrError:   core.AttrBold,
		highlight.AttrSuccess: core.AttrBold,
	},
}

// Listener is told which attribute of p changed.
type Listener func(p *Palette, attr string)

type listenerEntry struct {
	id int
	fn Listener
}

// Palette is the mutable colour table of one kind and theme.
type Palette struct {
	mu sync.RWMutex

	kind   highlight.Kind
	theme  string
	colors map[string]core.Color

	listeners []listenerEntry
	nextID    int
}

// New creates a palette. Colours for attributes kind does not use are
// dropped.
func New(kind highlight.Kind, theme string, colors map[string]core.Color) *Palette {
	p := &Palette{kind: kind, theme: theme, colors: make(map[string]core.Color)}
	known := highlight.Attributes(kind)
	for attr, c := range colors {
		if slices.Contains(known, attr) {
			p.colors[attr] = c
		}
	}
	return p
}

// Kind returns the rule-set kind the palette colours.
func (p *Palette) Kind() highlight.Kind {
	return p.kind
}

// Theme returns the theme name.
func (p *Palette) Theme() string {
	return p.theme
}

// Color returns the colour of attr.
func (p *Palette) Color(attr string) (core.Color, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	c, ok := p.colors[attr]
	return c, ok
}

// Colors returns a copy of the colour table.
func (p *Palette) Colors() map[string]core.Color {
	p.mu.RLock()
	defer p.mu.RUnlock()
	out := make(map[string]core.Color, len(p.colors))
	for k, v := range p.colors {
		out[k] = v
	}
	return out
}

// Attributes returns the attributes that have a colour, in display order.
func (p *Palette) Attributes() []string {
	p.mu.RLock()
	defer p.mu.RUnlock()
	var out []string
	for _, attr := range highlight.Attributes(p.kind) {
		if _, ok := p.colors[attr]; ok {
			out = append(out, attr)
		}
	}
	return out
}

// SetColor changes one attribute and notifies listeners.
func (p *Palette) SetColor(attr string, c core.Color) error {
	if !slices.Contains(highlight.Attributes(p.kind), attr) {
		return fmt.Errorf("%w: %s.%s", ErrUnknownAttribute, p.kind, attr)
	}

	p.mu.Lock()
	p.colors[attr] = c
	listeners := make([]listenerEntry, len(p.listeners))
	copy(listeners, p.listeners)
	p.mu.Unlock()

	for _, l := range listeners {
		l.fn(p, attr)
	}
	return nil
}

// OnChange registers a listener for SetColor. The returned function
// removes it.
func (p *Palette) OnChange(fn Listener) func() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.nextID++
	id := p.nextID
	p.listeners = append(p.listeners, listenerEntry{id: id, fn: fn})
	return func() {
		p.mu.Lock()
		defer p.mu.Unlock()
		p.listeners = slices.DeleteFunc(p.listeners, func(l listenerEntry) bool { return l.id == id })
	}
}

// Format returns the drawing style of attr: its colour on the palette
// background, plus any specific format. Attributes without a colour use
// the normal colour.
func (p *Palette) Format(attr string) core.Style {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.formatLocked(attr)
}

func (p *Palette) formatLocked(attr string) core.Style {
	style := core.DefaultStyle()
	if bg, ok := p.colors[highlight.AttrBackground]; ok {
		style.Background = bg
	}
	if fg, ok := p.colors[attr]; ok {
		style.Foreground = fg
	} else if fg, ok := p.colors[highlight.AttrNormal]; ok {
		style.Foreground = fg
	}
	style.Attributes = specificFormats[p.kind][attr]
	return style
}

// CharFormatted returns the drawing style of every coloured attribute.
func (p *Palette) CharFormatted() map[string]core.Style {
	p.mu.RLock()
	defer p.mu.RUnlock()
	out := make(map[string]core.Style, len(p.colors))
	for attr := range p.colors {
		out[attr] = p.formatLocked(attr)
	}
	return out
}

// Clone returns an independent copy without listeners.
func (p *Palette) Clone() *Palette {
	return New(p.kind, p.theme, p.Colors())
}
