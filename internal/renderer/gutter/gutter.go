// Package gutter draws the line-number column to the left of the text.
package gutter

import (
	"strconv"

	"github.com/dshills/scriptedit/internal/renderer/core"
)

// Mode selects how line numbers are shown.
type Mode uint8

const (
	// Absolute shows 1-based line numbers.
	Absolute Mode = iota
	// Relative shows the distance to the current line, 0 on it.
	Relative
	// Hybrid is Relative with the absolute number on the current line.
	Hybrid
)

// Config holds gutter configuration.
type Config struct {
	Show     bool
	Mode     Mode
	MinWidth int // digits

	Style   core.Style
	Current core.Style // the current line's number
}

// DefaultConfig returns the default gutter configuration.
func DefaultConfig() Config {
	return Config{
		Show:     true,
		Mode:     Absolute,
		MinWidth: 3,
		Style:    core.NewStyle(core.RGB(110, 110, 110)),
		Current:  core.NewStyle(core.RGB(200, 200, 200)).Bold(),
	}
}

// Surface is the cell grid the gutter draws on.
type Surface interface {
	SetCell(x, y int, cell core.Cell)
}

// Gutter renders line numbers.
type Gutter struct {
	config  Config
	lines   int
	current int
}

// New creates a gutter.
func New(config Config) *Gutter {
	return &Gutter{config: config, lines: 1}
}

// Config returns the configuration.
func (g *Gutter) Config() Config { return g.config }

// SetConfig replaces the configuration.
func (g *Gutter) SetConfig(config Config) { g.config = config }

// SetLineCount sets the number of lines, which fixes the width.
func (g *Gutter) SetLineCount(n int) { g.lines = max(n, 1) }

// SetCurrentLine sets the line of the primary caret.
func (g *Gutter) SetCurrentLine(line int) { g.current = line }

// Width returns the gutter width in cells: the digits plus one space, or
// 0 when hidden.
func (g *Gutter) Width() int {
	if !g.config.Show {
		return 0
	}
	return max(len(strconv.Itoa(g.lines)), g.config.MinWidth) + 1
}

// Label returns the right-aligned number shown for line, without the
// trailing space.
func (g *Gutter) Label(line int) string {
	n := line + 1
	switch g.config.Mode {
	case Relative:
		n = abs(line - g.current)
	case Hybrid:
		if line != g.current {
			n = abs(line - g.current)
		}
	}
	return padLeft(strconv.Itoa(n), g.Width()-1)
}

// Paint draws the number of line at x, y. Lines past the end of the
// document draw a blank column.
func (g *Gutter) Paint(s Surface, x, y, line int, bg core.Color) {
	w := g.Width()
	if w == 0 {
		return
	}
	style := g.config.Style
	if line == g.current {
		style = g.config.Current
	}
	style = style.WithBackground(bg)

	text := ""
	if line >= 0 && line < g.lines {
		text = g.Label(line)
	}
	text = padLeft(text, w-1) + " "
	for i := 0; i < w; i++ {
		s.SetCell(x+i, y, core.Cell{Text: text[i : i+1], Width: 1, Style: style})
	}
}

func padLeft(s string, width int) string {
	for len(s) < width {
		s = " " + s
	}
	return s
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
