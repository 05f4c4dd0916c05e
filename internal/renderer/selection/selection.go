// Package selection maps caret selections onto the lines they cover and
// paints them.
package selection

import (
	"slices"

	"github.com/dshills/scriptedit/internal/engine/buffer"
	"github.com/dshills/scriptedit/internal/engine/cursor"
	"github.com/dshills/scriptedit/internal/renderer/core"
)

// LineSelection is the part of a selection on one line, in byte columns.
// End may be one past the line length when the selection continues onto
// the next line.
type LineSelection struct {
	Start   int
	End     int
	Primary bool
}

// Contains reports whether byte column col is selected.
func (ls LineSelection) Contains(col int) bool {
	return col >= ls.Start && col < ls.End
}

// Lines is the document the selections refer to.
type Lines interface {
	LineStart(n int) buffer.ByteOffset
	LineLen(n int) int
}

// OnLine returns the non-empty selections crossing line n, sorted by
// start. The last selection of sels is the primary one.
func OnLine(doc Lines, n int, sels []cursor.Selection) []LineSelection {
	start := doc.LineStart(n)
	length := doc.LineLen(n)
	end := start + buffer.ByteOffset(length)

	var out []LineSelection
	for i, sel := range sels {
		if sel.IsEmpty() {
			continue
		}
		s, e := sel.Start(), sel.End()
		if e <= start || s > end {
			continue
		}
		ls := LineSelection{
			Start:   int(max(s, start) - start),
			End:     int(min(e, end) - start),
			Primary: i == len(sels)-1,
		}
		if e > end {
			// the newline is selected too
			ls.End = length + 1
		}
		if ls.End > ls.Start {
			out = append(out, ls)
		}
	}
	slices.SortFunc(out, func(a, b LineSelection) int { return a.Start - b.Start })
	return out
}

// Config holds the selection colours.
type Config struct {
	PrimaryColor   core.Color
	SecondaryColor core.Color
}

// DefaultConfig returns the default selection colours.
func DefaultConfig() Config {
	return Config{
		PrimaryColor:   core.RGB(33, 66, 131),
		SecondaryColor: core.RGB(50, 60, 90),
	}
}

// Renderer applies the selection colours to cells.
type Renderer struct {
	config Config
}

// NewRenderer creates a selection renderer.
func NewRenderer(config Config) *Renderer {
	return &Renderer{config: config}
}

// Config returns the configuration.
func (r *Renderer) Config() Config { return r.config }

// SetConfig replaces the configuration.
func (r *Renderer) SetConfig(config Config) { r.config = config }

// Apply returns cell with the selection background.
func (r *Renderer) Apply(cell core.Cell, primary bool) core.Cell {
	bg := r.config.SecondaryColor
	if primary {
		bg = r.config.PrimaryColor
	}
	cell.Style = cell.Style.WithBackground(bg)
	return cell
}

// At returns the selection covering byte column col, if any.
func At(sels []LineSelection, col int) (LineSelection, bool) {
	for _, ls := range sels {
		if ls.Contains(col) {
			return ls, true
		}
	}
	return LineSelection{}, false
}
