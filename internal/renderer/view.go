package renderer

import (
	"github.com/rivo/uniseg"

	"github.com/dshills/scriptedit/internal/engine/buffer"
	"github.com/dshills/scriptedit/internal/engine/cursor"
	"github.com/dshills/scriptedit/internal/renderer/core"
	caretoverlay "github.com/dshills/scriptedit/internal/renderer/cursor"
	"github.com/dshills/scriptedit/internal/renderer/gutter"
	"github.com/dshills/scriptedit/internal/renderer/selection"
	"github.com/dshills/scriptedit/internal/renderer/viewport"
)

// StyleResolver turns span style IDs into drawing styles.
type StyleResolver interface {
	Style(styleID string) core.Style
	Normal() core.Style
}

// Surface is the cell grid a View paints on.
type Surface interface {
	SetCell(x, y int, cell core.Cell)
	GetCell(x, y int) core.Cell
}

// Document is the text a View shows.
type Document interface {
	selection.Lines
	LineCount() int
	LineText(n int) string
	Spans(n int) []buffer.Span
}

// View lays out a document inside a screen area.
type View struct {
	area     core.Rect
	tabWidth int

	vp        *viewport.Viewport
	gutter    *gutter.Gutter
	selection *selection.Renderer
}

// NewView creates a view over area.
func NewView(area core.Rect, tabWidth int) *View {
	v := &View{
		tabWidth:  max(tabWidth, 1),
		vp:        viewport.New(1, 1),
		gutter:    gutter.New(gutter.DefaultConfig()),
		selection: selection.NewRenderer(selection.DefaultConfig()),
	}
	v.SetArea(area)
	return v
}

// Area returns the screen area, gutter included.
func (v *View) Area() core.Rect { return v.area }

// SetArea moves or resizes the view.
func (v *View) SetArea(area core.Rect) {
	v.area = area
	v.resize()
}

func (v *View) resize() {
	text := v.TextArea()
	v.vp.Resize(text.Width, text.Height)
}

// TextArea returns the area right of the gutter.
func (v *View) TextArea() core.Rect {
	gw := min(v.gutter.Width(), v.area.Width)
	return core.Rect{X: v.area.X + gw, Y: v.area.Y, Width: v.area.Width - gw, Height: v.area.Height}
}

// Viewport returns the scroll state.
func (v *View) Viewport() *viewport.Viewport { return v.vp }

// Gutter returns the line-number gutter.
func (v *View) Gutter() *gutter.Gutter { return v.gutter }

// TabWidth returns the tab stop width.
func (v *View) TabWidth() int { return v.tabWidth }

// SetTabWidth changes the tab stop width.
func (v *View) SetTabWidth(w int) { v.tabWidth = max(w, 1) }

// Follow updates the line count and scrolls to show the primary caret at
// line and display column col. It reports whether the view scrolled.
func (v *View) Follow(lineCount, line, col int) bool {
	v.gutter.SetLineCount(lineCount)
	v.gutter.SetCurrentLine(line)
	v.resize()
	v.vp.SetLineCount(lineCount)
	return v.vp.Reveal(line, col)
}

// OverlayViewport returns the mapping the caret overlay paints with.
func (v *View) OverlayViewport() caretoverlay.Viewport {
	return caretoverlay.Viewport{Area: v.TextArea(), Top: v.vp.Top(), Left: v.vp.Left()}
}

// OffsetAt returns the document offset under screen cell x, y. ok is
// false outside the text area.
func (v *View) OffsetAt(doc Document, x, y int) (buffer.ByteOffset, bool) {
	text := v.TextArea()
	if !text.Contains(x, y) {
		return 0, false
	}
	v.vp.SetLineCount(doc.LineCount())
	line, col := v.vp.FromScreen(y-text.Y, x-text.X)
	byteCol := core.ByteColumnAt(doc.LineText(line), col, v.tabWidth)
	return doc.LineStart(line) + buffer.ByteOffset(byteCol), true
}

// Paint draws the visible lines. sels are the caret selections, the
// primary one last.
func (v *View) Paint(s Surface, doc Document, styles StyleResolver, sels []cursor.Selection) {
	v.PaintRows(s, doc, styles, sels, v.area)
}

// PaintRows repaints only the view rows that clip touches. Rows are
// always painted across their full width.
func (v *View) PaintRows(s Surface, doc Document, styles StyleResolver, sels []cursor.Selection, clip core.Rect) {
	normal := styles.Normal()
	blank := core.Cell{Text: " ", Width: 1, Style: normal}
	text := v.TextArea()

	rows := v.area.Intersect(clip)
	if rows.IsEmpty() {
		return
	}
	for row := rows.Y - v.area.Y; row < rows.Bottom()-v.area.Y; row++ {
		y := v.area.Y + row
		line := v.vp.Top() + row
		v.gutter.Paint(s, v.area.X, y, line, normal.Background)
		for x := text.X; x < text.Right(); x++ {
			s.SetCell(x, y, blank)
		}
		if line < doc.LineCount() {
			v.paintLine(s, doc, line, y, styles, sels)
		}
	}
}

func (v *View) paintLine(s Surface, doc Document, n, y int, styles StyleResolver, sels []cursor.Selection) {
	text := v.TextArea()
	lineText := doc.LineText(n)
	spans := doc.Spans(n)
	selected := selection.OnLine(doc, n, sels)
	normal := styles.Normal()

	put := func(col int, cell core.Cell, byteCol int) {
		x := text.X + col - v.vp.Left()
		if x < text.X || x >= text.Right() {
			return
		}
		if ls, ok := selection.At(selected, byteCol); ok {
			cell = v.selection.Apply(cell, ls.Primary)
		}
		s.SetCell(x, y, cell)
	}

	col, i, state, si := 0, 0, -1, 0
	for i < len(lineText) {
		for si < len(spans) && spans[si].End() <= i {
			si++
		}
		style := normal
		if si < len(spans) && spans[si].Start <= i {
			style = styles.Style(spans[si].Style)
		}

		if lineText[i] == '\t' {
			w := v.tabWidth - col%v.tabWidth
			for k := 0; k < w; k++ {
				put(col+k, core.Cell{Text: " ", Width: 1, Style: style}, i)
			}
			col += w
			i++
			state = -1
			continue
		}

		cluster, _, width, newState := uniseg.FirstGraphemeClusterInString(lineText[i:], state)
		state = newState
		if width > 0 {
			put(col, core.Cell{Text: cluster, Width: width, Style: style}, i)
			for k := 1; k < width; k++ {
				put(col+k, core.Cell{Style: style}, i)
			}
		}
		col += width
		i += len(cluster)
	}

	// a selected newline shows as one cell past the end
	if ls, ok := selection.At(selected, len(lineText)); ok {
		put(col, v.selection.Apply(core.Cell{Text: " ", Width: 1, Style: normal}, ls.Primary), -1)
	}
}
