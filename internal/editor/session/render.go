package session

import (
	"time"

	"github.com/dshills/scriptedit/internal/engine/cursor"
	"github.com/dshills/scriptedit/internal/renderer"
	"github.com/dshills/scriptedit/internal/renderer/core"
	caretoverlay "github.com/dshills/scriptedit/internal/renderer/cursor"
	"github.com/dshills/scriptedit/internal/renderer/dirty"
)

// syncView scrolls to the primary caret and hands the carets to the
// overlay, which requests the repaint of the rows that moved.
func (s *Session) syncView(ev Event) {
	doc := s.eng.Document()
	tab := s.view.TabWidth()

	primary := doc.OffsetToPoint(s.carets.Primary().Position())
	line := doc.LineText(primary.Line)
	col := core.ColumnOf(line, primary.Column, tab)

	gutterWidth := s.view.Gutter().Width()
	scrolled := s.view.Follow(doc.LineCount(), primary.Line, col)
	if scrolled || s.view.Gutter().Width() != gutterWidth {
		s.tracker.Mark(s.view.Area(), dirty.ReasonScroll)
	}
	s.overlay.SetViewport(s.view.OverlayViewport())

	all := s.carets.Carets()
	carets := make([]caretoverlay.Caret, 0, len(all))
	for i, c := range all {
		p := doc.OffsetToPoint(c.Position())
		carets = append(carets, caretoverlay.CaretAt(p.Line, doc.LineText(p.Line), p.Column, tab, i == len(all)-1))
	}
	s.overlay.SetCarets(carets)

	if ev&CaretsChanged != 0 {
		s.overlay.ResetBlink(s.now())
	}
	if ev&(TextChanged|ConfigChanged) != 0 {
		s.tracker.Mark(s.view.Area(), dirty.ReasonText)
	}
}

// markSelectionRows requests the rows whose selection highlight changed:
// every line covered by a non-empty selection before or after.
func (s *Session) markSelectionRows(before, after []cursor.Selection) {
	doc := s.eng.Document()
	vp := s.view.Viewport()
	area := s.view.Area()
	for _, sels := range [][]cursor.Selection{before, after} {
		for _, sel := range sels {
			if sel.IsEmpty() {
				continue
			}
			first := doc.LineAt(sel.Start()) - vp.Top()
			last := doc.LineAt(sel.End()) - vp.Top()
			first, last = max(first, 0), min(last, area.Height-1)
			if first > last {
				continue
			}
			s.tracker.Mark(core.Rect{X: area.X, Y: area.Y + first, Width: area.Width, Height: last - first + 1}, dirty.ReasonCaret)
		}
	}
}

// SetArea moves or resizes the text view. The screen is width x height.
func (s *Session) SetArea(area core.Rect, width, height int) {
	s.area = area
	s.view.SetArea(area)
	s.tracker.SetScreenSize(width, height)
	s.syncView(0)
}

// Tick advances the caret blink. It reports whether a repaint is due.
func (s *Session) Tick(now time.Time) bool {
	return s.overlay.Tick(now)
}

// Dirty reports whether anything needs repainting.
func (s *Session) Dirty() bool {
	return s.tracker.IsDirty()
}

// Render repaints the dirty parts of the view on surf: the text first,
// then the caret overlay on top. It returns the repainted regions.
func (s *Session) Render(surf renderer.Surface) []core.Rect {
	regions := s.tracker.Take()
	if len(regions) == 0 {
		return nil
	}
	doc := s.eng.Document()
	sels := s.carets.Selections()
	for _, r := range regions {
		clip := r.Intersect(s.view.Area())
		if clip.IsEmpty() {
			continue
		}
		// text rows are painted full width, so the overlay is too
		clip.X, clip.Width = s.view.Area().X, s.view.Area().Width
		s.view.PaintRows(surf, doc, s.palettes, sels, clip)
		s.overlay.Paint(surf, clip)
	}
	return regions
}

// CursorPosition returns the screen cell of the primary caret.
func (s *Session) CursorPosition() (x, y int, ok bool) {
	return s.overlay.PrimaryScreenPosition()
}

// Scroll moves the view by delta lines without moving the carets.
func (s *Session) Scroll(delta int) {
	vp := s.view.Viewport()
	top := vp.Top()
	vp.ScrollBy(delta)
	if vp.Top() == top {
		return
	}
	s.overlay.SetViewport(s.view.OverlayViewport())
	s.tracker.Mark(s.view.Area(), dirty.ReasonScroll)
}
