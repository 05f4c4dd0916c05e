package cursor

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/scriptedit/internal/renderer/core"
	"github.com/dshills/scriptedit/internal/renderer/dirty"
)

type grid struct {
	w, h  int
	cells []core.Cell
}

func newGrid(w, h int) *grid {
	g := &grid{w: w, h: h, cells: make([]core.Cell, w*h)}
	for i := range g.cells {
		g.cells[i] = core.EmptyCell()
	}
	return g
}

func (g *grid) GetCell(x, y int) core.Cell {
	if x < 0 || y < 0 || x >= g.w || y >= g.h {
		return core.EmptyCell()
	}
	return g.cells[y*g.w+x]
}

func (g *grid) SetCell(x, y int, c core.Cell) {
	if x < 0 || y < 0 || x >= g.w || y >= g.h {
		return
	}
	g.cells[y*g.w+x] = c
}

func (g *grid) bg(x, y int) core.Color {
	return g.GetCell(x, y).Style.Background
}

func newOverlay(t *testing.T, w, h int, cfg Config) (*Renderer, *dirty.Tracker) {
	t.Helper()
	tr := dirty.NewTracker(w, h)
	r := New(cfg, tr)
	r.SetViewport(Viewport{Area: core.Rect{Width: w, Height: h}})
	tr.Take()
	return r, tr
}

func TestStyleFromString(t *testing.T) {
	tests := []struct {
		input string
		want  Style
	}{
		{"block", StyleBlock},
		{"bar", StyleBar},
		{"underline", StyleUnderline},
		{"underscore", StyleUnderline},
		{"bogus", StyleBar},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, StyleFromString(tt.input))
		})
	}
	assert.Equal(t, "block", StyleBlock.String())
	assert.Equal(t, "underline", StyleUnderline.String())
}

func TestCaretAt(t *testing.T) {
	line := "a\tb世"
	assert.Equal(t, Caret{Line: 3, Column: 1, Width: 1}, CaretAt(3, line, 1, 4, false))
	assert.Equal(t, Caret{Line: 3, Column: 5, Width: 2, Primary: true}, CaretAt(3, line, 3, 4, true))
	assert.Equal(t, Caret{Line: 3, Column: 7, Width: 1}, CaretAt(3, line, len(line), 4, false))
	assert.Equal(t, Caret{Line: 0, Column: 0, Width: 1}, CaretAt(0, "", 5, 4, false))
}

func TestSetCaretsRestrictsRepaint(t *testing.T) {
	r, tr := newOverlay(t, 80, 24, DefaultConfig())

	area := r.SetCarets([]Caret{
		{Line: 2, Column: 4, Width: 1},
		{Line: 10, Column: 4, Width: 1, Primary: true},
	})
	assert.Equal(t, core.Rect{X: 0, Y: 1, Width: 80, Height: 11}, area)
	assert.False(t, tr.IsFull())
	tr.Take()

	// only the secondary caret moves down one line
	area = r.SetCarets([]Caret{
		{Line: 3, Column: 4, Width: 1},
		{Line: 10, Column: 4, Width: 1, Primary: true},
	})
	assert.Equal(t, core.Rect{X: 0, Y: 1, Width: 80, Height: 4}, area)
	assert.Equal(t, area, tr.Bounds())
	assert.False(t, tr.IsFull())
	tr.Take()

	area = r.SetCarets(r.Carets())
	assert.True(t, area.IsEmpty())
	assert.False(t, tr.IsDirty())
}

func TestRepaintClippedToViewport(t *testing.T) {
	r, tr := newOverlay(t, 40, 10, DefaultConfig())

	r.SetViewport(Viewport{Area: core.Rect{X: 4, Width: 36, Height: 10}, Top: 100})
	assert.Equal(t, 2, tr.Count(dirty.ReasonScroll))
	tr.Take()

	area := r.SetCarets([]Caret{{Line: 2, Width: 1, Primary: true}})
	assert.True(t, area.IsEmpty(), "caret above the viewport")
	assert.False(t, tr.IsDirty())

	area = r.SetCarets([]Caret{{Line: 100, Width: 1, Primary: true}})
	assert.Equal(t, core.Rect{X: 4, Y: 0, Width: 36, Height: 2}, area)
}

func TestBlink(t *testing.T) {
	cfg := DefaultConfig()
	r, tr := newOverlay(t, 80, 24, cfg)
	base := time.Now()
	r.ResetBlink(base)

	r.SetCarets([]Caret{
		{Line: 5, Width: 1},
		{Line: 12, Width: 1, Primary: true},
	})
	tr.Take()

	assert.False(t, r.Tick(base.Add(100*time.Millisecond)))
	assert.Equal(t, cfg.BlinkColors[0], r.BlinkColor())

	require.True(t, r.Tick(base.Add(cfg.BlinkInterval)))
	assert.Equal(t, cfg.BlinkColors[1], r.BlinkColor())
	assert.Equal(t, core.Rect{X: 0, Y: 4, Width: 80, Height: 3}, tr.Bounds(), "only the secondary caret row")
	tr.Take()

	r.ResetBlink(base.Add(time.Second))
	assert.Equal(t, cfg.BlinkColors[0], r.BlinkColor())
	assert.True(t, tr.IsDirty())
	tr.Take()

	r.SetCarets([]Caret{{Line: 12, Width: 1, Primary: true}})
	tr.Take()
	assert.True(t, r.Tick(base.Add(2*time.Second)))
	assert.False(t, tr.IsDirty(), "a single caret does not blink")
}

func TestPaint(t *testing.T) {
	cfg := DefaultConfig()
	cfg.GuideColumn = 5
	r, _ := newOverlay(t, 10, 3, cfg)
	r.SetCarets([]Caret{
		{Line: 0, Column: 2, Width: 2},
		{Line: 1, Column: 0, Width: 1, Primary: true},
	})

	g := newGrid(10, 3)
	r.Paint(g, core.Rect{Width: 10, Height: 3})

	blink := cfg.BlinkColors[0]
	guide := cfg.GuideColor.Over(cfg.Background)
	band := cfg.BandColor.Over(cfg.Background)

	assert.Equal(t, blink, g.bg(2, 0))
	assert.Equal(t, blink, g.bg(3, 0), "wide glyph")
	assert.True(t, g.bg(4, 0).IsDefault())
	assert.Equal(t, guide, g.bg(5, 0))
	assert.Equal(t, guide, g.bg(5, 2))

	assert.Equal(t, band, g.bg(0, 1), "primary caret is not drawn as a block")
	assert.Equal(t, band, g.bg(9, 1))
	assert.Equal(t, cfg.BandColor.Over(guide), g.bg(5, 1))
	assert.True(t, g.bg(0, 2).IsDefault())

	x, y, ok := r.PrimaryScreenPosition()
	assert.True(t, ok)
	assert.Equal(t, 0, x)
	assert.Equal(t, 1, y)
}

func TestPaintRespectsClip(t *testing.T) {
	cfg := DefaultConfig()
	cfg.GuideColumn = 0
	r, _ := newOverlay(t, 10, 3, cfg)
	r.SetCarets([]Caret{
		{Line: 2, Column: 1, Width: 1},
		{Line: 1, Column: 0, Width: 1, Primary: true},
	})

	g := newGrid(10, 3)
	r.Paint(g, core.Rect{Y: 2, Width: 10, Height: 1})

	assert.True(t, g.bg(0, 1).IsDefault(), "band row outside clip")
	assert.Equal(t, cfg.BlinkColors[0], g.bg(1, 2))
	for x := 0; x < 10; x++ {
		assert.True(t, g.bg(x, 0).IsDefault())
	}
}

func TestSingleCaretHasNoBlock(t *testing.T) {
	r, _ := newOverlay(t, 10, 2, DefaultConfig())
	r.SetCarets([]Caret{{Line: 0, Column: 3, Width: 1, Primary: true}})

	g := newGrid(10, 2)
	r.Paint(g, core.Rect{Width: 10, Height: 2})
	band := r.Config().BandColor.Over(r.Config().Background)
	assert.Equal(t, band, g.bg(3, 0))
}
