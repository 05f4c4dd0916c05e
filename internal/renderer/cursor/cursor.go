// Package cursor paints the caret overlay: a blinking block for every
// secondary caret, a faint band across the primary caret's row and a
// vertical max-line-length guide.
//
// Repaints are requested through a dirty.Tracker and are restricted to
// the rows of the carets that moved, widened by a margin. The overlay never
// asks for the whole viewport because of a caret move.
package cursor

import (
	"slices"
	"sync"
	"time"

	"github.com/rivo/uniseg"

	"github.com/dshills/scriptedit/internal/log"
	"github.com/dshills/scriptedit/internal/renderer/core"
	"github.com/dshills/scriptedit/internal/renderer/dirty"
)

// Style is the terminal cursor shape used for the primary caret.
type Style uint8

const (
	// StyleBlock is a filled block cursor.
	StyleBlock Style = iota
	// StyleBar is a vertical line cursor.
	StyleBar
	// StyleUnderline is an underscore cursor.
	StyleUnderline
)

// StyleFromString converts a style name. Unknown names give StyleBar.
func StyleFromString(s string) Style {
	switch s {
	case "block":
		return StyleBlock
	case "underline", "underscore":
		return StyleUnderline
	default:
		return StyleBar
	}
}

// String returns the style name.
func (s Style) String() string {
	switch s {
	case StyleBlock:
		return "block"
	case StyleUnderline:
		return "underline"
	default:
		return "bar"
	}
}

// Caret is one caret in document coordinates.
type Caret struct {
	Line    int
	Column  int // display column
	Width   int // cells covered by the glyph under the caret
	Primary bool
}

// CaretAt builds the caret at byte column byteCol of a line. The caret is
// as wide as the grapheme under it, and one cell at the end of the line.
func CaretAt(lineNo int, line string, byteCol, tabWidth int, primary bool) Caret {
	byteCol = min(max(byteCol, 0), len(line))
	width := 1
	if byteCol < len(line) && line[byteCol] != '\t' {
		_, _, w, _ := uniseg.FirstGraphemeClusterInString(line[byteCol:], -1)
		width = max(w, 1)
	}
	return Caret{
		Line:    lineNo,
		Column:  core.ColumnOf(line, byteCol, tabWidth),
		Width:   width,
		Primary: primary,
	}
}

// Config holds the overlay colours and timings.
type Config struct {
	// BlinkInterval is the time between the two blink colours.
	BlinkInterval time.Duration

	// BlinkColors are alternated on secondary carets.
	BlinkColors [2]core.Color

	// BandColor is composited over the primary caret's row.
	BandColor core.Color

	// GuideColor is composited over the guide column.
	GuideColor core.Color

	// GuideColumn is the max line length; 0 hides the guide.
	GuideColumn int

	// Margin is the number of rows added above and below a repaint band.
	Margin int

	// Background stands in for cells drawn with the default colour.
	Background core.Color

	// Style is the shape of the primary caret.
	Style Style
}

// DefaultConfig returns the standard overlay configuration.
func DefaultConfig() Config {
	return Config{
		BlinkInterval: 500 * time.Millisecond,
		BlinkColors:   [2]core.Color{core.RGB(94, 132, 255), core.RGB(117, 229, 92)},
		BandColor:     core.RGBA(207, 228, 255, 10),
		GuideColor:    core.RGBA(207, 228, 255, 20),
		GuideColumn:   80,
		Margin:        1,
		Background:    core.RGB(43, 43, 43),
		Style:         StyleBar,
	}
}

// Viewport maps document coordinates to the screen. Area is the text
// area; Top and Left are the first visible line and display column.
type Viewport struct {
	Area core.Rect
	Top  int
	Left int
}

// Surface is the cell grid the overlay paints on.
type Surface interface {
	GetCell(x, y int) core.Cell
	SetCell(x, y int, cell core.Cell)
}

// Renderer draws the caret overlay and requests its repaints.
type Renderer struct {
	mu sync.Mutex

	config Config
	dirty  *dirty.Tracker
	view   Viewport

	// Carets to draw, the primary one last.
	carets []Caret

	phase     int
	lastBlink time.Time
}

// New creates an overlay that marks repaints on tracker.
func New(config Config, tracker *dirty.Tracker) *Renderer {
	return &Renderer{
		config:    config,
		dirty:     tracker,
		lastBlink: time.Now(),
	}
}

// Config returns the current configuration.
func (r *Renderer) Config() Config {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.config
}

// SetConfig replaces the configuration and repaints the text area.
func (r *Renderer) SetConfig(config Config) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.config = config
	r.dirty.Mark(r.view.Area, dirty.ReasonStyle)
}

// Viewport returns the current viewport.
func (r *Renderer) Viewport() Viewport {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.view
}

// SetViewport changes the mapping to the screen. Scrolling repaints the
// text area.
func (r *Renderer) SetViewport(v Viewport) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if v == r.view {
		return
	}
	r.view = v
	r.dirty.Mark(v.Area, dirty.ReasonScroll)
}

// Carets returns the carets being drawn.
func (r *Renderer) Carets() []Caret {
	r.mu.Lock()
	defer r.mu.Unlock()
	return slices.Clone(r.carets)
}

// SetCarets replaces the carets and requests a repaint of the rows of
// every caret that appeared, disappeared or moved. It returns the
// requested area, empty when nothing moved.
func (r *Renderer) SetCarets(carets []Caret) core.Rect {
	r.mu.Lock()
	defer r.mu.Unlock()

	var moved []Caret
	for _, c := range r.carets {
		if !slices.Contains(carets, c) {
			moved = append(moved, c)
		}
	}
	for _, c := range carets {
		if !slices.Contains(r.carets, c) {
			moved = append(moved, c)
		}
	}
	r.carets = slices.Clone(carets)

	area := r.rowsLocked(moved)
	if !area.IsEmpty() {
		r.dirty.Mark(area, dirty.ReasonCaret)
		log.Debug(log.CatCaret, "repaint", "moved", len(moved), "y", area.Y, "height", area.Height)
	}
	return area
}

// rowsLocked returns the union of the full-width row bands of carets,
// each widened by the margin.
func (r *Renderer) rowsLocked(carets []Caret) core.Rect {
	var area core.Rect
	for _, c := range carets {
		y := r.view.Area.Y + c.Line - r.view.Top
		if y < r.view.Area.Y || y >= r.view.Area.Bottom() {
			continue
		}
		band := core.Rect{X: r.view.Area.X, Y: y, Width: r.view.Area.Width, Height: 1}
		area = area.Union(band.Adjusted(0, -r.config.Margin, 0, r.config.Margin))
	}
	return area.Intersect(r.view.Area)
}

func (r *Renderer) secondaryLocked() []Caret {
	if len(r.carets) < 2 {
		return nil
	}
	var out []Caret
	for _, c := range r.carets {
		if !c.Primary {
			out = append(out, c)
		}
	}
	return out
}

// Tick advances the blink. When the interval has elapsed it switches
// colour, requests a repaint of the secondary carets' rows and returns
// true.
func (r *Renderer) Tick(now time.Time) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.config.BlinkInterval <= 0 || now.Sub(r.lastBlink) < r.config.BlinkInterval {
		return false
	}
	r.phase ^= 1
	r.lastBlink = now

	if area := r.rowsLocked(r.secondaryLocked()); !area.IsEmpty() {
		r.dirty.Mark(area, dirty.ReasonCaret)
	}
	return true
}

// ResetBlink restarts the blink cycle on the first colour.
func (r *Renderer) ResetBlink(now time.Time) {
	r.mu.Lock()
	defer r.mu.Unlock()
	changed := r.phase != 0
	r.phase = 0
	r.lastBlink = now
	if changed {
		if area := r.rowsLocked(r.secondaryLocked()); !area.IsEmpty() {
			r.dirty.Mark(area, dirty.ReasonCaret)
		}
	}
}

// BlinkColor returns the current colour of the secondary carets.
func (r *Renderer) BlinkColor() core.Color {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.config.BlinkColors[r.phase]
}

// PrimaryScreenPosition returns where the terminal cursor should be shown.
func (r *Renderer) PrimaryScreenPosition() (x, y int, ok bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.carets) == 0 {
		return 0, 0, false
	}
	return r.screenLocked(r.carets[len(r.carets)-1])
}

func (r *Renderer) screenLocked(c Caret) (x, y int, ok bool) {
	x = r.view.Area.X + c.Column - r.view.Left
	y = r.view.Area.Y + c.Line - r.view.Top
	return x, y, r.view.Area.Contains(x, y)
}

// Paint draws the overlay on s inside clip. The guide goes first, then
// the secondary carets, then the primary row band on top.
func (r *Renderer) Paint(s Surface, clip core.Rect) {
	r.mu.Lock()
	defer r.mu.Unlock()

	clip = clip.Intersect(r.view.Area)
	if clip.IsEmpty() {
		return
	}

	if r.config.GuideColumn > 0 {
		x := r.view.Area.X + r.config.GuideColumn - r.view.Left
		if x >= clip.X && x < clip.Right() {
			for y := clip.Y; y < clip.Bottom(); y++ {
				r.blendLocked(s, x, y, r.config.GuideColor)
			}
		}
	}

	color := r.config.BlinkColors[r.phase]
	for _, c := range r.secondaryLocked() {
		x, y, ok := r.screenLocked(c)
		if !ok || y < clip.Y || y >= clip.Bottom() {
			continue
		}
		for dx := 0; dx < max(c.Width, 1); dx++ {
			if x+dx < clip.X || x+dx >= clip.Right() {
				continue
			}
			cell := s.GetCell(x+dx, y)
			cell.Style = cell.Style.WithBackground(color)
			s.SetCell(x+dx, y, cell)
		}
	}

	if len(r.carets) > 0 {
		p := r.carets[len(r.carets)-1]
		y := r.view.Area.Y + p.Line - r.view.Top
		if y >= clip.Y && y < clip.Bottom() {
			for x := clip.X; x < clip.Right(); x++ {
				r.blendLocked(s, x, y, r.config.BandColor)
			}
		}
	}
}

func (r *Renderer) blendLocked(s Surface, x, y int, over core.Color) {
	cell := s.GetCell(x, y)
	bg := cell.Style.Background
	if bg.IsDefault() {
		bg = r.config.Background
	}
	cell.Style = cell.Style.WithBackground(over.Over(bg))
	s.SetCell(x, y, cell)
}
