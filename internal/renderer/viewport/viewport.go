// Package viewport tracks which lines and display columns of a document
// are on screen and scrolls to keep the primary caret visible.
package viewport

// Viewport is the visible window over a document, in lines and display
// columns. It is driven from the session's event loop and is not safe for
// concurrent use.
type Viewport struct {
	top  int
	left int

	width  int
	height int

	// Scroll margins: keep the caret this far from the edges.
	marginY int
	marginX int

	lines int
}

// New creates a viewport of width by height cells. Sizes below 1 are
// raised to 1.
func New(width, height int) *Viewport {
	v := &Viewport{marginY: 2, marginX: 4, lines: 1}
	v.Resize(width, height)
	return v
}

// Width returns the viewport width in cells.
func (v *Viewport) Width() int { return v.width }

// Height returns the viewport height in rows.
func (v *Viewport) Height() int { return v.height }

// Top returns the first visible line.
func (v *Viewport) Top() int { return v.top }

// Left returns the first visible display column.
func (v *Viewport) Left() int { return v.left }

// Resize changes the size and keeps the top line in range.
func (v *Viewport) Resize(width, height int) {
	v.width = max(width, 1)
	v.height = max(height, 1)
	v.clamp()
}

// SetLineCount sets the number of lines in the document.
func (v *Viewport) SetLineCount(n int) {
	v.lines = max(n, 1)
	v.clamp()
}

// SetMargins sets the vertical and horizontal scroll margins.
func (v *Viewport) SetMargins(vertical, horizontal int) {
	v.marginY = max(vertical, 0)
	v.marginX = max(horizontal, 0)
}

// Bottom returns the last visible line.
func (v *Viewport) Bottom() int {
	return min(v.top+v.height, v.lines) - 1
}

// IsLineVisible reports whether line is on screen.
func (v *Viewport) IsLineVisible(line int) bool {
	return line >= v.top && line <= v.Bottom()
}

// ToScreen converts a line and display column to a screen row and column
// relative to the viewport. ok is false when the position is off screen.
func (v *Viewport) ToScreen(line, col int) (row, x int, ok bool) {
	row, x = line-v.top, col-v.left
	ok = v.IsLineVisible(line) && x >= 0 && x < v.width
	return row, x, ok
}

// FromScreen converts a viewport-relative row and column to a line and
// display column. The line is clamped to the document.
func (v *Viewport) FromScreen(row, x int) (line, col int) {
	line = min(max(v.top+row, 0), v.lines-1)
	return line, max(v.left+x, 0)
}

// ScrollTo puts line at the top.
func (v *Viewport) ScrollTo(line int) {
	v.top = line
	v.clamp()
}

// ScrollBy scrolls by delta lines.
func (v *Viewport) ScrollBy(delta int) {
	v.ScrollTo(v.top + delta)
}

// Reveal scrolls the least amount that shows line and col with the
// margins around them. It reports whether the viewport moved.
func (v *Viewport) Reveal(line, col int) bool {
	top, left := v.top, v.left

	my := min(v.marginY, (v.height-1)/2)
	switch {
	case line < v.top+my:
		v.top = line - my
	case line > v.top+v.height-1-my:
		v.top = line - v.height + 1 + my
	}

	mx := min(v.marginX, (v.width-1)/2)
	switch {
	case col < v.left+mx:
		v.left = col - mx
	case col > v.left+v.width-1-mx:
		v.left = col - v.width + 1 + mx
	}
	v.clamp()
	return top != v.top || left != v.left
}

func (v *Viewport) clamp() {
	v.top = min(v.top, v.lines-1)
	v.top = max(v.top, 0)
	v.left = max(v.left, 0)
}
