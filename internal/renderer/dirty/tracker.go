// Package dirty accumulates the screen areas that need repainting between
// two frames.
package dirty

import (
	"sync"

	"github.com/dshills/scriptedit/internal/renderer/core"
)

// Reason says why an area was marked.
type Reason uint8

const (
	ReasonCaret Reason = iota
	ReasonText
	ReasonStyle
	ReasonResize
	ReasonScroll
)

// String returns the reason name.
func (r Reason) String() string {
	switch r {
	case ReasonCaret:
		return "caret"
	case ReasonText:
		return "text"
	case ReasonStyle:
		return "style"
	case ReasonResize:
		return "resize"
	case ReasonScroll:
		return "scroll"
	}
	return "unknown"
}

// Tracker collects dirty rectangles, merging any two that touch. Marked
// areas are clipped to the screen.
type Tracker struct {
	mu sync.Mutex

	screen  core.Rect
	regions []core.Rect
	full    bool
	counts  map[Reason]int

	// maxRegions caps the region list; past it everything is merged.
	maxRegions int
}

// NewTracker creates a tracker for a width x height screen.
func NewTracker(width, height int) *Tracker {
	return &Tracker{
		screen:     core.Rect{Width: max(0, width), Height: max(0, height)},
		counts:     make(map[Reason]int),
		maxRegions: 16,
	}
}

// Screen returns the screen rectangle.
func (t *Tracker) Screen() core.Rect {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.screen
}

// SetScreenSize resizes the screen and marks all of it.
func (t *Tracker) SetScreenSize(width, height int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.screen = core.Rect{Width: max(0, width), Height: max(0, height)}
	t.markFullLocked(ReasonResize)
}

// MarkFull marks the whole screen.
func (t *Tracker) MarkFull(reason Reason) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.markFullLocked(reason)
}

func (t *Tracker) markFullLocked(reason Reason) {
	t.full = true
	t.regions = t.regions[:0]
	t.counts[reason]++
}

// Mark adds r, clipped to the screen.
func (t *Tracker) Mark(r core.Rect, reason Reason) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.counts[reason]++
	if t.full {
		return
	}
	r = r.Intersect(t.screen)
	if r.IsEmpty() {
		return
	}
	t.regions = append(t.regions, r)
	t.coalesceLocked()
}

// MarkRows marks the full-width rows y..y+n-1.
func (t *Tracker) MarkRows(y, n int, reason Reason) {
	t.Mark(core.Rect{X: 0, Y: y, Width: t.Screen().Width, Height: n}, reason)
}

// coalesceLocked merges touching regions until none touch.
func (t *Tracker) coalesceLocked() {
	merged := true
	for merged {
		merged = false
		for i := 0; i < len(t.regions) && !merged; i++ {
			for j := i + 1; j < len(t.regions); j++ {
				if touches(t.regions[i], t.regions[j]) {
					t.regions[i] = t.regions[i].Union(t.regions[j])
					t.regions = append(t.regions[:j], t.regions[j+1:]...)
					merged = true
					break
				}
			}
		}
	}
	if len(t.regions) > t.maxRegions {
		b := core.Rect{}
		for _, r := range t.regions {
			b = b.Union(r)
		}
		t.regions = append(t.regions[:0], b)
	}
}

func touches(a, b core.Rect) bool {
	return !a.Adjusted(0, 0, 1, 1).Intersect(b).IsEmpty() ||
		!b.Adjusted(0, 0, 1, 1).Intersect(a).IsEmpty()
}

// IsDirty reports whether anything is marked.
func (t *Tracker) IsDirty() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.full || len(t.regions) > 0
}

// IsFull reports whether the whole screen is marked.
func (t *Tracker) IsFull() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.full
}

// Regions returns a copy of the marked rectangles. A full mark yields the
// screen rectangle.
func (t *Tracker) Regions() []core.Rect {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.regionsLocked()
}

func (t *Tracker) regionsLocked() []core.Rect {
	if t.full {
		return []core.Rect{t.screen}
	}
	out := make([]core.Rect, len(t.regions))
	copy(out, t.regions)
	return out
}

// Bounds returns the union of the marked rectangles.
func (t *Tracker) Bounds() core.Rect {
	b := core.Rect{}
	for _, r := range t.Regions() {
		b = b.Union(r)
	}
	return b
}

// Take returns the marked rectangles and clears the tracker.
func (t *Tracker) Take() []core.Rect {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := t.regionsLocked()
	t.full = false
	t.regions = t.regions[:0]
	return out
}

// Count returns how many marks were made for reason since creation.
func (t *Tracker) Count(reason Reason) int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.counts[reason]
}
