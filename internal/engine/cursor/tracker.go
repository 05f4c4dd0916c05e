package cursor

import (
	"sync"

	"github.com/dshills/scriptedit/internal/engine/buffer"
)

// Tracker keeps every live Cursor of one document valid across changes.
type Tracker struct {
	mu          sync.Mutex
	cursors     []*Cursor
	unsubscribe func()
}

// NewTracker subscribes to doc and transforms its cursors on every change.
func NewTracker(doc *buffer.Document) *Tracker {
	t := &Tracker{}
	t.unsubscribe = doc.OnChange(t.apply)
	return t
}

// New creates a tracked cursor writing through target.
func (t *Tracker) New(target Target, sel Selection) *Cursor {
	c := &Cursor{
		tracker: t,
		target:  target,
		sel:     sel.Clamp(target.Document().Len()),
		goal:    -1,
	}
	t.mu.Lock()
	t.cursors = append(t.cursors, c)
	t.mu.Unlock()
	return c
}

// Count returns the number of live cursors.
func (t *Tracker) Count() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.cursors)
}

// Close stops tracking all cursors.
func (t *Tracker) Close() {
	if t.unsubscribe != nil {
		t.unsubscribe()
	}
	t.mu.Lock()
	for _, c := range t.cursors {
		c.released = true
	}
	t.cursors = nil
	t.mu.Unlock()
}

func (t *Tracker) release(c *Cursor) {
	t.mu.Lock()
	defer t.mu.Unlock()
	c.released = true
	for i, other := range t.cursors {
		if other == c {
			t.cursors = append(t.cursors[:i], t.cursors[i+1:]...)
			return
		}
	}
}

func (t *Tracker) apply(ch buffer.Change) {
	edit := ch.Edit()
	t.mu.Lock()
	defer t.mu.Unlock()
	for _, c := range t.cursors {
		c.sel = TransformSelection(c.sel, edit)
	}
}
