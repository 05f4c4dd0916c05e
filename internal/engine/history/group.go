package history

import "github.com/dshills/scriptedit/internal/engine/buffer"

// GroupScope closes a group with the selections reported by after.
// Usage:
//
//	scope := h.GroupScope("Toggle comment", sels, currentSelections)
//	defer scope.End()
type GroupScope struct {
	history *History
	after   func() []Selection
	active  bool
}

// GroupScope starts a new group scope.
func (h *History) GroupScope(name string, before []Selection, after func() []Selection) *GroupScope {
	h.BeginGroup(name, before)
	return &GroupScope{history: h, after: after, active: true}
}

// End ends the group scope. Only the first call has effect.
func (g *GroupScope) End() {
	if !g.active {
		return
	}
	var sels []Selection
	if g.after != nil {
		sels = g.after()
	}
	g.history.EndGroup(sels)
	g.active = false
}

// Cancel cancels the group scope without creating an undo unit.
func (g *GroupScope) Cancel() {
	if g.active {
		g.history.CancelGroup()
		g.active = false
	}
}

// Checkpoint represents a point in history that can be returned to.
type Checkpoint struct {
	undoDepth int
}

// CreateCheckpoint creates a checkpoint at the current history position.
func (h *History) CreateCheckpoint() Checkpoint {
	h.mu.Lock()
	defer h.mu.Unlock()
	return Checkpoint{undoDepth: len(h.undoStack)}
}

// UndoToCheckpoint undoes all units recorded since the checkpoint and
// returns the last entry undone, if any.
func (h *History) UndoToCheckpoint(cp Checkpoint, doc *buffer.Document) (*Entry, error) {
	var last *Entry
	for h.UndoCount() > cp.undoDepth {
		e, err := h.Undo(doc)
		if err != nil {
			return last, err
		}
		last = e
	}
	return last, nil
}
