package history

import (
	"errors"
	"sync"
	"time"

	"github.com/dshills/scriptedit/internal/engine/buffer"
)

// Common errors for history operations.
var (
	ErrNothingToUndo = errors.New("nothing to undo")
	ErrNothingToRedo = errors.New("nothing to redo")
)

// DefaultMaxEntries is used when a non-positive limit is given.
const DefaultMaxEntries = 1000

// History manages undo/redo state for a document.
type History struct {
	mu sync.Mutex

	undoStack []*Entry
	redoStack []*Entry

	// open group, nil when not grouping
	group *Entry
	depth int

	maxEntries int
}

// NewHistory creates a new history manager.
func NewHistory(maxEntries int) *History {
	if maxEntries <= 0 {
		maxEntries = DefaultMaxEntries
	}
	return &History{maxEntries: maxEntries}
}

// Record adds an applied operation. Inside a group it joins the group;
// otherwise it becomes its own undo unit with the given selections.
func (h *History) Record(op Operation, before, after []Selection) {
	if op.IsNoop() {
		return
	}
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.group != nil {
		h.group.Ops = append(h.group.Ops, op)
		return
	}
	h.pushLocked(&Entry{
		Name:      describe(op),
		Ops:       []Operation{op},
		Before:    before,
		After:     after,
		Timestamp: time.Now(),
	})
}

func (h *History) pushLocked(e *Entry) {
	h.undoStack = append(h.undoStack, e)
	h.redoStack = nil
	if excess := len(h.undoStack) - h.maxEntries; excess > 0 {
		h.undoStack = h.undoStack[excess:]
	}
}

// Undo reverts the last unit on doc and returns it so the caller can
// restore Before.
// The lock is released while the document is edited; change listeners may
// call back into History.
func (h *History) Undo(doc *buffer.Document) (*Entry, error) {
	h.mu.Lock()
	if len(h.undoStack) == 0 {
		h.mu.Unlock()
		return nil, ErrNothingToUndo
	}
	entry := h.undoStack[len(h.undoStack)-1]
	h.undoStack = h.undoStack[:len(h.undoStack)-1]
	h.mu.Unlock()

	if err := entry.undo(doc); err != nil {
		h.mu.Lock()
		h.undoStack = append(h.undoStack, entry)
		h.mu.Unlock()
		return nil, err
	}

	h.mu.Lock()
	h.redoStack = append(h.redoStack, entry)
	h.mu.Unlock()
	return entry, nil
}

// Redo re-applies the last undone unit and returns it so the caller can
// restore After.
func (h *History) Redo(doc *buffer.Document) (*Entry, error) {
	h.mu.Lock()
	if len(h.redoStack) == 0 {
		h.mu.Unlock()
		return nil, ErrNothingToRedo
	}
	entry := h.redoStack[len(h.redoStack)-1]
	h.redoStack = h.redoStack[:len(h.redoStack)-1]
	h.mu.Unlock()

	if err := entry.redo(doc); err != nil {
		h.mu.Lock()
		h.redoStack = append(h.redoStack, entry)
		h.mu.Unlock()
		return nil, err
	}

	h.mu.Lock()
	h.undoStack = append(h.undoStack, entry)
	h.mu.Unlock()
	return entry, nil
}

// CanUndo returns true if undo is available.
func (h *History) CanUndo() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.undoStack) > 0
}

// CanRedo returns true if redo is available.
func (h *History) CanRedo() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.redoStack) > 0
}

// UndoCount returns the number of undo units available.
func (h *History) UndoCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.undoStack)
}

// RedoCount returns the number of redo units available.
func (h *History) RedoCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.redoStack)
}

// BeginGroup opens a group. Groups nest; only the outermost BeginGroup
// names the unit and captures the selections before it.
func (h *History) BeginGroup(name string, before []Selection) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.depth++
	if h.depth > 1 {
		return
	}
	h.group = &Entry{Name: name, Before: before}
}

// EndGroup closes a group. Closing the outermost group pushes a single
// unit holding every operation recorded since BeginGroup. An empty group
// leaves the stacks untouched. It reports whether a unit was pushed.
func (h *History) EndGroup(after []Selection) bool {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.depth == 0 {
		return false
	}
	h.depth--
	if h.depth > 0 {
		return false
	}

	g := h.group
	h.group = nil
	if len(g.Ops) == 0 {
		return false
	}
	g.After = after
	g.Timestamp = time.Now()
	h.pushLocked(g)
	return true
}

// CancelGroup drops the open group at every nesting level without adding
// to history. Operations already applied stay in the document.
func (h *History) CancelGroup() {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.group = nil
	h.depth = 0
}

// IsGrouping returns true if a group is open.
func (h *History) IsGrouping() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.depth > 0
}

// Depth returns the group nesting depth.
func (h *History) Depth() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.depth
}

// Clear removes all undo/redo history.
func (h *History) Clear() {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.undoStack = nil
	h.redoStack = nil
	h.group = nil
	h.depth = 0
}

// UndoInfo returns info about available undo units, oldest first.
func (h *History) UndoInfo() []OperationInfo {
	h.mu.Lock()
	defer h.mu.Unlock()

	result := make([]OperationInfo, len(h.undoStack))
	for i, e := range h.undoStack {
		result[i] = e.info()
	}
	return result
}

// PeekUndo returns info about the next undo unit without removing it.
func (h *History) PeekUndo() (OperationInfo, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if len(h.undoStack) == 0 {
		return OperationInfo{}, false
	}
	return h.undoStack[len(h.undoStack)-1].info(), true
}

// PeekRedo returns info about the next redo unit without removing it.
func (h *History) PeekRedo() (OperationInfo, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if len(h.redoStack) == 0 {
		return OperationInfo{}, false
	}
	return h.redoStack[len(h.redoStack)-1].info(), true
}

// SetMaxEntries changes the maximum number of undo units.
// If the current stack is larger, oldest entries are removed.
func (h *History) SetMaxEntries(max int) {
	if max <= 0 {
		max = DefaultMaxEntries
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	h.maxEntries = max
	if excess := len(h.undoStack) - max; excess > 0 {
		h.undoStack = h.undoStack[excess:]
	}
}

// MaxEntries returns the maximum number of undo units.
func (h *History) MaxEntries() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.maxEntries
}

func describe(op Operation) string {
	switch {
	case op.IsInsert():
		if op.NewText == "\n" {
			return "Insert newline"
		}
		return "Insert"
	case op.IsDelete():
		return "Delete"
	}
	return "Replace"
}
