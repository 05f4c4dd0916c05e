// Package multicaret holds the carets of one editing session.
//
// A MultiCaret is a non-empty ordered list of live cursors over the same
// engine. The last caret is the primary one: the caret single-cursor code
// observes and the one the terminal cursor is drawn on. Two carets never
// share a position; adding a caret where one already sits is a no-op.
//
// MultiCaret is not safe for concurrent use. It is driven from the
// session's event loop.
package multicaret

import (
	"slices"

	"github.com/dshills/scriptedit/internal/engine"
	"github.com/dshills/scriptedit/internal/engine/cursor"
	"github.com/dshills/scriptedit/internal/log"
)

// State is the caret lifecycle state.
type State uint8

const (
	// Single means only the primary caret exists.
	Single State = iota
	// Multi means secondary carets exist.
	Multi
)

// String returns the state name.
func (s State) String() string {
	if s == Multi {
		return "multi"
	}
	return "single"
}

// MultiCaret is an ordered set of live carets.
type MultiCaret struct {
	eng    *engine.Engine
	carets []*cursor.Cursor
}

// New creates a MultiCaret with one caret at offset and installs it as
// the engine's caret state, so undo and redo restore its carets.
func New(eng *engine.Engine, offset engine.ByteOffset) *MultiCaret {
	m := &MultiCaret{eng: eng}
	m.carets = []*cursor.Cursor{eng.NewCursor(cursor.NewCursorSelection(offset))}
	eng.SetCaretState(m)
	return m
}

// Close releases every caret and detaches from the engine.
func (m *MultiCaret) Close() {
	m.eng.SetCaretState(nil)
	for _, c := range m.carets {
		c.Release()
	}
	m.carets = nil
}

// Engine returns the engine the carets edit.
func (m *MultiCaret) Engine() *engine.Engine {
	return m.eng
}

// Primary returns the primary caret.
func (m *MultiCaret) Primary() *cursor.Cursor {
	return m.carets[len(m.carets)-1]
}

// Carets returns the carets, the primary one last.
func (m *MultiCaret) Carets() []*cursor.Cursor {
	return slices.Clone(m.carets)
}

// Len returns the number of carets.
func (m *MultiCaret) Len() int {
	return len(m.carets)
}

// State returns Multi when secondary carets exist.
func (m *MultiCaret) State() State {
	if len(m.carets) > 1 {
		return Multi
	}
	return Single
}

// Selections returns every caret's selection, the primary one last.
func (m *MultiCaret) Selections() []cursor.Selection {
	sels := make([]cursor.Selection, len(m.carets))
	for i, c := range m.carets {
		sels[i] = c.Selection()
	}
	return sels
}

// RestoreSelections replaces the carets with one caret per selection.
// An empty list is ignored.
func (m *MultiCaret) RestoreSelections(sels []cursor.Selection) {
	if len(sels) == 0 {
		return
	}
	for len(m.carets) > len(sels) {
		m.carets[0].Release()
		m.carets = m.carets[1:]
	}
	for len(m.carets) < len(sels) {
		m.carets = slices.Insert(m.carets, 0, m.eng.NewCursor(sels[0]))
	}
	for i, sel := range sels {
		m.carets[i].SetSelection(sel)
	}
	m.Merge()
}

// IndexAt returns the index of the caret positioned at offset, or -1.
func (m *MultiCaret) IndexAt(offset engine.ByteOffset) int {
	return slices.IndexFunc(m.carets, func(c *cursor.Cursor) bool {
		return c.Position() == offset
	})
}

// Add appends a caret with the given selection and makes it primary. If a
// caret already sits at the selection's position nothing is added and Add
// returns false.
func (m *MultiCaret) Add(sel cursor.Selection) bool {
	if m.IndexAt(sel.Head) >= 0 {
		return false
	}
	m.carets = append(m.carets, m.eng.NewCursor(sel))
	log.Debug(log.CatCaret, "caret added", "offset", sel.Head, "carets", len(m.carets))
	return true
}

// AddAt adds a collapsed caret at offset.
func (m *MultiCaret) AddAt(offset engine.ByteOffset) bool {
	return m.Add(cursor.NewCursorSelection(offset))
}

// AddAbove adds a caret one line above the primary caret, keeping its
// display column. It returns false on the first line or when a caret is
// already there.
func (m *MultiCaret) AddAbove() bool {
	return m.addVertical(cursor.Up)
}

// AddBelow adds a caret one line below the primary caret.
func (m *MultiCaret) AddBelow() bool {
	return m.addVertical(cursor.Down)
}

func (m *MultiCaret) addVertical(op cursor.MoveOperation) bool {
	c := m.Primary().Clone()
	defer c.Release()
	c.SetSelection(c.Selection().Collapse())
	if !c.MovePosition(op, cursor.MoveAnchor, 1) {
		return false
	}
	return m.AddAt(c.Position())
}

// Remove drops the caret at index i. The last remaining caret is never
// removed.
func (m *MultiCaret) Remove(i int) bool {
	if len(m.carets) < 2 || i < 0 || i >= len(m.carets) {
		return false
	}
	m.carets[i].Release()
	m.carets = slices.Delete(m.carets, i, i+1)
	return true
}

// Collapse removes every caret except the primary one.
func (m *MultiCaret) Collapse() {
	if len(m.carets) < 2 {
		return
	}
	for _, c := range m.carets[:len(m.carets)-1] {
		c.Release()
	}
	m.carets = m.carets[len(m.carets)-1:]
	log.Debug(log.CatCaret, "carets collapsed")
}

// CollapseTo removes every secondary caret and puts the primary one at
// offset.
func (m *MultiCaret) CollapseTo(offset engine.ByteOffset) {
	m.Collapse()
	m.Primary().SetSelection(cursor.NewCursorSelection(offset))
}

// Click applies a mouse click at offset. With multi set (the add-caret
// modifier held) a click on an empty position adds a caret, and a click
// on an existing caret removes it unless it is the only one. A plain
// click collapses to a single caret at offset.
func (m *MultiCaret) Click(offset engine.ByteOffset, multi bool) {
	if !multi {
		m.CollapseTo(offset)
		return
	}
	if i := m.IndexAt(offset); i >= 0 {
		m.Remove(i)
		return
	}
	m.AddAt(offset)
}

// Merge drops carets that came to share a position with a later caret.
// Edits can make carets meet; the later one, and with it the primary
// caret, always survives.
func (m *MultiCaret) Merge() {
	if len(m.carets) < 2 {
		return
	}
	kept := m.carets[:0]
	for i, c := range m.carets {
		pos := c.Position()
		dup := slices.ContainsFunc(m.carets[i+1:], func(o *cursor.Cursor) bool {
			return o.Position() == pos
		})
		if dup {
			c.Release()
			continue
		}
		kept = append(kept, c)
	}
	m.carets = kept
}

// Each calls fn for every caret, the primary one last, and stops at the
// first error.
func (m *MultiCaret) Each(fn func(i int, c *cursor.Cursor) error) error {
	for i, c := range slices.Clone(m.carets) {
		if err := fn(i, c); err != nil {
			return err
		}
	}
	return nil
}
