package cursor

import (
	"errors"

	"github.com/dshills/scriptedit/internal/engine/buffer"
)

// ErrCursorReleased is returned when editing through a released cursor.
var ErrCursorReleased = errors.New("cursor released")

// MoveMode selects whether a move drags the anchor along.
type MoveMode uint8

const (
	// MoveAnchor collapses the selection at the new position.
	MoveAnchor MoveMode = iota
	// KeepAnchor extends the selection to the new position.
	KeepAnchor
)

// Target is the editing surface a Cursor writes through. Edits made via
// ApplyEdit are expected to be recorded for undo and to notify the Tracker.
type Target interface {
	Document() *buffer.Document
	ApplyEdit(e buffer.Edit) (buffer.Change, error)
}

// Cursor is a live caret bound to a document. Its selection is kept valid
// by its Tracker across every change made to the document, whoever makes
// it.
type Cursor struct {
	tracker  *Tracker
	target   Target
	sel      Selection
	goal     int // preferred display column for Up/Down, -1 if unset
	released bool
}

// Selection returns the current selection.
func (c *Cursor) Selection() Selection {
	c.tracker.mu.Lock()
	defer c.tracker.mu.Unlock()
	return c.sel
}

// SetSelection replaces the selection, clamped to the document.
func (c *Cursor) SetSelection(sel Selection) {
	sel = sel.Clamp(c.doc().Len())
	c.tracker.mu.Lock()
	c.sel = sel
	c.goal = -1
	c.tracker.mu.Unlock()
}

// Position returns the caret offset.
func (c *Cursor) Position() ByteOffset {
	return c.Selection().Head
}

// Anchor returns the anchor offset.
func (c *Cursor) Anchor() ByteOffset {
	return c.Selection().Anchor
}

// SelectionStart returns the lower selection bound.
func (c *Cursor) SelectionStart() ByteOffset {
	return c.Selection().Start()
}

// SelectionEnd returns the upper selection bound.
func (c *Cursor) SelectionEnd() ByteOffset {
	return c.Selection().End()
}

// HasSelection reports whether the cursor selects any text.
func (c *Cursor) HasSelection() bool {
	return !c.Selection().IsEmpty()
}

// SelectedText returns the selected text.
func (c *Cursor) SelectedText() string {
	sel := c.Selection()
	return c.doc().TextRange(sel.Start(), sel.End())
}

// SetPosition moves the caret to offset. MoveAnchor collapses the selection,
// KeepAnchor extends it.
func (c *Cursor) SetPosition(offset ByteOffset, mode MoveMode) {
	sel := c.Selection()
	if mode == KeepAnchor {
		c.SetSelection(sel.Extend(offset))
		return
	}
	c.SetSelection(sel.MoveTo(offset))
}

// Block returns the line holding the caret.
func (c *Cursor) Block() buffer.Block {
	return c.doc().BlockAt(c.Position())
}

// BlockNumber returns the line number holding the caret.
func (c *Cursor) BlockNumber() int {
	return c.doc().LineAt(c.Position())
}

// PositionInBlock returns the caret column in bytes.
func (c *Cursor) PositionInBlock() int {
	return c.doc().OffsetToPoint(c.Position()).Column
}

// AtStart reports whether the caret is at the start of the document.
func (c *Cursor) AtStart() bool {
	return c.Position() == 0
}

// AtEnd reports whether the caret is at the end of the document.
func (c *Cursor) AtEnd() bool {
	return c.Position() == c.doc().Len()
}

// InsertText replaces the selection (or inserts at the caret) and leaves
// the caret collapsed after the inserted text.
func (c *Cursor) InsertText(text string) error {
	sel := c.Selection()
	return c.replace(sel.Start(), sel.End(), text)
}

// RemoveSelectedText deletes the selection, if any.
func (c *Cursor) RemoveSelectedText() error {
	sel := c.Selection()
	if sel.IsEmpty() {
		return nil
	}
	return c.replace(sel.Start(), sel.End(), "")
}

// DeleteChar deletes the selection, or the character after the caret.
func (c *Cursor) DeleteChar() error {
	sel := c.Selection()
	if !sel.IsEmpty() {
		return c.replace(sel.Start(), sel.End(), "")
	}
	_, size := c.doc().RuneAt(sel.Head)
	if size == 0 {
		return nil
	}
	return c.replace(sel.Head, sel.Head+ByteOffset(size), "")
}

// DeletePreviousChar deletes the selection, or the character before the
// caret.
func (c *Cursor) DeletePreviousChar() error {
	sel := c.Selection()
	if !sel.IsEmpty() {
		return c.replace(sel.Start(), sel.End(), "")
	}
	_, size := c.doc().RuneBefore(sel.Head)
	if size == 0 {
		return nil
	}
	return c.replace(sel.Head-ByteOffset(size), sel.Head, "")
}

func (c *Cursor) replace(start, end ByteOffset, text string) error {
	if c.isReleased() {
		return ErrCursorReleased
	}
	ch, err := c.target.ApplyEdit(buffer.Edit{
		Range:   buffer.Range{Start: start, End: end},
		NewText: text,
	})
	if err != nil {
		return err
	}
	c.SetSelection(NewCursorSelection(ch.Offset + ch.Added()))
	return nil
}

// Clone returns a new tracked cursor with the same selection.
func (c *Cursor) Clone() *Cursor {
	return c.tracker.New(c.target, c.Selection())
}

// Release stops tracking the cursor. Further edits through it fail.
func (c *Cursor) Release() {
	c.tracker.release(c)
}

func (c *Cursor) isReleased() bool {
	c.tracker.mu.Lock()
	defer c.tracker.mu.Unlock()
	return c.released
}

func (c *Cursor) doc() *buffer.Document {
	return c.target.Document()
}
