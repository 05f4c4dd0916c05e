package engine

import (
	"fmt"
	"io"
	"sync"

	"github.com/dshills/scriptedit/internal/engine/buffer"
	"github.com/dshills/scriptedit/internal/engine/cursor"
	"github.com/dshills/scriptedit/internal/engine/history"
	"github.com/dshills/scriptedit/internal/log"
)

// Re-export commonly used types for convenience.
type (
	// ByteOffset is a byte position in the document.
	ByteOffset = buffer.ByteOffset

	// Point represents a line/column position.
	Point = buffer.Point

	// Range represents a byte range in the document.
	Range = buffer.Range

	// Edit represents an edit operation.
	Edit = buffer.Edit

	// Change describes an applied edit.
	Change = buffer.Change

	// Selection represents a cursor selection.
	Selection = cursor.Selection

	// LineEnding specifies the line ending style.
	LineEnding = buffer.LineEnding
)

// CaretState is implemented by whoever owns the visible carets. The engine
// asks it for the selections around every undo unit and hands them back
// on Undo and Redo.
type CaretState interface {
	Selections() []Selection
	RestoreSelections(sels []Selection)
}

// Engine is the editing host: one Document, its undo History and the
// Tracker that keeps every live cursor valid. It implements cursor.Target,
// so edits made through its cursors are recorded for undo.
type Engine struct {
	mu sync.Mutex

	doc     *buffer.Document
	history *history.History
	tracker *cursor.Tracker
	carets  CaretState

	// Configuration
	lineEnding     buffer.LineEnding
	maxUndoEntries int
	readOnly       bool

	// Initialization
	initContent string
}

// New creates a new Engine with the given options.
func New(opts ...Option) *Engine {
	e := newEngine(opts)
	e.attach(buffer.NewDocumentFromString(e.initContent, buffer.WithLineEnding(e.lineEnding)))
	return e
}

// NewFromReader creates an Engine from an io.Reader. The line ending is
// detected from the content.
func NewFromReader(r io.Reader, opts ...Option) (*Engine, error) {
	e := newEngine(opts)
	doc, err := buffer.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("read document: %w", err)
	}
	e.lineEnding = doc.LineEnding()
	e.attach(doc)
	return e, nil
}

func newEngine(opts []Option) *Engine {
	e := &Engine{
		lineEnding:     buffer.LineEndingLF,
		maxUndoEntries: DefaultMaxUndoEntries,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

func (e *Engine) attach(doc *buffer.Document) {
	e.doc = doc
	e.history = history.NewHistory(e.maxUndoEntries)
	e.tracker = cursor.NewTracker(doc)
}

// Close stops cursor tracking. Cursors created by the engine are released.
func (e *Engine) Close() {
	e.tracker.Close()
}

// Document returns the edited document.
func (e *Engine) Document() *buffer.Document {
	return e.doc
}

// History returns the undo history.
func (e *Engine) History() *history.History {
	return e.history
}

// SetCaretState installs the provider used to capture and restore carets
// around undo units. nil disables caret restore.
func (e *Engine) SetCaretState(cs CaretState) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.carets = cs
}

func (e *Engine) selections() []Selection {
	e.mu.Lock()
	cs := e.carets
	e.mu.Unlock()
	if cs == nil {
		return nil
	}
	return cs.Selections()
}

func (e *Engine) restore(sels []Selection) {
	e.mu.Lock()
	cs := e.carets
	e.mu.Unlock()
	if cs == nil || sels == nil {
		return
	}
	cs.RestoreSelections(sels)
}

// ============================================================================
// Read Operations
// ============================================================================

// Text returns the full document content.
func (e *Engine) Text() string {
	return e.doc.Text()
}

// TextRange returns the text in [start, end).
func (e *Engine) TextRange(start, end ByteOffset) string {
	return e.doc.TextRange(start, end)
}

// Len returns the document length in bytes.
func (e *Engine) Len() ByteOffset {
	return e.doc.Len()
}

// LineCount returns the number of lines.
func (e *Engine) LineCount() int {
	return e.doc.LineCount()
}

// LineText returns the text of line n without its line break.
func (e *Engine) LineText(n int) string {
	return e.doc.LineText(n)
}

// ============================================================================
// Write Operations
// ============================================================================

// ApplyEdit applies an edit and records it for undo. Outside an edit block
// the edit is its own undo unit.
func (e *Engine) ApplyEdit(edit Edit) (Change, error) {
	if e.IsReadOnly() {
		return Change{}, ErrReadOnly
	}

	grouping := e.history.IsGrouping()
	var before []Selection
	if !grouping {
		before = e.selections()
	}

	ch, err := e.doc.ApplyEdit(edit)
	if err != nil {
		return ch, fmt.Errorf("apply %s: %w", edit, err)
	}

	var after []Selection
	if !grouping {
		after = e.selections()
	}
	e.history.Record(history.FromChange(ch), before, after)
	return ch, nil
}

// Insert inserts text at offset and returns the offset just past it.
func (e *Engine) Insert(offset ByteOffset, text string) (ByteOffset, error) {
	ch, err := e.ApplyEdit(buffer.NewInsert(offset, text))
	if err != nil {
		return offset, err
	}
	return ch.Offset + ch.Added(), nil
}

// Delete removes the text in [start, end).
func (e *Engine) Delete(start, end ByteOffset) error {
	_, err := e.ApplyEdit(buffer.NewDelete(start, end))
	return err
}

// Replace replaces [start, end) with text and returns the offset just past
// the inserted text.
func (e *Engine) Replace(start, end ByteOffset, text string) (ByteOffset, error) {
	ch, err := e.ApplyEdit(Edit{Range: Range{Start: start, End: end}, NewText: text})
	if err != nil {
		return start, err
	}
	return ch.Offset + ch.Added(), nil
}

// SetContent replaces the whole document and clears the undo history.
func (e *Engine) SetContent(content string) error {
	if e.IsReadOnly() {
		return ErrReadOnly
	}
	if err := e.doc.SetText(content); err != nil {
		return err
	}
	e.history.Clear()
	return nil
}

// ============================================================================
// Edit Blocks and Undo/Redo
// ============================================================================

// BeginEditBlock opens an undo unit. Blocks nest; the outermost block
// captures the carets and closing it pushes one unit.
func (e *Engine) BeginEditBlock(name string) {
	var before []Selection
	if !e.history.IsGrouping() {
		before = e.selections()
	}
	e.history.BeginGroup(name, before)
}

// EndEditBlock closes the innermost edit block.
func (e *Engine) EndEditBlock() {
	var after []Selection
	if e.history.Depth() == 1 {
		after = e.selections()
	}
	if e.history.EndGroup(after) {
		log.Debug(log.CatOps, "undo unit recorded", "undo", e.history.UndoCount())
	}
}

// EditBlock runs fn inside an edit block. The block is closed even when fn
// fails; edits made before the failure stay undoable as one unit.
func (e *Engine) EditBlock(name string, fn func() error) error {
	e.BeginEditBlock(name)
	defer e.EndEditBlock()
	return fn()
}

// Undo reverts the last undo unit and restores the carets recorded before
// it.
func (e *Engine) Undo() error {
	if e.IsReadOnly() {
		return ErrReadOnly
	}
	entry, err := e.history.Undo(e.doc)
	if err != nil {
		return err
	}
	e.restore(entry.Before)
	return nil
}

// Redo re-applies the last undone unit and restores the carets recorded
// after it.
func (e *Engine) Redo() error {
	if e.IsReadOnly() {
		return ErrReadOnly
	}
	entry, err := e.history.Redo(e.doc)
	if err != nil {
		return err
	}
	e.restore(entry.After)
	return nil
}

// CanUndo returns true if undo is available.
func (e *Engine) CanUndo() bool {
	return e.history.CanUndo()
}

// CanRedo returns true if redo is available.
func (e *Engine) CanRedo() bool {
	return e.history.CanRedo()
}

// UndoCount returns the number of undo units.
func (e *Engine) UndoCount() int {
	return e.history.UndoCount()
}

// RedoCount returns the number of redo units.
func (e *Engine) RedoCount() int {
	return e.history.RedoCount()
}

// ClearHistory drops all undo/redo state.
func (e *Engine) ClearHistory() {
	e.history.Clear()
}

// ============================================================================
// Cursors
// ============================================================================

// NewCursor creates a live cursor writing through the engine.
func (e *Engine) NewCursor(sel Selection) *cursor.Cursor {
	return e.tracker.New(e, sel)
}

// ReleaseCursor stops tracking c.
func (e *Engine) ReleaseCursor(c *cursor.Cursor) {
	if c != nil {
		c.Release()
	}
}

// CursorCount returns the number of live cursors.
func (e *Engine) CursorCount() int {
	return e.tracker.Count()
}

// ============================================================================
// Configuration
// ============================================================================

// LineEnding returns the line ending used when saving.
func (e *Engine) LineEnding() LineEnding {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.lineEnding
}

// IsReadOnly returns true if the engine rejects edits.
func (e *Engine) IsReadOnly() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.readOnly
}

// WriteTo writes the document with the engine's line ending.
func (e *Engine) WriteTo(w io.Writer) (int64, error) {
	n, err := io.WriteString(w, e.doc.TextWithLineEnding())
	return int64(n), err
}
