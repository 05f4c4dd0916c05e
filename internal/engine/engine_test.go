package engine

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/dshills/scriptedit/internal/engine/buffer"
	"github.com/dshills/scriptedit/internal/engine/cursor"
)

// carets is a CaretState over a fixed list of live cursors.
type carets struct {
	e    *Engine
	list []*cursor.Cursor
}

func (c *carets) Selections() []Selection {
	out := make([]Selection, len(c.list))
	for i, cur := range c.list {
		out[i] = cur.Selection()
	}
	return out
}

func (c *carets) RestoreSelections(sels []Selection) {
	for _, cur := range c.list {
		cur.Release()
	}
	c.list = c.list[:0]
	for _, s := range sels {
		c.list = append(c.list, c.e.NewCursor(s))
	}
}

// ============================================================================
// Basic Operations
// ============================================================================

func TestNew(t *testing.T) {
	e := New()
	if e.Len() != 0 {
		t.Errorf("expected empty engine, got len %d", e.Len())
	}
	if e.LineCount() != 1 {
		t.Errorf("expected one line, got %d", e.LineCount())
	}
}

func TestNewWithContent(t *testing.T) {
	content := "Hello, World!"
	e := New(WithContent(content))

	if e.Text() != content {
		t.Errorf("expected %q, got %q", content, e.Text())
	}
	if e.Len() != ByteOffset(len(content)) {
		t.Errorf("expected len %d, got %d", len(content), e.Len())
	}
}

func TestNewFromReaderKeepsLineEnding(t *testing.T) {
	e, err := NewFromReader(strings.NewReader("a\r\nb"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if e.Text() != "a\nb" {
		t.Errorf("expected normalized text, got %q", e.Text())
	}
	if e.LineEnding() != buffer.LineEndingCRLF {
		t.Errorf("expected CRLF, got %s", e.LineEnding())
	}

	var out bytes.Buffer
	if _, err := e.WriteTo(&out); err != nil {
		t.Fatal(err)
	}
	if out.String() != "a\r\nb" {
		t.Errorf("WriteTo = %q", out.String())
	}
}

func TestInsertDeleteReplace(t *testing.T) {
	e := New()

	end, err := e.Insert(0, "Hello")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if end != 5 {
		t.Errorf("expected end 5, got %d", end)
	}

	if _, err := e.Replace(0, 1, "J"); err != nil {
		t.Fatal(err)
	}
	if err := e.Delete(4, 5); err != nil {
		t.Fatal(err)
	}
	if e.Text() != "Jell" {
		t.Errorf("expected %q, got %q", "Jell", e.Text())
	}
	if e.UndoCount() != 3 {
		t.Errorf("expected 3 undo units, got %d", e.UndoCount())
	}
}

func TestApplyEditErrors(t *testing.T) {
	e := New(WithContent("abc"))

	if _, err := e.Insert(10, "x"); !errors.Is(err, ErrOffsetOutOfRange) {
		t.Errorf("expected ErrOffsetOutOfRange, got %v", err)
	}
	if e.CanUndo() {
		t.Error("failed edit must not be recorded")
	}
}

func TestReadOnly(t *testing.T) {
	e := New(WithContent("abc"), WithReadOnly())

	if _, err := e.Insert(0, "x"); !errors.Is(err, ErrReadOnly) {
		t.Errorf("expected ErrReadOnly, got %v", err)
	}
	if err := e.SetContent("x"); !errors.Is(err, ErrReadOnly) {
		t.Errorf("expected ErrReadOnly, got %v", err)
	}
}

// ============================================================================
// Undo/Redo
// ============================================================================

func TestUndoRedo(t *testing.T) {
	e := New(WithContent("abc"))
	if _, err := e.Insert(3, "def"); err != nil {
		t.Fatal(err)
	}

	if err := e.Undo(); err != nil {
		t.Fatal(err)
	}
	if e.Text() != "abc" {
		t.Errorf("after undo: %q", e.Text())
	}
	if err := e.Undo(); !errors.Is(err, ErrNothingToUndo) {
		t.Errorf("expected ErrNothingToUndo, got %v", err)
	}

	if err := e.Redo(); err != nil {
		t.Fatal(err)
	}
	if e.Text() != "abcdef" {
		t.Errorf("after redo: %q", e.Text())
	}
	if err := e.Redo(); !errors.Is(err, ErrNothingToRedo) {
		t.Errorf("expected ErrNothingToRedo, got %v", err)
	}
}

func TestNestedEditBlocks(t *testing.T) {
	e := New(WithContent("x"))

	e.BeginEditBlock("outer")
	_, _ = e.Insert(0, "a")
	e.BeginEditBlock("inner")
	_, _ = e.Insert(0, "b")
	e.EndEditBlock()
	_, _ = e.Insert(0, "c")
	e.EndEditBlock()

	if e.UndoCount() != 1 {
		t.Fatalf("expected one undo unit, got %d", e.UndoCount())
	}
	if err := e.Undo(); err != nil {
		t.Fatal(err)
	}
	if e.Text() != "x" {
		t.Errorf("after undo: %q", e.Text())
	}
}

func TestEditBlockClosesOnError(t *testing.T) {
	e := New(WithContent("x"))
	boom := errors.New("boom")

	err := e.EditBlock("fails", func() error {
		_, _ = e.Insert(0, "a")
		return boom
	})
	if !errors.Is(err, boom) {
		t.Errorf("expected boom, got %v", err)
	}
	if e.History().IsGrouping() {
		t.Error("block left open")
	}
	if e.UndoCount() != 1 {
		t.Errorf("expected partial edit to be undoable, got %d units", e.UndoCount())
	}
}

func TestMultiCaretInsertIsOneUndoStep(t *testing.T) {
	e := New(WithContent("one\ntwo\nthree"))
	cs := &carets{e: e}
	for _, off := range []ByteOffset{0, 4, 8} {
		cs.list = append(cs.list, e.NewCursor(cursor.NewCursorSelection(off)))
	}
	e.SetCaretState(cs)

	e.BeginEditBlock("Type")
	for _, c := range cs.list {
		if err := c.InsertText("x"); err != nil {
			t.Fatal(err)
		}
	}
	e.EndEditBlock()

	if e.Text() != "xone\nxtwo\nxthree" {
		t.Fatalf("unexpected text %q", e.Text())
	}

	if err := e.Undo(); err != nil {
		t.Fatal(err)
	}
	if e.Text() != "one\ntwo\nthree" {
		t.Errorf("after undo: %q", e.Text())
	}
	got := cs.Selections()
	want := []ByteOffset{0, 4, 8}
	if len(got) != len(want) {
		t.Fatalf("expected %d carets, got %d", len(want), len(got))
	}
	for i, w := range want {
		if got[i].Head != w || !got[i].IsEmpty() {
			t.Errorf("caret %d = %v, want %d", i, got[i], w)
		}
	}

	if err := e.Redo(); err != nil {
		t.Fatal(err)
	}
	got = cs.Selections()
	for i, w := range []ByteOffset{1, 6, 11} {
		if got[i].Head != w {
			t.Errorf("after redo caret %d = %v, want %d", i, got[i], w)
		}
	}
}

func TestSetContentClearsHistory(t *testing.T) {
	e := New(WithContent("a"))
	_, _ = e.Insert(1, "b")

	if err := e.SetContent("new"); err != nil {
		t.Fatal(err)
	}
	if e.Text() != "new" || e.CanUndo() {
		t.Errorf("text=%q canUndo=%v", e.Text(), e.CanUndo())
	}
}

// ============================================================================
// Cursors
// ============================================================================

func TestCursorsWriteThroughEngine(t *testing.T) {
	e := New(WithContent("abc"))
	defer e.Close()

	c := e.NewCursor(cursor.NewSelection(0, 3))
	if e.CursorCount() != 1 {
		t.Errorf("expected 1 cursor, got %d", e.CursorCount())
	}
	if err := c.InsertText("xyz"); err != nil {
		t.Fatal(err)
	}
	if !e.CanUndo() {
		t.Error("cursor edit not recorded")
	}

	e.ReleaseCursor(c)
	if e.CursorCount() != 0 {
		t.Errorf("expected 0 cursors, got %d", e.CursorCount())
	}
	if err := c.InsertText("q"); !errors.Is(err, ErrCursorReleased) {
		t.Errorf("expected ErrCursorReleased, got %v", err)
	}
}
