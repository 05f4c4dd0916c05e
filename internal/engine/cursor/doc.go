// Package cursor provides selections and live carets for text editing.
//
// Selection Model:
//
// Selections use an anchor/head model where:
//   - Anchor: the position where the selection started
//   - Head: the caret position, where typing occurs
//
// When Anchor == Head the selection is a bare caret. A selection whose head
// sits on its lower bound is "reversed"; Span and FromSpan split and rebuild
// a selection so that its orientation survives programmatic replacement.
//
// Live Cursors:
//
// A Cursor is bound to a Target (the document plus an undo-recording edit
// entry point) and registered with a Tracker. The Tracker listens to the
// document and maps every cursor across each change, so a cursor created
// before a sequence of edits still points at the same logical place after
// them:
//
//	tr := cursor.NewTracker(doc)
//	c := tr.New(target, cursor.NewCursorSelection(10))
//	c.InsertText("x")
//	c.MovePosition(cursor.NextWord, cursor.KeepAnchor, 1)
//
// Offsets at an insertion point move past the inserted text; offsets
// inside a removed range collapse to its start.
package cursor
