// Package engine provides the editing host the script editor is built on.
//
// The Engine owns one buffer.Document, the undo History of that document
// and a cursor.Tracker that keeps every live Cursor valid across edits.
//
// # Architecture
//
//   - buffer: lines with stable identities, per-line highlight state and
//     format spans, offset/point addressing and change notification
//   - cursor: selections and live cursors with caret motions
//   - history: undo units with the caret selections around them
//
// # Basic Usage
//
//	e := engine.New(engine.WithContent("print('hi')"))
//	c := e.NewCursor(cursor.NewCursorSelection(0))
//	c.InsertText("# ")
//	e.Undo()
//
// # Edit Blocks
//
// An edit block turns any number of edits into one undo unit. Blocks
// nest; only closing the outermost block records the unit:
//
//	e.BeginEditBlock("Indent")
//	for _, c := range carets {
//	    c.InsertText("    ")
//	}
//	e.EndEditBlock()
//
// # Caret Restore
//
// A CaretState installed with SetCaretState is asked for the visible
// selections when an undo unit opens and closes. Undo hands back the
// selections from before the unit, Redo those from after it.
package engine
