package ops

import (
	"strings"

	"github.com/dshills/scriptedit/internal/engine/buffer"
	"github.com/dshills/scriptedit/internal/engine/cursor"
	"github.com/dshills/scriptedit/internal/log"
)

// smartHome returns where Home takes a caret at byte column col of line:
// the line start when only blanks precede the caret, the first non-blank
// character of an indented line, and the line start otherwise. ok is false
// at column 0.
func smartHome(line string, col int) (target int, ok bool) {
	if col == 0 {
		return 0, false
	}
	if strings.TrimLeft(line[:col], " \t") == "" {
		return 0, true
	}
	return indentOf(line), true
}

// Home applies the smart Home motion at every caret. With KeepAnchor the
// selections are extended.
func (o *Ops) Home(mode cursor.MoveMode) Result {
	doc := o.doc()
	_ = o.carets.Each(func(_ int, c *cursor.Cursor) error {
		p := doc.OffsetToPoint(c.Position())
		col, ok := smartHome(doc.LineText(p.Line), p.Column)
		if ok {
			c.SetPosition(doc.PointToOffset(buffer.Point{Line: p.Line, Column: col}), mode)
		}
		return nil
	})
	o.carets.Merge()
	return Handled
}

// Move applies op at every caret. Carets that cannot move stay where they
// are. StartOfLine uses the smart Home motion.
func (o *Ops) Move(op cursor.MoveOperation, mode cursor.MoveMode) Result {
	if op == cursor.StartOfLine || op == cursor.StartOfBlock {
		return o.Home(mode)
	}
	_ = o.carets.Each(func(_ int, c *cursor.Cursor) error {
		c.MovePosition(op, mode, 1)
		return nil
	})
	o.carets.Merge()
	log.Debug(log.CatOps, "move", "op", op.String(), "carets", o.carets.Len())
	return Handled
}

// ExtendSelections extends every caret's selection by op.
func (o *Ops) ExtendSelections(op cursor.MoveOperation) Result {
	return o.Move(op, cursor.KeepAnchor)
}

// SelectedTexts returns the selected text of every caret, the primary one
// last.
func (o *Ops) SelectedTexts() []string {
	var out []string
	_ = o.carets.Each(func(_ int, c *cursor.Cursor) error {
		out = append(out, c.SelectedText())
		return nil
	})
	return out
}

// Undo reverts the last undo unit; the carets come back with it.
func (o *Ops) Undo() (Result, error) {
	if !o.eng.CanUndo() {
		return NotHandled, nil
	}
	if err := o.eng.Undo(); err != nil {
		return NotHandled, err
	}
	return Handled, nil
}

// Redo re-applies the last undone unit.
func (o *Ops) Redo() (Result, error) {
	if !o.eng.CanRedo() {
		return NotHandled, nil
	}
	if err := o.eng.Redo(); err != nil {
		return NotHandled, err
	}
	return Handled, nil
}
