package ops

import (
	"strings"

	"github.com/dshills/scriptedit/internal/engine/buffer"
	"github.com/dshills/scriptedit/internal/engine/cursor"
)

// Pairs are the opening and closing characters removed together by
// backspace and inserted together by Embrace.
var Pairs = [][2]byte{
	{'(', ')'},
	{'[', ']'},
	{'{', '}'},
	{'\'', '\''},
	{'"', '"'},
	{'`', '`'},
}

// CloserOf returns the closing character paired with open.
func CloserOf(open byte) (byte, bool) {
	for _, p := range Pairs {
		if p[0] == open {
			return p[1], true
		}
	}
	return 0, false
}

func isQuote(b byte) bool {
	return b == '"' || b == '\'' || b == '`'
}

func isCloser(b byte) bool {
	for _, p := range Pairs {
		if p[1] == b {
			return true
		}
	}
	return false
}

// InsertText replaces every caret's selection with text, or inserts text
// at the caret.
func (o *Ops) InsertText(text string) (Result, error) {
	if text == "" {
		return NotHandled, nil
	}
	err := o.exec("insert", func(c *cursor.Cursor) error {
		return c.InsertText(text)
	})
	return Handled, err
}

// Paste inserts text at every caret as one undo unit.
func (o *Ops) Paste(text string) (Result, error) {
	if text == "" {
		return NotHandled, nil
	}
	err := o.exec("paste", func(c *cursor.Cursor) error {
		return c.InsertText(text)
	})
	return Handled, err
}

// DeleteForward deletes every selection, or the character after each
// caret.
func (o *Ops) DeleteForward() (Result, error) {
	err := o.exec("delete", func(c *cursor.Cursor) error {
		return c.DeleteChar()
	})
	return Handled, err
}

// DeleteBackward deletes before every caret. A caret sitting on an indent
// boundary after a full indent of spaces removes the whole indent, and a
// caret between a bracket or quote and its closer removes both.
// Otherwise one character, or the selection, is deleted.
func (o *Ops) DeleteBackward() (Result, error) {
	err := o.exec("backspace", func(c *cursor.Cursor) error {
		if c.HasSelection() {
			return c.RemoveSelectedText()
		}
		if start, ok := o.indentRun(c); ok {
			return o.replaceAt(c, start, c.Position(), "")
		}
		if o.betweenPair(c) {
			pos := c.Position()
			return o.replaceAt(c, pos-1, pos+1, "")
		}
		return c.DeletePreviousChar()
	})
	return Handled, err
}

// indentRun reports whether the caret ends a full indent unit of spaces on
// an indent boundary, and where that unit starts.
func (o *Ops) indentRun(c *cursor.Cursor) (buffer.ByteOffset, bool) {
	line, col := o.lineContext(c)
	w := o.indent
	if col < w || col%w != 0 {
		return 0, false
	}
	if line[col-w:col] != strings.Repeat(" ", w) {
		return 0, false
	}
	return c.Position() - buffer.ByteOffset(w), true
}

func (o *Ops) betweenPair(c *cursor.Cursor) bool {
	line, col := o.lineContext(c)
	if col == 0 || col >= len(line) {
		return false
	}
	for _, p := range Pairs {
		if line[col-1] == p[0] && line[col] == p[1] {
			return true
		}
	}
	return false
}

// replaceAt replaces [start, end) through the caret, leaving it after the
// new text.
func (o *Ops) replaceAt(c *cursor.Cursor, start, end buffer.ByteOffset, text string) error {
	c.SetSelection(cursor.NewSelection(start, end))
	return c.InsertText(text)
}

// nextIs reports whether the text right of the caret starts with s.
func (o *Ops) nextIs(c *cursor.Cursor, s string) bool {
	line, col := o.lineContext(c)
	return strings.HasPrefix(line[col:], s)
}

// IgnoreIfNext types ch through: a caret followed by ch steps over it,
// any other caret inserts ch.
func (o *Ops) IgnoreIfNext(ch string) (Result, error) {
	if ch == "" {
		return NotHandled, nil
	}
	err := o.exec("type-through", func(c *cursor.Cursor) error {
		if !c.HasSelection() && o.nextIs(c, ch) {
			c.SetPosition(c.Position()+buffer.ByteOffset(len(ch)), cursor.MoveAnchor)
			return nil
		}
		return c.InsertText(ch)
	})
	return Handled, err
}

// Embrace wraps every non-empty selection in open and closer and selects
// the wrapped text again, keeping the selection's orientation.
//
// At a collapsed caret:
//   - if open is the next character the caret steps over it;
//   - after two identical quotes, or before a character that is not
//     blank, a closer or a quote, only open is inserted;
//   - otherwise open and closer are inserted and the caret is put between
//     them.
func (o *Ops) Embrace(open, closer byte) (Result, error) {
	err := o.exec("embrace", func(c *cursor.Cursor) error {
		sel := c.Selection()
		if !sel.IsEmpty() {
			start, end, reversed := sel.Span()
			text := c.SelectedText()
			if err := c.InsertText(string(open) + text + string(closer)); err != nil {
				return err
			}
			c.SetSelection(cursor.FromSpan(start+1, end+1, reversed))
			return nil
		}

		line, col := o.lineContext(c)
		if col < len(line) && line[col] == open {
			c.SetPosition(c.Position()+1, cursor.MoveAnchor)
			return nil
		}
		if isQuote(open) && col >= 2 && line[col-2] == open && line[col-1] == open {
			return c.InsertText(string(open))
		}
		if col < len(line) {
			next := line[col]
			if next != ' ' && next != '\t' && !isCloser(next) && !isQuote(next) {
				return c.InsertText(string(open))
			}
		}
		if err := c.InsertText(string(open) + string(closer)); err != nil {
			return err
		}
		c.SetPosition(c.Position()-1, cursor.MoveAnchor)
		return nil
	})
	return Handled, err
}
