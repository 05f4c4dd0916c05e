package ops

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/scriptedit/internal/engine"
	"github.com/dshills/scriptedit/internal/engine/cursor"
)

func selectAll(eng *engine.Engine, o *Ops) {
	o.Carets().Primary().SetSelection(cursor.NewSelection(0, eng.Len()))
}

func TestToggleComment(t *testing.T) {
	lines := []string{"    a = 1", "", "      b", "    c"}
	out, inserted, col := ToggleComment(lines, "# ")
	assert.True(t, inserted)
	assert.Equal(t, 4, col)
	assert.Equal(t, []string{"    # a = 1", "", "    #   b", "    # c"}, out)

	back, inserted, _ := ToggleComment(out, "# ")
	assert.False(t, inserted)
	assert.Equal(t, lines, back)

	mixed := []string{"# a", "b"}
	out, inserted, _ = ToggleComment(mixed, "# ")
	assert.True(t, inserted, "one uncommented line comments all")
	assert.Equal(t, []string{"# # a", "# b"}, out)

	blank := []string{"", "   "}
	out, inserted, _ = ToggleComment(blank, "# ")
	assert.False(t, inserted)
	assert.Equal(t, blank, out)
}

func TestToggleLineComment(t *testing.T) {
	eng, o := newOps(t, "def f():\n    return 1\nx", 0)
	o.Carets().Primary().SetSelection(cursor.NewSelection(2, 15))

	handled(t)(o.ToggleLineComment("# "))
	assert.Equal(t, "# def f():\n#     return 1\nx", eng.Text())
	assert.Equal(t, cursor.NewSelection(4, 19), o.Carets().Primary().Selection())
	assert.Equal(t, 1, eng.UndoCount())

	handled(t)(o.ToggleLineComment("# "))
	assert.Equal(t, "def f():\n    return 1\nx", eng.Text())
	assert.Equal(t, cursor.NewSelection(2, 15), o.Carets().Primary().Selection())
}

func TestToggleLineCommentCaretInsideIndent(t *testing.T) {
	eng, o := newOps(t, "    a", 2)
	handled(t)(o.ToggleLineComment("// "))
	assert.Equal(t, "    // a", eng.Text())
	assert.Equal(t, engine.ByteOffset(2), o.Carets().Primary().Position())

	o.Carets().Primary().SetPosition(6, cursor.MoveAnchor)
	handled(t)(o.ToggleLineComment("// "))
	assert.Equal(t, "    a", eng.Text())
	assert.Equal(t, engine.ByteOffset(4), o.Carets().Primary().Position(), "caret inside the removed prefix")
}

func TestToggleLineCommentSharedLine(t *testing.T) {
	eng, o := newOps(t, "abc\ndef", 0, 2, 5)
	handled(t)(o.ToggleLineComment("# "))
	assert.Equal(t, "# abc\n# def", eng.Text())
	assert.Equal(t, []engine.ByteOffset{2, 4, 9}, heads(o))
}

func TestUnindent(t *testing.T) {
	eng, o := newOps(t, "\tx = 1\n    y\n  z\nab\n      w", 0)
	selectAll(eng, o)

	handled(t)(o.Unindent())
	assert.Equal(t, "x = 1\ny\n  z\nab\n  w", eng.Text())
	assert.Equal(t, 1, eng.UndoCount())
}

func TestUnindentKeepsCaretOnText(t *testing.T) {
	eng, o := newOps(t, "        foo", 10)
	handled(t)(o.Unindent())
	assert.Equal(t, "    foo", eng.Text())
	assert.Equal(t, engine.ByteOffset(6), o.Carets().Primary().Position())
}

func TestDuplicateLines(t *testing.T) {
	eng, o := newOps(t, "a\nb", 1)
	handled(t)(o.DuplicateLines())
	assert.Equal(t, "a\na\nb", eng.Text())
	assert.Equal(t, engine.ByteOffset(1), o.Carets().Primary().Position())

	eng, o = newOps(t, "a\nb\nc", 0)
	o.Carets().Primary().SetSelection(cursor.NewSelection(3, 0))
	handled(t)(o.DuplicateLines())
	assert.Equal(t, "a\nb\na\nb\nc", eng.Text())
	assert.Equal(t, cursor.NewSelection(3, 0), o.Carets().Primary().Selection())
}

func TestDuplicateLinesSharedLine(t *testing.T) {
	eng, o := newOps(t, "abc\nd", 0, 2)
	handled(t)(o.DuplicateLines())
	assert.Equal(t, "abc\nabc\nd", eng.Text(), "one copy per line")
	assert.Equal(t, []engine.ByteOffset{0, 2}, heads(o))
}

func TestDuplicateLinesSeveralGroups(t *testing.T) {
	eng, o := newOps(t, "a\nb\nc", 0, 4)
	handled(t)(o.DuplicateLines())
	assert.Equal(t, "a\na\nb\nc\nc", eng.Text())
	assert.Equal(t, []engine.ByteOffset{0, 6}, heads(o))
	assert.Equal(t, 1, eng.UndoCount())
}

func TestMoveLines(t *testing.T) {
	eng, o := newOps(t, "one\ntwo\nthree", 5)
	handled(t)(o.MoveLines(Up))
	assert.Equal(t, "two\none\nthree", eng.Text())
	assert.Equal(t, engine.ByteOffset(1), o.Carets().Primary().Position())

	handled(t)(o.MoveLines(Down))
	handled(t)(o.MoveLines(Down))
	assert.Equal(t, "one\nthree\ntwo", eng.Text())
	assert.Equal(t, engine.ByteOffset(11), o.Carets().Primary().Position())
}

func TestMoveLinesBoundary(t *testing.T) {
	eng, o := newOps(t, "one\ntwo", 1)
	r, err := o.MoveLines(Up)
	require.NoError(t, err)
	assert.Equal(t, NotHandled, r)
	assert.Equal(t, "one\ntwo", eng.Text())
	assert.Equal(t, 0, eng.UndoCount())

	o.Carets().Primary().SetPosition(5, cursor.MoveAnchor)
	r, err = o.MoveLines(Down)
	require.NoError(t, err)
	assert.Equal(t, NotHandled, r)

	eng, o = newOps(t, "a\nb\nc", 0, 4)
	r, _ = o.MoveLines(Up)
	assert.Equal(t, NotHandled, r, "one blocked group blocks all")
	assert.Equal(t, "a\nb\nc", eng.Text())
}

func TestMoveLinesAdjacentCarets(t *testing.T) {
	eng, o := newOps(t, "a\nb\nc\nd", 2, 4)
	handled(t)(o.MoveLines(Down))
	assert.Equal(t, "a\nd\nb\nc", eng.Text())
	assert.Equal(t, []engine.ByteOffset{4, 6}, heads(o))

	handled(t)(o.MoveLines(Up))
	assert.Equal(t, "a\nb\nc\nd", eng.Text())
	assert.Equal(t, []engine.ByteOffset{2, 4}, heads(o))
}

func TestMoveLinesKeepsSelectionShape(t *testing.T) {
	eng, o := newOps(t, "ab\ncd\nef", 0)
	o.Carets().Primary().SetSelection(cursor.NewSelection(4, 1))

	handled(t)(o.MoveLines(Down))
	assert.Equal(t, "ef\nab\ncd", eng.Text())
	assert.Equal(t, cursor.NewSelection(7, 4), o.Carets().Primary().Selection())
	assert.Equal(t, "b\nc", o.SelectedTexts()[0])
}
