package ops

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/scriptedit/internal/editor/multicaret"
	"github.com/dshills/scriptedit/internal/engine"
	"github.com/dshills/scriptedit/internal/engine/cursor"
)

// newOps builds a document with one caret per offset, the last one
// primary.
func newOps(t testing.TB, content string, offsets ...engine.ByteOffset) (*engine.Engine, *Ops) {
	t.Helper()
	eng := engine.New(engine.WithContent(content))
	if len(offsets) == 0 {
		offsets = []engine.ByteOffset{0}
	}
	m := multicaret.New(eng, offsets[0])
	for _, off := range offsets[1:] {
		m.AddAt(off)
	}
	t.Cleanup(func() {
		m.Close()
		eng.Close()
	})
	return eng, New(m)
}

func heads(o *Ops) []engine.ByteOffset {
	var out []engine.ByteOffset
	for _, s := range o.Carets().Selections() {
		out = append(out, s.Head)
	}
	return out
}

// handled asserts that an operation succeeded and was handled:
//
//	handled(t)(o.InsertText("x"))
func handled(t *testing.T) func(Result, error) {
	t.Helper()
	return func(r Result, err error) {
		t.Helper()
		require.NoError(t, err)
		require.Equal(t, Handled, r)
	}
}

func TestInsertTextIsOneUndoStep(t *testing.T) {
	eng, o := newOps(t, "a\nb\nc", 1, 3, 5)

	handled(t)(o.InsertText("x"))
	assert.Equal(t, "ax\nbx\ncx", eng.Text())
	assert.Equal(t, []engine.ByteOffset{2, 5, 8}, heads(o))
	assert.Equal(t, 1, eng.UndoCount())

	handled(t)(o.Undo())
	assert.Equal(t, "a\nb\nc", eng.Text())
	assert.Equal(t, []engine.ByteOffset{1, 3, 5}, heads(o))

	handled(t)(o.Redo())
	assert.Equal(t, "ax\nbx\ncx", eng.Text())
	assert.Equal(t, []engine.ByteOffset{2, 5, 8}, heads(o))
}

func TestInsertReplacesSelections(t *testing.T) {
	eng, o := newOps(t, "foo bar", 0)
	o.Carets().Primary().SetSelection(cursor.NewSelection(0, 3))
	o.Carets().Add(cursor.NewSelection(7, 4))

	handled(t)(o.InsertText("x"))
	assert.Equal(t, "x x", eng.Text())
}

func TestTypeThrough(t *testing.T) {
	eng, o := newOps(t, "f()", 2)

	handled(t)(o.IgnoreIfNext(")"))
	assert.Equal(t, "f()", eng.Text())
	assert.Equal(t, engine.ByteOffset(3), o.Carets().Primary().Position())
	assert.Equal(t, 0, eng.UndoCount())

	handled(t)(o.IgnoreIfNext(")"))
	assert.Equal(t, "f())", eng.Text())
}

func TestDeleteBackward(t *testing.T) {
	tests := []struct {
		name    string
		content string
		offset  engine.ByteOffset
		want    string
		wantPos engine.ByteOffset
	}{
		{"pair", "()", 1, "", 0},
		{"quotes", `x = ""`, 5, "x = ", 4},
		{"mismatched pair", "(]", 1, "]", 0},
		{"indent unit", "        x", 8, "    x", 4},
		{"off boundary", "       x", 7, "      x", 6},
		{"not all spaces", "  a x", 4, "  ax", 3},
		{"plain", "abc", 2, "ac", 1},
		{"document start", "abc", 0, "abc", 0},
		{"joins lines", "a\nb", 2, "ab", 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			eng, o := newOps(t, tt.content, tt.offset)
			handled(t)(o.DeleteBackward())
			assert.Equal(t, tt.want, eng.Text())
			assert.Equal(t, tt.wantPos, o.Carets().Primary().Position())
		})
	}
}

func TestDeleteBackwardIndentWidth(t *testing.T) {
	eng, o := newOps(t, "    x", 4)
	o.SetIndentWidth(2)
	handled(t)(o.DeleteBackward())
	assert.Equal(t, "  x", eng.Text())
}

func TestDeleteBackwardMergesCarets(t *testing.T) {
	eng, o := newOps(t, "ab", 1, 2)
	handled(t)(o.DeleteBackward())
	assert.Equal(t, "", eng.Text())
	assert.Equal(t, 1, o.Carets().Len())
}

func TestDeleteForward(t *testing.T) {
	eng, o := newOps(t, "abc\ndef", 0, 4)
	handled(t)(o.DeleteForward())
	assert.Equal(t, "bc\nef", eng.Text())
	assert.Equal(t, 1, eng.UndoCount())
}

func TestEmbraceSelection(t *testing.T) {
	eng, o := newOps(t, "abc def", 0)
	o.Carets().Primary().SetSelection(cursor.NewSelection(0, 3))
	o.Carets().Add(cursor.NewSelection(7, 4))

	handled(t)(o.Embrace('(', ')'))
	assert.Equal(t, "(abc) (def)", eng.Text())
	sels := o.Carets().Selections()
	assert.Equal(t, cursor.NewSelection(1, 4), sels[0])
	assert.Equal(t, cursor.NewSelection(10, 7), sels[1], "orientation kept")
}

func TestEmbraceCollapsed(t *testing.T) {
	tests := []struct {
		name    string
		content string
		offset  engine.ByteOffset
		open    byte
		want    string
		wantPos engine.ByteOffset
	}{
		{"end of line", "x = ", 4, '(', "x = ()", 5},
		{"before blank", "f x", 1, '[', "f[] x", 2},
		{"before closer", "(x)", 2, '{', "(x{})", 3},
		{"before word", "foo", 0, '(', "(foo", 1},
		{"type through", `""`, 1, '"', `""`, 2},
		{"third quote", `x = ''`, 6, '\'', `x = '''`, 7},
		{"quote pair", "x = ", 4, '"', `x = ""`, 5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			eng, o := newOps(t, tt.content, tt.offset)
			closer, ok := CloserOf(tt.open)
			require.True(t, ok)
			handled(t)(o.Embrace(tt.open, closer))
			assert.Equal(t, tt.want, eng.Text())
			assert.Equal(t, tt.wantPos, o.Carets().Primary().Position())
		})
	}
}

func TestHome(t *testing.T) {
	_, o := newOps(t, "    foo\nbar", 7)
	p := o.Carets().Primary()

	o.Home(cursor.MoveAnchor)
	assert.Equal(t, engine.ByteOffset(4), p.Position())
	o.Home(cursor.MoveAnchor)
	assert.Equal(t, engine.ByteOffset(0), p.Position())
	o.Home(cursor.MoveAnchor)
	assert.Equal(t, engine.ByteOffset(0), p.Position())

	p.SetPosition(10, cursor.MoveAnchor)
	o.Home(cursor.MoveAnchor)
	assert.Equal(t, engine.ByteOffset(8), p.Position(), "unindented line")

	p.SetPosition(7, cursor.MoveAnchor)
	o.ExtendSelections(cursor.StartOfLine)
	assert.Equal(t, cursor.NewSelection(7, 4), p.Selection())
}

func TestExtendSelections(t *testing.T) {
	_, o := newOps(t, "ab cd\nef gh", 0, 6)

	o.ExtendSelections(cursor.NextCharacter)
	assert.Equal(t, []string{"a", "e"}, o.SelectedTexts())

	o.ExtendSelections(cursor.NextWord)
	assert.Equal(t, []string{"ab ", "ef "}, o.SelectedTexts())

	o.Move(cursor.EndOfLine, cursor.MoveAnchor)
	assert.Equal(t, []engine.ByteOffset{5, 11}, heads(o))
}
