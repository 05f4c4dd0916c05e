package ops

import (
	"strings"
	"testing"

	"pgregory.net/rapid"

	"github.com/dshills/scriptedit/internal/editor/multicaret"
	"github.com/dshills/scriptedit/internal/engine"
	"github.com/dshills/scriptedit/internal/engine/cursor"
)

func blockGen() *rapid.Generator[[]string] {
	return rapid.Custom(func(t *rapid.T) []string {
		indent := rapid.IntRange(0, 8).Draw(t, "indent")
		n := rapid.IntRange(1, 8).Draw(t, "lines")
		lines := make([]string, n)
		for i := range lines {
			if rapid.IntRange(0, 5).Draw(t, "blank") == 0 {
				continue
			}
			extra := rapid.IntRange(0, 4).Draw(t, "extra")
			word := rapid.StringMatching(`[a-z][a-z0-9_ ()=#]{0,10}`).Draw(t, "word")
			lines[i] = strings.Repeat(" ", indent+extra) + word
		}
		return lines
	})
}

func TestToggleCommentRoundTrip(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		lines := blockGen().Draw(t, "block")
		prefix := rapid.SampledFrom([]string{"# ", "// "}).Draw(t, "prefix")

		once, _, _ := ToggleComment(lines, prefix)
		twice, _, _ := ToggleComment(once, prefix)
		if strings.Join(twice, "\n") != strings.Join(lines, "\n") {
			t.Fatalf("round trip changed the block:\n%q\n%q", lines, twice)
		}
	})
}

func TestToggleLineCommentRoundTrip(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		text := strings.Join(blockGen().Draw(t, "block"), "\n")
		eng := engine.New(engine.WithContent(text))
		defer eng.Close()
		m := multicaret.New(eng, 0)
		defer m.Close()
		m.Primary().SetSelection(cursor.NewSelection(0, eng.Len()))
		o := New(m)

		if _, err := o.ToggleLineComment("# "); err != nil {
			t.Fatal(err)
		}
		if _, err := o.ToggleLineComment("# "); err != nil {
			t.Fatal(err)
		}
		if got := eng.Text(); got != text {
			t.Fatalf("got %q, want %q", got, text)
		}
	})
}

// TestRandomEditsUndo drives random multi-caret edits and checks that the
// carets stay distinct and in range, and that undoing every unit gives
// back the original text.
func TestRandomEditsUndo(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		text := rapid.StringMatching(`[ab (){}"'\n]{0,40}`).Draw(t, "text")
		eng := engine.New(engine.WithContent(text))
		defer eng.Close()
		m := multicaret.New(eng, 0)
		defer m.Close()
		for range rapid.IntRange(0, 4).Draw(t, "carets") {
			m.AddAt(engine.ByteOffset(rapid.IntRange(0, len(text)).Draw(t, "offset")))
		}
		o := New(m)

		steps := rapid.IntRange(1, 12).Draw(t, "steps")
		for range steps {
			var err error
			switch rapid.IntRange(0, 10).Draw(t, "op") {
			case 0:
				_, err = o.InsertText(rapid.SampledFrom([]string{"x", "\n", "    ", "()"}).Draw(t, "insert"))
			case 1:
				_, err = o.DeleteBackward()
			case 2:
				_, err = o.DeleteForward()
			case 3:
				_, err = o.Embrace('(', ')')
			case 4:
				_, err = o.IgnoreIfNext(")")
			case 5:
				_, err = o.ToggleLineComment("# ")
			case 6:
				_, err = o.Unindent()
			case 7:
				_, err = o.DuplicateLines()
			case 8:
				_, err = o.MoveLines(rapid.SampledFrom([]Direction{Up, Down}).Draw(t, "dir"))
			case 9:
				o.ExtendSelections(rapid.SampledFrom([]cursor.MoveOperation{
					cursor.NextCharacter, cursor.PreviousWord, cursor.Up, cursor.EndOfLine,
				}).Draw(t, "extend"))
			case 10:
				o.Home(cursor.MoveAnchor)
			}
			if err != nil {
				t.Fatal(err)
			}

			seen := map[engine.ByteOffset]bool{}
			for _, sel := range m.Selections() {
				if sel.Head < 0 || sel.Head > eng.Len() || sel.Anchor < 0 || sel.Anchor > eng.Len() {
					t.Fatalf("caret %v out of range [0, %d]", sel, eng.Len())
				}
				if seen[sel.Head] {
					t.Fatalf("two carets at %d", sel.Head)
				}
				seen[sel.Head] = true
			}
		}

		for eng.CanUndo() {
			if err := eng.Undo(); err != nil {
				t.Fatal(err)
			}
		}
		if got := eng.Text(); got != text {
			t.Fatalf("undo all: got %q, want %q", got, text)
		}
	})
}
