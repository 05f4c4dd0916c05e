package keys

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/scriptedit/internal/editor/multicaret"
	"github.com/dshills/scriptedit/internal/editor/ops"
	"github.com/dshills/scriptedit/internal/engine"
	"github.com/dshills/scriptedit/internal/engine/cursor"
	"github.com/dshills/scriptedit/internal/input/key"
)

func newDispatcher(t *testing.T, content string, offset engine.ByteOffset, opts ...Option) (*engine.Engine, *Dispatcher) {
	t.Helper()
	eng := engine.New(engine.WithContent(content))
	m := multicaret.New(eng, offset)
	t.Cleanup(func() {
		m.Close()
		eng.Close()
	})
	return eng, NewDispatcher(ops.New(m), opts...)
}

func press(t *testing.T, d *Dispatcher, spec string) ops.Result {
	t.Helper()
	r, err := d.Dispatch(key.MustParse(spec))
	require.NoError(t, err)
	return r
}

func primary(d *Dispatcher) cursor.Selection {
	return d.Ops().Carets().Primary().Selection()
}

func TestDefaultBindingsResolve(t *testing.T) {
	km := DefaultKeymap()
	for _, b := range DefaultBindings() {
		t.Run(b.Keys, func(t *testing.T) {
			action, ok := km.Lookup(key.MustParse(b.Keys))
			require.True(t, ok)
			assert.Equal(t, b.Action, action)
			assert.True(t, IsAction(action))
		})
	}
	assert.Len(t, km.Bindings(), len(DefaultBindings()))
}

func TestKeymapLookupNormalizes(t *testing.T) {
	km := DefaultKeymap()
	action, ok := km.Lookup(key.NewRune('D', key.ModCtrl))
	require.True(t, ok)
	assert.Equal(t, ActionDuplicateLines, action)

	_, ok = km.Lookup(key.NewRune('d', key.ModCtrl))
	assert.False(t, ok)
}

func TestKeymapApply(t *testing.T) {
	km := DefaultKeymap()

	err := km.Apply(map[string]string{"C-k": ActionDuplicateLines, "C-j": "no.such"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnknownAction))
	_, ok := km.Lookup(key.MustParse("C-k"))
	assert.False(t, ok, "nothing is applied when one override is bad")

	require.NoError(t, km.Apply(map[string]string{"C-k": ActionDuplicateLines, "C-S-d": ""}))
	action, ok := km.Lookup(key.MustParse("C-k"))
	require.True(t, ok)
	assert.Equal(t, ActionDuplicateLines, action)
	_, ok = km.Lookup(key.MustParse("C-S-d"))
	assert.False(t, ok)

	assert.ErrorIs(t, km.Apply(map[string]string{"C-": ActionUndo}), key.ErrInvalidKeySpec)
}

func TestActionsSorted(t *testing.T) {
	names := Actions()
	assert.IsIncreasing(t, names)
	assert.Contains(t, names, ActionToggleComment)
	assert.False(t, IsAction("edit.cut"))
}

func TestRunUnknownAction(t *testing.T) {
	_, d := newDispatcher(t, "", 0)
	r, err := d.Run("edit.cut")
	assert.ErrorIs(t, err, ErrUnknownAction)
	assert.Equal(t, ops.NotHandled, r)
}

func TestInterceptorFirst(t *testing.T) {
	consume := true
	var seen []string
	eng, d := newDispatcher(t, "ab", 1, WithInterceptor(InterceptorFunc(func(ev key.Event) bool {
		seen = append(seen, ev.String())
		return consume
	})))

	assert.Equal(t, ops.Handled, press(t, d, "Enter"))
	assert.Equal(t, "ab", eng.Text())

	consume = false
	assert.Equal(t, ops.Handled, press(t, d, "Enter"))
	assert.Equal(t, "a\nb", eng.Text())

	press(t, d, "x")
	press(t, d, "S-Down")
	assert.Equal(t, []string{"Enter", "Enter"}, seen, "only plain Enter, Up and Down are offered")
}

func TestCtrlAlt(t *testing.T) {
	eng, d := newDispatcher(t, "ab\ncd", 1)

	assert.Equal(t, ops.Handled, press(t, d, "C-A-Down"))
	assert.Equal(t, 2, d.Ops().Carets().Len())

	assert.Equal(t, ops.NotHandled, press(t, d, "C-A-x"))
	assert.Equal(t, ops.NotHandled, press(t, d, "C-A-Left"))
	assert.Equal(t, "ab\ncd", eng.Text())
}

func TestTyping(t *testing.T) {
	eng, d := newDispatcher(t, "", 0)
	for _, spec := range []string{"f", "(", "x", ")", "Tab", "Enter"} {
		assert.Equal(t, ops.Handled, press(t, d, spec), spec)
	}
	assert.Equal(t, "f(x)\t\n", eng.Text())
	assert.Equal(t, engine.ByteOffset(6), primary(d).Head)

	assert.Equal(t, ops.NotHandled, press(t, d, "C-q"))
	assert.Equal(t, ops.NotHandled, press(t, d, "F5"))
}

func TestEmbraceKeys(t *testing.T) {
	eng, d := newDispatcher(t, "foo", 0)
	d.Ops().Carets().Primary().SetSelection(cursor.NewSelection(3, 0))

	press(t, d, "[")
	assert.Equal(t, "[foo]", eng.Text())
	assert.Equal(t, cursor.NewSelection(4, 1), primary(d))

	press(t, d, "\"")
	assert.Equal(t, "[\"foo\"]", eng.Text())
	assert.Equal(t, 2, eng.UndoCount())
}

func TestTypeThrough(t *testing.T) {
	eng, d := newDispatcher(t, "()", 1)
	press(t, d, ")")
	assert.Equal(t, "()", eng.Text())
	assert.Equal(t, engine.ByteOffset(2), primary(d).Head)
}

func TestShiftExtends(t *testing.T) {
	_, d := newDispatcher(t, "    abc", 6)

	assert.Equal(t, ops.Handled, press(t, d, "S-Right"))
	assert.Equal(t, cursor.NewSelection(6, 7), primary(d))

	assert.Equal(t, ops.Handled, press(t, d, "S-Home"))
	assert.Equal(t, cursor.NewSelection(6, 4), primary(d))

	assert.Equal(t, ops.Handled, press(t, d, "C-S-Right"))
	assert.Equal(t, engine.ByteOffset(6), primary(d).Anchor)
}

func TestPlainMoveCollapses(t *testing.T) {
	_, d := newDispatcher(t, "ab\ncd\nef", 1)
	require.True(t, d.Ops().Carets().AddAt(4))

	assert.Equal(t, ops.NotHandled, press(t, d, "Left"))
	assert.Equal(t, 1, d.Ops().Carets().Len())
	assert.Equal(t, engine.ByteOffset(4), primary(d).Head, "the host moves the caret")
}

func TestSmartHomeKey(t *testing.T) {
	_, d := newDispatcher(t, "    abc", 6)

	assert.Equal(t, ops.Handled, press(t, d, "Home"))
	assert.Equal(t, engine.ByteOffset(4), primary(d).Head)
	press(t, d, "Home")
	assert.Equal(t, engine.ByteOffset(0), primary(d).Head)
}

func TestCommentPrefix(t *testing.T) {
	eng, d := newDispatcher(t, "x = 1", 0)
	press(t, d, "C-/")
	assert.Equal(t, "# x = 1", eng.Text())

	d.SetCommentPrefix(SlashComment)
	assert.Equal(t, SlashComment, d.CommentPrefix())
	press(t, d, "C-/")
	assert.Equal(t, "// # x = 1", eng.Text())
}

func TestPaste(t *testing.T) {
	_, d := newDispatcher(t, "a\nb", 1)
	assert.Equal(t, ops.NotHandled, press(t, d, "C-v"), "no clipboard")

	eng, d := newDispatcher(t, "a\nb", 1, WithClipboard(func() string { return "xy" }))
	require.True(t, d.Ops().Carets().AddAt(3))
	assert.Equal(t, ops.Handled, press(t, d, "C-v"))
	assert.Equal(t, "axy\nbxy", eng.Text())
	assert.Equal(t, 1, eng.UndoCount())
}

func TestEditingKeys(t *testing.T) {
	eng, d := newDispatcher(t, "    ab\n()", 4)

	press(t, d, "Backtab")
	assert.Equal(t, "ab\n()", eng.Text())

	press(t, d, "Del")
	assert.Equal(t, "b\n()", eng.Text())

	press(t, d, "C-z")
	assert.Equal(t, "ab\n()", eng.Text())
	press(t, d, "C-y")
	assert.Equal(t, "b\n()", eng.Text())

	d.Ops().Carets().CollapseTo(3)
	press(t, d, "BS")
	assert.Equal(t, "b\n", eng.Text())
}

func TestEscCollapses(t *testing.T) {
	_, d := newDispatcher(t, "ab\ncd", 1)
	assert.Equal(t, ops.NotHandled, press(t, d, "Esc"))

	require.True(t, d.Ops().Carets().AddAt(4))
	assert.Equal(t, ops.Handled, press(t, d, "Esc"))
	assert.Equal(t, multicaret.Single, d.Ops().Carets().State())
}

func TestOverrideBindings(t *testing.T) {
	km := DefaultKeymap()
	require.NoError(t, km.Apply(map[string]string{"C-k": ActionToggleComment}))
	eng, d := newDispatcher(t, "x", 0, WithKeymap(km), WithCommentPrefix(SlashComment))

	press(t, d, "C-k")
	assert.Equal(t, "// x", eng.Text())
}
