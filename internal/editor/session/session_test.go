package session

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/scriptedit/internal/config"
	"github.com/dshills/scriptedit/internal/editor/keys"
	"github.com/dshills/scriptedit/internal/editor/ops"
	"github.com/dshills/scriptedit/internal/engine"
	"github.com/dshills/scriptedit/internal/engine/cursor"
	"github.com/dshills/scriptedit/internal/input/key"
	"github.com/dshills/scriptedit/internal/log"
	"github.com/dshills/scriptedit/internal/renderer/core"
	"github.com/dshills/scriptedit/internal/renderer/highlight"
)

const source = "def f():\n    return 1\n"

func newSession(t *testing.T, content string, opts ...Option) *Session {
	t.Helper()
	eng := engine.New(engine.WithContent(content))
	opts = append([]Option{
		WithArea(core.Rect{Width: 40, Height: 10}),
		WithClock(func() time.Time { return time.Unix(0, 0) }),
	}, opts...)
	s, err := New(eng, opts...)
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = s.Close()
		eng.Close()
	})
	return s
}

type grid struct {
	w, h  int
	cells []core.Cell
}

func newGrid(w, h int) *grid {
	return &grid{w: w, h: h, cells: make([]core.Cell, w*h)}
}

func (g *grid) SetCell(x, y int, c core.Cell) {
	if x >= 0 && y >= 0 && x < g.w && y < g.h {
		g.cells[y*g.w+x] = c
	}
}

func (g *grid) GetCell(x, y int) core.Cell {
	if x >= 0 && y >= 0 && x < g.w && y < g.h {
		return g.cells[y*g.w+x]
	}
	return core.EmptyCell()
}

func (g *grid) row(y int) string {
	var b strings.Builder
	for x := 0; x < g.w; x++ {
		b.WriteString(g.cells[y*g.w+x].Text)
	}
	return b.String()
}

func typeText(s *Session, text string) {
	for _, r := range text {
		s.HandleKey(key.NewRune(r, key.ModNone))
	}
}

func TestNewInstallsComponents(t *testing.T) {
	s := newSession(t, source)

	assert.True(t, s.Components().Has(CompKeys|CompHighlighter|CompCaretOverlay))
	assert.False(t, s.Components().Has(CompInterceptor))
	assert.Equal(t, "highlighter|caret-overlay|keys", s.Components().List().String())
	assert.Equal(t, keys.HashComment, s.Keys().CommentPrefix())
	assert.NotEmpty(t, s.ID())
	assert.NotZero(t, s.Highlighter().Lexed())
}

func TestCommentPrefix(t *testing.T) {
	assert.Equal(t, "// ", CommentPrefix(highlight.KindMEL))
	assert.Equal(t, "# ", CommentPrefix(highlight.KindPython))
	assert.Equal(t, "# ", CommentPrefix(highlight.KindLog))

	s := newSession(t, "proc f() {}", WithKind(highlight.KindMEL))
	assert.Equal(t, keys.SlashComment, s.Keys().CommentPrefix())
}

func TestUnknownKind(t *testing.T) {
	_, err := New(engine.New(), WithKind("cobol"))
	assert.ErrorIs(t, err, highlight.ErrUnknownLanguage)
}

func TestObserversRunInOrder(t *testing.T) {
	s := newSession(t, "")
	var got []string
	s.Observe("first", TextChanged|CaretsChanged, func(_ *Session, ev Event) {
		got = append(got, "first:"+ev.String())
	})
	remove := s.Observe("second", TextChanged, func(_ *Session, ev Event) {
		got = append(got, "second:"+ev.String())
	})

	assert.Equal(t, ops.Handled, s.HandleKey(key.NewRune('x', key.ModNone)))
	assert.Equal(t, []string{"first:carets|text", "second:text"}, got)

	remove()
	got = nil
	typeText(s, "y")
	assert.Equal(t, []string{"first:carets|text"}, got)
	assert.Equal(t, "xy", s.Engine().Text())
}

func TestObserverPanicDoesNotStopOthers(t *testing.T) {
	s := newSession(t, "")
	called := false
	s.Observe("bad", TextChanged, func(*Session, Event) { panic("boom") })
	s.Observe("good", TextChanged, func(*Session, Event) { called = true })

	typeText(s, "a")
	assert.True(t, called)
}

func TestHandleKeyRecoversPanic(t *testing.T) {
	boom := keys.InterceptorFunc(func(key.Event) bool { panic("boom") })
	s := newSession(t, "", WithInterceptor(boom))
	require.True(t, s.Components().Has(CompInterceptor))

	assert.Equal(t, ops.NotHandled, s.HandleKey(key.NewSpecial(key.KeyEnter, key.ModNone)))

	typeText(s, "ok")
	assert.Equal(t, "ok", s.Engine().Text())
}

func TestQueueDrainsBeforeKey(t *testing.T) {
	wakes := 0
	s := newSession(t, "", WithWake(func() { wakes++ }))
	var order []string
	s.Observe("observer", TextChanged, func(*Session, Event) { order = append(order, "key") })

	s.Enqueue(func() { order = append(order, "queued") })
	s.Enqueue(func() { panic("ignored") })
	assert.Equal(t, 2, wakes)

	typeText(s, "a")
	assert.Equal(t, []string{"queued", "key"}, order)
	assert.Zero(t, s.Drain())
}

func TestSetColorRehighlights(t *testing.T) {
	s := newSession(t, source)
	s.Render(newGrid(40, 10))

	var events []Event
	s.Observe("palette", PaletteChanged, func(_ *Session, ev Event) { events = append(events, ev) })

	blue := core.RGB(1, 2, 3)
	require.NoError(t, s.SetColor(highlight.KindPython, highlight.AttrKeyword, blue))

	assert.Equal(t, []Event{PaletteChanged}, events)
	assert.Equal(t, blue, s.Palettes().Style("python.keyword").Foreground)
	assert.True(t, s.Tracker().IsFull())

	assert.Error(t, s.SetColor(highlight.KindPython, "nonsense", blue))
	assert.ErrorIs(t, s.SetColor(highlight.KindMEL, highlight.AttrKeyword, blue), highlight.ErrUnknownLanguage)
}

func TestLogSessionCarriesScriptPalettes(t *testing.T) {
	s := newSession(t, "# Error: boom", WithKind(highlight.KindLog))

	for _, k := range []highlight.Kind{highlight.KindLog, highlight.KindPython, highlight.KindMEL} {
		_, ok := s.Palettes().Get(k)
		assert.True(t, ok, k)
	}
	require.NoError(t, s.SetColor(highlight.KindMEL, highlight.AttrKeyword, core.RGB(9, 9, 9)))
}

func TestMissingThemeFallsBack(t *testing.T) {
	cfg := config.Default()
	cfg.Theme.Name = "missing"
	s := newSession(t, source, WithConfig(cfg))
	assert.Equal(t, "default", s.Palettes().Base().Theme())

	cfg.Theme.Seed = "monokai"
	seeded := newSession(t, source, WithConfig(cfg))
	assert.Equal(t, "monokai", seeded.Palettes().Base().Theme())
}

func TestClick(t *testing.T) {
	s := newSession(t, source)

	assert.Equal(t, ops.Handled, s.HandleClick(4, true))
	assert.Equal(t, 2, s.Carets().Len())
	assert.Equal(t, engine.ByteOffset(4), s.Carets().Primary().Position())

	s.HandleClick(4, true)
	assert.Equal(t, 1, s.Carets().Len())

	s.HandleClick(0, true)
	assert.Equal(t, 1, s.Carets().Len(), "clicking the only caret keeps it")

	s.HandleClick(4, true)
	s.HandleClick(10, false)
	assert.Equal(t, 1, s.Carets().Len())
	assert.Equal(t, engine.ByteOffset(10), s.Carets().Primary().Position())
}

func TestHandleMouse(t *testing.T) {
	s := newSession(t, source)

	// the gutter is four cells wide
	assert.Equal(t, ops.Handled, s.HandleMouse(6, 1, false))
	assert.Equal(t, engine.ByteOffset(11), s.Carets().Primary().Position())
	assert.Equal(t, ops.NotHandled, s.HandleMouse(1, 1, false))
}

func TestFallback(t *testing.T) {
	s := newSession(t, source)

	tests := []struct {
		spec string
		want engine.ByteOffset
	}{
		{"Right", 1},
		{"End", 8},
		{"Down", 17},
		{"C-Home", 0},
		{"C-Right", 4},
		{"C-End", engine.ByteOffset(len(source))},
	}
	for _, tt := range tests {
		ev := key.MustParse(tt.spec)
		require.Equal(t, ops.NotHandled, s.HandleKey(ev), tt.spec)
		assert.Equal(t, ops.Handled, s.Fallback(ev), tt.spec)
		assert.Equal(t, tt.want, s.Carets().Primary().Position(), tt.spec)
	}

	assert.Equal(t, ops.NotHandled, s.Fallback(key.NewSpecial(key.KeyF5, key.ModNone)))
}

func TestCopyCutPaste(t *testing.T) {
	s := newSession(t, source)
	s.Carets().RestoreSelections([]cursor.Selection{cursor.NewSelection(0, 3)})

	assert.Equal(t, ops.Handled, s.Copy())
	assert.Equal(t, "def", s.Clipboard())

	assert.Equal(t, ops.Handled, s.Fallback(key.MustParse("C-x")))
	assert.True(t, strings.HasPrefix(s.Engine().Text(), " f():"))
	assert.Equal(t, ops.NotHandled, s.Copy(), "nothing selected")

	assert.Equal(t, ops.Handled, s.HandleKey(key.MustParse("C-v")))
	assert.Equal(t, source, s.Engine().Text())
}

func TestCaretMoveRepaintsRowsOnly(t *testing.T) {
	s := newSession(t, "a\nb\nc\nd\ne\nf\ng\nh\n")
	s.Render(newGrid(40, 10))
	require.False(t, s.Dirty())

	s.Fallback(key.NewSpecial(key.KeyDown, key.ModNone))

	require.True(t, s.Dirty())
	assert.False(t, s.Tracker().IsFull())
	regions := s.Tracker().Regions()
	require.Len(t, regions, 1)
	// rows 0 and 1 plus a margin row below
	assert.Equal(t, 0, regions[0].Y)
	assert.Equal(t, 3, regions[0].Height)
	assert.Equal(t, 4, regions[0].X)
	assert.Equal(t, 36, regions[0].Width)
}

func TestRender(t *testing.T) {
	s := newSession(t, source)
	g := newGrid(40, 10)

	regions := s.Render(g)
	require.NotEmpty(t, regions)
	assert.Contains(t, g.row(0), "  1 def f():")
	assert.Contains(t, g.row(1), "  2     return 1")
	assert.Nil(t, s.Render(g), "nothing left to repaint")

	x, y, ok := s.CursorPosition()
	assert.True(t, ok)
	assert.Equal(t, 4, x)
	assert.Equal(t, 0, y)

	typeText(s, "#")
	s.Render(g)
	assert.Contains(t, g.row(0), "  1 #def f():")
}

func TestFollowScrolls(t *testing.T) {
	s := newSession(t, strings.Repeat("x\n", 50))
	s.Render(newGrid(40, 10))

	s.HandleClick(engine.ByteOffset(2*40), false)

	assert.True(t, s.View().Viewport().IsLineVisible(40))
	assert.True(t, s.Tracker().IsDirty())
	_, y, ok := s.CursorPosition()
	assert.True(t, ok)
	assert.Equal(t, 40-s.View().Viewport().Top(), y)
}

func TestApplyConfig(t *testing.T) {
	s := newSession(t, source)
	changed := 0
	s.Observe("config", ConfigChanged, func(*Session, Event) { changed++ })

	cfg := config.Default()
	cfg.Editor.IndentWidth = 2
	cfg.Keymap = map[string]string{"C-k": "no.such.action"}
	err := s.ApplyConfig(cfg)
	assert.ErrorIs(t, err, keys.ErrUnknownAction)
	assert.Equal(t, 2, s.Ops().IndentWidth())
	assert.Equal(t, 1, changed)
	_, ok := s.Keys().Keymap().Lookup(key.MustParse("C-k"))
	assert.False(t, ok)

	cfg.Keymap = map[string]string{"C-k": keys.ActionDuplicateLines}
	require.NoError(t, s.ApplyConfig(cfg))
	action, ok := s.Keys().Keymap().Lookup(key.MustParse("C-k"))
	assert.True(t, ok)
	assert.Equal(t, keys.ActionDuplicateLines, action)
	assert.Equal(t, 2, changed)
}

func TestIndentAndTabWidthFromConfig(t *testing.T) {
	cfg := config.Default()
	cfg.Editor.IndentWidth = 2
	cfg.Editor.TabWidth = 8
	s := newSession(t, "    x", WithConfig(cfg))
	assert.Equal(t, 2, s.Ops().IndentWidth())
	assert.Equal(t, 8, s.View().TabWidth())

	s.Carets().CollapseTo(4)
	assert.Equal(t, ops.Handled, s.HandleKey(key.MustParse("BS")))
	assert.Equal(t, "  x", s.Engine().Text(), "one indent unit removed")
}

func TestReloadConfigFailureIsLogged(t *testing.T) {
	var buf bytes.Buffer
	done := log.Init(log.Options{Output: &buf, Level: log.LevelWarn})
	defer done()

	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("[editor]\nindent_width = 2\n"), 0o644))
	m := config.NewManager(config.WithFiles(path), config.WithEnviron([]string{}))
	defer m.Close()
	cfg, err := m.Load()
	require.NoError(t, err)
	s := newSession(t, source, WithConfig(cfg))

	require.NoError(t, os.WriteFile(path, []byte("[editor\n"), 0o644))
	s.reloadConfig(m, path)

	assert.Contains(t, buf.String(), "keeping previous config")
	assert.Contains(t, buf.String(), path)
	assert.Equal(t, 2, m.Config().Editor.IndentWidth)
	assert.Equal(t, 2, s.Ops().IndentWidth())
}

func TestApplyConfigTheme(t *testing.T) {
	s := newSession(t, source)
	palettes := 0
	s.Observe("palette", PaletteChanged, func(*Session, Event) { palettes++ })

	cfg := config.Default()
	cfg.Theme.Name = "missing"
	cfg.Theme.Seed = "monokai"
	require.NoError(t, s.ApplyConfig(cfg))
	assert.Equal(t, 1, palettes)
	assert.Equal(t, "monokai", s.Palettes().Base().Theme())
	assert.Equal(t, s.Palettes().Normal().Background, s.Overlay().Config().Background)
}

type popup struct {
	dismissed int
}

func (p *popup) Intercept(key.Event) bool { return false }
func (p *popup) Dismiss()                 { p.dismissed++ }

func TestCaretMoveDismissesPopup(t *testing.T) {
	p := &popup{}
	s := newSession(t, source, WithInterceptor(p))

	s.Fallback(key.NewSpecial(key.KeyRight, key.ModNone))
	assert.Equal(t, 1, p.dismissed)

	s.Fallback(key.NewSpecial(key.KeyF5, key.ModNone))
	assert.Equal(t, 1, p.dismissed, "no caret moved")
}

func TestEditIsOneUndoUnit(t *testing.T) {
	s := newSession(t, source)
	err := s.Edit("macro", func(o *ops.Ops) error {
		if _, err := o.InsertText("ab"); err != nil {
			return err
		}
		_, err := o.InsertText("cd")
		return err
	})
	require.NoError(t, err)
	assert.Equal(t, "abcd"+source, s.Engine().Text())

	r, err := s.Run(keys.ActionUndo)
	require.NoError(t, err)
	assert.Equal(t, ops.Handled, r)
	assert.Equal(t, source, s.Engine().Text())

	_, err = s.Run("no.such.action")
	assert.ErrorIs(t, err, keys.ErrUnknownAction)
}

func TestEditRecoversPanic(t *testing.T) {
	s := newSession(t, source)
	err := s.Edit("macro", func(*ops.Ops) error { panic("boom") })
	require.Error(t, err)
	assert.Contains(t, err.Error(), "boom")

	typeText(s, "x")
	assert.Equal(t, "x"+source, s.Engine().Text())
}

func TestModifiedAndSave(t *testing.T) {
	s := newSession(t, "a", WithPath("a.py"))
	assert.False(t, s.Modified())

	typeText(s, "b")
	assert.True(t, s.Modified())

	var buf bytes.Buffer
	require.NoError(t, s.Save(&buf))
	assert.Equal(t, "ba", buf.String())
	assert.False(t, s.Modified())
}

func TestClose(t *testing.T) {
	eng := engine.New(engine.WithContent(source))
	defer eng.Close()
	s, err := New(eng)
	require.NoError(t, err)

	require.NoError(t, s.Close())
	assert.ErrorIs(t, s.Close(), ErrClosed)
	assert.Zero(t, s.Components().List())
	assert.Equal(t, ops.NotHandled, s.HandleKey(key.NewRune('x', key.ModNone)))
	assert.ErrorIs(t, s.Edit("x", func(*ops.Ops) error { return nil }), ErrClosed)
}

func TestRegistry(t *testing.T) {
	var r Registry
	assert.True(t, r.Install(CompThemeWatch))
	assert.False(t, r.Install(CompThemeWatch))
	assert.True(t, r.Has(CompThemeWatch))
	assert.False(t, r.Has(CompThemeWatch|CompConfigWatch))
	assert.True(t, r.Uninstall(CompThemeWatch))
	assert.False(t, r.Uninstall(CompThemeWatch))
	assert.Equal(t, "none", r.List().String())
}

func TestScroll(t *testing.T) {
	s := newSession(t, strings.Repeat("x\n", 50))
	s.Render(newGrid(40, 10))

	s.Scroll(5)
	assert.Equal(t, 5, s.View().Viewport().Top())
	assert.True(t, s.Tracker().IsDirty())
	_, _, ok := s.CursorPosition()
	assert.False(t, ok, "the caret scrolled out of view")

	s.Scroll(-10)
	assert.Equal(t, 0, s.View().Viewport().Top())
}
