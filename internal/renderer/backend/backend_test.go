package backend

import (
	"testing"

	"github.com/gdamore/tcell/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/scriptedit/internal/input/key"
	"github.com/dshills/scriptedit/internal/renderer/core"
)

var _ Backend = (*Terminal)(nil)

func newSimTerminal(t *testing.T, w, h int) (*Terminal, tcell.SimulationScreen) {
	t.Helper()
	screen := tcell.NewSimulationScreen("")
	term := NewTerminalWithScreen(screen)
	require.NoError(t, term.Init())
	screen.SetSize(w, h)
	term.Clear()
	t.Cleanup(term.Shutdown)
	return term, screen
}

// pollType returns the next event of type want, skipping others the
// screen queued on its own.
func pollType(t *testing.T, term *Terminal, want EventType) Event {
	t.Helper()
	for range 5 {
		ev := term.PollEvent()
		if ev.Type == want {
			return ev
		}
	}
	t.Fatalf("no event of type %d", want)
	return Event{}
}

func TestCellRoundTrip(t *testing.T) {
	term, _ := newSimTerminal(t, 20, 5)

	cell := core.Cell{
		Text:  "a",
		Width: 1,
		Style: core.Style{
			Foreground: core.RGB(10, 20, 30),
			Background: core.RGB(94, 132, 255),
			Attributes: core.AttrBold | core.AttrItalic,
		},
	}
	term.SetCell(2, 1, cell)
	assert.Equal(t, cell, term.GetCell(2, 1))

	plain := term.GetCell(3, 1)
	assert.Equal(t, " ", plain.Text)
	assert.True(t, plain.Style.Foreground.IsDefault())
	assert.True(t, plain.Style.Background.IsDefault())

	assert.Equal(t, core.EmptyCell(), term.GetCell(-1, 0))
	assert.Equal(t, core.EmptyCell(), term.GetCell(20, 0))
}

func TestFillClipsToScreen(t *testing.T) {
	term, _ := newSimTerminal(t, 10, 4)
	cell := core.Cell{Text: "#", Width: 1, Style: core.NewStyle(core.RGB(255, 0, 0))}

	term.Fill(core.Rect{X: 8, Y: 2, Width: 5, Height: 5}, cell)

	assert.Equal(t, "#", term.GetCell(8, 2).Text)
	assert.Equal(t, "#", term.GetCell(9, 3).Text)
	assert.Equal(t, " ", term.GetCell(7, 2).Text)
	assert.Equal(t, " ", term.GetCell(8, 1).Text)
}

func TestSetStringWideGlyph(t *testing.T) {
	term, _ := newSimTerminal(t, 10, 2)

	n := term.SetString(0, 0, "a世b", core.DefaultStyle())
	assert.Equal(t, 4, n)
	assert.Equal(t, "a", term.GetCell(0, 0).Text)
	wide := term.GetCell(1, 0)
	assert.Equal(t, "世", wide.Text)
	assert.Equal(t, 2, wide.Width)
	assert.Equal(t, "b", term.GetCell(3, 0).Text)
}

func TestConvertKey(t *testing.T) {
	tests := []struct {
		name string
		ev   *tcell.EventKey
		want string
	}{
		{"rune", tcell.NewEventKey(tcell.KeyRune, 'x', tcell.ModNone), "x"},
		{"ctrl letter", tcell.NewEventKey(tcell.KeyCtrlV, 0, tcell.ModCtrl), "C-v"},
		{"ctrl shift letter", tcell.NewEventKey(tcell.KeyCtrlD, 0, tcell.ModCtrl|tcell.ModShift), "C-S-d"},
		{"ctrl slash", tcell.NewEventKey(tcell.KeyCtrlUnderscore, 0, tcell.ModCtrl), "C-/"},
		{"backtab", tcell.NewEventKey(tcell.KeyBacktab, 0, tcell.ModShift), "Backtab"},
		{"enter", tcell.NewEventKey(tcell.KeyEnter, 0, tcell.ModNone), "Enter"},
		{"tab", tcell.NewEventKey(tcell.KeyTab, 0, tcell.ModNone), "Tab"},
		{"backspace", tcell.NewEventKey(tcell.KeyBackspace2, 0, tcell.ModNone), "BS"},
		{"escape", tcell.NewEventKey(tcell.KeyEscape, 0, tcell.ModNone), "Esc"},
		{"ctrl alt up", tcell.NewEventKey(tcell.KeyUp, 0, tcell.ModCtrl|tcell.ModAlt), "C-A-Up"},
		{"shift home", tcell.NewEventKey(tcell.KeyHome, 0, tcell.ModShift), "S-Home"},
		{"delete", tcell.NewEventKey(tcell.KeyDelete, 0, tcell.ModNone), "Del"},
		{"function", tcell.NewEventKey(tcell.KeyF5, 0, tcell.ModNone), "F5"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ev := convertEvent(tt.ev)
			require.Equal(t, EventKey, ev.Type)
			assert.True(t, ev.Key.Equals(key.MustParse(tt.want)), "got %s", ev.Key)
		})
	}
}

func TestConvertUnknownKey(t *testing.T) {
	ev := convertEvent(tcell.NewEventKey(tcell.KeyPrint, 0, tcell.ModNone))
	assert.Equal(t, EventNone, ev.Type)
}

func TestConvertMouseAndResize(t *testing.T) {
	ev := convertEvent(tcell.NewEventMouse(3, 4, tcell.Button1, tcell.ModCtrl))
	assert.Equal(t, Event{Type: EventMouse, MouseX: 3, MouseY: 4, Button: MouseLeft, Mod: key.ModCtrl}, ev)

	ev = convertEvent(tcell.NewEventMouse(0, 0, tcell.WheelDown, tcell.ModNone))
	assert.Equal(t, MouseWheelDown, ev.Button)

	ev = convertEvent(tcell.NewEventResize(100, 30))
	assert.Equal(t, Event{Type: EventResize, Width: 100, Height: 30}, ev)
}

func TestInjectedEvents(t *testing.T) {
	term, screen := newSimTerminal(t, 20, 5)

	screen.InjectKey(tcell.KeyRune, 'q', tcell.ModAlt)
	ev := pollType(t, term, EventKey)
	assert.True(t, ev.Key.Equals(key.NewRune('q', key.ModAlt)))

	term.Interrupt("reload")
	ev = pollType(t, term, EventInterrupt)
	assert.Equal(t, "reload", ev.Data)
}
