// Package statusline draws the bottom status bar of the terminal editor.
package statusline

import (
	"fmt"

	"github.com/dshills/scriptedit/internal/renderer/core"
)

// MessageType indicates the kind of status message.
type MessageType int

const (
	MessageNone MessageType = iota
	MessageInfo
	MessageWarning
	MessageError
)

// Surface is the cell grid the status line draws on.
type Surface interface {
	SetString(x, y int, s string, style core.Style) int
	Fill(rect core.Rect, cell core.Cell)
}

// State is what the status bar shows.
type State struct {
	Filename string
	Modified bool
	Language string
	Theme    string
	Carets   int
	Line     int // 0-based
	Column   int // 0-based display column
	Lines    int
}

// StatusLine renders the status bar.
type StatusLine struct {
	state State

	message     string
	messageType MessageType

	width int

	barStyle   core.Style
	badgeStyle core.Style
	msgStyles  map[MessageType]core.Style
}

// New creates a status line.
func New() *StatusLine {
	bar := core.Style{Foreground: core.RGB(220, 220, 220), Background: core.RGB(60, 63, 65)}
	return &StatusLine{
		barStyle:   bar,
		badgeStyle: core.Style{Foreground: core.RGB(20, 20, 20), Background: core.RGB(94, 132, 255)}.Bold(),
		msgStyles: map[MessageType]core.Style{
			MessageInfo:    bar,
			MessageWarning: bar.WithForeground(core.RGB(230, 200, 90)),
			MessageError:   bar.WithForeground(core.RGB(240, 90, 90)).Bold(),
		},
	}
}

// SetState updates the displayed state.
func (s *StatusLine) SetState(st State) { s.state = st }

// State returns the displayed state.
func (s *StatusLine) State() State { return s.state }

// SetMessage shows msg instead of the file information until cleared.
func (s *StatusLine) SetMessage(msg string, t MessageType) {
	s.message = msg
	s.messageType = t
}

// ClearMessage clears the status message.
func (s *StatusLine) ClearMessage() {
	s.message = ""
	s.messageType = MessageNone
}

// Message returns the current message.
func (s *StatusLine) Message() (string, MessageType) {
	return s.message, s.messageType
}

// Resize sets the bar width.
func (s *StatusLine) Resize(width int) { s.width = width }

// Left returns the text of the left side of the bar.
func (s *StatusLine) Left() string {
	if s.message != "" {
		return s.message
	}
	name := s.state.Filename
	if name == "" {
		name = "[scratch]"
	}
	if s.state.Modified {
		name += " [+]"
	}
	return name
}

// Right returns the position information.
func (s *StatusLine) Right() string {
	carets := ""
	if s.state.Carets > 1 {
		carets = fmt.Sprintf("%d carets  ", s.state.Carets)
	}
	return fmt.Sprintf("%s%s  %s  %d:%d/%d", carets, s.state.Language, s.state.Theme,
		s.state.Line+1, s.state.Column+1, s.state.Lines)
}

// Render draws the bar on row y.
func (s *StatusLine) Render(surf Surface, y int) {
	if s.width <= 0 {
		return
	}
	surf.Fill(core.Rect{X: 0, Y: y, Width: s.width, Height: 1}, core.Cell{Text: " ", Width: 1, Style: s.barStyle})

	x := 0
	if s.state.Carets > 1 && s.message == "" {
		x += surf.SetString(x, y, " MULTI ", s.badgeStyle)
	}
	style := s.barStyle
	if ms, ok := s.msgStyles[s.messageType]; ok {
		style = ms
	}
	x += surf.SetString(x, y, " ", style)
	surf.SetString(x, y, s.Left(), style)

	right := s.Right() + " "
	if start := s.width - core.StringWidth(right); start > x {
		surf.SetString(start, y, right, s.barStyle)
	}
}
