// Package backend draws cells on a terminal and reads its input.
package backend

import (
	"github.com/dshills/scriptedit/internal/input/key"
	"github.com/dshills/scriptedit/internal/renderer/core"
)

// CursorStyle is the shape of the terminal cursor.
type CursorStyle int

const (
	CursorBlock CursorStyle = iota
	CursorUnderline
	CursorBar
	CursorHidden
)

// EventType identifies the kind of terminal event.
type EventType int

const (
	EventNone EventType = iota
	EventKey
	EventMouse
	EventResize
	EventInterrupt
)

// MouseButton is the button of a mouse event.
type MouseButton int

const (
	MouseNone MouseButton = iota
	MouseLeft
	MouseMiddle
	MouseRight
	MouseWheelUp
	MouseWheelDown
)

// Event is a terminal event.
type Event struct {
	Type EventType

	// Key is set for EventKey.
	Key key.Event

	// Mouse fields are set for EventMouse. Mod also carries the modifiers
	// held during the click.
	MouseX, MouseY int
	Button         MouseButton
	Mod            key.Modifier

	// Width and Height are set for EventResize.
	Width, Height int

	// Data is the payload of EventInterrupt.
	Data any
}

// Backend is a display surface with an input queue.
type Backend interface {
	// Init prepares the terminal. It must be called first.
	Init() error

	// Shutdown restores the terminal.
	Shutdown()

	// Size returns the terminal size in cells.
	Size() (width, height int)

	// SetCell sets one cell. Positions outside the terminal are ignored.
	SetCell(x, y int, cell core.Cell)

	// GetCell returns one cell, or an empty cell outside the terminal.
	GetCell(x, y int) core.Cell

	// Fill sets every cell of rect.
	Fill(rect core.Rect, cell core.Cell)

	// SetString lays out s from x, y and returns the columns used.
	SetString(x, y int, s string, style core.Style) int

	// Clear blanks the screen.
	Clear()

	// Show flushes pending changes to the terminal.
	Show()

	ShowCursor(x, y int)
	HideCursor()
	SetCursorStyle(style CursorStyle)

	// PollEvent blocks until the next event.
	PollEvent() Event

	// Interrupt queues an EventInterrupt carrying data.
	Interrupt(data any)
}
