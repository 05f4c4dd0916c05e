package app

import (
	"context"
	"errors"
	"time"

	"github.com/dshills/scriptedit/internal/editor/ops"
	"github.com/dshills/scriptedit/internal/input/key"
	"github.com/dshills/scriptedit/internal/log"
	"github.com/dshills/scriptedit/internal/renderer/backend"
	"github.com/dshills/scriptedit/internal/renderer/core"
	caretoverlay "github.com/dshills/scriptedit/internal/renderer/cursor"
	"github.com/dshills/scriptedit/internal/renderer/statusline"
)

// blinkTick is how often the caret blink is checked.
const blinkTick = 50 * time.Millisecond

// wheelLines is how far one mouse wheel step scrolls.
const wheelLines = 3

var (
	quitKey = key.MustParse("C-q")
	saveKey = key.MustParse("C-s")
)

// loop processes events until quit or ctx is done.
func (app *Application) loop(ctx context.Context) error {
	events := app.startInputPolling()
	ticker := time.NewTicker(blinkTick)
	defer ticker.Stop()

	app.render()
	for {
		select {
		case <-ctx.Done():
			return nil
		case now := <-ticker.C:
			if app.session.Tick(now) {
				app.render()
			}
		case ev, ok := <-events:
			if !ok {
				return nil
			}
			err := app.handleBackendEvent(ev)
			if errors.Is(err, ErrQuit) {
				return nil
			}
			if err != nil {
				log.ErrorErr(log.CatSession, "event failed", err)
				app.status.SetMessage(err.Error(), statusline.MessageError)
			}
			app.render()
		}
	}
}

// handleBackendEvent processes a backend event and routes it appropriately.
// Returns ErrQuit if the application should exit.
func (app *Application) handleBackendEvent(ev backend.Event) error {
	switch ev.Type {
	case backend.EventResize:
		app.layout(ev.Width, ev.Height)
	case backend.EventKey:
		return app.handleKey(ev.Key)
	case backend.EventMouse:
		app.handleMouse(ev)
	case backend.EventInterrupt:
		// woken to apply queued reloads
		app.session.Drain()
	}
	return nil
}

// handleKey handles the editor's own keys, then gives the session the
// event and falls back to the default motion when it is not handled.
func (app *Application) handleKey(ev key.Event) error {
	switch {
	case ev.Equals(quitKey):
		if app.session.Modified() && !app.quitArmed {
			app.quitArmed = true
			app.status.SetMessage("unsaved changes, C-q again to quit", statusline.MessageWarning)
			return nil
		}
		return ErrQuit
	case ev.Equals(saveKey):
		app.quitArmed = false
		return app.Save()
	}

	app.quitArmed = false
	app.status.ClearMessage()
	if app.session.HandleKey(ev) == ops.NotHandled {
		app.session.Fallback(ev)
	}
	return nil
}

func (app *Application) handleMouse(ev backend.Event) {
	switch ev.Button {
	case backend.MouseLeft:
		app.session.HandleMouse(ev.MouseX, ev.MouseY, ev.Mod.Has(key.ModCtrl))
	case backend.MouseWheelUp:
		app.session.Scroll(-wheelLines)
	case backend.MouseWheelDown:
		app.session.Scroll(wheelLines)
	}
}

// layout gives the text view every row but the last, which is the status
// line.
func (app *Application) layout(width, height int) {
	app.width, app.height = width, height
	app.session.SetArea(core.Rect{Width: width, Height: max(height-1, 0)}, width, height)
	app.status.Resize(width)
}

// render repaints what changed, then the status line, then places the
// terminal cursor on the primary caret.
func (app *Application) render() {
	app.session.Render(app.backend)
	if app.height > 0 {
		app.status.SetState(app.statusState())
		app.status.Render(app.backend, app.height-1)
	}
	if x, y, ok := app.session.CursorPosition(); ok {
		app.backend.ShowCursor(x, y)
	} else {
		app.backend.HideCursor()
	}
	app.backend.Show()
}

func cursorStyle(s caretoverlay.Style) backend.CursorStyle {
	switch s {
	case caretoverlay.StyleBlock:
		return backend.CursorBlock
	case caretoverlay.StyleUnderline:
		return backend.CursorUnderline
	default:
		return backend.CursorBar
	}
}

// startInputPolling starts a goroutine that polls for input events.
// Events are sent to the returned channel.
//
// PollEvent is blocking; Shutdown of the backend unblocks it.
func (app *Application) startInputPolling() <-chan backend.Event {
	events := make(chan backend.Event, 100)

	go func() {
		defer close(events)

		for app.running.Load() {
			ev := app.backend.PollEvent()
			if !app.running.Load() {
				return
			}
			if ev.Type == backend.EventNone {
				continue
			}
			select {
			case events <- ev:
			case <-app.done:
				return
			}
		}
	}()

	return events
}
