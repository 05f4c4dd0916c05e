package session

import (
	"fmt"
	"io"
	"strings"

	"github.com/dshills/scriptedit/internal/editor/ops"
	"github.com/dshills/scriptedit/internal/engine"
	"github.com/dshills/scriptedit/internal/engine/cursor"
	"github.com/dshills/scriptedit/internal/input/key"
	"github.com/dshills/scriptedit/internal/log"
)

// HandleKey dispatches one key event. Queued work runs first. A dispatch
// error or panic is logged and reported as NotHandled so the host falls
// back to its default behaviour.
func (s *Session) HandleKey(ev key.Event) ops.Result {
	return s.guard("key", func() ops.Result {
		result, err := s.keys.Dispatch(ev)
		if err != nil {
			log.Debug(log.CatKeys, "dispatch failed", "session", s.id, "key", ev.String(), "error", err)
			return ops.NotHandled
		}
		return result
	})
}

// HandleClick applies a click at a document offset. multi is set when the
// add-caret modifier is held.
func (s *Session) HandleClick(offset engine.ByteOffset, multi bool) ops.Result {
	return s.guard("click", func() ops.Result {
		s.carets.Click(offset, multi)
		log.Debug(log.CatCaret, "click", "offset", offset, "multi", multi, "carets", s.carets.Len())
		return ops.Handled
	})
}

// HandleMouse applies a click on screen cell x, y. Clicks outside the
// text area are not handled.
func (s *Session) HandleMouse(x, y int, multi bool) ops.Result {
	offset, ok := s.view.OffsetAt(s.eng.Document(), x, y)
	if !ok {
		return ops.NotHandled
	}
	return s.HandleClick(offset, multi)
}

var fallbackMoves = map[key.Key]cursor.MoveOperation{
	key.KeyLeft:  cursor.PreviousCharacter,
	key.KeyRight: cursor.NextCharacter,
	key.KeyUp:    cursor.Up,
	key.KeyDown:  cursor.Down,
	key.KeyHome:  cursor.StartOfLine,
	key.KeyEnd:   cursor.EndOfLine,
}

// Fallback is the host's default handling for a key HandleKey left
// alone: plain caret motion, paging, copy and cut.
func (s *Session) Fallback(ev key.Event) ops.Result {
	ev = ev.Normalize()
	return s.guard("fallback", func() ops.Result {
		primary := s.carets.Primary()
		switch {
		case ev.Modifiers == key.ModNone:
			if op, ok := fallbackMoves[ev.Key]; ok {
				primary.MovePosition(op, cursor.MoveAnchor, 1)
				return ops.Handled
			}
			switch ev.Key {
			case key.KeyPageUp:
				primary.MovePosition(cursor.Up, cursor.MoveAnchor, s.pageSize())
				return ops.Handled
			case key.KeyPageDown:
				primary.MovePosition(cursor.Down, cursor.MoveAnchor, s.pageSize())
				return ops.Handled
			}
		case ev.Modifiers == key.ModCtrl:
			switch {
			case ev.Key == key.KeyLeft:
				primary.MovePosition(cursor.PreviousWord, cursor.MoveAnchor, 1)
				return ops.Handled
			case ev.Key == key.KeyRight:
				primary.MovePosition(cursor.NextWord, cursor.MoveAnchor, 1)
				return ops.Handled
			case ev.Key == key.KeyHome:
				primary.SetPosition(0, cursor.MoveAnchor)
				return ops.Handled
			case ev.Key == key.KeyEnd:
				primary.SetPosition(s.eng.Len(), cursor.MoveAnchor)
				return ops.Handled
			case ev.IsRune() && ev.Rune == 'c':
				return s.copyLocked()
			case ev.IsRune() && ev.Rune == 'x':
				if s.copyLocked() == ops.NotHandled {
					return ops.NotHandled
				}
				if err := s.cutSelections(); err != nil {
					log.Debug(log.CatOps, "cut failed", "error", err)
					return ops.NotHandled
				}
				return ops.Handled
			}
		}
		return ops.NotHandled
	})
}

func (s *Session) pageSize() int {
	return max(s.view.Viewport().Height()-1, 1)
}

// Copy puts the selected text of every caret into the internal register,
// one caret per line. It is not handled when nothing is selected.
func (s *Session) Copy() ops.Result {
	return s.guard("copy", s.copyLocked)
}

func (s *Session) copyLocked() ops.Result {
	var parts []string
	for _, t := range s.ops.SelectedTexts() {
		if t != "" {
			parts = append(parts, t)
		}
	}
	if len(parts) == 0 {
		return ops.NotHandled
	}
	s.clipboard = strings.Join(parts, "\n")
	return ops.Handled
}

func (s *Session) cutSelections() error {
	return s.eng.EditBlock("cut", func() error {
		return s.carets.Each(func(_ int, c *cursor.Cursor) error {
			if !c.HasSelection() {
				return nil
			}
			return c.RemoveSelectedText()
		})
	})
}

// Run executes a named key action, as if its key had been pressed.
func (s *Session) Run(action string) (ops.Result, error) {
	var runErr error
	r := s.guard("action", func() ops.Result {
		var result ops.Result
		result, runErr = s.keys.Run(action)
		return result
	})
	return r, runErr
}

// Edit runs fn as one undo unit and as one entry point. A panic inside fn
// is recovered and returned as an error.
func (s *Session) Edit(name string, fn func(o *ops.Ops) error) (err error) {
	if s.closed {
		return ErrClosed
	}
	s.guard(name, func() ops.Result {
		defer func() {
			if r := recover(); r != nil {
				err = fmt.Errorf("%s: %v", name, r)
				panic(r)
			}
		}()
		err = s.eng.EditBlock(name, func() error { return fn(s.ops) })
		return ops.Handled
	})
	return err
}

// Save writes the document to w and marks it unmodified.
func (s *Session) Save(w io.Writer) error {
	if _, err := s.eng.WriteTo(w); err != nil {
		return fmt.Errorf("save %s: %w", s.path, err)
	}
	s.saved = s.eng.Document().Revision()
	log.Info(log.CatSession, "saved", "session", s.id, "path", s.path)
	return nil
}
