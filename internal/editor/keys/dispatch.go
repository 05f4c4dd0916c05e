package keys

import (
	"fmt"

	"github.com/dshills/scriptedit/internal/editor/ops"
	"github.com/dshills/scriptedit/internal/engine/cursor"
	"github.com/dshills/scriptedit/internal/input/key"
	"github.com/dshills/scriptedit/internal/log"
)

type actionFunc func(d *Dispatcher) (ops.Result, error)

func handled(ok bool) ops.Result {
	if ok {
		return ops.Handled
	}
	return ops.NotHandled
}

var actions = map[string]actionFunc{
	ActionAddCaretAbove: func(d *Dispatcher) (ops.Result, error) {
		return handled(d.ops.Carets().AddAbove()), nil
	},
	ActionAddCaretBelow: func(d *Dispatcher) (ops.Result, error) {
		return handled(d.ops.Carets().AddBelow()), nil
	},
	ActionCollapseCarets: func(d *Dispatcher) (ops.Result, error) {
		if d.ops.Carets().Len() < 2 {
			return ops.NotHandled, nil
		}
		d.ops.Carets().Collapse()
		return ops.Handled, nil
	},
	ActionDuplicateLines: func(d *Dispatcher) (ops.Result, error) {
		return d.ops.DuplicateLines()
	},
	ActionToggleComment: func(d *Dispatcher) (ops.Result, error) {
		return d.ops.ToggleLineComment(d.commentPrefix)
	},
	ActionMoveLinesUp: func(d *Dispatcher) (ops.Result, error) {
		return d.ops.MoveLines(ops.Up)
	},
	ActionMoveLinesDown: func(d *Dispatcher) (ops.Result, error) {
		return d.ops.MoveLines(ops.Down)
	},
	ActionUnindent: func(d *Dispatcher) (ops.Result, error) {
		return d.ops.Unindent()
	},
	ActionSelectWordLeft: func(d *Dispatcher) (ops.Result, error) {
		return d.ops.ExtendSelections(cursor.PreviousWord), nil
	},
	ActionSelectWordRight: func(d *Dispatcher) (ops.Result, error) {
		return d.ops.ExtendSelections(cursor.NextWord), nil
	},
	ActionPaste: func(d *Dispatcher) (ops.Result, error) {
		if d.clipboard == nil {
			return ops.NotHandled, nil
		}
		return d.ops.Paste(d.clipboard())
	},
	ActionDeleteForward: func(d *Dispatcher) (ops.Result, error) {
		return d.ops.DeleteForward()
	},
	ActionDeleteBackward: func(d *Dispatcher) (ops.Result, error) {
		return d.ops.DeleteBackward()
	},
	ActionUndo: func(d *Dispatcher) (ops.Result, error) {
		return d.ops.Undo()
	},
	ActionRedo: func(d *Dispatcher) (ops.Result, error) {
		return d.ops.Redo()
	},
}

// Interceptor gets the first chance at Enter, Up and Down, for example a
// completion popup. Intercept returns true when it consumed the event.
type Interceptor interface {
	Intercept(ev key.Event) bool
}

// InterceptorFunc adapts a function to Interceptor.
type InterceptorFunc func(ev key.Event) bool

// Intercept calls f(ev).
func (f InterceptorFunc) Intercept(ev key.Event) bool { return f(ev) }

// Default comment prefixes.
const (
	HashComment  = "# "
	SlashComment = "// "
)

// Option configures a Dispatcher.
type Option func(*Dispatcher)

// WithKeymap replaces the default keymap.
func WithKeymap(km *Keymap) Option {
	return func(d *Dispatcher) {
		if km != nil {
			d.keymap = km
		}
	}
}

// WithInterceptor installs the snippet interceptor.
func WithInterceptor(i Interceptor) Option {
	return func(d *Dispatcher) { d.interceptor = i }
}

// WithCommentPrefix sets the prefix used by the comment toggle.
func WithCommentPrefix(prefix string) Option {
	return func(d *Dispatcher) { d.commentPrefix = prefix }
}

// WithClipboard sets the function that supplies paste text.
func WithClipboard(fn func() string) Option {
	return func(d *Dispatcher) { d.clipboard = fn }
}

// Dispatcher turns key events into multi-caret operations.
type Dispatcher struct {
	ops           *ops.Ops
	keymap        *Keymap
	interceptor   Interceptor
	commentPrefix string
	clipboard     func() string
}

// NewDispatcher creates a dispatcher over o with the default keymap.
func NewDispatcher(o *ops.Ops, opts ...Option) *Dispatcher {
	d := &Dispatcher{
		ops:           o,
		keymap:        DefaultKeymap(),
		commentPrefix: HashComment,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Keymap returns the keymap in use.
func (d *Dispatcher) Keymap() *Keymap {
	return d.keymap
}

// SetKeymap replaces the keymap; nil restores the default.
func (d *Dispatcher) SetKeymap(km *Keymap) {
	if km == nil {
		km = DefaultKeymap()
	}
	d.keymap = km
}

// Ops returns the operations the dispatcher drives.
func (d *Dispatcher) Ops() *ops.Ops {
	return d.ops
}

// CommentPrefix returns the comment toggle prefix.
func (d *Dispatcher) CommentPrefix() string {
	return d.commentPrefix
}

// SetCommentPrefix changes the comment toggle prefix.
func (d *Dispatcher) SetCommentPrefix(prefix string) {
	d.commentPrefix = prefix
}

// SetInterceptor replaces the snippet interceptor; nil removes it.
func (d *Dispatcher) SetInterceptor(i Interceptor) {
	d.interceptor = i
}

// Run executes the named action.
func (d *Dispatcher) Run(action string) (ops.Result, error) {
	fn, ok := actions[action]
	if !ok {
		return ops.NotHandled, fmt.Errorf("%w: %q", ErrUnknownAction, action)
	}
	return fn(d)
}

var shiftMoves = map[key.Key]cursor.MoveOperation{
	key.KeyLeft:  cursor.PreviousCharacter,
	key.KeyRight: cursor.NextCharacter,
	key.KeyUp:    cursor.Up,
	key.KeyDown:  cursor.Down,
	key.KeyHome:  cursor.StartOfLine,
	key.KeyEnd:   cursor.EndOfLine,
}

var embraceKeys = map[rune]bool{'`': true, '(': true, '[': true, '{': true, '"': true, '\'': true}

var typeThroughKeys = map[rune]bool{')': true, ']': true, '}': true}

// Dispatch handles one key event. NotHandled leaves the event to the
// host's default behaviour.
func (d *Dispatcher) Dispatch(ev key.Event) (ops.Result, error) {
	ev = ev.Normalize()
	plain := ev.Modifiers == key.ModNone

	if plain && d.interceptor != nil &&
		(ev.Key == key.KeyEnter || ev.Key == key.KeyUp || ev.Key == key.KeyDown) {
		if d.interceptor.Intercept(ev) {
			log.Debug(log.CatKeys, "intercepted", "key", ev.String())
			return ops.Handled, nil
		}
	}

	if action, ok := d.keymap.Lookup(ev); ok {
		log.Debug(log.CatKeys, "action", "key", ev.String(), "action", action)
		return d.Run(action)
	}
	if ev.Ctrl() && ev.Alt() {
		return ops.NotHandled, nil
	}

	if op, ok := shiftMoves[ev.Key]; ok {
		switch ev.Modifiers {
		case key.ModShift:
			return d.ops.ExtendSelections(op), nil
		case key.ModNone:
			return d.plainMove(ev.Key), nil
		}
		return ops.NotHandled, nil
	}

	switch {
	case ev.Key == key.KeyEnter && plain:
		return d.ops.InsertText("\n")
	case ev.Key == key.KeyTab && plain:
		return d.ops.InsertText("\t")
	}

	text := ev.Text()
	if text == "" {
		return ops.NotHandled, nil
	}
	switch {
	case embraceKeys[ev.Rune]:
		closer, _ := ops.CloserOf(byte(ev.Rune))
		return d.ops.Embrace(byte(ev.Rune), closer)
	case typeThroughKeys[ev.Rune]:
		return d.ops.IgnoreIfNext(text)
	}
	return d.ops.InsertText(text)
}

// plainMove collapses to the primary caret. Home then applies the smart
// Home motion; the other keys are left to the host.
func (d *Dispatcher) plainMove(k key.Key) ops.Result {
	carets := d.ops.Carets()
	carets.Collapse()
	if k == key.KeyHome {
		return d.ops.Home(cursor.MoveAnchor)
	}
	return ops.NotHandled
}
