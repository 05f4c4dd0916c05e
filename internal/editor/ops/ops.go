// Package ops implements the compound edits applied at every caret of a
// MultiCaret.
//
// Each operation runs inside one engine edit block, so a multi-caret step
// is a single undo unit whatever the number of carets. Carets are visited
// in order; they are live cursors, so an edit made at one caret shifts the
// others before they are reached.
//
// Operations return Handled or NotHandled. NotHandled means the keystroke
// should fall through to plain editor behaviour and nothing was changed.
package ops

import (
	"fmt"

	"github.com/dshills/scriptedit/internal/editor/multicaret"
	"github.com/dshills/scriptedit/internal/engine"
	"github.com/dshills/scriptedit/internal/engine/buffer"
	"github.com/dshills/scriptedit/internal/engine/cursor"
	"github.com/dshills/scriptedit/internal/log"
)

// DefaultIndentWidth is the indent unit used by backspace and unindent.
const DefaultIndentWidth = 4

// Result is the outcome of an operation.
type Result uint8

const (
	// NotHandled means the operation did not apply.
	NotHandled Result = iota
	// Handled means the operation consumed the keystroke.
	Handled
)

// String returns the result name.
func (r Result) String() string {
	if r == Handled {
		return "handled"
	}
	return "not-handled"
}

// Handled reports whether r is Handled.
func (r Result) Handled() bool {
	return r == Handled
}

// Option configures Ops.
type Option func(*Ops)

// WithIndentWidth sets the indent unit. Values below 1 are ignored.
func WithIndentWidth(width int) Option {
	return func(o *Ops) {
		if width > 0 {
			o.indent = width
		}
	}
}

// Ops applies edits at every caret of a MultiCaret.
type Ops struct {
	eng    *engine.Engine
	carets *multicaret.MultiCaret
	indent int
}

// New creates the edit operations for carets.
func New(carets *multicaret.MultiCaret, opts ...Option) *Ops {
	o := &Ops{
		eng:    carets.Engine(),
		carets: carets,
		indent: DefaultIndentWidth,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// IndentWidth returns the indent unit.
func (o *Ops) IndentWidth() int {
	return o.indent
}

// SetIndentWidth changes the indent unit. Values below 1 are ignored.
func (o *Ops) SetIndentWidth(width int) {
	if width > 0 {
		o.indent = width
	}
}

// Carets returns the carets the operations act on.
func (o *Ops) Carets() *multicaret.MultiCaret {
	return o.carets
}

func (o *Ops) doc() *buffer.Document {
	return o.eng.Document()
}

// block runs fn inside one edit block and merges carets that met.
func (o *Ops) block(name string, fn func() error) error {
	err := o.eng.EditBlock(name, fn)
	o.carets.Merge()
	if err != nil {
		log.ErrorErr(log.CatOps, name+" failed", err, "carets", o.carets.Len())
		return fmt.Errorf("%s: %w", name, err)
	}
	log.Debug(log.CatOps, name, "carets", o.carets.Len())
	return nil
}

// exec runs fn at every caret inside one edit block.
func (o *Ops) exec(name string, fn func(c *cursor.Cursor) error) error {
	return o.block(name, func() error {
		return o.carets.Each(func(_ int, c *cursor.Cursor) error {
			return fn(c)
		})
	})
}

// lineContext returns the caret's line text and its byte column in it.
func (o *Ops) lineContext(c *cursor.Cursor) (string, int) {
	p := o.doc().OffsetToPoint(c.Position())
	return o.doc().LineText(p.Line), p.Column
}
