package lua

import (
	"context"
	"errors"
	"fmt"
	"runtime/debug"

	lua "github.com/yuin/gopher-lua"

	"github.com/dshills/scriptedit/internal/editor/keys"
	"github.com/dshills/scriptedit/internal/editor/ops"
	"github.com/dshills/scriptedit/internal/editor/session"
	"github.com/dshills/scriptedit/internal/engine/cursor"
	"github.com/dshills/scriptedit/internal/log"
)

// Runner runs macros against one session.
type Runner struct {
	session *session.Session
	state   *State
	bridge  *Bridge

	// ops is set while a macro runs.
	ops *ops.Ops
}

// NewRunner creates a Runner with a fresh sandboxed state and the editor
// table installed.
func NewRunner(s *session.Session, opts ...StateOption) (*Runner, error) {
	state, err := NewState(opts...)
	if err != nil {
		return nil, err
	}
	r := &Runner{
		session: s,
		state:   state,
		bridge:  NewBridge(state.LuaState()),
	}
	state.RegisterModule("editor", r.editorFuncs())
	return r, nil
}

// State returns the Lua state macros run in.
func (r *Runner) State() *State {
	return r.state
}

// Close releases the Lua state.
func (r *Runner) Close() error {
	return r.state.Close()
}

// Run executes script as one undo unit and returns the values the chunk
// returns, converted to Go. When the script fails its edits are undone.
func (r *Runner) Run(ctx context.Context, name, script string) ([]any, error) {
	eng := r.session.Engine()
	before := eng.Document().Revision()

	var results []any
	err := r.session.Edit("macro:"+name, func(o *ops.Ops) error {
		r.ops = o
		defer func() { r.ops = nil }()

		values, err := r.state.DoString(ctx, script)
		if err != nil {
			return err
		}
		for _, v := range values {
			results = append(results, r.bridge.ToGoValue(v))
		}
		return nil
	})
	if err != nil {
		log.ErrorErr(log.CatLua, "macro failed", err, "macro", name)
		if eng.Document().Revision() != before {
			if _, uerr := r.session.Run(keys.ActionUndo); uerr != nil {
				err = errors.Join(err, fmt.Errorf("rollback: %w", uerr))
			}
		}
		return nil, fmt.Errorf("macro %s: %w", name, err)
	}
	log.Info(log.CatLua, "macro finished", "macro", name, "carets", r.session.Carets().Len())
	return results, nil
}

// editorFuncs is the editor table.
func (r *Runner) editorFuncs() map[string]lua.LGFunction {
	return map[string]lua.LGFunction{
		"insert": r.op("insert", func(L *lua.LState) (ops.Result, error) {
			return r.ops.InsertText(L.CheckString(1))
		}),
		"backspace": r.op("backspace", func(L *lua.LState) (ops.Result, error) {
			return r.ops.DeleteBackward()
		}),
		"delete": r.op("delete", func(L *lua.LState) (ops.Result, error) {
			return r.ops.DeleteForward()
		}),
		"toggle_comment": r.op("toggle_comment", func(L *lua.LState) (ops.Result, error) {
			prefix := L.OptString(1, session.CommentPrefix(r.session.Kind()))
			return r.ops.ToggleLineComment(prefix)
		}),
		"unindent": r.op("unindent", func(L *lua.LState) (ops.Result, error) {
			return r.ops.Unindent()
		}),
		"duplicate": r.op("duplicate", func(L *lua.LState) (ops.Result, error) {
			return r.ops.DuplicateLines()
		}),
		"move_up": r.op("move_up", func(L *lua.LState) (ops.Result, error) {
			return r.ops.MoveLines(ops.Up)
		}),
		"move_down": r.op("move_down", func(L *lua.LState) (ops.Result, error) {
			return r.ops.MoveLines(ops.Down)
		}),
		"embrace": r.op("embrace", func(L *lua.LState) (ops.Result, error) {
			open := L.CheckString(1)
			if len(open) != 1 {
				L.ArgError(1, "expected one character")
			}
			closer, ok := ops.CloserOf(open[0])
			if !ok {
				L.ArgError(1, fmt.Sprintf("%q has no closing character", open))
			}
			return r.ops.Embrace(open[0], closer)
		}),
		"add_caret_above": r.wrap("add_caret_above", func(L *lua.LState) (int, error) {
			L.Push(lua.LBool(r.session.Carets().AddAbove()))
			return 1, nil
		}),
		"add_caret_below": r.wrap("add_caret_below", func(L *lua.LState) (int, error) {
			L.Push(lua.LBool(r.session.Carets().AddBelow()))
			return 1, nil
		}),
		"move_to": r.wrap("move_to", func(L *lua.LState) (int, error) {
			off, err := r.offset(L, 1)
			if err != nil {
				return 0, err
			}
			r.session.Carets().CollapseTo(off)
			return 0, nil
		}),
		"select": r.wrap("select", func(L *lua.LState) (int, error) {
			anchor, err := r.offset(L, 1)
			if err != nil {
				return 0, err
			}
			head, err := r.offset(L, 2)
			if err != nil {
				return 0, err
			}
			carets := r.session.Carets()
			carets.Collapse()
			carets.Primary().SetSelection(cursor.Selection{Anchor: anchor, Head: head})
			return 0, nil
		}),
		"text": r.wrap("text", func(L *lua.LState) (int, error) {
			eng := r.session.Engine()
			if L.GetTop() == 0 {
				L.Push(lua.LString(eng.Text()))
				return 1, nil
			}
			start, err := r.offset(L, 1)
			if err != nil {
				return 0, err
			}
			end, err := r.offset(L, 2)
			if err != nil {
				return 0, err
			}
			if end < start {
				start, end = end, start
			}
			L.Push(lua.LString(eng.TextRange(start, end)))
			return 1, nil
		}),
		"carets": r.wrap("carets", func(L *lua.LState) (int, error) {
			L.Push(r.bridge.ToLuaValue(r.session.Carets().Selections()))
			return 1, nil
		}),
		"run": r.op("run", func(L *lua.LState) (ops.Result, error) {
			return r.session.Keys().Run(L.CheckString(1))
		}),
	}
}

// wrap adapts f to a Lua function. Go errors and panics raised by f become
// Lua errors; errors raised by the Lua state itself pass through.
func (r *Runner) wrap(name string, f func(L *lua.LState) (int, error)) lua.LGFunction {
	return func(L *lua.LState) int {
		if r.ops == nil {
			L.RaiseError("editor.%s: no macro is running", name)
			return 0
		}
		n, err := r.call(name, L, f)
		if err != nil {
			L.RaiseError("editor.%s: %s", name, err.Error())
			return 0
		}
		return n
	}
}

func (r *Runner) call(name string, L *lua.LState, f func(L *lua.LState) (int, error)) (n int, err error) {
	defer func() {
		if p := recover(); p != nil {
			if apiErr, ok := p.(*lua.ApiError); ok {
				panic(apiErr)
			}
			log.Error(log.CatLua, "callback panicked", "func", name, "panic", p, "stack", string(debug.Stack()))
			err = fmt.Errorf("panic: %v", p)
		}
	}()
	return f(L)
}

// op adapts an edit operation; Lua sees whether it was handled.
func (r *Runner) op(name string, f func(L *lua.LState) (ops.Result, error)) lua.LGFunction {
	return r.wrap(name, func(L *lua.LState) (int, error) {
		res, err := f(L)
		if err != nil {
			return 0, err
		}
		L.Push(lua.LBool(res == ops.Handled))
		return 1, nil
	})
}

// offset reads argument n as a document offset.
func (r *Runner) offset(L *lua.LState, n int) (cursor.ByteOffset, error) {
	off := cursor.ByteOffset(L.CheckInt64(n))
	if off < 0 || off > r.session.Engine().Len() {
		return 0, fmt.Errorf("%w: %d", ErrOffsetOutOfRange, off)
	}
	return off, nil
}
