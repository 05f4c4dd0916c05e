// Package lua runs editing macros written in Lua.
//
// A macro is a Lua chunk run against one editing session. It sees a
// global editor table whose functions drive the multi-caret edit
// operations:
//
//	editor.add_caret_below()
//	editor.insert("# ")
//	editor.move_to(0)
//	editor.select(0, 3)
//	print(editor.text(0, 3))
//
// Offsets are zero-based byte offsets into the document. A macro runs as
// one undo unit; a macro that fails is rolled back.
//
// # State
//
// State wraps a gopher-lua state with only the base, table, string and
// math libraries opened. The Sandbox removes the base functions that
// load code from disk or strings, and redirects print to a writer.
// Execution is bounded by a context and a default timeout:
//
//	state, err := lua.NewState(lua.WithExecutionTimeout(time.Second))
//	if err != nil {
//	    return err
//	}
//	defer state.Close()
//	values, err := state.DoString(ctx, "return 1 + 1")
//
// # Bridge
//
// Bridge converts between Go and Lua values, including the caret
// selection tables the editor functions exchange.
package lua
