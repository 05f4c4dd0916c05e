package lua

import (
	"context"
	"testing"

	glua "github.com/yuin/gopher-lua"
)

func TestSandboxInstall(t *testing.T) {
	L := glua.NewState()
	defer L.Close()

	sandbox := NewSandbox(L, nil)
	sandbox.Install()

	for _, fn := range []string{"dofile", "loadfile", "load", "loadstring", "require", "module"} {
		if v := L.GetGlobal(fn); v != glua.LNil {
			t.Errorf("%s should be removed, got %T", fn, v)
		}
		if !Blocked(fn) {
			t.Errorf("Blocked(%q) = false", fn)
		}
	}
	if Blocked("pairs") {
		t.Error("Blocked(pairs) = true")
	}
}

func TestStateLibraries(t *testing.T) {
	state, err := NewState()
	if err != nil {
		t.Fatalf("NewState() error = %v", err)
	}
	defer state.Close()

	closed := []string{"io", "os", "debug", "package", "coroutine", "channel"}
	for _, name := range closed {
		if v := state.GetGlobal(name); v != glua.LNil {
			t.Errorf("%s should not be opened, got %T", name, v)
		}
	}

	tests := []struct {
		name string
		code string
		want glua.LValue
	}{
		{"string", `return string.upper("abc")`, glua.LString("ABC")},
		{"table", `local t = {3, 1, 2}; table.sort(t); return t[1]`, glua.LNumber(1)},
		{"math", `return math.max(2, 7)`, glua.LNumber(7)},
		{"base", `return tostring(#{1, 2, 3})`, glua.LString("3")},
		{"string methods", `return ("x"):rep(3)`, glua.LString("xxx")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			values, err := state.DoString(context.Background(), tt.code)
			if err != nil {
				t.Fatalf("DoString() error = %v", err)
			}
			if len(values) != 1 || values[0] != tt.want {
				t.Errorf("got %v, want %v", values, tt.want)
			}
		})
	}
}

func TestSandboxBlocksLoaders(t *testing.T) {
	state, err := NewState()
	if err != nil {
		t.Fatalf("NewState() error = %v", err)
	}
	defer state.Close()

	for _, code := range []string{
		`dofile("/etc/passwd")`,
		`loadstring("return 1")()`,
		`require("os")`,
	} {
		if _, err := state.DoString(context.Background(), code); err == nil {
			t.Errorf("DoString(%q) should fail", code)
		}
	}
}
