package main

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"

	"github.com/dshills/scriptedit/internal/renderer/highlight"
	"github.com/dshills/scriptedit/internal/renderer/palette"
)

// execute runs the CLI with args, isolated from the user's config.
func execute(t *testing.T, args ...string) (stdout, stderr string, err error) {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	cmd, g := newRootCmd()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err = cmd.ExecuteContext(context.Background())
	require.NoError(t, g.teardown())
	return out.String(), errOut.String(), err
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestVersion(t *testing.T) {
	out, _, err := execute(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "scriptedit dev")
}

func TestHighlightPlain(t *testing.T) {
	src := "def f():\n    return 1\n"
	path := writeFile(t, "a.py", src)

	out, _, err := execute(t, "highlight", "--color", "never", path)
	require.NoError(t, err)
	assert.Equal(t, src, out)
}

func TestHighlightLineNumbers(t *testing.T) {
	path := writeFile(t, "a.mel", "proc f() {}\n")

	out, _, err := execute(t, "highlight", "--color", "never", "-n", path)
	require.NoError(t, err)
	assert.Equal(t, "1 proc f() {}\n", out)
}

func TestHighlightColour(t *testing.T) {
	path := writeFile(t, "a.py", "def f():\n")

	out, _, err := execute(t, "highlight", "--color", "always", path)
	require.NoError(t, err)
	assert.Contains(t, out, "\x1b[")
}

func TestHighlightErrors(t *testing.T) {
	path := writeFile(t, "a.py", "x\n")

	_, _, err := execute(t, "highlight", "--lang", "cobol", path)
	assert.True(t, errors.Is(err, highlight.ErrUnknownLanguage), "got %v", err)

	_, _, err = execute(t, "highlight", "--theme", "nope", path)
	assert.True(t, errors.Is(err, palette.ErrThemeNotFound), "got %v", err)

	_, _, err = execute(t, "highlight", "--color", "sometimes", path)
	assert.Error(t, err)

	_, _, err = execute(t, "highlight", filepath.Join(t.TempDir(), "missing.py"))
	assert.Error(t, err)
}

func TestThemesList(t *testing.T) {
	out, _, err := execute(t, "themes", "list", "python")
	require.NoError(t, err)
	assert.Equal(t, "python: default\n", out)

	out, _, err = execute(t, "themes", "list", "--chroma")
	require.NoError(t, err)
	assert.Contains(t, out, "monokai")
}

func TestThemesShow(t *testing.T) {
	out, _, err := execute(t, "themes", "show", "--color", "never", "log", "default")
	require.NoError(t, err)
	assert.Contains(t, out, "log/default")
	assert.Contains(t, out, "traceback")
}

func TestThemesExport(t *testing.T) {
	out, _, err := execute(t, "themes", "export", "python", "default", "--set", "keyword=255,0,0")
	require.NoError(t, err)
	require.True(t, gjson.Valid(out), out)
	var got []int64
	for _, v := range gjson.Get(out, "keyword").Array() {
		got = append(got, v.Int())
	}
	assert.Equal(t, []int64{255, 0, 0}, got)

	_, _, err = execute(t, "themes", "export", "python", "default", "--set", "flags=1,2,3")
	assert.True(t, errors.Is(err, palette.ErrUnknownAttribute), "got %v", err)

	_, _, err = execute(t, "themes", "export", "python", "default", "--set", "keyword")
	assert.Error(t, err)
}

func TestThemesExportSave(t *testing.T) {
	dir := t.TempDir()
	out, _, err := execute(t, "--theme-dir", dir, "themes", "export", "mel", "default",
		"--as", "warm", "--set", "string=#e0c080", "--save")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "mel", "warm.json")+"\n", out)

	out, _, err = execute(t, "--theme-dir", dir, "themes", "list", "mel")
	require.NoError(t, err)
	assert.Equal(t, "mel: default warm\n", out)
}

func TestThemesSeed(t *testing.T) {
	out, _, err := execute(t, "themes", "seed", "python", "monokai")
	require.NoError(t, err)
	require.True(t, gjson.Valid(out), out)
	assert.True(t, gjson.Get(out, "keyword").IsArray())

	_, _, err = execute(t, "themes", "seed", "python", "monokai", "--format", "toml")
	assert.Error(t, err)
}

func TestMacroRun(t *testing.T) {
	script := writeFile(t, "comment.lua", `
		editor.add_caret_below()
		editor.insert("# ")
		print("carets", #editor.carets())
	`)
	path := writeFile(t, "a.py", "a\nb\n")

	out, errOut, err := execute(t, "macro", "run", script, path)
	require.NoError(t, err)
	assert.Equal(t, "# a\n# b\n", out)
	assert.Equal(t, "carets\t2\n", errOut)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "a\nb\n", string(data))
}

func TestMacroRunWrite(t *testing.T) {
	script := writeFile(t, "dup.lua", `editor.duplicate()`)
	path := writeFile(t, "a.mel", "print 1;\n")

	out, _, err := execute(t, "macro", "run", "-w", script, path)
	require.NoError(t, err)
	assert.Empty(t, out)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "print 1;\nprint 1;\n", string(data))
}

func TestMacroRunFailure(t *testing.T) {
	script := writeFile(t, "bad.lua", `editor.insert("x"); error("boom")`)
	path := writeFile(t, "a.py", "a\n")

	_, _, err := execute(t, "macro", "run", "-w", script, path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "boom")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "a\n", string(data))
}

func TestInvalidLogLevel(t *testing.T) {
	_, _, err := execute(t, "--log-level", "loud", "version")
	assert.Error(t, err)
}
