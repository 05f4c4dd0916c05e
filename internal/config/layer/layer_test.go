package layer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/scriptedit/internal/config/loader"
)

func TestPrecedence(t *testing.T) {
	m := NewManager()
	m.Set(New(SourceFlags, "", map[string]any{"editor": map[string]any{"indent_width": int64(8)}}))
	m.Set(New(SourceBuiltin, "", map[string]any{"editor": map[string]any{"indent_width": int64(4), "max_line_length": int64(80)}}))
	m.Set(New(SourceTOML, "/etc/s.toml", map[string]any{"editor": map[string]any{"indent_width": int64(2), "max_line_length": int64(100)}}))

	merged := m.Merge()
	v, _ := loader.GetByPath(merged, "editor.indent_width")
	assert.Equal(t, int64(8), v)
	v, _ = loader.GetByPath(merged, "editor.max_line_length")
	assert.Equal(t, int64(100), v)

	assert.Equal(t, "flags", m.WhichLayer("editor.indent_width"))
	assert.Equal(t, "/etc/s.toml", m.WhichLayer("editor.max_line_length"))
	assert.Equal(t, "", m.WhichLayer("theme.name"))

	sources := []Source{}
	for _, l := range m.Layers() {
		sources = append(sources, l.Source)
	}
	assert.Equal(t, []Source{SourceBuiltin, SourceTOML, SourceFlags}, sources)
}

func TestSetReplacesSource(t *testing.T) {
	m := NewManager()
	m.Set(New(SourceEnv, "", map[string]any{"theme": map[string]any{"name": "a"}}))
	m.Set(New(SourceEnv, "", map[string]any{"theme": map[string]any{"name": "b"}}))
	require.Len(t, m.Layers(), 1)

	v, l, ok := m.Get("theme.name")
	require.True(t, ok)
	assert.Equal(t, "b", v)
	assert.Equal(t, SourceEnv, l.Source)

	assert.True(t, m.Remove(SourceEnv))
	assert.False(t, m.Remove(SourceEnv))
	assert.Empty(t, m.Merge())
}

func TestMergeReturnsCopy(t *testing.T) {
	m := NewManager()
	m.Set(New(SourceBuiltin, "", map[string]any{"theme": map[string]any{"name": "default"}}))

	merged := m.Merge()
	loader.SetByPath(merged, "theme.name", "changed")

	v, _ := loader.GetByPath(m.Merge(), "theme.name")
	assert.Equal(t, "default", v)
}

func TestSourceNames(t *testing.T) {
	assert.Equal(t, "yaml", SourceYAML.String())
	assert.Less(t, SourceYAML.Priority(), SourceEnv.Priority())
	assert.Equal(t, "toml", New(SourceTOML, "", nil).Name())
}
