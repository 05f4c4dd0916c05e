package ansi

import (
	"bytes"
	"strings"
	"testing"

	"github.com/muesli/termenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/scriptedit/internal/engine/buffer"
	"github.com/dshills/scriptedit/internal/renderer/core"
)

type styles map[string]core.Style

func (s styles) Style(id string) core.Style {
	if st, ok := s[id]; ok {
		return st
	}
	return s.Normal()
}

func (s styles) Normal() core.Style { return s["normal"] }

var testStyles = styles{
	"normal":  core.NewStyle(core.RGB(200, 200, 200)),
	"keyword": core.NewStyle(core.RGB(255, 0, 0)).Bold(),
}

func TestLinePlain(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf, testStyles, WithProfile(termenv.Ascii))

	spans := []buffer.Span{{Start: 0, Length: 3, Style: "keyword"}}
	assert.Equal(t, "def f():", p.Line("def f():", spans))
	assert.Equal(t, "x", p.Line("x", nil))
	assert.Equal(t, "", p.Line("", nil))
}

func TestLineColours(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf, testStyles, WithProfile(termenv.TrueColor))

	out := p.Line("def f", []buffer.Span{{Start: 0, Length: 3, Style: "keyword"}})
	assert.Contains(t, out, "38;2;255;0;0")
	assert.Contains(t, out, "38;2;200;200;200")
	assert.Contains(t, out, "def")
}

func TestLineClipsSpans(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf, testStyles, WithProfile(termenv.Ascii))

	spans := []buffer.Span{
		{Start: 0, Length: 2, Style: "keyword"},
		{Start: 1, Length: 10, Style: "keyword"},
	}
	assert.Equal(t, "abc", p.Line("abc", spans))
}

func TestPrintLineNumbers(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf, testStyles, WithProfile(termenv.Ascii), WithLineNumbers(true))

	lines := make([]string, 10)
	for i := range lines {
		lines[i] = "x"
	}
	require.NoError(t, p.Print(lines, nil))
	got := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")
	require.Len(t, got, 10)
	assert.Equal(t, " 1 x", got[0])
	assert.Equal(t, "10 x", got[9])
}

func TestSwatch(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf, testStyles, WithProfile(termenv.TrueColor))

	out := p.Swatch("keyword", core.RGB(1, 2, 3))
	assert.Contains(t, out, "48;2;1;2;3")
	assert.True(t, strings.HasSuffix(out, " keyword"))
}
