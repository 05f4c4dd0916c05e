package highlight

import (
	"unicode/utf8"

	"github.com/dshills/scriptedit/internal/engine/buffer"
)

// canvas holds one style per rune of a line. Later paints overwrite
// earlier ones.
type canvas struct {
	styles []string
}

func newCanvas(n int) *canvas {
	return &canvas{styles: make([]string, n)}
}

// setFormat paints count runes from start, clipped to the line.
func (c *canvas) setFormat(start, count int, style string) {
	if start < 0 {
		count += start
		start = 0
	}
	end := start + count
	if end > len(c.styles) {
		end = len(c.styles)
	}
	for i := start; i < end; i++ {
		c.styles[i] = style
	}
}

func (c *canvas) clear() {
	for i := range c.styles {
		c.styles[i] = ""
	}
}

// spans merges equal neighbours into spans with byte columns of line.
func (c *canvas) spans(line string) []buffer.Span {
	var out []buffer.Span
	col, i := 0, 0
	for i < len(c.styles) {
		style := c.styles[i]
		start := col
		for i < len(c.styles) && c.styles[i] == style {
			_, size := utf8.DecodeRuneInString(line[col:])
			col += size
			i++
		}
		if style != "" {
			out = append(out, buffer.Span{Start: start, Length: col - start, Style: style})
		}
	}
	return out
}
