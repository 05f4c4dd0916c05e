// Package ansi prints highlighted text as ANSI escape sequences for
// terminals that are not driven by the editor, such as a pager or a pipe.
package ansi

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"github.com/dshills/scriptedit/internal/engine/buffer"
	"github.com/dshills/scriptedit/internal/renderer/core"
)

// StyleResolver turns span style IDs into drawing styles.
type StyleResolver interface {
	Style(styleID string) core.Style
	Normal() core.Style
}

// Option configures a Printer.
type Option func(*Printer)

// WithProfile forces a colour profile instead of detecting it from the
// writer.
func WithProfile(p termenv.Profile) Option {
	return func(pr *Printer) { pr.r.SetColorProfile(p) }
}

// WithLineNumbers prefixes each line with its 1-based number.
func WithLineNumbers(on bool) Option {
	return func(pr *Printer) { pr.lineNumbers = on }
}

// WithBackground paints the normal background behind the text.
func WithBackground(on bool) Option {
	return func(pr *Printer) { pr.background = on }
}

// WithTabWidth sets how many columns a tab expands to.
func WithTabWidth(n int) Option {
	return func(pr *Printer) {
		if n > 0 {
			pr.tabWidth = n
		}
	}
}

// Printer writes highlighted lines.
type Printer struct {
	w      io.Writer
	r      *lipgloss.Renderer
	styles StyleResolver

	tabWidth    int
	lineNumbers bool
	background  bool
}

// NewPrinter creates a Printer writing to w.
func NewPrinter(w io.Writer, styles StyleResolver, opts ...Option) *Printer {
	p := &Printer{
		w:        w,
		r:        lipgloss.NewRenderer(w),
		styles:   styles,
		tabWidth: 4,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Plain reports whether the output carries no escape sequences.
func (p *Printer) Plain() bool {
	return p.r.ColorProfile() == termenv.Ascii
}

// Convert returns the lipgloss style drawing s. On a plain output it
// only expands tabs.
func (p *Printer) Convert(s core.Style) lipgloss.Style {
	ls := p.r.NewStyle().TabWidth(p.tabWidth)
	if p.Plain() {
		return ls
	}
	if !s.Foreground.IsDefault() {
		ls = ls.Foreground(lipgloss.Color(s.Foreground.Hex()))
	}
	if p.background && !s.Background.IsDefault() {
		ls = ls.Background(lipgloss.Color(s.Background.Hex()))
	}
	return ls.
		Bold(s.Attributes.Has(core.AttrBold)).
		Italic(s.Attributes.Has(core.AttrItalic)).
		Underline(s.Attributes.Has(core.AttrUnderline)).
		Faint(s.Attributes.Has(core.AttrDim)).
		Reverse(s.Attributes.Has(core.AttrReverse))
}

// Line renders one line. Text outside the spans uses the normal style.
// Spans must be sorted and carry byte columns.
func (p *Printer) Line(line string, spans []buffer.Span) string {
	normal := p.styles.Normal()
	var sb strings.Builder
	col := 0
	for _, sp := range spans {
		start := min(max(sp.Start, col), len(line))
		end := min(sp.Start+sp.Length, len(line))
		if start > col {
			sb.WriteString(p.Convert(normal).Render(line[col:start]))
		}
		if end > start {
			st := p.styles.Style(sp.Style)
			if st.Background.IsDefault() {
				st.Background = normal.Background
			}
			sb.WriteString(p.Convert(st).Render(line[start:end]))
			col = end
		}
	}
	if col < len(line) {
		sb.WriteString(p.Convert(normal).Render(line[col:]))
	}
	return sb.String()
}

// Print writes every line followed by a newline.
func (p *Printer) Print(lines []string, spans [][]buffer.Span) error {
	width := len(fmt.Sprint(len(lines)))
	gutter := p.Convert(p.styles.Normal())
	if !p.Plain() {
		gutter = gutter.Faint(true)
	}
	for i, line := range lines {
		var s []buffer.Span
		if i < len(spans) {
			s = spans[i]
		}
		if p.lineNumbers {
			if _, err := io.WriteString(p.w, gutter.Render(fmt.Sprintf("%*d ", width, i+1))); err != nil {
				return err
			}
		}
		if _, err := io.WriteString(p.w, p.Line(line, s)+"\n"); err != nil {
			return err
		}
	}
	return nil
}

// Swatch renders a block of colour c followed by label.
func (p *Printer) Swatch(label string, c core.Color) string {
	block := p.r.NewStyle().Background(lipgloss.Color(c.Hex())).Render("    ")
	return block + " " + label
}
