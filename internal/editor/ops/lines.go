package ops

import (
	"cmp"
	"slices"
	"strings"

	"github.com/dshills/scriptedit/internal/engine/buffer"
	"github.com/dshills/scriptedit/internal/engine/cursor"
)

// Direction is the direction lines are moved in.
type Direction int8

const (
	Up   Direction = -1
	Down Direction = 1
)

// String returns "up" or "down".
func (d Direction) String() string {
	if d == Up {
		return "up"
	}
	return "down"
}

// lineGroup is a run of whole lines touched by one or more carets. Carets
// whose lines overlap share a group, so each line is edited once.
type lineGroup struct {
	carets []*cursor.Cursor
}

// bounds returns the group's first and last line as they are now.
func (g lineGroup) bounds(doc *buffer.Document) (first, last int) {
	first, last = -1, -1
	for _, c := range g.carets {
		sel := c.Selection()
		f, l := doc.LineAt(sel.Start()), doc.LineAt(sel.End())
		if first < 0 || f < first {
			first = f
		}
		last = max(last, l)
	}
	return first, last
}

func (o *Ops) lineGroups() []lineGroup {
	doc := o.doc()
	type span struct {
		first, last int
		c           *cursor.Cursor
	}
	var spans []span
	for _, c := range o.carets.Carets() {
		sel := c.Selection()
		spans = append(spans, span{doc.LineAt(sel.Start()), doc.LineAt(sel.End()), c})
	}
	slices.SortStableFunc(spans, func(a, b span) int { return cmp.Compare(a.first, b.first) })

	var groups []lineGroup
	last := -1
	for _, s := range spans {
		if len(groups) > 0 && s.first <= last {
			g := &groups[len(groups)-1]
			g.carets = append(g.carets, s.c)
			last = max(last, s.last)
			continue
		}
		groups = append(groups, lineGroup{carets: []*cursor.Cursor{s.c}})
		last = s.last
	}
	return groups
}

// caretPoint is a caret's anchor and head relative to the first line of
// its group.
type caretPoint struct {
	c            *cursor.Cursor
	anchor, head buffer.Point
}

func (o *Ops) capture(g lineGroup, first int) []caretPoint {
	doc := o.doc()
	points := make([]caretPoint, len(g.carets))
	for i, c := range g.carets {
		sel := c.Selection()
		a, h := doc.OffsetToPoint(sel.Anchor), doc.OffsetToPoint(sel.Head)
		a.Line -= first
		h.Line -= first
		points[i] = caretPoint{c: c, anchor: a, head: h}
	}
	return points
}

// restore puts captured carets back with their group now starting at
// first. mapCol adjusts a column on a given relative line.
func (o *Ops) restore(points []caretPoint, first int, mapCol func(rel, col int) int) {
	doc := o.doc()
	at := func(p buffer.Point) buffer.ByteOffset {
		col := p.Column
		if mapCol != nil {
			col = mapCol(p.Line, col)
		}
		return doc.PointToOffset(buffer.Point{Line: first + p.Line, Column: col})
	}
	for _, p := range points {
		p.c.SetSelection(cursor.NewSelection(at(p.anchor), at(p.head)))
	}
}

func (o *Ops) linesText(first, last int) string {
	doc := o.doc()
	return doc.TextRange(doc.LineStart(first), doc.LineEnd(last))
}

func (o *Ops) replaceLines(first, last int, text string) error {
	doc := o.doc()
	_, err := o.eng.Replace(doc.LineStart(first), doc.LineEnd(last), text)
	return err
}

// eachGroup runs fn for every line group inside one edit block. Groups are
// visited top to bottom, or bottom to top when reverse is set.
func (o *Ops) eachGroup(name string, reverse bool, fn func(g lineGroup) error) error {
	groups := o.lineGroups()
	if reverse {
		slices.Reverse(groups)
	}
	return o.block(name, func() error {
		for _, g := range groups {
			if err := fn(g); err != nil {
				return err
			}
		}
		return nil
	})
}

// IsBlank reports whether line is empty or whitespace only.
func IsBlank(line string) bool {
	return strings.TrimSpace(line) == ""
}

func indentOf(line string) int {
	return len(line) - len(strings.TrimLeft(line, " \t"))
}

// MinIndent returns the smallest indent among the non-blank lines, and
// how many non-blank lines there are.
func MinIndent(lines []string) (indent, count int) {
	indent = -1
	for _, l := range lines {
		if IsBlank(l) {
			continue
		}
		count++
		if n := indentOf(l); indent < 0 || n < indent {
			indent = n
		}
	}
	return max(indent, 0), count
}

// ToggleComment comments or uncomments lines at their common indent. If
// every non-blank line has prefix at that column it is removed, otherwise
// it is inserted on every non-blank line. Blank lines are left alone.
func ToggleComment(lines []string, prefix string) (out []string, inserted bool, column int) {
	column, count := MinIndent(lines)
	if count == 0 {
		return slices.Clone(lines), false, 0
	}
	for _, l := range lines {
		if !IsBlank(l) && !strings.HasPrefix(l[column:], prefix) {
			inserted = true
			break
		}
	}
	out = make([]string, len(lines))
	for i, l := range lines {
		switch {
		case IsBlank(l):
			out[i] = l
		case inserted:
			out[i] = l[:column] + prefix + l[column:]
		default:
			out[i] = l[:column] + l[column+len(prefix):]
		}
	}
	return out, inserted, column
}

// ToggleLineComment toggles prefix on the whole lines under every caret
// and keeps each selection on the same text.
func (o *Ops) ToggleLineComment(prefix string) (Result, error) {
	if prefix == "" {
		return NotHandled, nil
	}
	n := len(prefix)
	err := o.eachGroup("toggle-comment", false, func(g lineGroup) error {
		first, last := g.bounds(o.doc())
		lines := strings.Split(o.linesText(first, last), "\n")
		out, inserted, column := ToggleComment(lines, prefix)
		if slices.Equal(out, lines) {
			return nil
		}
		points := o.capture(g, first)
		if err := o.replaceLines(first, last, strings.Join(out, "\n")); err != nil {
			return err
		}
		o.restore(points, first, func(rel, col int) int {
			if rel < 0 || rel >= len(lines) || IsBlank(lines[rel]) {
				return col
			}
			switch {
			case inserted && col >= column:
				return col + n
			case !inserted && col >= column+n:
				return col - n
			case !inserted && col > column:
				return column
			}
			return col
		})
		return nil
	})
	return Handled, err
}

// unindentLine returns line with one indent level removed and the number
// of bytes removed. Lines shorter than three bytes are left alone.
func unindentLine(line string, width int) (string, int) {
	if len(line) < 3 {
		return line, 0
	}
	if line[0] == '\t' {
		return line[1:], 1
	}
	if strings.HasPrefix(line, strings.Repeat(" ", width)) {
		return line[width:], width
	}
	return line, 0
}

// Unindent removes one indent level, a tab or a full indent of spaces,
// from every line under every caret.
func (o *Ops) Unindent() (Result, error) {
	err := o.eachGroup("unindent", false, func(g lineGroup) error {
		first, last := g.bounds(o.doc())
		lines := strings.Split(o.linesText(first, last), "\n")
		removed := make([]int, len(lines))
		changed := false
		for i, l := range lines {
			lines[i], removed[i] = unindentLine(l, o.indent)
			changed = changed || removed[i] > 0
		}
		if !changed {
			return nil
		}
		points := o.capture(g, first)
		if err := o.replaceLines(first, last, strings.Join(lines, "\n")); err != nil {
			return err
		}
		o.restore(points, first, func(rel, col int) int {
			if rel < 0 || rel >= len(removed) {
				return col
			}
			return max(col-removed[rel], 0)
		})
		return nil
	})
	return Handled, err
}

// DuplicateLines inserts a copy of the lines under every caret right
// below them. Carets sharing a line produce one copy, and every caret
// stays on the original text.
func (o *Ops) DuplicateLines() (Result, error) {
	err := o.eachGroup("duplicate", false, func(g lineGroup) error {
		first, last := g.bounds(o.doc())
		text := o.linesText(first, last)
		points := o.capture(g, first)
		if _, err := o.eng.Insert(o.doc().LineEnd(last), "\n"+text); err != nil {
			return err
		}
		o.restore(points, first, nil)
		return nil
	})
	return Handled, err
}

// MoveLines moves the lines under every caret one line up or down,
// keeping each selection's shape. If any group of lines is already at the
// document edge nothing moves and NotHandled is returned.
func (o *Ops) MoveLines(dir Direction) (Result, error) {
	doc := o.doc()
	for _, g := range o.lineGroups() {
		first, last := g.bounds(doc)
		if (dir == Up && first == 0) || (dir == Down && last >= doc.LineCount()-1) {
			return NotHandled, nil
		}
	}

	err := o.eachGroup("move-lines-"+dir.String(), dir == Down, func(g lineGroup) error {
		first, last := g.bounds(doc)
		text := o.linesText(first, last)
		points := o.capture(g, first)

		var err error
		if dir == Up {
			above := doc.LineText(first - 1)
			err = o.replaceLines(first-1, last, text+"\n"+above)
		} else {
			below := doc.LineText(last + 1)
			err = o.replaceLines(first, last+1, below+"\n"+text)
		}
		if err != nil {
			return err
		}
		o.restore(points, first+int(dir), nil)
		return nil
	})
	return Handled, err
}
