package highlight

import (
	"unicode"

	"github.com/dshills/scriptedit/internal/engine/buffer"
)

// delimiters is the ordered delimiter table of a language. The block state
// of a line is an index into docstring opens, then string quotes, then
// comment markers; when two delimiters start at the same column the one
// listed first wins.
type delimiters struct {
	docOpen  []string
	docClose []string
	str      []string
	comment  []string

	all [][]rune
}

func newDelimiters(docOpen, docClose, str, comment []string) delimiters {
	d := delimiters{docOpen: docOpen, docClose: docClose, str: str, comment: comment}
	for _, set := range [][]string{docOpen, str, comment} {
		for _, s := range set {
			d.all = append(d.all, []rune(s))
		}
	}
	return d
}

func (d delimiters) isDoc(state int) bool {
	return state >= 0 && state < len(d.docOpen)
}

func (d delimiters) isStr(state int) bool {
	return state >= len(d.docOpen) && state < len(d.docOpen)+len(d.str)
}

func (d delimiters) isComment(state int) bool {
	n := len(d.docOpen) + len(d.str)
	return state >= n && state < n+len(d.comment)
}

func (d delimiters) valid(state int) bool {
	return state >= 0 && state < len(d.all)
}

// closer returns the delimiter that ends state.
func (d delimiters) closer(state int) []rune {
	if d.isDoc(state) {
		return []rune(d.docClose[state])
	}
	return d.all[state]
}

// firstComment returns the first comment marker at or after from, or -1.
func (d delimiters) firstComment(line []rune, from int) int {
	best := -1
	for _, c := range d.comment {
		if p := indexRunes(line, []rune(c), from); p >= 0 && (best < 0 || p < best) {
			best = p
		}
	}
	return best
}

// scan resolves strings, docstrings and comments on line, starting from the
// incoming block state, and returns the outgoing state.
func (d delimiters) scan(line []rune, incoming int, styles multilineStyles, c *canvas) int {
	state := incoming
	if !d.valid(state) || d.isComment(state) {
		state = buffer.NoState
	}
	n := len(line)
	start, pos := 0, 0

	for pos < n {
		if state == buffer.NoState {
			best, which := -1, -1
			for i, delim := range d.all {
				if p := indexRunes(line, delim, pos); p >= 0 && (best < 0 || p < best) {
					best, which = p, i
				}
			}
			if best < 0 {
				break
			}
			pos = best
			if isEscaped(line, pos) {
				pos++
				continue
			}
			if d.isComment(which) {
				c.setFormat(pos, n-pos, styles.comment)
				return buffer.NoState
			}
			state = which
			start = pos
			pos += len(d.all[which])
			continue
		}

		closer := d.closer(state)
		next := indexRunes(line, closer, pos)
		if next < 0 {
			// a string continued by a backslash right before a comment
			if d.isStr(state) {
				if cp := d.firstComment(line, pos); cp > 0 && lastUtilChar(line, cp) == '\\' {
					paintString(line, start, cp-1-start, styles, c)
					c.setFormat(cp, n-cp, styles.comment)
					return state
				}
			}
			break
		}
		if isEscaped(line, next) {
			paintString(line, start, next-start, styles, c)
			pos = next + 1
			continue
		}
		paintString(line, start, next+len(closer)-start-1, styles, c)
		state = buffer.NoState
		pos = next + len(closer)
	}

	switch {
	case state == buffer.NoState:
		return state
	case d.isStr(state):
		if n > 0 && line[n-1] == '\\' && !isEscaped(line, n-1) {
			paintString(line, start, n-start-1, styles, c)
			c.setFormat(n-1, 1, styles.special)
			return state
		}
		// unterminated single-line string: painted, not propagated
		paintString(line, start, n-start-1, styles, c)
		return buffer.NoState
	default:
		paintString(line, start, n-start-1, styles, c)
		return state
	}
}

type multilineStyles struct {
	str     string
	special string
	comment string
}

// paintString paints line[start:start+count] inclusive. Blanks keep their
// style; an escaped rune and its backslash get the special style.
func paintString(line []rune, start, count int, styles multilineStyles, c *canvas) {
	for i := start; i <= start+count; i++ {
		if i < 0 || i >= len(line) || unicode.IsSpace(line[i]) {
			continue
		}
		if isEscaped(line, i) {
			c.setFormat(i-1, 2, styles.special)
		} else {
			c.setFormat(i, 1, styles.str)
		}
	}
}

// isEscaped reports whether an odd number of backslashes precede pos.
func isEscaped(line []rune, pos int) bool {
	escaped := false
	for pos > 0 && line[pos-1] == '\\' {
		escaped = !escaped
		pos--
	}
	return escaped
}

// lastUtilChar returns the last non-blank rune before pos, or 0 if there is
// none or it is escaped.
func lastUtilChar(line []rune, pos int) rune {
	for i := pos - 1; i >= 0; i-- {
		if unicode.IsSpace(line[i]) {
			continue
		}
		if isEscaped(line, i) {
			return 0
		}
		return line[i]
	}
	return 0
}

func indexRunes(line, sub []rune, from int) int {
	if len(sub) == 0 {
		return -1
	}
	for i := from; i+len(sub) <= len(line); i++ {
		if line[i] != sub[0] {
			continue
		}
		match := true
		for j := 1; j < len(sub); j++ {
			if line[i+j] != sub[j] {
				match = false
				break
			}
		}
		if match {
			return i
		}
	}
	return -1
}
