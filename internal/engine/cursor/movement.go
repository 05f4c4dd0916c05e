package cursor

import (
	"unicode"
	"unicode/utf8"

	"github.com/dshills/scriptedit/internal/engine/buffer"
)

// MoveOperation is a caret motion understood by MovePosition.
type MoveOperation uint8

const (
	NoMove MoveOperation = iota
	Start
	End
	StartOfLine
	EndOfLine
	StartOfBlock
	EndOfBlock
	PreviousCharacter
	NextCharacter
	PreviousWord
	NextWord
	Up
	Down
	PreviousBlock
	NextBlock
)

var moveNames = map[MoveOperation]string{
	NoMove:            "none",
	Start:             "start",
	End:               "end",
	StartOfLine:       "start-of-line",
	EndOfLine:         "end-of-line",
	StartOfBlock:      "start-of-block",
	EndOfBlock:        "end-of-block",
	PreviousCharacter: "previous-character",
	NextCharacter:     "next-character",
	PreviousWord:      "previous-word",
	NextWord:          "next-word",
	Up:                "up",
	Down:              "down",
	PreviousBlock:     "previous-block",
	NextBlock:         "next-block",
}

// String returns the operation name.
func (op MoveOperation) String() string {
	if s, ok := moveNames[op]; ok {
		return s
	}
	return "unknown"
}

// MovePosition applies op n times. It returns false if the motion could
// not be completed, for example Up on the first line; in that case the
// caret is left where the last successful step put it.
func (c *Cursor) MovePosition(op MoveOperation, mode MoveMode, n int) bool {
	if n < 1 {
		n = 1
	}
	doc := c.doc()
	c.tracker.mu.Lock()
	sel, goal := c.sel, c.goal
	c.tracker.mu.Unlock()

	pos := sel.Head
	if op != Up && op != Down {
		goal = -1
	}

	ok := true
	for i := 0; i < n && ok; i++ {
		var next ByteOffset
		next, goal, ok = step(doc, pos, op, goal)
		if ok {
			pos = next
		}
	}

	if mode == KeepAnchor {
		sel = sel.Extend(pos)
	} else {
		sel = sel.MoveTo(pos)
	}
	c.tracker.mu.Lock()
	c.sel = sel
	c.goal = goal
	c.tracker.mu.Unlock()
	return ok
}

func step(doc *buffer.Document, pos ByteOffset, op MoveOperation, goal int) (ByteOffset, int, bool) {
	p := doc.OffsetToPoint(pos)
	switch op {
	case NoMove:
		return pos, goal, true
	case Start:
		return 0, goal, true
	case End:
		return doc.Len(), goal, true
	case StartOfLine, StartOfBlock:
		return doc.LineStart(p.Line), goal, true
	case EndOfLine, EndOfBlock:
		return doc.LineEnd(p.Line), goal, true
	case PreviousCharacter:
		_, size := doc.RuneBefore(pos)
		if size == 0 {
			return pos, goal, false
		}
		return pos - ByteOffset(size), goal, true
	case NextCharacter:
		_, size := doc.RuneAt(pos)
		if size == 0 {
			return pos, goal, false
		}
		return pos + ByteOffset(size), goal, true
	case NextWord:
		if pos >= doc.Len() {
			return pos, goal, false
		}
		return nextWord(doc, pos), goal, true
	case PreviousWord:
		if pos == 0 {
			return pos, goal, false
		}
		return previousWord(doc, pos), goal, true
	case Up, Down:
		target := p.Line - 1
		if op == Down {
			target = p.Line + 1
		}
		if target < 0 || target >= doc.LineCount() {
			return pos, goal, false
		}
		if goal < 0 {
			goal = DisplayColumn(doc.LineText(p.Line), p.Column)
		}
		col := ColumnForDisplay(doc.LineText(target), goal)
		return doc.PointToOffset(buffer.Point{Line: target, Column: col}), goal, true
	case PreviousBlock:
		if p.Line == 0 {
			return pos, goal, false
		}
		return doc.LineStart(p.Line - 1), goal, true
	case NextBlock:
		if p.Line+1 >= doc.LineCount() {
			return pos, goal, false
		}
		return doc.LineStart(p.Line + 1), goal, true
	}
	return pos, goal, false
}

type runeClass uint8

const (
	classSpace runeClass = iota
	classWord
	classPunct
	classBreak
)

func classify(r rune) runeClass {
	switch {
	case r == '\n':
		return classBreak
	case unicode.IsSpace(r):
		return classSpace
	case r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r):
		return classWord
	}
	return classPunct
}

// nextWord moves to the start of the next word: past the run the caret is
// in, then past any blanks. A line break counts as its own stop.
func nextWord(doc *buffer.Document, pos ByteOffset) ByteOffset {
	end := doc.Len()
	r, size := doc.RuneAt(pos)
	cls := classify(r)
	if cls == classBreak {
		pos += ByteOffset(size)
		// land on the first non-blank of the next line
		for pos < end {
			r, size = doc.RuneAt(pos)
			if classify(r) != classSpace {
				break
			}
			pos += ByteOffset(size)
		}
		return pos
	}
	if cls != classSpace {
		for pos < end {
			r, size = doc.RuneAt(pos)
			if classify(r) != cls {
				break
			}
			pos += ByteOffset(size)
		}
	}
	for pos < end {
		r, size = doc.RuneAt(pos)
		if classify(r) != classSpace {
			break
		}
		pos += ByteOffset(size)
	}
	return pos
}

// previousWord moves to the start of the word before the caret.
func previousWord(doc *buffer.Document, pos ByteOffset) ByteOffset {
	start := pos
	for pos > 0 {
		r, size := doc.RuneBefore(pos)
		if classify(r) != classSpace {
			break
		}
		pos -= ByteOffset(size)
	}
	if pos == 0 {
		return 0
	}
	r, size := doc.RuneBefore(pos)
	cls := classify(r)
	if cls == classBreak {
		if pos == start {
			return pos - ByteOffset(size)
		}
		return pos
	}
	for pos > 0 {
		r, size = doc.RuneBefore(pos)
		if classify(r) != cls {
			break
		}
		pos -= ByteOffset(size)
	}
	return pos
}

// DisplayColumn returns the rune count of line[:byteCol].
func DisplayColumn(line string, byteCol int) int {
	if byteCol > len(line) {
		byteCol = len(line)
	}
	return utf8.RuneCountInString(line[:byteCol])
}

// ColumnForDisplay returns the byte column of the display column col,
// clamped to the line end.
func ColumnForDisplay(line string, col int) int {
	i := 0
	for n := 0; n < col && i < len(line); n++ {
		_, size := utf8.DecodeRuneInString(line[i:])
		i += size
	}
	return i
}
