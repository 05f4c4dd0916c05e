package buffer

import (
	"errors"
	"io"
	"strings"
	"sync"
	"unicode/utf8"
)

// Errors returned by document operations.
var (
	ErrOffsetOutOfRange = errors.New("offset out of range")
	ErrRangeInvalid     = errors.New("invalid range")
)

// LineEnding specifies the line ending style used when writing a document.
// Internally lines are always separated by "\n".
type LineEnding uint8

const (
	LineEndingLF   LineEnding = iota // Unix: \n
	LineEndingCRLF                   // Windows: \r\n
	LineEndingCR                     // Old Mac: \r
)

// String returns the escaped representation of the line ending.
func (le LineEnding) String() string {
	switch le {
	case LineEndingCRLF:
		return "\\r\\n"
	case LineEndingCR:
		return "\\r"
	default:
		return "\\n"
	}
}

// Sequence returns the actual line ending characters.
func (le LineEnding) Sequence() string {
	switch le {
	case LineEndingCRLF:
		return "\r\n"
	case LineEndingCR:
		return "\r"
	default:
		return "\n"
	}
}

// ChangeListener receives every change applied to a document.
type ChangeListener func(Change)

type listenerEntry struct {
	id int
	fn ChangeListener
}

// Document is a thread-safe sequence of lines.
type Document struct {
	mu sync.RWMutex

	lines  []*line
	starts []ByteOffset
	index  map[LineID]int

	nextID     LineID
	revision   RevisionID
	lineEnding LineEnding

	listenerMu sync.Mutex
	listeners  []listenerEntry
	nextListen int
}

// NewDocument creates an empty document with one empty line.
func NewDocument(opts ...Option) *Document {
	d := &Document{lineEnding: LineEndingLF}
	for _, opt := range opts {
		opt(d)
	}
	d.resetLocked("")
	return d
}

// NewDocumentFromString creates a document with initial content.
// Line endings are normalized to "\n".
func NewDocumentFromString(s string, opts ...Option) *Document {
	d := NewDocument(opts...)
	d.resetLocked(normalizeLineEndings(s))
	return d
}

// NewDocumentFromReader creates a document from an io.Reader, detecting
// the line ending style of the content.
func NewDocumentFromReader(r io.Reader, opts ...Option) (*Document, error) {
	// Read everything first: CRLF pairs may straddle read boundaries.
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	text := string(data)
	opts = append([]Option{WithDetectedLineEnding(text)}, opts...)
	return NewDocumentFromString(text, opts...), nil
}

func normalizeLineEndings(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	return strings.ReplaceAll(s, "\r", "\n")
}

func (d *Document) resetLocked(text string) {
	parts := strings.Split(text, "\n")
	d.lines = make([]*line, len(parts))
	for i, p := range parts {
		d.lines[i] = d.newLineLocked(p)
	}
	d.reindexLocked(0)
}

func (d *Document) newLineLocked(text string) *line {
	d.nextID++
	return newLine(d.nextID, text)
}

// reindexLocked recomputes line start offsets and the id index from line
// number from onward.
func (d *Document) reindexLocked(from int) {
	if d.index == nil || from == 0 {
		d.index = make(map[LineID]int, len(d.lines))
		from = 0
	}
	if cap(d.starts) < len(d.lines) {
		starts := make([]ByteOffset, len(d.lines), len(d.lines)*2)
		copy(starts, d.starts)
		d.starts = starts
	}
	d.starts = d.starts[:len(d.lines)]

	var off ByteOffset
	if from > 0 {
		off = d.starts[from-1] + ByteOffset(len(d.lines[from-1].text)) + 1
	}
	for i := from; i < len(d.lines); i++ {
		d.starts[i] = off
		d.index[d.lines[i].id] = i
		off += ByteOffset(len(d.lines[i].text)) + 1
	}
}

// Read Operations

// Text returns the full content with lines joined by "\n".
func (d *Document) Text() string {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.joinLocked("\n")
}

// TextWithLineEnding returns the content using the document's line ending.
func (d *Document) TextWithLineEnding() string {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.joinLocked(d.lineEnding.Sequence())
}

func (d *Document) joinLocked(sep string) string {
	var sb strings.Builder
	for i, l := range d.lines {
		if i > 0 {
			sb.WriteString(sep)
		}
		sb.WriteString(l.text)
	}
	return sb.String()
}

// TextRange returns the text in [start, end). Bounds are clamped.
func (d *Document) TextRange(start, end ByteOffset) string {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.textRangeLocked(start, end)
}

func (d *Document) textRangeLocked(start, end ByteOffset) string {
	total := d.lenLocked()
	start = clamp(start, 0, total)
	end = clamp(end, start, total)
	if start == end {
		return ""
	}

	sp := d.pointLocked(start)
	ep := d.pointLocked(end)
	if sp.Line == ep.Line {
		return d.lines[sp.Line].text[sp.Column:ep.Column]
	}

	var sb strings.Builder
	sb.WriteString(d.lines[sp.Line].text[sp.Column:])
	for i := sp.Line + 1; i < ep.Line; i++ {
		sb.WriteByte('\n')
		sb.WriteString(d.lines[i].text)
	}
	sb.WriteByte('\n')
	sb.WriteString(d.lines[ep.Line].text[:ep.Column])
	return sb.String()
}

// Len returns the total byte length, counting one byte per line break.
func (d *Document) Len() ByteOffset {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.lenLocked()
}

func (d *Document) lenLocked() ByteOffset {
	last := len(d.lines) - 1
	return d.starts[last] + ByteOffset(len(d.lines[last].text))
}

// IsEmpty returns true if the document holds no text.
func (d *Document) IsEmpty() bool {
	return d.Len() == 0
}

// LineCount returns the number of lines. It is always at least 1.
func (d *Document) LineCount() int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return len(d.lines)
}

// LineText returns the text of a line without its line break.
// Out of range lines return "".
func (d *Document) LineText(n int) string {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if n < 0 || n >= len(d.lines) {
		return ""
	}
	return d.lines[n].text
}

// Lines returns a copy of every line's text.
func (d *Document) Lines() []string {
	d.mu.RLock()
	defer d.mu.RUnlock()
	out := make([]string, len(d.lines))
	for i, l := range d.lines {
		out[i] = l.text
	}
	return out
}

// LineLen returns the byte length of a line without its line break.
func (d *Document) LineLen(n int) int {
	return len(d.LineText(n))
}

// LineStart returns the offset of the first byte of line n.
func (d *Document) LineStart(n int) ByteOffset {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if n <= 0 {
		return 0
	}
	if n >= len(d.lines) {
		return d.lenLocked()
	}
	return d.starts[n]
}

// LineEnd returns the offset just past the last byte of line n, before
// the line break.
func (d *Document) LineEnd(n int) ByteOffset {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if n < 0 {
		return 0
	}
	if n >= len(d.lines) {
		return d.lenLocked()
	}
	return d.starts[n] + ByteOffset(len(d.lines[n].text))
}

// LineAt returns the line number containing offset. Offsets past the end
// resolve to the last line.
func (d *Document) LineAt(offset ByteOffset) int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.pointLocked(offset).Line
}

// OffsetToPoint converts a byte offset to a line/column position.
func (d *Document) OffsetToPoint(offset ByteOffset) Point {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.pointLocked(offset)
}

func (d *Document) pointLocked(offset ByteOffset) Point {
	offset = clamp(offset, 0, d.lenLocked())

	// Binary search for the last line starting at or before offset.
	lo, hi := 0, len(d.lines)-1
	for lo < hi {
		mid := (lo + hi + 1) / 2
		if d.starts[mid] <= offset {
			lo = mid
		} else {
			hi = mid - 1
		}
	}
	return Point{Line: lo, Column: int(offset - d.starts[lo])}
}

// PointToOffset converts a line/column position to a byte offset.
// Columns past the end of the line clamp to the line end.
func (d *Document) PointToOffset(p Point) ByteOffset {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if p.Line < 0 {
		return 0
	}
	if p.Line >= len(d.lines) {
		return d.lenLocked()
	}
	col := clamp(ByteOffset(p.Column), 0, ByteOffset(len(d.lines[p.Line].text)))
	return d.starts[p.Line] + col
}

// ByteAt returns the byte at offset. Line breaks read as '\n'.
func (d *Document) ByteAt(offset ByteOffset) (byte, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if offset < 0 || offset >= d.lenLocked() {
		return 0, false
	}
	p := d.pointLocked(offset)
	text := d.lines[p.Line].text
	if p.Column >= len(text) {
		return '\n', true
	}
	return text[p.Column], true
}

// RuneAt returns the rune starting at offset and its size.
// Returns utf8.RuneError and size 0 if offset is out of range.
func (d *Document) RuneAt(offset ByteOffset) (rune, int) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if offset < 0 || offset >= d.lenLocked() {
		return utf8.RuneError, 0
	}
	p := d.pointLocked(offset)
	text := d.lines[p.Line].text
	if p.Column >= len(text) {
		return '\n', 1
	}
	return utf8.DecodeRuneInString(text[p.Column:])
}

// RuneBefore returns the rune ending at offset and its size.
func (d *Document) RuneBefore(offset ByteOffset) (rune, int) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if offset <= 0 || offset > d.lenLocked() {
		return utf8.RuneError, 0
	}
	p := d.pointLocked(offset)
	if p.Column == 0 {
		return '\n', 1
	}
	return utf8.DecodeLastRuneInString(d.lines[p.Line].text[:p.Column])
}

// Revision returns the current revision.
func (d *Document) Revision() RevisionID {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.revision
}

// LineEnding returns the line ending used when writing the document.
func (d *Document) LineEnding() LineEnding {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.lineEnding
}

// Line metadata

// Block returns a handle on line n. Out of range lines return an invalid
// block.
func (d *Document) Block(n int) Block {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if n < 0 || n >= len(d.lines) {
		return Block{}
	}
	return Block{doc: d, id: d.lines[n].id}
}

// BlockAt returns the handle of the line containing offset.
func (d *Document) BlockAt(offset ByteOffset) Block {
	return d.Block(d.LineAt(offset))
}

// LineID returns the identity of line n, or 0 if out of range.
func (d *Document) LineID(n int) LineID {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if n < 0 || n >= len(d.lines) {
		return 0
	}
	return d.lines[n].id
}

// LineIndex returns the current line number of id.
func (d *Document) LineIndex(id LineID) (int, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	n, ok := d.index[id]
	return n, ok
}

// State returns the user state of line n, or NoState if out of range.
func (d *Document) State(n int) int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if n < 0 || n >= len(d.lines) {
		return NoState
	}
	return d.lines[n].state
}

// SetState stores the user state of line n and returns its previous value.
func (d *Document) SetState(n, state int) int {
	d.mu.Lock()
	defer d.mu.Unlock()
	if n < 0 || n >= len(d.lines) {
		return NoState
	}
	prev := d.lines[n].state
	d.lines[n].state = state
	return prev
}

// Spans returns a copy of the formatted spans of line n.
func (d *Document) Spans(n int) []Span {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if n < 0 || n >= len(d.lines) || len(d.lines[n].spans) == 0 {
		return nil
	}
	out := make([]Span, len(d.lines[n].spans))
	copy(out, d.lines[n].spans)
	return out
}

// SetSpans replaces the formatted spans of line n.
func (d *Document) SetSpans(n int, spans []Span) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if n < 0 || n >= len(d.lines) {
		return
	}
	d.lines[n].spans = spans
}

// IsVisible reports whether line n is shown.
func (d *Document) IsVisible(n int) bool {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return n >= 0 && n < len(d.lines) && d.lines[n].visible
}

// SetVisible shows or hides line n.
func (d *Document) SetVisible(n int, visible bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if n >= 0 && n < len(d.lines) {
		d.lines[n].visible = visible
	}
}

// Write Operations

// Insert inserts text at offset and returns the offset just past it.
func (d *Document) Insert(offset ByteOffset, text string) (ByteOffset, error) {
	c, err := d.ApplyEdit(NewInsert(offset, text))
	if err != nil {
		return offset, err
	}
	return c.Offset + c.Added(), nil
}

// Delete removes the text in [start, end).
func (d *Document) Delete(start, end ByteOffset) error {
	_, err := d.ApplyEdit(Edit{Range: Range{Start: start, End: end}})
	return err
}

// Replace replaces [start, end) with text and returns the offset just past
// the inserted text.
func (d *Document) Replace(start, end ByteOffset, text string) (ByteOffset, error) {
	c, err := d.ApplyEdit(Edit{Range: Range{Start: start, End: end}, NewText: text})
	if err != nil {
		return start, err
	}
	return c.Offset + c.Added(), nil
}

// ApplyEdit applies one edit and notifies listeners.
// A no-op edit succeeds without notifying.
func (d *Document) ApplyEdit(e Edit) (Change, error) {
	text := normalizeLineEndings(e.NewText)

	d.mu.Lock()
	if !e.Range.IsValid() {
		d.mu.Unlock()
		return Change{}, ErrRangeInvalid
	}
	if e.Range.End > d.lenLocked() {
		d.mu.Unlock()
		return Change{}, ErrOffsetOutOfRange
	}
	if e.Range.IsEmpty() && text == "" {
		rev := d.revision
		d.mu.Unlock()
		return Change{Offset: e.Range.Start, OldEndState: NoState, Revision: rev}, nil
	}

	c := d.replaceLocked(e.Range.Start, e.Range.End, text)
	d.mu.Unlock()

	d.notify(c)
	return c, nil
}

func (d *Document) replaceLocked(start, end ByteOffset, text string) Change {
	sp := d.pointLocked(start)
	ep := d.pointLocked(end)
	oldText := d.textRangeLocked(start, end)
	oldEndState := d.lines[ep.Line].state

	first := d.lines[sp.Line]
	prefix := first.text[:sp.Column]
	suffix := d.lines[ep.Line].text[ep.Column:]
	parts := strings.Split(prefix+text+suffix, "\n")

	// The first touched line keeps its identity; every other new line is
	// created fresh with NoState.
	first.text = parts[0]
	replacement := make([]*line, len(parts))
	replacement[0] = first
	for i := 1; i < len(parts); i++ {
		replacement[i] = d.newLineLocked(parts[i])
	}

	for i := sp.Line + 1; i <= ep.Line; i++ {
		delete(d.index, d.lines[i].id)
	}

	tail := d.lines[ep.Line+1:]
	lines := make([]*line, 0, sp.Line+len(replacement)+len(tail))
	lines = append(lines, d.lines[:sp.Line]...)
	lines = append(lines, replacement...)
	lines = append(lines, tail...)
	d.lines = lines
	d.reindexLocked(sp.Line)
	d.revision++

	return Change{
		Offset:      start,
		OldText:     oldText,
		NewText:     text,
		StartLine:   sp.Line,
		OldEndLine:  ep.Line,
		NewEndLine:  sp.Line + len(parts) - 1,
		OldEndState: oldEndState,
		Revision:    d.revision,
	}
}

// SetText replaces the whole content as a single change.
func (d *Document) SetText(text string) error {
	_, err := d.ApplyEdit(Edit{Range: Range{Start: 0, End: d.Len()}, NewText: text})
	return err
}

// Listeners

// OnChange registers a listener called after every change, in
// registration order. The returned function unregisters it.
func (d *Document) OnChange(fn ChangeListener) func() {
	d.listenerMu.Lock()
	defer d.listenerMu.Unlock()
	d.nextListen++
	id := d.nextListen
	d.listeners = append(d.listeners, listenerEntry{id: id, fn: fn})
	return func() {
		d.listenerMu.Lock()
		defer d.listenerMu.Unlock()
		for i, l := range d.listeners {
			if l.id == id {
				d.listeners = append(d.listeners[:i:i], d.listeners[i+1:]...)
				return
			}
		}
	}
}

func (d *Document) notify(c Change) {
	d.listenerMu.Lock()
	listeners := make([]listenerEntry, len(d.listeners))
	copy(listeners, d.listeners)
	d.listenerMu.Unlock()

	for _, l := range listeners {
		l.fn(c)
	}
}

func clamp(v, lo, hi ByteOffset) ByteOffset {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
