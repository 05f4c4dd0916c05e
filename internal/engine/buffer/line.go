package buffer

// LineID identifies a line for as long as edits leave it in place.
// IDs are never reused within a document.
type LineID uint64

// NoState is the user state of a line that has not been highlighted yet.
const NoState = -1

// Span is a formatted slice of one line: Length bytes starting at column
// Start, painted with the named style.
type Span struct {
	Start  int
	Length int
	Style  string
}

// End returns the exclusive end column of the span.
func (s Span) End() int {
	return s.Start + s.Length
}

// line is the per-line record held by a Document.
type line struct {
	id      LineID
	text    string
	state   int
	visible bool
	spans   []Span
}

func newLine(id LineID, text string) *line {
	return &line{id: id, text: text, state: NoState, visible: true}
}

// Block is a handle on one line of a Document. It stays valid across edits
// that do not remove the line; its number and position are resolved on
// every call.
type Block struct {
	doc *Document
	id  LineID
}

// ID returns the stable line identity.
func (b Block) ID() LineID {
	return b.id
}

// IsValid reports whether the line still exists in the document.
func (b Block) IsValid() bool {
	if b.doc == nil {
		return false
	}
	_, ok := b.doc.LineIndex(b.id)
	return ok
}

// Number returns the 0-indexed line number, or -1 if the line is gone.
func (b Block) Number() int {
	if b.doc == nil {
		return -1
	}
	n, ok := b.doc.LineIndex(b.id)
	if !ok {
		return -1
	}
	return n
}

// Text returns the line content without the line break.
func (b Block) Text() string {
	n := b.Number()
	if n < 0 {
		return ""
	}
	return b.doc.LineText(n)
}

// Position returns the offset of the first byte of the line.
func (b Block) Position() ByteOffset {
	n := b.Number()
	if n < 0 {
		return 0
	}
	return b.doc.LineStart(n)
}

// Length returns the byte length of the line without the line break.
func (b Block) Length() int {
	return len(b.Text())
}

// IsVisible reports whether the line is shown.
func (b Block) IsVisible() bool {
	n := b.Number()
	return n >= 0 && b.doc.IsVisible(n)
}

// SetVisible shows or hides the line.
func (b Block) SetVisible(visible bool) {
	if n := b.Number(); n >= 0 {
		b.doc.SetVisible(n, visible)
	}
}

// State returns the line's user state.
func (b Block) State() int {
	n := b.Number()
	if n < 0 {
		return NoState
	}
	return b.doc.State(n)
}

// Next returns the following line, or an invalid block at the end.
func (b Block) Next() Block {
	n := b.Number()
	if n < 0 || n+1 >= b.doc.LineCount() {
		return Block{}
	}
	return b.doc.Block(n + 1)
}

// Previous returns the preceding line, or an invalid block at the start.
func (b Block) Previous() Block {
	n := b.Number()
	if n <= 0 {
		return Block{}
	}
	return b.doc.Block(n - 1)
}
