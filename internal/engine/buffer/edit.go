package buffer

import "fmt"

// Edit represents a text edit operation.
// It specifies a range to replace and the new text.
type Edit struct {
	Range   Range  // The range to replace
	NewText string // The replacement text
}

// NewInsert creates an Edit that inserts text at a position.
func NewInsert(offset ByteOffset, text string) Edit {
	return Edit{Range: Range{Start: offset, End: offset}, NewText: text}
}

// NewDelete creates an Edit that deletes a range of text.
func NewDelete(start, end ByteOffset) Edit {
	return Edit{Range: NewRange(start, end)}
}

// String returns a human-readable representation of the edit.
func (e Edit) String() string {
	if e.Range.IsEmpty() {
		return fmt.Sprintf("Insert(%d, %q)", e.Range.Start, e.NewText)
	}
	if e.NewText == "" {
		return fmt.Sprintf("Delete%s", e.Range)
	}
	return fmt.Sprintf("Replace%s with %q", e.Range, e.NewText)
}

// IsNoOp returns true if this edit does nothing.
func (e Edit) IsNoOp() bool {
	return e.Range.IsEmpty() && e.NewText == ""
}

// Delta returns the change in document length caused by this edit.
func (e Edit) Delta() ByteOffset {
	return ByteOffset(len(e.NewText)) - e.Range.Len()
}

// Change describes one mutation applied to a Document. It is delivered to
// change listeners after the document lock is released.
type Change struct {
	// Offset is where the change starts.
	Offset ByteOffset

	// OldText is the removed text, NewText the inserted text.
	OldText string
	NewText string

	// StartLine is the first line touched. OldEndLine is the last line the
	// removed text covered, NewEndLine the last line the inserted text covers.
	StartLine  int
	OldEndLine int
	NewEndLine int

	// OldEndState is the user state OldEndLine held before the change: the
	// state the line after the change was last computed against.
	OldEndState int

	// Revision is the document revision after the change.
	Revision RevisionID
}

// Removed returns the number of removed bytes.
func (c Change) Removed() ByteOffset {
	return ByteOffset(len(c.OldText))
}

// Added returns the number of inserted bytes.
func (c Change) Added() ByteOffset {
	return ByteOffset(len(c.NewText))
}

// LinesDelta returns how many lines the change added (negative if removed).
func (c Change) LinesDelta() int {
	return c.NewEndLine - c.OldEndLine
}

// Edit returns the edit that produced this change.
func (c Change) Edit() Edit {
	return Edit{
		Range:   Range{Start: c.Offset, End: c.Offset + c.Removed()},
		NewText: c.NewText,
	}
}

// Inverse returns the edit that reverts this change.
func (c Change) Inverse() Edit {
	return Edit{
		Range:   Range{Start: c.Offset, End: c.Offset + c.Added()},
		NewText: c.OldText,
	}
}
