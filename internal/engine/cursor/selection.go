package cursor

import (
	"fmt"

	"github.com/dshills/scriptedit/internal/engine/buffer"
)

// ByteOffset is an alias for buffer.ByteOffset for convenience.
type ByteOffset = buffer.ByteOffset

// Range is an alias for buffer.Range for convenience.
type Range = buffer.Range

// Selection represents a caret with an optional selected extent.
// Anchor is where the selection started; Head is the caret position.
// When Anchor == Head there is no selection.
// Selection is an immutable value type.
type Selection struct {
	Anchor ByteOffset
	Head   ByteOffset
}

// NewSelection creates a selection from anchor to head.
func NewSelection(anchor, head ByteOffset) Selection {
	return Selection{Anchor: anchor, Head: head}
}

// NewCursorSelection creates a selection with no extent.
func NewCursorSelection(offset ByteOffset) Selection {
	return Selection{Anchor: offset, Head: offset}
}

// FromSpan rebuilds a selection over [start, end]. When reversed is true
// the head is placed on start, restoring a selection the user dragged
// backwards.
func FromSpan(start, end ByteOffset, reversed bool) Selection {
	if reversed {
		return Selection{Anchor: end, Head: start}
	}
	return Selection{Anchor: start, Head: end}
}

// IsEmpty returns true if the selection has no extent.
func (s Selection) IsEmpty() bool {
	return s.Anchor == s.Head
}

// Len returns the length of the selection in bytes.
func (s Selection) Len() ByteOffset {
	return s.End() - s.Start()
}

// Range returns the selection as a range (always Start <= End).
func (s Selection) Range() Range {
	return Range{Start: s.Start(), End: s.End()}
}

// Start returns the lower bound of the selection.
func (s Selection) Start() ByteOffset {
	return min(s.Anchor, s.Head)
}

// End returns the upper bound of the selection.
func (s Selection) End() ByteOffset {
	return max(s.Anchor, s.Head)
}

// IsReversed reports whether the head sits on the lower bound. A collapsed
// selection counts as reversed, which makes FromSpan restore it unchanged.
func (s Selection) IsReversed() bool {
	return s.Head == s.Start()
}

// Span returns the normalized bounds and the orientation of the selection.
func (s Selection) Span() (start, end ByteOffset, reversed bool) {
	return s.Start(), s.End(), s.IsReversed()
}

// Extend returns a selection with the anchor kept and the head moved.
func (s Selection) Extend(offset ByteOffset) Selection {
	return Selection{Anchor: s.Anchor, Head: offset}
}

// MoveTo returns a collapsed selection at offset.
func (s Selection) MoveTo(offset ByteOffset) Selection {
	return Selection{Anchor: offset, Head: offset}
}

// Shift moves anchor and head by delta bytes.
func (s Selection) Shift(delta ByteOffset) Selection {
	return Selection{Anchor: s.Anchor + delta, Head: s.Head + delta}
}

// Collapse collapses the selection to the head.
func (s Selection) Collapse() Selection {
	return Selection{Anchor: s.Head, Head: s.Head}
}

// Clamp returns a selection clamped to [0, maxOffset].
func (s Selection) Clamp(maxOffset ByteOffset) Selection {
	return Selection{
		Anchor: clampOffset(s.Anchor, maxOffset),
		Head:   clampOffset(s.Head, maxOffset),
	}
}

func clampOffset(v, maxOffset ByteOffset) ByteOffset {
	if v < 0 {
		return 0
	}
	if v > maxOffset {
		return maxOffset
	}
	return v
}

// String returns a string representation of the selection.
func (s Selection) String() string {
	if s.IsEmpty() {
		return fmt.Sprintf("Caret(%d)", s.Head)
	}
	dir := "→"
	if s.Head < s.Anchor {
		dir = "←"
	}
	return fmt.Sprintf("Selection(%d%s%d)", s.Anchor, dir, s.Head)
}

// TransformOffset maps an offset across an edit.
//
//   - offsets before the edit are unchanged
//   - offsets at or after the end of the replaced range shift by the delta,
//     so an offset sitting exactly on an insertion point moves past it
//   - offsets inside the replaced range land after the new text
func TransformOffset(offset ByteOffset, edit buffer.Edit) ByteOffset {
	if offset < edit.Range.Start {
		return offset
	}
	if offset >= edit.Range.End {
		return offset + edit.Delta()
	}
	return edit.Range.Start + ByteOffset(len(edit.NewText))
}

// TransformSelection maps both ends of a selection across an edit.
func TransformSelection(sel Selection, edit buffer.Edit) Selection {
	return Selection{
		Anchor: TransformOffset(sel.Anchor, edit),
		Head:   TransformOffset(sel.Head, edit),
	}
}
