package history

import (
	"time"

	"github.com/dshills/scriptedit/internal/engine/buffer"
	"github.com/dshills/scriptedit/internal/engine/cursor"
)

// ByteOffset is an alias for buffer.ByteOffset for convenience.
type ByteOffset = buffer.ByteOffset

// Range is an alias for buffer.Range for convenience.
type Range = buffer.Range

// Selection is an alias for cursor.Selection for convenience.
type Selection = cursor.Selection

// Operation is one recorded document change: OldText at Offset was
// replaced by NewText.
type Operation struct {
	Offset  ByteOffset
	OldText string
	NewText string
}

// FromChange records a document change.
func FromChange(c buffer.Change) Operation {
	return Operation{Offset: c.Offset, OldText: c.OldText, NewText: c.NewText}
}

// IsInsert returns true if this operation is a pure insertion.
func (op Operation) IsInsert() bool {
	return op.OldText == "" && op.NewText != ""
}

// IsDelete returns true if this operation is a pure deletion.
func (op Operation) IsDelete() bool {
	return op.OldText != "" && op.NewText == ""
}

// IsReplace returns true if this operation replaces text.
func (op Operation) IsReplace() bool {
	return op.OldText != "" && op.NewText != ""
}

// IsNoop returns true if this operation makes no changes.
func (op Operation) IsNoop() bool {
	return op.OldText == "" && op.NewText == ""
}

// BytesDelta returns the change in document length.
func (op Operation) BytesDelta() int {
	return len(op.NewText) - len(op.OldText)
}

// Edit returns the edit that performs the operation.
func (op Operation) Edit() buffer.Edit {
	return buffer.Edit{
		Range:   Range{Start: op.Offset, End: op.Offset + ByteOffset(len(op.OldText))},
		NewText: op.NewText,
	}
}

// Invert returns an operation that undoes this one.
func (op Operation) Invert() Operation {
	return Operation{Offset: op.Offset, OldText: op.NewText, NewText: op.OldText}
}

// Entry is one undo unit: the operations made between a group's begin and
// end, in the order they were applied, plus the caret selections on either
// side of it.
type Entry struct {
	Name      string
	Ops       []Operation
	Before    []Selection
	After     []Selection
	Timestamp time.Time
}

// BytesDelta returns the total change in document length.
func (e *Entry) BytesDelta() int {
	total := 0
	for _, op := range e.Ops {
		total += op.BytesDelta()
	}
	return total
}

func (e *Entry) undo(doc *buffer.Document) error {
	for i := len(e.Ops) - 1; i >= 0; i-- {
		if _, err := doc.ApplyEdit(e.Ops[i].Invert().Edit()); err != nil {
			// roll forward what was already reverted
			for j := i + 1; j < len(e.Ops); j++ {
				_, _ = doc.ApplyEdit(e.Ops[j].Edit())
			}
			return err
		}
	}
	return nil
}

func (e *Entry) redo(doc *buffer.Document) error {
	for i, op := range e.Ops {
		if _, err := doc.ApplyEdit(op.Edit()); err != nil {
			for j := i - 1; j >= 0; j-- {
				_, _ = doc.ApplyEdit(e.Ops[j].Invert().Edit())
			}
			return err
		}
	}
	return nil
}

func (e *Entry) info() OperationInfo {
	return OperationInfo{
		Description: e.Name,
		Timestamp:   e.Timestamp,
		BytesDelta:  e.BytesDelta(),
	}
}

// OperationInfo provides read-only info about an undo unit.
type OperationInfo struct {
	Description string
	Timestamp   time.Time
	BytesDelta  int
}
