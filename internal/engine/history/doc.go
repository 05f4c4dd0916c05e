// Package history provides undo/redo for a buffer.Document.
//
// # Operations
//
// An Operation is one applied change: the offset, the text it removed and
// the text it inserted. It is built from the buffer.Change a document
// reports, so recording never re-reads the document.
//
// # Undo Units
//
// An Entry groups the operations of one user action together with the
// caret selections before and after it. Undo reverts the operations in
// reverse order; Redo replays them in order. Both return the Entry so
// the caller can restore the matching selections.
//
// # Grouping
//
// Groups nest, so a multi-caret operation built out of smaller grouped
// steps still produces one undo unit:
//
//	h.BeginGroup("Indent", before)
//	// ... any number of recorded edits, nested groups ...
//	h.EndGroup(after)
package history
