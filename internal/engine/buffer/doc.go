// Package buffer provides the line-oriented text document the editor core
// edits and highlights.
//
// A Document is an ordered sequence of lines. Each line carries:
//
//   - a stable LineID that survives edits which do not touch the line
//   - an integer user state, used by the highlighter to carry the
//     multi-line lexer state from one line to the next
//   - a visibility flag
//   - the formatted spans produced by the last highlight pass
//
// Text is addressed either by absolute byte offset (lines joined with "\n")
// or by Point (line, column). Every mutation is reported to change listeners
// after the lock is released, with the affected offset, the removed and
// inserted text and the line range touched.
//
// Basic usage:
//
//	doc := buffer.NewDocumentFromString("a = 1\nb = 2")
//	doc.OnChange(func(c buffer.Change) { ... })
//	doc.Insert(5, "0")
//
// All Document methods are safe for concurrent use.
package buffer
