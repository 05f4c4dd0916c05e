// Package highlight implements the incremental, line-state syntax
// highlighter of the script editor.
//
// A LanguageRuleSet lexes one line at a time: it paints an ordered table of
// regular-expression rules (later rules overwrite earlier ones), then
// resolves strings, docstrings and comments with a small delimiter state
// machine whose state is carried from line to line. Python and MEL are
// plain rule sets; the log panel rule set classifies each line and
// delegates to one of them.
//
// Spans carry style IDs ("python.keyword", "log.error"); the palette
// package resolves them to colours at render time.
//
// The Highlighter attaches to a buffer.Document and keeps every line's
// spans and block state current, re-lexing only what an edit can affect.
package highlight
