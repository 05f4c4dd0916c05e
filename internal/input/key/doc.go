// Package key defines key events and the key specifications used by
// keymaps.
//
// A specification names one key press. Three spellings are accepted and
// mean the same thing:
//
//   - hyphenated: "C-A-Up", "C-S-d", "S-Tab"
//   - bracketed:  "<C-A-Up>", "<C-S-d>", "<BS>"
//   - plus form:  "Ctrl+Alt+Up", "Ctrl+/"
//
// A lone character ("a", "(", "-") is a plain key press.
package key
