package highlight

import (
	"fmt"
	"sync"

	"github.com/dshills/scriptedit/internal/engine/buffer"
	"github.com/dshills/scriptedit/internal/log"
)

// Highlighter keeps the spans and block states of a document's lines in
// step with its text. After an edit it re-lexes the changed lines, then
// walks down while a line's outgoing state differs from the state the next
// line was last lexed against.
type Highlighter struct {
	mu sync.Mutex

	doc   *buffer.Document
	rules LanguageRuleSet

	unsubscribe func()

	// lexed counts single-line passes, for tests and diagnostics.
	lexed uint64
}

// NewHighlighter creates a highlighter for doc. Call Attach to follow
// edits.
func NewHighlighter(doc *buffer.Document, rules LanguageRuleSet) *Highlighter {
	return &Highlighter{doc: doc, rules: rules}
}

// Attach highlights the whole document and subscribes to its changes.
func (h *Highlighter) Attach() {
	h.mu.Lock()
	if h.unsubscribe == nil {
		h.unsubscribe = h.doc.OnChange(h.onChange)
	}
	h.mu.Unlock()
	h.Rehighlight()
}

// Detach stops following the document.
func (h *Highlighter) Detach() {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.unsubscribe != nil {
		h.unsubscribe()
		h.unsubscribe = nil
	}
}

// RuleSet returns the active rule set.
func (h *Highlighter) RuleSet() LanguageRuleSet {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.rules
}

// SetRuleSet swaps the rule set and re-highlights everything.
func (h *Highlighter) SetRuleSet(rules LanguageRuleSet) {
	h.mu.Lock()
	h.rules = rules
	h.mu.Unlock()
	h.Rehighlight()
}

// Lexed returns how many single-line passes have run.
func (h *Highlighter) Lexed() uint64 {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.lexed
}

// Rehighlight re-lexes every line unconditionally. Used when styles, not
// text, changed.
func (h *Highlighter) Rehighlight() {
	h.mu.Lock()
	defer h.mu.Unlock()

	for n := 0; n < h.doc.LineCount(); n++ {
		h.highlightBlock(n)
	}
	log.Debug(log.CatHighlight, "full pass", "lines", h.doc.LineCount())
}

func (h *Highlighter) onChange(ch buffer.Change) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.relex(ch.StartLine, ch.NewEndLine, ch.OldEndState)
}

// relex highlights lines first..last, then propagates. prevOut is the
// state the line after last was lexed against.
func (h *Highlighter) relex(first, last, prevOut int) {
	count := h.doc.LineCount()
	if last >= count {
		last = count - 1
	}
	for n := first; n <= last; n++ {
		h.highlightBlock(n)
	}
	n := last
	for n+1 < count && h.doc.State(n) != prevOut {
		n++
		prevOut = h.doc.State(n)
		h.highlightBlock(n)
	}
}

// highlightBlock lexes line n against the state of line n-1. A failing
// line is left unstyled with NoState; the failure never escapes.
func (h *Highlighter) highlightBlock(n int) {
	h.lexed++
	incoming := buffer.NoState
	if n > 0 {
		incoming = h.doc.State(n - 1)
	}

	spans, out, err := h.lexLine(h.doc.LineText(n), incoming)
	if err != nil {
		log.Debug(log.CatHighlight, "line left unstyled", "line", n, "error", err)
		spans, out = nil, buffer.NoState
	}
	h.doc.SetSpans(n, spans)
	h.doc.SetState(n, out)
}

func (h *Highlighter) lexLine(text string, incoming int) (spans []buffer.Span, out int, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("highlight panic: %v", r)
		}
	}()
	if h.rules == nil {
		return nil, buffer.NoState, nil
	}
	return h.rules.HighlightLine(text, incoming)
}

// HighlightText lexes text from the start without a document, returning
// the spans and outgoing state of every line.
func HighlightText(rules LanguageRuleSet, lines []string) ([][]buffer.Span, []int) {
	spans := make([][]buffer.Span, len(lines))
	states := make([]int, len(lines))
	state := buffer.NoState
	for i, line := range lines {
		s, out, err := rules.HighlightLine(line, state)
		if err != nil {
			s, out = nil, buffer.NoState
		}
		spans[i], states[i] = s, out
		state = out
	}
	return spans, states
}
