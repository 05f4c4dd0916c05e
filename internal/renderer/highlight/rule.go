package highlight

import (
	"fmt"
	"strings"
	"time"

	"github.com/dlclark/regexp2"
)

// MatchTimeout bounds a single rule evaluation on one line.
const MatchTimeout = 250 * time.Millisecond

// Rule paints capture group Group of every match of Pattern with Style.
type Rule struct {
	Pattern *regexp2.Regexp
	Group   int
	Style   string
}

// NewRule compiles pattern. It panics on an invalid pattern; rule tables
// are fixed at build time.
func NewRule(pattern string, group int, style string) Rule {
	return Rule{Pattern: compile(pattern), Group: group, Style: style}
}

func compile(pattern string) *regexp2.Regexp {
	re := regexp2.MustCompile(pattern, regexp2.None)
	re.MatchTimeout = MatchTimeout
	return re
}

// anchored compiles pattern so that it only matches at the start of the
// input.
func anchored(pattern string) *regexp2.Regexp {
	return compile(`\A(?:` + pattern + `)`)
}

// wordsPattern matches any of words as a whole word.
func wordsPattern(words []string) string {
	quoted := make([]string, len(words))
	for i, w := range words {
		quoted[i] = regexp2.Escape(w)
	}
	return `\b(` + strings.Join(quoted, "|") + `)\b`
}

// apply paints every match. The search resumes right after the painted
// group, so a following match may start inside the previous match.
func (r Rule) apply(line []rune, c *canvas) error {
	m, err := r.Pattern.FindRunesMatch(line)
	for m != nil && err == nil {
		next := m.Index + m.Length
		if g := m.GroupByNumber(r.Group); g != nil && len(g.Captures) > 0 {
			c.setFormat(g.Index, g.Length, r.Style)
			next = g.Index + g.Length
		}
		if next <= m.Index {
			next = m.Index + 1
		}
		if next > len(line) {
			break
		}
		m, err = r.Pattern.FindRunesMatchStartingAt(line, next)
	}
	if err != nil {
		return fmt.Errorf("rule %q: %w", r.Pattern.String(), err)
	}
	return nil
}

func applyRules(rules []Rule, line []rune, c *canvas) error {
	for _, r := range rules {
		if err := r.apply(line, c); err != nil {
			return err
		}
	}
	return nil
}

func escape(literal string) string {
	return regexp2.Escape(literal)
}
