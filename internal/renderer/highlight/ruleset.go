package highlight

import (
	"fmt"

	"github.com/dshills/scriptedit/internal/engine/buffer"
)

// LanguageRuleSet highlights one line given the block state the previous
// line ended in. It returns the spans for the line and the state to carry
// to the next line. Implementations hold no per-document state.
type LanguageRuleSet interface {
	Kind() Kind
	HighlightLine(line string, incoming int) ([]buffer.Span, int, error)
}

// New returns the rule set for kind.
func New(kind Kind) (LanguageRuleSet, error) {
	switch kind {
	case KindPython:
		return Python(), nil
	case KindMEL:
		return MEL(), nil
	case KindLog:
		return Log(), nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownLanguage, kind)
}

// RuleSet is a stateless rule table followed by the multi-line delimiter
// scan. Python and MEL are RuleSets.
type RuleSet struct {
	kind   Kind
	rules  []Rule
	delims delimiters
	styles multilineStyles
}

// Kind returns the rule set tag.
func (rs *RuleSet) Kind() Kind {
	return rs.kind
}

// Rules returns the stateless rules in authoring order.
func (rs *RuleSet) Rules() []Rule {
	return rs.rules
}

// HighlightLine implements LanguageRuleSet.
func (rs *RuleSet) HighlightLine(line string, incoming int) ([]buffer.Span, int, error) {
	runes := []rune(line)
	c := newCanvas(len(runes))
	out, err := rs.lex(runes, incoming, c)
	if err != nil {
		return nil, buffer.NoState, err
	}
	return c.spans(line), out, nil
}

func (rs *RuleSet) lex(line []rune, incoming int, c *canvas) (int, error) {
	if err := applyRules(rs.rules, line, c); err != nil {
		return buffer.NoState, err
	}
	return rs.delims.scan(line, incoming, rs.styles, c), nil
}

func (rs *RuleSet) style(attr string) string {
	return StyleID(rs.kind, attr)
}

func newRuleSet(kind Kind, delims delimiters) *RuleSet {
	rs := &RuleSet{kind: kind, delims: delims}
	rs.styles = multilineStyles{
		str:     rs.style(AttrString),
		special: rs.style(AttrSpecial),
		comment: rs.style(AttrComments),
	}
	return rs
}

func (rs *RuleSet) add(pattern string, group int, attr string) {
	rs.rules = append(rs.rules, NewRule(pattern, group, rs.style(attr)))
}

func (rs *RuleSet) addOperators() {
	for _, op := range operators {
		rs.add(escape(op), 0, AttrOperator)
	}
}

// Python returns the Python rule set.
func Python() *RuleSet {
	rs := newRuleSet(KindPython, newDelimiters(
		[]string{`'''`, `"""`},
		[]string{`'''`, `"""`},
		[]string{`'`, `"`},
		[]string{`#`},
	))

	rs.add(`\b\d+\b`, 0, AttrNumbers)
	rs.add(`\b(self)\b`, 0, AttrSelf)
	rs.add(wordsPattern(pythonBuiltins), 0, AttrSpecial)
	rs.add(`(\bclass\b\s*_*\w+_*\s*\()(.+)(\))`, 2, AttrClassArg)
	rs.add(`(\bclass\b\s*)(_*\w+_*)`, 2, AttrClassName)
	rs.add(`(\.)(\w+)`, 2, AttrInterm)
	rs.add(`(\bdef\b\s*)(_*\w+_*)`, 2, AttrDefName)
	rs.add(`(\b_*\w+_*\s*)(\()`, 1, AttrCalled)
	rs.add(wordsPattern(pythonKeywords), 0, AttrKeyword)
	rs.addOperators()
	rs.add(`(,\s*|\()(\w+)(\s*=\s*)`, 2, AttrNumbers)
	rs.add(wordsPattern(pythonNumbers), 0, AttrNumbers)
	// floats back to numbers after the interm rule
	rs.add(`\d+\.*\d+`, 0, AttrNumbers)
	rs.add(`,`, 0, AttrNormal)
	rs.add(`\s*@\w+`, 0, AttrDecorators)
	return rs
}

// MEL returns the MEL rule set.
func MEL() *RuleSet {
	rs := newRuleSet(KindMEL, newDelimiters(
		[]string{`/*`},
		[]string{`*/`},
		[]string{`"`},
		[]string{`//`},
	))

	rs.add(`\b\d+\b`, 0, AttrNumbers)
	rs.add(`^\s*\w+`, 0, AttrCalled)
	rs.add(`-(\w+)`, 1, AttrFlags)
	rs.add(`("\w*")`, 1, AttrString)
	rs.add(`\$\w+`, 0, AttrVariables)
	rs.add(wordsPattern(melKeywords), 0, AttrKeyword)
	rs.add(wordsPattern(melNumbers), 0, AttrNumbers)
	rs.add(wordsPattern(melBuiltins), 0, AttrSpecial)
	rs.addOperators()
	rs.add(`(\bproc\b\s+)(.*\s+)?(\w+)\s*\(`, 3, AttrProcName)
	rs.add("(`.*`)", 1, AttrCalledExpr)
	rs.add(`\d+\.*\d+`, 0, AttrNumbers)
	rs.add(`,`, 0, AttrNormal)
	return rs
}
