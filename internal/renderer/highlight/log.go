package highlight

import (
	"strings"

	"github.com/dshills/scriptedit/internal/engine/buffer"
)

var messageTypes = []string{AttrWarning, AttrSuccess, AttrInfo, AttrError}

// tracebackState marks a line inside a traceback block.
const tracebackState = 5

type messageRule struct {
	test  lineTest
	style string
}

// LogRuleSet highlights the script editor's output panel. Whole-line
// message and traceback rules come first; other lines are classified as MEL
// or Python and handed to that rule set.
type LogRuleSet struct {
	python *RuleSet
	mel    *RuleSet

	traceStart lineTest
	traceCont  lineTest
	messages   []messageRule
	blocking   []Rule
}

// Log returns the log panel rule set.
func Log() *LogRuleSet {
	rs := &LogRuleSet{
		python:     Python(),
		mel:        MEL(),
		traceStart: at(`^(#\s)*Traceback`),
		traceCont:  at(`^(#\s)*\s+`),
	}

	for _, marker := range []string{"//", "#"} {
		for _, typ := range messageTypes {
			rs.messages = append(rs.messages, messageRule{
				test:  at(`^\s*` + marker + `(.)+(` + typ + `\s*:)`),
				style: StyleID(KindLog, typ),
			})
		}
	}
	for _, marker := range []string{"//", "#"} {
		rs.messages = append(rs.messages, messageRule{
			test:  at(`^\s*` + marker + `.*`),
			style: StyleID(KindLog, AttrInfo),
		})
	}
	for _, marker := range []string{"//", "#"} {
		rs.messages = append(rs.messages, messageRule{
			test:  at(`.*` + marker + `\s*$`),
			style: StyleID(KindLog, AttrInfo),
		})
	}
	for _, typ := range messageTypes {
		rs.messages = append(rs.messages, messageRule{
			test:  at(`^\s*\[\w+\]\s*(` + typ + `\s*:)`),
			style: StyleID(KindLog, typ),
		})
	}

	// printed Python objects, <Foo object at 0x...>, outside quotes
	rs.blocking = []Rule{
		NewRule(`(?<!["'])(<\s*.+\s+object at\s+.+>\s*)(?!["'])`, 1, StyleID(KindLog, AttrSpecial)),
	}
	return rs
}

// Kind implements LanguageRuleSet.
func (rs *LogRuleSet) Kind() Kind {
	return KindLog
}

// HighlightLine implements LanguageRuleSet. The block state records the
// sub-language in use so that an ambiguous line inherits the previous
// line's classification.
func (rs *LogRuleSet) HighlightLine(line string, incoming int) ([]buffer.Span, int, error) {
	runes := []rune(line)
	c := newCanvas(len(runes))
	st := decodeLogState(incoming)

	out, err := rs.lex(line, runes, st, c)
	if err != nil {
		return nil, buffer.NoState, err
	}
	return c.spans(line), out.encode(), nil
}

func (rs *LogRuleSet) lex(line string, runes []rune, st logState, c *canvas) (logState, error) {
	whole := func(style string) { c.setFormat(0, len(runes), style) }

	if rs.traceStart.match(line) {
		whole(StyleID(KindLog, AttrTraceback))
		st.inner, st.owner = tracebackState, KindLog
		return st, nil
	}
	if st.owner == KindLog && st.inner == tracebackState {
		if rs.traceCont.match(line) {
			whole(StyleID(KindLog, AttrTraceback))
			return st, nil
		}
		st.inner = buffer.NoState
	}

	lower := strings.ToLower(line)
	for _, m := range rs.messages {
		if m.test.match(lower) {
			whole(m.style)
			st.rule = KindLog
			return st, nil
		}
	}

	blocked := false
	for _, r := range rs.blocking {
		ok, err := paintFirst(r, runes, c)
		if err != nil {
			return st, err
		}
		blocked = blocked || ok
	}
	if blocked {
		return st, nil
	}

	lang := st.rule
	switch {
	case IsMELLine(line):
		lang = KindMEL
	case IsPythonLine(line):
		lang = KindPython
	}
	if lang == KindLog {
		return st, nil
	}

	// a state opened by the other language does not carry over
	if st.inner != buffer.NoState && st.owner != lang {
		st.inner = buffer.NoState
	}
	sub := rs.python
	if lang == KindMEL {
		sub = rs.mel
	}
	inner, err := sub.lex(runes, st.inner, c)
	if err != nil {
		return st, err
	}
	st.rule, st.owner, st.inner = lang, lang, inner
	return st, nil
}

// paintFirst paints the first match of r only.
func paintFirst(r Rule, line []rune, c *canvas) (bool, error) {
	m, err := r.Pattern.FindRunesMatch(line)
	if err != nil || m == nil {
		return false, err
	}
	g := m.GroupByNumber(r.Group)
	if g == nil || len(g.Captures) == 0 {
		return false, nil
	}
	c.setFormat(g.Index, g.Length, r.Style)
	return true, nil
}

// logState is the unpacked block state of a log line.
type logState struct {
	rule  Kind // sub-language of the last classified line
	owner Kind // language that produced inner
	inner int
}

var logKindCodes = map[Kind]int{KindLog: 0, KindMEL: 1, KindPython: 2}

var logCodeKinds = []Kind{KindLog, KindMEL, KindPython}

func decodeLogState(state int) logState {
	if state < 0 {
		return logState{rule: KindLog, owner: KindLog, inner: buffer.NoState}
	}
	rule, owner := (state>>8)&0xf, (state>>4)&0xf
	if rule >= len(logCodeKinds) || owner >= len(logCodeKinds) {
		return logState{rule: KindLog, owner: KindLog, inner: buffer.NoState}
	}
	return logState{
		rule:  logCodeKinds[rule],
		owner: logCodeKinds[owner],
		inner: state&0xf - 1,
	}
}

func (s logState) encode() int {
	if s.rule == KindLog && s.inner == buffer.NoState {
		return buffer.NoState
	}
	return logKindCodes[s.rule]<<8 | logKindCodes[s.owner]<<4 | (s.inner + 1)
}
