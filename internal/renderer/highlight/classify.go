package highlight

import "github.com/dlclark/regexp2"

// lineTest is one structural heuristic. Anchored tests must match at the
// start of the line; the others may match anywhere.
type lineTest struct {
	re *regexp2.Regexp
}

func (t lineTest) match(line string) bool {
	ok, err := t.re.MatchString(line)
	return err == nil && ok
}

func at(pattern string) lineTest   { return lineTest{re: anchored(pattern)} }
func find(pattern string) lineTest { return lineTest{re: compile(pattern)} }

var melTests = []lineTest{
	at(`.+;$`),
	at(`^\s*/\*`),
	find(`(global\s+)*proc`),
	at(`\$.+\s*=`),
	at(`for\s*\(.+\)\s*{`),
	at(`^\s*//`),
	find(`\btrue\b`),
	find(`\bfalse\b`),
	find(`\bnone\b`),
	find(`while\s*\(.+\)\s*\{`),
	find(`for\s*\(.+\)\s*\{`),
	find(`if\s*\(.+\)\s*\{`),
	find(`else\s*\(.+\)\s*\{`),
	find(`else if\s*\(.+\)\s*\{`),
	find(`catch\s*\(.+\)`),
	find(`catchQuiet\s*\(.+\)`),
}

var pythonTests = []lineTest{
	at(`from(.)+import(.)+`),
	at(`import(.)+`),
	find(`(\bdef\b\s*)(_*\w+_*)`),
	find(`(\bclass\b\s*)(_*\w+_*)`),
	at(`^\s*"""`),
	at(`^\s*'''`),
	at(`\s*@\w+\s*`),
	at(`^\s*#`),
	find(`\bTrue\b`),
	find(`\bFalse\b`),
	find(`\bNone\b`),
	find(`while\s*.*\s*:`),
	find(`for\s*.*\s*:`),
	find(`if\s*.*\s*:`),
	find(`else\s*.*\s*:`),
	find(`elif\s*.*\s*:`),
	find(`try\s*.*\s*:`),
	find(`except\s*.*\s*:`),
	find(`finally\s*.*\s*:`),
	find(`\s*print\s*(?!\()`),
}

// IsMELLine reports whether line looks like MEL: trailing semicolons,
// procedures, $variable assignments, brace-terminated control statements.
func IsMELLine(line string) bool {
	return matchAny(melTests, line)
}

// IsPythonLine reports whether line looks like Python: imports,
// definitions, docstrings, decorators, colon-terminated control statements.
func IsPythonLine(line string) bool {
	return matchAny(pythonTests, line)
}

func matchAny(tests []lineTest, line string) bool {
	for _, t := range tests {
		if t.match(line) {
			return true
		}
	}
	return false
}
