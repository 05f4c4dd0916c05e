package highlight

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownLanguage is returned for a rule set tag that is not supported.
var ErrUnknownLanguage = errors.New("unknown language")

// Kind tags a LanguageRuleSet and the palette family it paints with.
type Kind string

const (
	KindPython Kind = "python"
	KindMEL    Kind = "mel"
	KindLog    Kind = "log"
)

// Kinds returns every supported kind.
func Kinds() []Kind {
	return []Kind{KindPython, KindMEL, KindLog}
}

// ParseKind resolves a kind name, case-insensitively.
func ParseKind(s string) (Kind, error) {
	switch Kind(strings.ToLower(strings.TrimSpace(s))) {
	case KindPython, "py":
		return KindPython, nil
	case KindMEL:
		return KindMEL, nil
	case KindLog:
		return KindLog, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownLanguage, s)
}

// Palette attribute names.
const (
	AttrNormal     = "normal"
	AttrBackground = "background"
	AttrKeyword    = "keyword"
	AttrOperator   = "operator"
	AttrNumbers    = "numbers"
	AttrString     = "string"
	AttrSpecial    = "special"
	AttrComments   = "comments"

	// Python
	AttrSelf       = "self"
	AttrClassArg   = "class_arg"
	AttrClassName  = "class_name"
	AttrInterm     = "interm"
	AttrDefName    = "def_name"
	AttrCalled     = "called"
	AttrDecorators = "decorators"

	// MEL
	AttrFlags      = "flags"
	AttrVariables  = "variables"
	AttrProcName   = "proc_name"
	AttrCalledExpr = "called_expr"

	// Log
	AttrInfo      = "info"
	AttrWarning   = "warning"
	AttrError     = "error"
	AttrSuccess   = "success"
	AttrTraceback = "traceback"
)

var attributes = map[Kind][]string{
	KindPython: {
		AttrNormal, AttrBackground, AttrKeyword, AttrOperator, AttrNumbers,
		AttrString, AttrSpecial, AttrComments, AttrSelf, AttrClassArg,
		AttrClassName, AttrInterm, AttrDefName, AttrCalled, AttrDecorators,
	},
	KindMEL: {
		AttrNormal, AttrBackground, AttrKeyword, AttrOperator, AttrNumbers,
		AttrString, AttrSpecial, AttrComments, AttrCalled, AttrFlags,
		AttrVariables, AttrProcName, AttrCalledExpr,
	},
	KindLog: {
		AttrNormal, AttrBackground, AttrInfo, AttrWarning, AttrError,
		AttrSuccess, AttrTraceback, AttrSpecial,
	},
}

// Attributes returns the palette attributes used by kind, in display order.
func Attributes(k Kind) []string {
	attrs := attributes[k]
	out := make([]string, len(attrs))
	copy(out, attrs)
	return out
}

// StyleID names the attribute attr of kind's palette. Spans carry style
// IDs so that a log line can mix Python, MEL and log styles.
func StyleID(k Kind, attr string) string {
	return string(k) + "." + attr
}

// SplitStyleID is the inverse of StyleID.
func SplitStyleID(id string) (Kind, string, bool) {
	kind, attr, ok := strings.Cut(id, ".")
	if !ok || kind == "" || attr == "" {
		return "", "", false
	}
	return Kind(kind), attr, true
}
