package key

import "strings"

// Modifier is a set of modifier keys.
type Modifier uint8

const (
	ModNone  Modifier = 0
	ModShift Modifier = 1 << (iota - 1)
	ModCtrl
	ModAlt
	ModMeta
)

// Has reports whether m contains every modifier in mod.
func (m Modifier) Has(mod Modifier) bool {
	return mod != 0 && m&mod == mod
}

// With returns m plus mod.
func (m Modifier) With(mod Modifier) Modifier {
	return m | mod
}

// Without returns m minus mod.
func (m Modifier) Without(mod Modifier) Modifier {
	return m &^ mod
}

// String returns the modifiers in specification order, e.g. "C-A-S".
func (m Modifier) String() string {
	var parts []string
	for _, mod := range []struct {
		m    Modifier
		name string
	}{{ModCtrl, "C"}, {ModAlt, "A"}, {ModMeta, "M"}, {ModShift, "S"}} {
		if m.Has(mod.m) {
			parts = append(parts, mod.name)
		}
	}
	return strings.Join(parts, "-")
}

var modifierNames = map[string]Modifier{
	"c":       ModCtrl,
	"ctrl":    ModCtrl,
	"control": ModCtrl,
	"a":       ModAlt,
	"alt":     ModAlt,
	"opt":     ModAlt,
	"option":  ModAlt,
	"s":       ModShift,
	"shift":   ModShift,
	"m":       ModMeta,
	"d":       ModMeta,
	"meta":    ModMeta,
	"cmd":     ModMeta,
	"super":   ModMeta,
}

// ModifierFromName resolves a modifier name, case-insensitively.
func ModifierFromName(name string) (Modifier, bool) {
	m, ok := modifierNames[strings.ToLower(strings.TrimSpace(name))]
	return m, ok
}
