package key

import (
	"fmt"
	"unicode"
)

// Event is a single key press.
type Event struct {
	Key       Key
	Rune      rune
	Modifiers Modifier
}

// NewRune returns the event for typing r.
func NewRune(r rune, mods Modifier) Event {
	return Event{Key: KeyRune, Rune: r, Modifiers: mods}
}

// NewSpecial returns the event for a non-character key.
func NewSpecial(k Key, mods Modifier) Event {
	return Event{Key: k, Modifiers: mods}
}

// IsRune reports whether e is a character key.
func (e Event) IsRune() bool {
	return e.Key == KeyRune && e.Rune != 0
}

// IsChar reports whether e types a printable character: a rune with no
// Ctrl, Alt or Meta.
func (e Event) IsChar() bool {
	return e.IsRune() && unicode.IsPrint(e.Rune) && !e.Modifiers.Has(ModCtrl) &&
		!e.Modifiers.Has(ModAlt) && !e.Modifiers.Has(ModMeta)
}

// Text returns the text e types, or "" for a non-printing key.
func (e Event) Text() string {
	if !e.IsChar() {
		return ""
	}
	return string(e.Rune)
}

// Ctrl reports whether Ctrl is held.
func (e Event) Ctrl() bool { return e.Modifiers.Has(ModCtrl) }

// Alt reports whether Alt is held.
func (e Event) Alt() bool { return e.Modifiers.Has(ModAlt) }

// Shift reports whether Shift is held, including the implicit Shift of an
// upper-case letter.
func (e Event) Shift() bool { return e.Normalize().Modifiers.Has(ModShift) }

// Normalize returns the canonical form of e used for matching. For a
// letter typed with Ctrl, Alt or Meta the rune is lower-cased and an
// upper-case letter adds Shift. For a plain character Shift is dropped,
// since it is part of the character.
func (e Event) Normalize() Event {
	if e.Key != KeyRune {
		return e
	}
	if e.Modifiers.Has(ModCtrl) || e.Modifiers.Has(ModAlt) || e.Modifiers.Has(ModMeta) {
		if unicode.IsUpper(e.Rune) {
			e.Rune = unicode.ToLower(e.Rune)
			e.Modifiers |= ModShift
		}
		return e
	}
	e.Modifiers = e.Modifiers.Without(ModShift)
	return e
}

// Equals reports whether two events are the same key press.
func (e Event) Equals(other Event) bool {
	return e.Normalize() == other.Normalize()
}

// Matches reports whether e is the key press named by spec.
func (e Event) Matches(spec string) bool {
	parsed, err := Parse(spec)
	return err == nil && e.Equals(parsed)
}

// String returns the hyphenated specification of e, e.g. "C-S-d" or
// "Up". It parses back to an equal event.
func (e Event) String() string {
	n := e.Normalize()
	name := n.Key.String()
	if n.Key == KeyRune {
		switch n.Rune {
		case ' ':
			name = "Space"
		case '-':
			name = "minus"
		case '+':
			name = "plus"
		default:
			name = string(n.Rune)
		}
	}
	if n.Modifiers == ModNone {
		return name
	}
	return n.Modifiers.String() + "-" + name
}

// GoString implements fmt.GoStringer.
func (e Event) GoString() string {
	return fmt.Sprintf("key.Event{%s}", e.String())
}
