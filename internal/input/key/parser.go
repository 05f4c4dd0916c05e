package key

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"
)

// ErrInvalidKeySpec is returned for a specification that names no key.
var ErrInvalidKeySpec = errors.New("invalid key specification")

// Parse parses a key specification. See the package documentation for
// the accepted spellings.
func Parse(spec string) (Event, error) {
	spec = strings.TrimSpace(spec)
	if spec == "" {
		return Event{}, fmt.Errorf("%w: empty", ErrInvalidKeySpec)
	}
	if len(spec) > 2 && strings.HasPrefix(spec, "<") && strings.HasSuffix(spec, ">") {
		spec = spec[1 : len(spec)-1]
	}
	if utf8.RuneCountInString(spec) == 1 {
		r, _ := utf8.DecodeRuneInString(spec)
		return NewRune(r, ModNone).Normalize(), nil
	}

	sep := "-"
	if strings.Contains(spec, "+") && !strings.HasSuffix(spec, "-+") {
		sep = "+"
	}
	parts := splitSpec(spec, sep)

	var mods Modifier
	for _, p := range parts[:len(parts)-1] {
		m, ok := ModifierFromName(p)
		if !ok {
			return Event{}, fmt.Errorf("%w: unknown modifier %q in %q", ErrInvalidKeySpec, p, spec)
		}
		mods |= m
	}

	name := parts[len(parts)-1]
	if k := KeyFromName(name); k != KeyNone {
		return NewSpecial(k, mods), nil
	}
	if r, ok := runeAliases[strings.ToLower(name)]; ok {
		return NewRune(r, mods).Normalize(), nil
	}
	if utf8.RuneCountInString(name) == 1 {
		r, _ := utf8.DecodeRuneInString(name)
		return NewRune(r, mods).Normalize(), nil
	}
	return Event{}, fmt.Errorf("%w: unknown key %q in %q", ErrInvalidKeySpec, name, spec)
}

// splitSpec splits on sep, keeping a trailing sep as the key itself
// ("C--" is Ctrl and minus).
func splitSpec(spec, sep string) []string {
	if strings.HasSuffix(spec, sep+sep) {
		head := strings.Split(strings.TrimSuffix(spec, sep+sep), sep)
		return append(head, sep)
	}
	return strings.Split(spec, sep)
}

// MustParse is Parse for specifications known to be valid.
func MustParse(spec string) Event {
	e, err := Parse(spec)
	if err != nil {
		panic(err)
	}
	return e
}

// Normalize rewrites a specification in its canonical hyphenated form.
func Normalize(spec string) (string, error) {
	e, err := Parse(spec)
	if err != nil {
		return "", err
	}
	return e.String(), nil
}
