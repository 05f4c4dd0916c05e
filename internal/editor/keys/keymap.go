package keys

import (
	"errors"
	"fmt"
	"slices"
	"sort"

	"github.com/dshills/scriptedit/internal/input/key"
)

// ErrUnknownAction is returned when binding a name no handler serves.
var ErrUnknownAction = errors.New("unknown action")

// Action names.
const (
	ActionAddCaretAbove   = "caret.addAbove"
	ActionAddCaretBelow   = "caret.addBelow"
	ActionCollapseCarets  = "caret.collapse"
	ActionDuplicateLines  = "lines.duplicate"
	ActionToggleComment   = "lines.toggleComment"
	ActionMoveLinesUp     = "lines.moveUp"
	ActionMoveLinesDown   = "lines.moveDown"
	ActionUnindent        = "lines.unindent"
	ActionSelectWordLeft  = "select.wordLeft"
	ActionSelectWordRight = "select.wordRight"
	ActionPaste           = "edit.paste"
	ActionDeleteForward   = "edit.delete"
	ActionDeleteBackward  = "edit.backspace"
	ActionUndo            = "edit.undo"
	ActionRedo            = "edit.redo"
)

// Binding maps a key spec to an action.
type Binding struct {
	Keys        string
	Action      string
	Description string
}

// DefaultBindings returns the built-in bindings.
func DefaultBindings() []Binding {
	return []Binding{
		{Keys: "C-A-Up", Action: ActionAddCaretAbove, Description: "Add a caret above"},
		{Keys: "C-A-Down", Action: ActionAddCaretBelow, Description: "Add a caret below"},
		{Keys: "C-S-d", Action: ActionDuplicateLines, Description: "Duplicate lines"},
		{Keys: "C-S-Left", Action: ActionSelectWordLeft, Description: "Extend selections a word left"},
		{Keys: "C-S-Right", Action: ActionSelectWordRight, Description: "Extend selections a word right"},
		{Keys: "C-/", Action: ActionToggleComment, Description: "Toggle line comment"},
		{Keys: "C-Up", Action: ActionMoveLinesUp, Description: "Move lines up"},
		{Keys: "C-Down", Action: ActionMoveLinesDown, Description: "Move lines down"},
		{Keys: "C-v", Action: ActionPaste, Description: "Paste at every caret"},
		{Keys: "Backtab", Action: ActionUnindent, Description: "Unindent"},
		{Keys: "Del", Action: ActionDeleteForward, Description: "Delete forward"},
		{Keys: "BS", Action: ActionDeleteBackward, Description: "Delete backward"},
		{Keys: "Esc", Action: ActionCollapseCarets, Description: "Keep only the primary caret"},
		{Keys: "C-z", Action: ActionUndo, Description: "Undo"},
		{Keys: "C-y", Action: ActionRedo, Description: "Redo"},
		{Keys: "C-S-z", Action: ActionRedo, Description: "Redo"},
	}
}

// Keymap resolves key events to action names.
type Keymap struct {
	bindings map[key.Event]string
}

// NewKeymap creates an empty keymap.
func NewKeymap() *Keymap {
	return &Keymap{bindings: make(map[key.Event]string)}
}

// DefaultKeymap returns a keymap holding DefaultBindings.
func DefaultKeymap() *Keymap {
	km := NewKeymap()
	for _, b := range DefaultBindings() {
		if err := km.Bind(b.Keys, b.Action); err != nil {
			panic(fmt.Sprintf("default binding %q: %v", b.Keys, err))
		}
	}
	return km
}

// Bind maps spec to action, replacing any previous binding of spec.
func (km *Keymap) Bind(spec, action string) error {
	ev, err := key.Parse(spec)
	if err != nil {
		return err
	}
	if !IsAction(action) {
		return fmt.Errorf("%w: %q", ErrUnknownAction, action)
	}
	km.bindings[ev.Normalize()] = action
	return nil
}

// Unbind removes the binding of spec.
func (km *Keymap) Unbind(spec string) error {
	ev, err := key.Parse(spec)
	if err != nil {
		return err
	}
	delete(km.bindings, ev.Normalize())
	return nil
}

// Apply rebinds every spec in overrides. An empty action unbinds the key.
// All overrides are checked before any is applied.
func (km *Keymap) Apply(overrides map[string]string) error {
	var errs []error
	for spec, action := range overrides {
		if _, err := key.Parse(spec); err != nil {
			errs = append(errs, err)
			continue
		}
		if action != "" && !IsAction(action) {
			errs = append(errs, fmt.Errorf("%w: %q for %s", ErrUnknownAction, action, spec))
		}
	}
	if err := errors.Join(errs...); err != nil {
		return err
	}
	for spec, action := range overrides {
		if action == "" {
			_ = km.Unbind(spec)
			continue
		}
		_ = km.Bind(spec, action)
	}
	return nil
}

// Lookup returns the action bound to ev.
func (km *Keymap) Lookup(ev key.Event) (string, bool) {
	action, ok := km.bindings[ev.Normalize()]
	return action, ok
}

// Bindings returns the bindings sorted by key spec.
func (km *Keymap) Bindings() []Binding {
	out := make([]Binding, 0, len(km.bindings))
	for ev, action := range km.bindings {
		out = append(out, Binding{Keys: ev.String(), Action: action})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Keys < out[j].Keys })
	return out
}

// Actions returns every action name, sorted.
func Actions() []string {
	names := make([]string, 0, len(actions))
	for name := range actions {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// IsAction reports whether name is a known action.
func IsAction(name string) bool {
	_, ok := actions[name]
	return ok
}
