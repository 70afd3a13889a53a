package key

import "strings"

// Modifier represents held modifier keys as a bitset.
// Terminals report modifiers this way instead of as separate key events.
type Modifier uint8

const (
	// ModNone indicates no modifiers.
	ModNone Modifier = 0

	// ModShift indicates the Shift key.
	ModShift Modifier = 1 << iota

	// ModCtrl indicates the Control key.
	ModCtrl

	// ModAlt indicates the Alt key (Option on macOS).
	ModAlt

	// ModMeta indicates the Meta key (Cmd on macOS, Win on Windows).
	ModMeta
)

// Has returns true if m contains the specified modifier.
func (m Modifier) Has(mod Modifier) bool {
	return m&mod != 0
}

// HasShift returns true if Shift is pressed.
func (m Modifier) HasShift() bool {
	return m.Has(ModShift)
}

// HasCtrl returns true if Control is pressed.
func (m Modifier) HasCtrl() bool {
	return m.Has(ModCtrl)
}

// HasAlt returns true if Alt is pressed.
func (m Modifier) HasAlt() bool {
	return m.Has(ModAlt)
}

// HasMeta returns true if Meta is pressed.
func (m Modifier) HasMeta() bool {
	return m.Has(ModMeta)
}

// With returns a new Modifier with the specified modifier added.
func (m Modifier) With(mod Modifier) Modifier {
	return m | mod
}

// Without returns a new Modifier with the specified modifier removed.
func (m Modifier) Without(mod Modifier) Modifier {
	return m &^ mod
}

// IsEmpty returns true if no modifiers are set.
func (m Modifier) IsEmpty() bool {
	return m == ModNone
}

// modifierOrder is the press order used when expanding a bitset into codes.
var modifierOrder = []struct {
	mod  Modifier
	code Code
}{
	{ModCtrl, Ctrl},
	{ModAlt, Alt},
	{ModShift, Shift},
	{ModMeta, Meta},
}

// Codes returns the modifier key codes in press order (Ctrl, Alt, Shift, Meta).
func (m Modifier) Codes() []Code {
	var codes []Code
	for _, o := range modifierOrder {
		if m.Has(o.mod) {
			codes = append(codes, o.code)
		}
	}
	return codes
}

// String returns a human-readable representation like "Ctrl+Alt".
func (m Modifier) String() string {
	if m == ModNone {
		return ""
	}
	codes := m.Codes()
	parts := make([]string, len(codes))
	for i, c := range codes {
		parts[i] = c.String()
	}
	return strings.Join(parts, "+")
}

// ModifierFromKey returns the Modifier bit for a modifier key.
// Returns ModNone for other keys.
func ModifierFromKey(k Key) Modifier {
	switch k {
	case KeyShift:
		return ModShift
	case KeyCtrl:
		return ModCtrl
	case KeyAlt:
		return ModAlt
	case KeyMeta:
		return ModMeta
	default:
		return ModNone
	}
}

// shortModifiers are the single-letter modifier names used in key specs.
var shortModifiers = map[string]Modifier{
	"c": ModCtrl,
	"s": ModShift,
	"a": ModAlt,
	"m": ModMeta,
	"d": ModMeta, // D is command/meta
}

// ModifierFromName returns the Modifier for a given name (case-insensitive).
// Returns ModNone if the name is not recognized.
func ModifierFromName(name string) Modifier {
	name = strings.ToLower(strings.TrimSpace(name))
	if m, ok := shortModifiers[name]; ok {
		return m
	}
	return ModifierFromKey(KeyFromName(name))
}
