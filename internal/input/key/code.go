package key

import (
	"fmt"
	"unicode"
)

// Code identifies one physical key as seen by the recorder.
// Codes are comparable and can be used as map keys.
type Code struct {
	// Key is the named key, or KeyRune for character keys.
	Key Key

	// Rune is the character for KeyRune codes.
	Rune rune
}

// Named returns the code for a named key.
func Named(k Key) Code {
	return Code{Key: k}
}

// Char returns the code for a character key.
func Char(r rune) Code {
	return Code{Key: KeyRune, Rune: r}
}

// Common modifier codes.
var (
	Shift = Named(KeyShift)
	Ctrl  = Named(KeyCtrl)
	Alt   = Named(KeyAlt)
	Meta  = Named(KeyMeta)
)

// IsZero returns true for the zero Code.
func (c Code) IsZero() bool {
	return c == Code{}
}

// IsRune returns true if this is a character key code.
func (c Code) IsRune() bool {
	return c.Key == KeyRune && c.Rune != 0
}

// IsModifier returns true if the code is a modifier key.
func (c Code) IsModifier() bool {
	return c.Key.IsModifier()
}

// Printable returns the character typed by tapping this key on its own,
// and whether the key types text at all.
func (c Code) Printable() (rune, bool) {
	switch {
	case c.Key == KeySpace:
		return ' ', true
	case c.IsRune() && unicode.IsPrint(c.Rune):
		return c.Rune, true
	}
	return 0, false
}

// String returns the canonical spec for the code, suitable for ParseCode.
// Examples: "a", "Shift", "F5", "<Space>", "<lt>".
func (c Code) String() string {
	if c.Key != KeyRune {
		return c.Key.String()
	}
	switch c.Rune {
	case ' ':
		return "<Space>"
	case '<':
		return "<lt>"
	case '>':
		return "<gt>"
	case '+':
		return "<plus>"
	case 0:
		return "None"
	}
	if !unicode.IsPrint(c.Rune) {
		return fmt.Sprintf("<U+%04X>", c.Rune)
	}
	return string(c.Rune)
}

// GoString implements fmt.GoStringer for debugging.
func (c Code) GoString() string {
	if c.Key == KeyRune {
		return fmt.Sprintf("Code{Rune: %q}", c.Rune)
	}
	return fmt.Sprintf("Code{Key: %s}", c.Key)
}
