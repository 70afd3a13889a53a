package key

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"
)

// Parse errors
var (
	ErrEmptySpec        = errors.New("empty key specification")
	ErrInvalidSpec      = errors.New("invalid key specification")
	ErrUnmatchedBracket = errors.New("unmatched bracket in key specification")
)

// bracketAliases are the <...> names that stand for characters which are
// awkward to write bare.
var bracketAliases = map[string]rune{
	"space":  ' ',
	"lt":     '<',
	"gt":     '>',
	"bar":    '|',
	"bslash": '\\',
	"plus":   '+',
}

// ParseCode parses a key specification string into a Code.
//
// Supported formats:
//   - Single character: "a", "A", "1", "@"
//   - Key names: "Enter", "Escape", "Shift", "Ctrl", "F4"
//   - Bracketed names and aliases: "<CR>", "<Esc>", "<Space>", "<lt>", "<U+0007>"
func ParseCode(spec string) (Code, error) {
	spec = strings.TrimSpace(spec)
	if spec == "" {
		return Code{}, ErrEmptySpec
	}

	if strings.HasPrefix(spec, "<") && len(spec) > 1 {
		if !strings.HasSuffix(spec, ">") {
			return Code{}, fmt.Errorf("%w: %q", ErrUnmatchedBracket, spec)
		}
		return parseBracketed(spec[1 : len(spec)-1])
	}

	if utf8.RuneCountInString(spec) == 1 {
		r, _ := utf8.DecodeRuneInString(spec)
		return Char(r), nil
	}

	if k := KeyFromName(spec); k != KeyNone {
		return Named(k), nil
	}

	return Code{}, fmt.Errorf("%w: %q", ErrInvalidSpec, spec)
}

// parseBracketed parses the inside of "<...>".
func parseBracketed(inner string) (Code, error) {
	inner = strings.TrimSpace(inner)
	if inner == "" {
		return Code{}, ErrInvalidSpec
	}

	lower := strings.ToLower(inner)
	if r, ok := bracketAliases[lower]; ok {
		return Char(r), nil
	}

	if strings.HasPrefix(lower, "u+") {
		n, err := strconv.ParseUint(inner[2:], 16, 32)
		if err != nil || n == 0 || !utf8.ValidRune(rune(n)) {
			return Code{}, fmt.Errorf("%w: bad code point %q", ErrInvalidSpec, inner)
		}
		return Char(rune(n)), nil
	}

	if k := KeyFromName(lower); k != KeyNone {
		return Named(k), nil
	}

	return Code{}, fmt.Errorf("%w: <%s>", ErrInvalidSpec, inner)
}

// MustParseCode is like ParseCode but panics on error.
// Intended for tests and package-level tables.
func MustParseCode(spec string) Code {
	c, err := ParseCode(spec)
	if err != nil {
		panic(err)
	}
	return c
}

// Chord is a key pressed while a set of modifiers is held.
type Chord struct {
	Modifiers Modifier
	Code      Code
}

// Matches returns true if the chord is the given key with exactly the
// given modifiers held.
func (c Chord) Matches(mods Modifier, code Code) bool {
	return c.Modifiers == mods && c.Code == code
}

// String returns the chord in "Ctrl+]" form.
func (c Chord) String() string {
	if c.Modifiers.IsEmpty() {
		return c.Code.String()
	}
	return c.Modifiers.String() + "+" + c.Code.String()
}

// ParseChord parses a chord such as "Ctrl+]", "Ctrl+Shift+P" or "F12".
// All parts but the last must be modifier names.
func ParseChord(spec string) (Chord, error) {
	spec = strings.TrimSpace(spec)
	if spec == "" {
		return Chord{}, ErrEmptySpec
	}

	// A lone "+" is the plus key, not a separator.
	if spec == "+" || !strings.Contains(spec, "+") {
		code, err := ParseCode(spec)
		if err != nil {
			return Chord{}, err
		}
		return Chord{Code: code}, nil
	}

	parts := strings.Split(spec, "+")
	keyPart := parts[len(parts)-1]
	mods := parts[:len(parts)-1]
	// "Ctrl++" splits into ["Ctrl", "", ""].
	if keyPart == "" && len(mods) > 0 && mods[len(mods)-1] == "" {
		keyPart = "+"
		mods = mods[:len(mods)-1]
	}

	var chord Chord
	for _, p := range mods {
		mod := ModifierFromName(p)
		if mod == ModNone {
			return Chord{}, fmt.Errorf("%w: unknown modifier %q", ErrInvalidSpec, p)
		}
		chord.Modifiers = chord.Modifiers.With(mod)
	}

	code, err := ParseCode(keyPart)
	if err != nil {
		return Chord{}, err
	}
	chord.Code = code
	return chord, nil
}
