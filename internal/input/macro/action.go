package macro

import (
	"fmt"
	"strconv"

	"github.com/dshills/keymacro/internal/input/key"
)

// Kind identifies an action variant.
type Kind uint8

const (
	// KindText types a string verbatim.
	KindText Kind = iota
	// KindDown holds a key.
	KindDown
	// KindUp releases a key.
	KindUp
	// KindTap presses and releases keys in sequence.
	KindTap
)

// kindNames doubles as the ordering of kinds offered to an editor.
var kindNames = [...]string{
	KindText: "Text",
	KindDown: "Down",
	KindUp:   "Up",
	KindTap:  "Tap",
}

// String returns "Text", "Down", "Up" or "Tap".
func (k Kind) String() string {
	if k.Valid() {
		return kindNames[k]
	}
	return fmt.Sprintf("Kind(%d)", k)
}

// Valid returns true if k is one of the defined kinds.
func (k Kind) Valid() bool {
	return int(k) < len(kindNames)
}

// IsSequence returns true for the key-based kinds (Down, Up, Tap).
func (k Kind) IsSequence() bool {
	return k == KindDown || k == KindUp || k == KindTap
}

// Kinds returns every kind in editor order.
func Kinds() []Kind {
	return []Kind{KindText, KindDown, KindUp, KindTap}
}

// ParseKind parses a kind name as returned by Kind.String.
func ParseKind(s string) (Kind, error) {
	for i, name := range kindNames {
		if name == s {
			return Kind(i), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownKind, s)
}

// Action is one compiled unit of macro behavior.
// The set of implementations is closed: Text, KeyDown, KeyUp and KeyTap.
type Action interface {
	Kind() Kind
	String() string

	action()
}

// Text types Content verbatim.
type Text struct {
	Content string
}

// KeyDown holds Key until a matching KeyUp.
type KeyDown struct {
	Key key.Code
}

// KeyUp releases Key.
type KeyUp struct {
	Key key.Code
}

// KeyTap presses and releases each key of Keys in order.
type KeyTap struct {
	Keys key.Sequence
}

func (Text) Kind() Kind    { return KindText }
func (KeyDown) Kind() Kind { return KindDown }
func (KeyUp) Kind() Kind   { return KindUp }
func (KeyTap) Kind() Kind  { return KindTap }

func (Text) action()    {}
func (KeyDown) action() {}
func (KeyUp) action()   {}
func (KeyTap) action()  {}

func (a Text) String() string    { return "Text " + strconv.Quote(a.Content) }
func (a KeyDown) String() string { return "Down " + a.Key.String() }
func (a KeyUp) String() string   { return "Up " + a.Key.String() }
func (a KeyTap) String() string  { return "Tap " + a.Keys.String() }

// New returns the default action of the given kind: empty text, an unset
// key, or an empty tap sequence. It returns nil for an invalid kind.
func New(kind Kind) Action {
	switch kind {
	case KindText:
		return Text{}
	case KindDown:
		return KeyDown{}
	case KindUp:
		return KeyUp{}
	case KindTap:
		return KeyTap{Keys: key.Sequence{}}
	default:
		return nil
	}
}

// clone returns a copy of a that shares no mutable storage with it.
func clone(a Action) Action {
	switch v := a.(type) {
	case KeyTap:
		return KeyTap{Keys: v.Keys.Clone()}
	case Text, KeyDown, KeyUp:
		return v
	default:
		panic(fmt.Sprintf("macro: unhandled action type %T", a))
	}
}

// Payload returns the editable value of an action as a single string: the
// text of a Text action or the key specs of the key-based actions.
// FromPayload reverses it.
func Payload(a Action) string {
	switch v := a.(type) {
	case Text:
		return v.Content
	case KeyDown:
		return codeSpec(v.Key)
	case KeyUp:
		return codeSpec(v.Key)
	case KeyTap:
		return v.Keys.String()
	default:
		panic(fmt.Sprintf("macro: unhandled action type %T", a))
	}
}

// codeSpec renders an unset key as the empty string.
func codeSpec(c key.Code) string {
	if c.IsZero() {
		return ""
	}
	return c.String()
}

// FromPayload builds an action of the given kind from a Payload string.
func FromPayload(kind Kind, payload string) (Action, error) {
	switch kind {
	case KindText:
		return Text{Content: payload}, nil
	case KindDown, KindUp:
		var code key.Code
		if payload != "" {
			c, err := key.ParseCode(payload)
			if err != nil {
				return nil, fmt.Errorf("parsing %s key: %w", kind, err)
			}
			code = c
		}
		if kind == KindDown {
			return KeyDown{Key: code}, nil
		}
		return KeyUp{Key: code}, nil
	case KindTap:
		seq, err := key.ParseSequence(payload)
		if err != nil {
			return nil, fmt.Errorf("parsing tap keys: %w", err)
		}
		return KeyTap{Keys: seq}, nil
	default:
		return nil, fmt.Errorf("%w: %d", ErrUnknownKind, kind)
	}
}

// Equal reports whether two actions are the same variant with the same payload.
func Equal(a, b Action) bool {
	switch x := a.(type) {
	case KeyTap:
		y, ok := b.(KeyTap)
		return ok && x.Keys.Equals(y.Keys)
	default:
		return a == b
	}
}
