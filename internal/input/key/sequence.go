package key

import "strings"

// Sequence is an ordered list of key codes, such as the keys of a tap action.
type Sequence []Code

// Len returns the number of codes in the sequence.
func (s Sequence) Len() int {
	return len(s)
}

// IsEmpty returns true if the sequence has no codes.
func (s Sequence) IsEmpty() bool {
	return len(s) == 0
}

// Append returns a new sequence with c added at the end.
// The receiver is never modified.
func (s Sequence) Append(c Code) Sequence {
	out := make(Sequence, len(s), len(s)+1)
	copy(out, s)
	return append(out, c)
}

// Clone returns a copy of the sequence. A nil sequence clones to nil.
func (s Sequence) Clone() Sequence {
	if s == nil {
		return nil
	}
	out := make(Sequence, len(s))
	copy(out, s)
	return out
}

// Equals returns true if both sequences hold the same codes in order.
func (s Sequence) Equals(other Sequence) bool {
	if len(s) != len(other) {
		return false
	}
	for i := range s {
		if s[i] != other[i] {
			return false
		}
	}
	return true
}

// String returns the codes separated by spaces, e.g. "Shift a Enter".
func (s Sequence) String() string {
	parts := make([]string, len(s))
	for i, c := range s {
		parts[i] = c.String()
	}
	return strings.Join(parts, " ")
}

// ParseSequence parses whitespace-separated key specs into a Sequence.
// An empty string yields an empty sequence.
func ParseSequence(spec string) (Sequence, error) {
	fields := strings.Fields(spec)
	seq := make(Sequence, 0, len(fields))
	for _, f := range fields {
		c, err := ParseCode(f)
		if err != nil {
			return nil, err
		}
		seq = append(seq, c)
	}
	return seq, nil
}
