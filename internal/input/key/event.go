package key

import (
	"fmt"
	"time"
)

// Phase tells whether an event is a key press or a key release.
type Phase uint8

const (
	// PhaseDown is a key press.
	PhaseDown Phase = iota
	// PhaseUp is a key release.
	PhaseUp
)

// String returns "down" or "up".
func (p Phase) String() string {
	switch p {
	case PhaseDown:
		return "down"
	case PhaseUp:
		return "up"
	default:
		return fmt.Sprintf("Phase(%d)", p)
	}
}

// ParsePhase parses "down" or "up" as written by String, and accepts the
// aliases "press" and "release". Matching is case-sensitive.
func ParsePhase(s string) (Phase, error) {
	switch s {
	case "down", "press":
		return PhaseDown, nil
	case "up", "release":
		return PhaseUp, nil
	default:
		return 0, fmt.Errorf("%w: unknown phase %q", ErrInvalidSpec, s)
	}
}

// Event represents a single raw key transition.
type Event struct {
	// Code identifies the key.
	Code Code

	// Phase is the transition direction.
	Phase Phase

	// Timestamp orders events. It carries a monotonic clock reading when
	// created with time.Now.
	Timestamp time.Time
}

// Down creates a key-down event with the current timestamp.
func Down(c Code) Event {
	return Event{Code: c, Phase: PhaseDown, Timestamp: time.Now()}
}

// Up creates a key-up event with the current timestamp.
func Up(c Code) Event {
	return Event{Code: c, Phase: PhaseUp, Timestamp: time.Now()}
}

// Tap returns the down/up pair for one key press.
func Tap(c Code) []Event {
	return []Event{Down(c), Up(c)}
}

// IsDown returns true for key-down events.
func (e Event) IsDown() bool {
	return e.Phase == PhaseDown
}

// IsUp returns true for key-up events.
func (e Event) IsUp() bool {
	return e.Phase == PhaseUp
}

// Releases returns true if e is the release of the key pressed by down.
func (e Event) Releases(down Event) bool {
	return down.IsDown() && e.IsUp() && e.Code == down.Code
}

// Equals returns true if two events are the same transition.
// Timestamps are not compared.
func (e Event) Equals(other Event) bool {
	return e.Code == other.Code && e.Phase == other.Phase
}

// String returns a compact representation such as "down Shift".
func (e Event) String() string {
	return e.Phase.String() + " " + e.Code.String()
}
