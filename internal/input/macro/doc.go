// Package macro compiles recorded keystrokes into editable macro actions for
// a programmable keyboard and maintains the resulting action list.
//
// # Actions
//
// An Action is one of a closed set of variants:
//
//   - Text: a run of printable characters typed verbatim
//   - KeyDown: hold a key
//   - KeyUp: release a key
//   - KeyTap: press and release one or more keys in order
//
// New builds the default value of a variant, which is what a line receives
// when its kind is changed.
//
// # Optimizing
//
// Optimize turns the raw key-down/key-up stream of one recording into the
// smallest action sequence that replays the same effects in the same order.
// Printable keys tapped one after another are merged into a Text run,
// non-printable taps become KeyTap entries, and keys held across other keys
// are kept as explicit KeyDown/KeyUp pairs:
//
//	events := []key.Event{
//	    key.Down(key.Shift),
//	    key.Down(key.Char('a')), key.Up(key.Char('a')),
//	    key.Up(key.Shift),
//	}
//	macro.Optimize(events) // [Down Shift, Text "a", Up Shift]
//
// # Lists
//
// A List owns the ordered lines of a macro. Each line has a stable LineID and
// a position equal to its index. Structural edits (Append, Remove, Move,
// ChangeKind) keep positions dense and report what changed to an Observer.
//
// # Recording
//
// A Session coordinates a Source of raw key events with the optimizer:
//
//	list := macro.NewList()
//	session := macro.NewSession(source, list)
//	session.Start()
//	// ... keys are captured ...
//	ids, err := session.Stop() // optimized actions are now in list
//
// # Persistence
//
// Lists can be saved to and loaded from disk as JSON documents. Encoding for
// a device is left to an Encoder supplied by the caller.
package macro
