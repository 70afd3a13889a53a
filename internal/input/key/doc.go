// Package key provides the key identifiers and raw key events consumed by
// the macro compiler.
//
// This package defines the fundamental types for representing keyboard input:
//
//   - Key: Identifies a named keyboard key (modifiers, special keys, function keys)
//   - Code: The opaque key identifier carried by events and macro actions
//   - Phase: Whether a transition is a key-down or a key-up
//   - Event: A single timestamped key transition
//   - Modifier: A bitset of held modifier keys, as reported by terminals
//   - Sequence: An ordered list of codes, used by tap actions
//
// # Key Specifications
//
// Codes can be written as:
//
//   - Single characters: "a", "A", "1", "@"
//   - Key names: "Enter", "Escape", "Tab", "Shift", "Ctrl", "F5"
//   - Aliases in angle brackets: "<CR>", "<Esc>", "<lt>", "<Space>"
//
// Chords such as "Ctrl+]" combine modifier names with one code and are used
// for configuration (for example the key that stops a recording).
package key
