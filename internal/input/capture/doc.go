// Package capture provides key event sources for macro recording.
//
// Terminal reads key presses from a tcell screen. Terminals only report
// presses, so each press becomes a down/up pair, wrapped in the down/up
// events of any modifiers the terminal reported.
//
// Script replays a key log written in YAML, which allows macros to be
// compiled without a live keyboard:
//
//	events:
//	  - {key: Shift, phase: down}
//	  - {text: "hello"}
//	  - {key: Shift, phase: up}
//	  - {key: Enter}
//
// Both implement macro.Source.
package capture
