// Package app hosts a macro editor: one action list, the recording
// session that feeds it, and the storage it is saved to.
//
// The Editor is the entry point. It owns the macro.List and macro.Session,
// resolves settings from config.Config, and logs through a Logger:
//
//   - structural changes of the list at Debug
//   - refused edits (unknown line, offset out of range) at Warn
//   - aborted recordings and storage failures at Error
//
// Refused edits never panic; they return an *OperationError wrapping the
// macro package's sentinel and leave the list unchanged.
package app
