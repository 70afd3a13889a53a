// Package config provides keymacro's typed configuration.
//
// Settings come from three layers, lowest precedence first:
//
//  1. Built-in defaults (Default)
//  2. The TOML config file (~/.config/keymacro/config.toml unless overridden)
//  3. KEYMACRO_* environment variables
//
// Example file:
//
//	[log]
//	level = "debug"
//
//	[optimizer]
//	text_runs = true
//	merge_taps = false
//
//	[capture]
//	stop_key = "Ctrl+]"
//
//	[storage]
//	library = "/home/me/.config/keymacro/library.sqlite"
//	documents = "/home/me/macros"
//
// Unknown sections or settings in the file are reported as errors.
package config
