// Package config loads and persists BlackConnect settings.
//
// # Overview
//
// Settings describe where blackd listens and how it should format: line
// length, fast/safe mode, string normalization, target python versions, and
// a few behaviour switches for the hosts (syntax error notifications,
// reformat on save, notebook support, TUI theme).
//
// # Configuration Discovery
//
// The Load function follows this resolution order:
//
//  1. If a path is explicitly provided, use it
//  2. Otherwise, use ~/.config/blackconnect/config.toml (default)
//  3. If the config file doesn't exist, fall back to Default()
//  4. If the file exists but fields are missing/empty, use defaults
//
// # Default Values
//
//   - hostname: localhost
//   - port: 45484 (blackd's default)
//   - line_length: 88
//   - show_syntax_error_msgs: true
//   - theme: Dracula
//   - every other switch: false
//
// # TOML Format
//
//	hostname = "localhost"
//	port = 45484
//	line_length = 88
//	fast_mode = false
//	skip_string_normalization = false
//	target_specific_versions = true
//	python_targets = "py38,py39"
//	show_syntax_error_msgs = true
//	trigger_on_save = false
//	enable_jupyter_support = false
//	theme = "Dracula"
//
// python_targets is only sent to blackd when target_specific_versions is set.
//
// # Error Handling
//
// Load returns errors for path expansion failures, read failures (except
// os.ErrNotExist, which triggers defaults) and TOML parse errors. Validate
// wraps ErrInvalid for values that cannot be sent to the daemon.
package config
