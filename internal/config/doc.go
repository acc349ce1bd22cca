// Package config loads postboard's TOML configuration.
//
// # Configuration Discovery
//
// Load reads the given path, or ~/.config/postboard/config.toml when the
// path is blank. A missing file is not an error: Default is returned so
// postboard talks to the public demo service out of the box. Fields that
// are absent or blank keep their defaults.
//
// # TOML Format
//
//	api_base = "https://jsonplaceholder.typicode.com"
//	request_timeout = "10s"
//	rate_limit = 5          # requests per second, 0 disables
//	write_strategy = "echo" # or "draft"
//	page_size = 10
//	refresh_every = "0s"    # periodic re-fetch, 0 disables
//	log_path = "~/.local/share/postboard/postboard.log"
//	log_level = "info"
//	metrics_addr = ""       # e.g. "127.0.0.1:9310"
//
// Tilde expansion applies to the config path and log_path. log_path may also
// be "stderr" or "stdout" for one-shot commands.
//
// # Error Handling
//
// Load returns errors for path expansion failures, read errors other than
// os.ErrNotExist, TOML syntax errors, and values that parse but make no
// sense: malformed or negative durations, negative rate_limit or page_size,
// unknown write strategies and log levels. Every parse-time failure is
// prefixed with "parse config".
//
// # Preferences
//
// PrefsPath places prefs.toml beside the config file. Preferences are owned
// by package prefs and change at runtime; config.toml is read once.
package config
