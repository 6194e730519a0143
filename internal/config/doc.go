// Package config loads the dronedeck dashboard configuration.
//
// # Configuration Discovery
//
// The Load function follows this resolution order:
//
//  1. If a path is explicitly provided, use it
//  2. Otherwise, use ~/.config/dronedeck/config.toml (default)
//  3. If the config file doesn't exist, fall back to defaults
//  4. If the file exists but fields are missing/empty, use defaults
//
// With no file at all the dashboard starts in simulation mode, so it works
// out of the box without a drone controller.
//
// # Default Values
//
//   - Endpoint: empty (simulation mode)
//   - Sync mode: state
//   - Poll interval: 1000 ms
//   - Request timeout: 5000 ms
//   - Log file: ~/.local/state/dronedeck/dronedeck.log
//   - Log level: info
//
// # TOML Format
//
//	endpoint = "http://127.0.0.1:8000/api/drone"
//	sync_mode = "state"          # or "telemetry"
//	poll_interval_ms = 1000
//	request_timeout_ms = 5000
//	metrics_addr = "127.0.0.1:9464"
//	log_file = "~/.local/state/dronedeck/dronedeck.log"
//	log_level = "info"
//
//	[drone]
//	id = "jawji-01"
//	name = "Jawji One"
//	model = "JW-4 Pro"
//	firmware = "v01.04.0300"
//
// Every field is optional. String values are trimmed and tilde expansion is
// performed on log_file.
//
// # Error Handling
//
// Load returns errors for:
//   - Path expansion failures (e.g., cannot determine home directory)
//   - File read errors (except os.ErrNotExist, which triggers defaults)
//   - TOML parsing errors
//   - A sync_mode other than state or telemetry
//
// Command-line flags override the loaded values; that happens in cmd/dronedeck.
package config
