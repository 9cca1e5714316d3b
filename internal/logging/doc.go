// Package logging provides structured logging with per-module log level configuration.
//
// # Overview
//
// The logging system uses Go's slog package with automatic output routing:
//   - Logs to systemd journal when available (Linux systems with journald)
//   - Logs to stdout when a terminal, pipe, or file is connected
//   - Logs to both when both are available
//
// # Usage
//
// Initialize the logging system once at startup:
//
//	logging.Initialize(logging.Config{
//		Level:  "info",      // Global log level: debug, info, warn, error
//		Format: "text",      // Output format: text or json
//		Modules: map[string]string{
//			"enumerate": "debug",  // Per-module overrides
//			"monitor":   "warn",
//		},
//	})
//
// Get a logger for your module:
//
//	logger := logging.GetLogger("mymodule")
//	logger.Info("Starting up", "port", 8080)
//	logger.Debug("Details", "config", cfg)
//	logger.Warn("Something unusual", "error", err)
//	logger.Error("Failed", "error", err)
//
// Add contextual attributes:
//
//	logger := logging.GetLogger("enumerate").With("device_id", id)
//	logger.Info("Device matched")  // Includes device_id in all logs
//
// # Log Levels
//
//	debug - Verbose debugging information
//	info  - General operational messages
//	warn  - Warning conditions
//	error - Error conditions
//
// # Output Destinations
//
// The system automatically detects available outputs. The ring-buffer
// handler is always part of the chain:
//
//	Journal available + stdout available → MultiHandler (both, plus the ring-buffer handler)
//	Journal available only              → MultiHandler (JournalHandler plus the ring-buffer handler)
//	Stdout available only               → MultiHandler (TextHandler or JSONHandler plus the ring-buffer handler)
//	Neither available                   → the ring-buffer handler alone
//
// Journal availability is checked via [github.com/coreos/go-systemd/v22/journal.Enabled].
//
// # Viewing Logs
//
// When running as a systemd service or on a system with journald:
//
//	journalctl -t udevgo              # All udevgo logs
//	journalctl -t udevgo -f           # Follow live
//	journalctl -t udevgo --since "5m" # Last 5 minutes
//	journalctl -t udevgo -p err       # Errors only
//
// Filter by structured fields:
//
//	journalctl -t udevgo MODULE=enumerate
//	journalctl -t udevgo DEVICE_ID=test
//
// # Configuration
//
// Log levels can be set globally or per-module. Module-specific levels
// override the global level for that module only.
//
// Example TOML configuration:
//
//	[logging]
//	level = "info"
//	format = "text"
//	enumerate = "debug"
//	monitor   = "warn"
//	hwdb      = "error"
package logging
