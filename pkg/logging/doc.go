// Package logging provides structured logging utilities for autodoc.
//
// # Overview
//
// This package wraps the standard library slog package with autodoc defaults:
// JSON output on stderr, level taken from LOG_LEVEL or an explicit flag, and
// module/version attributes on every record. Debug loggers include source
// locations.
//
// # Usage
//
//	func main() {
//	    logging.SetDefaultStructuredLogger("autodoc", version)
//	    slog.Info("documentation pass starting")
//	}
//
// Setting an explicit level:
//
//	logging.SetDefaultStructuredLoggerWithLevel("autodoc", version, "debug")
//
// # Log Levels
//
// Supported levels (case-insensitive): DEBUG, INFO (default), WARN/WARNING, ERROR.
//
// # Output Format
//
//	{
//	    "time": "2025-01-15T10:30:00.123Z",
//	    "level": "INFO",
//	    "msg": "snapshot persisted",
//	    "module": "autodoc",
//	    "version": "v0.1.0",
//	    "store": "file"
//	}
package logging
