// Package logging provides structured logging utilities for the assistant.
//
// All diagnostics go through log/slog and are written to stderr, keeping
// stdout free for command output and the MCP stdio transport.
//
// # Usage Patterns
//
// Build the process logger once from configuration:
//
//	logger, err := logging.New(os.Stderr, cfg.Logging.Level, cfg.Logging.Format)
//
// Attach standard attributes:
//
//	logger = logging.WithOperation(logger, "calendar.add")
//	logger.Debug("stage reached", logging.Stage("conflict_checked"))
//	logger.Warn("patch failed", logging.EventID(id), logging.Err(err))
//
// Attendee addresses are hashed before logging with AnonymizeEmail.
package logging
