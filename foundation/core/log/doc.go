// Package log provides structured logging for owsh.
//
// Package: log
// Title: owsh Structured Logging
// Description: Leveled, structured logger with persistent context fields,
//              per-session tagging and pluggable formatters (JSON, text,
//              console, logfmt). Shell components derive a child logger
//              per component with WithField("component", ...). Log
//              output never goes to the shell's own output sink.
// Author: msto63
// Version: v0.2.0
// Created: 2025-01-24
// Modified: 2026-10-19
//
// Change History:
// - 2025-01-24 v0.1.0: Initial implementation
// - 2026-10-19 v0.2.0: Session tagging, sorted fields, removed async mode
//
// Usage:
//   logger := log.NewWithConfig(log.Config{Level: log.LevelDebug, Format: log.FormatText, Output: os.Stderr})
//   logger = logger.WithField("component", "shell").WithSession(sess.ID())
//   logger.Debug("command resolved", log.Fields{"command": "get nodes"})
package log
