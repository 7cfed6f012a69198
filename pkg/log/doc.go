// Package log provides structured logging for pluglog components. Loggers
// carry typed Fields, format as text or JSON, and route through a log/slog
// bridge so third-party slog users share the same pipeline. Standard library
// log output (Pebble) can be redirected with RedirectStdLog.
package log
