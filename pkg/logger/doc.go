// Package logger provides structured logging with configurable log levels.
// It wraps the standard log/slog package, emitting JSON in production
// environments and text elsewhere, and accepts the five level names from
// critical down to debug.
package logger
