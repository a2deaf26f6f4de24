// Package logger provides structured logging functionality for the application.
//
// It utilizes Go's standard library log/slog package to implement structured JSON logging
// with configurable log levels, plus helpers for carrying a logger and a request ID
// through a context.Context.
package logger
