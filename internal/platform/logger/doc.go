// Package logger configures the process-wide log/slog logger.
//
// Output is JSON on stdout. Error attributes are scrubbed with the redact
// package before they are written.
package logger
