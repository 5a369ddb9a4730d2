// Package logging configures slog-based structured logging for the engine.
//
// Console output renders compact single-line records (colorized when the
// writer is a terminal); JSON output is available for machine consumption.
// Flow code annotates context with identity/flow/attempt and uses WithContext
// so every record carries the authentication session it belongs to.
package logging
