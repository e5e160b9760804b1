// Package logging provides structured logging for arena-access sessions.
// It wraps log/slog with JSON output, persistent attributes (session,
// component), and a once-per-key guard for host-shape warnings that would
// otherwise repeat every frame.
package logging
