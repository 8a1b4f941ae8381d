// Package log provides structured logging of CEC protocol activity.
//
// The control service emits an Event for every frame and message it
// sends or receives, for action and connection state changes, and for
// errors. Applications choose where events go by supplying a Logger:
//
//   - NoopLogger discards everything (the default).
//   - SlogAdapter writes events to a log/slog logger for console use.
//   - FileLogger appends CBOR-encoded events to a file for later
//     analysis; Reader streams them back, optionally filtered.
//   - MultiLogger fans out to several of the above.
//
// Events use integer CBOR keys so long captures stay compact.
package log
