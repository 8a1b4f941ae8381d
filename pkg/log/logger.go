package log

// Logger receives protocol events from the control service. Pass nil
// or NoopLogger to disable logging.
type Logger interface {
	// Log records a protocol event. Implementations must be safe for
	// concurrent use and should return quickly; the service logs from
	// its run loop.
	Log(event Event)
}

// NoopLogger discards all events. Usable as a zero value.
type NoopLogger struct{}

// Log discards the event.
func (NoopLogger) Log(Event) {}

// Compile-time interface satisfaction check.
var _ Logger = NoopLogger{}
