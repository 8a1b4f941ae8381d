package actions

import (
	"time"

	"github.com/cec-protocol/cec-go/pkg/action"
)

// timeoutProvider is an optional environment capability. A service
// carrying a configured reply deadline exposes it here so actions pick
// it up at construction. An explicit SetTimeout call still wins.
type timeoutProvider interface {
	ResponseTimeout() time.Duration
}

// responseTimeout returns the environment's configured reply deadline,
// or the framework default when the environment carries none.
func responseTimeout(env action.Environment) time.Duration {
	if p, ok := env.(timeoutProvider); ok {
		if d := p.ResponseTimeout(); d > 0 {
			return d
		}
	}
	return action.DefaultResponseTimeout
}
