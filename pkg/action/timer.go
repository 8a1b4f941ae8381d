package action

import (
	"log/slog"
	"time"

	"github.com/cec-protocol/cec-go/pkg/runloop"
)

// Timer schedules delayed wake-ups for a single action. There is no
// cancellation: a timer armed at some state fires regardless of what
// the action did in the meantime, and delivers that state verbatim.
type Timer interface {
	// SendTimerMessage schedules exactly one delivery of state to the
	// owning action's HandleTimerEvent after delay, on the loop the
	// action runs on.
	SendTimerMessage(state int, delay time.Duration)
}

// Internal timer-message tags. Only timeout is armed today; the
// dispatch boundary still guards against unknown tags.
const msgTimeout = 100

// timerMessage is the wake-up posted back onto the loop.
type timerMessage struct {
	what  int
	state int
}

// LoopTimer is the standard Timer: it posts the wake-up back onto the
// action's run loop, so a timer delivery never races a message
// dispatch.
type LoopTimer struct {
	loop   *runloop.Loop
	owner  Action
	logger *slog.Logger
}

// NewLoopTimer creates a timer bound to an action and its loop.
func NewLoopTimer(loop *runloop.Loop, owner Action) *LoopTimer {
	return &LoopTimer{
		loop:   loop,
		owner:  owner,
		logger: slog.Default(),
	}
}

// SendTimerMessage implements Timer.
func (t *LoopTimer) SendTimerMessage(state int, delay time.Duration) {
	msg := timerMessage{what: msgTimeout, state: state}
	t.loop.PostDelayed(func() { t.deliver(msg) }, delay)
}

// deliver runs on the loop.
func (t *LoopTimer) deliver(msg timerMessage) {
	switch msg.what {
	case msgTimeout:
		t.owner.HandleTimerEvent(msg.state)
	default:
		t.logger.Warn("unsupported timer message", "what", msg.what)
	}
}

// Compile-time interface satisfaction check.
var _ Timer = (*LoopTimer)(nil)
