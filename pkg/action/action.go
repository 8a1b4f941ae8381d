package action

import (
	"time"

	"github.com/cec-protocol/cec-go/pkg/cec"
	"github.com/cec-protocol/cec-go/pkg/runloop"
)

// StateNone is the reserved state value shared by all actions: the
// action has not started yet, or has finished.
const StateNone = 0

// DefaultResponseTimeout is the default deadline for the reply to a
// transmitted command. CEC requires responses within roughly a second.
const DefaultResponseTimeout = time.Second

// Sender is the shared command-transmission capability. Sending is
// fire-and-forget; no delivery confirmation reaches the action.
type Sender interface {
	SendMessage(msg *cec.Message)
}

// Remover removes a finished action from the active set.
type Remover interface {
	RemoveAction(a Action)
}

// Environment bundles the collaborators every action depends on. It is
// implemented by the owning control service.
type Environment interface {
	Sender
	Remover

	// Loop returns the serialized execution queue the action's
	// callbacks run on.
	Loop() *runloop.Loop
}

// Action is one stateful, potentially multi-step command exchange.
// Concrete actions embed Base and implement the three callbacks, all
// of which run on the owning service's loop.
type Action interface {
	// Start performs the first transmission or setup. It is called
	// exactly once, right after the action is registered. The return
	// value reports whether the action was viably started.
	Start() bool

	// ProcessCommand is offered every message arriving on the bus
	// while the action is active. It returns true if the message was
	// recognized and consumed; no other action is then offered it.
	// When returning false the implementation must not have changed
	// any state: the message belongs to another candidate.
	ProcessCommand(msg *cec.Message) bool

	// HandleTimerEvent is invoked when a previously armed timer
	// elapses, carrying the state captured at arm time. The
	// implementation must compare it against the live state and
	// treat a mismatch as a no-op (a stale timer).
	HandleTimerEvent(state int)
}

// Base carries the fields and plumbing common to all actions.
// Concrete actions embed it and drive their state machine through its
// methods. Base is not safe for concurrent use; the loop discipline
// makes that a non-issue.
type Base struct {
	env    Environment
	owner  Action
	source cec.LogicalAddress
	state  int
	timer  Timer
}

// NewBase creates the shared action core. owner is the concrete action
// embedding the Base; it receives the timer deliveries.
func NewBase(env Environment, source cec.LogicalAddress, owner Action) Base {
	return Base{
		env:    env,
		owner:  owner,
		source: source,
		state:  StateNone,
		timer:  NewLoopTimer(env.Loop(), owner),
	}
}

// State returns the action's current state tag.
func (b *Base) State() int {
	return b.state
}

// SetState records a state transition. Call only from within Start,
// ProcessCommand or HandleTimerEvent.
func (b *Base) SetState(state int) {
	b.state = state
}

// Source returns the logical address the action transmits as.
func (b *Base) Source() cec.LogicalAddress {
	return b.source
}

// SendCommand transmits a message on the bus.
func (b *Base) SendCommand(msg *cec.Message) {
	b.env.SendMessage(msg)
}

// SendBroadcast transmits a message from the action's source address
// to the broadcast destination.
func (b *Base) SendBroadcast(opcode cec.Opcode, params ...byte) {
	b.SendCommand(cec.NewBroadcast(b.source, opcode, params...))
}

// AddTimer arms a timer that will deliver state back to the owner's
// HandleTimerEvent after delay. Arming does not retract earlier
// timers; each delivery must be checked for staleness.
func (b *Base) AddTimer(state int, delay time.Duration) {
	b.timer.SendTimerMessage(state, delay)
}

// SetTimer replaces the action timer. Tests use this to substitute a
// manually driven timer.
func (b *Base) SetTimer(t Timer) {
	b.timer = t
}

// Finish resets the state to StateNone and removes the action from the
// active set. A finished action sends nothing further and is no longer
// offered messages or timer deliveries.
func (b *Base) Finish() {
	b.state = StateNone
	b.env.RemoveAction(b.owner)
}
