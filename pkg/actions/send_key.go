package actions

import (
	"fmt"
	"time"

	"github.com/cec-protocol/cec-go/pkg/action"
	"github.com/cec-protocol/cec-go/pkg/cec"
)

// SendKey states.
const stateKeyPressed = 1

// keyReleaseDelay is how long the key is held before the release is
// sent. CEC requires the release to follow the press well inside the
// repeat period.
const keyReleaseDelay = 300 * time.Millisecond

// FeatureAbortError reports that the target refused an operation via
// FeatureAbort.
type FeatureAbortError struct {
	// Opcode is the refused operation.
	Opcode cec.Opcode

	// Reason is the abort reason code from the message.
	Reason byte
}

func (e *FeatureAbortError) Error() string {
	return fmt.Sprintf("feature aborted: opcode %s, reason 0x%02X", e.Opcode, e.Reason)
}

// SendKey passes one remote-control key to the target device: it
// sends UserControlPressed and, after the hold period, the matching
// UserControlReleased. Here the timer is a sequencer rather than a
// timeout: its expiry is the normal path.
type SendKey struct {
	action.Base

	target   cec.LogicalAddress
	key      cec.UICommand
	callback func(err error)
}

// NewSendKey creates the action. callback runs on the service loop
// with nil once the release is sent, or a *FeatureAbortError when the
// target refuses the key press.
func NewSendKey(env action.Environment, source, target cec.LogicalAddress, key cec.UICommand, callback func(error)) *SendKey {
	a := &SendKey{target: target, key: key, callback: callback}
	a.Base = action.NewBase(env, source, a)
	return a
}

// Start sends the key press and arms the release timer.
func (a *SendKey) Start() bool {
	a.SetState(stateKeyPressed)
	a.SendCommand(cec.New(a.Source(), a.target, cec.OpcodeUserControlPressed, cec.UICommandParam(a.key)...))
	a.AddTimer(a.State(), keyReleaseDelay)
	return true
}

// ProcessCommand consumes a FeatureAbort from the target refusing the
// key press.
func (a *SendKey) ProcessCommand(msg *cec.Message) bool {
	if a.State() != stateKeyPressed {
		return false
	}
	if msg.Source != a.target || msg.Destination != a.Source() {
		return false
	}
	if msg.Opcode != cec.OpcodeFeatureAbort || len(msg.Params) < 1 {
		return false
	}
	if cec.Opcode(msg.Params[0]) != cec.OpcodeUserControlPressed {
		return false
	}

	var reason byte
	if len(msg.Params) >= 2 {
		reason = msg.Params[1]
	}
	a.report(&FeatureAbortError{Opcode: cec.OpcodeUserControlPressed, Reason: reason})
	a.Finish()
	return true
}

// HandleTimerEvent sends the release once the hold period elapses.
func (a *SendKey) HandleTimerEvent(state int) {
	if state != a.State() || a.State() == action.StateNone {
		return // stale timer
	}
	a.SendCommand(cec.New(a.Source(), a.target, cec.OpcodeUserControlReleased))
	a.report(nil)
	a.Finish()
}

func (a *SendKey) report(err error) {
	if a.callback != nil {
		a.callback(err)
	}
}
