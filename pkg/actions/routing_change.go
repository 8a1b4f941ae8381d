package actions

import (
	"time"

	"github.com/cec-protocol/cec-go/pkg/action"
	"github.com/cec-protocol/cec-go/pkg/cec"
)

// RoutingChange states.
const stateWaitingForRoutingInformation = 1

// RoutingChange announces a routing change from one path to another
// and waits for the bus to acknowledge it: either a RoutingInformation
// broadcast or an ActiveSource broadcast carrying the new path.
type RoutingChange struct {
	action.Base

	oldPath  cec.PhysicalAddress
	newPath  cec.PhysicalAddress
	timeout  time.Duration
	callback func(err error)
}

// NewRoutingChange creates the action. callback runs on the service
// loop with nil on acknowledgement or ErrTimeout when the bus stays
// silent.
func NewRoutingChange(env action.Environment, source cec.LogicalAddress, oldPath, newPath cec.PhysicalAddress, callback func(error)) *RoutingChange {
	a := &RoutingChange{
		oldPath:  oldPath,
		newPath:  newPath,
		timeout:  responseTimeout(env),
		callback: callback,
	}
	a.Base = action.NewBase(env, source, a)
	return a
}

// SetTimeout overrides the acknowledgement deadline. Call before the
// action is started.
func (a *RoutingChange) SetTimeout(d time.Duration) {
	a.timeout = d
}

// Start broadcasts the routing change.
func (a *RoutingChange) Start() bool {
	a.SetState(stateWaitingForRoutingInformation)
	a.SendBroadcast(cec.OpcodeRoutingChange, cec.PathPairParam(a.oldPath, a.newPath)...)
	a.AddTimer(a.State(), a.timeout)
	return true
}

// ProcessCommand consumes the broadcast acknowledging the new path.
func (a *RoutingChange) ProcessCommand(msg *cec.Message) bool {
	if a.State() != stateWaitingForRoutingInformation {
		return false
	}
	if !msg.IsBroadcast() {
		return false
	}
	if msg.Opcode != cec.OpcodeRoutingInformation && msg.Opcode != cec.OpcodeActiveSource {
		return false
	}
	if len(msg.Params) < 2 {
		return false
	}
	path := cec.PhysicalAddress(msg.Params[0])<<8 | cec.PhysicalAddress(msg.Params[1])
	if path != a.newPath {
		return false
	}

	a.report(nil)
	a.Finish()
	return true
}

// HandleTimerEvent fails the exchange on a genuine timeout; stale
// deliveries are ignored.
func (a *RoutingChange) HandleTimerEvent(state int) {
	if state != a.State() || a.State() == action.StateNone {
		return // stale timer
	}
	a.report(ErrTimeout)
	a.Finish()
}

func (a *RoutingChange) report(err error) {
	if a.callback != nil {
		a.callback(err)
	}
}
