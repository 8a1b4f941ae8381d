package actions

import (
	"errors"
	"time"

	"github.com/cec-protocol/cec-go/pkg/action"
	"github.com/cec-protocol/cec-go/pkg/cec"
)

// Action errors.
var (
	// ErrTimeout indicates the expected reply never arrived within
	// the allowed retries.
	ErrTimeout = errors.New("no response from target device")
)

// DevicePowerStatus states.
const stateWaitingForReportPowerStatus = 1

// powerStatusMaxRetries is how many times the query is retransmitted
// after the initial send before giving up.
const powerStatusMaxRetries = 2

// PowerStatusCallback reports the outcome of a power-status query.
// On failure the status is cec.PowerStatusUnknown.
type PowerStatusCallback func(status cec.PowerStatus, err error)

// DevicePowerStatus queries the power state of one device: it sends
// GiveDevicePowerStatus and waits for the correlated ReportPowerStatus
// from the target, retransmitting on timeout.
type DevicePowerStatus struct {
	action.Base

	target   cec.LogicalAddress
	timeout  time.Duration
	retries  int
	callback PowerStatusCallback
}

// NewDevicePowerStatus creates the action. callback runs on the
// service loop when the exchange completes or conclusively fails.
func NewDevicePowerStatus(env action.Environment, source, target cec.LogicalAddress, callback PowerStatusCallback) *DevicePowerStatus {
	a := &DevicePowerStatus{
		target:   target,
		timeout:  responseTimeout(env),
		callback: callback,
	}
	a.Base = action.NewBase(env, source, a)
	return a
}

// SetTimeout overrides the per-attempt reply deadline. Call before the
// action is started.
func (a *DevicePowerStatus) SetTimeout(d time.Duration) {
	a.timeout = d
}

// Start sends the first query.
func (a *DevicePowerStatus) Start() bool {
	a.SetState(stateWaitingForReportPowerStatus)
	a.query()
	return true
}

func (a *DevicePowerStatus) query() {
	a.SendCommand(cec.New(a.Source(), a.target, cec.OpcodeGiveDevicePowerStatus))
	a.AddTimer(a.State(), a.timeout)
}

// ProcessCommand consumes the ReportPowerStatus reply from the target.
func (a *DevicePowerStatus) ProcessCommand(msg *cec.Message) bool {
	if a.State() != stateWaitingForReportPowerStatus {
		return false
	}
	if msg.Source != a.target || msg.Destination != a.Source() {
		return false
	}
	if msg.Opcode != cec.OpcodeReportPowerStatus || len(msg.Params) < 1 {
		return false
	}

	status := cec.PowerStatus(msg.Params[0])
	a.report(status, nil)
	a.Finish()
	return true
}

// HandleTimerEvent retransmits the query, or fails the exchange once
// the retry budget is spent. Deliveries from timers armed at an older
// state are ignored.
func (a *DevicePowerStatus) HandleTimerEvent(state int) {
	if state != a.State() || a.State() == action.StateNone {
		return // stale timer
	}

	if a.retries < powerStatusMaxRetries {
		a.retries++
		a.query()
		return
	}

	a.report(cec.PowerStatusUnknown, ErrTimeout)
	a.Finish()
}

func (a *DevicePowerStatus) report(status cec.PowerStatus, err error) {
	if a.callback != nil {
		a.callback(status, err)
	}
}
