package actions

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cec-protocol/cec-go/pkg/action"
	"github.com/cec-protocol/cec-go/pkg/cec"
)

type powerResult struct {
	status cec.PowerStatus
	err    error
}

func newPowerStatusUnderTest(env *testEnv) (*DevicePowerStatus, *manualTimer, *[]powerResult) {
	var results []powerResult
	a := NewDevicePowerStatus(env, cec.AddrPlayback1, cec.AddrTV, func(status cec.PowerStatus, err error) {
		results = append(results, powerResult{status, err})
	})
	timer := &manualTimer{}
	a.SetTimer(timer)
	return a, timer, &results
}

func powerReport(status cec.PowerStatus) *cec.Message {
	return cec.New(cec.AddrTV, cec.AddrPlayback1, cec.OpcodeReportPowerStatus, byte(status))
}

func TestPowerStatusQueryAndReply(t *testing.T) {
	env := newTestEnv()
	a, timer, results := newPowerStatusUnderTest(env)

	require.True(t, env.start(a))
	require.Len(t, env.sent, 1)
	assert.Equal(t, cec.OpcodeGiveDevicePowerStatus, env.sent[0].Opcode)
	assert.Equal(t, cec.AddrTV, env.sent[0].Destination)
	require.Len(t, timer.states, 1)
	assert.Equal(t, action.DefaultResponseTimeout, timer.delays[0])

	consumed := env.registry.Dispatch(powerReport(cec.PowerStatusOn))

	require.True(t, consumed)
	require.Len(t, *results, 1)
	assert.Equal(t, cec.PowerStatusOn, (*results)[0].status)
	assert.NoError(t, (*results)[0].err)
	assert.Equal(t, action.StateNone, a.State())
	assert.False(t, env.registry.Contains(a))
}

func TestPowerStatusIgnoresUnrelatedMessages(t *testing.T) {
	env := newTestEnv()
	a, _, results := newPowerStatusUnderTest(env)
	env.start(a)

	cases := []*cec.Message{
		// Wrong source.
		cec.New(cec.AddrAudioSystem, cec.AddrPlayback1, cec.OpcodeReportPowerStatus, 0x00),
		// Wrong destination.
		cec.New(cec.AddrTV, cec.AddrPlayback2, cec.OpcodeReportPowerStatus, 0x00),
		// Wrong opcode.
		cec.New(cec.AddrTV, cec.AddrPlayback1, cec.OpcodeSetOSDName, 'x'),
		// Missing status operand.
		cec.New(cec.AddrTV, cec.AddrPlayback1, cec.OpcodeReportPowerStatus),
	}
	for _, msg := range cases {
		assert.False(t, env.registry.Dispatch(msg), "should not consume %s", msg)
	}

	assert.Empty(t, *results)
	assert.Equal(t, stateWaitingForReportPowerStatus, a.State())
}

func TestPowerStatusRetriesThenFails(t *testing.T) {
	env := newTestEnv()
	a, timer, results := newPowerStatusUnderTest(env)
	env.start(a)

	// Two retransmissions.
	for i := 0; i < powerStatusMaxRetries; i++ {
		a.HandleTimerEvent(timer.last())
		assert.Len(t, env.sent, i+2)
		assert.Empty(t, *results)
	}

	// Retry budget exhausted: next timeout is terminal.
	a.HandleTimerEvent(timer.last())

	require.Len(t, *results, 1)
	assert.Equal(t, cec.PowerStatusUnknown, (*results)[0].status)
	assert.ErrorIs(t, (*results)[0].err, ErrTimeout)
	assert.Equal(t, action.StateNone, a.State())
	assert.False(t, env.registry.Contains(a))
	assert.Len(t, env.sent, powerStatusMaxRetries+1)
}

func TestPowerStatusEnvironmentTimeout(t *testing.T) {
	env := &tunedEnv{testEnv: newTestEnv(), timeout: 250 * time.Millisecond}
	a := NewDevicePowerStatus(env, cec.AddrPlayback1, cec.AddrTV, nil)
	timer := &manualTimer{}
	a.SetTimer(timer)

	require.True(t, env.start(a))
	require.Len(t, timer.delays, 1)
	assert.Equal(t, 250*time.Millisecond, timer.delays[0])
}

func TestPowerStatusSetTimeoutOverridesEnvironment(t *testing.T) {
	env := &tunedEnv{testEnv: newTestEnv(), timeout: 250 * time.Millisecond}
	a := NewDevicePowerStatus(env, cec.AddrPlayback1, cec.AddrTV, nil)
	a.SetTimeout(50 * time.Millisecond)
	timer := &manualTimer{}
	a.SetTimer(timer)

	require.True(t, env.start(a))
	require.Len(t, timer.delays, 1)
	assert.Equal(t, 50*time.Millisecond, timer.delays[0])
}

func TestPowerStatusStaleTimerAfterReply(t *testing.T) {
	env := newTestEnv()
	a, timer, results := newPowerStatusUnderTest(env)
	env.start(a)

	require.True(t, env.registry.Dispatch(powerReport(cec.PowerStatusStandby)))
	require.Len(t, *results, 1)

	// The timer armed by Start fires late; its state no longer
	// matches and nothing further happens.
	sentBefore := len(env.sent)
	a.HandleTimerEvent(timer.states[0])

	assert.Len(t, *results, 1)
	assert.Equal(t, action.StateNone, a.State())
	assert.Equal(t, sentBefore, len(env.sent))
}
