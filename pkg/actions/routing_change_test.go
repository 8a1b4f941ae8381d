package actions

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cec-protocol/cec-go/pkg/action"
	"github.com/cec-protocol/cec-go/pkg/cec"
)

const (
	oldPath = cec.PhysicalAddress(0x1000)
	newPath = cec.PhysicalAddress(0x2000)
)

func newRoutingChangeUnderTest(env *testEnv) (*RoutingChange, *manualTimer, *[]error) {
	var results []error
	a := NewRoutingChange(env, cec.AddrTV, oldPath, newPath, func(err error) {
		results = append(results, err)
	})
	timer := &manualTimer{}
	a.SetTimer(timer)
	return a, timer, &results
}

func TestRoutingChangeBroadcastsPathPair(t *testing.T) {
	env := newTestEnv()
	a, _, _ := newRoutingChangeUnderTest(env)

	require.True(t, env.start(a))

	require.Len(t, env.sent, 1)
	msg := env.sent[0]
	assert.True(t, msg.IsBroadcast())
	assert.Equal(t, cec.OpcodeRoutingChange, msg.Opcode)
	assert.Equal(t, []byte{0x10, 0x00, 0x20, 0x00}, msg.Params)
	assert.Equal(t, stateWaitingForRoutingInformation, a.State())
}

func TestRoutingChangeAcknowledged(t *testing.T) {
	acks := []*cec.Message{
		cec.NewBroadcast(cec.AddrPlayback1, cec.OpcodeRoutingInformation, cec.PhysicalAddressParam(newPath)...),
		cec.NewBroadcast(cec.AddrPlayback1, cec.OpcodeActiveSource, cec.PhysicalAddressParam(newPath)...),
	}
	for _, ack := range acks {
		env := newTestEnv()
		a, _, results := newRoutingChangeUnderTest(env)
		env.start(a)

		require.True(t, env.registry.Dispatch(ack), "should consume %s", ack)
		require.Len(t, *results, 1)
		assert.NoError(t, (*results)[0])
		assert.Equal(t, action.StateNone, a.State())
		assert.False(t, env.registry.Contains(a))
	}
}

func TestRoutingChangeRejectsMismatches(t *testing.T) {
	env := newTestEnv()
	a, _, results := newRoutingChangeUnderTest(env)
	env.start(a)

	cases := []*cec.Message{
		// Wrong path.
		cec.NewBroadcast(cec.AddrPlayback1, cec.OpcodeRoutingInformation, cec.PhysicalAddressParam(oldPath)...),
		// Directly addressed, not broadcast.
		cec.New(cec.AddrPlayback1, cec.AddrTV, cec.OpcodeRoutingInformation, cec.PhysicalAddressParam(newPath)...),
		// Unrelated opcode.
		cec.NewBroadcast(cec.AddrPlayback1, cec.OpcodeStandby),
		// Truncated params.
		cec.NewBroadcast(cec.AddrPlayback1, cec.OpcodeRoutingInformation, 0x20),
	}
	for _, msg := range cases {
		assert.False(t, env.registry.Dispatch(msg), "should not consume %s", msg)
	}
	assert.Empty(t, *results)
	assert.Equal(t, stateWaitingForRoutingInformation, a.State())
}

func TestRoutingChangeTimeout(t *testing.T) {
	env := newTestEnv()
	a, timer, results := newRoutingChangeUnderTest(env)
	env.start(a)

	a.HandleTimerEvent(timer.last())

	require.Len(t, *results, 1)
	assert.ErrorIs(t, (*results)[0], ErrTimeout)
	assert.Equal(t, action.StateNone, a.State())
	assert.False(t, env.registry.Contains(a))
}

func TestRoutingChangeEnvironmentTimeout(t *testing.T) {
	env := &tunedEnv{testEnv: newTestEnv(), timeout: 250 * time.Millisecond}
	a := NewRoutingChange(env, cec.AddrTV, oldPath, newPath, nil)
	timer := &manualTimer{}
	a.SetTimer(timer)

	require.True(t, env.start(a))
	require.Len(t, timer.delays, 1)
	assert.Equal(t, 250*time.Millisecond, timer.delays[0])
}

func TestRoutingChangeStaleTimer(t *testing.T) {
	env := newTestEnv()
	a, timer, results := newRoutingChangeUnderTest(env)
	env.start(a)

	ack := cec.NewBroadcast(cec.AddrPlayback1, cec.OpcodeRoutingInformation, cec.PhysicalAddressParam(newPath)...)
	require.True(t, env.registry.Dispatch(ack))

	a.HandleTimerEvent(timer.states[0])

	require.Len(t, *results, 1, "stale timer must not fire the callback again")
	assert.NoError(t, (*results)[0])
}
