package actions

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cec-protocol/cec-go/pkg/action"
	"github.com/cec-protocol/cec-go/pkg/cec"
)

func newSendKeyUnderTest(env *testEnv, key cec.UICommand) (*SendKey, *manualTimer, *[]error) {
	var results []error
	a := NewSendKey(env, cec.AddrPlayback1, cec.AddrTV, key, func(err error) {
		results = append(results, err)
	})
	timer := &manualTimer{}
	a.SetTimer(timer)
	return a, timer, &results
}

func TestSendKeyPressThenRelease(t *testing.T) {
	env := newTestEnv()
	a, timer, results := newSendKeyUnderTest(env, cec.UICmdVolumeUp)

	require.True(t, env.start(a))

	require.Len(t, env.sent, 1)
	press := env.sent[0]
	assert.Equal(t, cec.OpcodeUserControlPressed, press.Opcode)
	assert.Equal(t, []byte{byte(cec.UICmdVolumeUp)}, press.Params)
	require.Len(t, timer.states, 1)
	assert.Equal(t, keyReleaseDelay, timer.delays[0])

	// The hold period elapses: release goes out and the action ends.
	a.HandleTimerEvent(timer.last())

	require.Len(t, env.sent, 2)
	release := env.sent[1]
	assert.Equal(t, cec.OpcodeUserControlReleased, release.Opcode)
	assert.Empty(t, release.Params)
	require.Len(t, *results, 1)
	assert.NoError(t, (*results)[0])
	assert.Equal(t, action.StateNone, a.State())
	assert.False(t, env.registry.Contains(a))
}

func TestSendKeyFeatureAborted(t *testing.T) {
	env := newTestEnv()
	a, _, results := newSendKeyUnderTest(env, cec.UICmdMute)
	env.start(a)

	abort := cec.New(cec.AddrTV, cec.AddrPlayback1, cec.OpcodeFeatureAbort,
		byte(cec.OpcodeUserControlPressed), 0x04)
	require.True(t, env.registry.Dispatch(abort))

	require.Len(t, *results, 1)
	var abortErr *FeatureAbortError
	require.ErrorAs(t, (*results)[0], &abortErr)
	assert.Equal(t, cec.OpcodeUserControlPressed, abortErr.Opcode)
	assert.Equal(t, byte(0x04), abortErr.Reason)
	assert.Equal(t, action.StateNone, a.State())

	// No release is sent for an aborted press.
	assert.Len(t, env.sent, 1)
}

func TestSendKeyIgnoresAbortForOtherOpcode(t *testing.T) {
	env := newTestEnv()
	a, _, results := newSendKeyUnderTest(env, cec.UICmdMute)
	env.start(a)

	abort := cec.New(cec.AddrTV, cec.AddrPlayback1, cec.OpcodeFeatureAbort,
		byte(cec.OpcodeGiveDevicePowerStatus), 0x00)
	assert.False(t, env.registry.Dispatch(abort))
	assert.Empty(t, *results)
	assert.Equal(t, stateKeyPressed, a.State())
}

func TestSendKeyStaleTimerAfterAbort(t *testing.T) {
	env := newTestEnv()
	a, timer, results := newSendKeyUnderTest(env, cec.UICmdPowerOn)
	env.start(a)

	abort := cec.New(cec.AddrTV, cec.AddrPlayback1, cec.OpcodeFeatureAbort,
		byte(cec.OpcodeUserControlPressed))
	require.True(t, env.registry.Dispatch(abort))

	// The release timer still fires; it must not send the release for
	// a press that was refused.
	a.HandleTimerEvent(timer.states[0])

	assert.Len(t, env.sent, 1)
	assert.Len(t, *results, 1)
}
