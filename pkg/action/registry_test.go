package action

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cec-protocol/cec-go/pkg/cec"
)

// recordingAction consumes (or rejects) every message and records the
// offers it received.
type recordingAction struct {
	Base
	consume bool
	offered int

	// onProcess, when set, runs inside ProcessCommand before the
	// consume decision.
	onProcess func()
}

func newRecordingAction(env Environment, consume bool) *recordingAction {
	a := &recordingAction{consume: consume}
	a.Base = NewBase(env, cec.AddrPlayback1, a)
	return a
}

func (a *recordingAction) Start() bool { return true }

func (a *recordingAction) ProcessCommand(msg *cec.Message) bool {
	a.offered++
	if a.onProcess != nil {
		a.onProcess()
	}
	return a.consume
}

func (a *recordingAction) HandleTimerEvent(state int) {}

func anyMessage() *cec.Message {
	return cec.New(cec.AddrTV, cec.AddrPlayback1, cec.OpcodeStandby)
}

func TestFirstMatchWins(t *testing.T) {
	env := newStubEnv()
	first := newRecordingAction(env, true)
	second := newRecordingAction(env, true)
	env.registry.Add(first)
	env.registry.Add(second)

	consumed := env.registry.Dispatch(anyMessage())

	require.True(t, consumed)
	assert.Equal(t, 1, first.offered)
	assert.Zero(t, second.offered, "dispatch must stop at the first consumer")
}

func TestDispatchVisitsInRegistrationOrder(t *testing.T) {
	env := newStubEnv()
	var order []string
	a := newRecordingAction(env, false)
	a.onProcess = func() { order = append(order, "a") }
	b := newRecordingAction(env, false)
	b.onProcess = func() { order = append(order, "b") }
	c := newRecordingAction(env, true)
	c.onProcess = func() { order = append(order, "c") }
	env.registry.Add(a)
	env.registry.Add(b)
	env.registry.Add(c)

	env.registry.Dispatch(anyMessage())

	assert.Equal(t, []string{"a", "b", "c"}, order)
}

func TestFallbackReceivesUnconsumed(t *testing.T) {
	env := newStubEnv()
	var fallback []*cec.Message
	env.registry.SetFallback(func(msg *cec.Message) { fallback = append(fallback, msg) })
	env.registry.Add(newRecordingAction(env, false))

	msg := anyMessage()
	consumed := env.registry.Dispatch(msg)

	assert.False(t, consumed)
	require.Len(t, fallback, 1)
	assert.Same(t, msg, fallback[0])
}

func TestFallbackSkippedWhenConsumed(t *testing.T) {
	env := newStubEnv()
	called := false
	env.registry.SetFallback(func(msg *cec.Message) { called = true })
	env.registry.Add(newRecordingAction(env, true))

	env.registry.Dispatch(anyMessage())

	assert.False(t, called)
}

func TestSelfRemovalDuringDispatch(t *testing.T) {
	env := newStubEnv()
	a := newRecordingAction(env, false)
	a.onProcess = func() { a.Finish() } // removes itself mid-pass
	b := newRecordingAction(env, false)
	env.registry.Add(a)
	env.registry.Add(b)

	env.registry.Dispatch(anyMessage())

	// The pass completes without skipping b, and the removal has been
	// applied afterwards.
	assert.Equal(t, 1, b.offered)
	assert.False(t, env.registry.Contains(a))
	assert.Equal(t, 1, env.registry.Len())
}

func TestRemovalOfLaterActionDuringDispatch(t *testing.T) {
	env := newStubEnv()
	b := newRecordingAction(env, true)
	a := newRecordingAction(env, false)
	a.onProcess = func() { env.registry.Remove(b) }
	env.registry.Add(a)
	env.registry.Add(b)

	consumed := env.registry.Dispatch(anyMessage())

	// b was pending removal when its turn came, so it never saw the
	// message.
	assert.False(t, consumed)
	assert.Zero(t, b.offered)
	assert.Zero(t, env.registry.Len())
}

func TestAddDuringDispatchNotOfferedCurrentMessage(t *testing.T) {
	env := newStubEnv()
	late := newRecordingAction(env, true)
	a := newRecordingAction(env, false)
	a.onProcess = func() { env.registry.Add(late) }
	env.registry.Add(a)

	env.registry.Dispatch(anyMessage())

	assert.Zero(t, late.offered)
	assert.Equal(t, 2, env.registry.Len())

	// The next message reaches it.
	env.registry.Dispatch(anyMessage())
	assert.Equal(t, 1, late.offered)
}

func TestRemoveOutsideDispatchIsImmediate(t *testing.T) {
	env := newStubEnv()
	a := newRecordingAction(env, true)
	env.registry.Add(a)
	require.True(t, env.registry.Contains(a))

	env.registry.Remove(a)

	assert.False(t, env.registry.Contains(a))
	assert.Zero(t, env.registry.Len())
}
