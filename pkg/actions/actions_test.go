package actions

import (
	"time"

	"github.com/cec-protocol/cec-go/pkg/action"
	"github.com/cec-protocol/cec-go/pkg/cec"
	"github.com/cec-protocol/cec-go/pkg/runloop"
)

// testEnv implements action.Environment with a recording transport and
// a real registry so finish semantics are exercised.
type testEnv struct {
	loop     *runloop.Loop
	registry *action.Registry
	sent     []*cec.Message
}

func newTestEnv() *testEnv {
	return &testEnv{
		loop:     runloop.New(),
		registry: action.NewRegistry(),
	}
}

func (e *testEnv) SendMessage(msg *cec.Message) { e.sent = append(e.sent, msg) }
func (e *testEnv) RemoveAction(a action.Action) { e.registry.Remove(a) }
func (e *testEnv) Loop() *runloop.Loop          { return e.loop }

// start registers the action and runs Start, the way the service does.
func (e *testEnv) start(a action.Action) bool {
	e.registry.Add(a)
	if !a.Start() {
		e.registry.Remove(a)
		return false
	}
	return true
}

// tunedEnv is a testEnv carrying a configured reply deadline, the way
// a service with a response timeout set does.
type tunedEnv struct {
	*testEnv
	timeout time.Duration
}

func (e *tunedEnv) ResponseTimeout() time.Duration { return e.timeout }

// manualTimer records arms so tests deliver timer events by hand.
type manualTimer struct {
	states []int
	delays []time.Duration
}

func (t *manualTimer) SendTimerMessage(state int, delay time.Duration) {
	t.states = append(t.states, state)
	t.delays = append(t.delays, delay)
}

func (t *manualTimer) last() int { return t.states[len(t.states)-1] }
