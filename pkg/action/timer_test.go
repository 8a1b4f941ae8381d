package action

import (
	"bytes"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cec-protocol/cec-go/pkg/cec"
	"github.com/cec-protocol/cec-go/pkg/runloop"
)

// timerProbe records timer deliveries.
type timerProbe struct {
	Base
	delivered chan int
}

func newTimerProbe(env Environment) *timerProbe {
	a := &timerProbe{delivered: make(chan int, 8)}
	a.Base = NewBase(env, cec.AddrPlayback1, a)
	return a
}

func (a *timerProbe) Start() bool                          { return true }
func (a *timerProbe) ProcessCommand(msg *cec.Message) bool { return false }
func (a *timerProbe) HandleTimerEvent(state int)           { a.delivered <- state }

func TestLoopTimerDeliversArmedState(t *testing.T) {
	loop := runloop.New()
	loop.Start()
	defer loop.Stop()

	env := newStubEnv()
	env.loop = loop
	probe := newTimerProbe(env)
	timer := NewLoopTimer(loop, probe)

	timer.SendTimerMessage(7, 10*time.Millisecond)

	select {
	case state := <-probe.delivered:
		assert.Equal(t, 7, state)
	case <-time.After(time.Second):
		t.Fatal("timer never delivered")
	}
}

func TestLoopTimerOverlappingDeliveries(t *testing.T) {
	loop := runloop.New()
	loop.Start()
	defer loop.Stop()

	env := newStubEnv()
	env.loop = loop
	probe := newTimerProbe(env)
	timer := NewLoopTimer(loop, probe)

	// Two arms, each must deliver independently.
	timer.SendTimerMessage(1, 10*time.Millisecond)
	timer.SendTimerMessage(2, 20*time.Millisecond)

	var got []int
	for len(got) < 2 {
		select {
		case state := <-probe.delivered:
			got = append(got, state)
		case <-time.After(time.Second):
			t.Fatal("missing timer delivery")
		}
	}
	assert.Equal(t, []int{1, 2}, got)
}

func TestLoopTimerUnknownTagDropped(t *testing.T) {
	loop := runloop.New()
	loop.Start()
	defer loop.Stop()

	env := newStubEnv()
	env.loop = loop
	probe := newTimerProbe(env)

	var buf bytes.Buffer
	timer := NewLoopTimer(loop, probe)
	timer.logger = slog.New(slog.NewTextHandler(&buf, nil))

	done := make(chan struct{})
	require.NoError(t, loop.Post(func() {
		timer.deliver(timerMessage{what: 999, state: 1})
		close(done)
	}))
	<-done

	assert.Empty(t, probe.delivered, "unknown tag must not reach the action")
	assert.Contains(t, buf.String(), "unsupported timer message")
}
