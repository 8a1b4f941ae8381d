package runloop

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPostRunsInOrder(t *testing.T) {
	loop := New()
	loop.Start()
	defer loop.Stop()

	var got []int
	done := make(chan struct{})

	for i := 1; i <= 100; i++ {
		i := i
		require.NoError(t, loop.Post(func() {
			got = append(got, i)
			if i == 100 {
				close(done)
			}
		}))
	}

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("tasks did not complete")
	}

	require.Len(t, got, 100)
	for i, v := range got {
		assert.Equal(t, i+1, v)
	}
}

func TestPostDelayed(t *testing.T) {
	loop := New()
	loop.Start()
	defer loop.Stop()

	fired := make(chan time.Time, 1)
	start := time.Now()
	loop.PostDelayed(func() { fired <- time.Now() }, 30*time.Millisecond)

	select {
	case at := <-fired:
		assert.GreaterOrEqual(t, at.Sub(start), 30*time.Millisecond)
	case <-time.After(time.Second):
		t.Fatal("delayed task never fired")
	}
}

func TestTasksSerialized(t *testing.T) {
	loop := New()
	loop.Start()
	defer loop.Stop()

	var running atomic.Int32
	var overlap atomic.Bool
	done := make(chan struct{})

	for i := 0; i < 50; i++ {
		last := i == 49
		_ = loop.Post(func() {
			if running.Add(1) > 1 {
				overlap.Store(true)
			}
			time.Sleep(time.Millisecond)
			running.Add(-1)
			if last {
				close(done)
			}
		})
	}

	<-done
	assert.False(t, overlap.Load(), "tasks overlapped")
}

func TestStop(t *testing.T) {
	loop := New()
	loop.Start()

	ran := make(chan struct{})
	require.NoError(t, loop.Post(func() { close(ran) }))
	<-ran

	loop.Stop()
	assert.ErrorIs(t, loop.Post(func() {}), ErrStopped)

	// Stop is idempotent.
	loop.Stop()
}

func TestPostDelayedAfterStopDropped(t *testing.T) {
	loop := New()
	loop.Start()

	var fired atomic.Bool
	loop.PostDelayed(func() { fired.Store(true) }, 20*time.Millisecond)
	loop.Stop()

	time.Sleep(50 * time.Millisecond)
	assert.False(t, fired.Load(), "delayed task ran after Stop")
}
