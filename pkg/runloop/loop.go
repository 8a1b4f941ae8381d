package runloop

import (
	"errors"
	"sync"
	"time"
)

// Loop errors.
var (
	// ErrStopped indicates a post to a loop that has been stopped.
	ErrStopped = errors.New("run loop stopped")
)

// defaultQueueSize is the task channel capacity. Posting blocks only
// if this many tasks are already queued.
const defaultQueueSize = 256

// Loop is a single-goroutine FIFO task queue. Tasks posted to the
// loop run strictly one at a time, in the order they were posted.
type Loop struct {
	mu      sync.Mutex
	tasks   chan func()
	quit    chan struct{}
	done    chan struct{}
	stopped bool
}

// New creates a loop. The loop does not run tasks until Start is
// called.
func New() *Loop {
	return &Loop{
		tasks: make(chan func(), defaultQueueSize),
		quit:  make(chan struct{}),
		done:  make(chan struct{}),
	}
}

// Start launches the loop goroutine.
func (l *Loop) Start() {
	go l.run()
}

func (l *Loop) run() {
	defer close(l.done)
	for {
		// Drain pending tasks before honoring quit so that tasks
		// posted before Stop still run.
		select {
		case task := <-l.tasks:
			task()
		default:
			select {
			case task := <-l.tasks:
				task()
			case <-l.quit:
				return
			}
		}
	}
}

// Post enqueues a task for execution on the loop goroutine. Returns
// ErrStopped if the loop has been stopped.
func (l *Loop) Post(task func()) error {
	l.mu.Lock()
	if l.stopped {
		l.mu.Unlock()
		return ErrStopped
	}
	l.mu.Unlock()

	select {
	case l.tasks <- task:
		return nil
	case <-l.quit:
		return ErrStopped
	}
}

// PostDelayed schedules a task to be posted onto the loop after the
// given delay. The delay elapses on a scheduler goroutine; the task
// itself still runs serialized on the loop. A delayed task whose delay
// elapses after Stop is dropped.
func (l *Loop) PostDelayed(task func(), delay time.Duration) {
	time.AfterFunc(delay, func() {
		// Drop silently if the loop is gone; delayed work after
		// shutdown has nowhere to run.
		_ = l.Post(task)
	})
}

// Stop stops the loop. Tasks already queued are run before the loop
// goroutine exits; subsequent posts fail with ErrStopped. Stop blocks
// until the loop goroutine has finished and is safe to call more than
// once.
func (l *Loop) Stop() {
	l.mu.Lock()
	if l.stopped {
		l.mu.Unlock()
		<-l.done
		return
	}
	l.stopped = true
	close(l.quit)
	l.mu.Unlock()
	<-l.done
}
