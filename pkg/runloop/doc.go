// Package runloop provides the single serialized execution queue the
// feature-action framework runs on.
//
// Every callback that can touch action state (start, message dispatch,
// timer delivery) is posted onto one Loop and executed by one
// goroutine in FIFO order. No two callbacks ever run concurrently, so
// actions need no locks around their own fields.
package runloop
