// Package action implements the feature-action framework: the state
// machine engine that drives multi-step command exchanges on the CEC
// bus.
//
// A feature (power-state negotiation, routing, key passthrough) is
// rarely a single message. It is a short conversation: send a command,
// wait for a correlated reply within a deadline, retry or give up,
// possibly repeat. Each such in-flight conversation is one Action.
// Many actions run at once, each consuming the bus messages it
// recognizes and yielding the rest.
//
// All action callbacks (Start, ProcessCommand, HandleTimerEvent)
// execute on one runloop.Loop, strictly one at a time, so actions
// mutate their own state without locks.
//
// Timers arm but never cancel. A timer delivery carries the state the
// action was in when the timer was armed; if the action has since
// moved on, the delivered state no longer matches and the action must
// ignore it. Staleness comparison is the framework's substitute for
// cancellation and every concrete action's HandleTimerEvent is
// required to perform it.
package action
