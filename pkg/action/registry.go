package action

import "github.com/cec-protocol/cec-go/pkg/cec"

// Registry holds the set of active actions and routes each arriving
// message to them. It performs no protocol logic of its own.
//
// Registry is confined to the run loop: every method must be called
// from loop context. That is what makes the dispatch pass safe without
// locks, and it is why Remove can be called from inside a dispatched
// callback (an action finishing itself mid-dispatch): the removal is
// deferred until the current pass completes.
type Registry struct {
	actions []Action

	// fallback receives messages no action consumed.
	fallback func(msg *cec.Message)

	dispatching bool
	pendingRm   []Action
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{}
}

// SetFallback sets the handler for messages no active action consumed.
func (r *Registry) SetFallback(fn func(msg *cec.Message)) {
	r.fallback = fn
}

// Add registers an action. Actions are offered messages in
// registration order. An action added during a dispatch pass is not
// offered the message currently being dispatched.
func (r *Registry) Add(a Action) {
	r.actions = append(r.actions, a)
}

// Remove deregisters an action. A removal requested during a dispatch
// pass takes effect once the pass completes.
func (r *Registry) Remove(a Action) {
	if r.dispatching {
		r.pendingRm = append(r.pendingRm, a)
		return
	}
	r.remove(a)
}

func (r *Registry) remove(a Action) {
	for i, candidate := range r.actions {
		if candidate == a {
			r.actions = append(r.actions[:i], r.actions[i+1:]...)
			return
		}
	}
}

// Contains reports whether the action is registered and not pending
// removal.
func (r *Registry) Contains(a Action) bool {
	for _, pending := range r.pendingRm {
		if pending == a {
			return false
		}
	}
	for _, candidate := range r.actions {
		if candidate == a {
			return true
		}
	}
	return false
}

// Len returns the number of registered actions, including any whose
// removal is still pending.
func (r *Registry) Len() int {
	return len(r.actions)
}

// Dispatch offers the message to the active actions in registration
// order and stops at the first one that consumes it. If none does, the
// message goes to the fallback handler. Returns whether the message
// was consumed by an action.
func (r *Registry) Dispatch(msg *cec.Message) bool {
	r.dispatching = true

	consumed := false
	// Snapshot the slice header: adds during the pass grow a new
	// backing array and stay invisible, removals are deferred.
	active := r.actions
	for _, a := range active {
		if r.isPendingRemoval(a) {
			continue
		}
		if a.ProcessCommand(msg) {
			consumed = true
			break
		}
	}

	r.dispatching = false
	for _, a := range r.pendingRm {
		r.remove(a)
	}
	r.pendingRm = r.pendingRm[:0]

	if !consumed && r.fallback != nil {
		r.fallback(msg)
	}
	return consumed
}

func (r *Registry) isPendingRemoval(a Action) bool {
	for _, pending := range r.pendingRm {
		if pending == a {
			return true
		}
	}
	return false
}
