package domain

import (
	"time"

	"github.com/google/uuid"
)

// EventKind defines the category of a transition notification.
type EventKind string

const (
	// EventInit fires when a record is created on a context.
	EventInit EventKind = "init"
	// EventDeinit fires when a record is dropped with its context.
	EventDeinit EventKind = "deinit"
	// EventEnter fires for real (non-reentrant) transitions, roots first.
	EventEnter EventKind = "enter"
	// EventExit fires for real (non-reentrant) transitions, leaves first.
	EventExit EventKind = "exit"
	// EventReenter fires for every updated state, reentrant ones included.
	EventReenter EventKind = "reenter"
	// EventReexit is the exit-side counterpart of EventReenter.
	EventReexit EventKind = "reexit"
)

// TransitionEvent is the payload delivered to subscribers after an update
// pass. Delivery is read-only with respect to records.
type TransitionEvent struct {
	Timestamp time.Time `json:"timestamp"`
	Kind      EventKind `json:"kind"`
	State     string    `json:"state"`

	// Previous is the value before the transition. For reentrant kinds it
	// substitutes the current value, since no genuine previous exists.
	Previous Repr `json:"previous"`
	// Current is the value after the transition.
	Current Repr `json:"current"`

	// Global marks broadcast events from the global context; otherwise
	// Context identifies the owning local context.
	Global  bool      `json:"global"`
	Context uuid.UUID `json:"context,omitempty"`
}

// Target identifies the owning context of an operation: either the
// distinguished global context or a specific local handle.
type Target struct {
	id     uuid.UUID
	global bool
}

// Global targets the distinguished global context.
func Global() Target {
	return Target{global: true}
}

// Local targets a specific local context.
func Local(id uuid.UUID) Target {
	return Target{id: id}
}

// IsGlobal reports whether the target is the global context.
func (t Target) IsGlobal() bool {
	return t.global
}

// ID returns the local context handle; zero for the global target.
func (t Target) ID() uuid.UUID {
	return t.id
}

func (t Target) String() string {
	if t.global {
		return "global"
	}
	return t.id.String()
}
