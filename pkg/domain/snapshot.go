package domain

import "time"

// StateSnapshot captures one record's externally visible values.
type StateSnapshot struct {
	Current  Repr `json:"current"`
	Previous Repr `json:"previous"`
}

// ContextSnapshot captures every record of one owning context.
type ContextSnapshot struct {
	// ID is the local context handle, empty for the global context.
	ID     string                   `json:"id,omitempty"`
	Global bool                     `json:"global,omitempty"`
	States map[string]StateSnapshot `json:"states"`
}

// EngineSnapshot is the persistable projection of an engine's state machines.
// Pending payloads and per-pass flags are deliberately excluded; a restored
// engine starts from a settled tick.
type EngineSnapshot struct {
	SavedAt  time.Time         `json:"saved_at"`
	Contexts []ContextSnapshot `json:"contexts"`
}
