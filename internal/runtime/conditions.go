package runtime

import (
	"github.com/aretw0/cascade/pkg/domain"
)

// Run conditions: read-only predicates over the global context for gating
// host-side systems. Each returns false when the global context or the record
// is missing.

// InState reports whether the global state currently holds value.
func (e *Engine) InState(st *domain.StateType, value domain.Repr) bool {
	cur, err := e.Current(domain.Global(), st)
	if err != nil {
		return false
	}
	return cur.Equal(value)
}

// StateChanged reports whether the global state recomputed last pass.
func (e *Engine) StateChanged(st *domain.StateType) bool {
	updated, err := e.IsUpdated(domain.Global(), st)
	if err != nil {
		return false
	}
	return updated
}

// StateChangedTo reports whether the global state just made a real transition
// into value.
func (e *Engine) StateChangedTo(st *domain.StateType, value domain.Repr) bool {
	rec, err := e.record(domain.Global(), st)
	if err != nil {
		return false
	}
	return rec.IsUpdated() && !rec.IsReentrant() && rec.Current().Equal(value)
}
