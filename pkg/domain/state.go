package domain

import "fmt"

// Snapshot is the read-only view of a state's dependency records, in
// declaration order, taken during the current update pass.
type Snapshot []*Record

// AnyUpdated reports whether any dependency recomputed this pass.
func (s Snapshot) AnyUpdated() bool {
	for _, rec := range s {
		if rec.IsUpdated() {
			return true
		}
	}
	return false
}

// One returns the single dependency record. It panics when the dependency set
// does not have exactly one member; the helper exists for the common
// single-parent substate case.
func (s Snapshot) One() *Record {
	if len(s) != 1 {
		panic(fmt.Sprintf("snapshot holds %d dependencies, expected exactly 1", len(s)))
	}
	return s[0]
}

// UpdateFunc computes the next representation of a state from its own record
// (including the pending payload) and the dependency snapshot. It must be pure
// apart from consuming the payload.
type UpdateFunc func(rec *Record, deps Snapshot) Repr

// StateType describes one axis of state: its name, the states it depends on,
// how its pending payload is built and how its next value is computed.
//
// A StateType is an immutable descriptor. Dependency arity is unbounded; the
// update order is derived from the dependency graph and never set by hand.
type StateType struct {
	name    string
	deps    []*StateType
	order   int
	update  UpdateFunc
	payload func() Update
}

// NewStateType builds a descriptor from its parts. It is the generalization
// point for custom update semantics; most callers use NewRootState,
// NewSubstate or NewComputedState instead.
//
// The payload factory may be nil for states without external requests.
func NewStateType(name string, deps []*StateType, payload func() Update, update UpdateFunc) *StateType {
	if name == "" {
		panic("state type requires a name")
	}
	if update == nil {
		panic(fmt.Sprintf("state type %q requires an update function", name))
	}
	order := 0
	for _, dep := range deps {
		if dep == nil {
			panic(fmt.Sprintf("state type %q declares a nil dependency", name))
		}
		if dep.order > order {
			order = dep.order
		}
	}
	if payload == nil {
		payload = func() Update { return NullUpdate{} }
	}
	return &StateType{
		name:    name,
		deps:    deps,
		order:   order + 1,
		update:  update,
		payload: payload,
	}
}

// NewRootState creates a dependency-free state with a mandatory value and
// replace-style updates.
//
// If a recomputation fires with no pending value (possible only when roots are
// given dependencies through composition), the current value carries forward
// unchanged.
func NewRootState(name string) *StateType {
	return NewStateType(name, nil,
		func() Update { return &Replace{} },
		func(rec *Record, _ Snapshot) Repr {
			if next, ok := rec.Pending().(*Replace).Next(); ok {
				return next
			}
			return rec.Current()
		})
}

// NewSubstate creates an optional state that exists only while its parent
// holds activeWhen.
//
// While active, an armed pending value wins; otherwise the current value
// carries forward, or defaultValue on (re-)entry. Leaving clears the value, so
// re-entering yields a fresh default. Use a persistent payload (pkg/updates)
// to keep the last value across disabled spans instead.
func NewSubstate(name string, parent *StateType, activeWhen, defaultValue any) *StateType {
	if parent == nil {
		panic(fmt.Sprintf("substate %q requires a parent state", name))
	}
	return NewStateType(name, []*StateType{parent},
		func() Update { return &Replace{} },
		func(rec *Record, deps Snapshot) Repr {
			if !deps.One().Current().Equal(Some(activeWhen)) {
				return None()
			}
			if next, ok := rec.Pending().(*Replace).Next(); ok {
				return next
			}
			if cur := rec.Current(); cur.Present {
				return cur
			}
			return Some(defaultValue)
		})
}

// NewComputedState creates an optional state derived purely from its
// dependencies. It accepts no external requests.
func NewComputedState(name string, deps []*StateType, compute func(deps Snapshot) Repr) *StateType {
	if compute == nil {
		panic(fmt.Sprintf("computed state %q requires a compute function", name))
	}
	return NewStateType(name, deps, nil,
		func(_ *Record, deps Snapshot) Repr {
			return compute(deps)
		})
}

// Name returns the state's semantic identifier.
func (t *StateType) Name() string {
	return t.name
}

// Order returns the derived scheduling rank: 1 for roots, 1 + the highest
// dependency order otherwise.
func (t *StateType) Order() int {
	return t.order
}

// Dependencies returns the declared dependency set in declaration order.
func (t *StateType) Dependencies() []*StateType {
	return t.deps
}

// NewPayload builds a fresh pending-update payload for a new record.
func (t *StateType) NewPayload() Update {
	return t.payload()
}

// Next runs the state's update function.
func (t *StateType) Next(rec *Record, deps Snapshot) Repr {
	return t.update(rec, deps)
}
