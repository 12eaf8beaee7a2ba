package domain

// Record stores the authoritative data of one state on one owning context.
//
// It is mutated exclusively by the engine's update pass. External callers only
// reach it through the read-only accessors and through the pending update
// payload, which the engine consumes at the start of the next pass.
type Record struct {
	current   Repr
	previous  Repr
	pending   Update
	reentrant bool
	updated   bool
}

// NewRecord creates a record with current == previous == initial.
//
// A fresh record is flagged reentrant so ReentrantPrevious is well defined
// before the first real transition.
func NewRecord(initial Repr, pending Update) *Record {
	if pending == nil {
		pending = NullUpdate{}
	}
	return &Record{
		current:   initial,
		previous:  initial,
		pending:   pending,
		reentrant: true,
	}
}

// RestoreRecord rebuilds a record from persisted values, e.g. when loading an
// engine snapshot. Per-pass flags start cleared; the reentrant flag is derived
// from whether previous and current differ.
func RestoreRecord(current, previous Repr, pending Update) *Record {
	if pending == nil {
		pending = NullUpdate{}
	}
	return &Record{
		current:   current,
		previous:  previous,
		pending:   pending,
		reentrant: current.Equal(previous),
	}
}

// Commit installs the next value computed by an update function.
//
// An equal value marks the record reentrant and leaves previous untouched; a
// different value shifts current into previous. Either way the updated flag is
// raised. The scheduler guarantees at most one Commit per record per pass.
func (r *Record) Commit(next Repr) {
	if next.Equal(r.current) {
		r.reentrant = true
	} else {
		r.reentrant = false
		r.previous = r.current
		r.current = next
	}
	r.updated = true
}

// ResetUpdated clears the updated flag at the start of an update pass.
func (r *Record) ResetUpdated() {
	r.updated = false
}

// Current returns the authoritative value.
func (r *Record) Current() Repr {
	return r.current
}

// Previous returns the last different value. Immediately after creation it
// equals Current.
func (r *Record) Previous() Repr {
	return r.previous
}

// ReentrantPrevious returns the value before the last recomputation,
// substituting Current for reentrant transitions where no genuine previous
// value exists.
func (r *Record) ReentrantPrevious() Repr {
	if r.reentrant {
		return r.current
	}
	return r.previous
}

// IsReentrant reports whether the last recomputation produced an unchanged
// value.
func (r *Record) IsReentrant() bool {
	return r.reentrant
}

// IsUpdated reports whether a recomputation happened in the last update pass.
func (r *Record) IsUpdated() bool {
	return r.updated
}

// Pending returns the externally supplied update payload.
func (r *Record) Pending() Update {
	return r.pending
}
