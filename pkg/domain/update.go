package domain

// Update is the capability interface shared by all pending-update payloads.
//
// A payload decides whether the owning state must recompute this pass
// (ShouldApply) and resets its trigger after the recomputation ran (Clear).
// Custom payloads (stacks, cyclic shifts, persistent values) implement the
// same contract; the scheduler never inspects anything beyond it.
type Update interface {
	// ShouldApply reports whether an external request is waiting.
	ShouldApply() bool

	// Clear resets the request trigger after an update was applied.
	Clear()
}

// Settable is implemented by payloads that accept a plain replacement value.
// The engine's SetState convenience path requires it.
type Settable interface {
	Update
	Set(next Repr)
}

// NullUpdate is the payload of states that never receive external requests
// (computed states); they only move when a dependency does.
type NullUpdate struct{}

// ShouldApply always reports false.
func (NullUpdate) ShouldApply() bool { return false }

// Clear is a no-op.
func (NullUpdate) Clear() {}

// Replace is the default payload: a single replacement value, armed by Set
// and consumed by the next update pass.
type Replace struct {
	next  Repr
	armed bool
}

// ShouldApply reports whether a replacement value is armed.
func (u *Replace) ShouldApply() bool { return u.armed }

// Clear disarms the payload.
func (u *Replace) Clear() {
	u.armed = false
	u.next = Repr{}
}

// Set arms the payload with a replacement value.
func (u *Replace) Set(next Repr) {
	u.next = next
	u.armed = true
}

// Next returns the armed replacement value, if any.
func (u *Replace) Next() (Repr, bool) {
	return u.next, u.armed
}
