/*
Package updates provides update payloads beyond the plain replacement value:
stack-shaped states, cyclic shifting states and substates whose value
persists across disabled spans.

Each payload implements domain.Update and ships with a matching StateType
constructor, so the scheduler stays unaware of the payload shape.
*/
package updates

import (
	"github.com/aretw0/cascade/pkg/domain"
)

type stackOpKind int

const (
	stackPush stackOpKind = iota
	stackPop
)

type stackOp struct {
	kind  stackOpKind
	value any
}

// Stack is an update payload that turns a state into a push/pop stack. The
// top of the stack lives in the record's current value; the rest is kept
// here.
type Stack struct {
	rest []any
	op   *stackOp
}

// ShouldApply reports whether a stack operation is pending.
func (s *Stack) ShouldApply() bool { return s.op != nil }

// Clear drops the pending operation.
func (s *Stack) Clear() { s.op = nil }

// Push arms a push of value onto the stack.
func (s *Stack) Push(value any) {
	s.op = &stackOp{kind: stackPush, value: value}
}

// Pop arms removal of the top value.
func (s *Stack) Pop() {
	s.op = &stackOp{kind: stackPop}
}

// Depth returns the number of values below the top.
func (s *Stack) Depth() int { return len(s.rest) }

// NewStackState creates an optional root state driven by a Stack payload.
// The state is absent while the stack is empty.
func NewStackState(name string) *domain.StateType {
	return domain.NewStateType(name, nil,
		func() domain.Update { return &Stack{} },
		func(rec *domain.Record, _ domain.Snapshot) domain.Repr {
			stack := rec.Pending().(*Stack)
			op := stack.op
			if op == nil {
				// Roots have no dependencies, so an update implies an op.
				return rec.Current()
			}
			switch op.kind {
			case stackPush:
				if cur := rec.Current(); cur.Present {
					stack.rest = append(stack.rest, cur.Value)
				}
				return domain.Some(op.value)
			default:
				if n := len(stack.rest); n > 0 {
					top := stack.rest[n-1]
					stack.rest = stack.rest[:n-1]
					return domain.Some(top)
				}
				return domain.None()
			}
		})
}

// Shift is an update payload that advances or retreats a state through a
// fixed cyclic sequence of variants.
type Shift struct {
	variants []any
	delta    int
	armed    bool
}

// ShouldApply reports whether a shift is pending.
func (s *Shift) ShouldApply() bool { return s.armed }

// Clear drops the pending shift.
func (s *Shift) Clear() {
	s.armed = false
	s.delta = 0
}

// Advance arms a forward shift by n variants.
func (s *Shift) Advance(n int) {
	s.delta += n
	s.armed = true
}

// Retreat arms a backward shift by n variants.
func (s *Shift) Retreat(n int) {
	s.delta -= n
	s.armed = true
}

// NewShiftState creates a mandatory root state cycling through variants.
// The variant list may contain duplicates; shifting moves relative to the
// first occurrence of the current value.
func NewShiftState(name string, variants []any) *domain.StateType {
	if len(variants) == 0 {
		panic("shift state requires at least one variant")
	}
	owned := append([]any(nil), variants...)
	return domain.NewStateType(name, nil,
		func() domain.Update { return &Shift{variants: owned} },
		func(rec *domain.Record, _ domain.Snapshot) domain.Repr {
			shift := rec.Pending().(*Shift)
			if !shift.armed {
				return rec.Current()
			}
			idx := 0
			for i, v := range shift.variants {
				if domain.Some(v).Equal(rec.Current()) {
					idx = i
					break
				}
			}
			n := len(shift.variants)
			idx = ((idx+shift.delta)%n + n) % n
			return domain.Some(shift.variants[idx])
		})
}

// Persistent is an update payload for substates that keep their last value
// across disabled spans instead of resetting to a default.
type Persistent struct {
	value any
	armed bool
}

// ShouldApply reports whether a replacement is pending.
func (p *Persistent) ShouldApply() bool { return p.armed }

// Clear disarms the payload but keeps the stored value, which re-entry
// restores.
func (p *Persistent) Clear() { p.armed = false }

// Set arms the payload with a replacement value. Absent representations are
// ignored; persistence always has a value to restore.
func (p *Persistent) Set(next domain.Repr) {
	if !next.Present {
		return
	}
	p.value = next.Value
	p.armed = true
}

// Value returns the stored value.
func (p *Persistent) Value() any { return p.value }

var _ domain.Settable = (*Persistent)(nil)

// NewPersistentSubstate creates an optional state that exists while parent
// holds activeWhen, like domain.NewSubstate, but restores its last value on
// re-entry rather than resetting to the default.
func NewPersistentSubstate(name string, parent *domain.StateType, activeWhen, defaultValue any) *domain.StateType {
	if parent == nil {
		panic("persistent substate requires a parent state")
	}
	return domain.NewStateType(name, []*domain.StateType{parent},
		func() domain.Update { return &Persistent{value: defaultValue} },
		func(rec *domain.Record, deps domain.Snapshot) domain.Repr {
			if !deps.One().Current().Equal(domain.Some(activeWhen)) {
				return domain.None()
			}
			return domain.Some(rec.Pending().(*Persistent).value)
		})
}
