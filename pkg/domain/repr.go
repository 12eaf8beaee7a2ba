package domain

import "fmt"

// Repr is the runtime representation of a state value.
//
// Mandatory states (roots) are always Present. Optional states (substates,
// computed states) may be absent when the predicate over their dependencies
// does not hold.
//
// Values must be comparable (strings, integers, small structs). Equality of
// two representations decides whether a transition is reentrant.
type Repr struct {
	Present bool `json:"present"`
	Value   any  `json:"value,omitempty"`
}

// Some wraps a value into a present representation.
func Some(v any) Repr {
	return Repr{Present: true, Value: v}
}

// None returns the absent representation.
func None() Repr {
	return Repr{}
}

// Equal reports whether two representations hold the same value.
func (r Repr) Equal(other Repr) bool {
	if r.Present != other.Present {
		return false
	}
	if !r.Present {
		return true
	}
	return r.Value == other.Value
}

func (r Repr) String() string {
	if !r.Present {
		return "<none>"
	}
	return fmt.Sprintf("%v", r.Value)
}
