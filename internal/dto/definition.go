// Package dto holds the loosely-typed wire structures for machine definition
// files, decoded via mapstructure before compilation into state types.
package dto

// Definition is the root of a YAML machine definition.
type Definition struct {
	Name   string      `json:"name" mapstructure:"name"`
	States []StateSpec `json:"states" mapstructure:"states"`
}

// StateSpec declares one state type. Parents must be declared before their
// substates.
type StateSpec struct {
	Name string `json:"name" mapstructure:"name"`
	// Kind is one of: root, substate, stack, shift.
	Kind string `json:"kind" mapstructure:"kind"`

	// Initial seeds the global context; omit to leave the state
	// uninitialized (or absent, for substates).
	Initial any `json:"initial" mapstructure:"initial"`

	// Substate config
	Parent     string `json:"parent" mapstructure:"parent"`
	ActiveWhen any    `json:"active_when" mapstructure:"active_when"`
	Default    any    `json:"default" mapstructure:"default"`
	// Persistent substates restore their last value on re-entry instead of
	// resetting to the default.
	Persistent bool `json:"persistent" mapstructure:"persistent"`

	// Shift config
	Variants []any `json:"variants" mapstructure:"variants"`

	Config *ConfigSpec `json:"config" mapstructure:"config"`
}

// ConfigSpec overrides the default notification configuration. Nil fields
// keep the defaults (init, deinit, enter, exit on; reenter, reexit off).
type ConfigSpec struct {
	OnInit    *bool `json:"on_init" mapstructure:"on_init"`
	OnDeinit  *bool `json:"on_deinit" mapstructure:"on_deinit"`
	OnEnter   *bool `json:"on_enter" mapstructure:"on_enter"`
	OnExit    *bool `json:"on_exit" mapstructure:"on_exit"`
	OnReenter *bool `json:"on_reenter" mapstructure:"on_reenter"`
	OnReexit  *bool `json:"on_reexit" mapstructure:"on_reexit"`
}
