package domain

// CleanupFunc runs during the exit phase with the value that was left.
// State-scoped resources (entities, handles) owned by that value should be
// released here. It must not write back into state records.
type CleanupFunc func(target Target, exited Repr)

// StateConfig selects which notifications a registered state emits and an
// optional exit-phase cleanup hook. Configuration is applied on first
// registration only.
type StateConfig struct {
	OnInit    bool
	OnDeinit  bool
	OnEnter   bool
	OnExit    bool
	OnReenter bool
	OnReexit  bool

	Cleanup CleanupFunc
}

// DefaultStateConfig enables init/deinit and the non-reentrant enter/exit
// notifications. Reentrant variants are opt-in.
func DefaultStateConfig() StateConfig {
	return StateConfig{
		OnInit:   true,
		OnDeinit: true,
		OnEnter:  true,
		OnExit:   true,
	}
}

// EmptyStateConfig disables every notification.
func EmptyStateConfig() StateConfig {
	return StateConfig{}
}

// WithReentrant returns a copy with the reentrant notification pair enabled.
func (c StateConfig) WithReentrant() StateConfig {
	c.OnReenter = true
	c.OnReexit = true
	return c
}

// WithCleanup returns a copy with an exit-phase cleanup hook attached.
func (c StateConfig) WithCleanup(fn CleanupFunc) StateConfig {
	c.Cleanup = fn
	return c
}
