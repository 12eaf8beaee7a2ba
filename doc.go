/*
Package cascade is a hierarchical state machine layer for simulation and game
loops. States form a dependency graph: root states are set directly, substates
exist only while their parent holds a specific value, and computed states
derive their value from other states every tick.

It implements a deferred-mutation scheduler: external writes (initializations,
set requests, payload operations) are queued and applied at the start of the
next tick, so reads are always consistent within a frame.

# Concept

Cascade separates three concerns. The registration graph (which states exist
and what they depend on) is global to the engine. Owning contexts hold the
actual values: one distinguished global context plus any number of local
contexts, each an independent instance of the whole machine. Transition
notifications (enter, exit, reenter, reexit, init, deinit) are delivered after
each tick in a depth-ordered schedule, never during recomputation.

# Key Features

  - Deterministic Ticks: updates run in ascending dependency depth, exits
    leaf-first, enters root-first.
  - Reentrant Transitions: setting a state to its current value is observable
    through reenter/reexit without firing enter/exit.
  - Custom Update Payloads: stacks, cyclic shifts and persistent substates
    plug into the same scheduling machinery.
  - State Persistence: snapshots can be saved to pluggable backends and
    restored into a fresh engine.

# Usage

	package main

	import (
		"context"
		"fmt"

		"github.com/aretw0/cascade"
		"github.com/aretw0/cascade/pkg/domain"
	)

	func main() {
		eng := cascade.New()

		// Declare the machine: a root mode with a paused substate that only
		// exists while the mode is "playing".
		mode := domain.NewRootState("mode")
		paused := domain.NewSubstate("paused", mode, "playing", "no")
		eng.RegisterDefault(mode)
		eng.RegisterDefault(paused)

		eng.Subscribe(domain.EventEnter, "", func(_ context.Context, ev domain.TransitionEvent) {
			fmt.Println("enter", ev.State, ev.Current)
		})

		ctx := context.Background()

		// Seed the global context and settle initial notifications.
		eng.Initialize(domain.Global(), mode, domain.Some("menu"))
		eng.Initialize(domain.Global(), paused, domain.None())
		eng.Tick(ctx)

		// Main loop: request changes, then tick once per frame.
		eng.Set(domain.Global(), mode, domain.Some("playing"))
		eng.Tick(ctx)

		cur, _ := eng.Current(domain.Global(), paused)
		fmt.Println("paused:", cur) // paused: no
	}
*/
package cascade
