/*
Package ports defines the driven ports (interfaces) for the Cascade engine.

These interfaces decouple the core from external implementations, allowing
snapshots to be persisted in different backends and transition notifications
to be fanned out to arbitrary collaborators.

# Key Interfaces

  - SnapshotStore: persists and loads engine snapshots ("save game" support).
  - Dispatcher: receives every transition notification the engine emits.
*/
package ports

import (
	"context"

	"github.com/aretw0/cascade/pkg/domain"
)

// SnapshotStore persists engine snapshots under caller-chosen keys.
type SnapshotStore interface {
	// Save persists a snapshot under the given key.
	Save(ctx context.Context, key string, snap *domain.EngineSnapshot) error

	// Load retrieves the snapshot for a key.
	// Returns domain.ErrSnapshotNotFound if the key does not exist.
	Load(ctx context.Context, key string) (*domain.EngineSnapshot, error)

	// Delete removes the snapshot for a key.
	Delete(ctx context.Context, key string) error

	// List returns the keys of stored snapshots.
	List(ctx context.Context) ([]string, error)
}

// Dispatcher receives transition notifications after the update pass.
// Implementations must treat the event as read-only and must not call back
// into the engine's mutation surface during delivery.
type Dispatcher interface {
	Dispatch(ctx context.Context, ev domain.TransitionEvent)
}

// DispatcherFunc adapts a function to the Dispatcher interface.
type DispatcherFunc func(ctx context.Context, ev domain.TransitionEvent)

// Dispatch calls f.
func (f DispatcherFunc) Dispatch(ctx context.Context, ev domain.TransitionEvent) {
	f(ctx, ev)
}
