package runtime

import (
	"time"

	"github.com/google/uuid"

	"github.com/aretw0/cascade/pkg/domain"
)

// Snapshot captures the externally visible values of every record on every
// context. Pending payloads and per-pass flags are not captured; a restored
// engine starts from a settled tick.
func (e *Engine) Snapshot() *domain.EngineSnapshot {
	snap := &domain.EngineSnapshot{SavedAt: time.Now().UTC()}
	for _, entry := range e.contexts() {
		ctxSnap := domain.ContextSnapshot{
			Global: entry.global,
			States: make(map[string]domain.StateSnapshot, len(entry.records)),
		}
		if !entry.global {
			ctxSnap.ID = entry.id.String()
		}
		for name, rec := range entry.records {
			ctxSnap.States[name] = domain.StateSnapshot{
				Current:  rec.Current(),
				Previous: rec.Previous(),
			}
		}
		snap.Contexts = append(snap.Contexts, ctxSnap)
	}
	return snap
}

// Restore rebuilds contexts and records from a snapshot. State types must be
// registered before restoring; snapshots of unregistered states are skipped
// with a warning. Existing contexts and records are replaced.
func (e *Engine) Restore(snap *domain.EngineSnapshot) error {
	if snap == nil {
		return nil
	}
	var global *contextEntry
	locals := make(map[uuid.UUID]*contextEntry)
	for _, ctxSnap := range snap.Contexts {
		var entry *contextEntry
		switch {
		case ctxSnap.Global:
			entry = &contextEntry{global: true, records: make(map[string]*domain.Record)}
			global = entry
		default:
			id, err := uuid.Parse(ctxSnap.ID)
			if err != nil {
				return err
			}
			entry = &contextEntry{id: id, records: make(map[string]*domain.Record)}
			locals[id] = entry
		}
		for name, stateSnap := range ctxSnap.States {
			st, ok := e.types[name]
			if !ok {
				e.logger.Warn("snapshot holds unregistered state, skipping", "state", name)
				continue
			}
			entry.records[name] = domain.RestoreRecord(stateSnap.Current, stateSnap.Previous, st.NewPayload())
		}
	}
	// Replace, not merge. Contexts absent from the snapshot must not survive.
	e.global = global
	e.locals = locals
	return nil
}
