package runtime

import (
	"context"
	"time"

	"github.com/aretw0/cascade/pkg/domain"
)

// Handler receives transition notifications. It must not call back into the
// engine's mutation surface during delivery.
type Handler func(ctx context.Context, ev domain.TransitionEvent)

type subKey struct {
	kind  domain.EventKind
	state string
}

// Subscribe registers a handler for one notification kind of one state type.
// An empty state name subscribes to that kind for every state.
func (e *Engine) Subscribe(kind domain.EventKind, state string, h Handler) {
	if h == nil {
		return
	}
	key := subKey{kind: kind, state: state}
	e.subs[key] = append(e.subs[key], h)
}

func (e *Engine) emit(entry *contextEntry, kind domain.EventKind, state string, previous, current domain.Repr) {
	e.emitCtx(context.Background(), entry, kind, state, previous, current)
}

func (e *Engine) emitCtx(ctx context.Context, entry *contextEntry, kind domain.EventKind, state string, previous, current domain.Repr) {
	ev := domain.TransitionEvent{
		Timestamp: time.Now().UTC(),
		Kind:      kind,
		State:     state,
		Previous:  previous,
		Current:   current,
		Global:    entry.global,
		Context:   entry.id,
	}
	for _, h := range e.subs[subKey{kind: kind, state: state}] {
		h(ctx, ev)
	}
	for _, h := range e.subs[subKey{kind: kind}] {
		h(ctx, ev)
	}
	if e.dispatcher != nil {
		e.dispatcher.Dispatch(ctx, ev)
	}
}
