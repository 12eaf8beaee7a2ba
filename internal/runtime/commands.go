package runtime

import (
	"context"

	"github.com/aretw0/cascade/pkg/domain"
)

// command is a deferred mutation applied when the queue drains, right before
// the next update pass. Commands keep external writes out of a running pass.
type command interface {
	apply(ctx context.Context, e *Engine)
}

type initializeCommand struct {
	target  domain.Target
	state   *domain.StateType
	initial domain.Repr
}

func (c initializeCommand) apply(ctx context.Context, e *Engine) {
	st, ok := e.types[c.state.Name()]
	if !ok {
		e.logger.Warn("initialize of unregistered state", "state", c.state.Name())
		return
	}
	entry := e.resolve(c.target, true)
	if entry == nil {
		e.logger.Warn("initialize on unknown context", "state", st.Name(), "context", c.target)
		return
	}
	if _, exists := entry.records[st.Name()]; exists {
		e.logger.Warn("state is already initialized", "state", st.Name(), "context", c.target)
		return
	}
	rec := domain.NewRecord(c.initial, st.NewPayload())
	entry.records[st.Name()] = rec
	if e.configs[st.Name()].OnInit {
		e.emitCtx(ctx, entry, domain.EventInit, st.Name(), rec.Previous(), rec.Current())
	}
}

type requestCommand struct {
	target domain.Target
	state  *domain.StateType
	mutate func(domain.Update)
}

func (c requestCommand) apply(_ context.Context, e *Engine) {
	st, ok := e.types[c.state.Name()]
	if !ok {
		e.logger.Warn("update request for unregistered state", "state", c.state.Name())
		return
	}
	entry := e.resolve(c.target, false)
	if entry == nil {
		e.logger.Warn("update request without owning context", "state", st.Name(), "context", c.target)
		return
	}
	rec, ok := entry.records[st.Name()]
	if !ok {
		e.logger.Warn("update request for uninitialized state", "state", st.Name(), "context", c.target)
		return
	}
	c.mutate(rec.Pending())
}

func (e *Engine) enqueue(cmd command) {
	e.mu.Lock()
	e.queue = append(e.queue, cmd)
	e.mu.Unlock()
}

// drain applies every queued command in submission order. The caller's ctx
// rides along so notifications raised here carry it.
func (e *Engine) drain(ctx context.Context) {
	e.mu.Lock()
	queued := e.queue
	e.queue = nil
	e.mu.Unlock()
	for _, cmd := range queued {
		cmd.apply(ctx, e)
	}
}

// InitializeState creates a record for a state on a context, effective at the
// next update pass. Initializing the global target creates the global context
// on first use. A record that already exists is left intact (warning).
func (e *Engine) InitializeState(target domain.Target, st *domain.StateType, initial domain.Repr) {
	if st == nil {
		return
	}
	e.enqueue(initializeCommand{target: target, state: st, initial: initial})
}

// RequestUpdate hands the state's pending payload to mutate, effective at the
// next update pass. This is how custom payload operations (stack push,
// shifts) are requested.
func (e *Engine) RequestUpdate(target domain.Target, st *domain.StateType, mutate func(domain.Update)) {
	if st == nil || mutate == nil {
		return
	}
	e.enqueue(requestCommand{target: target, state: st, mutate: mutate})
}

// SetState arms a plain replacement value for states whose payload supports
// it (domain.Settable).
func (e *Engine) SetState(target domain.Target, st *domain.StateType, next domain.Repr) {
	if st == nil {
		return
	}
	logger := e.logger
	e.enqueue(requestCommand{target: target, state: st, mutate: func(u domain.Update) {
		settable, ok := u.(domain.Settable)
		if !ok {
			logger.Warn("state payload does not accept replacement values", "state", st.Name())
			return
		}
		settable.Set(next)
	}})
}
