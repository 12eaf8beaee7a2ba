// Package runtime implements the core state engine: the registration graph,
// owning contexts, the deferred mutation queue and the per-tick update and
// transition passes.
package runtime

import (
	"log/slog"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/aretw0/cascade/internal/logging"
	"github.com/aretw0/cascade/pkg/domain"
	"github.com/aretw0/cascade/pkg/ports"
)

// contextEntry owns the records of one context. The update pass is the single
// writer for every record in the map.
type contextEntry struct {
	id      uuid.UUID
	global  bool
	records map[string]*domain.Record
}

func (c *contextEntry) target() domain.Target {
	if c.global {
		return domain.Global()
	}
	return domain.Local(c.id)
}

// Engine is the core state machine scheduler.
//
// All mutating methods funnel through a deferred command queue drained at the
// start of the next update pass, so external writes never land mid-pass.
// Engine methods are not safe for concurrent use except InitializeState,
// SetState and RequestUpdate, which only append to the queue.
type Engine struct {
	logger      *slog.Logger
	dispatcher  ports.Dispatcher
	parallelism int

	types   map[string]*domain.StateType
	configs map[string]domain.StateConfig
	// byOrder[n] holds the state types with derived order n. Index 0 stays
	// empty; orders start at 1.
	byOrder [][]*domain.StateType

	global *contextEntry
	locals map[uuid.UUID]*contextEntry

	mu    sync.Mutex
	queue []command

	subs map[subKey][]Handler
}

// Option configures the engine.
type Option func(*Engine)

// WithLogger sets a structured logger for configuration warnings.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithDispatcher fans every transition notification out to an external
// dispatcher in addition to local subscribers.
func WithDispatcher(d ports.Dispatcher) Option {
	return func(e *Engine) {
		e.dispatcher = d
	}
}

// WithParallelism allows up to n records of the same order group to update
// concurrently. Order groups remain barriers; n <= 1 keeps the pass
// sequential.
func WithParallelism(n int) Option {
	return func(e *Engine) {
		e.parallelism = n
	}
}

// NewEngine creates an empty engine.
func NewEngine(opts ...Option) *Engine {
	e := &Engine{
		logger:  logging.NewNop(),
		types:   make(map[string]*domain.StateType),
		configs: make(map[string]domain.StateConfig),
		byOrder: make([][]*domain.StateType, 1),
		locals:  make(map[uuid.UUID]*contextEntry),
		subs:    make(map[subKey][]Handler),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// RegisterState installs a state type into the scheduling graph.
// Dependencies are registered first with the default configuration.
// Re-registering a name is a warning and a no-op; the first configuration
// wins.
func (e *Engine) RegisterState(st *domain.StateType, cfg domain.StateConfig) {
	if st == nil {
		return
	}
	if _, ok := e.types[st.Name()]; ok {
		e.logger.Warn("state is already registered", "state", st.Name())
		return
	}
	for _, dep := range st.Dependencies() {
		if _, ok := e.types[dep.Name()]; !ok {
			e.RegisterState(dep, domain.DefaultStateConfig())
		}
	}
	e.types[st.Name()] = st
	e.configs[st.Name()] = cfg
	for len(e.byOrder) <= st.Order() {
		e.byOrder = append(e.byOrder, nil)
	}
	e.byOrder[st.Order()] = append(e.byOrder[st.Order()], st)
}

// StateByName returns a registered state type.
func (e *Engine) StateByName(name string) (*domain.StateType, bool) {
	st, ok := e.types[name]
	return st, ok
}

// States returns every registered state type, ascending by order and then by
// name.
func (e *Engine) States() []*domain.StateType {
	out := make([]*domain.StateType, 0, len(e.types))
	for _, group := range e.byOrder {
		sorted := append([]*domain.StateType(nil), group...)
		sort.Slice(sorted, func(i, j int) bool { return sorted[i].Name() < sorted[j].Name() })
		out = append(out, sorted...)
	}
	return out
}

// NewContext creates an independent local context and returns its handle.
func (e *Engine) NewContext() uuid.UUID {
	id := uuid.New()
	e.locals[id] = &contextEntry{id: id, records: make(map[string]*domain.Record)}
	return id
}

// DestroyContext drops a local context and its records, firing deinit
// notifications leaf-first. Must not be called during a pass.
func (e *Engine) DestroyContext(id uuid.UUID) {
	entry, ok := e.locals[id]
	if !ok {
		e.logger.Warn("destroy of unknown context", "context", id)
		return
	}
	e.dropRecords(entry)
	delete(e.locals, id)
}

func (e *Engine) dropRecords(entry *contextEntry) {
	for order := len(e.byOrder) - 1; order >= 1; order-- {
		for _, st := range e.byOrder[order] {
			rec, ok := entry.records[st.Name()]
			if !ok {
				continue
			}
			if e.configs[st.Name()].OnDeinit {
				e.emit(entry, domain.EventDeinit, st.Name(), rec.Previous(), rec.Current())
			}
			delete(entry.records, st.Name())
		}
	}
}

// resolve maps a target to its context entry. The global context is created
// on demand only when create is set (first initialization).
func (e *Engine) resolve(target domain.Target, create bool) *contextEntry {
	if target.IsGlobal() {
		if e.global == nil && create {
			e.global = &contextEntry{global: true, records: make(map[string]*domain.Record)}
		}
		return e.global
	}
	return e.locals[target.ID()]
}

// contexts returns every live context, global first.
func (e *Engine) contexts() []*contextEntry {
	out := make([]*contextEntry, 0, len(e.locals)+1)
	if e.global != nil {
		out = append(out, e.global)
	}
	for _, entry := range e.locals {
		out = append(out, entry)
	}
	return out
}

// record resolves a single record for the query surface.
func (e *Engine) record(target domain.Target, st *domain.StateType) (*domain.Record, error) {
	if st == nil {
		return nil, domain.ErrUnknownState
	}
	if _, ok := e.types[st.Name()]; !ok {
		return nil, domain.ErrUnknownState
	}
	entry := e.resolve(target, false)
	if entry == nil {
		if target.IsGlobal() {
			return nil, domain.ErrNoGlobalContext
		}
		return nil, domain.ErrNoSuchContext
	}
	rec, ok := entry.records[st.Name()]
	if !ok {
		return nil, domain.ErrStateNotInitialized
	}
	return rec, nil
}

// Current returns the authoritative value of a state on a context.
// Valid at any time outside an in-progress update pass.
func (e *Engine) Current(target domain.Target, st *domain.StateType) (domain.Repr, error) {
	rec, err := e.record(target, st)
	if err != nil {
		return domain.Repr{}, err
	}
	return rec.Current(), nil
}

// Previous returns the last different value of a state on a context.
func (e *Engine) Previous(target domain.Target, st *domain.StateType) (domain.Repr, error) {
	rec, err := e.record(target, st)
	if err != nil {
		return domain.Repr{}, err
	}
	return rec.Previous(), nil
}

// IsUpdated reports whether the state recomputed during the last pass.
func (e *Engine) IsUpdated(target domain.Target, st *domain.StateType) (bool, error) {
	rec, err := e.record(target, st)
	if err != nil {
		return false, err
	}
	return rec.IsUpdated(), nil
}

// IsReentrant reports whether the last recomputation kept the value.
func (e *Engine) IsReentrant(target domain.Target, st *domain.StateType) (bool, error) {
	rec, err := e.record(target, st)
	if err != nil {
		return false, err
	}
	return rec.IsReentrant(), nil
}
