package cascade

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/aretw0/cascade/internal/logging"
	"github.com/aretw0/cascade/internal/runtime"
	"github.com/aretw0/cascade/pkg/domain"
	"github.com/aretw0/cascade/pkg/observability"
	"github.com/aretw0/cascade/pkg/ports"
)

// Engine is the high-level entry point for the Cascade library.
// It wraps the internal runtime and provides a simplified API for consumers.
type Engine struct {
	runtime     *runtime.Engine
	logger      *slog.Logger
	store       ports.SnapshotStore
	metrics     *observability.Metrics
	dispatcher  ports.Dispatcher
	runtimeOpts []runtime.Option
}

// Option defines a functional option for configuring the Engine.
type Option func(*Engine)

// WithLogger sets a custom structured logger for the engine.
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

// WithSnapshotStore enables Save and Load against a persistence backend.
func WithSnapshotStore(store ports.SnapshotStore) Option {
	return func(e *Engine) {
		e.store = store
	}
}

// WithMetrics records transition counts and tick durations. The metrics
// dispatcher is chained in front of any dispatcher set via WithDispatcher.
func WithMetrics(m *observability.Metrics) Option {
	return func(e *Engine) {
		e.metrics = m
	}
}

// WithParallelism allows up to n states of the same dependency depth to
// recompute concurrently during a tick.
func WithParallelism(n int) Option {
	return func(e *Engine) {
		e.runtimeOpts = append(e.runtimeOpts, runtime.WithParallelism(n))
	}
}

// New initializes a new Cascade Engine.
func New(opts ...Option) *Engine {
	eng := &Engine{
		logger: logging.NewNop(),
	}

	for _, opt := range opts {
		opt(eng)
	}

	// Metrics sit in front of the user dispatcher so both receive every event.
	dispatcher := eng.dispatcher
	if eng.metrics != nil {
		m, next := eng.metrics, dispatcher
		dispatcher = ports.DispatcherFunc(func(ctx context.Context, ev domain.TransitionEvent) {
			m.Dispatch(ctx, ev)
			if next != nil {
				next.Dispatch(ctx, ev)
			}
		})
	}

	runtimeOpts := []runtime.Option{runtime.WithLogger(eng.logger)}
	runtimeOpts = append(runtimeOpts, eng.runtimeOpts...)
	if dispatcher != nil {
		runtimeOpts = append(runtimeOpts, runtime.WithDispatcher(dispatcher))
	}

	eng.runtime = runtime.NewEngine(runtimeOpts...)
	return eng
}

// Register installs a state type with an explicit notification configuration.
// Unregistered dependencies are registered first with the defaults.
func (e *Engine) Register(st *domain.StateType, cfg domain.StateConfig) {
	e.runtime.RegisterState(st, cfg)
}

// RegisterDefault installs a state type with the default configuration
// (init, deinit, enter and exit notifications on).
func (e *Engine) RegisterDefault(st *domain.StateType) {
	e.runtime.RegisterState(st, domain.DefaultStateConfig())
}

// StateByName returns a registered state type.
func (e *Engine) StateByName(name string) (*domain.StateType, bool) {
	return e.runtime.StateByName(name)
}

// States returns every registered state type in scheduling order.
func (e *Engine) States() []*domain.StateType {
	return e.runtime.States()
}

// NewContext creates an independent local context and returns its handle.
func (e *Engine) NewContext() uuid.UUID {
	return e.runtime.NewContext()
}

// DestroyContext drops a local context and its records.
func (e *Engine) DestroyContext(id uuid.UUID) {
	e.runtime.DestroyContext(id)
}

// Initialize creates a record for a state on a context, effective at the next
// tick. Targeting domain.Global() creates the global context on first use.
func (e *Engine) Initialize(target domain.Target, st *domain.StateType, initial domain.Repr) {
	e.runtime.InitializeState(target, st, initial)
}

// Set arms a plain replacement value, effective at the next tick.
func (e *Engine) Set(target domain.Target, st *domain.StateType, next domain.Repr) {
	e.runtime.SetState(target, st, next)
}

// Request hands the state's pending payload to mutate, effective at the next
// tick. This is the entry point for custom payload operations such as stack
// pushes and shifts.
func (e *Engine) Request(target domain.Target, st *domain.StateType, mutate func(domain.Update)) {
	e.runtime.RequestUpdate(target, st, mutate)
}

// Tick runs one full scheduler step: update phase, then transition phase.
// Call it once per simulation frame, and once at startup so initial-state
// notifications fire before the first real frame.
func (e *Engine) Tick(ctx context.Context) {
	start := time.Now()
	e.runtime.Tick(ctx)
	if e.metrics != nil {
		e.metrics.ObserveTick(time.Since(start).Seconds())
	}
}

// Current returns the authoritative value of a state on a context.
func (e *Engine) Current(target domain.Target, st *domain.StateType) (domain.Repr, error) {
	return e.runtime.Current(target, st)
}

// Previous returns the last different value of a state on a context.
func (e *Engine) Previous(target domain.Target, st *domain.StateType) (domain.Repr, error) {
	return e.runtime.Previous(target, st)
}

// IsUpdated reports whether the state recomputed during the last tick.
func (e *Engine) IsUpdated(target domain.Target, st *domain.StateType) (bool, error) {
	return e.runtime.IsUpdated(target, st)
}

// IsReentrant reports whether the last recomputation kept the value.
func (e *Engine) IsReentrant(target domain.Target, st *domain.StateType) (bool, error) {
	return e.runtime.IsReentrant(target, st)
}

// Subscribe registers a handler for one notification kind of one state type.
// An empty state name subscribes to that kind for every state.
func (e *Engine) Subscribe(kind domain.EventKind, state string, h runtime.Handler) {
	e.runtime.Subscribe(kind, state, h)
}

// InState reports whether the global state currently holds value.
func (e *Engine) InState(st *domain.StateType, value domain.Repr) bool {
	return e.runtime.InState(st, value)
}

// StateChanged reports whether the global state recomputed last tick.
func (e *Engine) StateChanged(st *domain.StateType) bool {
	return e.runtime.StateChanged(st)
}

// StateChangedTo reports whether the global state just made a real transition
// into value.
func (e *Engine) StateChangedTo(st *domain.StateType, value domain.Repr) bool {
	return e.runtime.StateChangedTo(st, value)
}

// Snapshot captures the current values of every record on every context.
func (e *Engine) Snapshot() *domain.EngineSnapshot {
	return e.runtime.Snapshot()
}

// Restore replaces all contexts and records from a snapshot.
func (e *Engine) Restore(snap *domain.EngineSnapshot) error {
	return e.runtime.Restore(snap)
}

// Save persists a snapshot under the given key. Requires WithSnapshotStore.
func (e *Engine) Save(ctx context.Context, key string) error {
	if e.store == nil {
		return fmt.Errorf("no snapshot store configured")
	}
	return e.store.Save(ctx, key, e.Snapshot())
}

// Load restores the engine from a stored snapshot. Requires WithSnapshotStore.
func (e *Engine) Load(ctx context.Context, key string) error {
	if e.store == nil {
		return fmt.Errorf("no snapshot store configured")
	}
	snap, err := e.store.Load(ctx, key)
	if err != nil {
		return err
	}
	return e.Restore(snap)
}
