package runtime_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/cascade/internal/runtime"
	"github.com/aretw0/cascade/pkg/domain"
)

// eventLog records notifications as "kind:state" strings in delivery order.
type eventLog struct {
	entries []string
}

func (l *eventLog) handler() runtime.Handler {
	return func(_ context.Context, ev domain.TransitionEvent) {
		l.entries = append(l.entries, fmt.Sprintf("%s:%s", ev.Kind, ev.State))
	}
}

func (l *eventLog) attach(e *runtime.Engine, kinds ...domain.EventKind) {
	for _, kind := range kinds {
		e.Subscribe(kind, "", l.handler())
	}
}

func newManualSub() (*domain.StateType, *domain.StateType) {
	manual := domain.NewRootState("manual")
	sub := domain.NewSubstate("sub", manual, "b", "x")
	return manual, sub
}

func TestRegisterState_Idempotent(t *testing.T) {
	e := runtime.NewEngine()
	manual, sub := newManualSub()

	e.RegisterState(sub, domain.DefaultStateConfig()) // cascades manual
	e.RegisterState(sub, domain.DefaultStateConfig()) // warning, no-op
	e.RegisterState(manual, domain.DefaultStateConfig())

	require.Len(t, e.States(), 2, "re-registration must not duplicate schedule entries")

	// The engine still works after the duplicate registrations.
	e.InitializeState(domain.Global(), manual, domain.Some("a"))
	e.InitializeState(domain.Global(), sub, domain.None())
	e.Tick(context.Background())

	cur, err := e.Current(domain.Global(), manual)
	require.NoError(t, err)
	assert.Equal(t, domain.Some("a"), cur)
}

func TestUpdatePropagation_Chain(t *testing.T) {
	// a <- b <- c: requesting a change on the root must update all three.
	a := domain.NewRootState("a")
	b := domain.NewComputedState("b", []*domain.StateType{a}, func(deps domain.Snapshot) domain.Repr {
		return domain.Some("b-" + deps.One().Current().Value.(string))
	})
	c := domain.NewComputedState("c", []*domain.StateType{b}, func(deps domain.Snapshot) domain.Repr {
		return domain.Some("c-" + deps.One().Current().Value.(string))
	})

	require.Equal(t, 1, a.Order())
	require.Equal(t, 2, b.Order())
	require.Equal(t, 3, c.Order())

	e := runtime.NewEngine()
	e.RegisterState(c, domain.DefaultStateConfig())
	e.InitializeState(domain.Global(), a, domain.Some("one"))
	e.InitializeState(domain.Global(), b, domain.None())
	e.InitializeState(domain.Global(), c, domain.None())
	e.Tick(context.Background())

	log := &eventLog{}
	log.attach(e, domain.EventExit, domain.EventEnter)

	e.SetState(domain.Global(), a, domain.Some("two"))
	e.Tick(context.Background())

	for _, st := range []*domain.StateType{a, b, c} {
		updated, err := e.IsUpdated(domain.Global(), st)
		require.NoError(t, err)
		assert.True(t, updated, "state %s should be updated", st.Name())
	}
	cur, err := e.Current(domain.Global(), c)
	require.NoError(t, err)
	assert.Equal(t, domain.Some("c-b-two"), cur)

	// Exits leaf-first, enters root-first.
	assert.Equal(t, []string{
		"exit:c", "exit:b", "exit:a",
		"enter:a", "enter:b", "enter:c",
	}, log.entries)
}

func TestReentrantTransition(t *testing.T) {
	manual := domain.NewRootState("manual")
	e := runtime.NewEngine()
	e.RegisterState(manual, domain.DefaultStateConfig().WithReentrant())
	e.InitializeState(domain.Global(), manual, domain.Some("a"))
	e.Tick(context.Background())

	e.SetState(domain.Global(), manual, domain.Some("b"))
	e.Tick(context.Background())

	log := &eventLog{}
	log.attach(e, domain.EventExit, domain.EventEnter, domain.EventReexit, domain.EventReenter)

	// Same value again: reentrant.
	e.SetState(domain.Global(), manual, domain.Some("b"))
	e.Tick(context.Background())

	updated, err := e.IsUpdated(domain.Global(), manual)
	require.NoError(t, err)
	assert.True(t, updated)

	reentrant, err := e.IsReentrant(domain.Global(), manual)
	require.NoError(t, err)
	assert.True(t, reentrant)

	prev, err := e.Previous(domain.Global(), manual)
	require.NoError(t, err)
	assert.Equal(t, domain.Some("a"), prev, "previous must keep the last different value")

	assert.Equal(t, []string{"reexit:manual", "reenter:manual"}, log.entries,
		"reentrant transitions fire only the reentrant notification pair")
}

// The end-to-end root/substate scenario: Manual (a default, b) with Sub
// depending on Manual == b (x default, y).
func TestRootSubstateScenario(t *testing.T) {
	manual, sub := newManualSub()
	e := runtime.NewEngine()
	e.RegisterState(sub, domain.DefaultStateConfig())

	ctx := context.Background()
	e.InitializeState(domain.Global(), manual, domain.Some("a"))
	e.InitializeState(domain.Global(), sub, domain.None())
	e.Tick(ctx)

	assertCurrent := func(st *domain.StateType, want domain.Repr) {
		t.Helper()
		cur, err := e.Current(domain.Global(), st)
		require.NoError(t, err)
		assert.Equal(t, want, cur)
	}

	// 1. Initialized, no requests.
	assertCurrent(manual, domain.Some("a"))
	assertCurrent(sub, domain.None())

	// 2. Enter b: substate appears with a fresh default.
	e.SetState(domain.Global(), manual, domain.Some("b"))
	e.Tick(ctx)
	assertCurrent(manual, domain.Some("b"))
	assertCurrent(sub, domain.Some("x"))

	// 3. Set the substate: parent untouched.
	e.SetState(domain.Global(), sub, domain.Some("y"))
	e.Tick(ctx)
	assertCurrent(manual, domain.Some("b"))
	manualUpdated, err := e.IsUpdated(domain.Global(), manual)
	require.NoError(t, err)
	assert.False(t, manualUpdated)
	assertCurrent(sub, domain.Some("y"))

	// 4. Leave b: substate disappears.
	e.SetState(domain.Global(), manual, domain.Some("a"))
	e.Tick(ctx)
	assertCurrent(sub, domain.None())

	// 5. Re-enter b: plain substates reset to the default.
	e.SetState(domain.Global(), manual, domain.Some("b"))
	e.Tick(ctx)
	assertCurrent(sub, domain.Some("x"))
}

func TestNoOpTick(t *testing.T) {
	manual, sub := newManualSub()
	e := runtime.NewEngine()
	e.RegisterState(sub, domain.DefaultStateConfig().WithReentrant())
	e.InitializeState(domain.Global(), manual, domain.Some("a"))
	e.InitializeState(domain.Global(), sub, domain.None())
	e.Tick(context.Background())

	log := &eventLog{}
	log.attach(e,
		domain.EventExit, domain.EventEnter,
		domain.EventReexit, domain.EventReenter)

	e.Tick(context.Background())

	for _, st := range []*domain.StateType{manual, sub} {
		updated, err := e.IsUpdated(domain.Global(), st)
		require.NoError(t, err)
		assert.False(t, updated, "state %s must stay untouched", st.Name())
	}
	assert.Empty(t, log.entries, "a no-op tick fires no notifications")
}

func TestDeferredRequests(t *testing.T) {
	manual := domain.NewRootState("manual")
	e := runtime.NewEngine()
	e.RegisterState(manual, domain.DefaultStateConfig())
	e.InitializeState(domain.Global(), manual, domain.Some("a"))
	e.Tick(context.Background())

	// Requests are buffered until the next update pass.
	e.SetState(domain.Global(), manual, domain.Some("b"))
	cur, err := e.Current(domain.Global(), manual)
	require.NoError(t, err)
	assert.Equal(t, domain.Some("a"), cur)

	e.Tick(context.Background())
	cur, err = e.Current(domain.Global(), manual)
	require.NoError(t, err)
	assert.Equal(t, domain.Some("b"), cur)
}

func TestLocalContexts(t *testing.T) {
	manual, sub := newManualSub()
	e := runtime.NewEngine()
	e.RegisterState(sub, domain.DefaultStateConfig())

	first := e.NewContext()
	second := e.NewContext()
	ctx := context.Background()
	for _, target := range []domain.Target{domain.Local(first), domain.Local(second)} {
		e.InitializeState(target, manual, domain.Some("a"))
		e.InitializeState(target, sub, domain.None())
	}
	e.Tick(ctx)

	e.SetState(domain.Local(first), manual, domain.Some("b"))
	e.Tick(ctx)

	cur, err := e.Current(domain.Local(first), sub)
	require.NoError(t, err)
	assert.Equal(t, domain.Some("x"), cur)

	cur, err = e.Current(domain.Local(second), sub)
	require.NoError(t, err)
	assert.Equal(t, domain.None(), cur, "independent contexts must not interfere")
}

func TestQueryErrors(t *testing.T) {
	manual := domain.NewRootState("manual")
	other := domain.NewRootState("other")
	e := runtime.NewEngine()
	e.RegisterState(manual, domain.DefaultStateConfig())

	_, err := e.Current(domain.Global(), manual)
	assert.ErrorIs(t, err, domain.ErrNoGlobalContext)

	_, err = e.Current(domain.Global(), other)
	assert.ErrorIs(t, err, domain.ErrUnknownState)

	e.InitializeState(domain.Global(), manual, domain.Some("a"))
	e.Tick(context.Background())

	e.RegisterState(other, domain.DefaultStateConfig())
	_, err = e.Current(domain.Global(), other)
	assert.ErrorIs(t, err, domain.ErrStateNotInitialized)
}

func TestMissingDependencyPanics(t *testing.T) {
	manual, sub := newManualSub()
	e := runtime.NewEngine()
	e.RegisterState(sub, domain.DefaultStateConfig())
	// Substate record without its parent record: broken registration graph.
	e.InitializeState(domain.Global(), sub, domain.None())
	e.SetState(domain.Global(), sub, domain.Some("y"))

	assert.Panics(t, func() {
		e.Tick(context.Background())
	})
	_ = manual
}

func TestCleanupHook(t *testing.T) {
	manual := domain.NewRootState("manual")
	var cleaned []domain.Repr
	cfg := domain.DefaultStateConfig().WithCleanup(func(_ domain.Target, exited domain.Repr) {
		cleaned = append(cleaned, exited)
	})

	e := runtime.NewEngine()
	e.RegisterState(manual, cfg)
	e.InitializeState(domain.Global(), manual, domain.Some("a"))
	e.Tick(context.Background())

	e.SetState(domain.Global(), manual, domain.Some("b"))
	e.Tick(context.Background())
	require.Equal(t, []domain.Repr{domain.Some("a")}, cleaned)

	// Reentrant transitions leave nothing to clean up.
	e.SetState(domain.Global(), manual, domain.Some("b"))
	e.Tick(context.Background())
	assert.Len(t, cleaned, 1)
}

func TestInitAndDeinitNotifications(t *testing.T) {
	manual, sub := newManualSub()
	e := runtime.NewEngine()
	e.RegisterState(sub, domain.DefaultStateConfig())

	log := &eventLog{}
	log.attach(e, domain.EventInit, domain.EventDeinit)

	id := e.NewContext()
	e.InitializeState(domain.Local(id), manual, domain.Some("a"))
	e.InitializeState(domain.Local(id), sub, domain.None())
	e.Tick(context.Background())

	assert.Equal(t, []string{"init:manual", "init:sub"}, log.entries)

	log.entries = nil
	e.DestroyContext(id)
	assert.Equal(t, []string{"deinit:sub", "deinit:manual"}, log.entries,
		"deinit runs leaf-first")
}

func TestParallelUpdates(t *testing.T) {
	manual, sub := newManualSub()
	e := runtime.NewEngine(runtime.WithParallelism(4))
	e.RegisterState(sub, domain.DefaultStateConfig())

	ctx := context.Background()
	targets := make([]domain.Target, 0, 32)
	for i := 0; i < 32; i++ {
		target := domain.Local(e.NewContext())
		targets = append(targets, target)
		e.InitializeState(target, manual, domain.Some("a"))
		e.InitializeState(target, sub, domain.None())
	}
	e.Tick(ctx)

	for _, target := range targets {
		e.SetState(target, manual, domain.Some("b"))
	}
	e.Tick(ctx)

	for _, target := range targets {
		cur, err := e.Current(target, sub)
		require.NoError(t, err)
		assert.Equal(t, domain.Some("x"), cur)
	}
}

func TestRunConditions(t *testing.T) {
	manual := domain.NewRootState("manual")
	e := runtime.NewEngine()
	e.RegisterState(manual, domain.DefaultStateConfig())

	assert.False(t, e.InState(manual, domain.Some("a")), "no global context yet")

	e.InitializeState(domain.Global(), manual, domain.Some("a"))
	e.Tick(context.Background())
	assert.True(t, e.InState(manual, domain.Some("a")))
	assert.False(t, e.StateChanged(manual))

	e.SetState(domain.Global(), manual, domain.Some("b"))
	e.Tick(context.Background())
	assert.True(t, e.StateChanged(manual))
	assert.True(t, e.StateChangedTo(manual, domain.Some("b")))
	assert.False(t, e.StateChangedTo(manual, domain.Some("a")))
}

func TestTick_InitNotificationsCarryCallerContext(t *testing.T) {
	type ctxKey struct{}

	manual := domain.NewRootState("manual")
	e := runtime.NewEngine()
	e.RegisterState(manual, domain.DefaultStateConfig())

	var seen any
	e.Subscribe(domain.EventInit, "manual", func(ctx context.Context, _ domain.TransitionEvent) {
		seen = ctx.Value(ctxKey{})
	})

	e.InitializeState(domain.Global(), manual, domain.Some("a"))
	e.Tick(context.WithValue(context.Background(), ctxKey{}, "tagged"))

	assert.Equal(t, "tagged", seen)
}
