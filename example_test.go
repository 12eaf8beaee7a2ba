package cascade_test

import (
	"context"
	"fmt"

	"github.com/aretw0/cascade"
	"github.com/aretw0/cascade/pkg/domain"
)

// ExampleNew demonstrates a root state with a substate that exists only while
// the game is playing.
func ExampleNew() {
	eng := cascade.New()

	mode := domain.NewRootState("mode")
	paused := domain.NewSubstate("paused", mode, "playing", "no")
	eng.RegisterDefault(mode)
	eng.RegisterDefault(paused)

	ctx := context.Background()

	eng.Initialize(domain.Global(), mode, domain.Some("menu"))
	eng.Initialize(domain.Global(), paused, domain.None())
	eng.Tick(ctx)

	cur, _ := eng.Current(domain.Global(), paused)
	fmt.Println("in menu, paused:", cur)

	eng.Set(domain.Global(), mode, domain.Some("playing"))
	eng.Tick(ctx)

	cur, _ = eng.Current(domain.Global(), paused)
	fmt.Println("playing, paused:", cur)

	eng.Set(domain.Global(), paused, domain.Some("yes"))
	eng.Tick(ctx)

	cur, _ = eng.Current(domain.Global(), paused)
	fmt.Println("after pause, paused:", cur)

	// Output:
	// in menu, paused: <none>
	// playing, paused: no
	// after pause, paused: yes
}

// ExampleEngine_Subscribe shows transition notifications on a root state.
func ExampleEngine_Subscribe() {
	eng := cascade.New()

	mode := domain.NewRootState("mode")
	eng.RegisterDefault(mode)

	eng.Subscribe(domain.EventExit, "mode", func(_ context.Context, ev domain.TransitionEvent) {
		fmt.Println("exit:", ev.Previous)
	})
	eng.Subscribe(domain.EventEnter, "mode", func(_ context.Context, ev domain.TransitionEvent) {
		fmt.Println("enter:", ev.Current)
	})

	ctx := context.Background()
	eng.Initialize(domain.Global(), mode, domain.Some("menu"))
	eng.Tick(ctx)

	eng.Set(domain.Global(), mode, domain.Some("playing"))
	eng.Tick(ctx)

	// Setting the same value again is reentrant: neither hook fires.
	eng.Set(domain.Global(), mode, domain.Some("playing"))
	eng.Tick(ctx)

	// Output:
	// exit: menu
	// enter: playing
}
