package cli

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/aretw0/cascade"
	"github.com/aretw0/cascade/internal/presentation/graph"
	"github.com/aretw0/cascade/internal/presentation/tui"
	"github.com/aretw0/cascade/pkg/domain"
	"github.com/aretw0/cascade/pkg/updates"
)

// RunSession starts an interactive session: requests are collected from
// stdin and applied with explicit ticks, mirroring a simulation loop frame
// by frame.
func RunSession(opts RunOptions) error {
	logger := createLogger(opts.Debug)
	tui.PrintBanner(cascade.Version)

	eng, states, err := createEngine(opts, logger)
	if err != nil {
		return err
	}

	subscribeEcho(eng)

	ctx := context.Background()

	// Settle initial values so init notifications fire before the prompt.
	eng.Tick(ctx)

	fmt.Println("Type 'help' for commands. An empty line runs one tick.")
	reader := bufio.NewReader(os.Stdin)

	for {
		fmt.Print("> ")
		line, err := reader.ReadString('\n')
		if err != nil {
			fmt.Println()
			return nil
		}
		fields := strings.Fields(strings.TrimSpace(line))
		if len(fields) == 0 {
			eng.Tick(ctx)
			continue
		}

		switch fields[0] {
		case "quit", "exit":
			fmt.Println("Bye!")
			return nil
		case "help":
			printHelp()
		case "tick":
			eng.Tick(ctx)
		case "states":
			for _, st := range eng.States() {
				cur, err := eng.Current(domain.Global(), st)
				if err != nil {
					fmt.Printf("  %-16s (order %d) uninitialized\n", st.Name(), st.Order())
					continue
				}
				fmt.Printf("  %-16s (order %d) = %s\n", st.Name(), st.Order(), cur)
			}
		case "graph":
			fmt.Print(graph.GenerateMermaid(eng.States(), overlayFor(eng)))
		case "get":
			withState(eng, states, fields, 2, func(st *domain.StateType, _ []string) {
				cur, err := eng.Current(domain.Global(), st)
				if err != nil {
					fmt.Printf("Error: %v\n", err)
					return
				}
				prev, _ := eng.Previous(domain.Global(), st)
				fmt.Printf("%s = %s (previous %s)\n", st.Name(), cur, prev)
			})
		case "set":
			withState(eng, states, fields, 3, func(st *domain.StateType, args []string) {
				eng.Set(domain.Global(), st, parseValue(args[0]))
				fmt.Println("Queued. Run a tick to apply.")
			})
		case "push":
			withState(eng, states, fields, 3, func(st *domain.StateType, args []string) {
				eng.Request(domain.Global(), st, func(u domain.Update) {
					if stack, ok := u.(*updates.Stack); ok {
						stack.Push(scalar(args[0]))
					} else {
						fmt.Printf("Error: %s is not a stack state\n", st.Name())
					}
				})
			})
		case "pop":
			withState(eng, states, fields, 2, func(st *domain.StateType, _ []string) {
				eng.Request(domain.Global(), st, func(u domain.Update) {
					if stack, ok := u.(*updates.Stack); ok {
						stack.Pop()
					} else {
						fmt.Printf("Error: %s is not a stack state\n", st.Name())
					}
				})
			})
		case "advance", "retreat":
			n := 1
			if len(fields) > 2 {
				if parsed, err := strconv.Atoi(fields[2]); err == nil {
					n = parsed
				}
			}
			backwards := fields[0] == "retreat"
			withState(eng, states, fields, 2, func(st *domain.StateType, _ []string) {
				eng.Request(domain.Global(), st, func(u domain.Update) {
					shift, ok := u.(*updates.Shift)
					if !ok {
						fmt.Printf("Error: %s is not a shift state\n", st.Name())
						return
					}
					if backwards {
						shift.Retreat(n)
					} else {
						shift.Advance(n)
					}
				})
			})
		case "save":
			withKey(fields, func(key string) {
				if err := eng.Save(ctx, key); err != nil {
					fmt.Printf("Error: %v\n", err)
				} else {
					fmt.Printf("Saved snapshot %q\n", key)
				}
			})
		case "load":
			withKey(fields, func(key string) {
				if err := eng.Load(ctx, key); err != nil {
					fmt.Printf("Error: %v\n", err)
				} else {
					fmt.Printf("Loaded snapshot %q\n", key)
				}
			})
		default:
			fmt.Printf("Unknown command %q. Type 'help'.\n", fields[0])
		}
	}
}

func subscribeEcho(eng *cascade.Engine) {
	kinds := []domain.EventKind{
		domain.EventInit, domain.EventDeinit,
		domain.EventEnter, domain.EventExit,
		domain.EventReenter, domain.EventReexit,
	}
	for _, kind := range kinds {
		eng.Subscribe(kind, "", func(_ context.Context, ev domain.TransitionEvent) {
			fmt.Printf("  [%s] %s: %s -> %s\n", ev.Kind, ev.State, ev.Previous, ev.Current)
		})
	}
}

func overlayFor(eng *cascade.Engine) *graph.GraphOverlay {
	overlay := &graph.GraphOverlay{Values: make(map[string]domain.Repr)}
	for _, st := range eng.States() {
		cur, err := eng.Current(domain.Global(), st)
		if err != nil {
			continue
		}
		overlay.Values[st.Name()] = cur
		if updated, _ := eng.IsUpdated(domain.Global(), st); updated {
			overlay.Updated = append(overlay.Updated, st.Name())
		}
	}
	return overlay
}

func withState(eng *cascade.Engine, states map[string]*domain.StateType, fields []string, minArgs int, fn func(st *domain.StateType, args []string)) {
	if len(fields) < minArgs {
		fmt.Println("Error: missing arguments. Type 'help'.")
		return
	}
	st, ok := states[fields[1]]
	if !ok {
		// Fall back to the engine in case states were registered in code.
		if st, ok = eng.StateByName(fields[1]); !ok {
			fmt.Printf("Error: unknown state %q\n", fields[1])
			return
		}
	}
	fn(st, fields[2:])
}

func withKey(fields []string, fn func(key string)) {
	if len(fields) < 2 {
		fmt.Println("Error: missing snapshot key.")
		return
	}
	fn(fields[1])
}

// parseValue interprets a command argument as a state representation.
// The literal "none" requests the absent representation; other scalars are
// inferred through YAML so numbers and booleans keep their type.
func parseValue(raw string) domain.Repr {
	if raw == "none" {
		return domain.None()
	}
	return domain.Some(scalar(raw))
}

func scalar(raw string) any {
	var v any
	if err := yaml.Unmarshal([]byte(raw), &v); err != nil || v == nil {
		return raw
	}
	return v
}

func printHelp() {
	fmt.Print(`Commands:
  tick (or empty line)   run one scheduler step
  states                 list every state and its value
  get <state>            show current and previous values
  set <state> <value>    queue a replacement ('none' for absent)
  push <state> <value>   queue a stack push
  pop <state>            queue a stack pop
  advance <state> [n]    queue a forward shift
  retreat <state> [n]    queue a backward shift
  graph                  print the Mermaid dependency graph
  save <key>             persist a snapshot (needs --redis)
  load <key>             restore a snapshot (needs --redis)
  quit                   leave
`)
}
