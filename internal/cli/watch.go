package cli

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/aretw0/cascade"
	"github.com/aretw0/cascade/internal/presentation/graph"
	"github.com/aretw0/cascade/internal/presentation/tui"
)

// RunWatchGraph renders the dependency graph and re-renders it whenever the
// definition file changes, for a live preview while authoring machines.
func RunWatchGraph(opts RunOptions, render bool) error {
	logger := createLogger(opts.Debug)
	tui.PrintBanner(cascade.Version)

	watcher, err := NewWatcher(opts.FilePath)
	if err != nil {
		return fmt.Errorf("error starting watcher: %w", err)
	}
	defer watcher.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	for {
		if err := printGraph(opts, render); err != nil {
			// A broken definition is expected mid-edit; report and keep
			// watching.
			fmt.Printf("Definition error: %v\n", err)
		}
		fmt.Println("Watching for changes... (Ctrl+C to stop)")

		select {
		case <-ctx.Done():
			fmt.Println("\nStopped.")
			return nil
		case name, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			logger.Info("change detected", "file", name)
			// Let the editor finish writing before reloading.
			time.Sleep(100 * time.Millisecond)
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn("watcher error", "err", err)
		}
	}
}

// PrintGraph renders the dependency graph of the definition once.
func PrintGraph(opts RunOptions, render bool) error {
	return printGraph(opts, render)
}

func printGraph(opts RunOptions, render bool) error {
	eng, _, err := LoadEngine(opts)
	if err != nil {
		return err
	}

	// Settle initial values so the overlay shows them.
	eng.Tick(context.Background())

	mermaid := graph.GenerateMermaid(eng.States(), overlayFor(eng))
	if !render {
		fmt.Print(mermaid)
		return nil
	}

	markdown := "```mermaid\n" + mermaid + "```\n"
	rendered, err := tui.NewRenderer()(markdown)
	if err != nil {
		fmt.Print(mermaid)
		return nil
	}
	fmt.Print(rendered)
	return nil
}
