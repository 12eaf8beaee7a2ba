// Package cli implements the interactive and development front ends shared by
// the cascade commands.
package cli

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/aretw0/cascade"
	redisAdapter "github.com/aretw0/cascade/internal/adapters/redis"
	"github.com/aretw0/cascade/internal/compiler"
	"github.com/aretw0/cascade/internal/logging"
	"github.com/aretw0/cascade/pkg/domain"
	"github.com/aretw0/cascade/pkg/observability"
)

// RunOptions carries the shared command line settings.
type RunOptions struct {
	// FilePath locates the YAML machine definition.
	FilePath string
	// Debug enables verbose logging.
	Debug bool
	// RedisAddr enables snapshot persistence when non-empty.
	RedisAddr string
	// Parallelism bounds concurrent record updates within one tick.
	Parallelism int
	// Metrics attaches Prometheus collectors when non-nil.
	Metrics *observability.Metrics
}

func createLogger(debug bool) *slog.Logger {
	level := slog.LevelWarn
	if debug {
		level = slog.LevelDebug
	}
	return logging.New(level)
}

// createEngine loads the definition file, compiles it and seeds the global
// context. The returned map indexes the compiled state types by name.
func createEngine(opts RunOptions, logger *slog.Logger) (*cascade.Engine, map[string]*domain.StateType, error) {
	data, err := os.ReadFile(opts.FilePath)
	if err != nil {
		return nil, nil, fmt.Errorf("error reading definition: %w", err)
	}

	def, err := compiler.NewParser().Parse(data)
	if err != nil {
		return nil, nil, err
	}

	engineOpts := []cascade.Option{cascade.WithLogger(logger)}
	if opts.RedisAddr != "" {
		engineOpts = append(engineOpts, cascade.WithSnapshotStore(
			redisAdapter.New(opts.RedisAddr, "", 0),
		))
	}
	if opts.Parallelism > 1 {
		engineOpts = append(engineOpts, cascade.WithParallelism(opts.Parallelism))
	}
	if opts.Metrics != nil {
		engineOpts = append(engineOpts, cascade.WithMetrics(opts.Metrics))
	}

	eng := cascade.New(engineOpts...)
	built, err := compiler.Compile(def, eng)
	if err != nil {
		return nil, nil, fmt.Errorf("error compiling definition: %w", err)
	}

	return eng, built, nil
}

// LoadEngine is the exported entry point for commands that only need a ready
// engine.
func LoadEngine(opts RunOptions) (*cascade.Engine, map[string]*domain.StateType, error) {
	return createEngine(opts, createLogger(opts.Debug))
}
