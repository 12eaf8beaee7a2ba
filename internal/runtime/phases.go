package runtime

import (
	"context"
	"fmt"
	"sync"

	"github.com/aretw0/cascade/pkg/domain"
)

// RunUpdatePhase drains the command queue and recomputes every record in
// ascending dependency order. Records at order n all commit before any record
// at order n+1 reads them; within one order group, independent records may
// run concurrently when parallelism is enabled.
func (e *Engine) RunUpdatePhase(ctx context.Context) {
	e.drain(ctx)
	for order := 1; order < len(e.byOrder); order++ {
		jobs := e.collectJobs(order)
		if e.parallelism > 1 && len(jobs) > 1 {
			e.runParallel(jobs)
			continue
		}
		for _, job := range jobs {
			e.updateOne(job.state, job.entry, job.rec)
		}
	}
}

type updateJob struct {
	state *domain.StateType
	entry *contextEntry
	rec   *domain.Record
}

func (e *Engine) collectJobs(order int) []updateJob {
	var jobs []updateJob
	for _, st := range e.byOrder[order] {
		for _, entry := range e.contexts() {
			if rec, ok := entry.records[st.Name()]; ok {
				jobs = append(jobs, updateJob{state: st, entry: entry, rec: rec})
			}
		}
	}
	return jobs
}

func (e *Engine) runParallel(jobs []updateJob) {
	sem := make(chan struct{}, e.parallelism)
	var wg sync.WaitGroup
	for _, job := range jobs {
		wg.Add(1)
		sem <- struct{}{}
		go func(job updateJob) {
			defer func() {
				<-sem
				wg.Done()
			}()
			e.updateOne(job.state, job.entry, job.rec)
		}(job)
	}
	wg.Wait()
}

// updateOne runs the two-phase update contract for one record: reset the
// updated flag, then recompute and commit only when a dependency moved or an
// external request is armed.
func (e *Engine) updateOne(st *domain.StateType, entry *contextEntry, rec *domain.Record) {
	rec.ResetUpdated()
	deps := e.dependencySnapshot(st, entry)
	if !deps.AnyUpdated() && !rec.Pending().ShouldApply() {
		return
	}
	rec.Commit(st.Next(rec, deps))
	rec.Pending().Clear()
}

// dependencySnapshot fetches the dependency records on the same context.
// A missing record means the registration graph is broken; continuing would
// silently corrupt simulation state, so this is fatal.
func (e *Engine) dependencySnapshot(st *domain.StateType, entry *contextEntry) domain.Snapshot {
	deps := st.Dependencies()
	if len(deps) == 0 {
		return nil
	}
	snap := make(domain.Snapshot, len(deps))
	for i, dep := range deps {
		rec, ok := entry.records[dep.Name()]
		if !ok {
			panic(fmt.Sprintf("state %q is missing required dependency %q on context %s",
				st.Name(), dep.Name(), entry.target()))
		}
		snap[i] = rec
	}
	return snap
}

// RunTransitionPhase emits notifications for every record the update phase
// touched: exits leaf-first, then enters root-first. Delivery never mutates
// records.
func (e *Engine) RunTransitionPhase(ctx context.Context) {
	for order := len(e.byOrder) - 1; order >= 1; order-- {
		for _, st := range e.byOrder[order] {
			cfg := e.configs[st.Name()]
			for _, entry := range e.contexts() {
				rec, ok := entry.records[st.Name()]
				if !ok || !rec.IsUpdated() {
					continue
				}
				if !rec.IsReentrant() && cfg.Cleanup != nil {
					cfg.Cleanup(entry.target(), rec.Previous())
				}
				if cfg.OnExit && !rec.IsReentrant() {
					e.emitCtx(ctx, entry, domain.EventExit, st.Name(), rec.Previous(), rec.Current())
				}
				if cfg.OnReexit {
					e.emitCtx(ctx, entry, domain.EventReexit, st.Name(), rec.ReentrantPrevious(), rec.Current())
				}
			}
		}
	}
	for order := 1; order < len(e.byOrder); order++ {
		for _, st := range e.byOrder[order] {
			cfg := e.configs[st.Name()]
			for _, entry := range e.contexts() {
				rec, ok := entry.records[st.Name()]
				if !ok || !rec.IsUpdated() {
					continue
				}
				if cfg.OnEnter && !rec.IsReentrant() {
					e.emitCtx(ctx, entry, domain.EventEnter, st.Name(), rec.Previous(), rec.Current())
				}
				if cfg.OnReenter {
					e.emitCtx(ctx, entry, domain.EventReenter, st.Name(), rec.ReentrantPrevious(), rec.Current())
				}
			}
		}
	}
}

// Tick runs one full scheduler step: update phase, then transition phase.
// Run it once at startup as well, so initial-state notifications fire before
// the first real tick.
func (e *Engine) Tick(ctx context.Context) {
	e.RunUpdatePhase(ctx)
	e.RunTransitionPhase(ctx)
}
