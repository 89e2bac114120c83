package xge

import (
	"context"
	"sync"
	"time"

	"github.com/octobuild/octobuild/octerror"
	"github.com/octobuild/octobuild/utils"
	"github.com/octobuild/octobuild/worker"
)

// TaskRunner bounds concurrent execution; *worker.Pool satisfies this, and
// tests substitute a lightweight fake instead of spawning real processes.
type TaskRunner interface {
	Run(debugName string, fn func() error) error
}

// RunOptions configures one graph execution.
type RunOptions struct {
	Pool    TaskRunner
	OnEvent func(Event) // may be nil

	// Execute runs one task's tool invocation; defaults to runTask (a real
	// child process spawn via the worker package). Tests override this to
	// drive the scheduler's graph-walking logic without spawning anything.
	Execute func(*Task) error
}

// EventKind names a scheduler progress notification, consumed by
// progress.go to produce xgConsole-compatible console lines.
type EventKind int32

const (
	EventStarted EventKind = iota
	EventFinished
)

type Event struct {
	Kind     EventKind
	Task     *Task
	Elapsed  time.Duration
}

// Run executes every task in g, honoring DependsOn order, bounded by
// opts.Pool's concurrency limit. On the first task failure, Run stops
// dispatching new tasks but waits for already-running tasks to finish
// (fail-fast-with-drain) rather than killing them mid-flight, then returns
// the first error encountered. A cancelled ctx demotes every not-yet-started
// task to Cancelled and returns *octerror.Interrupted.
func Run(ctx context.Context, g *Graph, opts RunOptions) error {
	execute := opts.Execute
	if execute == nil {
		execute = runTask
	}

	var mu sync.Mutex
	var firstErr error
	failed := false
	interrupted := false

	remaining := len(g.Tasks)
	ready := make(chan *Task, len(g.Tasks))
	done := make(chan struct{})

	var dispatch func(t *Task)
	complete := func(t *Task) {
		mu.Lock()
		remaining--
		finished := remaining == 0
		var newlyReady []*Task
		for _, s := range t.successors {
			s.pendingPredecessors--
			if s.pendingPredecessors == 0 {
				s.state = StateReady
				newlyReady = append(newlyReady, s)
			}
		}
		mu.Unlock()

		for _, s := range newlyReady {
			ready <- s
		}
		if finished {
			close(done)
		}
	}

	dispatch = func(t *Task) {
		mu.Lock()
		abort := failed || interrupted
		skip := t.SkipIfProjectFailed && anyPredecessorFailed(t)
		switch {
		case skip:
			// a failed predecessor marks this task Skipped even if the run
			// is also draining for some unrelated reason -- skip is about
			// *why* this task didn't run, which abort/cancel can't express.
			t.state = StateSkipped
		case abort:
			t.state = StateCancelled
		default:
			t.state = StateRunning
		}
		mu.Unlock()

		if abort || skip {
			complete(t)
			return
		}

		started := nowMonotonic()
		emit(opts.OnEvent, Event{Kind: EventStarted, Task: t})

		err := opts.Pool.Run(t.Caption, func() error {
			return execute(t)
		})

		mu.Lock()
		switch {
		case err != nil:
			t.state = StateFailed
			if !failed {
				failed = true
				firstErr = err
			}
		case t.ExitCode != 0:
			t.state = StateFailed
			if !failed {
				failed = true
				firstErr = &octerror.CompileError{ExitCode: t.ExitCode, Stderr: string(t.Output)}
			}
		default:
			t.state = StateSucceeded
		}
		mu.Unlock()

		emit(opts.OnEvent, Event{Kind: EventFinished, Task: t, Elapsed: elapsedSince(started)})
		complete(t)
	}

	if len(g.Tasks) == 0 {
		return nil
	}

	for _, t := range g.Roots() {
		t.state = StateReady
		ready <- t
	}

	ctxDone := ctx.Done()
	for {
		select {
		case t := <-ready:
			go dispatch(t)
		case <-ctxDone:
			mu.Lock()
			interrupted = true
			mu.Unlock()
			ctxDone = nil // already handled, stop selecting on it to avoid busy-looping
		case <-done:
			if interrupted {
				return &octerror.Interrupted{}
			}
			return firstErr
		}
	}
}

func anyPredecessorFailed(t *Task) bool {
	for _, p := range t.predecessors {
		if p.state == StateFailed || p.state == StateCancelled {
			return true
		}
	}
	return false
}

func runTask(t *Task) error {
	executable := utils.MakeFilename(t.Tool)
	argv := utils.StringSet(t.Argv)

	opts := worker.Options{}
	if t.WorkingDir != "" {
		opts.WorkingDir = utils.MakeDirectory(t.WorkingDir)
	}

	result, err := worker.Spawn(executable, argv, opts)
	if err != nil {
		return &octerror.ToolchainError{Executable: t.Tool, Inner: err}
	}

	t.ExitCode = result.ExitCode
	t.Output = result.Output
	return nil
}

func emit(onEvent func(Event), e Event) {
	if onEvent != nil {
		onEvent(e)
	}
}

// nowMonotonic/elapsedSince isolate the one wall-clock read the scheduler
// needs for per-task elapsed time in progress reporting.
func nowMonotonic() time.Time { return time.Now() }
func elapsedSince(start time.Time) time.Duration { return time.Since(start) }
