package xge

import (
	"context"
	"testing"
	"time"
)

// fakePool runs fn synchronously on the calling goroutine, bounded only by
// a counting semaphore -- enough to exercise Run's graph-walking logic
// without spawning real child processes.
type fakePool struct {
	sem chan struct{}
}

func newFakePool(limit int) *fakePool {
	if limit <= 0 {
		limit = 4
	}
	return &fakePool{sem: make(chan struct{}, limit)}
}

func (p *fakePool) Run(debugName string, fn func() error) error {
	p.sem <- struct{}{}
	defer func() { <-p.sem }()
	return fn()
}

func stubExecute(outcomes map[string]int32) func(*Task) error {
	return func(t *Task) error {
		t.ExitCode = outcomes[t.ID]
		return nil
	}
}

func TestRun_EmptyGraphSucceedsImmediately(t *testing.T) {
	g, err := BuildGraph(nil)
	if err != nil {
		t.Fatalf("BuildGraph: %v", err)
	}
	if err := Run(context.Background(), g, RunOptions{Pool: newFakePool(4)}); err != nil {
		t.Fatalf("Run on empty graph: %v", err)
	}
}

func TestRun_AllSucceed(t *testing.T) {
	a := &Task{ID: "a"}
	b := &Task{ID: "b", DependsOn: []string{"a"}}
	g, err := BuildGraph([]*Task{a, b})
	if err != nil {
		t.Fatalf("BuildGraph: %v", err)
	}

	opts := RunOptions{
		Pool:    newFakePool(4),
		Execute: stubExecute(map[string]int32{"a": 0, "b": 0}),
	}
	if err := Run(context.Background(), g, opts); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if a.State() != StateSucceeded || b.State() != StateSucceeded {
		t.Errorf("expected both tasks Succeeded, got a=%v b=%v", a.State(), b.State())
	}
}

func TestRun_SkipsDependentsWhenPredecessorFails(t *testing.T) {
	a := &Task{ID: "a"}
	b := &Task{ID: "b", DependsOn: []string{"a"}, SkipIfProjectFailed: true}
	g, err := BuildGraph([]*Task{a, b})
	if err != nil {
		t.Fatalf("BuildGraph: %v", err)
	}

	opts := RunOptions{
		Pool:    newFakePool(4),
		Execute: stubExecute(map[string]int32{"a": 1, "b": 0}),
	}
	err = Run(context.Background(), g, opts)
	if err == nil {
		t.Fatalf("expected Run to report the failure of task a")
	}
	if a.State() != StateFailed {
		t.Errorf("expected a to be Failed, got %v", a.State())
	}
	if b.State() != StateSkipped {
		t.Errorf("expected b to be Skipped, got %v", b.State())
	}
}

func TestRun_DoesNotSkipWithoutSkipIfProjectFailed(t *testing.T) {
	a := &Task{ID: "a"}
	b := &Task{ID: "b", DependsOn: []string{"a"}}
	g, err := BuildGraph([]*Task{a, b})
	if err != nil {
		t.Fatalf("BuildGraph: %v", err)
	}

	opts := RunOptions{
		Pool:    newFakePool(4),
		Execute: stubExecute(map[string]int32{"a": 1, "b": 0}),
	}
	if err := Run(context.Background(), g, opts); err == nil {
		t.Fatalf("expected Run to report the failure of task a")
	}
	if b.State() != StateCancelled {
		t.Errorf("expected b (no SkipIfProjectFailed) to be Cancelled by the drain, got %v", b.State())
	}
}

func TestRun_CancelsUnstartedTasksOnInterrupt(t *testing.T) {
	// A long chain where "a" blocks until ctx is cancelled, so "b" and "c"
	// are still pending when interruption happens and should end up
	// Cancelled rather than Running.
	a := &Task{ID: "a"}
	b := &Task{ID: "b", DependsOn: []string{"a"}}
	c := &Task{ID: "c", DependsOn: []string{"b"}}
	g, err := BuildGraph([]*Task{a, b, c})
	if err != nil {
		t.Fatalf("BuildGraph: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	started := make(chan struct{})
	release := make(chan struct{})

	opts := RunOptions{
		Pool: newFakePool(4),
		Execute: func(t *Task) error {
			if t.ID == "a" {
				close(started)
				<-release
			}
			return nil
		},
	}

	done := make(chan error, 1)
	go func() { done <- Run(ctx, g, opts) }()

	select {
	case <-started:
	case <-time.After(2 * time.Second):
		t.Fatalf("task a never started")
	}
	cancel()
	close(release)

	select {
	case err := <-done:
		if err == nil {
			t.Fatalf("expected an Interrupted error")
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("Run did not return after cancellation")
	}
}
