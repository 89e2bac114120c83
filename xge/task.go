// Package xge parses IncrediBuild-style .xge.xml task graphs and executes
// them with a bounded worker pool, matching xgConsole's progress output and
// exit-code contract closely enough that UBT can drive this binary in place
// of the real one.
package xge

import "github.com/octobuild/octobuild/internal/base"

var LogXge = base.NewLogCategory("Xge")

// State is a Task's position in its lifecycle. Transitions are monotonic:
// Pending -> Ready -> Running -> {Succeeded, Failed, Skipped, Cancelled}.
type State int32

const (
	StatePending State = iota
	StateReady
	StateRunning
	StateSucceeded
	StateFailed
	StateSkipped
	StateCancelled
)

func (s State) String() string {
	switch s {
	case StatePending:
		return "Pending"
	case StateReady:
		return "Ready"
	case StateRunning:
		return "Running"
	case StateSucceeded:
		return "Succeeded"
	case StateFailed:
		return "Failed"
	case StateSkipped:
		return "Skipped"
	case StateCancelled:
		return "Cancelled"
	default:
		return "Unknown"
	}
}

func (s State) Terminal() bool {
	switch s {
	case StateSucceeded, StateFailed, StateSkipped, StateCancelled:
		return true
	default:
		return false
	}
}

// Task is one node of the task graph: a single tool invocation plus its
// dependency ids. The predecessor count is the sole mutable hot field
// touched by the scheduler while walking the graph (mirrors the teacher's
// build-node shape, where the node body itself is immutable once parsed).
type Task struct {
	ID                  string
	Caption             string
	WorkingDir          string
	Tool                string
	Argv                []string
	DependsOn           []string
	SkipIfProjectFailed bool

	state               State
	pendingPredecessors int
	predecessors        []*Task
	successors          []*Task

	ExitCode int32
	Output   []byte
}

func (t *Task) State() State { return t.state }
