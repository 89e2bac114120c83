package xge

import (
	"fmt"
	"time"

	"github.com/octobuild/octobuild/internal/base"
)

// Reporter renders scheduler Events to a console stream in the format
// xgConsole itself emits, so build scripts scraping its stdout (UBT does,
// for its own summary) keep working unmodified.
type Reporter struct {
	pin      base.ProgressScope
	total    int64
	done     int64
	failures int64
}

// NewReporter returns a reporter over total tasks; the progress bar itself
// is pinned lazily on the first EventStarted, mirroring the teacher's use
// of base.LogProgress for long-running build-like operations.
func NewReporter(total int) *Reporter {
	return &Reporter{total: int64(total)}
}

// OnEvent is passed as RunOptions.OnEvent.
func (r *Reporter) OnEvent(e Event) {
	switch e.Kind {
	case EventStarted:
		if r.pin == nil {
			r.pin = base.LogProgress(0, r.total, "xgConsole")
		}
		r.pin.Log("%s", e.Task.Caption)
	case EventFinished:
		r.done++
		if r.pin != nil {
			r.pin.Set(r.done)
		}
		line := formatTaskLine(e.Task, e.Elapsed)
		base.LogForwardln(line)
		if e.Task.State() == StateFailed {
			r.failures++
		}
	}
}

// Close releases the pinned progress scope; call once Run returns.
func (r *Reporter) Close() error {
	if r.pin != nil {
		err := r.pin.Close()
		r.pin = nil
		return err
	}
	return nil
}

// Failures is the number of tasks that finished in StateFailed, used by the
// xgConsole cmd shim to pick an xgConsole-compatible process exit code.
func (r *Reporter) Failures() int64 { return r.failures }

func formatTaskLine(t *Task, elapsed time.Duration) string {
	return fmt.Sprintf("%s (%s) %s", t.Caption, elapsed.Round(time.Millisecond).String(), exitCodeSuffix(t))
}

func exitCodeSuffix(t *Task) string {
	switch t.State() {
	case StateSucceeded:
		return "-- ok"
	case StateSkipped:
		return "-- skipped"
	case StateCancelled:
		return "-- cancelled"
	default:
		return fmt.Sprintf("-- exit code %d", t.ExitCode)
	}
}
