package xge

import "testing"

func TestExitCodeSuffix(t *testing.T) {
	cases := []struct {
		state State
		code  int32
		want  string
	}{
		{StateSucceeded, 0, "-- ok"},
		{StateSkipped, 0, "-- skipped"},
		{StateCancelled, 0, "-- cancelled"},
		{StateFailed, 2, "-- exit code 2"},
	}
	for _, c := range cases {
		task := &Task{state: c.state, ExitCode: c.code}
		if got := exitCodeSuffix(task); got != c.want {
			t.Errorf("exitCodeSuffix(%v) = %q, want %q", c.state, got, c.want)
		}
	}
}

func TestReporter_TracksFailures(t *testing.T) {
	r := NewReporter(2)
	a := &Task{ID: "a", Caption: "a", state: StateSucceeded}
	b := &Task{ID: "b", Caption: "b", state: StateFailed, ExitCode: 1}

	r.OnEvent(Event{Kind: EventStarted, Task: a})
	r.OnEvent(Event{Kind: EventFinished, Task: a})
	r.OnEvent(Event{Kind: EventStarted, Task: b})
	r.OnEvent(Event{Kind: EventFinished, Task: b})

	if r.Failures() != 1 {
		t.Errorf("expected 1 failure, got %d", r.Failures())
	}
	if err := r.Close(); err != nil {
		t.Errorf("Close: %v", err)
	}
}
