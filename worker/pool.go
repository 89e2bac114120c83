package worker

import (
	"os"
	"strconv"

	"github.com/octobuild/octobuild/internal/base"
	"github.com/shirou/gopsutil/cpu"
)

// DefaultLimit resolves OCTOBUILD_PROCESS_LIMIT, falling back to the
// logical CPU count (via gopsutil, which works uniformly across the
// platforms the teacher already targets rather than relying on
// runtime.NumCPU's container-unaware count).
func DefaultLimit() int {
	if v := os.Getenv("OCTOBUILD_PROCESS_LIMIT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return n
		}
	}

	if counts, err := cpu.Counts(true); err == nil && counts > 0 {
		return counts
	}
	return 1
}

// Pool bounds the number of concurrently running child processes, backed
// by the teacher's fixed-size thread pool primitive (internal/base) rather
// than a hand-rolled semaphore.
type Pool struct {
	pool base.ThreadPool
}

func NewPool(limit int) *Pool {
	if limit <= 0 {
		limit = DefaultLimit()
	}
	return &Pool{pool: base.NewFixedSizeThreadPool("Worker", limit)}
}

// Run queues fn and blocks until it has executed, returning its result. The
// scheduler (xge package) calls this once per ready task from its own
// goroutine, so a blocking Run here does not stall other ready tasks.
func (p *Pool) Run(debugName string, fn func() error) error {
	done := make(chan error, 1)
	p.pool.Queue(func(base.ThreadContext) {
		done <- fn()
	}, base.TASKPRIORITY_NORMAL, base.ThreadPoolDebugId{Category: debugName})
	return <-done
}

func (p *Pool) Close() { p.pool.Close() }
func (p *Pool) Join()  { p.pool.Join() }
