package cache

import (
	"os"
	"regexp"
	"sort"
	"time"

	"github.com/danjacques/gofslock/fslock"
	"github.com/djherbis/times"
	"github.com/octobuild/octobuild/internal/base"
	"github.com/octobuild/octobuild/utils"
)

// sweepInterval bounds how often an opportunistic sweep runs per process;
// cache writes that land inside the window skip the scan entirely.
const sweepInterval = 30 * time.Second

const lockFilename = ".sweep.lock"

var entrySuffixPattern = regexp.MustCompile(`\` + entryExtname + `$`)

// touchAtime refreshes the entry's access time explicitly: many volumes
// mount with atime updates disabled or relatime-throttled, and the LRU
// sweep depends on atime actually moving forward on every hit.
func touchAtime(path utils.Filename) {
	str := path.String()
	now := time.Now()
	mtime := now
	if info, err := os.Stat(str); err == nil {
		mtime = info.ModTime()
	}
	if err := os.Chtimes(str, now, mtime); err != nil {
		base.LogTrace(LogCache, "failed to touch atime of %v: %v", path, err)
	}
}

// maybeSweep runs Sweep if enough time has passed since the last one and
// the store allows writes/sweeps. Safe to call on every Put.
func (s *Store) maybeSweep() {
	if !s.Mode.CanSweep() {
		return
	}
	if time.Since(s.lastSweep) < sweepInterval {
		return
	}
	s.lastSweep = time.Now()

	if err := s.Sweep(); err != nil {
		base.LogTrace(LogCache, "cache sweep failed: %v", err)
	}
}

// Reset wipes every entry under the cache root, serialized under the same
// advisory lock Sweep uses so a concurrent sweep and reset can't race each
// other into a half-deleted directory. Backs xgConsole's "/reset" flag.
func (s *Store) Reset() error {
	lockPath := s.Root.File(lockFilename).String()

	handle, err := fslock.Lock(lockPath)
	if err != nil {
		return err
	}
	defer handle.Unlock()

	return s.Root.MatchFiles(func(f utils.Filename) error {
		if err := os.Remove(f.String()); err != nil && !os.IsNotExist(err) {
			return err
		}
		return nil
	}, entrySuffixPattern)
}

type sweepCandidate struct {
	path  string
	size  int64
	atime time.Time
}

// Sweep enforces LimitBytes by evicting the least-recently-accessed
// entries first. Serialized across processes with an advisory gofslock so
// two concurrent sweeps never double-evict or race the running total;
// ordinary Get/Put never take this lock (§4.D).
func (s *Store) Sweep() error {
	lockPath := s.Root.File(lockFilename).String()

	handle, err := fslock.Lock(lockPath)
	if err != nil {
		// another process already owns the sweep; not an error, just skip.
		base.LogTrace(LogCache, "skipping cache sweep, lock held: %v", err)
		return nil
	}
	defer handle.Unlock()

	var candidates []sweepCandidate
	var total int64

	err = s.Root.MatchFiles(func(f utils.Filename) error {
		path := f.String()
		ts, statErr := times.Stat(path)
		if statErr != nil {
			return nil // tolerate concurrent deletion
		}
		info, infoErr := os.Stat(path)
		if infoErr != nil {
			return nil
		}
		candidates = append(candidates, sweepCandidate{
			path:  path,
			size:  info.Size(),
			atime: ts.AccessTime(),
		})
		total += info.Size()
		return nil
	}, entrySuffixPattern)
	if err != nil {
		return err
	}

	if total <= s.LimitBytes {
		return nil
	}

	sort.Slice(candidates, func(i, j int) bool {
		return candidates[i].atime.Before(candidates[j].atime)
	})

	for _, c := range candidates {
		if total <= s.LimitBytes {
			break
		}
		if err := os.Remove(c.path); err != nil {
			continue // concurrent deletion, tolerate
		}
		total -= c.size
	}

	return nil
}
