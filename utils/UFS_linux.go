//go:build linux

package utils

import (
	"fmt"
	"os"
	"path/filepath"
	"syscall"
	"time"

	"github.com/octobuild/octobuild/internal/base"
)

func GetCurrentThreadId() uintptr {
	tid, _, _ := syscall.Syscall(syscall.SYS_GETTID, 0, 0, 0)
	return tid
}

func SetMTime(file *os.File, mtime time.Time) error {
	// #TODO, see UFS_windows.go
	return base.MakeUnexpectedValueError(file, mtime)
}

var startedAt = time.Now()

func Elapsed() time.Duration {
	return time.Now() - startedAt
}

func CleanPath(in string) string {
	base.AssertErr(func() error {
		if filepath.IsAbs(in) {
			return nil
		}
		return fmt.Errorf("ufs: need absolute path -> %q", in)
	})

	in = filepath.Clean(in)

	if cleaned, err := filepath.Abs(in); err == nil {
		in = cleaned
	} else {
		base.LogPanicErr(err)
	}

	return in
}
