// Package worker spawns child compiler/tool processes on behalf of the
// two-phase driver and the XGE scheduler, bounding memory use on pathological
// output and guarding against accidental self-recursion.
package worker

import (
	"fmt"
	"os"

	"github.com/DataDog/zstd"
	"github.com/octobuild/octobuild/internal/base"
	"github.com/octobuild/octobuild/utils"
)

var LogWorker = base.NewLogCategory("Worker")

// ActiveGuardVar is set in every spawned child's environment so a tool
// that itself shells out to one of our compiler shims (observed with some
// UBT toolchains) falls through to a direct invocation instead of
// recursing into the cache.
const ActiveGuardVar = "OCTOBUILD_ACTIVE"

// IsRecursive reports whether the current process was itself spawned by
// this system, per ActiveGuardVar.
func IsRecursive() bool {
	return os.Getenv(ActiveGuardVar) == "1"
}

// spillThreshold is the in-memory cap per captured stream before output is
// spilled to a zstd-framed temp file instead of growing the buffer
// further, avoiding OOM on a runaway or misbehaving child.
const spillThreshold = 8 << 20 // 8 MiB

// Result is the outcome of one spawned process.
type Result struct {
	ExitCode int32
	Output   []byte // combined stdout+stderr, matching the underlying compiler's own interleaving
	Spilled  bool   // true if the capture outgrew memory: Output is then nil and the full capture lives in SpillPath
	SpillPath string
}

// Options configures one spawn.
type Options struct {
	WorkingDir utils.Directory
	Env        []string // extra "NAME=value" pairs appended to the child's environment
}

// Spawn runs executable with argv, capturing combined stdout/stderr. Output
// beyond spillThreshold is written through a zstd writer to a temp file
// instead of being retained in memory; Result.Spilled signals the caller
// to read SpillPath instead of Output for the full capture.
func Spawn(executable utils.Filename, argv utils.StringSet, opts Options) (Result, error) {
	var result Result
	var collected []byte
	var spill *spillWriter

	onOutput := func(line string) error {
		if spill != nil {
			return spill.WriteLine(line)
		}
		if len(collected)+len(line)+1 > spillThreshold {
			var err error
			if spill, err = newSpillWriter(); err != nil {
				return err
			}
			if err := spill.WriteRaw(collected); err != nil {
				return err
			}
			collected = nil
			result.Spilled = true
			result.SpillPath = spill.path
			return spill.WriteLine(line)
		}
		collected = append(collected, line...)
		collected = append(collected, '\n')
		return nil
	}

	options := []utils.ProcessOptionFunc{
		utils.OptionProcessCaptureOutput,
		utils.OptionProcessNoSpinner,
		utils.OptionProcessOutput(onOutput),
		utils.OptionProcessExport(ActiveGuardVar, "1"),
		utils.OptionProcessExitCode(&result.ExitCode),
	}
	if opts.WorkingDir.Valid() {
		options = append(options, utils.OptionProcessWorkingDir(opts.WorkingDir))
	}
	for _, kv := range opts.Env {
		name, value := splitEnv(kv)
		options = append(options, utils.OptionProcessExport(name, value))
	}

	err := utils.RunProcess(executable, argv, options...)

	if spill != nil {
		if closeErr := spill.Close(); closeErr != nil && err == nil {
			err = closeErr
		}
	} else {
		result.Output = collected
	}

	if err != nil {
		if _, ok := err.(interface{ ExitCode() int }); !ok {
			// a non-exit error (failed to start, I/O failure) is not a
			// compile failure -- surface it distinctly to the caller.
			return result, fmt.Errorf("worker: failed to run %v: %w", executable, err)
		}
	}

	return result, nil
}

func splitEnv(kv string) (string, string) {
	for i := 0; i < len(kv); i++ {
		if kv[i] == '=' {
			return kv[:i], kv[i+1:]
		}
	}
	return kv, ""
}

type spillWriter struct {
	path string
	file *os.File
	zw   *zstd.Writer
}

func newSpillWriter() (*spillWriter, error) {
	f, err := os.CreateTemp("", "octobuild-spill-*.zst")
	if err != nil {
		return nil, err
	}
	return &spillWriter{path: f.Name(), file: f, zw: zstd.NewWriter(f)}, nil
}

func (s *spillWriter) WriteRaw(b []byte) error {
	_, err := s.zw.Write(b)
	return err
}

func (s *spillWriter) WriteLine(line string) error {
	if _, err := s.zw.Write([]byte(line)); err != nil {
		return err
	}
	_, err := s.zw.Write([]byte{'\n'})
	return err
}

func (s *spillWriter) Close() error {
	if err := s.zw.Close(); err != nil {
		s.file.Close()
		return err
	}
	return s.file.Close()
}
