package worker

import (
	"bytes"
	"fmt"
	"os"
	"os/exec"

	"github.com/octobuild/octobuild/utils"
)

// SplitResult is the outcome of a spawn that needs stdout and stderr kept
// apart, unlike Spawn's combined capture.
type SplitResult struct {
	ExitCode int32
	Stdout   []byte
	Stderr   []byte
}

// SpawnSplit runs executable with argv, capturing stdout and stderr into
// separate buffers. Bypasses utils.RunProcess, which always interleaves
// stderr into stdout for console display -- the preprocess phase is the
// one place this system hashes stdout as content and cannot afford
// diagnostic noise from stderr perturbing that hash.
func SpawnSplit(executable utils.Filename, argv utils.StringSet, opts Options) (SplitResult, error) {
	var result SplitResult

	cmd := exec.Command(executable.String(), argv...)
	if opts.WorkingDir.Valid() {
		cmd.Dir = opts.WorkingDir.String()
	}
	cmd.Env = append(os.Environ(), ActiveGuardVar+"=1")
	cmd.Env = append(cmd.Env, opts.Env...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	result.Stdout = stdout.Bytes()
	result.Stderr = stderr.Bytes()

	if exitErr, ok := err.(*exec.ExitError); ok {
		result.ExitCode = int32(exitErr.ExitCode())
		return result, nil
	}
	if err != nil {
		return result, fmt.Errorf("worker: failed to run %v: %w", executable, err)
	}
	return result, nil
}
