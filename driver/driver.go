// Package driver implements the two-phase cache-checked compile: preprocess
// the translation unit, hash the result, consult the content-addressed
// cache, and only run the real compiler on a miss.
package driver

import (
	"bytes"
	"io"

	"github.com/octobuild/octobuild/argument"
	"github.com/octobuild/octobuild/cache"
	"github.com/octobuild/octobuild/cachekey"
	"github.com/octobuild/octobuild/internal/base"
	"github.com/octobuild/octobuild/octerror"
	"github.com/octobuild/octobuild/utils"
	"github.com/octobuild/octobuild/worker"
)

var LogDriver = base.NewLogCategory("Driver")

// Result is the outcome of one Compile call, whichever path it took
// through the cache.
type Result struct {
	ExitCode int32
	Stdout   []byte
	Stderr   []byte
	CacheHit bool
}

// SpawnFunc runs one child toolchain invocation. Defaults to a thin wrapper
// over worker.SpawnSplit; tests substitute a fake compiler instead of
// spawning a real one.
type SpawnFunc func(executable string, argv []string) (worker.SplitResult, error)

func defaultSpawn(executable string, argv []string) (worker.SplitResult, error) {
	return worker.SpawnSplit(utils.MakeFilename(executable), utils.StringSet(argv), worker.Options{})
}

// Compile runs info's two-phase compile against store. It preserves the
// real compiler's observable behavior exactly on a miss, replays a hit's
// recorded stdout/stderr/payloads exactly, and never turns a successful
// compile into a failure because of cache trouble -- a cache read or write
// error is logged and the compile proceeds as if the cache were empty
// (SPEC §7).
func Compile(info argument.CommandInfo, store *cache.Store) (Result, error) {
	return CompileWith(info, store, defaultSpawn)
}

// CompileWith is Compile with an injectable SpawnFunc.
func CompileWith(info argument.CommandInfo, store *cache.Store, spawn SpawnFunc) (Result, error) {
	pre, err := runPreprocess(info, spawn)
	if err != nil {
		return Result{}, err
	}
	if pre.ExitCode != 0 {
		// Preprocessing itself failed: report its stderr and stop. Earlier
		// tooling in this space swallowed a failing preprocess and let the
		// real compile invocation surface the error redundantly; that
		// indirection is dropped here in favor of failing at the point the
		// failure actually occurred.
		return Result{ExitCode: pre.ExitCode, Stderr: pre.Stderr}, nil
	}

	content := pre.Stdout
	if info.Family == argument.FamilyGcc {
		content = stripCommentsAndBlankRuns(content)
	}

	preprocessedHash, err := base.ReaderFingerprint(bytes.NewReader(content), base.Fingerprint{})
	if err != nil {
		return Result{}, &octerror.IOError{Op: "hash", Path: info.InputSources[0], Inner: err}
	}

	hasPCH := info.InputPrecompiled != ""
	var pchHash base.Fingerprint
	if hasPCH {
		if pchHash, err = hashFile(info.InputPrecompiled); err != nil {
			return Result{}, &octerror.IOError{Op: "read", Path: info.InputPrecompiled, Inner: err}
		}
	}

	toolchainID := argument.ToolchainIdentity(info.Family, info.ToolchainPath)
	combinedArgs := make([]argument.Arg, 0, len(info.PreprocessorArgs)+len(info.CompilerArgs))
	combinedArgs = append(combinedArgs, info.PreprocessorArgs...)
	combinedArgs = append(combinedArgs, info.CompilerArgs...)

	key, err := cachekey.Derive(toolchainID, combinedArgs, preprocessedHash, pchHash, hasPCH)
	if err != nil {
		return Result{}, err
	}

	if entry, ok, getErr := store.Get(key); getErr != nil {
		base.LogWarning(LogDriver, "cache read failed for %v: %v", key, getErr)
	} else if ok {
		if result, replayErr := replay(info, entry); replayErr != nil {
			base.LogWarning(LogDriver, "cache replay failed for %v, compiling instead: %v", key, replayErr)
		} else {
			return result, nil
		}
	}

	input := info.InputSources[0]
	if !info.RunSecondCpp {
		preprocessedPath, cleanup, spillErr := spillPreprocessed(info, content)
		if spillErr != nil {
			return Result{}, spillErr
		}
		defer cleanup()
		input = preprocessedPath
	}

	compiled, err := spawn(info.ToolchainPath, info.CompileArgv(input))
	if err != nil {
		return Result{}, &octerror.ToolchainError{Executable: info.ToolchainPath, Inner: err}
	}

	result := Result{ExitCode: compiled.ExitCode, Stdout: compiled.Stdout, Stderr: compiled.Stderr}
	if compiled.ExitCode != 0 {
		return result, nil
	}

	if entry, buildErr := buildEntry(info, compiled); buildErr != nil {
		base.LogWarning(LogDriver, "skipping cache write for %v: %v", key, buildErr)
	} else if putErr := store.Put(key, entry); putErr != nil {
		base.LogWarning(LogDriver, "cache write failed for %v: %v", key, putErr)
	}

	return result, nil
}

func runPreprocess(info argument.CommandInfo, spawn SpawnFunc) (worker.SplitResult, error) {
	result, err := spawn(info.ToolchainPath, info.PreprocessArgv())
	if err != nil {
		return result, &octerror.ToolchainError{Executable: info.ToolchainPath, Inner: err}
	}
	return result, nil
}

func hashFile(path string) (base.Fingerprint, error) {
	var fp base.Fingerprint
	var hashErr error
	err := utils.UFS.OpenBuffered(utils.MakeFilename(path), func(r io.Reader) error {
		fp, hashErr = base.ReaderFingerprint(r, base.Fingerprint{})
		return hashErr
	})
	if err != nil {
		return base.Fingerprint{}, err
	}
	return fp, hashErr
}
