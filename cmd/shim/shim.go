// Package shim is the common body of the octo_cl and octo_clang compiler
// wrappers: resolve the real toolchain binary this invocation is standing
// in for, classify its argv, and either run it through the cache-checked
// driver or fall straight through to the real compiler. Grounded on
// nocc's cmd/nocc/main.go (the path-scan-skip-self trick for finding the
// real compiler when this binary itself sits on PATH under the
// compiler's name, and the "executeLocally" fallback shape), adapted
// from its daemon-socket dispatch to a local cache lookup.
package shim

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/octobuild/octobuild/argument"
	"github.com/octobuild/octobuild/config"
	"github.com/octobuild/octobuild/driver"
	"github.com/octobuild/octobuild/internal/base"
)

var LogShim = base.NewLogCategory("Shim")

// Run resolves and classifies the invocation from os.Args, then compiles
// it, returning the process exit code. Never panics on an unrecognized or
// unparseable argv -- it falls through to the real compiler instead, per
// SPEC_FULL.md §6's "unrecognized argv -> fall through, exit code from
// compiler".
func Run(argv []string) int {
	name, args := splitNameAndArgs(argv)

	realCompiler, err := resolveRealCompiler(name)
	if err != nil {
		base.LogError(LogShim, "%v", err)
		return 1
	}

	family := argument.DetectFamily(realCompiler, args)
	grammar := argument.GrammarFor(family)
	if grammar == nil {
		base.LogInfo(LogShim, "unknown compiler family, falling through to %s", realCompiler)
		return runDirectly(realCompiler, args)
	}
	result := grammar.Parse(realCompiler, args)
	if !result.Cacheable {
		base.LogInfo(LogShim, "not cacheable (%s), falling through to %s", result.Reason, realCompiler)
		return runDirectly(realCompiler, args)
	}

	info := result.Info
	info.ToolchainPath = realCompiler

	store := config.Load().NewStore()
	out, err := driver.Compile(info, store)
	if err != nil {
		base.LogError(LogShim, "%v", err)
		return runDirectly(realCompiler, args)
	}

	os.Stdout.Write(out.Stdout)
	os.Stderr.Write(out.Stderr)
	return int(out.ExitCode)
}

// splitNameAndArgs recovers the compiler this invocation impersonates.
// Normally that's this binary's own basename, found on PATH under a
// symlink named "cl"/"cl.exe"/"clang"/etc. When run directly under its
// own octo_* name (e.g. for manual testing), the compiler name and its
// argv are instead given explicitly as the first two argument groups.
func splitNameAndArgs(argv []string) (name string, args []string) {
	self := filepath.Base(argv[0])
	if strings.HasPrefix(self, "octo_") && len(argv) > 1 {
		return filepath.Base(argv[1]), argv[2:]
	}
	return self, argv[1:]
}

// resolveRealCompiler walks PATH for an executable named name, skipping
// whichever entry resolves (through symlinks) back to this very binary --
// otherwise a shim installed on PATH under the compiler's own name would
// just invoke itself forever.
func resolveRealCompiler(name string) (string, error) {
	self, err := os.Executable()
	if err != nil {
		return "", fmt.Errorf("shim: could not resolve own executable path: %w", err)
	}
	self, err = filepath.EvalSymlinks(self)
	if err != nil {
		return "", fmt.Errorf("shim: could not resolve own executable symlinks: %w", err)
	}

	for _, dir := range filepath.SplitList(os.Getenv("PATH")) {
		candidate := filepath.Join(dir, name)
		resolved, err := filepath.EvalSymlinks(candidate)
		if err != nil || resolved == self {
			continue
		}
		return candidate, nil
	}
	return "", fmt.Errorf("shim: %q not found on PATH (beyond this shim itself)", name)
}

// runDirectly spawns the real compiler verbatim and relays its exit
// status and output unchanged -- the fall-through path for argv this
// system cannot or should not cache.
func runDirectly(executable string, args []string) int {
	cmd := exec.Command(executable, args...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	if err := cmd.Run(); err != nil {
		if exitErr, ok := err.(*exec.ExitError); ok {
			return exitErr.ExitCode()
		}
		base.LogError(LogShim, "%v", err)
		return 1
	}
	return 0
}
