package driver

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/octobuild/octobuild/argument"
	"github.com/octobuild/octobuild/cache"
	"github.com/octobuild/octobuild/utils"
	"github.com/octobuild/octobuild/worker"
)

func writeTestFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("MkdirAll: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
}

func newTestStore(t *testing.T) *cache.Store {
	t.Helper()
	return cache.NewStore(utils.UFS.Dir(t.TempDir()), cache.ModeReadWrite, 0)
}

// fakeCompiler simulates a toolchain: the preprocess call returns
// preprocessedSrc on stdout, and the compile call writes objectContent to
// whatever -o/Fo path it's given and returns exit 0.
func fakeCompiler(t *testing.T, preprocessedSrc, objectContent string, compileCalls *int) SpawnFunc {
	t.Helper()
	return func(executable string, argv []string) (worker.SplitResult, error) {
		for i, a := range argv {
			if a == "-E" || a == "/E" {
				return worker.SplitResult{ExitCode: 0, Stdout: []byte(preprocessedSrc)}, nil
			}
			if a == "-o" && i+1 < len(argv) {
				writeTestFile(t, argv[i+1], objectContent)
				*compileCalls++
				return worker.SplitResult{ExitCode: 0}, nil
			}
			if len(a) > 3 && a[:3] == "/Fo" {
				writeTestFile(t, a[3:], objectContent)
				*compileCalls++
				return worker.SplitResult{ExitCode: 0}, nil
			}
		}
		t.Fatalf("fakeCompiler: unrecognized argv %v", argv)
		return worker.SplitResult{}, nil
	}
}

func TestCompileWith_GccMissThenHit(t *testing.T) {
	dir := t.TempDir()
	info := argument.CommandInfo{
		Family:        argument.FamilyGcc,
		ToolchainPath: "clang++",
		InputSources:  []string{filepath.Join(dir, "a.cpp")},
		OutputObject:  filepath.Join(dir, "a.o"),
		RunSecondCpp:  true,
		PreprocessorArgs: []argument.Arg{
			{Text: "-DFOO", Category: argument.CategoryPreprocessor},
		},
	}
	writeTestFile(t, info.InputSources[0], "int main() { return 0; }\n")

	store := newTestStore(t)
	var calls int
	spawn := fakeCompiler(t, "int main ( ) { return 0 ; }\n", "fake-object-bytes", &calls)

	result, err := CompileWith(info, store, spawn)
	if err != nil {
		t.Fatalf("CompileWith() error: %v", err)
	}
	if result.ExitCode != 0 || result.CacheHit {
		t.Fatalf("expected a clean miss, got %+v", result)
	}
	if calls != 1 {
		t.Fatalf("expected exactly one compile invocation, got %d", calls)
	}
	if got, err := os.ReadFile(info.OutputObject); err != nil || string(got) != "fake-object-bytes" {
		t.Fatalf("object not written correctly: %q, %v", got, err)
	}

	// Remove the object the first compile produced; a cache hit must
	// recreate it without calling the compiler again.
	if err := os.Remove(info.OutputObject); err != nil {
		t.Fatalf("Remove: %v", err)
	}

	result2, err := CompileWith(info, store, spawn)
	if err != nil {
		t.Fatalf("CompileWith() second call error: %v", err)
	}
	if !result2.CacheHit || result2.ExitCode != 0 {
		t.Fatalf("expected a cache hit, got %+v", result2)
	}
	if calls != 1 {
		t.Fatalf("cache hit must not invoke the compiler again, got %d calls", calls)
	}
	if got, err := os.ReadFile(info.OutputObject); err != nil || string(got) != "fake-object-bytes" {
		t.Fatalf("object not replayed correctly: %q, %v", got, err)
	}
}

func TestCompileWith_MsvcFeedsPreprocessedFileOnMiss(t *testing.T) {
	dir := t.TempDir()
	info := argument.CommandInfo{
		Family:        argument.FamilyMsvc,
		ToolchainPath: "cl.exe",
		InputSources:  []string{filepath.Join(dir, "a.cpp")},
		OutputObject:  filepath.Join(dir, "a.obj"),
		RunSecondCpp:  false,
	}
	writeTestFile(t, info.InputSources[0], "int main() { return 0; }\n")

	store := newTestStore(t)
	var sawPreprocessedInput bool
	spawn := func(executable string, argv []string) (worker.SplitResult, error) {
		for _, a := range argv {
			if a == "/E" {
				return worker.SplitResult{ExitCode: 0, Stdout: []byte("preprocessed\n")}, nil
			}
		}
		last := argv[len(argv)-1]
		if filepath.Ext(last) == ".ii" {
			sawPreprocessedInput = true
		}
		writeTestFile(t, info.OutputObject, "obj")
		return worker.SplitResult{ExitCode: 0}, nil
	}

	if _, err := CompileWith(info, store, spawn); err != nil {
		t.Fatalf("CompileWith() error: %v", err)
	}
	if !sawPreprocessedInput {
		t.Fatalf("expected the compile phase to be fed the spilled .ii file, not the original source")
	}
}

func TestCompileWith_PreprocessFailureStopsWithoutCompiling(t *testing.T) {
	info := argument.CommandInfo{
		Family:        argument.FamilyGcc,
		ToolchainPath: "clang++",
		InputSources:  []string{"missing.cpp"},
		OutputObject:  "missing.o",
		RunSecondCpp:  true,
	}
	store := newTestStore(t)

	compileCalled := false
	spawn := func(executable string, argv []string) (worker.SplitResult, error) {
		for _, a := range argv {
			if a == "-E" {
				return worker.SplitResult{ExitCode: 1, Stderr: []byte("missing.cpp: No such file or directory")}, nil
			}
		}
		compileCalled = true
		return worker.SplitResult{ExitCode: 0}, nil
	}

	result, err := CompileWith(info, store, spawn)
	if err != nil {
		t.Fatalf("CompileWith() error: %v", err)
	}
	if result.ExitCode != 1 {
		t.Fatalf("expected the preprocessor's own exit code to propagate, got %d", result.ExitCode)
	}
	if compileCalled {
		t.Fatalf("a failed preprocess must never fall back to compiling")
	}
}

func TestReplayAndBuildEntry_RoundTrip(t *testing.T) {
	dir := t.TempDir()
	info := argument.CommandInfo{
		OutputObject:      filepath.Join(dir, "out.o"),
		OutputPrecompiled: filepath.Join(dir, "out.pch"),
	}
	writeTestFile(t, info.OutputObject, "object-bytes")
	writeTestFile(t, info.OutputPrecompiled, "pch-bytes")

	entry, err := buildEntry(info, worker.SplitResult{Stdout: []byte("out"), Stderr: []byte("err")})
	if err != nil {
		t.Fatalf("buildEntry() error: %v", err)
	}

	if err := os.Remove(info.OutputObject); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if err := os.Remove(info.OutputPrecompiled); err != nil {
		t.Fatalf("Remove: %v", err)
	}

	result, err := replay(info, entry)
	if err != nil {
		t.Fatalf("replay() error: %v", err)
	}
	if !result.CacheHit || string(result.Stdout) != "out" || string(result.Stderr) != "err" {
		t.Fatalf("unexpected replay result: %+v", result)
	}
	if got, _ := os.ReadFile(info.OutputObject); string(got) != "object-bytes" {
		t.Fatalf("object not replayed: %q", got)
	}
	if got, _ := os.ReadFile(info.OutputPrecompiled); string(got) != "pch-bytes" {
		t.Fatalf("pch not replayed: %q", got)
	}
}

func TestPreprocessedExt(t *testing.T) {
	cases := []struct {
		family argument.Family
		source string
		want   string
	}{
		{argument.FamilyMsvc, "a.c", ".i"},
		{argument.FamilyMsvc, "a.cpp", ".ii"},
		{argument.FamilyGcc, "a.cpp", ".i"},
	}
	for _, c := range cases {
		info := argument.CommandInfo{Family: c.family, InputSources: []string{c.source}}
		if got := preprocessedExt(info); got != c.want {
			t.Errorf("preprocessedExt(%v, %q) = %q, want %q", c.family, c.source, got, c.want)
		}
	}
}
