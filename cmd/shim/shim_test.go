package shim

import (
	"os"
	"path/filepath"
	"reflect"
	"runtime"
	"testing"
)

func TestSplitNameAndArgs_SymlinkInvocation(t *testing.T) {
	name, args := splitNameAndArgs([]string{"/usr/bin/cl.exe", "/c", "a.cpp"})
	if name != "cl.exe" {
		t.Errorf("name = %q, want cl.exe", name)
	}
	if !reflect.DeepEqual(args, []string{"/c", "a.cpp"}) {
		t.Errorf("args = %v, want [/c a.cpp]", args)
	}
}

func TestSplitNameAndArgs_DirectInvocation(t *testing.T) {
	name, args := splitNameAndArgs([]string{"octo_cl", "cl.exe", "/c", "a.cpp"})
	if name != "cl.exe" {
		t.Errorf("name = %q, want cl.exe", name)
	}
	if !reflect.DeepEqual(args, []string{"/c", "a.cpp"}) {
		t.Errorf("args = %v, want [/c a.cpp]", args)
	}
}

func TestResolveRealCompiler_FindsCompilerOnPath(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("PATH/executable-bit semantics differ on windows")
	}

	dir := t.TempDir()
	fakeCompiler := filepath.Join(dir, "cc")
	if err := os.WriteFile(fakeCompiler, []byte("#!/bin/sh\nexit 0\n"), 0o755); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	t.Setenv("PATH", dir)

	got, err := resolveRealCompiler("cc")
	if err != nil {
		t.Fatalf("resolveRealCompiler() error: %v", err)
	}
	if got != fakeCompiler {
		t.Errorf("resolveRealCompiler() = %q, want %q", got, fakeCompiler)
	}
}

func TestResolveRealCompiler_NotFound(t *testing.T) {
	t.Setenv("PATH", t.TempDir())
	if _, err := resolveRealCompiler("definitely-not-a-real-compiler"); err == nil {
		t.Errorf("expected an error when the compiler is nowhere on PATH")
	}
}
