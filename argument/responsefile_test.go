package argument

import (
	"os"
	"path/filepath"
	"testing"
)

func TestTokenizeResponseFile(t *testing.T) {
	content := `-Ifoo "-Dname=with space" plain\"quote`
	tokens := tokenizeResponseFile(content)
	want := []string{"-Ifoo", "-Dname=with space", `plain"quote`}

	if len(tokens) != len(want) {
		t.Fatalf("tokenizeResponseFile() = %v, want %v", tokens, want)
	}
	for i := range want {
		if tokens[i] != want[i] {
			t.Errorf("token %d = %q, want %q", i, tokens[i], want[i])
		}
	}
}

func TestExpandResponseFiles(t *testing.T) {
	dir := t.TempDir()
	rspPath := filepath.Join(dir, "args.rsp")
	if err := os.WriteFile(rspPath, []byte("-Ifoo -DBAR=1"), 0o644); err != nil {
		t.Fatalf("failed to write response file: %v", err)
	}

	argv := []string{"-c", "foo.cpp", "@" + rspPath, "-o", "out.o"}
	expanded, err := ExpandResponseFiles(argv)
	if err != nil {
		t.Fatalf("ExpandResponseFiles() error: %v", err)
	}

	want := []string{"-c", "foo.cpp", "-Ifoo", "-DBAR=1", "-o", "out.o"}
	if len(expanded) != len(want) {
		t.Fatalf("ExpandResponseFiles() = %v, want %v", expanded, want)
	}
	for i := range want {
		if expanded[i] != want[i] {
			t.Errorf("arg %d = %q, want %q", i, expanded[i], want[i])
		}
	}
}

func TestExpandResponseFilesMissingFile(t *testing.T) {
	_, err := ExpandResponseFiles([]string{"@/no/such/file.rsp"})
	if err == nil {
		t.Fatalf("expected error for missing response file")
	}
}

func TestExpandResponseFilesDepthCap(t *testing.T) {
	dir := t.TempDir()
	self := filepath.Join(dir, "self.rsp")
	if err := os.WriteFile(self, []byte("@"+self), 0o644); err != nil {
		t.Fatalf("failed to write response file: %v", err)
	}

	_, err := ExpandResponseFiles([]string{"@" + self})
	if err == nil {
		t.Fatalf("expected depth cap error for self-referencing response file")
	}
}
