package xge

import (
	"strings"
	"testing"
)

const sampleDoc = `<?xml version="1.0"?>
<BuildSet>
  <Tool Name="cl" Path="C:\cl.exe" Params="/c /nologo" />
  <Task Name="t1" Tool="cl" Caption="Compile Foo.cpp" WorkingDir="C:\src" Params="Foo.cpp" />
  <Task Name="t2" Tool="cl" Caption="Compile Bar.cpp" WorkingDir="C:\src" Params="Bar.cpp" DependsOn="t1" SkipIfProjectFailed="true" />
</BuildSet>`

func TestParse_ResolvesToolsAndDependencies(t *testing.T) {
	tasks, err := Parse(strings.NewReader(sampleDoc))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(tasks) != 2 {
		t.Fatalf("expected 2 tasks, got %d", len(tasks))
	}

	t1, t2 := tasks[0], tasks[1]
	if t1.ID != "t1" || t1.Tool != `C:\cl.exe` {
		t.Errorf("unexpected t1: %+v", t1)
	}
	if len(t1.Argv) != 3 || t1.Argv[0] != "/c" || t1.Argv[2] != "Foo.cpp" {
		t.Errorf("unexpected t1 argv: %v", t1.Argv)
	}
	if len(t2.DependsOn) != 1 || t2.DependsOn[0] != "t1" {
		t.Errorf("expected t2 to depend on t1, got %v", t2.DependsOn)
	}
	if !t2.SkipIfProjectFailed {
		t.Errorf("expected t2.SkipIfProjectFailed true")
	}
}

func TestParse_UnknownToolReference(t *testing.T) {
	doc := `<BuildSet><Task Name="t1" Tool="missing" Caption="x" /></BuildSet>`
	if _, err := Parse(strings.NewReader(doc)); err == nil {
		t.Fatalf("expected unknown tool error")
	}
}

func TestSplitDependsOn(t *testing.T) {
	if got := splitDependsOn(""); got != nil {
		t.Errorf("expected nil for empty string, got %v", got)
	}
	got := splitDependsOn("a, b ,c")
	want := []string{"a", "b", "c"}
	if len(got) != len(want) {
		t.Fatalf("splitDependsOn mismatch: %v", got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("splitDependsOn[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestTokenizeWhitespace_QuotedSpan(t *testing.T) {
	got := tokenizeWhitespace(`/c "Foo Bar.cpp" /O2`)
	want := []string{"/c", "Foo Bar.cpp", "/O2"}
	if len(got) != len(want) {
		t.Fatalf("tokenizeWhitespace = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("token[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}
