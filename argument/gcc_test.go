package argument

import "testing"

func TestGccGrammar_SimpleCompile(t *testing.T) {
	argv := []string{"-c", "foo.cpp", "-o", "out.o", "-Iinclude", "-DFOO=1", "-O2", "-Wall", "-g"}
	result := GccGrammar{}.Parse("clang++", argv)
	if !result.Cacheable {
		t.Fatalf("expected cacheable, got reason: %s", result.Reason)
	}
	if result.Info.OutputObject != "out.o" {
		t.Errorf("unexpected OutputObject: %q", result.Info.OutputObject)
	}
	if len(result.Info.InputSources) != 1 || result.Info.InputSources[0] != "foo.cpp" {
		t.Errorf("unexpected InputSources: %v", result.Info.InputSources)
	}
}

func TestGccGrammar_PreprocessOnlyIsNotCacheable(t *testing.T) {
	argv := []string{"-E", "foo.cpp", "-o", "out.i"}
	result := GccGrammar{}.Parse("gcc", argv)
	if result.Cacheable {
		t.Fatalf("expected -E invocation to be non-cacheable")
	}
}

func TestGccGrammar_DependencyGenerationIsNotCacheable(t *testing.T) {
	argv := []string{"-c", "foo.cpp", "-o", "out.o", "-MD", "-MF", "out.d"}
	result := GccGrammar{}.Parse("gcc", argv)
	if result.Cacheable {
		t.Fatalf("expected -M* invocation to be non-cacheable")
	}
}

func TestGccGrammar_IncludeFlagWithSeparateValue(t *testing.T) {
	argv := []string{"-c", "foo.cpp", "-o", "out.o", "-include", "prefix.h"}
	result := GccGrammar{}.Parse("gcc", argv)
	if !result.Cacheable {
		t.Fatalf("expected cacheable, got reason: %s", result.Reason)
	}
	found := false
	for _, a := range result.Info.PreprocessorArgs {
		if a.Text == "prefix.h" {
			found = true
		}
	}
	if !found {
		t.Errorf("expected prefix.h to appear in PreprocessorArgs: %v", result.Info.PreprocessorArgs)
	}
}

func TestGccGrammar_MissingCompileOnlyIsNotCacheable(t *testing.T) {
	argv := []string{"foo.cpp", "-o", "a.out"}
	result := GccGrammar{}.Parse("gcc", argv)
	if result.Cacheable {
		t.Fatalf("expected non-(-c) invocation to be non-cacheable")
	}
}
