package argument

import "testing"

func TestMsvcGrammar_SimpleCompile(t *testing.T) {
	argv := []string{"/c", "/I", "foo.cpp", "/Foout.obj"}
	// note: "/I" expects an attached value in real invocations (e.g. /Iinclude),
	// exercised separately below; this case checks the minimal compile shape.
	argv = []string{"/c", "foo.cpp", "/Foout.obj", "/Iinclude", "/DFOO=1", "/EHsc", "/O2"}

	result := MsvcGrammar{}.Parse("cl.exe", argv)
	if !result.Cacheable {
		t.Fatalf("expected cacheable, got reason: %s", result.Reason)
	}
	if result.Info.OutputObject != "out.obj" {
		t.Errorf("unexpected OutputObject: %q", result.Info.OutputObject)
	}
	if len(result.Info.InputSources) != 1 || result.Info.InputSources[0] != "foo.cpp" {
		t.Errorf("unexpected InputSources: %v", result.Info.InputSources)
	}
	if len(result.Info.PreprocessorArgs) != 2 {
		t.Errorf("expected 2 preprocessor args (/Iinclude, /DFOO=1), got %v", result.Info.PreprocessorArgs)
	}
}

func TestMsvcGrammar_ZiWithoutZ7IsNotCacheable(t *testing.T) {
	argv := []string{"/c", "foo.cpp", "/Foout.obj", "/Zi", "/Fdout.pdb"}
	result := MsvcGrammar{}.Parse("cl.exe", argv)
	if result.Cacheable {
		t.Fatalf("expected /Zi without /Z7 to be non-cacheable")
	}
}

func TestMsvcGrammar_ZiWithoutZ7IsNotCacheableEvenWithoutFd(t *testing.T) {
	argv := []string{"/c", "foo.cpp", "/Foout.obj", "/Zi"}
	result := MsvcGrammar{}.Parse("cl.exe", argv)
	if result.Cacheable {
		t.Fatalf("expected /Zi without /Z7 to be non-cacheable even without /Fd")
	}
}

func TestMsvcGrammar_ZiWithZ7IsCacheable(t *testing.T) {
	argv := []string{"/c", "foo.cpp", "/Foout.obj", "/Zi", "/Z7", "/Fdout.pdb"}
	result := MsvcGrammar{}.Parse("cl.exe", argv)
	if !result.Cacheable {
		t.Fatalf("expected cacheable, got reason: %s", result.Reason)
	}
}

func TestMsvcGrammar_MissingCompileOnlyIsNotCacheable(t *testing.T) {
	argv := []string{"foo.cpp", "/Foout.obj"}
	result := MsvcGrammar{}.Parse("cl.exe", argv)
	if result.Cacheable {
		t.Fatalf("expected non-/c invocation to be non-cacheable")
	}
}

func TestMsvcGrammar_UnknownFlagIsNotCacheable(t *testing.T) {
	argv := []string{"/c", "foo.cpp", "/Foout.obj", "/Qfoobar"}
	result := MsvcGrammar{}.Parse("cl.exe", argv)
	if result.Cacheable {
		t.Fatalf("expected unrecognized flag to make invocation non-cacheable")
	}
}

func TestMsvcGrammar_PchProducerAndConsumer(t *testing.T) {
	producer := MsvcGrammar{}.Parse("cl.exe", []string{"/c", "pch.cpp", "/Foout.obj", "/Fppch.pch", "/Ycstdafx.h"})
	if !producer.Cacheable {
		t.Fatalf("expected PCH producer to be cacheable, got reason: %s", producer.Reason)
	}
	if producer.Info.OutputPrecompiled != "pch.pch" {
		t.Errorf("unexpected OutputPrecompiled: %q", producer.Info.OutputPrecompiled)
	}

	consumer := MsvcGrammar{}.Parse("cl.exe", []string{"/c", "foo.cpp", "/Foout.obj", "/Yustdafx.h"})
	if !consumer.Cacheable {
		t.Fatalf("expected PCH consumer to be cacheable, got reason: %s", consumer.Reason)
	}
	if consumer.Info.InputPrecompiled != "stdafx.h" {
		t.Errorf("unexpected InputPrecompiled: %q", consumer.Info.InputPrecompiled)
	}
}
