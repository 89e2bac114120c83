package argument

import (
	"reflect"
	"testing"
)

func TestCommandInfo_PreprocessArgv(t *testing.T) {
	info := CommandInfo{
		Family:       FamilyGcc,
		InputSources: []string{"a.cpp"},
		PreprocessorArgs: []Arg{
			{Text: "-DFOO", Category: CategoryPreprocessor},
			{Text: "--driver-mode=gcc", Category: CategoryDiscard},
		},
	}
	got := info.PreprocessArgv()
	want := []string{"-DFOO", "-E", "a.cpp"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("PreprocessArgv() = %v, want %v", got, want)
	}
}

func TestCommandInfo_PreprocessArgv_Msvc(t *testing.T) {
	info := CommandInfo{
		Family:           FamilyMsvc,
		InputSources:     []string{"a.cpp"},
		PreprocessorArgs: []Arg{{Text: "/DFOO", Category: CategoryPreprocessor}},
	}
	got := info.PreprocessArgv()
	want := []string{"/DFOO", "/nologo", "/E", "a.cpp"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("PreprocessArgv() = %v, want %v", got, want)
	}
}

func TestCommandInfo_CompileArgv_SkipsPreprocessorArgsWhenNotRunSecondCpp(t *testing.T) {
	info := CommandInfo{
		Family:           FamilyMsvc,
		OutputObject:     "a.obj",
		RunSecondCpp:     false,
		PreprocessorArgs: []Arg{{Text: "/DFOO", Category: CategoryPreprocessor}},
		CompilerArgs:     []Arg{{Text: "/O2", Category: CategoryCompiler}},
	}
	got := info.CompileArgv("a.i")
	want := []string{"/O2", "/nologo", "/c", "/Foa.obj", "a.i"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("CompileArgv() = %v, want %v", got, want)
	}
}

func TestCommandInfo_CompileArgv_ReappliesPreprocessorArgsWhenRunSecondCpp(t *testing.T) {
	info := CommandInfo{
		Family:           FamilyGcc,
		OutputObject:     "a.o",
		RunSecondCpp:     true,
		PreprocessorArgs: []Arg{{Text: "-DFOO", Category: CategoryPreprocessor}},
		CompilerArgs:     []Arg{{Text: "-O2", Category: CategoryCompiler}},
	}
	got := info.CompileArgv("a.cpp")
	want := []string{"-DFOO", "-O2", "-c", "-o", "a.o", "a.cpp"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("CompileArgv() = %v, want %v", got, want)
	}
}

func TestCommandInfo_CompileArgv_IncludesOutputPrecompiled(t *testing.T) {
	info := CommandInfo{
		Family:            FamilyMsvc,
		OutputObject:      "a.obj",
		OutputPrecompiled: "a.pch",
		CompilerArgs:      []Arg{{Text: "/Ycstdafx.h", Category: CategoryCompiler}},
	}
	got := info.CompileArgv("a.i")
	want := []string{"/Ycstdafx.h", "/nologo", "/c", "/Foa.obj", "/Fpa.pch", "a.i"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("CompileArgv() = %v, want %v", got, want)
	}
}
