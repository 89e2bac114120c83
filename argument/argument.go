// Package argument dissects a raw compiler invocation (argv) into a typed
// CommandInfo, deciding along the way whether the invocation is cacheable
// and which arguments affect preprocessing, code generation, or neither.
package argument

import (
	"fmt"

	"github.com/octobuild/octobuild/internal/base"
)

var LogArgument = base.NewLogCategory("Argument")

// Family identifies which argument grammar governs an invocation.
type Family int32

const (
	FamilyUnknown Family = iota
	FamilyMsvc
	FamilyGcc
)

func (f Family) String() string {
	switch f {
	case FamilyMsvc:
		return "Msvc"
	case FamilyGcc:
		return "Gcc"
	default:
		return "Unknown"
	}
}

// Category classifies one flag (or file) by the pipeline stage it affects.
type Category int32

const (
	// CategoryPreprocessor affects preprocessed output: includes, defines,
	// language mode, sysroot.
	CategoryPreprocessor Category = iota
	// CategoryCompiler affects code generation from already-preprocessed
	// input: optimization, debug info, target, sanitizers.
	CategoryCompiler
	// CategoryDiscard must be suppressed entirely (e.g. /showIncludes-like
	// flags) -- it is neither hashed nor forwarded to the second stage.
	CategoryDiscard
)

// Arg is one classified command-line flag, carrying enough information to
// both re-serialize it for a child process and fold it into a CacheKey.
type Arg struct {
	Text           string // the flag rendered exactly as it should be passed to the compiler
	Category       Category
	OrderSensitive bool // true when swapping this flag with another of the same category changes behavior (e.g. repeated -D)
}

// CommandInfo is the result of parsing one compiler invocation.
type CommandInfo struct {
	Family Family

	ToolchainPath string
	ToolchainID   string // memoized identity string, see ToolchainIdentity

	InputSources      []string
	InputPrecompiled  string // PCH this compile *consumes*, empty if none
	OutputObject      string
	OutputPrecompiled string // PCH this compile *produces*, empty if none

	PreprocessorArgs []Arg
	CompilerArgs     []Arg

	RunSecondCpp bool

	DepsFile   string
	DepsTarget string
}

// ParseResult is the total return of Parse: either a usable CommandInfo, or
// a reason the invocation is not cacheable. Never a panic, never a bare
// error -- an unparseable argv is "not cacheable", not a failure.
type ParseResult struct {
	Cacheable bool
	Reason    string
	Info      CommandInfo
}

func cacheable(info CommandInfo) ParseResult {
	return ParseResult{Cacheable: true, Info: info}
}
func notCacheable(reason string, args ...any) ParseResult {
	return ParseResult{Cacheable: false, Reason: fmt.Sprintf(reason, args...)}
}

// Grammar is the capability set dispatched on the detected compiler family:
// parse_argv, toolchain_identity. preprocess_argv/compile_argv (building the
// two child argvs for the two-phase driver) live on CommandInfo itself once
// parsed, since both grammars agree on that shape.
type Grammar interface {
	Family() Family
	Parse(executable string, argv []string) ParseResult
}

// DetectFamily dispatches on the executable's basename, with the
// clang/clang++ special case of an explicit --driver-mode= override.
func DetectFamily(executable string, argv []string) Family {
	base := basename(executable)
	switch {
	case hasSuffixFold(base, "clang-cl"), hasSuffixFold(base, "clang-cl.exe"):
		if mode, ok := driverMode(argv); ok && mode == "gcc" {
			return FamilyGcc
		}
		return FamilyMsvc
	case hasSuffixFold(base, "cl.exe"), base == "cl", hasSuffixFold(base, "cl"):
		return FamilyMsvc
	case hasSuffixFold(base, "clang"), hasSuffixFold(base, "clang++"),
		hasSuffixFold(base, "gcc"), hasSuffixFold(base, "g++"),
		hasSuffixFold(base, "c++"), hasSuffixFold(base, "cc"):
		if mode, ok := driverMode(argv); ok && mode == "cl" {
			return FamilyMsvc
		}
		return FamilyGcc
	default:
		return FamilyUnknown
	}
}

func driverMode(argv []string) (string, bool) {
	const prefix = "--driver-mode="
	for _, a := range argv {
		if len(a) > len(prefix) && a[:len(prefix)] == prefix {
			return a[len(prefix):], true
		}
	}
	return "", false
}

func GrammarFor(family Family) Grammar {
	switch family {
	case FamilyMsvc:
		return MsvcGrammar{}
	case FamilyGcc:
		return GccGrammar{}
	default:
		return nil
	}
}
