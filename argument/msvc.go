package argument

import "strings"

// MsvcGrammar parses cl.exe-style invocations (also clang-cl in its default
// driver mode). Flags are matched by prefix since MSVC attaches values
// directly to the switch (/Fo<path>, /D<name>, ...).
type MsvcGrammar struct{}

func (MsvcGrammar) Family() Family { return FamilyMsvc }

func (MsvcGrammar) Parse(executable string, argv []string) ParseResult {
	argv, err := ExpandResponseFiles(argv)
	if err != nil {
		return notCacheable("failed to expand response file: %v", err)
	}

	info := CommandInfo{
		Family:        FamilyMsvc,
		ToolchainPath: executable,
	}

	compileOnly := false
	sawZi := false
	sawZ7 := false
	pchPath := ""
	usesPCH := false

	for _, a := range argv {
		switch {
		case a == "/c":
			compileOnly = true
		case hasPrefixFold(a, "/Fo"):
			info.OutputObject = a[len("/Fo"):]
		case hasPrefixFold(a, "/Fp"):
			// PCH path: produced under /Yc, consumed under /Yu (resolved below)
			pchPath = a[len("/Fp"):]
		case hasPrefixFold(a, "/Yc"):
			// creates the PCH named by /Fp
			info.OutputPrecompiled = firstNonEmpty(info.OutputPrecompiled, a[len("/Yc"):])
			info.CompilerArgs = append(info.CompilerArgs, Arg{Text: a, Category: CategoryCompiler})
		case hasPrefixFold(a, "/Yu"):
			usesPCH = true
			info.InputPrecompiled = firstNonEmpty(info.InputPrecompiled, a[len("/Yu"):])
			info.CompilerArgs = append(info.CompilerArgs, Arg{Text: a, Category: CategoryCompiler})
		case hasPrefixFold(a, "/Fd"):
			// program database path: does not affect object output.
		case a == "/Zi":
			// combined with /Fd but not /Z7, the compiler embeds an absolute
			// PDB path and timestamp in the object, breaking content
			// addressing; rejected unconditionally below regardless of /Fd.
			sawZi = true
			info.CompilerArgs = append(info.CompilerArgs, Arg{Text: a, Category: CategoryCompiler})
		case a == "/Z7":
			sawZ7 = true
			info.CompilerArgs = append(info.CompilerArgs, Arg{Text: a, Category: CategoryCompiler})
		case hasPrefixFold(a, "/I"):
			info.PreprocessorArgs = append(info.PreprocessorArgs, Arg{Text: a, Category: CategoryPreprocessor, OrderSensitive: true})
		case strings.HasPrefix(a, "/D"):
			info.PreprocessorArgs = append(info.PreprocessorArgs, Arg{Text: a, Category: CategoryPreprocessor, OrderSensitive: true})
		case strings.HasPrefix(a, "/U"):
			info.PreprocessorArgs = append(info.PreprocessorArgs, Arg{Text: a, Category: CategoryPreprocessor, OrderSensitive: true})
		case hasPrefixFold(a, "/external:I"):
			info.PreprocessorArgs = append(info.PreprocessorArgs, Arg{Text: a, Category: CategoryPreprocessor, OrderSensitive: true})
		case hasPrefixFold(a, "/external:W"):
			info.CompilerArgs = append(info.CompilerArgs, Arg{Text: a, Category: CategoryCompiler})
		case a == "/experimental:deterministic":
			info.CompilerArgs = append(info.CompilerArgs, Arg{Text: a, Category: CategoryCompiler})
		case a == "/utf-8":
			info.PreprocessorArgs = append(info.PreprocessorArgs, Arg{Text: a, Category: CategoryPreprocessor})
		case a == "/permissive-":
			info.CompilerArgs = append(info.CompilerArgs, Arg{Text: a, Category: CategoryCompiler})
		case hasPrefixFold(a, "/diagnostics:"):
			info.CompilerArgs = append(info.CompilerArgs, Arg{Text: a, Category: CategoryDiscard})
		case hasPrefixFold(a, "/fsanitize="):
			info.CompilerArgs = append(info.CompilerArgs, Arg{Text: a, Category: CategoryCompiler})
		case a == "/FS":
			// serializes PDB writes across concurrent cl.exe instances --
			// irrelevant once we own the single compile, discard.
			info.CompilerArgs = append(info.CompilerArgs, Arg{Text: a, Category: CategoryDiscard})
		case hasPrefixFold(a, "/d2pattern-opt-disable:"):
			info.CompilerArgs = append(info.CompilerArgs, Arg{Text: a, Category: CategoryCompiler})
		case a == "/d2vzeroupper-":
			info.CompilerArgs = append(info.CompilerArgs, Arg{Text: a, Category: CategoryCompiler})
		case hasPrefixFold(a, "/showIncludes"):
			info.CompilerArgs = append(info.CompilerArgs, Arg{Text: a, Category: CategoryDiscard})
		case hasPrefixFold(a, "/MP"):
			info.CompilerArgs = append(info.CompilerArgs, Arg{Text: a, Category: CategoryDiscard})
		case hasPrefixFold(a, "/O"), hasPrefixFold(a, "/G"), hasPrefixFold(a, "/E"),
			hasPrefixFold(a, "/arch:"), hasPrefixFold(a, "/std:"), hasPrefixFold(a, "/W"),
			hasPrefixFold(a, "/M"), a == "/EHsc", a == "/GR-", a == "/GR",
			hasPrefixFold(a, "/Z"):
			info.CompilerArgs = append(info.CompilerArgs, Arg{Text: a, Category: CategoryCompiler})
		case !strings.HasPrefix(a, "/") && !strings.HasPrefix(a, "-"):
			info.InputSources = append(info.InputSources, a)
		default:
			return notCacheable("unrecognized MSVC flag %q", a)
		}
	}

	if usesPCH {
		info.InputPrecompiled = firstNonEmpty(pchPath, info.InputPrecompiled)
	} else {
		info.OutputPrecompiled = firstNonEmpty(pchPath, info.OutputPrecompiled)
	}

	if sawZi && !sawZ7 {
		return notCacheable("/Zi without /Z7 embeds a non-reproducible PDB reference")
	}
	if !compileOnly {
		return notCacheable("invocation is not a compile-only (/c) step")
	}
	if len(info.InputSources) != 1 {
		return notCacheable("expected exactly one input source, found %d", len(info.InputSources))
	}
	if info.OutputObject == "" {
		return notCacheable("missing /Fo output object path")
	}

	// cl.exe dispatches by file extension rather than requiring an
	// already-preprocessed hint flag, so the preprocessed .i/.ii file can be
	// fed back to it directly without a second preprocessor pass.
	info.RunSecondCpp = false

	return cacheable(info)
}

func hasPrefixFold(s, prefix string) bool {
	if len(s) < len(prefix) {
		return false
	}
	return strings.EqualFold(s[:len(prefix)], prefix)
}

func firstNonEmpty(a, b string) string {
	if a != "" {
		return a
	}
	return b
}
