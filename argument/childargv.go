package argument

// PreprocessArgv builds the child argv for the preprocess phase: the
// preprocessor-affecting flags from the original invocation, the single
// input source, and a family-appropriate "stop after preprocessing, write
// to stdout" flag. Both grammars agree on this shape, so it lives on
// CommandInfo itself rather than being duplicated per Grammar.
func (c CommandInfo) PreprocessArgv() []string {
	argv := make([]string, 0, len(c.PreprocessorArgs)+3)
	for _, a := range c.PreprocessorArgs {
		if a.Category == CategoryDiscard {
			continue
		}
		argv = append(argv, a.Text)
	}

	switch c.Family {
	case FamilyMsvc:
		argv = append(argv, "/nologo", "/E")
	default:
		argv = append(argv, "-E")
	}

	return append(argv, c.InputSources[0])
}

// CompileArgv builds the child argv for the compile phase, writing to
// OutputObject (and OutputPrecompiled, if this invocation produces a PCH).
// When RunSecondCpp is false, input names the already-preprocessed file and
// the preprocessor flags are omitted -- they have no further effect once
// preprocessing already happened. When true, input is the original source
// and the preprocessor flags are re-applied so the compiler's own
// preprocessor runs again.
func (c CommandInfo) CompileArgv(input string) []string {
	argv := make([]string, 0, len(c.PreprocessorArgs)+len(c.CompilerArgs)+6)

	if c.RunSecondCpp {
		for _, a := range c.PreprocessorArgs {
			if a.Category == CategoryDiscard {
				continue
			}
			argv = append(argv, a.Text)
		}
	}
	for _, a := range c.CompilerArgs {
		if a.Category == CategoryDiscard {
			continue
		}
		argv = append(argv, a.Text)
	}

	switch c.Family {
	case FamilyMsvc:
		argv = append(argv, "/nologo", "/c", "/Fo"+c.OutputObject)
		if c.OutputPrecompiled != "" {
			argv = append(argv, "/Fp"+c.OutputPrecompiled)
		}
	default:
		argv = append(argv, "-c", "-o", c.OutputObject)
	}

	return append(argv, input)
}
