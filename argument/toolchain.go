package argument

import (
	"strings"

	"github.com/octobuild/octobuild/internal/base"
	"github.com/octobuild/octobuild/utils"
)

// ToolchainIdentity is a stable, cross-invocation identifier for one
// compiler binary: its path and the version banner it prints, hashed
// together. Two invocations only share a cache entry if they agree on this
// identity, so a toolchain upgrade in place naturally invalidates the cache
// instead of silently serving stale objects (see CacheKey derivation).
func ToolchainIdentity(family Family, executable string) string {
	return toolchainIdentityMemoized(toolchainKey{family, executable})
}

type toolchainKey struct {
	family     Family
	executable string
}

var toolchainIdentityMemoized = base.MemoizeComparable(func(key toolchainKey) string {
	banner := versionBanner(key.family, key.executable)
	fp := base.StringFingerprint(key.executable + "\x00" + banner)
	return fp.String()
})

// versionBanner runs the compiler with a family-appropriate flag and
// captures whatever it prints, best-effort. A compiler that can't be run
// (missing, not executable) contributes an empty banner -- its path alone
// still gives each toolchain install a distinct identity.
func versionBanner(family Family, executable string) string {
	var flag string
	switch family {
	case FamilyMsvc:
		flag = "" // cl.exe prints its banner to stderr with zero arguments
	default:
		flag = "--version"
	}

	var out strings.Builder
	args := utils.StringSet{}
	if flag != "" {
		args = append(args, flag)
	}

	onOutput := func(line string) error {
		out.WriteString(line)
		out.WriteByte('\n')
		return nil
	}

	_ = utils.RunProcess(utils.MakeFilename(executable), args,
		utils.OptionProcessCaptureOutput,
		utils.OptionProcessNoSpinner,
		utils.OptionProcessOutput(onOutput))

	return out.String()
}
