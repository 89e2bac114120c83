package argument

import (
	"path/filepath"
	"strings"
)

func basename(path string) string {
	return filepath.Base(filepath.ToSlash(path))
}

func hasSuffixFold(s, suffix string) bool {
	if len(s) < len(suffix) {
		return false
	}
	return strings.EqualFold(s[len(s)-len(suffix):], suffix)
}
