package utils

import (
	"github.com/octobuild/octobuild/internal/base"
)

var LogUtils = base.NewLogCategory("Utils")

// InitUtils tags every archive written from here on with the running
// process's version, so a cache entry written by one build of this binary
// never gets misread by another.
func InitUtils() {
	base.LogTrace(LogUtils, "utils.Init()")
	base.ArchiveTags = append(base.ArchiveTags, base.StringToFourCC(PROCESS_INFO.Version))
}

/***************************************
 * Expose publicly internal types
 ***************************************/

type Archive = base.Archive

var SanitizeIdentifier = base.SanitizeIdentifier

func Inherit[T base.InheritableBase](result *T, values ...T) {
	base.Inherit(result, values...)
}
func Overwrite[T base.InheritableBase](result *T, values ...T) {
	base.Overwrite(result, values...)
}

func RegisterSerializable[T base.Serializable](value T) {
	base.RegisterSerializable(value)
}
