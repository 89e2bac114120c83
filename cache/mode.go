package cache

// ModeType controls whether a Store serves and/or accepts cache entries.
// Modeled on the teacher's action.CacheModeType (CACHE_INHERIT/CACHE_NONE/
// CACHE_READ/CACHE_READWRITE in action/ActionCache.go), collapsed to the
// three modes this system actually exposes through OCTOBUILD_CACHE_MODE.
type ModeType int32

const (
	// ModeReadWrite serves hits and stores misses. Default.
	ModeReadWrite ModeType = iota
	// ModeReadOnly serves hits but never writes a new entry or runs a sweep.
	ModeReadOnly
	// ModeNone always misses and never writes; used to bypass the cache
	// entirely without touching any other command-line flag.
	ModeNone
)

func (m ModeType) String() string {
	switch m {
	case ModeReadWrite:
		return "ReadWrite"
	case ModeReadOnly:
		return "ReadOnly"
	case ModeNone:
		return "None"
	default:
		return "Unknown"
	}
}

func (m ModeType) CanRead() bool  { return m == ModeReadWrite || m == ModeReadOnly }
func (m ModeType) CanWrite() bool { return m == ModeReadWrite }
func (m ModeType) CanSweep() bool { return m == ModeReadWrite }

// ParseModeType accepts the OCTOBUILD_CACHE_MODE values named in the spec.
func ParseModeType(s string) (ModeType, error) {
	switch s {
	case "", "ReadWrite":
		return ModeReadWrite, nil
	case "ReadOnly":
		return ModeReadOnly, nil
	case "None":
		return ModeNone, nil
	default:
		return ModeNone, errUnknownMode(s)
	}
}

type errUnknownMode string

func (e errUnknownMode) Error() string {
	return "cache: unknown cache mode " + string(e)
}
