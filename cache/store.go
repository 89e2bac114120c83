// Package cache implements the on-disk, content-addressed object cache:
// LZ4-framed multi-file entries keyed by cachekey.Key, atime-driven LRU
// eviction, and crash-safe writes via temp-then-rename.
package cache

import (
	"bytes"
	"io"
	"time"

	"github.com/octobuild/octobuild/cachekey"
	"github.com/octobuild/octobuild/internal/base"
	"github.com/octobuild/octobuild/utils"
)

var LogCache = base.NewLogCategory("Cache")

const entryExtname = ".lz4"

// DefaultLimitBytes is the cap applied when OCTOBUILD_CACHE_LIMIT_MB is
// unset: 64 GiB, matching the spec's stated default.
const DefaultLimitBytes int64 = 64 << 30

// Store is one content-addressed cache directory.
type Store struct {
	Root       utils.Directory
	Mode       ModeType
	LimitBytes int64

	lastSweep time.Time
}

func NewStore(root utils.Directory, mode ModeType, limitBytes int64) *Store {
	if limitBytes <= 0 {
		limitBytes = DefaultLimitBytes
	}
	utils.UFS.Mkdir(root)
	return &Store{Root: root, Mode: mode, LimitBytes: limitBytes}
}

// entryPath is a flat file directly under Root, named by the full hex key
// (§4.D: "a single directory; entries are flat files named <hex-key>.lz4").
func (s *Store) entryPath(key cachekey.Key) utils.Filename {
	return s.Root.File(key.String()).ReplaceExt(entryExtname)
}

// Get returns the decoded entry for key, or (_, false, nil) on a plain
// miss. A corrupt or version-mismatched entry is treated as a miss too
// (never surfaced as an error) and is removed so it stops shadowing future
// writes.
func (s *Store) Get(key cachekey.Key) (Entry, bool, error) {
	if !s.Mode.CanRead() {
		return Entry{}, false, nil
	}

	path := s.entryPath(key)
	if !path.Exists() {
		return Entry{}, false, nil
	}

	var entry Entry
	var decodeErr error
	err := utils.UFS.OpenBuffered(path, func(r io.Reader) error {
		entry, decodeErr = DecodeEntry(r)
		return nil
	})
	if err != nil {
		base.LogTrace(LogCache, "cache miss for %v: %v", key, err)
		return Entry{}, false, nil
	}
	if decodeErr != nil {
		base.LogTrace(LogCache, "corrupt cache entry for %v, evicting: %v", key, decodeErr)
		utils.UFS.Remove(path)
		return Entry{}, false, nil
	}

	touchAtime(path)
	return entry, true, nil
}

// Put stores a new entry for key. Writes are staged to a randomly-named
// temp file, then atomically renamed into place; if the destination
// already exists another writer won the race and the temp file is simply
// discarded (§4.D write protocol).
func (s *Store) Put(key cachekey.Key, entry Entry) error {
	if !s.Mode.CanWrite() {
		return nil
	}

	dst := s.entryPath(key)
	if dst.Exists() {
		return nil // identical content by construction (content-addressed)
	}

	var buf bytes.Buffer
	if err := EncodeEntry(&buf, entry); err != nil {
		return err
	}

	tmp, err := utils.UFS.CreateTemp("cache", func(w io.Writer) error {
		_, err := w.Write(buf.Bytes())
		return err
	}, nil)
	if err != nil {
		return err
	}

	if err := utils.UFS.Rename(tmp.Path, dst); err != nil {
		tmp.Close()
		if dst.Exists() {
			return nil // lost the race to another writer, not an error
		}
		return err
	}

	s.maybeSweep()
	return nil
}
