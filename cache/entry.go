package cache

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"

	"github.com/octobuild/octobuild/internal/base"
)

// Magic is the 4-byte "octb" tag opening every CacheEntry file.
const Magic uint32 = 0x6f637462

// FormatVersion gates incompatible on-disk layout changes: a mismatch is
// treated as a miss (and the stale file is eligible for deletion), never
// as a read error.
const FormatVersion uint32 = 1

// PayloadTag identifies one stored file within a CacheEntry.
type PayloadTag uint32

const (
	PayloadObject PayloadTag = iota
	PayloadPrecompiled
	PayloadStdout
	PayloadStderr
)

// Entry is a decoded CacheEntry: the set of payloads recorded for one
// CacheKey, keyed by tag. Two payloads can never share a tag.
type Entry struct {
	Payloads map[PayloadTag][]byte
}

// EncodeEntry writes the on-disk CacheEntry format: magic, version, a
// file-list header of (tag, length) pairs, then each payload framed
// through LZ4 in turn (§3 CacheEntry).
func EncodeEntry(w io.Writer, entry Entry) error {
	tags := make([]PayloadTag, 0, len(entry.Payloads))
	for tag := range entry.Payloads {
		tags = append(tags, tag)
	}

	if err := binary.Write(w, binary.LittleEndian, Magic); err != nil {
		return err
	}
	if err := binary.Write(w, binary.LittleEndian, FormatVersion); err != nil {
		return err
	}
	if err := binary.Write(w, binary.LittleEndian, uint32(len(tags))); err != nil {
		return err
	}

	// compress each payload independently first, so the header can record
	// the compressed length up-front and the reader can allocate exactly.
	compressed := make([][]byte, len(tags))
	for i, tag := range tags {
		var buf bytes.Buffer
		cw := base.NewCompressedWriter(&buf, base.CompressionOptionFormat(base.COMPRESSION_FORMAT_LZ4))
		if _, err := cw.Write(entry.Payloads[tag]); err != nil {
			return err
		}
		if err := cw.Close(); err != nil {
			return err
		}
		compressed[i] = buf.Bytes()
	}

	for i, tag := range tags {
		if err := binary.Write(w, binary.LittleEndian, uint32(tag)); err != nil {
			return err
		}
		if err := binary.Write(w, binary.LittleEndian, uint64(len(compressed[i]))); err != nil {
			return err
		}
	}

	for _, payload := range compressed {
		if _, err := w.Write(payload); err != nil {
			return err
		}
	}

	return nil
}

// DecodeEntry reads and validates a CacheEntry, decompressing every
// payload back to its original bytes.
func DecodeEntry(r io.Reader) (Entry, error) {
	var magic, version, count uint32
	if err := binary.Read(r, binary.LittleEndian, &magic); err != nil {
		return Entry{}, err
	}
	if magic != Magic {
		return Entry{}, fmt.Errorf("cache: bad magic %#x, expected %#x", magic, Magic)
	}
	if err := binary.Read(r, binary.LittleEndian, &version); err != nil {
		return Entry{}, err
	}
	if version != FormatVersion {
		return Entry{}, fmt.Errorf("cache: unsupported format version %d, expected %d", version, FormatVersion)
	}
	if err := binary.Read(r, binary.LittleEndian, &count); err != nil {
		return Entry{}, err
	}

	type header struct {
		tag    PayloadTag
		length uint64
	}
	headers := make([]header, count)
	for i := range headers {
		var tag uint32
		var length uint64
		if err := binary.Read(r, binary.LittleEndian, &tag); err != nil {
			return Entry{}, err
		}
		if err := binary.Read(r, binary.LittleEndian, &length); err != nil {
			return Entry{}, err
		}
		headers[i] = header{tag: PayloadTag(tag), length: length}
	}

	entry := Entry{Payloads: make(map[PayloadTag][]byte, count)}
	for _, h := range headers {
		framed := make([]byte, h.length)
		if _, err := io.ReadFull(r, framed); err != nil {
			return Entry{}, err
		}

		cr := base.NewCompressedReader(bytes.NewReader(framed), base.CompressionOptionFormat(base.COMPRESSION_FORMAT_LZ4))
		payload, err := io.ReadAll(cr)
		cr.Close()
		if err != nil {
			return Entry{}, err
		}
		entry.Payloads[h.tag] = payload
	}

	return entry, nil
}
