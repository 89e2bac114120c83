package driver

import (
	"crypto/rand"
	"encoding/hex"
	"io"
	"strings"

	"github.com/octobuild/octobuild/argument"
	"github.com/octobuild/octobuild/cache"
	"github.com/octobuild/octobuild/octerror"
	"github.com/octobuild/octobuild/utils"
	"github.com/octobuild/octobuild/worker"
)

// replay writes a cache hit's recorded payloads to their destination paths
// and returns the Result as if the compiler itself had just produced them.
func replay(info argument.CommandInfo, entry cache.Entry) (Result, error) {
	object, ok := entry.Payloads[cache.PayloadObject]
	if !ok {
		return Result{}, &octerror.IOError{Op: "read", Path: info.OutputObject, Inner: errMissingPayload}
	}
	if err := writeFile(info.OutputObject, object); err != nil {
		return Result{}, err
	}

	if info.OutputPrecompiled != "" {
		pch, ok := entry.Payloads[cache.PayloadPrecompiled]
		if !ok {
			return Result{}, &octerror.IOError{Op: "read", Path: info.OutputPrecompiled, Inner: errMissingPayload}
		}
		if err := writeFile(info.OutputPrecompiled, pch); err != nil {
			return Result{}, err
		}
	}

	return Result{
		ExitCode: 0,
		Stdout:   entry.Payloads[cache.PayloadStdout],
		Stderr:   entry.Payloads[cache.PayloadStderr],
		CacheHit: true,
	}, nil
}

// buildEntry reads back the object (and PCH, if produced) a successful
// compile just wrote to disk, pairing them with its captured stdout/stderr
// into one Entry ready for Store.Put.
func buildEntry(info argument.CommandInfo, compiled worker.SplitResult) (cache.Entry, error) {
	object, err := readFile(info.OutputObject)
	if err != nil {
		return cache.Entry{}, &octerror.IOError{Op: "read", Path: info.OutputObject, Inner: err}
	}

	payloads := map[cache.PayloadTag][]byte{
		cache.PayloadObject: object,
		cache.PayloadStdout: compiled.Stdout,
		cache.PayloadStderr: compiled.Stderr,
	}

	if info.OutputPrecompiled != "" {
		pch, err := readFile(info.OutputPrecompiled)
		if err != nil {
			return cache.Entry{}, &octerror.IOError{Op: "read", Path: info.OutputPrecompiled, Inner: err}
		}
		payloads[cache.PayloadPrecompiled] = pch
	}

	return cache.Entry{Payloads: payloads}, nil
}

// spillPreprocessed writes content to a temp file whose extension matches
// what the family's compile phase expects of already-preprocessed input
// (cl.exe dispatches by file extension: .i for C, .ii for C++), returning
// its path and a cleanup func that removes it.
func spillPreprocessed(info argument.CommandInfo, content []byte) (path string, cleanup func(), err error) {
	var randBytes [16]byte
	if _, err = rand.Read(randBytes[:]); err != nil {
		return "", func() {}, &octerror.IOError{Op: "write", Path: "preprocessed", Inner: err}
	}

	name := utils.UFS.Transient.Folder("preprocessed").File(hex.EncodeToString(randBytes[:])).ReplaceExt(preprocessedExt(info))

	if err = utils.UFS.Create(name, func(w io.Writer) error {
		_, werr := w.Write(content)
		return werr
	}); err != nil {
		return "", func() {}, &octerror.IOError{Op: "write", Path: name.String(), Inner: err}
	}

	return name.String(), func() { utils.UFS.Remove(name) }, nil
}

func preprocessedExt(info argument.CommandInfo) string {
	if info.Family != argument.FamilyMsvc {
		return ".i"
	}
	switch strings.ToLower(extOf(info.InputSources[0])) {
	case ".c":
		return ".i"
	default:
		return ".ii"
	}
}

func extOf(path string) string {
	for i := len(path) - 1; i >= 0 && path[i] != '/' && path[i] != '\\'; i-- {
		if path[i] == '.' {
			return path[i:]
		}
	}
	return ""
}

func writeFile(path string, data []byte) error {
	err := utils.UFS.Create(utils.MakeFilename(path), func(w io.Writer) error {
		_, werr := w.Write(data)
		return werr
	})
	if err != nil {
		return &octerror.IOError{Op: "write", Path: path, Inner: err}
	}
	return nil
}

func readFile(path string) ([]byte, error) {
	var data []byte
	err := utils.UFS.OpenBuffered(utils.MakeFilename(path), func(r io.Reader) error {
		var readErr error
		data, readErr = io.ReadAll(r)
		return readErr
	})
	return data, err
}

type missingPayloadError string

func (e missingPayloadError) Error() string { return string(e) }

var errMissingPayload = missingPayloadError("cache entry is missing an expected payload")
