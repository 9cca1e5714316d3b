package hwdb

import (
	"os"
	"strings"
)

// SearchEnvVar is consulted first when locating the hwdb binary; if
// set, it takes priority over the compiled-in default locations.
const SearchEnvVar = "UDEV_HWDB_BIN"

// DefaultSearchPaths are tried, in order, after SearchEnvVar.
var DefaultSearchPaths = []string{
	"/etc/udev/hwdb.bin",
	"/usr/lib/udev/hwdb.bin",
}

// Reader holds a parsed hwdb.bin image in memory.
type Reader struct {
	buf    []byte
	header *Header
	path   string
}

// Open finds the hwdb binary via SearchEnvVar and DefaultSearchPaths,
// in order, opening the first path that exists.
func Open() (*Reader, error) {
	paths := DefaultSearchPaths
	if env := os.Getenv(SearchEnvVar); env != "" {
		paths = append([]string{env}, paths...)
	}

	var lastErr error
	for _, path := range paths {
		r, err := OpenFile(path)
		if err == nil {
			return r, nil
		}
		if !os.IsNotExist(err) {
			lastErr = err
		}
	}
	if lastErr != nil {
		return nil, lastErr
	}
	return nil, &Error{Kind: KindIO, Msg: "no hwdb.bin found in " + strings.Join(paths, ", ")}
}

// OpenFile reads and parses the hwdb binary at path entirely into memory.
func OpenFile(path string) (*Reader, error) {
	buf, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return NewReader(buf, path)
}

// NewReader parses an in-memory hwdb image. path is recorded for
// diagnostics only; it may be empty for a fixture built purely in
// memory (see the hwdbtest subpackage).
func NewReader(buf []byte, path string) (*Reader, error) {
	header, err := ParseHeader(buf)
	if err != nil {
		return nil, err
	}
	return &Reader{buf: buf, header: header, path: path}, nil
}

// Path returns the filesystem path this Reader was opened from, or ""
// for an in-memory-only Reader.
func (r *Reader) Path() string { return r.path }

// Property is one key/value pair returned by Query.
type Property struct {
	Key   string
	Value string
}
