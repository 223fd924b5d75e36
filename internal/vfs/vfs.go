// Package vfs abstracts the file system the xa toolchain reads programs from,
// so that token sources, the formatter and the watch loop can run against the
// real OS or an in-memory tree in tests.
package vfs

import (
	"errors"
	"io"
	"io/fs"
	"path"
	"strings"
	"time"
)

// File is an open, readable source file.
type File interface {
	io.Reader
	io.Closer
	Stat() (fs.FileInfo, error)
}

// FileSystem abstracts the file operations the toolchain needs.
type FileSystem interface {
	Open(name string) (File, error)
	Stat(name string) (fs.FileInfo, error)
	WriteFile(name string, data []byte, perm fs.FileMode) error
}

// ReadFile reads the whole named file from fsys.
func ReadFile(fsys FileSystem, name string) ([]byte, error) {
	f, err := fsys.Open(name)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return io.ReadAll(f)
}

// IsNotExist reports whether err says a file is missing.
func IsNotExist(err error) bool { return errors.Is(err, fs.ErrNotExist) }

// WatchOp indicates a change operation in the filesystem.
type WatchOp uint32

const (
	OpCreate WatchOp = 1 << iota
	OpWrite
	OpRemove
	OpRename
	OpChmod
)

// Has reports whether op contains all bits of other.
func (op WatchOp) Has(other WatchOp) bool { return op&other == other }

var opNames = []struct {
	op   WatchOp
	name string
}{
	{OpCreate, "CREATE"},
	{OpWrite, "WRITE"},
	{OpRemove, "REMOVE"},
	{OpRename, "RENAME"},
	{OpChmod, "CHMOD"},
}

func (op WatchOp) String() string {
	var parts []string
	for _, n := range opNames {
		if op.Has(n.op) {
			parts = append(parts, n.name)
		}
	}
	if len(parts) == 0 {
		return "NONE"
	}
	return strings.Join(parts, "|")
}

// Event describes a filesystem change event.
type Event struct {
	Path string
	Op   WatchOp
	Time time.Time
}

// Watcher provides a platform-independent file watching API.
type Watcher interface {
	Events() <-chan Event
	Errors() <-chan error
	Add(name string) error
	Remove(name string) error
	Close() error
}

// Clean returns the shortest path name equivalent to p, using forward slashes.
func Clean(p string) string { return path.Clean(p) }
