package lexer

import (
	"errors"
	"fmt"

	"github.com/xa-lang/xa/internal/vfs"
)

// ErrSourceNotFound is returned by an Opener when the named program cannot be
// opened.
var ErrSourceNotFound = errors.New("source not found")

// TokenSource yields tokens until EOF. NextToken never fails: unrecognised
// lexemes come back as Invalid tokens, and the end of input as EOF.
type TokenSource interface {
	NextToken() Token
	Close() error
}

// Opener acquires token sources by name.
type Opener interface {
	Open(name string) (TokenSource, error)
}

// OpenerFunc adapts a function to the Opener interface.
type OpenerFunc func(name string) (TokenSource, error)

func (f OpenerFunc) Open(name string) (TokenSource, error) { return f(name) }

// FileOpener opens programs through a file system.
type FileOpener struct {
	FS vfs.FileSystem
}

// NewFileOpener returns an opener over fsys, or over the OS when fsys is nil.
func NewFileOpener(fsys vfs.FileSystem) *FileOpener {
	if fsys == nil {
		fsys = vfs.NewOS()
	}
	return &FileOpener{FS: fsys}
}

// Open opens name and returns a scanner positioned at its first byte.
func (o *FileOpener) Open(name string) (TokenSource, error) {
	f, err := o.FS.Open(name)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrSourceNotFound, name, err)
	}
	if info, err := f.Stat(); err == nil && info.IsDir() {
		f.Close()
		return nil, fmt.Errorf("%w: %s is a directory", ErrSourceNotFound, name)
	}
	return NewScanner(f), nil
}
