package vfs

import (
	"io/fs"
	"os"
)

// OSFS is the FileSystem backed by the host operating system.
type OSFS struct{}

func NewOS() *OSFS { return &OSFS{} }

func (fsys *OSFS) Open(name string) (File, error)        { return os.Open(name) }
func (fsys *OSFS) Stat(name string) (fs.FileInfo, error) { return os.Stat(name) }

func (fsys *OSFS) WriteFile(name string, data []byte, perm fs.FileMode) error {
	return os.WriteFile(name, data, perm)
}
