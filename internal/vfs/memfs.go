package vfs

import (
	"bytes"
	"io/fs"
	"path"
	"strings"
	"sync"
	"time"
)

type memFile struct {
	*bytes.Reader
	info fileInfo
}

func (f *memFile) Close() error               { return nil }
func (f *memFile) Stat() (fs.FileInfo, error) { return f.info, nil }

type fileInfo struct {
	name string
	size int64
	mode fs.FileMode
	mod  time.Time
}

func (fi fileInfo) Name() string       { return fi.name }
func (fi fileInfo) Size() int64        { return fi.size }
func (fi fileInfo) Mode() fs.FileMode  { return fi.mode }
func (fi fileInfo) ModTime() time.Time { return fi.mod }
func (fi fileInfo) IsDir() bool        { return fi.mode.IsDir() }
func (fi fileInfo) Sys() any           { return nil }

type memEnt struct {
	data []byte
	mode fs.FileMode
	mod  time.Time
}

// MemFS is an in-memory FileSystem. Opened files are snapshots: later
// writes do not affect readers that are already open.
type MemFS struct {
	mu   sync.RWMutex
	ents map[string]*memEnt
}

func NewMem() *MemFS { return &MemFS{ents: make(map[string]*memEnt)} }

func norm(p string) string {
	return strings.TrimPrefix(Clean(p), "/")
}

func (m *MemFS) Open(name string) (File, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	e := m.ents[norm(name)]
	if e == nil {
		return nil, &fs.PathError{Op: "open", Path: name, Err: fs.ErrNotExist}
	}
	return &memFile{Reader: bytes.NewReader(e.data), info: e.info(name)}, nil
}

func (m *MemFS) Stat(name string) (fs.FileInfo, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	e := m.ents[norm(name)]
	if e == nil {
		return nil, &fs.PathError{Op: "stat", Path: name, Err: fs.ErrNotExist}
	}
	return e.info(name), nil
}

func (m *MemFS) WriteFile(name string, data []byte, perm fs.FileMode) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ents[norm(name)] = &memEnt{data: append([]byte(nil), data...), mode: perm, mod: time.Now()}
	return nil
}

func (e *memEnt) info(name string) fileInfo {
	return fileInfo{name: path.Base(name), size: int64(len(e.data)), mode: e.mode, mod: e.mod}
}
