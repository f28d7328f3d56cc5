package adapters

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/halia-ca/sassy/internal/core"
)

// Ensure implementations satisfy interface
var (
	_ core.FS = (*OSFS)(nil)
	_ core.FS = (*MemoryFS)(nil)
)

// OSFS implements core.FS using the real filesystem
type OSFS struct {
	root string // optional root directory for relative paths
}

// NewOSFS creates a filesystem adapter for the real OS filesystem
func NewOSFS(root string) *OSFS {
	return &OSFS{root: root}
}

func (f *OSFS) path(name string) string {
	if f.root != "" && !filepath.IsAbs(name) {
		return filepath.Join(f.root, name)
	}
	return name
}

func (f *OSFS) MkdirAll(path string, perm os.FileMode) error {
	return os.MkdirAll(f.path(path), perm)
}

func (f *OSFS) WriteFile(name string, data []byte, perm os.FileMode) error {
	return os.WriteFile(f.path(name), data, perm)
}

func (f *OSFS) ReadFile(name string) ([]byte, error) {
	return os.ReadFile(f.path(name))
}

func (f *OSFS) Stat(name string) (fs.FileInfo, error) {
	return os.Stat(f.path(name))
}

func (f *OSFS) Remove(name string) error {
	return os.Remove(f.path(name))
}

// MemoryFS implements core.FS using an in-memory filesystem for testing.
// The current directory "." always exists. Paths registered with Fail make
// every mutating call on them return the given error; FailStat does the
// same for Stat.
type MemoryFS struct {
	mu         sync.RWMutex
	files      map[string]*memFile
	dirs       map[string]bool
	faults     map[string]error
	statFaults map[string]error
}

type memFile struct {
	data    []byte
	mode    os.FileMode
	modTime time.Time
}

// NewMemoryFS creates an in-memory filesystem for testing
func NewMemoryFS() *MemoryFS {
	return &MemoryFS{
		files:      make(map[string]*memFile),
		dirs:       make(map[string]bool),
		faults:     make(map[string]error),
		statFaults: make(map[string]error),
	}
}

// Fail makes MkdirAll, WriteFile and Remove on path return err
func (f *MemoryFS) Fail(path string, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.faults[filepath.Clean(path)] = err
}

// FailStat makes Stat on path return err
func (f *MemoryFS) FailStat(path string, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.statFaults[filepath.Clean(path)] = err
}

func (f *MemoryFS) fault(op, name string) error {
	if err, ok := f.faults[name]; ok {
		return &fs.PathError{Op: op, Path: name, Err: err}
	}
	return nil
}

func (f *MemoryFS) isDir(name string) bool {
	return name == "." || name == string(filepath.Separator) || f.dirs[name]
}

func (f *MemoryFS) MkdirAll(path string, perm os.FileMode) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	path = filepath.Clean(path)
	if err := f.fault("mkdir", path); err != nil {
		return err
	}

	// Build all parent paths
	current := ""
	if filepath.IsAbs(path) {
		current = string(filepath.Separator)
	}
	var created []string
	for _, part := range strings.Split(path, string(filepath.Separator)) {
		if part == "" || part == "." {
			continue
		}
		current = filepath.Join(current, part)
		if _, ok := f.files[current]; ok {
			return &fs.PathError{Op: "mkdir", Path: current, Err: errors.New("not a directory")}
		}
		if !f.dirs[current] {
			created = append(created, current)
		}
	}
	for _, d := range created {
		f.dirs[d] = true
	}
	return nil
}

func (f *MemoryFS) WriteFile(name string, data []byte, perm os.FileMode) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	name = filepath.Clean(name)
	if err := f.fault("open", name); err != nil {
		return err
	}
	if f.dirs[name] {
		return &fs.PathError{Op: "open", Path: name, Err: errors.New("is a directory")}
	}
	if !f.isDir(filepath.Dir(name)) {
		return &fs.PathError{Op: "open", Path: name, Err: fs.ErrNotExist}
	}

	f.files[name] = &memFile{
		data:    append([]byte(nil), data...), // copy data
		mode:    perm,
		modTime: time.Now(),
	}
	return nil
}

func (f *MemoryFS) ReadFile(name string) ([]byte, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()

	name = filepath.Clean(name)
	file, ok := f.files[name]
	if !ok {
		return nil, &fs.PathError{Op: "open", Path: name, Err: fs.ErrNotExist}
	}
	return append([]byte(nil), file.data...), nil // copy data
}

func (f *MemoryFS) Stat(name string) (fs.FileInfo, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()

	name = filepath.Clean(name)
	if err, ok := f.statFaults[name]; ok {
		return nil, &fs.PathError{Op: "stat", Path: name, Err: err}
	}

	if file, ok := f.files[name]; ok {
		return &memFileInfo{name: filepath.Base(name), file: file, isDir: false}, nil
	}

	if f.isDir(name) {
		return &memFileInfo{name: filepath.Base(name), file: nil, isDir: true}, nil
	}

	return nil, &fs.PathError{Op: "stat", Path: name, Err: fs.ErrNotExist}
}

func (f *MemoryFS) Remove(name string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	name = filepath.Clean(name)
	if err := f.fault("remove", name); err != nil {
		return err
	}
	if _, ok := f.files[name]; ok {
		delete(f.files, name)
		return nil
	}
	if f.dirs[name] {
		prefix := name + string(filepath.Separator)
		for p := range f.files {
			if strings.HasPrefix(p, prefix) {
				return &fs.PathError{Op: "remove", Path: name, Err: errors.New("directory not empty")}
			}
		}
		for d := range f.dirs {
			if strings.HasPrefix(d, prefix) {
				return &fs.PathError{Op: "remove", Path: name, Err: errors.New("directory not empty")}
			}
		}
		delete(f.dirs, name)
		return nil
	}
	return &fs.PathError{Op: "remove", Path: name, Err: fs.ErrNotExist}
}

// Files returns all files in the memory filesystem (for test assertions)
func (f *MemoryFS) Files() map[string][]byte {
	f.mu.RLock()
	defer f.mu.RUnlock()

	result := make(map[string][]byte)
	for name, file := range f.files {
		result[name] = append([]byte(nil), file.data...)
	}
	return result
}

// Dirs returns all directories in the memory filesystem, sorted (for test assertions)
func (f *MemoryFS) Dirs() []string {
	f.mu.RLock()
	defer f.mu.RUnlock()

	result := make([]string, 0, len(f.dirs))
	for dir := range f.dirs {
		result = append(result, dir)
	}
	sort.Strings(result)
	return result
}

type memFileInfo struct {
	name  string
	file  *memFile
	isDir bool
}

func (fi *memFileInfo) Name() string { return fi.name }
func (fi *memFileInfo) IsDir() bool  { return fi.isDir }
func (fi *memFileInfo) Mode() os.FileMode {
	if fi.isDir {
		return os.ModeDir | 0755
	}
	if fi.file != nil {
		return fi.file.mode
	}
	return 0644
}
func (fi *memFileInfo) ModTime() time.Time {
	if fi.file != nil {
		return fi.file.modTime
	}
	return time.Time{}
}
func (fi *memFileInfo) Size() int64 {
	if fi.file != nil {
		return int64(len(fi.file.data))
	}
	return 0
}
func (fi *memFileInfo) Sys() any { return nil }
