package core

import (
	"io/fs"
	"os"

	"github.com/halia-ca/sassy/internal/logger"
)

// FS abstracts filesystem operations for testability
type FS interface {
	MkdirAll(path string, perm os.FileMode) error
	WriteFile(name string, data []byte, perm os.FileMode) error
	ReadFile(name string) ([]byte, error)
	Stat(name string) (fs.FileInfo, error)
	Remove(name string) error
}

// Output abstracts how messages are presented to the user.
// Implementations must not fail the caller.
type Output interface {
	Write(msg Message)
}

// Exec abstracts command execution for testability
type Exec interface {
	Run(name string, args ...string) ([]byte, error)
	RunWithDir(dir, name string, args ...string) ([]byte, error)
}

// Deps holds all injectable dependencies for handlers
type Deps struct {
	FS     FS
	Output Output
	Exec   Exec
	Log    *logger.Logger
}
