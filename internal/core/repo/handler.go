// Package repo turns a freshly scaffolded project into a git repository
// with a single initial commit.
package repo

import (
	"errors"
	"io/fs"
	"path/filepath"

	"github.com/halia-ca/sassy/internal/adapters"
	"github.com/halia-ca/sassy/internal/catalog"
	"github.com/halia-ca/sassy/internal/core"
	"github.com/halia-ca/sassy/internal/logger"
)

const (
	GitDir               = ".git"
	InitialCommitMessage = "Initial commit."
)

// Identity is the author recorded on the initial commit. Empty fields fall
// back to the user's git configuration.
type Identity struct {
	Name  string
	Email string
}

// Initializer creates the repository for a project root
type Initializer struct {
	deps core.Deps
	msg  *catalog.Service
	git  *adapters.Git
	id   Identity
	log  *logger.Logger
}

// NewInitializer creates an initializer running git through deps.Exec
func NewInitializer(deps core.Deps, msg *catalog.Service, id Identity) *Initializer {
	log := deps.Log
	if log == nil {
		log = logger.NewNopLogger()
	}
	return &Initializer{
		deps: deps,
		msg:  msg,
		git:  adapters.NewGit(deps.Exec),
		id:   id,
		log:  log,
	}
}

// Init initializes a repository in path and commits everything below it.
// An existing repository is left untouched.
func (i *Initializer) Init(path string) (res core.Result) {
	defer func() {
		if r := recover(); r != nil {
			i.log.Error("repository init panicked", "path", path, "panic", r)
			res = core.Result{Message: i.msg.Msg(catalog.RepoInitFailed, path)}
		}
	}()

	if _, err := i.deps.FS.Stat(filepath.Join(path, GitDir)); err == nil {
		return core.Result{Message: i.msg.Msg(catalog.RepoExists, path)}
	} else if !errors.Is(err, fs.ErrNotExist) {
		return i.failed(path, err)
	}

	steps := []func() error{
		func() error { return i.git.Init(path) },
		func() error { return i.git.AddAll(path) },
		func() error { return i.git.Commit(path, InitialCommitMessage, i.id.Name, i.id.Email) },
	}
	for _, step := range steps {
		if err := step(); err != nil {
			return i.failed(path, err)
		}
	}

	hash, err := i.git.HeadCommit(path)
	if err != nil {
		return i.failed(path, err)
	}

	i.log.Debug("repository initialized", "path", path, "commit", hash)
	return core.Result{OK: true, Message: i.msg.Msg(catalog.RepoInitOK, path, hash)}
}

func (i *Initializer) failed(path string, err error) core.Result {
	i.log.Warn("repository init failed", "path", path, "error", err)
	return core.Result{Message: i.msg.Msg(catalog.RepoInitFailed, path).WithDetail(err)}
}
