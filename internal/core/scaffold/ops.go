package scaffold

import (
	"errors"
	"io/fs"
	"path/filepath"

	"github.com/halia-ca/sassy/internal/catalog"
	"github.com/halia-ca/sassy/internal/core"
	"github.com/halia-ca/sassy/internal/layout"
)

const (
	// DefaultDirPerm is the default permission for directories (0755 = rwxr-xr-x)
	DefaultDirPerm = 0755
	// DefaultFilePerm is the default permission for files (0644 = rw-r--r--)
	DefaultFilePerm = 0644
)

var (
	errNotDir = errors.New("not a directory")
	errIsDir  = errors.New("is a directory")
)

// batch collects the Results of one operation and shows each one as it is
// produced.
type batch struct {
	out    core.Output
	report *core.Report
}

func (b *batch) add(res core.Result) core.Result {
	if b.out != nil {
		b.out.Write(res.Message)
	}
	b.report.Add(res)
	return res
}

func (b *batch) failures() int {
	return b.report.Count(core.SeverityError) + b.report.Count(core.SeverityFatal)
}

func (h *Handler) ok(name string, extra ...string) core.Result {
	return core.Result{OK: true, Message: h.msg.Msg(name, extra...)}
}

func (h *Handler) notOK(name string, extra ...string) core.Result {
	return core.Result{Message: h.msg.Msg(name, extra...)}
}

// unresolved reports a leftover placeholder in any of texts. The Result
// names path.
func (h *Handler) unresolved(path string, texts ...string) (core.Result, bool) {
	for _, t := range texts {
		if tokens := layout.Unresolved(t); len(tokens) > 0 {
			h.log.Warn("unresolved placeholder", "path", path, "tokens", tokens)
			return h.notOK(catalog.PlaceholderUnresolved, path), true
		}
	}
	return core.Result{}, false
}

// createDir creates path with its parents
func (h *Handler) createDir(path string) core.Result {
	info, err := h.deps.FS.Stat(path)
	switch {
	case err == nil && info.IsDir():
		return h.notOK(catalog.DirExists, path)
	case err == nil:
		return core.Result{Message: h.msg.Msg(catalog.DirCreateFailed, path).WithDetail(errNotDir)}
	case !errors.Is(err, fs.ErrNotExist):
		return core.Result{Message: h.msg.Msg(catalog.DirCreateFailed, path).WithDetail(err)}
	}

	if err := h.deps.FS.MkdirAll(path, DefaultDirPerm); err != nil {
		h.log.Debug("mkdir failed", "path", path, "error", err)
		return core.Result{Message: h.msg.Msg(catalog.DirCreateFailed, path).WithDetail(err)}
	}
	return h.ok(catalog.DirCreateOK, path)
}

// ensureDir creates path when it is missing. A present directory yields no
// Result since nothing changes.
func (h *Handler) ensureDir(path string) (core.Result, bool) {
	if info, err := h.deps.FS.Stat(path); err == nil && info.IsDir() {
		return core.Result{}, false
	}
	return h.createDir(path), true
}

// createFile writes content to path unless a file is already there.
// Non-empty content gets a trailing newline.
func (h *Handler) createFile(path, content string) core.Result {
	info, err := h.deps.FS.Stat(path)
	switch {
	case err == nil && info.IsDir():
		return core.Result{Message: h.msg.Msg(catalog.FileCreateFailed, path).WithDetail(errIsDir)}
	case err == nil:
		return h.notOK(catalog.FileExists, path)
	case !errors.Is(err, fs.ErrNotExist):
		return core.Result{Message: h.msg.Msg(catalog.FileCreateFailed, path).WithDetail(err)}
	}

	var data []byte
	if content != "" {
		data = []byte(content + "\n")
	}
	if err := h.deps.FS.WriteFile(path, data, DefaultFilePerm); err != nil {
		h.log.Debug("write failed", "path", path, "error", err)
		return core.Result{Message: h.msg.Msg(catalog.FileCreateFailed, path).WithDetail(err)}
	}
	return h.ok(catalog.FileCreateOK, path)
}

// deleteFile removes the regular file at path. Directories are never
// removed.
func (h *Handler) deleteFile(path string) core.Result {
	info, err := h.deps.FS.Stat(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return h.notOK(catalog.FileNotExist, path)
	case err != nil:
		return core.Result{Message: h.msg.Msg(catalog.FileDeleteFailed, path).WithDetail(err)}
	case info.IsDir():
		return h.notOK(catalog.FileNotExist, path)
	}

	if err := h.deps.FS.Remove(path); err != nil {
		h.log.Debug("remove failed", "path", path, "error", err)
		return core.Result{Message: h.msg.Msg(catalog.FileDeleteFailed, path).WithDetail(err)}
	}
	return h.ok(catalog.FileDeleteOK, path)
}

func parentDir(path string) string {
	return filepath.Dir(path)
}

// join builds a path, skipping empty elements
func join(elem ...string) string {
	parts := make([]string, 0, len(elem))
	for _, e := range elem {
		if e != "" {
			parts = append(parts, e)
		}
	}
	if len(parts) == 0 {
		return "."
	}
	return filepath.Join(parts...)
}
