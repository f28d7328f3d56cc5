// Package scaffold builds the project structure and adds or removes feature
// files. Every filesystem mutation yields one core.Result; I/O failures are
// reported, never returned.
package scaffold

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/halia-ca/sassy/internal/catalog"
	"github.com/halia-ca/sassy/internal/core"
	"github.com/halia-ca/sassy/internal/core/repo"
	"github.com/halia-ca/sassy/internal/layout"
	"github.com/halia-ca/sassy/internal/logger"
)

// Config holds the per-run settings of a Handler
type Config struct {
	// Root is the directory projects are created in. Empty means the
	// current directory.
	Root string
	// Identity is the author of the initial commit
	Identity repo.Identity
}

// Handler executes scaffolding operations
type Handler struct {
	deps core.Deps
	tmpl *layout.Template
	msg  *catalog.Service
	repo *repo.Initializer
	log  *logger.Logger
	root string
}

// NewHandler creates a new scaffolding handler with dependencies
func NewHandler(deps core.Deps, tmpl *layout.Template, msg *catalog.Service, cfg Config) *Handler {
	if deps.Log == nil {
		deps.Log = logger.NewNopLogger()
	}
	return &Handler{
		deps: deps,
		tmpl: tmpl,
		msg:  msg,
		repo: repo.NewInitializer(deps, msg, cfg.Identity),
		log:  deps.Log,
		root: cfg.Root,
	}
}

// Run validates input and dispatches to the matching operation
func (h *Handler) Run(input Input) (*core.Report, error) {
	input = WithDefaults(input)
	if err := Validate(input); err != nil {
		return nil, err
	}

	switch {
	case input.Action == ActionDelete:
		return h.DeleteFeature(input.Project, input.Feature, input.Selectors)
	case input.Feature != "":
		return h.CreateFeature(input.Project, input.Feature, input.Selectors)
	default:
		return h.CreateStructure(input.Project)
	}
}

// ProjectPath returns the directory project is scaffolded in
func (h *Handler) ProjectPath(project string) string {
	return join(h.root, project)
}

// CreateStructure materializes every Struct of the template below the
// project root, then initializes the repository.
func (h *Handler) CreateStructure(project string) (*core.Report, error) {
	project = strings.TrimSpace(project)
	if err := Validate(Input{Project: project, Action: ActionCreate}); err != nil {
		return nil, err
	}

	b := &batch{out: h.deps.Output, report: &core.Report{}}
	sub := h.tmpl.ForProject(project)
	root := h.ProjectPath(project)
	h.log.Debug("creating structure", "project", project, "root", root)

	for _, s := range h.tmpl.Structure {
		dirs := s.Dirs
		if len(dirs) == 0 {
			dirs = []string{""}
		}
		for _, d := range dirs {
			dir := join(root, sub.Apply(s.Base), sub.Apply(d))
			if res, bad := h.unresolved(dir, dir); bad {
				b.add(res)
			} else {
				b.add(h.createDir(dir))
			}

			// files below a failed dir still report, as 301
			for _, f := range s.Files {
				path := join(dir, sub.Apply(f.Name))
				content := sub.Apply(f.Content)
				if res, bad := h.unresolved(path, path, content); bad {
					b.add(res)
					continue
				}
				b.add(h.createFile(path, content))
			}
		}
	}

	if n := b.failures(); n > 0 {
		b.add(h.notOK(catalog.StructureCreateFailed, strconv.Itoa(n)))
	} else {
		b.add(h.ok(catalog.StructureCreateOK))
	}

	b.add(h.repo.Init(root))
	return b.report, nil
}

// CreateFeature adds the feature's files to every selected layer, along with
// the mirrored test files.
func (h *Handler) CreateFeature(project, feature string, selectors []string) (*core.Report, error) {
	return h.eachFeatureFile(project, feature, selectors, func(b *batch, path, content string) {
		if res, created := h.ensureDir(parentDir(path)); created {
			b.add(res)
		}
		b.add(h.createFile(path, content))
	})
}

// DeleteFeature removes the feature's files from every selected layer.
// Directories are kept.
func (h *Handler) DeleteFeature(project, feature string, selectors []string) (*core.Report, error) {
	return h.eachFeatureFile(project, feature, selectors, func(b *batch, path, _ string) {
		b.add(h.deleteFile(path))
	})
}

// eachFeatureFile resolves selectors, reports bad tokens and calls fn for
// every feature file in the selected layers.
func (h *Handler) eachFeatureFile(project, feature string, selectors []string, fn func(b *batch, path, content string)) (*core.Report, error) {
	project, feature = strings.TrimSpace(project), strings.TrimSpace(feature)
	if err := Validate(Input{Project: project, Feature: feature, Action: ActionCreate}); err != nil {
		return nil, err
	}
	if feature == "" {
		return nil, fmt.Errorf("%w: feature is required", ErrInvalidInput)
	}

	b := &batch{out: h.deps.Output, report: &core.Report{}}
	feature = NormalizeFeature(feature)
	sel := h.tmpl.Resolve(selectors)
	for _, tok := range sel.Unknown {
		b.add(h.notOK(catalog.KeywordMissing, tok))
	}
	for _, tok := range sel.NotFeature {
		b.add(h.notOK(catalog.KeywordNotFeature, tok))
	}
	h.log.Debug("feature layers resolved", "project", project, "feature", feature,
		"all", sel.All, "dirs", sel.Dirs)

	sub := h.tmpl.ForFeature(project, feature)
	root := h.ProjectPath(project)
	for _, s := range h.tmpl.FeatureStructs() {
		for _, d := range s.Dirs {
			if !sel.Includes(d) {
				continue
			}
			for _, f := range s.Files {
				path := join(root, sub.Apply(s.Base), sub.Apply(d), sub.Apply(f.Name))
				content := sub.Apply(f.Content)
				if res, bad := h.unresolved(path, path, content); bad {
					b.add(res)
					continue
				}
				fn(b, path, content)
			}
		}
	}
	return b.report, nil
}
