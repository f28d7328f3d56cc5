package sassy

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/halia-ca/sassy/internal/adapters"
	"github.com/halia-ca/sassy/internal/catalog"
	"github.com/halia-ca/sassy/internal/core"
	"github.com/halia-ca/sassy/internal/core/repo"
	"github.com/halia-ca/sassy/internal/core/scaffold"
	"github.com/halia-ca/sassy/internal/layout"
	"github.com/halia-ca/sassy/internal/logger"
	"github.com/halia-ca/sassy/internal/settings"
)

// Version is the tool version checked against a template's requires
// constraint. Overridden at build time with -ldflags.
var Version = "1.0.0"

// ErrFailed is returned when at least one operation reported an ERROR or
// FATAL message. The messages themselves have already been written.
var ErrFailed = errors.New("one or more operations failed")

// Env holds the process-level dependencies of a run
type Env struct {
	FS     core.FS
	Exec   core.Exec
	Stdout io.Writer
	Stderr io.Writer
	// Interactive reports whether the wizard may run
	Interactive func() bool
	// Wizard collects an Input from the user
	Wizard func(tmpl *layout.Template) (scaffold.Input, error)
}

// DefaultEnv returns the environment of a real run
func DefaultEnv() Env {
	return Env{
		FS:          adapters.NewOSFS(""),
		Exec:        adapters.NewOSExec(),
		Stdout:      os.Stdout,
		Stderr:      os.Stderr,
		Interactive: isTerminal,
		Wizard:      runWizard,
	}
}

type options struct {
	create       bool
	delete       bool
	config       string
	showTemplate bool
}

// NewRootCmd builds the sassy command over env
func NewRootCmd(env Env) *cobra.Command {
	var opts options

	cmd := &cobra.Command{
		Use:   "sassy <project> [feature] [selectors]",
		Short: "Sassy - clean architecture project scaffolder",
		Long: `Scaffold a clean architecture project, then add or remove feature files.

Modes:
  Interactive (no arguments on a terminal): wizard
  Project:  sassy <project> --create
  Feature:  sassy <project> <feature> --create|--delete [selectors]

Selectors are comma-separated tokens picking feature layers:
  *a applications  *d domains  *i interfaces  *p providers
No selector means every layer.

Examples:
  sassy shop --create
  sassy shop billing --create *a,*d
  sassy shop billing --delete`,
		Version:       Version,
		Args:          cobra.MaximumNArgs(3),
		SilenceUsage:  true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, env, opts, args)
		},
	}
	cmd.SetOut(env.Stdout)
	cmd.SetErr(env.Stderr)

	f := cmd.Flags()
	f.BoolVarP(&opts.create, "create", "c", false, "Create the project structure or a feature")
	f.BoolVarP(&opts.delete, "delete", "d", false, "Delete a feature's files")
	f.String(settings.KeyPath, ".", "Directory projects are created in")
	f.String(settings.KeyTemplate, "", "Layout template file (default: built-in)")
	f.String(settings.KeyMessages, "", "Message catalog file (default: built-in)")
	f.String(settings.KeyOutput, adapters.FormatText, "Output format (text, json)")
	f.BoolP(settings.KeyQuiet, "q", false, "Only show warnings and errors")
	f.String(settings.KeyLogLevel, logger.LevelOff, "Diagnostic log level (off, debug, info, warn, error)")
	f.StringVar(&opts.config, "config", "", "Config file (default: ~/.sassy/config.yaml)")
	f.BoolVar(&opts.showTemplate, "show-template", false, "Print the built-in layout template and exit")
	cmd.MarkFlagsMutuallyExclusive("create", "delete")

	return cmd
}

// Execute runs the sassy command for the current process
func Execute() error {
	return NewRootCmd(DefaultEnv()).Execute()
}

func run(cmd *cobra.Command, env Env, opts options, args []string) error {
	if opts.showTemplate {
		_, err := env.Stdout.Write(layout.DefaultData())
		return err
	}

	s, err := settings.Load(opts.config, cmd.Flags())
	if err != nil {
		return err
	}

	log, err := logger.NewLogger(s.LogLevel)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	level := core.SeverityInfo
	if s.Quiet {
		level = core.SeverityWarning
	}
	w := env.Stderr
	if s.Output == adapters.FormatJSON {
		w = env.Stdout
	}
	out, err := adapters.NewOutput(s.Output, w, level)
	if err != nil {
		return err
	}

	svc, err := loadCatalog(s.Messages)
	if err != nil {
		return err
	}
	if s.Messages != "" {
		out.Write(svc.Msg(catalog.ConfigLoadOK, s.Messages))
	}

	tmpl, err := loadTemplate(s.Template)
	if err != nil {
		log.Error("template rejected", "template", s.Template, "error", err)
		out.Write(loadErrorMessage(svc, err))
		cmd.SilenceErrors = true
		return err
	}
	if s.Template != "" {
		out.Write(svc.Msg(catalog.ConfigLoadOK, s.Template))
	}

	input, err := getInput(env, opts, args, tmpl)
	if err != nil {
		return err
	}
	if input == nil {
		fmt.Fprintln(env.Stderr, "Cancelled.")
		return nil
	}

	deps := core.Deps{FS: env.FS, Output: out, Exec: env.Exec, Log: log}
	handler := scaffold.NewHandler(deps, tmpl, svc, scaffold.Config{
		Root:     s.Path,
		Identity: repo.Identity{Name: s.Git.Name, Email: s.Git.Email},
	})

	report, err := handler.Run(*input)
	if err != nil {
		return err
	}
	log.Info("run finished", "results", len(report.Results),
		"warnings", report.Count(core.SeverityWarning), "failed", report.Failed())

	if report.Failed() {
		cmd.SilenceErrors = true
		return ErrFailed
	}
	return nil
}

// getInput builds the request from arguments, or from the wizard when there
// are none. A nil Input means the user cancelled.
func getInput(env Env, opts options, args []string, tmpl *layout.Template) (*scaffold.Input, error) {
	if len(args) == 0 {
		if opts.create || opts.delete || env.Interactive == nil || !env.Interactive() || env.Wizard == nil {
			return nil, fmt.Errorf("a project name is required")
		}
		input, err := env.Wizard(tmpl)
		if errors.Is(err, errCancelled) {
			return nil, nil
		}
		if err != nil {
			return nil, err
		}
		return &input, nil
	}

	if !opts.create && !opts.delete {
		return nil, fmt.Errorf("one of --create or --delete is required")
	}

	input := scaffold.Input{Project: args[0], Action: scaffold.ActionCreate}
	if opts.delete {
		input.Action = scaffold.ActionDelete
	}
	if len(args) > 1 {
		input.Feature = args[1]
	}
	if len(args) > 2 {
		input.Selectors = layout.SplitSelectors(args[2])
	}
	if input.Action == scaffold.ActionDelete && input.Feature == "" {
		return nil, fmt.Errorf("--delete needs a feature name")
	}
	return &input, nil
}

func loadCatalog(path string) (*catalog.Service, error) {
	var (
		cat *catalog.Catalog
		err error
	)
	if path == "" {
		cat, err = catalog.Default()
	} else {
		cat, err = catalog.Load(path)
	}
	if err != nil {
		return nil, fmt.Errorf("loading message catalog: %w", err)
	}
	return catalog.NewService(cat), nil
}

func loadTemplate(path string) (*layout.Template, error) {
	if path == "" {
		return layout.Default(Version)
	}
	return layout.Load(path, Version)
}

// loadErrorMessage turns a template load failure into its FATAL message
func loadErrorMessage(svc *catalog.Service, err error) core.Message {
	var le *layout.LoadError
	if !errors.As(err, &le) {
		return svc.Msg(catalog.BadYAMLFormat, layout.DefaultSource).WithDetail(err)
	}

	name := catalog.BadYAMLFormat
	switch {
	case errors.Is(err, layout.ErrNotFound):
		name = catalog.YAMLFileNotFound
	case errors.Is(err, layout.ErrKeywordMissing):
		name = catalog.ConfigKeywordMissing
	case errors.Is(err, layout.ErrSchema):
		name = catalog.ConfigSchemaInvalid
	case errors.Is(err, layout.ErrVersion):
		name = catalog.ConfigVersionUnsupported
	case errors.Is(err, layout.ErrPlaceholder):
		name = catalog.ConfigPlaceholderUnknown
	}
	return svc.Msg(name, le.Detail).WithDetail(le.Err)
}
