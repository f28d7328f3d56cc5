package layout

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/Masterminds/semver/v3"
	"gopkg.in/yaml.v3"
)

//go:embed sassy.yml
var defaultTemplate []byte

// DefaultSource names the embedded template in messages
const DefaultSource = "sassy.yml"

// Kinds of load failure. Match them with errors.Is.
var (
	ErrNotFound       = errors.New("template not found")
	ErrMalformed      = errors.New("malformed template")
	ErrKeywordMissing = errors.New("required keyword missing")
	ErrSchema         = errors.New("template does not match schema")
	ErrVersion        = errors.New("unsupported template version")
	ErrPlaceholder    = errors.New("unknown placeholder")
)

// LoadError describes why a template could not be loaded. Detail carries the
// value worth showing the user: the source, the missing keyword, the version
// constraint or the offending token.
type LoadError struct {
	Kind   error
	Source string
	Detail string
	Err    error
}

func (e *LoadError) Error() string {
	msg := fmt.Sprintf("%s: %v", e.Source, e.Kind)
	if e.Detail != "" && e.Detail != e.Source {
		msg += " (" + e.Detail + ")"
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *LoadError) Is(target error) bool { return target == e.Kind }

func (e *LoadError) Unwrap() error { return e.Err }

// required lists the keywords that must be present, as dotted paths.
var required = []string{
	"version",
	"placeholders",
	"placeholders.apps",
	"placeholders.feature",
	"selectors",
	"structure",
	"features",
	"features.app",
	"features.test",
}

// DefaultData returns the embedded template source
func DefaultData() []byte {
	return append([]byte(nil), defaultTemplate...)
}

// Default parses the embedded template
func Default(toolVersion string) (*Template, error) {
	return Parse(defaultTemplate, DefaultSource, toolVersion)
}

// Load reads and parses a template file
func Load(path, toolVersion string) (*Template, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, &LoadError{Kind: ErrNotFound, Source: path, Detail: path, Err: err}
		}
		return nil, &LoadError{Kind: ErrMalformed, Source: path, Detail: path, Err: err}
	}
	return Parse(data, path, toolVersion)
}

// Parse validates and decodes a template. toolVersion is checked against the
// template's requires constraint; an empty toolVersion skips the check.
func Parse(data []byte, source, toolVersion string) (*Template, error) {
	var raw interface{}
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, &LoadError{Kind: ErrMalformed, Source: source, Detail: source, Err: err}
	}

	doc, ok := raw.(map[string]interface{})
	if !ok {
		return nil, &LoadError{Kind: ErrMalformed, Source: source, Detail: source,
			Err: errors.New("top level must be a mapping")}
	}
	if key := missingKeyword(doc); key != "" {
		return nil, &LoadError{Kind: ErrKeywordMissing, Source: source, Detail: key}
	}

	issues, err := validateSchema(doc)
	if err != nil {
		return nil, &LoadError{Kind: ErrSchema, Source: source, Detail: source, Err: err}
	}
	if len(issues) > 0 {
		return nil, &LoadError{Kind: ErrSchema, Source: source, Detail: source, Err: issuesError(issues)}
	}

	var t Template
	if err := yaml.Unmarshal(data, &t); err != nil {
		return nil, &LoadError{Kind: ErrMalformed, Source: source, Detail: source, Err: err}
	}

	if err := checkRequires(t.Requires, toolVersion); err != nil {
		return nil, &LoadError{Kind: ErrVersion, Source: source, Detail: t.Requires, Err: err}
	}

	if tok, where := t.unknownPlaceholder(); tok != "" {
		return nil, &LoadError{Kind: ErrPlaceholder, Source: source, Detail: tok,
			Err: fmt.Errorf("used in %s", where)}
	}

	return &t, nil
}

// missingKeyword returns the first required keyword absent from doc
func missingKeyword(doc map[string]interface{}) string {
	for _, key := range required {
		if !hasPath(doc, strings.Split(key, ".")) {
			return key
		}
	}
	return ""
}

func hasPath(doc map[string]interface{}, path []string) bool {
	v, ok := doc[path[0]]
	if !ok || v == nil {
		return false
	}
	if len(path) == 1 {
		return true
	}
	child, ok := v.(map[string]interface{})
	if !ok {
		return false
	}
	return hasPath(child, path[1:])
}

func checkRequires(requires, toolVersion string) error {
	if requires == "" || toolVersion == "" {
		return nil
	}
	constraint, err := semver.NewConstraint(requires)
	if err != nil {
		return fmt.Errorf("invalid constraint %q: %w", requires, err)
	}
	v, err := semver.NewVersion(strings.TrimPrefix(toolVersion, "v"))
	if err != nil {
		return fmt.Errorf("invalid tool version %q: %w", toolVersion, err)
	}
	if ok, errs := constraint.Validate(v); !ok {
		return errors.Join(errs...)
	}
	return nil
}
