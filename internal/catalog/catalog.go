// Package catalog loads the message catalog and turns symbolic message names
// into core.Message values.
package catalog

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/halia-ca/sassy/internal/core"
)

//go:embed messages.yml
var defaultMessages []byte

const severityKey = "severity"

// Message names known to the default catalog.
const (
	FileCreateOK             = "file_create_ok"
	DirCreateOK              = "dir_create_ok"
	ConfigLoadOK             = "config_load_ok"
	StructureCreateOK        = "structure_create_ok"
	FileDeleteOK             = "file_delete_ok"
	RepoInitOK               = "repo_init_ok"
	FileExists               = "file_exists"
	DirExists                = "dir_exists"
	KeywordMissing           = "keyword_missing"
	FileNotExist             = "file_not_exist"
	KeywordNotFeature        = "keyword_not_feature"
	RepoExists               = "repo_exists"
	ErrorMsg                 = "error_msg"
	FileCreateFailed         = "file_create_failed"
	DirCreateFailed          = "dir_create_failed"
	FileDeleteFailed         = "file_delete_failed"
	RepoInitFailed           = "repo_init_failed"
	PlaceholderUnresolved    = "placeholder_unresolved"
	StructureCreateFailed    = "structure_create_failed"
	BadYAMLFormat            = "bad_yaml_format"
	YAMLFileNotFound         = "yaml_file_not_found"
	ConfigKeywordMissing     = "config_keyword_missing"
	ConfigSchemaInvalid      = "config_schema_invalid"
	ConfigVersionUnsupported = "config_version_unsupported"
	ConfigPlaceholderUnknown = "config_placeholder_unknown"
)

var (
	// ErrNoSeverity is returned when a catalog has no severity table
	ErrNoSeverity = errors.New("catalog has no severity table")
	// ErrNoFallback is returned when a catalog lacks the error_msg entry
	ErrNoFallback = errors.New("catalog has no " + ErrorMsg + " entry")
)

// Entry is one catalog message before substitution
type Entry struct {
	Code int    `yaml:"code"`
	Text string `yaml:"text"`
}

// Catalog maps message names to entries. The severity of an entry comes from
// the leading digit of its code.
type Catalog struct {
	severity map[int]core.Severity
	entries  map[string]Entry
}

// Default returns the catalog embedded in the binary
func Default() (*Catalog, error) {
	return Parse(defaultMessages)
}

// Load reads a catalog from a YAML file
func Load(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read message catalog %s: %w", path, err)
	}
	cat, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("message catalog %s: %w", path, err)
	}
	return cat, nil
}

// Parse decodes a YAML catalog
func Parse(data []byte) (*Catalog, error) {
	var raw map[string]yaml.Node
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("invalid YAML: %w", err)
	}

	sevNode, ok := raw[severityKey]
	if !ok {
		return nil, ErrNoSeverity
	}
	var names map[int]string
	if err := sevNode.Decode(&names); err != nil {
		return nil, fmt.Errorf("invalid %s table: %w", severityKey, err)
	}

	cat := &Catalog{
		severity: make(map[int]core.Severity, len(names)),
		entries:  make(map[string]Entry, len(raw)),
	}
	for digit, name := range names {
		cat.severity[digit] = core.ParseSeverity(name)
	}

	for name, node := range raw {
		if name == severityKey {
			continue
		}
		var e Entry
		if err := node.Decode(&e); err != nil {
			return nil, fmt.Errorf("invalid entry %q: %w", name, err)
		}
		if e.Code <= 0 || e.Text == "" {
			return nil, fmt.Errorf("entry %q needs a positive code and a text", name)
		}
		cat.entries[name] = e
	}

	if _, ok := cat.entries[ErrorMsg]; !ok {
		return nil, ErrNoFallback
	}
	return cat, nil
}

// Lookup returns the entry registered under name
func (c *Catalog) Lookup(name string) (Entry, bool) {
	e, ok := c.entries[name]
	return e, ok
}

// Severity resolves the severity of a code from its leading digit.
func (c *Catalog) Severity(code int) core.Severity {
	s := strconv.Itoa(code)
	digit, err := strconv.Atoi(s[:1])
	if err != nil {
		return core.SeverityInfo
	}
	if sev, ok := c.severity[digit]; ok {
		return sev
	}
	return core.SeverityInfo
}

// Len returns the number of entries
func (c *Catalog) Len() int {
	return len(c.entries)
}
