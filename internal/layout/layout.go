// Package layout describes the directory tree sassy scaffolds: the project
// structure, the feature file sets and the selector tokens that pick
// feature layers.
package layout

import (
	"regexp"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// tokenPattern matches placeholder tokens such as __APPS__ or __FEAT__.
// Python dunders are lower case and never match.
var tokenPattern = regexp.MustCompile(`__[A-Z][A-Z0-9]*__`)

// File is a file to create, with optional templated content
type File struct {
	Name    string `yaml:"name"`
	Content string `yaml:"content"`
}

// UnmarshalYAML accepts either a bare file name or a name/content mapping.
func (f *File) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.ScalarNode {
		f.Name = node.Value
		f.Content = ""
		return nil
	}
	type plain File
	var p plain
	if err := node.Decode(&p); err != nil {
		return err
	}
	*f = File(p)
	return nil
}

// Struct is a named group of directories and the files created in each of
// them. Base is a path prefix below the project root.
type Struct struct {
	Name  string   `yaml:"name"`
	Base  string   `yaml:"base"`
	Dirs  []string `yaml:"dirs"`
	Files []File   `yaml:"files"`
}

// Placeholders names the tokens substituted in names and content
type Placeholders struct {
	Apps    string `yaml:"apps"`
	Feature string `yaml:"feature"`
}

// Features holds the application-side and test-side feature file sets
type Features struct {
	App  Struct `yaml:"app"`
	Test Struct `yaml:"test"`
}

// Template is a parsed layout. It is not modified after loading.
type Template struct {
	Version      int               `yaml:"version"`
	Requires     string            `yaml:"requires"`
	Placeholders Placeholders      `yaml:"placeholders"`
	Selectors    map[string]string `yaml:"selectors"`
	Structure    []Struct          `yaml:"structure"`
	Features     Features          `yaml:"features"`
}

// FeatureStructs returns the feature file sets in processing order
func (t *Template) FeatureStructs() []Struct {
	app, test := t.Features.App, t.Features.Test
	if app.Name == "" {
		app.Name = "app"
	}
	if test.Name == "" {
		test.Name = "test"
	}
	return []Struct{app, test}
}

// Layers returns every directory named by a feature struct, in order,
// without duplicates.
func (t *Template) Layers() []string {
	seen := make(map[string]bool)
	var layers []string
	for _, s := range t.FeatureStructs() {
		for _, d := range s.Dirs {
			if !seen[d] {
				seen[d] = true
				layers = append(layers, d)
			}
		}
	}
	return layers
}

// Substitution replaces placeholder tokens with concrete values in a single
// pass. Values are never expanded again.
type Substitution struct {
	r *strings.Replacer
}

// ForProject substitutes the apps placeholder
func (t *Template) ForProject(project string) Substitution {
	return newSubstitution(map[string]string{t.Placeholders.Apps: project})
}

// ForFeature substitutes both the apps and the feature placeholders
func (t *Template) ForFeature(project, feature string) Substitution {
	return newSubstitution(map[string]string{
		t.Placeholders.Apps:    project,
		t.Placeholders.Feature: feature,
	})
}

func newSubstitution(values map[string]string) Substitution {
	tokens := make([]string, 0, len(values))
	for tok := range values {
		if tok != "" {
			tokens = append(tokens, tok)
		}
	}
	sort.Strings(tokens)

	pairs := make([]string, 0, len(tokens)*2)
	for _, tok := range tokens {
		pairs = append(pairs, tok, values[tok])
	}
	return Substitution{r: strings.NewReplacer(pairs...)}
}

// Apply returns text with every token replaced
func (s Substitution) Apply(text string) string {
	if s.r == nil {
		return text
	}
	return s.r.Replace(text)
}

// Unresolved returns the placeholder tokens still present in text
func Unresolved(text string) []string {
	return tokenPattern.FindAllString(text, -1)
}

// HasToken reports whether text contains a placeholder token
func HasToken(text string) bool {
	return tokenPattern.MatchString(text)
}

// unknownPlaceholder returns the first token used in the template that the
// engine would not substitute, and the struct it appears in.
func (t *Template) unknownPlaceholder() (token, where string) {
	projectOnly := map[string]bool{t.Placeholders.Apps: true}
	feature := map[string]bool{t.Placeholders.Apps: true, t.Placeholders.Feature: true}

	for _, s := range t.Structure {
		if tok := unknownToken(s, projectOnly); tok != "" {
			return tok, "structure " + s.Name
		}
	}
	for _, s := range t.FeatureStructs() {
		if tok := unknownToken(s, feature); tok != "" {
			return tok, "feature " + s.Name
		}
	}
	return "", ""
}

func unknownToken(s Struct, allowed map[string]bool) string {
	texts := []string{s.Base}
	texts = append(texts, s.Dirs...)
	for _, f := range s.Files {
		texts = append(texts, f.Name, f.Content)
	}
	for _, text := range texts {
		for _, tok := range Unresolved(text) {
			if !allowed[tok] {
				return tok
			}
		}
	}
	return ""
}
