package layout

import "strings"

// selectorPrefix marks a token that is looked up in the selector table.
// Tokens without it are taken as literal layer names.
const selectorPrefix = "*"

// Selection is the outcome of resolving selector tokens for a feature
// operation.
type Selection struct {
	// All is set when no token was given: every feature layer is selected.
	All bool
	// Dirs holds the selected layers in token order.
	Dirs []string
	// Unknown holds tokens that map to no directory.
	Unknown []string
	// NotFeature holds tokens that map to a directory feature operations
	// never touch, such as *api.
	NotFeature []string
}

// Includes reports whether dir is selected
func (s Selection) Includes(dir string) bool {
	if s.All {
		return true
	}
	for _, d := range s.Dirs {
		if d == dir {
			return true
		}
	}
	return false
}

// SplitSelectors splits a comma-separated token list, dropping blanks
func SplitSelectors(s string) []string {
	var tokens []string
	for _, tok := range strings.Split(s, ",") {
		if tok = strings.TrimSpace(tok); tok != "" {
			tokens = append(tokens, tok)
		}
	}
	return tokens
}

// Lookup returns the directory a selector token maps to
func (t *Template) Lookup(token string) (string, bool) {
	dir, ok := t.Selectors[token]
	return dir, ok
}

// Resolve maps selector tokens to feature layers. Bad tokens are reported in
// the Selection and never stop the remaining tokens from resolving.
func (t *Template) Resolve(tokens []string) Selection {
	if len(tokens) == 0 {
		return Selection{All: true}
	}

	layers := make(map[string]bool)
	for _, l := range t.Layers() {
		layers[l] = true
	}

	var sel Selection
	seen := make(map[string]bool)
	for _, tok := range tokens {
		tok = strings.TrimSpace(tok)
		if tok == "" {
			continue
		}

		dir := tok
		if strings.HasPrefix(tok, selectorPrefix) {
			mapped, ok := t.Lookup(tok)
			if !ok {
				sel.Unknown = append(sel.Unknown, tok)
				continue
			}
			if !layers[mapped] {
				sel.NotFeature = append(sel.NotFeature, tok)
				continue
			}
			dir = mapped
		} else if !layers[tok] {
			sel.Unknown = append(sel.Unknown, tok)
			continue
		}

		if !seen[dir] {
			seen[dir] = true
			sel.Dirs = append(sel.Dirs, dir)
		}
	}
	return sel
}
