package catalog

import (
	"strings"

	"github.com/halia-ca/sassy/internal/core"
)

const placeholder = "{}"

// Service builds messages from a catalog
type Service struct {
	cat *Catalog
}

// NewService creates a message service over cat
func NewService(cat *Catalog) *Service {
	return &Service{cat: cat}
}

// Msg returns the message registered under name with extra substituted into
// its positional placeholders. An unknown name yields the error_msg entry
// naming it.
func (s *Service) Msg(name string, extra ...string) core.Message {
	entry, ok := s.lookup(name)
	if !ok {
		entry, ok = s.lookup(ErrorMsg)
		extra = []string{name}
		if !ok {
			return core.Message{
				Severity: core.SeverityError,
				Code:     300,
				Text:     "Unknown message name '" + name + "'!",
			}
		}
	}

	return core.Message{
		Severity: s.cat.Severity(entry.Code),
		Code:     entry.Code,
		Text:     format(entry.Text, extra),
	}
}

func (s *Service) lookup(name string) (Entry, bool) {
	if s == nil || s.cat == nil {
		return Entry{}, false
	}
	return s.cat.Lookup(name)
}

// format fills each {} in text with the next extra value. Placeholders left
// without a value are dropped, along with their quotes when nothing at all
// was supplied.
func format(text string, extra []string) string {
	if len(extra) == 0 {
		text = strings.ReplaceAll(text, "'"+placeholder+"' ", "")
	}

	parts := strings.Split(text, placeholder)
	var b strings.Builder
	for i, part := range parts {
		b.WriteString(part)
		if i < len(parts)-1 && i < len(extra) {
			b.WriteString(extra[i])
		}
	}
	return b.String()
}
