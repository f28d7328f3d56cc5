package core

import (
	"fmt"
	"strings"
)

// Severity categorizes a Message. Catalog codes follow the same order:
// INFO 1xx, WARNING 2xx, ERROR 3xx, FATAL 4xx.
type Severity int

const (
	SeverityInfo Severity = iota + 1
	SeverityWarning
	SeverityError
	SeverityFatal
)

func (s Severity) String() string {
	switch s {
	case SeverityInfo:
		return "INFO"
	case SeverityWarning:
		return "WARNING"
	case SeverityError:
		return "ERROR"
	case SeverityFatal:
		return "FATAL"
	default:
		return "UNKNOWN"
	}
}

// ParseSeverity maps a severity name to a Severity. Unknown names map to
// SeverityInfo.
func ParseSeverity(name string) Severity {
	switch strings.ToUpper(strings.TrimSpace(name)) {
	case "WARNING", "WARN":
		return SeverityWarning
	case "ERROR":
		return SeverityError
	case "FATAL", "CRITICAL":
		return SeverityFatal
	default:
		return SeverityInfo
	}
}

// Message is a structured, human-readable status. Values are never mutated
// after construction; use WithDetail to derive a new one.
type Message struct {
	Severity Severity `json:"severity"`
	Code     int      `json:"code"`
	Text     string   `json:"text"`
}

// WithDetail returns a copy of m with err appended to the text.
func (m Message) WithDetail(err error) Message {
	if err == nil {
		return m
	}
	m.Text = fmt.Sprintf("%s %v", m.Text, err)
	return m
}

// Failed reports whether the message is an ERROR or FATAL.
func (m Message) Failed() bool {
	return m.Severity >= SeverityError
}

func (m Message) String() string {
	return fmt.Sprintf("(%d,%s,%s)", m.Code, m.Severity, m.Text)
}

// Result is the outcome of one operation. OK is true only when the
// operation performed its mutation.
type Result struct {
	OK      bool
	Message Message
}

// Report collects the Results of a batch, in the order they were produced.
type Report struct {
	Results []Result
}

// Add appends r to the report.
func (r *Report) Add(res Result) {
	r.Results = append(r.Results, res)
}

// Failed reports whether any Result carries an ERROR or FATAL message.
func (r *Report) Failed() bool {
	return r.Count(SeverityError)+r.Count(SeverityFatal) > 0
}

// Count returns the number of Results with the given severity.
func (r *Report) Count(s Severity) int {
	n := 0
	for _, res := range r.Results {
		if res.Message.Severity == s {
			n++
		}
	}
	return n
}

// Codes returns the message codes in order, mostly for assertions.
func (r *Report) Codes() []int {
	codes := make([]int, 0, len(r.Results))
	for _, res := range r.Results {
		codes = append(codes, res.Message.Code)
	}
	return codes
}
