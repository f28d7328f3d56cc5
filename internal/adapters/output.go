package adapters

import (
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/lipgloss"
	json "github.com/goccy/go-json"
	"github.com/google/uuid"

	"github.com/halia-ca/sassy/internal/core"
	"github.com/halia-ca/sassy/pkg/styles"
)

// Ensure implementations satisfy interface
var (
	_ core.Output = (*StyledOutput)(nil)
	_ core.Output = (*JSONOutput)(nil)
	_ core.Output = (*BufferOutput)(nil)
)

// Output formats accepted by NewOutput
const (
	FormatText = "text"
	FormatJSON = "json"
)

// TimeLayout is the timestamp format of status lines
const TimeLayout = "2006-01-02 15:04:05"

// NewOutput returns the output adapter for format. Messages below level are
// dropped.
func NewOutput(format string, w io.Writer, level core.Severity) (core.Output, error) {
	switch strings.ToLower(format) {
	case "", FormatText:
		return NewStyledOutput(w, level), nil
	case FormatJSON:
		return NewJSONOutput(w, level), nil
	default:
		return nil, fmt.Errorf("unknown output format %q (want %s or %s)", format, FormatText, FormatJSON)
	}
}

// StyledOutput writes one coloured line per message:
//
//	2024-01-02 15:04:05 INFO     [101] File 'shop/README.md' successfully created!
type StyledOutput struct {
	mu  sync.Mutex
	w   io.Writer
	r   *lipgloss.Renderer
	min core.Severity
	now func() time.Time
}

// NewStyledOutput creates a status-line writer. Colour is only emitted when
// w is a terminal.
func NewStyledOutput(w io.Writer, level core.Severity) *StyledOutput {
	return &StyledOutput{
		w:   w,
		r:   lipgloss.NewRenderer(w),
		min: level,
		now: time.Now,
	}
}

// WithClock replaces the timestamp source, for tests
func (o *StyledOutput) WithClock(now func() time.Time) *StyledOutput {
	o.now = now
	return o
}

func (o *StyledOutput) Write(msg core.Message) {
	if msg.Severity < o.min {
		return
	}
	o.mu.Lock()
	defer o.mu.Unlock()
	defer func() { _ = recover() }()

	name := msg.Severity.String()
	pad := ""
	if n := 8 - len(name); n > 0 {
		pad = strings.Repeat(" ", n)
	}
	level := styles.Severity(o.r, name).Render(name) + pad
	_, _ = fmt.Fprintf(o.w, "%s %s [%d] %s\n", o.now().Format(TimeLayout), level, msg.Code, msg.Text)
}

// JSONOutput writes one JSON object per line, tagged with a per-run id
type JSONOutput struct {
	mu    sync.Mutex
	enc   *json.Encoder
	min   core.Severity
	runID string
	now   func() time.Time
}

type jsonRecord struct {
	RunID    string `json:"run_id"`
	Time     string `json:"time"`
	Severity string `json:"severity"`
	Code     int    `json:"code"`
	Text     string `json:"text"`
}

// NewJSONOutput creates output adapter for JSON
func NewJSONOutput(w io.Writer, level core.Severity) *JSONOutput {
	return &JSONOutput{
		enc:   json.NewEncoder(w),
		min:   level,
		runID: uuid.NewString(),
		now:   time.Now,
	}
}

// RunID returns the id stamped on every record of this run
func (o *JSONOutput) RunID() string {
	return o.runID
}

func (o *JSONOutput) Write(msg core.Message) {
	if msg.Severity < o.min {
		return
	}
	o.mu.Lock()
	defer o.mu.Unlock()
	defer func() { _ = recover() }()

	_ = o.enc.Encode(jsonRecord{
		RunID:    o.runID,
		Time:     o.now().UTC().Format(time.RFC3339),
		Severity: msg.Severity.String(),
		Code:     msg.Code,
		Text:     msg.Text,
	})
}

// BufferOutput collects messages for testing
type BufferOutput struct {
	mu       sync.Mutex
	Messages []core.Message
}

// NewBufferOutput creates output adapter that buffers messages for testing
func NewBufferOutput() *BufferOutput {
	return &BufferOutput{
		Messages: make([]core.Message, 0),
	}
}

func (o *BufferOutput) Write(msg core.Message) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.Messages = append(o.Messages, msg)
}

// Last returns the last message or nil
func (o *BufferOutput) Last() *core.Message {
	o.mu.Lock()
	defer o.mu.Unlock()
	if len(o.Messages) == 0 {
		return nil
	}
	return &o.Messages[len(o.Messages)-1]
}

// Codes returns the codes of all messages in write order
func (o *BufferOutput) Codes() []int {
	o.mu.Lock()
	defer o.mu.Unlock()
	codes := make([]int, len(o.Messages))
	for i, m := range o.Messages {
		codes[i] = m.Code
	}
	return codes
}

// HasSeverity returns true if any message of severity s was written
func (o *BufferOutput) HasSeverity(s core.Severity) bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	for _, m := range o.Messages {
		if m.Severity == s {
			return true
		}
	}
	return false
}
