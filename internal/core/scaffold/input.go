package scaffold

import (
	"errors"
	"fmt"
	"strings"
	"unicode"

	"github.com/halia-ca/sassy/internal/layout"
)

// Action selects what Run does with an Input
type Action string

const (
	ActionCreate Action = "create"
	ActionDelete Action = "delete"
)

// ErrInvalidInput is wrapped by every validation failure
var ErrInvalidInput = errors.New("invalid input")

// Field defines a single input field with validation rules
type Field struct {
	Name        string
	Description string
	Required    bool
	ValidValues []string
}

// fields defines all input fields - single source of truth for validation + wizard
var fields = []Field{
	{
		Name:        "project",
		Description: "Project name",
		Required:    true,
	},
	{
		Name:        "action",
		Description: "What to do",
		Required:    true,
		ValidValues: []string{string(ActionCreate), string(ActionDelete)},
	},
	{
		Name:        "feature",
		Description: "Feature name",
	},
}

// Input holds one scaffolding request
type Input struct {
	Project   string
	Feature   string
	Action    Action
	Selectors []string
}

// Fields returns field definitions, used for wizard prompts
func Fields() []Field {
	return fields
}

// Validate validates input and returns errors for invalid fields
func Validate(input Input) error {
	var errs []string

	for _, f := range fields {
		val := strings.TrimSpace(getFieldValue(input, f.Name))

		if f.Required && val == "" {
			errs = append(errs, fmt.Sprintf("%s is required", f.Name))
			continue
		}
		if val == "" {
			continue
		}

		if f.Name == "project" || f.Name == "feature" {
			if msg := checkName(val); msg != "" {
				errs = append(errs, fmt.Sprintf("%s %s", f.Name, msg))
				continue
			}
		}

		if len(f.ValidValues) > 0 && !contains(f.ValidValues, val) {
			errs = append(errs, fmt.Sprintf("%s must be one of: %v", f.Name, f.ValidValues))
		}
	}

	if input.Action == ActionDelete && strings.TrimSpace(input.Feature) == "" {
		errs = append(errs, "feature is required to delete")
	}

	if len(errs) > 0 {
		return fmt.Errorf("%w: %s", ErrInvalidInput, strings.Join(errs, "; "))
	}
	return nil
}

func checkName(val string) string {
	if val == "." || val == ".." {
		return "must name a directory"
	}
	if SanitizeName(val) != val {
		return "contains invalid characters"
	}
	if layout.HasToken(val) {
		return "must not contain a placeholder token"
	}
	return ""
}

// SanitizeName removes characters that are invalid in file names on most
// filesystems.
func SanitizeName(name string) string {
	invalidChars := "/\\:*?\"<>|\x00"

	var result strings.Builder
	for _, r := range name {
		if !strings.ContainsRune(invalidChars, r) && !unicode.IsControl(r) {
			result.WriteRune(r)
		}
	}
	return result.String()
}

// NormalizeFeature lower-cases a feature name and replaces dashes with
// underscores, so "Billing-Report" becomes "billing_report".
func NormalizeFeature(name string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(name)), "-", "_")
}

// WithDefaults trims every field and defaults the action to create
func WithDefaults(input Input) Input {
	input.Project = strings.TrimSpace(input.Project)
	input.Feature = strings.TrimSpace(input.Feature)
	if input.Action == "" {
		input.Action = ActionCreate
	}
	return input
}

func getFieldValue(input Input, name string) string {
	switch name {
	case "project":
		return input.Project
	case "action":
		return string(input.Action)
	case "feature":
		return input.Feature
	default:
		return ""
	}
}

func contains(values []string, v string) bool {
	for _, s := range values {
		if s == v {
			return true
		}
	}
	return false
}
