package styles

import "github.com/charmbracelet/lipgloss"

var (
	Title = lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("205"))

	Label = lipgloss.NewStyle().
		Foreground(lipgloss.Color("252"))

	Subtle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("241"))

	Selected = lipgloss.NewStyle().
		Foreground(lipgloss.Color("205")).
		Bold(true)

	Cursor = lipgloss.NewStyle().
		Foreground(lipgloss.Color("205"))

	Success = lipgloss.NewStyle().
		Foreground(lipgloss.Color("82"))

	Failure = lipgloss.NewStyle().
		Foreground(lipgloss.Color("196"))
)

// Severity colours for status lines
var (
	InfoColor    = lipgloss.Color("82")
	WarningColor = lipgloss.Color("214")
	ErrorColor   = lipgloss.Color("196")
	FatalColor   = lipgloss.Color("201")
)

// Severity returns the style for a severity name, bound to renderer r so
// colour follows r's terminal. Unknown names render unstyled.
func Severity(r *lipgloss.Renderer, name string) lipgloss.Style {
	s := r.NewStyle()
	switch name {
	case "INFO":
		return s.Foreground(InfoColor)
	case "WARNING":
		return s.Foreground(WarningColor)
	case "ERROR":
		return s.Foreground(ErrorColor)
	case "FATAL":
		return s.Foreground(FatalColor).Bold(true)
	default:
		return s
	}
}
