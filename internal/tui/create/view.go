package create

import (
	"fmt"
	"strings"

	"github.com/halia-ca/sassy/internal/core/scaffold"
	"github.com/halia-ca/sassy/pkg/styles"
)

const title = "Sassy"

func (m Model) View() string {
	if m.Cancelled {
		return styles.Subtle.Render("Cancelled.\n")
	}

	var body string
	switch m.Step {
	case StepProject:
		body = m.viewInput(fieldLabel("project"), m.Project.View())
	case StepAction:
		labels := make([]string, len(choices))
		for i, c := range choices {
			labels[i] = c.Label
		}
		body = m.viewSection("What do you want to do?", renderOptions(labels, m.Action), "enter to continue • esc to cancel")
	case StepFeature:
		body = m.viewInput(fieldLabel("feature"), m.Feature.View())
	case StepLayers:
		body = m.viewSection("Layers:", m.renderLayers(), "space to toggle • enter to continue • esc to cancel")
	case StepConfirm:
		body = m.viewConfirm()
	case StepDone:
		return "" // Output handled by handler
	}

	if m.Err != "" {
		body += "\n\n" + styles.Failure.Render(m.Err)
	}
	return body
}

// fieldLabel returns the prompt for an input field
func fieldLabel(name string) string {
	for _, f := range scaffold.Fields() {
		if f.Name == name {
			return f.Description + ":"
		}
	}
	return name + ":"
}

func (m Model) viewInput(label, field string) string {
	return m.viewSection(label, field, "enter to continue • esc to cancel")
}

func (m Model) viewSection(label, content, help string) string {
	return fmt.Sprintf(
		"%s\n\n%s\n%s\n\n%s",
		styles.Title.Render(title),
		styles.Label.Render(label),
		content,
		styles.Subtle.Render(help),
	)
}

func (m Model) viewConfirm() string {
	input := m.Input()
	c := m.Choice()

	var b strings.Builder
	fmt.Fprintf(&b, "  Project: %s\n", input.Project)
	fmt.Fprintf(&b, "  Action:  %s\n", c.Label)
	if c.Feature {
		fmt.Fprintf(&b, "  Feature: %s\n", input.Feature)
		layers := "all"
		if len(input.Selectors) > 0 {
			layers = strings.Join(input.Selectors, ",")
		}
		fmt.Fprintf(&b, "  Layers:  %s\n", layers)
	}

	return fmt.Sprintf(
		"%s\n\n%s\n%s\n%s",
		styles.Title.Render(title),
		styles.Success.Render("Summary:"),
		b.String(),
		styles.Subtle.Render("enter to run • esc to cancel"),
	)
}

func (m Model) renderLayers() string {
	var b strings.Builder
	for i, l := range m.Layers {
		box := "[ ]"
		if l.Selected {
			box = "[x]"
		}
		line := fmt.Sprintf("%s %s (%s)", box, l.Dir, l.Token)
		if i == m.Cursor {
			b.WriteString(styles.Cursor.Render("→ "))
			b.WriteString(styles.Selected.Render(line))
		} else {
			b.WriteString("  ")
			b.WriteString(line)
		}
		if i < len(m.Layers)-1 {
			b.WriteString("\n")
		}
	}
	return b.String()
}

func renderOptions(options []string, selected int) string {
	var b strings.Builder
	for i, opt := range options {
		if i == selected {
			b.WriteString(styles.Cursor.Render("→ "))
			b.WriteString(styles.Selected.Render(opt))
		} else {
			b.WriteString("  ")
			b.WriteString(opt)
		}
		if i < len(options)-1 {
			b.WriteString("\n")
		}
	}
	return b.String()
}
