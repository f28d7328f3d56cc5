package create

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/halia-ca/sassy/internal/core/scaffold"
)

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			m.Cancelled = true
			return m, tea.Quit
		case "enter":
			return m.nextStep()
		case "up", "k":
			if !m.typing() {
				return m.moveCursor(-1), nil
			}
		case "down", "j":
			if !m.typing() {
				return m.moveCursor(1), nil
			}
		case " ":
			if m.Step == StepLayers && len(m.Layers) > 0 {
				m.Layers[m.Cursor].Selected = !m.Layers[m.Cursor].Selected
				return m, nil
			}
		}
	}

	var cmd tea.Cmd
	switch m.Step {
	case StepProject:
		m.Project, cmd = m.Project.Update(msg)
	case StepFeature:
		m.Feature, cmd = m.Feature.Update(msg)
	}
	return m, cmd
}

// typing reports whether keys go to a text input
func (m Model) typing() bool {
	return m.Step == StepProject || m.Step == StepFeature
}

func (m Model) moveCursor(dir int) Model {
	switch m.Step {
	case StepAction:
		m.Action = clamp(m.Action+dir, len(choices)-1)
	case StepLayers:
		m.Cursor = clamp(m.Cursor+dir, len(m.Layers)-1)
	}
	return m
}

func clamp(v, max int) int {
	if v < 0 {
		return 0
	}
	if v > max {
		return max
	}
	return v
}

func (m Model) nextStep() (tea.Model, tea.Cmd) {
	m.Err = ""
	switch m.Step {
	case StepProject:
		if err := scaffold.Validate(scaffold.Input{Project: m.projectName(), Action: scaffold.ActionCreate}); err != nil {
			m.Err = err.Error()
			return m, nil
		}
		m.Project.Blur()
		m.Step = StepAction
	case StepAction:
		if !m.Choice().Feature {
			m.Step = StepConfirm
			return m, nil
		}
		m.Step = StepFeature
		return m, m.Feature.Focus()
	case StepFeature:
		if strings.TrimSpace(m.Feature.Value()) == "" {
			m.Err = "feature is required"
			return m, nil
		}
		if err := scaffold.Validate(m.Input()); err != nil {
			m.Err = err.Error()
			return m, nil
		}
		m.Feature.Blur()
		m.Step = StepLayers
	case StepLayers:
		if m.selectedCount() == 0 {
			m.Err = "select at least one layer"
			return m, nil
		}
		m.Step = StepConfirm
	case StepConfirm:
		m.Step = StepDone
		return m, tea.Quit
	}
	return m, nil
}

func (m Model) selectedCount() int {
	n := 0
	for _, l := range m.Layers {
		if l.Selected {
			n++
		}
	}
	return n
}
