// Package create is the interactive wizard run when sassy starts on a
// terminal without arguments.
package create

import (
	"os"
	"path/filepath"
	"sort"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/halia-ca/sassy/internal/core/scaffold"
	"github.com/halia-ca/sassy/internal/layout"
)

type Step int

const (
	StepProject Step = iota
	StepAction
	StepFeature
	StepLayers
	StepConfirm
	StepDone
)

// Choice is one entry of the action menu
type Choice struct {
	Label   string
	Action  scaffold.Action
	Feature bool
}

var choices = []Choice{
	{Label: "Create project structure", Action: scaffold.ActionCreate},
	{Label: "Add a feature", Action: scaffold.ActionCreate, Feature: true},
	{Label: "Remove a feature", Action: scaffold.ActionDelete, Feature: true},
}

// Layer is a selectable feature layer
type Layer struct {
	Token    string
	Dir      string
	Selected bool
}

type Model struct {
	Step      Step
	Project   textinput.Model
	Feature   textinput.Model
	Action    int
	Layers    []Layer
	Cursor    int
	Err       string
	Cancelled bool
}

// New creates the wizard for tmpl. Every layer starts selected.
func New(tmpl *layout.Template) Model {
	project := textinput.New()
	project.Placeholder = detectDirName()
	project.Focus()
	project.CharLimit = 100
	project.Width = 40

	feature := textinput.New()
	feature.Placeholder = "billing"
	feature.CharLimit = 100
	feature.Width = 40

	return Model{
		Step:    StepProject,
		Project: project,
		Feature: feature,
		Layers:  layersOf(tmpl),
	}
}

func detectDirName() string {
	wd, err := os.Getwd()
	if err != nil {
		return "my-project"
	}
	return filepath.Base(wd)
}

// layersOf pairs every feature layer with the selector token naming it
func layersOf(tmpl *layout.Template) []Layer {
	tokens := make([]string, 0, len(tmpl.Selectors))
	for tok := range tmpl.Selectors {
		tokens = append(tokens, tok)
	}
	sort.Strings(tokens)

	var layers []Layer
	for _, dir := range tmpl.Layers() {
		l := Layer{Token: dir, Dir: dir, Selected: true}
		for _, tok := range tokens {
			if tmpl.Selectors[tok] == dir {
				l.Token = tok
				break
			}
		}
		layers = append(layers, l)
	}
	return layers
}

// Choice returns the selected action
func (m Model) Choice() Choice {
	return choices[m.Action]
}

// Input returns the request the wizard collected. A full layer selection
// leaves Selectors empty, which means every layer.
func (m Model) Input() scaffold.Input {
	c := m.Choice()
	input := scaffold.Input{
		Project: m.projectName(),
		Action:  c.Action,
	}
	if !c.Feature {
		return input
	}

	input.Feature = m.Feature.Value()
	all := true
	for _, l := range m.Layers {
		if l.Selected {
			input.Selectors = append(input.Selectors, l.Token)
		} else {
			all = false
		}
	}
	if all {
		input.Selectors = nil
	}
	return input
}

func (m Model) projectName() string {
	if v := m.Project.Value(); v != "" {
		return v
	}
	return m.Project.Placeholder
}

func (m Model) Init() tea.Cmd {
	return textinput.Blink
}
