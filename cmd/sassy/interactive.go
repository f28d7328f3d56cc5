package sassy

import (
	"errors"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/halia-ca/sassy/internal/core/scaffold"
	"github.com/halia-ca/sassy/internal/layout"
	createTUI "github.com/halia-ca/sassy/internal/tui/create"
)

var errCancelled = errors.New("cancelled")

func runWizard(tmpl *layout.Template) (scaffold.Input, error) {
	p := tea.NewProgram(createTUI.New(tmpl))
	m, err := p.Run()
	if err != nil {
		return scaffold.Input{}, err
	}

	finalModel := m.(createTUI.Model)
	if finalModel.Cancelled {
		return scaffold.Input{}, errCancelled
	}
	return finalModel.Input(), nil
}

func isTerminal() bool {
	fi, err := os.Stdin.Stat()
	if err != nil {
		return false
	}
	return (fi.Mode() & os.ModeCharDevice) != 0
}
