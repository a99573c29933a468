package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/noteweave/noteweave/internal/index"
	"github.com/noteweave/noteweave/internal/vault"
)

// Run builds a browse Model over idx/v and drives it in the alt screen
// until the user quits.
func Run(idx *index.Index, v *vault.Vault) error {
	m, err := New(idx, v)
	if err != nil {
		return err
	}
	_, err = tea.NewProgram(m, tea.WithAltScreen()).Run()
	return err
}
