// Package tui is an interactive dashboard for the daemon: the window list
// with toggle and rule shortcuts, and the rule list with edit actions.
package tui

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/term"

	"github.com/1broseidon/borderless/internal/borderless"
	"github.com/1broseidon/borderless/internal/daemon"
	"github.com/1broseidon/borderless/internal/ipc"
)

// Controller is the daemon surface the dashboard drives.
type Controller interface {
	GetStatus() (*ipc.StatusData, error)
	ListWindows() ([]borderless.DiscoveredWindow, error)
	Rules() ([]borderless.MatchRule, error)
	Toggle(target borderless.Target) (daemon.ActionResult, error)
	Reconcile() (borderless.ReconcileResult, error)
	AddRule(pattern string, mode borderless.MatchMode) (int, error)
	RemoveRule(index int) (borderless.MatchRule, error)
	SetRuleMode(index int, mode borderless.MatchMode, pattern string) error
}

var _ Controller = (*ipc.Client)(nil)

// Run starts the dashboard and blocks until the user quits.
func Run(ctrl Controller) error {
	if !term.IsTerminal(int(os.Stdin.Fd())) || !term.IsTerminal(int(os.Stdout.Fd())) {
		return fmt.Errorf("tui requires an interactive terminal (stdin/stdout must be TTYs)")
	}
	p := tea.NewProgram(newModel(ctrl), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
