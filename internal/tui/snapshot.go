package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/1broseidon/borderless/internal/borderless"
	"github.com/1broseidon/borderless/internal/ipc"
	"github.com/1broseidon/borderless/internal/platform"
)

const refreshInterval = 2 * time.Second

// snapshot is one read of daemon state.
type snapshot struct {
	status  *ipc.StatusData
	windows []borderless.DiscoveredWindow
	rules   []borderless.MatchRule
	err     error
}

// held returns the windows the daemon currently keeps borderless.
func (s snapshot) held() map[platform.WindowID]bool {
	if s.status == nil {
		return borderless.HeldWindows(nil, s.rules)
	}
	return borderless.HeldWindows(s.status.Tracked, s.rules)
}

type snapshotMsg snapshot

type tickMsg struct{}

// actionMsg reports the outcome of a user action.
type actionMsg struct {
	text string
	err  error
}

type clearStatusMsg struct{}

func loadSnapshot(ctrl Controller) tea.Cmd {
	return func() tea.Msg {
		var s snapshot
		if s.status, s.err = ctrl.GetStatus(); s.err != nil {
			return snapshotMsg(s)
		}
		if s.windows, s.err = ctrl.ListWindows(); s.err != nil {
			return snapshotMsg(s)
		}
		s.rules, s.err = ctrl.Rules()
		return snapshotMsg(s)
	}
}

func tick() tea.Cmd {
	return tea.Tick(refreshInterval, func(time.Time) tea.Msg { return tickMsg{} })
}

func clearStatusLater() tea.Cmd {
	return tea.Tick(3*time.Second, func(time.Time) tea.Msg { return clearStatusMsg{} })
}

// runAction wraps a controller call into a command.
func runAction(fn func() (string, error)) tea.Cmd {
	return func() tea.Msg {
		text, err := fn()
		return actionMsg{text: text, err: err}
	}
}
