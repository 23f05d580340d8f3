package tui

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// model is the root bubbletea model for the dashboard.
type model struct {
	ctrl Controller
	snap snapshot

	activeTab  Tab
	windowsTab WindowsTab
	rulesTab   RulesTab

	message      string
	messageIsErr bool

	width  int
	height int
}

func newModel(ctrl Controller) model {
	return model{
		ctrl:       ctrl,
		activeTab:  TabWindows,
		windowsTab: NewWindowsTab(ctrl),
		rulesTab:   NewRulesTab(ctrl),
	}
}

// contentHeight returns the height available for tab content: status bar,
// tab bar with margin, message bar and help bar take five lines.
func (m model) contentHeight() int {
	return max(m.height-5, 1)
}

// Init implements tea.Model.
func (m model) Init() tea.Cmd {
	return tea.Batch(loadSnapshot(m.ctrl), tick())
}

// Update implements tea.Model.
func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case snapshotMsg:
		m.snap = snapshot(msg)
		if msg.err == nil {
			m.windowsTab.setWindows(msg.windows, m.snap.held())
			m.rulesTab.setRules(msg.rules)
		}
		return m, nil

	case tickMsg:
		return m, tea.Batch(loadSnapshot(m.ctrl), tick())

	case actionMsg:
		if msg.err != nil {
			m.message, m.messageIsErr = fmt.Sprintf("error: %v", msg.err), true
		} else {
			m.message, m.messageIsErr = msg.text, false
		}
		return m, tea.Batch(loadSnapshot(m.ctrl), clearStatusLater())

	case clearStatusMsg:
		m.message = ""
		return m, nil

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		sub := tea.WindowSizeMsg{Width: m.width, Height: m.contentHeight()}
		m.windowsTab, _ = m.windowsTab.Update(sub)
		m.rulesTab, _ = m.rulesTab.Update(sub)
		return m, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		// The pattern input consumes every other key.
		if m.activeTab == TabRules && m.rulesTab.prompting() {
			var cmd tea.Cmd
			m.rulesTab, cmd = m.rulesTab.Update(msg)
			return m, cmd
		}
		switch msg.String() {
		case "q":
			return m, tea.Quit
		case "tab":
			m.activeTab = (m.activeTab + 1) % tabCount
			return m, nil
		case "shift+tab":
			m.activeTab = (m.activeTab - 1 + tabCount) % tabCount
			return m, nil
		case "1":
			m.activeTab = TabWindows
			return m, nil
		case "2":
			m.activeTab = TabRules
			return m, nil
		case "r":
			return m, m.reconcile()
		}
	}

	var cmd tea.Cmd
	switch m.activeTab {
	case TabWindows:
		m.windowsTab, cmd = m.windowsTab.Update(msg)
	case TabRules:
		m.rulesTab, cmd = m.rulesTab.Update(msg)
	}
	return m, cmd
}

func (m model) reconcile() tea.Cmd {
	ctrl := m.ctrl
	return runAction(func() (string, error) {
		res, err := ctrl.Reconcile()
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("reconciled: %d applied, %d matched, %d reset", len(res.Applied), res.Matched, res.Reset), nil
	})
}

// View implements tea.Model.
func (m model) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}

	var content string
	switch m.activeTab {
	case TabWindows:
		content = m.windowsTab.View()
	case TabRules:
		content = m.rulesTab.View()
	}
	content = lipgloss.NewStyle().Height(m.contentHeight()).Render(content)

	message, isErr := m.message, m.messageIsErr
	if message == "" && m.snap.err != nil {
		message, isErr = m.snap.err.Error(), true
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		renderStatusBar(m.snap, m.width),
		renderTabBar(m.activeTab, m.width),
		content,
		renderMessageBar(message, isErr, tabKeys(m.activeTab), m.width),
		renderHelpBar(m.width),
	)
}
