package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
)

// Tab identifies a dashboard tab.
type Tab int

const (
	TabWindows Tab = iota
	TabRules
	tabCount // sentinel for iteration
)

func (t Tab) String() string {
	switch t {
	case TabWindows:
		return "Windows"
	case TabRules:
		return "Rules"
	default:
		return "?"
	}
}

var (
	activeTabStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("15")).
			Background(lipgloss.Color("62")).
			Padding(0, 2)

	inactiveTabStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("250")).
				Background(lipgloss.Color("236")).
				Padding(0, 2)

	tabBarStyle = lipgloss.NewStyle().
			MarginBottom(1)

	tabGap = lipgloss.NewStyle().
		Background(lipgloss.Color("235")).
		SetString(" ")

	okStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	errorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	dimStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

// renderTabBar renders the tab bar with the given active tab and width.
func renderTabBar(active Tab, width int) string {
	var tabs []string
	for i := Tab(0); i < tabCount; i++ {
		label := fmt.Sprintf("%d:%s", int(i)+1, i)
		if i == active {
			tabs = append(tabs, activeTabStyle.Render(label))
		} else {
			tabs = append(tabs, inactiveTabStyle.Render(label))
		}
	}

	row := lipgloss.JoinHorizontal(lipgloss.Top, intersperse(tabs, tabGap.Render())...)
	return tabBarStyle.Width(width).Render(row)
}

// intersperse inserts sep between each element of items.
func intersperse(items []string, sep string) []string {
	if len(items) <= 1 {
		return items
	}
	result := make([]string, 0, len(items)*2-1)
	for i, item := range items {
		if i > 0 {
			result = append(result, sep)
		}
		result = append(result, item)
	}
	return result
}

// statusLine summarises a snapshot for the status bar.
func statusLine(s snapshot) string {
	if s.err != nil || s.status == nil {
		return dimStyle.Render("●") + " daemon not running"
	}
	active := 0
	for _, r := range s.rules {
		if r.Fullscreen {
			active++
		}
	}
	parts := []string{
		okStyle.Render("●") + " daemon connected",
		"up " + (time.Duration(s.status.UptimeSeconds) * time.Second).String(),
		fmt.Sprintf("borderless:%d", len(s.held())),
		fmt.Sprintf("rules:%d (%d active)", len(s.rules), active),
	}
	return strings.Join(parts, "  ")
}

func renderStatusBar(s snapshot, width int) string {
	style := lipgloss.NewStyle().
		Width(width).
		Background(lipgloss.Color("235")).
		Foreground(lipgloss.Color("250")).
		Padding(0, 1)
	return style.Render(statusLine(s))
}

// renderMessageBar shows the last action result on the left and the tab's
// keys on the right.
func renderMessageBar(text string, isErr bool, keys string, width int) string {
	left := ""
	if text != "" {
		if isErr {
			left = errorStyle.Render(text)
		} else {
			left = okStyle.Render(text)
		}
	}
	right := dimStyle.Render(keys)

	gap := width - lipgloss.Width(left) - lipgloss.Width(right) - 2
	if gap < 1 {
		gap = 1
	}
	return lipgloss.NewStyle().
		Width(width).
		Padding(0, 1).
		Render(left + strings.Repeat(" ", gap) + right)
}

// renderHelpBar renders the bottom help/keybinding bar.
func renderHelpBar(width int) string {
	help := "tab/shift-tab: switch tabs  1-2: jump to tab  r: reconcile  q/ctrl-c: quit"
	return lipgloss.NewStyle().
		Width(width).
		Foreground(lipgloss.Color("241")).
		Padding(0, 1).
		Render(help)
}

func tabKeys(t Tab) string {
	switch t {
	case TabWindows:
		return "enter: toggle  t: rule by title  e: rule by exe"
	case TabRules:
		return "a: add title rule  e: add exe rule  m: switch mode  d: delete"
	}
	return ""
}
