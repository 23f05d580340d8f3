package tui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/1broseidon/borderless/internal/borderless"
	"github.com/1broseidon/borderless/internal/platform"
)

// windowItem implements list.Item for one discovered window.
type windowItem struct {
	window     borderless.DiscoveredWindow
	borderless bool
}

func (i windowItem) Title() string {
	prefix := "  "
	if i.borderless {
		prefix = "* "
	}
	return prefix + i.window.Title
}

func (i windowItem) Description() string {
	return fmt.Sprintf("  0x%x  %s  pid %d", uint64(i.window.ID), i.window.ImageName, i.window.ProcessID)
}

func (i windowItem) FilterValue() string { return i.window.Title + " " + i.window.ImageName }

// WindowsTab lists windows and toggles them.
type WindowsTab struct {
	list list.Model
	ctrl Controller
}

func NewWindowsTab(ctrl Controller) WindowsTab {
	delegate := list.NewDefaultDelegate()
	delegate.SetSpacing(0)

	l := list.New(nil, delegate, 0, 0)
	l.Title = "Windows"
	l.SetShowStatusBar(false)
	l.SetShowHelp(false)
	l.SetFilteringEnabled(false)
	l.DisableQuitKeybindings()

	return WindowsTab{list: l, ctrl: ctrl}
}

func buildWindowItems(windows []borderless.DiscoveredWindow, held map[platform.WindowID]bool) []list.Item {
	items := make([]list.Item, 0, len(windows))
	for _, w := range windows {
		items = append(items, windowItem{window: w, borderless: held[w.ID]})
	}
	return items
}

func (wt *WindowsTab) setWindows(windows []borderless.DiscoveredWindow, held map[platform.WindowID]bool) {
	wt.list.SetItems(buildWindowItems(windows, held))
}

func (wt WindowsTab) selected() (borderless.DiscoveredWindow, bool) {
	item, ok := wt.list.SelectedItem().(windowItem)
	return item.window, ok
}

// Update handles messages for the windows tab.
func (wt WindowsTab) Update(msg tea.Msg) (WindowsTab, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		wt.list.SetSize(msg.Width, msg.Height)
		return wt, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "enter", " ":
			return wt, wt.toggleSelected()
		case "t":
			return wt, wt.addRuleForSelected(borderless.MatchTitle)
		case "e":
			return wt, wt.addRuleForSelected(borderless.MatchImageName)
		}
	}

	var cmd tea.Cmd
	wt.list, cmd = wt.list.Update(msg)
	return wt, cmd
}

func (wt WindowsTab) toggleSelected() tea.Cmd {
	w, ok := wt.selected()
	if !ok {
		return nil
	}
	ctrl := wt.ctrl
	return runAction(func() (string, error) {
		res, err := ctrl.Toggle(borderless.Target{ID: w.ID})
		if err != nil {
			return "", err
		}
		state := "windowed"
		if res.Borderless {
			state = "borderless"
		}
		return fmt.Sprintf("%s: %s", w.Title, state), nil
	})
}

func (wt WindowsTab) addRuleForSelected(mode borderless.MatchMode) tea.Cmd {
	w, ok := wt.selected()
	if !ok {
		return nil
	}
	pattern := w.Title
	if mode == borderless.MatchImageName {
		pattern = w.ImageName
	}
	if pattern == "" {
		return runAction(func() (string, error) {
			return "", fmt.Errorf("window has no %s", mode)
		})
	}
	ctrl := wt.ctrl
	return runAction(func() (string, error) {
		index, err := ctrl.AddRule(pattern, mode)
		if err != nil {
			return "", err
		}
		if _, err := ctrl.Reconcile(); err != nil {
			return "", err
		}
		return fmt.Sprintf("rule %d added: %s %q", index, mode, pattern), nil
	})
}

func (wt WindowsTab) View() string {
	return wt.list.View()
}
