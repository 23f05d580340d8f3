package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/1broseidon/borderless/internal/borderless"
)

// ruleItem implements list.Item for one match rule.
type ruleItem struct {
	index int
	rule  borderless.MatchRule
}

func (i ruleItem) Title() string {
	return fmt.Sprintf("%d  %-5s %s", i.index, i.rule.Mode, i.rule.Pattern)
}

func (i ruleItem) Description() string {
	switch {
	case i.rule.Fullscreen && i.rule.Saved != nil:
		return fmt.Sprintf("   borderless: 0x%x", uint64(i.rule.Saved.Window))
	case i.rule.Suspended != 0:
		return fmt.Sprintf("   suspended: 0x%x restored by hand", uint64(i.rule.Suspended))
	}
	return "   waiting for a match"
}

func (i ruleItem) FilterValue() string { return i.rule.Pattern }

type promptKind int

const (
	promptNone promptKind = iota
	promptAdd
	promptEdit
)

// RulesTab lists rules and edits them.
type RulesTab struct {
	list  list.Model
	ctrl  Controller
	input textinput.Model

	prompt    promptKind
	mode      borderless.MatchMode
	editIndex int
	width     int
}

func NewRulesTab(ctrl Controller) RulesTab {
	delegate := list.NewDefaultDelegate()
	delegate.SetSpacing(0)

	l := list.New(nil, delegate, 0, 0)
	l.Title = "Rules"
	l.SetShowStatusBar(false)
	l.SetShowHelp(false)
	l.SetFilteringEnabled(false)
	l.DisableQuitKeybindings()

	ti := textinput.New()
	ti.CharLimit = 256

	return RulesTab{list: l, ctrl: ctrl, input: ti}
}

func buildRuleItems(rules []borderless.MatchRule) []list.Item {
	items := make([]list.Item, 0, len(rules))
	for i, r := range rules {
		items = append(items, ruleItem{index: i, rule: r})
	}
	return items
}

func (rt *RulesTab) setRules(rules []borderless.MatchRule) {
	rt.list.SetItems(buildRuleItems(rules))
}

// prompting reports whether the pattern input owns the keyboard.
func (rt RulesTab) prompting() bool {
	return rt.prompt != promptNone
}

// Update handles messages for the rules tab.
func (rt RulesTab) Update(msg tea.Msg) (RulesTab, tea.Cmd) {
	if size, ok := msg.(tea.WindowSizeMsg); ok {
		rt.width = size.Width
		rt.list.SetSize(size.Width, max(size.Height-1, 1))
		return rt, nil
	}
	if rt.prompting() {
		return rt.updatePrompt(msg)
	}

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "a":
			return rt.openPrompt(promptAdd, borderless.MatchTitle, -1, "")
		case "e":
			return rt.openPrompt(promptAdd, borderless.MatchImageName, -1, "")
		case "m":
			item, ok := rt.list.SelectedItem().(ruleItem)
			if !ok {
				return rt, nil
			}
			next := borderless.MatchImageName
			if item.rule.Mode == borderless.MatchImageName {
				next = borderless.MatchTitle
			}
			return rt.openPrompt(promptEdit, next, item.index, item.rule.Pattern)
		case "d", "x", "delete":
			item, ok := rt.list.SelectedItem().(ruleItem)
			if !ok {
				return rt, nil
			}
			return rt, rt.removeRule(item.index)
		}
	}

	var cmd tea.Cmd
	rt.list, cmd = rt.list.Update(msg)
	return rt, cmd
}

func (rt RulesTab) openPrompt(kind promptKind, mode borderless.MatchMode, index int, value string) (RulesTab, tea.Cmd) {
	rt.prompt = kind
	rt.mode = mode
	rt.editIndex = index
	rt.input.Reset()
	rt.input.SetValue(value)
	rt.input.Placeholder = fmt.Sprintf("%s pattern", mode)
	rt.input.Focus()
	return rt, textinput.Blink
}

func (rt RulesTab) closePrompt() RulesTab {
	rt.prompt = promptNone
	rt.input.Blur()
	return rt
}

func (rt RulesTab) updatePrompt(msg tea.Msg) (RulesTab, tea.Cmd) {
	if km, ok := msg.(tea.KeyMsg); ok {
		switch km.String() {
		case "enter":
			pattern := strings.TrimSpace(rt.input.Value())
			kind, mode, index := rt.prompt, rt.mode, rt.editIndex
			rt = rt.closePrompt()
			if pattern == "" {
				return rt, nil
			}
			if kind == promptEdit {
				return rt, rt.setMode(index, mode, pattern)
			}
			return rt, rt.addRule(pattern, mode)
		case "esc":
			return rt.closePrompt(), nil
		}
	}

	var cmd tea.Cmd
	rt.input, cmd = rt.input.Update(msg)
	return rt, cmd
}

func (rt RulesTab) addRule(pattern string, mode borderless.MatchMode) tea.Cmd {
	ctrl := rt.ctrl
	return runAction(func() (string, error) {
		index, err := ctrl.AddRule(pattern, mode)
		if err != nil {
			return "", err
		}
		if _, err := ctrl.Reconcile(); err != nil {
			return "", err
		}
		return fmt.Sprintf("rule %d added", index), nil
	})
}

func (rt RulesTab) setMode(index int, mode borderless.MatchMode, pattern string) tea.Cmd {
	ctrl := rt.ctrl
	return runAction(func() (string, error) {
		if err := ctrl.SetRuleMode(index, mode, pattern); err != nil {
			return "", err
		}
		return fmt.Sprintf("rule %d now matches %s %q", index, mode, pattern), nil
	})
}

func (rt RulesTab) removeRule(index int) tea.Cmd {
	ctrl := rt.ctrl
	return runAction(func() (string, error) {
		removed, err := ctrl.RemoveRule(index)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("rule removed: %s %q", removed.Mode, removed.Pattern), nil
	})
}

func (rt RulesTab) View() string {
	if !rt.prompting() {
		return rt.list.View()
	}
	label := "new rule"
	if rt.prompt == promptEdit {
		label = fmt.Sprintf("edit rule %d", rt.editIndex)
	}
	inputLine := lipgloss.NewStyle().
		Padding(0, 1).
		Width(rt.width).
		Render(fmt.Sprintf("%s (%s): %s", label, rt.mode, rt.input.View()))
	return lipgloss.JoinVertical(lipgloss.Left, rt.list.View(), inputLine)
}
