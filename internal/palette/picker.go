package palette

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/1broseidon/borderless/internal/borderless"
	"github.com/1broseidon/borderless/internal/platform"
)

// Action is what the user asked for on the picked window.
type Action string

const (
	ActionToggle    Action = "toggle"
	ActionRuleTitle Action = "rule-title"
	ActionRuleExe   Action = "rule-exe"
)

// Choice is the outcome of a picker session.
type Choice struct {
	Window borderless.DiscoveredWindow
	Action Action
}

// maxHeaderRetries bounds re-prompts for launchers that let headers through.
const maxHeaderRetries = 3

// PickWindow lists windows grouped by state and returns the user's choice.
// active marks windows that are currently borderless.
func PickWindow(b Backend, windows []borderless.DiscoveredWindow, active map[platform.WindowID]bool) (Choice, error) {
	if len(windows) == 0 {
		return Choice{}, errors.New("no windows to pick from")
	}
	items := WindowItems(windows, active)

	message := ""
	if b.Capabilities().CustomKeys {
		message = "Enter: toggle  Alt+Return: rule by title  Alt+e: rule by exe"
	}

	byKey := make(map[string]borderless.DiscoveredWindow, len(windows))
	for _, w := range windows {
		byKey[windowKey(w.ID)] = w
	}

	for range maxHeaderRetries {
		res, err := b.Show("borderless", items, message)
		if err != nil {
			return Choice{}, err
		}
		if res.Item.IsHeader || res.Item.Key == "" {
			continue
		}
		w, ok := byKey[res.Item.Key]
		if !ok {
			return Choice{}, fmt.Errorf("palette: unknown window %s", res.Item.Key)
		}
		return Choice{Window: w, Action: actionForExit(res.ExitCode)}, nil
	}
	return Choice{}, ErrCancelled
}

// WindowItems builds launcher rows: a "Borderless" section then a "Windowed"
// section, each sorted by title.
func WindowItems(windows []borderless.DiscoveredWindow, active map[platform.WindowID]bool) []Item {
	var on, off []borderless.DiscoveredWindow
	for _, w := range windows {
		if active[w.ID] {
			on = append(on, w)
		} else {
			off = append(off, w)
		}
	}

	var items []Item
	add := func(header string, group []borderless.DiscoveredWindow, isActive bool) {
		if len(group) == 0 {
			return
		}
		sort.SliceStable(group, func(i, j int) bool { return group[i].Title < group[j].Title })
		items = append(items, Item{Label: header, IsHeader: true})
		for _, w := range group {
			items = append(items, windowItem(w, isActive))
		}
	}
	add("Borderless", on, true)
	add("Windowed", off, false)
	return items
}

func windowItem(w borderless.DiscoveredWindow, isActive bool) Item {
	label := w.Title
	if w.ImageName != "" {
		label = fmt.Sprintf("%s  [%s]", w.Title, w.ImageName)
	}
	return Item{
		Label:    label,
		Key:      windowKey(w.ID),
		Icon:     iconName(w.ImageName),
		Meta:     w.ImageName,
		IsActive: isActive,
	}
}

func windowKey(id platform.WindowID) string {
	return "0x" + strconv.FormatUint(uint64(id), 16)
}

// iconName guesses a freedesktop icon name from an executable name.
func iconName(image string) string {
	return strings.ToLower(strings.TrimSuffix(image, ".exe"))
}

func actionForExit(code int) Action {
	switch code {
	case ExitCustom1:
		return ActionRuleTitle
	case ExitCustom2:
		return ActionRuleExe
	}
	return ActionToggle
}
