// Package palette shows window lists in an external launcher (rofi, fuzzel,
// wofi or dmenu) and returns what the user picked.
package palette

import (
	"fmt"
	"os/exec"
	"strings"
)

// Item is a single row in the launcher.
type Item struct {
	Label    string // Display text
	Key      string // Returned on selection; empty for headers
	Icon     string // Icon name for rofi -show-icons
	Meta     string // Hidden search keywords
	IsHeader bool   // Non-selectable section header
	IsActive bool   // Highlighted row
}

// SelectResult contains the picked row and the launcher exit code.
type SelectResult struct {
	Item     Item
	ExitCode int
}

// Capabilities describes what a launcher supports.
type Capabilities struct {
	Icons         bool
	Markup        bool
	NonSelectable bool
	CustomKeys    bool
	IndexOutput   bool
	MessageBar    bool
	RowStates     bool
}

// Backend shows rows to the user and returns the selection.
type Backend interface {
	Show(prompt string, items []Item, message string) (SelectResult, error)
	Capabilities() Capabilities
}

// launchers in detection order.
var launchers = []string{"rofi", "fuzzel", "wofi", "dmenu"}

// DetectBackend returns the first launcher found in PATH.
func DetectBackend() (string, error) {
	for _, name := range launchers {
		if _, err := exec.LookPath(name); err == nil {
			return name, nil
		}
	}
	return "", fmt.Errorf("no launcher found in PATH (looked for: %s)", strings.Join(launchers, ", "))
}

// NewBackend creates a launcher backend by name. Supported names: auto,
// rofi, fuzzel, wofi, dmenu.
func NewBackend(name string) (Backend, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" || name == "auto" {
		detected, err := DetectBackend()
		if err != nil {
			return nil, err
		}
		name = detected
	}

	var b *launcher
	switch name {
	case "rofi":
		b = newRofi()
	case "fuzzel":
		b = newFuzzel()
	case "wofi":
		b = newWofi()
	case "dmenu":
		b = newDmenu()
	default:
		return nil, fmt.Errorf("unknown launcher: %q (expected: auto, %s)", name, strings.Join(launchers, ", "))
	}
	if _, err := exec.LookPath(b.command); err != nil {
		return nil, fmt.Errorf("launcher %q not found in PATH", b.command)
	}
	return b, nil
}
