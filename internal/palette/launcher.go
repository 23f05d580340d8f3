package palette

import (
	"bytes"
	"errors"
	"fmt"
	"html"
	"os/exec"
	"strconv"
	"strings"
)

// ErrCancelled is returned when the user closes the launcher without picking.
var ErrCancelled = errors.New("palette cancelled")

// Exit codes of rofi custom keybindings.
const (
	ExitNormal  = 0
	ExitCustom1 = 10 // Alt+Return
	ExitCustom2 = 11 // Alt+e
)

type launcherKind int

const (
	kindRofi launcherKind = iota
	kindFuzzel
	kindWofi
	kindDmenu
)

// launcher drives any dmenu-compatible program over stdin/stdout.
type launcher struct {
	command string
	kind    launcherKind
	caps    Capabilities
}

func newRofi() *launcher {
	return &launcher{
		command: "rofi",
		kind:    kindRofi,
		caps: Capabilities{
			Icons:         true,
			Markup:        true,
			NonSelectable: true,
			CustomKeys:    true,
			IndexOutput:   true,
			MessageBar:    true,
			RowStates:     true,
		},
	}
}

func newFuzzel() *launcher {
	return &launcher{command: "fuzzel", kind: kindFuzzel, caps: Capabilities{Icons: true, IndexOutput: true}}
}

func newWofi() *launcher {
	return &launcher{command: "wofi", kind: kindWofi, caps: Capabilities{Icons: true, Markup: true}}
}

func newDmenu() *launcher {
	return &launcher{command: "dmenu", kind: kindDmenu}
}

func (l *launcher) Capabilities() Capabilities {
	return l.caps
}

func (l *launcher) Show(prompt string, items []Item, message string) (SelectResult, error) {
	if len(items) == 0 {
		return SelectResult{}, fmt.Errorf("palette: no items to show")
	}

	rows := make([]Item, len(items))
	copy(rows, items)
	input, active := l.formatInput(rows)

	cmd := exec.Command(l.command, l.buildArgs(prompt, message, active)...)
	cmd.Stdin = strings.NewReader(input)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	out, err := cmd.Output()
	selection := strings.TrimSpace(string(out))

	exitCode := 0
	if err != nil {
		var exitErr *exec.ExitError
		if !errors.As(err, &exitErr) {
			return SelectResult{}, fmt.Errorf("%s failed: %w", l.command, err)
		}
		exitCode = exitErr.ExitCode()
		if selection == "" && isCancelExit(exitCode) {
			return SelectResult{}, ErrCancelled
		}
		if exitCode != ExitCustom1 && exitCode != ExitCustom2 {
			if msg := strings.TrimSpace(stderr.String()); msg != "" {
				return SelectResult{}, fmt.Errorf("%s failed: %s", l.command, msg)
			}
			return SelectResult{}, fmt.Errorf("%s failed: %w", l.command, err)
		}
	}
	if selection == "" {
		return SelectResult{}, ErrCancelled
	}

	item, err := l.parseSelection(selection, rows)
	if err != nil {
		return SelectResult{}, err
	}
	return SelectResult{Item: item, ExitCode: exitCode}, nil
}

func (l *launcher) buildArgs(prompt, message string, active []int) []string {
	var args []string

	switch l.kind {
	case kindRofi:
		args = []string{"-dmenu", "-i", "-format", "i", "-no-custom", "-markup-rows", "-show-icons"}
		if prompt != "" {
			args = append(args, "-p", prompt)
		}
		if len(active) > 0 {
			args = append(args, "-a", formatIndices(active))
		}
		args = append(args, "-kb-custom-1", "Alt+Return", "-kb-custom-2", "Alt+e")
		if message != "" {
			args = append(args, "-mesg", message)
		}
	case kindFuzzel:
		args = []string{"--dmenu", "--index"}
		if prompt != "" {
			args = append(args, "--prompt", prompt)
		}
	case kindWofi:
		args = []string{"--dmenu", "--allow-markup", "--allow-images"}
		if prompt != "" {
			args = append(args, "--prompt", prompt)
		}
	case kindDmenu:
		args = []string{"-i", "-l", "20"}
		if prompt != "" {
			args = append(args, "-p", prompt)
		}
	}
	return args
}

// formatInput renders one line per row and returns the indices of active
// rows. Launchers that echo the label back get unique labels.
func (l *launcher) formatInput(items []Item) (string, []int) {
	if !l.caps.IndexOutput {
		seen := make(map[string]int)
		for i := range items {
			if items[i].IsHeader {
				continue
			}
			label := sanitizeLabel(items[i].Label)
			if n := seen[label]; n > 0 {
				items[i].Label = fmt.Sprintf("%s (%d)", label, n+1)
			}
			seen[label]++
		}
	}

	lines := make([]string, 0, len(items))
	var active []int
	for i, item := range items {
		lines = append(lines, l.formatItem(item))
		if l.caps.RowStates && item.IsActive && !item.IsHeader {
			active = append(active, i)
		}
	}
	return strings.Join(lines, "\n"), active
}

func (l *launcher) formatItem(item Item) string {
	display := sanitizeLabel(item.Label)
	if l.caps.Markup {
		display = html.EscapeString(display)
		if item.IsHeader {
			display = "<b>" + display + "</b>"
		}
	}
	if l.kind != kindRofi {
		return display
	}

	// Rofi row properties: one NUL, then key\x1fvalue pairs joined by \x1f.
	var attrs []string
	if item.IsHeader {
		attrs = append(attrs, "nonselectable", "true")
	}
	if item.Icon != "" {
		attrs = append(attrs, "icon", sanitizeRofiField(item.Icon))
	}
	if item.Meta != "" {
		attrs = append(attrs, "meta", sanitizeRofiField(item.Meta))
	}
	if len(attrs) == 0 {
		return display
	}
	return display + "\x00" + strings.Join(attrs, "\x1f")
}

func (l *launcher) parseSelection(selection string, items []Item) (Item, error) {
	if l.caps.IndexOutput {
		if idx, err := strconv.Atoi(selection); err == nil {
			if idx < 0 || idx >= len(items) {
				return Item{}, fmt.Errorf("palette: index %d out of range", idx)
			}
			return items[idx], nil
		}
	}
	for _, item := range items {
		if sanitizeLabel(item.Label) == selection {
			return item, nil
		}
	}
	return Item{}, fmt.Errorf("palette: unknown selection %q", selection)
}

func sanitizeLabel(label string) string {
	label = strings.ReplaceAll(label, "\r", " ")
	label = strings.ReplaceAll(label, "\n", " ")
	return strings.TrimSpace(label)
}

func sanitizeRofiField(value string) string {
	value = strings.ReplaceAll(value, "\x00", " ")
	value = strings.ReplaceAll(value, "\x1f", " ")
	return sanitizeLabel(value)
}

func formatIndices(indices []int) string {
	parts := make([]string, 0, len(indices))
	for _, i := range indices {
		parts = append(parts, strconv.Itoa(i))
	}
	return strings.Join(parts, ",")
}

// isCancelExit reports the exit codes launchers use for "nothing picked"
// (1) and Ctrl+C (130).
func isCancelExit(code int) bool {
	return code == 1 || code == 130
}
