// Package borderless strips window chrome, stretches windows over their
// monitor and restores them to the exact windowed state they had before.
package borderless

import (
	"fmt"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/1broseidon/borderless/internal/platform"
)

// DiscoveredWindow is one entry of an enumeration pass. Entries are never
// mutated after Discover returns.
type DiscoveredWindow struct {
	ID        platform.WindowID `json:"id" yaml:"id"`
	Title     string            `json:"title" yaml:"title"`
	ImageName string            `json:"image_name" yaml:"image_name"`
	ProcessID uint32            `json:"pid" yaml:"pid"`
}

// DiscoverOptions tunes the enumeration filters.
type DiscoverOptions struct {
	// MinTitleLength is the minimum trimmed title length in characters.
	MinTitleLength int
	// HelperTitlePrefixes hides input-method and other helper windows.
	HelperTitlePrefixes []string
}

// DefaultDiscoverOptions returns the filters used when nothing is configured.
func DefaultDiscoverOptions() DiscoverOptions {
	return DiscoverOptions{
		MinTitleLength:      3,
		HelperTitlePrefixes: []string{"Default IME", "MSCTFIME UI"},
	}
}

// Discover enumerates visible, titled, top-level windows sorted by title.
// Image names are best effort; a process that cannot be queried reports
// platform.UnknownImageName.
func Discover(backend platform.Backend, resolver platform.ProcessResolver, opts DiscoverOptions) ([]DiscoveredWindow, error) {
	shell := backend.ShellWindow()

	var windows []DiscoveredWindow
	err := backend.EnumerateWindows(func(id platform.WindowID) bool {
		if id == shell || !backend.IsVisible(id) {
			return true
		}

		title, err := backend.Title(id)
		if err != nil {
			return true
		}
		title = strings.TrimSpace(title)
		if utf8.RuneCountInString(title) < opts.MinTitleLength || isHelperTitle(title, opts.HelperTitlePrefixes) {
			return true
		}

		w := DiscoveredWindow{ID: id, Title: title, ImageName: platform.UnknownImageName}
		if pid, err := backend.ProcessID(id); err == nil {
			w.ProcessID = pid
			if resolver != nil {
				w.ImageName = resolver.ImageName(pid)
			}
		}
		windows = append(windows, w)
		return true
	})
	if err != nil {
		return nil, fmt.Errorf("enumerate windows: %w", err)
	}

	sort.SliceStable(windows, func(i, j int) bool {
		if windows[i].Title != windows[j].Title {
			return windows[i].Title < windows[j].Title
		}
		return windows[i].ID < windows[j].ID
	})
	return windows, nil
}

func isHelperTitle(title string, prefixes []string) bool {
	for _, p := range prefixes {
		if p != "" && strings.HasPrefix(title, p) {
			return true
		}
	}
	return false
}

// FindFirst returns the first window the pattern matches under mode.
func FindFirst(windows []DiscoveredWindow, mode MatchMode, pattern string) (DiscoveredWindow, bool) {
	for _, w := range windows {
		if mode.Matches(w, pattern) {
			return w, true
		}
	}
	return DiscoveredWindow{}, false
}
