package borderless

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/1broseidon/borderless/internal/platform"
)

// SavedState is the pre-transform snapshot of a window. It is captured once
// when the window goes borderless and is never refreshed while it stays so.
type SavedState struct {
	Window    platform.WindowID  `json:"window" yaml:"window"`
	ProcessID uint32             `json:"pid" yaml:"pid"`
	Chrome    platform.Chrome    `json:"chrome" yaml:"chrome"`
	Placement platform.Placement `json:"placement" yaml:"placement"`
}

// MatchMode selects which window field a rule pattern is compared with.
type MatchMode int

const (
	MatchTitle MatchMode = iota
	MatchImageName
)

// ErrUnknownMatchMode is returned by ParseMatchMode.
var ErrUnknownMatchMode = errors.New("unknown match mode")

func (m MatchMode) String() string {
	switch m {
	case MatchTitle:
		return "title"
	case MatchImageName:
		return "exe"
	default:
		return fmt.Sprintf("MatchMode(%d)", int(m))
	}
}

// ParseMatchMode accepts "title", "exe" and "image".
func ParseMatchMode(s string) (MatchMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "title":
		return MatchTitle, nil
	case "exe", "image", "image_name":
		return MatchImageName, nil
	}
	return 0, fmt.Errorf("%w: %q (use title or exe)", ErrUnknownMatchMode, s)
}

func (m MatchMode) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

func (m *MatchMode) UnmarshalText(text []byte) error {
	parsed, err := ParseMatchMode(string(text))
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}

// Matches compares the pattern exactly and case-sensitively.
func (m MatchMode) Matches(w DiscoveredWindow, pattern string) bool {
	switch m {
	case MatchImageName:
		return w.ImageName == pattern
	default:
		return w.Title == pattern
	}
}

// MatchRule keeps one kind of window borderless whenever it is open.
type MatchRule struct {
	Pattern string    `json:"pattern" yaml:"pattern"`
	Mode    MatchMode `json:"mode" yaml:"mode"`
	// Saved belongs to the window the rule last transformed. It is left in
	// place, possibly stale, after that window disappears.
	Saved      *SavedState `json:"saved,omitempty" yaml:"saved,omitempty"`
	Fullscreen bool        `json:"fullscreen" yaml:"fullscreen"`
	// Suspended names a window the user restored by hand. The rule leaves
	// it windowed until it stops matching.
	Suspended platform.WindowID `json:"suspended,omitempty" yaml:"suspended,omitempty"`
}

// holds reports whether the rule currently owns the snapshot for id.
func (r *MatchRule) holds(id platform.WindowID) bool {
	return r.Fullscreen && r.Saved != nil && r.Saved.Window == id
}

// HeldWindows returns the windows currently borderless, either tracked by
// hand or held by a rule.
func HeldWindows(tracked []SavedState, rules []MatchRule) map[platform.WindowID]bool {
	held := make(map[platform.WindowID]bool, len(tracked))
	for _, saved := range tracked {
		held[saved.Window] = true
	}
	for _, r := range rules {
		if r.Fullscreen && r.Saved != nil {
			held[r.Saved.Window] = true
		}
	}
	return held
}

// ErrDuplicateRule is returned when a rule with the same pattern and mode exists.
var ErrDuplicateRule = errors.New("rule already exists")

// ErrRuleNotFound is returned for an out of range rule index.
var ErrRuleNotFound = errors.New("rule not found")

// Store owns the manual tracking table and the rule list. It is not safe for
// concurrent use; callers serialise access.
type Store struct {
	tracked map[platform.WindowID]SavedState
	rules   []*MatchRule
}

// NewStore returns an empty store.
func NewStore() *Store {
	return &Store{tracked: make(map[platform.WindowID]SavedState)}
}

// Tracked returns the manual entry for id.
func (s *Store) Tracked(id platform.WindowID) (SavedState, bool) {
	saved, ok := s.tracked[id]
	return saved, ok
}

// TrackedStates returns every manual entry ordered by window id.
func (s *Store) TrackedStates() []SavedState {
	out := make([]SavedState, 0, len(s.tracked))
	for _, saved := range s.tracked {
		out = append(out, saved)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Window < out[j].Window })
	return out
}

// Captured reports whether any manual entry or fullscreen rule holds a
// snapshot for id.
func (s *Store) Captured(id platform.WindowID) bool {
	if _, ok := s.tracked[id]; ok {
		return true
	}
	return s.ruleHolding(id) != nil
}

func (s *Store) ruleHolding(id platform.WindowID) *MatchRule {
	for _, r := range s.rules {
		if r.holds(id) {
			return r
		}
	}
	return nil
}

// Rules returns copies of the rules in evaluation order.
func (s *Store) Rules() []MatchRule {
	out := make([]MatchRule, len(s.rules))
	for i, r := range s.rules {
		out[i] = *r
		if r.Saved != nil {
			saved := *r.Saved
			out[i].Saved = &saved
		}
	}
	return out
}

// AddRule appends a rule and returns its index.
func (s *Store) AddRule(pattern string, mode MatchMode) (int, error) {
	if strings.TrimSpace(pattern) == "" {
		return -1, fmt.Errorf("rule pattern must not be empty")
	}
	for _, r := range s.rules {
		if r.Pattern == pattern && r.Mode == mode {
			return -1, fmt.Errorf("%w: %s %q", ErrDuplicateRule, mode, pattern)
		}
	}
	s.rules = append(s.rules, &MatchRule{Pattern: pattern, Mode: mode})
	return len(s.rules) - 1, nil
}

// checkEdit validates changing the rule at index to mode and pattern.
func (s *Store) checkEdit(index int, mode MatchMode, pattern string) (*MatchRule, error) {
	r, err := s.rule(index)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(pattern) == "" {
		return nil, fmt.Errorf("rule pattern must not be empty")
	}
	for i, other := range s.rules {
		if i != index && other.Pattern == pattern && other.Mode == mode {
			return nil, fmt.Errorf("%w: %s %q", ErrDuplicateRule, mode, pattern)
		}
	}
	return r, nil
}

func (s *Store) rule(index int) (*MatchRule, error) {
	if index < 0 || index >= len(s.rules) {
		return nil, fmt.Errorf("%w: index %d", ErrRuleNotFound, index)
	}
	return s.rules[index], nil
}

func (s *Store) deleteRule(index int) {
	s.rules = append(s.rules[:index], s.rules[index+1:]...)
}
