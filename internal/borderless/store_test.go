package borderless

import "testing"

func TestHeldWindows(t *testing.T) {
	tracked := []SavedState{{Window: 0x10}}
	rules := []MatchRule{
		{Pattern: "Game", Fullscreen: true, Saved: &SavedState{Window: 0x20}},
		{Pattern: "Stale", Saved: &SavedState{Window: 0x30}},
		{Pattern: "Idle"},
	}

	held := HeldWindows(tracked, rules)
	if len(held) != 2 || !held[0x10] || !held[0x20] {
		t.Errorf("HeldWindows() = %v, want 0x10 and 0x20", held)
	}
	if got := HeldWindows(nil, nil); len(got) != 0 {
		t.Errorf("HeldWindows(nil, nil) = %v", got)
	}
}
