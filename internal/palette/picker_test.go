package palette

import (
	"errors"
	"testing"

	"github.com/1broseidon/borderless/internal/borderless"
	"github.com/1broseidon/borderless/internal/platform"
)

type fakeBackend struct {
	caps    Capabilities
	results []SelectResult
	err     error
	shown   [][]Item
}

func (f *fakeBackend) Capabilities() Capabilities { return f.caps }

func (f *fakeBackend) Show(prompt string, items []Item, message string) (SelectResult, error) {
	f.shown = append(f.shown, items)
	if f.err != nil {
		return SelectResult{}, f.err
	}
	if len(f.results) == 0 {
		return SelectResult{}, ErrCancelled
	}
	res := f.results[0]
	f.results = f.results[1:]
	return res, nil
}

var pickWindows = []borderless.DiscoveredWindow{
	{ID: 0x30, Title: "Zeta", ImageName: "zeta"},
	{ID: 0x10, Title: "Alpha", ImageName: "alpha.exe"},
	{ID: 0x20, Title: "Game", ImageName: "game"},
}

func TestWindowItems(t *testing.T) {
	items := WindowItems(pickWindows, map[platform.WindowID]bool{0x20: true})

	wantLabels := []string{"Borderless", "Game  [game]", "Windowed", "Alpha  [alpha.exe]", "Zeta  [zeta]"}
	if len(items) != len(wantLabels) {
		t.Fatalf("got %d items, want %d", len(items), len(wantLabels))
	}
	for i, want := range wantLabels {
		if items[i].Label != want {
			t.Errorf("items[%d].Label = %q, want %q", i, items[i].Label, want)
		}
	}
	if !items[0].IsHeader || !items[2].IsHeader {
		t.Error("section rows should be headers")
	}
	if !items[1].IsActive || items[3].IsActive {
		t.Error("only borderless rows should be active")
	}
	if items[1].Key != "0x20" || items[3].Icon != "alpha" {
		t.Errorf("row = %+v / %+v", items[1], items[3])
	}
}

func TestWindowItems_SkipsEmptySection(t *testing.T) {
	items := WindowItems(pickWindows, nil)
	if items[0].Label != "Windowed" {
		t.Errorf("first row = %q, want Windowed header", items[0].Label)
	}
}

func TestPickWindow_Actions(t *testing.T) {
	tests := []struct {
		exit int
		want Action
	}{
		{ExitNormal, ActionToggle},
		{ExitCustom1, ActionRuleTitle},
		{ExitCustom2, ActionRuleExe},
	}
	for _, tt := range tests {
		t.Run(string(tt.want), func(t *testing.T) {
			fb := &fakeBackend{results: []SelectResult{{Item: Item{Key: "0x10"}, ExitCode: tt.exit}}}
			choice, err := PickWindow(fb, pickWindows, nil)
			if err != nil {
				t.Fatalf("PickWindow() error = %v", err)
			}
			if choice.Window.ID != 0x10 || choice.Action != tt.want {
				t.Errorf("choice = %+v, want window 0x10 action %s", choice, tt.want)
			}
		})
	}
}

func TestPickWindow_HeaderReprompts(t *testing.T) {
	fb := &fakeBackend{results: []SelectResult{
		{Item: Item{Label: "Windowed", IsHeader: true}},
		{Item: Item{Key: "0x30"}},
	}}
	choice, err := PickWindow(fb, pickWindows, nil)
	if err != nil {
		t.Fatalf("PickWindow() error = %v", err)
	}
	if choice.Window.Title != "Zeta" {
		t.Errorf("picked %q", choice.Window.Title)
	}
	if len(fb.shown) != 2 {
		t.Errorf("shown %d times, want 2", len(fb.shown))
	}
}

func TestPickWindow_Errors(t *testing.T) {
	if _, err := PickWindow(&fakeBackend{}, nil, nil); err == nil {
		t.Error("expected error for empty window list")
	}

	fb := &fakeBackend{}
	if _, err := PickWindow(fb, pickWindows, nil); !errors.Is(err, ErrCancelled) {
		t.Errorf("error = %v, want ErrCancelled", err)
	}

	fb = &fakeBackend{results: []SelectResult{{Item: Item{Key: "0x99"}}}}
	if _, err := PickWindow(fb, pickWindows, nil); err == nil {
		t.Error("expected error for unknown key")
	}
}
