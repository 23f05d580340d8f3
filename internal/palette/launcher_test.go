package palette

import (
	"strings"
	"testing"
)

func TestBuildArgs(t *testing.T) {
	tests := []struct {
		name    string
		l       *launcher
		want    []string
		notWant []string
	}{
		{"rofi", newRofi(), []string{"-dmenu", "-format", "i", "-kb-custom-1", "Alt+Return", "-a", "1,2", "-mesg"}, nil},
		{"fuzzel", newFuzzel(), []string{"--dmenu", "--index", "--prompt"}, []string{"-kb-custom-1"}},
		{"wofi", newWofi(), []string{"--dmenu", "--allow-markup"}, []string{"--index"}},
		{"dmenu", newDmenu(), []string{"-i", "-l", "-p"}, []string{"-mesg"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			args := strings.Join(tt.l.buildArgs("pick", "hint", []int{1, 2}), " ")
			for _, w := range tt.want {
				if !strings.Contains(args, w) {
					t.Errorf("args %q missing %q", args, w)
				}
			}
			for _, w := range tt.notWant {
				if strings.Contains(args, w) {
					t.Errorf("args %q should not contain %q", args, w)
				}
			}
		})
	}
}

func TestFormatItem_Rofi(t *testing.T) {
	l := newRofi()
	got := l.formatItem(Item{Label: "Game <1>", Icon: "game", Meta: "game.exe"})
	want := "Game &lt;1&gt;\x00icon\x1fgame\x1fmeta\x1fgame.exe"
	if got != want {
		t.Errorf("formatItem() = %q, want %q", got, want)
	}

	header := l.formatItem(Item{Label: "Windowed", IsHeader: true})
	if header != "<b>Windowed</b>\x00nonselectable\x1ftrue" {
		t.Errorf("header = %q", header)
	}
}

func TestFormatItem_DmenuIsPlain(t *testing.T) {
	l := newDmenu()
	if got := l.formatItem(Item{Label: "a\nb <c>", Icon: "x"}); got != "a b <c>" {
		t.Errorf("formatItem() = %q", got)
	}
}

func TestFormatInput_ActiveAndDuplicates(t *testing.T) {
	l := newRofi()
	items := []Item{
		{Label: "Borderless", IsHeader: true, IsActive: true},
		{Label: "Game", Key: "0x1", IsActive: true},
		{Label: "Game", Key: "0x2"},
	}
	_, active := l.formatInput(items)
	if len(active) != 1 || active[0] != 1 {
		t.Errorf("active = %v, want [1]", active)
	}
	if items[2].Label != "Game" {
		t.Errorf("index launcher should keep labels, got %q", items[2].Label)
	}

	d := newDmenu()
	input, _ := d.formatInput(items)
	if !strings.Contains(input, "Game (2)") {
		t.Errorf("dmenu input %q should disambiguate duplicates", input)
	}
	if items[2].Label != "Game (2)" {
		t.Errorf("label = %q", items[2].Label)
	}
}

func TestParseSelection(t *testing.T) {
	items := []Item{{Label: "One", Key: "a"}, {Label: "Two", Key: "b"}}

	rofi := newRofi()
	if got, err := rofi.parseSelection("1", items); err != nil || got.Key != "b" {
		t.Errorf("index selection = %+v, %v", got, err)
	}
	if _, err := rofi.parseSelection("5", items); err == nil {
		t.Error("expected out of range error")
	}

	dmenu := newDmenu()
	if got, err := dmenu.parseSelection("One", items); err != nil || got.Key != "a" {
		t.Errorf("label selection = %+v, %v", got, err)
	}
	if _, err := dmenu.parseSelection("Three", items); err == nil {
		t.Error("expected unknown selection error")
	}
}

func TestNewBackend_Unknown(t *testing.T) {
	if _, err := NewBackend("kitty"); err == nil {
		t.Fatal("expected error for unknown launcher")
	}
}
